// Package category は支出カテゴリ管理のドメインロジックを提供する。
package category

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/kakeibo/internal/model"
	"github.com/hitoshi/kakeibo/internal/repository"
	"github.com/hitoshi/kakeibo/internal/security"
)

// Service はカテゴリ管理のサービス層。
// 一覧取得、作成、削除ガードのビジネスロジックを提供する。
type Service struct {
	categoryRepo repository.CategoryRepository
	expenseRepo  repository.ExpenseRepository
	sanitizer    security.InputSanitizerService
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	categoryRepo repository.CategoryRepository,
	expenseRepo repository.ExpenseRepository,
	sanitizer security.InputSanitizerService,
) *Service {
	return &Service{
		categoryRepo: categoryRepo,
		expenseRepo:  expenseRepo,
		sanitizer:    sanitizer,
	}
}

// ListCategories はユーザーのカテゴリ一覧を名前昇順で返す。
func (s *Service) ListCategories(ctx context.Context, userID string) ([]*model.Category, error) {
	categories, err := s.categoryRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory は新しいカテゴリを作成する。
// 名前はHTMLタグを除去したうえで保存する。
// 同名カテゴリ（大文字小文字を区別する完全一致）が既に存在する場合は
// DUPLICATE_CATEGORYエラーを返す。
func (s *Service) CreateCategory(ctx context.Context, userID, name string) (*model.Category, error) {
	if s.sanitizer != nil {
		name = s.sanitizer.SanitizeText(name)
	}
	if name == "" {
		return nil, model.NewMissingFieldError("name")
	}

	existing, err := s.categoryRepo.FindByUserAndName(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing category: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateCategoryError(name)
	}

	category := &model.Category{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// DeleteCategory はカテゴリを削除する。
// カテゴリの検索は所有ユーザーでスコープし、他ユーザー所有は未検出として扱う。
// 支出から1件でも参照されている場合はCATEGORY_IN_USEエラー（参照件数つき）を返し、
// 削除は無条件に拒否する。カスケード削除や付け替えは行わない。
func (s *Service) DeleteCategory(ctx context.Context, userID, categoryID string) error {
	// UUID形式でないIDはDBに渡すと型エラーになるため未検出として扱う
	if _, err := uuid.Parse(categoryID); err != nil {
		return model.NewCategoryNotFoundError(categoryID)
	}

	category, err := s.categoryRepo.FindByUserAndID(ctx, userID, categoryID)
	if err != nil {
		return fmt.Errorf("failed to find category: %w", err)
	}
	if category == nil {
		return model.NewCategoryNotFoundError(categoryID)
	}

	count, err := s.expenseRepo.CountByCategoryID(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("failed to count expenses for category: %w", err)
	}
	if count > 0 {
		return model.NewCategoryInUseError(count)
	}

	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	slog.Info("category deleted",
		slog.String("user_id", userID),
		slog.String("category_id", categoryID),
	)

	return nil
}
