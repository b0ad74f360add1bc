package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/kakeibo/internal/model"
)

// PostgresCategoryRepo はPostgreSQLを使用したカテゴリリポジトリ。
type PostgresCategoryRepo struct {
	db *sql.DB
}

// NewPostgresCategoryRepo はPostgresCategoryRepoを生成する。
func NewPostgresCategoryRepo(db *sql.DB) *PostgresCategoryRepo {
	return &PostgresCategoryRepo{db: db}
}

// FindByUserAndID はユーザーIDとカテゴリIDでカテゴリを取得する。
// 他ユーザー所有のカテゴリは見つからない扱いでnilを返す。
func (r *PostgresCategoryRepo) FindByUserAndID(ctx context.Context, userID, id string) (*model.Category, error) {
	category := &model.Category{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at
		 FROM categories
		 WHERE user_id = $1 AND id = $2`,
		userID, id,
	).Scan(&category.ID, &category.UserID, &category.Name, &category.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}

	return category, nil
}

// FindByUserAndName はユーザーIDとカテゴリ名（完全一致）でカテゴリを検索する。
// 見つからない場合はnilを返す。
func (r *PostgresCategoryRepo) FindByUserAndName(ctx context.Context, userID, name string) (*model.Category, error) {
	category := &model.Category{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, created_at
		 FROM categories
		 WHERE user_id = $1 AND name = $2`,
		userID, name,
	).Scan(&category.ID, &category.UserID, &category.Name, &category.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category by name: %w", err)
	}

	return category, nil
}

// ListByUserID はユーザーのカテゴリ一覧を名前昇順で返す。
func (r *PostgresCategoryRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, created_at
		 FROM categories
		 WHERE user_id = $1
		 ORDER BY name ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*model.Category
	for rows.Next() {
		category := &model.Category{}
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name, &category.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return categories, nil
}

// Create はカテゴリを作成する。
func (r *PostgresCategoryRepo) Create(ctx context.Context, category *model.Category) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, user_id, name, created_at)
		 VALUES ($1, $2, $3, $4)`,
		category.ID, category.UserID, category.Name, category.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// Delete は指定IDのカテゴリを削除する。
func (r *PostgresCategoryRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// compile-time interface check
var _ CategoryRepository = (*PostgresCategoryRepo)(nil)
