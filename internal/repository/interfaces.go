// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/kakeibo/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// CreateWithDefaultCategories はユーザーとデフォルトカテゴリ群を
	// 同一トランザクションで作成する。
	CreateWithDefaultCategories(ctx context.Context, user *model.User, categories []*model.Category) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired は期限切れの全セッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}

// CategoryRepository はカテゴリデータの永続化インターフェース。
// すべての参照は所有ユーザーでスコープする。
type CategoryRepository interface {
	// FindByUserAndID はユーザーIDとカテゴリIDでカテゴリを取得する。
	// 他ユーザー所有のカテゴリは見つからない扱いでnilを返す。
	FindByUserAndID(ctx context.Context, userID, id string) (*model.Category, error)

	// FindByUserAndName はユーザーIDとカテゴリ名（完全一致）でカテゴリを検索する。
	// 見つからない場合はnilを返す。
	FindByUserAndName(ctx context.Context, userID, name string) (*model.Category, error)

	// ListByUserID はユーザーのカテゴリ一覧を名前昇順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Category, error)

	// Create はカテゴリを作成する。
	Create(ctx context.Context, category *model.Category) error

	// Delete は指定IDのカテゴリを削除する。
	Delete(ctx context.Context, id string) error
}

// ExpenseFilter は支出クエリの絞り込み条件。
// StartとEndが両方非nilの場合のみ日付範囲（両端含む）で絞り込む。
// Searchが空でない場合は説明文の部分一致（大文字小文字を区別しない）で絞り込む。
type ExpenseFilter struct {
	UserID string
	Start  *time.Time
	End    *time.Time
	Search string
}

// ExpenseRepository は支出データの永続化インターフェース。
type ExpenseRepository interface {
	// FindByUserAndID はユーザーIDと支出IDで支出をカテゴリ付きで取得する。
	// 他ユーザー所有の支出は見つからない扱いでnilを返す。
	FindByUserAndID(ctx context.Context, userID, id string) (*model.ExpenseWithCategory, error)

	// ListWithCategory は条件に一致する支出をカテゴリ付きで返す。
	// 並び順はdate降順、同時刻はID降順で決定的に返す。
	ListWithCategory(ctx context.Context, filter ExpenseFilter) ([]model.ExpenseWithCategory, error)

	// TotalAmount は条件に一致する支出の合計金額を返す。0件の場合は0を返す。
	TotalAmount(ctx context.Context, filter ExpenseFilter) (float64, error)

	// TotalsByCategory は条件に一致する支出のカテゴリ別合計を返す。
	// 支出が1件もないカテゴリは含まれない。合計金額降順、同額は名前昇順。
	TotalsByCategory(ctx context.Context, filter ExpenseFilter) ([]model.CategoryTotal, error)

	// CountByCategoryID は指定カテゴリを参照する支出の件数を返す。
	CountByCategoryID(ctx context.Context, categoryID string) (int, error)

	// Create は支出を作成する。
	Create(ctx context.Context, expense *model.Expense) error

	// Delete は指定IDの支出を削除する。
	Delete(ctx context.Context, id string) error
}
