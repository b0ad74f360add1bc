package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/hitoshi/kakeibo/internal/model"
)

// PostgresExpenseRepo はPostgreSQLを使用した支出リポジトリ。
type PostgresExpenseRepo struct {
	db *sql.DB
}

// NewPostgresExpenseRepo はPostgresExpenseRepoを生成する。
func NewPostgresExpenseRepo(db *sql.DB) *PostgresExpenseRepo {
	return &PostgresExpenseRepo{db: db}
}

// buildFilterClause はExpenseFilterからWHERE句と引数リストを構築する。
// 返されるWHERE句は "e.user_id = $1" から始まる。
func buildFilterClause(filter ExpenseFilter) (string, []any) {
	var sb strings.Builder
	args := []any{filter.UserID}

	sb.WriteString("e.user_id = $1")

	if filter.Start != nil && filter.End != nil {
		args = append(args, *filter.Start)
		fmt.Fprintf(&sb, " AND e.date >= $%d", len(args))
		args = append(args, *filter.End)
		fmt.Fprintf(&sb, " AND e.date <= $%d", len(args))
	}

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		fmt.Fprintf(&sb, " AND e.description ILIKE $%d", len(args))
	}

	return sb.String(), args
}

// buildListQuery は一覧取得クエリを組み立てる。
// 並び順はdate降順、同日の行はID降順で決定的になる。
func buildListQuery(filter ExpenseFilter) (string, []any) {
	where, args := buildFilterClause(filter)

	query := fmt.Sprintf(
		`SELECT e.id, e.user_id, e.category_id, e.amount, e.description, e.date, e.created_at, c.name
		 FROM expenses e
		 JOIN categories c ON c.id = e.category_id
		 WHERE %s
		 ORDER BY e.date DESC, e.id DESC`,
		where,
	)

	return query, args
}

// FindByUserAndID はユーザーIDと支出IDで支出をカテゴリ付きで取得する。
// 他ユーザー所有の支出は見つからない扱いでnilを返す。
func (r *PostgresExpenseRepo) FindByUserAndID(ctx context.Context, userID, id string) (*model.ExpenseWithCategory, error) {
	expense := &model.ExpenseWithCategory{}
	err := r.db.QueryRowContext(ctx,
		`SELECT e.id, e.user_id, e.category_id, e.amount, e.description, e.date, e.created_at, c.name
		 FROM expenses e
		 JOIN categories c ON c.id = e.category_id
		 WHERE e.user_id = $1 AND e.id = $2`,
		userID, id,
	).Scan(
		&expense.ID, &expense.UserID, &expense.CategoryID, &expense.Amount,
		&expense.Description, &expense.Date, &expense.CreatedAt, &expense.CategoryName,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find expense: %w", err)
	}

	return expense, nil
}

// ListWithCategory は条件に一致する支出をカテゴリ付きで返す。
// 並び順はdate降順、同時刻はID降順で決定的に返す。
func (r *PostgresExpenseRepo) ListWithCategory(ctx context.Context, filter ExpenseFilter) ([]model.ExpenseWithCategory, error) {
	query, args := buildListQuery(filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []model.ExpenseWithCategory
	for rows.Next() {
		var expense model.ExpenseWithCategory
		if err := rows.Scan(
			&expense.ID, &expense.UserID, &expense.CategoryID, &expense.Amount,
			&expense.Description, &expense.Date, &expense.CreatedAt, &expense.CategoryName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return expenses, nil
}

// TotalAmount は条件に一致する支出の合計金額を返す。0件の場合は0を返す。
func (r *PostgresExpenseRepo) TotalAmount(ctx context.Context, filter ExpenseFilter) (float64, error) {
	where, args := buildFilterClause(filter)

	query := fmt.Sprintf(
		`SELECT COALESCE(SUM(e.amount), 0) FROM expenses e WHERE %s`,
		where,
	)

	var total float64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum expenses: %w", err)
	}

	return total, nil
}

// TotalsByCategory は条件に一致する支出のカテゴリ別合計を返す。
// 支出が1件もないカテゴリは含まれない。合計金額降順、同額は名前昇順。
func (r *PostgresExpenseRepo) TotalsByCategory(ctx context.Context, filter ExpenseFilter) ([]model.CategoryTotal, error) {
	where, args := buildFilterClause(filter)

	query := fmt.Sprintf(
		`SELECT e.category_id, c.name, SUM(e.amount)
		 FROM expenses e
		 JOIN categories c ON c.id = e.category_id
		 WHERE %s
		 GROUP BY e.category_id, c.name
		 ORDER BY SUM(e.amount) DESC, c.name ASC`,
		where,
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses by category: %w", err)
	}
	defer rows.Close()

	var totals []model.CategoryTotal
	for rows.Next() {
		var total model.CategoryTotal
		if err := rows.Scan(&total.CategoryID, &total.CategoryName, &total.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, total)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category totals: %w", err)
	}

	return totals, nil
}

// CountByCategoryID は指定カテゴリを参照する支出の件数を返す。
func (r *PostgresExpenseRepo) CountByCategoryID(ctx context.Context, categoryID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM expenses WHERE category_id = $1`,
		categoryID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count expenses by category: %w", err)
	}
	return count, nil
}

// Create は支出を作成する。
func (r *PostgresExpenseRepo) Create(ctx context.Context, expense *model.Expense) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (id, user_id, category_id, amount, description, date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		expense.ID, expense.UserID, expense.CategoryID, expense.Amount,
		expense.Description, expense.Date, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// Delete は指定IDの支出を削除する。
func (r *PostgresExpenseRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ExpenseRepository = (*PostgresExpenseRepo)(nil)
