// Package expense は支出の記録・検索・集計のドメインロジックを提供する。
package expense

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/kakeibo/internal/model"
	"github.com/hitoshi/kakeibo/internal/period"
	"github.com/hitoshi/kakeibo/internal/repository"
	"github.com/hitoshi/kakeibo/internal/security"
)

// MetricsRecorder は支出サービスが利用するメトリクス記録のインターフェース。
type MetricsRecorder interface {
	RecordExpenseCreated()
}

// Stats は期間内の支出集計結果を表す。
type Stats struct {
	Total      float64
	ByCategory []model.CategoryTotal
	Period     string
	StartDate  time.Time
	EndDate    time.Time
}

// Service は支出管理のサービス層。
// 作成、一覧取得、削除、期間集計のビジネスロジックを提供する。
type Service struct {
	expenseRepo  repository.ExpenseRepository
	categoryRepo repository.CategoryRepository
	sanitizer    security.InputSanitizerService
	metrics      MetricsRecorder

	// now は期間解決の基準時刻。テストで固定する。
	now func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnilを許容する（テスト用）。
func NewService(
	expenseRepo repository.ExpenseRepository,
	categoryRepo repository.CategoryRepository,
	sanitizer security.InputSanitizerService,
	metrics MetricsRecorder,
) *Service {
	return &Service{
		expenseRepo:  expenseRepo,
		categoryRepo: categoryRepo,
		sanitizer:    sanitizer,
		metrics:      metrics,
		now:          time.Now,
	}
}

// expenseDateLayouts は支出日付で受理するフォーマット。
var expenseDateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
}

// CreateExpense は新しい支出を作成し、カテゴリを埋め込んで返す。
// amount・date・categoryIDは必須。amountは正の有限な数値のみ有効。
// カテゴリは所有ユーザーでスコープして検証し、存在しない・他ユーザー所有の
// カテゴリ指定はバリデーションエラーとして拒否する。
func (s *Service) CreateExpense(ctx context.Context, userID, amountStr, description, dateStr, categoryID string) (*model.ExpenseWithCategory, error) {
	if amountStr == "" {
		return nil, model.NewMissingFieldError("amount")
	}
	if dateStr == "" {
		return nil, model.NewMissingFieldError("date")
	}
	if categoryID == "" {
		return nil, model.NewMissingFieldError("categoryId")
	}

	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		return nil, model.NewInvalidAmountError()
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil, model.NewInvalidAmountError()
	}

	date, err := parseExpenseDate(dateStr)
	if err != nil {
		return nil, model.NewInvalidDateError(dateStr)
	}

	// UUID形式でないIDはDBに渡すと型エラーになるため先に弾く
	if _, err := uuid.Parse(categoryID); err != nil {
		return nil, model.NewInvalidCategoryError(categoryID)
	}

	category, err := s.categoryRepo.FindByUserAndID(ctx, userID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", err)
	}
	if category == nil {
		return nil, model.NewInvalidCategoryError(categoryID)
	}

	if s.sanitizer != nil {
		description = s.sanitizer.SanitizeText(description)
	}

	expense := &model.Expense{
		ID:          uuid.New().String(),
		UserID:      userID,
		CategoryID:  categoryID,
		Amount:      amount,
		Description: description,
		Date:        date,
		CreatedAt:   time.Now(),
	}

	if err := s.expenseRepo.Create(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordExpenseCreated()
	}

	slog.Info("expense created",
		slog.String("user_id", userID),
		slog.String("expense_id", expense.ID),
		slog.Float64("amount", amount),
	)

	return &model.ExpenseWithCategory{
		Expense:      *expense,
		CategoryName: category.Name,
	}, nil
}

// ListExpenses は期間・検索条件に一致する支出をカテゴリ付きで返す。
// 期間キーワードも日付ペアもない場合は全期間を対象とする。
// 並び順はdate降順、同時刻はID降順で決定的。
func (s *Service) ListExpenses(ctx context.Context, userID, periodKeyword, from, to, search string) ([]model.ExpenseWithCategory, error) {
	rng, err := period.Resolve(s.now(), periodKeyword, from, to)
	if err != nil {
		return nil, err
	}

	filter := repository.ExpenseFilter{
		UserID: userID,
		Search: search,
	}
	if rng != nil {
		filter.Start = &rng.Start
		filter.End = &rng.End
	}

	expenses, err := s.expenseRepo.ListWithCategory(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	return expenses, nil
}

// DeleteExpense は支出を削除する。
// 検索は所有ユーザーでスコープし、他ユーザー所有は未検出として扱う。
func (s *Service) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	// UUID形式でないIDはDBに渡すと型エラーになるため未検出として扱う
	if _, err := uuid.Parse(expenseID); err != nil {
		return model.NewExpenseNotFoundError(expenseID)
	}

	expense, err := s.expenseRepo.FindByUserAndID(ctx, userID, expenseID)
	if err != nil {
		return fmt.Errorf("failed to find expense: %w", err)
	}
	if expense == nil {
		return model.NewExpenseNotFoundError(expenseID)
	}

	if err := s.expenseRepo.Delete(ctx, expenseID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	slog.Info("expense deleted",
		slog.String("user_id", userID),
		slog.String("expense_id", expenseID),
	)

	return nil
}

// GetStats は期間内の支出合計とカテゴリ別内訳を返す。
// 期間キーワード未指定かつ日付ペアなしの場合はmonthをデフォルトとする。
// 集計対象が0件の場合、Totalは0、ByCategoryは空になる。
func (s *Service) GetStats(ctx context.Context, userID, periodKeyword, from, to string) (*Stats, error) {
	hasCustomRange := from != "" && to != ""
	if periodKeyword == "" && !hasCustomRange {
		periodKeyword = period.Month
	}

	rng, err := period.Resolve(s.now(), periodKeyword, from, to)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		// 未知のキーワードはmonthとして扱う（デフォルト期間）
		rng, _ = period.Resolve(s.now(), period.Month, "", "")
	}

	filter := repository.ExpenseFilter{
		UserID: userID,
		Start:  &rng.Start,
		End:    &rng.End,
	}

	total, err := s.expenseRepo.TotalAmount(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to compute expense total: %w", err)
	}

	byCategory, err := s.expenseRepo.TotalsByCategory(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to compute category totals: %w", err)
	}

	return &Stats{
		Total:      total,
		ByCategory: byCategory,
		Period:     periodKeyword,
		StartDate:  rng.Start,
		EndDate:    rng.End,
	}, nil
}

// parseExpenseDate は受理フォーマットのいずれかで支出日付をパースする。
func parseExpenseDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range expenseDateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
