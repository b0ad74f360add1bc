package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/kakeibo/internal/expense"
	"github.com/hitoshi/kakeibo/internal/middleware"
	"github.com/hitoshi/kakeibo/internal/model"
)

// ExpenseServiceInterface は支出ハンドラーが必要とするサービスインターフェース。
type ExpenseServiceInterface interface {
	// CreateExpense は支出を作成する。金額は文字列として受け取り、検証する。
	CreateExpense(ctx context.Context, userID, amountStr, description, dateStr, categoryID string) (*model.ExpenseWithCategory, error)
	// ListExpenses は期間・検索条件で絞り込んだ支出一覧を返す。
	ListExpenses(ctx context.Context, userID, periodKeyword, from, to, search string) ([]model.ExpenseWithCategory, error)
	// DeleteExpense は支出を削除する。
	DeleteExpense(ctx context.Context, userID, expenseID string) error
	// GetStats は期間内の支出の合計とカテゴリ別内訳を返す。
	GetStats(ctx context.Context, userID, periodKeyword, from, to string) (*expense.Stats, error)
}

// ExpenseHandler は支出管理のHTTPハンドラー。
type ExpenseHandler struct {
	service ExpenseServiceInterface
}

// NewExpenseHandler はExpenseHandlerを生成する。
func NewExpenseHandler(service ExpenseServiceInterface) *ExpenseHandler {
	return &ExpenseHandler{
		service: service,
	}
}

// createExpenseRequest は支出作成リクエストのボディ。
// amountは数値・文字列どちらでも受理するためjson.Numberを使う。
type createExpenseRequest struct {
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
	CategoryID  string      `json:"categoryId"`
}

// expenseResponse は支出情報のAPIレスポンス。カテゴリを埋め込んで返す。
type expenseResponse struct {
	ID          string           `json:"id"`
	Amount      float64          `json:"amount"`
	Description string           `json:"description"`
	Date        time.Time        `json:"date"`
	CategoryID  string           `json:"categoryId"`
	Category    categoryResponse `json:"category"`
}

// ListExpenses は支出一覧を返す。
// period/from/to/searchクエリパラメータで絞り込みできる。
// GET /expenses?period=&from=&to=&search=
func (h *ExpenseHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	query := r.URL.Query()
	expenses, err := h.service.ListExpenses(
		r.Context(),
		userID,
		query.Get("period"),
		query.Get("from"),
		query.Get("to"),
		query.Get("search"),
	)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]expenseResponse, 0, len(expenses))
	for i := range expenses {
		resp = append(resp, toExpenseResponse(&expenses[i]))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// CreateExpense は支出を作成する。
// POST /expenses
func (h *ExpenseHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req createExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	created, err := h.service.CreateExpense(
		r.Context(),
		userID,
		req.Amount.String(),
		req.Description,
		req.Date,
		req.CategoryID,
	)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toExpenseResponse(created))
}

// DeleteExpense は支出を削除する。
// DELETE /expenses/{id}
func (h *ExpenseHandler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	expenseID := chi.URLParam(r, "id")

	if err := h.service.DeleteExpense(r.Context(), userID, expenseID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// toExpenseResponse はmodel.ExpenseWithCategoryからAPIレスポンスに変換する。
func toExpenseResponse(e *model.ExpenseWithCategory) expenseResponse {
	return expenseResponse{
		ID:          e.ID,
		Amount:      e.Amount,
		Description: e.Description,
		Date:        e.Date,
		CategoryID:  e.CategoryID,
		Category: categoryResponse{
			ID:   e.CategoryID,
			Name: e.CategoryName,
		},
	}
}
