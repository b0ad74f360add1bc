package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/kakeibo/internal/middleware"
	"github.com/hitoshi/kakeibo/internal/model"
)

// StatsHandler は支出集計のHTTPハンドラー。
// ExpenseServiceInterfaceのGetStatsを利用する。
type StatsHandler struct {
	service ExpenseServiceInterface
}

// NewStatsHandler はStatsHandlerを生成する。
func NewStatsHandler(service ExpenseServiceInterface) *StatsHandler {
	return &StatsHandler{
		service: service,
	}
}

// categoryTotalResponse はカテゴリ別集計のAPIレスポンス。
type categoryTotalResponse struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// statsResponse は支出集計のAPIレスポンス。
type statsResponse struct {
	Total      float64                 `json:"total"`
	ByCategory []categoryTotalResponse `json:"byCategory"`
	Period     string                  `json:"period"`
	StartDate  time.Time               `json:"startDate"`
	EndDate    time.Time               `json:"endDate"`
}

// GetStats は期間内の支出の合計とカテゴリ別内訳を返す。
// period未指定時はmonthがデフォルト。
// GET /stats?period=&from=&to=
func (h *StatsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	query := r.URL.Query()
	stats, err := h.service.GetStats(
		r.Context(),
		userID,
		query.Get("period"),
		query.Get("from"),
		query.Get("to"),
	)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	byCategory := make([]categoryTotalResponse, 0, len(stats.ByCategory))
	for _, ct := range stats.ByCategory {
		byCategory = append(byCategory, categoryTotalResponse{
			Category: ct.CategoryName,
			Amount:   ct.Amount,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statsResponse{
		Total:      stats.Total,
		ByCategory: byCategory,
		Period:     stats.Period,
		StartDate:  stats.StartDate,
		EndDate:    stats.EndDate,
	})
}
