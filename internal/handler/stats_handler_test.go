package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/kakeibo/internal/expense"
	"github.com/hitoshi/kakeibo/internal/model"
)

func TestStatsHandler_GetStats_Returns200WithBreakdown(t *testing.T) {
	svc := &mockExpenseService{
		getStatsFn: func(ctx context.Context, userID, periodKeyword, from, to string) (*expense.Stats, error) {
			return &expense.Stats{
				Total: 150.75,
				ByCategory: []model.CategoryTotal{
					{CategoryID: "cat-1", CategoryName: "Food", Amount: 100.25},
					{CategoryID: "cat-2", CategoryName: "Bills", Amount: 50.50},
				},
				Period:    "month",
				StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2024, 3, 15, 23, 59, 59, 999_000_000, time.UTC),
			}, nil
		},
	}
	h := NewStatsHandler(svc)

	req := withUserID(httptest.NewRequest(http.MethodGet, "/stats", nil), "user-1")
	w := httptest.NewRecorder()

	h.GetStats(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if body["total"].(float64) != 150.75 {
		t.Errorf("total = %v, want 150.75", body["total"])
	}
	if body["period"] != "month" {
		t.Errorf("period = %v, want %q", body["period"], "month")
	}
	if body["startDate"] == nil || body["endDate"] == nil {
		t.Error("expected startDate and endDate fields")
	}

	byCategory, ok := body["byCategory"].([]any)
	if !ok {
		t.Fatal("expected byCategory array")
	}
	if len(byCategory) != 2 {
		t.Fatalf("byCategory length = %d, want 2", len(byCategory))
	}
	first := byCategory[0].(map[string]any)
	if first["category"] != "Food" {
		t.Errorf("first category = %v, want %q", first["category"], "Food")
	}
	if first["amount"].(float64) != 100.25 {
		t.Errorf("first amount = %v, want 100.25", first["amount"])
	}
}

func TestStatsHandler_GetStats_PassesQueryParams(t *testing.T) {
	var gotPeriod, gotFrom, gotTo string
	svc := &mockExpenseService{
		getStatsFn: func(ctx context.Context, userID, periodKeyword, from, to string) (*expense.Stats, error) {
			gotPeriod, gotFrom, gotTo = periodKeyword, from, to
			return &expense.Stats{}, nil
		},
	}
	h := NewStatsHandler(svc)

	req := withUserID(httptest.NewRequest(http.MethodGet, "/stats?period=year&from=2024-01-01&to=2024-06-30", nil), "user-1")
	w := httptest.NewRecorder()

	h.GetStats(w, req)

	if gotPeriod != "year" || gotFrom != "2024-01-01" || gotTo != "2024-06-30" {
		t.Errorf("query params = (%q, %q, %q), want (year, 2024-01-01, 2024-06-30)", gotPeriod, gotFrom, gotTo)
	}
}

func TestStatsHandler_GetStats_InvalidDate_Returns400(t *testing.T) {
	svc := &mockExpenseService{
		getStatsFn: func(ctx context.Context, userID, periodKeyword, from, to string) (*expense.Stats, error) {
			return nil, model.NewInvalidDateError(from)
		},
	}
	h := NewStatsHandler(svc)

	req := withUserID(httptest.NewRequest(http.MethodGet, "/stats?from=bad&to=2024-01-31", nil), "user-1")
	w := httptest.NewRecorder()

	h.GetStats(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestStatsHandler_GetStats_NoAuth_Returns401(t *testing.T) {
	h := NewStatsHandler(&mockExpenseService{})

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	w := httptest.NewRecorder()

	h.GetStats(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}
