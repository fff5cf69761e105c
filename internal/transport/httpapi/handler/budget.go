package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danuarta/dompetku/internal/budget"
	"github.com/danuarta/dompetku/internal/transport/httpapi/middleware"
	"github.com/danuarta/dompetku/pkg/money"
)

// BudgetServiceInterface defines the budget operations needed by BudgetHandler
type BudgetServiceInterface interface {
	Set(ctx context.Context, userID uuid.UUID, in budget.Input) (*budget.Budget, error)
	Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, in budget.Input) (*budget.Budget, error)
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
	MonthlyOverview(ctx context.Context, userID uuid.UUID, month string) (*budget.Overview, error)
	Recommendations(ctx context.Context, userID uuid.UUID, targetMonth string) ([]*budget.Recommendation, error)
}

// BudgetHandler handles budget HTTP requests
type BudgetHandler struct {
	service BudgetServiceInterface
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(service BudgetServiceInterface) *BudgetHandler {
	return &BudgetHandler{service: service}
}

// BudgetRequest is the budget create/update request body.
type BudgetRequest struct {
	CategoryID string `json:"category_id"`
	Limit      string `json:"limit"`
	Month      string `json:"month"`
	Reason     string `json:"reason"`
}

func (r BudgetRequest) toInput() (budget.Input, error) {
	var in budget.Input

	if r.CategoryID != "" {
		id, err := uuid.Parse(r.CategoryID)
		if err != nil {
			return in, budget.ErrCategoryRequired
		}
		in.CategoryID = id
	}

	limit := decimal.Zero
	if r.Limit != "" {
		parsed, err := money.Parse(r.Limit)
		if err != nil {
			return in, budget.ErrInvalidLimit
		}
		limit = parsed
	}
	in.Limit = limit
	in.Month = r.Month
	in.Reason = r.Reason
	return in, nil
}

// GetBudgets handles GET /budgets
// Query params: month (YYYY-MM, default current month)
func (h *BudgetHandler) GetBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	overview, err := h.service.MonthlyOverview(r.Context(), userID, monthParam(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, overview)
}

// GetRecommendations handles GET /budgets/recommendations
// Query params: month (YYYY-MM, default current month)
func (h *BudgetHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	recs, err := h.service.Recommendations(r.Context(), userID, monthParam(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{"recommendations": recs})
}

// SetBudget handles POST /budgets
// Creating the same (category, month) pair again overwrites the limit.
func (h *BudgetHandler) SetBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req BudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := h.service.Set(r.Context(), userID, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, b)
}

// UpdateBudget handles PUT /budgets/{id}
func (h *BudgetHandler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid budget ID")
		return
	}

	var req BudgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := h.service.Update(r.Context(), userID, id, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, b)
}

// DeleteBudget handles DELETE /budgets/{id}
func (h *BudgetHandler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid budget ID")
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func monthParam(r *http.Request) string {
	if v := r.URL.Query().Get("month"); v != "" {
		return v
	}
	return time.Now().Format("2006-01")
}
