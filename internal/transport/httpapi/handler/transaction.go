package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danuarta/dompetku/internal/ledger"
	"github.com/danuarta/dompetku/internal/transport/httpapi/middleware"
	"github.com/danuarta/dompetku/pkg/money"
)

// LedgerServiceInterface defines the interface for ledger operations
type LedgerServiceInterface interface {
	Create(ctx context.Context, userID uuid.UUID, in ledger.Input) (*ledger.Transaction, error)
	Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, in ledger.Input) (*ledger.Transaction, error)
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
	Get(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*ledger.Transaction, error)
	List(ctx context.Context, userID uuid.UUID, filters ledger.Filters) ([]*ledger.Transaction, error)
	Summary(ctx context.Context, userID uuid.UUID, filters ledger.Filters) (*ledger.Summary, error)
}

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	ledgerService LedgerServiceInterface
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(ledgerService LedgerServiceInterface) *TransactionHandler {
	return &TransactionHandler{ledgerService: ledgerService}
}

// TransactionRequest is the request body shared by create and update.
type TransactionRequest struct {
	Type           string     `json:"type"`
	Amount         string     `json:"amount"`
	Date           string     `json:"date"` // "2006-01-02"
	WalletID       uuid.UUID  `json:"wallet_id"`
	TargetWalletID *uuid.UUID `json:"target_wallet_id,omitempty"`
	Category       string     `json:"category,omitempty"`
	Description    string     `json:"description,omitempty"`
	Fee            string     `json:"fee,omitempty"`
	ManualRate     string     `json:"exchange_rate,omitempty"`
}

func (req *TransactionRequest) toInput() (ledger.Input, error) {
	in := ledger.Input{
		Type:           ledger.Type(req.Type),
		WalletID:       req.WalletID,
		TargetWalletID: req.TargetWalletID,
		CategoryName:   req.Category,
		Description:    req.Description,
	}

	amount, err := money.Parse(req.Amount)
	if err != nil {
		return in, ledger.ErrInvalidAmount
	}
	in.Amount = amount

	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return in, ledger.ErrInvalidDate
		}
		in.Date = date
	}

	in.Fee = decimal.Zero
	if req.Fee != "" {
		fee, err := money.Parse(req.Fee)
		if err != nil {
			return in, ledger.ErrNegativeFee
		}
		in.Fee = fee
	}

	if req.ManualRate != "" {
		rate, err := decimal.NewFromString(req.ManualRate)
		if err != nil {
			return in, ledger.ErrInvalidRate
		}
		in.ManualRate = &rate
	}

	return in, nil
}

// CreateTransaction handles POST /transactions
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := req.toInput()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	tx, err := h.ledgerService.Create(r.Context(), userID, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, tx)
}

// GetTransaction handles GET /transactions/{id}
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid transaction ID")
		return
	}

	tx, err := h.ledgerService.Get(r.Context(), userID, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, tx)
}

// GetTransactions handles GET /transactions
func (h *TransactionHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filters, err := parseFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, err := h.ledgerService.List(r.Context(), userID, filters)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"transactions": transactionViews(txs, filters.WalletID),
	})
}

// GetSummary handles GET /transactions/summary
func (h *TransactionHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filters, err := parseFilters(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.ledgerService.Summary(r.Context(), userID, filters)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}

// UpdateTransaction handles PUT /transactions/{id}
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid transaction ID")
		return
	}

	var req TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in, err := req.toInput()
	if err != nil {
		respondServiceError(w, err)
		return
	}

	tx, err := h.ledgerService.Update(r.Context(), userID, id, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, tx)
}

// DeleteTransaction handles DELETE /transactions/{id}
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid transaction ID")
		return
	}

	if err := h.ledgerService.Delete(r.Context(), userID, id); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseFilters(r *http.Request) (ledger.Filters, error) {
	var filters ledger.Filters
	q := r.URL.Query()

	filters.Search = q.Get("search")
	if v := q.Get("wallet_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filters, errors.New("invalid wallet_id")
		}
		filters.WalletID = &id
	}
	if v := q.Get("type"); v != "" {
		t := ledger.Type(v)
		if !t.IsValid() {
			return filters, errors.New("invalid type")
		}
		filters.Type = &t
	}
	if v := q.Get("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return filters, errors.New("invalid category_id")
		}
		filters.CategoryID = &id
	}
	if v := q.Get("from"); v != "" {
		from, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filters, errors.New("invalid from date")
		}
		filters.DateFrom = &from
	}
	if v := q.Get("to"); v != "" {
		to, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filters, errors.New("invalid to date")
		}
		filters.DateTo = &to
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filters, errors.New("invalid limit")
		}
		filters.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filters, errors.New("invalid offset")
		}
		filters.Offset = n
	}

	return filters, nil
}

// TransactionView is a list item with the direction computed from the
// wallet's point of view. A transfer appears twice, once per side, and
// a wallet filter keeps only the side that wallet participates in.
type TransactionView struct {
	*ledger.Transaction
	ComputedType string `json:"computed_type"`
}

func transactionViews(txs []*ledger.Transaction, walletFilter *uuid.UUID) []TransactionView {
	views := make([]TransactionView, 0, len(txs))
	for _, tx := range txs {
		if tx.Type != ledger.TypeTransfer {
			views = append(views, TransactionView{Transaction: tx, ComputedType: string(tx.Type)})
			continue
		}
		if walletFilter == nil || tx.WalletID == *walletFilter {
			views = append(views, TransactionView{Transaction: tx, ComputedType: "transfer_out"})
		}
		if walletFilter == nil || (tx.TargetWalletID != nil && *tx.TargetWalletID == *walletFilter) {
			views = append(views, TransactionView{Transaction: tx, ComputedType: "transfer_in"})
		}
	}
	return views
}
