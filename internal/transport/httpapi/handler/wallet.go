package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danuarta/dompetku/internal/platform/wallet"
	"github.com/danuarta/dompetku/internal/transport/httpapi/middleware"
	"github.com/danuarta/dompetku/pkg/money"
)

// WalletServiceInterface defines the interface for wallet operations
type WalletServiceInterface interface {
	Create(ctx context.Context, w *wallet.Wallet) (*wallet.Wallet, error)
	List(ctx context.Context, userID uuid.UUID) ([]*wallet.Wallet, error)
	GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*wallet.Wallet, error)
	Update(ctx context.Context, w *wallet.Wallet, userID uuid.UUID) (*wallet.Wallet, error)
	Toggle(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*wallet.Wallet, error)
}

// WalletHandler handles wallet-related HTTP requests
type WalletHandler struct {
	walletService WalletServiceInterface
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(walletService WalletServiceInterface) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// CreateWalletRequest represents the wallet creation request
type CreateWalletRequest struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	Currency      string  `json:"currency"`
	Balance       string  `json:"balance"`
	AccountNumber *string `json:"account_number,omitempty"`
	BankName      *string `json:"bank_name,omitempty"`
	Color         string  `json:"color,omitempty"`
}

// UpdateWalletRequest represents the wallet update request. Currency and
// balance are deliberately absent: the currency is immutable and the
// balance only moves through ledger mutations.
type UpdateWalletRequest struct {
	Name          string  `json:"name"`
	Type          string  `json:"type"`
	AccountNumber *string `json:"account_number,omitempty"`
	BankName      *string `json:"bank_name,omitempty"`
	Color         string  `json:"color,omitempty"`
	SortOrder     int     `json:"sort_order"`
}

// CreateWallet handles POST /wallets
func (h *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	balance := decimal.Zero
	if req.Balance != "" {
		var err error
		balance, err = money.Parse(req.Balance)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid balance")
			return
		}
	}

	wlt := &wallet.Wallet{
		UserID:        userID,
		Name:          req.Name,
		Type:          wallet.Type(req.Type),
		Currency:      req.Currency,
		Balance:       balance,
		AccountNumber: req.AccountNumber,
		BankName:      req.BankName,
		Color:         req.Color,
	}

	created, err := h.walletService.Create(r.Context(), wlt)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// GetWallets handles GET /wallets
func (h *WalletHandler) GetWallets(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	wallets, err := h.walletService.List(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{"wallets": wallets})
}

// GetWallet handles GET /wallets/{id}
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid wallet ID")
		return
	}

	wlt, err := h.walletService.GetByID(r.Context(), id, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, wlt)
}

// UpdateWallet handles PUT /wallets/{id}
func (h *WalletHandler) UpdateWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid wallet ID")
		return
	}

	var req UpdateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wlt := &wallet.Wallet{
		ID:            id,
		Name:          req.Name,
		Type:          wallet.Type(req.Type),
		AccountNumber: req.AccountNumber,
		BankName:      req.BankName,
		Color:         req.Color,
		SortOrder:     req.SortOrder,
	}

	updated, err := h.walletService.Update(r.Context(), wlt, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

// ToggleWallet handles POST /wallets/{id}/toggle, flipping the wallet's
// soft-active flag. Wallets are never physically deleted: history stays
// reconstructable.
func (h *WalletHandler) ToggleWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid wallet ID")
		return
	}

	toggled, err := h.walletService.Toggle(r.Context(), id, userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, toggled)
}
