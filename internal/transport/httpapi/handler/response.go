package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/danuarta/dompetku/internal/budget"
	"github.com/danuarta/dompetku/internal/ledger"
	"github.com/danuarta/dompetku/internal/platform/category"
	"github.com/danuarta/dompetku/internal/platform/user"
	"github.com/danuarta/dompetku/internal/platform/wallet"
	"github.com/danuarta/dompetku/internal/report"
	"github.com/danuarta/dompetku/internal/shared/apperr"
)

// ErrorResponse is the error response body. Code lets clients branch on
// the failure class; PLAN_LIMIT in particular drives an upgrade prompt
// instead of a generic form error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// respondWithError sends an error response
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

// validationErrors are input-shape failures rejected before any store
// mutation; the caller can re-prompt the user.
var validationErrors = []error{
	ledger.ErrInvalidType,
	ledger.ErrInvalidAmount,
	ledger.ErrInvalidDate,
	ledger.ErrInvalidRate,
	ledger.ErrCategoryRequired,
	ledger.ErrTargetWalletRequired,
	ledger.ErrTargetNotAllowed,
	ledger.ErrSameWallet,
	ledger.ErrNegativeFee,
	ledger.ErrFeeNotAllowed,
	category.ErrInvalidName,
	category.ErrInvalidType,
	budget.ErrCategoryRequired,
	budget.ErrInvalidLimit,
	budget.ErrInvalidMonth,
	wallet.ErrInvalidWalletType,
	wallet.ErrInvalidCurrency,
	report.ErrInvalidPeriod,
	report.ErrInvalidRange,
}

// respondServiceError maps domain errors onto HTTP statuses: validation
// failures to 422, missing resources to 404, foreign resources to a
// blanket 403, plan quotas to 403 with a PLAN_LIMIT code, duplicates to
// 409 and everything else to 500.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, category.ErrQuotaExceeded):
		respondWithJSON(w, http.StatusForbidden, ErrorResponse{Error: err.Error(), Code: apperr.CodePlanLimit})
		return
	case errors.Is(err, wallet.ErrUnauthorizedAccess),
		errors.Is(err, ledger.ErrUnauthorizedAccess),
		errors.Is(err, budget.ErrUnauthorizedAccess),
		errors.Is(err, user.ErrUnauthorized):
		respondWithJSON(w, http.StatusForbidden, ErrorResponse{Error: "forbidden", Code: apperr.CodeForbidden})
		return
	case errors.Is(err, wallet.ErrWalletNotFound),
		errors.Is(err, ledger.ErrTransactionNotFound),
		errors.Is(err, category.ErrCategoryNotFound),
		errors.Is(err, budget.ErrBudgetNotFound),
		errors.Is(err, user.ErrUserNotFound):
		respondWithJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: apperr.CodeNotFound})
		return
	case errors.Is(err, wallet.ErrDuplicateWalletName):
		respondWithJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error(), Code: apperr.CodeConflict})
		return
	}

	for _, sentinel := range validationErrors {
		if errors.Is(err, sentinel) {
			respondWithJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: apperr.CodeValidation})
			return
		}
	}

	if appErr := apperr.Get(err); appErr != nil {
		respondWithJSON(w, statusForCode(appErr.Code), ErrorResponse{Error: appErr.Message, Code: appErr.Code})
		return
	}

	respondWithJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: apperr.CodeInternal})
}

func statusForCode(code string) int {
	switch code {
	case apperr.CodeValidation:
		return http.StatusUnprocessableEntity
	case apperr.CodeNotFound:
		return http.StatusNotFound
	case apperr.CodeForbidden, apperr.CodePlanLimit:
		return http.StatusForbidden
	case apperr.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
