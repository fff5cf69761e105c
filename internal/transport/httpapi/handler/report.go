package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/danuarta/dompetku/internal/export"
	"github.com/danuarta/dompetku/internal/report"
	"github.com/danuarta/dompetku/internal/transport/httpapi/middleware"
)

// ReportServiceInterface defines the reporting operations needed by ReportHandler
type ReportServiceInterface interface {
	HistoricalSeries(ctx context.Context, userID uuid.UUID, r report.Range) (*report.Series, error)
	Statement(ctx context.Context, userID uuid.UUID, in report.StatementInput) (*report.Statement, error)
}

// ReportHandler handles balance tracker and statement HTTP requests
type ReportHandler struct {
	service ReportServiceInterface
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportServiceInterface) *ReportHandler {
	return &ReportHandler{service: service}
}

// GetTracker handles GET /tracker
// Query params: range (3m|6m|1y|ytd|all, default 6m)
func (h *ReportHandler) GetTracker(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	rng := report.Range6M
	if v := r.URL.Query().Get("range"); v != "" {
		rng = report.Range(v)
		if !rng.IsValid() {
			respondWithError(w, http.StatusBadRequest, "invalid range")
			return
		}
	}

	series, err := h.service.HistoricalSeries(r.Context(), userID, rng)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, series)
}

// GetStatement handles GET /reports/statement
// Query params: from, to (required, 2006-01-02), wallet_id (optional)
func (h *ReportHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	in, err := parseStatementInput(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	statement, err := h.service.Statement(r.Context(), userID, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, statement)
}

// ExportStatement handles GET /reports/statement/export
// Streams the statement as an xlsx workbook, one sheet per wallet.
func (h *ReportHandler) ExportStatement(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	in, err := parseStatementInput(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	statement, err := h.service.Statement(r.Context(), userID, in)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	workbook, err := export.StatementWorkbook(statement)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to build workbook")
		return
	}
	defer workbook.Close()

	filename := "statement_" + in.Start.Format("20060102") + "_" + in.End.Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := workbook.Write(w); err != nil {
		// Headers are already out; nothing useful left to send.
		return
	}
}

func parseStatementInput(r *http.Request) (report.StatementInput, error) {
	q := r.URL.Query()
	var in report.StatementInput

	from := q.Get("from")
	to := q.Get("to")
	if from == "" || to == "" {
		return in, errors.New("from and to are required")
	}

	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return in, errors.New("invalid from date")
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return in, errors.New("invalid to date")
	}
	in.Start = start
	in.End = end

	if v := q.Get("wallet_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return in, errors.New("invalid wallet_id")
		}
		in.WalletID = &id
	}

	return in, nil
}
