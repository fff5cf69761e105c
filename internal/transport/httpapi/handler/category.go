package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/danuarta/dompetku/internal/platform/category"
	"github.com/danuarta/dompetku/internal/transport/httpapi/middleware"
)

// CategoryServiceInterface defines the category operations the handler needs
type CategoryServiceInterface interface {
	List(ctx context.Context, userID uuid.UUID) ([]*category.Category, error)
}

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	service CategoryServiceInterface
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(service CategoryServiceInterface) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// GetCategories handles GET /categories. The list mixes system
// categories with the user's own; clients tell them apart by is_system.
func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	categories, err := h.service.List(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, categories)
}
