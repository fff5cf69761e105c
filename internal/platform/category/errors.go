package category

import "errors"

var (
	ErrInvalidName      = errors.New("category name is required")
	ErrInvalidType      = errors.New("category type must be income or expense")
	ErrCategoryNotFound = errors.New("category not found")

	// ErrQuotaExceeded means the user's plan does not allow another
	// custom category. Callers must surface it distinctly so the UI can
	// render an upgrade prompt, never a generic form error.
	ErrQuotaExceeded = errors.New("custom category limit reached for current plan")
)
