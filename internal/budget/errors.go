package budget

import "errors"

var (
	ErrBudgetNotFound     = errors.New("budget not found")
	ErrUnauthorizedAccess = errors.New("unauthorized access to budget")
	ErrCategoryRequired   = errors.New("budget category is required")
	ErrInvalidLimit       = errors.New("budget limit cannot be negative")
	ErrInvalidMonth       = errors.New("budget month must be formatted as YYYY-MM")
)
