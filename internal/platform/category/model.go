package category

import (
	"time"

	"github.com/google/uuid"
)

// Type is the transaction direction a category applies to.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// IsValid checks if the category type is valid.
func (t Type) IsValid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Category tags income and expense transactions. System categories have
// no owner and are visible to everyone; user categories belong to their
// creator. Scoped lookups must include both.
type Category struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    *uuid.UUID `json:"user_id,omitempty" db:"user_id"` // nil for system categories
	Name      string     `json:"name" db:"name"`
	Type      Type       `json:"type" db:"type"`
	Color     string     `json:"color" db:"color"`
	IsActive  bool       `json:"is_active" db:"is_active"`
	IsSystem  bool       `json:"is_system" db:"is_system"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// defaultColor is assigned to categories materialized from free-text
// names on transaction entry.
const defaultColor = "bg-gray-500"
