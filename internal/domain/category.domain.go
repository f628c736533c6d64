// internal/domain/category.go
package domain

import "time"

type CategoryType string

const (
	CategoryIncome  CategoryType = "INCOME"
	CategoryOutcome CategoryType = "OUTCOME"
)

// Category is a user-scoped label for cash movements. Categories can be
// nested one level through ParentID.
type Category struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	ParentID  *string      `json:"parent_id,omitempty"`
	Name      string       `json:"name"`
	Color     string       `json:"color"`
	Type      CategoryType `json:"type"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
