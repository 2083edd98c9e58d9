package ops

import (
	"database/sql"
	"strings"

	"github.com/hollisb/marginalia/internal/errors"
	"github.com/hollisb/marginalia/internal/store"
)

// UpdateColorInput contains parameters for the UpdateColor operation.
type UpdateColorInput struct {
	ID    string
	Color string
}

// UpdateColorOutput contains the result of the UpdateColor operation.
type UpdateColorOutput struct {
	ID    string `json:"id"`
	Color string `json:"color"`
}

// UpdateColor changes a highlight's color, the only mutable field of a
// stored highlight.
func UpdateColor(database *sql.DB, input UpdateColorInput) (*UpdateColorOutput, error) {
	color := strings.TrimSpace(input.Color)
	if color == "" {
		return nil, errors.NewInvalidRequest("color is required")
	}

	if err := store.UpdateHighlightColor(database, input.ID, color); err != nil {
		return nil, err
	}

	return &UpdateColorOutput{ID: input.ID, Color: color}, nil
}
