package ops

import (
	"database/sql"

	"github.com/hollisb/marginalia/internal/store"
)

// DeleteHighlightInput contains parameters for the DeleteHighlight operation.
type DeleteHighlightInput struct {
	ID string
}

// DeleteHighlightOutput contains the result of the DeleteHighlight operation.
type DeleteHighlightOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// DeleteHighlight soft-deletes a highlight. The row is kept so notes remain
// reachable; deleting twice is NOT_FOUND.
func DeleteHighlight(database *sql.DB, input DeleteHighlightInput) (*DeleteHighlightOutput, error) {
	if err := store.SoftDeleteHighlight(database, input.ID); err != nil {
		return nil, err
	}
	return &DeleteHighlightOutput{ID: input.ID, Deleted: true}, nil
}
