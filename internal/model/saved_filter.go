package model

import (
	"fmt"
	"time"
)

// MaxSavedFilterNameLength bounds the display name of a saved filter.
const MaxSavedFilterNameLength = 100

// SavedFilter is a named, timestamped snapshot of a FilterState.
// It is never mutated after creation.
type SavedFilter struct {
	CreatedAt time.Time   `json:"createdAt"`
	ID        string      `json:"id"`
	Name      string      `json:"name" validate:"required,max=100"`
	Filters   FilterState `json:"filters"`
}

// Clone returns a copy whose snapshot shares no memory with f.
func (f SavedFilter) Clone() SavedFilter {
	f.Filters = f.Filters.Clone()
	return f
}

// Validate checks the name constraints. Names are expected to be trimmed already.
func (f *SavedFilter) Validate() error {
	if err := validatorInstance().Struct(f); err != nil {
		return fmt.Errorf("invalid saved filter: %w", err)
	}
	return nil
}
