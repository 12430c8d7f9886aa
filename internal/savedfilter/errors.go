package savedfilter

import (
	"errors"
	"fmt"

	"github.com/Veraticus/payfilter/internal/common"
	"github.com/Veraticus/payfilter/internal/model"
)

var (
	// ErrRejected is returned when a save request fails the save gate.
	// Rejected saves leave the store untouched.
	ErrRejected = errors.New("saved filter rejected")

	// ErrNotFound is returned when loading an id that is not in the store.
	ErrNotFound = fmt.Errorf("saved filter %w", common.ErrNotFound)
)

// Reasons a save is rejected. They are always wrapped together with ErrRejected.
var (
	ErrEmptyName      = errors.New("name is empty")
	ErrNameTooLong    = fmt.Errorf("name is longer than %d characters", model.MaxSavedFilterNameLength)
	ErrNoActiveFilter = errors.New("no filter is active")
)
