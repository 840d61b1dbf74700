// Package presets stores saved filter presets in a JSON file. A preset
// bundles a filter set, combinator, and sort spec so the frontend can
// re-apply a query with one click.
package presets

import (
	"errors"
	"time"

	"github.com/staffdir/staffdir-backend/internal/query"
)

var (
	// ErrNotFound is returned when no preset has the requested ID.
	ErrNotFound = errors.New("preset not found")
	// ErrInvalid is returned when a preset fails validation.
	ErrInvalid = errors.New("invalid preset")
)

type Preset struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Filters   []query.Condition `json:"filters"`
	Logic     query.Combinator  `json:"logic"`
	SortField string            `json:"sortField,omitempty"`
	SortOrder string            `json:"sortOrder,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Validate checks the caller-supplied fields. IDs and timestamps are
// assigned by the repository, not validated here.
func (p Preset) Validate() error {
	if p.Name == "" {
		return errors.Join(ErrInvalid, errors.New("name is required"))
	}
	switch p.Logic {
	case "", query.CombinatorAnd, query.CombinatorOr:
	default:
		return errors.Join(ErrInvalid, errors.New("logic must be AND or OR"))
	}
	switch p.SortOrder {
	case "", "asc", "desc":
	default:
		return errors.Join(ErrInvalid, errors.New("sortOrder must be asc or desc"))
	}
	return nil
}
