package ports

import (
	"context"

	"github.com/aretw0/busybeaver/pkg/domain"
)

// ResultStore persists run records.
// A run groups the records of one search; records inside a run are keyed by
// the machine's enumeration index.
type ResultStore interface {
	// Save stores rec under runID, replacing any record with the same index.
	Save(ctx context.Context, runID string, rec domain.Record) error

	// Load retrieves one record.
	// Returns domain.ErrResultNotFound if the run or the index does not exist.
	Load(ctx context.Context, runID string, index uint64) (domain.Record, error)

	// List returns every record of a run ordered by index.
	// An unknown run yields an empty list.
	List(ctx context.Context, runID string) ([]domain.Record, error)

	// Runs returns the IDs of the stored runs in lexical order.
	Runs(ctx context.Context) ([]string, error)

	// Delete removes a run and all its records. Deleting an unknown run is not an error.
	Delete(ctx context.Context, runID string) error
}
