package emporia

import (
	"context"
	"errors"
)

// ErrNotFound is returned by stores when no record has the requested id.
var ErrNotFound = errors.New("record not found")

// Store is the persistence port for usage records. Implementations live in
// pkg/store/postgres (pgx pool) and pkg/store/memory (tests, development).
//
// Write operations return the record as persisted, including the
// server-assigned identifier and timestamps. Replace and Patch return
// ErrNotFound when the target id does not exist; neither creates records.
// List, ListPage, and Search return an empty, non-nil slice when nothing
// matches.
type Store interface {
	// List returns every record, ordered by id ascending.
	List(ctx context.Context) ([]Record, error)

	// ListPage returns the window offset=(page-1)*limit ordered by id
	// ascending. page starts at 1; the handler validates both arguments.
	ListPage(ctx context.Context, page, limit int) ([]Record, error)

	// Get returns the record with the given id, or ErrNotFound.
	Get(ctx context.Context, id int64) (Record, error)

	// Create persists a new record, assigning its id and both timestamps.
	Create(ctx context.Context, rec Record) (Record, error)

	// Replace overwrites every client-writable field of an existing record,
	// preserving its create date and bumping its update date.
	Replace(ctx context.Context, id int64, rec Record) (Record, error)

	// Patch overwrites only the fields present in the input. A patch with
	// no fields is a no-op that still bumps the update date.
	Patch(ctx context.Context, id int64, in RecordInput) (Record, error)

	// Delete removes the record with the given id, or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error

	// Search returns the records matching every present filter, ordered by
	// instant ascending.
	Search(ctx context.Context, q SearchQuery) ([]Record, error)

	// Ping verifies backing-store connectivity.
	Ping(ctx context.Context) error
}
