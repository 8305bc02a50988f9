package cvs

import "context"

// Repo persists CV submission records.
type Repo interface {
	// Insert stores a new record.
	Insert(ctx context.Context, rec Record) error
	// ListAll returns every record, newest first.
	ListAll(ctx context.Context) ([]Record, error)
}
