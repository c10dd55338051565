package pipelinelog

import "context"

// Repository persists pipeline log entries. Save appends; it never updates.
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
}
