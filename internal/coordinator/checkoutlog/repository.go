package checkoutlog

import "context"

// Repository persists checkout log entries. The table is append-only.
type Repository interface {
	Save(ctx context.Context, entry *Entry) error
}

// Reader is implemented by repositories that can answer status queries.
type Reader interface {
	GetLatest(ctx context.Context, checkoutID string) (*Entry, error)
	History(ctx context.Context, checkoutID string) ([]*Entry, error)
}
