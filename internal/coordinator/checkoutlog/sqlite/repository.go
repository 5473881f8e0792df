// Package sqlite provides a SQLite-backed checkoutlog.Repository.
//
// WAL mode is enabled on Open so status reads from the HTTP gateway never
// block pipeline writes.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jcmexdev/retail-checkout/internal/coordinator/checkoutlog"

	// Pure-Go driver, no CGO.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS checkout_logs (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    checkout_id     TEXT        NOT NULL,
    status          TEXT        NOT NULL,
    current_step    TEXT        NOT NULL DEFAULT '',
    -- request JSON, only on STARTED rows
    payload         TEXT,
    error_messages  TEXT        NOT NULL DEFAULT '[]',
    trace_id        TEXT        NOT NULL DEFAULT '',
    span_id         TEXT        NOT NULL DEFAULT '',
    updated_at      TEXT        NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_checkout_logs_checkout_id ON checkout_logs(checkout_id, updated_at);
CREATE INDEX IF NOT EXISTS idx_checkout_logs_trace_id ON checkout_logs(trace_id);
`

var (
	_ checkoutlog.Repository = (*Repository)(nil)
	_ checkoutlog.Reader     = (*Repository)(nil)
)

// Repository is the SQLite implementation of checkoutlog.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
//
//	repo, err := sqlite.Open("./data/checkout.db")
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// Single writer.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Save appends a log entry. It is safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *checkoutlog.Entry) error {
	const q = `
		INSERT INTO checkout_logs
			(checkout_id, status, current_step, payload, error_messages, trace_id, span_id, updated_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.CheckoutID,
		string(entry.Status),
		entry.CurrentStep,
		nullableString(entry.Payload),
		entry.ErrorMessages,
		entry.TraceID,
		entry.SpanID,
		formatTime(entry.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save checkout log for %q: %w", entry.CheckoutID, err)
	}
	return nil
}

const selectColumns = `
	SELECT checkout_id, status, current_step, COALESCE(payload,''), error_messages,
	       trace_id, span_id, updated_at
	FROM   checkout_logs`

// GetLatest returns the most recent entry for checkoutID.
func (r *Repository) GetLatest(ctx context.Context, checkoutID string) (*checkoutlog.Entry, error) {
	const q = selectColumns + `
	WHERE  checkout_id = ?
	ORDER  BY updated_at DESC, id DESC
	LIMIT  1`

	entry, err := scanEntry(r.db.QueryRowContext(ctx, q, checkoutID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlite: %w: %s", checkoutlog.ErrNotFound, checkoutID)
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: get latest for %q: %w", checkoutID, err)
	}
	return entry, nil
}

// History returns every entry for checkoutID, oldest first.
func (r *Repository) History(ctx context.Context, checkoutID string) ([]*checkoutlog.Entry, error) {
	const q = selectColumns + `
	WHERE  checkout_id = ?
	ORDER  BY updated_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, q, checkoutID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: history for %q: %w", checkoutID, err)
	}
	defer rows.Close()

	var out []*checkoutlog.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: history for %q: %w", checkoutID, err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: history for %q: %w", checkoutID, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("sqlite: %w: %s", checkoutlog.ErrNotFound, checkoutID)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*checkoutlog.Entry, error) {
	var entry checkoutlog.Entry
	var updatedAt string
	err := row.Scan(
		&entry.CheckoutID,
		&entry.Status,
		&entry.CurrentStep,
		&entry.Payload,
		&entry.ErrorMessages,
		&entry.TraceID,
		&entry.SpanID,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// applySchema is idempotent thanks to IF NOT EXISTS.
func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}

// nullableString stores NULL instead of '' in the payload column.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
