// Package checkoutlog defines the audit trail of checkout pipeline runs.
//
// Every state transition a checkout goes through is appended as one entry.
// The log answers "where did checkout X stop, and why" and links each entry
// to its distributed trace through the trace_id field.
package checkoutlog

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("checkout not found")

// Status represents the lifecycle state of a checkout run.
type Status string

const (
	StatusStarted   Status = "STARTED"
	StatusStepDone  Status = "STEP_DONE"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Entry is a single row in the checkout_logs table.
type Entry struct {
	// CheckoutID identifies one pipeline run.
	CheckoutID string

	Status Status

	// CurrentStep is the pipeline stage that just finished or failed.
	CurrentStep string

	// Payload is the JSON request that started the checkout. Only set on
	// STARTED entries.
	Payload string

	// ErrorMessages is a JSON array of failure details.
	ErrorMessages string

	TraceID string
	SpanID  string

	UpdatedAt time.Time
}
