// Package coordinator runs the checkout pipeline over a cart and an account.
package coordinator

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jcmexdev/retail-checkout/internal/coordinator/checkoutlog"
)

const tracerName = "github.com/jcmexdev/retail-checkout/internal/coordinator"

// Step is a single stage of the pipeline. Steps run in order and the first
// failure ends the run; nothing is compensated, so every step that mutates
// shared state must come after all the checks that can fail.
type Step interface {
	Name() Stage
	Execute(ctx context.Context, co *Checkout) error
}

// Orchestrator executes steps sequentially and records every transition in
// the checkout log.
type Orchestrator struct {
	checkoutID string
	steps      []Step
	logRepo    checkoutlog.Repository
}

// NewOrchestrator accepts a nil repo, in which case nothing is logged.
func NewOrchestrator(checkoutID string, steps []Step, repo checkoutlog.Repository) *Orchestrator {
	return &Orchestrator{checkoutID: checkoutID, steps: steps, logRepo: repo}
}

// Start records payload and runs every step.
func (o *Orchestrator) Start(ctx context.Context, co *Checkout, payload string) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "checkout")
	defer span.End()
	span.SetAttributes(attribute.String("checkout.id", o.checkoutID))

	o.record(ctx, checkoutlog.StatusStarted, "", payload, nil)

	for _, step := range o.steps {
		if err := o.execute(ctx, step, co); err != nil {
			slog.WarnContext(ctx, "checkout step failed", "checkout_id", o.checkoutID, "step", step.Name(), "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			o.record(ctx, checkoutlog.StatusFailed, string(step.Name()), "", []string{err.Error()})
			return err
		}
		o.record(ctx, checkoutlog.StatusStepDone, string(step.Name()), "", nil)
	}

	slog.InfoContext(ctx, "checkout completed", "checkout_id", o.checkoutID, "total", co.Total.StringFixed(2))
	o.record(ctx, checkoutlog.StatusCompleted, string(StageReceipted), "", nil)
	return nil
}

func (o *Orchestrator) execute(ctx context.Context, step Step, co *Checkout) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, string(step.Name()))
	defer span.End()

	slog.DebugContext(ctx, "executing checkout step", "checkout_id", o.checkoutID, "step", step.Name())
	co.Stage = step.Name()
	return step.Execute(ctx, co)
}

// record never fails the checkout; a broken audit log only gets logged.
func (o *Orchestrator) record(ctx context.Context, status checkoutlog.Status, step, payload string, errs []string) {
	if o.logRepo == nil {
		return
	}
	entry := checkoutlog.NewEntry(ctx, o.checkoutID, status, step, payload, errs)
	if err := o.logRepo.Save(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to write checkout log", "checkout_id", o.checkoutID, "status", status, "error", err)
	}
}
