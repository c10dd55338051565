// Package coordinator runs a reservation as a sequence of compensable steps.
//
// Steps execute in order. When one fails, every step that already succeeded
// is compensated in reverse order, so a reservation never ends half done.
package coordinator

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/travel-agency/internal/coordinator/pipelinelog"
)

const tracerName = "github.com/jcmexdev/travel-agency/internal/coordinator"

// Step is a single unit of work with an action that undoes it.
type Step interface {
	Name() string
	Execute(ctx context.Context) error
	Compensate(ctx context.Context) error
}

// Orchestrator runs a fixed list of steps for one pipeline ID.
type Orchestrator struct {
	id      string
	steps   []Step
	repo    pipelinelog.Repository
	payload string
	tracer  trace.Tracer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPayload stores the request JSON on the STARTED log entry.
func WithPayload(payload string) Option {
	return func(o *Orchestrator) { o.payload = payload }
}

// WithTracerProvider overrides the global OpenTelemetry tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *Orchestrator) { o.tracer = tp.Tracer(tracerName) }
}

// NewOrchestrator returns an orchestrator for steps. repo may be nil, in
// which case transitions are only logged.
func NewOrchestrator(id string, steps []Step, repo pipelinelog.Repository, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		id:     id,
		steps:  steps,
		repo:   repo,
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Start runs the steps sequentially. The first failing step stops the run,
// previously successful steps are compensated LIFO and the step error is
// returned wrapped with the step name.
func (o *Orchestrator) Start(ctx context.Context) error {
	ctx, span := o.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(attribute.String("pipeline.id", o.id)))
	defer span.End()

	o.record(ctx, pipelinelog.StatusStarted, "", o.payload, nil)

	done := make([]Step, 0, len(o.steps))
	for _, step := range o.steps {
		if err := o.execute(ctx, step); err != nil {
			slog.WarnContext(ctx, "pipeline step failed, compensating",
				"pipeline_id", o.id, "step", step.Name(), "error", err)

			errs := []string{fmt.Sprintf("%s failed: %v", step.Name(), err)}
			errs = append(errs, o.rollback(ctx, done)...)
			o.record(ctx, pipelinelog.StatusFailed, step.Name(), "", errs)

			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return fmt.Errorf("%s: %w", step.Name(), err)
		}
		o.record(ctx, pipelinelog.StatusStepDone, step.Name(), "", nil)
		done = append(done, step)
	}

	o.record(ctx, pipelinelog.StatusCompleted, "", "", nil)
	slog.InfoContext(ctx, "pipeline completed", "pipeline_id", o.id)
	return nil
}

func (o *Orchestrator) execute(ctx context.Context, step Step) error {
	ctx, span := o.tracer.Start(ctx, "pipeline.step "+step.Name(),
		trace.WithAttributes(attribute.String("pipeline.step", step.Name())))
	defer span.End()

	if err := step.Execute(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// rollback compensates steps in reverse order and returns the messages of
// compensations that failed. A failed compensation does not stop the others.
func (o *Orchestrator) rollback(ctx context.Context, steps []Step) []string {
	var errs []string
	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		o.record(ctx, pipelinelog.StatusCompensating, step.Name(), "", nil)

		if err := step.Compensate(ctx); err != nil {
			slog.ErrorContext(ctx, "CRITICAL: compensation failed",
				"pipeline_id", o.id, "step", step.Name(), "error", err)
			errs = append(errs, fmt.Sprintf("compensation of %s failed: %v", step.Name(), err))
		}
	}
	return errs
}

func (o *Orchestrator) record(ctx context.Context, status pipelinelog.Status, step, payload string, errs []string) {
	if o.repo == nil {
		return
	}
	entry := pipelinelog.NewEntry(ctx, o.id, status, step, payload, errs)
	if err := o.repo.Save(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "pipeline log write failed",
			"pipeline_id", o.id, "status", status, "error", err)
	}
}
