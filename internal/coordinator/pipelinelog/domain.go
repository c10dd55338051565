// Package pipelinelog records every state transition of a reservation
// pipeline run.
//
// The log is an append-only audit trail of attempts. Each row carries the
// W3C trace ID of the span that was active when it was written, so a failed
// reservation can be followed into the distributed trace.
package pipelinelog

import "time"

// Status is the lifecycle state of a pipeline run.
type Status string

const (
	StatusStarted      Status = "STARTED"
	StatusStepDone     Status = "STEP_DONE"
	StatusCompleted    Status = "COMPLETED"
	StatusCompensating Status = "COMPENSATING"
	StatusFailed       Status = "FAILED"
)

// Entry is a single row of the pipeline log.
type Entry struct {
	// PipelineID is the reservation reference the run was started for.
	PipelineID string

	Status Status

	// Step is the name of the step that just ran, failed or was compensated.
	Step string

	// Payload is the JSON request that started the run. Written on STARTED only.
	Payload string

	// Errors is a JSON array of failure messages, "[]" when there are none.
	Errors string

	TraceID string
	SpanID  string

	RecordedAt time.Time
}
