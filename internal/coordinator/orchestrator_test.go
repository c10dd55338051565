package coordinator

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jcmexdev/travel-agency/internal/coordinator/pipelinelog"
)

type mockStep struct {
	mock.Mock
	name string
}

func (m *mockStep) Name() string { return m.name }

func (m *mockStep) Execute(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockStep) Compensate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type memoryRepo struct {
	mu      sync.Mutex
	entries []pipelinelog.Entry
	err     error
}

func (r *memoryRepo) Save(_ context.Context, e *pipelinelog.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *e)
	return r.err
}

func (r *memoryRepo) statuses() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = string(e.Status) + ":" + e.Step
	}
	return out
}

func TestOrchestrator_AllStepsSucceed(t *testing.T) {
	a := &mockStep{name: "a"}
	b := &mockStep{name: "b"}
	a.On("Execute", mock.Anything).Return(nil).Once()
	b.On("Execute", mock.Anything).Return(nil).Once()

	repo := &memoryRepo{}
	err := NewOrchestrator("ref-1", []Step{a, b}, repo, WithPayload(`{"x":1}`)).Start(context.Background())
	require.NoError(t, err)

	a.AssertExpectations(t)
	b.AssertExpectations(t)
	a.AssertNotCalled(t, "Compensate", mock.Anything)
	b.AssertNotCalled(t, "Compensate", mock.Anything)

	assert.Equal(t, []string{"STARTED:", "STEP_DONE:a", "STEP_DONE:b", "COMPLETED:"}, repo.statuses())
	assert.Equal(t, `{"x":1}`, repo.entries[0].Payload)
	assert.Equal(t, "ref-1", repo.entries[3].PipelineID)
}

func TestOrchestrator_FailureCompensatesInReverse(t *testing.T) {
	var (
		mu    sync.Mutex
		order []string
	)
	track := func(name string) func(mock.Arguments) {
		return func(mock.Arguments) {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
		}
	}

	a := &mockStep{name: "a"}
	b := &mockStep{name: "b"}
	c := &mockStep{name: "c"}
	d := &mockStep{name: "d"}
	boom := errors.New("boom")

	a.On("Execute", mock.Anything).Return(nil)
	b.On("Execute", mock.Anything).Return(nil)
	c.On("Execute", mock.Anything).Return(boom)
	a.On("Compensate", mock.Anything).Return(nil).Run(track("a"))
	b.On("Compensate", mock.Anything).Return(errors.New("stuck")).Run(track("b"))

	repo := &memoryRepo{}
	err := NewOrchestrator("ref-2", []Step{a, b, c, d}, repo).Start(context.Background())

	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "c:")
	assert.Equal(t, []string{"b", "a"}, order)
	c.AssertNotCalled(t, "Compensate", mock.Anything)
	d.AssertNotCalled(t, "Execute", mock.Anything)

	assert.Equal(t, []string{
		"STARTED:",
		"STEP_DONE:a",
		"STEP_DONE:b",
		"COMPENSATING:b",
		"COMPENSATING:a",
		"FAILED:c",
	}, repo.statuses())
	assert.Equal(t, `["c failed: boom","compensation of b failed: stuck"]`, repo.entries[5].Errors)
}

func TestOrchestrator_FirstStepFailsNothingToCompensate(t *testing.T) {
	a := &mockStep{name: "a"}
	a.On("Execute", mock.Anything).Return(errors.New("nope"))

	repo := &memoryRepo{}
	err := NewOrchestrator("ref-3", []Step{a}, repo).Start(context.Background())

	require.Error(t, err)
	a.AssertNotCalled(t, "Compensate", mock.Anything)
	assert.Equal(t, []string{"STARTED:", "FAILED:a"}, repo.statuses())
}

func TestOrchestrator_NilRepoAndRepoErrors(t *testing.T) {
	a := &mockStep{name: "a"}
	a.On("Execute", mock.Anything).Return(nil)

	require.NoError(t, NewOrchestrator("ref", []Step{a}, nil).Start(context.Background()))

	broken := &memoryRepo{err: errors.New("disk full")}
	require.NoError(t, NewOrchestrator("ref", []Step{a}, broken).Start(context.Background()))
	assert.Len(t, broken.statuses(), 3)
}

func TestOrchestrator_Spans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	a := &mockStep{name: "a"}
	b := &mockStep{name: "b"}
	a.On("Execute", mock.Anything).Return(nil)
	b.On("Execute", mock.Anything).Return(errors.New("declined"))
	a.On("Compensate", mock.Anything).Return(nil)

	repo := &memoryRepo{}
	err := NewOrchestrator("ref-4", []Step{a, b}, repo, WithTracerProvider(tp)).Start(context.Background())
	require.Error(t, err)

	ended := sr.Ended()
	require.Len(t, ended, 3)
	assert.Equal(t, "pipeline.step a", ended[0].Name())
	assert.Equal(t, "pipeline.step b", ended[1].Name())
	assert.Equal(t, "pipeline.run", ended[2].Name())
	assert.Equal(t, ended[2].SpanContext().TraceID(), ended[0].SpanContext().TraceID())

	for _, e := range repo.entries {
		assert.Equal(t, ended[2].SpanContext().TraceID().String(), e.TraceID)
	}
}
