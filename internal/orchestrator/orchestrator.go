// Package orchestrator drives the request pipeline: classify the message,
// track a progress task, generate content and route it to the matching sink.
package orchestrator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"loft/internal/classify"
	"loft/internal/content"
	"loft/internal/events"
	"loft/internal/llm"
	"loft/internal/llmerrors"
	"loft/internal/logging"
	"loft/internal/task"
)

// ErrEmptyInput is returned when the trimmed message is empty. No remote
// call is made in that case.
var ErrEmptyInput = errors.New("message cannot be empty")

// checkpoints are the fixed progress values emitted after a successful
// generation call. The remote call is atomic from this side; the sequence
// exists purely for perceived-progress feedback and its order is part of the
// contract.
var checkpoints = []int{30, 50, 80}

// Reply is the caller-visible outcome of one pipeline run. Preview is always
// present; Full and TaskID are set only for recognized kinds.
type Reply struct {
	Kind    task.Kind `json:"kind"`
	Preview string    `json:"preview"`
	Full    string    `json:"full,omitempty"`
	TaskID  string    `json:"task_id,omitempty"`
}

// Deps are the collaborators a pipeline needs. The orchestrator holds no
// state of its own; all durable effects live in the registry and sinks.
type Deps struct {
	Client     llm.Client
	Classifier *classify.Classifier
	Registry   *task.Registry
	Sinks      *content.Sinks
	Hub        *events.Hub

	// OnDocument, when set, receives freshly generated document content.
	// Documents signal through this callback instead of a view-switch event.
	OnDocument func(string)

	Logger     logging.Logger
	Registerer prometheus.Registerer
}

// Orchestrator is the pipeline entry point.
type Orchestrator struct {
	client     llm.Client
	classifier *classify.Classifier
	registry   *task.Registry
	sinks      *content.Sinks
	hub        *events.Hub
	onDocument func(string)
	logger     logging.Logger
	metrics    *Metrics
}

// New wires a pipeline from its collaborators.
func New(deps Deps) *Orchestrator {
	metrics := defaultMetrics()
	if deps.Registerer != nil {
		metrics = MustNewMetrics(deps.Registerer)
	}
	return &Orchestrator{
		client:     deps.Client,
		classifier: deps.Classifier,
		registry:   deps.Registry,
		sinks:      deps.Sinks,
		hub:        deps.Hub,
		onDocument: deps.OnDocument,
		logger:     logging.OrNop(deps.Logger),
		metrics:    metrics,
	}
}

// Handle runs the full pipeline for one raw message. Classification failures
// never abort the run; generation failures after task creation discard the
// task and surface the error with its category intact.
func (o *Orchestrator) Handle(ctx context.Context, rawMessage string) (*Reply, error) {
	message := strings.TrimSpace(rawMessage)
	if message == "" {
		return nil, ErrEmptyInput
	}

	// Fail-closed boundary: any classifier error collapses to unknown here,
	// so total classification failure never blocks the user from getting a
	// best-effort answer.
	kind, err := o.classifier.Classify(ctx, message)
	if err != nil {
		o.logger.Warn("Classification failed, treating message as unknown: %v", err)
		kind = task.KindUnknown
	}
	o.metrics.requestsTotal.WithLabelValues(kind.String()).Inc()

	if !kind.Recognized() {
		return o.handleUnrecognized(ctx, message)
	}
	return o.handleRecognized(ctx, message, kind)
}

func (o *Orchestrator) handleUnrecognized(ctx context.Context, message string) (*Reply, error) {
	payload, err := o.generate(ctx, message, task.KindUnknown)
	if err != nil {
		return nil, o.fail(err)
	}
	return &Reply{
		Kind:    task.KindUnknown,
		Preview: payload.Content,
	}, nil
}

func (o *Orchestrator) handleRecognized(ctx context.Context, message string, kind task.Kind) (*Reply, error) {
	t := o.registry.Create(kind)
	o.registry.Advance(t.ID, 0)
	o.metrics.tasksInFlight.Inc()
	defer o.metrics.tasksInFlight.Dec()

	o.logger.Info("Processing %s request as task %s", kind, t.ID)

	payload, err := o.generate(ctx, message, kind)
	if err != nil {
		o.registry.Discard(t.ID)
		return nil, o.fail(err)
	}

	for _, checkpoint := range checkpoints {
		o.registry.Advance(t.ID, checkpoint)
	}

	if err := o.route(kind, payload.Content); err != nil {
		o.registry.Discard(t.ID)
		return nil, o.fail(err)
	}

	o.registry.Complete(t.ID)
	o.signalView(kind)

	return &Reply{
		Kind:    kind,
		Preview: payload.Content,
		Full:    payload.Content,
		TaskID:  t.ID,
	}, nil
}

func (o *Orchestrator) generate(ctx context.Context, message string, kind task.Kind) (*llm.Payload, error) {
	start := time.Now()
	payload, err := o.client.Generate(ctx, message, llm.PurposeGeneration)
	o.metrics.generationDuration.WithLabelValues(kind.String()).Observe(time.Since(start).Seconds())
	return payload, err
}

// route writes the full content into the kind's sink, replacing it wholesale.
// Documents additionally signal through the document callback.
func (o *Orchestrator) route(kind task.Kind, full string) error {
	sink, ok := o.sinks.ForKind(kind)
	if !ok {
		return errors.New("no sink for kind: " + kind.String())
	}
	sink.SetContent(full)

	if kind == task.KindDocument && o.onDocument != nil {
		o.onDocument(full)
	}
	return nil
}

// signalView broadcasts the tab switch for roadmap and email. Documents do
// not force a view switch; they signal through the document callback instead.
func (o *Orchestrator) signalView(kind task.Kind) {
	if o.hub == nil {
		return
	}
	switch kind {
	case task.KindRoadmap, task.KindEmail:
		o.hub.Publish(events.ViewSwitchEvent{Target: kind.String()})
	}
}

func (o *Orchestrator) fail(err error) error {
	category := "internal"
	if ce, ok := llmerrors.AsCompletionError(err); ok {
		category = ce.Category.String()
	}
	o.metrics.failuresTotal.WithLabelValues(category).Inc()
	o.logger.Error("Pipeline run failed (%s): %v", category, err)
	return err
}
