package main

import (
	"loft/internal/board"
	"loft/internal/classify"
	"loft/internal/config"
	"loft/internal/content"
	"loft/internal/events"
	"loft/internal/llm"
	"loft/internal/llmerrors"
	"loft/internal/logging"
	"loft/internal/orchestrator"
	"loft/internal/task"
)

// app bundles the wired application components. Everything is constructed
// once here and passed by reference; no package holds ambient global state.
type app struct {
	config   *config.Config
	client   llm.Client
	registry *task.Registry
	sinks    *content.Sinks
	board    *board.Store
	hub      *events.Hub
	orch     *orchestrator.Orchestrator
}

func buildApp(cfg *config.Config, logger logging.Logger) *app {
	client := llm.WrapWithCache(
		llm.WrapWithRetry(
			llm.NewHTTPClient(llm.HTTPClientConfig{
				BaseURL: cfg.APIBaseURL,
				APIKey:  cfg.APIKey,
				Model:   cfg.Model,
				Timeout: cfg.APITimeout,
			}),
			llmerrors.RetryConfig{
				MaxAttempts:  cfg.RetryAttempts,
				InitialDelay: cfg.RetryInitialDelay,
			},
		),
		llm.DefaultCacheConfig(),
	)

	registry := task.NewRegistry()
	sinks := content.NewSinks()
	boardStore := board.NewStore()
	hub := events.NewHub()

	// Bridge store change feeds onto the broadcast hub so websocket clients
	// see task progress and board mutations in realtime.
	registry.OnChange(func(change task.Change, t task.Task) {
		hub.Publish(events.TaskEvent{Change: change, Task: t})
	})
	boardStore.OnChange(func(change board.Change, c board.Card) {
		hub.Publish(events.BoardEvent{Change: change, Card: c})
	})

	orch := orchestrator.New(orchestrator.Deps{
		Client:     client,
		Classifier: classify.New(client),
		Registry:   registry,
		Sinks:      sinks,
		Hub:        hub,
		Logger:     logger,
	})

	return &app{
		config:   cfg,
		client:   client,
		registry: registry,
		sinks:    sinks,
		board:    boardStore,
		hub:      hub,
		orch:     orch,
	}
}
