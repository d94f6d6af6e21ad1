package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"loft/internal/config"
	"loft/internal/logging"
	serverhttp "loft/internal/server/http"
)

func newServeCmd() *cobra.Command {
	var listenAddr string
	var debug bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the loft HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewComponentLogger("serve")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if listenAddr != "" {
				cfg.ListenAddr = listenAddr
			}
			if debug {
				cfg.Debug = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			application := buildApp(cfg, logger)
			defer application.hub.Close()

			serverCfg := serverhttp.DefaultServerConfig()
			serverCfg.Addr = cfg.ListenAddr
			serverCfg.Debug = cfg.Debug
			server := serverhttp.NewServer(serverCfg, application.orch, application.registry, application.sinks, application.board, application.hub)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info("Starting loft server on %s (model %s)", cfg.ListenAddr, cfg.Model)

			group, groupCtx := errgroup.WithContext(ctx)
			group.Go(func() error {
				return server.Run(groupCtx)
			})
			return group.Wait()
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug mode")
	return cmd
}
