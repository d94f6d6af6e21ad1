package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"loft/internal/config"
	"loft/internal/events"
	"loft/internal/llmerrors"
	"loft/internal/logging"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func newAskCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Run the pipeline once for a message and print the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			application := buildApp(cfg, logging.Nop())
			defer application.hub.Close()

			// Watch the hub so a one-shot run still shows the signals the UI
			// would react to.
			eventCh, unsubscribe := application.hub.Subscribe()
			defer unsubscribe()

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			message := strings.Join(args, " ")
			fmt.Printf("%s %s\n", bold("You:"), message)

			reply, err := application.orch.Handle(ctx, message)
			if err != nil {
				if ce, ok := llmerrors.AsCompletionError(err); ok {
					fmt.Println(red(fmt.Sprintf("Error (%s): %s", ce.Category, ce.Message)))
				} else {
					fmt.Println(red("Error: " + err.Error()))
				}
				return err
			}

			fmt.Printf("%s [%s]\n\n%s\n", green("Assistant"), reply.Kind, reply.Preview)

			if reply.TaskID != "" {
				if t, ok := application.registry.Get(reply.TaskID); ok {
					fmt.Printf("\n%s %s (%s, %d%%)\n", yellow("Task:"), t.Name, t.Status, t.Progress)
				}
			}
			drainEvents(eventCh)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall pipeline timeout")
	return cmd
}

func drainEvents(eventCh <-chan events.Event) {
	for {
		select {
		case event, ok := <-eventCh:
			if !ok {
				return
			}
			if vs, isSwitch := event.(events.ViewSwitchEvent); isSwitch {
				fmt.Printf("%s switch active view to %q\n", yellow("Signal:"), vs.Target)
			}
		default:
			return
		}
	}
}
