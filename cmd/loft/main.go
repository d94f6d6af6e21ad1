package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.3.0"

func main() {
	rootCmd := &cobra.Command{
		Use:          "loft",
		Short:        "Loft workspace assistant backend",
		Long:         "Loft classifies chat requests into workspace artifacts (documents, roadmaps, emails), generates them through a completion API, and serves the workspace task board.",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAskCmd())
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the loft version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("loft %s\n", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
