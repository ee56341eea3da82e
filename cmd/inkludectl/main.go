// Package main implements inkludectl, a command-line client for the
// inklude analysis server.
package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

// version information (set via ldflags during build)
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// options holds the persistent flags.
type options struct {
	serverURL string
	timeout   time.Duration
	jsonOut   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "inkludectl",
		Short: "CLI for the inklude analysis server",
		Long: `inkludectl checks text for gendered language and misgendering, either
against a running inklude server or locally with --local.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&opts.serverURL, "server", "http://localhost:8080", "inklude server URL")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "request timeout")
	root.PersistentFlags().BoolVar(&opts.jsonOut, "json", false, "print raw JSON responses")

	root.AddCommand(newAnalyzeCmd(opts))
	root.AddCommand(newHealthCmd(opts))
	root.AddCommand(newPronounsCmd(opts))
	return root
}
