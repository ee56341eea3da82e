package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

// healthResponse matches the /health and /health/ready bodies.
type healthResponse struct {
	Status         string `json:"status"`
	Service        string `json:"service"`
	Version        string `json:"version"`
	EngineReady    bool   `json:"engine_ready"`
	NeoPronounSets int    `json:"neopronoun_sets"`
	LexiconEntries int    `json:"lexicon_entries"`
}

func newHealthCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check inklude server health",
		Long: `Check the health and readiness of the inklude server.

Examples:
  # Check health
  inkludectl health

  # Check health on a different server
  inkludectl health --server http://localhost:9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := newClient(opts)

			var health healthResponse
			raw, err := c.do(cmd.Context(), http.MethodGet, "/health", nil, &health)
			if err != nil {
				return err
			}
			var ready healthResponse
			readyRaw, err := c.do(cmd.Context(), http.MethodGet, "/health/ready", nil, &ready)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				fmt.Fprintln(out, string(raw))
				fmt.Fprintln(out, string(readyRaw))
				return nil
			}
			fmt.Fprintf(out, "Server Status: %s\n", health.Status)
			if health.Version != "" {
				fmt.Fprintf(out, "Version: %s\n", health.Version)
			}
			fmt.Fprintf(out, "Readiness: %s (%d lexicon entries, %d neo-pronoun sets)\n",
				ready.Status, ready.LexiconEntries, ready.NeoPronounSets)
			fmt.Fprintf(out, "Server URL: %s\n", opts.serverURL)
			return nil
		},
	}
}
