package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/inklude/internal/neopronoun"
	"github.com/fyrsmithlabs/inklude/internal/pronoun"
	"github.com/fyrsmithlabs/inklude/internal/sanitize"
	"github.com/fyrsmithlabs/inklude/internal/submissions"
)

func newPronounsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pronouns",
		Short: "Browse neo-pronoun sets and submit new ones",
	}
	cmd.AddCommand(newPronounsListCmd(opts))
	cmd.AddCommand(newPronounsCheckCmd(opts))
	cmd.AddCommand(newPronounsSubmitCmd(opts))
	return cmd
}

func newPronounsListCmd(opts *options) *cobra.Command {
	var popularity string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known neo-pronoun sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := "/api/v1/neo-pronouns"
			if popularity != "" {
				path += "?popularity=" + url.QueryEscape(popularity)
			}
			var resp struct {
				Count int              `json:"count"`
				Sets  []neopronoun.Set `json:"sets"`
			}
			raw, err := newClient(opts).do(cmd.Context(), http.MethodGet, path, nil, &resp)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				fmt.Fprintln(out, string(raw))
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LABEL\tFORMS\tPOPULARITY")
			for _, s := range resp.Sets {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Label, allForms(s.Forms), s.Popularity)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d sets\n", resp.Count)
			return nil
		},
	}
	cmd.Flags().StringVar(&popularity, "popularity", "", "filter by tier: common, moderate, emerging or historical")
	return cmd
}

func newPronounsCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check <token>",
		Short: "Check whether a word is a known neo-pronoun form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Token        string             `json:"token"`
				IsNeoPronoun bool               `json:"is_neo_pronoun"`
				Matches      []neopronoun.Match `json:"matches"`
			}
			raw, err := newClient(opts).do(cmd.Context(), http.MethodGet,
				"/api/v1/neo-pronouns/check?token="+url.QueryEscape(args[0]), nil, &resp)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				fmt.Fprintln(out, string(raw))
				return nil
			}
			if !resp.IsNeoPronoun {
				fmt.Fprintf(out, "%q is not a known neo-pronoun form\n", resp.Token)
				return nil
			}
			fmt.Fprintf(out, "%q is a neo-pronoun form:\n", resp.Token)
			for _, m := range resp.Matches {
				fmt.Fprintf(out, "  %s (%s)\n", m.Label, m.Role)
			}
			return nil
		},
	}
}

func newPronounsSubmitCmd(opts *options) *cobra.Command {
	var (
		forms     string
		label     string
		usageNote string
		example   string
		by        string
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a pronoun set for review",
		Long: `Submit a community pronoun set. All five forms are required, in the order
subject/object/possessive/possessive pronoun/reflexive.

Examples:
  inkludectl pronouns submit --forms vae/vaer/vaer/vaers/vaerself --usage-note "Vae is coming."`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := sanitize.ParseForms(forms)
			if err != nil {
				return err
			}
			if label == "" {
				label = f.Subject + "/" + f.Object
			}
			create := submissions.Create{Forms: f, Label: label, UsageNote: usageNote, Example: example}
			if err := create.Validate(); err != nil {
				return err
			}

			c := newClient(opts)
			if by = strings.TrimSpace(by); by != "" {
				c.headers["X-Submitted-By"] = by
			}
			var sub submissions.Submission
			raw, err := c.do(cmd.Context(), http.MethodPost, "/api/v1/custom-pronouns", create, &sub)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				fmt.Fprintln(out, string(raw))
				return nil
			}
			fmt.Fprintf(out, "Submitted %s (%s) for review, id %s\n", sub.Label, allForms(sub.Forms), sub.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&forms, "forms", "", "subject/object/possessive/possessive_pronoun/reflexive")
	cmd.Flags().StringVar(&label, "label", "", "set label (default subject/object)")
	cmd.Flags().StringVar(&usageNote, "usage-note", "", "how the set is used")
	cmd.Flags().StringVar(&example, "example", "", "example sentence")
	cmd.Flags().StringVar(&by, "by", "", "submitter name")
	_ = cmd.MarkFlagRequired("forms")
	return cmd
}

func allForms(f pronoun.Forms) string {
	forms := make([]string, len(pronoun.Roles))
	for i, role := range pronoun.Roles {
		forms[i] = f.Get(role)
	}
	return strings.Join(forms, "/")
}
