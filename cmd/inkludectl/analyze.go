package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/inklude/internal/annotate"
	"github.com/fyrsmithlabs/inklude/internal/coref"
	"github.com/fyrsmithlabs/inklude/internal/engine"
	"github.com/fyrsmithlabs/inklude/internal/lexicon"
	"github.com/fyrsmithlabs/inklude/internal/neopronoun"
	"github.com/fyrsmithlabs/inklude/internal/pronoun"
	"github.com/fyrsmithlabs/inklude/internal/sanitize"
	"github.com/fyrsmithlabs/inklude/internal/suggest"
)

// maxInputSize bounds the text read from a file or stdin.
const maxInputSize = 1024 * 1024

type analyzeOptions struct {
	*options
	tone       string
	identities []string
	local      bool
}

func newAnalyzeCmd(opts *options) *cobra.Command {
	a := &analyzeOptions{options: opts}
	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Check text for gendered language and misgendering",
		Long: `Analyze a file or stdin for gendered language. With --identity, pronouns
that refer to a named person are checked against the pronouns they use.

Examples:
  # Analyze a file
  inkludectl analyze announcement.md

  # Analyze stdin with a direct tone
  echo "Hey guys, the chairman is here." | inkludectl analyze - --tone direct

  # Check pronouns for a person
  inkludectl analyze draft.txt --identity "Alex=they/them/their/theirs/themself"

  # Run without a server
  inkludectl analyze --local draft.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, a, args)
		},
	}
	cmd.Flags().StringVar(&a.tone, "tone", "", "suggestion tone: gentle, direct or research_backed")
	cmd.Flags().StringArrayVar(&a.identities, "identity", nil, `person and pronouns, "Name=forms" (repeatable)`)
	cmd.Flags().BoolVar(&a.local, "local", false, "analyze in-process instead of calling the server")
	return cmd
}

// analyzeRequest matches the check-pronouns body of the server.
type analyzeRequest struct {
	Text       string                     `json:"text"`
	Tone       string                     `json:"tone,omitempty"`
	Identities map[string][]pronoun.Forms `json:"identities,omitempty"`
}

func runAnalyze(cmd *cobra.Command, a *analyzeOptions, args []string) error {
	text, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	if err := sanitize.Text(text, 0); err != nil {
		return err
	}
	if _, err := sanitize.Tone(a.tone, suggest.ToneGentle); err != nil {
		return err
	}
	identities, err := sanitize.ParseIdentities(a.identities)
	if err != nil {
		return err
	}

	var (
		result engine.Result
		raw    []byte
	)
	if a.local {
		res, err := analyzeLocal(cmd.Context(), text, a.tone, identities)
		if err != nil {
			return err
		}
		result = *res
		if raw, err = json.Marshal(res); err != nil {
			return err
		}
	} else {
		path := "/api/v1/analyze/text"
		if len(identities) > 0 {
			path = "/api/v1/analyze/check-pronouns"
		}
		raw, err = newClient(a.options).do(cmd.Context(), "POST", path,
			analyzeRequest{Text: text, Tone: a.tone, Identities: identities}, &result)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if a.jsonOut {
		_, err := fmt.Fprintln(out, string(raw))
		return err
	}
	printReport(out, text, &result)
	return nil
}

func readInput(stdin io.Reader, args []string) (string, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(io.LimitReader(stdin, maxInputSize+1))
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		f, oerr := os.Open(filepath.Clean(args[0]))
		if oerr != nil {
			return "", fmt.Errorf("failed to read file %s: %w", args[0], oerr)
		}
		defer f.Close()
		data, err = io.ReadAll(io.LimitReader(f, maxInputSize+1))
		if err != nil {
			return "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
	}
	if len(data) > maxInputSize {
		return "", fmt.Errorf("input exceeds %d bytes", maxInputSize)
	}
	return string(data), nil
}

// analyzeLocal runs the engine in-process with the built-in catalogues.
func analyzeLocal(ctx context.Context, text, toneName string, raw map[string][]pronoun.Forms) (*engine.Result, error) {
	lex, err := lexicon.Load()
	if err != nil {
		return nil, err
	}
	neo, err := neopronoun.NewBuiltinRegistry()
	if err != nil {
		return nil, err
	}
	eng, err := engine.New(engine.DefaultConfig(), lex, neo,
		annotate.NewRuleAnnotator(annotate.WithCommonWords(lex.TermsByDescendingLength()...)), nil)
	if err != nil {
		return nil, err
	}
	tone, err := sanitize.Tone(toneName, eng.DefaultTone())
	if err != nil {
		return nil, err
	}
	var ids coref.IdentityMap
	if len(raw) > 0 {
		if ids, err = sanitize.Identities(raw); err != nil {
			return nil, err
		}
	}
	return eng.Analyze(ctx, text, tone, ids)
}

func printReport(w io.Writer, text string, res *engine.Result) {
	fmt.Fprintln(w, res.Summary)
	for _, is := range res.Issues {
		line, col := position(text, is.Span.Start)
		fmt.Fprintf(w, "\n  %d:%d  %q  [%s, %s]\n", line, col, is.Span.Text, is.Category, is.Severity)
		fmt.Fprintf(w, "        %s\n", is.Message)
		for _, s := range is.Suggestions {
			fmt.Fprintf(w, "        -> %s (%.2f)\n", s.Replacement, s.Confidence)
		}
	}
}

// position converts a byte offset to a 1-based line and rune column.
func position(text string, offset int) (line, col int) {
	if offset > len(text) {
		offset = len(text)
	}
	before := text[:offset]
	line = strings.Count(before, "\n") + 1
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		before = before[i+1:]
	}
	return line, utf8.RuneCountInString(before) + 1
}
