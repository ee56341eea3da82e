// Package engine runs the inclusive-language analysis pipeline: annotation,
// gendered-language and pronoun detection, coreference, misgendering checks
// and suggestion generation.
//
// An Engine is built once at startup from already-loaded registries and an
// annotator, and is safe for concurrent use. Analyses share no mutable
// state apart from the neo-pronoun registry, which handles its own
// synchronization.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/inklude/internal/annotate"
	"github.com/fyrsmithlabs/inklude/internal/coref"
	"github.com/fyrsmithlabs/inklude/internal/detect"
	"github.com/fyrsmithlabs/inklude/internal/lexicon"
	"github.com/fyrsmithlabs/inklude/internal/neopronoun"
	"github.com/fyrsmithlabs/inklude/internal/suggest"
)

const instrumentationName = "github.com/fyrsmithlabs/inklude/internal/engine"

// Config holds engine settings.
type Config struct {
	// BatchWorkers bounds the parallelism of AnalyzeBatch.
	BatchWorkers int
	// DefaultTone is used when a caller passes an empty tone.
	DefaultTone suggest.Tone
}

// DefaultConfig returns the default engine settings.
func DefaultConfig() Config {
	return Config{
		BatchWorkers: 4,
		DefaultTone:  suggest.ToneGentle,
	}
}

// Engine orchestrates an analysis.
type Engine struct {
	cfg       Config
	lexicon   *lexicon.Registry
	neo       *neopronoun.Registry
	annotator annotate.Annotator
	gendered  *detect.GenderedDetector
	pronouns  *detect.PronounDetector

	logger  *zap.Logger
	tracer  trace.Tracer
	metrics *Metrics
	ready   atomic.Bool
}

// New builds an engine. The engine reports Ready once New returns.
func New(cfg Config, lex *lexicon.Registry, neo *neopronoun.Registry, annotator annotate.Annotator, logger *zap.Logger) (*Engine, error) {
	if lex == nil {
		return nil, errors.New("lexicon registry is required")
	}
	if neo == nil {
		return nil, errors.New("neo-pronoun registry is required")
	}
	if annotator == nil {
		return nil, errors.New("annotator is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BatchWorkers <= 0 {
		cfg.BatchWorkers = DefaultConfig().BatchWorkers
	}
	if cfg.DefaultTone == "" {
		cfg.DefaultTone = suggest.ToneGentle
	}
	if _, ok := suggest.ParseTone(string(cfg.DefaultTone)); !ok {
		return nil, fmt.Errorf("unknown default tone %q", cfg.DefaultTone)
	}

	e := &Engine{
		cfg:       cfg,
		lexicon:   lex,
		neo:       neo,
		annotator: annotator,
		gendered:  detect.NewGenderedDetector(lex),
		pronouns:  detect.NewPronounDetector(neo),
		logger:    logger,
		tracer:    otel.Tracer(instrumentationName),
		metrics:   NewMetrics(),
	}
	e.ready.Store(true)

	logger.Info("analysis engine ready",
		zap.Int("lexicon_entries", lex.Len()),
		zap.Int("neopronoun_sets", neo.Len()),
		zap.Int("batch_workers", cfg.BatchWorkers))
	return e, nil
}

// Ready reports whether the engine has finished starting up.
func (e *Engine) Ready() bool {
	return e != nil && e.ready.Load()
}

// Lexicon returns the lexicon registry.
func (e *Engine) Lexicon() *lexicon.Registry { return e.lexicon }

// NeoPronouns returns the neo-pronoun registry.
func (e *Engine) NeoPronouns() *neopronoun.Registry { return e.neo }

// DefaultTone returns the tone used when none is given.
func (e *Engine) DefaultTone() suggest.Tone { return e.cfg.DefaultTone }

// Analyze runs the pipeline over text. identities may be nil, in which case
// no misgendering check is made. The only errors are those of the
// annotator, such as context cancellation.
func (e *Engine) Analyze(ctx context.Context, text string, tone suggest.Tone, identities coref.IdentityMap) (*Result, error) {
	if tone == "" {
		tone = e.cfg.DefaultTone
	}

	ctx, span := e.tracer.Start(ctx, "engine.Analyze")
	defer span.End()
	span.SetAttributes(
		attribute.Int("text_length", len(text)),
		attribute.String("tone", string(tone)),
		attribute.Int("identities", len(identities)),
	)

	start := time.Now()

	doc, err := e.annotator.Annotate(ctx, text, annotate.Hints{KnownNames: identities.Names()})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to annotate text: %w", err)
	}

	gendered := e.gendered.Detect(text, doc.Entities)
	pronouns := e.pronouns.Detect(doc.Tokens)
	links := coref.Resolve(pronouns, doc.Entities, doc.Sentences)

	var flags []coref.Flag
	if len(identities) > 0 {
		flags = coref.CheckMisgendering(links, identities)
	}

	issues := make([]suggest.Issue, 0, len(gendered)+len(flags))
	suppressed := 0
	for _, m := range gendered {
		if m.Suppressed {
			suppressed++
			continue
		}
		if !e.checkSpan(ctx, "gendered match", m.Span, text) {
			continue
		}
		issues = append(issues, suggest.FromGendered(m, tone))
	}
	for _, f := range flags {
		if !e.checkSpan(ctx, "misgendering flag", f.Pronoun.Span, text) {
			continue
		}
		issues = append(issues, suggest.FromMisgendering(f, tone))
	}
	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].Span.Start < issues[j].Span.Start
	})

	resolved := make(map[int]string, len(links))
	for _, l := range links {
		resolved[l.Pronoun.Span.Start] = l.AntecedentText
	}
	found := make([]PronounOccurrence, 0, len(pronouns))
	for _, p := range pronouns {
		if !e.checkSpan(ctx, "pronoun match", p.Span, text) {
			continue
		}
		found = append(found, PronounOccurrence{
			Span:           p.Span,
			Type:           p.Type,
			ResolvedEntity: resolved[p.Span.Start],
			IsNeoPronoun:   p.IsNeoPronoun,
		})
	}

	result := &Result{
		TextLength:    len(text),
		Issues:        issues,
		PronounsFound: found,
		Summary:       Summarize(issues),
	}

	byCategory := make(map[string]int)
	for _, is := range issues {
		byCategory[string(is.Category)]++
	}
	e.metrics.recordAnalysis(string(tone), time.Since(start).Seconds(), byCategory, len(flags), suppressed)

	span.SetAttributes(
		attribute.Int("issues", len(issues)),
		attribute.Int("pronouns", len(found)),
		attribute.Int("misgendering_flags", len(flags)),
	)
	return result, nil
}

// checkSpan reports whether span fits text. A span that does not is a
// detector bug: it is logged at DPanic level, which panics in development,
// and the match is dropped.
func (e *Engine) checkSpan(ctx context.Context, kind string, span detect.TextSpan, text string) bool {
	if span.ValidIn(text) {
		return true
	}
	e.metrics.InvariantViolations.Inc()
	e.logger.DPanic("span does not fit analysed text",
		zap.String("kind", kind),
		zap.Int("start", span.Start),
		zap.Int("end", span.End),
		zap.Int("text_length", len(text)),
		zap.String("trace_id", trace.SpanContextFromContext(ctx).TraceID().String()))
	return false
}

// RegisterNeoPronounSet adds a set to the neo-pronoun registry. It reports
// false without error when an identical set is already registered.
func (e *Engine) RegisterNeoPronounSet(set neopronoun.Set) (bool, error) {
	added, err := e.neo.Register(set)
	switch {
	case err != nil:
		e.metrics.recordRegistration("rejected")
		e.logger.Warn("neo-pronoun set rejected", zap.String("label", set.Label), zap.Error(err))
	case added:
		e.metrics.recordRegistration("added")
		e.logger.Info("neo-pronoun set registered", zap.String("label", set.Label), zap.Int("total", e.neo.Len()))
	default:
		e.metrics.recordRegistration("duplicate")
	}
	return added, err
}
