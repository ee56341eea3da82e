// Inklude is the inclusive-language analysis daemon.
//
// It serves the analysis API over HTTP, with Prometheus metrics on
// /metrics and optional OpenTelemetry export.
//
// Configuration is read from ~/.config/inklude/config.yaml (or -config)
// and INKLUDE_* environment variables. See internal/config for details.
//
// Usage:
//
//	# Start server with defaults
//	inklude
//
//	# Configure via environment
//	INKLUDE_SERVER_HTTP_PORT=9090 INKLUDE_ADMIN_API_KEY=... inklude
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/inklude/internal/annotate"
	"github.com/fyrsmithlabs/inklude/internal/config"
	"github.com/fyrsmithlabs/inklude/internal/engine"
	httpserver "github.com/fyrsmithlabs/inklude/internal/http"
	"github.com/fyrsmithlabs/inklude/internal/lexicon"
	"github.com/fyrsmithlabs/inklude/internal/logging"
	"github.com/fyrsmithlabs/inklude/internal/neopronoun"
	"github.com/fyrsmithlabs/inklude/internal/sanitize"
	"github.com/fyrsmithlabs/inklude/internal/submissions"
	"github.com/fyrsmithlabs/inklude/internal/suggest"
	"github.com/fyrsmithlabs/inklude/internal/telemetry"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "config file (default ~/.config/inklude/config.yaml)")
	flag.Parse()
	args := flag.Args()

	if len(args) > 0 {
		switch args[0] {
		case "version":
			printVersion()
			os.Exit(0)
		default:
			fmt.Fprintf(os.Stderr, "Unknown command: %s\n", args[0])
			fmt.Fprintf(os.Stderr, "\nUsage:\n")
			fmt.Fprintf(os.Stderr, "  inklude [-config path]   Start the analysis server\n")
			fmt.Fprintf(os.Stderr, "  inklude version          Show version information\n")
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server shutdown complete")
}

func printVersion() {
	fmt.Printf("inklude by Fyrsmith Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the server and blocks until ctx is cancelled:
//  1. Loads and validates configuration
//  2. Initializes logger and telemetry
//  3. Loads the lexicon and neo-pronoun registries, plus the seed file
//  4. Builds the engine and the submission store
//  5. Serves HTTP until shutdown
func run(ctx context.Context, configPath string) error {
	cfg, err := config.LoadWithFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	logger.Info(ctx, "Starting inklude",
		zap.String("version", version),
		zap.String("addr", cfg.Server.Addr()),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout))

	tel, err := telemetry.New(ctx, telemetry.FromObservability(cfg.Observability, version), logger.Underlying().Named("telemetry"))
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Warn(shutdownCtx, "telemetry shutdown failed", zap.Error(err))
		}
	}()

	regs, err := initRegistries(ctx, cfg, logger.Underlying())
	if err != nil {
		return fmt.Errorf("failed to initialize registries: %w", err)
	}
	defer regs.Close()

	eng, err := engine.New(engine.Config{
		BatchWorkers: cfg.Analysis.BatchWorkers,
		DefaultTone:  suggest.Tone(cfg.Analysis.DefaultTone),
	}, regs.lexicon, regs.neo, annotate.NewRuleAnnotator(
		annotate.WithNames(cfg.Analysis.ExtraNames...),
		annotate.WithCommonWords(regs.lexicon.TermsByDescendingLength()...),
	), logger.Underlying().Named("engine"))
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	store, err := submissions.NewStore(eng, logger.Underlying().Named("submissions"))
	if err != nil {
		return fmt.Errorf("failed to create submission store: %w", err)
	}

	srv, err := httpserver.NewServer(eng, store, logger.Named("http"), httpserver.ConfigFrom(cfg, version))
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}

func initLogger(cfg *config.Config) (*logging.Logger, error) {
	lc := logging.NewDefaultConfig()
	level, err := logging.LevelFromString(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Logging.Level, err)
	}
	lc.Level = level
	lc.Format = cfg.Logging.Format
	lc.Development = cfg.Logging.Development
	return logging.NewLogger(lc)
}

// registries holds the loaded catalogues and the seed watcher, if any.
type registries struct {
	lexicon *lexicon.Registry
	neo     *neopronoun.Registry
	watcher *neopronoun.SeedWatcher
}

func initRegistries(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*registries, error) {
	lex, err := lexicon.Load()
	if err != nil {
		return nil, fmt.Errorf("loading lexicon: %w", err)
	}
	neo, err := neopronoun.NewBuiltinRegistry()
	if err != nil {
		return nil, fmt.Errorf("loading neo-pronoun catalogue: %w", err)
	}
	regs := &registries{lexicon: lex, neo: neo}

	if cfg.NeoPronouns.SeedFile == "" {
		return regs, nil
	}
	path, err := sanitize.ValidateSeedPath(cfg.NeoPronouns.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}

	if cfg.NeoPronouns.Watch {
		w, err := neopronoun.NewSeedWatcher(path, neo, logger.Named("seed"))
		if err != nil {
			return nil, err
		}
		if err := w.Start(ctx); err != nil {
			return nil, fmt.Errorf("starting seed watcher: %w", err)
		}
		regs.watcher = w
		return regs, nil
	}

	sets, err := neopronoun.LoadSeedFile(path)
	if err != nil {
		return nil, err
	}
	added, err := neo.RegisterAll(sets)
	if err != nil {
		// Rejected sets are reported but do not stop startup.
		logger.Warn("some seed sets were rejected", zap.Error(err))
	}
	logger.Info("neo-pronoun seed file loaded", zap.String("path", path), zap.Int("added", added))
	return regs, nil
}

// Close stops the seed watcher.
func (r *registries) Close() {
	if r.watcher != nil {
		r.watcher.Stop()
	}
}
