package neopronoun

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const maxSeedFileSize = 1024 * 1024 // 1MB

// LoadSeedFile reads community sets from a YAML file. Sets without a
// popularity are tagged emerging and sets without an origin are tagged
// as community-submitted.
func LoadSeedFile(path string) ([]Set, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat seed file: %w", err)
	}
	if info.Size() > maxSeedFileSize {
		return nil, fmt.Errorf("seed file too large: %d bytes (max %d)", info.Size(), maxSeedFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	sets, err := ParseSets(data)
	if err != nil {
		return nil, err
	}
	for i := range sets {
		if sets[i].Popularity == "" {
			sets[i].Popularity = PopularityEmerging
		}
		if sets[i].Origin == "" {
			sets[i].Origin = CommunityOrigin
		}
	}
	return sets, nil
}

// RegisterAll registers each set, continuing past failures. It returns the
// number of newly added sets and the joined errors of the rejected ones.
func (r *Registry) RegisterAll(sets []Set) (int, error) {
	var (
		added int
		errs  []error
	)
	for _, s := range sets {
		ok, err := r.Register(s)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			added++
		}
	}
	return added, errors.Join(errs...)
}

// SeedWatcher keeps a registry in sync with a community seed file. Because
// registration is idempotent, every change simply re-registers the whole
// file; sets removed from the file stay registered until restart.
type SeedWatcher struct {
	path     string
	registry *Registry
	logger   *zap.Logger

	watcher *fsnotify.Watcher
	stop    chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
}

// NewSeedWatcher creates a watcher for path. Call Start to begin watching.
func NewSeedWatcher(path string, registry *Registry, logger *zap.Logger) (*SeedWatcher, error) {
	if path == "" {
		return nil, errors.New("seed file path is required")
	}
	if registry == nil {
		return nil, errors.New("registry cannot be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedWatcher{
		path:     filepath.Clean(path),
		registry: registry,
		logger:   logger,
		stop:     make(chan struct{}),
	}, nil
}

// Reload registers the current contents of the seed file.
func (w *SeedWatcher) Reload() (int, error) {
	sets, err := LoadSeedFile(w.path)
	if err != nil {
		return 0, err
	}
	added, err := w.registry.RegisterAll(sets)
	w.logger.Info("neo-pronoun seed file loaded",
		zap.String("path", w.path),
		zap.Int("sets", len(sets)),
		zap.Int("added", added),
		zap.Int("total", w.registry.Len()))
	if err != nil {
		w.logger.Warn("some seed sets were rejected", zap.Error(err))
	}
	return added, err
}

// Start loads the file once and watches its directory for changes. The
// directory is watched rather than the file so that editors which replace
// the file by rename are handled.
func (w *SeedWatcher) Start(ctx context.Context) error {
	if _, err := w.Reload(); err != nil && !isRejection(err) {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}
	w.watcher = watcher

	w.wg.Add(1)
	go w.run(ctx)
	return nil
}

// Stop ends watching and waits for the watch goroutine to exit. Safe to
// call more than once.
func (w *SeedWatcher) Stop() {
	w.once.Do(func() {
		close(w.stop)
		if w.watcher != nil {
			_ = w.watcher.Close()
		}
	})
	w.wg.Wait()
}

func (w *SeedWatcher) run(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if _, err := w.Reload(); err != nil && !isRejection(err) {
				w.logger.Warn("failed to reload seed file", zap.String("path", w.path), zap.Error(err))
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("seed file watcher error", zap.Error(err))
		}
	}
}

// isRejection reports whether err only carries per-set rejections, which
// Reload has already logged.
func isRejection(err error) bool {
	return errors.Is(err, ErrInvalidSet) || errors.Is(err, ErrLabelConflict)
}
