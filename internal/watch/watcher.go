// Package watch keeps the JSON report current: it watches the scanned
// tree for file changes and re-runs the scan after a debounce window.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"symscan/internal/config"
	"symscan/internal/scan"
)

// DefaultDebounce is the quiet period after the last relevant event
// before a rescan runs. Editors tend to fire bursts of events per save.
const DefaultDebounce = 500 * time.Millisecond

// Watcher re-scans the tree and rewrites the report whenever matching
// files change.
type Watcher struct {
	cfg      config.ScanConfig
	scanner  *scan.Scanner
	fsw      *fsnotify.Watcher
	debounce time.Duration
	logger   *slog.Logger

	// OnRescan, when set before Run, is called after every completed
	// rescan with its result.
	OnRescan func(*scan.Result)
}

// New creates a watcher for the given scan configuration.
func New(cfg config.ScanConfig, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	return &Watcher{
		cfg:      cfg,
		scanner:  scan.New(cfg, logger),
		fsw:      fsw,
		debounce: debounce,
		logger:   logger,
	}, nil
}

// Run performs an initial scan, then blocks rescanning on changes
// until the context is cancelled. The initial scan failing is fatal;
// later rescan failures are logged and the watch continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	if err := w.rescan(); err != nil {
		return err
	}
	if err := w.addWatches(); err != nil {
		return err
	}

	w.logger.Info("watching for changes",
		"root", w.cfg.Root, "ext", w.cfg.Extension, "debounce", w.debounce)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.handleEvent(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-fire:
			timer = nil
			fire = nil
			if err := w.rescan(); err != nil {
				w.logger.Error("rescan failed", "error", err)
			}
		}
	}
}

// handleEvent reports whether the event should trigger a rescan, and
// registers watches on newly created directories.
func (w *Watcher) handleEvent(ev fsnotify.Event) bool {
	name := filepath.Base(ev.Name)

	if ev.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if scan.SkippableDir(name) {
				return false
			}
			if err := w.fsw.Add(ev.Name); err != nil {
				w.logger.Warn("watching new directory failed", "path", ev.Name, "error", err)
			}
			return true
		}
	}

	if strings.HasSuffix(name, w.cfg.Extension) {
		return true
	}

	// A removed or renamed entry with no extension may have been a
	// watched directory; rescanning is cheap enough to be safe.
	if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && filepath.Ext(name) == "" {
		return true
	}

	return false
}

// addWatches registers the root and every non-skippable subdirectory.
func (w *Watcher) addWatches() error {
	return filepath.WalkDir(w.cfg.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == w.cfg.Root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.cfg.Root && scan.SkippableDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// rescan runs one scan and rewrites the report.
func (w *Watcher) rescan() error {
	result, err := w.scanner.Scan()
	if err != nil {
		return err
	}
	if err := scan.WriteJSON(w.cfg.OutputPath, result.Records); err != nil {
		return err
	}

	w.logger.Info("report updated",
		"files", result.FilesScanned,
		"symbols", len(result.Records),
		"output", w.cfg.OutputPath,
		"duration", result.Duration.Round(time.Millisecond))

	if w.OnRescan != nil {
		w.OnRescan(result)
	}
	return nil
}
