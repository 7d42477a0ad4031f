package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"symscan/internal/config"
	"symscan/internal/logging"
	"symscan/internal/scan"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func waitResult(t *testing.T, results <-chan *scan.Result) *scan.Result {
	t.Helper()
	select {
	case r := <-results:
		return r
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for rescan")
		return nil
	}
}

func TestWatcherRescansOnChange(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.go"), "func A() {\n}\n")

	cfg := config.DefaultScanConfig(root)
	cfg.UseGitignore = false
	cfg.OutputPath = filepath.Join(t.TempDir(), "symbols.json")

	w, err := New(cfg, 50*time.Millisecond, logging.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	results := make(chan *scan.Result, 8)
	w.OnRescan = func(r *scan.Result) { results <- r }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run() error = %v", err)
		}
	}()

	initial := waitResult(t, results)
	if len(initial.Records) != 1 {
		t.Fatalf("initial scan: expected 1 record, got %d", len(initial.Records))
	}

	// Give the watcher a moment to register its directory watches
	// before producing events.
	time.Sleep(200 * time.Millisecond)

	writeFile(t, filepath.Join(root, "b.go"), "func B() {\n}\n\ntype C struct {\n}\n")

	deadline := time.After(10 * time.Second)
	for {
		select {
		case r := <-results:
			if len(r.Records) == 3 {
				// Output file must reflect the rescan.
				records, err := scan.ReadJSON(cfg.OutputPath)
				if err != nil {
					t.Fatalf("ReadJSON() error = %v", err)
				}
				if len(records) != 3 {
					t.Errorf("expected 3 records in report, got %d", len(records))
				}
				return
			}
		case <-deadline:
			t.Fatal("never observed the new file in a rescan")
		}
	}
}

func TestWatcherInitialScanFailure(t *testing.T) {
	cfg := config.DefaultScanConfig(filepath.Join(t.TempDir(), "missing"))
	cfg.OutputPath = filepath.Join(t.TempDir(), "symbols.json")

	w, err := New(cfg, 50*time.Millisecond, logging.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := w.Run(context.Background()); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestWatcherStopsOnCancel(t *testing.T) {
	root := t.TempDir()
	cfg := config.DefaultScanConfig(root)
	cfg.UseGitignore = false
	cfg.OutputPath = filepath.Join(t.TempDir(), "symbols.json")

	w, err := New(cfg, 50*time.Millisecond, logging.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}
