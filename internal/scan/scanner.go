package scan

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"symscan/internal/config"
)

// Scanner coordinates the pipeline: walk the tree, extract records
// from each qualifying file, collect everything into one sequence.
// Files are processed strictly one at a time; the accumulator is owned
// by the scan and never shared.
type Scanner struct {
	cfg    config.ScanConfig
	logger *slog.Logger
}

// New creates a scanner for the given configuration. A nil logger
// falls back to slog.Default().
func New(cfg config.ScanConfig, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{cfg: cfg, logger: logger}
}

// Result contains the records and statistics from one scan.
type Result struct {
	Records      []Record      `json:"records"`
	FilesScanned int           `json:"files_scanned"`
	FilesSkipped int           `json:"files_skipped"`
	Duration     time.Duration `json:"duration"`
}

// Scan walks the configured root and extracts symbol records from
// every matching file, in walk order. Files that cannot be read are
// skipped with a warning; a missing or unreadable root aborts the
// whole scan before any output is produced.
func (s *Scanner) Scan() (*Result, error) {
	start := time.Now()

	walker, err := NewWalker(s.cfg.Root, s.cfg.Extension, s.cfg.UseGitignore)
	if err != nil {
		return nil, err
	}

	files, err := walker.Files()
	if err != nil {
		return nil, err
	}

	result := &Result{Records: []Record{}}
	for _, path := range files {
		content, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("skipping unreadable file", "path", path, "error", err)
			result.FilesSkipped++
			continue
		}

		recs := Extract(string(content), s.sourcePath(path))
		result.Records = append(result.Records, recs...)
		result.FilesScanned++

		s.logger.Debug("scanned file", "path", path, "symbols", len(recs))
	}

	result.Duration = time.Since(start)
	return result, nil
}

// sourcePath returns the path recorded in a record's source_file
// field: relative to the root with forward slashes, so the output is
// stable across checkouts and platforms.
func (s *Scanner) sourcePath(path string) string {
	if rel, err := filepath.Rel(s.cfg.Root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}
