// Package config holds scan configuration with environment overrides.
package config

import (
	"fmt"
	"os"
	"strings"
)

// Defaults used when neither flags nor environment say otherwise.
const (
	DefaultExtension = ".go"
	DefaultOutput    = "symbols.json"
)

// ScanConfig configures a single scan run.
type ScanConfig struct {
	// Root is the directory tree to scan.
	Root string

	// Extension is the file-name suffix filter, e.g. ".go".
	Extension string

	// OutputPath is where the JSON report is written.
	OutputPath string

	// UseGitignore controls whether the root's .gitignore is honored
	// during the walk.
	UseGitignore bool
}

// DefaultScanConfig returns the default configuration for a root.
func DefaultScanConfig(root string) ScanConfig {
	return ScanConfig{
		Root:         root,
		Extension:    DefaultExtension,
		OutputPath:   DefaultOutput,
		UseGitignore: true,
	}
}

// LoadScanConfigFromEnv loads scan configuration from environment
// variables. Supports the following variables:
//   - SYMSCAN_EXT: file extension filter (default: ".go")
//   - SYMSCAN_OUTPUT: output JSON path (default: "symbols.json")
//   - SYMSCAN_GITIGNORE: "off", "false" or "0" disables .gitignore filtering
func LoadScanConfigFromEnv(root string) ScanConfig {
	cfg := DefaultScanConfig(root)

	if ext := os.Getenv("SYMSCAN_EXT"); ext != "" {
		cfg.Extension = normalizeExtension(ext)
	}

	if out := os.Getenv("SYMSCAN_OUTPUT"); out != "" {
		cfg.OutputPath = out
	}

	if gi := os.Getenv("SYMSCAN_GITIGNORE"); gi != "" {
		switch strings.ToLower(gi) {
		case "off", "false", "0", "no":
			cfg.UseGitignore = false
		}
	}

	return cfg
}

// Validate checks that the configuration is usable.
func (c ScanConfig) Validate() error {
	if c.Root == "" {
		return fmt.Errorf("root path is empty")
	}
	if c.Extension == "" {
		return fmt.Errorf("extension filter is empty")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output path is empty")
	}
	return nil
}

// String returns a human-readable description of the configuration.
func (c ScanConfig) String() string {
	gi := "gitignore on"
	if !c.UseGitignore {
		gi = "gitignore off"
	}
	return fmt.Sprintf("root=%s ext=%s out=%s (%s)", c.Root, c.Extension, c.OutputPath, gi)
}

// normalizeExtension ensures the extension carries a leading dot, so
// "go" and ".go" behave the same.
func normalizeExtension(ext string) string {
	if !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}
