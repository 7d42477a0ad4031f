// symscan scans a directory tree for source files, lexically extracts
// function and struct declarations with their doc comments, and writes
// the result as a JSON report. It can also keep the report current in
// watch mode or load the records into a queryable SQLite database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"symscan/internal/config"
	"symscan/internal/logging"
	"symscan/internal/scan"
	"symscan/internal/store"
	"symscan/internal/watch"
)

var logger *slog.Logger

const version = "0.1.0"

const defaultDBPath = ".symscan/symbols.db"

func main() {
	logger = logging.Default("symscan")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "scan":
		runScan(os.Args[2:])

	case "watch":
		runWatch(os.Args[2:])

	case "db":
		runDB(os.Args[2:])

	case "find":
		runFind(os.Args[2:])

	case "stats":
		runStats(os.Args[2:])

	case "version":
		fmt.Printf("symscan v%s\n", version)

	case "help", "-h", "--help":
		printUsage()

	default:
		logger.Error("unknown command", "command", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// scanConfig builds the effective configuration: env defaults first,
// then flag overrides, then the positional root path.
func scanConfig(fs *flag.FlagSet, args []string) config.ScanConfig {
	cfg := config.LoadScanConfigFromEnv(".")

	ext := fs.String("ext", cfg.Extension, "File extension to scan")
	out := fs.String("out", cfg.OutputPath, "Output JSON path")
	noGitignore := fs.Bool("no-gitignore", !cfg.UseGitignore, "Ignore the root's .gitignore")
	fs.Parse(args)

	path := "."
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		logger.Error("invalid path", "path", path, "error", err)
		os.Exit(1)
	}

	cfg.Root = absPath
	cfg.Extension = *ext
	cfg.OutputPath = *out
	cfg.UseGitignore = !*noGitignore

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

func runScan(args []string) {
	fs := flag.NewFlagSet("scan", flag.ExitOnError)
	cfg := scanConfig(fs, args)

	logger.Info("scanning", "config", cfg.String())

	scanner := scan.New(cfg, logger)
	result, err := scanner.Scan()
	if err != nil {
		logger.Error("scan failed", "error", err)
		os.Exit(1)
	}

	if err := scan.WriteJSON(cfg.OutputPath, result.Records); err != nil {
		logger.Error("writing report failed", "error", err)
		os.Exit(1)
	}

	logger.Info("scan complete",
		"files", result.FilesScanned,
		"skipped", result.FilesSkipped,
		"symbols", len(result.Records),
		"output", cfg.OutputPath,
		"duration", result.Duration.Round(time.Millisecond))
}

func runWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	debounceMs := fs.Int("debounce", 500, "Debounce window in milliseconds")
	cfg := scanConfig(fs, args)

	w, err := watch.New(cfg, time.Duration(*debounceMs)*time.Millisecond, logger)
	if err != nil {
		logger.Error("starting watcher failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Run(ctx); err != nil {
		logger.Error("watch failed", "error", err)
		os.Exit(1)
	}
}

func runDB(args []string) {
	fs := flag.NewFlagSet("db", flag.ExitOnError)
	dbPath := fs.String("db", "", "SQLite database path (default: <root>/.symscan/symbols.db)")
	cfg := scanConfig(fs, args)

	path := *dbPath
	if path == "" {
		path = filepath.Join(cfg.Root, defaultDBPath)
	}

	scanner := scan.New(cfg, logger)
	result, err := scanner.Scan()
	if err != nil {
		logger.Error("scan failed", "error", err)
		os.Exit(1)
	}

	st, err := store.Open(path)
	if err != nil {
		logger.Error("opening database failed", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.Replace(result.Records); err != nil {
		logger.Error("loading database failed", "error", err)
		os.Exit(1)
	}

	logger.Info("database loaded",
		"files", result.FilesScanned,
		"symbols", len(result.Records),
		"database", path)
}

func runFind(args []string) {
	fs := flag.NewFlagSet("find", flag.ExitOnError)
	dbPath := fs.String("db", defaultDBPath, "SQLite database path")
	limit := fs.Int("limit", 20, "Maximum results")
	fs.Parse(args)

	if fs.NArg() < 1 {
		logger.Error("find requires a symbol name")
		os.Exit(1)
	}
	name := fs.Arg(0)

	st, err := store.Open(*dbPath)
	if err != nil {
		logger.Error("opening database failed", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	records, err := st.FindByName(name, *limit)
	if err != nil {
		logger.Error("query failed", "error", err)
		os.Exit(1)
	}

	for _, r := range records {
		if r.Type == scan.KindFunction {
			fmt.Printf("%s  %s(%s)  %s\n", r.Type, r.Name, r.Params, r.SourceFile)
		} else {
			fmt.Printf("%s    %s  %s\n", r.Type, r.Name, r.SourceFile)
		}
	}
	if len(records) == 0 {
		fmt.Printf("no symbols matching %q\n", name)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	dbPath := fs.String("db", defaultDBPath, "SQLite database path")
	fs.Parse(args)

	st, err := store.Open(*dbPath)
	if err != nil {
		logger.Error("opening database failed", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	symbolCount, fileCount, err := st.Stats()
	if err != nil {
		logger.Error("reading stats failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Symbols: %d\n", symbolCount)
	fmt.Printf("Files:   %d\n", fileCount)
}

func printUsage() {
	fmt.Println("symscan - Lexical symbol extraction for source trees")
	fmt.Println()
	fmt.Println("Usage: symscan <command> [flags] [path]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  scan      Scan a tree and write the JSON report")
	fmt.Println("  watch     Scan, then rescan on file changes")
	fmt.Println("  db        Scan a tree into a SQLite database")
	fmt.Println("  find      Look up symbols by name in the database")
	fmt.Println("  stats     Show database record counts")
	fmt.Println("  version   Show version")
	fmt.Println("  help      Show this help")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  SYMSCAN_EXT         File extension filter [default: .go]")
	fmt.Println("  SYMSCAN_OUTPUT      Output JSON path [default: symbols.json]")
	fmt.Println("  SYMSCAN_GITIGNORE   Set to 'off' to disable .gitignore filtering")
	fmt.Println("  SYMSCAN_LOG_LEVEL   Log level (debug, info, warn, error) [default: info]")
	fmt.Println("  SYMSCAN_LOG_FORMAT  Output format (text, json) [default: text]")
}
