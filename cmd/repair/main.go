// Package main provides the trek dataset repair command-line tool.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"trekdata/internal/config"
	"trekdata/internal/logger"
	"trekdata/internal/repair"
	"trekdata/internal/storage"
)

func main() {
	// 1. Define Command-Line Flags
	// ----------------------------
	configFile := flag.String("config", "", "Path to YAML configuration file")
	source := flag.String("source", "", "Dataset file to repair (default: repair.source from config)")
	all := flag.Bool("all", false, "Repair every enabled source from the configuration")
	dryRun := flag.Bool("dry-run", false, "Report what would change without writing")
	quiet := flag.Bool("quiet", false, "Only log errors")
	help := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	if *all && *source != "" {
		fmt.Println("❌ -all and -source are mutually exclusive")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// 2. Load Environment & Configuration
	// -----------------------------------
	if err := godotenv.Load(); err == nil {
		fmt.Println("⚙️  Loaded environment from .env")
	}

	cfg, err := resolveConfig(*configFile)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Logging.Level)
	if *quiet {
		log.Quiet()
	}

	log.Info("🚀 Starting trek dataset repair")

	if *dryRun {
		log.Info("👀 Dry-run mode (no changes will be written)")
	}

	// 3. Repair
	// ---------
	start := time.Now()
	engine := repair.NewEngine(cfg, log)

	var exit int

	if *all {
		exit = runAll(engine, cfg, log, *dryRun)
	} else {
		target := *source
		if target == "" {
			target = cfg.Repair.Source
		}

		exit = runOne(engine, target, *dryRun)
	}

	if exit != 0 {
		os.Exit(exit)
	}

	log.Info(fmt.Sprintf("✨ Done in %v", time.Since(start)))
}

// runOne repairs a single dataset file and prints its report.
func runOne(engine *repair.Engine, target string, dryRun bool) int {
	report, err := engine.Run(target, dryRun)

	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📊 Repair Report\n")
	fmt.Println("------------------------------------------------")
	fmt.Print(report.Summary())
	fmt.Println("------------------------------------------------")

	if err != nil {
		if errors.Is(err, repair.ErrNothingRecovered) {
			fmt.Println("❌ Failed to recover any treks, file left untouched")
		} else {
			fmt.Printf("❌ Repair failed: %v\n", err)
		}

		return exitCode(err)
	}

	switch report.Outcome {
	case repair.OutcomeClean:
		fmt.Printf("✅ Dataset already clean (%d records)\n", report.Records)
	case repair.OutcomeRepaired:
		fmt.Printf("✅ Successfully fixed and deduplicated %d records\n", report.Records)
	case repair.OutcomeRecovered:
		fmt.Printf("⚠️  Recovered %d treks through the scan fallback\n", report.Records)
	}

	if dryRun && report.Changed {
		fmt.Println("💡 Run without -dry-run to apply changes.")
	}

	return 0
}

// runAll repairs every enabled source, a few at a time, and returns the
// worst exit code across them.
func runAll(engine *repair.Engine, cfg *config.Config, log *logger.Logger, dryRun bool) int {
	sources := cfg.GetEnabledSources()
	if len(sources) == 0 {
		fmt.Println("❌ No enabled sources in configuration")

		return 1
	}

	log.Info(fmt.Sprintf("📂 Repairing %d sources (concurrency %d)", len(sources), cfg.Repair.Concurrency))

	reports := make([]*repair.Report, len(sources))
	errs := make([]error, len(sources))

	g := new(errgroup.Group)
	g.SetLimit(cfg.Repair.Concurrency)

	for i, src := range sources {
		g.Go(func() error {
			reports[i], errs[i] = engine.Run(src.Path, dryRun)

			return errs[i]
		})
	}

	if err := g.Wait(); err != nil {
		log.Warn(fmt.Sprintf("⚠️  At least one source failed: %v", err))
	}

	exit := 0
	records := 0

	for i, src := range sources {
		fmt.Println("\n------------------------------------------------")
		fmt.Printf("📊 %s\n", src.DisplayName())
		fmt.Println("------------------------------------------------")

		if reports[i] != nil {
			fmt.Print(reports[i].Summary())
		}

		if errs[i] != nil {
			fmt.Printf("❌ %v\n", errs[i])

			if code := exitCode(errs[i]); code > exit {
				exit = code
			}

			continue
		}

		records += reports[i].Records
		fmt.Printf("✅ %s: %d records (%s)\n", src.DisplayName(), reports[i].Records, reports[i].Outcome)
	}

	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📈 Total: %d records across %d sources\n", records, len(sources))

	return exit
}

// resolveConfig finds the configuration: explicit flag first, then the
// TREKDATA_CONFIG environment variable, then the default location if it
// exists, finally built-in defaults.
func resolveConfig(flagPath string) (*config.Config, error) {
	path := flagPath
	if path == "" {
		path = os.Getenv("TREKDATA_CONFIG")
	}

	if path == "" {
		if _, err := os.Stat(config.DefaultPath); err == nil {
			path = config.DefaultPath
		}
	}

	if path == "" {
		return config.DefaultConfig(), nil
	}

	fmt.Printf("⚙️  Loading configuration from: %s\n", path)

	return config.LoadConfig(path)
}

// exitCode maps a repair failure to its exit code: 2 for unreadable input,
// 3 for exhausted recovery, 4 for write failures, 5 for an invalid record,
// 1 for anything else.
func exitCode(err error) int {
	switch {
	case errors.Is(err, storage.ErrReadDataset):
		return 2
	case errors.Is(err, repair.ErrNothingRecovered):
		return 3
	case errors.Is(err, storage.ErrWriteDataset):
		return 4
	case errors.Is(err, repair.ErrInvalidRecord):
		return 5
	default:
		return 1
	}
}

func printUsage() {
	fmt.Println("Usage: ./bin/repair [OPTIONS]")
	fmt.Println()
	fmt.Println("Repairs a trek dataset file: applies textual patches for known")
	fmt.Println("corruption, removes duplicate identifiers, and falls back to a")
	fmt.Println("record-by-record scan when the document will not parse.")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Exit codes:")
	fmt.Println("  0  success")
	fmt.Println("  1  usage or configuration error")
	fmt.Println("  2  dataset could not be read")
	fmt.Println("  3  nothing could be recovered")
	fmt.Println("  4  repaired dataset could not be written")
	fmt.Println("  5  dataset contains an invalid record")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/repair")
	fmt.Println("  ./bin/repair -source data/treks.json -dry-run")
	fmt.Println("  ./bin/repair -all -config configs/repair.yaml")
}
