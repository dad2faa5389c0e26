// Package main provides the trek dataset validation command-line tool.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"trekdata/internal/config"
	"trekdata/internal/storage"
	"trekdata/internal/validator"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	source := flag.String("source", "", "Dataset file to validate (default: repair.source from config)")
	strict := flag.Bool("strict", false, "Treat warnings as errors")
	help := flag.Bool("help", false, "Show usage information")

	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}

	if err := godotenv.Load(); err == nil {
		fmt.Println("⚙️  Loaded environment from .env")
	}

	cfg, err := resolveConfig(*configFile)
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	target := *source
	if target == "" {
		target = cfg.Repair.Source
	}

	fmt.Printf("📂 Validating: %s\n", target)

	content, err := storage.ReadDataset(target)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(2)
	}

	v := validator.NewDatasetValidator(cfg)

	result := v.ValidateText(content)
	integrity := v.ValidateManifest(target, content)

	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📊 %s\n", result)
	fmt.Println("------------------------------------------------")

	result.PrintErrors()
	result.PrintWarnings()
	integrity.PrintErrors()
	integrity.PrintWarnings()

	if !result.IsValid || !integrity.IsValid {
		fmt.Println("\n❌ Dataset is invalid. Run the repair tool to fix it.")
		os.Exit(3)
	}

	if *strict && len(result.Warnings)+len(integrity.Warnings) > 0 {
		fmt.Println("\n❌ Dataset has warnings and -strict is set.")
		os.Exit(3)
	}

	fmt.Printf("\n✅ Dataset valid: %d records\n", result.Stats.ValidRecords)
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

func printUsage() {
	fmt.Println("Usage: ./bin/validate [OPTIONS]")
	fmt.Println()
	fmt.Println("Validates a trek dataset file: strict JSON, unique identifiers,")
	fmt.Println("record counts within the configured bounds, and the manifest")
	fmt.Println("hash when one is present.")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Exit codes:")
	fmt.Println("  0  dataset is valid")
	fmt.Println("  1  usage or configuration error")
	fmt.Println("  2  dataset could not be read")
	fmt.Println("  3  dataset is invalid")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/validate")
	fmt.Println("  ./bin/validate -source data/treks.json")
	fmt.Println("  ./bin/validate -strict")
}
