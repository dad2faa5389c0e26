// Package main provides the seed command that loads a trek dataset into a
// local sqlite database.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"trekdata/internal/config"
	"trekdata/internal/logger"
	"trekdata/internal/models"
	"trekdata/internal/storage"
	"trekdata/internal/validator"
)

func main() {
	// 1. Define Command-Line Flags
	// ----------------------------
	configFile := flag.String("config", "", "Path to YAML configuration file")
	source := flag.String("source", "", "Dataset file to load (default: repair.source from config)")
	database := flag.String("db", "", "Database file to seed (default: seed.database_path from config)")
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

	log := logger.NewLogger(cfg.Logging.Level)

	target := *source
	if target == "" {
		target = cfg.Repair.Source
	}

	dbPath := *database
	if dbPath == "" {
		dbPath = cfg.Seed.DatabasePath
	}

	log.Info("🚀 Starting trek dataset seed")
	log.Info(fmt.Sprintf("📂 Source: %s", target))
	log.Info(fmt.Sprintf("🎯 Database: %s", dbPath))

	start := time.Now()

	// 2. Read & Validate
	// ------------------
	content, err := storage.ReadDataset(target)
	if err != nil {
		log.Error(fmt.Sprintf("❌ %v", err))
		os.Exit(2)
	}

	v := validator.NewDatasetValidator(cfg)

	result := v.ValidateText(content)
	if !result.IsValid {
		log.Error(fmt.Sprintf("❌ Dataset is invalid: %s", result))
		result.PrintErrors()
		fmt.Println("💡 Run the repair tool first.")
		os.Exit(3)
	}

	result.PrintWarnings()

	// 3. Decode Records
	// -----------------
	treks, err := models.DecodeTreks(content)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Dataset does not fit the trek model: %v", err))
		os.Exit(3)
	}

	valid := make([]models.Trek, 0, len(treks))
	skipped := 0

	for i, trek := range treks {
		if verr := trek.Validate(); verr != nil {
			log.Warn(fmt.Sprintf("⚠️  Skipping record %d: %v", i, verr))

			skipped++

			continue
		}

		valid = append(valid, trek)
	}

	log.Info(fmt.Sprintf("✅ Decoded %d treks (%d skipped)", len(valid), skipped))

	// 4. Seed Database
	// ----------------
	db, err := storage.OpenDB(dbPath)
	if err != nil {
		log.Error(fmt.Sprintf("❌ %v", err))
		os.Exit(4)
	}
	defer db.Close()

	if err := db.Init(); err != nil {
		log.Error(fmt.Sprintf("❌ %v", err))
		os.Exit(4)
	}

	inserted, updated, err := db.UpsertTreks(valid)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Seed failed: %v", err))
		os.Exit(4)
	}

	total, err := db.CountTreks()
	if err != nil {
		log.Error(fmt.Sprintf("❌ %v", err))
		os.Exit(4)
	}

	// 5. Final Report
	// ---------------
	log.Info("✨ Seed Complete!")
	fmt.Println("\n------------------------------------------------")
	fmt.Printf("📊 Seed Summary\n")
	fmt.Println("------------------------------------------------")
	fmt.Printf("Source:   %s\n", target)
	fmt.Printf("Database: %s\n", dbPath)
	fmt.Printf("Inserted: %d\n", inserted)
	fmt.Printf("Updated:  %d\n", updated)
	fmt.Printf("Skipped:  %d\n", skipped)
	fmt.Printf("In store: %d treks\n", total)
	fmt.Printf("Duration: %v\n", time.Since(start))
	fmt.Println("------------------------------------------------")
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
	fmt.Println("Usage: ./bin/seed [OPTIONS]")
	fmt.Println()
	fmt.Println("Validates a trek dataset and loads it into a local sqlite")
	fmt.Println("database, inserting new treks and updating existing ones by id.")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Exit codes:")
	fmt.Println("  0  success")
	fmt.Println("  1  usage or configuration error")
	fmt.Println("  2  dataset could not be read")
	fmt.Println("  3  dataset is invalid")
	fmt.Println("  4  database error")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  ./bin/seed")
	fmt.Println("  ./bin/seed -source data/treks.json -db data/treks.db")
}
