package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"

	"github.com/foodgram/backend/config"
	"github.com/foodgram/backend/internal/database"
	"github.com/foodgram/backend/internal/service"
)

// Loads the ingredient catalog from a CSV of "name,measurement_unit" rows.
// The load is idempotent: rows matching an existing (name, unit) pair are
// silently skipped, so re-running on the same file is a no-op.
func main() {
	file := flag.String("file", "data/ingredients.csv", "CSV file with name,measurement_unit rows")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewGorm(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate schema: %v", err)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *file, err)
	}
	defer f.Close()

	catalog := service.NewCatalogService(db)
	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Failed to parse %s: %v", *file, err)
	}

	loaded := 0
	for i, record := range records {
		if len(record) < 2 {
			log.Printf("skipping line %d: want name,measurement_unit", i+1)
			continue
		}
		if _, err := catalog.UpsertIngredient(context.Background(), record[0], record[1]); err != nil {
			log.Fatalf("Failed to load ingredient %q: %v", record[0], err)
		}
		loaded++
	}

	log.Printf("Loaded %d ingredients from %s", loaded, *file)
}
