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

// Loads the tag catalog from a CSV of "name,color,slug" rows, matching
// existing tags by slug.
func main() {
	file := flag.String("file", "data/tags.csv", "CSV file with name,color,slug rows")
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
		if len(record) < 3 {
			log.Printf("skipping line %d: want name,color,slug", i+1)
			continue
		}
		if _, err := catalog.UpsertTag(context.Background(), record[0], record[1], record[2]); err != nil {
			log.Fatalf("Failed to load tag %q: %v", record[0], err)
		}
		loaded++
	}

	log.Printf("Loaded %d tags from %s", loaded, *file)
}
