package main

import (
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/pageza/mealshare/backend/config"
	"github.com/pageza/mealshare/backend/internal/database"
	"github.com/pageza/mealshare/backend/internal/model"
)

// seedFile is the reference-data payload: ingredient and tag catalogs.
type seedFile struct {
	Ingredients []struct {
		Name            string `json:"name"`
		MeasurementUnit string `json:"measurement_unit"`
	} `json:"ingredients"`
	Tags []struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	} `json:"tags"`
}

func main() {
	path := flag.String("file", "data/reference.json", "reference data file")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	raw, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}

	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		log.Fatalf("Failed to parse seed file: %v", err)
	}

	var created, skipped int
	for _, ing := range seed.Ingredients {
		err := db.Create(&model.Ingredient{Name: ing.Name, MeasurementUnit: ing.MeasurementUnit}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			skipped++
			continue
		}
		if err != nil {
			log.Fatalf("Failed to seed ingredient %q: %v", ing.Name, err)
		}
		created++
	}
	for _, tag := range seed.Tags {
		err := db.Create(&model.Tag{Name: tag.Name, Slug: tag.Slug}).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			skipped++
			continue
		}
		if err != nil {
			log.Fatalf("Failed to seed tag %q: %v", tag.Name, err)
		}
		created++
	}

	log.Printf("Seeded %d rows (%d already present)", created, skipped)
}
