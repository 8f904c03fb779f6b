package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/synthkit/synthkit/core/feature"
	"github.com/synthkit/synthkit/core/search"
	"github.com/synthkit/synthkit/corpus"
	"github.com/synthkit/synthkit/database"
	"github.com/synthkit/synthkit/helper"
	"github.com/synthkit/synthkit/model"
	loadSql "github.com/synthkit/synthkit/sql"
)

var referenceFormulas = map[string]string{
	"mp-19017": "LiFePO4",
	"mp-25834": "LiMnPO4",
	"mp-22526": "LiCoPO4",
	"mp-25425": "LiNiPO4",
	"mp-18997": "NaFePO4",
}

type mapRecipes map[string][]model.Recipe

func (m mapRecipes) RecipesByFormula(ctx context.Context, formula string) ([]model.Recipe, error) {
	return m[formula], nil
}

func main() {
	ctx := context.Background()

	// Start a test PostgreSQL container with pgvector
	teardown, dbPort, err := helper.MustStartPostgresContainer()
	if err != nil {
		log.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer teardown(ctx)

	// Create database configuration using the container port
	dbConfig := &helper.DatabaseConfiguration{
		Host:     "localhost",
		Port:     dbPort,
		Database: "database",
		Username: "user",
		Password: "password",
		Schema:   "public",
		SSLMode:  "disable",
	}

	db := helper.NewDatabase("synthkit_example", dbConfig, nil)
	defer db.Close()

	if err := loadSql.Init(db.Instance); err != nil {
		log.Fatalf("Failed to initialize database extensions: %v", err)
	}

	featurizer := feature.NewCompositionFeaturizer()
	handler, err := database.NewMaterialsDBHandler(db, featurizer, false)
	if err != nil {
		log.Fatalf("Failed to create materials handler: %v", err)
	}

	// Featurize and store the reference materials
	records := make([]corpus.Record, 0, len(referenceFormulas))
	for id, formula := range referenceFormulas {
		material, err := model.NewCompositionMaterial(formula)
		if err != nil {
			log.Fatalf("Failed to parse %s: %v", formula, err)
		}
		features, err := featurizer.Featurize(material)
		if err != nil {
			log.Fatalf("Failed to featurize %s: %v", formula, err)
		}
		records = append(records, corpus.Record{MaterialID: id, Formula: formula, Features: features})
	}
	c, err := corpus.New(records)
	if err != nil {
		log.Fatalf("Failed to build corpus: %v", err)
	}
	if err := handler.InsertCorpus(c); err != nil {
		log.Fatalf("Failed to insert corpus: %v", err)
	}

	// Switch the vector index to HNSW for larger corpora
	if err := handler.ChangeIndexType(ctx, "hnsw", map[string]interface{}{}); err != nil {
		log.Fatalf("Failed to create vector index: %v", err)
	}

	// The handler doubles as the similarity backend of the recursive search
	recipes := mapRecipes{
		"LiFePO4": {model.Recipe(json.RawMessage(`{"doi":"10.1016/example-lifepo4"}`))},
		"LiMnPO4": {model.Recipe(json.RawMessage(`{"doi":"10.1016/example-limnpo4"}`))},
	}
	engine, err := search.NewEngine(handler, recipes, model.DefaultSearchConfig(), db.Logger)
	if err != nil {
		log.Fatalf("Failed to create search engine: %v", err)
	}

	result, err := engine.Search(ctx, "LiFePO4", 5)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	fmt.Printf("Status: %s (visited %d materials)\n", result.Status, result.VisitedMaterials)
	for i, rec := range result.Recommendations {
		fmt.Printf("  %d. %s (score=%.3f)\n", i+1, rec.SourceMaterial, rec.Score)
	}
}
