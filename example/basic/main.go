package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/synthkit/synthkit"
	"github.com/synthkit/synthkit/core/feature"
	"github.com/synthkit/synthkit/corpus"
	"github.com/synthkit/synthkit/model"
)

// referenceFormulas is a tiny stand-in for a precomputed corpus file.
var referenceFormulas = map[string]string{
	"mp-19017":  "LiFePO4",
	"mp-25834":  "LiMnPO4",
	"mp-22526":  "LiCoPO4",
	"mp-25425":  "LiNiPO4",
	"mp-18997":  "NaFePO4",
	"mp-540767": "LiFeSiO4",
	"mp-2534":   "Fe2O3",
	"mp-22862":  "NaCl",
}

// mapRecipes serves recipes from memory instead of the Materials Project API.
type mapRecipes map[string][]model.Recipe

func (m mapRecipes) RecipesByFormula(ctx context.Context, formula string) ([]model.Recipe, error) {
	return m[formula], nil
}

func buildCorpus() (*corpus.Corpus, error) {
	featurizer := feature.NewCompositionFeaturizer()

	records := make([]corpus.Record, 0, len(referenceFormulas))
	for id, formula := range referenceFormulas {
		material, err := model.NewCompositionMaterial(formula)
		if err != nil {
			return nil, err
		}
		features, err := featurizer.Featurize(material)
		if err != nil {
			return nil, err
		}
		records = append(records, corpus.Record{MaterialID: id, Formula: formula, Features: features})
	}
	return corpus.New(records)
}

func main() {
	ctx := context.Background()

	c, err := buildCorpus()
	if err != nil {
		log.Fatalf("Failed to build corpus: %v", err)
	}

	recipes := mapRecipes{
		"LiMnPO4": {model.Recipe(json.RawMessage(`{"doi":"10.1016/example-limnpo4","route":"solid-state"}`))},
		"LiCoPO4": {model.Recipe(json.RawMessage(`{"doi":"10.1016/example-licopo4","route":"sol-gel"}`))},
	}

	kit, err := synthkit.New(c, nil, recipes, model.DefaultSearchConfig())
	if err != nil {
		log.Fatalf("Failed to create synthkit: %v", err)
	}

	// Nearest neighbors of a target composition
	target := "LiFePO4"
	fmt.Printf("Nearest neighbors of %s:\n", target)

	neighbors, err := kit.SimilarByComposition(ctx, target, 5)
	if err != nil {
		log.Fatalf("Similarity query failed: %v", err)
	}
	for _, n := range neighbors {
		fmt.Printf("  %d. %-10s %-10s distance=%.3f confidence=%.3f\n",
			n.Rank+1, n.Formula, n.MaterialID, n.Distance, n.Confidence)
	}

	// Recursive recipe search
	fmt.Printf("\nSearching synthesis routes for %s...\n", target)

	result, err := kit.FindSynthesisRoutes(ctx, target, 8)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	fmt.Printf("Status: %s (visited %d materials, %d candidates)\n",
		result.Status, result.VisitedMaterials, result.TotalCandidates)
	for i, rec := range result.Recommendations {
		fmt.Printf("  %d. %s (score=%.3f, confidence=%.3f, %d recipes)\n",
			i+1, rec.SourceMaterial, rec.Score, rec.Confidence, rec.NumRecipes)
		fmt.Printf("     %s\n", rec.Reasoning)
	}

	if result.BestGuess != nil {
		fmt.Printf("\nBest guess: %s (%s), based on %s\n",
			result.BestGuess.Approach, result.BestGuess.ConfidenceLevel, result.BestGuess.PrimaryReference)
		for _, consideration := range result.BestGuess.KeyConsiderations {
			fmt.Printf("  - %s\n", consideration)
		}
	}
}
