// Package synthkit discovers synthesis recipes for target materials by
// combining an embedding-based similarity index with a recursive best-guess
// search over the similarity graph.
package synthkit

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/synthkit/synthkit/core/feature"
	"github.com/synthkit/synthkit/core/index"
	"github.com/synthkit/synthkit/core/search"
	"github.com/synthkit/synthkit/corpus"
	"github.com/synthkit/synthkit/helper"
	"github.com/synthkit/synthkit/model"
)

// SynthKit provides a unified interface to the similarity indexes and the
// recursive recipe search.
type SynthKit struct {
	Composition *index.Index
	Structure   *index.Index
	Recipes     search.RecipeLookup
	Config      model.SearchConfig
	// Logging
	log *slog.Logger
}

// New creates a SynthKit instance with in-memory indexes built from the given
// corpora. structureCorpus may be nil if only composition queries are needed.
func New(compositionCorpus, structureCorpus *corpus.Corpus, recipes search.RecipeLookup, config model.SearchConfig) (*SynthKit, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	if compositionCorpus == nil {
		return nil, helper.NewError("corpus validation", fmt.Errorf("composition corpus is nil"))
	}
	if recipes == nil {
		return nil, helper.NewError("recipe lookup validation", fmt.Errorf("recipe lookup is nil"))
	}
	if err := config.Validate(); err != nil {
		return nil, helper.NewError("search config validation", err)
	}

	compositionIndex, err := index.New(feature.NewCompositionFeaturizer(), compositionCorpus, model.DefaultIndexConfig(), logger)
	if err != nil {
		return nil, helper.NewError("create composition index", err)
	}

	var structureIndex *index.Index
	if structureCorpus != nil {
		structureIndex, err = index.New(feature.NewStructureFeaturizer(), structureCorpus, model.DefaultIndexConfig(), logger)
		if err != nil {
			return nil, helper.NewError("create structure index", err)
		}
	}

	return &SynthKit{
		Composition: compositionIndex,
		Structure:   structureIndex,
		Recipes:     recipes,
		Config:      config,
		log:         logger,
	}, nil
}

// SimilarByComposition returns the materials nearest to a composition formula.
func (s *SynthKit) SimilarByComposition(ctx context.Context, formula string, nNeighbors int) ([]model.Neighbor, error) {
	return s.Composition.SimilarMaterials(ctx, formula, nNeighbors)
}

// SimilarByStructure returns the materials nearest to a crystal structure.
func (s *SynthKit) SimilarByStructure(ctx context.Context, structure *model.Structure, nNeighbors int) ([]model.Neighbor, error) {
	if s.Structure == nil {
		return nil, fmt.Errorf("%w: no structure corpus loaded", model.ErrIndexUnavailable)
	}
	material, err := model.NewStructureMaterial(structure)
	if err != nil {
		return nil, err
	}
	return s.Structure.Query(ctx, material, nNeighbors)
}

// FindSynthesisRoutes runs the recursive recipe search for a target formula.
// Each call uses an independent engine, so concurrent searches are safe.
func (s *SynthKit) FindSynthesisRoutes(ctx context.Context, targetFormula string, nInitialNeighbors int) (*model.SearchResult, error) {
	engine, err := search.NewEngine(s.Composition, s.Recipes, s.Config, s.log)
	if err != nil {
		return nil, helper.NewError("create search engine", err)
	}
	return engine.Search(ctx, targetFormula, nInitialNeighbors)
}
