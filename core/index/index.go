// Package index implements the embedding index: featurization, corpus-fit
// standardization and exact nearest neighbor search in normalized space.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/synthkit/synthkit/core/feature"
	"github.com/synthkit/synthkit/corpus"
	"github.com/synthkit/synthkit/model"
	"gonum.org/v1/gonum/floats"
)

// confidenceTau is the decay constant mapping distance to confidence.
const confidenceTau = 3.0

// ConfidenceFromDistance maps a non-negative Euclidean distance in normalized
// feature space to a confidence in (0, 1], strictly decreasing in distance.
func ConfidenceFromDistance(distance float64) float64 {
	return math.Exp(-distance / confidenceTau)
}

// Index answers nearest neighbor queries over a fixed reference corpus.
// Construction fits the standardization statistics and pre-standardizes the
// corpus; both are immutable afterwards, so an Index is safe for concurrent
// queries.
type Index struct {
	featurizer feature.Featurizer
	corpus     *corpus.Corpus
	scaler     *StandardScaler
	scaled     [][]float64

	maxNeighbors int
	log          *slog.Logger
}

// New builds an index over the corpus using the given featurizer. The corpus
// feature dimension must match the featurizer's output dimension.
func New(featurizer feature.Featurizer, c *corpus.Corpus, config model.IndexConfig, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if c.Dimension() != featurizer.Dimension() {
		return nil, fmt.Errorf("%w: corpus dimension %d does not match featurizer dimension %d",
			model.ErrIndexUnavailable, c.Dimension(), featurizer.Dimension())
	}

	features := make([][]float64, c.Len())
	for i := 0; i < c.Len(); i++ {
		features[i] = c.Features(i)
	}
	scaler, err := FitStandardScaler(features)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrIndexUnavailable, err)
	}

	scaled := make([][]float64, c.Len())
	for i, row := range features {
		scaled[i], err = scaler.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrIndexUnavailable, err)
		}
	}

	maxNeighbors := config.MaxNeighbors
	if maxNeighbors <= 0 {
		maxNeighbors = model.DefaultIndexConfig().MaxNeighbors
	}

	logger.Info("Built embedding index",
		slog.String("input_kind", string(featurizer.Kind())),
		slog.Int("corpus_size", c.Len()),
		slog.Int("dimension", c.Dimension()))

	return &Index{
		featurizer:   featurizer,
		corpus:       c,
		scaler:       scaler,
		scaled:       scaled,
		maxNeighbors: maxNeighbors,
		log:          logger,
	}, nil
}

// Kind returns the input modality the index accepts.
func (idx *Index) Kind() model.InputKind {
	return idx.featurizer.Kind()
}

// Query returns the nNeighbors corpus entries nearest to the material, ranked
// ascending by Euclidean distance in the standardized feature space.
func (idx *Index) Query(ctx context.Context, material *model.Material, nNeighbors int) ([]model.Neighbor, error) {
	if material == nil || material.Kind != idx.featurizer.Kind() {
		return nil, model.ErrInvalidInputKind
	}
	if nNeighbors < 1 {
		return nil, fmt.Errorf("n_neighbors must be at least 1, got %d", nNeighbors)
	}
	if nNeighbors > idx.corpus.Len() {
		return nil, fmt.Errorf("n_neighbors %d exceeds corpus size %d", nNeighbors, idx.corpus.Len())
	}
	if nNeighbors > idx.maxNeighbors {
		nNeighbors = idx.maxNeighbors
	}

	features, err := idx.featurizer.Featurize(material)
	if err != nil {
		return nil, err
	}
	query, err := idx.scaler.Transform(features)
	if err != nil {
		return nil, err
	}

	distances := make([]float64, idx.corpus.Len())
	order := make([]int, idx.corpus.Len())
	for i, row := range idx.scaled {
		distances[i] = floats.Distance(query, row, 2)
		order[i] = i
	}
	// Stable ordering under distance ties keeps queries deterministic.
	sort.SliceStable(order, func(a, b int) bool {
		return distances[order[a]] < distances[order[b]]
	})

	neighbors := make([]model.Neighbor, nNeighbors)
	for rank := 0; rank < nNeighbors; rank++ {
		i := order[rank]
		neighbors[rank] = model.Neighbor{
			Rank:       rank,
			MaterialID: idx.corpus.MaterialID(i),
			Formula:    idx.corpus.Formula(i),
			Distance:   distances[i],
			Confidence: ConfidenceFromDistance(distances[i]),
		}
	}
	return neighbors, nil
}

// SimilarMaterials parses a formula and queries the index with it. It is only
// valid on composition indexes and satisfies the search engine's similarity
// lookup capability.
func (idx *Index) SimilarMaterials(ctx context.Context, formula string, nNeighbors int) ([]model.Neighbor, error) {
	if idx.featurizer.Kind() != model.InputKindComposition {
		return nil, model.ErrInvalidInputKind
	}
	material, err := model.NewCompositionMaterial(formula)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrLookupFailure, err)
	}
	return idx.Query(ctx, material, nNeighbors)
}
