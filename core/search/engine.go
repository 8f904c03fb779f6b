// Package search implements the recursive best-guess recipe search: a depth-
// and confidence-bounded walk of the similarity graph rooted at a target
// material, collecting every reachable recipe as a scored candidate.
package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/synthkit/synthkit/model"
)

// rootMaterialID is the synthetic id of the depth-0 target node. It is exempt
// from the visited check so the target formula itself can appear as a corpus
// neighbor deeper in the tree.
const rootMaterialID = "target"

// defaultInitialNeighbors is the neighbor count for the first level when the
// caller passes none.
const defaultInitialNeighbors = 30

// SimilarityLookup finds materials similar to a composition formula, ordered
// ascending by distance. Implementations must be deterministic for identical
// inputs and index state.
type SimilarityLookup interface {
	SimilarMaterials(ctx context.Context, formula string, nNeighbors int) ([]model.Neighbor, error)
}

// RecipeLookup retrieves synthesis recipes for a formula. The engine only
// inspects how many records come back and forwards them unmodified.
type RecipeLookup interface {
	RecipesByFormula(ctx context.Context, formula string) ([]model.Recipe, error)
}

// Engine performs recursive recipe searches. An engine instance supports one
// in-flight search at a time; callers needing concurrent searches must use
// independent engines or serialize access.
type Engine struct {
	config     model.SearchConfig
	similarity SimilarityLookup
	recipes    RecipeLookup
	log        *slog.Logger
}

// NewEngine wires a search engine from its two lookup capabilities.
func NewEngine(similarity SimilarityLookup, recipes RecipeLookup, config model.SearchConfig, logger *slog.Logger) (*Engine, error) {
	if similarity == nil {
		return nil, fmt.Errorf("similarity lookup is required")
	}
	if recipes == nil {
		return nil, fmt.Errorf("recipe lookup is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search config: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		config:     config,
		similarity: similarity,
		recipes:    recipes,
		log:        logger,
	}, nil
}

// searchNode is one entry in the traversal arena. Parent is an index into the
// same arena, -1 for the root; paths are reconstructed by walking parents.
type searchNode struct {
	materialID string
	formula    string
	confidence float64
	distance   float64
	depth      int
	parent     int
	children   []int
}

// searchState is the mutable per-search context: the node arena, the visited
// set and the collected candidates. It is created fresh for every Search call
// and never shared.
type searchState struct {
	nodes      []searchNode
	visited    map[string]struct{}
	candidates []*model.RecipeCandidate
}

// path reconstructs the root-to-node display string by walking parent indexes.
func (s *searchState) path(nodeIdx int) string {
	var parts []string
	for i := nodeIdx; i >= 0; i = s.nodes[i].parent {
		parts = append(parts, fmt.Sprintf("%s (%s)", s.nodes[i].formula, s.nodes[i].materialID))
	}
	for left, right := 0, len(parts)-1; left < right; left, right = left+1, right-1 {
		parts[left], parts[right] = parts[right], parts[left]
	}
	return strings.Join(parts, " -> ")
}

// Search runs the full recursive search for a target formula and aggregates
// the collected candidates into a result. Lookup failures inside the
// traversal only prune branches; the only error returned is an unparseable
// target formula.
func (e *Engine) Search(ctx context.Context, targetFormula string, nInitialNeighbors int) (*model.SearchResult, error) {
	targetComp, err := model.ParseComposition(targetFormula)
	if err != nil {
		return nil, fmt.Errorf("invalid target formula: %w", err)
	}
	if nInitialNeighbors < 1 {
		nInitialNeighbors = defaultInitialNeighbors
	}

	log := e.log.With(
		slog.String("search_id", uuid.NewString()),
		slog.String("target", targetFormula))
	log.Info("Starting recursive synthesis search",
		slog.Int("n_initial_neighbors", nInitialNeighbors))

	state := &searchState{visited: make(map[string]struct{})}
	state.nodes = append(state.nodes, searchNode{
		materialID: rootMaterialID,
		formula:    targetFormula,
		confidence: 1.0,
		distance:   0,
		depth:      0,
		parent:     -1,
	})

	e.explore(ctx, state, 0, nInitialNeighbors, 1.0, log)

	result := e.synthesizeResults(targetComp, state, log)
	log.Info("Search finished",
		slog.String("status", string(result.Status)),
		slog.Int("visited_materials", result.VisitedMaterials),
		slog.Int("total_candidates", result.TotalCandidates))
	return result, nil
}

// explore is the depth-first traversal. nodeIdx addresses the current node in
// the arena; confidenceThreshold is the admission bar that tightens by
// ConfidenceDecay per level.
func (e *Engine) explore(ctx context.Context, state *searchState, nodeIdx int, nNeighbors int, confidenceThreshold float64, log *slog.Logger) {
	node := state.nodes[nodeIdx]

	if node.depth >= e.config.MaxDepth {
		log.Debug("Max depth reached", slog.String("formula", node.formula), slog.Int("depth", node.depth))
		return
	}
	if node.confidence < e.config.MinConfidence {
		log.Debug("Confidence too low",
			slog.String("formula", node.formula),
			slog.Float64("confidence", node.confidence))
		return
	}

	isRoot := node.parent < 0
	if !isRoot {
		if _, seen := state.visited[node.materialID]; seen {
			log.Debug("Already visited", slog.String("material_id", node.materialID))
			return
		}
		state.visited[node.materialID] = struct{}{}
		e.collectRecipes(ctx, state, nodeIdx, log)
	}

	log.Debug("Exploring node",
		slog.String("formula", node.formula),
		slog.Float64("confidence", node.confidence),
		slog.Int("depth", node.depth))

	neighbors, err := e.similarity.SimilarMaterials(ctx, node.formula, nNeighbors)
	if err != nil {
		// Branch-local fault isolation: siblings and ancestors keep going.
		log.Warn("Similarity lookup failed, pruning branch",
			slog.String("formula", node.formula),
			slog.String("error", err.Error()))
		return
	}

	admission := confidenceThreshold * e.config.ConfidenceDecay
	var admitted []model.Neighbor
	for _, neighbor := range neighbors {
		if neighbor.Confidence < admission {
			continue
		}
		if _, seen := state.visited[neighbor.MaterialID]; seen {
			continue
		}
		admitted = append(admitted, neighbor)
		if len(admitted) == e.config.MaxNeighborsPerLevel {
			break
		}
	}
	if len(admitted) > 0 {
		log.Debug("Found promising neighbors",
			slog.String("formula", node.formula),
			slog.Int("count", len(admitted)))
	}

	// Exploration narrows with depth to bound total work.
	childNeighbors := nNeighbors / 2
	if childNeighbors < 5 {
		childNeighbors = 5
	}
	for _, neighbor := range admitted {
		childIdx := len(state.nodes)
		state.nodes = append(state.nodes, searchNode{
			materialID: neighbor.MaterialID,
			formula:    neighbor.Formula,
			confidence: neighbor.Confidence,
			distance:   neighbor.Distance,
			depth:      node.depth + 1,
			parent:     nodeIdx,
		})
		state.nodes[nodeIdx].children = append(state.nodes[nodeIdx].children, childIdx)

		e.explore(ctx, state, childIdx, childNeighbors, admission, log)
	}
}

// collectRecipes turns every retrievable recipe for a non-root node into a
// candidate. Lookup failures count as "no recipe here" and are never raised.
func (e *Engine) collectRecipes(ctx context.Context, state *searchState, nodeIdx int, log *slog.Logger) {
	node := state.nodes[nodeIdx]

	recipes, err := e.recipes.RecipesByFormula(ctx, node.formula)
	if err != nil {
		log.Warn("Recipe lookup failed",
			slog.String("formula", node.formula),
			slog.String("error", err.Error()))
		return
	}
	if len(recipes) == 0 {
		return
	}
	log.Debug("Found recipes",
		slog.String("formula", node.formula),
		slog.Int("count", len(recipes)))

	if len(recipes) > e.config.MaxRecipesPerMaterial {
		recipes = recipes[:e.config.MaxRecipesPerMaterial]
	}
	reasoning := "Found via path: " + state.path(nodeIdx)
	for _, recipe := range recipes {
		state.candidates = append(state.candidates, &model.RecipeCandidate{
			MaterialID: node.materialID,
			Formula:    node.formula,
			Recipe:     recipe,
			Confidence: node.confidence,
			Distance:   node.distance,
			PathLength: node.depth,
			Reasoning:  reasoning,
		})
	}
}
