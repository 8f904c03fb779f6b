package search

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/synthkit/synthkit/model"
)

// fakeSimilarity serves canned neighbor lists keyed by formula and can be told
// to fail for specific formulas.
type fakeSimilarity struct {
	neighbors map[string][]model.Neighbor
	failing   map[string]bool
	calls     []string
}

func (f *fakeSimilarity) SimilarMaterials(ctx context.Context, formula string, nNeighbors int) ([]model.Neighbor, error) {
	f.calls = append(f.calls, formula)
	if f.failing[formula] {
		return nil, fmt.Errorf("%w: similarity backend down", model.ErrLookupFailure)
	}
	neighbors := f.neighbors[formula]
	if len(neighbors) > nNeighbors {
		neighbors = neighbors[:nNeighbors]
	}
	return neighbors, nil
}

// fakeRecipes serves canned recipe lists keyed by formula.
type fakeRecipes struct {
	recipes map[string][]model.Recipe
	failing map[string]bool
	calls   []string
}

func (f *fakeRecipes) RecipesByFormula(ctx context.Context, formula string) ([]model.Recipe, error) {
	f.calls = append(f.calls, formula)
	if f.failing[formula] {
		return nil, fmt.Errorf("%w: recipe backend down", model.ErrLookupFailure)
	}
	return f.recipes[formula], nil
}

func neighbor(id, formula string, confidence float64) model.Neighbor {
	return model.Neighbor{MaterialID: id, Formula: formula, Confidence: confidence, Distance: 1 - confidence}
}

func recipe(name string) model.Recipe {
	return model.Recipe(json.RawMessage(fmt.Sprintf(`{"recipe":%q}`, name)))
}

func newTestEngine(t *testing.T, similarity SimilarityLookup, recipes *fakeRecipes, config model.SearchConfig) *Engine {
	t.Helper()
	engine, err := NewEngine(similarity, recipes, config, nil)
	require.NoError(t, err)
	return engine
}

func TestNewEngine(t *testing.T) {
	similarity := &fakeSimilarity{}
	recipes := &fakeRecipes{}

	t.Run("Requires both lookups", func(t *testing.T) {
		_, err := NewEngine(nil, recipes, model.DefaultSearchConfig(), nil)
		assert.Error(t, err)
		_, err = NewEngine(similarity, nil, model.DefaultSearchConfig(), nil)
		assert.Error(t, err)
	})

	t.Run("Rejects invalid config", func(t *testing.T) {
		config := model.DefaultSearchConfig()
		config.ConfidenceDecay = 2
		_, err := NewEngine(similarity, recipes, config, nil)
		assert.Error(t, err)
	})
}

func TestSearchDirectHit(t *testing.T) {
	similarity := &fakeSimilarity{
		neighbors: map[string][]model.Neighbor{
			"LiFePO4": {neighbor("mp-1", "LiMnPO4", 0.99)},
		},
	}
	recipes := &fakeRecipes{
		recipes: map[string][]model.Recipe{
			"LiMnPO4": {recipe("solid-state")},
		},
	}
	engine := newTestEngine(t, similarity, recipes, model.DefaultSearchConfig())

	result, err := engine.Search(context.Background(), "LiFePO4", 10)
	require.NoError(t, err)

	assert.Equal(t, model.StatusSuccess, result.Status)
	assert.Equal(t, "LiFePO4", result.Target)
	require.NotNil(t, result.BestGuess)
	assert.Equal(t, "direct_adaptation", result.BestGuess.Approach)
	assert.Equal(t, "very_high", result.BestGuess.ConfidenceLevel)
	assert.Equal(t, "LiMnPO4", result.BestGuess.PrimaryReference)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "mp-1", result.Recommendations[0].MaterialID)
	assert.Contains(t, result.Recommendations[0].Reasoning, "LiFePO4 (target) -> LiMnPO4 (mp-1)")
}

func TestSearchNoRecipesAnywhere(t *testing.T) {
	similarity := &fakeSimilarity{
		neighbors: map[string][]model.Neighbor{
			"LiFePO4": {
				neighbor("mp-1", "LiMnPO4", 0.95),
				neighbor("mp-2", "LiCoPO4", 0.92),
			},
		},
	}
	recipes := &fakeRecipes{}
	engine := newTestEngine(t, similarity, recipes, model.DefaultSearchConfig())

	result, err := engine.Search(context.Background(), "LiFePO4", 10)
	require.NoError(t, err)

	assert.Equal(t, model.StatusNoRecipesFound, result.Status)
	assert.Greater(t, result.VisitedMaterials, 0)
	assert.Empty(t, result.Recommendations)
	assert.Nil(t, result.BestGuess)
	assert.NotEmpty(t, result.Message)
}

func TestSearchLookupFailureMidTraversal(t *testing.T) {
	similarity := &fakeSimilarity{
		neighbors: map[string][]model.Neighbor{
			"LiFePO4": {
				neighbor("mp-1", "LiMnPO4", 0.96),
				neighbor("mp-2", "LiCoPO4", 0.94),
			},
		},
		failing: map[string]bool{"LiMnPO4": true},
	}
	recipes := &fakeRecipes{
		recipes: map[string][]model.Recipe{
			"LiCoPO4": {recipe("sol-gel")},
		},
	}
	engine := newTestEngine(t, similarity, recipes, model.DefaultSearchConfig())

	result, err := engine.Search(context.Background(), "LiFePO4", 10)
	require.NoError(t, err, "Expected lookup failure to stay inside the traversal")

	assert.Equal(t, model.StatusSuccess, result.Status)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "LiCoPO4", result.Recommendations[0].SourceMaterial)
}

func TestSearchRecipeLookupFailureIsNoRecipe(t *testing.T) {
	similarity := &fakeSimilarity{
		neighbors: map[string][]model.Neighbor{
			"LiFePO4": {neighbor("mp-1", "LiMnPO4", 0.96)},
		},
	}
	recipes := &fakeRecipes{failing: map[string]bool{"LiMnPO4": true}}
	engine := newTestEngine(t, similarity, recipes, model.DefaultSearchConfig())

	result, err := engine.Search(context.Background(), "LiFePO4", 10)
	require.NoError(t, err)

	assert.Equal(t, model.StatusNoRecipesFound, result.Status)
	assert.Equal(t, 1, result.VisitedMaterials, "Expected the node to still count as visited")
}

func TestSearchNoRevisitsOnCyclicGraph(t *testing.T) {
	// A and B are mutual nearest neighbors, so a naive traversal would loop.
	similarity := &fakeSimilarity{
		neighbors: map[string][]model.Neighbor{
			"LiFePO4": {neighbor("mp-a", "LiMnPO4", 0.96)},
			"LiMnPO4": {neighbor("mp-b", "LiCoPO4", 0.95)},
			"LiCoPO4": {neighbor("mp-a", "LiMnPO4", 0.96)},
		},
	}
	recipes := &fakeRecipes{}
	engine := newTestEngine(t, similarity, recipes, model.DefaultSearchConfig())

	result, err := engine.Search(context.Background(), "LiFePO4", 10)
	require.NoError(t, err)

	assert.Equal(t, 2, result.VisitedMaterials)
	recipeCalls := map[string]int{}
	for _, formula := range recipes.calls {
		recipeCalls[formula]++
	}
	assert.Equal(t, 1, recipeCalls["LiMnPO4"], "Expected each material to be visited at most once")
	assert.Equal(t, 1, recipeCalls["LiCoPO4"])
}

func TestSearchDepthBound(t *testing.T) {
	// A chain long enough to exceed max depth; every hop is highly confident.
	similarity := &fakeSimilarity{
		neighbors: map[string][]model.Neighbor{
			"LiFePO4": {neighbor("mp-a", "LiMnPO4", 0.99)},
			"LiMnPO4": {neighbor("mp-b", "LiCoPO4", 0.99)},
			"LiCoPO4": {neighbor("mp-c", "LiNiPO4", 0.99)},
			"LiNiPO4": {neighbor("mp-d", "NaFePO4", 0.99)},
		},
	}
	recipes := &fakeRecipes{
		recipes: map[string][]model.Recipe{
			"LiNiPO4": {recipe("too deep")},
			"NaFePO4": {recipe("way too deep")},
		},
	}
	engine := newTestEngine(t, similarity, recipes, model.DefaultSearchConfig())

	result, err := engine.Search(context.Background(), "LiFePO4", 10)
	require.NoError(t, err)

	// With max depth 3, nodes appear down to depth 3 but exploration stops
	// there: the depth-3 node is neither visited nor asked for recipes.
	assert.Equal(t, 2, result.VisitedMaterials)
	assert.NotContains(t, recipes.calls, "LiNiPO4", "Expected no recipe lookup at max depth")
	assert.NotContains(t, recipes.calls, "NaFePO4", "Expected no recipe lookup beyond max depth")
	assert.Equal(t, model.StatusNoRecipesFound, result.Status)
}

func TestSearchThresholdTightening(t *testing.T) {
	// The admission bar at depth 1 is 0.85, at depth 2 it is 0.7225. A 0.80
	// neighbor is rejected directly under the root but admitted one level down.
	similarity := &fakeSimilarity{
		neighbors: map[string][]model.Neighbor{
			"LiFePO4": {
				neighbor("mp-a", "LiMnPO4", 0.90),
				neighbor("mp-b", "LiCoPO4", 0.80),
			},
			"LiMnPO4": {neighbor("mp-c", "NaFePO4", 0.80)},
		},
	}
	recipes := &fakeRecipes{
		recipes: map[string][]model.Recipe{
			"LiCoPO4": {recipe("should not be reached")},
			"NaFePO4": {recipe("reached at depth 2")},
		},
	}
	engine := newTestEngine(t, similarity, recipes, model.DefaultSearchConfig())

	result, err := engine.Search(context.Background(), "LiFePO4", 10)
	require.NoError(t, err)

	assert.NotContains(t, recipes.calls, "LiCoPO4", "Expected 0.80 to miss the depth-1 bar")
	assert.Contains(t, recipes.calls, "NaFePO4", "Expected 0.80 to pass the depth-2 bar")
	assert.Equal(t, model.StatusSuccess, result.Status)
}

func TestSearchMinConfidenceFloor(t *testing.T) {
	// With max depth 4 the admission bar at depth 3 is 0.85^3 = 0.614, below
	// the 0.7 confidence floor. A 0.68 node is admitted into the tree but the
	// floor stops it from being visited.
	config := model.DefaultSearchConfig()
	config.MaxDepth = 4

	similarity := &fakeSimilarity{
		neighbors: map[string][]model.Neighbor{
			"LiFePO4": {neighbor("mp-a", "LiMnPO4", 0.95)},
			"LiMnPO4": {neighbor("mp-b", "LiCoPO4", 0.80)},
			"LiCoPO4": {neighbor("mp-c", "NaFePO4", 0.68)},
		},
	}
	recipes := &fakeRecipes{
		recipes: map[string][]model.Recipe{"NaFePO4": {recipe("below the floor")}},
	}
	engine := newTestEngine(t, similarity, recipes, config)

	result, err := engine.Search(context.Background(), "LiFePO4", 10)
	require.NoError(t, err)

	assert.NotContains(t, recipes.calls, "NaFePO4")
	assert.Equal(t, 2, result.VisitedMaterials)
}

func TestSearchRecipeCapPerMaterial(t *testing.T) {
	similarity := &fakeSimilarity{
		neighbors: map[string][]model.Neighbor{
			"LiFePO4": {neighbor("mp-1", "LiMnPO4", 0.96)},
		},
	}
	recipes := &fakeRecipes{
		recipes: map[string][]model.Recipe{
			"LiMnPO4": {recipe("r1"), recipe("r2"), recipe("r3"), recipe("r4"), recipe("r5")},
		},
	}
	engine := newTestEngine(t, similarity, recipes, model.DefaultSearchConfig())

	result, err := engine.Search(context.Background(), "LiFePO4", 10)
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalCandidates, "Expected at most 3 recipes per material")
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, 3, result.Recommendations[0].NumRecipes)
}

func TestSearchNeighborBackoff(t *testing.T) {
	// Neighbor counts shrink as max(5, n/2) per level.
	similarity := &fakeSimilarity{
		neighbors: map[string][]model.Neighbor{
			"LiFePO4": {neighbor("mp-a", "LiMnPO4", 0.96)},
			"LiMnPO4": {neighbor("mp-b", "LiCoPO4", 0.95)},
		},
	}
	requested := map[string]int{}
	engine := newTestEngine(t, &recordingSimilarity{inner: similarity, requested: requested}, &fakeRecipes{}, model.DefaultSearchConfig())

	_, err := engine.Search(context.Background(), "LiFePO4", 30)
	require.NoError(t, err)

	assert.Equal(t, 30, requested["LiFePO4"])
	assert.Equal(t, 15, requested["LiMnPO4"])
	assert.Equal(t, 7, requested["LiCoPO4"])
}

// recordingSimilarity captures the neighbor count requested per formula.
type recordingSimilarity struct {
	inner     *fakeSimilarity
	requested map[string]int
}

func (r *recordingSimilarity) SimilarMaterials(ctx context.Context, formula string, nNeighbors int) ([]model.Neighbor, error) {
	r.requested[formula] = nNeighbors
	return r.inner.SimilarMaterials(ctx, formula, nNeighbors)
}

func TestSearchInvalidTargetFormula(t *testing.T) {
	engine := newTestEngine(t, &fakeSimilarity{}, &fakeRecipes{}, model.DefaultSearchConfig())

	_, err := engine.Search(context.Background(), "not a formula!", 10)
	assert.Error(t, err)
}

func TestSearchDefaultInitialNeighbors(t *testing.T) {
	requested := map[string]int{}
	engine := newTestEngine(t, &recordingSimilarity{inner: &fakeSimilarity{}, requested: requested}, &fakeRecipes{}, model.DefaultSearchConfig())

	_, err := engine.Search(context.Background(), "LiFePO4", 0)
	require.NoError(t, err)
	assert.Equal(t, defaultInitialNeighbors, requested["LiFePO4"])
}
