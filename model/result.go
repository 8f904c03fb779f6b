package model

import "encoding/json"

// Recipe is an opaque synthesis recipe record. The search engine only checks
// how many there are and forwards them unmodified.
type Recipe = json.RawMessage

// SearchStatus is the outcome classification of a recursive search.
type SearchStatus string

const (
	StatusSuccess        SearchStatus = "success"
	StatusNoRecipesFound SearchStatus = "no_recipes_found"
)

// RecipeCandidate is a recipe found at a visited node during the recursive
// search. Confidence and distance are those of the edge that reached the node.
type RecipeCandidate struct {
	MaterialID string  `json:"material_id"`
	Formula    string  `json:"formula"`
	Recipe     Recipe  `json:"recipe"`
	Confidence float64 `json:"confidence"`
	Distance   float64 `json:"distance"`
	PathLength int     `json:"path_length"`
	Reasoning  string  `json:"reasoning"`
	Score      float64 `json:"score"`
}

// StoichiometryChange describes how a common element's atomic fraction differs
// between target and source.
type StoichiometryChange struct {
	Target        float64 `json:"target"`
	Source        float64 `json:"source"`
	ChangePercent float64 `json:"change_percent"`
}

// AdaptationStrategy is the structured composition diff between the target and
// a recipe-bearing source material.
type AdaptationStrategy struct {
	AddedElements        []string                       `json:"added_elements"`
	RemovedElements      []string                       `json:"removed_elements"`
	CommonElements       []string                       `json:"common_elements"`
	StoichiometryChanges map[string]StoichiometryChange `json:"stoichiometry_changes"`
	SimilarityScore      float64                        `json:"similarity_score"`
}

// Recommendation is the per-source-formula aggregation of recipe candidates.
type Recommendation struct {
	SourceMaterial     string              `json:"source_material"`
	MaterialID         string              `json:"material_id"`
	Confidence         float64             `json:"confidence"`
	Distance           float64             `json:"distance"`
	PathLength         int                 `json:"path_length"`
	Score              float64             `json:"score"`
	NumRecipes         int                 `json:"num_recipes"`
	AdaptationStrategy *AdaptationStrategy `json:"adaptation_strategy"`
	Reasoning          string              `json:"reasoning"`
}

// BestGuess promotes the top recommendation to a synthesis approach
// classification with a validation checklist.
type BestGuess struct {
	Approach              string              `json:"approach"`
	ConfidenceLevel       string              `json:"confidence_level"`
	PrimaryReference      string              `json:"primary_reference"`
	AdaptationRequired    *AdaptationStrategy `json:"adaptation_required"`
	KeyConsiderations     []string            `json:"key_considerations"`
	RecommendedValidation []string            `json:"recommended_validation"`
}

// SearchResult is the complete, serializable outcome of one recursive search.
type SearchResult struct {
	Status                     SearchStatus      `json:"status"`
	Target                     string            `json:"target"`
	Message                    string            `json:"message,omitempty"`
	VisitedMaterials           int               `json:"visited_materials"`
	TotalCandidates            int               `json:"total_candidates,omitempty"`
	UniqueMaterialsWithRecipes int               `json:"unique_materials_with_recipes,omitempty"`
	Recommendations            []*Recommendation `json:"recommendations,omitempty"`
	BestGuess                  *BestGuess        `json:"best_guess,omitempty"`
}
