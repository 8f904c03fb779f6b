package search

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/synthkit/synthkit/model"
)

// pathPenalty discounts candidates found further from the target:
// score = confidence / (1 + pathPenalty*pathLength). The penalty is applied
// independently of how confidence was computed.
const pathPenalty = 0.2

// Confidence thresholds classifying the best guess synthesis approach.
const (
	directAdaptationThreshold  = 0.95
	minorModificationThreshold = 0.85
	guidedExplorationThreshold = 0.75
)

// recommendedValidation is the fixed checklist attached to every best guess.
var recommendedValidation = []string{
	"Start with small-scale test synthesis",
	"Verify phase purity with XRD",
	"Adjust stoichiometry based on initial results",
	"Consider alternative precursors for added elements",
}

// synthesizeResults aggregates the collected candidates into ranked
// recommendations and a single best guess.
func (e *Engine) synthesizeResults(targetComp *model.Composition, state *searchState, log *slog.Logger) *model.SearchResult {
	if len(state.candidates) == 0 {
		return &model.SearchResult{
			Status:           model.StatusNoRecipesFound,
			Target:           targetComp.Formula,
			Message:          "No synthesis recipes found in recursive search",
			VisitedMaterials: len(state.visited),
		}
	}

	for _, candidate := range state.candidates {
		candidate.Score = candidate.Confidence / (1 + pathPenalty*float64(candidate.PathLength))
	}
	sort.SliceStable(state.candidates, func(i, j int) bool {
		return state.candidates[i].Score > state.candidates[j].Score
	})

	// Group by source formula. Iterating the sorted candidates keeps group
	// order aligned with each group's best score.
	groups := make(map[string][]*model.RecipeCandidate)
	var groupOrder []string
	for _, candidate := range state.candidates {
		if _, seen := groups[candidate.Formula]; !seen {
			groupOrder = append(groupOrder, candidate.Formula)
		}
		groups[candidate.Formula] = append(groups[candidate.Formula], candidate)
	}

	maxRecommendations := e.config.MaxRecommendations
	if len(groupOrder) < maxRecommendations {
		maxRecommendations = len(groupOrder)
	}
	recommendations := make([]*model.Recommendation, 0, maxRecommendations)
	for _, formula := range groupOrder[:maxRecommendations] {
		candidates := groups[formula]
		best := candidates[0]

		adaptation, err := calculateAdaptation(targetComp, formula)
		if err != nil {
			log.Warn("Could not compute adaptation strategy",
				slog.String("source", formula),
				slog.String("error", err.Error()))
		}

		recommendations = append(recommendations, &model.Recommendation{
			SourceMaterial:     formula,
			MaterialID:         best.MaterialID,
			Confidence:         best.Confidence,
			Distance:           best.Distance,
			PathLength:         best.PathLength,
			Score:              best.Score,
			NumRecipes:         len(candidates),
			AdaptationStrategy: adaptation,
			Reasoning:          best.Reasoning,
		})
	}

	return &model.SearchResult{
		Status:                     model.StatusSuccess,
		Target:                     targetComp.Formula,
		VisitedMaterials:           len(state.visited),
		TotalCandidates:            len(state.candidates),
		UniqueMaterialsWithRecipes: len(groups),
		Recommendations:            recommendations,
		BestGuess:                  generateBestGuess(recommendations),
	}
}

// calculateAdaptation computes the structured composition diff between the
// target and a recipe-bearing source formula.
func calculateAdaptation(targetComp *model.Composition, sourceFormula string) (*model.AdaptationStrategy, error) {
	sourceComp, err := model.ParseComposition(sourceFormula)
	if err != nil {
		return nil, fmt.Errorf("parse source formula: %w", err)
	}

	var added, removed, common []string
	union := make(map[string]struct{})
	for _, el := range targetComp.Elements() {
		union[el] = struct{}{}
		if sourceComp.Contains(el) {
			common = append(common, el)
		} else {
			added = append(added, el)
		}
	}
	for _, el := range sourceComp.Elements() {
		union[el] = struct{}{}
		if !targetComp.Contains(el) {
			removed = append(removed, el)
		}
	}

	// Stoichiometry deltas for common elements whose atomic fraction moved.
	changes := make(map[string]model.StoichiometryChange)
	for _, el := range common {
		targetFraction := targetComp.AtomicFraction(el)
		sourceFraction := sourceComp.AtomicFraction(el)
		if targetFraction == sourceFraction {
			continue
		}
		changes[el] = model.StoichiometryChange{
			Target:        targetFraction,
			Source:        sourceFraction,
			ChangePercent: (targetFraction - sourceFraction) / sourceFraction * 100,
		}
	}

	return &model.AdaptationStrategy{
		AddedElements:        added,
		RemovedElements:      removed,
		CommonElements:       common,
		StoichiometryChanges: changes,
		SimilarityScore:      float64(len(common)) / float64(len(union)),
	}, nil
}

// generateBestGuess promotes the top recommendation to an approach
// classification with a rationale and the fixed validation checklist.
func generateBestGuess(recommendations []*model.Recommendation) *model.BestGuess {
	if len(recommendations) == 0 {
		return nil
	}
	best := recommendations[0]

	var approach, confidenceLevel string
	switch {
	case best.Confidence > directAdaptationThreshold:
		approach, confidenceLevel = "direct_adaptation", "very_high"
	case best.Confidence > minorModificationThreshold:
		approach, confidenceLevel = "minor_modification", "high"
	case best.Confidence > guidedExplorationThreshold:
		approach, confidenceLevel = "guided_exploration", "moderate"
	default:
		approach, confidenceLevel = "experimental_optimization", "exploratory"
	}

	var adaptingFor []string
	if best.AdaptationStrategy != nil {
		adaptingFor = best.AdaptationStrategy.AddedElements
	}

	return &model.BestGuess{
		Approach:           approach,
		ConfidenceLevel:    confidenceLevel,
		PrimaryReference:   best.SourceMaterial,
		AdaptationRequired: best.AdaptationStrategy,
		KeyConsiderations: []string{
			fmt.Sprintf("Based on %s with %.1f%% confidence", best.SourceMaterial, best.Confidence*100),
			fmt.Sprintf("Requires adapting for: %s", strings.Join(adaptingFor, ", ")),
			fmt.Sprintf("Path length: %d hops from target", best.PathLength),
			fmt.Sprintf("Explored %d potential routes", len(recommendations)),
		},
		RecommendedValidation: recommendedValidation,
	}
}
