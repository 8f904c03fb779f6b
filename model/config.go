package model

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// hardMaxDepth is the ceiling for recursion depth regardless of configuration.
// With maxNeighborsPerLevel neighbors per node the worst case node count is
// roughly maxNeighborsPerLevel^maxDepth, so deep settings are never sensible.
const hardMaxDepth = 8

// SearchConfig holds the tunables of the recursive recipe search.
type SearchConfig struct {
	// MaxDepth is the maximum recursion depth; depth 0 is the target itself.
	MaxDepth int `yaml:"max_depth" json:"max_depth"`
	// MinConfidence is the minimum edge confidence required to explore a node.
	MinConfidence float64 `yaml:"min_confidence" json:"min_confidence"`
	// ConfidenceDecay multiplies the admission threshold per recursion level.
	ConfidenceDecay float64 `yaml:"confidence_decay" json:"confidence_decay"`
	// MaxNeighborsPerLevel caps how many neighbors are explored per node.
	MaxNeighborsPerLevel int `yaml:"max_neighbors_per_level" json:"max_neighbors_per_level"`
	// MaxRecipesPerMaterial caps how many recipes one material contributes.
	MaxRecipesPerMaterial int `yaml:"max_recipes_per_material" json:"max_recipes_per_material"`
	// MaxRecommendations caps the number of aggregated recommendations.
	MaxRecommendations int `yaml:"max_recommendations" json:"max_recommendations"`
}

// DefaultSearchConfig returns the reference tunables.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		MaxDepth:              3,
		MinConfidence:         0.7,
		ConfidenceDecay:       0.85,
		MaxNeighborsPerLevel:  10,
		MaxRecipesPerMaterial: 3,
		MaxRecommendations:    5,
	}
}

// Validate checks ranges and clamps MaxDepth to the hard ceiling.
func (c *SearchConfig) Validate() error {
	if c.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be at least 1, got %d", c.MaxDepth)
	}
	if c.MaxDepth > hardMaxDepth {
		c.MaxDepth = hardMaxDepth
	}
	if c.MinConfidence <= 0 || c.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be in (0,1], got %g", c.MinConfidence)
	}
	if c.ConfidenceDecay <= 0 || c.ConfidenceDecay >= 1 {
		return fmt.Errorf("confidence_decay must be in (0,1), got %g", c.ConfidenceDecay)
	}
	if c.MaxNeighborsPerLevel < 1 {
		return fmt.Errorf("max_neighbors_per_level must be at least 1, got %d", c.MaxNeighborsPerLevel)
	}
	if c.MaxRecipesPerMaterial < 1 {
		return fmt.Errorf("max_recipes_per_material must be at least 1, got %d", c.MaxRecipesPerMaterial)
	}
	if c.MaxRecommendations < 1 {
		return fmt.Errorf("max_recommendations must be at least 1, got %d", c.MaxRecommendations)
	}
	return nil
}

// IndexConfig holds the tunables of the embedding index.
type IndexConfig struct {
	// MaxNeighbors is the largest neighbor count a single query may request.
	MaxNeighbors int `yaml:"max_neighbors" json:"max_neighbors"`
}

// DefaultIndexConfig returns the reference index tunables.
func DefaultIndexConfig() IndexConfig {
	return IndexConfig{MaxNeighbors: 100}
}

// LoadSearchConfig reads a SearchConfig from a YAML file. Fields missing from
// the file keep their default values.
func LoadSearchConfig(path string) (SearchConfig, error) {
	config := DefaultSearchConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("read search config: %w", err)
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("parse search config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}
