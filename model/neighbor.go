package model

// Neighbor is a single similarity search hit. Rank 0 is the nearest corpus
// entry; confidence is exp(-distance/tau) and lies in (0, 1].
type Neighbor struct {
	Rank       int     `json:"rank"`
	MaterialID string  `json:"material_id"`
	Formula    string  `json:"formula"`
	Distance   float64 `json:"distance"`
	Confidence float64 `json:"confidence"`
}
