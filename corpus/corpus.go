// Package corpus loads the precomputed reference dataset the embedding index
// searches over: one feature vector per known material.
package corpus

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/synthkit/synthkit/model"
)

// Record is one reference corpus entry as stored on disk.
type Record struct {
	MaterialID string    `json:"material_id"`
	Formula    string    `json:"formula"`
	Features   []float64 `json:"features"`
}

// Corpus is an immutable set of (material id, formula, feature vector)
// triples. It is loaded once at index construction and never mutated.
type Corpus struct {
	ids      []string
	formulas []string
	features [][]float64
	dim      int
}

// New builds a corpus from records, validating that every feature vector has
// the same dimension.
func New(records []Record) (*Corpus, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: corpus is empty", model.ErrIndexUnavailable)
	}

	dim := len(records[0].Features)
	if dim == 0 {
		return nil, fmt.Errorf("%w: corpus entry %q has no features", model.ErrIndexUnavailable, records[0].MaterialID)
	}

	c := &Corpus{
		ids:      make([]string, len(records)),
		formulas: make([]string, len(records)),
		features: make([][]float64, len(records)),
		dim:      dim,
	}
	for i, record := range records {
		if record.MaterialID == "" {
			return nil, fmt.Errorf("%w: corpus entry %d has no material id", model.ErrIndexUnavailable, i)
		}
		if len(record.Features) != dim {
			return nil, fmt.Errorf("%w: corpus entry %q has dimension %d, want %d",
				model.ErrIndexUnavailable, record.MaterialID, len(record.Features), dim)
		}
		c.ids[i] = record.MaterialID
		c.formulas[i] = record.Formula
		c.features[i] = record.Features
	}
	return c, nil
}

// LoadJSON reads a corpus from a JSON file holding an array of records.
// Files ending in .gz are transparently decompressed.
func LoadJSON(path string) (*Corpus, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", model.ErrIndexUnavailable, path, err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return nil, fmt.Errorf("%w: decompress %s: %v", model.ErrIndexUnavailable, path, err)
		}
		defer gz.Close()
		reader = gz
	}

	var records []Record
	if err := json.NewDecoder(reader).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", model.ErrIndexUnavailable, path, err)
	}
	return New(records)
}

// Len returns the number of corpus entries.
func (c *Corpus) Len() int { return len(c.ids) }

// Dimension returns the feature vector length shared by all entries.
func (c *Corpus) Dimension() int { return c.dim }

// MaterialID returns the material id of entry i.
func (c *Corpus) MaterialID(i int) string { return c.ids[i] }

// Formula returns the formula of entry i.
func (c *Corpus) Formula(i int) string { return c.formulas[i] }

// Features returns the feature vector of entry i. Callers must not modify it.
func (c *Corpus) Features(i int) []float64 { return c.features[i] }
