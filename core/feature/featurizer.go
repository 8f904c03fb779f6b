package feature

import (
	"fmt"
	"math"

	"github.com/synthkit/synthkit/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// statsPerProperty is the number of statistics computed per element property:
// minimum, maximum, range, fraction-weighted mean, average deviation and mode.
const statsPerProperty = 6

// Featurizer converts a material description into a fixed-length feature
// vector. Implementations are deterministic: the same material always yields
// the same vector.
type Featurizer interface {
	Kind() model.InputKind
	Dimension() int
	Featurize(material *model.Material) ([]float64, error)
}

// CompositionFeaturizer computes magpie-style element property statistics over
// a composition. For every property in the element table it emits the
// minimum, maximum, range, atomic-fraction-weighted mean, weighted average
// deviation and the mode (the property value of the most prevalent element).
type CompositionFeaturizer struct{}

// NewCompositionFeaturizer returns the composition featurizer.
func NewCompositionFeaturizer() *CompositionFeaturizer {
	return &CompositionFeaturizer{}
}

func (f *CompositionFeaturizer) Kind() model.InputKind {
	return model.InputKindComposition
}

func (f *CompositionFeaturizer) Dimension() int {
	return numElementProperties * statsPerProperty
}

func (f *CompositionFeaturizer) Featurize(material *model.Material) ([]float64, error) {
	if material == nil || material.Kind != model.InputKindComposition || material.Composition == nil {
		return nil, model.ErrInvalidInputKind
	}
	return compositionStatistics(material.Composition)
}

// compositionStatistics computes the property statistics for a composition.
func compositionStatistics(comp *model.Composition) ([]float64, error) {
	elements := comp.Elements()
	vectors := make([][]float64, len(elements))
	fractions := make([]float64, len(elements))
	for i, el := range elements {
		props, ok := elementTable[el]
		if !ok {
			return nil, fmt.Errorf("no element properties for %q", el)
		}
		vectors[i] = props.vector()
		fractions[i] = comp.AtomicFraction(el)
	}

	features := make([]float64, 0, numElementProperties*statsPerProperty)
	values := make([]float64, len(elements))
	for p := 0; p < numElementProperties; p++ {
		for i := range vectors {
			values[i] = vectors[i][p]
		}

		min := floats.Min(values)
		max := floats.Max(values)
		mean := stat.Mean(values, fractions)

		var avgDev float64
		for i, v := range values {
			avgDev += fractions[i] * math.Abs(v-mean)
		}

		// Mode: the property value of the most prevalent element. Ties go to
		// the first element in alphabetical order.
		mode := values[0]
		best := fractions[0]
		for i := 1; i < len(values); i++ {
			if fractions[i] > best {
				best = fractions[i]
				mode = values[i]
			}
		}

		features = append(features, min, max, max-min, mean, avgDev, mode)
	}
	return features, nil
}

// StructureFeaturizer averages per-site descriptors over a crystal structure:
// the element property vector of every occupied site plus a handful of
// geometric descriptors derived from the lattice.
type StructureFeaturizer struct{}

// NewStructureFeaturizer returns the structure featurizer.
func NewStructureFeaturizer() *StructureFeaturizer {
	return &StructureFeaturizer{}
}

func (f *StructureFeaturizer) Kind() model.InputKind {
	return model.InputKindStructure
}

func (f *StructureFeaturizer) Dimension() int {
	return numElementProperties + 4
}

func (f *StructureFeaturizer) Featurize(material *model.Material) ([]float64, error) {
	if material == nil || material.Kind != model.InputKindStructure || material.Structure == nil {
		return nil, model.ErrInvalidInputKind
	}
	structure := material.Structure
	if len(structure.Sites) == 0 {
		return nil, fmt.Errorf("structure has no sites")
	}

	// Mean of the per-site element property vectors.
	siteMean := make([]float64, numElementProperties)
	for _, site := range structure.Sites {
		props, ok := elementTable[site.Element]
		if !ok {
			return nil, fmt.Errorf("no element properties for %q", site.Element)
		}
		floats.Add(siteMean, props.vector())
	}
	floats.Scale(1/float64(len(structure.Sites)), siteMean)

	volume := structure.Volume()
	numSites := float64(len(structure.Sites))
	meanLatticeLength := (vectorNorm(structure.Lattice[0]) +
		vectorNorm(structure.Lattice[1]) +
		vectorNorm(structure.Lattice[2])) / 3

	features := make([]float64, 0, f.Dimension())
	features = append(features, siteMean...)
	features = append(features, volume, volume/numSites, numSites, meanLatticeLength)
	return features, nil
}

func vectorNorm(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}
