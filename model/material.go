package model

import (
	"fmt"
	"sort"
)

// InputKind selects how a material is described to the embedding index.
type InputKind string

const (
	InputKindComposition InputKind = "composition"
	InputKindStructure   InputKind = "structure"
)

// Site is a single atomic site in a crystal structure.
type Site struct {
	Element string     `json:"element"`
	Coords  [3]float64 `json:"coords"` // fractional coordinates
}

// Structure is a minimal crystal structure description: a lattice given as
// three row vectors in angstroms plus the occupied sites.
type Structure struct {
	Lattice [3][3]float64 `json:"lattice"`
	Sites   []Site        `json:"sites"`
}

// Volume returns the lattice cell volume via the scalar triple product.
func (s *Structure) Volume() float64 {
	a, b, c := s.Lattice[0], s.Lattice[1], s.Lattice[2]
	v := a[0]*(b[1]*c[2]-b[2]*c[1]) +
		a[1]*(b[2]*c[0]-b[0]*c[2]) +
		a[2]*(b[0]*c[1]-b[1]*c[0])
	if v < 0 {
		return -v
	}
	return v
}

// Composition derives the composition from the structure's sites.
func (s *Structure) Composition() (*Composition, error) {
	if len(s.Sites) == 0 {
		return nil, fmt.Errorf("structure has no sites")
	}
	amounts := make(map[string]float64)
	for _, site := range s.Sites {
		amounts[site.Element]++
	}
	elements := make([]string, 0, len(amounts))
	for el := range amounts {
		elements = append(elements, el)
	}
	sort.Strings(elements)

	formula := ""
	for _, el := range elements {
		if amounts[el] == 1 {
			formula += el
		} else {
			formula += fmt.Sprintf("%s%g", el, amounts[el])
		}
	}
	return ParseComposition(formula)
}

// Material is a closed variant: it is described either by composition or by
// structure, never both. The non-matching field is nil.
type Material struct {
	Kind        InputKind    `json:"kind"`
	Composition *Composition `json:"-"`
	Structure   *Structure   `json:"structure,omitempty"`
}

// NewCompositionMaterial parses a formula into a composition-described material.
func NewCompositionMaterial(formula string) (*Material, error) {
	comp, err := ParseComposition(formula)
	if err != nil {
		return nil, err
	}
	return &Material{Kind: InputKindComposition, Composition: comp}, nil
}

// NewStructureMaterial wraps a structure into a structure-described material.
func NewStructureMaterial(structure *Structure) (*Material, error) {
	if structure == nil || len(structure.Sites) == 0 {
		return nil, fmt.Errorf("structure must have at least one site")
	}
	return &Material{Kind: InputKindStructure, Structure: structure}, nil
}
