package model

import (
	"fmt"
	"sort"
	"strconv"
)

// Composition is a parsed chemical formula. Amounts are per-formula-unit atom
// counts, so "Ba(OH)2" holds Ba:1, O:2, H:2.
type Composition struct {
	Formula string

	amounts  map[string]float64
	elements []string
	numAtoms float64
}

// ParseComposition parses a chemical formula string into a Composition.
// Supports nested parentheses ("Ba(OH)2") and fractional amounts ("Li0.5CoO2").
func ParseComposition(formula string) (*Composition, error) {
	if formula == "" {
		return nil, fmt.Errorf("empty formula")
	}

	amounts := make(map[string]float64)
	rest, err := parseFormulaGroup(formula, amounts, 1.0)
	if err != nil {
		return nil, fmt.Errorf("parse formula %q: %w", formula, err)
	}
	if rest != "" {
		return nil, fmt.Errorf("parse formula %q: unexpected %q", formula, rest)
	}
	if len(amounts) == 0 {
		return nil, fmt.Errorf("parse formula %q: no elements found", formula)
	}

	elements := make([]string, 0, len(amounts))
	var numAtoms float64
	for el, amt := range amounts {
		elements = append(elements, el)
		numAtoms += amt
	}
	sort.Strings(elements)

	return &Composition{
		Formula:  formula,
		amounts:  amounts,
		elements: elements,
		numAtoms: numAtoms,
	}, nil
}

// parseFormulaGroup consumes element/amount pairs and parenthesised subgroups,
// accumulating scaled amounts into out. It returns the unconsumed remainder,
// which is non-empty only when it stops at a closing parenthesis.
func parseFormulaGroup(s string, out map[string]float64, multiplier float64) (string, error) {
	for len(s) > 0 {
		switch {
		case s[0] == '(':
			group := make(map[string]float64)
			rest, err := parseFormulaGroup(s[1:], group, 1.0)
			if err != nil {
				return "", err
			}
			if len(rest) == 0 || rest[0] != ')' {
				return "", fmt.Errorf("unbalanced parentheses")
			}
			rest = rest[1:]
			amount, rest2, err := parseAmount(rest)
			if err != nil {
				return "", err
			}
			for el, amt := range group {
				out[el] += amt * amount * multiplier
			}
			s = rest2
		case s[0] == ')':
			return s, nil
		case s[0] >= 'A' && s[0] <= 'Z':
			el := s[:1]
			s = s[1:]
			for len(s) > 0 && s[0] >= 'a' && s[0] <= 'z' {
				el += s[:1]
				s = s[1:]
			}
			amount, rest, err := parseAmount(s)
			if err != nil {
				return "", err
			}
			out[el] += amount * multiplier
			s = rest
		default:
			return "", fmt.Errorf("unexpected character %q", s[0])
		}
	}
	return "", nil
}

// parseAmount reads an optional numeric amount. A missing amount means 1.
func parseAmount(s string) (float64, string, error) {
	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
		i++
	}
	if i == 0 {
		return 1.0, s, nil
	}
	amount, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid amount %q: %w", s[:i], err)
	}
	if amount <= 0 {
		return 0, "", fmt.Errorf("non-positive amount %q", s[:i])
	}
	return amount, s[i:], nil
}

// Elements returns the element symbols in the composition, sorted alphabetically.
func (c *Composition) Elements() []string {
	elements := make([]string, len(c.elements))
	copy(elements, c.elements)
	return elements
}

// Amount returns the per-formula-unit amount of an element, 0 if absent.
func (c *Composition) Amount(element string) float64 {
	return c.amounts[element]
}

// Contains reports whether the composition contains the element.
func (c *Composition) Contains(element string) bool {
	_, ok := c.amounts[element]
	return ok
}

// NumAtoms returns the total number of atoms per formula unit.
func (c *Composition) NumAtoms() float64 {
	return c.numAtoms
}

// AtomicFraction returns the fraction of atoms belonging to an element.
func (c *Composition) AtomicFraction(element string) float64 {
	if c.numAtoms == 0 {
		return 0
	}
	return c.amounts[element] / c.numAtoms
}
