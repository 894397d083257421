package formula

import (
	"fmt"

	"github.com/biomax/biomax/pkg/optional"
)

// SelectorAll asks the evaluator for every category, in category order.
const SelectorAll = "all"

// InsufficientInputs is the console rendering for an absent result,
// unchanged from the legacy calculators.
const InsufficientInputs = "(insufficient inputs)"

// Result is one evaluated formula: its identity plus the (possibly
// absent) computed value.
type Result struct {
	Key   string          `json:"key"`
	Name  string          `json:"name"`
	Unit  string          `json:"unit,omitempty"`
	Value optional.Scalar `json:"value"`
}

// Evaluator runs registry formulas against a validated Record.
type Evaluator struct {
	registry *Registry
}

// NewEvaluator returns an evaluator over the given registry.
func NewEvaluator(reg *Registry) *Evaluator {
	return &Evaluator{registry: reg}
}

// Registry exposes the evaluator's catalog for listing endpoints.
func (e *Evaluator) Registry() *Registry {
	return e.registry
}

// Evaluate computes the selected category's formulas (or, for SelectorAll
// or an empty selector, the whole catalog) in registration order. The
// record is never mutated. An unknown selector is an error; a formula
// whose inputs are missing contributes an absent value, never an error.
func (e *Evaluator) Evaluate(rec *Record, selector string) ([]Result, error) {
	var formulas []*Formula
	switch selector {
	case "", SelectorAll:
		formulas = e.registry.All()
	default:
		cat, err := ParseCategory(selector)
		if err != nil {
			return nil, err
		}
		formulas = e.registry.Category(cat)
	}

	results := make([]Result, 0, len(formulas))
	for _, f := range formulas {
		results = append(results, Result{
			Key:   f.Key,
			Name:  f.Name,
			Unit:  f.Unit,
			Value: f.Compute(rec),
		})
	}
	return results, nil
}

// FormatValue renders a result value the way the console ports did: four
// decimal places for a present value, the insufficient-inputs marker
// otherwise.
func FormatValue(v optional.Scalar) string {
	if !v.Present() {
		return InsufficientInputs
	}
	return fmt.Sprintf("%.4f", v.Value())
}
