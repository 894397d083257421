package formula

import (
	"fmt"

	"github.com/biomax/biomax/pkg/optional"
)

// Category groups related formulas. Category values double as the
// identifiers accepted by the evaluator, the HTTP API, and the CLI.
type Category string

const (
	CategoryBasic       Category = "basic"
	CategoryEnergy      Category = "energy"
	CategoryCardio      Category = "cardio"
	CategoryRenal       Category = "renal"
	CategoryLipid       Category = "lipid"
	CategoryInsulin     Category = "insulin"
	CategoryPK          Category = "pk"
	CategoryRespiratory Category = "respiratory"
	CategoryAcidBase    Category = "acidbase"
)

// Categories lists every category in evaluation order. The first seven
// keep the legacy menu order; respiratory and acidbase append after them
// so "all" output for the original categories is a stable prefix.
var Categories = []Category{
	CategoryBasic,
	CategoryEnergy,
	CategoryCardio,
	CategoryRenal,
	CategoryLipid,
	CategoryInsulin,
	CategoryPK,
	CategoryRespiratory,
	CategoryAcidBase,
}

// ParseCategory maps an identifier onto a Category.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if Category(s) == c {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Description returns a human-readable label for the category.
func (c Category) Description() string {
	switch c {
	case CategoryBasic:
		return "Basic anthropometry"
	case CategoryEnergy:
		return "Energy / metabolic"
	case CategoryCardio:
		return "Cardiovascular / hemodynamics"
	case CategoryRenal:
		return "Renal function"
	case CategoryLipid:
		return "Lipids & cardiometabolic indices"
	case CategoryInsulin:
		return "Insulin resistance"
	case CategoryPK:
		return "Pharmacokinetics"
	case CategoryRespiratory:
		return "Respiratory / gas exchange"
	case CategoryAcidBase:
		return "Acid-base / electrolytes"
	}
	return string(c)
}

// Formula couples a stable key with a pure computation over a Record.
// Compute must be side-effect free and must return the absent Scalar when
// its inputs are missing or its math degenerates; it never panics and
// never yields NaN or infinity.
type Formula struct {
	Key      string   `json:"key"`
	Name     string   `json:"name"`
	Unit     string   `json:"unit,omitempty"`
	Category Category `json:"category"`
	// Inputs names the record fields the computation reads, by JSON key.
	Inputs  []string                      `json:"inputs,omitempty"`
	Compute func(*Record) optional.Scalar `json:"-"`
}

// Registry holds formulas in registration order. Iteration never goes
// through a map, so evaluation output is reproducible run to run.
type Registry struct {
	ordered    []*Formula
	byKey      map[string]*Formula
	byCategory map[Category][]*Formula
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byKey:      make(map[string]*Formula),
		byCategory: make(map[Category][]*Formula),
	}
}

// NewDefault returns a registry populated with the complete catalog.
func NewDefault() *Registry {
	r := NewRegistry()
	registerBasic(r)
	registerEnergy(r)
	registerCardio(r)
	registerRenal(r)
	registerLipid(r)
	registerInsulin(r)
	registerPK(r)
	registerRespiratory(r)
	registerAcidBase(r)
	return r
}

// Register adds a formula. Duplicate keys, unknown categories, and nil
// computations are rejected.
func (r *Registry) Register(f *Formula) error {
	if f.Key == "" {
		return fmt.Errorf("formula key is required")
	}
	if _, exists := r.byKey[f.Key]; exists {
		return fmt.Errorf("duplicate formula key %q", f.Key)
	}
	if _, err := ParseCategory(string(f.Category)); err != nil {
		return fmt.Errorf("formula %q: %w", f.Key, err)
	}
	if f.Compute == nil {
		return fmt.Errorf("formula %q has no computation", f.Key)
	}
	r.ordered = append(r.ordered, f)
	r.byKey[f.Key] = f
	r.byCategory[f.Category] = append(r.byCategory[f.Category], f)
	return nil
}

// mustRegister is Register for the built-in catalog, where a failure is a
// programming error.
func (r *Registry) mustRegister(f *Formula) {
	if err := r.Register(f); err != nil {
		panic(err)
	}
}

// Get returns the formula with the given key.
func (r *Registry) Get(key string) (*Formula, bool) {
	f, ok := r.byKey[key]
	return f, ok
}

// All returns every formula in registration order. The returned slice is
// shared; callers must not modify it.
func (r *Registry) All() []*Formula {
	return r.ordered
}

// Category returns the formulas registered under c, in order.
func (r *Registry) Category(c Category) []*Formula {
	return r.byCategory[c]
}

// Len returns the number of registered formulas.
func (r *Registry) Len() int {
	return len(r.ordered)
}
