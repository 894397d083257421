package formula

import (
	"math"

	"github.com/biomax/biomax/pkg/optional"
)

// Insulin resistance indices.

func registerInsulin(r *Registry) {
	r.mustRegister(&Formula{
		Key: "homa_ir", Name: "HOMA-IR", Category: CategoryInsulin,
		Inputs: []string{"glucose", "insulin"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Combine2(rec.Glucose, rec.Insulin, func(glucose, insulin float64) float64 {
				return glucose * insulin / 405.0
			})
		},
	})
	r.mustRegister(&Formula{
		Key: "quicki", Name: "QUICKI", Category: CategoryInsulin,
		Inputs: []string{"glucose", "insulin"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Combine2(rec.Glucose, rec.Insulin, func(glucose, insulin float64) float64 {
				return 1.0 / (math.Log10(insulin) + math.Log10(glucose))
			})
		},
	})
}
