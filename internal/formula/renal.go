package formula

import (
	"math"

	"github.com/biomax/biomax/pkg/optional"
)

// Renal function formulas.

func registerRenal(r *Registry) {
	r.mustRegister(&Formula{
		Key: "cockcroft_gault", Name: "Cockcroft-Gault CrCl", Unit: "mL/min", Category: CategoryRenal,
		Inputs: []string{"creatinine", "age", "weight", "sex"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Map(rec.Creatinine, func(cr float64) float64 {
				factor := 0.85
				if rec.male() {
					factor = 1.0
				}
				return ((140.0 - rec.Age) * rec.Weight * factor) / (72.0 * cr)
			})
		},
	})
	r.mustRegister(&Formula{
		Key: "mdrd_egfr", Name: "MDRD eGFR", Unit: "mL/min/1.73m^2", Category: CategoryRenal,
		Inputs: []string{"creatinine", "age", "sex"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Map(rec.Creatinine, func(cr float64) float64 {
				factor := 0.742
				if rec.male() {
					factor = 1.0
				}
				return 175.0 * math.Pow(cr, -1.154) * math.Pow(rec.Age, -0.203) * factor
			})
		},
	})
}
