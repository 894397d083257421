package formula

import (
	"math"

	"github.com/biomax/biomax/pkg/optional"
)

// Lipid and cardiometabolic index formulas.

func registerLipid(r *Registry) {
	r.mustRegister(&Formula{
		Key: "ldl_friedewald", Name: "LDL (Friedewald)", Unit: "mg/dL", Category: CategoryLipid,
		Inputs: []string{"total_cholesterol", "hdl", "triglycerides"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Combine3(rec.TotalCholesterol, rec.HDL, rec.Triglycerides, func(tc, hdl, tg float64) float64 {
				return tc - hdl - tg/5.0
			})
		},
	})
	r.mustRegister(&Formula{
		Key: "non_hdl", Name: "Non-HDL Cholesterol", Unit: "mg/dL", Category: CategoryLipid,
		Inputs: []string{"total_cholesterol", "hdl"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Combine2(rec.TotalCholesterol, rec.HDL, func(tc, hdl float64) float64 {
				return tc - hdl
			})
		},
	})
	r.mustRegister(&Formula{
		Key: "aip", Name: "Atherogenic Index of Plasma", Category: CategoryLipid,
		Inputs: []string{"triglycerides", "hdl"},
		Compute: func(rec *Record) optional.Scalar {
			if !rec.Triglycerides.Present() || !rec.HDL.Present() {
				return optional.Absent()
			}
			if rec.Triglycerides.Value() <= 0 || rec.HDL.Value() <= 0 {
				return optional.Absent()
			}
			return optional.Guard(math.Log10(rec.Triglycerides.Value() / rec.HDL.Value()))
		},
	})
	r.mustRegister(&Formula{
		Key: "tyg", Name: "TyG Index", Category: CategoryLipid,
		Inputs: []string{"triglycerides", "glucose"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Combine2(rec.Triglycerides, rec.Glucose, func(tg, glucose float64) float64 {
				return math.Log(tg * glucose / 2.0)
			})
		},
	})
}
