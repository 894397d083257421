package formula

import "github.com/biomax/biomax/pkg/optional"

// Acid-base and electrolyte formulas.

// anionGap includes potassium when it was measured, as the legacy
// calculators did.
func anionGap(r *Record) optional.Scalar {
	return optional.Combine3(r.Sodium, r.Chloride, r.Bicarbonate, func(na, cl, hco3 float64) float64 {
		return na + r.Potassium.Or(0) - (cl + hco3)
	})
}

// calculatedOsmolality treats unmeasured glucose, BUN, and ethanol as
// contributing nothing.
func calculatedOsmolality(r *Record) optional.Scalar {
	return optional.Map(r.Sodium, func(na float64) float64 {
		return 2.0*na + r.Glucose.Or(0)/18.0 + r.BUN.Or(0)/2.8 + r.Ethanol.Or(0)/3.7
	})
}

func registerAcidBase(r *Registry) {
	r.mustRegister(&Formula{
		Key: "anion_gap", Name: "Anion Gap", Unit: "mmol/L", Category: CategoryAcidBase,
		Inputs:  []string{"sodium", "potassium", "chloride", "bicarbonate"},
		Compute: anionGap,
	})
	r.mustRegister(&Formula{
		Key: "corrected_anion_gap", Name: "Corrected Anion Gap", Unit: "mmol/L", Category: CategoryAcidBase,
		Inputs: []string{"sodium", "potassium", "chloride", "bicarbonate", "albumin"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Combine2(anionGap(rec), rec.Albumin, func(ag, albumin float64) float64 {
				return ag + 2.5*(4.0-albumin)
			})
		},
	})
	r.mustRegister(&Formula{
		Key: "calculated_osmolality", Name: "Calculated Osmolality", Unit: "mOsm/kg", Category: CategoryAcidBase,
		Inputs:  []string{"sodium", "glucose", "bun", "ethanol"},
		Compute: calculatedOsmolality,
	})
	r.mustRegister(&Formula{
		Key: "osmolar_gap", Name: "Osmolar Gap", Unit: "mOsm/kg", Category: CategoryAcidBase,
		Inputs: []string{"measured_osmolality", "sodium", "glucose", "bun", "ethanol"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Combine2(rec.MeasuredOsmolality, calculatedOsmolality(rec), func(measured, calculated float64) float64 {
				return measured - calculated
			})
		},
	})
}
