package formula

import (
	"math"

	"github.com/biomax/biomax/pkg/optional"
)

// Cardiovascular and hemodynamic formulas.

// meanArterialPressure is shared with the SVR computation.
func meanArterialPressure(r *Record) optional.Scalar {
	return optional.Combine2(r.Systolic, r.Diastolic, func(sbp, dbp float64) float64 {
		return (sbp + 2.0*dbp) / 3.0
	})
}

func registerCardio(r *Registry) {
	r.mustRegister(&Formula{
		Key: "map", Name: "Mean Arterial Pressure", Unit: "mmHg", Category: CategoryCardio,
		Inputs:  []string{"systolic_bp", "diastolic_bp"},
		Compute: meanArterialPressure,
	})
	r.mustRegister(&Formula{
		Key: "pulse_pressure", Name: "Pulse Pressure", Unit: "mmHg", Category: CategoryCardio,
		Inputs: []string{"systolic_bp", "diastolic_bp"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Combine2(rec.Systolic, rec.Diastolic, func(sbp, dbp float64) float64 {
				return sbp - dbp
			})
		},
	})
	r.mustRegister(&Formula{
		Key: "rate_pressure_product", Name: "Rate-Pressure Product", Unit: "mmHg*bpm", Category: CategoryCardio,
		Inputs: []string{"systolic_bp", "heart_rate"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Combine2(rec.Systolic, rec.HeartRate, func(sbp, hr float64) float64 {
				return sbp * hr
			})
		},
	})
	r.mustRegister(&Formula{
		Key: "shock_index", Name: "Shock Index", Category: CategoryCardio,
		Inputs: []string{"heart_rate", "systolic_bp"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Combine2(rec.HeartRate, rec.Systolic, func(hr, sbp float64) float64 {
				return hr / sbp
			})
		},
	})
	r.mustRegister(&Formula{
		Key: "conicity_index", Name: "Conicity Index", Category: CategoryCardio,
		Inputs: []string{"waist", "weight", "height"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Map(rec.Waist, func(waist float64) float64 {
				return (waist / 100.0) / (0.109 * math.Sqrt(rec.Weight/rec.Height))
			})
		},
	})
	r.mustRegister(&Formula{
		Key: "cardiac_index", Name: "Cardiac Index", Unit: "L/min/m^2", Category: CategoryCardio,
		Inputs: []string{"cardiac_output", "weight", "height"},
		Compute: func(rec *Record) optional.Scalar {
			if !rec.CardiacOutput.Present() || rec.CardiacOutput.Value() <= 0 {
				return optional.Absent()
			}
			return optional.Guard(rec.CardiacOutput.Value() / bsaDuBois(rec))
		},
	})
	r.mustRegister(&Formula{
		Key: "svr", Name: "Systemic Vascular Resistance", Unit: "dyn*s/cm^5", Category: CategoryCardio,
		Inputs: []string{"systolic_bp", "diastolic_bp", "cardiac_output", "cvp"},
		Compute: func(rec *Record) optional.Scalar {
			mapVal := meanArterialPressure(rec)
			if !mapVal.Present() || !rec.CardiacOutput.Present() || rec.CardiacOutput.Value() <= 0 {
				return optional.Absent()
			}
			// Central venous pressure contributes 0 when not measured.
			return optional.Guard((mapVal.Value() - rec.CVP.Or(0)) * 80.0 / rec.CardiacOutput.Value())
		},
	})
	r.mustRegister(&Formula{
		Key: "oxygen_delivery", Name: "Oxygen Delivery (DO2)", Unit: "mL/min", Category: CategoryCardio,
		Inputs: []string{"cardiac_output", "hemoglobin", "spo2", "pao2"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Combine2(rec.CardiacOutput, arterialO2Content(rec), func(co, cao2 float64) float64 {
				return co * cao2 * 10.0
			})
		},
	})
	r.mustRegister(&Formula{
		Key: "fick_cardiac_output", Name: "Cardiac Output (Fick)", Unit: "L/min", Category: CategoryCardio,
		Inputs: []string{"vo2", "hemoglobin", "spo2", "pao2", "svo2"},
		Compute: func(rec *Record) optional.Scalar {
			avDiff := optional.Combine2(arterialO2Content(rec), venousO2Content(rec), func(ca, cv float64) float64 {
				return ca - cv
			})
			if !rec.VO2.Present() || !avDiff.Present() || avDiff.Value() <= 0 {
				return optional.Absent()
			}
			return optional.Guard(rec.VO2.Value() / (avDiff.Value() * 10.0))
		},
	})
}
