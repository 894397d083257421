package formula

import (
	"math"

	"github.com/biomax/biomax/pkg/optional"
)

// Energy and metabolic formulas.

// ActivityFactors maps the named activity levels accepted by the CLI onto
// TDEE multipliers.
var ActivityFactors = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

// bmrMifflin returns the Mifflin-St Jeor basal metabolic rate in kcal/day.
func bmrMifflin(r *Record) float64 {
	base := 10.0*r.Weight + 6.25*r.HeightCM() - 5.0*r.Age
	if r.male() {
		return base + 5.0
	}
	return base - 161.0
}

func tdee(r *Record) float64 {
	return bmrMifflin(r) * r.activityFactor()
}

func registerEnergy(r *Registry) {
	r.mustRegister(&Formula{
		Key: "bmr_mifflin", Name: "BMR (Mifflin-St Jeor)", Unit: "kcal/day", Category: CategoryEnergy,
		Inputs: []string{"weight", "height", "age", "sex"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Guard(bmrMifflin(rec))
		},
	})
	r.mustRegister(&Formula{
		Key: "bmr_harris_benedict", Name: "BMR (Harris-Benedict)", Unit: "kcal/day", Category: CategoryEnergy,
		Inputs: []string{"weight", "height", "age", "sex"},
		Compute: func(rec *Record) optional.Scalar {
			if rec.male() {
				return optional.Guard(66.47 + 13.75*rec.Weight + 5.003*rec.HeightCM() - 6.755*rec.Age)
			}
			return optional.Guard(655.1 + 9.563*rec.Weight + 1.85*rec.HeightCM() - 4.676*rec.Age)
		},
	})
	r.mustRegister(&Formula{
		Key: "bmr_katch_mcardle", Name: "BMR (Katch-McArdle)", Unit: "kcal/day", Category: CategoryEnergy,
		Inputs: []string{"weight", "height", "sex"},
		Compute: func(rec *Record) optional.Scalar {
			lbm := math.Max(0.0, lbmJames(rec))
			return optional.Guard(370.0 + 21.6*lbm)
		},
	})
	r.mustRegister(&Formula{
		Key: "tdee", Name: "TDEE", Unit: "kcal/day", Category: CategoryEnergy,
		Inputs: []string{"weight", "height", "age", "sex", "activity_factor"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Guard(tdee(rec))
		},
	})
	r.mustRegister(&Formula{
		Key: "calories_loss", Name: "Calories for Loss", Unit: "kcal/day", Category: CategoryEnergy,
		Inputs: []string{"weight", "height", "age", "sex", "activity_factor"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Guard(tdee(rec) - 500.0)
		},
	})
	r.mustRegister(&Formula{
		Key: "calories_gain", Name: "Calories for Gain", Unit: "kcal/day", Category: CategoryEnergy,
		Inputs: []string{"weight", "height", "age", "sex", "activity_factor"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Guard(tdee(rec) + 500.0)
		},
	})
	r.mustRegister(&Formula{
		Key: "protein_target", Name: "Protein Target (1.6 g/kg)", Unit: "g/day", Category: CategoryEnergy,
		Inputs: []string{"weight"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Guard(1.6 * rec.Weight)
		},
	})
	r.mustRegister(&Formula{
		Key: "water_target", Name: "Water Target (35 mL/kg)", Unit: "mL/day", Category: CategoryEnergy,
		Inputs: []string{"weight"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Guard(35.0 * rec.Weight)
		},
	})
}
