package formula

import (
	"math"

	"github.com/biomax/biomax/pkg/optional"
)

// Basic anthropometric formulas. Helpers shared across categories
// (ideal body weight, lean body mass, BSA) live here.

func bmi(r *Record) float64 {
	return r.Weight / (r.Height * r.Height)
}

// ibwDevine returns the Devine ideal body weight estimate in kg.
func ibwDevine(r *Record) float64 {
	hIn := r.HeightIn()
	if r.male() {
		return 50.0 + 2.3*(hIn-60.0)
	}
	return 45.5 + 2.3*(hIn-60.0)
}

// lbmJames returns the James lean body mass estimate in kg.
func lbmJames(r *Record) float64 {
	ratio := r.Weight / r.Height
	if r.male() {
		return 1.10*r.Weight - 128.0*ratio*ratio
	}
	return 1.07*r.Weight - 148.0*ratio*ratio
}

// bsaDuBois returns the DuBois body surface area in m^2.
func bsaDuBois(r *Record) float64 {
	return 0.007184 * math.Pow(r.Weight, 0.425) * math.Pow(r.HeightCM(), 0.725)
}

func registerBasic(r *Registry) {
	r.mustRegister(&Formula{
		Key: "bmi", Name: "BMI", Unit: "kg/m^2", Category: CategoryBasic,
		Inputs: []string{"weight", "height"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Guard(bmi(rec))
		},
	})
	r.mustRegister(&Formula{
		Key: "bmi_prime", Name: "BMI Prime", Category: CategoryBasic,
		Inputs: []string{"weight", "height"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Guard(bmi(rec) / 25.0)
		},
	})
	r.mustRegister(&Formula{
		Key: "ponderal_index", Name: "Ponderal Index", Unit: "kg/m^3", Category: CategoryBasic,
		Inputs: []string{"weight", "height"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Guard(rec.Weight / (rec.Height * rec.Height * rec.Height))
		},
	})
	r.mustRegister(&Formula{
		Key: "ibw_devine", Name: "IBW (Devine)", Unit: "kg", Category: CategoryBasic,
		Inputs: []string{"height", "sex"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Guard(ibwDevine(rec))
		},
	})
	r.mustRegister(&Formula{
		Key: "adjusted_body_weight", Name: "Adjusted Body Weight", Unit: "kg", Category: CategoryBasic,
		Inputs: []string{"weight", "height", "sex"},
		Compute: func(rec *Record) optional.Scalar {
			ibw := ibwDevine(rec)
			return optional.Guard(ibw + 0.4*(rec.Weight-ibw))
		},
	})
	r.mustRegister(&Formula{
		Key: "bsa_mosteller", Name: "BSA (Mosteller)", Unit: "m^2", Category: CategoryBasic,
		Inputs: []string{"weight", "height"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Guard(math.Sqrt(rec.HeightCM() * rec.Weight / 3600.0))
		},
	})
	r.mustRegister(&Formula{
		Key: "bsa_dubois", Name: "BSA (DuBois)", Unit: "m^2", Category: CategoryBasic,
		Inputs: []string{"weight", "height"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Guard(bsaDuBois(rec))
		},
	})
	r.mustRegister(&Formula{
		Key: "waist_hip_ratio", Name: "Waist-Hip Ratio", Category: CategoryBasic,
		Inputs: []string{"waist", "hip"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Combine2(rec.Waist, rec.Hip, func(waist, hip float64) float64 {
				return waist / hip
			})
		},
	})
	r.mustRegister(&Formula{
		Key: "waist_height_ratio", Name: "Waist-Height Ratio", Category: CategoryBasic,
		Inputs: []string{"waist", "height"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Map(rec.Waist, func(waist float64) float64 {
				return waist / rec.HeightCM()
			})
		},
	})
	r.mustRegister(&Formula{
		Key: "bai", Name: "Body Adiposity Index", Unit: "%", Category: CategoryBasic,
		Inputs: []string{"hip", "height"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Map(rec.Hip, func(hip float64) float64 {
				return hip/math.Pow(rec.Height, 1.5) - 18.0
			})
		},
	})
	r.mustRegister(&Formula{
		Key: "rfm", Name: "Relative Fat Mass", Unit: "%", Category: CategoryBasic,
		Inputs: []string{"waist", "height", "sex"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Map(rec.Waist, func(waist float64) float64 {
				if rec.male() {
					return 64.0 - 20.0*(rec.HeightCM()/waist)
				}
				return 76.0 - 20.0*(rec.HeightCM()/waist)
			})
		},
	})
	r.mustRegister(&Formula{
		Key: "lbm_james", Name: "Lean Body Mass (James)", Unit: "kg", Category: CategoryBasic,
		Inputs: []string{"weight", "height", "sex"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Guard(lbmJames(rec))
		},
	})
	r.mustRegister(&Formula{
		Key: "fat_mass", Name: "Fat Mass", Unit: "kg", Category: CategoryBasic,
		Inputs: []string{"weight", "height", "sex"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Guard(rec.Weight - lbmJames(rec))
		},
	})
}
