package formula

import "github.com/biomax/biomax/pkg/optional"

// Respiratory and gas-exchange formulas. Constants follow the standard
// sea-level assumptions the legacy calculators used.
const (
	barometricPressure  = 760.0 // mmHg
	waterVaporPressure  = 47.0  // mmHg
	respiratoryQuotient = 0.8
	defaultFiO2         = 0.21 // room air
	mixedVenousPO2      = 40.0 // mmHg, assumed when not measured
)

// alveolarPO2 is shared with the A-a gradient computation.
func alveolarPO2(r *Record) optional.Scalar {
	fio2 := r.FiO2.Or(defaultFiO2)
	return optional.Map(r.PaCO2, func(paco2 float64) float64 {
		return fio2*(barometricPressure-waterVaporPressure) - paco2/respiratoryQuotient
	})
}

// arterialO2Content handles saturation given as either a percentage or a
// fraction: values above 1 are divided by 100.
func arterialO2Content(r *Record) optional.Scalar {
	return optional.Combine3(r.Hemoglobin, r.SpO2, r.PaO2, func(hb, sa, pao2 float64) float64 {
		if sa > 1.0 {
			sa /= 100.0
		}
		return 1.34*hb*sa + 0.0031*pao2
	})
}

func venousO2Content(r *Record) optional.Scalar {
	return optional.Combine2(r.Hemoglobin, r.SvO2, func(hb, sv float64) float64 {
		if sv > 1.0 {
			sv /= 100.0
		}
		return 1.34*hb*sv + 0.0031*mixedVenousPO2
	})
}

func registerRespiratory(r *Registry) {
	r.mustRegister(&Formula{
		Key: "alveolar_po2", Name: "Alveolar PO2", Unit: "mmHg", Category: CategoryRespiratory,
		Inputs:  []string{"paco2", "fio2"},
		Compute: alveolarPO2,
	})
	r.mustRegister(&Formula{
		Key: "aa_gradient", Name: "A-a Gradient", Unit: "mmHg", Category: CategoryRespiratory,
		Inputs: []string{"paco2", "pao2", "fio2"},
		Compute: func(rec *Record) optional.Scalar {
			return optional.Combine2(alveolarPO2(rec), rec.PaO2, func(pAO2, paO2 float64) float64 {
				return pAO2 - paO2
			})
		},
	})
	r.mustRegister(&Formula{
		Key: "cao2", Name: "Arterial O2 Content (CaO2)", Unit: "mL/dL", Category: CategoryRespiratory,
		Inputs:  []string{"hemoglobin", "spo2", "pao2"},
		Compute: arterialO2Content,
	})
	r.mustRegister(&Formula{
		Key: "cvo2", Name: "Venous O2 Content (CvO2)", Unit: "mL/dL", Category: CategoryRespiratory,
		Inputs:  []string{"hemoglobin", "svo2"},
		Compute: venousO2Content,
	})
	r.mustRegister(&Formula{
		Key: "oxygenation_index", Name: "Oxygenation Index", Category: CategoryRespiratory,
		Inputs: []string{"mean_airway_pressure", "pao2", "fio2"},
		Compute: func(rec *Record) optional.Scalar {
			fio2 := rec.FiO2.Or(defaultFiO2)
			return optional.Combine2(rec.MeanAirwayPressure, rec.PaO2, func(paw, pao2 float64) float64 {
				return fio2 * paw * 100.0 / pao2
			})
		},
	})
}
