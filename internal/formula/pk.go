package formula

import "github.com/biomax/biomax/pkg/optional"

// Basic pharmacokinetic calculators. These take drug parameters rather
// than patient measurements, so they are exported as plain functions; the
// registry carries the catalog's worked half-life example.

// LoadingDose returns the dose in mg needed to reach targetConc (mg/L)
// for a volume of distribution vd (L) and bioavailability f (0-1].
func LoadingDose(targetConc, vd, f float64) float64 {
	return targetConc * vd / f
}

// MaintenanceRate returns the dosing rate in mg/hr that sustains the
// steady-state concentration css (mg/L) at clearance cl (L/hr) and
// bioavailability f (0-1].
func MaintenanceRate(cl, css, f float64) float64 {
	return cl * css / f
}

// HalfLife returns the elimination half-life in hours for a volume of
// distribution vd (L) and clearance cl (L/hr).
func HalfLife(vd, cl float64) float64 {
	return 0.693 * vd / cl
}

// MichaelisMentenRate returns the elimination rate in mg/hr at
// concentration c (mg/L) for capacity-limited kinetics.
func MichaelisMentenRate(c, vmax, km float64) float64 {
	return vmax * c / (km + c)
}

func registerPK(r *Registry) {
	r.mustRegister(&Formula{
		Key: "half_life_example", Name: "Half-Life (Vd 40 L, CL 5 L/hr)", Unit: "hr", Category: CategoryPK,
		Compute: func(rec *Record) optional.Scalar {
			return optional.Guard(HalfLife(40.0, 5.0))
		},
	})
}
