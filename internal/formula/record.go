// Package formula implements the clinical calculation core: an immutable
// patient record, a registry of named formulas grouped into categories,
// and an evaluator that runs them in a stable, documented order.
package formula

import (
	"fmt"
	"strings"

	"github.com/biomax/biomax/pkg/optional"
)

// Sex is the strict two-value enum consumed by sex-dependent formulas.
// Anything outside the enum is rejected at the input boundary; there is no
// silent fallback branch.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// ParseSex maps raw input onto the Sex enum. "male"/"m" and "female"/"f"
// are accepted case-insensitively; everything else is an error.
func ParseSex(s string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return SexMale, nil
	case "female", "f":
		return SexFemale, nil
	}
	return "", fmt.Errorf("invalid sex %q: must be male or female", s)
}

// Valid reports whether s is one of the two enum values.
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// DefaultActivityFactor scales BMR into TDEE when the caller does not
// supply a factor, matching the legacy calculators' default.
const DefaultActivityFactor = 1.55

const inchesPerMeter = 39.3700787

// Record is an immutable snapshot of one calculation session's inputs.
// Required core fields are plain float64 and are validated at the boundary
// (weight, height, age strictly positive; sex a valid enum value) before a
// Record reaches any formula. Every optional measurement is an
// optional.Scalar: wholly present or wholly absent, never a sentinel.
type Record struct {
	Weight float64 `json:"weight"` // kg
	Height float64 `json:"height"` // m
	Age    float64 `json:"age"`    // years
	Sex    Sex     `json:"sex"`

	// Anthropometrics (cm).
	Waist optional.Scalar `json:"waist"`
	Hip   optional.Scalar `json:"hip"`

	// Vitals.
	HeartRate          optional.Scalar `json:"heart_rate"`           // bpm
	Systolic           optional.Scalar `json:"systolic_bp"`          // mmHg
	Diastolic          optional.Scalar `json:"diastolic_bp"`         // mmHg
	CardiacOutput      optional.Scalar `json:"cardiac_output"`       // L/min
	CVP                optional.Scalar `json:"cvp"`                  // mmHg
	VO2                optional.Scalar `json:"vo2"`                  // mL/min
	MeanAirwayPressure optional.Scalar `json:"mean_airway_pressure"` // cm H2O
	FiO2               optional.Scalar `json:"fio2"`                 // fraction, 0-1

	// Labs.
	Hemoglobin         optional.Scalar `json:"hemoglobin"`          // g/dL
	SpO2               optional.Scalar `json:"spo2"`                // %
	PaO2               optional.Scalar `json:"pao2"`                // mmHg
	SvO2               optional.Scalar `json:"svo2"`                // %
	PaCO2              optional.Scalar `json:"paco2"`               // mmHg
	Creatinine         optional.Scalar `json:"creatinine"`          // mg/dL
	Glucose            optional.Scalar `json:"glucose"`             // mg/dL
	Insulin            optional.Scalar `json:"insulin"`             // µU/mL
	Triglycerides      optional.Scalar `json:"triglycerides"`       // mg/dL
	TotalCholesterol   optional.Scalar `json:"total_cholesterol"`   // mg/dL
	HDL                optional.Scalar `json:"hdl"`                 // mg/dL
	Albumin            optional.Scalar `json:"albumin"`             // g/dL
	BUN                optional.Scalar `json:"bun"`                 // mg/dL
	Ethanol            optional.Scalar `json:"ethanol"`             // mg/dL
	Sodium             optional.Scalar `json:"sodium"`              // mmol/L
	Potassium          optional.Scalar `json:"potassium"`           // mmol/L
	Chloride           optional.Scalar `json:"chloride"`            // mmol/L
	Bicarbonate        optional.Scalar `json:"bicarbonate"`         // mmol/L
	MeasuredOsmolality optional.Scalar `json:"measured_osmolality"` // mOsm/kg

	// ActivityFactor scales BMR into TDEE; zero means "use the default".
	ActivityFactor float64 `json:"activity_factor,omitempty"`
}

// HeightCM returns height in centimeters.
func (r *Record) HeightCM() float64 {
	return r.Height * 100.0
}

// HeightIn returns height in inches, as consumed by the Devine estimate.
func (r *Record) HeightIn() float64 {
	return r.Height * inchesPerMeter
}

func (r *Record) male() bool {
	return r.Sex == SexMale
}

func (r *Record) activityFactor() float64 {
	if r.ActivityFactor > 0 {
		return r.ActivityFactor
	}
	return DefaultActivityFactor
}
