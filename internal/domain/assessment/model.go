package assessment

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/biomax/biomax/internal/formula"
	"github.com/biomax/biomax/pkg/optional"
)

// InputProfile maps to the input_profile table: a named, reusable set of
// calculator inputs. Optional measurements are nullable columns.
type InputProfile struct {
	ID    uuid.UUID `db:"id" json:"id"`
	Label string    `db:"label" json:"label"`

	Weight float64 `db:"weight" json:"weight"`
	Height float64 `db:"height" json:"height"`
	Age    float64 `db:"age" json:"age"`
	Sex    string  `db:"sex" json:"sex"`

	ActivityFactor *float64 `db:"activity_factor" json:"activity_factor,omitempty"`

	Waist              *float64 `db:"waist" json:"waist,omitempty"`
	Hip                *float64 `db:"hip" json:"hip,omitempty"`
	HeartRate          *float64 `db:"heart_rate" json:"heart_rate,omitempty"`
	SystolicBP         *float64 `db:"systolic_bp" json:"systolic_bp,omitempty"`
	DiastolicBP        *float64 `db:"diastolic_bp" json:"diastolic_bp,omitempty"`
	CardiacOutput      *float64 `db:"cardiac_output" json:"cardiac_output,omitempty"`
	CVP                *float64 `db:"cvp" json:"cvp,omitempty"`
	VO2                *float64 `db:"vo2" json:"vo2,omitempty"`
	MeanAirwayPressure *float64 `db:"mean_airway_pressure" json:"mean_airway_pressure,omitempty"`
	FiO2               *float64 `db:"fio2" json:"fio2,omitempty"`
	Hemoglobin         *float64 `db:"hemoglobin" json:"hemoglobin,omitempty"`
	SpO2               *float64 `db:"spo2" json:"spo2,omitempty"`
	PaO2               *float64 `db:"pao2" json:"pao2,omitempty"`
	SvO2               *float64 `db:"svo2" json:"svo2,omitempty"`
	PaCO2              *float64 `db:"paco2" json:"paco2,omitempty"`
	Creatinine         *float64 `db:"creatinine" json:"creatinine,omitempty"`
	Glucose            *float64 `db:"glucose" json:"glucose,omitempty"`
	Insulin            *float64 `db:"insulin" json:"insulin,omitempty"`
	Triglycerides      *float64 `db:"triglycerides" json:"triglycerides,omitempty"`
	TotalCholesterol   *float64 `db:"total_cholesterol" json:"total_cholesterol,omitempty"`
	HDL                *float64 `db:"hdl" json:"hdl,omitempty"`
	Albumin            *float64 `db:"albumin" json:"albumin,omitempty"`
	BUN                *float64 `db:"bun" json:"bun,omitempty"`
	Ethanol            *float64 `db:"ethanol" json:"ethanol,omitempty"`
	Sodium             *float64 `db:"sodium" json:"sodium,omitempty"`
	Potassium          *float64 `db:"potassium" json:"potassium,omitempty"`
	Chloride           *float64 `db:"chloride" json:"chloride,omitempty"`
	Bicarbonate        *float64 `db:"bicarbonate" json:"bicarbonate,omitempty"`
	MeasuredOsmolality *float64 `db:"measured_osmolality" json:"measured_osmolality,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ToRecord converts the stored profile back into an evaluable record.
func (p *InputProfile) ToRecord() formula.Record {
	rec := formula.Record{
		Weight: p.Weight,
		Height: p.Height,
		Age:    p.Age,
		Sex:    formula.Sex(p.Sex),

		Waist:              optional.FromPtr(p.Waist),
		Hip:                optional.FromPtr(p.Hip),
		HeartRate:          optional.FromPtr(p.HeartRate),
		Systolic:           optional.FromPtr(p.SystolicBP),
		Diastolic:          optional.FromPtr(p.DiastolicBP),
		CardiacOutput:      optional.FromPtr(p.CardiacOutput),
		CVP:                optional.FromPtr(p.CVP),
		VO2:                optional.FromPtr(p.VO2),
		MeanAirwayPressure: optional.FromPtr(p.MeanAirwayPressure),
		FiO2:               optional.FromPtr(p.FiO2),
		Hemoglobin:         optional.FromPtr(p.Hemoglobin),
		SpO2:               optional.FromPtr(p.SpO2),
		PaO2:               optional.FromPtr(p.PaO2),
		SvO2:               optional.FromPtr(p.SvO2),
		PaCO2:              optional.FromPtr(p.PaCO2),
		Creatinine:         optional.FromPtr(p.Creatinine),
		Glucose:            optional.FromPtr(p.Glucose),
		Insulin:            optional.FromPtr(p.Insulin),
		Triglycerides:      optional.FromPtr(p.Triglycerides),
		TotalCholesterol:   optional.FromPtr(p.TotalCholesterol),
		HDL:                optional.FromPtr(p.HDL),
		Albumin:            optional.FromPtr(p.Albumin),
		BUN:                optional.FromPtr(p.BUN),
		Ethanol:            optional.FromPtr(p.Ethanol),
		Sodium:             optional.FromPtr(p.Sodium),
		Potassium:          optional.FromPtr(p.Potassium),
		Chloride:           optional.FromPtr(p.Chloride),
		Bicarbonate:        optional.FromPtr(p.Bicarbonate),
		MeasuredOsmolality: optional.FromPtr(p.MeasuredOsmolality),
	}
	if p.ActivityFactor != nil {
		rec.ActivityFactor = *p.ActivityFactor
	}
	return rec
}

// ProfileFromRecord builds a storable profile from a validated record.
func ProfileFromRecord(label string, rec *formula.Record) *InputProfile {
	p := &InputProfile{
		Label:  label,
		Weight: rec.Weight,
		Height: rec.Height,
		Age:    rec.Age,
		Sex:    string(rec.Sex),

		Waist:              rec.Waist.Ptr(),
		Hip:                rec.Hip.Ptr(),
		HeartRate:          rec.HeartRate.Ptr(),
		SystolicBP:         rec.Systolic.Ptr(),
		DiastolicBP:        rec.Diastolic.Ptr(),
		CardiacOutput:      rec.CardiacOutput.Ptr(),
		CVP:                rec.CVP.Ptr(),
		VO2:                rec.VO2.Ptr(),
		MeanAirwayPressure: rec.MeanAirwayPressure.Ptr(),
		FiO2:               rec.FiO2.Ptr(),
		Hemoglobin:         rec.Hemoglobin.Ptr(),
		SpO2:               rec.SpO2.Ptr(),
		PaO2:               rec.PaO2.Ptr(),
		SvO2:               rec.SvO2.Ptr(),
		PaCO2:              rec.PaCO2.Ptr(),
		Creatinine:         rec.Creatinine.Ptr(),
		Glucose:            rec.Glucose.Ptr(),
		Insulin:            rec.Insulin.Ptr(),
		Triglycerides:      rec.Triglycerides.Ptr(),
		TotalCholesterol:   rec.TotalCholesterol.Ptr(),
		HDL:                rec.HDL.Ptr(),
		Albumin:            rec.Albumin.Ptr(),
		BUN:                rec.BUN.Ptr(),
		Ethanol:            rec.Ethanol.Ptr(),
		Sodium:             rec.Sodium.Ptr(),
		Potassium:          rec.Potassium.Ptr(),
		Chloride:           rec.Chloride.Ptr(),
		Bicarbonate:        rec.Bicarbonate.Ptr(),
		MeasuredOsmolality: rec.MeasuredOsmolality.Ptr(),
	}
	if rec.ActivityFactor > 0 {
		f := rec.ActivityFactor
		p.ActivityFactor = &f
	}
	return p
}

// Assessment maps to the assessment table: one stored evaluation run with
// its input snapshot and computed results.
type Assessment struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	ProfileID *uuid.UUID      `db:"profile_id" json:"profile_id,omitempty"`
	Category  string          `db:"category" json:"category"`
	Inputs    json.RawMessage `db:"inputs" json:"inputs"`
	Results   json.RawMessage `db:"results" json:"results"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// EvaluationRequest carries one calculation request: the patient inputs
// (inline, as the record's fields) plus evaluation options. When ProfileID
// is set the stored profile supplies the inputs instead.
type EvaluationRequest struct {
	formula.Record
	Category    string     `json:"category"`
	ProfileID   *uuid.UUID `json:"profile_id,omitempty"`
	SaveProfile bool       `json:"save_profile"`
	Label       string     `json:"label"`
}

// EvaluationResponse is the evaluation result set plus the identifiers of
// anything persisted along the way.
type EvaluationResponse struct {
	AssessmentID uuid.UUID        `json:"assessment_id"`
	ProfileID    *uuid.UUID       `json:"profile_id,omitempty"`
	Category     string           `json:"category"`
	Results      []formula.Result `json:"results"`
}
