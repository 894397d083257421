package assessment

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/biomax/biomax/internal/formula"
	"github.com/biomax/biomax/pkg/optional"
)

type Service struct {
	profiles    ProfileRepository
	assessments AssessmentRepository
	evaluator   *formula.Evaluator
}

func NewService(profiles ProfileRepository, assessments AssessmentRepository, evaluator *formula.Evaluator) *Service {
	return &Service{
		profiles:    profiles,
		assessments: assessments,
		evaluator:   evaluator,
	}
}

// -- Catalog --

func (s *Service) Categories() []formula.Category {
	return formula.Categories
}

// Formulas lists the catalog, optionally restricted to one category.
func (s *Service) Formulas(category string) ([]*formula.Formula, error) {
	if category == "" || category == formula.SelectorAll {
		return s.evaluator.Registry().All(), nil
	}
	cat, err := formula.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	return s.evaluator.Registry().Category(cat), nil
}

func (s *Service) Formula(key string) (*formula.Formula, error) {
	f, ok := s.evaluator.Registry().Get(key)
	if !ok {
		return nil, fmt.Errorf("unknown formula %q", key)
	}
	return f, nil
}

// -- Evaluation --

// Evaluate runs the selected formulas over either the inline record or a
// stored profile, then persists the run as an Assessment. The stored
// snapshot keeps both inputs and results so a run can be audited even
// after its profile changes or disappears.
func (s *Service) Evaluate(ctx context.Context, req *EvaluationRequest) (*EvaluationResponse, error) {
	selector := req.Category
	if selector == "" {
		selector = formula.SelectorAll
	}

	rec := req.Record
	profileID := req.ProfileID
	if profileID != nil {
		p, err := s.profiles.GetByID(ctx, *profileID)
		if err != nil {
			return nil, fmt.Errorf("profile %s: %w", profileID, err)
		}
		rec = p.ToRecord()
	}

	if err := ValidateRecord(&rec); err != nil {
		return nil, err
	}

	results, err := s.evaluator.Evaluate(&rec, selector)
	if err != nil {
		return nil, err
	}

	if req.SaveProfile && profileID == nil {
		if req.Label == "" {
			return nil, fmt.Errorf("label is required to save a profile")
		}
		p := ProfileFromRecord(req.Label, &rec)
		if err := s.profiles.Create(ctx, p); err != nil {
			return nil, err
		}
		profileID = &p.ID
	}

	inputs, err := json.Marshal(&rec)
	if err != nil {
		return nil, err
	}
	rendered, err := json.Marshal(results)
	if err != nil {
		return nil, err
	}

	a := &Assessment{
		ProfileID: profileID,
		Category:  selector,
		Inputs:    inputs,
		Results:   rendered,
	}
	if err := s.assessments.Create(ctx, a); err != nil {
		return nil, err
	}

	return &EvaluationResponse{
		AssessmentID: a.ID,
		ProfileID:    profileID,
		Category:     selector,
		Results:      results,
	}, nil
}

// -- Input Profile --

func (s *Service) CreateProfile(ctx context.Context, p *InputProfile) error {
	if p.Label == "" {
		return fmt.Errorf("label is required")
	}
	rec := p.ToRecord()
	if err := ValidateRecord(&rec); err != nil {
		return err
	}
	return s.profiles.Create(ctx, p)
}

func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*InputProfile, error) {
	return s.profiles.GetByID(ctx, id)
}

func (s *Service) UpdateProfile(ctx context.Context, p *InputProfile) error {
	if p.Label == "" {
		return fmt.Errorf("label is required")
	}
	rec := p.ToRecord()
	if err := ValidateRecord(&rec); err != nil {
		return err
	}
	return s.profiles.Update(ctx, p)
}

func (s *Service) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	return s.profiles.Delete(ctx, id)
}

func (s *Service) ListProfiles(ctx context.Context, limit, offset int) ([]*InputProfile, int, error) {
	return s.profiles.List(ctx, limit, offset)
}

// -- Assessment --

func (s *Service) GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	return s.assessments.GetByID(ctx, id)
}

func (s *Service) DeleteAssessment(ctx context.Context, id uuid.UUID) error {
	return s.assessments.Delete(ctx, id)
}

func (s *Service) ListAssessments(ctx context.Context, limit, offset int) ([]*Assessment, int, error) {
	return s.assessments.List(ctx, limit, offset)
}

func (s *Service) ListAssessmentsByProfile(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]*Assessment, int, error) {
	return s.assessments.ListByProfile(ctx, profileID, limit, offset)
}

// -- Validation --

// ValidateRecord enforces the input boundary: the four core fields must
// be present and plausible, optional measurements must be finite and not
// negative, and FiO2 must already be a fraction. Formulas past this point
// trust the record and only guard against arithmetic degeneracies.
func ValidateRecord(r *formula.Record) error {
	if !finite(r.Weight) || r.Weight <= 0 {
		return fmt.Errorf("weight must be a positive number")
	}
	if !finite(r.Height) || r.Height <= 0 {
		return fmt.Errorf("height must be a positive number")
	}
	if !finite(r.Age) || r.Age <= 0 {
		return fmt.Errorf("age must be a positive number")
	}
	if !r.Sex.Valid() {
		return fmt.Errorf("invalid sex: %s", r.Sex)
	}
	if !finite(r.ActivityFactor) || r.ActivityFactor < 0 {
		return fmt.Errorf("activity_factor must be a non-negative number")
	}

	nonNegative := []struct {
		name string
		v    optional.Scalar
	}{
		{"waist", r.Waist},
		{"hip", r.Hip},
		{"heart_rate", r.HeartRate},
		{"systolic_bp", r.Systolic},
		{"diastolic_bp", r.Diastolic},
		{"cardiac_output", r.CardiacOutput},
		{"cvp", r.CVP},
		{"vo2", r.VO2},
		{"mean_airway_pressure", r.MeanAirwayPressure},
		{"hemoglobin", r.Hemoglobin},
		{"spo2", r.SpO2},
		{"pao2", r.PaO2},
		{"svo2", r.SvO2},
		{"paco2", r.PaCO2},
		{"creatinine", r.Creatinine},
		{"glucose", r.Glucose},
		{"insulin", r.Insulin},
		{"triglycerides", r.Triglycerides},
		{"total_cholesterol", r.TotalCholesterol},
		{"hdl", r.HDL},
		{"albumin", r.Albumin},
		{"bun", r.BUN},
		{"ethanol", r.Ethanol},
		{"sodium", r.Sodium},
		{"potassium", r.Potassium},
		{"chloride", r.Chloride},
		{"bicarbonate", r.Bicarbonate},
		{"measured_osmolality", r.MeasuredOsmolality},
	}
	for _, f := range nonNegative {
		if !f.v.Present() {
			continue
		}
		if v := f.v.Value(); !finite(v) || v < 0 {
			return fmt.Errorf("%s must be a non-negative number", f.name)
		}
	}

	if r.FiO2.Present() {
		if v := r.FiO2.Value(); !finite(v) || v <= 0 || v > 1 {
			return fmt.Errorf("fio2 must be a fraction between 0 and 1")
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
