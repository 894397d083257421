package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/biomax/biomax/internal/formula"
	"github.com/biomax/biomax/pkg/optional"
)

// The memory repositories double as test fixtures; they implement the
// same interfaces the PostgreSQL repositories do.
func newTestService() *Service {
	return NewService(
		NewProfileRepoMemory(),
		NewAssessmentRepoMemory(),
		formula.NewEvaluator(formula.NewDefault()),
	)
}

func baselineRequest() *EvaluationRequest {
	return &EvaluationRequest{
		Record: formula.Record{Weight: 70, Height: 1.75, Age: 30, Sex: formula.SexMale},
	}
}

func findResult(t *testing.T, results []formula.Result, key string) formula.Result {
	t.Helper()
	for _, r := range results {
		if r.Key == key {
			return r
		}
	}
	t.Fatalf("result %s not found", key)
	return formula.Result{}
}

func TestEvaluate_WholeCatalog(t *testing.T) {
	svc := newTestService()

	resp, err := svc.Evaluate(context.Background(), baselineRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Category != "all" {
		t.Errorf("expected category all, got %s", resp.Category)
	}
	if want := formula.NewDefault().Len(); len(resp.Results) != want {
		t.Errorf("expected %d results, got %d", want, len(resp.Results))
	}
	if resp.Results[0].Key != "bmi" {
		t.Errorf("expected bmi first, got %s", resp.Results[0].Key)
	}
	if resp.AssessmentID == uuid.Nil {
		t.Error("expected assessment to be persisted")
	}
	if resp.ProfileID != nil {
		t.Error("expected no profile without save_profile")
	}
}

func TestEvaluate_PersistsSnapshot(t *testing.T) {
	svc := newTestService()

	resp, err := svc.Evaluate(context.Background(), baselineRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a, err := svc.GetAssessment(context.Background(), resp.AssessmentID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Category != "all" {
		t.Errorf("expected category all, got %s", a.Category)
	}

	var inputs formula.Record
	if err := json.Unmarshal(a.Inputs, &inputs); err != nil {
		t.Fatalf("input snapshot does not round-trip: %v", err)
	}
	if inputs.Weight != 70 || inputs.Sex != formula.SexMale {
		t.Errorf("input snapshot lost data: %+v", inputs)
	}

	var results []formula.Result
	if err := json.Unmarshal(a.Results, &results); err != nil {
		t.Fatalf("result snapshot does not round-trip: %v", err)
	}
	if len(results) != len(resp.Results) {
		t.Errorf("expected %d stored results, got %d", len(resp.Results), len(results))
	}
}

func TestEvaluate_CategorySelector(t *testing.T) {
	svc := newTestService()

	req := baselineRequest()
	req.Category = "renal"
	req.Creatinine = optional.Of(1.0)

	resp, err := svc.Evaluate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("expected 2 renal results, got %d", len(resp.Results))
	}
	if resp.Results[0].Key != "cockcroft_gault" || resp.Results[1].Key != "mdrd_egfr" {
		t.Errorf("unexpected renal keys: %s, %s", resp.Results[0].Key, resp.Results[1].Key)
	}
}

func TestEvaluate_UnknownCategory(t *testing.T) {
	svc := newTestService()

	req := baselineRequest()
	req.Category = "bones"
	if _, err := svc.Evaluate(context.Background(), req); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestEvaluate_RejectsInvalidRecord(t *testing.T) {
	svc := newTestService()

	cases := []struct {
		name   string
		mutate func(*EvaluationRequest)
	}{
		{"zero weight", func(r *EvaluationRequest) { r.Weight = 0 }},
		{"negative height", func(r *EvaluationRequest) { r.Height = -1 }},
		{"zero age", func(r *EvaluationRequest) { r.Age = 0 }},
		{"NaN weight", func(r *EvaluationRequest) { r.Weight = math.NaN() }},
		{"infinite height", func(r *EvaluationRequest) { r.Height = math.Inf(1) }},
		{"invalid sex", func(r *EvaluationRequest) { r.Sex = "robot" }},
		{"negative waist", func(r *EvaluationRequest) { r.Waist = optional.Of(-5) }},
		{"NaN creatinine", func(r *EvaluationRequest) { r.Creatinine = optional.Of(math.NaN()) }},
		{"fio2 above one", func(r *EvaluationRequest) { r.FiO2 = optional.Of(1.5) }},
		{"zero fio2", func(r *EvaluationRequest) { r.FiO2 = optional.Of(0) }},
		{"negative activity factor", func(r *EvaluationRequest) { r.ActivityFactor = -1 }},
	}
	for _, tc := range cases {
		req := baselineRequest()
		tc.mutate(req)
		if _, err := svc.Evaluate(context.Background(), req); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestEvaluate_SaveProfile(t *testing.T) {
	svc := newTestService()

	req := baselineRequest()
	req.SaveProfile = true
	req.Label = "morning weigh-in"

	resp, err := svc.Evaluate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ProfileID == nil {
		t.Fatal("expected a saved profile ID")
	}

	p, err := svc.GetProfile(context.Background(), *resp.ProfileID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Label != "morning weigh-in" {
		t.Errorf("expected label to be stored, got %s", p.Label)
	}
	if p.Weight != 70 {
		t.Errorf("expected weight 70, got %v", p.Weight)
	}

	a, _ := svc.GetAssessment(context.Background(), resp.AssessmentID)
	if a.ProfileID == nil || *a.ProfileID != *resp.ProfileID {
		t.Error("expected assessment to reference the saved profile")
	}
}

func TestEvaluate_SaveProfileRequiresLabel(t *testing.T) {
	svc := newTestService()

	req := baselineRequest()
	req.SaveProfile = true
	if _, err := svc.Evaluate(context.Background(), req); err == nil {
		t.Error("expected error for save_profile without label")
	}
}

func TestEvaluate_UsesStoredProfile(t *testing.T) {
	svc := newTestService()

	p := &InputProfile{Label: "stored", Weight: 90, Height: 1.8, Age: 40, Sex: "female"}
	if err := svc.CreateProfile(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The inline record is deliberately invalid; if the service consulted
	// it instead of the stored profile, validation would fail.
	req := &EvaluationRequest{ProfileID: &p.ID}
	resp, err := svc.Evaluate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bmi := findResult(t, resp.Results, "bmi")
	if !bmi.Value.Present() {
		t.Fatal("expected BMI from the stored profile")
	}
	if want := 90.0 / (1.8 * 1.8); bmi.Value.Value() != want {
		t.Errorf("expected BMI %v, got %v", want, bmi.Value.Value())
	}
	if resp.ProfileID == nil || *resp.ProfileID != p.ID {
		t.Error("expected the response to reference the stored profile")
	}
}

func TestEvaluate_StoredProfileMissing(t *testing.T) {
	svc := newTestService()

	missing := uuid.New()
	req := &EvaluationRequest{ProfileID: &missing}
	_, err := svc.Evaluate(context.Background(), req)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateProfile_LabelRequired(t *testing.T) {
	svc := newTestService()

	p := &InputProfile{Weight: 70, Height: 1.75, Age: 30, Sex: "male"}
	if err := svc.CreateProfile(context.Background(), p); err == nil {
		t.Error("expected error for missing label")
	}
}

func TestCreateProfile_RejectsInvalidMeasurements(t *testing.T) {
	svc := newTestService()

	waist := -5.0
	p := &InputProfile{Label: "bad", Weight: 70, Height: 1.75, Age: 30, Sex: "male", Waist: &waist}
	if err := svc.CreateProfile(context.Background(), p); err == nil {
		t.Error("expected error for negative waist")
	}

	p2 := &InputProfile{Label: "bad sex", Weight: 70, Height: 1.75, Age: 30, Sex: "unknown"}
	if err := svc.CreateProfile(context.Background(), p2); err == nil {
		t.Error("expected error for invalid sex")
	}
}

func TestUpdateProfile_Missing(t *testing.T) {
	svc := newTestService()

	p := &InputProfile{ID: uuid.New(), Label: "ghost", Weight: 70, Height: 1.75, Age: 30, Sex: "male"}
	if err := svc.UpdateProfile(context.Background(), p); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListAssessments_FilterByProfile(t *testing.T) {
	svc := newTestService()

	saved := baselineRequest()
	saved.SaveProfile = true
	saved.Label = "tracked"
	resp, err := svc.Evaluate(context.Background(), saved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Evaluate(context.Background(), baselineRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, total, err := svc.ListAssessments(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Errorf("expected 2 assessments, got %d", total)
	}

	items, total, err := svc.ListAssessmentsByProfile(context.Background(), *resp.ProfileID, 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Errorf("expected 1 assessment for the profile, got %d (total %d)", len(items), total)
	}
}

func TestDeleteAssessment(t *testing.T) {
	svc := newTestService()

	resp, _ := svc.Evaluate(context.Background(), baselineRequest())
	if err := svc.DeleteAssessment(context.Background(), resp.AssessmentID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetAssessment(context.Background(), resp.AssessmentID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
