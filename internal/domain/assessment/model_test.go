package assessment

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/biomax/biomax/internal/formula"
	"github.com/biomax/biomax/pkg/optional"
)

func TestProfileRecordRoundTrip(t *testing.T) {
	rec := formula.Record{
		Weight:         70,
		Height:         1.75,
		Age:            30,
		Sex:            formula.SexMale,
		ActivityFactor: 1.2,
		Waist:          optional.Of(80),
		Creatinine:     optional.Of(1.0),
		Sodium:         optional.Of(140),
	}

	p := ProfileFromRecord("round trip", &rec)
	if p.Label != "round trip" {
		t.Errorf("expected label to be kept, got %s", p.Label)
	}
	if p.Waist == nil || *p.Waist != 80 {
		t.Errorf("expected waist 80, got %v", p.Waist)
	}
	if p.Hip != nil {
		t.Error("expected absent hip to stay nil")
	}
	if p.ActivityFactor == nil || *p.ActivityFactor != 1.2 {
		t.Errorf("expected activity factor 1.2, got %v", p.ActivityFactor)
	}

	back := p.ToRecord()
	if back.Weight != rec.Weight || back.Sex != rec.Sex {
		t.Errorf("core fields lost: %+v", back)
	}
	if !back.Waist.Present() || back.Waist.Value() != 80 {
		t.Errorf("expected waist to survive, got %+v", back.Waist)
	}
	if back.Hip.Present() {
		t.Error("expected hip to stay absent")
	}
	if !back.Sodium.Present() || back.Sodium.Value() != 140 {
		t.Errorf("expected sodium to survive, got %+v", back.Sodium)
	}
	if back.ActivityFactor != 1.2 {
		t.Errorf("expected activity factor 1.2, got %v", back.ActivityFactor)
	}
}

func TestProfileFromRecord_DefaultActivityFactor(t *testing.T) {
	rec := formula.Record{Weight: 70, Height: 1.75, Age: 30, Sex: formula.SexMale}

	p := ProfileFromRecord("defaults", &rec)
	if p.ActivityFactor != nil {
		t.Error("expected unset activity factor to stay nil")
	}

	back := p.ToRecord()
	if back.ActivityFactor != 0 {
		t.Errorf("expected zero activity factor, got %v", back.ActivityFactor)
	}
}

func TestInputProfile_JSONOmitsAbsentFields(t *testing.T) {
	p := testProfile("sparse")
	waist := 80.0
	p.Waist = &waist

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"waist":80`) {
		t.Errorf("expected waist in JSON, got %s", s)
	}
	if strings.Contains(s, "hip") || strings.Contains(s, "creatinine") {
		t.Errorf("expected absent fields to be omitted, got %s", s)
	}
}

func TestEvaluationRequest_BindsFlatJSON(t *testing.T) {
	body := `{"weight":70,"height":1.75,"age":30,"sex":"female","category":"lipid","save_profile":true,"label":"lipid panel","hdl":50}`

	var req EvaluationRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Weight != 70 || req.Sex != formula.SexFemale {
		t.Errorf("record fields did not bind: %+v", req.Record)
	}
	if req.Category != "lipid" || !req.SaveProfile || req.Label != "lipid panel" {
		t.Errorf("option fields did not bind: %+v", req)
	}
	if !req.HDL.Present() || req.HDL.Value() != 50 {
		t.Errorf("optional field did not bind: %+v", req.HDL)
	}
}
