package formula

import (
	"math"
	"testing"

	"github.com/biomax/biomax/pkg/optional"
)

func TestCockcroftGault(t *testing.T) {
	rec := testRecord()
	rec.Creatinine = optional.Of(1.0)
	got := mustValue(t, "cockcroft_gault", rec)
	if got != 106.94444444444444 {
		t.Errorf("male: expected 106.94444444444444, got %v", got)
	}

	rec.Sex = SexFemale
	female := mustValue(t, "cockcroft_gault", rec)
	if want := ((140.0 - 30.0) * 70.0 * 0.85) / (72.0 * 1.0); female != want {
		t.Errorf("female: expected %v, got %v", want, female)
	}
}

func TestCockcroftGault_RequiresCreatinine(t *testing.T) {
	if compute(t, "cockcroft_gault", testRecord()).Present() {
		t.Error("expected absent without creatinine")
	}
}

func TestMDRD(t *testing.T) {
	rec := testRecord()
	rec.Creatinine = optional.Of(1.2)
	male := mustValue(t, "mdrd_egfr", rec)
	want := 175.0 * math.Pow(1.2, -1.154) * math.Pow(30.0, -0.203)
	if !almostEqual(male, want) {
		t.Errorf("male: expected %v, got %v", want, male)
	}

	rec.Sex = SexFemale
	female := mustValue(t, "mdrd_egfr", rec)
	if !almostEqual(female, want*0.742) {
		t.Errorf("female: expected %v, got %v", want*0.742, female)
	}
}

func TestMDRD_RequiresCreatinine(t *testing.T) {
	if compute(t, "mdrd_egfr", testRecord()).Present() {
		t.Error("expected absent without creatinine")
	}
}
