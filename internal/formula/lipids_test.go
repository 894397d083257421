package formula

import (
	"math"
	"testing"

	"github.com/biomax/biomax/pkg/optional"
)

func lipidRecord() *Record {
	rec := testRecord()
	rec.TotalCholesterol = optional.Of(200)
	rec.HDL = optional.Of(50)
	rec.Triglycerides = optional.Of(150)
	return rec
}

func TestLDLFriedewald(t *testing.T) {
	if got := mustValue(t, "ldl_friedewald", lipidRecord()); got != 120.0 {
		t.Errorf("expected 120, got %v", got)
	}
}

func TestLDLFriedewald_RequiresTriglycerides(t *testing.T) {
	rec := lipidRecord()
	rec.Triglycerides = optional.Absent()
	if compute(t, "ldl_friedewald", rec).Present() {
		t.Error("expected absent without triglycerides")
	}
}

func TestNonHDL(t *testing.T) {
	if got := mustValue(t, "non_hdl", lipidRecord()); got != 150.0 {
		t.Errorf("expected 150, got %v", got)
	}

	rec := testRecord()
	rec.TotalCholesterol = optional.Of(200)
	if compute(t, "non_hdl", rec).Present() {
		t.Error("expected absent without HDL")
	}
}

func TestAIP(t *testing.T) {
	got := mustValue(t, "aip", lipidRecord())
	if got != math.Log10(150.0/50.0) {
		t.Errorf("expected %v, got %v", math.Log10(150.0/50.0), got)
	}
}

func TestAIP_RequiresPositiveInputs(t *testing.T) {
	zeroTG := lipidRecord()
	zeroTG.Triglycerides = optional.Of(0)
	if compute(t, "aip", zeroTG).Present() {
		t.Error("expected absent for zero triglycerides")
	}

	zeroHDL := lipidRecord()
	zeroHDL.HDL = optional.Of(0)
	if compute(t, "aip", zeroHDL).Present() {
		t.Error("expected absent for zero HDL")
	}
}

func TestTyG(t *testing.T) {
	rec := lipidRecord()
	rec.Glucose = optional.Of(100)
	got := mustValue(t, "tyg", rec)
	if got != math.Log(150.0*100.0/2.0) {
		t.Errorf("expected %v, got %v", math.Log(150.0*100.0/2.0), got)
	}
}

func TestTyG_DegeneratesToAbsent(t *testing.T) {
	rec := lipidRecord()
	rec.Glucose = optional.Of(0)
	// log of zero is not a number we can report.
	if compute(t, "tyg", rec).Present() {
		t.Error("expected absent for zero glucose")
	}
}
