package formula

import (
	"testing"

	"github.com/biomax/biomax/pkg/optional"
)

func TestHOMAIR(t *testing.T) {
	rec := testRecord()
	rec.Glucose = optional.Of(100)
	rec.Insulin = optional.Of(10)
	if got := mustValue(t, "homa_ir", rec); got != 100.0*10.0/405.0 {
		t.Errorf("expected %v, got %v", 100.0*10.0/405.0, got)
	}
}

func TestHOMAIR_RequiresBoth(t *testing.T) {
	rec := testRecord()
	rec.Glucose = optional.Of(100)
	if compute(t, "homa_ir", rec).Present() {
		t.Error("expected absent without insulin")
	}
}

func TestQUICKI(t *testing.T) {
	rec := testRecord()
	rec.Glucose = optional.Of(100)
	rec.Insulin = optional.Of(10)
	// log10(10) + log10(100) = 3.
	if got := mustValue(t, "quicki", rec); got != 1.0/3.0 {
		t.Errorf("expected %v, got %v", 1.0/3.0, got)
	}
}

func TestQUICKI_DegeneratesToAbsent(t *testing.T) {
	rec := testRecord()
	// log10(10) + log10(0.1) = 0: the reciprocal blows up.
	rec.Glucose = optional.Of(0.1)
	rec.Insulin = optional.Of(10)
	if compute(t, "quicki", rec).Present() {
		t.Error("expected absent for a zero denominator")
	}

	rec.Glucose = optional.Of(100)
	rec.Insulin = optional.Of(-1)
	if compute(t, "quicki", rec).Present() {
		t.Error("expected absent for a negative insulin")
	}
}
