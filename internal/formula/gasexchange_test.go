package formula

import (
	"testing"

	"github.com/biomax/biomax/pkg/optional"
)

func TestAlveolarPO2_RoomAirDefault(t *testing.T) {
	rec := testRecord()
	rec.PaCO2 = optional.Of(40)
	want := 0.21*(760.0-47.0) - 40.0/0.8
	if got := mustValue(t, "alveolar_po2", rec); got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestAlveolarPO2_SuppliedFiO2(t *testing.T) {
	rec := testRecord()
	rec.PaCO2 = optional.Of(40)
	rec.FiO2 = optional.Of(1.0)
	want := 1.0*(760.0-47.0) - 40.0/0.8
	if got := mustValue(t, "alveolar_po2", rec); got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestAlveolarPO2_RequiresPaCO2(t *testing.T) {
	if compute(t, "alveolar_po2", testRecord()).Present() {
		t.Error("expected absent without PaCO2")
	}
}

func TestAAGradient(t *testing.T) {
	rec := testRecord()
	rec.PaCO2 = optional.Of(40)
	rec.PaO2 = optional.Of(90)
	alveolar := mustValue(t, "alveolar_po2", rec)
	if got := mustValue(t, "aa_gradient", rec); got != alveolar-90.0 {
		t.Errorf("expected %v, got %v", alveolar-90.0, got)
	}

	rec.PaO2 = optional.Absent()
	if compute(t, "aa_gradient", rec).Present() {
		t.Error("expected absent without PaO2")
	}
}

func TestCaO2(t *testing.T) {
	rec := testRecord()
	rec.Hemoglobin = optional.Of(15)
	rec.SpO2 = optional.Of(98)
	rec.PaO2 = optional.Of(90)
	want := 1.34*15.0*0.98 + 0.0031*90.0
	if got := mustValue(t, "cao2", rec); !almostEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCaO2_AcceptsFractionOrPercent(t *testing.T) {
	percent := testRecord()
	percent.Hemoglobin = optional.Of(15)
	percent.SpO2 = optional.Of(98)
	percent.PaO2 = optional.Of(90)

	fraction := testRecord()
	fraction.Hemoglobin = optional.Of(15)
	fraction.SpO2 = optional.Of(0.98)
	fraction.PaO2 = optional.Of(90)

	if mustValue(t, "cao2", percent) != mustValue(t, "cao2", fraction) {
		t.Error("expected percent and fraction saturations to agree")
	}
}

func TestCvO2(t *testing.T) {
	rec := testRecord()
	rec.Hemoglobin = optional.Of(15)
	rec.SvO2 = optional.Of(70)
	want := 1.34*15.0*0.7 + 0.0031*40.0
	if got := mustValue(t, "cvo2", rec); !almostEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	rec.SvO2 = optional.Absent()
	if compute(t, "cvo2", rec).Present() {
		t.Error("expected absent without venous saturation")
	}
}

func TestOxygenationIndex(t *testing.T) {
	rec := testRecord()
	rec.MeanAirwayPressure = optional.Of(12)
	rec.PaO2 = optional.Of(90)
	rec.FiO2 = optional.Of(0.6)
	if got := mustValue(t, "oxygenation_index", rec); got != 0.6*12.0*100.0/90.0 {
		t.Errorf("expected %v, got %v", 0.6*12.0*100.0/90.0, got)
	}

	rec.FiO2 = optional.Absent()
	if got := mustValue(t, "oxygenation_index", rec); got != 0.21*12.0*100.0/90.0 {
		t.Errorf("room air: expected %v, got %v", 0.21*12.0*100.0/90.0, got)
	}
}

func TestOxygenationIndex_RequiresPressures(t *testing.T) {
	rec := testRecord()
	rec.MeanAirwayPressure = optional.Of(12)
	if compute(t, "oxygenation_index", rec).Present() {
		t.Error("expected absent without PaO2")
	}
}
