package optional

import (
	"encoding/json"
	"math"
	"testing"
)

func TestZeroValueIsAbsent(t *testing.T) {
	var s Scalar
	if s.Present() {
		t.Error("expected zero value to be absent")
	}
	if s.Value() != 0 {
		t.Errorf("expected absent Value() to be 0, got %v", s.Value())
	}
}

func TestOfAndValue(t *testing.T) {
	s := Of(22.5)
	if !s.Present() {
		t.Fatal("expected Of(22.5) to be present")
	}
	if s.Value() != 22.5 {
		t.Errorf("expected 22.5, got %v", s.Value())
	}
}

func TestOr(t *testing.T) {
	if got := Of(3).Or(9); got != 3 {
		t.Errorf("expected present Or to return 3, got %v", got)
	}
	if got := Absent().Or(9); got != 9 {
		t.Errorf("expected absent Or to return fallback 9, got %v", got)
	}
}

func TestFromPtr(t *testing.T) {
	v := 1.75
	s := FromPtr(&v)
	if !s.Present() || s.Value() != 1.75 {
		t.Errorf("expected present 1.75, got present=%v value=%v", s.Present(), s.Value())
	}
	if FromPtr(nil).Present() {
		t.Error("expected FromPtr(nil) to be absent")
	}
}

func TestPtr(t *testing.T) {
	p := Of(5).Ptr()
	if p == nil || *p != 5 {
		t.Fatalf("expected pointer to 5, got %v", p)
	}
	if Absent().Ptr() != nil {
		t.Error("expected absent Ptr() to be nil")
	}
}

func TestGuardRejectsNonFinite(t *testing.T) {
	if Guard(math.NaN()).Present() {
		t.Error("expected Guard(NaN) to be absent")
	}
	if Guard(math.Inf(1)).Present() {
		t.Error("expected Guard(+Inf) to be absent")
	}
	if Guard(math.Inf(-1)).Present() {
		t.Error("expected Guard(-Inf) to be absent")
	}
	if !Guard(0).Present() {
		t.Error("expected Guard(0) to be present")
	}
}

func TestMapShortCircuits(t *testing.T) {
	called := false
	got := Map(Absent(), func(v float64) float64 {
		called = true
		return v
	})
	if got.Present() {
		t.Error("expected Map over absent to be absent")
	}
	if called {
		t.Error("expected fn not to be called for absent operand")
	}

	doubled := Map(Of(2), func(v float64) float64 { return v * 2 })
	if !doubled.Present() || doubled.Value() != 4 {
		t.Errorf("expected 4, got present=%v value=%v", doubled.Present(), doubled.Value())
	}
}

func TestMapGuardsResult(t *testing.T) {
	got := Map(Of(-1), math.Log10)
	if got.Present() {
		t.Error("expected NaN result to become absent")
	}
}

func TestCombine2(t *testing.T) {
	ratio := Combine2(Of(80), Of(100), func(a, b float64) float64 { return a / b })
	if !ratio.Present() || ratio.Value() != 0.8 {
		t.Errorf("expected 0.8, got present=%v value=%v", ratio.Present(), ratio.Value())
	}
	if Combine2(Of(80), Absent(), func(a, b float64) float64 { return a / b }).Present() {
		t.Error("expected absent operand to yield absent result")
	}
	if Combine2(Of(1), Of(0), func(a, b float64) float64 { return a / b }).Present() {
		t.Error("expected division by zero to yield absent result")
	}
}

func TestCombine3(t *testing.T) {
	sum := Combine3(Of(1), Of(2), Of(3), func(a, b, c float64) float64 { return a + b + c })
	if !sum.Present() || sum.Value() != 6 {
		t.Errorf("expected 6, got present=%v value=%v", sum.Present(), sum.Value())
	}
	if Combine3(Absent(), Of(2), Of(3), func(a, b, c float64) float64 { return a + b + c }).Present() {
		t.Error("expected absent operand to yield absent result")
	}
}

func TestMarshalJSON(t *testing.T) {
	b, err := json.Marshal(Of(22.857142857142858))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != "22.857142857142858" {
		t.Errorf("expected 22.857142857142858, got %s", b)
	}

	b, err = json.Marshal(Absent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(b) != "null" {
		t.Errorf("expected null, got %s", b)
	}
}

func TestUnmarshalJSON(t *testing.T) {
	var s Scalar
	if err := json.Unmarshal([]byte("93.5"), &s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.Present() || s.Value() != 93.5 {
		t.Errorf("expected present 93.5, got present=%v value=%v", s.Present(), s.Value())
	}

	var n Scalar
	if err := json.Unmarshal([]byte("null"), &n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Present() {
		t.Error("expected null to unmarshal as absent")
	}

	var bad Scalar
	if err := json.Unmarshal([]byte(`"abc"`), &bad); err == nil {
		t.Error("expected error for non-numeric input")
	}
}

func TestUnmarshalMissingFieldStaysAbsent(t *testing.T) {
	var payload struct {
		Waist Scalar `json:"waist"`
		Hip   Scalar `json:"hip"`
	}
	if err := json.Unmarshal([]byte(`{"waist": 80}`), &payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !payload.Waist.Present() {
		t.Error("expected waist to be present")
	}
	if payload.Hip.Present() {
		t.Error("expected omitted hip to be absent")
	}
}
