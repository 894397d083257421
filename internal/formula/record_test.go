package formula

import "testing"

func TestParseSex(t *testing.T) {
	cases := []struct {
		in   string
		want Sex
	}{
		{"male", SexMale},
		{"MALE", SexMale},
		{"m", SexMale},
		{"M", SexMale},
		{"female", SexFemale},
		{"Female", SexFemale},
		{"f", SexFemale},
		{" f ", SexFemale},
	}
	for _, tc := range cases {
		got, err := ParseSex(tc.in)
		if err != nil {
			t.Errorf("ParseSex(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseSex(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestParseSex_RejectsUnknown(t *testing.T) {
	for _, in := range []string{"", "x", "other", "unknown", "0", "1"} {
		if _, err := ParseSex(in); err == nil {
			t.Errorf("ParseSex(%q): expected an error", in)
		}
	}
}

func TestSexValid(t *testing.T) {
	if !SexMale.Valid() || !SexFemale.Valid() {
		t.Error("expected canonical sexes to be valid")
	}
	if Sex("").Valid() || Sex("m").Valid() {
		t.Error("expected non-canonical values to be invalid")
	}
}

func TestRecord_HeightConversions(t *testing.T) {
	r := testRecord()
	if got := r.HeightCM(); got != 175 {
		t.Errorf("expected 175 cm, got %v", got)
	}
	if got := r.HeightIn(); !almostEqual(got, 68.897637725) {
		t.Errorf("expected 68.897637725 in, got %v", got)
	}
}

func TestRecord_ActivityFactorDefault(t *testing.T) {
	r := testRecord()
	if got := r.activityFactor(); got != DefaultActivityFactor {
		t.Errorf("expected default %v, got %v", DefaultActivityFactor, got)
	}
	r.ActivityFactor = 1.2
	if got := r.activityFactor(); got != 1.2 {
		t.Errorf("expected 1.2, got %v", got)
	}
}

func TestActivityFactors_NamedLevels(t *testing.T) {
	want := map[string]float64{
		"sedentary":   1.2,
		"light":       1.375,
		"moderate":    1.55,
		"active":      1.725,
		"very_active": 1.9,
	}
	for name, factor := range want {
		got, ok := ActivityFactors[name]
		if !ok {
			t.Errorf("missing activity level %q", name)
			continue
		}
		if got != factor {
			t.Errorf("level %q: expected %v, got %v", name, factor, got)
		}
	}
	if ActivityFactors["moderate"] != DefaultActivityFactor {
		t.Error("expected the moderate level to match the default factor")
	}
}
