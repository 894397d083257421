// Package optional provides a float64 container that distinguishes an
// absent measurement from any legitimate numeric value, replacing the
// sentinel constants the legacy calculators used for missing inputs.
package optional

import (
	"encoding/json"
	"math"
)

// Scalar is a float64 that may be absent. The zero value is absent.
type Scalar struct {
	value   float64
	present bool
}

// Of returns a present Scalar holding v.
func Of(v float64) Scalar {
	return Scalar{value: v, present: true}
}

// Absent returns the absent Scalar.
func Absent() Scalar {
	return Scalar{}
}

// FromPtr returns a present Scalar holding *p, or the absent Scalar when
// p is nil.
func FromPtr(p *float64) Scalar {
	if p == nil {
		return Scalar{}
	}
	return Scalar{value: *p, present: true}
}

// Guard returns a present Scalar holding v unless v is NaN or infinite,
// in which case it returns the absent Scalar. Formula results pass through
// Guard so degenerate arithmetic degrades to "unavailable" instead of
// leaking non-finite values.
func Guard(v float64) Scalar {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Scalar{}
	}
	return Scalar{value: v, present: true}
}

// Present reports whether the Scalar holds a value.
func (s Scalar) Present() bool {
	return s.present
}

// Value returns the held value, or 0 when absent.
func (s Scalar) Value() float64 {
	return s.value
}

// Or returns the held value, or fallback when absent.
func (s Scalar) Or(fallback float64) float64 {
	if !s.present {
		return fallback
	}
	return s.value
}

// Ptr returns a pointer to the held value, or nil when absent.
func (s Scalar) Ptr() *float64 {
	if !s.present {
		return nil
	}
	v := s.value
	return &v
}

// Map applies fn to the value of s when present and returns the guarded
// result; when s is absent the result is absent and fn is not called.
func Map(s Scalar, fn func(float64) float64) Scalar {
	if !s.present {
		return Scalar{}
	}
	return Guard(fn(s.value))
}

// Combine2 applies fn only when both operands are present and returns the
// guarded result; otherwise the result is absent.
func Combine2(a, b Scalar, fn func(a, b float64) float64) Scalar {
	if !a.present || !b.present {
		return Scalar{}
	}
	return Guard(fn(a.value, b.value))
}

// Combine3 applies fn only when all three operands are present and returns
// the guarded result; otherwise the result is absent.
func Combine3(a, b, c Scalar, fn func(a, b, c float64) float64) Scalar {
	if !a.present || !b.present || !c.present {
		return Scalar{}
	}
	return Guard(fn(a.value, b.value, c.value))
}

// MarshalJSON encodes a present Scalar as its number and an absent Scalar
// as null.
func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.present {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON decodes null as absent and a number as a present value.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Scalar{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Scalar{value: v, present: true}
	return nil
}
