package attr

import (
	"strings"
)

// Spacing is a top/right/bottom/left quad used for margin and padding.
type Spacing struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// Uniform returns a quad with the same value on every side.
func Uniform(v float64) Spacing { return Spacing{v, v, v, v} }

// Symmetric returns a quad with vertical and horizontal values.
func Symmetric(vertical, horizontal float64) Spacing {
	return Spacing{vertical, horizontal, vertical, horizontal}
}

// ParseSpacing parses a 1, 2 or 4 value quad.
//
//	"20"      -> 20,20,20,20
//	"20,10"   -> 20,10,20,10
//	"1,2,3,4" -> 1,2,3,4
//
// Any other arity is an error.
func ParseSpacing(s string) (Spacing, error) {
	parts := splitList(s)
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := parseFloat(p)
		if err != nil {
			return Spacing{}, parseErr(KindSpacing, s, "component %d is not a number", i+1)
		}
		vals[i] = v
	}
	switch len(vals) {
	case 1:
		return Uniform(vals[0]), nil
	case 2:
		return Symmetric(vals[0], vals[1]), nil
	case 4:
		return Spacing{vals[0], vals[1], vals[2], vals[3]}, nil
	default:
		return Spacing{}, parseErr(KindSpacing, s, "expected 1, 2 or 4 values, got %d", len(vals))
	}
}

// FormatSpacing renders q in TRBL order using the shortest form that parses
// back to the same quad.
func FormatSpacing(q Spacing) string {
	switch {
	case q.Top == q.Right && q.Right == q.Bottom && q.Bottom == q.Left:
		return formatFloat(q.Top)
	case q.Top == q.Bottom && q.Right == q.Left:
		return formatFloat(q.Top) + "," + formatFloat(q.Right)
	default:
		return strings.Join([]string{
			formatFloat(q.Top), formatFloat(q.Right), formatFloat(q.Bottom), formatFloat(q.Left),
		}, ",")
	}
}

// MarshalJSON encodes the quad as a [top, right, bottom, left] array.
func (q Spacing) MarshalJSON() ([]byte, error) {
	return marshalFloats([]float64{q.Top, q.Right, q.Bottom, q.Left})
}

// UnmarshalJSON decodes a four element array.
func (q *Spacing) UnmarshalJSON(data []byte) error {
	vals, err := unmarshalFloats(data)
	if err != nil {
		return err
	}
	if len(vals) != 4 {
		return parseErr(KindSpacing, string(data), "expected 4 values, got %d", len(vals))
	}
	*q = Spacing{vals[0], vals[1], vals[2], vals[3]}
	return nil
}
