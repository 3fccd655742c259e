package attr

import (
	"encoding/json"
	"strings"
)

// Breakpoint indexes into a [Visibility].
type Breakpoint int

const (
	Desktop Breakpoint = iota
	Tablet
	Mobile
)

// Visibility holds one flag per breakpoint, ordered desktop, tablet, mobile.
type Visibility [3]bool

// AllVisible is the default visibility.
var AllVisible = Visibility{true, true, true}

// Visible reports whether the element is shown at b.
func (v Visibility) Visible(b Breakpoint) bool { return v[b] }

// ParseVisibility parses exactly three comma separated booleans.
func ParseVisibility(s string) (Visibility, error) {
	parts := splitList(s)
	if len(parts) != 3 {
		return Visibility{}, parseErr(KindVisibility, s, "expected 3 booleans, got %d", len(parts))
	}
	var v Visibility
	for i, p := range parts {
		b, err := ParseBool(p)
		if err != nil {
			return Visibility{}, parseErr(KindVisibility, s, "flag %d is not a boolean", i+1)
		}
		v[i] = b
	}
	return v, nil
}

// FormatVisibility renders v as "desktop,tablet,mobile".
func FormatVisibility(v Visibility) string {
	parts := make([]string, len(v))
	for i, b := range v {
		parts[i] = FormatBool(b)
	}
	return strings.Join(parts, ",")
}

// UnmarshalJSON requires an array of exactly three booleans.
func (v *Visibility) UnmarshalJSON(data []byte) error {
	var flags []bool
	if err := json.Unmarshal(data, &flags); err != nil {
		return err
	}
	if len(flags) != 3 {
		return parseErr(KindVisibility, string(data), "expected 3 booleans, got %d", len(flags))
	}
	copy(v[:], flags)
	return nil
}
