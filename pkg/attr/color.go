package attr

import (
	"encoding/json"
	"strconv"
)

// Color is an RGBA color. The zero value is "no color" (transparent).
type Color struct {
	R, G, B int
	A       float64
	Valid   bool
}

// RGB returns an opaque color.
func RGB(r, g, b int) Color { return Color{R: r, G: g, B: b, A: 1, Valid: true} }

// RGBA returns a color with the given alpha.
func RGBA(r, g, b int, a float64) Color { return Color{R: r, G: g, B: b, A: a, Valid: true} }

// None is the empty color.
var None = Color{}

// Check reports whether every component is within range.
func (c Color) Check() error {
	if !c.Valid {
		return nil
	}
	for _, v := range []int{c.R, c.G, c.B} {
		if v < 0 || v > 255 {
			return parseErr(KindColor, FormatColor(c), "channel %d out of range 0-255", v)
		}
	}
	if c.A < 0 || c.A > 1 {
		return parseErr(KindColor, FormatColor(c), "alpha %s out of range 0-1", formatFloat(c.A))
	}
	return nil
}

// ParseColor parses "r,g,b" or "r,g,b,a". An empty string yields [None].
// Alpha defaults to 1 when omitted.
func ParseColor(s string) (Color, error) {
	if len(s) == 0 {
		return None, nil
	}
	parts := splitList(s)
	if len(parts) == 1 && parts[0] == "" {
		return None, nil
	}
	if len(parts) != 3 && len(parts) != 4 {
		return None, parseErr(KindColor, s, "expected 3 or 4 components, got %d", len(parts))
	}
	var ch [3]int
	for i := range 3 {
		v, err := strconv.Atoi(parts[i])
		if err != nil {
			return None, parseErr(KindColor, s, "channel %d is not an integer", i+1)
		}
		ch[i] = v
	}
	a := 1.0
	if len(parts) == 4 {
		v, err := parseFloat(parts[3])
		if err != nil {
			return None, parseErr(KindColor, s, "alpha is not a number")
		}
		a = v
	}
	c := RGBA(ch[0], ch[1], ch[2], a)
	if err := c.Check(); err != nil {
		return None, parseErr(KindColor, s, "%s", err.(*ParseError).Reason)
	}
	return c, nil
}

// FormatColor renders c as "r,g,b" when opaque, "r,g,b,a" otherwise, and ""
// when c carries no color.
func FormatColor(c Color) string {
	if !c.Valid {
		return ""
	}
	s := strconv.Itoa(c.R) + "," + strconv.Itoa(c.G) + "," + strconv.Itoa(c.B)
	if c.A != 1 {
		s += "," + formatFloat(c.A)
	}
	return s
}

type colorJSON struct {
	R int     `json:"r"`
	G int     `json:"g"`
	B int     `json:"b"`
	A float64 `json:"a"`
}

// MarshalJSON encodes c as {r,g,b,a}, or null when it carries no color.
func (c Color) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(colorJSON{c.R, c.G, c.B, c.A})
}

// UnmarshalJSON decodes {r,g,b,a} or null. Out of range channels are rejected.
func (c *Color) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = None
		return nil
	}
	v := colorJSON{A: 1}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	out := RGBA(v.R, v.G, v.B, v.A)
	if err := out.Check(); err != nil {
		return err
	}
	*c = out
	return nil
}
