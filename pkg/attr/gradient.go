package attr

import "slices"

// GradientTypes lists the supported gradient shapes.
var GradientTypes = []string{"linear", "radial"}

// Gradient replaces a flat color on attributes that allow it (backgrounds).
type Gradient struct {
	Type  string         `json:"type"`
	Angle float64        `json:"angle,omitempty"`
	Stops []GradientStop `json:"stops"`
}

// GradientStop is one color position along a gradient, Offset in 0-100.
type GradientStop struct {
	Color  Color   `json:"color"`
	Offset float64 `json:"offset"`
}

// Check verifies the gradient shape, stop count and stop values.
func (g Gradient) Check() error {
	if !slices.Contains(GradientTypes, g.Type) {
		return parseErr(KindColor, g.Type, "unknown gradient type")
	}
	if len(g.Stops) < 2 {
		return parseErr(KindColor, g.Type, "gradient needs at least 2 stops, got %d", len(g.Stops))
	}
	for _, s := range g.Stops {
		if !s.Color.Valid {
			return parseErr(KindColor, "", "gradient stop without color")
		}
		if err := s.Color.Check(); err != nil {
			return err
		}
		if s.Offset < 0 || s.Offset > 100 {
			return parseErr(KindColor, formatFloat(s.Offset), "stop offset out of range 0-100")
		}
	}
	return nil
}
