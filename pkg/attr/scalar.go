package attr

import (
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"
)

// ParseBool accepts exactly "true" or "false".
func ParseBool(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, parseErr(KindBool, s, "expected true or false")
}

// FormatBool renders b as "true" or "false".
func FormatBool(b bool) string { return strconv.FormatBool(b) }

// ParseNumber parses a finite decimal number.
func ParseNumber(s string) (float64, error) {
	v, err := parseFloat(s)
	if err != nil {
		return 0, parseErr(KindNumber, s, "not a finite number")
	}
	return v, nil
}

// FormatNumber renders v without trailing zeros.
func FormatNumber(v float64) string { return formatFloat(v) }

// ParsePixels parses a length in pixels with an optional "px" suffix.
func ParsePixels(s string) (float64, error) {
	v, err := parseFloat(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	if err != nil {
		return 0, parseErr(KindPixels, s, "expected a number of pixels")
	}
	return v, nil
}

// FormatPixels renders v with a "px" suffix.
func FormatPixels(v float64) string { return formatFloat(v) + "px" }

// ParseEnum returns s if it is one of allowed.
func ParseEnum(s string, allowed []string) (string, error) {
	s = strings.TrimSpace(s)
	if !slices.Contains(allowed, s) {
		return "", parseErr(KindEnum, s, "expected one of %s", strings.Join(allowed, ", "))
	}
	return s, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrRange
	}
	return v, nil
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// splitList splits a comma separated list, trimming blanks around items.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func marshalFloats(vals []float64) ([]byte, error) { return json.Marshal(vals) }

func unmarshalFloats(data []byte) ([]float64, error) {
	var vals []float64
	if err := json.Unmarshal(data, &vals); err != nil {
		return nil, err
	}
	return vals, nil
}
