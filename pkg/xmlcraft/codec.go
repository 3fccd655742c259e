package xmlcraft

import (
	"fmt"

	"github.com/matzehuels/pagecraft/pkg/attr"
	"github.com/matzehuels/pagecraft/pkg/doc"
)

// scalarKind reports whether attributes of kind k are written as XML
// attributes rather than child elements.
func scalarKind(k attr.Kind) bool {
	switch k {
	case attr.KindAction, attr.KindParagraphs, attr.KindOptions, attr.KindResponsive:
		return false
	}
	return true
}

// decodeAttr parses an attribute string into the typed value spec requires.
func decodeAttr(spec doc.AttrSpec, s string) (any, error) {
	switch spec.Kind {
	case attr.KindString:
		return s, nil
	case attr.KindEnum:
		return attr.ParseEnum(s, spec.Enum)
	case attr.KindNumber:
		return attr.ParseNumber(s)
	case attr.KindPixels:
		return attr.ParsePixels(s)
	case attr.KindBool:
		return attr.ParseBool(s)
	case attr.KindSpacing:
		return attr.ParseSpacing(s)
	case attr.KindColor:
		return attr.ParseColor(s)
	case attr.KindVisibility:
		return attr.ParseVisibility(s)
	}
	return nil, fmt.Errorf("attribute %q cannot be written inline", spec.Name)
}

// encodeAttr formats a typed value as an attribute string. It reports false
// for values that do not have the type spec requires.
func encodeAttr(spec doc.AttrSpec, v any) (string, bool) {
	switch spec.Kind {
	case attr.KindString, attr.KindEnum:
		s, ok := v.(string)
		return s, ok
	case attr.KindNumber:
		f, ok := v.(float64)
		return attr.FormatNumber(f), ok
	case attr.KindPixels:
		f, ok := v.(float64)
		return attr.FormatPixels(f), ok
	case attr.KindBool:
		b, ok := v.(bool)
		return attr.FormatBool(b), ok
	case attr.KindSpacing:
		q, ok := v.(attr.Spacing)
		return attr.FormatSpacing(q), ok
	case attr.KindColor:
		c, ok := v.(attr.Color)
		return attr.FormatColor(c), ok
	case attr.KindVisibility:
		vis, ok := v.(attr.Visibility)
		return attr.FormatVisibility(vis), ok
	}
	return "", false
}

// encodeRaw formats a value that did not decode into its kind, so it is
// carried through to the next parse where it is reported again.
func encodeRaw(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case float64:
		return attr.FormatNumber(x), true
	case bool:
		return attr.FormatBool(x), true
	}
	return "", false
}
