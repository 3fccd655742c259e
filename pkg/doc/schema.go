package doc

import (
	"fmt"
	"maps"
	"slices"

	"github.com/matzehuels/pagecraft/pkg/attr"
)

// Breakpoint override keys.
const (
	TabletKey = "tablet"
	MobileKey = "mobile"
)

// AttrSpec describes one legal attribute of a component.
type AttrSpec struct {
	Name        string
	Kind        attr.Kind
	Default     any
	Enum        []string // allowed literals for attr.KindEnum
	Gradient    bool     // a color attribute that may hold an attr.Gradient
	NonNegative bool     // numbers must be >= 0
	Responsive  bool     // may appear inside a tablet/mobile override bag
}

// Schema lists the legal attributes of one component type in canonical order.
type Schema struct {
	Type  ComponentType
	Attrs []AttrSpec
	index map[string]int
}

// Attr looks up an attribute by name.
func (s *Schema) Attr(name string) (AttrSpec, bool) {
	i, ok := s.index[name]
	if !ok {
		return AttrSpec{}, false
	}
	return s.Attrs[i], true
}

// Names returns the attribute names in canonical order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.Attrs))
	for i, a := range s.Attrs {
		names[i] = a.Name
	}
	return names
}

var (
	directions = []string{"column", "row"}
	alignments = []string{"flex-start", "center", "flex-end", "stretch"}
	justifies  = []string{"flex-start", "center", "flex-end", "space-between", "space-around", "space-evenly"}
	wraps      = []string{"nowrap", "wrap"}
	yesNo      = []string{"yes", "no"}
	textAligns = []string{"left", "center", "right", "justify"}
	objectFits = []string{"cover", "contain", "fill"}
)

var (
	black      = attr.RGB(17, 24, 39)
	white      = attr.RGB(255, 255, 255)
	brandColor = attr.RGB(59, 130, 246)
)

func str(name, def string) AttrSpec { return AttrSpec{Name: name, Kind: attr.KindString, Default: def} }

func length(name, def string) AttrSpec {
	return AttrSpec{Name: name, Kind: attr.KindString, Default: def, Responsive: true}
}

func num(name string, def float64) AttrSpec {
	return AttrSpec{Name: name, Kind: attr.KindNumber, Default: def, NonNegative: true, Responsive: true}
}

func px(name string, def float64) AttrSpec {
	return AttrSpec{Name: name, Kind: attr.KindPixels, Default: def, NonNegative: true, Responsive: true}
}

func flag(name string, def bool) AttrSpec { return AttrSpec{Name: name, Kind: attr.KindBool, Default: def} }

func enum(name, def string, allowed []string) AttrSpec {
	return AttrSpec{Name: name, Kind: attr.KindEnum, Default: def, Enum: allowed, Responsive: true}
}

func spacing(name string, def attr.Spacing) AttrSpec {
	return AttrSpec{Name: name, Kind: attr.KindSpacing, Default: def, Responsive: true}
}

func color(name string, def attr.Color) AttrSpec {
	return AttrSpec{Name: name, Kind: attr.KindColor, Default: def, Responsive: true}
}

func fill(name string, def attr.Color) AttrSpec {
	return AttrSpec{Name: name, Kind: attr.KindColor, Default: def, Gradient: true, Responsive: true}
}

func action(name string) AttrSpec {
	return AttrSpec{Name: name, Kind: attr.KindAction, Default: attr.Action{}}
}

// common attributes shared by every component except Page.
func common() []AttrSpec {
	return []AttrSpec{
		spacing("margin", attr.Uniform(0)),
		{Name: "visibility", Kind: attr.KindVisibility, Default: attr.AllVisible},
		{Name: TabletKey, Kind: attr.KindResponsive},
		{Name: MobileKey, Kind: attr.KindResponsive},
	}
}

func inputField(required bool) []AttrSpec {
	return []AttrSpec{
		str("label", ""),
		str("placeholder", ""),
		str("name", ""),
		flag("required", required),
	}
}

var schemas = buildSchemas(map[ComponentType][]AttrSpec{
	Page: {
		fill("background", white),
		spacing("padding", attr.Uniform(0)),
		num("gap", 0),
		str("fontFamily", "Inter"),
		str("title", ""),
	},
	Container: {
		enum("flexDirection", "column", directions),
		enum("alignItems", "center", alignments),
		enum("justifyContent", "flex-start", justifies),
		num("gap", 10),
		length("width", "100%"),
		length("height", "auto"),
		num("minHeight", 0),
		num("maxWidth", 0),
		spacing("padding", attr.Uniform(0)),
		fill("background", attr.None),
		num("borderRadius", 0),
		num("borderWidth", 0),
		color("borderColor", attr.None),
		enum("flexWrap", "nowrap", wraps),
		length("flexBasis", "auto"),
		num("flexGrow", 0),
		enum("fillSpace", "no", yesNo),
		action("clickEvent"),
	},
	Text: {
		enum("textAlign", "left", textAligns),
		color("color", black),
		num("lineHeight", 1.5),
		spacing("padding", attr.Uniform(0)),
		{Name: "paragraphs", Kind: attr.KindParagraphs, Default: []attr.Paragraph{}},
	},
	Button: {
		str("text", "Button"),
		fill("background", brandColor),
		color("color", white),
		px("fontSize", 16),
		num("fontWeight", 600),
		num("borderRadius", 6),
		spacing("padding", attr.Symmetric(12, 24)),
		length("width", "auto"),
		action("clickEvent"),
	},
	Image: {
		str("src", ""),
		str("alt", ""),
		length("width", "100%"),
		length("height", "auto"),
		enum("objectFit", "cover", objectFits),
		num("borderRadius", 0),
		action("clickEvent"),
	},
	Video: {
		str("src", ""),
		str("embedCode", ""),
		flag("autoplay", false),
		flag("controls", true),
		length("width", "100%"),
	},
	Form: {
		enum("flexDirection", "column", directions),
		num("gap", 10),
		spacing("padding", attr.Uniform(0)),
		fill("background", attr.None),
		length("width", "100%"),
		action("followupAction"),
	},
	EmailField: inputField(true),
	TextField:  inputField(false),
	PhoneField: inputField(false),
	ConsentField: {
		str("label", ""),
		str("name", ""),
		flag("required", false),
		flag("checked", false),
	},
	DropdownField: {
		str("label", ""),
		str("name", ""),
		flag("required", false),
		{Name: "options", Kind: attr.KindOptions, Default: []attr.Option{}},
	},
	SelectionField: {
		str("label", ""),
		str("name", ""),
		flag("required", false),
		flag("multiple", false),
		{Name: "options", Kind: attr.KindOptions, Default: []attr.Option{}},
	},
	SubmitButton: {
		str("text", "Submit"),
		fill("background", brandColor),
		color("color", white),
		num("borderRadius", 6),
		length("width", "100%"),
	},
	Countdown: {
		str("endDate", ""),
		str("timezone", "UTC"),
		flag("showDays", true),
		flag("showHours", true),
		flag("showMinutes", true),
		flag("showSeconds", true),
		color("color", black),
		px("fontSize", 32),
		action("expireEvent"),
	},
})

func buildSchemas(table map[ComponentType][]AttrSpec) map[ComponentType]*Schema {
	out := make(map[ComponentType]*Schema, len(table))
	for t, attrs := range table {
		if t != Page {
			attrs = append(slices.Clone(attrs), common()...)
		}
		s := &Schema{Type: t, Attrs: attrs, index: make(map[string]int, len(attrs))}
		for i, a := range attrs {
			s.index[a.Name] = i
		}
		out[t] = s
	}
	return out
}

// SchemaFor returns the schema of t.
func SchemaFor(t ComponentType) (*Schema, bool) {
	s, ok := schemas[t]
	return s, ok
}

// MustSchema returns the schema of t and panics if t has no table entry.
func MustSchema(t ComponentType) *Schema {
	s, ok := schemas[t]
	if !ok {
		panic(fmt.Sprintf("doc: no schema for component type %q", t))
	}
	return s
}

// Defaults returns a fresh copy of t's default property bag. Attributes
// without a default (breakpoint overrides) are absent. It panics when t is
// not in the component table.
func Defaults(t ComponentType) Props {
	s := MustSchema(t)
	p := make(Props, len(s.Attrs))
	for _, a := range s.Attrs {
		if a.Default != nil {
			p[a.Name] = cloneValue(a.Default)
		}
	}
	return p
}

// DefaultValue returns the default of t's attribute name, if any.
func DefaultValue(t ComponentType, name string) (any, bool) {
	s, ok := schemas[t]
	if !ok {
		return nil, false
	}
	a, ok := s.Attr(name)
	if !ok || a.Default == nil {
		return nil, false
	}
	return a.Default, true
}

// Props is a node's property bag. Values hold their typed form: string,
// float64, bool, attr.Spacing, attr.Color, attr.Gradient, attr.Visibility,
// attr.Action, []attr.Paragraph, []attr.Option, or a nested Props for
// breakpoint overrides.
type Props map[string]any

// Clone returns a copy of p that shares no mutable state with it.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	out := make(Props, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

// Keys returns the property names sorted.
func (p Props) Keys() []string { return slices.Sorted(maps.Keys(p)) }

func cloneValue(v any) any {
	switch x := v.(type) {
	case Props:
		return x.Clone()
	case []attr.Paragraph:
		out := make([]attr.Paragraph, len(x))
		for i, para := range x {
			out[i] = attr.Paragraph{Spans: slices.Clone(para.Spans)}
		}
		return out
	case []attr.Option:
		return slices.Clone(x)
	case attr.Gradient:
		x.Stops = slices.Clone(x.Stops)
		return x
	}
	return v
}
