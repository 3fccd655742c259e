package attr

// Span style values.
var (
	SpanStyles     = []string{"normal", "italic"}
	SpanTransforms = []string{"none", "uppercase", "lowercase", "capitalize"}
)

// Span is a run of text with uniform styling inside a [Paragraph].
type Span struct {
	Text      string  `json:"text"`
	Font      string  `json:"font"`
	Size      float64 `json:"size"`
	Weight    float64 `json:"weight"`
	Style     string  `json:"style"`
	Transform string  `json:"transform"`
	Spacing   float64 `json:"spacing"`
	Color     Color   `json:"color"`
}

// DefaultSpan returns the span defaults: Inter, 16px, weight 400, normal,
// no transform, no letter spacing, inherited color.
func DefaultSpan() Span {
	return Span{
		Font:      "Inter",
		Size:      16,
		Weight:    400,
		Style:     "normal",
		Transform: "none",
	}
}

// Paragraph is one block of a Text node.
type Paragraph struct {
	Spans []Span `json:"spans"`
}

// PlainParagraph returns a paragraph holding a single default span.
func PlainParagraph(text string) Paragraph {
	s := DefaultSpan()
	s.Text = text
	return Paragraph{Spans: []Span{s}}
}

// Option is one choice of a dropdown or selection field.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value,omitempty"`
}

// EffectiveValue returns Value, or Label when Value is empty.
func (o Option) EffectiveValue() string {
	if o.Value == "" {
		return o.Label
	}
	return o.Value
}
