package attr

import "fmt"

// Kind names a primitive attribute encoding.
type Kind string

// Encodings handled by the codec.
const (
	KindString     Kind = "string"
	KindNumber     Kind = "number"
	KindPixels     Kind = "pixels"
	KindBool       Kind = "bool"
	KindEnum       Kind = "enum"
	KindSpacing    Kind = "spacing"
	KindColor      Kind = "color"
	KindVisibility Kind = "visibility"
	KindAction     Kind = "action"
	KindParagraphs Kind = "paragraphs"
	KindOptions    Kind = "options"
	KindResponsive Kind = "responsive"
)

// ParseError reports a value that does not match its expected encoding.
type ParseError struct {
	Kind   Kind   // Encoding that was expected
	Value  string // Offending input, verbatim
	Reason string // Short description of what is wrong
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Kind, e.Value, e.Reason)
}

func parseErr(kind Kind, value, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Value: value, Reason: fmt.Sprintf(format, args...)}
}
