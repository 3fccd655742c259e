// Package validate checks page documents for structural and attribute-level
// problems.
//
// Validation never fails fast. [Document] runs every check in a fixed order
// and returns all violations as [Issues], so a single call reports every
// problem at once. Only a document that cannot be examined at all (nil, or
// without a root node) also yields an error.
//
// Issue codes:
//
//	V1  root node present, of type Page, without parent
//	V2  non-container nodes own no children (Form may own fields only)
//	V3  form fields only inside a Form; a Form with fields needs a SubmitButton
//	V4  parent and child references agree
//	V5  unknown component types and attributes
//	V6  dangling or duplicate identifiers
//	V7  spacing encoding
//	V8  color encoding
//	V9  visibility encoding
//	V10 boolean encoding
//	V11 number encoding
//	V12 enum literals and action types
//	V13 document version
package validate

import (
	"fmt"
	"strings"
)

// Code identifies a class of violation.
type Code string

// Issue codes, see the package documentation.
const (
	CodeRoot       Code = "V1"
	CodeNesting    Code = "V2"
	CodeFormFields Code = "V3"
	CodeLinks      Code = "V4"
	CodeUnknown    Code = "V5"
	CodeIDs        Code = "V6"
	CodeSpacing    Code = "V7"
	CodeColor      Code = "V8"
	CodeVisibility Code = "V9"
	CodeBool       Code = "V10"
	CodeNumber     Code = "V11"
	CodeEnum       Code = "V12"
	CodeVersion    Code = "V13"
)

// Issue is one violation found in a document.
type Issue struct {
	Code      Code   `json:"code"`
	Message   string `json:"message"`
	Path      string `json:"path,omitempty"`      // slash separated ids from the root
	Attribute string `json:"attribute,omitempty"` // offending attribute, if any
	Value     string `json:"value,omitempty"`     // offending value, if any
}

func (i Issue) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", i.Code, i.Message)
	if i.Path != "" {
		fmt.Fprintf(&b, " at %s", i.Path)
	}
	if i.Attribute != "" {
		fmt.Fprintf(&b, " [%s", i.Attribute)
		if i.Value != "" {
			fmt.Fprintf(&b, "=%q", i.Value)
		}
		b.WriteString("]")
	}
	return b.String()
}

// Issues is an ordered list of violations.
type Issues []Issue

// HasCode reports whether any issue carries code.
func (is Issues) HasCode(code Code) bool {
	for _, i := range is {
		if i.Code == code {
			return true
		}
	}
	return false
}

// ByCode returns the issues carrying code.
func (is Issues) ByCode(code Code) Issues {
	var out Issues
	for _, i := range is {
		if i.Code == code {
			out = append(out, i)
		}
	}
	return out
}

// Err joins the issues into a single error, or returns nil when empty.
func (is Issues) Err() error {
	if len(is) == 0 {
		return nil
	}
	return &Error{Issues: is}
}

// Error wraps a non-empty issue list as an error value.
type Error struct {
	Issues Issues
}

func (e *Error) Error() string {
	if len(e.Issues) == 1 {
		return e.Issues[0].String()
	}
	return fmt.Sprintf("%s (and %d more)", e.Issues[0].String(), len(e.Issues)-1)
}
