package validate

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/matzehuels/pagecraft/pkg/attr"
	"github.com/matzehuels/pagecraft/pkg/doc"
)

// ErrNoRoot is returned by [Document] when there is no root node to start
// from. The returned issues still carry the V1 violation.
var ErrNoRoot = errors.New("document has no root node")

// ErrNilDocument is returned by [Document] for a nil document.
var ErrNilDocument = errors.New("nil document")

// Document runs every check against d and returns all violations found.
// It never modifies d.
func Document(d *doc.Document) (Issues, error) {
	if d == nil {
		return nil, ErrNilDocument
	}
	v := &validator{d: d}
	if !v.checkRoot() {
		return v.issues, ErrNoRoot
	}
	v.checkVersion()
	nodes := orderedNodes(d)
	v.checkIDs(nodes)
	v.checkLinks(nodes)
	for _, n := range nodes {
		v.checkType(n)
	}
	for _, n := range nodes {
		v.checkNesting(n)
	}
	for _, n := range nodes {
		v.checkFormFields(n)
	}
	for _, n := range nodes {
		v.checkProps(n)
	}
	return v.issues, nil
}

type validator struct {
	d      *doc.Document
	issues Issues
}

func (v *validator) add(code Code, n *doc.Node, format string, args ...any) {
	v.issues = append(v.issues, Issue{Code: code, Message: fmt.Sprintf(format, args...), Path: v.path(n)})
}

func (v *validator) addAttr(code Code, n *doc.Node, name string, value any, format string, args ...any) {
	v.issues = append(v.issues, Issue{
		Code:      code,
		Message:   fmt.Sprintf(format, args...),
		Path:      v.path(n),
		Attribute: name,
		Value:     fmt.Sprint(value),
	})
}

func (v *validator) path(n *doc.Node) string {
	if n == nil {
		return ""
	}
	return v.d.Path(n.ID)
}

// orderedNodes returns reachable nodes in document order followed by
// unreachable ones in insertion order.
func orderedNodes(d *doc.Document) []*doc.Node {
	out := make([]*doc.Node, 0, d.Len())
	seen := make(map[string]bool, d.Len())
	_ = d.Walk(func(n *doc.Node, _ int) error {
		out = append(out, n)
		seen[n.ID] = true
		return nil
	})
	for _, n := range d.Nodes() {
		if !seen[n.ID] {
			out = append(out, n)
		}
	}
	return out
}

func (v *validator) checkRoot() bool {
	root := v.d.Root()
	if root == nil {
		v.issues = append(v.issues, Issue{Code: CodeRoot, Message: "missing ROOT node"})
		return false
	}
	if root.Type != doc.Page {
		v.add(CodeRoot, root, "root must be a Page, got %s", root.Type)
	}
	if root.Parent != "" {
		v.add(CodeRoot, root, "root must not have a parent, got %s", root.Parent)
	}
	for _, n := range v.d.Nodes() {
		if n.ID != doc.RootID && n.Type == doc.Page {
			v.add(CodeRoot, n, "only ROOT may be a Page")
		}
	}
	return true
}

func (v *validator) checkVersion() {
	if v.d.Version != doc.FormatVersion {
		v.issues = append(v.issues, Issue{
			Code:      CodeVersion,
			Message:   fmt.Sprintf("unsupported document version, want %d", doc.FormatVersion),
			Attribute: "version",
			Value:     fmt.Sprint(v.d.Version),
		})
	}
}

func (v *validator) checkIDs(nodes []*doc.Node) {
	owners := make(map[string][]string)
	for _, n := range nodes {
		for _, c := range n.Children {
			owners[c] = append(owners[c], n.ID)
			if _, ok := v.d.Node(c); !ok {
				v.add(CodeIDs, n, "child %q does not exist", c)
			}
		}
		if n.Parent != "" {
			if _, ok := v.d.Node(n.Parent); !ok {
				v.add(CodeIDs, n, "parent %q does not exist", n.Parent)
			}
		}
	}
	for _, n := range nodes {
		if o := owners[n.ID]; len(o) > 1 {
			v.add(CodeIDs, n, "listed %d times as a child (by %v)", len(o), o)
		}
		if n.ID == doc.RootID && len(owners[n.ID]) > 0 {
			v.add(CodeIDs, n, "ROOT listed as a child")
		}
	}
}

func (v *validator) checkLinks(nodes []*doc.Node) {
	for _, n := range nodes {
		if n.ID == doc.RootID {
			continue
		}
		if n.Parent == "" {
			v.add(CodeLinks, n, "node is not attached to a parent")
			continue
		}
		parent, ok := v.d.Node(n.Parent)
		if !ok {
			continue
		}
		if !slices.Contains(parent.Children, n.ID) {
			v.add(CodeLinks, n, "parent %q does not list this node as a child", n.Parent)
		}
	}
	for _, n := range nodes {
		for _, c := range n.Children {
			child, ok := v.d.Node(c)
			if !ok || child.ID == doc.RootID {
				continue
			}
			if child.Parent != n.ID {
				v.add(CodeLinks, n, "child %q names %q as its parent", c, child.Parent)
			}
		}
	}
}

func (v *validator) checkType(n *doc.Node) {
	if !n.Type.Known() {
		v.add(CodeUnknown, n, "unknown component type %q", n.Type)
	}
}

func (v *validator) checkNesting(n *doc.Node) {
	if n.Type.Known() && n.IsContainer != n.Type.IsContainer() {
		v.add(CodeNesting, n, "container flag %v disagrees with type %s", n.IsContainer, n.Type)
	}
	for _, id := range n.Children {
		child, ok := v.d.Node(id)
		if !ok {
			continue
		}
		switch {
		case n.Type == doc.Form:
			if !child.Type.IsField() {
				v.add(CodeNesting, n, "Form may only contain fields, found %s %q", child.Type, id)
			}
		case !n.Type.IsContainer():
			v.add(CodeNesting, n, "%s cannot contain children, found %q", n.Type, id)
		case child.Type == doc.Page:
			v.add(CodeNesting, n, "Page %q nested below %s", id, n.Type)
		}
	}
}

func (v *validator) checkFormFields(n *doc.Node) {
	if n.Type.IsField() {
		parent, ok := v.d.Node(n.Parent)
		if !ok || parent.Type != doc.Form {
			v.add(CodeFormFields, n, "%s must be placed inside a Form", n.Type)
		}
	}
	if n.Type != doc.Form {
		return
	}
	var fields, submits int
	for _, id := range n.Children {
		child, ok := v.d.Node(id)
		if !ok {
			continue
		}
		switch {
		case child.Type == doc.SubmitButton:
			submits++
		case child.Type.IsField():
			fields++
		}
	}
	if fields > 0 && submits == 0 {
		v.add(CodeFormFields, n, "Form with %d field(s) has no SubmitButton", fields)
	}
	if submits > 1 {
		v.add(CodeFormFields, n, "Form has %d SubmitButtons", submits)
	}
}

func (v *validator) checkProps(n *doc.Node) {
	schema, ok := doc.SchemaFor(n.Type)
	if !ok {
		return
	}
	v.checkBag(n, schema, n.Props, "", false)
}

func (v *validator) checkBag(n *doc.Node, schema *doc.Schema, props doc.Props, prefix string, responsive bool) {
	for _, name := range props.Keys() {
		value := props[name]
		qualified := prefix + name
		spec, ok := schema.Attr(name)
		if !ok {
			v.addAttr(CodeUnknown, n, qualified, value, "%s has no attribute %q", n.Type, name)
			continue
		}
		if responsive && !spec.Responsive {
			v.addAttr(CodeUnknown, n, qualified, value, "%q cannot be overridden per breakpoint", name)
			continue
		}
		if spec.Kind == attr.KindResponsive {
			bag, ok := value.(doc.Props)
			if !ok {
				v.addAttr(CodeUnknown, n, qualified, value, "breakpoint overrides must be a property bag")
				continue
			}
			v.checkBag(n, schema, bag, qualified+".", true)
			continue
		}
		if code, msg := CheckValue(spec, value); msg != "" {
			v.addAttr(code, n, qualified, value, "%s", msg)
		}
	}
}

// CheckValue verifies that value has the typed form and range spec requires.
// It returns the issue code and a message, or an empty message when the
// value is acceptable.
func CheckValue(spec doc.AttrSpec, value any) (Code, string) {
	code := CodeForKind(spec.Kind)
	switch spec.Kind {
	case attr.KindString:
		if _, ok := value.(string); !ok {
			return code, "expected a string"
		}
	case attr.KindEnum:
		s, ok := value.(string)
		if !ok || !slices.Contains(spec.Enum, s) {
			return code, fmt.Sprintf("expected one of %v", spec.Enum)
		}
	case attr.KindNumber, attr.KindPixels:
		f, ok := value.(float64)
		if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
			return code, "expected a finite number"
		}
		if spec.NonNegative && f < 0 {
			return code, "must not be negative"
		}
	case attr.KindBool:
		if _, ok := value.(bool); !ok {
			return code, "expected true or false"
		}
	case attr.KindSpacing:
		q, ok := value.(attr.Spacing)
		if !ok {
			return code, "expected a spacing quad of 1, 2 or 4 values"
		}
		for _, f := range []float64{q.Top, q.Right, q.Bottom, q.Left} {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return code, "spacing values must be finite"
			}
		}
	case attr.KindColor:
		switch c := value.(type) {
		case attr.Color:
			if err := c.Check(); err != nil {
				return code, err.Error()
			}
		case attr.Gradient:
			if !spec.Gradient {
				return code, "gradients are not allowed here"
			}
			if err := c.Check(); err != nil {
				return code, err.Error()
			}
		default:
			return code, "expected a color of 3 or 4 components"
		}
	case attr.KindVisibility:
		if _, ok := value.(attr.Visibility); !ok {
			return code, "expected 3 booleans (desktop, tablet, mobile)"
		}
	case attr.KindAction:
		a, ok := value.(attr.Action)
		if !ok {
			return CodeUnknown, "expected an action"
		}
		if err := a.Check(); err != nil {
			return code, err.Error()
		}
	case attr.KindOptions:
		opts, ok := value.([]attr.Option)
		if !ok {
			return code, "expected a list of options"
		}
		for _, o := range opts {
			if o.Label == "" {
				return code, "option without label"
			}
		}
	case attr.KindParagraphs:
		paras, ok := value.([]attr.Paragraph)
		if !ok {
			return code, "expected a list of paragraphs"
		}
		return checkParagraphs(paras)
	}
	return code, ""
}

func checkParagraphs(paras []attr.Paragraph) (Code, string) {
	for i, p := range paras {
		for j, s := range p.Spans {
			where := fmt.Sprintf("paragraph %d span %d", i+1, j+1)
			if !slices.Contains(attr.SpanStyles, s.Style) {
				return CodeEnum, fmt.Sprintf("%s: style %q not in %v", where, s.Style, attr.SpanStyles)
			}
			if !slices.Contains(attr.SpanTransforms, s.Transform) {
				return CodeEnum, fmt.Sprintf("%s: transform %q not in %v", where, s.Transform, attr.SpanTransforms)
			}
			if s.Size <= 0 || math.IsInf(s.Size, 0) || math.IsNaN(s.Size) {
				return CodeNumber, fmt.Sprintf("%s: size must be positive", where)
			}
			if s.Weight < 1 || s.Weight > 1000 {
				return CodeNumber, fmt.Sprintf("%s: weight %v out of range 1-1000", where, s.Weight)
			}
			if err := s.Color.Check(); err != nil {
				return CodeColor, fmt.Sprintf("%s: %v", where, err)
			}
		}
	}
	return CodeUnknown, ""
}

// CodeForKind maps an attribute encoding to the issue code reported when a
// value does not match it.
func CodeForKind(k attr.Kind) Code {
	switch k {
	case attr.KindSpacing:
		return CodeSpacing
	case attr.KindColor:
		return CodeColor
	case attr.KindVisibility:
		return CodeVisibility
	case attr.KindBool:
		return CodeBool
	case attr.KindNumber, attr.KindPixels:
		return CodeNumber
	case attr.KindEnum, attr.KindAction:
		return CodeEnum
	}
	return CodeUnknown
}
