package xmlcraft

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pagecraft/pkg/attr"
	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/ids"
	"github.com/matzehuels/pagecraft/pkg/validate"
)

// Options configures [Parse].
type Options struct {
	// Timestamp stamps synthesized identifiers, in Unix milliseconds.
	// Defaults to the current time.
	Timestamp int64

	// Seed seeds the identifier suffixes. Defaults to a value derived from
	// Timestamp, so fixing the timestamp alone makes parsing reproducible.
	Seed uint64

	// IDs overrides the identifier generator; Timestamp and Seed are then
	// ignored.
	IDs ids.Generator

	// Logger receives debug output. Defaults to a discarding logger.
	Logger *log.Logger
}

// element is one XML element with its character data.
type element struct {
	name     string
	attrs    []xml.Attr
	children []*element
	text     strings.Builder
	runs     []textRun
	line     int
}

// textRun is character data that appeared before children[at].
type textRun struct {
	at   int
	text string
}

func (e *element) addText(s string) {
	e.text.WriteString(s)
	if n := len(e.runs); n > 0 && e.runs[n-1].at == len(e.children) {
		e.runs[n-1].text += s
		return
	}
	e.runs = append(e.runs, textRun{at: len(e.children), text: s})
}

// Parse reads an XML-Craft document.
//
// Malformed XML, a root other than <Page> and unknown element names are
// fatal. Attribute values that do not parse, attributes a component does
// not have, and misplaced special elements are reported as issues and
// skipped. The finished document is then validated, and the returned issues
// hold both kinds of problems, parse issues first.
func Parse(r io.Reader, opts Options) (*doc.Document, validate.Issues, error) {
	tree, err := readTree(r)
	if err != nil {
		return nil, nil, err
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.IDs == nil {
		if opts.Timestamp == 0 {
			opts.Timestamp = time.Now().UnixMilli()
		}
		if opts.Seed == 0 {
			opts.Seed = uint64(opts.Timestamp)
		}
		opts.IDs = ids.NewSeeded(opts.Timestamp, opts.Seed)
	}

	if tree.name != "Page" {
		issue := validate.Issue{
			Code:    validate.CodeRoot,
			Message: fmt.Sprintf("line %d: root element must be <Page>, got <%s>", tree.line, tree.name),
		}
		return nil, validate.Issues{issue}, errors.New(errors.ErrCodeInvalidRoot, "root element must be <Page>, got <%s>", tree.name)
	}

	p := &parser{d: doc.New(), ids: opts.IDs}
	if err := p.fill(p.d.Root(), tree); err != nil {
		return nil, p.issues, err
	}

	found, err := validate.Document(p.d)
	if err != nil {
		return nil, p.issues, errors.Wrap(errors.ErrCodeInternal, err, "validate parsed document")
	}
	issues := append(p.issues, found...)
	opts.Logger.Debug("parsed XML", "nodes", p.d.Len(), "issues", len(issues))
	return p.d, issues, nil
}

// readTree decodes r into an element tree.
func readTree(r io.Reader) (*element, error) {
	dec := xml.NewDecoder(r)
	var root *element
	var stack []*element
	for {
		line, _ := dec.InputPos()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidXML, err, "read XML")
		}
		switch t := xml.CopyToken(tok).(type) {
		case xml.StartElement:
			el := &element{name: t.Name.Local, attrs: t.Attr, line: line}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New(errors.ErrCodeInvalidXML, "line %d: more than one root element", line)
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].addText(string(t))
			} else if strings.TrimSpace(string(t)) != "" {
				return nil, errors.New(errors.ErrCodeInvalidXML, "line %d: text outside the root element", line)
			}
		}
	}
	if root == nil {
		return nil, errors.New(errors.ErrCodeInvalidXML, "document has no root element")
	}
	return root, nil
}

type parser struct {
	d      *doc.Document
	ids    ids.Generator
	issues validate.Issues
}

func (p *parser) report(code validate.Code, n *doc.Node, el *element, attribute, value, format string, args ...any) {
	p.issues = append(p.issues, validate.Issue{
		Code:      code,
		Message:   fmt.Sprintf("line %d: ", el.line) + fmt.Sprintf(format, args...),
		Path:      p.d.Path(n.ID),
		Attribute: attribute,
		Value:     value,
	})
}

// node creates a node for el under parent and fills it.
func (p *parser) node(parent *doc.Node, el *element, t doc.ComponentType) error {
	if !parent.Type.CanOwn(t) {
		code := validate.CodeNesting
		if t == doc.Page {
			code = validate.CodeRoot
		}
		p.report(code, parent, el, "", "", "<%s> cannot contain <%s>; element skipped", mustTag(parent.Type), el.name)
		return nil
	}
	id := p.nodeID(parent, el)
	n, err := p.d.CreateNode(id, t)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "line %d: create <%s>", el.line, el.name)
	}
	if err := p.d.AddChild(parent.ID, id); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "line %d: attach <%s>", el.line, el.name)
	}
	return p.fill(n, el)
}

// nodeID returns the element's explicit id when it is usable, or a fresh
// synthesized one. Explicit ids shaped like synthesized ones are not usable
// because the serializer leaves synthesized ids out.
func (p *parser) nodeID(parent *doc.Node, el *element) string {
	if explicit, ok := attrValue(el, attrID); ok {
		if err := errors.ValidateNodeID(explicit); err != nil {
			p.report(validate.CodeIDs, parent, el, attrID, explicit, "%s", errors.UserMessage(err))
		} else if ids.IsSynthesized(explicit) {
			p.report(validate.CodeIDs, parent, el, attrID, explicit,
				"identifier %q has the form of a generated identifier and would not be written back; a new one was generated", explicit)
		} else if _, dup := p.d.Node(explicit); dup {
			p.report(validate.CodeIDs, parent, el, attrID, explicit, "duplicate identifier %q", explicit)
		} else {
			return explicit
		}
	}
	for {
		id := p.ids.Next(strings.ToLower(el.name))
		if _, dup := p.d.Node(id); !dup {
			return id
		}
	}
}

func attrValue(el *element, name string) (string, bool) {
	for _, a := range el.attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// fill copies el's attributes and special children into n and creates its
// child nodes.
func (p *parser) fill(n *doc.Node, el *element) error {
	schema := doc.MustSchema(n.Type)
	for _, a := range el.attrs {
		if a.Name.Space != "" {
			continue
		}
		switch name := a.Name.Local; name {
		case attrID:
		case attrDisplayName:
			n.DisplayName = a.Value
		case attrLocked, attrHidden:
			b, err := attr.ParseBool(a.Value)
			if err != nil {
				p.report(validate.CodeBool, n, el, name, a.Value, "%v", err)
				continue
			}
			if name == attrLocked {
				n.Locked = b
			} else {
				n.Hidden = b
			}
		default:
			p.setProp(n, schema, n.Props, "", el, name, a.Value, false)
		}
	}
	if strings.TrimSpace(el.text.String()) != "" {
		p.report(validate.CodeUnknown, n, el, "", "", "<%s> does not take text content", el.name)
	}

	for _, c := range el.children {
		if err := p.child(n, schema, c); err != nil {
			return err
		}
	}
	return nil
}

// setProp decodes one attribute into bag. prefix qualifies the attribute in
// issues for breakpoint bags.
func (p *parser) setProp(n *doc.Node, schema *doc.Schema, bag doc.Props, prefix string, el *element, name, value string, responsive bool) {
	spec, ok := schema.Attr(name)
	if !ok || !scalarKind(spec.Kind) {
		p.report(validate.CodeUnknown, n, el, prefix+name, value, "%s has no attribute %q", n.Type, name)
		return
	}
	if responsive && !spec.Responsive {
		p.report(validate.CodeUnknown, n, el, prefix+name, value, "%q cannot be overridden per breakpoint", name)
		return
	}
	v, err := decodeAttr(spec, value)
	if err != nil {
		p.report(validate.CodeForKind(spec.Kind), n, el, prefix+name, value, "%v", err)
		return
	}
	bag[name] = v
}

func (p *parser) child(n *doc.Node, schema *doc.Schema, c *element) error {
	if key, ok := breakpointTags[c.name]; ok {
		p.breakpoint(n, schema, key, c)
		return nil
	}
	if prop, ok := actionTags[c.name]; ok {
		p.action(n, schema, prop, c)
		return nil
	}
	switch c.name {
	case tagGradient:
		p.gradient(n, schema, n.Props, "", c)
	case tagEmbedCode:
		if _, ok := schema.Attr("embedCode"); !ok {
			p.report(validate.CodeUnknown, n, c, "", "", "%s does not accept <%s>", n.Type, c.name)
			return nil
		}
		n.Props["embedCode"] = strings.TrimSpace(c.text.String())
	case tagOption:
		if _, ok := schema.Attr("options"); !ok {
			p.report(validate.CodeUnknown, n, c, "", "", "%s does not accept <%s>", n.Type, c.name)
			return nil
		}
		opt := attr.Option{Label: strings.TrimSpace(c.text.String())}
		opt.Value, _ = attrValue(c, "value")
		opts, _ := n.Props["options"].([]attr.Option)
		n.Props["options"] = append(opts, opt)
	case tagParagraph:
		if n.Type != doc.Text {
			p.report(validate.CodeUnknown, n, c, "", "", "%s does not accept <%s>", n.Type, c.name)
			return nil
		}
		paras, _ := n.Props["paragraphs"].([]attr.Paragraph)
		n.Props["paragraphs"] = append(paras, p.paragraph(n, c))
	case tagSpan, tagStop:
		p.report(validate.CodeUnknown, n, c, "", "", "<%s> is not allowed directly inside <%s>", c.name, mustTag(n.Type))
	default:
		t, ok := TypeForTag(c.name)
		if !ok {
			return errors.New(errors.ErrCodeInvalidTag, "line %d: unknown element <%s>", c.line, c.name)
		}
		return p.node(n, c, t)
	}
	return nil
}

// breakpoint merges a <Tablet> or <Mobile> element into the override bag.
func (p *parser) breakpoint(n *doc.Node, schema *doc.Schema, key string, el *element) {
	if _, ok := schema.Attr(key); !ok {
		p.report(validate.CodeUnknown, n, el, "", "", "%s does not accept <%s>", n.Type, el.name)
		return
	}
	bag, _ := n.Props[key].(doc.Props)
	if bag == nil {
		bag = doc.Props{}
	}
	for _, a := range el.attrs {
		if a.Name.Space == "" {
			p.setProp(n, schema, bag, key+".", el, a.Name.Local, a.Value, true)
		}
	}
	for _, c := range el.children {
		if c.name != tagGradient {
			p.report(validate.CodeUnknown, n, c, "", "", "<%s> is not allowed inside <%s>", c.name, el.name)
			continue
		}
		p.gradient(n, schema, bag, key+".", c)
	}
	if len(bag) > 0 {
		n.Props[key] = bag
	}
}

func (p *parser) action(n *doc.Node, schema *doc.Schema, prop string, el *element) {
	if _, ok := schema.Attr(prop); !ok {
		p.report(validate.CodeUnknown, n, el, "", "", "%s does not accept <%s>", n.Type, el.name)
		return
	}
	fields := make(map[string]string, len(el.attrs))
	for _, a := range el.attrs {
		fields[a.Name.Local] = a.Value
	}
	a, err := attr.ParseAction(fields)
	if err != nil {
		p.report(validate.CodeForKind(attr.KindAction), n, el, prop, fields["type"], "%v", err)
		return
	}
	n.Props[prop] = a
}

// gradient decodes a <Gradient> element into bag[for].
func (p *parser) gradient(n *doc.Node, schema *doc.Schema, bag doc.Props, prefix string, el *element) {
	target := "background"
	g := attr.Gradient{Type: "linear"}
	for _, a := range el.attrs {
		switch a.Name.Local {
		case "for":
			target = a.Value
		case "type":
			g.Type = a.Value
		case "angle":
			f, err := attr.ParseNumber(a.Value)
			if err != nil {
				p.report(validate.CodeColor, n, el, prefix+target, a.Value, "gradient angle: %v", err)
				return
			}
			g.Angle = f
		default:
			p.report(validate.CodeUnknown, n, el, a.Name.Local, a.Value, "<Gradient> has no attribute %q", a.Name.Local)
		}
	}
	spec, ok := schema.Attr(target)
	if !ok || !spec.Gradient {
		p.report(validate.CodeColor, n, el, prefix+target, "", "%s.%s cannot hold a gradient", n.Type, target)
		return
	}
	for _, c := range el.children {
		if c.name != tagStop {
			p.report(validate.CodeUnknown, n, c, "", "", "<%s> is not allowed inside <Gradient>", c.name)
			continue
		}
		var stop attr.GradientStop
		for _, a := range c.attrs {
			var err error
			switch a.Name.Local {
			case "color":
				stop.Color, err = attr.ParseColor(a.Value)
			case "offset":
				stop.Offset, err = attr.ParseNumber(a.Value)
			}
			if err != nil {
				p.report(validate.CodeColor, n, c, prefix+target, a.Value, "gradient stop: %v", err)
				return
			}
		}
		g.Stops = append(g.Stops, stop)
	}
	if err := g.Check(); err != nil {
		p.report(validate.CodeColor, n, el, prefix+target, g.Type, "%v", err)
		return
	}
	bag[target] = g
}

// paragraph decodes a <p> element. Text written directly inside the <p>
// becomes default spans in document order, so a <p> without spans holds its
// text as a single default span.
func (p *parser) paragraph(n *doc.Node, el *element) attr.Paragraph {
	var para attr.Paragraph
	runs := el.runs
	for i := 0; i <= len(el.children); i++ {
		for len(runs) > 0 && runs[0].at == i {
			if text := inlineText(runs[0].text, len(para.Spans) == 0, i == len(el.children)); text != "" {
				s := attr.DefaultSpan()
				s.Text = text
				para.Spans = append(para.Spans, s)
			}
			runs = runs[1:]
		}
		if i == len(el.children) {
			break
		}
		c := el.children[i]
		if c.name != tagSpan {
			p.report(validate.CodeUnknown, n, c, "", "", "<%s> is not allowed inside <p>", c.name)
			continue
		}
		para.Spans = append(para.Spans, p.span(n, c))
	}
	return para
}

// inlineText trims the indentation around a run of paragraph text. A single
// space is kept where the run meets a neighbouring span.
func inlineText(s string, first, last bool) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return ""
	}
	if !first && strings.TrimLeftFunc(s, unicode.IsSpace) != s {
		t = " " + t
	}
	if !last && strings.TrimRightFunc(s, unicode.IsSpace) != s {
		t += " "
	}
	return t
}

func (p *parser) span(n *doc.Node, el *element) attr.Span {
	s := attr.DefaultSpan()
	s.Text = el.text.String()
	for _, a := range el.attrs {
		name := "span." + a.Name.Local
		switch a.Name.Local {
		case "font":
			s.Font = a.Value
		case "size", "weight", "spacing":
			f, err := attr.ParsePixels(a.Value)
			if err != nil {
				p.report(validate.CodeNumber, n, el, name, a.Value, "%v", err)
				continue
			}
			switch a.Name.Local {
			case "size":
				s.Size = f
			case "weight":
				s.Weight = f
			default:
				s.Spacing = f
			}
		case "style", "transform":
			allowed := attr.SpanStyles
			if a.Name.Local == "transform" {
				allowed = attr.SpanTransforms
			}
			v, err := attr.ParseEnum(a.Value, allowed)
			if err != nil {
				p.report(validate.CodeEnum, n, el, name, a.Value, "%v", err)
				continue
			}
			if a.Name.Local == "style" {
				s.Style = v
			} else {
				s.Transform = v
			}
		case "color":
			c, err := attr.ParseColor(a.Value)
			if err != nil {
				p.report(validate.CodeColor, n, el, name, a.Value, "%v", err)
				continue
			}
			s.Color = c
		default:
			p.report(validate.CodeUnknown, n, el, name, a.Value, "<span> has no attribute %q", a.Name.Local)
		}
	}
	return s
}

func mustTag(t doc.ComponentType) string {
	if tag, ok := TagForType(t); ok {
		return tag
	}
	return string(t)
}
