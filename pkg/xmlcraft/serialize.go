package xmlcraft

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/matzehuels/pagecraft/pkg/attr"
	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/ids"
)

const indent = "  "

// outElement is an element under construction.
type outElement struct {
	name     string
	attrs    [][2]string
	text     string
	children []*outElement
}

func (e *outElement) attr(name, value string) {
	e.attrs = append(e.attrs, [2]string{name, value})
}

func (e *outElement) add(c *outElement) { e.children = append(e.children, c) }

// Marshal returns the XML-Craft form of d.
func Marshal(d *doc.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes the XML-Craft form of d to w.
func Write(w io.Writer, d *doc.Document) error {
	root := d.Root()
	if root == nil {
		return errors.New(errors.ErrCodeInvalidDocument, "document has no %s node", doc.RootID)
	}
	if root.Type != doc.Page {
		return errors.New(errors.ErrCodeInvalidRoot, "root must be a Page, got %s", root.Type)
	}
	s := &serializer{d: d, seen: make(map[string]bool)}
	el, err := s.node(root)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	writeElement(&buf, el, 0)
	_, err = buf.WriteTo(w)
	return err
}

type serializer struct {
	d    *doc.Document
	seen map[string]bool
}

func (s *serializer) node(n *doc.Node) (*outElement, error) {
	s.seen[n.ID] = true
	tag, ok := TagForType(n.Type)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "node %s has unknown component type %q", n.ID, n.Type)
	}
	schema := doc.MustSchema(n.Type)

	el := &outElement{name: tag}
	if n.ID != doc.RootID && !ids.IsSynthesized(n.ID) {
		el.attr(attrID, n.ID)
	}
	if n.DisplayName != "" && n.DisplayName != string(n.Type) {
		el.attr(attrDisplayName, n.DisplayName)
	}
	if n.Locked {
		el.attr(attrLocked, "true")
	}
	if n.Hidden {
		el.attr(attrHidden, "true")
	}
	writeProps(el, schema, n.Props, true)

	for _, bp := range [][2]string{{doc.TabletKey, tagTablet}, {doc.MobileKey, tagMobile}} {
		bag, ok := n.Props[bp[0]].(doc.Props)
		if !ok || len(bag) == 0 {
			continue
		}
		be := &outElement{name: bp[1]}
		writeProps(be, schema, bag, false)
		el.add(be)
	}
	for _, ap := range actionProps {
		if a, ok := n.Props[ap[0]].(attr.Action); ok && !a.IsZero() {
			el.add(&outElement{name: ap[1], attrs: attr.FormatAction(a)})
		}
	}
	if code, ok := n.Props["embedCode"].(string); ok && code != "" {
		el.add(&outElement{name: tagEmbedCode, text: code})
	}
	if opts, ok := n.Props["options"].([]attr.Option); ok {
		for _, o := range opts {
			oe := &outElement{name: tagOption, text: o.Label}
			if o.Value != "" && o.Value != o.Label {
				oe.attr("value", o.Value)
			}
			el.add(oe)
		}
	}
	if paras, ok := n.Props["paragraphs"].([]attr.Paragraph); ok {
		for _, p := range paras {
			pe := &outElement{name: tagParagraph}
			for _, sp := range p.Spans {
				pe.add(spanElement(sp))
			}
			el.add(pe)
		}
	}

	for _, id := range n.Children {
		c, ok := s.d.Node(id)
		if !ok || s.seen[id] {
			continue
		}
		ce, err := s.node(c)
		if err != nil {
			return nil, err
		}
		el.add(ce)
	}
	return el, nil
}

// writeProps writes the scalar properties of bag as attributes of el in
// schema order, and gradients as child elements. With elide set, values
// equal to the default are left out; breakpoint bags keep every value
// because each one overrides the base property.
func writeProps(el *outElement, schema *doc.Schema, bag doc.Props, elide bool) {
	for _, spec := range schema.Attrs {
		v, ok := bag[spec.Name]
		if !ok || !scalarKind(spec.Kind) || spec.Name == "embedCode" {
			continue
		}
		if g, ok := v.(attr.Gradient); ok {
			el.add(gradientElement(spec.Name, g))
			continue
		}
		if elide && attr.Equal(v, spec.Default) {
			continue
		}
		s, ok := encodeAttr(spec, v)
		if !ok {
			s, ok = encodeRaw(v)
		}
		if ok {
			el.attr(spec.Name, s)
		}
	}
	// Properties outside the schema are carried along so a later parse
	// reports them.
	for _, name := range bag.Keys() {
		if _, known := schema.Attr(name); known || reservedAttr(name) {
			continue
		}
		if s, ok := encodeRaw(bag[name]); ok {
			el.attr(name, s)
		}
	}
}

func reservedAttr(name string) bool {
	switch name {
	case attrID, attrDisplayName, attrLocked, attrHidden:
		return true
	}
	return false
}

func gradientElement(target string, g attr.Gradient) *outElement {
	ge := &outElement{name: tagGradient}
	ge.attr("for", target)
	ge.attr("type", g.Type)
	ge.attr("angle", attr.FormatNumber(g.Angle))
	for _, st := range g.Stops {
		se := &outElement{name: tagStop}
		se.attr("color", attr.FormatColor(st.Color))
		se.attr("offset", attr.FormatNumber(st.Offset))
		ge.add(se)
	}
	return ge
}

// spanElement writes only the span attributes that differ from the span
// defaults.
func spanElement(s attr.Span) *outElement {
	def := attr.DefaultSpan()
	se := &outElement{name: tagSpan, text: s.Text}
	if s.Font != def.Font {
		se.attr("font", s.Font)
	}
	if s.Size != def.Size {
		se.attr("size", attr.FormatPixels(s.Size))
	}
	if s.Weight != def.Weight {
		se.attr("weight", attr.FormatNumber(s.Weight))
	}
	if s.Style != def.Style {
		se.attr("style", s.Style)
	}
	if s.Transform != def.Transform {
		se.attr("transform", s.Transform)
	}
	if s.Spacing != def.Spacing {
		se.attr("spacing", attr.FormatNumber(s.Spacing))
	}
	if s.Color.Valid {
		se.attr("color", attr.FormatColor(s.Color))
	}
	return se
}

func writeElement(b *bytes.Buffer, e *outElement, depth int) {
	pad := strings.Repeat(indent, depth)
	b.WriteString(pad)
	b.WriteByte('<')
	b.WriteString(e.name)
	for _, a := range e.attrs {
		b.WriteByte(' ')
		b.WriteString(a[0])
		b.WriteString(`="`)
		_ = xml.EscapeText(b, []byte(a[1]))
		b.WriteByte('"')
	}
	switch {
	case len(e.children) > 0:
		b.WriteString(">\n")
		for _, c := range e.children {
			writeElement(b, c, depth+1)
		}
		b.WriteString(pad)
	case e.text != "":
		b.WriteByte('>')
		_ = xml.EscapeText(b, []byte(e.text))
	default:
		b.WriteString("/>\n")
		return
	}
	b.WriteString("</")
	b.WriteString(e.name)
	b.WriteString(">\n")
}
