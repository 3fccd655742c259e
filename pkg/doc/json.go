package doc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/matzehuels/pagecraft/pkg/attr"
)

const versionKey = "version"

type typeJSON struct {
	ResolvedName string `json:"resolvedName"`
}

type nodeJSON struct {
	Type        typeJSON                   `json:"type"`
	IsCanvas    bool                       `json:"isCanvas"`
	Props       map[string]json.RawMessage `json:"props"`
	DisplayName string                     `json:"displayName"`
	Locked      bool                       `json:"locked"`
	Hidden      bool                       `json:"hidden"`
	Nodes       []string                   `json:"nodes"`
	LinkedNodes map[string]string          `json:"linkedNodes"`
	Parent      *string                    `json:"parent"`
}

type nodeOut struct {
	Type        typeJSON          `json:"type"`
	IsCanvas    bool              `json:"isCanvas"`
	Props       Props             `json:"props"`
	DisplayName string            `json:"displayName"`
	Locked      bool              `json:"locked"`
	Hidden      bool              `json:"hidden"`
	Nodes       []string          `json:"nodes"`
	LinkedNodes map[string]string `json:"linkedNodes"`
	Parent      *string           `json:"parent"`
}

// MarshalJSON encodes the document as an object keyed by node identifier
// plus an integer "version" entry.
func (d *Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.nodes)+1)
	out[versionKey] = d.Version
	for _, n := range d.nodes {
		var parent *string
		if n.Parent != "" {
			p := n.Parent
			parent = &p
		}
		children := n.Children
		if children == nil {
			children = []string{}
		}
		props := n.Props
		if props == nil {
			props = Props{}
		}
		out[n.ID] = nodeOut{
			Type:        typeJSON{ResolvedName: string(n.Type)},
			IsCanvas:    n.IsContainer,
			Props:       props,
			DisplayName: n.DisplayName,
			Locked:      n.Locked,
			Hidden:      n.Hidden,
			Nodes:       children,
			LinkedNodes: map[string]string{},
			Parent:      parent,
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the wire format. Property values are decoded into
// their typed form using the component schema; values that do not fit their
// encoding, unknown attributes and unknown component types are kept as raw
// JSON values so that validation can report them instead of losing them.
func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	*d = *NewEmpty()
	d.Version = 0
	if v, ok := raw[versionKey]; ok {
		if err := json.Unmarshal(v, &d.Version); err != nil {
			return fmt.Errorf("decode version: %w", err)
		}
		delete(raw, versionKey)
	}

	ids := make([]string, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		switch {
		case a == RootID:
			return -1
		case b == RootID:
			return 1
		}
		return strings.Compare(a, b)
	})

	for _, id := range ids {
		var nj nodeJSON
		if err := json.Unmarshal(raw[id], &nj); err != nil {
			return fmt.Errorf("decode node %s: %w", id, err)
		}
		t := ComponentType(nj.Type.ResolvedName)
		n := &Node{
			ID:          id,
			Type:        t,
			IsContainer: nj.IsCanvas,
			Props:       decodeProps(t, nj.Props),
			DisplayName: nj.DisplayName,
			Locked:      nj.Locked,
			Hidden:      nj.Hidden,
			Children:    nj.Nodes,
		}
		if n.Children == nil {
			n.Children = []string{}
		}
		if nj.Parent != nil {
			n.Parent = *nj.Parent
		}
		d.insert(n)
	}
	return nil
}

// ReadJSON decodes a document from r.
func ReadJSON(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	d := NewEmpty()
	if err := d.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return d, nil
}

// WriteJSON encodes d as indented JSON to w.
func WriteJSON(d *Document, w io.Writer) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("indent: %w", err)
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(w)
	return err
}

func decodeProps(t ComponentType, raw map[string]json.RawMessage) Props {
	props := make(Props, len(raw))
	schema, known := SchemaFor(t)
	for name, msg := range raw {
		if !known {
			props[name] = decodeAny(msg)
			continue
		}
		spec, ok := schema.Attr(name)
		if !ok {
			props[name] = decodeAny(msg)
			continue
		}
		if v, err := DecodeValue(t, spec, msg); err == nil {
			props[name] = v
		} else {
			props[name] = decodeAny(msg)
		}
	}
	return props
}

func decodeAny(msg json.RawMessage) any {
	var v any
	_ = json.Unmarshal(msg, &v)
	return v
}

// DecodeValue decodes one JSON property value of component t into the typed
// form required by spec.
func DecodeValue(t ComponentType, spec AttrSpec, msg json.RawMessage) (any, error) {
	switch spec.Kind {
	case attr.KindString, attr.KindEnum:
		var s string
		err := json.Unmarshal(msg, &s)
		return s, err
	case attr.KindNumber, attr.KindPixels:
		var f float64
		err := json.Unmarshal(msg, &f)
		return f, err
	case attr.KindBool:
		var b bool
		err := json.Unmarshal(msg, &b)
		return b, err
	case attr.KindSpacing:
		var q attr.Spacing
		err := json.Unmarshal(msg, &q)
		return q, err
	case attr.KindColor:
		if spec.Gradient && bytes.Contains(msg, []byte(`"stops"`)) {
			var g attr.Gradient
			err := json.Unmarshal(msg, &g)
			return g, err
		}
		var c attr.Color
		err := json.Unmarshal(msg, &c)
		return c, err
	case attr.KindVisibility:
		var v attr.Visibility
		err := json.Unmarshal(msg, &v)
		return v, err
	case attr.KindAction:
		var a attr.Action
		err := json.Unmarshal(msg, &a)
		return a, err
	case attr.KindOptions:
		var opts []attr.Option
		err := json.Unmarshal(msg, &opts)
		if opts == nil {
			opts = []attr.Option{}
		}
		return opts, err
	case attr.KindParagraphs:
		return decodeParagraphs(msg)
	case attr.KindResponsive:
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(msg, &raw); err != nil {
			return nil, err
		}
		return decodeProps(t, raw), nil
	}
	return nil, fmt.Errorf("unsupported attribute kind %q", spec.Kind)
}

func decodeParagraphs(msg json.RawMessage) ([]attr.Paragraph, error) {
	var raw []struct {
		Spans []json.RawMessage `json:"spans"`
	}
	if err := json.Unmarshal(msg, &raw); err != nil {
		return nil, err
	}
	out := make([]attr.Paragraph, len(raw))
	for i, p := range raw {
		spans := make([]attr.Span, len(p.Spans))
		for j, sm := range p.Spans {
			s := attr.DefaultSpan()
			if err := json.Unmarshal(sm, &s); err != nil {
				return nil, err
			}
			spans[j] = s
		}
		out[i] = attr.Paragraph{Spans: spans}
	}
	return out, nil
}
