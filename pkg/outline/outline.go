// Package outline draws the node hierarchy of a page document as a Graphviz
// diagram.
//
// [ToDOT] produces a top-down digraph with one box per node and one edge per
// parent/child link. Container nodes are drawn with rounded corners, form
// fields with dashed outlines and hidden nodes in grey. [RenderSVG] lays the
// graph out with the WebAssembly build of Graphviz, so no system install is
// needed:
//
//	dot := outline.ToDOT(d, outline.Options{Detailed: true})
//	svg, err := outline.RenderSVG(ctx, dot)
package outline

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pagecraft/pkg/attr"
	"github.com/matzehuels/pagecraft/pkg/doc"
)

// Format names an outline output.
type Format string

const (
	FormatSVG Format = "svg"
	FormatDOT Format = "dot"
)

// Options configures outline rendering.
type Options struct {
	// Detailed adds the node id and its non-default properties to each label.
	// When false, only the display name is shown.
	Detailed bool
}

// ToDOT converts the hierarchy reachable from the root of d to Graphviz DOT.
// Nodes are emitted in document order so the output is stable.
func ToDOT(d *doc.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	var edges [][2]string
	_ = d.Walk(func(n *doc.Node, _ int) error {
		attrs := fmtAttrs(n, fmtLabel(n, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
		for _, c := range n.Children {
			if _, ok := d.Node(c); ok {
				edges = append(edges, [2]string{n.ID, c})
			}
		}
		return nil
	})

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e[0], e[1])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func displayName(n *doc.Node) string {
	if n.DisplayName != "" {
		return n.DisplayName
	}
	return string(n.Type)
}

func fmtLabel(n *doc.Node, detailed bool) string {
	name := displayName(n)
	if !detailed {
		return name
	}

	parts := []string{fmt.Sprintf("%s #%s", n.Type, n.ID)}
	schema, ok := doc.SchemaFor(n.Type)
	if ok {
		for _, spec := range schema.Attrs {
			v, set := n.Props[spec.Name]
			if !set || attr.Equal(v, spec.Default) {
				continue
			}
			if s, ok := summarize(v); ok {
				parts = append(parts, fmt.Sprintf("%s: %s", spec.Name, s))
			}
		}
	}
	return name + "\n" + strings.Join(parts, "\n")
}

// maxValueLen truncates long property values in detailed labels.
const maxValueLen = 32

func summarize(v any) (string, bool) {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case float64:
		s = attr.FormatNumber(x)
	case bool:
		s = attr.FormatBool(x)
	case attr.Spacing:
		s = attr.FormatSpacing(x)
	case attr.Color:
		s = attr.FormatColor(x)
	case attr.Visibility:
		s = attr.FormatVisibility(x)
	case attr.Action:
		s = string(x.Type)
	case []attr.Paragraph:
		s = fmt.Sprintf("%d paragraph(s)", len(x))
	case []attr.Option:
		s = fmt.Sprintf("%d option(s)", len(x))
	default:
		return "", false
	}
	if len(s) > maxValueLen {
		s = s[:maxValueLen-3] + "..."
	}
	return s, true
}

func fmtAttrs(n *doc.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.Type.IsContainer():
		attrs = append(attrs, "style=\"rounded,filled\"", "fillcolor=\"#eef2ff\"")
	case n.Type.IsField():
		attrs = append(attrs, "style=\"filled,dashed\"")
	}
	if n.Hidden {
		attrs = append(attrs, "fontcolor=grey")
	}
	return attrs
}

// RenderSVG lays out a DOT graph with Graphviz and returns SVG bytes.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// Render returns the outline of d in the requested format.
func Render(ctx context.Context, d *doc.Document, format Format, opts Options) ([]byte, error) {
	dot := ToDOT(d, opts)
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG, "":
		return RenderSVG(ctx, dot)
	}
	return nil, fmt.Errorf("unsupported outline format %q", format)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the diagram scales from its
// viewBox instead of the point sizes Graphviz writes.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
