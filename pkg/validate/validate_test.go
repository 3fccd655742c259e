package validate

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/pagecraft/pkg/attr"
	"github.com/matzehuels/pagecraft/pkg/doc"
)

type builder struct {
	t *testing.T
	d *doc.Document
}

func newBuilder(t *testing.T) *builder { return &builder{t: t, d: doc.New()} }

func (b *builder) add(parent, id string, ct doc.ComponentType) *doc.Node {
	b.t.Helper()
	n, err := b.d.CreateNode(id, ct)
	if err != nil {
		b.t.Fatal(err)
	}
	if err := b.d.AddChild(parent, id); err != nil {
		b.t.Fatalf("AddChild(%s, %s): %v", parent, id, err)
	}
	return n
}

func mustValidate(t *testing.T, d *doc.Document) Issues {
	t.Helper()
	issues, err := Document(d)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	return issues
}

func TestValidDocument(t *testing.T) {
	b := newBuilder(t)
	b.add(doc.RootID, "sec", doc.Container)
	b.add("sec", "txt", doc.Text).Props["paragraphs"] = []attr.Paragraph{attr.PlainParagraph("Hi")}
	b.add("sec", "form", doc.Form)
	b.add("form", "email", doc.EmailField)
	b.add("form", "submit", doc.SubmitButton)

	if issues := mustValidate(t, b.d); len(issues) != 0 {
		t.Errorf("expected no issues, got %v", issues)
	}
}

func TestMissingRoot(t *testing.T) {
	issues, err := Document(doc.NewEmpty())
	if !errors.Is(err, ErrNoRoot) {
		t.Fatalf("err = %v, want ErrNoRoot", err)
	}
	if !issues.HasCode(CodeRoot) {
		t.Errorf("expected V1, got %v", issues)
	}
	if _, err := Document(nil); !errors.Is(err, ErrNilDocument) {
		t.Errorf("nil document: %v", err)
	}
}

func TestRootWrongType(t *testing.T) {
	d := doc.NewEmpty()
	if _, err := d.CreateNode(doc.RootID, doc.Container); err != nil {
		t.Fatal(err)
	}
	issues := mustValidate(t, d)
	if !issues.HasCode(CodeRoot) {
		t.Errorf("expected V1, got %v", issues)
	}
}

func TestLeafWithChildren(t *testing.T) {
	b := newBuilder(t)
	txt := b.add(doc.RootID, "txt", doc.Text)
	img, _ := b.d.CreateNode("img", doc.Image)
	txt.Children = append(txt.Children, "img")
	img.Parent = "txt"

	issues := mustValidate(t, b.d)
	if !issues.HasCode(CodeNesting) {
		t.Errorf("expected V2, got %v", issues)
	}
}

func TestSubmitButtonOutsideForm(t *testing.T) {
	b := newBuilder(t)
	b.add(doc.RootID, "submit", doc.SubmitButton)

	issues := mustValidate(t, b.d)
	got := issues.ByCode(CodeFormFields)
	if len(got) != 1 || got[0].Path != "ROOT/submit" {
		t.Errorf("expected one V3 at ROOT/submit, got %v", issues)
	}
}

func TestFormWithoutSubmit(t *testing.T) {
	b := newBuilder(t)
	b.add(doc.RootID, "form", doc.Form)
	b.add("form", "name", doc.TextField)

	issues := mustValidate(t, b.d)
	if !issues.HasCode(CodeFormFields) {
		t.Errorf("expected V3 for missing submit button, got %v", issues)
	}
}

func TestDanglingAndDuplicateIDs(t *testing.T) {
	b := newBuilder(t)
	sec := b.add(doc.RootID, "sec", doc.Container)
	b.add("sec", "txt", doc.Text)
	sec.Children = append(sec.Children, "ghost", "txt")

	issues := mustValidate(t, b.d)
	v6 := issues.ByCode(CodeIDs)
	if len(v6) != 2 {
		t.Fatalf("expected dangling and duplicate V6, got %v", issues)
	}
	var dangling, dup bool
	for _, i := range v6 {
		dangling = dangling || strings.Contains(i.Message, "ghost")
		dup = dup || strings.Contains(i.Message, "2 times")
	}
	if !dangling || !dup {
		t.Errorf("unexpected V6 issues %v", v6)
	}
}

func TestBrokenParentLink(t *testing.T) {
	b := newBuilder(t)
	b.add(doc.RootID, "a", doc.Container)
	orphan, _ := b.d.CreateNode("orphan", doc.Text)
	orphan.Parent = "a"

	issues := mustValidate(t, b.d)
	if !issues.HasCode(CodeLinks) {
		t.Errorf("expected V4, got %v", issues)
	}
}

func TestAttributeEncodings(t *testing.T) {
	tests := []struct {
		name  string
		ct    doc.ComponentType
		attr  string
		value any
		code  Code
	}{
		{"spacing arity", doc.Container, "padding", []any{1.0, 2.0, 3.0}, CodeSpacing},
		{"color range", doc.Container, "background", attr.Color{R: 300, A: 1, Valid: true}, CodeColor},
		{"gradient not allowed", doc.Text, "color", attr.Gradient{Type: "linear"}, CodeColor},
		{"visibility arity", doc.Text, "visibility", []any{true, false}, CodeVisibility},
		{"bool", doc.Video, "autoplay", "yes", CodeBool},
		{"number", doc.Container, "gap", "ten", CodeNumber},
		{"negative number", doc.Container, "gap", -4.0, CodeNumber},
		{"infinite number", doc.Container, "minHeight", math.Inf(1), CodeNumber},
		{"enum", doc.Container, "flexDirection", "diagonal", CodeEnum},
		{"action", doc.Button, "clickEvent", attr.Action{Type: attr.ActionURL}, CodeEnum},
		{"unknown attribute", doc.Button, "sparkle", true, CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBuilder(t)
			n := b.add(doc.RootID, "n", tt.ct)
			n.Props[tt.attr] = tt.value

			issues := mustValidate(t, b.d)
			if len(issues) != 1 || issues[0].Code != tt.code || issues[0].Attribute != tt.attr {
				t.Errorf("expected one %s on %s, got %v", tt.code, tt.attr, issues)
			}
		})
	}
}

func TestResponsiveOverrides(t *testing.T) {
	b := newBuilder(t)
	n := b.add(doc.RootID, "sec", doc.Container)
	n.Props[doc.MobileKey] = doc.Props{
		"flexDirection": "column",
		"gap":           "wide",
		"clickEvent":    attr.Action{},
	}

	issues := mustValidate(t, b.d)
	if !issues.HasCode(CodeNumber) || !issues.HasCode(CodeUnknown) {
		t.Errorf("expected V11 and V5 inside mobile bag, got %v", issues)
	}
	for _, i := range issues {
		if !strings.HasPrefix(i.Attribute, "mobile.") {
			t.Errorf("attribute should be qualified: %q", i.Attribute)
		}
	}
}

func TestParagraphChecks(t *testing.T) {
	b := newBuilder(t)
	n := b.add(doc.RootID, "txt", doc.Text)
	p := attr.PlainParagraph("x")
	p.Spans[0].Transform = "shout"
	n.Props["paragraphs"] = []attr.Paragraph{p}

	issues := mustValidate(t, b.d)
	if !issues.HasCode(CodeEnum) {
		t.Errorf("expected V12 for span transform, got %v", issues)
	}
}

func TestVersionAndUnknownType(t *testing.T) {
	b := newBuilder(t)
	b.d.Version = 7
	n := b.add(doc.RootID, "x", doc.Container)
	n.Type = "Carousel"

	issues := mustValidate(t, b.d)
	if !issues.HasCode(CodeVersion) || !issues.HasCode(CodeUnknown) {
		t.Errorf("expected V13 and V5, got %v", issues)
	}
}

func TestValidateDoesNotMutate(t *testing.T) {
	b := newBuilder(t)
	n := b.add(doc.RootID, "sec", doc.Container)
	n.Props["gap"] = "bad"
	before := n.Props.Clone()

	_ = mustValidate(t, b.d)
	if n.Props["gap"] != before["gap"] || len(n.Props) != len(before) {
		t.Error("validation mutated props")
	}
}

func TestIssuesErr(t *testing.T) {
	if (Issues{}).Err() != nil {
		t.Error("empty issues should produce nil error")
	}
	err := Issues{{Code: CodeRoot, Message: "a"}, {Code: CodeIDs, Message: "b"}}.Err()
	if err == nil || !strings.Contains(err.Error(), "and 1 more") {
		t.Errorf("Err() = %v", err)
	}
}
