package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/pagecraft/pkg/cache"
	"github.com/matzehuels/pagecraft/pkg/doc"
	pcerrors "github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/ids"
	"github.com/matzehuels/pagecraft/pkg/outline"
	"github.com/matzehuels/pagecraft/pkg/validate"
)

const heroInput = `{
  "title": "Launch",
  "sections": [{
    "sectionType": "hero",
    "layout": "text-left-image-right",
    "elements": [
      {"type": "text", "purpose": "headline", "content": "Ship pages faster"},
      {"type": "button", "text": "Start", "scrollTo": "#signup"},
      {"type": "image", "src": "https://example.com/hero.png"}
    ]
  }, {
    "sectionType": "contact",
    "anchor": "signup",
    "elements": [
      {"type": "form", "fields": [{"type": "email", "label": "Email"}], "submitText": "Join"}
    ]
  }]
}`

const simpleXML = `<Page>
  <Container id="hero" flexDirection="row">
    <Text><p>Hello</p></Text>
  </Container>
</Page>`

type fakeRenderer struct {
	url   string
	calls atomic.Int32
	err   error
}

func (f *fakeRenderer) URL() string { return f.url }

func (f *fakeRenderer) Render(_ context.Context, d *doc.Document) ([]byte, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []byte("<html>" + d.Root().ID + "</html>"), nil
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	r.IDs = func() ids.Generator { return ids.NewSeeded(1700000000000, 7) }
	t.Cleanup(func() { r.Close() })
	return r
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"page.json", FormatJSON, false},
		{"dir/PAGE.JSON", FormatJSON, false},
		{"page.xml", FormatXML, false},
		{"landing.input.json", FormatInput, false},
		{"page.html", "", true},
		{"page", "", true},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.path)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, %v", tt.path, got, err)
		}
	}
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"json", "XML", "input"} {
		if _, err := ParseFormat(s); err != nil {
			t.Errorf("ParseFormat(%q) error = %v", s, err)
		}
	}
	if _, err := ParseFormat("yaml"); err == nil {
		t.Error("ParseFormat(yaml) should fail")
	}
}

func TestExpandReader(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.ExpandReader(context.Background(), strings.NewReader(heroInput))
	if err != nil {
		t.Fatalf("ExpandReader() error: %v", err)
	}
	if !res.Valid() {
		t.Errorf("expanded document has issues: %v", res.Issues)
	}
	if res.Stats.NodeCount != res.Document.Len() || res.Stats.NodeCount < 8 {
		t.Errorf("NodeCount = %d", res.Stats.NodeCount)
	}
	if _, ok := res.Document.Node("signup"); !ok {
		t.Error("anchor should become the section id")
	}
}

func TestExpandErrors(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.ExpandReader(context.Background(), strings.NewReader(`{"sections":[{"sectionType":"banner"}]}`))
	if !pcerrors.Is(err, pcerrors.ErrCodeInvalidSection) {
		t.Errorf("error = %v, want INVALID_SECTION", err)
	}
	_, err = r.ExpandReader(context.Background(), strings.NewReader(`{`))
	if !pcerrors.Is(err, pcerrors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want INVALID_INPUT", err)
	}
}

func TestParseXML(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.ParseXML(context.Background(), strings.NewReader(simpleXML), LoadOptions{Timestamp: 1700000000000})
	if err != nil {
		t.Fatalf("ParseXML() error: %v", err)
	}
	if !res.Valid() || res.Stats.NodeCount != 3 {
		t.Errorf("result = %d nodes, issues %v", res.Stats.NodeCount, res.Issues)
	}

	res, err = r.ParseXML(context.Background(), strings.NewReader(`<Page><Text size="huge"/></Page>`), LoadOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Valid() {
		t.Error("bad attribute value should be reported")
	}

	_, err = r.ParseXML(context.Background(), strings.NewReader(`<Page>`), LoadOptions{})
	if !pcerrors.Is(err, pcerrors.ErrCodeInvalidXML) {
		t.Errorf("error = %v, want INVALID_XML", err)
	}
}

func TestParseXMLWrongRootKeepsIssues(t *testing.T) {
	r := newTestRunner(t)
	res, err := r.ParseXML(context.Background(), strings.NewReader(`<Container/>`), LoadOptions{})
	if res != nil {
		t.Errorf("result = %+v, want nil", res)
	}
	if !pcerrors.Is(err, pcerrors.ErrCodeInvalidRoot) {
		t.Fatalf("error = %v, want INVALID_ROOT", err)
	}
	issues := IssuesOf(err)
	if len(issues) != 1 || issues[0].Code != validate.CodeRoot {
		t.Errorf("IssuesOf() = %v, want one V1 issue", issues)
	}

	_, err = r.Load(context.Background(), strings.NewReader(`<Container/>`), FormatXML, LoadOptions{})
	if len(IssuesOf(err)) != 1 {
		t.Errorf("Load() lost the root issue: %v", err)
	}
	if IssuesOf(errors.New("plain")) != nil {
		t.Error("IssuesOf(plain error) should be nil")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	res, err := r.ExpandReader(ctx, strings.NewReader(heroInput))
	if err != nil {
		t.Fatal(err)
	}

	var js bytes.Buffer
	if err := r.Encode(ctx, res.Document, FormatJSON, &js); err != nil {
		t.Fatal(err)
	}
	back, err := r.Load(ctx, &js, FormatJSON, LoadOptions{})
	if err != nil {
		t.Fatalf("Load(json) error: %v", err)
	}
	if back.Document.Len() != res.Document.Len() || !back.Valid() {
		t.Errorf("round trip lost nodes or gained issues: %d vs %d, %v", back.Document.Len(), res.Document.Len(), back.Issues)
	}

	var x bytes.Buffer
	if err := r.Encode(ctx, res.Document, FormatXML, &x); err != nil {
		t.Fatal(err)
	}
	fromXML, err := r.Load(ctx, &x, FormatXML, LoadOptions{Timestamp: 1})
	if err != nil {
		t.Fatalf("Load(xml) error: %v", err)
	}
	if fromXML.Document.Len() != res.Document.Len() {
		t.Errorf("XML round trip: %d nodes, want %d", fromXML.Document.Len(), res.Document.Len())
	}

	if err := r.Encode(ctx, res.Document, FormatInput, &x); !pcerrors.Is(err, pcerrors.ErrCodeUnsupported) {
		t.Errorf("Encode(input) error = %v", err)
	}
}

func TestDecodeJSONInvalid(t *testing.T) {
	r := newTestRunner(t)
	_, err := r.DecodeJSON(context.Background(), strings.NewReader(`[1,2`))
	if !pcerrors.Is(err, pcerrors.ErrCodeInvalidDocument) {
		t.Errorf("error = %v, want INVALID_DOCUMENT", err)
	}
	_, err = r.Load(context.Background(), strings.NewReader(""), "yaml", LoadOptions{})
	if !pcerrors.Is(err, pcerrors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestValidate(t *testing.T) {
	r := newTestRunner(t)
	d := doc.New()
	_, _ = d.CreateNode("field", doc.EmailField)
	_ = d.AddChild(doc.RootID, "field")

	issues, err := r.Validate(context.Background(), d)
	if err != nil {
		t.Fatal(err)
	}
	if !issues.HasCode(validate.CodeFormFields) {
		t.Errorf("issues = %v, want a form field issue", issues)
	}
	if _, err := r.Validate(context.Background(), nil); err == nil {
		t.Error("nil document should fail")
	}
}

func TestRenderCaching(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	fr := &fakeRenderer{url: "http://render.local"}
	r.Renderer = fr
	d := doc.New()

	html, hit, err := r.Render(ctx, d, RenderOptions{})
	if err != nil || hit || string(html) != "<html>ROOT</html>" {
		t.Fatalf("first Render() = %q, %v, %v", html, hit, err)
	}
	html, hit, err = r.Render(ctx, d, RenderOptions{})
	if err != nil || !hit || string(html) != "<html>ROOT</html>" {
		t.Fatalf("second Render() = %q, %v, %v", html, hit, err)
	}
	if fr.calls.Load() != 1 {
		t.Errorf("render calls = %d, want 1", fr.calls.Load())
	}

	if _, hit, _ = r.Render(ctx, d, RenderOptions{Refresh: true}); hit {
		t.Error("Refresh should bypass the cache")
	}
	if fr.calls.Load() != 2 {
		t.Errorf("render calls = %d, want 2", fr.calls.Load())
	}

	n, _ := d.Node(doc.RootID)
	n.DisplayName = "Changed"
	if _, hit, _ = r.Render(ctx, d, RenderOptions{}); hit {
		t.Error("a changed document should miss")
	}
}

func TestRenderErrors(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	if _, _, err := r.Render(ctx, doc.New(), RenderOptions{}); !pcerrors.Is(err, pcerrors.ErrCodeUnsupported) {
		t.Errorf("no renderer error = %v", err)
	}

	boom := errors.New("boom")
	fr := &fakeRenderer{url: "http://render.local", err: boom}
	r.Renderer = fr
	for range 2 {
		if _, _, err := r.Render(ctx, doc.New(), RenderOptions{}); !errors.Is(err, boom) {
			t.Errorf("error = %v", err)
		}
	}
	if fr.calls.Load() != 2 {
		t.Error("failed renders must not be cached")
	}
}

func TestOutlineDOT(t *testing.T) {
	r := newTestRunner(t)
	out, hit, err := r.Outline(context.Background(), doc.New(), OutlineOptions{Format: outline.FormatDOT})
	if err != nil || hit {
		t.Fatalf("Outline() hit %v, err %v", hit, err)
	}
	if !bytes.HasPrefix(out, []byte("digraph G")) {
		t.Errorf("Outline() = %q", out)
	}
}

func TestOutlineSVGUsesCache(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	d := doc.New()

	hash, err := DocumentHash(d)
	if err != nil {
		t.Fatal(err)
	}
	key := r.Keyer.OutlineKey(hash, cache.OutlineKeyOpts{Format: "svg"})
	if err := r.Cache.Set(ctx, key, []byte("<svg>cached</svg>"), 0); err != nil {
		t.Fatal(err)
	}

	out, hit, err := r.Outline(ctx, d, OutlineOptions{})
	if err != nil || !hit || string(out) != "<svg>cached</svg>" {
		t.Errorf("Outline() = %q, %v, %v", out, hit, err)
	}
}

func TestDocumentHashStable(t *testing.T) {
	a, _ := DocumentHash(doc.New())
	b, _ := DocumentHash(doc.New())
	if a != b || len(a) != 64 {
		t.Errorf("DocumentHash() = %q, %q", a, b)
	}
}
