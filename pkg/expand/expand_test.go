package expand

import (
	"strings"
	"testing"

	"github.com/matzehuels/pagecraft/pkg/attr"
	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/ids"
	"github.com/matzehuels/pagecraft/pkg/validate"
)

func expandOK(t *testing.T, in *Input) *doc.Document {
	t.Helper()
	d, err := Expand(in, Options{IDs: ids.NewSeeded(1700000000000, 1)})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	return d
}

func children(t *testing.T, d *doc.Document, id string) []*doc.Node {
	t.Helper()
	n, ok := d.Node(id)
	if !ok {
		t.Fatalf("node %q missing", id)
	}
	out := make([]*doc.Node, len(n.Children))
	for i, c := range n.Children {
		out[i], _ = d.Node(c)
	}
	return out
}

func firstSpan(t *testing.T, n *doc.Node) attr.Span {
	t.Helper()
	paras, ok := n.Props["paragraphs"].([]attr.Paragraph)
	if !ok || len(paras) == 0 || len(paras[0].Spans) == 0 {
		t.Fatalf("node %s has no spans: %#v", n.ID, n.Props["paragraphs"])
	}
	return paras[0].Spans[0]
}

func heroInput(layout string) *Input {
	return &Input{Sections: []Section{{
		SectionType: SectionHero,
		Layout:      layout,
		Elements: []Element{
			{Type: ElementText, Purpose: "headline", Content: "Ship pages faster"},
			{Type: ElementImage, Src: "https://example.com/hero.png", Alt: "Product"},
			{Type: ElementText, Purpose: "subheadline", Content: "Build once, render anywhere."},
		},
	}}}
}

func TestHeroTwoColumn(t *testing.T) {
	d := expandOK(t, heroInput(LayoutTextLeftImage))

	sections := children(t, d, doc.RootID)
	if len(sections) != 1 {
		t.Fatalf("ROOT children = %d, want 1", len(sections))
	}
	section := sections[0]
	if got := section.Props["flexDirection"]; got != "row" {
		t.Errorf("section flexDirection = %v, want row", got)
	}

	cols := children(t, d, section.ID)
	if len(cols) != 2 {
		t.Fatalf("section children = %d, want 2", len(cols))
	}
	for _, col := range cols {
		if col.Type != doc.Container {
			t.Fatalf("column type = %s, want Container", col.Type)
		}
		if col.Props["flexBasis"] != "50%" || col.Props["flexGrow"] != 1.0 {
			t.Errorf("column %s: flexBasis=%v flexGrow=%v, want 50%% and 1",
				col.DisplayName, col.Props["flexBasis"], col.Props["flexGrow"])
		}
	}

	content := children(t, d, cols[0].ID)
	if len(content) != 2 || content[0].Type != doc.Text || content[1].Type != doc.Text {
		t.Fatalf("content column = %v, want two Text nodes", content)
	}
	if got := firstSpan(t, content[0]).Text; got != "Ship pages faster" {
		t.Errorf("first text = %q, want the headline", got)
	}
	media := children(t, d, cols[1].ID)
	if len(media) != 1 || media[0].Type != doc.Image {
		t.Fatalf("media column = %v, want one Image", media)
	}
}

func TestHeroTextRight(t *testing.T) {
	d := expandOK(t, heroInput(LayoutTextRightImage))
	section := children(t, d, doc.RootID)[0]
	cols := children(t, d, section.ID)
	if cols[0].DisplayName != "Media Column" || cols[1].DisplayName != "Content Column" {
		t.Errorf("column order = %s, %s; want media first", cols[0].DisplayName, cols[1].DisplayName)
	}
}

func TestHeroWithoutSplitIsFlat(t *testing.T) {
	d := expandOK(t, heroInput(LayoutDefault))
	section := children(t, d, doc.RootID)[0]
	got := children(t, d, section.ID)
	if len(got) != 3 {
		t.Fatalf("flat hero children = %d, want 3", len(got))
	}
	if got[1].Type != doc.Image {
		t.Errorf("element order not preserved: %s", got[1].Type)
	}
}

func TestGridCardsShareRow(t *testing.T) {
	for _, n := range []int{1, 2, 3, 5} {
		items := make([]Item, n)
		for i := range items {
			items[i] = Item{Elements: []Element{
				{Type: ElementText, Purpose: "feature-title", Content: "Fast"},
				{Type: ElementText, Purpose: "feature-description", Content: strings.Repeat("words ", i*10+1)},
			}}
		}
		d := expandOK(t, &Input{Sections: []Section{{
			SectionType: SectionFeatures,
			Elements:    []Element{{Type: ElementText, Purpose: "section-title", Content: "Features"}},
			Items:       items,
		}}})

		section := children(t, d, doc.RootID)[0]
		kids := children(t, d, section.ID)
		if len(kids) != 2 {
			t.Fatalf("n=%d: section children = %d, want title and row", n, len(kids))
		}
		row := kids[1]
		if row.Props["flexDirection"] != "row" {
			t.Errorf("n=%d: row flexDirection = %v", n, row.Props["flexDirection"])
		}
		cards := children(t, d, row.ID)
		if len(cards) != n {
			t.Fatalf("n=%d: cards = %d", n, len(cards))
		}
		for i, c := range cards {
			if c.Props["flexBasis"] != "0%" || c.Props["flexGrow"] != 1.0 || c.Props["fillSpace"] != "yes" {
				t.Errorf("n=%d card %d: flexBasis=%v flexGrow=%v fillSpace=%v",
					n, i, c.Props["flexBasis"], c.Props["flexGrow"], c.Props["fillSpace"])
			}
		}
	}
}

func TestGridLayoutGroupsElementsIntoCards(t *testing.T) {
	d := expandOK(t, &Input{Sections: []Section{{
		SectionType: SectionFeatures,
		Layout:      LayoutGrid,
		Elements: []Element{
			{Type: ElementText, Purpose: "section-title", Content: "Features"},
			{Type: ElementText, Purpose: "feature-title", Content: "Fast"},
			{Type: ElementText, Purpose: "feature-description", Content: "Renders in milliseconds."},
			{Type: ElementText, Purpose: "feature-title", Content: "Safe"},
			{Type: ElementText, Purpose: "feature-description", Content: "Every change is validated."},
			{Type: ElementText, Purpose: "feature-title", Content: "Open"},
		},
	}}})

	section := children(t, d, doc.RootID)[0]
	kids := children(t, d, section.ID)
	if len(kids) != 2 || kids[0].Type != doc.Text {
		t.Fatalf("section children = %d, want title and row", len(kids))
	}
	cards := children(t, d, kids[1].ID)
	if len(cards) != 3 {
		t.Fatalf("cards = %d, want 3", len(cards))
	}
	for i, want := range []int{2, 2, 1} {
		c := cards[i]
		if c.Props["fillSpace"] != "yes" || c.Props["flexGrow"] != 1.0 {
			t.Errorf("card %d: fillSpace=%v flexGrow=%v", i, c.Props["fillSpace"], c.Props["flexGrow"])
		}
		if got := len(c.Children); got != want {
			t.Errorf("card %d children = %d, want %d", i, got, want)
		}
	}
	if s := firstSpan(t, children(t, d, cards[1].ID)[0]); s.Text != "Safe" {
		t.Errorf("second card starts with %q", s.Text)
	}
}

func TestGridLayoutWithoutLeadPurposes(t *testing.T) {
	d := expandOK(t, &Input{Sections: []Section{{
		SectionType: SectionStats,
		Layout:      LayoutGrid,
		Elements: []Element{
			{Type: ElementText, Purpose: "eyebrow", Content: "Numbers"},
			{Type: ElementImage, Src: "https://example.com/a.png"},
			{Type: ElementImage, Src: "https://example.com/b.png"},
		},
	}}})
	section := children(t, d, doc.RootID)[0]
	kids := children(t, d, section.ID)
	if len(kids) != 2 {
		t.Fatalf("section children = %d, want eyebrow and row", len(kids))
	}
	if cards := children(t, d, kids[1].ID); len(cards) != 2 {
		t.Errorf("cards = %d, want one per image", len(cards))
	}
}

func TestHouseStyle(t *testing.T) {
	tests := []struct {
		section   string
		direction string
		justify   string
		minHeight float64
		maxWidth  float64
	}{
		{SectionHeader, "row", "space-between", 60, 0},
		{SectionFeatures, "column", "flex-start", 0, 0},
		{SectionFAQ, "column", "flex-start", 0, 800},
		{SectionContact, "column", "flex-start", 0, 640},
	}
	for _, tt := range tests {
		t.Run(tt.section, func(t *testing.T) {
			d := expandOK(t, &Input{Sections: []Section{{
				SectionType: tt.section,
				Elements:    []Element{{Type: ElementText, Content: "x"}},
			}}})
			n := children(t, d, doc.RootID)[0]
			if n.Props["flexDirection"] != tt.direction {
				t.Errorf("flexDirection = %v, want %s", n.Props["flexDirection"], tt.direction)
			}
			if n.Props["justifyContent"] != tt.justify {
				t.Errorf("justifyContent = %v, want %s", n.Props["justifyContent"], tt.justify)
			}
			if n.Props["minHeight"] != tt.minHeight {
				t.Errorf("minHeight = %v, want %v", n.Props["minHeight"], tt.minHeight)
			}
			if n.Props["maxWidth"] != tt.maxWidth {
				t.Errorf("maxWidth = %v, want %v", n.Props["maxWidth"], tt.maxWidth)
			}
		})
	}
}

func TestFeaturesPadding(t *testing.T) {
	d := expandOK(t, &Input{Sections: []Section{{
		SectionType: SectionFeatures,
		Elements:    []Element{{Type: ElementText, Content: "x"}},
	}}})
	n := children(t, d, doc.RootID)[0]
	if got := n.Props["padding"]; got != attr.Symmetric(96, 40) {
		t.Errorf("padding = %v", got)
	}
	if n.Props["alignItems"] != "center" {
		t.Errorf("alignItems = %v, want center", n.Props["alignItems"])
	}
}

func TestTextTypographyAndAlignment(t *testing.T) {
	tests := []struct {
		name    string
		section string
		layout  string
		el      Element
		align   string
		size    float64
		weight  float64
	}{
		{"hero headline", SectionHero, "", Element{Type: ElementText, Purpose: "headline", Content: "x"}, "left", 48, 700},
		{"features headline", SectionFeatures, "", Element{Type: ElementText, Purpose: "headline", Content: "x"}, "center", 48, 700},
		{"cta headline", SectionCTA, "", Element{Type: ElementText, Purpose: "headline", Content: "x"}, "center", 48, 700},
		{"centered hero", SectionHero, LayoutCentered, Element{Type: ElementText, Purpose: "headline", Content: "x"}, "center", 48, 700},
		{"stat label", SectionStats, "", Element{Type: ElementText, Purpose: "stat-label", Content: "x"}, "center", 14, 500},
		{"default purpose", SectionAbout, "", Element{Type: ElementText, Content: "x"}, "left", 16, 400},
		{"overrides", SectionFeatures, "", Element{Type: ElementText, Purpose: "headline", Content: "x", Align: "right", Size: 60, Weight: 800}, "right", 60, 800},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := expandOK(t, &Input{Sections: []Section{{
				SectionType: tt.section,
				Layout:      tt.layout,
				Elements:    []Element{tt.el},
			}}})
			section := children(t, d, doc.RootID)[0]
			text := children(t, d, section.ID)[0]
			if text.Props["textAlign"] != tt.align {
				t.Errorf("textAlign = %v, want %s", text.Props["textAlign"], tt.align)
			}
			span := firstSpan(t, text)
			if span.Size != tt.size || span.Weight != tt.weight {
				t.Errorf("size/weight = %v/%v, want %v/%v", span.Size, span.Weight, tt.size, tt.weight)
			}
		})
	}
}

func TestTextParagraphs(t *testing.T) {
	d := expandOK(t, &Input{Sections: []Section{{
		SectionType: SectionAbout,
		Elements: []Element{{
			Type:    ElementText,
			Purpose: "eyebrow",
			Content: "First line\nstill first\n\n  \nSecond\r\n\r\nThird",
		}},
	}}})
	section := children(t, d, doc.RootID)[0]
	text := children(t, d, section.ID)[0]
	paras := text.Props["paragraphs"].([]attr.Paragraph)
	want := []string{"First line\nstill first", "Second", "Third"}
	if len(paras) != len(want) {
		t.Fatalf("paragraphs = %d, want %d", len(paras), len(want))
	}
	for i, p := range paras {
		if p.Spans[0].Text != want[i] {
			t.Errorf("paragraph %d = %q, want %q", i, p.Spans[0].Text, want[i])
		}
		if p.Spans[0].Transform != "uppercase" || p.Spans[0].Spacing != 1 {
			t.Errorf("eyebrow styling lost: %+v", p.Spans[0])
		}
	}
}

func TestFormExpansion(t *testing.T) {
	no := false
	d := expandOK(t, &Input{Sections: []Section{{
		SectionType: SectionContact,
		Elements: []Element{{
			Type:           ElementForm,
			SubmitText:     "Join the waitlist",
			SuccessMessage: "Thanks!",
			Fields: []Field{
				{Type: "email", Label: "Work email", Placeholder: "you@company.com"},
				{Type: "text", Label: "Full name", Required: &no},
				{Type: "dropdown", Label: "Team size", Options: []string{"1-10", "11-50"}},
				{Type: "consent", Label: "I agree"},
			},
		}},
	}}})

	section := children(t, d, doc.RootID)[0]
	form := children(t, d, section.ID)[0]
	if form.Type != doc.Form {
		t.Fatalf("type = %s, want Form", form.Type)
	}
	if got := form.Props["followupAction"]; got != (attr.Action{Type: attr.ActionMessage, Message: "Thanks!"}) {
		t.Errorf("followupAction = %#v", got)
	}

	fields := children(t, d, form.ID)
	wantTypes := []doc.ComponentType{doc.EmailField, doc.TextField, doc.DropdownField, doc.ConsentField, doc.SubmitButton}
	if len(fields) != len(wantTypes) {
		t.Fatalf("form children = %d, want %d", len(fields), len(wantTypes))
	}
	for i, f := range fields {
		if f.Type != wantTypes[i] {
			t.Errorf("child %d = %s, want %s", i, f.Type, wantTypes[i])
		}
	}
	if fields[0].Props["required"] != true || fields[0].Props["name"] != "work_email" {
		t.Errorf("email field = %v", fields[0].Props)
	}
	if fields[1].Props["required"] != false {
		t.Errorf("explicit required=false ignored")
	}
	opts := fields[2].Props["options"].([]attr.Option)
	if len(opts) != 2 || opts[1].EffectiveValue() != "11-50" {
		t.Errorf("options = %v", opts)
	}
	if _, ok := fields[3].Props["placeholder"]; ok {
		t.Errorf("consent field got a placeholder")
	}
	if fields[4].Props["text"] != "Join the waitlist" {
		t.Errorf("submit text = %v", fields[4].Props["text"])
	}
}

func TestAnchorsAndScrollButtons(t *testing.T) {
	d := expandOK(t, &Input{Sections: []Section{
		{
			SectionType: SectionHero,
			Elements: []Element{
				{Type: ElementText, Purpose: "headline", Content: "Hello"},
				{Type: ElementButton, Text: "See pricing", ScrollTo: "#pricing"},
				{Type: ElementButton, Text: "Docs", URL: "https://example.com/docs", NewTab: true},
			},
		},
		{
			SectionType: SectionPricing,
			Anchor:      "pricing",
			Elements:    []Element{{Type: ElementText, Purpose: "section-title", Content: "Pricing"}},
		},
	}})

	if _, ok := d.Node("pricing"); !ok {
		t.Fatal("anchor did not become the section identifier")
	}
	hero := children(t, d, doc.RootID)[0]
	btns := children(t, d, hero.ID)[1:]
	if got := btns[0].Props["clickEvent"]; got != (attr.Action{Type: attr.ActionScroll, Target: "pricing"}) {
		t.Errorf("scroll button action = %#v", got)
	}
	if got := btns[1].Props["clickEvent"]; got != (attr.Action{Type: attr.ActionURL, URL: "https://example.com/docs", NewTab: true}) {
		t.Errorf("url button action = %#v", got)
	}
}

func TestGeneratedIDs(t *testing.T) {
	d, err := Expand(heroInput(LayoutTextLeftImage), Options{})
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range d.IDs() {
		if id == doc.RootID {
			continue
		}
		if !ids.IsSynthesized(id) {
			t.Errorf("identifier %q is not synthesized", id)
		}
	}
}

func TestExpandErrors(t *testing.T) {
	text := Element{Type: ElementText, Content: "x"}
	tests := []struct {
		name    string
		section Section
		code    errors.Code
	}{
		{"unknown section", Section{SectionType: "footer", Elements: []Element{text}}, errors.ErrCodeInvalidSection},
		{"unknown layout", Section{SectionType: SectionHero, Layout: "zigzag"}, errors.ErrCodeInvalidLayout},
		{"unknown element", Section{SectionType: SectionCTA, Elements: []Element{{Type: "carousel"}}}, errors.ErrCodeInvalidElement},
		{"unknown purpose", Section{SectionType: SectionCTA, Elements: []Element{{Type: ElementText, Purpose: "tagline", Content: "x"}}}, errors.ErrCodeInvalidPurpose},
		{"missing content", Section{SectionType: SectionCTA, Elements: []Element{{Type: ElementText, Purpose: "headline"}}}, errors.ErrCodeMissingField},
		{"missing button text", Section{SectionType: SectionCTA, Elements: []Element{{Type: ElementButton, URL: "https://x"}}}, errors.ErrCodeMissingField},
		{"missing image src", Section{SectionType: SectionAbout, Elements: []Element{{Type: ElementImage}}}, errors.ErrCodeMissingField},
		{"missing video source", Section{SectionType: SectionAbout, Elements: []Element{{Type: ElementVideo}}}, errors.ErrCodeMissingField},
		{"missing end date", Section{SectionType: SectionCTA, Elements: []Element{{Type: ElementCountdown}}}, errors.ErrCodeMissingField},
		{"empty form", Section{SectionType: SectionContact, Elements: []Element{{Type: ElementForm}}}, errors.ErrCodeMissingField},
		{"bad field type", Section{SectionType: SectionContact, Elements: []Element{{Type: ElementForm, Fields: []Field{{Type: "date"}}}}}, errors.ErrCodeInvalidElement},
		{"dropdown without options", Section{SectionType: SectionContact, Elements: []Element{{Type: ElementForm, Fields: []Field{{Type: "dropdown"}}}}}, errors.ErrCodeMissingField},
		{"bad align", Section{SectionType: SectionCTA, Elements: []Element{{Type: ElementText, Content: "x", Align: "middle"}}}, errors.ErrCodeInvalidElement},
		{"bad background", Section{SectionType: SectionCTA, BackgroundColor: "300,0,0", Elements: []Element{text}}, errors.ErrCodeInvalidInput},
		{"bad anchor", Section{SectionType: SectionCTA, Anchor: "has space", Elements: []Element{text}}, errors.ErrCodeInvalidID},
		{"generated-looking anchor", Section{SectionType: SectionCTA, Anchor: "pricing_2024_plans", Elements: []Element{text}}, errors.ErrCodeInvalidID},
		{"unknown item element", Section{SectionType: SectionFeatures, Items: []Item{{Elements: []Element{{Type: "map"}}}}}, errors.ErrCodeInvalidElement},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &Input{Sections: []Section{
				{SectionType: SectionHeader, Elements: []Element{text}},
				tt.section,
			}}
			d, err := Expand(in, Options{})
			if err == nil {
				t.Fatal("expected error")
			}
			if d != nil {
				t.Error("partial document returned alongside error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %s, want %s (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestDuplicateAnchor(t *testing.T) {
	in := &Input{Sections: []Section{
		{SectionType: SectionCTA, Anchor: "join", Elements: []Element{{Type: ElementText, Content: "a"}}},
		{SectionType: SectionCTA, Anchor: "join", Elements: []Element{{Type: ElementText, Content: "b"}}},
	}}
	_, err := Expand(in, Options{})
	if !errors.Is(err, errors.ErrCodeInvalidID) {
		t.Errorf("err = %v, want INVALID_ID", err)
	}
}

func TestExpandedPageValidates(t *testing.T) {
	in, err := ReadInput(strings.NewReader(landingPage))
	if err != nil {
		t.Fatalf("ReadInput: %v", err)
	}
	d := expandOK(t, in)
	issues, err := validate.Document(d)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	for _, is := range issues {
		t.Errorf("unexpected issue: %s", is)
	}
	if got := d.Root().Props["title"]; got != "Acme" {
		t.Errorf("title = %v", got)
	}
}

func TestReadInputRejectsMalformedJSON(t *testing.T) {
	_, err := ReadInput(strings.NewReader(`{"sections": [`))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

const landingPage = `{
  "title": "Acme",
  "sections": [
    {"sectionType": "header", "elements": [
      {"type": "text", "purpose": "logo", "content": "Acme"},
      {"type": "button", "text": "Sign up", "scrollTo": "signup"}
    ]},
    {"sectionType": "hero", "layout": "text-left-image-right", "backgroundColor": "15,23,42", "elements": [
      {"type": "text", "purpose": "headline", "content": "Pages in minutes", "color": "255,255,255"},
      {"type": "text", "purpose": "subheadline", "content": "No code required."},
      {"type": "image", "src": "https://example.com/a.png", "alt": "Screenshot"}
    ]},
    {"sectionType": "features", "elements": [
      {"type": "text", "purpose": "section-title", "content": "Why Acme"}
    ], "items": [
      {"elements": [{"type": "text", "purpose": "feature-title", "content": "Fast"}]},
      {"elements": [{"type": "text", "purpose": "feature-title", "content": "Simple"}]},
      {"elements": [{"type": "text", "purpose": "feature-title", "content": "Cheap"}]}
    ]},
    {"sectionType": "cta", "anchor": "signup", "elements": [
      {"type": "countdown", "endDate": "2030-01-01T00:00:00Z"},
      {"type": "video", "embedCode": "<iframe src=\"https://example.com/v\"></iframe>"},
      {"type": "form", "redirectUrl": "https://example.com/thanks", "fields": [
        {"type": "email", "label": "Email"},
        {"type": "selection", "label": "Interests", "options": ["News", "Events"], "multiple": true},
        {"type": "phone", "label": "Phone"}
      ]}
    ]}
  ]
}`
