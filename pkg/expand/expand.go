// Package expand turns a compact, section-oriented page description into a
// complete page document.
//
// Each section becomes a container under ROOT styled from a fixed house-style
// table keyed by section type. Elements become leaf nodes; text elements take
// their size and weight from the purpose typography table and their
// alignment from the section alignment table, unless the element overrides
// them.
//
// Two sections get structure beyond flattening:
//
//   - a hero with a text-left-image-right or text-right-image-left layout is
//     split into a content column and a media column, each flexBasis 50% and
//     flexGrow 1;
//   - a section with items gets a row holding one card per item, each card
//     carrying flexBasis 0%, flexGrow 1 and fillSpace yes so the cards share
//     the row at equal width regardless of content length.
//
// Any unknown section type, layout, element type, purpose or field type, and
// any missing required sub-field, rejects the whole input. Expand never
// returns a partially built document.
package expand

import (
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pagecraft/pkg/attr"
	"github.com/matzehuels/pagecraft/pkg/doc"
	"github.com/matzehuels/pagecraft/pkg/errors"
	"github.com/matzehuels/pagecraft/pkg/ids"
)

// Options configures an expansion.
type Options struct {
	// IDs generates node identifiers. Defaults to [ids.NewRandom].
	IDs ids.Generator

	// Logger receives debug output. Defaults to a discarding logger.
	Logger *log.Logger
}

// Expand builds a document from in.
func Expand(in *Input, opts Options) (*doc.Document, error) {
	if in == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no input")
	}
	if opts.IDs == nil {
		opts.IDs = ids.NewRandom()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	e := &expander{d: doc.New(), ids: opts.IDs, logger: opts.Logger}
	if in.Title != "" {
		e.d.Root().Props["title"] = in.Title
	}
	for i, s := range in.Sections {
		if err := e.section(i, s); err != nil {
			return nil, err
		}
	}
	e.logger.Debug("expanded input", "sections", len(in.Sections), "nodes", e.d.Len())
	return e.d, nil
}

type expander struct {
	d      *doc.Document
	ids    ids.Generator
	logger *log.Logger
}

// scope is what element expansion needs to know about its surroundings.
type scope struct {
	section string
	layout  string
	where   string
}

func (sc scope) at(format string, args ...any) scope {
	sc.where += fmt.Sprintf(format, args...)
	return sc
}

// create adds a node of type t under parent. An empty id is generated.
func (e *expander) create(parent string, t doc.ComponentType, id string) (*doc.Node, error) {
	if id == "" {
		id = e.ids.Next(strings.ToLower(string(t)))
	}
	n, err := e.d.CreateNode(id, t)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidID, err, "create %s %q", t, id)
	}
	if err := e.d.AddChild(parent, id); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "attach %s to %s", id, parent)
	}
	return n, nil
}

func applyStyle(n *doc.Node, s sectionStyle) {
	n.Props["flexDirection"] = s.direction
	n.Props["alignItems"] = s.align
	n.Props["justifyContent"] = s.justify
	n.Props["gap"] = s.gap
	n.Props["padding"] = s.padding
	n.Props["minHeight"] = s.minHeight
	n.Props["maxWidth"] = s.maxWidth
}

func (e *expander) section(i int, s Section) error {
	sc := scope{section: s.SectionType, layout: s.Layout, where: fmt.Sprintf("sections[%d]", i)}

	style, ok := houseStyle[s.SectionType]
	if !ok {
		return errors.New(errors.ErrCodeInvalidSection, "%s: unknown section type %q", sc.where, s.SectionType)
	}
	if !slices.Contains(Layouts, s.Layout) {
		return errors.New(errors.ErrCodeInvalidLayout, "%s: unknown layout %q", sc.where, s.Layout)
	}
	if s.Anchor != "" {
		if err := errors.ValidateNodeID(s.Anchor); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidID, err, "%s: anchor", sc.where)
		}
		if ids.IsSynthesized(s.Anchor) {
			return errors.New(errors.ErrCodeInvalidID, "%s: anchor %q has the form of a generated identifier", sc.where, s.Anchor)
		}
	}
	twoColumn := s.SectionType == SectionHero &&
		(s.Layout == LayoutTextLeftImage || s.Layout == LayoutTextRightImage)
	if twoColumn {
		style = heroSplit
	}
	if s.Layout == LayoutCentered {
		style.align = "center"
	}

	n, err := e.create(doc.RootID, doc.Container, s.Anchor)
	if err != nil {
		return err
	}
	applyStyle(n, style)
	n.DisplayName = sectionName(s.SectionType)
	if s.BackgroundColor != "" {
		c, err := attr.ParseColor(s.BackgroundColor)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: backgroundColor", sc.where)
		}
		n.Props["background"] = c
	}

	switch {
	case twoColumn:
		err = e.split(n.ID, s, sc)
	case s.Layout == LayoutGrid && len(s.Items) == 0:
		err = e.gridFromElements(n.ID, s.Elements, sc)
	default:
		err = e.elements(n.ID, s.Elements, sc)
	}
	if err != nil {
		return err
	}
	if len(s.Items) > 0 {
		if err := e.grid(n.ID, itemCards(s.Items, sc)); err != nil {
			return err
		}
	}

	e.logger.Debug("expanded section", "type", s.SectionType, "layout", s.Layout, "id", n.ID)
	return nil
}

// split builds the two columns of a hero section. Images and videos go to
// the media column, everything else to the content column.
func (e *expander) split(parent string, s Section, sc scope) error {
	type column struct {
		name  string
		align string
		elems []Element
		idx   []int
	}
	content := column{name: "Content Column", align: "flex-start"}
	media := column{name: "Media Column", align: "center"}
	for i, el := range s.Elements {
		if el.Type == ElementImage || el.Type == ElementVideo {
			media.elems, media.idx = append(media.elems, el), append(media.idx, i)
		} else {
			content.elems, content.idx = append(content.elems, el), append(content.idx, i)
		}
	}

	cols := []column{content, media}
	if s.Layout == LayoutTextRightImage {
		cols = []column{media, content}
	}
	for _, col := range cols {
		n, err := e.create(parent, doc.Container, "")
		if err != nil {
			return err
		}
		applyStyle(n, columnStyle)
		n.Props["alignItems"] = col.align
		n.Props["flexBasis"] = "50%"
		n.Props["flexGrow"] = 1.0
		n.DisplayName = col.name
		for j, el := range col.elems {
			if err := e.element(n.ID, el, sc.at(".elements[%d]", col.idx[j])); err != nil {
				return err
			}
		}
	}
	return nil
}

// cardContent is what goes into one grid card. idx holds each element's
// position in the list it came from.
type cardContent struct {
	elems []Element
	idx   []int
	sc    scope
}

func itemCards(items []Item, sc scope) []cardContent {
	cards := make([]cardContent, len(items))
	for i, it := range items {
		cards[i] = cardContent{elems: it.Elements, sc: sc.at(".items[%d]", i)}
		for j := range it.Elements {
			cards[i].idx = append(cards[i].idx, j)
		}
	}
	return cards
}

// groupCards splits a grid section's elements into heading elements and
// cards. A card starts at each element with a lead purpose and takes the
// elements after it. Without any lead purpose every element is its own card.
func groupCards(elems []Element, sc scope) (head []int, cards []cardContent) {
	leads := slices.ContainsFunc(elems, func(el Element) bool { return cardLeads[el.Purpose] })
	for i, el := range elems {
		switch {
		case len(cards) == 0 && headingPurposes[el.Purpose]:
			head = append(head, i)
		case !leads || cardLeads[el.Purpose]:
			cards = append(cards, cardContent{elems: []Element{el}, idx: []int{i}, sc: sc})
		case len(cards) == 0:
			head = append(head, i)
		default:
			c := &cards[len(cards)-1]
			c.elems = append(c.elems, el)
			c.idx = append(c.idx, i)
		}
	}
	return head, cards
}

func (e *expander) gridFromElements(parent string, elems []Element, sc scope) error {
	head, cards := groupCards(elems, sc)
	for _, i := range head {
		if err := e.element(parent, elems[i], sc.at(".elements[%d]", i)); err != nil {
			return err
		}
	}
	if len(cards) == 0 {
		return nil
	}
	return e.grid(parent, cards)
}

// grid builds an equal-width row with one card per entry of cards.
func (e *expander) grid(parent string, cards []cardContent) error {
	row, err := e.create(parent, doc.Container, "")
	if err != nil {
		return err
	}
	applyStyle(row, gridRow)
	row.DisplayName = "Grid"

	for _, cc := range cards {
		c, err := e.create(row.ID, doc.Container, "")
		if err != nil {
			return err
		}
		applyStyle(c, card)
		c.Props["alignItems"] = flexAlign(alignFor(cc.sc.section, cc.sc.layout, ""))
		c.Props["flexBasis"] = "0%"
		c.Props["flexGrow"] = 1.0
		c.Props["fillSpace"] = "yes"
		if bg, ok := cardBackground[cc.sc.section]; ok {
			c.Props["background"] = bg
			c.Props["borderRadius"] = 12.0
		}
		c.DisplayName = "Card"
		for j, el := range cc.elems {
			if err := e.element(c.ID, el, cc.sc.at(".elements[%d]", cc.idx[j])); err != nil {
				return err
			}
		}
	}
	return nil
}

func (e *expander) elements(parent string, elems []Element, sc scope) error {
	for i, el := range elems {
		if err := e.element(parent, el, sc.at(".elements[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

func (e *expander) element(parent string, el Element, sc scope) error {
	switch el.Type {
	case ElementText:
		return e.text(parent, el, sc)
	case ElementButton:
		return e.button(parent, el, sc)
	case ElementImage:
		return e.image(parent, el, sc)
	case ElementVideo:
		return e.video(parent, el, sc)
	case ElementCountdown:
		return e.countdown(parent, el, sc)
	case ElementForm:
		return e.form(parent, el, sc)
	default:
		return errors.New(errors.ErrCodeInvalidElement, "%s: unknown element type %q", sc.where, el.Type)
	}
}

func missing(sc scope, field string) error {
	return errors.New(errors.ErrCodeMissingField, "%s: %s is required", sc.where, field)
}

func (e *expander) text(parent string, el Element, sc scope) error {
	if strings.TrimSpace(el.Content) == "" {
		return missing(sc, "content")
	}
	purpose := el.Purpose
	if purpose == "" {
		purpose = PurposeBodyText
	}
	typo, ok := typographyTable[purpose]
	if !ok {
		return errors.New(errors.ErrCodeInvalidPurpose, "%s: unknown purpose %q", sc.where, purpose)
	}

	align := alignFor(sc.section, sc.layout, purpose)
	if el.Align != "" {
		if !slices.Contains(textAligns, el.Align) {
			return errors.New(errors.ErrCodeInvalidElement, "%s: align must be one of %s", sc.where, strings.Join(textAligns, ", "))
		}
		align = el.Align
	}
	if el.Size < 0 || el.Weight < 0 {
		return errors.New(errors.ErrCodeInvalidElement, "%s: size and weight must be positive", sc.where)
	}
	if el.Size > 0 {
		typo.size = el.Size
	}
	if el.Weight > 0 {
		typo.weight = el.Weight
	}

	n, err := e.create(parent, doc.Text, "")
	if err != nil {
		return err
	}
	if el.Color != "" {
		c, err := attr.ParseColor(el.Color)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidElement, err, "%s: color", sc.where)
		}
		n.Props["color"] = c
	}
	n.Props["textAlign"] = align
	n.Props["paragraphs"] = paragraphs(el.Content, typo)
	n.DisplayName = titleCase(purpose)
	return nil
}

var blankLine = regexp.MustCompile(`\n[ \t]*\n`)

// paragraphs splits content on blank lines into styled paragraphs.
func paragraphs(content string, typo typography) []attr.Paragraph {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var out []attr.Paragraph
	for _, chunk := range blankLine.Split(content, -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		s := attr.DefaultSpan()
		s.Text = chunk
		s.Size = typo.size
		s.Weight = typo.weight
		s.Style = typo.style
		s.Transform = typo.transform
		s.Spacing = typo.spacing
		out = append(out, attr.Paragraph{Spans: []attr.Span{s}})
	}
	return out
}

func (e *expander) button(parent string, el Element, sc scope) error {
	if strings.TrimSpace(el.Text) == "" {
		return missing(sc, "text")
	}
	n, err := e.create(parent, doc.Button, "")
	if err != nil {
		return err
	}
	n.Props["text"] = el.Text
	switch {
	case el.URL != "":
		n.Props["clickEvent"] = attr.Action{Type: attr.ActionURL, URL: el.URL, NewTab: el.NewTab}
	case el.ScrollTo != "":
		n.Props["clickEvent"] = attr.Action{Type: attr.ActionScroll, Target: strings.TrimPrefix(el.ScrollTo, "#")}
	}
	return nil
}

func (e *expander) image(parent string, el Element, sc scope) error {
	if el.Src == "" {
		return missing(sc, "src")
	}
	n, err := e.create(parent, doc.Image, "")
	if err != nil {
		return err
	}
	n.Props["src"] = el.Src
	n.Props["alt"] = el.Alt
	if sc.section == SectionHeader {
		n.Props["width"] = "auto"
		n.Props["height"] = "40px"
	}
	return nil
}

func (e *expander) video(parent string, el Element, sc scope) error {
	if el.Src == "" && el.EmbedCode == "" {
		return missing(sc, "src or embedCode")
	}
	n, err := e.create(parent, doc.Video, "")
	if err != nil {
		return err
	}
	n.Props["src"] = el.Src
	n.Props["embedCode"] = el.EmbedCode
	n.Props["autoplay"] = el.Autoplay
	return nil
}

func (e *expander) countdown(parent string, el Element, sc scope) error {
	if el.EndDate == "" {
		return missing(sc, "endDate")
	}
	n, err := e.create(parent, doc.Countdown, "")
	if err != nil {
		return err
	}
	n.Props["endDate"] = el.EndDate
	if el.Timezone != "" {
		n.Props["timezone"] = el.Timezone
	}
	return nil
}

// form expands into a Form node, one node per field in declaration order,
// and a trailing submit button.
func (e *expander) form(parent string, el Element, sc scope) error {
	if len(el.Fields) == 0 {
		return missing(sc, "fields")
	}
	// Fields are checked before any node is created.
	for i, f := range el.Fields {
		t, ok := fieldTypes[f.Type]
		if !ok {
			return errors.New(errors.ErrCodeInvalidElement, "%s.fields[%d]: unknown field type %q", sc.where, i, f.Type)
		}
		if (t == doc.DropdownField || t == doc.SelectionField) && len(f.Options) == 0 {
			return missing(sc.at(".fields[%d]", i), "options")
		}
	}

	form, err := e.create(parent, doc.Form, "")
	if err != nil {
		return err
	}
	switch {
	case el.SuccessMessage != "":
		form.Props["followupAction"] = attr.Action{Type: attr.ActionMessage, Message: el.SuccessMessage}
	case el.RedirectURL != "":
		form.Props["followupAction"] = attr.Action{Type: attr.ActionRedirect, URL: el.RedirectURL}
	}

	for _, f := range el.Fields {
		t := fieldTypes[f.Type]
		n, err := e.create(form.ID, t, "")
		if err != nil {
			return err
		}
		schema := doc.MustSchema(t)
		n.Props["label"] = f.Label
		n.Props["name"] = fieldName(f)
		if _, ok := schema.Attr("placeholder"); ok && f.Placeholder != "" {
			n.Props["placeholder"] = f.Placeholder
		}
		if f.Required != nil {
			n.Props["required"] = *f.Required
		}
		if len(f.Options) > 0 {
			opts := make([]attr.Option, len(f.Options))
			for i, o := range f.Options {
				opts[i] = attr.Option{Label: o}
			}
			n.Props["options"] = opts
		}
		if t == doc.SelectionField {
			n.Props["multiple"] = f.Multiple
		}
	}

	submit, err := e.create(form.ID, doc.SubmitButton, "")
	if err != nil {
		return err
	}
	if el.SubmitText != "" {
		submit.Props["text"] = el.SubmitText
	}
	return nil
}

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// fieldName derives a form field name from its label, falling back to the
// field type.
func fieldName(f Field) string {
	if f.Name != "" {
		return f.Name
	}
	name := strings.Trim(nonWord.ReplaceAllString(strings.ToLower(f.Label), "_"), "_")
	if name == "" {
		return f.Type
	}
	return name
}

func sectionName(t string) string {
	if t == SectionCTA || t == SectionFAQ {
		return strings.ToUpper(t) + " Section"
	}
	return titleCase(t) + " Section"
}

// titleCase turns "feature-title" into "Feature Title".
func titleCase(s string) string {
	words := strings.Split(s, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
