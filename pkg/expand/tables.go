package expand

import (
	"github.com/matzehuels/pagecraft/pkg/attr"
	"github.com/matzehuels/pagecraft/pkg/doc"
)

// Section types.
const (
	SectionHeader       = "header"
	SectionHero         = "hero"
	SectionFeatures     = "features"
	SectionCTA          = "cta"
	SectionTestimonials = "testimonials"
	SectionAbout        = "about"
	SectionFAQ          = "faq"
	SectionContact      = "contact"
	SectionStats        = "stats"
	SectionPricing      = "pricing"
)

// Layouts. A LayoutGrid section without items is split into cards at each
// element whose purpose leads a card.
const (
	LayoutDefault        = ""
	LayoutCentered       = "centered"
	LayoutGrid           = "grid"
	LayoutTextLeftImage  = "text-left-image-right"
	LayoutTextRightImage = "text-right-image-left"
)

// Element types.
const (
	ElementText      = "text"
	ElementButton    = "button"
	ElementImage     = "image"
	ElementVideo     = "video"
	ElementCountdown = "countdown"
	ElementForm      = "form"
)

// Layouts lists every accepted section layout.
var Layouts = []string{LayoutDefault, LayoutCentered, LayoutGrid, LayoutTextLeftImage, LayoutTextRightImage}

// ElementTypes lists every accepted element type.
var ElementTypes = []string{ElementText, ElementButton, ElementImage, ElementVideo, ElementCountdown, ElementForm}

// sectionStyle is the house style of one section container.
type sectionStyle struct {
	direction string
	align     string
	justify   string
	gap       float64
	padding   attr.Spacing
	minHeight float64
	maxWidth  float64
}

var houseStyle = map[string]sectionStyle{
	SectionHeader:       {"row", "center", "space-between", 20, attr.Symmetric(0, 40), 60, 0},
	SectionHero:         {"column", "flex-start", "center", 24, attr.Symmetric(80, 40), 480, 0},
	SectionFeatures:     {"column", "center", "flex-start", 40, attr.Symmetric(96, 40), 0, 0},
	SectionCTA:          {"column", "center", "center", 24, attr.Symmetric(80, 40), 0, 0},
	SectionTestimonials: {"column", "center", "flex-start", 32, attr.Symmetric(80, 40), 0, 0},
	SectionAbout:        {"column", "flex-start", "flex-start", 20, attr.Symmetric(80, 40), 0, 960},
	SectionFAQ:          {"column", "flex-start", "flex-start", 16, attr.Symmetric(80, 40), 0, 800},
	SectionContact:      {"column", "center", "flex-start", 24, attr.Symmetric(80, 40), 0, 640},
	SectionStats:        {"column", "center", "center", 32, attr.Symmetric(64, 40), 0, 0},
	SectionPricing:      {"column", "center", "flex-start", 40, attr.Symmetric(96, 40), 0, 0},
}

// heroSplit is the section style of a two-column hero.
var heroSplit = sectionStyle{"row", "center", "space-between", 48, attr.Symmetric(80, 40), 480, 0}

// columnStyle is shared by both hero columns; only alignment differs.
var columnStyle = sectionStyle{"column", "flex-start", "center", 20, attr.Uniform(0), 0, 0}

// gridRow holds the cards built from a section's items.
var gridRow = sectionStyle{"row", "stretch", "center", 24, attr.Uniform(0), 0, 0}

// card is the per-item container inside gridRow.
var card = sectionStyle{"column", "center", "flex-start", 12, attr.Uniform(24), 0, 0}

// cardLeads are the purposes that open a new card when a grid section's
// elements are grouped into cards.
var cardLeads = map[string]bool{
	"feature-title":     true,
	"stat-number":       true,
	"testimonial-quote": true,
	"plan-name":         true,
	"question":          true,
}

// headingPurposes stay above the grid when they come before the first card.
var headingPurposes = map[string]bool{
	"eyebrow":       true,
	"headline":      true,
	"subheadline":   true,
	"section-title": true,
}

// cardBackground is applied to cards in sections that present them as tiles.
var cardBackground = map[string]attr.Color{
	SectionTestimonials: attr.RGB(249, 250, 251),
	SectionPricing:      attr.RGB(249, 250, 251),
}

// typography is the size and weight resolved from a text purpose.
type typography struct {
	size      float64
	weight    float64
	style     string
	transform string
	spacing   float64
}

// PurposeBodyText is assumed when a text element names no purpose.
const PurposeBodyText = "body-text"

var typographyTable = map[string]typography{
	"headline":            {48, 700, "normal", "none", 0},
	"subheadline":         {20, 400, "normal", "none", 0},
	"section-title":       {36, 700, "normal", "none", 0},
	"eyebrow":             {14, 600, "normal", "uppercase", 1},
	PurposeBodyText:       {16, 400, "normal", "none", 0},
	"feature-title":       {20, 600, "normal", "none", 0},
	"feature-description": {16, 400, "normal", "none", 0},
	"stat-number":         {40, 700, "normal", "none", 0},
	"stat-label":          {14, 500, "normal", "none", 0},
	"testimonial-quote":   {18, 400, "italic", "none", 0},
	"testimonial-author":  {14, 600, "normal", "none", 0},
	"plan-name":           {20, 600, "normal", "none", 0},
	"plan-price":          {40, 700, "normal", "none", 0},
	"plan-feature":        {14, 400, "normal", "none", 0},
	"question":            {18, 600, "normal", "none", 0},
	"answer":              {16, 400, "normal", "none", 0},
	"logo":                {22, 700, "normal", "none", 0},
	"nav-link":            {15, 500, "normal", "none", 0},
	"caption":             {12, 400, "normal", "none", 0},
}

// sectionAlign is the default textAlign per section type.
var sectionAlign = map[string]string{
	SectionHeader:       "left",
	SectionHero:         "left",
	SectionFeatures:     "center",
	SectionCTA:          "center",
	SectionTestimonials: "center",
	SectionAbout:        "left",
	SectionFAQ:          "left",
	SectionContact:      "center",
	SectionStats:        "center",
	SectionPricing:      "center",
}

// purposeAlign overrides sectionAlign for particular purposes.
var purposeAlign = map[string]map[string]string{
	SectionAbout: {"stat-number": "center", "stat-label": "center"},
	SectionFAQ:   {"section-title": "center"},
}

var textAligns = []string{"left", "center", "right", "justify"}

// alignFor resolves the textAlign of a text element with the given purpose.
// The centered layout centers everything.
func alignFor(section, layout, purpose string) string {
	if layout == LayoutCentered {
		return "center"
	}
	if a, ok := purposeAlign[section][purpose]; ok {
		return a
	}
	return sectionAlign[section]
}

// flexAlign maps a text alignment to the alignItems of its card.
func flexAlign(textAlign string) string {
	switch textAlign {
	case "left":
		return "flex-start"
	case "right":
		return "flex-end"
	default:
		return "center"
	}
}

// fieldTypes maps simplified field types to component types.
var fieldTypes = map[string]doc.ComponentType{
	"email":     doc.EmailField,
	"text":      doc.TextField,
	"phone":     doc.PhoneField,
	"consent":   doc.ConsentField,
	"dropdown":  doc.DropdownField,
	"selection": doc.SelectionField,
}
