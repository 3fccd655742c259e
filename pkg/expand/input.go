package expand

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/pagecraft/pkg/errors"
)

// Input is the compact, section-oriented page description produced by an
// upstream content planner.
type Input struct {
	Title    string    `json:"title,omitempty"`
	Sections []Section `json:"sections"`
}

// Section is one full-width band of the page.
type Section struct {
	SectionType     string    `json:"sectionType"`
	Layout          string    `json:"layout,omitempty"`
	Anchor          string    `json:"anchor,omitempty"`
	BackgroundColor string    `json:"backgroundColor,omitempty"`
	Elements        []Element `json:"elements"`
	Items           []Item    `json:"items,omitempty"`
}

// Item is one card of a section's equal-width row.
type Item struct {
	Elements []Element `json:"elements"`
}

// Element is a single content block. Which fields apply depends on Type.
type Element struct {
	Type string `json:"type"`

	// text
	Purpose string  `json:"purpose,omitempty"`
	Content string  `json:"content,omitempty"`
	Align   string  `json:"align,omitempty"`
	Size    float64 `json:"size,omitempty"`
	Weight  float64 `json:"weight,omitempty"`
	Color   string  `json:"color,omitempty"`

	// button
	Text     string `json:"text,omitempty"`
	URL      string `json:"url,omitempty"`
	ScrollTo string `json:"scrollTo,omitempty"`
	NewTab   bool   `json:"newTab,omitempty"`

	// image, video
	Src       string `json:"src,omitempty"`
	Alt       string `json:"alt,omitempty"`
	EmbedCode string `json:"embedCode,omitempty"`
	Autoplay  bool   `json:"autoplay,omitempty"`

	// countdown
	EndDate  string `json:"endDate,omitempty"`
	Timezone string `json:"timezone,omitempty"`

	// form
	Fields         []Field `json:"fields,omitempty"`
	SubmitText     string  `json:"submitText,omitempty"`
	SuccessMessage string  `json:"successMessage,omitempty"`
	RedirectURL    string  `json:"redirectUrl,omitempty"`
}

// Field is one input of a form element.
type Field struct {
	Type        string   `json:"type"`
	Label       string   `json:"label,omitempty"`
	Placeholder string   `json:"placeholder,omitempty"`
	Name        string   `json:"name,omitempty"`
	Required    *bool    `json:"required,omitempty"`
	Multiple    bool     `json:"multiple,omitempty"`
	Options     []string `json:"options,omitempty"`
}

// ReadInput decodes a simplified input from r.
func ReadInput(r io.Reader) (*Input, error) {
	var in Input
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode simplified input")
	}
	return &in, nil
}
