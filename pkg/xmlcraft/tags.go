// Package xmlcraft reads and writes the XML-Craft textual form of page
// documents.
//
// An XML-Craft document has a single Page root. Every other component is an
// element named by the tag table (FormEmailField for EmailField and so on),
// with its scalar properties as attributes in the encodings of package attr.
// Structured properties are written as special child elements that never
// become nodes:
//
//	<Tablet gap="8"/>                     breakpoint overrides
//	<ClickEvent type="url" url="..."/>    also ExpireEvent, FollowupAction
//	<Gradient for="background" type="linear" angle="90">
//	  <Stop color="255,0,0" offset="0"/>
//	</Gradient>
//	<EmbedCode>...</EmbedCode>            raw video embed markup
//	<Option value="a">Label</Option>      dropdown and selection choices
//	<p><span size="20px">text</span></p>  Text paragraphs
//
// The node attributes id, displayName, locked and hidden map to node fields
// rather than properties. Identifiers that are not given explicitly are
// synthesized from the lowercased tag, the run timestamp and a seeded
// suffix, so two parses of the same input with the same timestamp and seed
// agree.
//
// [Marshal] writes only properties that differ from the component default
// and writes id only for identifiers that were not synthesized, so one
// [Parse]/[Marshal] round trip reaches a fixed point.
package xmlcraft

import (
	"maps"

	"github.com/matzehuels/pagecraft/pkg/doc"
)

// Special child element names.
const (
	tagTablet         = "Tablet"
	tagMobile         = "Mobile"
	tagClickEvent     = "ClickEvent"
	tagExpireEvent    = "ExpireEvent"
	tagFollowupAction = "FollowupAction"
	tagGradient       = "Gradient"
	tagStop           = "Stop"
	tagEmbedCode      = "EmbedCode"
	tagOption         = "Option"
	tagParagraph      = "p"
	tagSpan           = "span"
)

// Node attributes that are not properties.
const (
	attrID          = "id"
	attrDisplayName = "displayName"
	attrLocked      = "locked"
	attrHidden      = "hidden"
)

var tagTypes = map[string]doc.ComponentType{
	"Page":               doc.Page,
	"Container":          doc.Container,
	"Text":               doc.Text,
	"Button":             doc.Button,
	"Image":              doc.Image,
	"Video":              doc.Video,
	"Form":               doc.Form,
	"FormEmailField":     doc.EmailField,
	"FormTextField":      doc.TextField,
	"FormPhoneField":     doc.PhoneField,
	"FormConsentField":   doc.ConsentField,
	"FormDropdownField":  doc.DropdownField,
	"FormSelectionField": doc.SelectionField,
	"FormSubmitButton":   doc.SubmitButton,
	"Countdown":          doc.Countdown,
}

var typeTags = invert(tagTypes)

func invert(m map[string]doc.ComponentType) map[doc.ComponentType]string {
	out := make(map[doc.ComponentType]string, len(m))
	for tag, t := range maps.All(m) {
		out[t] = tag
	}
	return out
}

// TypeForTag resolves an element name to its component type.
func TypeForTag(tag string) (doc.ComponentType, bool) {
	t, ok := tagTypes[tag]
	return t, ok
}

// TagForType returns the element name of a component type.
func TagForType(t doc.ComponentType) (string, bool) {
	tag, ok := typeTags[t]
	return tag, ok
}

// actionTags maps action elements to the property they fill.
var actionTags = map[string]string{
	tagClickEvent:     "clickEvent",
	tagExpireEvent:    "expireEvent",
	tagFollowupAction: "followupAction",
}

// actionProps lists action properties in the order they are written.
var actionProps = [][2]string{
	{"clickEvent", tagClickEvent},
	{"expireEvent", tagExpireEvent},
	{"followupAction", tagFollowupAction},
}

// breakpointTags maps breakpoint elements to their override bag.
var breakpointTags = map[string]string{
	tagTablet: doc.TabletKey,
	tagMobile: doc.MobileKey,
}
