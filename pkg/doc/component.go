package doc

import "slices"

// ComponentType is the closed set of page component kinds.
type ComponentType string

// Component types.
const (
	Page           ComponentType = "Page"
	Container      ComponentType = "Container"
	Text           ComponentType = "Text"
	Button         ComponentType = "Button"
	Image          ComponentType = "Image"
	Video          ComponentType = "Video"
	Form           ComponentType = "Form"
	EmailField     ComponentType = "EmailField"
	TextField      ComponentType = "TextField"
	PhoneField     ComponentType = "PhoneField"
	ConsentField   ComponentType = "ConsentField"
	DropdownField  ComponentType = "DropdownField"
	SelectionField ComponentType = "SelectionField"
	SubmitButton   ComponentType = "SubmitButton"
	Countdown      ComponentType = "Countdown"
)

// ComponentTypes lists every component type in table order.
var ComponentTypes = []ComponentType{
	Page, Container, Text, Button, Image, Video, Form,
	EmailField, TextField, PhoneField, ConsentField, DropdownField, SelectionField, SubmitButton,
	Countdown,
}

// FieldTypes lists the form field component types.
var FieldTypes = []ComponentType{
	EmailField, TextField, PhoneField, ConsentField, DropdownField, SelectionField, SubmitButton,
}

// Known reports whether t belongs to the component set.
func (t ComponentType) Known() bool { return slices.Contains(ComponentTypes, t) }

// IsContainer reports whether t may own arbitrary children. Form is not a
// container by tag even though it owns its field children.
func (t ComponentType) IsContainer() bool { return t == Page || t == Container }

// IsField reports whether t is a form field, submit button included.
func (t ComponentType) IsField() bool { return slices.Contains(FieldTypes, t) }

// CanOwn reports whether a node of type t may hold a child of type child.
func (t ComponentType) CanOwn(child ComponentType) bool {
	if t == Form {
		return child.IsField()
	}
	return t.IsContainer() && child != Page
}
