package attr

import "slices"

// ActionType selects what an [Action] does.
type ActionType string

// Supported action types.
const (
	ActionNone     ActionType = ""
	ActionURL      ActionType = "url"
	ActionScroll   ActionType = "scroll"
	ActionMessage  ActionType = "message"
	ActionRedirect ActionType = "redirect"
	ActionHide     ActionType = "hide"
)

// ActionTypes lists the non-empty action types in canonical order.
var ActionTypes = []string{
	string(ActionURL), string(ActionScroll), string(ActionMessage),
	string(ActionRedirect), string(ActionHide),
}

// Action is the structured value behind ClickEvent, ExpireEvent and
// FollowupAction elements. The zero value means "do nothing".
type Action struct {
	Type    ActionType `json:"type,omitempty"`
	URL     string     `json:"url,omitempty"`
	Target  string     `json:"target,omitempty"` // element id for scroll and hide
	Message string     `json:"message,omitempty"`
	NewTab  bool       `json:"newTab,omitempty"`
}

// IsZero reports whether a carries no action.
func (a Action) IsZero() bool { return a == Action{} }

// Check verifies that a has the fields its type needs.
func (a Action) Check() error {
	switch a.Type {
	case ActionNone:
		return nil
	case ActionURL, ActionRedirect:
		if a.URL == "" {
			return parseErr(KindAction, string(a.Type), "url is required")
		}
	case ActionScroll, ActionHide:
		if a.Target == "" {
			return parseErr(KindAction, string(a.Type), "target is required")
		}
	case ActionMessage:
		if a.Message == "" {
			return parseErr(KindAction, string(a.Type), "message is required")
		}
	default:
		return parseErr(KindAction, string(a.Type), "unknown action type")
	}
	return nil
}

// ParseAction builds an action from element attributes
// (type, url, target, message, newTab).
func ParseAction(attrs map[string]string) (Action, error) {
	t := attrs["type"]
	if t != "" && !slices.Contains(ActionTypes, t) {
		return Action{}, parseErr(KindAction, t, "unknown action type")
	}
	a := Action{
		Type:    ActionType(t),
		URL:     attrs["url"],
		Target:  attrs["target"],
		Message: attrs["message"],
	}
	if s, ok := attrs["newTab"]; ok {
		b, err := ParseBool(s)
		if err != nil {
			return Action{}, err
		}
		a.NewTab = b
	}
	if err := a.Check(); err != nil {
		return Action{}, err
	}
	return a, nil
}

// FormatAction returns the attributes of a as ordered name/value pairs,
// skipping empty fields.
func FormatAction(a Action) [][2]string {
	var out [][2]string
	add := func(k, v string) {
		if v != "" {
			out = append(out, [2]string{k, v})
		}
	}
	add("type", string(a.Type))
	add("url", a.URL)
	add("target", a.Target)
	add("message", a.Message)
	if a.NewTab {
		add("newTab", "true")
	}
	return out
}
