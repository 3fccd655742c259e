// Package attr implements the attribute codec of the XML-Craft page format.
//
// Every property value in a page document is stored in a typed Go form and
// rendered as a compact attribute string in XML-Craft. This package owns both
// directions for each primitive encoding:
//
//   - [Spacing]: top/right/bottom/left quads ("20", "20,10", "1,2,3,4")
//   - [Color]: "r,g,b" or "r,g,b,a"; the empty string means no color
//   - [Visibility]: per-breakpoint flags ("true,true,false")
//   - booleans, numbers, pixel lengths and enum literals
//
// Parsing is strict. A malformed value yields a [*ParseError] naming the
// encoding and the offending input; callers decide whether to abort or to fall
// back to a default. Formatting always emits the canonical order.
//
// The package also defines the structured values that live in property bags
// but are projected as child elements in XML-Craft: [Action], [Gradient],
// [Option] and [Paragraph].
//
// All functions are pure and safe for concurrent use.
package attr
