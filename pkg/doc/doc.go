// Package doc implements the node-graph page document.
//
// A [Document] is a flat table of [Node] records keyed by identifier. Exactly
// one node, [RootID], has type [Page] and no parent; every other node names
// its parent and appears exactly once in that parent's child list. The flat
// layout is also the wire format handed to the render service, so the
// in-memory model and the JSON encoding line up one to one.
//
// # Arena and index
//
// Nodes live in a single growable slice addressed through an identifier index.
// Parent and child relationships are identifier references only. Builders
// (the expander and the XML parser) create nodes with [Document.CreateNode]
// and attach them with [Document.AddChild], which always appends at the end of
// the parent's child list, so cycles cannot be constructed.
//
// # Component schema
//
// Component types form a closed set. A single table, reachable through
// [SchemaFor], lists for each type the legal attributes with their encoding,
// default and allowed literals. [Defaults] returns a fresh copy of a type's
// default property bag. Asking for a type outside the table is a programming
// error and panics.
//
// # Lifecycle
//
// A document is built once per conversion call and treated as an immutable
// value afterwards. Validators and serializers only read it.
package doc
