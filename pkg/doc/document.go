package doc

import (
	"errors"
	"slices"
	"strings"
)

// RootID is the identifier of the single Page node.
const RootID = "ROOT"

// FormatVersion is the document schema version written to the wire.
const FormatVersion = 1

var (
	// ErrInvalidNodeID is returned by [Document.CreateNode] for an empty id.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Document.CreateNode] when the id is
	// already taken.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownParent is returned by [Document.AddChild] when the parent
	// does not exist.
	ErrUnknownParent = errors.New("unknown parent node")

	// ErrUnknownChild is returned by [Document.AddChild] when the child does
	// not exist.
	ErrUnknownChild = errors.New("unknown child node")

	// ErrAlreadyAttached is returned by [Document.AddChild] when the child
	// already has a parent, or is the root.
	ErrAlreadyAttached = errors.New("node already attached")

	// ErrNotContainer is returned by [Document.AddChild] when the parent's
	// type may not own the child's type.
	ErrNotContainer = errors.New("parent cannot own children of this type")
)

// Node is one component in a page document.
type Node struct {
	ID          string
	Type        ComponentType
	IsContainer bool
	Props       Props
	DisplayName string
	Locked      bool
	Hidden      bool
	Children    []string // ordered child identifiers
	Parent      string   // empty for the root
}

// Prop returns the value of name, falling back to the component default.
func (n *Node) Prop(name string) (any, bool) {
	if v, ok := n.Props[name]; ok {
		return v, true
	}
	return DefaultValue(n.Type, name)
}

// Document is a flat, identifier-indexed page document.
//
// The zero value is not usable; use [New] or [NewEmpty].
type Document struct {
	Version int

	nodes []*Node
	index map[string]int
}

// NewEmpty returns a document with no nodes, not even a root. Builders that
// reconstruct a document from an external encoding start here.
func NewEmpty() *Document {
	return &Document{Version: FormatVersion, index: make(map[string]int)}
}

// New returns a document holding only the root Page with default properties.
func New() *Document {
	d := NewEmpty()
	if _, err := d.CreateNode(RootID, Page); err != nil {
		panic(err)
	}
	return d
}

// CreateNode adds a detached node of type t with default properties and
// returns it. Attach it with [Document.AddChild]. It panics if t has no
// schema entry, since that can only come from a programming error.
func (d *Document) CreateNode(id string, t ComponentType) (*Node, error) {
	if id == "" {
		return nil, ErrInvalidNodeID
	}
	if _, exists := d.index[id]; exists {
		return nil, ErrDuplicateNodeID
	}
	n := &Node{
		ID:          id,
		Type:        t,
		IsContainer: t.IsContainer(),
		Props:       Defaults(t),
		DisplayName: string(t),
		Children:    []string{},
	}
	d.insert(n)
	return n, nil
}

// insert appends n to the arena without checking its references.
func (d *Document) insert(n *Node) {
	d.index[n.ID] = len(d.nodes)
	d.nodes = append(d.nodes, n)
}

// AddChild appends childID to the end of parentID's children and sets the
// child's parent.
func (d *Document) AddChild(parentID, childID string) error {
	parent, ok := d.Node(parentID)
	if !ok {
		return ErrUnknownParent
	}
	child, ok := d.Node(childID)
	if !ok {
		return ErrUnknownChild
	}
	if child.ID == RootID || child.Parent != "" || child.ID == parent.ID {
		return ErrAlreadyAttached
	}
	if !parent.Type.CanOwn(child.Type) {
		return ErrNotContainer
	}
	parent.Children = append(parent.Children, child.ID)
	child.Parent = parent.ID
	return nil
}

// Node returns the node with the given id.
func (d *Document) Node(id string) (*Node, bool) {
	i, ok := d.index[id]
	if !ok {
		return nil, false
	}
	return d.nodes[i], true
}

// Root returns the root node, or nil when the document has none.
func (d *Document) Root() *Node {
	n, _ := d.Node(RootID)
	return n
}

// Len returns the number of nodes.
func (d *Document) Len() int { return len(d.nodes) }

// Nodes returns every node in insertion order.
func (d *Document) Nodes() []*Node { return slices.Clone(d.nodes) }

// IDs returns every identifier in insertion order.
func (d *Document) IDs() []string {
	out := make([]string, len(d.nodes))
	for i, n := range d.nodes {
		out[i] = n.ID
	}
	return out
}

// Walk visits the tree below the root depth-first in child order. Children
// that do not resolve are skipped, and a node is never visited twice. Walk
// stops at the first error returned by fn.
func (d *Document) Walk(fn func(n *Node, depth int) error) error {
	root := d.Root()
	if root == nil {
		return nil
	}
	seen := make(map[string]bool, len(d.nodes))
	var visit func(n *Node, depth int) error
	visit = func(n *Node, depth int) error {
		if seen[n.ID] {
			return nil
		}
		seen[n.ID] = true
		if err := fn(n, depth); err != nil {
			return err
		}
		for _, id := range n.Children {
			if c, ok := d.Node(id); ok {
				if err := visit(c, depth+1); err != nil {
					return err
				}
			}
		}
		return nil
	}
	return visit(root, 0)
}

// Path returns the slash separated identifiers from the root down to id,
// following parent references. Unresolvable ancestors end the path early.
func (d *Document) Path(id string) string {
	var parts []string
	seen := map[string]bool{}
	for cur := id; cur != "" && !seen[cur]; {
		seen[cur] = true
		parts = append(parts, cur)
		n, ok := d.Node(cur)
		if !ok {
			break
		}
		cur = n.Parent
	}
	slices.Reverse(parts)
	return strings.Join(parts, "/")
}

// Descendants returns the identifiers below id in depth-first child order.
func (d *Document) Descendants(id string) []string {
	var out []string
	seen := map[string]bool{id: true}
	var visit func(string)
	visit = func(cur string) {
		n, ok := d.Node(cur)
		if !ok {
			return
		}
		for _, c := range n.Children {
			if seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
			visit(c)
		}
	}
	visit(id)
	return out
}
