// Package opnode implements the operation tree: the intermediate structure
// between the token stream and the IR. Nodes are allocated from a stable
// arena so that pointer-style rewiring during precedence adjustment never
// invalidates a neighbor — a handle-indexed alternative to an intrusive
// pooled linked list.
package opnode

import "github.com/hecl-lang/hecl/token"

// Handle is a stable reference to a Node within an Arena. The zero Handle
// means "none".
type Handle uint32

// Node is one entry of a horizontal chain at a given nesting level. Prev/
// Next link siblings at the same level. After RewritePrecedence, Sub links
// an operator node to its left operand (whose Next is the right operand)
// and a swizzle node to its operand. A function call's arguments and an
// evaluation group's inner expression are not reached through Sub; they
// are held in the Arena's argument lists (see Arena.Args).
type Node struct {
	Tok  token.Token
	Prev Handle
	Next Handle
	Sub  Handle
}

// Arena owns every Node allocated during one compile. Handles into an
// Arena remain valid for the Arena's lifetime; it is scoped to a single
// compile call and dropped after IR emission.
//
// Function and evaluation-group nodes additionally own an ordered list of
// argument-chain results (each already collapsed to a single handle by
// RewritePrecedence). The spec's C++ original links these intrusively
// through m_sub; here they're tracked in a plain map keyed by the owning
// node's handle — Go's GC removes the need for the original's pointer-pool
// discipline, so there's no benefit to threading a second intrusive link
// through Node just to avoid a map.
type Arena struct {
	nodes []Node
	args  map[Handle][]Handle
}

// NewArena creates an empty arena with room for a reasonable expression.
func NewArena() *Arena {
	return &Arena{
		nodes: make([]Node, 1, 64), // index 0 reserved as "none"
		args:  make(map[Handle][]Handle),
	}
}

// SetArgs records the ordered, fully-reduced argument chains owned by the
// function or evaluation-group node h.
func (a *Arena) SetArgs(h Handle, args []Handle) {
	a.args[h] = args
}

// Args returns the argument chains previously recorded for h, or nil if
// none were set (a node with no arguments, e.g. a zero-arity call).
func (a *Arena) Args(h Handle) []Handle {
	return a.args[h]
}

// Alloc appends a new node owning tok and returns its handle.
func (a *Arena) Alloc(tok token.Token) Handle {
	a.nodes = append(a.nodes, Node{Tok: tok})
	return Handle(len(a.nodes) - 1)
}

// Node returns a pointer to the node for h. The zero handle is invalid and
// must never be dereferenced by a caller.
func (a *Arena) Node(h Handle) *Node {
	return &a.nodes[h]
}

// Valid reports whether h refers to an allocated node.
func (a *Arena) Valid(h Handle) bool {
	return h != 0 && int(h) < len(a.nodes)
}

// InsertAfter splices newH in directly after h in h's chain.
func (a *Arena) InsertAfter(h, newH Handle) {
	node := a.Node(h)
	next := node.Next
	node.Next = newH
	a.Node(newH).Prev = h
	a.Node(newH).Next = next
	if a.Valid(next) {
		a.Node(next).Prev = newH
	}
}

// Unlink removes h from its chain, relinking its neighbors, and returns
// h's former Prev/Next so a caller can graft h elsewhere.
func (a *Arena) Unlink(h Handle) (prev, next Handle) {
	node := a.Node(h)
	prev, next = node.Prev, node.Next
	if a.Valid(prev) {
		a.Node(prev).Next = next
	}
	if a.Valid(next) {
		a.Node(next).Prev = prev
	}
	node.Prev, node.Next = 0, 0
	return prev, next
}

// ChainFrom walks Next links starting at h (inclusive) and returns the
// handles in order.
func (a *Arena) ChainFrom(h Handle) []Handle {
	var out []Handle
	for a.Valid(h) {
		out = append(out, h)
		h = a.Node(h).Next
	}
	return out
}

// Head walks Prev links back to the first node of h's chain.
func (a *Arena) Head(h Handle) Handle {
	for a.Valid(h) {
		prev := a.Node(h).Prev
		if !a.Valid(prev) {
			return h
		}
		h = prev
	}
	return h
}
