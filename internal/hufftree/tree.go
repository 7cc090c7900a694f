// Package hufftree implements a binary coding tree shared by the static
// and adaptive Huffman coders. Nodes live in a flat slice and reference
// each other by index rather than by pointer, modelling the
// owning-child/observing-parent shape of the reference implementation's
// tree (unique_ptr children, raw-pointer parent) without Go pointers
// chasing through a web of heap allocations.
package hufftree

// NodeIndex addresses a node within a Tree's arena. NoNode is the
// sentinel for "no such node" (an absent parent, or an absent child).
type NodeIndex int

const NoNode NodeIndex = -1

// Node is one vertex of the coding tree. A leaf carries a Symbol value;
// an internal node has both Left and Right set and an unspecified
// Symbol. Order is used only by the adaptive coder (internal/adaptivehuff)
// to track the Vitter numbering invariant; the static coder leaves it
// zero throughout.
type Node struct {
	Parent NodeIndex
	Left   NodeIndex
	Right  NodeIndex

	Weight int
	Symbol int // valid only when IsLeaf(); -1 for a non-NYT internal node
	IsNYT  bool
	Order  int
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return n.Left == NoNode && n.Right == NoNode
}

// Tree is an arena of Nodes with a designated Root.
type Tree struct {
	Nodes []Node
	Root  NodeIndex
}

// New creates an empty tree. Callers add a root via NewLeaf/NewInternal
// and set Root explicitly.
func New() *Tree {
	return &Tree{Root: NoNode}
}

// NewLeaf appends a new leaf node (no parent yet) and returns its index.
func (t *Tree) NewLeaf(weight, symbol int) NodeIndex {
	t.Nodes = append(t.Nodes, Node{
		Parent: NoNode,
		Left:   NoNode,
		Right:  NoNode,
		Weight: weight,
		Symbol: symbol,
	})
	return NodeIndex(len(t.Nodes) - 1)
}

// NewNYTLeaf appends a fresh not-yet-transmitted sentinel leaf.
func (t *Tree) NewNYTLeaf() NodeIndex {
	idx := t.NewLeaf(0, -1)
	t.Nodes[idx].IsNYT = true
	return idx
}

// NewInternal appends a new internal node with the given children,
// fixing up both children's Parent links, and computes its weight as the
// sum of its children's weights.
func (t *Tree) NewInternal(left, right NodeIndex) NodeIndex {
	weight := t.Node(left).Weight + t.Node(right).Weight
	t.Nodes = append(t.Nodes, Node{
		Parent: NoNode,
		Left:   left,
		Right:  right,
		Weight: weight,
		Symbol: -1,
	})
	idx := NodeIndex(len(t.Nodes) - 1)
	t.Node(left).Parent = idx
	t.Node(right).Parent = idx
	return idx
}

// Node returns a pointer to the node at idx for in-place mutation.
func (t *Tree) Node(idx NodeIndex) *Node {
	return &t.Nodes[idx]
}

// PathFromRoot returns the sequence of left/right branches (false = left,
// true = right) taken from the root to reach idx. The result is empty
// when idx is the root itself.
func (t *Tree) PathFromRoot(idx NodeIndex) []bool {
	var reversed []bool
	for cur := idx; cur != t.Root; {
		parent := t.Node(cur).Parent
		p := t.Node(parent)
		reversed = append(reversed, p.Right == cur)
		cur = parent
	}
	path := make([]bool, len(reversed))
	for i, b := range reversed {
		path[len(reversed)-1-i] = b
	}
	return path
}

// SwapSubtrees exchanges the positions of a and b within the tree,
// rewiring their parents' child pointers (and a/b's own Parent fields)
// accordingly. It does not touch any other field of a or b -- in
// particular the Vitter Order field, if the caller needs it exchanged
// too, must be swapped separately by the caller. It refuses to act (a
// no-op) if either node is the root or if one is the other's parent,
// since swapping either would corrupt the tree's shape.
func (t *Tree) SwapSubtrees(a, b NodeIndex) {
	if a == b {
		return
	}
	if a == t.Root || b == t.Root {
		return
	}
	pa := t.Node(a).Parent
	pb := t.Node(b).Parent
	if a == pb || b == pa {
		return
	}

	if t.Node(pa).Left == a {
		t.Node(pa).Left = b
	} else {
		t.Node(pa).Right = b
	}
	if t.Node(pb).Left == b {
		t.Node(pb).Left = a
	} else {
		t.Node(pb).Right = a
	}
	t.Node(a).Parent = pb
	t.Node(b).Parent = pa
}

// DepthFirst visits every node reachable from root in pre-order (node,
// then left subtree, then right subtree), calling visit on each. visit
// returns false to request the whole traversal stop immediately; that
// signal propagates up through every ancestor call, not just the current
// subtree.
func (t *Tree) DepthFirst(root NodeIndex, visit func(NodeIndex) bool) bool {
	if root == NoNode {
		return true
	}
	if !visit(root) {
		return false
	}
	n := t.Node(root)
	if !t.DepthFirst(n.Left, visit) {
		return false
	}
	return t.DepthFirst(n.Right, visit)
}

// Find returns the first node (in pre-order from the root) for which
// pred returns true, or NoNode if none match.
func (t *Tree) Find(pred func(*Node) bool) NodeIndex {
	found := NoNode
	t.DepthFirst(t.Root, func(idx NodeIndex) bool {
		if pred(t.Node(idx)) {
			found = idx
			return false
		}
		return true
	})
	return found
}
