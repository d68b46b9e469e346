package parser

import (
	"fmt"
	"iter"
)

// Order selects how the walker schedules discovered children
type Order int

const (
	// PreOrder visits a node, then each child subtree in source order
	PreOrder Order = iota
	// LevelOrder visits every node at depth d before any node at depth d+1
	LevelOrder
)

// String returns the configuration name of the order
func (o Order) String() string {
	switch o {
	case PreOrder:
		return "pre"
	case LevelOrder:
		return "level"
	}
	return fmt.Sprintf("Order(%d)", int(o))
}

// ParseOrder maps a configuration name to an Order
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "pre", "preorder", "depth":
		return PreOrder, nil
	case "level", "levelorder", "breadth", "bfs":
		return LevelOrder, nil
	}
	return PreOrder, fmt.Errorf("unknown walk order %q (want pre or level)", s)
}

// WalkOptions configures a traversal
type WalkOptions struct {
	Order Order
	// MaxDepth limits discovery to nodes at depth <= MaxDepth; 0 means no limit
	MaxDepth int
}

type frontierEntry struct {
	node  *Node
	depth int
}

// Walker lazily yields (node, depth) pairs over a node tree. Each Walker owns
// its frontier, so independent walkers over the same tree never interfere.
type Walker struct {
	opts     WalkOptions
	frontier []frontierEntry
	head     int
	scratch  []*Node
}

// NewWalker creates a walker seeded with (root, 0)
func NewWalker(root *Node, opts WalkOptions) *Walker {
	w := &Walker{opts: opts}
	if root != nil {
		w.frontier = append(w.frontier, frontierEntry{node: root, depth: 0})
	}
	return w
}

// Next returns the next node and its depth. ok is false once the frontier
// is exhausted.
func (w *Walker) Next() (node *Node, depth int, ok bool) {
	var e frontierEntry
	switch w.opts.Order {
	case LevelOrder:
		if w.head >= len(w.frontier) {
			return nil, 0, false
		}
		e = w.frontier[w.head]
		w.frontier[w.head] = frontierEntry{}
		w.head++
		if w.head == len(w.frontier) {
			w.frontier = w.frontier[:0]
			w.head = 0
		}
	default:
		if len(w.frontier) == 0 {
			return nil, 0, false
		}
		e = w.frontier[len(w.frontier)-1]
		w.frontier = w.frontier[:len(w.frontier)-1]
	}

	if w.opts.MaxDepth <= 0 || e.depth < w.opts.MaxDepth {
		w.push(e)
	}
	return e.node, e.depth, true
}

func (w *Walker) push(e frontierEntry) {
	w.scratch = childNodes(w.scratch[:0], e.node)
	if w.opts.Order == LevelOrder {
		for _, c := range w.scratch {
			w.frontier = append(w.frontier, frontierEntry{node: c, depth: e.depth + 1})
		}
		return
	}
	// Reverse push so the first child is popped first.
	for i := len(w.scratch) - 1; i >= 0; i-- {
		w.frontier = append(w.frontier, frontierEntry{node: w.scratch[i], depth: e.depth + 1})
	}
}

// All returns the remaining traversal as a sequence
func (w *Walker) All() iter.Seq2[*Node, int] {
	return func(yield func(*Node, int) bool) {
		for {
			n, d, ok := w.Next()
			if !ok || !yield(n, d) {
				return
			}
		}
	}
}

// Walk returns a lazy (node, depth) sequence rooted at root. Every call
// starts a fresh traversal.
func Walk(root *Node, opts WalkOptions) iter.Seq2[*Node, int] {
	return func(yield func(*Node, int) bool) {
		NewWalker(root, opts).All()(yield)
	}
}

// Inspect traverses the tree in pre-order and calls visit for each node. If
// visit returns false the node's subtree is skipped.
func Inspect(root *Node, visit func(n *Node, depth int) bool) {
	if root == nil {
		return
	}
	type entry = frontierEntry
	stack := []entry{{node: root}}
	var buf []*Node
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(e.node, e.depth) {
			continue
		}
		buf = childNodes(buf[:0], e.node)
		for i := len(buf) - 1; i >= 0; i-- {
			stack = append(stack, entry{node: buf[i], depth: e.depth + 1})
		}
	}
}

// Find returns the first node in pre-order for which match returns true
func Find(root *Node, match func(*Node) bool) *Node {
	for n := range Walk(root, WalkOptions{}) {
		if match(n) {
			return n
		}
	}
	return nil
}

// FindAll returns every node of the given type in pre-order
func FindAll(root *Node, kind NodeType) []*Node {
	var out []*Node
	for n := range Walk(root, WalkOptions{}) {
		if n.Type == kind {
			out = append(out, n)
		}
	}
	return out
}
