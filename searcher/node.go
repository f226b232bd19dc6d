package searcher

import (
	"fmt"

	"lobmcts/book"
)

// Branching is the number of children of an expanded node, one per Action.
const Branching = 2

// State is the trading position and market view held by a node.
type State struct {
	Capital float64
	Holding int
	Book    *book.Book
}

func (s State) clone() State {
	return State{Capital: s.Capital, Holding: s.Holding, Book: s.Book.Clone()}
}

// Node owns its children exclusively; parent is a back reference only.
type Node struct {
	parent   *Node
	children []*Node
	action   Action
	state    State
	prior    float64
	rewards  float64
	visits   int
}

// NewRoot creates the root of a search tree. The root takes ownership of b.
func NewRoot(b *book.Book, capital float64, holding int) *Node {
	if capital < 0 || holding < 0 {
		panic(fmt.Sprintf("negative root position: capital=%v holding=%d", capital, holding))
	}
	return &Node{
		action: NoAction,
		state:  State{Capital: capital, Holding: holding, Book: b},
	}
}

// FromSnapshot creates a root from the flat 20-value book layout.
func FromSnapshot(values []float64, capital float64, holding int) (*Node, error) {
	b, err := book.FromSnapshot(values)
	if err != nil {
		return nil, err
	}
	return NewRoot(b, capital, holding), nil
}

// AddChild appends a child reached by action. The child takes ownership of state.Book.
func (n *Node) AddChild(action Action, state State, prior float64) (*Node, error) {
	if len(n.children) >= Branching {
		return nil, fmt.Errorf("%w: node already has %d children", ErrInvalidExpansion, len(n.children))
	}
	if state.Capital < 0 || state.Holding < 0 {
		return nil, fmt.Errorf("%w: negative position capital=%v holding=%d", ErrInvalidExpansion, state.Capital, state.Holding)
	}

	child := &Node{
		parent: n,
		action: action,
		state:  state,
		prior:  prior,
	}
	n.children = append(n.children, child)
	return child, nil
}

func (n *Node) IsLeaf() bool {
	return len(n.children) == 0
}

func (n *Node) IsRoot() bool {
	return n.parent == nil
}

func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

func (n *Node) Action() Action {
	return n.action
}

func (n *Node) Capital() float64 {
	return n.state.Capital
}

func (n *Node) Holding() int {
	return n.state.Holding
}

// State returns a copy of the node's position and book.
func (n *Node) State() State {
	return n.state.clone()
}

func (n *Node) Prior() float64 {
	return n.prior
}

func (n *Node) Visits() int {
	return n.visits
}

// Value is the mean return observed through this node.
func (n *Node) Value() float64 {
	if n.visits == 0 {
		return 0
	}
	return n.rewards / float64(n.visits)
}

func (n *Node) Depth() int {
	depth := 0
	for node := n; !node.IsRoot(); node = node.parent {
		depth++
	}
	return depth
}

// Size counts the nodes of the subtree rooted at n.
func (n *Node) Size() int {
	size := 1
	for _, child := range n.children {
		size += child.Size()
	}
	return size
}

// Backup records one observed return and returns the parent to continue with.
func (n *Node) Backup(roi float64) *Node {
	n.rewards += roi
	n.visits++
	return n.parent
}

// Clone deep-copies the subtree rooted at n, detached from n's parent.
func (n *Node) Clone() *Node {
	return n.clone(nil)
}

func (n *Node) clone(parent *Node) *Node {
	c := &Node{
		parent:  parent,
		action:  n.action,
		state:   n.state.clone(),
		prior:   n.prior,
		rewards: n.rewards,
		visits:  n.visits,
	}
	if len(n.children) > 0 {
		c.children = make([]*Node, len(n.children))
		for i, child := range n.children {
			c.children[i] = child.clone(c)
		}
	}
	return c
}

func (n *Node) String() string {
	return fmt.Sprintf("Node{Action=%s, Capital=%.2f, Holding=%d, Visits=%d, Value=%.4f, Prior=%.4f}",
		n.action, n.state.Capital, n.state.Holding, n.visits, n.Value(), n.prior)
}
