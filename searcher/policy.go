package searcher

import (
	"fmt"

	"lobmcts/utils"
)

type ucb struct {
	c float64
}

func newUCB(c float64) ucb {
	if c < 0 {
		panic("exploration constant cannot be negative")
	}
	return ucb{c: c}
}

func (u ucb) evaluate(value float64, prior float64, visits int) float64 {
	// UCB = value + c*prior/(1+n)
	return value + u.c*prior/float64(1+visits)
}

func (u ucb) score(n *Node) float64 {
	if n.IsRoot() {
		panic("cannot compute UCB of the root")
	}
	return u.evaluate(n.Value(), n.prior, n.visits)
}

// pick returns the child with the strictly largest score, ties going to the first child
func (u ucb) pick(n *Node) (*Node, error) {
	if n.IsLeaf() {
		return nil, fmt.Errorf("%w: cannot select among zero children", ErrEmptyTree)
	}
	scores := make([]float64, len(n.children))
	for i, child := range n.children {
		scores[i] = u.score(child)
	}
	return n.children[utils.ArgMax(scores)], nil
}

// selects descends from n to the first leaf along maximal UCB children
func (u ucb) selects(n *Node) (*Node, error) {
	node := n
	for !node.IsLeaf() {
		child, err := u.pick(node)
		if err != nil {
			return nil, err
		}
		node = child
	}
	return node, nil
}

// mostVisited returns the child with the most visits, ties going to the first child
func mostVisited(n *Node) (*Node, error) {
	if n.IsLeaf() {
		return nil, fmt.Errorf("%w: node has no children", ErrEmptyTree)
	}
	visits := make([]int, len(n.children))
	for i, child := range n.children {
		visits[i] = child.visits
	}
	return n.children[utils.ArgMax(visits)], nil
}
