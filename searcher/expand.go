package searcher

import (
	"fmt"
	"math"

	"lobmcts/book"
	"lobmcts/utils"
)

type expander struct {
	model    book.Model
	evaluate Evaluate
}

// expands adds a Sell and a Buy child to leaf and returns one of them at random.
// Both children see the same post-trade book, drawn from a single matched side.
func (e expander) expands(leaf *Node, rng utils.Rand) (*Node, error) {
	if !leaf.IsLeaf() {
		return nil, fmt.Errorf("%w: node is already expanded", ErrInvalidExpansion)
	}

	prior := e.evaluate(leaf.State(), rng)
	side := book.Side(rng.Intn(2))

	next := leaf.state.Book.Clone()
	e.model.Transition(next, side, rng)

	sell := Trade(leaf.state, Sell)
	sell.Book = next.Clone()
	buy := Trade(leaf.state, Buy)
	buy.Book = next

	if _, err := leaf.AddChild(Sell, sell, prior.Of(Sell)); err != nil {
		return nil, err
	}
	if _, err := leaf.AddChild(Buy, buy, prior.Of(Buy)); err != nil {
		return nil, err
	}

	return leaf.children[rng.Intn(Branching)], nil
}

// Trade settles action against the best prices of s.Book. A sell realizes the whole
// holding at the best bid; a buy adds as many units as capital affords at the best ask
// and leaves capital unchanged. The returned state shares s.Book.
func Trade(s State, action Action) State {
	switch action {
	case Sell:
		bid := s.Book.Best(book.Bid).Price
		s.Capital += float64(s.Holding) * math.Max(bid, 0)
	case Buy:
		s.Holding += affordable(s.Capital, s.Book.Best(book.Ask).Price)
	}
	return s
}

// affordable is the number of units capital buys at price
func affordable(capital float64, price float64) int {
	if price <= 0 {
		return 0
	}
	return int(math.Floor(capital / price))
}

// Side is the side of the book an action's order matches against.
func (a Action) Side() book.Side {
	if a == Buy {
		return book.Ask
	}
	return book.Bid
}
