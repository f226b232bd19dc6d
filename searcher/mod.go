package searcher

import "errors"

// Hyperparameters for MCTS

const Exploration = 5.0 // Weight of the prior in the UCB score

const DefaultEpochs = 20
const DefaultSimulations = 10

var (
	ErrInvalidExpansion = errors.New("invalid expansion")
	ErrEmptyTree        = errors.New("empty tree")
)

type Action int

const (
	Sell Action = iota // Trade at the best bid
	Buy                // Trade at the best ask

	NoAction Action = -1 // Root node
)

func (a Action) String() string {
	switch a {
	case Sell:
		return "sell"
	case Buy:
		return "buy"
	default:
		return "root"
	}
}
