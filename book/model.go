package book

import (
	"math"

	"lobmcts/utils"

	"github.com/shopspring/decimal"
)

// Tick is the minimum price increment.
const Tick = 0.5

// Probabilities holds the cumulative [up, down] thresholds of the matched side's best price,
// indexed by spread regime (0: one tick, 1: two ticks or wider) and matched side.
type Probabilities [2][2][2]float64

// Estimated from historical one-tick and two-tick spread episodes
var DefaultProbabilities = Probabilities{
	{{0.0069, 0.0095}, {0.0024, 0.0031}},
	{{0.1029, 0.1055}, {0.0028, 0.0974}},
}

// Quantity multipliers applied when no price move happens
const (
	MatchedMinScale  = 0.7
	MatchedMaxScale  = 1.3
	OppositeMinScale = 1.0
	OppositeMaxScale = 1.3
)

// MaxQuantity caps a level's depth; repeated rescaling of an untouched best level saturates here.
const MaxQuantity = math.MaxInt

type Move int

const (
	Hold Move = iota // Best price unchanged, depth rescaled
	Up               // New best level one tick better
	Down             // Best level consumed, new worst level appended
)

func (m Move) String() string {
	switch m {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "hold"
	}
}

// Model is the stochastic transition of the book after a trade matches one side.
type Model struct {
	Tick          float64
	Probabilities Probabilities
}

func NewModel() Model {
	return Model{Tick: Tick, Probabilities: DefaultProbabilities}
}

// Regime is 1 when the spread is wider than one tick, 0 otherwise.
func (m Model) Regime(b *Book) int {
	spread := decimal.NewFromFloat(b.Asks[0].Price).Sub(decimal.NewFromFloat(b.Bids[0].Price))
	if spread.Abs().GreaterThan(decimal.NewFromFloat(m.Tick)) {
		return 1
	}
	return 0
}

// Transition updates b in place after a trade consumed liquidity on the matched side.
func (m Model) Transition(b *Book, side Side, rng utils.Rand) Move {
	regime := m.Regime(b)
	r := decimal.NewFromFloat(rng.Float64()).Round(4).InexactFloat64()
	matchedScale := utils.Uniform(rng, MatchedMinScale, MatchedMaxScale)
	oppositeScale := utils.Uniform(rng, OppositeMinScale, OppositeMaxScale)

	thresholds := m.Probabilities[regime][side]
	levels := b.Levels(side)
	move := Hold
	switch {
	case r <= thresholds[0]:
		price := m.shift(levels[0].Price, side.improvement())
		copy(levels[1:], levels[:Depth-1])
		levels[0] = Level{Price: price, Quantity: b.recall(price)}
		move = Up
	case r <= thresholds[1]:
		price := m.shift(levels[Depth-1].Price, -side.improvement())
		copy(levels[:Depth-1], levels[1:])
		levels[Depth-1] = Level{Price: price, Quantity: b.recall(price)}
		move = Down
	default:
		scale(b, side, matchedScale)
	}

	scale(b, side.Opposite(), oppositeScale)
	return move
}

func (m Model) shift(price float64, ticks float64) float64 {
	delta := decimal.NewFromFloat(m.Tick).Mul(decimal.NewFromFloat(ticks))
	return decimal.NewFromFloat(price).Add(delta).InexactFloat64()
}

// scale resizes the best level of side, truncating toward zero and saturating at MaxQuantity
func scale(b *Book, side Side, multiplier float64) {
	best := &b.Levels(side)[0]
	q := float64(best.Quantity) * multiplier
	if q >= float64(MaxQuantity) {
		best.Quantity = MaxQuantity
	} else {
		best.Quantity = int(q)
	}
	b.Full[best.Price] = best.Quantity
}
