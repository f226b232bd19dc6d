package searcher

import "lobmcts/utils"

// Prior is the policy's split between the two actions; Buy+Sell = 1.
type Prior struct {
	Buy  float64
	Sell float64
}

func (p Prior) Of(action Action) float64 {
	if action == Buy {
		return p.Buy
	}
	return p.Sell
}

// Evaluate is the policy network boundary. It receives a copy of the leaf's state.
type Evaluate func(state State, rng utils.Rand) Prior

// RandomPrior stands in for a trained policy with a uniformly random split.
func RandomPrior(_ State, rng utils.Rand) Prior {
	p := rng.Float64()
	return Prior{Buy: p, Sell: 1 - p}
}
