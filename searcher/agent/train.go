package agent

import (
	"math"

	"lobmcts/experiments/metrics"
	"lobmcts/searcher"
	"lobmcts/utils"
)

type trainingAgent struct {
	options     []searcher.Option
	temperature float64
	rng         utils.Rand
}

// NewTrainingAgent returns an agent that samples root actions in proportion to
// their temperature-adjusted visit counts, for generating exploratory trajectories.
func NewTrainingAgent(temperature float64, rng utils.Rand, options ...searcher.Option) Agent {
	if temperature <= 0 {
		panic("temperature must be positive")
	}
	return trainingAgent{options: options, temperature: temperature, rng: rng}
}

func (a trainingAgent) Decide(root *searcher.Node, options ...searcher.Option) (searcher.Action, metrics.SearchMetric, error) {
	mcts := searcher.NewMCTS(root, append(append([]searcher.Option{}, a.options...), options...)...)
	metric, err := mcts.Search()
	if err != nil {
		return searcher.NoAction, metric, err
	}

	policy := adjustTemperature(mcts.Policy(), a.temperature)
	return sample(policy, a.rng), metric, nil
}

func adjustTemperature(policy map[searcher.Action]int, temperature float64) map[searcher.Action]float64 {
	// Compute temperature-adjusted action probabilities
	exponent := 1.0 / temperature
	sum := 0.0
	adjusted := make(map[searcher.Action]float64, len(policy))
	for action, visits := range policy {
		prob := math.Pow(float64(visits), exponent)
		sum += prob
		adjusted[action] = prob
	}
	if sum == 0 {
		return adjusted
	}
	// Normalize
	for action := range adjusted {
		adjusted[action] /= sum
	}
	return adjusted
}

func sample(policy map[searcher.Action]float64, rng utils.Rand) searcher.Action {
	sampled := rng.Float64()
	cumulative := 0.0
	last := searcher.NoAction
	for _, action := range actions {
		prob, ok := policy[action]
		if !ok {
			continue
		}
		last = action
		cumulative += prob
		if sampled < cumulative {
			return action
		}
	}
	return last // Fallback in case of rounding errors
}
