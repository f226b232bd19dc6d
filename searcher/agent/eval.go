package agent

import (
	"lobmcts/experiments/metrics"
	"lobmcts/searcher"
)

type evaluationAgent struct {
	options []searcher.Option
}

// NewEvaluationAgent returns an agent that always plays the most visited root action.
func NewEvaluationAgent(options ...searcher.Option) Agent {
	return evaluationAgent{options: options}
}

func (a evaluationAgent) Decide(root *searcher.Node, options ...searcher.Option) (searcher.Action, metrics.SearchMetric, error) {
	mcts := searcher.NewMCTS(root, append(append([]searcher.Option{}, a.options...), options...)...)
	metric, err := mcts.Search()
	if err != nil {
		return searcher.NoAction, metric, err
	}

	preferred, err := mcts.Preferred()
	if err != nil {
		return searcher.NoAction, metric, err
	}
	return preferred.Action(), metric, nil
}
