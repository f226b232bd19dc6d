package agent

import (
	"lobmcts/experiments/metrics"
	"lobmcts/searcher"
)

type Agent interface {
	// Decide searches from root and returns the chosen action with the search metrics.
	// Extra options apply to this decision only.
	Decide(root *searcher.Node, options ...searcher.Option) (searcher.Action, metrics.SearchMetric, error)
}

// actions fixes the iteration order over a policy for reproducible sampling
var actions = []searcher.Action{searcher.Sell, searcher.Buy}
