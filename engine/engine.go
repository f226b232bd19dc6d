package engine

import "lobmcts/experiments/metrics"

const MaxSteps = 10000

type Engine interface {
	// Run trades until the step budget is spent or the agent fails
	Run() (stepMetrics []metrics.StepMetric, episodeMetric metrics.EpisodeMetric, err error)
}
