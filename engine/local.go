package engine

import (
	"fmt"
	"time"

	"lobmcts/book"
	"lobmcts/experiments/metrics"
	"lobmcts/searcher"
	"lobmcts/searcher/agent"
	"lobmcts/utils"

	"github.com/rs/zerolog/log"
)

var _ Engine = (*Episode)(nil)

// Episode replays an agent's decisions against the stochastic book: every step searches
// from the current position, settles the chosen action and advances the book once.
type Episode struct {
	State   searcher.State
	Agent   agent.Agent
	Model   book.Model
	Steps   int
	rng     utils.Rand
	initial float64
}

func LocalEngine(state searcher.State, a agent.Agent, model book.Model, steps int, rng utils.Rand) *Episode {
	if steps <= 0 || steps > MaxSteps {
		panic(fmt.Sprintf("steps must be in (0, %d]", MaxSteps))
	}
	if state.Capital <= 0 {
		panic("episode needs a positive starting capital")
	}

	return &Episode{
		State:   state,
		Agent:   a,
		Model:   model,
		Steps:   steps,
		rng:     rng,
		initial: state.Capital,
	}
}

// Run executes the episode loop until the step budget is spent.
func (e *Episode) Run() ([]metrics.StepMetric, metrics.EpisodeMetric, error) {
	episode := metrics.EpisodeMetric{StartTime: time.Now()}
	var stepMetrics []metrics.StepMetric

	log.Info().Msgf("starting episode with capital=%.2f holding=%d", e.State.Capital, e.State.Holding)

	for step := 1; step <= e.Steps; step++ {
		root := searcher.NewRoot(e.State.Book.Clone(), e.State.Capital, e.State.Holding)
		action, metric, err := e.Agent.Decide(root, searcher.WithInitialCapital(e.initial))
		if err != nil {
			return stepMetrics, e.complete(episode, step-1), fmt.Errorf("step %d: %w", step, err)
		}
		stepMetrics = append(stepMetrics, metrics.StepMetric{
			Step:         step,
			Action:       action.String(),
			SearchMetric: metric,
		})

		e.State = searcher.Trade(e.State, action)
		move := e.Model.Transition(e.State.Book, action.Side(), e.rng)

		log.Info().
			Int("step", step).
			Stringer("action", action).
			Stringer("move", move).
			Float64("capital", e.State.Capital).
			Int("holding", e.State.Holding).
			Msg("completed step")
	}

	return stepMetrics, e.complete(episode, e.Steps), nil
}

func (e *Episode) complete(episode metrics.EpisodeMetric, steps int) metrics.EpisodeMetric {
	episode.EndTime = time.Now()
	episode.Duration = episode.EndTime.Sub(episode.StartTime)
	episode.Steps = steps
	episode.FinalROI = e.State.Capital / e.initial
	return episode
}
