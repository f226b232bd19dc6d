package experiments

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"lobmcts/book"
	"lobmcts/engine"
	"lobmcts/experiments/metrics"
	"lobmcts/searcher"
	"lobmcts/searcher/agent"
	"lobmcts/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	NumRuns  = 5 // Per config
	NumSteps = 10
)

// Sweep varies one search parameter at a time around the defaults.
var Sweep = []metrics.SearchConfig{
	{ID: 1, Epochs: 20, Simulations: 10, Exploration: searcher.Exploration},
	{ID: 2, Epochs: 50, Simulations: 10, Exploration: searcher.Exploration},
	{ID: 3, Epochs: 100, Simulations: 10, Exploration: searcher.Exploration},
	{ID: 4, Epochs: 20, Simulations: 0, Exploration: searcher.Exploration},
	{ID: 5, Epochs: 20, Simulations: 30, Exploration: searcher.Exploration},
	{ID: 6, Epochs: 20, Simulations: 10, Exploration: 0},
	{ID: 7, Epochs: 20, Simulations: 10, Exploration: 1},
	{ID: 8, Epochs: 20, Simulations: 10, Exploration: 20},
}

type Experiment struct {
	Name    string
	Configs []metrics.SearchConfig
	Runs    int // Per config
	Steps   int // Per run
	Workers int
	State   searcher.State
	Model   book.Model
}

type Results struct {
	Runs  []metrics.RunRecord
	Steps []metrics.StepRecord
}

type task struct {
	index  int
	config metrics.SearchConfig
	seed   uint64
}

type outcome struct {
	run   metrics.RunRecord
	steps []metrics.StepRecord
	err   error
}

// Run plays every config Runs times on a pool of workers. Run i of a config is seeded
// with config.Seed+i, so results do not depend on scheduling.
func (e Experiment) Run() (Results, error) {
	if e.Runs <= 0 || e.Steps <= 0 {
		return Results{}, fmt.Errorf("experiment %s needs positive runs and steps", e.Name)
	}
	workers := e.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	tasks := make(chan task)
	outcomes := make([]outcome, len(e.Configs)*e.Runs)

	log.Info().Msgf("starting %s experiment with %d runs on %d workers...", e.Name, len(outcomes), workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				outcomes[t.index] = e.runEpisode(t)
			}
		}()
	}

	for ci, config := range e.Configs {
		for i := 0; i < e.Runs; i++ {
			tasks <- task{index: ci*e.Runs + i, config: config, seed: config.Seed + uint64(i)}
		}
	}
	close(tasks)
	wg.Wait()

	var results Results
	for _, o := range outcomes {
		if o.err != nil {
			return results, o.err
		}
		results.Runs = append(results.Runs, o.run)
		results.Steps = append(results.Steps, o.steps...)
	}

	log.Info().Msgf("completed %s experiment", e.Name)
	return results, nil
}

func (e Experiment) runEpisode(t task) outcome {
	id := uuid.NewString()
	rng := utils.NewRand(t.seed)
	a := agent.NewEvaluationAgent(
		searcher.WithEpochs(t.config.Epochs),
		searcher.WithSimulations(t.config.Simulations),
		searcher.WithExploration(t.config.Exploration),
		searcher.WithModel(e.Model),
		searcher.WithRand(rng),
		searcher.WithMetrics(),
	)
	state := e.State
	state.Book = e.State.Book.Clone()

	log.Info().Msgf("starting run %s with config=%+v seed=%d", id, t.config, t.seed)

	stepMetrics, episodeMetric, err := engine.LocalEngine(state, a, e.Model, e.Steps, rng).Run()
	if err != nil {
		return outcome{err: fmt.Errorf("run %s: %w", id, err)}
	}

	steps := make([]metrics.StepRecord, 0, len(stepMetrics))
	for _, sm := range stepMetrics {
		steps = append(steps, metrics.StepRecord{Run: id, StepMetric: sm})
	}

	log.Info().Msgf("completed run %s with roi=%.4f", id, episodeMetric.FinalROI)
	return outcome{
		run:   metrics.RunRecord{Run: id, Config: t.config.ID, EpisodeMetric: episodeMetric},
		steps: steps,
	}
}

// Store writes the configs, records and a summary plot under root.
func (e Experiment) Store(root string, results Results) (string, error) {
	writer, err := metrics.NewWriter(root, e.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteSearchConfigs(e.Configs); err != nil {
		return "", fmt.Errorf("failed to store search configs: %w", err)
	}
	log.Info().Msg("stored search configs")

	if err := writer.WriteRunRecords(results.Runs); err != nil {
		return "", fmt.Errorf("failed to write run records: %w", err)
	}
	log.Info().Msg("stored run records")

	if err := writer.WriteStepRecords(results.Steps); err != nil {
		return "", fmt.Errorf("failed to write step records: %w", err)
	}
	log.Info().Msg("stored step records")

	f, err := os.Create(filepath.Join(writer.Dir(), "roi.html"))
	if err != nil {
		return "", fmt.Errorf("failed to create plot: %w", err)
	}
	defer f.Close()
	if err := Plot(f, e.Name, e.Configs, results.Runs); err != nil {
		return "", err
	}
	log.Info().Msg("stored roi plot")

	return writer.Dir(), nil
}
