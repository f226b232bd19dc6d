package experiments

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"lobmcts/book"
	"lobmcts/experiments/metrics"
	"lobmcts/searcher"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testExperiment(t *testing.T, workers int) Experiment {
	b, err := book.FromSnapshot([]float64{
		100, 99.5, 99, 98.5, 98,
		10, 9, 8, 7, 6,
		100.5, 101, 101.5, 102, 102.5,
		10, 9, 8, 7, 6,
	})
	require.NoError(t, err)
	return Experiment{
		Name: "test",
		Configs: []metrics.SearchConfig{
			{ID: 1, Epochs: 4, Simulations: 2, Exploration: 5, Seed: 10},
			{ID: 2, Epochs: 6, Simulations: 0, Exploration: 1, Seed: 20},
		},
		Runs:    3,
		Steps:   2,
		Workers: workers,
		State:   searcher.State{Capital: 10000, Holding: 0, Book: b},
		Model:   book.NewModel(),
	}
}

func TestRun(t *testing.T) {
	t.Run("rejecting empty experiment", func(t *testing.T) {
		e := testExperiment(t, 1)
		e.Runs = 0
		_, err := e.Run()
		require.Error(t, err)
	})

	t.Run("recording every run", func(t *testing.T) {
		e := testExperiment(t, 4)

		results, err := e.Run()

		require.NoError(t, err)
		require.Len(t, results.Runs, 6)
		require.Len(t, results.Steps, 12)
		for i, run := range results.Runs {
			_, err := uuid.Parse(run.Run)
			require.NoError(t, err)
			require.Equal(t, e.Configs[i/e.Runs].ID, run.Config)
			require.Equal(t, 2, run.Steps)
		}
		require.Equal(t, 4, results.Steps[0].Episodes)
	})

	t.Run("leaving the starting book untouched", func(t *testing.T) {
		e := testExperiment(t, 2)
		before := e.State.Book.Snapshot()

		_, err := e.Run()

		require.NoError(t, err)
		require.Equal(t, before, e.State.Book.Snapshot())
	})

	t.Run("independent of worker count", func(t *testing.T) {
		sequential, err := testExperiment(t, 1).Run()
		require.NoError(t, err)
		parallel, err := testExperiment(t, 4).Run()
		require.NoError(t, err)

		for i := range sequential.Runs {
			require.Equal(t, sequential.Runs[i].FinalROI, parallel.Runs[i].FinalROI)
		}
		for i := range sequential.Steps {
			require.Equal(t, sequential.Steps[i].Action, parallel.Steps[i].Action)
		}
	})
}

func TestMeanROI(t *testing.T) {
	configs := []metrics.SearchConfig{{ID: 1}, {ID: 2}, {ID: 3}}
	runs := []metrics.RunRecord{
		{Config: 1, EpisodeMetric: metrics.EpisodeMetric{FinalROI: 1}},
		{Config: 1, EpisodeMetric: metrics.EpisodeMetric{FinalROI: 2}},
		{Config: 2, EpisodeMetric: metrics.EpisodeMetric{FinalROI: 1.2}},
	}

	require.Equal(t, []float64{1.5, 1.2, 0}, MeanROI(configs, runs))
}

func TestPlot(t *testing.T) {
	var buf bytes.Buffer
	configs := []metrics.SearchConfig{{ID: 1, Epochs: 20, Simulations: 10, Exploration: 5}}

	err := Plot(&buf, "sweep", configs, []metrics.RunRecord{{Config: 1}})

	require.NoError(t, err)
	require.Contains(t, buf.String(), "e20 s10 c5")
	require.Contains(t, buf.String(), "sweep")
}

func TestStore(t *testing.T) {
	e := testExperiment(t, 2)
	e.Runs = 1
	results, err := e.Run()
	require.NoError(t, err)

	dir, err := e.Store(t.TempDir(), results)

	require.NoError(t, err)
	for _, name := range []string{"search_configs.csv", "run_records.csv", "step_records.csv", "roi.html"} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}
}
