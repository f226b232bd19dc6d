package metrics

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	t.Run("counting a search", func(t *testing.T) {
		c := NewCollector()
		c.Start(3, 2, 5)
		for i := 0; i < 3; i++ {
			c.AddExpansion()
			c.AddRollout()
			c.AddRollout()
			c.AddEpisode()
		}
		c.SetTreeSize(7)

		metric := c.Complete()

		require.Equal(t, 3, metric.Epochs)
		require.Equal(t, 2, metric.Simulations)
		require.Equal(t, 5.0, metric.Exploration)
		require.Equal(t, 3, metric.Episodes)
		require.Equal(t, 6, metric.Rollouts)
		require.Equal(t, 3, metric.Expansions)
		require.Equal(t, 7, metric.TreeSize)
	})

	t.Run("restarting resets counters", func(t *testing.T) {
		c := NewCollector()
		c.Start(1, 0, 5)
		c.AddEpisode()
		c.Start(1, 0, 5)

		require.Zero(t, c.Complete().Episodes)
	})

	t.Run("dummy collects nothing", func(t *testing.T) {
		c := NewDummyCollector()
		c.Start(3, 2, 5)
		c.AddEpisode()

		require.Equal(t, SearchMetric{}, c.Complete())
	})
}

func readCSV(t *testing.T, path string) [][]string {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "sweep")
	require.NoError(t, err)

	t.Run("writing configs", func(t *testing.T) {
		require.NoError(t, w.WriteSearchConfigs([]SearchConfig{{ID: 1, Epochs: 20, Simulations: 10, Exploration: 5, Seed: 42}}))

		rows := readCSV(t, filepath.Join(w.Dir(), "search_configs.csv"))
		require.Equal(t, [][]string{
			{"id", "epochs", "simulations", "exploration", "seed"},
			{"1", "20", "10", "5", "42"},
		}, rows)
	})

	t.Run("writing runs", func(t *testing.T) {
		start := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		require.NoError(t, w.WriteRunRecords([]RunRecord{{
			Run:    "abc",
			Config: 1,
			EpisodeMetric: EpisodeMetric{
				StartTime: start,
				EndTime:   start.Add(time.Second),
				Duration:  time.Second,
				Steps:     4,
				FinalROI:  1.25,
			},
		}}))

		rows := readCSV(t, filepath.Join(w.Dir(), "run_records.csv"))
		require.Len(t, rows, 2)
		require.Equal(t, []string{"abc", "1", "2024-01-02T03:04:05Z", "2024-01-02T03:04:06Z", "1s", "4", "1.250000"}, rows[1])
	})

	t.Run("writing steps", func(t *testing.T) {
		require.NoError(t, w.WriteStepRecords([]StepRecord{{
			Run:        "abc",
			StepMetric: StepMetric{Step: 2, Action: "buy", SearchMetric: SearchMetric{Episodes: 20, Rollouts: 200, TreeSize: 41}},
		}}))

		rows := readCSV(t, filepath.Join(w.Dir(), "step_records.csv"))
		require.Equal(t, []string{"abc", "2", "buy", "0s", "20", "200", "41"}, rows[1])
	})
}
