package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// SearchConfig is one point of a parameter sweep.
type SearchConfig struct {
	ID          int
	Epochs      int
	Simulations int
	Exploration float64
	Seed        uint64
}

type RunRecord struct {
	Run    string // uuid of the run
	Config int    // SearchConfig.ID
	EpisodeMetric
}

type StepRecord struct {
	Run string // RunRecord.Run
	StepMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a timestamped directory for the experiment under root.
func NewWriter(root, name string) (*Writer, error) {
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteSearchConfigs(configs []SearchConfig) error {
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			strconv.Itoa(config.Epochs),
			strconv.Itoa(config.Simulations),
			strconv.FormatFloat(config.Exploration, 'f', -1, 64),
			strconv.FormatUint(config.Seed, 10),
		})
	}
	header := []string{"id", "epochs", "simulations", "exploration", "seed"}
	return w.write("search_configs.csv", header, rows)
}

func (w *Writer) WriteRunRecords(records []RunRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.Run,
			strconv.Itoa(record.Config),
			record.StartTime.Format(time.RFC3339),
			record.EndTime.Format(time.RFC3339),
			record.Duration.String(),
			strconv.Itoa(record.Steps),
			strconv.FormatFloat(record.FinalROI, 'f', 6, 64),
		})
	}
	header := []string{"run", "config", "start_time", "end_time", "duration", "steps", "final_roi"}
	return w.write("run_records.csv", header, rows)
}

func (w *Writer) WriteStepRecords(records []StepRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			record.Run,
			strconv.Itoa(record.Step),
			record.Action,
			record.Duration.String(),
			strconv.Itoa(record.Episodes),
			strconv.Itoa(record.Rollouts),
			strconv.Itoa(record.TreeSize),
		})
	}
	header := []string{"run", "step", "action", "duration", "episodes", "rollouts", "tree_size"}
	return w.write("step_records.csv", header, rows)
}

func (w *Writer) write(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)

	err = writer.Write(header)
	if err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	err = writer.WriteAll(rows)
	if err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}

	return nil
}
