package experiments

import (
	"fmt"
	"io"

	"lobmcts/experiments/metrics"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// MeanROI averages the final return of the runs of each config, in config order.
func MeanROI(configs []metrics.SearchConfig, runs []metrics.RunRecord) []float64 {
	sums := make(map[int]float64, len(configs))
	counts := make(map[int]int, len(configs))
	for _, run := range runs {
		sums[run.Config] += run.FinalROI
		counts[run.Config]++
	}

	means := make([]float64, len(configs))
	for i, config := range configs {
		if counts[config.ID] > 0 {
			means[i] = sums[config.ID] / float64(counts[config.ID])
		}
	}
	return means
}

func label(config metrics.SearchConfig) string {
	return fmt.Sprintf("e%d s%d c%g", config.Epochs, config.Simulations, config.Exploration)
}

// Plot renders a bar chart of the mean final return per config as HTML.
func Plot(w io.Writer, name string, configs []metrics.SearchConfig, runs []metrics.RunRecord) error {
	labels := make([]string, 0, len(configs))
	for _, config := range configs {
		labels = append(labels, label(config))
	}
	data := make([]opts.BarData, 0, len(configs))
	for _, mean := range MeanROI(configs, runs) {
		data = append(data, opts.BarData{Value: mean})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    name,
			Subtitle: fmt.Sprintf("mean final ROI over %d runs", len(runs)),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "config"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "ROI"}),
	)
	bar.SetXAxis(labels).AddSeries("mean ROI", data)

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("failed to render plot: %w", err)
	}
	return nil
}
