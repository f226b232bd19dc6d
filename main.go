package main

import (
	"fmt"
	"os"
	"time"

	"lobmcts/config"
	"lobmcts/engine"
	"lobmcts/experiments"
	"lobmcts/experiments/metrics"
	"lobmcts/render"
	"lobmcts/searcher"
	"lobmcts/searcher/agent"
	"lobmcts/utils"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath string
	seed       uint64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "lobmcts",
		Short:         "Monte Carlo tree search over a simulated limit order book",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (defaults apply when empty)")
	rootCmd.PersistentFlags().Uint64VarP(&seed, "seed", "s", 0, "Random seed (overrides config)")

	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(episodeCmd())
	rootCmd.AddCommand(experimentCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// setup loads the config and configures the global logger from it
func setup(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return cfg, err
		}
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}

	zerolog.SetGlobalLevel(cfg.Level())
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	return cfg, nil
}

func searchCmd() *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run one search from the configured book and print the preferred action",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			state, err := cfg.State()
			if err != nil {
				return err
			}

			mcts := searcher.NewMCTS(searcher.NewRoot(state.Book, state.Capital, state.Holding), cfg.Options(cfg.Seed)...)
			metric, err := mcts.Search()
			if err != nil {
				return err
			}
			preferred, err := mcts.Preferred()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "preferred: %s\n", preferred)
			for _, child := range mcts.Ranked() {
				fmt.Fprintf(out, "  %-4s visits=%d value=%.4f\n", child.Action(), child.Visits(), child.Value())
			}
			fmt.Fprint(out, "line:")
			for _, node := range mcts.PrincipalLine() {
				fmt.Fprintf(out, " %s", node.Action())
			}
			fmt.Fprintln(out)
			log.Info().Msgf("searched %d epochs in %s, tree size %d", metric.Episodes, metric.Duration, metric.TreeSize)

			if depth > 0 {
				return render.Tree(out, mcts.Root(), depth)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&depth, "render", "r", 0, "Print the tree down to this depth")
	return cmd
}

func episodeCmd() *cobra.Command {
	var (
		steps       int
		temperature float64
	)

	cmd := &cobra.Command{
		Use:   "episode",
		Short: "Trade step by step, searching before every action",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("steps") {
				cfg.Episode.Steps = steps
			}
			state, err := cfg.State()
			if err != nil {
				return err
			}

			// One source drives searches, sampling and book moves
			rng := utils.NewRand(cfg.Seed)
			options := append(cfg.Options(cfg.Seed), searcher.WithRand(rng))
			var a agent.Agent
			if temperature > 0 {
				a = agent.NewTrainingAgent(temperature, rng, options...)
			} else {
				a = agent.NewEvaluationAgent(options...)
			}

			stepMetrics, episode, err := engine.LocalEngine(state, a, cfg.Model(), cfg.Episode.Steps, rng).Run()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, step := range stepMetrics {
				fmt.Fprintf(out, "%3d %-4s episodes=%d tree=%d\n", step.Step, step.Action, step.Episodes, step.TreeSize)
			}
			fmt.Fprintf(out, "roi: %.6f over %d steps in %s\n", episode.FinalROI, episode.Steps, episode.Duration)
			return nil
		},
	}
	cmd.Flags().IntVarP(&steps, "steps", "n", 0, "Number of steps (overrides config)")
	cmd.Flags().Float64VarP(&temperature, "temperature", "t", 0, "Sample actions by visit counts at this temperature instead of playing the most visited")
	return cmd
}

func experimentCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "experiment",
		Short: "Sweep search parameters over repeated episodes and store the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			state, err := cfg.State()
			if err != nil {
				return err
			}

			configs := make([]metrics.SearchConfig, len(experiments.Sweep))
			copy(configs, experiments.Sweep)
			for i := range configs {
				configs[i].Seed = cfg.Seed
			}

			e := experiments.Experiment{
				Name:    "sweep",
				Configs: configs,
				Runs:    cfg.Episode.Runs,
				Steps:   cfg.Episode.Steps,
				Workers: cfg.Episode.Workers,
				State:   state,
				Model:   cfg.Model(),
			}
			results, err := e.Run()
			if err != nil {
				return err
			}
			dir, err := e.Store(out, results)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "results stored in %s\n", dir)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "results", "Directory for experiment results")
	return cmd
}
