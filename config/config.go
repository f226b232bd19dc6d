package config

import (
	"errors"
	"fmt"
	"os"

	"lobmcts/book"
	"lobmcts/searcher"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	LogLevel string  `yaml:"log_level"`
	Seed     uint64  `yaml:"seed"`
	Account  Account `yaml:"account"`
	Search   Search  `yaml:"search"`
	Book     Book    `yaml:"book"`
	Episode  Episode `yaml:"episode"`
}

type Account struct {
	Capital float64 `yaml:"capital"`
	Holding int     `yaml:"holding"`
}

type Search struct {
	Epochs      int     `yaml:"epochs"`
	Simulations int     `yaml:"simulations"`
	Exploration float64 `yaml:"exploration"`
}

type Book struct {
	Tick          float64            `yaml:"tick"`
	Probabilities book.Probabilities `yaml:"probabilities"`
	// Bid prices, bid quantities, ask prices, ask quantities
	Snapshot []float64 `yaml:"snapshot"`
}

type Episode struct {
	Steps   int `yaml:"steps"`
	Runs    int `yaml:"runs"`
	Workers int `yaml:"workers"`
}

func Default() Config {
	return Config{
		LogLevel: zerolog.LevelInfoValue,
		Account:  Account{Capital: 10000, Holding: 0},
		Search: Search{
			Epochs:      searcher.DefaultEpochs,
			Simulations: searcher.DefaultSimulations,
			Exploration: searcher.Exploration,
		},
		Book: Book{
			Tick:          book.Tick,
			Probabilities: book.DefaultProbabilities,
			Snapshot: []float64{
				100, 99.5, 99, 98.5, 98,
				10, 9, 8, 7, 6,
				100.5, 101, 101.5, 102, 102.5,
				10, 9, 8, 7, 6,
			},
		},
		Episode: Episode{Steps: 10, Runs: 5},
	}
}

// Load reads a YAML file over the defaults; keys absent from the file keep their default.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.Account.Capital <= 0 {
		return fmt.Errorf("%w: capital must be positive", ErrInvalidConfig)
	}
	if c.Account.Holding < 0 {
		return fmt.Errorf("%w: holding must not be negative", ErrInvalidConfig)
	}
	if c.Search.Epochs <= 0 {
		return fmt.Errorf("%w: epochs must be positive", ErrInvalidConfig)
	}
	if c.Search.Simulations < 0 {
		return fmt.Errorf("%w: simulations must not be negative", ErrInvalidConfig)
	}
	if c.Search.Exploration < 0 {
		return fmt.Errorf("%w: exploration must not be negative", ErrInvalidConfig)
	}
	if c.Book.Tick <= 0 {
		return fmt.Errorf("%w: tick must be positive", ErrInvalidConfig)
	}
	for _, regime := range c.Book.Probabilities {
		for _, thresholds := range regime {
			if thresholds[0] < 0 || thresholds[0] > thresholds[1] || thresholds[1] > 1 {
				return fmt.Errorf("%w: thresholds %v must satisfy 0 <= up <= down <= 1", ErrInvalidConfig, thresholds)
			}
		}
	}
	if _, err := book.FromSnapshot(c.Book.Snapshot); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Episode.Steps <= 0 || c.Episode.Runs <= 0 || c.Episode.Workers < 0 {
		return fmt.Errorf("%w: episode steps and runs must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

func (c Config) Model() book.Model {
	return book.Model{Tick: c.Book.Tick, Probabilities: c.Book.Probabilities}
}

// State builds the starting account and book.
func (c Config) State() (searcher.State, error) {
	b, err := book.FromSnapshot(c.Book.Snapshot)
	if err != nil {
		return searcher.State{}, err
	}
	return searcher.State{Capital: c.Account.Capital, Holding: c.Account.Holding, Book: b}, nil
}

// Options are the search options of the config, seeded with seed.
func (c Config) Options(seed uint64) []searcher.Option {
	return []searcher.Option{
		searcher.WithEpochs(c.Search.Epochs),
		searcher.WithSimulations(c.Search.Simulations),
		searcher.WithExploration(c.Search.Exploration),
		searcher.WithModel(c.Model()),
		searcher.WithSeed(seed),
		searcher.WithMetrics(),
	}
}
