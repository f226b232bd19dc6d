package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Epochs      int
	Simulations int
	Exploration float64
	Duration    time.Duration
	Episodes    int // Completed top-level epochs
	Rollouts    int // Completed simulation iterations
	Expansions  int
	TreeSize    int
}

type StepMetric struct {
	Step   int
	Action string
	SearchMetric
}

type EpisodeMetric struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Steps     int
	FinalROI  float64
}

type Collector interface {
	Start(epochs, simulations int, exploration float64)
	AddEpisode()
	AddRollout()
	AddExpansion()
	SetTreeSize(size int)
	Complete() SearchMetric
}

type collector struct {
	epochs      int
	simulations int
	exploration float64
	startTime   time.Time
	episodes    atomic.Int32
	rollouts    atomic.Int32
	expansions  atomic.Int32
	treeSize    atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(epochs, simulations int, exploration float64) {
	m.startTime = time.Now()
	m.epochs = epochs
	m.simulations = simulations
	m.exploration = exploration
	m.episodes.Store(0)
	m.rollouts.Store(0)
	m.expansions.Store(0)
	m.treeSize.Store(0)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddRollout() {
	m.rollouts.Add(1)
}

func (m *collector) AddExpansion() {
	m.expansions.Add(1)
}

func (m *collector) SetTreeSize(size int) {
	m.treeSize.Store(int32(size))
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Epochs:      m.epochs,
		Simulations: m.simulations,
		Exploration: m.exploration,
		Duration:    time.Since(m.startTime),
		Episodes:    int(m.episodes.Load()),
		Rollouts:    int(m.rollouts.Load()),
		Expansions:  int(m.expansions.Load()),
		TreeSize:    int(m.treeSize.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(epochs, simulations int, exploration float64) {}
func (m *dummyCollector) AddEpisode()                                        {}
func (m *dummyCollector) AddRollout()                                        {}
func (m *dummyCollector) AddExpansion()                                      {}
func (m *dummyCollector) SetTreeSize(size int)                               {}
func (m *dummyCollector) Complete() SearchMetric                             { return SearchMetric{} }
