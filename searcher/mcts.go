package searcher

import (
	"slices"

	"lobmcts/book"
	"lobmcts/experiments/metrics"
	"lobmcts/utils"

	"github.com/rs/zerolog/log"
)

type Option func(mcts *MCTS)

type MCTS struct {
	epochs         int
	simulations    int
	exploration    float64
	initialCapital float64
	model          book.Model
	evaluate       Evaluate
	rng            utils.Rand
	root           *Node
	metrics        metrics.Collector
}

func WithEpochs(epochs int) Option {
	return func(m *MCTS) {
		if epochs > 0 {
			m.epochs = epochs
			return
		}
		log.Warn().Msgf("ignoring non-positive epochs %d", epochs)
	}
}

// WithSimulations sets the rollout iterations per epoch; zero falls back to the node's own return.
func WithSimulations(simulations int) Option {
	return func(m *MCTS) {
		if simulations >= 0 {
			m.simulations = simulations
			return
		}
		log.Warn().Msgf("ignoring negative simulations %d", simulations)
	}
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c >= 0 {
			m.exploration = c
			return
		}
		log.Warn().Msgf("ignoring negative exploration constant %v", c)
	}
}

// WithInitialCapital sets the denominator of the return; defaults to the root's capital.
func WithInitialCapital(capital float64) Option {
	return func(m *MCTS) {
		if capital > 0 {
			m.initialCapital = capital
			return
		}
		log.Warn().Msgf("ignoring non-positive initial capital %v", capital)
	}
}

func WithModel(model book.Model) Option {
	return func(m *MCTS) {
		m.model = model
	}
}

func WithEvaluationFn(evaluate Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithRand(rng utils.Rand) Option {
	return func(m *MCTS) {
		if rng != nil {
			m.rng = rng
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = utils.NewRand(seed)
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = metrics.NewCollector()
	}
}

func NewMCTS(root *Node, options ...Option) *MCTS {
	m := &MCTS{ // Default values
		epochs:         DefaultEpochs,
		simulations:    DefaultSimulations,
		exploration:    Exploration,
		initialCapital: root.Capital(),
		model:          book.NewModel(),
		evaluate:       RandomPrior,
		root:           root,
		metrics:        metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = utils.NewRand(0)
	}
	if m.initialCapital <= 0 {
		panic("Must specify a positive initial capital")
	}
	return m
}

func (m *MCTS) Root() *Node {
	return m.root
}

// Search runs the configured number of epochs on the persistent tree.
func (m *MCTS) Search() (metrics.SearchMetric, error) {
	policy := newUCB(m.exploration)
	expander := expander{model: m.model, evaluate: m.evaluate}

	m.metrics.Start(m.epochs, m.simulations, m.exploration)
	for epoch := 0; epoch < m.epochs; epoch++ {
		leaf, err := policy.selects(m.root)
		if err != nil {
			return metrics.SearchMetric{}, err
		}
		child, err := expander.expands(leaf, m.rng)
		if err != nil {
			return metrics.SearchMetric{}, err
		}
		m.metrics.AddExpansion()

		roi, err := m.rollout(policy, expander, child)
		if err != nil {
			return metrics.SearchMetric{}, err
		}
		backup(child, roi)
		m.metrics.AddEpisode()

		log.Debug().
			Int("epoch", epoch+1).
			Int("epochs", m.epochs).
			Stringer("action", child.action).
			Int("depth", child.Depth()).
			Float64("roi", roi).
			Msg("completed epoch")
	}
	m.metrics.SetTreeSize(m.root.Size())

	return m.metrics.Complete(), nil
}

// rollout estimates the return of a freshly expanded node on a detached copy of its subtree
func (m *MCTS) rollout(policy ucb, expander expander, node *Node) (float64, error) {
	root := node.Clone()
	for i := 0; i < m.simulations; i++ {
		leaf, err := policy.selects(root)
		if err != nil {
			return 0, err
		}
		child, err := expander.expands(leaf, m.rng)
		if err != nil {
			return 0, err
		}
		backup(child, m.roi(child))
		m.metrics.AddRollout()
	}

	// No iterations ran: the node's own return is the one-step estimate
	if root.IsLeaf() {
		return m.roi(root), nil
	}

	best, err := mostVisited(root)
	if err != nil {
		return 0, err
	}
	return best.Value(), nil
}

func (m *MCTS) roi(n *Node) float64 {
	return n.Capital() / m.initialCapital
}

// backup updates every node from node up to, but excluding, the root
func backup(node *Node, roi float64) {
	for node != nil && !node.IsRoot() {
		parent := node.Backup(roi)
		node = parent
	}
}

// Preferred returns the most visited child of the root.
func (m *MCTS) Preferred() (*Node, error) {
	return mostVisited(m.root)
}

// Ranked returns the root's children by descending visits, keeping child order on ties.
func (m *MCTS) Ranked() []*Node {
	ranked := m.root.Children()
	slices.SortStableFunc(ranked, func(a, b *Node) int {
		return b.visits - a.visits
	})
	return ranked
}

// Policy maps each root action to its visit count.
func (m *MCTS) Policy() map[Action]int {
	policy := make(map[Action]int, len(m.root.children))
	for _, child := range m.root.children {
		policy[child.action] = child.visits
	}
	return policy
}

// PrincipalLine follows the most visited child from the root down to a leaf.
func (m *MCTS) PrincipalLine() []*Node {
	var line []*Node
	node := m.root
	for !node.IsLeaf() {
		next, err := mostVisited(node)
		if err != nil {
			break
		}
		line = append(line, next)
		node = next
	}
	return line
}
