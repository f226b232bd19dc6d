package book

import (
	"testing"

	"lobmcts/utils"

	"github.com/stretchr/testify/require"
)

func TestModelRegime(t *testing.T) {
	m := NewModel()

	t.Run("one tick spread", func(t *testing.T) {
		require.Equal(t, 0, m.Regime(testBook(t)))
	})

	t.Run("two tick spread", func(t *testing.T) {
		b := testBook(t)
		b.Asks[0].Price = 101
		require.Equal(t, 1, m.Regime(b))
	})
}

func TestModelTransition(t *testing.T) {
	m := NewModel()

	t.Run("bid moving up recalls the quantity of a known price", func(t *testing.T) {
		b := testBook(t)

		move := m.Transition(b, Bid, zeros())

		require.Equal(t, Up, move)
		require.Equal(t, 100.5, b.Bids[0].Price, "Best bid should improve by one tick")
		require.Equal(t, 10, b.Bids[0].Quantity, "Known price should reuse its remembered quantity")
		require.Equal(t, 100.0, b.Bids[1].Price, "Previous best should shift down one level")
		require.Equal(t, 98.5, b.Bids[Depth-1].Price, "Previous worst level should be dropped")
		require.Equal(t, 10, b.Asks[0].Quantity, "Opposite side scaled by 1.0 should keep its depth")
	})

	t.Run("ask moving up records an unseen price with quantity 1", func(t *testing.T) {
		b := testBook(t)
		b.Bids[0].Price = 99.8
		b.Full[99.8] = 10
		delete(b.Full, 100)

		move := m.Transition(b, Ask, zeros())

		require.Equal(t, Up, move)
		require.Equal(t, 100.0, b.Asks[0].Price, "Best ask should improve by one tick")
		require.Equal(t, 1, b.Asks[0].Quantity)
		require.Equal(t, 1, b.Full[100.0], "New price should be recorded in the full book")
	})

	t.Run("bid moving down appends a new worst level", func(t *testing.T) {
		b := testBook(t)

		// 0.0069 < r <= 0.0095 in the one tick regime
		move := m.Transition(b, Bid, &sequence{draws: []float64{0.008, 0, 0}})

		require.Equal(t, Down, move)
		require.Equal(t, 99.5, b.Bids[0].Price, "Best bid should be consumed")
		require.Equal(t, 97.5, b.Bids[Depth-1].Price, "New worst bid should sit one tick below")
		require.Equal(t, 1, b.Bids[Depth-1].Quantity)
	})

	t.Run("no price move rescales the matched depth", func(t *testing.T) {
		b := testBook(t)

		move := m.Transition(b, Ask, &sequence{draws: []float64{0.5, 0, 0.5}})

		require.Equal(t, Hold, move)
		require.Equal(t, 100.5, b.Asks[0].Price)
		require.Equal(t, 7, b.Asks[0].Quantity, "Matched depth should scale by 0.7")
		require.Equal(t, 7, b.Full[100.5])
		require.Equal(t, 11, b.Bids[0].Quantity, "Opposite depth should scale by 1.15 and truncate")
		require.Equal(t, 11, b.Full[100])
	})

	t.Run("books stay well formed over many random transitions", func(t *testing.T) {
		b := testBook(t)
		rng := utils.NewRand(1)

		for i := 0; i < 2000; i++ {
			m.Transition(b, Side(rng.Intn(2)), rng)
			require.NoError(t, b.Validate(), "Transition %d broke the book", i)
		}
	})
}

func TestTransitionSaturatesQuantities(t *testing.T) {
	m := NewModel()

	t.Run("opposite depth at the ceiling stays there", func(t *testing.T) {
		b := testBook(t)
		b.Bids[0].Quantity = MaxQuantity - 1
		b.Full[b.Bids[0].Price] = MaxQuantity - 1

		m.Transition(b, Ask, &sequence{draws: []float64{0.5, 0.5, 0.999}})

		require.Equal(t, MaxQuantity, b.Bids[0].Quantity)
		require.Equal(t, MaxQuantity, b.Full[b.Bids[0].Price])
		require.NoError(t, b.Validate())
	})

	t.Run("matched depth shrinks from the ceiling", func(t *testing.T) {
		b := testBook(t)
		b.Asks[0].Quantity = MaxQuantity
		b.Full[b.Asks[0].Price] = MaxQuantity

		m.Transition(b, Ask, &sequence{draws: []float64{0.5, 0, 0}})

		require.Greater(t, b.Asks[0].Quantity, 0)
		require.Less(t, b.Asks[0].Quantity, MaxQuantity)
		require.NoError(t, b.Validate())
	})

	t.Run("long runs never overflow", func(t *testing.T) {
		for seed := uint64(0); seed < 20; seed++ {
			b := testBook(t)
			rng := utils.NewRand(seed)
			for i := 0; i < 3000; i++ {
				m.Transition(b, Side(rng.Intn(2)), rng)
			}
			require.NoError(t, b.Validate(), "seed %d", seed)
		}
	})
}
