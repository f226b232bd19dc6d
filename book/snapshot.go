package book

import (
	"fmt"
	"math"
)

// SnapshotSize is the length of the flat snapshot layout:
// bid prices @0, bid quantities @5, ask prices @10, ask quantities @15.
const SnapshotSize = 4 * Depth

const (
	bidPriceOffset = 0
	bidQtyOffset   = Depth
	askPriceOffset = 2 * Depth
	askQtyOffset   = 3 * Depth
)

type Snapshot [SnapshotSize]float64

// FromSnapshot reshapes the flat layout into a two-sided book and its price -> quantity map.
func FromSnapshot(values []float64) (*Book, error) {
	if len(values) != SnapshotSize {
		return nil, fmt.Errorf("%w: snapshot has %d values, expected %d", ErrMalformedOrderBook, len(values), SnapshotSize)
	}

	b := &Book{Full: make(map[float64]int, 2*Depth)}
	for i := 0; i < Depth; i++ {
		bidQty, err := quantity(values[bidQtyOffset+i])
		if err != nil {
			return nil, err
		}
		askQty, err := quantity(values[askQtyOffset+i])
		if err != nil {
			return nil, err
		}
		b.Bids[i] = Level{Price: values[bidPriceOffset+i], Quantity: bidQty}
		b.Asks[i] = Level{Price: values[askPriceOffset+i], Quantity: askQty}
		b.Full[b.Bids[i].Price] = bidQty
		b.Full[b.Asks[i].Price] = askQty
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func quantity(v float64) (int, error) {
	if v < 0 || v != math.Trunc(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: quantity %v is not a non-negative integer", ErrMalformedOrderBook, v)
	}
	return int(v), nil
}

// Snapshot flattens the visible levels back into the input layout.
func (b *Book) Snapshot() Snapshot {
	var s Snapshot
	for i := 0; i < Depth; i++ {
		s[bidPriceOffset+i] = b.Bids[i].Price
		s[bidQtyOffset+i] = float64(b.Bids[i].Quantity)
		s[askPriceOffset+i] = b.Asks[i].Price
		s[askQtyOffset+i] = float64(b.Asks[i].Quantity)
	}
	return s
}
