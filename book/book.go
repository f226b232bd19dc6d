package book

import (
	"fmt"
	"strings"
)

// Depth is the number of visible price levels on each side of the book.
const Depth = 5

type Side int

const (
	Bid Side = iota // Matched by an incoming sell order
	Ask             // Matched by an incoming buy order
)

func (s Side) Opposite() Side {
	return 1 - s
}

// improvement is the price direction of a better level on this side
func (s Side) improvement() float64 {
	if s == Bid {
		return 1
	}
	return -1
}

func (s Side) String() string {
	switch s {
	case Bid:
		return "bid"
	case Ask:
		return "ask"
	default:
		return "unknown"
	}
}

// Level is an aggregated price level of the visible book.
type Level struct {
	Price    float64
	Quantity int
}

// Book holds the visible top of the limit order book plus every price level ever seen,
// so a price re-entering the visible range recovers its last known quantity.
// Bids are sorted best (highest) first, asks best (lowest) first.
type Book struct {
	Bids [Depth]Level
	Asks [Depth]Level
	Full map[float64]int
}

func (b *Book) Levels(side Side) *[Depth]Level {
	if side == Bid {
		return &b.Bids
	}
	return &b.Asks
}

func (b *Book) Best(side Side) Level {
	return b.Levels(side)[0]
}

func (b *Book) Spread() float64 {
	return b.Asks[0].Price - b.Bids[0].Price
}

// Clone returns a copy that shares no mutable state with b.
func (b *Book) Clone() *Book {
	full := make(map[float64]int, len(b.Full))
	for price, qty := range b.Full {
		full[price] = qty
	}
	return &Book{Bids: b.Bids, Asks: b.Asks, Full: full}
}

// Validate checks the ordering of both sides and that the full book covers every visible level.
func (b *Book) Validate() error {
	for _, side := range []Side{Bid, Ask} {
		levels := b.Levels(side)
		for i, level := range levels {
			if level.Quantity < 0 {
				return fmt.Errorf("%w: negative quantity %d at %s level %d", ErrMalformedOrderBook, level.Quantity, side, i)
			}
			if _, ok := b.Full[level.Price]; !ok {
				return fmt.Errorf("%w: %s price %v missing from full book", ErrMalformedOrderBook, side, level.Price)
			}
			if i > 0 && (level.Price-levels[i-1].Price)*side.improvement() >= 0 {
				return fmt.Errorf("%w: %s prices not strictly ordered at level %d", ErrMalformedOrderBook, side, i)
			}
		}
	}
	return nil
}

// recall returns the remembered quantity at price, recording the default of 1 for a new price
func (b *Book) recall(price float64) int {
	if qty, ok := b.Full[price]; ok {
		return qty
	}
	b.Full[price] = 1
	return 1
}

func (b *Book) String() string {
	var sb strings.Builder
	sb.WriteString("Book{")
	for i := Depth - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "%v@%d ", b.Bids[i].Price, b.Bids[i].Quantity)
	}
	sb.WriteString("|")
	for i := 0; i < Depth; i++ {
		fmt.Fprintf(&sb, " %v@%d", b.Asks[i].Price, b.Asks[i].Quantity)
	}
	sb.WriteString("}")
	return sb.String()
}
