package book

import "errors"

// ErrMalformedOrderBook reports a book that violates level ordering or full-book coverage.
var ErrMalformedOrderBook = errors.New("malformed order book")
