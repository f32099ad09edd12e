package indicator

import (
	"github.com/rxtech-lab/argo-rotation/internal/types"
)

// SignalEngine keeps a bounded close-price history per instrument and classifies
// each new bar with a Crossover. Feeding the same closes always yields the same readings.
type SignalEngine struct {
	crossover *Crossover
	history   map[string][]float64
}

// NewSignalEngine creates a SignalEngine with the given fast and slow window lengths.
func NewSignalEngine(fastPeriod, slowPeriod int) (*SignalEngine, error) {
	crossover, err := NewCrossover(fastPeriod, slowPeriod)
	if err != nil {
		return nil, err
	}

	return &SignalEngine{
		crossover: crossover,
		history:   make(map[string][]float64),
	}, nil
}

// Update appends price to symbol's history and classifies the new bar.
// Before enough history exists the reading is CrossoverNone and the error is an
// InsufficientDataError, which callers treat as "no crossover".
func (e *SignalEngine) Update(symbol string, price float64) (types.CrossoverReading, error) {
	closes := append(e.history[symbol], price)
	if excess := len(closes) - e.crossover.RequiredHistory(); excess > 0 {
		closes = append(closes[:0], closes[excess:]...)
	}

	e.history[symbol] = closes

	return e.crossover.Evaluate(symbol, closes)
}

// Len returns how many closes are retained for symbol.
func (e *SignalEngine) Len(symbol string) int {
	return len(e.history[symbol])
}

// Reset drops all history.
func (e *SignalEngine) Reset() {
	e.history = make(map[string][]float64)
}
