package indicator

import (
	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"github.com/shopspring/decimal"
)

// Crossover classifies fast/slow moving-average crossovers from a close-price history.
// It holds no history itself; see SignalEngine for the per-instrument accumulator.
//
// The fast window is expected to be shorter than the slow one but this is not enforced.
type Crossover struct {
	fast *MA
	slow *MA
}

// NewCrossover creates a Crossover with the given window lengths.
func NewCrossover(fastPeriod, slowPeriod int) (*Crossover, error) {
	fast, err := NewMA(fastPeriod)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPeriod, "invalid fast period", err)
	}

	slow, err := NewMA(slowPeriod)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPeriod, "invalid slow period", err)
	}

	return &Crossover{fast: fast, slow: slow}, nil
}

// RequiredHistory is the number of closes needed for a defined reading:
// the longer window plus one bar for the previous pair.
func (c *Crossover) RequiredHistory() int {
	return max(c.fast.Period(), c.slow.Period()) + 1
}

// Evaluate classifies the last bar of closes for symbol.
// It returns an InsufficientDataError until RequiredHistory closes are available.
func (c *Crossover) Evaluate(symbol string, closes []float64) (types.CrossoverReading, error) {
	if len(closes) < c.RequiredHistory() {
		return types.CrossoverReading{Symbol: symbol, Crossover: types.CrossoverNone},
			errors.NewInsufficientDataErrorf(c.RequiredHistory(), len(closes), symbol,
				"insufficient history for %s: need %d closes, have %d", symbol, c.RequiredHistory(), len(closes))
	}

	last := len(closes) - 1

	// the length check above guarantees both windows are filled at last and last-1
	fast, _ := c.fast.valueAt(closes, last)
	slow, _ := c.slow.valueAt(closes, last)
	prevFast, _ := c.fast.valueAt(closes, last-1)
	prevSlow, _ := c.slow.valueAt(closes, last-1)

	return types.CrossoverReading{
		Symbol:    symbol,
		Fast:      fast.InexactFloat64(),
		Slow:      slow.InexactFloat64(),
		PrevFast:  prevFast.InexactFloat64(),
		PrevSlow:  prevSlow.InexactFloat64(),
		Crossover: ClassifyCrossover(prevFast, prevSlow, fast, slow),
	}, nil
}

// ClassifyCrossover applies the crossover rule to two consecutive fast/slow pairs.
// The current comparison is strict and the previous one is not, so a bar where
// fast equals slow does not prevent a cross from being recognized on the next bar.
func ClassifyCrossover(prevFast, prevSlow, fast, slow decimal.Decimal) types.Crossover {
	switch {
	case fast.GreaterThan(slow) && prevFast.LessThanOrEqual(prevSlow):
		return types.CrossoverBullish
	case fast.LessThan(slow) && prevFast.GreaterThanOrEqual(prevSlow):
		return types.CrossoverBearish
	default:
		return types.CrossoverNone
	}
}
