package indicator

import (
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"github.com/shopspring/decimal"
)

// MA implements a Simple Moving Average over close prices.
// Values are computed in decimal so that two windows over identical prices compare equal.
type MA struct {
	period int
}

// NewMA creates an MA over the given number of closes.
func NewMA(period int) (*MA, error) {
	if period <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	return &MA{period: period}, nil
}

// Period returns the window length.
func (m *MA) Period() int {
	return m.period
}

// RawValue returns the average of the last Period closes.
func (m *MA) RawValue(closes []float64) (decimal.Decimal, error) {
	return m.valueAt(closes, len(closes)-1)
}

// valueAt returns the average of the Period closes ending at index (inclusive).
func (m *MA) valueAt(closes []float64, index int) (decimal.Decimal, error) {
	if index < 0 || index >= len(closes) || index+1 < m.period {
		return decimal.Zero, errors.NewInsufficientDataErrorf(m.period, index+1, "",
			"insufficient data for MA(%d): have %d closes", m.period, index+1)
	}

	return calculateSimpleMovingAverage(closes[index+1-m.period : index+1]), nil
}

func calculateSimpleMovingAverage(closes []float64) decimal.Decimal {
	sum := decimal.Zero
	for _, c := range closes {
		sum = sum.Add(decimal.NewFromFloat(c))
	}

	return sum.Div(decimal.NewFromInt(int64(len(closes))))
}
