package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is the broker's record of an open long holding.
type Position struct {
	Symbol        string    `yaml:"symbol" json:"symbol"`
	Quantity      float64   `yaml:"quantity" json:"quantity"`
	EntryPrice    float64   `yaml:"entry_price" json:"entry_price"`
	EntryFee      float64   `yaml:"entry_fee" json:"entry_fee"`
	OpenTimestamp time.Time `yaml:"open_timestamp" json:"open_timestamp"`
}

// MarketValue returns the value of the position at the given price.
func (p Position) MarketValue(price float64) float64 {
	value, _ := decimal.NewFromFloat(p.Quantity).Mul(decimal.NewFromFloat(price)).Float64()

	return value
}

// RoundTrip is an entry fill paired with the exit fill that closed it.
type RoundTrip struct {
	Symbol          string    `yaml:"symbol" json:"symbol"`
	Quantity        float64   `yaml:"quantity" json:"quantity"`
	EntryTime       time.Time `yaml:"entry_time" json:"entry_time"`
	ExitTime        time.Time `yaml:"exit_time" json:"exit_time"`
	EntryPrice      float64   `yaml:"entry_price" json:"entry_price"`
	ExitPrice       float64   `yaml:"exit_price" json:"exit_price"`
	EntryCommission float64   `yaml:"entry_commission" json:"entry_commission"`
	ExitCommission  float64   `yaml:"exit_commission" json:"exit_commission"`
	// GrossPnL is (exit price - entry price) * quantity.
	GrossPnL float64 `yaml:"gross_pnl" json:"gross_pnl"`
	// NetPnL is GrossPnL minus both commissions.
	NetPnL float64 `yaml:"net_pnl" json:"net_pnl"`
}

// NewRoundTrip pairs an entry and exit fill for symbol and computes the profit with decimal arithmetic.
// The quantity of the exit fill is used; the strategy always trades the same fixed size.
func NewRoundTrip(symbol string, entry Fill, exit Fill) RoundTrip {
	quantity := decimal.NewFromFloat(exit.Quantity)
	grossDec := decimal.NewFromFloat(exit.Price).Sub(decimal.NewFromFloat(entry.Price)).Mul(quantity)
	netDec := grossDec.
		Sub(decimal.NewFromFloat(entry.Commission)).
		Sub(decimal.NewFromFloat(exit.Commission))

	gross, _ := grossDec.Float64()
	net, _ := netDec.Float64()

	return RoundTrip{
		Symbol:          symbol,
		Quantity:        exit.Quantity,
		EntryTime:       entry.Time,
		ExitTime:        exit.Time,
		EntryPrice:      entry.Price,
		ExitPrice:       exit.Price,
		EntryCommission: entry.Commission,
		ExitCommission:  exit.Commission,
		GrossPnL:        gross,
		NetPnL:          net,
	}
}

// IsWin reports whether the round-trip made money after commission.
func (r RoundTrip) IsWin() bool {
	return r.NetPnL > 0
}

// HoldingTime returns how long the position was open.
func (r RoundTrip) HoldingTime() time.Duration {
	return r.ExitTime.Sub(r.EntryTime)
}
