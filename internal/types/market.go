package types

import (
	"time"

	"github.com/moznion/go-optional"
)

// MarketData is a single OHLCV bar for one instrument.
type MarketData struct {
	Id     string    `yaml:"id" json:"id"`
	Symbol string    `yaml:"symbol" json:"symbol"`
	Time   time.Time `yaml:"time" json:"time"`
	Open   float64   `yaml:"open" json:"open"`
	High   float64   `yaml:"high" json:"high"`
	Low    float64   `yaml:"low" json:"low"`
	Close  float64   `yaml:"close" json:"close"`
	Volume float64   `yaml:"volume" json:"volume"`
}

// BarContext is what the engine hands the strategy on every synchronized time step.
// Bars for all instruments are expected to share Time; the strategy does not re-check it.
type BarContext struct {
	// Time is the timestamp shared by every bar in Bars.
	Time time.Time
	// Bars holds the current bar of each instrument keyed by symbol.
	Bars map[string]MarketData
	// Cash is the broker's free cash after settling the orders filled on this bar.
	Cash float64
	// Position is the broker's open position, if any. It is the single source of truth.
	Position optional.Option[Position]
}

// Bar returns the bar for symbol and whether it was present.
func (b BarContext) Bar(symbol string) (MarketData, bool) {
	data, ok := b.Bars[symbol]

	return data, ok
}

// Holding reports whether the context carries an open long position in symbol.
func (b BarContext) Holding(symbol string) bool {
	if b.Position.IsNone() {
		return false
	}

	position := b.Position.Unwrap()

	return position.Symbol == symbol && position.Quantity > 0
}
