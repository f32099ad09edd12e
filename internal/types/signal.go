package types

// Crossover classifies how the fast moving average moved relative to the slow one on a bar.
type Crossover string

const (
	// CrossoverNone means no crossover, including when history is insufficient.
	CrossoverNone Crossover = "NONE"
	// CrossoverBullish means fast rose strictly above slow after being at or below it.
	CrossoverBullish Crossover = "BULLISH_CROSS"
	// CrossoverBearish means fast fell strictly below slow after being at or above it.
	CrossoverBearish Crossover = "BEARISH_CROSS"
)

// CrossoverReading holds the two most recent fast/slow pairs of an instrument and their classification.
type CrossoverReading struct {
	Symbol    string
	Fast      float64
	Slow      float64
	PrevFast  float64
	PrevSlow  float64
	Crossover Crossover
}
