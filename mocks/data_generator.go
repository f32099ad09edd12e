package mocks

import (
	"encoding/csv"
	"math"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/rxtech-lab/argo-rotation/internal/types"
)

// DataGenerator produces daily bars for tests.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a DataGenerator. Use a fixed seed for reproducible series.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures a random-walk series.
type GeneratorConfig struct {
	Symbol    string
	StartTime time.Time
	// Interval is the duration between bars
	Interval     time.Duration
	Count        int
	InitialPrice float64
	// Volatility is the standard deviation of the per-bar return
	Volatility float64
	// Trend is the total drift spread over the series
	Trend      float64
	VolumeBase float64
}

// DefaultConfig returns a year of daily bars starting at 100.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:       "TEST",
		StartTime:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Interval:     24 * time.Hour,
		Count:        252,
		InitialPrice: 100.0,
		Volatility:   0.01,
		Trend:        0.0,
		VolumeBase:   1_000_000,
	}
}

// Generate creates a geometric Brownian motion series. Each bar opens at the previous close.
func (g *DataGenerator) Generate(config GeneratorConfig) []types.MarketData {
	data := make([]types.MarketData, config.Count)
	price := config.InitialPrice
	current := config.StartTime

	for i := range config.Count {
		open := price

		// Box-Muller
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		closePrice := open * (1 + config.Volatility*z + config.Trend/float64(config.Count))
		if closePrice <= 0 {
			closePrice = open * 0.99
		}

		spread := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		volume := config.VolumeBase * (0.7 + g.rng.Float64()*0.6)

		data[i] = types.MarketData{
			Symbol: config.Symbol,
			Time:   current,
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(math.Max(open, closePrice)+spread, 4),
			Low:    roundToDecimals(math.Max(math.Min(open, closePrice)-spread, 0.01), 4),
			Close:  roundToDecimals(closePrice, 4),
			Volume: roundToDecimals(volume, 0),
		}

		price = closePrice
		current = current.Add(config.Interval)
	}

	return data
}

// GenerateAligned generates one series per symbol sharing the same timestamps.
func (g *DataGenerator) GenerateAligned(symbols []string, base GeneratorConfig) map[string][]types.MarketData {
	series := make(map[string][]types.MarketData, len(symbols))

	for _, symbol := range symbols {
		config := base
		config.Symbol = symbol
		config.InitialPrice = base.InitialPrice * (0.8 + g.rng.Float64()*0.4)
		series[symbol] = g.Generate(config)
	}

	return series
}

// FromCloses builds daily bars whose open, high, low and close all equal the given closes,
// so next-bar-open fills happen at a known price.
func FromCloses(symbol string, start time.Time, closes []float64) []types.MarketData {
	data := make([]types.MarketData, len(closes))

	for i, price := range closes {
		data[i] = types.MarketData{
			Symbol: symbol,
			Time:   start.AddDate(0, 0, i),
			Open:   price,
			High:   price,
			Low:    price,
			Close:  price,
			Volume: 1000,
		}
	}

	return data
}

// WriteCSV writes bars with a time,open,high,low,close,volume header.
func WriteCSV(path string, data []types.MarketData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"time", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}

	for _, bar := range data {
		record := []string{
			bar.Time.Format(time.DateTime),
			strconv.FormatFloat(bar.Open, 'f', -1, 64),
			strconv.FormatFloat(bar.High, 'f', -1, 64),
			strconv.FormatFloat(bar.Low, 'f', -1, 64),
			strconv.FormatFloat(bar.Close, 'f', -1, 64),
			strconv.FormatFloat(bar.Volume, 'f', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()

	return writer.Error()
}

func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
