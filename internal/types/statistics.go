package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type TradeResult struct {
	// Count of closed round-trips.
	NumberOfTrades int `yaml:"number_of_trades"`
	// Count of round-trips with positive net pnl.
	NumberOfWinningTrades int `yaml:"number_of_winning_trades"`
	// Count of round-trips with negative net pnl.
	NumberOfLosingTrades int `yaml:"number_of_losing_trades"`
	// Win rate.
	WinRate float64 `yaml:"win_rate"`
}

type TradePnl struct {
	// Sum of gross pnl over all round-trips.
	GrossPnL float64 `yaml:"gross_pnl"`
	// Sum of net pnl over all round-trips.
	NetPnL float64 `yaml:"net_pnl"`
	// Smallest net pnl of a single round-trip.
	MaximumLoss float64 `yaml:"maximum_loss"`
	// Largest net pnl of a single round-trip.
	MaximumProfit float64 `yaml:"maximum_profit"`
}

type PortfolioResult struct {
	StartingValue float64 `yaml:"starting_value"`
	FinalValue    float64 `yaml:"final_value"`
	// TotalReturn is FinalValue / StartingValue - 1.
	TotalReturn float64 `yaml:"total_return"`
	// MaxDrawdown is the largest peak-to-trough decline of portfolio value, as a fraction of the peak.
	MaxDrawdown float64 `yaml:"max_drawdown"`
	// SharpeRatio is annualized from per-bar returns with a zero risk-free rate.
	SharpeRatio float64 `yaml:"sharpe_ratio"`
}

type TradeStats struct {
	// ID is the unique identifier for this backtest run.
	ID string `yaml:"id" json:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
	// Symbols traded in this run.
	Symbols []string `yaml:"symbols"`
	// StrategyName is the name of the strategy that generated these stats.
	StrategyName string `yaml:"strategy_name"`
	// Bars is the number of synchronized time steps processed.
	Bars int `yaml:"bars"`
	// Result of all round-trips.
	TradeResult TradeResult `yaml:"trade_result"`
	// Pnl of all round-trips.
	TradePnl TradePnl `yaml:"trade_pnl"`
	// Portfolio level results.
	Portfolio PortfolioResult `yaml:"portfolio"`
	// Total commissions paid on filled orders.
	TotalFees float64 `yaml:"total_fees"`
	// Count of orders that ended cancelled, rejected or margin-rejected.
	RejectedOrders int `yaml:"rejected_orders"`
	// OrdersFilePath is the path to the orders parquet file.
	OrdersFilePath string `yaml:"orders_file_path" json:"orders_file_path"`
	// RoundTripsFilePath is the path to the round-trips parquet file.
	RoundTripsFilePath string `yaml:"round_trips_file_path" json:"round_trips_file_path"`
}

func WriteTradeStats(path string, stats TradeStats) error {
	data, err := yaml.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal trade stats to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write trade stats to file: %w", err)
	}

	return nil
}

// ReadTradeStats loads stats previously written by WriteTradeStats.
func ReadTradeStats(path string) (TradeStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TradeStats{}, fmt.Errorf("failed to read trade stats: %w", err)
	}

	var stats TradeStats
	if err := yaml.Unmarshal(data, &stats); err != nil {
		return TradeStats{}, fmt.Errorf("failed to unmarshal trade stats: %w", err)
	}

	return stats, nil
}
