package types

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type StatisticsTestSuite struct {
	suite.Suite
}

func TestStatisticsSuite(t *testing.T) {
	suite.Run(t, new(StatisticsTestSuite))
}

func (suite *StatisticsTestSuite) TestWriteAndReadTradeStats() {
	path := filepath.Join(suite.T().TempDir(), "stats.yaml")
	stats := TradeStats{
		ID:           "run-1",
		Timestamp:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Symbols:      []string{"VTI", "TLT"},
		StrategyName: "SMARotation",
		Bars:         1500,
		TradeResult:  TradeResult{NumberOfTrades: 4, NumberOfWinningTrades: 3, NumberOfLosingTrades: 1, WinRate: 0.75},
		Portfolio:    PortfolioResult{StartingValue: 10000, FinalValue: 10042.5, TotalReturn: 0.00425},
		TotalFees:    3.2,
	}

	suite.Require().NoError(WriteTradeStats(path, stats))

	loaded, err := ReadTradeStats(path)
	suite.Require().NoError(err)
	suite.Equal(stats.Symbols, loaded.Symbols)
	suite.Equal(stats.TradeResult, loaded.TradeResult)
	suite.Equal(stats.Portfolio, loaded.Portfolio)
	suite.True(stats.Timestamp.Equal(loaded.Timestamp))
}

func (suite *StatisticsTestSuite) TestReadTradeStatsMissingFile() {
	_, err := ReadTradeStats(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.Error(err)
}
