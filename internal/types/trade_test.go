package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type TradeTestSuite struct {
	suite.Suite
}

func TestTradeSuite(t *testing.T) {
	suite.Run(t, new(TradeTestSuite))
}

func (suite *TradeTestSuite) TestNewRoundTripProfit() {
	entryTime := time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)
	exitTime := entryTime.AddDate(0, 0, 30)

	entry := Fill{Time: entryTime, Price: 190.10, Quantity: 1, Value: 190.10, Commission: 0.475}
	exit := Fill{Time: exitTime, Price: 201.30, Quantity: 1, Value: 201.30, Commission: 0.50325}

	trip := NewRoundTrip("VTI", entry, exit)

	suite.Equal("VTI", trip.Symbol)
	suite.Equal(1.0, trip.Quantity)
	suite.Equal(190.10, trip.EntryPrice)
	suite.Equal(201.30, trip.ExitPrice)
	suite.InDelta(11.20, trip.GrossPnL, 1e-9)
	suite.InDelta(11.20-0.475-0.50325, trip.NetPnL, 1e-9)
	suite.True(trip.IsWin())
	suite.Equal(30*24*time.Hour, trip.HoldingTime())
}

func (suite *TradeTestSuite) TestNewRoundTripLoss() {
	entry := Fill{Price: 150, Quantity: 1, Commission: 1}
	exit := Fill{Price: 149.5, Quantity: 1, Commission: 1}

	trip := NewRoundTrip("TLT", entry, exit)

	suite.InDelta(-0.5, trip.GrossPnL, 1e-9)
	suite.InDelta(-2.5, trip.NetPnL, 1e-9)
	suite.False(trip.IsWin())
}

func (suite *TradeTestSuite) TestRoundTripUsesDecimalArithmetic() {
	// 0.3 - 0.1 is not 0.2 in float64.
	trip := NewRoundTrip("TLT", Fill{Price: 0.1, Quantity: 1}, Fill{Price: 0.3, Quantity: 1})
	suite.Equal(0.2, trip.GrossPnL)
}

func (suite *TradeTestSuite) TestPositionMarketValue() {
	position := Position{Symbol: "VTI", Quantity: 3, EntryPrice: 100}
	suite.Equal(330.0, position.MarketValue(110))
}
