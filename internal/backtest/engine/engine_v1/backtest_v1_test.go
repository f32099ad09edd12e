package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rxtech-lab/argo-rotation/internal/backtest/engine"
	"github.com/rxtech-lab/argo-rotation/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-rotation/internal/logger"
	"github.com/rxtech-lab/argo-rotation/internal/metrics"
	"github.com/rxtech-lab/argo-rotation/internal/strategy"
	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/mocks"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type BacktestEngineV1TestSuite struct {
	suite.Suite
	dir     string
	results string
	logs    *observer.ObservedLogs
	log     *logger.Logger
}

func TestBacktestEngineV1Suite(t *testing.T) {
	suite.Run(t, new(BacktestEngineV1TestSuite))
}

func (suite *BacktestEngineV1TestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.results = filepath.Join(suite.dir, "results")

	core, logs := observer.New(zapcore.InfoLevel)
	suite.logs = logs
	suite.log = logger.NewFromCore(core)
}

// flat closes never produce a crossover
func flatCloses(n int, price float64) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}

	return closes
}

func (suite *BacktestEngineV1TestSuite) newEngine(config string, recorder *metrics.Recorder, feeds map[string][]float64) *BacktestEngineV1 {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	for symbol, closes := range feeds {
		path := filepath.Join(suite.dir, fmt.Sprintf("%s_data.csv", symbol))
		suite.Require().NoError(mocks.WriteCSV(path, mocks.FromCloses(symbol, start, closes)))
	}

	backtest, ok := NewBacktestEngineV1(suite.log, recorder).(*BacktestEngineV1)
	suite.Require().True(ok)
	suite.Require().NoError(backtest.Initialize(config))
	suite.T().Cleanup(func() { backtest.Close() })
	suite.Require().NoError(backtest.SetDataPath(filepath.Join(suite.dir, "*.csv")))
	suite.Require().NoError(backtest.SetResultsFolder(suite.results))

	dataSource, err := datasource.NewDataSource(":memory:", suite.log)
	suite.Require().NoError(err)
	suite.T().Cleanup(func() { dataSource.Close() })
	suite.Require().NoError(backtest.SetDataSource(dataSource))

	return backtest
}

func (suite *BacktestEngineV1TestSuite) loadRotation(backtest *BacktestEngineV1) {
	rotation, err := strategy.NewSMARotation(strategy.Config{FastPeriod: 2, SlowPeriod: 3, InstrumentA: "VTI", InstrumentB: "TLT"})
	suite.Require().NoError(err)
	suite.Require().NoError(backtest.LoadStrategy(rotation))
}

func (suite *BacktestEngineV1TestSuite) readStats() types.TradeStats {
	stats, err := types.ReadTradeStats(filepath.Join(suite.results, strategy.StrategyName, "stats.yaml"))
	suite.Require().NoError(err)

	return stats
}

func (suite *BacktestEngineV1TestSuite) TestRoundTripEndToEnd() {
	registry := prometheus.NewRegistry()
	recorder, err := metrics.NewRecorder(registry)
	suite.Require().NoError(err)

	backtest := suite.newEngine("initial_capital: 10000\nbroker: percentage\n", recorder, map[string][]float64{
		"VTI": {10, 10, 10, 13, 13, 7, 7, 7},
		"TLT": flatCloses(8, 50),
	})
	suite.loadRotation(backtest)

	var (
		processed []int
		final     types.TradeStats
	)

	onProcess := engine.OnProcessDataCallback(func(current int, total int) error {
		suite.Equal(8, total)
		processed = append(processed, current)

		return nil
	})
	onRunEnd := engine.OnRunEndCallback(func(_ string, _ string, stats types.TradeStats) {
		final = stats
	})

	suite.Require().NoError(backtest.Run(context.Background(), engine.LifecycleCallbacks{
		OnProcessData: &onProcess,
		OnRunEnd:      &onRunEnd,
	}))

	suite.Equal([]int{1, 2, 3, 4, 5, 6, 7, 8}, processed)

	stats := suite.readStats()
	suite.Equal(final.ID, stats.ID)
	suite.Equal(strategy.StrategyName, stats.StrategyName)
	suite.Equal([]string{"VTI", "TLT"}, stats.Symbols)
	suite.Equal(8, stats.Bars)
	suite.Equal(1, stats.TradeResult.NumberOfTrades)
	suite.Equal(1, stats.TradeResult.NumberOfLosingTrades)
	suite.InDelta(-6.0, stats.TradePnl.GrossPnL, 1e-9)
	suite.InDelta(-6.05, stats.TradePnl.NetPnL, 1e-9)
	suite.InDelta(0.05, stats.TotalFees, 1e-9)
	suite.Equal(0, stats.RejectedOrders)
	suite.InDelta(9993.95, stats.Portfolio.FinalValue, 1e-9)
	suite.Greater(stats.Portfolio.MaxDrawdown, 0.0)

	for _, path := range []string{stats.OrdersFilePath, stats.RoundTripsFilePath} {
		_, err := os.Stat(path)
		suite.NoError(err)
	}

	suite.Equal(1, suite.logs.FilterMessage("BUY EXECUTED").Len())
	suite.Equal(1, suite.logs.FilterMessage("SELL EXECUTED").Len())
	suite.Equal(1, suite.logs.FilterMessage("OPERATION PROFIT").Len())
	suite.Equal(1, suite.logs.FilterMessage("Backtest finished").Len())

	suite.Equal(1.0, testutil.ToFloat64(recorder.OrdersSubmitted.WithLabelValues("VTI", "BUY")))
	suite.Equal(1.0, testutil.ToFloat64(recorder.OrdersSubmitted.WithLabelValues("VTI", "SELL")))
	suite.Equal(1.0, testutil.ToFloat64(recorder.RoundTrips.WithLabelValues("VTI", "loss")))
}

func (suite *BacktestEngineV1TestSuite) TestPendingOrderCancelledAtEndOfData() {
	backtest := suite.newEngine("", nil, map[string][]float64{
		"VTI": {10, 10, 10, 13},
		"TLT": flatCloses(4, 50),
	})
	suite.loadRotation(backtest)

	suite.Require().NoError(backtest.Run(context.Background(), engine.LifecycleCallbacks{}))

	stats := suite.readStats()
	suite.Equal(0, stats.TradeResult.NumberOfTrades)
	suite.Equal(1, stats.RejectedOrders)
	suite.Equal(10000.0, stats.Portfolio.FinalValue)
	suite.Equal(1, suite.logs.FilterMessage("Order CANCELLED").Len())
}

func (suite *BacktestEngineV1TestSuite) TestMarginRejection() {
	backtest := suite.newEngine("initial_capital: 10\n", nil, map[string][]float64{
		"VTI": {10, 10, 10, 13, 13, 13},
		"TLT": flatCloses(6, 50),
	})
	suite.loadRotation(backtest)

	suite.Require().NoError(backtest.Run(context.Background(), engine.LifecycleCallbacks{}))

	stats := suite.readStats()
	suite.Equal(0, stats.TradeResult.NumberOfTrades)
	suite.Equal(1, stats.RejectedOrders)
	suite.Equal(10.0, stats.Portfolio.FinalValue)
	suite.Equal(1, suite.logs.FilterMessage("Order MARGIN").Len())
}

func (suite *BacktestEngineV1TestSuite) TestTimeRange() {
	config := "start_time: 2024-01-03T00:00:00Z\nend_time: 2024-01-05T00:00:00Z\n"
	backtest := suite.newEngine(config, nil, map[string][]float64{
		"VTI": flatCloses(10, 10),
		"TLT": flatCloses(10, 50),
	})
	suite.loadRotation(backtest)

	suite.Require().NoError(backtest.Run(context.Background(), engine.LifecycleCallbacks{}))
	suite.Equal(3, suite.readStats().Bars)
}

func (suite *BacktestEngineV1TestSuite) TestContextCancellation() {
	ctrl := gomock.NewController(suite.T())
	runtimeMock := mocks.NewMockStrategyRuntime(ctrl)
	runtimeMock.EXPECT().Name().Return("mock").AnyTimes()
	runtimeMock.EXPECT().Instruments().Return([]string{"VTI", "TLT"}).AnyTimes()
	runtimeMock.EXPECT().Initialize(gomock.Any()).Return(nil)

	backtest := suite.newEngine("", nil, map[string][]float64{
		"VTI": flatCloses(5, 10),
		"TLT": flatCloses(5, 50),
	})
	suite.Require().NoError(backtest.LoadStrategy(runtimeMock))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var endErr error

	onEnd := engine.OnBacktestEndCallback(func(err error) { endErr = err })

	err := backtest.Run(ctx, engine.LifecycleCallbacks{OnBacktestEnd: &onEnd})
	suite.ErrorIs(err, context.Canceled)
	suite.Equal(err, endErr)
}

func (suite *BacktestEngineV1TestSuite) TestStrategyErrorAbortsRun() {
	ctrl := gomock.NewController(suite.T())
	runtimeMock := mocks.NewMockStrategyRuntime(ctrl)
	runtimeMock.EXPECT().Name().Return("mock").AnyTimes()
	runtimeMock.EXPECT().Instruments().Return([]string{"VTI", "TLT"}).AnyTimes()
	runtimeMock.EXPECT().Initialize(gomock.Any()).Return(nil)
	runtimeMock.EXPECT().ProcessBar(gomock.Any()).DoAndReturn(func(bar types.BarContext) error {
		suite.Len(bar.Bars, 2)
		suite.Equal(10000.0, bar.Cash)
		suite.True(bar.Position.IsNone())

		return errors.New(errors.ErrCodeStrategyRuntimeError, "boom")
	})

	backtest := suite.newEngine("", nil, map[string][]float64{
		"VTI": flatCloses(5, 10),
		"TLT": flatCloses(5, 50),
	})
	suite.Require().NoError(backtest.LoadStrategy(runtimeMock))

	err := backtest.Run(context.Background(), engine.LifecycleCallbacks{})
	suite.True(errors.HasCode(err, errors.ErrCodeStrategyRuntimeError))
}

func (suite *BacktestEngineV1TestSuite) TestMissingInstrumentData() {
	backtest := suite.newEngine("", nil, map[string][]float64{"VTI": flatCloses(5, 10)})
	suite.loadRotation(backtest)

	err := backtest.Run(context.Background(), engine.LifecycleCallbacks{})
	suite.True(errors.HasCode(err, errors.ErrCodeDataNotFound))
}

func (suite *BacktestEngineV1TestSuite) TestPreRunCheck() {
	uninitialized := NewBacktestEngineV1(nil, nil)
	err := uninitialized.Run(context.Background(), engine.LifecycleCallbacks{})
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestInitFailed))

	backtest := suite.newEngine("", nil, map[string][]float64{"VTI": flatCloses(5, 10)})
	err = backtest.Run(context.Background(), engine.LifecycleCallbacks{})
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestNoStrategies))

	suite.loadRotation(backtest)
	suite.Require().NoError(backtest.SetResultsFolder(""))
	err = backtest.Run(context.Background(), engine.LifecycleCallbacks{})
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestNoResultsDir))

	suite.Error(backtest.Initialize("broker: robinhood"))
	suite.Error(backtest.LoadStrategy(nil))
}

func (suite *BacktestEngineV1TestSuite) TestGetConfigSchema() {
	schema, err := NewBacktestEngineV1(nil, nil).GetConfigSchema()
	suite.NoError(err)
	suite.Contains(schema, "initial_capital")
}

func (suite *BacktestEngineV1TestSuite) TestCloseReleasesState() {
	backtest := suite.newEngine("", nil, map[string][]float64{
		"VTI": flatCloses(5, 10),
		"TLT": flatCloses(5, 50),
	})
	suite.loadRotation(backtest)

	suite.Require().NoError(backtest.Close())
	suite.Nil(backtest.state)
	suite.NoError(backtest.Close())

	err := backtest.Run(context.Background(), engine.LifecycleCallbacks{})
	suite.True(errors.HasCode(err, errors.ErrCodeBacktestInitFailed))

	suite.Require().NoError(backtest.Initialize(""))
	suite.Require().NoError(backtest.Run(context.Background(), engine.LifecycleCallbacks{}))
	suite.Equal(5, suite.readStats().Bars)
}
