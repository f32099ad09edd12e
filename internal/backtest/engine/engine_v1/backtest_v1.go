package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-rotation/internal/backtest/engine"
	"github.com/rxtech-lab/argo-rotation/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-rotation/internal/logger"
	"github.com/rxtech-lab/argo-rotation/internal/metrics"
	"github.com/rxtech-lab/argo-rotation/internal/runtime"
	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"go.uber.org/zap"
)

type BacktestEngineV1 struct {
	config        BacktestEngineV1Config
	strategies    []runtime.StrategyRuntime
	dataPaths     map[string]string
	resultsFolder string
	log           *logger.Logger
	metrics       *metrics.Recorder
	tradingSystem *BacktestTrading
	state         *BacktestState
	datasource    datasource.DataSource
}

// NewBacktestEngineV1 creates an engine logging to log. recorder may be nil.
func NewBacktestEngineV1(log *logger.Logger, recorder *metrics.Recorder) engine.Engine {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &BacktestEngineV1{
		config:     EmptyConfig(),
		strategies: nil,
		dataPaths:  map[string]string{},
		log:        log,
		metrics:    recorder,
	}
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	parsed, err := LoadConfig(config)
	if err != nil {
		return err
	}

	b.config = parsed
	b.log.Debug("Backtest engine initialized",
		zap.Float64("initial_capital", b.config.InitialCapital),
		zap.String("broker", string(b.config.Broker)),
		zap.Float64("commission_rate", b.config.CommissionRate),
	)

	if err := b.Close(); err != nil {
		return err
	}

	b.state, err = NewBacktestState(b.log)
	if err != nil {
		return fmt.Errorf("failed to create backtest state: %w", err)
	}

	if err := b.state.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize state: %w", err)
	}

	b.tradingSystem = NewBacktestTrading(b.state, b.config.InitialCapital, b.config.CommissionFee(), b.config.DecimalPrecision)

	return nil
}

// LoadStrategy implements engine.Engine.
func (b *BacktestEngineV1) LoadStrategy(strategy runtime.StrategyRuntime) error {
	if strategy == nil {
		return errors.New(errors.ErrCodeInvalidParameter, "strategy is nil")
	}

	b.strategies = append(b.strategies, strategy)
	b.log.Debug("Strategy loaded",
		zap.String("strategy", strategy.Name()),
		zap.Int("total_strategies", len(b.strategies)),
	)

	return nil
}

// SetDataPath implements engine.Engine.
func (b *BacktestEngineV1) SetDataPath(path string) error {
	files, err := filepath.Glob(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeInvalidParameter, err, "invalid data path %s", path)
	}

	dataPaths := make(map[string]string, len(files))

	for _, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to get absolute path of %s: %w", file, err)
		}

		symbol, err := datasource.SymbolFromPath(absPath)
		if err != nil {
			return err
		}

		if existing, ok := dataPaths[symbol]; ok {
			return errors.Newf(errors.ErrCodeInvalidParameter, "both %s and %s hold %s", existing, absPath, symbol)
		}

		dataPaths[symbol] = absPath
	}

	b.dataPaths = dataPaths
	b.log.Debug("Data paths set", zap.Any("files", dataPaths))

	return nil
}

// SetResultsFolder implements engine.Engine.
func (b *BacktestEngineV1) SetResultsFolder(folder string) error {
	b.resultsFolder = folder
	b.log.Debug("Results folder set", zap.String("folder", folder))

	return nil
}

func (b *BacktestEngineV1) SetDataSource(datasource datasource.DataSource) error {
	b.datasource = datasource

	return nil
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(ctx context.Context, callbacks engine.LifecycleCallbacks) (err error) {
	if callbacks.OnBacktestEnd != nil {
		defer func() { (*callbacks.OnBacktestEnd)(err) }()
	}

	if err := b.preRunCheck(); err != nil {
		return err
	}

	if callbacks.OnBacktestStart != nil {
		if err := (*callbacks.OnBacktestStart)(len(b.strategies), len(b.dataPaths)); err != nil {
			return err
		}
	}

	for _, strategy := range b.strategies {
		if err := b.runStrategy(ctx, strategy, callbacks); err != nil {
			return err
		}
	}

	return nil
}

func (b *BacktestEngineV1) runStrategy(ctx context.Context, strategy runtime.StrategyRuntime, callbacks engine.LifecycleCallbacks) error {
	feeds := make(map[string]string)

	for _, symbol := range strategy.Instruments() {
		path, ok := b.dataPaths[symbol]
		if !ok {
			return errors.Newf(errors.ErrCodeDataNotFound, "no data file for %s", symbol)
		}

		feeds[symbol] = path
	}

	if err := b.datasource.Initialize(feeds); err != nil {
		return fmt.Errorf("failed to initialize data source: %w", err)
	}

	if err := b.state.Cleanup(); err != nil {
		return fmt.Errorf("failed to reset state: %w", err)
	}

	b.tradingSystem.Reset(b.config.InitialCapital)

	err := strategy.Initialize(runtime.RuntimeContext{
		TradingSystem: b.tradingSystem,
		Logger:        b.log,
		Metrics:       b.metrics,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize strategy: %w", err)
	}

	total, err := b.datasource.Count(b.config.StartTime, b.config.EndTime)
	if err != nil {
		return fmt.Errorf("failed to get data count: %w", err)
	}

	runID := uuid.New().String()
	resultFolderPath := filepath.Join(b.resultsFolder, strategy.Name())

	b.log.Info("Running strategy",
		zap.String("run_id", runID),
		zap.String("strategy", strategy.Name()),
		zap.Strings("instruments", strategy.Instruments()),
		zap.Int("bars", total),
		zap.String("result", resultFolderPath),
	)

	if callbacks.OnRunStart != nil {
		if err := (*callbacks.OnRunStart)(runID, strategy.Name(), total); err != nil {
			return err
		}
	}

	current := 0

	for step, err := range b.datasource.ReadAligned(b.config.StartTime, b.config.EndTime) {
		if err != nil {
			return fmt.Errorf("failed to read data: %w", err)
		}

		if err := ctx.Err(); err != nil {
			return fmt.Errorf("backtest cancelled: %w", err)
		}

		if err := b.processStep(strategy, step); err != nil {
			return err
		}

		current++

		if callbacks.OnProcessData != nil {
			if err := (*callbacks.OnProcessData)(current, total); err != nil {
				return err
			}
		}
	}

	cancelled, err := b.tradingSystem.CancelAll(types.OrderReasonEndOfData)
	if err != nil {
		return fmt.Errorf("failed to cancel queued orders: %w", err)
	}

	if err := b.notify(strategy, cancelled); err != nil {
		return err
	}

	stats, err := b.writeResults(runID, strategy, resultFolderPath)
	if err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	b.log.Info("Backtest finished",
		zap.String("strategy", strategy.Name()),
		zap.Float64("starting_value", stats.Portfolio.StartingValue),
		zap.Float64("final_value", stats.Portfolio.FinalValue),
		zap.Int("round_trips", stats.TradeResult.NumberOfTrades),
	)

	if callbacks.OnRunEnd != nil {
		(*callbacks.OnRunEnd)(strategy.Name(), resultFolderPath, stats)
	}

	return nil
}

// processStep settles the orders queued on the previous step at this step's open,
// reports them to the strategy and then hands it the step.
func (b *BacktestEngineV1) processStep(strategy runtime.StrategyRuntime, step []types.MarketData) error {
	updates, err := b.tradingSystem.Settle(step)
	if err != nil {
		return fmt.Errorf("failed to settle orders: %w", err)
	}

	if err := b.notify(strategy, updates); err != nil {
		return err
	}

	bars := make(map[string]types.MarketData, len(step))
	for _, bar := range step {
		bars[bar.Symbol] = bar
	}

	stepTime := step[0].Time

	err = strategy.ProcessBar(types.BarContext{
		Time:     stepTime,
		Bars:     bars,
		Cash:     b.tradingSystem.Cash(),
		Position: b.tradingSystem.Position(),
	})
	if err != nil {
		return fmt.Errorf("failed to process bar at %s: %w", stepTime.Format(time.DateOnly), err)
	}

	return b.state.RecordEquity(EquityPoint{
		Time:          stepTime,
		Cash:          b.tradingSystem.Cash(),
		PositionValue: b.tradingSystem.PositionValue(),
		Total:         b.tradingSystem.PortfolioValue(),
	})
}

func (b *BacktestEngineV1) notify(strategy runtime.StrategyRuntime, updates []types.OrderUpdate) error {
	for _, update := range updates {
		if err := strategy.OnOrderTerminal(update); err != nil {
			return fmt.Errorf("failed to deliver order update %s: %w", update.OrderID, err)
		}
	}

	return nil
}

func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	config := b.config

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", fmt.Errorf("failed to generate schema: %w", err)
	}

	return schema, nil
}

// Close implements engine.Engine.
func (b *BacktestEngineV1) Close() error {
	if b.state == nil {
		return nil
	}

	err := b.state.Close()
	b.state = nil
	b.tradingSystem = nil

	if err != nil {
		return fmt.Errorf("failed to close backtest state: %w", err)
	}

	return nil
}

func (b *BacktestEngineV1) writeResults(runID string, strategy runtime.StrategyRuntime, resultFolderPath string) (types.TradeStats, error) {
	if err := os.MkdirAll(resultFolderPath, 0755); err != nil {
		return types.TradeStats{}, errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to create result folder", err)
	}

	stats, err := b.state.GetStats(b.config.InitialCapital)
	if err != nil {
		return types.TradeStats{}, fmt.Errorf("failed to get stats: %w", err)
	}

	stats.ID = runID
	stats.Timestamp = time.Now()
	stats.StrategyName = strategy.Name()
	stats.Symbols = slices.Clone(strategy.Instruments())
	stats.OrdersFilePath = filepath.Join(resultFolderPath, ordersFileName)
	stats.RoundTripsFilePath = filepath.Join(resultFolderPath, roundTripsFileName)

	if err := b.state.Write(resultFolderPath); err != nil {
		return types.TradeStats{}, err
	}

	if err := types.WriteTradeStats(filepath.Join(resultFolderPath, "stats.yaml"), stats); err != nil {
		return types.TradeStats{}, errors.Wrap(errors.ErrCodeBacktestWriteFailed, "failed to write stats", err)
	}

	return stats, nil
}

func (b *BacktestEngineV1) preRunCheck() error {
	if b.state == nil || b.tradingSystem == nil {
		return errors.New(errors.ErrCodeBacktestInitFailed, "engine is not initialized")
	}

	if len(b.strategies) == 0 {
		b.log.Error("No strategies loaded")

		return errors.New(errors.ErrCodeBacktestNoStrategies, "no strategies loaded")
	}

	if len(b.dataPaths) == 0 {
		b.log.Error("No data paths loaded")

		return errors.New(errors.ErrCodeBacktestNoDataPaths, "no data paths loaded")
	}

	if b.resultsFolder == "" {
		b.log.Error("No results folder set")

		return errors.New(errors.ErrCodeBacktestNoResultsDir, "no results folder set")
	}

	if b.datasource == nil {
		b.log.Error("No datasource set")

		return errors.New(errors.ErrCodeBacktestNoDatasource, "no datasource set")
	}

	return nil
}
