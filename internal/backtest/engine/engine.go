package engine

import (
	"context"

	"github.com/rxtech-lab/argo-rotation/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-rotation/internal/runtime"
	"github.com/rxtech-lab/argo-rotation/internal/types"
)

// Lifecycle callback types for backtest phases.
// Callbacks returning an error abort the run.

// OnBacktestStartCallback is called before the first strategy runs.
type OnBacktestStartCallback func(totalStrategies int, totalDataFiles int) error

// OnBacktestEndCallback is called when the backtest completes (always called via defer).
type OnBacktestEndCallback func(err error)

// OnRunStartCallback is called when a strategy starts processing the data set.
// runID is a unique identifier for this run.
type OnRunStartCallback func(runID string, strategyName string, totalDataPoints int) error

// OnRunEndCallback is called after the results of a run were written.
type OnRunEndCallback func(strategyName string, resultFolderPath string, stats types.TradeStats)

// OnProcessDataCallback is called for each time step processed.
type OnProcessDataCallback func(current int, total int) error

// LifecycleCallbacks holds all lifecycle callback functions for the backtest engine.
// All fields are pointers - nil means no callback will be invoked.
type LifecycleCallbacks struct {
	OnBacktestStart *OnBacktestStartCallback
	OnBacktestEnd   *OnBacktestEndCallback
	OnRunStart      *OnRunStartCallback
	OnRunEnd        *OnRunEndCallback
	OnProcessData   *OnProcessDataCallback
}

type Engine interface {
	// Initialize the engine with the given yaml configuration.
	Initialize(config string) error
	// SetDataPath sets the market data files. Accepts glob patterns (e.g. "data/*.csv").
	// Every file holds one instrument whose symbol is taken from the file name.
	SetDataPath(path string) error
	// SetResultsFolder sets the output directory for saving backtest results.
	// Results are written to <folder>/<strategy_name>.
	SetResultsFolder(folder string) error
	// LoadStrategy loads a strategy. Could be called multiple times to load multiple strategies.
	LoadStrategy(strategy runtime.StrategyRuntime) error
	// SetDataSource sets the data source for the engine.
	SetDataSource(dataSource datasource.DataSource) error
	// Run runs every loaded strategy over the data set.
	// The context can be used to cancel the backtest between time steps.
	Run(ctx context.Context, callbacks LifecycleCallbacks) error
	// GetConfigSchema returns the schema of the engine configuration
	GetConfigSchema() (string, error)
	// Close releases the engine's state store. The engine must be initialized again before the next Run.
	Close() error
}
