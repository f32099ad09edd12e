package runtime

import (
	"github.com/rxtech-lab/argo-rotation/internal/logger"
	"github.com/rxtech-lab/argo-rotation/internal/metrics"
	"github.com/rxtech-lab/argo-rotation/internal/trading"
	"github.com/rxtech-lab/argo-rotation/internal/types"
)

// StrategyRuntime is the surface the backtest engine drives a strategy through.
type StrategyRuntime interface {
	// Initialize binds the strategy to the engine's trading system and must be called before ProcessBar.
	Initialize(ctx RuntimeContext) error
	// ProcessBar is called once per synchronized time step.
	ProcessBar(bar types.BarContext) error
	// OnOrderTerminal is called when an order the strategy placed is settled.
	OnOrderTerminal(update types.OrderUpdate) error
	// Instruments lists the symbols the strategy needs a bar for on every step.
	Instruments() []string
	Name() string
}

type RuntimeContext struct {
	// TradingSystem is used to place orders
	TradingSystem trading.TradingSystem
	// Logger is the engine's logger; the strategy derives its own named logger from it
	Logger *logger.Logger
	// Metrics may be nil
	Metrics *metrics.Recorder
}
