package strategy

import (
	"github.com/rxtech-lab/argo-rotation/internal/indicator"
	"github.com/rxtech-lab/argo-rotation/internal/logger"
	"github.com/rxtech-lab/argo-rotation/internal/runtime"
	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"go.uber.org/zap"
)

const StrategyName = "SMARotation"

// SMARotation holds at most one of two instruments, entering on a bullish SMA crossover
// and leaving on a bearish one.
type SMARotation struct {
	config     Config
	signals    *indicator.SignalEngine
	controller *Controller
	logger     *logger.Logger
}

var _ runtime.StrategyRuntime = (*SMARotation)(nil)

// NewSMARotation validates config and creates the strategy. Initialize must be called before use.
func NewSMARotation(config Config) (*SMARotation, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	signals, err := indicator.NewSignalEngine(config.FastPeriod, config.SlowPeriod)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid moving average windows", err)
	}

	return &SMARotation{
		config:  config,
		signals: signals,
		logger:  logger.NewNopLogger(),
	}, nil
}

func (s *SMARotation) Name() string {
	return StrategyName
}

func (s *SMARotation) Instruments() []string {
	return []string{s.config.InstrumentA, s.config.InstrumentB}
}

// Initialize binds the strategy to ctx and resets all history and order state.
func (s *SMARotation) Initialize(ctx runtime.RuntimeContext) error {
	if ctx.TradingSystem == nil {
		return errors.New(errors.ErrCodeInvalidParameter, "trading system is required")
	}

	if ctx.Logger != nil {
		s.logger = &logger.Logger{Logger: ctx.Logger.Named(StrategyName)}
	}

	if s.config.FastPeriod >= s.config.SlowPeriod {
		s.logger.Warn("Fast period is not shorter than slow period",
			zap.Int("fast_period", s.config.FastPeriod),
			zap.Int("slow_period", s.config.SlowPeriod),
		)
	}

	s.signals.Reset()
	s.controller = NewController(StrategyName, s.config.InstrumentA, s.config.InstrumentB,
		ctx.TradingSystem, s.logger, ctx.Metrics)

	return nil
}

// ProcessBar feeds both closes to the signal engine, instrument A first, and runs the controller.
func (s *SMARotation) ProcessBar(bar types.BarContext) error {
	if s.controller == nil {
		return errors.New(errors.ErrCodeStrategyNotInitialized, "strategy is not initialized")
	}

	instruments := s.Instruments()
	bars := make([]types.MarketData, 0, len(instruments))

	for _, symbol := range instruments {
		data, ok := bar.Bar(symbol)
		if !ok {
			return errors.Newf(errors.ErrCodeMarketDataMissing, "missing bar for %s at %s", symbol, bar.Time)
		}

		bars = append(bars, data)
	}

	s.logger.Debug("Processing bar",
		zap.Time("time", bar.Time),
		zap.Float64(instruments[0], bars[0].Close),
		zap.Float64(instruments[1], bars[1].Close),
	)

	readings := make(map[string]types.CrossoverReading, len(bars))

	for i, symbol := range instruments {
		reading, err := s.signals.Update(symbol, bars[i].Close)
		if err != nil && !errors.IsInsufficientDataError(err) {
			return errors.Wrapf(errors.ErrCodeSignalCalculation, err, "failed to update signal for %s", symbol)
		}

		readings[symbol] = reading
	}

	if _, err := s.controller.Evaluate(bar, readings); err != nil {
		return err
	}

	return nil
}

// OnOrderTerminal forwards a broker update to the controller.
func (s *SMARotation) OnOrderTerminal(update types.OrderUpdate) error {
	if s.controller == nil {
		return errors.New(errors.ErrCodeStrategyNotInitialized, "strategy is not initialized")
	}

	_, err := s.controller.OnOrderTerminal(update)

	return err
}

// State returns the controller state for position.
func (s *SMARotation) State(bar types.BarContext) State {
	if s.controller == nil {
		return State{Phase: PhaseFlat}
	}

	return s.controller.State(bar.Position)
}
