package strategy

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-rotation/internal/logger"
	"github.com/rxtech-lab/argo-rotation/internal/metrics"
	"github.com/rxtech-lab/argo-rotation/internal/trading"
	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"go.uber.org/zap"
)

// OrderQuantity is the fixed number of units every intent trades.
const OrderQuantity = 1.0

// Phase is where the controller stands in the entry and exit cycle.
type Phase string

const (
	// PhaseFlat has no position and no outstanding order.
	PhaseFlat Phase = "FLAT"
	// PhaseAwaitingEntry has a BUY outstanding.
	PhaseAwaitingEntry Phase = "AWAITING_ENTRY"
	// PhaseHolding has a position and no outstanding order.
	PhaseHolding Phase = "HOLDING"
	// PhaseAwaitingExit has a SELL outstanding against the held position.
	PhaseAwaitingExit Phase = "AWAITING_EXIT"
)

// State is the controller's phase and, outside of Flat, the instrument it concerns.
type State struct {
	Phase  Phase
	Symbol string
}

// Controller decides entries and exits for a two-instrument rotation and tracks the
// single outstanding order. It keeps no copy of the position: the broker-reported
// position passed into each call is the only source of truth.
type Controller struct {
	strategyName string
	instrumentA  string
	instrumentB  string

	trading trading.TradingSystem
	logger  *logger.Logger
	metrics *metrics.Recorder

	pending optional.Option[types.ExecuteOrder]
	entry   optional.Option[types.Fill]
}

// NewController creates a Flat controller. InstrumentA has priority on simultaneous bullish crosses.
func NewController(
	strategyName string,
	instrumentA string,
	instrumentB string,
	tradingSystem trading.TradingSystem,
	log *logger.Logger,
	recorder *metrics.Recorder,
) *Controller {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Controller{
		strategyName: strategyName,
		instrumentA:  instrumentA,
		instrumentB:  instrumentB,
		trading:      tradingSystem,
		logger:       log,
		metrics:      recorder,
		pending:      optional.None[types.ExecuteOrder](),
		entry:        optional.None[types.Fill](),
	}
}

// State derives the current state from the pending order and the given position.
func (c *Controller) State(position optional.Option[types.Position]) State {
	if c.pending.IsSome() {
		order := c.pending.Unwrap()
		if order.Side == types.PurchaseTypeBuy {
			return State{Phase: PhaseAwaitingEntry, Symbol: order.Symbol}
		}

		return State{Phase: PhaseAwaitingExit, Symbol: order.Symbol}
	}

	if position.IsSome() && position.Unwrap().Quantity > 0 {
		return State{Phase: PhaseHolding, Symbol: position.Unwrap().Symbol}
	}

	return State{Phase: PhaseFlat}
}

// Pending returns the outstanding order, if any.
func (c *Controller) Pending() optional.Option[types.ExecuteOrder] {
	return c.pending
}

// Reset clears the pending order and the recorded entry fill.
func (c *Controller) Reset() {
	c.pending = optional.None[types.ExecuteOrder]()
	c.entry = optional.None[types.Fill]()
}

// Evaluate runs one decision step for bar given the crossover reading of each instrument.
// A missing reading counts as no crossover. It returns the order that was submitted, if any.
func (c *Controller) Evaluate(
	bar types.BarContext,
	signals map[string]types.CrossoverReading,
) (optional.Option[types.ExecuteOrder], error) {
	state := c.State(bar.Position)

	switch state.Phase {
	case PhaseAwaitingEntry, PhaseAwaitingExit:
		return optional.None[types.ExecuteOrder](), nil
	case PhaseFlat:
		for _, symbol := range []string{c.instrumentA, c.instrumentB} {
			reading, ok := signals[symbol]
			if ok && reading.Crossover == types.CrossoverBullish {
				return c.submit(bar, reading, types.PurchaseTypeBuy, types.OrderReasonBullishCross)
			}
		}
	case PhaseHolding:
		reading, ok := signals[state.Symbol]
		if ok && reading.Crossover == types.CrossoverBearish {
			return c.submit(bar, reading, types.PurchaseTypeSell, types.OrderReasonBearishCross)
		}
	}

	return optional.None[types.ExecuteOrder](), nil
}

func (c *Controller) submit(
	bar types.BarContext,
	reading types.CrossoverReading,
	side types.PurchaseType,
	reason string,
) (optional.Option[types.ExecuteOrder], error) {
	order := types.ExecuteOrder{
		ID:        uuid.New().String(),
		Symbol:    reading.Symbol,
		Side:      side,
		OrderType: types.OrderTypeMarket,
		Reason: types.Reason{
			Reason: reason,
			Message: fmt.Sprintf("fast %.4f slow %.4f (previous fast %.4f slow %.4f)",
				reading.Fast, reading.Slow, reading.PrevFast, reading.PrevSlow),
		},
		StrategyName: c.strategyName,
		Quantity:     OrderQuantity,
		CreatedAt:    bar.Time,
	}

	if err := order.Validate(); err != nil {
		return optional.None[types.ExecuteOrder](), err
	}

	if err := c.trading.PlaceOrder(order); err != nil {
		c.logger.Warn("Order rejected on submission",
			zap.String("order_id", order.ID),
			zap.String("symbol", order.Symbol),
			zap.String("side", string(order.Side)),
			zap.Error(err),
		)
		c.metrics.OrderTerminal(order.Symbol, types.OrderStatusRejected)

		return optional.None[types.ExecuteOrder](), nil
	}

	c.pending = optional.Some(order)
	c.metrics.OrderSubmitted(order.Symbol, order.Side)
	c.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("symbol", order.Symbol),
		zap.String("side", string(order.Side)),
		zap.String("reason", reason),
		zap.Float64("fast", reading.Fast),
		zap.Float64("slow", reading.Slow),
		zap.Time("time", bar.Time),
	)

	return optional.Some(order), nil
}

// OnOrderTerminal settles the pending order. Non-terminal updates are ignored.
// A filled sell returns the closed round-trip when the entry fill is known.
func (c *Controller) OnOrderTerminal(update types.OrderUpdate) (optional.Option[types.RoundTrip], error) {
	none := optional.None[types.RoundTrip]()

	if !update.Status.IsTerminal() {
		return none, nil
	}

	if c.pending.IsNone() || c.pending.Unwrap().ID != update.OrderID {
		return none, errors.Newf(errors.ErrCodeOrderNotPending, "order %s is not the pending order", update.OrderID)
	}

	order := c.pending.Unwrap()
	c.pending = optional.None[types.ExecuteOrder]()
	c.metrics.OrderTerminal(order.Symbol, update.Status)

	if update.Status != types.OrderStatusFilled {
		c.logger.Warn(fmt.Sprintf("Order %s", update.Status),
			zap.String("order_id", order.ID),
			zap.String("symbol", order.Symbol),
			zap.String("side", string(order.Side)),
			zap.String("message", update.Message),
		)

		return none, nil
	}

	fill := update.Fill
	if order.Side == types.PurchaseTypeBuy {
		c.entry = optional.Some(fill)
		c.logger.Info("BUY EXECUTED",
			zap.String("symbol", order.Symbol),
			zap.Float64("price", fill.Price),
			zap.Float64("cost", fill.Value),
			zap.Float64("commission", fill.Commission),
		)

		return none, nil
	}

	c.logger.Info("SELL EXECUTED",
		zap.String("symbol", order.Symbol),
		zap.Float64("price", fill.Price),
		zap.Float64("cost", fill.Value),
		zap.Float64("commission", fill.Commission),
	)

	if c.entry.IsNone() {
		c.logger.Warn("Sell filled without a recorded entry", zap.String("symbol", order.Symbol))

		return none, nil
	}

	trip := types.NewRoundTrip(order.Symbol, c.entry.Unwrap(), fill)
	c.entry = optional.None[types.Fill]()
	c.metrics.RoundTripClosed(trip)
	c.logger.Info("OPERATION PROFIT",
		zap.String("symbol", trip.Symbol),
		zap.Float64("gross", trip.GrossPnL),
		zap.Float64("net", trip.NetPnL),
	)

	return optional.Some(trip), nil
}
