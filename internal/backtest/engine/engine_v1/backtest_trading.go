package engine

import (
	"fmt"
	"slices"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-rotation/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/rxtech-lab/argo-rotation/internal/trading"
	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/internal/utils"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"github.com/shopspring/decimal"
)

// BacktestTrading simulates a long-only cash broker holding at most one position.
// Market orders placed on a bar are filled at the open of the next bar.
type BacktestTrading struct {
	state            *BacktestState
	cash             decimal.Decimal
	position         optional.Option[types.Position]
	queued           []types.ExecuteOrder
	commission       commission_fee.CommissionFee
	decimalPrecision int
	lastPrices       map[string]float64
}

var _ trading.TradingSystem = (*BacktestTrading)(nil)

func NewBacktestTrading(state *BacktestState, initialCapital float64, commission commission_fee.CommissionFee, decimalPrecision int) *BacktestTrading {
	return &BacktestTrading{
		state:            state,
		cash:             decimal.NewFromFloat(initialCapital),
		position:         optional.None[types.Position](),
		queued:           []types.ExecuteOrder{},
		commission:       commission,
		decimalPrecision: decimalPrecision,
		lastPrices:       make(map[string]float64),
	}
}

// PlaceOrder implements trading.TradingSystem. The order is queued until the next bar.
func (b *BacktestTrading) PlaceOrder(order types.ExecuteOrder) error {
	if err := order.Validate(); err != nil {
		return err
	}

	order.Quantity = utils.RoundToDecimalPrecision(order.Quantity, b.decimalPrecision)
	if order.Quantity <= 0 {
		return errors.New(errors.ErrCodeInvalidExecuteOrder, "order quantity is zero after rounding to configured precision")
	}

	if slices.ContainsFunc(b.queued, func(queued types.ExecuteOrder) bool { return queued.ID == order.ID }) {
		return errors.Newf(errors.ErrCodeInvalidExecuteOrder, "order %s is already queued", order.ID)
	}

	if err := b.state.RecordOrder(order); err != nil {
		return errors.Wrap(errors.ErrCodeOrderFailed, "failed to record order", err)
	}

	b.queued = append(b.queued, order)

	return nil
}

// Settle fills or rejects every queued order against bars, in the order they were placed,
// and records closing prices for valuation.
func (b *BacktestTrading) Settle(bars []types.MarketData) ([]types.OrderUpdate, error) {
	prices := make(map[string]types.MarketData, len(bars))
	for _, bar := range bars {
		prices[bar.Symbol] = bar
	}

	queued := b.queued
	b.queued = []types.ExecuteOrder{}
	updates := make([]types.OrderUpdate, 0, len(queued))

	for _, order := range queued {
		bar, ok := prices[order.Symbol]

		var update types.OrderUpdate

		switch {
		case !ok:
			update = reject(order, types.OrderStatusRejected, fmt.Sprintf("no market data for %s", order.Symbol))
		case order.Side == types.PurchaseTypeBuy:
			update = b.buy(order, bar)
		default:
			entry := b.position
			update = b.sell(order, bar)

			if update.Status == types.OrderStatusFilled {
				if err := b.recordRoundTrip(entry.Unwrap(), update.Fill); err != nil {
					return nil, err
				}
			}
		}

		if err := b.record(update); err != nil {
			return nil, err
		}

		updates = append(updates, update)
	}

	for _, bar := range bars {
		b.lastPrices[bar.Symbol] = bar.Close
	}

	return updates, nil
}

func (b *BacktestTrading) buy(order types.ExecuteOrder, bar types.MarketData) types.OrderUpdate {
	if b.position.IsSome() {
		return reject(order, types.OrderStatusRejected, types.OrderReasonPositionOpen)
	}

	fill := b.fillAt(order, bar)
	total := decimal.NewFromFloat(fill.Value).Add(decimal.NewFromFloat(fill.Commission))

	if total.GreaterThan(b.cash) {
		affordable := utils.CalculateMaxQuantity(b.cash.InexactFloat64(), fill.Price, b.commission)

		return reject(order, types.OrderStatusMargin, fmt.Sprintf("%s: cost %.2f exceeds cash %.2f (max quantity %.4f)",
			types.OrderReasonInsufficient, total.InexactFloat64(), b.cash.InexactFloat64(), affordable))
	}

	b.cash = b.cash.Sub(total)
	b.position = optional.Some(types.Position{
		Symbol:        order.Symbol,
		Quantity:      fill.Quantity,
		EntryPrice:    fill.Price,
		EntryFee:      fill.Commission,
		OpenTimestamp: fill.Time,
	})

	return filled(order, fill)
}

func (b *BacktestTrading) sell(order types.ExecuteOrder, bar types.MarketData) types.OrderUpdate {
	if b.position.IsNone() || b.position.Unwrap().Symbol != order.Symbol {
		return reject(order, types.OrderStatusRejected, types.OrderReasonNoPosition)
	}

	position := b.position.Unwrap()
	order.Quantity = min(order.Quantity, position.Quantity)
	fill := b.fillAt(order, bar)

	b.cash = b.cash.
		Add(decimal.NewFromFloat(fill.Value)).
		Sub(decimal.NewFromFloat(fill.Commission))

	remaining := decimal.NewFromFloat(position.Quantity).Sub(decimal.NewFromFloat(fill.Quantity))
	if remaining.IsPositive() {
		position.Quantity = remaining.InexactFloat64()
		b.position = optional.Some(position)
	} else {
		b.position = optional.None[types.Position]()
	}

	return filled(order, fill)
}

func (b *BacktestTrading) fillAt(order types.ExecuteOrder, bar types.MarketData) types.Fill {
	value, _ := decimal.NewFromFloat(bar.Open).Mul(decimal.NewFromFloat(order.Quantity)).Float64()

	return types.Fill{
		Time:       bar.Time,
		Price:      bar.Open,
		Quantity:   order.Quantity,
		Value:      value,
		Commission: b.commission.Calculate(order.Quantity, bar.Open),
	}
}

func (b *BacktestTrading) record(update types.OrderUpdate) error {
	return b.state.UpdateOrder(update)
}

// CancelAll cancels every queued order.
func (b *BacktestTrading) CancelAll(message string) ([]types.OrderUpdate, error) {
	updates := make([]types.OrderUpdate, 0, len(b.queued))

	for _, order := range b.queued {
		update := reject(order, types.OrderStatusCancelled, message)
		if err := b.record(update); err != nil {
			return nil, err
		}

		updates = append(updates, update)
	}

	b.queued = []types.ExecuteOrder{}

	return updates, nil
}

// recordRoundTrip stores the round-trip closed by exit against the entry recorded in position.
func (b *BacktestTrading) recordRoundTrip(entry types.Position, exit types.Fill) error {
	trip := types.NewRoundTrip(entry.Symbol, types.Fill{
		Time:       entry.OpenTimestamp,
		Price:      entry.EntryPrice,
		Quantity:   exit.Quantity,
		Commission: entry.EntryFee,
	}, exit)

	return b.state.RecordRoundTrip(trip)
}

func (b *BacktestTrading) Cash() float64 {
	return b.cash.InexactFloat64()
}

func (b *BacktestTrading) Position() optional.Option[types.Position] {
	return b.position
}

// PositionValue values the open position at the last settled close.
func (b *BacktestTrading) PositionValue() float64 {
	if b.position.IsNone() {
		return 0
	}

	position := b.position.Unwrap()

	return position.MarketValue(b.lastPrices[position.Symbol])
}

// PortfolioValue is cash plus the position at the last settled close.
func (b *BacktestTrading) PortfolioValue() float64 {
	return b.cash.Add(decimal.NewFromFloat(b.PositionValue())).InexactFloat64()
}

// Queued returns the number of orders waiting for the next bar.
func (b *BacktestTrading) Queued() int {
	return len(b.queued)
}

// Reset restores the initial capital and drops the position and queue.
func (b *BacktestTrading) Reset(initialCapital float64) {
	b.cash = decimal.NewFromFloat(initialCapital)
	b.position = optional.None[types.Position]()
	b.queued = []types.ExecuteOrder{}
	b.lastPrices = make(map[string]float64)
}

func reject(order types.ExecuteOrder, status types.OrderStatus, message string) types.OrderUpdate {
	return types.OrderUpdate{
		OrderID: order.ID,
		Symbol:  order.Symbol,
		Side:    order.Side,
		Status:  status,
		Message: message,
	}
}

func filled(order types.ExecuteOrder, fill types.Fill) types.OrderUpdate {
	return types.OrderUpdate{
		OrderID: order.ID,
		Symbol:  order.Symbol,
		Side:    order.Side,
		Status:  types.OrderStatusFilled,
		Fill:    fill,
	}
}
