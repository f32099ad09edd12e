package types

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func validOrder() ExecuteOrder {
	return ExecuteOrder{
		ID:           uuid.New().String(),
		Symbol:       "VTI",
		Side:         PurchaseTypeBuy,
		OrderType:    OrderTypeMarket,
		Reason:       Reason{Reason: OrderReasonBullishCross, Message: "fast crossed above slow"},
		StrategyName: "SMARotation",
		Quantity:     1,
		CreatedAt:    time.Date(2020, 3, 2, 0, 0, 0, 0, time.UTC),
	}
}

func TestExecuteOrderValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(o *ExecuteOrder)
		shouldError bool
	}{
		{name: "valid order", mutate: func(o *ExecuteOrder) {}, shouldError: false},
		{name: "valid sell", mutate: func(o *ExecuteOrder) { o.Side = PurchaseTypeSell }, shouldError: false},
		{name: "id is not a uuid", mutate: func(o *ExecuteOrder) { o.ID = "order-1" }, shouldError: true},
		{name: "missing symbol", mutate: func(o *ExecuteOrder) { o.Symbol = "" }, shouldError: true},
		{name: "unknown side", mutate: func(o *ExecuteOrder) { o.Side = "HOLD" }, shouldError: true},
		{name: "limit orders unsupported", mutate: func(o *ExecuteOrder) { o.OrderType = "LIMIT" }, shouldError: true},
		{name: "zero quantity", mutate: func(o *ExecuteOrder) { o.Quantity = 0 }, shouldError: true},
		{name: "missing reason message", mutate: func(o *ExecuteOrder) { o.Reason.Message = "" }, shouldError: true},
		{name: "missing strategy", mutate: func(o *ExecuteOrder) { o.StrategyName = "" }, shouldError: true},
		{name: "missing bar time", mutate: func(o *ExecuteOrder) { o.CreatedAt = time.Time{} }, shouldError: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			order := validOrder()
			tc.mutate(&order)

			err := order.Validate()
			if tc.shouldError {
				assert.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidExecuteOrder))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOrderStatusIsTerminal(t *testing.T) {
	assert.False(t, OrderStatusPending.IsTerminal())
	assert.True(t, OrderStatusFilled.IsTerminal())
	assert.True(t, OrderStatusCancelled.IsTerminal())
	assert.True(t, OrderStatusRejected.IsTerminal())
	assert.True(t, OrderStatusMargin.IsTerminal())
	assert.False(t, OrderStatus("ACCEPTED").IsTerminal())
}
