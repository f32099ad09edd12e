package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
)

type PurchaseType string

type OrderType string

type OrderStatus string

const (
	// OrderStatusPending is reported for orders the broker accepted but has not settled yet.
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusFilled    OrderStatus = "FILLED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusRejected  OrderStatus = "REJECTED"
	// OrderStatusMargin means the broker refused a buy because cash could not cover it.
	OrderStatusMargin OrderStatus = "MARGIN"
)

const (
	PurchaseTypeBuy  PurchaseType = "BUY"
	PurchaseTypeSell PurchaseType = "SELL"
)

const (
	OrderTypeMarket OrderType = "MARKET"
)

const (
	OrderReasonBullishCross string = "bullish_cross"
	OrderReasonBearishCross string = "bearish_cross"
	OrderReasonEndOfData    string = "end_of_data"
	OrderReasonInsufficient string = "insufficient_cash"
	OrderReasonNoPosition   string = "no_position"
	OrderReasonPositionOpen string = "position_already_open"
)

// IsTerminal reports whether no further updates will follow for an order in this status.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusFilled, OrderStatusCancelled, OrderStatusRejected, OrderStatusMargin:
		return true
	default:
		return false
	}
}

type Reason struct {
	Reason  string `yaml:"reason" json:"reason" validate:"required"`
	Message string `yaml:"message" json:"message" validate:"required"`
}

// ExecuteOrder is an order intent emitted by a strategy.
type ExecuteOrder struct {
	ID           string       `yaml:"id" json:"id" validate:"required,uuid"`
	Symbol       string       `yaml:"symbol" json:"symbol" validate:"required"`
	Side         PurchaseType `yaml:"side" json:"side" validate:"required,oneof=BUY SELL"`
	OrderType    OrderType    `yaml:"order_type" json:"order_type" validate:"required,oneof=MARKET"`
	Reason       Reason       `yaml:"reason" json:"reason" validate:"required"`
	StrategyName string       `yaml:"strategy_name" json:"strategy_name" validate:"required"`
	Quantity     float64      `yaml:"quantity" json:"quantity" validate:"required,gt=0"`
	// CreatedAt is the time of the bar on which the intent was emitted.
	CreatedAt time.Time `yaml:"created_at" json:"created_at" validate:"required"`
}

// Fill describes how an order was executed.
type Fill struct {
	Time     time.Time `yaml:"time" json:"time"`
	Price    float64   `yaml:"price" json:"price"`
	Quantity float64   `yaml:"quantity" json:"quantity"`
	// Value is Price * Quantity, the cost of a buy or the proceeds of a sell before commission.
	Value      float64 `yaml:"value" json:"value"`
	Commission float64 `yaml:"commission" json:"commission"`
}

// OrderUpdate is the broker's notification about an order's status.
type OrderUpdate struct {
	OrderID string       `yaml:"order_id" json:"order_id"`
	Symbol  string       `yaml:"symbol" json:"symbol"`
	Side    PurchaseType `yaml:"side" json:"side"`
	Status  OrderStatus  `yaml:"status" json:"status"`
	// Fill is only meaningful when Status is FILLED.
	Fill    Fill   `yaml:"fill" json:"fill"`
	Message string `yaml:"message" json:"message"`
}

// Validate validates the ExecuteOrder struct.
func (eo *ExecuteOrder) Validate() error {
	validate := validator.New()

	if err := validate.Struct(eo); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidExecuteOrder, "invalid execute order", err)
	}

	return nil
}
