package trading

import "github.com/rxtech-lab/argo-rotation/internal/types"

// TradingSystem is the execution side a strategy submits orders to.
type TradingSystem interface {
	// PlaceOrder queues an order intent. The outcome arrives later as a types.OrderUpdate.
	// A returned error means the order was refused outright and no update will follow.
	PlaceOrder(order types.ExecuteOrder) error
}
