package commission_fee

type CommissionFee interface {
	// Calculate returns the fee in USD for trading quantity units at price
	Calculate(quantity float64, price float64) float64
}

type Broker string

const (
	BrokerPercentage        Broker = "percentage"
	BrokerInteractiveBroker Broker = "interactive_broker"
	BrokerZero              Broker = "zero_commission"
)

// DefaultCommissionRate is the fraction of traded value charged by the percentage broker.
const DefaultCommissionRate = 0.0025

var AllBrokers = []any{
	BrokerPercentage,
	BrokerInteractiveBroker,
	BrokerZero,
}

// GetCommissionFeeHandler returns the fee model for broker. rate is only used by BrokerPercentage.
// Unknown brokers charge nothing.
func GetCommissionFeeHandler(broker Broker, rate float64) CommissionFee {
	switch broker {
	case BrokerPercentage:
		return NewPercentageCommissionFee(rate)
	case BrokerInteractiveBroker:
		return NewInteractiveBrokerCommissionFee()
	case BrokerZero:
		return NewZeroCommissionFee()
	default:
		return NewZeroCommissionFee()
	}
}
