package commission_fee

import "github.com/shopspring/decimal"

// PercentageCommissionFee charges a fixed fraction of the traded value.
type PercentageCommissionFee struct {
	rate decimal.Decimal
}

func NewPercentageCommissionFee(rate float64) CommissionFee {
	return &PercentageCommissionFee{rate: decimal.NewFromFloat(rate)}
}

func (c *PercentageCommissionFee) Calculate(quantity float64, price float64) float64 {
	fee, _ := decimal.NewFromFloat(quantity).
		Mul(decimal.NewFromFloat(price)).
		Mul(c.rate).
		Abs().
		Float64()

	return fee
}
