package utils

import (
	"math"

	"github.com/rxtech-lab/argo-rotation/internal/backtest/engine/engine_v1/commission_fee"
)

// CalculateMaxQuantity returns the largest quantity whose cost plus commission fits in balance.
func CalculateMaxQuantity(balance float64, price float64, commissionFee commission_fee.CommissionFee) float64 {
	if price <= 0 || balance <= 0 {
		return 0
	}

	maxQty := balance / price

	// usually converges within a few iterations
	for range 10 {
		totalCost := maxQty*price + commissionFee.Calculate(maxQty, price)
		if totalCost <= balance {
			break
		}

		maxQty *= balance / totalCost
	}

	return max(maxQty, 0)
}

// RoundToDecimalPrecision rounds quantity down to decimalPrecision places.
func RoundToDecimalPrecision(quantity float64, decimalPrecision int) float64 {
	multiplier := math.Pow10(decimalPrecision)

	return math.Floor(quantity*multiplier) / multiplier
}
