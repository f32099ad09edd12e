package engine

import (
	"math"

	"github.com/rxtech-lab/argo-rotation/internal/types"
)

// TradingDaysPerYear annualizes the Sharpe ratio of daily returns.
const TradingDaysPerYear = 252

func calculatePortfolioResult(startingValue float64, curve []float64) types.PortfolioResult {
	result := types.PortfolioResult{
		StartingValue: startingValue,
		FinalValue:    startingValue,
	}

	if len(curve) == 0 {
		return result
	}

	result.FinalValue = curve[len(curve)-1]
	if startingValue != 0 {
		result.TotalReturn = result.FinalValue/startingValue - 1
	}

	values := append([]float64{startingValue}, curve...)
	result.MaxDrawdown = maxDrawdown(values)
	result.SharpeRatio = sharpeRatio(returns(values), TradingDaysPerYear)

	return result
}

// maxDrawdown returns the largest peak-to-trough decline as a fraction of the peak.
func maxDrawdown(values []float64) float64 {
	peak := math.Inf(-1)
	drawdown := 0.0

	for _, value := range values {
		peak = math.Max(peak, value)
		if peak > 0 {
			drawdown = math.Max(drawdown, (peak-value)/peak)
		}
	}

	return drawdown
}

func returns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}

	out := make([]float64, 0, len(values)-1)

	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			out = append(out, 0)

			continue
		}

		out = append(out, values[i]/values[i-1]-1)
	}

	return out
}

// sharpeRatio annualizes the mean over the sample standard deviation of returns, risk-free rate zero.
// It is zero when there are fewer than two returns or they do not vary.
func sharpeRatio(returns []float64, periodsPerYear int) float64 {
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}

	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}

	std := math.Sqrt(variance / float64(len(returns)-1))
	if std == 0 {
		return 0
	}

	return mean / std * math.Sqrt(float64(periodsPerYear))
}
