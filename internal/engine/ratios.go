package engine

import (
	"math"

	"github.com/tradefolio/analytics/internal/types"
)

// Ratios bundles every risk-adjusted figure derived from the resolved P&L
// series. Rates default to 0 and ratios to the undefined sentinel for empty
// inputs; zero denominators produce the tagged infinite sentinel, never 0 or
// NaN.
type Ratios struct {
	WinRate         float64
	AvgWin          float64
	AvgLoss         float64
	Expectancy      float64
	ProfitFactor    types.Ratio
	SharpeRatio     types.Ratio
	SortinoRatio    types.Ratio
	CalmarRatio     types.Ratio
	KellyPercentage types.Ratio
	RecoveryFactor  types.Ratio
}

// RatioInputs carries everything ComputeRatios needs.
type RatioInputs struct {
	// PnLs are the resolved per-position realized P&L values of closed
	// positions.
	PnLs []float64
	// Returns is the periodic return series (fractions, not percent).
	Returns []float64
	// PeriodsPerYear is the annualization base matching Returns' period.
	PeriodsPerYear float64
	// Drawdown is the result of the drawdown walk over the equity timeline.
	Drawdown types.DrawdownStats
	// NetProfit is the window's total realized P&L.
	NetProfit float64
	// AnnualizedReturnPercent is the annualized trading return, in percent.
	AnnualizedReturnPercent float64
}

// ComputeRatios derives win rate, profit factor, expectancy, Sharpe, Sortino,
// Calmar, Kelly % and recovery factor from the resolved P&L series.
func ComputeRatios(in RatioInputs) Ratios {
	ratios := Ratios{
		WinRate:         0,
		AvgWin:          0,
		AvgLoss:         0,
		Expectancy:      0,
		ProfitFactor:    types.UndefinedRatio(),
		SharpeRatio:     types.UndefinedRatio(),
		SortinoRatio:    types.UndefinedRatio(),
		CalmarRatio:     types.UndefinedRatio(),
		KellyPercentage: types.UndefinedRatio(),
		RecoveryFactor:  types.UndefinedRatio(),
	}

	n := len(in.PnLs)

	var wins, losses int

	var grossProfit, grossLoss float64

	for _, pnl := range in.PnLs {
		if pnl > 0 {
			wins++
			grossProfit += pnl
		} else if pnl < 0 {
			losses++
			grossLoss += math.Abs(pnl)
		}
	}

	if n > 0 {
		ratios.WinRate = float64(wins) / float64(n) * 100
	}

	if wins > 0 {
		ratios.AvgWin = grossProfit / float64(wins)
	}

	if losses > 0 {
		// AvgLoss is a positive magnitude.
		ratios.AvgLoss = grossLoss / float64(losses)
	}

	if n > 0 {
		winProbability := ratios.WinRate / 100
		ratios.Expectancy = winProbability*ratios.AvgWin - (1-winProbability)*ratios.AvgLoss
		ratios.ProfitFactor = profitFactor(grossProfit, grossLoss)
		ratios.KellyPercentage = kellyPercentage(winProbability, ratios.AvgWin, ratios.AvgLoss)
	}

	ratios.SharpeRatio = sharpeRatio(in.Returns, in.PeriodsPerYear)
	ratios.SortinoRatio = sortinoRatio(in.Returns, in.PeriodsPerYear)
	ratios.CalmarRatio = calmarRatio(in.AnnualizedReturnPercent, in.Drawdown.MaxDrawdownPercent, n)
	ratios.RecoveryFactor = recoveryFactor(in.NetProfit, in.Drawdown.MaxDrawdown, n)

	return ratios
}

// profitFactor is gross profit over gross loss. No losses yet with profits on
// the book is the positive infinite sentinel; no profits and no losses is
// undefined ("no data" is distinct from "perfect factor").
func profitFactor(grossProfit, grossLoss float64) types.Ratio {
	if grossLoss == 0 {
		if grossProfit > 0 {
			return types.InfiniteRatio()
		}

		return types.UndefinedRatio()
	}

	return types.FiniteRatio(grossProfit / grossLoss)
}

// kellyPercentage is win probability minus loss probability over the payoff
// ratio. A zero average loss makes the payoff ratio explode: reported as the
// infinite sentinel, never raised.
func kellyPercentage(winProbability, avgWin, avgLoss float64) types.Ratio {
	if avgLoss == 0 {
		if avgWin > 0 {
			return types.InfiniteRatio()
		}

		return types.UndefinedRatio()
	}

	payoff := avgWin / avgLoss
	if payoff == 0 {
		return types.NegativeInfiniteRatio()
	}

	return types.FiniteRatio(winProbability - (1-winProbability)/payoff)
}

// sharpeRatio is the mean periodic return over its sample standard deviation,
// scaled by sqrt(periodsPerYear). The risk-free rate is treated as 0.
func sharpeRatio(returns []float64, periodsPerYear float64) types.Ratio {
	if len(returns) < 2 {
		return types.UndefinedRatio()
	}

	m := mean(returns)
	sd := stddev(returns, m)

	if sd == 0 {
		// All returns identical: no variance to divide by.
		switch {
		case m > 0:
			return types.InfiniteRatio()
		case m < 0:
			return types.NegativeInfiniteRatio()
		default:
			return types.UndefinedRatio()
		}
	}

	return types.FiniteRatio(m / sd * math.Sqrt(periodsPerYear))
}

// sortinoRatio is like Sharpe but divides by the deviation of the sub-zero
// return observations only. With no negative returns the ratio is the
// infinite sentinel, not zero.
func sortinoRatio(returns []float64, periodsPerYear float64) types.Ratio {
	if len(returns) < 2 {
		return types.UndefinedRatio()
	}

	m := mean(returns)

	dd := downsideDeviation(returns)
	if dd == 0 {
		if m == 0 {
			return types.UndefinedRatio()
		}

		return types.InfiniteRatio()
	}

	return types.FiniteRatio(m / dd * math.Sqrt(periodsPerYear))
}

// calmarRatio is the annualized return over the magnitude of the maximum
// drawdown percent.
func calmarRatio(annualizedReturnPercent, maxDrawdownPercent float64, tradeCount int) types.Ratio {
	if tradeCount == 0 {
		return types.UndefinedRatio()
	}

	if maxDrawdownPercent == 0 {
		switch {
		case annualizedReturnPercent > 0:
			return types.InfiniteRatio()
		case annualizedReturnPercent < 0:
			return types.NegativeInfiniteRatio()
		default:
			return types.UndefinedRatio()
		}
	}

	return types.FiniteRatio(annualizedReturnPercent / math.Abs(maxDrawdownPercent))
}

// recoveryFactor is net profit over the magnitude of the maximum drawdown.
func recoveryFactor(netProfit, maxDrawdown float64, tradeCount int) types.Ratio {
	if tradeCount == 0 {
		return types.UndefinedRatio()
	}

	if maxDrawdown == 0 {
		switch {
		case netProfit > 0:
			return types.InfiniteRatio()
		case netProfit < 0:
			return types.NegativeInfiniteRatio()
		default:
			return types.UndefinedRatio()
		}
	}

	return types.FiniteRatio(netProfit / math.Abs(maxDrawdown))
}

// mean returns the arithmetic mean of xs, or 0 for an empty slice.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}

	sum := 0.0
	for _, x := range xs {
		sum += x
	}

	return sum / float64(len(xs))
}

// stddev returns the sample standard deviation of xs given its mean.
func stddev(xs []float64, m float64) float64 {
	if len(xs) < 2 {
		return 0
	}

	sumSq := 0.0

	for _, x := range xs {
		d := x - m
		sumSq += d * d
	}

	return math.Sqrt(sumSq / float64(len(xs)-1))
}

// downsideDeviation returns the sample deviation of the sub-zero observations
// in xs. Only negative returns contribute.
func downsideDeviation(xs []float64) float64 {
	var negatives []float64

	for _, x := range xs {
		if x < 0 {
			negatives = append(negatives, x)
		}
	}

	if len(negatives) == 0 {
		return 0
	}

	if len(negatives) == 1 {
		return math.Abs(negatives[0])
	}

	m := mean(negatives)

	return stddev(negatives, m)
}
