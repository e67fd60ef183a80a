package engine

import (
	"math"

	"github.com/tradefolio/analytics/internal/types"
)

// MonthlyReturns buckets the equity timeline by calendar month. Each row
// reports the trading P&L landed that month and the percent return against
// the equity entering the month. Cash flows move the equity base but are not
// counted as trading P&L. Months without any timeline activity are omitted.
func MonthlyReturns(points []EquityPoint, startingBalance float64) []types.MonthlyReturn {
	if len(points) == 0 {
		return nil
	}

	var rows []types.MonthlyReturn

	currentMonth := ""
	startEquity := startingBalance
	previousValue := startingBalance

	var row types.MonthlyReturn

	flush := func() {
		if currentMonth == "" {
			return
		}

		if row.StartEquity != 0 {
			row.ReturnPercent = row.PnL / row.StartEquity * 100
		}

		rows = append(rows, row)
	}

	for _, point := range points {
		month := point.Time.Format("2006-01")
		if month != currentMonth {
			flush()

			startEquity = previousValue
			currentMonth = month
			row = types.MonthlyReturn{
				Month:         month,
				PnL:           0,
				StartEquity:   startEquity,
				EndEquity:     startEquity,
				ReturnPercent: 0,
			}
		}

		if point.Kind == EquityPointTrade {
			row.PnL += point.Delta
		}

		row.EndEquity = point.Value
		previousValue = point.Value
	}

	flush()

	return rows
}

// ReturnSeries converts monthly rows into a fractional return series for the
// Sharpe/Sortino calculations.
func ReturnSeries(rows []types.MonthlyReturn) []float64 {
	returns := make([]float64, 0, len(rows))
	for _, row := range rows {
		returns = append(returns, row.ReturnPercent/100)
	}

	return returns
}

// AnnualizedReturnPercent estimates the annualized trading return over the
// timeline's span by compounding the total return. A span shorter than one
// period degrades to the raw total return rather than exploding.
func AnnualizedReturnPercent(points []EquityPoint, netProfit, startingBalance float64) float64 {
	if startingBalance <= 0 {
		return 0
	}

	totalReturn := netProfit / startingBalance
	if len(points) < 2 {
		return totalReturn * 100
	}

	span := points[len(points)-1].Time.Sub(points[0].Time)
	if span <= 0 {
		return totalReturn * 100
	}

	years := span.Hours() / (365.25 * 24)
	if years <= 1 {
		return totalReturn * 100
	}

	if totalReturn <= -1 {
		return -100
	}

	return (math.Pow(1+totalReturn, 1/years) - 1) * 100
}
