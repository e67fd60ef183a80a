// Package engine implements the trading analytics pipeline: time-window
// filtering, FIFO P&L resolution, the equity timeline, drawdown, risk ratios,
// streaks and cohort breakdowns. Every component is a pure, synchronous
// transform over immutable input snapshots; the engine performs no I/O and
// keeps no state between calls, so identical inputs always produce identical
// results.
package engine

import (
	"time"

	"go.uber.org/zap"

	"github.com/tradefolio/analytics/internal/logger"
	"github.com/tradefolio/analytics/internal/types"
)

// monthlyPeriodsPerYear annualizes ratios computed from monthly returns.
const monthlyPeriodsPerYear = 12

// Engine computes DerivedMetrics from position/transaction snapshots. The
// sector lookup is injected; the logger only records warning annotations and
// never influences results.
type Engine struct {
	logger  *logger.Logger
	sectors SectorLookup
}

// New creates an analytics engine.
func New(log *logger.Logger, sectors SectorLookup) *Engine {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Engine{
		logger:  log,
		sectors: sectors,
	}
}

// ComputeMetrics runs the full pipeline over one (position set, time window)
// pair. now is an explicit parameter for testability; the engine never reads
// the wall clock. The result is a fresh value on every call and is always
// well-formed, including for empty inputs.
func (e *Engine) ComputeMetrics(
	positions []types.Position,
	transactions []types.AccountTransaction,
	scale types.TimeScale,
	now time.Time,
	startingBalance float64,
) types.DerivedMetrics {
	filteredPositions := FilterPositions(positions, scale, now)
	filteredTransactions := FilterTransactions(transactions, scale, now)

	resolutions, warnings := ResolveAll(filteredPositions)
	for _, warning := range warnings {
		e.logger.Warn("data inconsistency", zap.String("detail", warning))
	}

	trades := ClosedTrades(resolutions)

	pnls := make([]float64, 0, len(trades))
	for _, trade := range trades {
		pnls = append(pnls, trade.PnL)
	}

	realizedPnL := 0.0
	for _, resolution := range resolutions {
		realizedPnL += resolution.TotalRealizedPnL
	}

	timeline := BuildEquityTimeline(resolutions, filteredTransactions, startingBalance)
	drawdown := AnalyzeDrawdown(timeline)
	monthly := MonthlyReturns(timeline, startingBalance)

	ratios := ComputeRatios(RatioInputs{
		PnLs:                    pnls,
		Returns:                 ReturnSeries(monthly),
		PeriodsPerYear:          monthlyPeriodsPerYear,
		Drawdown:                drawdown,
		NetProfit:               realizedPnL,
		AnnualizedReturnPercent: AnnualizedReturnPercent(timeline, realizedPnL, startingBalance),
	})

	streaks := AnalyzeStreaks(trades)
	summary := types.SummarizeTransactions(filteredTransactions)

	metrics := types.DerivedMetrics{
		TimeScale:            scale,
		WinRate:              ratios.WinRate,
		ProfitFactor:         ratios.ProfitFactor,
		SharpeRatio:          ratios.SharpeRatio,
		SortinoRatio:         ratios.SortinoRatio,
		CalmarRatio:          ratios.CalmarRatio,
		KellyPercentage:      ratios.KellyPercentage,
		RecoveryFactor:       ratios.RecoveryFactor,
		Expectancy:           ratios.Expectancy,
		MaxDrawdown:          drawdown.MaxDrawdown,
		MaxDrawdownPercent:   drawdown.MaxDrawdownPercent,
		ConsecutiveWins:      0,
		ConsecutiveLosses:    0,
		MaxConsecutiveWins:   streaks.MaxConsecutiveWins,
		MaxConsecutiveLosses: streaks.MaxConsecutiveLosses,
		RealizedPnL:          realizedPnL,
		TradingGrowthPercent: 0,
		TotalGrowthPercent:   0,
		NetDeposits:          summary.NetFlow,
		MonthlyReturns:       monthly,
		Drawdown:             drawdown,
		Cohorts:              BuildCohorts(trades, filteredPositions, e.sectors),
		TradeCount:           len(trades),
		Warnings:             warnings,
	}

	if streaks.Current > 0 {
		metrics.ConsecutiveWins = streaks.Current
	} else if streaks.Current < 0 {
		metrics.ConsecutiveLosses = -streaks.Current
	}

	if startingBalance > 0 {
		metrics.TradingGrowthPercent = realizedPnL / startingBalance * 100
		finalEquity := FinalEquity(timeline, startingBalance)
		metrics.TotalGrowthPercent = (finalEquity - startingBalance) / startingBalance * 100
	}

	return metrics
}
