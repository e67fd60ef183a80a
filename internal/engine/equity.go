package engine

import (
	"sort"
	"time"

	"github.com/tradefolio/analytics/internal/types"
)

// EquityPointKind distinguishes cash flows from trade P&L on the timeline.
type EquityPointKind int

const (
	// EquityPointTransaction is a deposit or withdrawal.
	EquityPointTransaction EquityPointKind = iota
	// EquityPointTrade is realized P&L from a sell fill.
	EquityPointTrade
)

// EquityPoint is one step of the merged equity timeline.
type EquityPoint struct {
	// Time is when the delta landed.
	Time time.Time
	// Kind is transaction or trade.
	Kind EquityPointKind
	// Delta is the signed change in equity at this point.
	Delta float64
	// Value is the running equity after applying Delta.
	Value float64
}

// BuildEquityTimeline merges resolved sell-fill P&L and account transactions
// into one chronological sequence seeded at startingBalance. Deposits are
// positive deltas, withdrawals negative. Same-instant entries order
// transactions before trade P&L: deposits settle before being deployed.
// The builder holds no state; callers rebuild from scratch on every filter
// change.
func BuildEquityTimeline(resolutions []Resolution, transactions []types.AccountTransaction, startingBalance float64) []EquityPoint {
	var points []EquityPoint

	for _, tx := range transactions {
		points = append(points, EquityPoint{
			Time:  tx.TransactionDate,
			Kind:  EquityPointTransaction,
			Delta: tx.SignedAmount(),
			Value: 0,
		})
	}

	for _, resolution := range resolutions {
		for _, fill := range resolution.Fills {
			points = append(points, EquityPoint{
				Time:  fill.Date,
				Kind:  EquityPointTrade,
				Delta: fill.PnL,
				Value: 0,
			})
		}
	}

	sort.SliceStable(points, func(i, j int) bool {
		if points[i].Time.Equal(points[j].Time) {
			return points[i].Kind < points[j].Kind
		}

		return points[i].Time.Before(points[j].Time)
	})

	value := startingBalance
	for i := range points {
		value += points[i].Delta
		points[i].Value = value
	}

	return points
}

// FinalEquity returns the last value of the timeline, or startingBalance for
// an empty timeline.
func FinalEquity(points []EquityPoint, startingBalance float64) float64 {
	if len(points) == 0 {
		return startingBalance
	}

	return points[len(points)-1].Value
}
