package engine

import (
	"sort"
	"time"
)

// ClosedTrade is the flattened view of a resolved closed position consumed by
// the streak and cohort analyzers.
type ClosedTrade struct {
	PositionID string
	Ticker     string
	OpenedAt   time.Time
	ClosedAt   time.Time
	// PnL is the FIFO-resolved realized P&L for the whole position.
	PnL float64
	// Cost is the original total dollar cost of the position's buys.
	Cost float64
}

// ClosedTrades extracts closed positions from the resolutions, sorted by
// close date ascending. Positions still open are skipped; a closed position
// missing its close date falls back to its last sell fill.
func ClosedTrades(resolutions []Resolution) []ClosedTrade {
	trades := make([]ClosedTrade, 0, len(resolutions))

	for _, resolution := range resolutions {
		position := resolution.Position
		if !position.IsClosed() {
			continue
		}

		closedAt, err := position.ClosedAt.Take()
		if err != nil {
			if len(resolution.Fills) == 0 {
				continue
			}

			closedAt = resolution.Fills[len(resolution.Fills)-1].Date
		}

		trades = append(trades, ClosedTrade{
			PositionID: position.ID,
			Ticker:     position.Ticker,
			OpenedAt:   position.OpenedAt,
			ClosedAt:   closedAt,
			PnL:        resolution.TotalRealizedPnL,
			Cost:       position.TotalCost,
		})
	}

	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].ClosedAt.Before(trades[j].ClosedAt)
	})

	return trades
}

// HoldingPeriod returns how long the trade was open.
func (t ClosedTrade) HoldingPeriod() time.Duration {
	return t.ClosedAt.Sub(t.OpenedAt)
}
