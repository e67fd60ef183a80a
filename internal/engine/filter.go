package engine

import (
	"time"

	"github.com/tradefolio/analytics/internal/types"
)

// FilterPositions restricts a position set to the window selected by scale,
// relative to the supplied now. Closed positions are judged by when their P&L
// landed (closed_at); open positions by when exposure began (opened_at). The
// asymmetry is intentional. Output order follows input order, and filtering
// is idempotent: re-filtering the result with the same scale and now returns
// the same set.
func FilterPositions(positions []types.Position, scale types.TimeScale, now time.Time) []types.Position {
	cutoff := scale.Cutoff(now)
	filtered := make([]types.Position, 0, len(positions))

	for _, position := range positions {
		if includePosition(position, cutoff) {
			filtered = append(filtered, position)
		}
	}

	return filtered
}

func includePosition(position types.Position, cutoff time.Time) bool {
	if position.IsClosed() {
		closedAt, err := position.ClosedAt.Take()
		if err != nil {
			// Closed position without a close date: fall back to opened_at
			// rather than dropping it silently.
			return !position.OpenedAt.Before(cutoff)
		}

		return !closedAt.Before(cutoff)
	}

	return !position.OpenedAt.Before(cutoff)
}

// FilterTransactions restricts account transactions to the same window,
// keeping those dated at or after the cutoff. Order-preserving and pure.
func FilterTransactions(transactions []types.AccountTransaction, scale types.TimeScale, now time.Time) []types.AccountTransaction {
	cutoff := scale.Cutoff(now)
	filtered := make([]types.AccountTransaction, 0, len(transactions))

	for _, tx := range transactions {
		if !tx.TransactionDate.Before(cutoff) {
			filtered = append(filtered, tx)
		}
	}

	return filtered
}
