package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/moznion/go-optional"
	"github.com/shopspring/decimal"

	"github.com/tradefolio/analytics/internal/types"
)

// pnlTolerance is the absolute dollar tolerance used when comparing the
// FIFO-derived total against the P&L stored on the position record.
const pnlTolerance = 1e-6

// SellFill is the realized outcome of one sell event after FIFO matching.
type SellFill struct {
	// Date is the sell event's timestamp.
	Date time.Time
	// PnL is the realized P&L across all lots consumed by this sell.
	PnL float64
	// MatchedShares is how many shares were matched against open lots.
	MatchedShares int
	// UnmatchedShares is how many shares could not be matched because the
	// sell exceeded the available bought shares.
	UnmatchedShares int
}

// Resolution is the FIFO resolver's output for a single position.
type Resolution struct {
	// Position is a copy of the input with RealizedPnL populated on each
	// matched sell event.
	Position types.Position
	// TotalRealizedPnL is the sum of all sell fills' P&L. It supersedes the
	// position's stored total whenever the two disagree.
	TotalRealizedPnL float64
	// Fills holds one entry per sell event, in event order.
	Fills []SellFill
	// Warnings lists data inconsistencies found while resolving. They are
	// reported, never fatal.
	Warnings []string
}

// buyLot is an open FIFO lot awaiting sells.
type buyLot struct {
	shares int
	price  decimal.Decimal
}

// ResolveFIFO walks a position's events in timestamp order, matching each
// sell against the oldest open buy lots first. Identically timed lots keep
// their insertion order (stable FIFO). A sell exceeding the available bought
// shares is matched as far as possible and flagged, never fatal.
func ResolveFIFO(position types.Position) Resolution {
	resolved := position
	resolved.Events = position.SortedEvents()

	resolution := Resolution{
		Position:         resolved,
		TotalRealizedPnL: 0,
		Fills:            nil,
		Warnings:         nil,
	}

	var lots []buyLot

	total := decimal.Zero

	for i := range resolved.Events {
		event := &resolved.Events[i]

		switch event.EventType {
		case types.EventTypeBuy:
			lots = append(lots, buyLot{
				shares: event.Shares,
				price:  decimal.NewFromFloat(event.Price),
			})
		case types.EventTypeSell:
			fill := matchSell(&lots, event)
			if fill.UnmatchedShares > 0 {
				resolution.Warnings = append(resolution.Warnings, fmt.Sprintf(
					"position %s (%s): sell of %d shares on %s exceeds open lots, matched %d",
					position.ID, position.Ticker, event.Shares,
					fill.Date.Format("2006-01-02"), fill.MatchedShares,
				))
			}

			event.RealizedPnL = optional.Some(fill.PnL)
			total = total.Add(decimal.NewFromFloat(fill.PnL))
			resolution.Fills = append(resolution.Fills, fill)
		}
	}

	resolution.TotalRealizedPnL, _ = total.Float64()
	resolution.Position.TotalRealizedPnL = resolution.TotalRealizedPnL

	if math.Abs(resolution.TotalRealizedPnL-position.TotalRealizedPnL) > pnlTolerance {
		resolution.Warnings = append(resolution.Warnings, fmt.Sprintf(
			"position %s (%s): stored realized P&L %.2f disagrees with FIFO-derived %.2f, using derived value",
			position.ID, position.Ticker, position.TotalRealizedPnL, resolution.TotalRealizedPnL,
		))
	}

	return resolution
}

// matchSell consumes lot shares oldest-first to fill the sell event and
// returns the resulting fill. Fully consumed lots are dropped from the queue.
func matchSell(lots *[]buyLot, event *types.PositionEvent) SellFill {
	sellPrice := decimal.NewFromFloat(event.Price)
	remaining := event.Shares
	pnl := decimal.Zero
	matched := 0

	for remaining > 0 && len(*lots) > 0 {
		lot := &(*lots)[0]

		take := lot.shares
		if take > remaining {
			take = remaining
		}

		pnl = pnl.Add(sellPrice.Sub(lot.price).Mul(decimal.NewFromInt(int64(take))))
		matched += take
		remaining -= take
		lot.shares -= take

		if lot.shares == 0 {
			*lots = (*lots)[1:]
		}
	}

	pnlFloat, _ := pnl.Float64()

	return SellFill{
		Date:            event.EventDate,
		PnL:             pnlFloat,
		MatchedShares:   matched,
		UnmatchedShares: remaining,
	}
}

// ResolveAll resolves every position in the set, preserving order, and
// collects all warnings into one slice.
func ResolveAll(positions []types.Position) ([]Resolution, []string) {
	resolutions := make([]Resolution, 0, len(positions))

	var warnings []string

	for _, position := range positions {
		resolution := ResolveFIFO(position)
		warnings = append(warnings, resolution.Warnings...)
		resolutions = append(resolutions, resolution)
	}

	return resolutions, warnings
}
