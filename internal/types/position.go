package types

import (
	"sort"
	"time"

	"github.com/moznion/go-optional"
)

// EventType identifies whether a position event added or removed shares.
type EventType string

const (
	EventTypeBuy  EventType = "buy"
	EventTypeSell EventType = "sell"
)

// PositionStatus represents the lifecycle state of a position.
type PositionStatus string

const (
	PositionStatusOpen   PositionStatus = "open"
	PositionStatusClosed PositionStatus = "closed"
)

// PositionEvent is a single buy or sell applied to a position. Events are
// owned exclusively by their position and are append-only: once recorded they
// are never modified.
type PositionEvent struct {
	// EventType is either buy or sell.
	EventType EventType `yaml:"event_type" json:"event_type"`
	// EventDate is when the shares changed hands.
	EventDate time.Time `yaml:"event_date" json:"event_date"`
	// Shares is the positive number of shares bought or sold.
	Shares int `yaml:"shares" json:"shares"`
	// Price is the per-share execution price.
	Price float64 `yaml:"price" json:"price"`
	// RealizedPnL is present on sell events once FIFO resolution has run.
	// It stays None on buy events and on sell events that were never matched.
	RealizedPnL optional.Option[float64] `yaml:"realized_pnl" json:"realized_pnl"`
}

// Position is a read-only snapshot of one ticker's lifecycle: an ordered
// sequence of buy and sell events plus the derived fields persisted alongside
// it by the upstream system.
type Position struct {
	// ID uniquely identifies the position.
	ID string `yaml:"id" json:"id"`
	// Ticker is the traded symbol.
	Ticker string `yaml:"ticker" json:"ticker"`
	// Status is open while shares remain, closed once fully sold.
	Status PositionStatus `yaml:"status" json:"status"`
	// OpenedAt is the date of the first buy event.
	OpenedAt time.Time `yaml:"opened_at" json:"opened_at"`
	// ClosedAt is set once the position is fully closed.
	ClosedAt optional.Option[time.Time] `yaml:"closed_at" json:"closed_at"`
	// Events is the ordered buy/sell history.
	Events []PositionEvent `yaml:"events" json:"events"`
	// TotalRealizedPnL is the upstream-stored realized P&L. The FIFO
	// resolver's derived value is preferred when the two disagree.
	TotalRealizedPnL float64 `yaml:"total_realized_pnl" json:"total_realized_pnl"`
	// CurrentShares is the number of shares still held.
	CurrentShares int `yaml:"current_shares" json:"current_shares"`
	// AvgEntryPrice is the average per-share entry price of held shares.
	AvgEntryPrice float64 `yaml:"avg_entry_price" json:"avg_entry_price"`
	// TotalCost is the total dollar cost of all buys.
	TotalCost float64 `yaml:"total_cost" json:"total_cost"`
	// Strategy optionally names the strategy that opened the position.
	Strategy optional.Option[string] `yaml:"strategy" json:"strategy"`
}

// IsClosed reports whether the position has been fully sold.
func (p *Position) IsClosed() bool {
	return p.Status == PositionStatusClosed
}

// SortedEvents returns the position's events ordered by event date. The sort
// is stable so same-instant events keep their original insertion order, which
// the FIFO resolver relies on for lot tie-breaking.
func (p *Position) SortedEvents() []PositionEvent {
	events := make([]PositionEvent, len(p.Events))
	copy(events, p.Events)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].EventDate.Before(events[j].EventDate)
	})

	return events
}

// CurrentExposure returns the dollar value proxy of held shares
// (shares times average entry price). Market prices are out of scope, so the
// entry price stands in for the mark.
func (p *Position) CurrentExposure() float64 {
	return float64(p.CurrentShares) * p.AvgEntryPrice
}
