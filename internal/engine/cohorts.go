package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/moznion/go-optional"

	"github.com/tradefolio/analytics/internal/types"
)

// SectorLookup resolves a ticker to its sector. Implementations are injected
// so the classification table stays swappable; tickers that resolve to None
// land in the "Other" bucket, never dropped.
type SectorLookup interface {
	Sector(ticker string) optional.Option[string]
}

// SectorOther is the fallback bucket for tickers the lookup cannot classify.
const SectorOther = "Other"

// Fixed cut points for the holding-period cohort.
var holdingPeriodBuckets = []string{
	"<=1 day",
	"2-7 days",
	"1-4 weeks",
	"1-3 months",
	">3 months",
}

// Fixed dollar cut points shared by the closed-trade size cohort (original
// cost) and the open-position size cohort (current exposure).
var sizeBuckets = []string{
	"<$1k",
	"$1k-$5k",
	"$5k-$10k",
	"$10k-$25k",
	">=$25k",
}

var weekdayBuckets = []string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// GroupTrades buckets trades by the given key function and produces one
// CohortStat per bucket, sorted lexicographically by key for deterministic
// output.
func GroupTrades(trades []ClosedTrade, key func(ClosedTrade) string) []types.CohortStat {
	groups := make(map[string][]ClosedTrade)

	for _, trade := range trades {
		k := key(trade)
		groups[k] = append(groups[k], trade)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	stats := make([]types.CohortStat, 0, len(keys))
	for _, k := range keys {
		stats = append(stats, bucketStat(k, groups[k]))
	}

	return stats
}

// GroupTradesOrdered buckets trades by key into a fixed, ordered bucket list.
// Every bucket appears in the output, empty ones included, so charts always
// render the full axis.
func GroupTradesOrdered(trades []ClosedTrade, key func(ClosedTrade) string, order []string) []types.CohortStat {
	groups := make(map[string][]ClosedTrade)

	for _, trade := range trades {
		k := key(trade)
		groups[k] = append(groups[k], trade)
	}

	stats := make([]types.CohortStat, 0, len(order))
	for _, k := range order {
		stats = append(stats, bucketStat(k, groups[k]))
	}

	return stats
}

func bucketStat(key string, trades []ClosedTrade) types.CohortStat {
	stat := types.CohortStat{
		Key:      key,
		Count:    len(trades),
		TotalPnL: 0,
		AvgPnL:   0,
		Wins:     0,
		Losses:   0,
		WinRate:  0,
	}

	for _, trade := range trades {
		stat.TotalPnL += trade.PnL
		if trade.PnL > 0 {
			stat.Wins++
		} else {
			stat.Losses++
		}
	}

	if stat.Count > 0 {
		stat.AvgPnL = stat.TotalPnL / float64(stat.Count)
		stat.WinRate = float64(stat.Wins) / float64(stat.Count) * 100
	}

	return stat
}

// DayKey buckets by the trade's close date.
func DayKey(trade ClosedTrade) string {
	return trade.ClosedAt.Format("2006-01-02")
}

// WeekKey buckets by ISO week of the close date.
func WeekKey(trade ClosedTrade) string {
	year, week := trade.ClosedAt.ISOWeek()

	return fmt.Sprintf("%d-W%02d", year, week)
}

// MonthKey buckets by calendar month of the close date.
func MonthKey(trade ClosedTrade) string {
	return trade.ClosedAt.Format("2006-01")
}

// WeekdayKey buckets by the weekday the trade closed on.
func WeekdayKey(trade ClosedTrade) string {
	return trade.ClosedAt.Weekday().String()
}

// HourKey buckets by the hour of day the trade closed at.
func HourKey(trade ClosedTrade) string {
	return trade.ClosedAt.Format("15:00")
}

// HoldingPeriodKey buckets by how long the position was held, using the
// fixed cut points of the holding-period table.
func HoldingPeriodKey(trade ClosedTrade) string {
	held := trade.HoldingPeriod()

	const day = 24 * time.Hour

	switch {
	case held <= day:
		return holdingPeriodBuckets[0]
	case held <= 7*day:
		return holdingPeriodBuckets[1]
	case held <= 28*day:
		return holdingPeriodBuckets[2]
	case held <= 90*day:
		return holdingPeriodBuckets[3]
	default:
		return holdingPeriodBuckets[4]
	}
}

// SizeKey buckets a closed trade by its original cost using the fixed dollar
// cut points.
func SizeKey(trade ClosedTrade) string {
	return sizeBucket(trade.Cost)
}

func sizeBucket(amount float64) string {
	switch {
	case amount < 1_000:
		return sizeBuckets[0]
	case amount < 5_000:
		return sizeBuckets[1]
	case amount < 10_000:
		return sizeBuckets[2]
	case amount < 25_000:
		return sizeBuckets[3]
	default:
		return sizeBuckets[4]
	}
}

// SectorKey returns a key function classifying trades through the injected
// lookup. Unknown tickers fall into the "Other" bucket.
func SectorKey(lookup SectorLookup) func(ClosedTrade) string {
	return func(trade ClosedTrade) string {
		if lookup == nil {
			return SectorOther
		}

		return lookup.Sector(trade.Ticker).TakeOr(SectorOther)
	}
}

// GroupOpenPositionsBySize buckets open positions by current exposure
// (shares times average entry price — the entry-price proxy, since market
// feeds are out of scope) into the fixed size buckets.
func GroupOpenPositionsBySize(positions []types.Position) []types.CohortStat {
	groups := make(map[string]int)

	exposure := make(map[string]float64)

	for _, position := range positions {
		if position.IsClosed() {
			continue
		}

		k := sizeBucket(position.CurrentExposure())
		groups[k]++
		exposure[k] += position.CurrentExposure()
	}

	stats := make([]types.CohortStat, 0, len(sizeBuckets))

	for _, k := range sizeBuckets {
		stat := types.CohortStat{
			Key:      k,
			Count:    groups[k],
			TotalPnL: 0,
			AvgPnL:   0,
			Wins:     0,
			Losses:   0,
			WinRate:  0,
		}
		// For open positions the P&L columns report exposure instead:
		// there is no realized P&L to aggregate yet.
		stat.TotalPnL = exposure[k]
		if stat.Count > 0 {
			stat.AvgPnL = exposure[k] / float64(stat.Count)
		}

		stats = append(stats, stat)
	}

	return stats
}

// BuildCohorts assembles every cohort table for the computation.
func BuildCohorts(trades []ClosedTrade, positions []types.Position, lookup SectorLookup) types.CohortTables {
	return types.CohortTables{
		ByDay:           GroupTrades(trades, DayKey),
		ByWeek:          GroupTrades(trades, WeekKey),
		ByMonth:         GroupTrades(trades, MonthKey),
		ByHoldingPeriod: GroupTradesOrdered(trades, HoldingPeriodKey, holdingPeriodBuckets),
		BySize:          GroupTradesOrdered(trades, SizeKey, sizeBuckets),
		ByOpenSize:      GroupOpenPositionsBySize(positions),
		BySector:        GroupTrades(trades, SectorKey(lookup)),
		ByWeekday:       GroupTradesOrdered(trades, WeekdayKey, weekdayBuckets),
		ByHour:          GroupTrades(trades, HourKey),
	}
}
