package engine

import (
	"github.com/tradefolio/analytics/internal/types"
)

// AnalyzeDrawdown walks the equity timeline once, tracking the running peak
// and the worst peak-to-trough decline. The percentage is evaluated at the
// peak that produced the worst drawdown, not the final peak. Drawdown values
// are negative; a timeline with fewer than 2 points yields zeros, never NaN.
func AnalyzeDrawdown(points []EquityPoint) types.DrawdownStats {
	stats := types.DrawdownStats{
		MaxDrawdown:        0,
		MaxDrawdownPercent: 0,
		PeakValue:          0,
		TroughValue:        0,
	}

	if len(points) < 2 {
		return stats
	}

	peak := points[0].Value
	stats.PeakValue = peak
	stats.TroughValue = peak

	for _, point := range points {
		if point.Value > peak {
			peak = point.Value
		}

		drawdown := point.Value - peak
		if drawdown < stats.MaxDrawdown {
			stats.MaxDrawdown = drawdown
			stats.PeakValue = peak
			stats.TroughValue = point.Value

			if peak != 0 {
				stats.MaxDrawdownPercent = drawdown / peak * 100
			}
		}
	}

	return stats
}
