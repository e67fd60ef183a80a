package engine

// Streaks describes consecutive win/loss runs over chronologically sorted
// closed trades.
type Streaks struct {
	// Current is the running streak: positive for a win streak, negative
	// for a loss streak, 0 with no trades.
	Current int
	// MaxConsecutiveWins is the longest win run observed.
	MaxConsecutiveWins int
	// MaxConsecutiveLosses is the longest loss run observed.
	MaxConsecutiveLosses int
	// AvgWinStreak is the average length of completed and current win runs.
	AvgWinStreak float64
	// AvgLossStreak is the average length of completed and current loss runs.
	AvgLossStreak float64
}

// AnalyzeStreaks walks trades in close-date order, classifying each as a win
// (pnl > 0) or a loss. A zero-P&L trade counts as a loss break, not a win.
// The input must already be sorted by close date ascending, as ClosedTrades
// returns it.
func AnalyzeStreaks(trades []ClosedTrade) Streaks {
	streaks := Streaks{
		Current:              0,
		MaxConsecutiveWins:   0,
		MaxConsecutiveLosses: 0,
		AvgWinStreak:         0,
		AvgLossStreak:        0,
	}

	if len(trades) == 0 {
		return streaks
	}

	var winStreaks, lossStreaks []int

	run := 0
	winning := false

	flush := func() {
		if run == 0 {
			return
		}

		if winning {
			winStreaks = append(winStreaks, run)
		} else {
			lossStreaks = append(lossStreaks, run)
		}
	}

	for _, trade := range trades {
		isWin := trade.PnL > 0

		if run > 0 && isWin != winning {
			flush()

			run = 0
		}

		winning = isWin
		run++
	}

	flush()

	for _, n := range winStreaks {
		if n > streaks.MaxConsecutiveWins {
			streaks.MaxConsecutiveWins = n
		}
	}

	for _, n := range lossStreaks {
		if n > streaks.MaxConsecutiveLosses {
			streaks.MaxConsecutiveLosses = n
		}
	}

	if winning {
		streaks.Current = run
	} else {
		streaks.Current = -run
	}

	streaks.AvgWinStreak = avgLength(winStreaks)
	streaks.AvgLossStreak = avgLength(lossStreaks)

	return streaks
}

func avgLength(streaks []int) float64 {
	if len(streaks) == 0 {
		return 0
	}

	total := 0
	for _, n := range streaks {
		total += n
	}

	return float64(total) / float64(len(streaks))
}
