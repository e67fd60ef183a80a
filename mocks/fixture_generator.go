// Package mocks generates realistic position and transaction histories for
// testing and benchmarking.
package mocks

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/moznion/go-optional"

	"github.com/tradefolio/analytics/internal/types"
)

// FixtureGenerator generates position and transaction histories.
type FixtureGenerator struct {
	rng *rand.Rand
}

// NewFixtureGenerator creates a new FixtureGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewFixtureGenerator(seed int64) *FixtureGenerator {
	return &FixtureGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how the history is generated.
type GeneratorConfig struct {
	// Tickers is the symbol pool positions are drawn from.
	Tickers []string
	// StartTime is when the first position opens.
	StartTime time.Time
	// PositionCount is the number of positions to generate.
	PositionCount int
	// OpenRatio is the fraction of positions left open (0.0 to 1.0).
	OpenRatio float64
	// MinPrice and MaxPrice bound entry prices.
	MinPrice float64
	MaxPrice float64
	// MaxShares bounds the share count per buy.
	MaxShares int
	// MaxHoldingDays bounds how long a closed position stays open.
	MaxHoldingDays int
	// WinRatio is the fraction of closed positions that exit at a gain.
	WinRatio float64
	// DepositCount is the number of account deposits to scatter through
	// the history. One withdrawal is added for every three deposits.
	DepositCount int
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Tickers:        []string{"AAPL", "MSFT", "NVDA", "AMZN", "XOM", "JPM"},
		StartTime:      time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC),
		PositionCount:  50,
		OpenRatio:      0.2,
		MinPrice:       10,
		MaxPrice:       500,
		MaxShares:      200,
		MaxHoldingDays: 60,
		WinRatio:       0.55,
		DepositCount:   4,
	}
}

// GeneratePositions creates a slice of positions based on the configuration.
// Roughly OpenRatio of them stay open; the rest close with a win/loss split
// controlled by WinRatio.
func (g *FixtureGenerator) GeneratePositions(config GeneratorConfig) []types.Position {
	positions := make([]types.Position, 0, config.PositionCount)
	openedAt := config.StartTime

	for i := 0; i < config.PositionCount; i++ {
		ticker := config.Tickers[g.rng.Intn(len(config.Tickers))]
		shares := 1 + g.rng.Intn(config.MaxShares)
		entryPrice := config.MinPrice + g.rng.Float64()*(config.MaxPrice-config.MinPrice)

		position := types.Position{
			ID:       fmt.Sprintf("pos-%04d", i+1),
			Ticker:   ticker,
			OpenedAt: openedAt,
			Events: []types.PositionEvent{
				{
					EventType: types.EventTypeBuy,
					EventDate: openedAt,
					Shares:    shares,
					Price:     entryPrice,
				},
			},
			TotalCost: float64(shares) * entryPrice,
		}

		if g.rng.Float64() < config.OpenRatio {
			position.Status = types.PositionStatusOpen
			position.CurrentShares = shares
			position.AvgEntryPrice = entryPrice
		} else {
			holdingDays := 1 + g.rng.Intn(config.MaxHoldingDays)
			closedAt := openedAt.AddDate(0, 0, holdingDays)

			// Exit within ±20% of entry, skewed by the win ratio.
			move := g.rng.Float64() * 0.2
			exitPrice := entryPrice * (1 - move)
			if g.rng.Float64() < config.WinRatio {
				exitPrice = entryPrice * (1 + move)
			}

			pnl := float64(shares) * (exitPrice - entryPrice)

			position.Status = types.PositionStatusClosed
			position.ClosedAt = optional.Some(closedAt)
			position.TotalRealizedPnL = pnl
			position.Events = append(position.Events, types.PositionEvent{
				EventType:   types.EventTypeSell,
				EventDate:   closedAt,
				Shares:      shares,
				Price:       exitPrice,
				RealizedPnL: optional.Some(pnl),
			})
		}

		positions = append(positions, position)

		// Stagger openings across the history.
		openedAt = openedAt.AddDate(0, 0, 1+g.rng.Intn(5))
	}

	return positions
}

// GenerateTransactions creates deposits and withdrawals scattered across the
// same span as the generated positions.
func (g *FixtureGenerator) GenerateTransactions(config GeneratorConfig) []types.AccountTransaction {
	transactions := make([]types.AccountTransaction, 0, config.DepositCount+config.DepositCount/3)
	date := config.StartTime

	for i := 0; i < config.DepositCount; i++ {
		amount := float64(1+g.rng.Intn(20)) * 500

		transactions = append(transactions, types.AccountTransaction{
			Type:            types.TransactionTypeDeposit,
			Amount:          amount,
			TransactionDate: date,
		})

		if (i+1)%3 == 0 {
			transactions = append(transactions, types.AccountTransaction{
				Type:            types.TransactionTypeWithdrawal,
				Amount:          amount / 2,
				TransactionDate: date.AddDate(0, 0, 7),
			})
		}

		date = date.AddDate(0, 1, g.rng.Intn(10))
	}

	return transactions
}
