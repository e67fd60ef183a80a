package mocks

import (
	"testing"

	"github.com/tradefolio/analytics/internal/types"
)

func TestFixtureGenerator_GeneratePositions(t *testing.T) {
	gen := NewFixtureGenerator(42) // Fixed seed for reproducibility
	config := DefaultConfig()
	config.PositionCount = 100

	positions := gen.GeneratePositions(config)

	if len(positions) != 100 {
		t.Fatalf("expected 100 positions, got %d", len(positions))
	}

	seen := make(map[string]bool)
	openCount := 0

	for i, position := range positions {
		if seen[position.ID] {
			t.Errorf("duplicate position ID %s at index %d", position.ID, i)
		}
		seen[position.ID] = true

		if len(position.Events) == 0 || position.Events[0].EventType != types.EventTypeBuy {
			t.Errorf("position %s does not start with a buy event", position.ID)
		}

		switch position.Status {
		case types.PositionStatusOpen:
			openCount++
			if position.ClosedAt.IsSome() {
				t.Errorf("open position %s has a close date", position.ID)
			}
			if position.CurrentShares == 0 {
				t.Errorf("open position %s has no shares", position.ID)
			}
		case types.PositionStatusClosed:
			if position.ClosedAt.IsNone() {
				t.Errorf("closed position %s has no close date", position.ID)
			}
			last := position.Events[len(position.Events)-1]
			if last.EventType != types.EventTypeSell {
				t.Errorf("closed position %s does not end with a sell event", position.ID)
			}
			if !last.EventDate.After(position.OpenedAt) {
				t.Errorf("closed position %s sold before it opened", position.ID)
			}
		default:
			t.Errorf("position %s has unknown status %q", position.ID, position.Status)
		}
	}

	if openCount == 0 || openCount == len(positions) {
		t.Errorf("expected a mix of open and closed positions, got %d open", openCount)
	}
}

func TestFixtureGenerator_Reproducible(t *testing.T) {
	config := DefaultConfig()

	first := NewFixtureGenerator(7).GeneratePositions(config)
	second := NewFixtureGenerator(7).GeneratePositions(config)

	if len(first) != len(second) {
		t.Fatalf("runs differ in length: %d vs %d", len(first), len(second))
	}

	for i := range first {
		if first[i].ID != second[i].ID || first[i].Ticker != second[i].Ticker ||
			first[i].TotalRealizedPnL != second[i].TotalRealizedPnL {
			t.Errorf("runs diverge at index %d", i)
		}
	}
}

func TestFixtureGenerator_GenerateTransactions(t *testing.T) {
	gen := NewFixtureGenerator(42)
	config := DefaultConfig()
	config.DepositCount = 6

	transactions := gen.GenerateTransactions(config)

	deposits := 0
	withdrawals := 0

	for _, tx := range transactions {
		if tx.Amount <= 0 {
			t.Errorf("transaction has non-positive amount %f", tx.Amount)
		}

		switch tx.Type {
		case types.TransactionTypeDeposit:
			deposits++
		case types.TransactionTypeWithdrawal:
			withdrawals++
		default:
			t.Errorf("unknown transaction type %q", tx.Type)
		}
	}

	if deposits != 6 {
		t.Errorf("expected 6 deposits, got %d", deposits)
	}
	if withdrawals != 2 {
		t.Errorf("expected 2 withdrawals, got %d", withdrawals)
	}
}
