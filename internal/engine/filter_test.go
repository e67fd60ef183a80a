package engine

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/tradefolio/analytics/internal/types"
)

type FilterTestSuite struct {
	suite.Suite
	now time.Time
}

func (suite *FilterTestSuite) SetupTest() {
	suite.now = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)
}

func TestFilterSuite(t *testing.T) {
	suite.Run(t, new(FilterTestSuite))
}

func closedPosition(id string, closedAt time.Time) types.Position {
	return types.Position{
		ID:       id,
		Status:   types.PositionStatusClosed,
		OpenedAt: closedAt.AddDate(0, 0, -10),
		ClosedAt: optional.Some(closedAt),
	}
}

func openPosition(id string, openedAt time.Time) types.Position {
	return types.Position{
		ID:       id,
		Status:   types.PositionStatusOpen,
		OpenedAt: openedAt,
		ClosedAt: optional.None[time.Time](),
	}
}

func (suite *FilterTestSuite) TestYTDExcludesPriorYearClose() {
	positions := []types.Position{
		closedPosition("old", time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)),
		closedPosition("new", time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)),
	}

	filtered := FilterPositions(positions, types.TimeScaleYTD, suite.now)
	suite.Require().Len(filtered, 1)
	suite.Equal("new", filtered[0].ID)
}

func (suite *FilterTestSuite) TestClosedJudgedByCloseDate() {
	// Opened long ago but closed inside the window: included.
	p := closedPosition("p", suite.now.AddDate(0, 0, -5))
	p.OpenedAt = suite.now.AddDate(-2, 0, 0)

	filtered := FilterPositions([]types.Position{p}, types.TimeScale1Month, suite.now)
	suite.Len(filtered, 1)
}

func (suite *FilterTestSuite) TestOpenJudgedByOpenDate() {
	inside := openPosition("inside", suite.now.AddDate(0, 0, -10))
	outside := openPosition("outside", suite.now.AddDate(0, -2, 0))

	filtered := FilterPositions([]types.Position{inside, outside}, types.TimeScale1Month, suite.now)
	suite.Require().Len(filtered, 1)
	suite.Equal("inside", filtered[0].ID)
}

func (suite *FilterTestSuite) TestAllKeepsEverything() {
	positions := []types.Position{
		closedPosition("a", time.Date(1999, time.January, 1, 0, 0, 0, 0, time.UTC)),
		openPosition("b", time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)),
	}

	filtered := FilterPositions(positions, types.TimeScaleAll, suite.now)
	suite.Len(filtered, 2)
}

func (suite *FilterTestSuite) TestOrderPreserved() {
	positions := []types.Position{
		closedPosition("c", suite.now.AddDate(0, 0, -3)),
		closedPosition("a", suite.now.AddDate(0, 0, -2)),
		closedPosition("b", suite.now.AddDate(0, 0, -1)),
	}

	filtered := FilterPositions(positions, types.TimeScale1Month, suite.now)
	suite.Require().Len(filtered, 3)
	suite.Equal("c", filtered[0].ID)
	suite.Equal("a", filtered[1].ID)
	suite.Equal("b", filtered[2].ID)
}

func (suite *FilterTestSuite) TestIdempotent() {
	positions := []types.Position{
		closedPosition("a", suite.now.AddDate(0, 0, -2)),
		closedPosition("b", suite.now.AddDate(0, -5, 0)),
	}

	once := FilterPositions(positions, types.TimeScale3Months, suite.now)
	twice := FilterPositions(once, types.TimeScale3Months, suite.now)
	suite.Equal(once, twice)
}

func (suite *FilterTestSuite) TestFilterTransactions() {
	txs := []types.AccountTransaction{
		{Type: types.TransactionTypeDeposit, Amount: 100, TransactionDate: suite.now.AddDate(0, 0, -5)},
		{Type: types.TransactionTypeDeposit, Amount: 200, TransactionDate: suite.now.AddDate(0, -3, 0)},
	}

	filtered := FilterTransactions(txs, types.TimeScale1Month, suite.now)
	suite.Require().Len(filtered, 1)
	suite.Equal(100.0, filtered[0].Amount)
}

func (suite *FilterTestSuite) TestCutoffIsInclusive() {
	cutoff := types.TimeScale1Month.Cutoff(suite.now)
	p := closedPosition("edge", cutoff)

	filtered := FilterPositions([]types.Position{p}, types.TimeScale1Month, suite.now)
	suite.Len(filtered, 1)
}
