package engine

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/tradefolio/analytics/internal/types"
)

type FifoTestSuite struct {
	suite.Suite
	base time.Time
}

func (suite *FifoTestSuite) SetupTest() {
	suite.base = time.Date(2025, time.February, 3, 10, 0, 0, 0, time.UTC)
}

func TestFifoSuite(t *testing.T) {
	suite.Run(t, new(FifoTestSuite))
}

func (suite *FifoTestSuite) position(events ...types.PositionEvent) types.Position {
	return types.Position{
		ID:       "pos-1",
		Ticker:   "AAPL",
		Status:   types.PositionStatusClosed,
		OpenedAt: suite.base,
		ClosedAt: optional.Some(suite.base.AddDate(0, 0, len(events))),
		Events:   events,
	}
}

func (suite *FifoTestSuite) event(kind types.EventType, day int, shares int, price float64) types.PositionEvent {
	return types.PositionEvent{
		EventType: kind,
		EventDate: suite.base.AddDate(0, 0, day),
		Shares:    shares,
		Price:     price,
	}
}

func (suite *FifoTestSuite) TestMultiLotSell() {
	// Buying 10 @ $10 then 10 @ $20, selling 15 @ $15:
	// 10x(15-10) + 5x(15-20) = 50 - 25 = 25.
	p := suite.position(
		suite.event(types.EventTypeBuy, 0, 10, 10),
		suite.event(types.EventTypeBuy, 1, 10, 20),
		suite.event(types.EventTypeSell, 2, 15, 15),
	)
	p.TotalRealizedPnL = 25

	resolution := ResolveFIFO(p)
	suite.Equal(25.0, resolution.TotalRealizedPnL)
	suite.Empty(resolution.Warnings)

	suite.Require().Len(resolution.Fills, 1)
	suite.Equal(25.0, resolution.Fills[0].PnL)
	suite.Equal(15, resolution.Fills[0].MatchedShares)
	suite.Equal(0, resolution.Fills[0].UnmatchedShares)
}

func (suite *FifoTestSuite) TestSellEventGetsRealizedPnl() {
	p := suite.position(
		suite.event(types.EventTypeBuy, 0, 10, 10),
		suite.event(types.EventTypeSell, 1, 10, 12),
	)
	p.TotalRealizedPnL = 20

	resolution := ResolveFIFO(p)

	sell := resolution.Position.Events[1]
	suite.Require().Equal(types.EventTypeSell, sell.EventType)

	pnl, err := sell.RealizedPnL.Take()
	suite.NoError(err)
	suite.Equal(20.0, pnl)

	buy := resolution.Position.Events[0]
	suite.True(buy.RealizedPnL.IsNone())
}

func (suite *FifoTestSuite) TestMultipleSellsConsumeLotsInOrder() {
	p := suite.position(
		suite.event(types.EventTypeBuy, 0, 10, 10),
		suite.event(types.EventTypeBuy, 1, 10, 20),
		suite.event(types.EventTypeSell, 2, 10, 15), // consumes first lot: +50
		suite.event(types.EventTypeSell, 3, 10, 25), // consumes second lot: +50
	)
	p.TotalRealizedPnL = 100

	resolution := ResolveFIFO(p)
	suite.Equal(100.0, resolution.TotalRealizedPnL)
	suite.Require().Len(resolution.Fills, 2)
	suite.Equal(50.0, resolution.Fills[0].PnL)
	suite.Equal(50.0, resolution.Fills[1].PnL)
}

func (suite *FifoTestSuite) TestStableFifoOnIdenticalTimestamps() {
	at := suite.base
	p := suite.position(
		types.PositionEvent{EventType: types.EventTypeBuy, EventDate: at, Shares: 5, Price: 10},
		types.PositionEvent{EventType: types.EventTypeBuy, EventDate: at, Shares: 5, Price: 20},
		types.PositionEvent{EventType: types.EventTypeSell, EventDate: at.AddDate(0, 0, 1), Shares: 5, Price: 15},
	)
	p.Status = types.PositionStatusOpen
	p.TotalRealizedPnL = 25

	// The first-inserted lot ($10) must be consumed first even though both
	// lots carry the same timestamp.
	resolution := ResolveFIFO(p)
	suite.Equal(25.0, resolution.TotalRealizedPnL)
}

func (suite *FifoTestSuite) TestOversoldPositionFlaggedNotFatal() {
	p := suite.position(
		suite.event(types.EventTypeBuy, 0, 10, 10),
		suite.event(types.EventTypeSell, 1, 15, 12),
	)
	p.TotalRealizedPnL = 20

	resolution := ResolveFIFO(p)

	// P&L computed over the 10 matchable shares only.
	suite.Equal(20.0, resolution.TotalRealizedPnL)
	suite.Require().Len(resolution.Fills, 1)
	suite.Equal(10, resolution.Fills[0].MatchedShares)
	suite.Equal(5, resolution.Fills[0].UnmatchedShares)

	suite.Require().NotEmpty(resolution.Warnings)
	suite.Contains(resolution.Warnings[0], "exceeds open lots")
}

func (suite *FifoTestSuite) TestStoredPnlDisagreementFlagged() {
	p := suite.position(
		suite.event(types.EventTypeBuy, 0, 10, 10),
		suite.event(types.EventTypeSell, 1, 10, 12),
	)
	p.TotalRealizedPnL = 999 // stored value is wrong

	resolution := ResolveFIFO(p)

	// Derived value wins.
	suite.Equal(20.0, resolution.TotalRealizedPnL)
	suite.Equal(20.0, resolution.Position.TotalRealizedPnL)

	suite.Require().NotEmpty(resolution.Warnings)
	suite.Contains(resolution.Warnings[0], "disagrees")
}

func (suite *FifoTestSuite) TestFractionalPricesExact() {
	p := suite.position(
		suite.event(types.EventTypeBuy, 0, 3, 10.10),
		suite.event(types.EventTypeSell, 1, 3, 10.40),
	)
	p.TotalRealizedPnL = 0.9

	resolution := ResolveFIFO(p)

	// 3 x 0.30 must come out exactly, not 0.8999999.
	suite.Equal(0.9, resolution.TotalRealizedPnL)
	suite.Empty(resolution.Warnings)
}

func (suite *FifoTestSuite) TestResolveAllCollectsWarnings() {
	good := suite.position(
		suite.event(types.EventTypeBuy, 0, 10, 10),
		suite.event(types.EventTypeSell, 1, 10, 12),
	)
	good.TotalRealizedPnL = 20

	bad := suite.position(
		suite.event(types.EventTypeBuy, 0, 5, 10),
		suite.event(types.EventTypeSell, 1, 8, 12),
	)
	bad.ID = "pos-2"
	bad.TotalRealizedPnL = 10

	resolutions, warnings := ResolveAll([]types.Position{good, bad})
	suite.Len(resolutions, 2)
	suite.NotEmpty(warnings)
}

func (suite *FifoTestSuite) TestEmptyPosition() {
	p := suite.position()

	resolution := ResolveFIFO(p)
	suite.Equal(0.0, resolution.TotalRealizedPnL)
	suite.Empty(resolution.Fills)
}
