package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/tradefolio/analytics/internal/types"
)

type MonthlyTestSuite struct {
	suite.Suite
}

func TestMonthlySuite(t *testing.T) {
	suite.Run(t, new(MonthlyTestSuite))
}

func (suite *MonthlyTestSuite) TestBucketsByMonth() {
	jan := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, time.February, 5, 0, 0, 0, 0, time.UTC)

	resolutions := []Resolution{
		tradeResolution(
			SellFill{Date: jan, PnL: 100},
			SellFill{Date: feb, PnL: -50},
		),
	}

	points := BuildEquityTimeline(resolutions, nil, 1000)
	rows := MonthlyReturns(points, 1000)
	suite.Require().Len(rows, 2)

	suite.Equal("2025-01", rows[0].Month)
	suite.Equal(100.0, rows[0].PnL)
	suite.Equal(1000.0, rows[0].StartEquity)
	suite.Equal(1100.0, rows[0].EndEquity)
	suite.InDelta(10.0, rows[0].ReturnPercent, 0.001)

	suite.Equal("2025-02", rows[1].Month)
	suite.Equal(-50.0, rows[1].PnL)
	suite.Equal(1100.0, rows[1].StartEquity)
	suite.Equal(1050.0, rows[1].EndEquity)
	suite.InDelta(-50.0/1100*100, rows[1].ReturnPercent, 0.001)
}

func (suite *MonthlyTestSuite) TestDepositsMoveEquityButNotPnl() {
	jan := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)

	resolutions := []Resolution{
		tradeResolution(SellFill{Date: jan.AddDate(0, 0, 1), PnL: 50}),
	}
	txs := []types.AccountTransaction{
		{Type: types.TransactionTypeDeposit, Amount: 500, TransactionDate: jan},
	}

	points := BuildEquityTimeline(resolutions, txs, 1000)
	rows := MonthlyReturns(points, 1000)
	suite.Require().Len(rows, 1)

	suite.Equal(50.0, rows[0].PnL)
	suite.Equal(1000.0, rows[0].StartEquity)
	suite.Equal(1550.0, rows[0].EndEquity)
	suite.InDelta(5.0, rows[0].ReturnPercent, 0.001)
}

func (suite *MonthlyTestSuite) TestEmptyTimeline() {
	suite.Nil(MonthlyReturns(nil, 1000))
}

func (suite *MonthlyTestSuite) TestZeroStartEquityYieldsZeroPercent() {
	jan := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)

	resolutions := []Resolution{
		tradeResolution(SellFill{Date: jan, PnL: 50}),
	}

	points := BuildEquityTimeline(resolutions, nil, 0)
	rows := MonthlyReturns(points, 0)
	suite.Require().Len(rows, 1)
	suite.Equal(0.0, rows[0].ReturnPercent)
}

func (suite *MonthlyTestSuite) TestReturnSeries() {
	rows := []types.MonthlyReturn{
		{ReturnPercent: 10},
		{ReturnPercent: -5},
	}

	series := ReturnSeries(rows)
	suite.Equal([]float64{0.10, -0.05}, series)
}

func (suite *MonthlyTestSuite) TestAnnualizedReturnShortSpanIsRawTotal() {
	jan := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	points := []EquityPoint{
		{Time: jan, Kind: EquityPointTrade, Delta: 0, Value: 1000},
		{Time: jun, Kind: EquityPointTrade, Delta: 100, Value: 1100},
	}

	suite.InDelta(10.0, AnnualizedReturnPercent(points, 100, 1000), 0.001)
}

func (suite *MonthlyTestSuite) TestAnnualizedReturnCompoundsOverYears() {
	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(2, 0, 0)

	points := []EquityPoint{
		{Time: start, Kind: EquityPointTrade, Delta: 0, Value: 1000},
		{Time: end, Kind: EquityPointTrade, Delta: 0, Value: 1210},
	}

	// 21% over ~2 years compounds to ~10% per year.
	got := AnnualizedReturnPercent(points, 210, 1000)
	suite.InDelta(10.0, got, 0.1)
}

func (suite *MonthlyTestSuite) TestAnnualizedReturnZeroBalance() {
	suite.Equal(0.0, AnnualizedReturnPercent(nil, 100, 0))
}
