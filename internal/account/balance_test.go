package account

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tradefolio/analytics/pkg/errors"
)

type failingProvider struct{}

func (failingProvider) StartingBalance(_ context.Context) (float64, error) {
	return 0, errors.New(errors.ErrCodeDataSourceUnavailable, "source offline")
}

type BalanceTestSuite struct {
	suite.Suite
}

func TestBalanceSuite(t *testing.T) {
	suite.Run(t, new(BalanceTestSuite))
}

func (suite *BalanceTestSuite) TestStaticProvider() {
	provider := NewStaticProvider(25000)

	balance, err := provider.StartingBalance(context.Background())
	suite.Require().NoError(err)
	suite.Equal(25000.0, balance)
}

func (suite *BalanceTestSuite) TestChainPrefersFirstSuccess() {
	chain := NewChainProvider(
		NewStaticProvider(10000),
		NewStaticProvider(99999),
	)

	balance, err := chain.StartingBalance(context.Background())
	suite.Require().NoError(err)
	suite.Equal(10000.0, balance)
}

func (suite *BalanceTestSuite) TestChainFallsBackOnFailure() {
	chain := NewChainProvider(
		failingProvider{},
		NewStaticProvider(5000),
	)

	balance, err := chain.StartingBalance(context.Background())
	suite.Require().NoError(err)
	suite.Equal(5000.0, balance)
}

func (suite *BalanceTestSuite) TestChainAllFail() {
	chain := NewChainProvider(failingProvider{}, failingProvider{})

	_, err := chain.StartingBalance(context.Background())
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeBalanceUnavailable))
}

func (suite *BalanceTestSuite) TestChainEmpty() {
	chain := NewChainProvider()

	_, err := chain.StartingBalance(context.Background())
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeBalanceUnavailable))
}

func (suite *BalanceTestSuite) TestChainHonorsCancellation() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	chain := NewChainProvider(NewStaticProvider(10000))

	_, err := chain.StartingBalance(ctx)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeBalanceUnavailable))
}
