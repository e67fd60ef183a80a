// Package account resolves the starting balance used to anchor the equity
// timeline.
package account

import (
	"context"

	"github.com/tradefolio/analytics/pkg/errors"
)

// BalanceProvider yields the account's starting balance. Implementations may
// hit a remote source, a local cache, or a fixed configuration value.
type BalanceProvider interface {
	StartingBalance(ctx context.Context) (float64, error)
}

// StaticProvider always returns a fixed balance.
type StaticProvider struct {
	balance float64
}

// NewStaticProvider creates a provider pinned to the given balance.
func NewStaticProvider(balance float64) *StaticProvider {
	return &StaticProvider{balance: balance}
}

// StartingBalance implements BalanceProvider.
func (p *StaticProvider) StartingBalance(_ context.Context) (float64, error) {
	return p.balance, nil
}

// ChainProvider tries each provider in order and returns the first balance
// that resolves without error. Earlier providers are the more authoritative
// sources; later providers act as fallbacks.
type ChainProvider struct {
	providers []BalanceProvider
}

// NewChainProvider creates a provider chain. Order matters: the first
// provider that succeeds wins.
func NewChainProvider(providers ...BalanceProvider) *ChainProvider {
	return &ChainProvider{providers: providers}
}

// StartingBalance implements BalanceProvider.
func (p *ChainProvider) StartingBalance(ctx context.Context) (float64, error) {
	var lastErr error

	for _, provider := range p.providers {
		if err := ctx.Err(); err != nil {
			return 0, errors.Wrap(errors.ErrCodeBalanceUnavailable, "balance lookup cancelled", err)
		}

		balance, err := provider.StartingBalance(ctx)
		if err == nil {
			return balance, nil
		}

		lastErr = err
	}

	if lastErr != nil {
		return 0, errors.Wrap(errors.ErrCodeBalanceUnavailable, "no balance provider succeeded", lastErr)
	}

	return 0, errors.New(errors.ErrCodeBalanceUnavailable, "no balance providers configured")
}
