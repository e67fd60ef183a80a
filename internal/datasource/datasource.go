// Package datasource loads position and transaction snapshots for the
// analytics engine. A snapshot is an immutable view of the upstream trading
// system's state, identified by a version string; the engine recomputes
// metrics only when the version changes.
package datasource

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tradefolio/analytics/internal/types"
	"github.com/tradefolio/analytics/pkg/errors"
)

// Snapshot is one immutable dataset: every position with its event history
// plus the account's cash flows.
type Snapshot struct {
	// Version changes whenever the underlying dataset changes.
	Version string
	// AsOf is when the snapshot was taken.
	AsOf time.Time
	// Positions holds every position, open and closed.
	Positions []types.Position
	// Transactions holds the account deposits and withdrawals.
	Transactions []types.AccountTransaction
}

// SnapshotSource provides read access to dataset snapshots.
type SnapshotSource interface {
	// Load returns the current snapshot.
	Load(ctx context.Context) (*Snapshot, error)
	// Version returns the current snapshot version without loading the
	// full dataset. Used by callers to decide whether a cached result is
	// still valid.
	Version(ctx context.Context) (string, error)
	// Close releases any resources held by the source.
	Close() error
}

// MemorySource is an in-process SnapshotSource backed by a snapshot value.
// Replacing the snapshot assigns it a fresh version.
type MemorySource struct {
	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewMemorySource creates an empty in-memory source.
func NewMemorySource() *MemorySource {
	return &MemorySource{}
}

// SetSnapshot replaces the stored snapshot and stamps it with a new version
// and timestamp. The returned version identifies the stored snapshot.
func (s *MemorySource) SetSnapshot(positions []types.Position, transactions []types.AccountTransaction) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = &Snapshot{
		Version:      uuid.New().String(),
		AsOf:         time.Now().UTC(),
		Positions:    positions,
		Transactions: transactions,
	}

	return s.snapshot.Version
}

// Load implements SnapshotSource.
func (s *MemorySource) Load(_ context.Context) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return nil, errors.New(errors.ErrCodeDataNotFound, "no snapshot loaded")
	}

	// Copy the slices so callers cannot mutate the stored snapshot.
	snapshot := &Snapshot{
		Version:      s.snapshot.Version,
		AsOf:         s.snapshot.AsOf,
		Positions:    make([]types.Position, len(s.snapshot.Positions)),
		Transactions: make([]types.AccountTransaction, len(s.snapshot.Transactions)),
	}
	copy(snapshot.Positions, s.snapshot.Positions)
	copy(snapshot.Transactions, s.snapshot.Transactions)

	return snapshot, nil
}

// Version implements SnapshotSource.
func (s *MemorySource) Version(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return "", errors.New(errors.ErrCodeDataNotFound, "no snapshot loaded")
	}

	return s.snapshot.Version, nil
}

// Close implements SnapshotSource.
func (s *MemorySource) Close() error {
	return nil
}
