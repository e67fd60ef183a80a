// Package service coordinates snapshot loading, metric computation and
// result caching on top of the pure analytics engine.
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/tradefolio/analytics/internal/account"
	"github.com/tradefolio/analytics/internal/datasource"
	"github.com/tradefolio/analytics/internal/engine"
	"github.com/tradefolio/analytics/internal/logger"
	"github.com/tradefolio/analytics/internal/types"
	"github.com/tradefolio/analytics/pkg/errors"
)

// cacheKey identifies one computed result: the same dataset version at the
// same time scale always yields the same metrics, so the pair is a safe
// cache key.
type cacheKey struct {
	version string
	scale   types.TimeScale
}

// MetricsService serves derived metrics for the current dataset snapshot.
//
// Two policies govern its behavior:
//   - Results are cached by (snapshot version, time scale); a request for an
//     already-computed pair returns the cached value without recomputing.
//   - Last request wins per time scale: if a newer request for the same
//     scale arrives while an older computation is still running, the older
//     result is discarded when it completes and never published.
type MetricsService struct {
	engine  *engine.Engine
	source  datasource.SnapshotSource
	balance account.BalanceProvider
	logger  *logger.Logger
	clock   func() time.Time

	mu      sync.Mutex
	cache   map[cacheKey]*types.DerivedMetrics
	request map[types.TimeScale]uint64

	// latest holds the most recently published metrics across all scales,
	// swapped atomically so readers never block on a running computation.
	latest atomic.Pointer[types.DerivedMetrics]
}

// Option configures a MetricsService.
type Option func(*MetricsService)

// WithClock overrides the wall clock, pinning "now" for time-window cutoffs.
func WithClock(clock func() time.Time) Option {
	return func(s *MetricsService) {
		s.clock = clock
	}
}

// NewMetricsService wires the engine to its snapshot source and balance
// provider.
func NewMetricsService(
	eng *engine.Engine,
	source datasource.SnapshotSource,
	balance account.BalanceProvider,
	log *logger.Logger,
	opts ...Option,
) *MetricsService {
	if log == nil {
		log = logger.NewNopLogger()
	}

	service := &MetricsService{
		engine:  eng,
		source:  source,
		balance: balance,
		logger:  log,
		clock:   func() time.Time { return time.Now().UTC() },
		cache:   make(map[cacheKey]*types.DerivedMetrics),
		request: make(map[types.TimeScale]uint64),
	}

	for _, opt := range opts {
		opt(service)
	}

	return service
}

// Metrics returns the derived metrics for the current snapshot at the given
// time scale, computing them if no cached result exists. A request that is
// superseded by a newer one for the same scale fails with
// ErrCodeComputationSuperseded and its result is discarded.
func (s *MetricsService) Metrics(ctx context.Context, scale types.TimeScale) (*types.DerivedMetrics, error) {
	version, err := s.source.Version(ctx)
	if err != nil {
		return nil, err
	}

	key := cacheKey{version: version, scale: scale}

	s.mu.Lock()
	if cached, ok := s.cache[key]; ok {
		s.mu.Unlock()

		return cached, nil
	}

	s.request[scale]++
	token := s.request[scale]
	s.mu.Unlock()

	snapshot, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	startingBalance, err := s.balance.StartingBalance(ctx)
	if err != nil {
		return nil, err
	}

	metrics := s.engine.ComputeMetrics(snapshot.Positions, snapshot.Transactions, scale, s.clock(), startingBalance)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.request[scale] != token {
		s.logger.Debug("discarding superseded computation",
			zap.String("version", version),
			zap.String("scale", string(scale)),
		)

		return nil, errors.New(errors.ErrCodeComputationSuperseded, "computation superseded by a newer request")
	}

	s.cache[key] = &metrics
	s.latest.Store(&metrics)

	return &metrics, nil
}

// Latest returns the most recently published metrics, or nil when nothing
// has been computed yet. It never blocks on a running computation.
func (s *MetricsService) Latest() *types.DerivedMetrics {
	return s.latest.Load()
}

// Invalidate drops every cached result. Useful after re-ingesting data into
// a source whose version does not change (e.g. a fixed test source).
func (s *MetricsService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache = make(map[cacheKey]*types.DerivedMetrics)
}
