package datasource

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/tradefolio/analytics/internal/logger"
	"github.com/tradefolio/analytics/internal/types"
	"github.com/tradefolio/analytics/pkg/errors"
)

// DuckDBSource is a SnapshotSource backed by a DuckDB database file.
// Use ":memory:" as the path for an ephemeral database.
type DuckDBSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDuckDBSource opens (or creates) the database at path and ensures the
// snapshot tables exist.
func NewDuckDBSource(path string, log *logger.Logger) (*DuckDBSource, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb database", err)
	}

	source := &DuckDBSource{
		db:     db,
		logger: log,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := source.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return source, nil
}

func (s *DuckDBSource) initialize() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS snapshot_meta (
			version TEXT,
			as_of TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS positions (
			id TEXT PRIMARY KEY,
			ticker TEXT,
			status TEXT,
			opened_at TIMESTAMP,
			closed_at TIMESTAMP,
			total_realized_pnl DOUBLE,
			current_shares INTEGER,
			avg_entry_price DOUBLE,
			total_cost DOUBLE,
			strategy TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS position_events (
			position_id TEXT,
			seq INTEGER,
			event_type TEXT,
			event_date TIMESTAMP,
			shares INTEGER,
			price DOUBLE,
			realized_pnl DOUBLE
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			type TEXT,
			amount DOUBLE,
			transaction_date TIMESTAMP,
			description TEXT
		)`,
	}

	for _, statement := range statements {
		if _, err := s.db.Exec(statement); err != nil {
			return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to create snapshot tables", err)
		}
	}

	return nil
}

// SaveSnapshot replaces the stored dataset with the given positions and
// transactions inside a single transaction, stamping it with a fresh version.
// Returns the new version.
func (s *DuckDBSource) SaveSnapshot(ctx context.Context, positions []types.Position, transactions []types.AccountTransaction) (string, error) {
	version := uuid.New().String()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeQueryFailed, "failed to begin transaction", err)
	}

	for _, table := range []string{"snapshot_meta", "positions", "position_events", "transactions"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			tx.Rollback()

			return "", errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to clear table %s", table)
		}
	}

	insertMeta := s.sq.
		Insert("snapshot_meta").
		Columns("version", "as_of").
		Values(version, time.Now().UTC()).
		RunWith(tx)
	if _, err := insertMeta.ExecContext(ctx); err != nil {
		tx.Rollback()

		return "", errors.Wrap(errors.ErrCodeQueryFailed, "failed to write snapshot meta", err)
	}

	for _, position := range positions {
		insertPosition := s.sq.
			Insert("positions").
			Columns(
				"id", "ticker", "status", "opened_at", "closed_at",
				"total_realized_pnl", "current_shares", "avg_entry_price", "total_cost", "strategy",
			).
			Values(
				position.ID, position.Ticker, string(position.Status), position.OpenedAt,
				nullableTime(position.ClosedAt), position.TotalRealizedPnL, position.CurrentShares,
				position.AvgEntryPrice, position.TotalCost, nullableString(position.Strategy),
			).
			RunWith(tx)
		if _, err := insertPosition.ExecContext(ctx); err != nil {
			tx.Rollback()

			return "", errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to insert position %s", position.ID)
		}

		for seq, event := range position.Events {
			insertEvent := s.sq.
				Insert("position_events").
				Columns("position_id", "seq", "event_type", "event_date", "shares", "price", "realized_pnl").
				Values(
					position.ID, seq, string(event.EventType), event.EventDate,
					event.Shares, event.Price, nullableFloat(event.RealizedPnL),
				).
				RunWith(tx)
			if _, err := insertEvent.ExecContext(ctx); err != nil {
				tx.Rollback()

				return "", errors.Wrapf(errors.ErrCodeQueryFailed, err, "failed to insert event for position %s", position.ID)
			}
		}
	}

	for _, transaction := range transactions {
		insertTransaction := s.sq.
			Insert("transactions").
			Columns("type", "amount", "transaction_date", "description").
			Values(
				string(transaction.Type), transaction.Amount, transaction.TransactionDate,
				nullableString(transaction.Description),
			).
			RunWith(tx)
		if _, err := insertTransaction.ExecContext(ctx); err != nil {
			tx.Rollback()

			return "", errors.Wrap(errors.ErrCodeQueryFailed, "failed to insert transaction", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", errors.Wrap(errors.ErrCodeQueryFailed, "failed to commit snapshot", err)
	}

	s.logger.Debug("snapshot saved",
		zap.String("version", version),
		zap.Int("positions", len(positions)),
		zap.Int("transactions", len(transactions)),
	)

	return version, nil
}

// Load implements SnapshotSource.
func (s *DuckDBSource) Load(ctx context.Context) (*Snapshot, error) {
	snapshot := &Snapshot{}

	version, asOf, err := s.readMeta(ctx)
	if err != nil {
		return nil, err
	}

	snapshot.Version = version
	snapshot.AsOf = asOf

	positions, err := s.loadPositions(ctx)
	if err != nil {
		return nil, err
	}

	snapshot.Positions = positions

	transactions, err := s.loadTransactions(ctx)
	if err != nil {
		return nil, err
	}

	snapshot.Transactions = transactions

	return snapshot, nil
}

// Version implements SnapshotSource.
func (s *DuckDBSource) Version(ctx context.Context) (string, error) {
	version, _, err := s.readMeta(ctx)

	return version, err
}

// Close implements SnapshotSource.
func (s *DuckDBSource) Close() error {
	return s.db.Close()
}

func (s *DuckDBSource) readMeta(ctx context.Context) (string, time.Time, error) {
	selectMeta := s.sq.
		Select("version", "as_of").
		From("snapshot_meta").
		Limit(1).
		RunWith(s.db)

	var (
		version string
		asOf    time.Time
	)

	if err := selectMeta.QueryRowContext(ctx).Scan(&version, &asOf); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", time.Time{}, errors.New(errors.ErrCodeDataNotFound, "no snapshot stored")
		}

		return "", time.Time{}, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read snapshot meta", err)
	}

	return version, asOf, nil
}

func (s *DuckDBSource) loadPositions(ctx context.Context) ([]types.Position, error) {
	selectPositions := s.sq.
		Select(
			"id", "ticker", "status", "opened_at", "closed_at",
			"total_realized_pnl", "current_shares", "avg_entry_price", "total_cost", "strategy",
		).
		From("positions").
		OrderBy("opened_at ASC", "id ASC").
		RunWith(s.db)

	rows, err := selectPositions.QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query positions", err)
	}
	defer rows.Close()

	var positions []types.Position

	for rows.Next() {
		var (
			position types.Position
			closedAt sql.NullTime
			strategy sql.NullString
		)

		err := rows.Scan(
			&position.ID, &position.Ticker, &position.Status, &position.OpenedAt, &closedAt,
			&position.TotalRealizedPnL, &position.CurrentShares, &position.AvgEntryPrice,
			&position.TotalCost, &strategy,
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan position", err)
		}

		if closedAt.Valid {
			position.ClosedAt = optional.Some(closedAt.Time)
		}

		if strategy.Valid {
			position.Strategy = optional.Some(strategy.String)
		}

		positions = append(positions, position)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate positions", err)
	}

	if err := s.attachEvents(ctx, positions); err != nil {
		return nil, err
	}

	return positions, nil
}

func (s *DuckDBSource) attachEvents(ctx context.Context, positions []types.Position) error {
	if len(positions) == 0 {
		return nil
	}

	byID := make(map[string]*types.Position, len(positions))
	for i := range positions {
		byID[positions[i].ID] = &positions[i]
	}

	selectEvents := s.sq.
		Select("position_id", "event_type", "event_date", "shares", "price", "realized_pnl").
		From("position_events").
		OrderBy("position_id ASC", "seq ASC").
		RunWith(s.db)

	rows, err := selectEvents.QueryContext(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to query position events", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			positionID  string
			event       types.PositionEvent
			realizedPnL sql.NullFloat64
		)

		err := rows.Scan(&positionID, &event.EventType, &event.EventDate, &event.Shares, &event.Price, &realizedPnL)
		if err != nil {
			return errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan position event", err)
		}

		if realizedPnL.Valid {
			event.RealizedPnL = optional.Some(realizedPnL.Float64)
		}

		position, ok := byID[positionID]
		if !ok {
			return errors.Newf(errors.ErrCodeQueryFailed, "event references unknown position %s", positionID)
		}

		position.Events = append(position.Events, event)
	}

	if err := rows.Err(); err != nil {
		return errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate position events", err)
	}

	return nil
}

func (s *DuckDBSource) loadTransactions(ctx context.Context) ([]types.AccountTransaction, error) {
	selectTransactions := s.sq.
		Select("type", "amount", "transaction_date", "description").
		From("transactions").
		OrderBy("transaction_date ASC").
		RunWith(s.db)

	rows, err := selectTransactions.QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query transactions", err)
	}
	defer rows.Close()

	var transactions []types.AccountTransaction

	for rows.Next() {
		var (
			transaction types.AccountTransaction
			description sql.NullString
		)

		err := rows.Scan(&transaction.Type, &transaction.Amount, &transaction.TransactionDate, &description)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan transaction", err)
		}

		if description.Valid {
			transaction.Description = optional.Some(description.String)
		}

		transactions = append(transactions, transaction)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate transactions", err)
	}

	return transactions, nil
}

func nullableTime(value optional.Option[time.Time]) any {
	if value.IsNone() {
		return nil
	}

	return value.Unwrap()
}

func nullableString(value optional.Option[string]) any {
	if value.IsNone() {
		return nil
	}

	return value.Unwrap()
}

func nullableFloat(value optional.Option[float64]) any {
	if value.IsNone() {
		return nil
	}

	return value.Unwrap()
}
