package engine

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-rotation/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-rotation/internal/logger"
	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"go.uber.org/zap"
)

const (
	ordersFileName     = "orders.parquet"
	roundTripsFileName = "round_trips.parquet"
	equityFileName     = "equity.parquet"
)

// BacktestState stores the orders, closed round-trips and equity curve of a run in DuckDB.
type BacktestState struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// EquityPoint is the portfolio value after a time step was settled.
type EquityPoint struct {
	Time          time.Time
	Cash          float64
	PositionValue float64
	Total         float64
}

func NewBacktestState(logger *logger.Logger) (*BacktestState, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to open state database", err)
	}

	return &BacktestState{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}, nil
}

// Initialize creates the state tables if they do not exist.
func (b *BacktestState) Initialize() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS orders (
			order_id TEXT PRIMARY KEY,
			symbol TEXT,
			side TEXT,
			order_type TEXT,
			quantity DOUBLE,
			reason TEXT,
			message TEXT,
			strategy_name TEXT,
			created_at TIMESTAMP,
			status TEXT,
			status_message TEXT,
			fill_time TIMESTAMP,
			fill_price DOUBLE,
			fill_quantity DOUBLE,
			commission DOUBLE
		)`,
		`CREATE TABLE IF NOT EXISTS round_trips (
			symbol TEXT,
			quantity DOUBLE,
			entry_time TIMESTAMP,
			exit_time TIMESTAMP,
			entry_price DOUBLE,
			exit_price DOUBLE,
			entry_commission DOUBLE,
			exit_commission DOUBLE,
			gross_pnl DOUBLE,
			net_pnl DOUBLE
		)`,
		`CREATE TABLE IF NOT EXISTS equity (
			time TIMESTAMP,
			cash DOUBLE,
			position_value DOUBLE,
			total DOUBLE
		)`,
	}

	for _, statement := range statements {
		if _, err := b.db.Exec(statement); err != nil {
			return fmt.Errorf("failed to create state tables: %w", err)
		}
	}

	return nil
}

// RecordOrder stores a newly placed order as PENDING.
func (b *BacktestState) RecordOrder(order types.ExecuteOrder) error {
	_, err := b.sq.
		Insert("orders").
		Columns(
			"order_id", "symbol", "side", "order_type", "quantity", "reason", "message",
			"strategy_name", "created_at", "status", "commission",
		).
		Values(
			order.ID, order.Symbol, string(order.Side), string(order.OrderType), order.Quantity,
			order.Reason.Reason, order.Reason.Message, order.StrategyName, order.CreatedAt,
			string(types.OrderStatusPending), 0.0,
		).
		RunWith(b.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

// UpdateOrder applies a broker update to a recorded order.
func (b *BacktestState) UpdateOrder(update types.OrderUpdate) error {
	query := b.sq.
		Update("orders").
		Set("status", string(update.Status)).
		Set("status_message", update.Message).
		Where(squirrel.Eq{"order_id": update.OrderID})

	if update.Status == types.OrderStatusFilled {
		query = query.
			Set("fill_time", update.Fill.Time).
			Set("fill_price", update.Fill.Price).
			Set("fill_quantity", update.Fill.Quantity).
			Set("commission", update.Fill.Commission)
	}

	result, err := query.RunWith(b.db).Exec()
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return errors.Newf(errors.ErrCodeDataNotFound, "order %s not found", update.OrderID)
	}

	return nil
}

// GetOrderStatus returns the recorded status of an order, or None if it is unknown.
func (b *BacktestState) GetOrderStatus(orderID string) (optional.Option[types.OrderStatus], error) {
	var status string

	err := b.sq.
		Select("status").
		From("orders").
		Where(squirrel.Eq{"order_id": orderID}).
		RunWith(b.db).
		QueryRow().
		Scan(&status)
	if err == sql.ErrNoRows {
		return optional.None[types.OrderStatus](), nil
	}

	if err != nil {
		return optional.None[types.OrderStatus](), fmt.Errorf("failed to get order status: %w", err)
	}

	return optional.Some(types.OrderStatus(status)), nil
}

// RecordRoundTrip stores a closed round-trip.
func (b *BacktestState) RecordRoundTrip(trip types.RoundTrip) error {
	_, err := b.sq.
		Insert("round_trips").
		Columns(
			"symbol", "quantity", "entry_time", "exit_time", "entry_price", "exit_price",
			"entry_commission", "exit_commission", "gross_pnl", "net_pnl",
		).
		Values(
			trip.Symbol, trip.Quantity, trip.EntryTime, trip.ExitTime, trip.EntryPrice, trip.ExitPrice,
			trip.EntryCommission, trip.ExitCommission, trip.GrossPnL, trip.NetPnL,
		).
		RunWith(b.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to insert round trip: %w", err)
	}

	return nil
}

// GetRoundTrips returns all closed round-trips ordered by exit time.
func (b *BacktestState) GetRoundTrips() ([]types.RoundTrip, error) {
	rows, err := b.sq.
		Select(
			"symbol", "quantity", "entry_time", "exit_time", "entry_price", "exit_price",
			"entry_commission", "exit_commission", "gross_pnl", "net_pnl",
		).
		From("round_trips").
		OrderBy("exit_time ASC").
		RunWith(b.db).
		Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query round trips: %w", err)
	}
	defer rows.Close()

	var trips []types.RoundTrip

	for rows.Next() {
		var trip types.RoundTrip
		if err := rows.Scan(
			&trip.Symbol, &trip.Quantity, &trip.EntryTime, &trip.ExitTime, &trip.EntryPrice, &trip.ExitPrice,
			&trip.EntryCommission, &trip.ExitCommission, &trip.GrossPnL, &trip.NetPnL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan round trip: %w", err)
		}

		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// RecordEquity appends a point to the equity curve.
func (b *BacktestState) RecordEquity(point EquityPoint) error {
	_, err := b.sq.
		Insert("equity").
		Columns("time", "cash", "position_value", "total").
		Values(point.Time, point.Cash, point.PositionValue, point.Total).
		RunWith(b.db).
		Exec()
	if err != nil {
		return fmt.Errorf("failed to insert equity point: %w", err)
	}

	return nil
}

// GetEquityCurve returns the recorded portfolio totals in time order.
func (b *BacktestState) GetEquityCurve() ([]float64, error) {
	rows, err := b.sq.Select("total").From("equity").OrderBy("time ASC").RunWith(b.db).Query()
	if err != nil {
		return nil, fmt.Errorf("failed to query equity: %w", err)
	}
	defer rows.Close()

	var curve []float64

	for rows.Next() {
		var total float64
		if err := rows.Scan(&total); err != nil {
			return nil, fmt.Errorf("failed to scan equity: %w", err)
		}

		curve = append(curve, total)
	}

	return curve, rows.Err()
}

func (b *BacktestState) calculateTradeResult() (types.TradeResult, types.TradePnl, error) {
	var (
		result types.TradeResult
		pnl    types.TradePnl
	)

	err := b.sq.
		Select(
			"CAST(COUNT(*) AS BIGINT)",
			"CAST(COALESCE(SUM(CASE WHEN net_pnl > 0 THEN 1 ELSE 0 END), 0) AS BIGINT)",
			"CAST(COALESCE(SUM(CASE WHEN net_pnl < 0 THEN 1 ELSE 0 END), 0) AS BIGINT)",
			"COALESCE(SUM(gross_pnl), 0)",
			"COALESCE(SUM(net_pnl), 0)",
			"COALESCE(MIN(net_pnl), 0)",
			"COALESCE(MAX(net_pnl), 0)",
		).
		From("round_trips").
		RunWith(b.db).
		QueryRow().
		Scan(
			&result.NumberOfTrades,
			&result.NumberOfWinningTrades,
			&result.NumberOfLosingTrades,
			&pnl.GrossPnL,
			&pnl.NetPnL,
			&pnl.MaximumLoss,
			&pnl.MaximumProfit,
		)
	if err != nil {
		return types.TradeResult{}, types.TradePnl{}, fmt.Errorf("failed to calculate trade result: %w", err)
	}

	if result.NumberOfTrades > 0 {
		result.WinRate = float64(result.NumberOfWinningTrades) / float64(result.NumberOfTrades)
	}

	return result, pnl, nil
}

func (b *BacktestState) calculateOrderTotals() (float64, int, error) {
	var (
		fees     float64
		rejected int
	)

	err := b.sq.
		Select(
			"COALESCE(SUM(commission), 0)",
			"CAST(COALESCE(SUM(CASE WHEN status IN ('CANCELLED', 'REJECTED', 'MARGIN') THEN 1 ELSE 0 END), 0) AS BIGINT)",
		).
		From("orders").
		RunWith(b.db).
		QueryRow().
		Scan(&fees, &rejected)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to calculate order totals: %w", err)
	}

	return fees, rejected, nil
}

// GetStats summarizes the run. startingValue is the initial capital.
func (b *BacktestState) GetStats(startingValue float64) (types.TradeStats, error) {
	result, pnl, err := b.calculateTradeResult()
	if err != nil {
		return types.TradeStats{}, err
	}

	fees, rejected, err := b.calculateOrderTotals()
	if err != nil {
		return types.TradeStats{}, err
	}

	curve, err := b.GetEquityCurve()
	if err != nil {
		return types.TradeStats{}, err
	}

	return types.TradeStats{
		Bars:           len(curve),
		TradeResult:    result,
		TradePnl:       pnl,
		Portfolio:      calculatePortfolioResult(startingValue, curve),
		TotalFees:      fees,
		RejectedOrders: rejected,
	}, nil
}

// Write exports every table to a parquet file in dir.
func (b *BacktestState) Write(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// COPY is raw SQL as squirrel does not support it
	for table, name := range map[string]string{
		"orders":      ordersFileName,
		"round_trips": roundTripsFileName,
		"equity":      equityFileName,
	} {
		path := filepath.Join(dir, name)
		if _, err := b.db.Exec(fmt.Sprintf(`COPY %s TO %s (FORMAT PARQUET)`, table, datasource.QuoteLiteral(path))); err != nil {
			return errors.Wrapf(errors.ErrCodeBacktestWriteFailed, err, "failed to export %s", table)
		}
	}

	b.logger.Debug("Exported backtest state", zap.String("dir", dir))

	return nil
}

// Cleanup drops all recorded data.
func (b *BacktestState) Cleanup() error {
	_, err := b.db.Exec(`
		DROP TABLE IF EXISTS orders;
		DROP TABLE IF EXISTS round_trips;
		DROP TABLE IF EXISTS equity;
	`)
	if err != nil {
		return fmt.Errorf("failed to cleanup tables: %w", err)
	}

	return b.Initialize()
}

func (b *BacktestState) Close() error {
	return b.db.Close()
}
