package datasource

import (
	"database/sql"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-rotation/internal/logger"
	"github.com/rxtech-lab/argo-rotation/internal/types"
	"github.com/rxtech-lab/argo-rotation/pkg/errors"
	"go.uber.org/zap"
)

type DuckDBDataSource struct {
	db     *sql.DB
	logger *logger.Logger
	sq     squirrel.StatementBuilderType
}

// NewDataSource opens a DuckDB database at path (":memory:" for an in-memory database).
// Initialize loads the market data into it.
func NewDataSource(path string, logger *logger.Logger) (DataSource, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	if _, err := db.Exec(`SET threads=4;`); err != nil {
		db.Close()

		return nil, fmt.Errorf("failed to configure duckdb: %w", err)
	}

	return &DuckDBDataSource{
		db:     db,
		logger: logger,
		sq:     squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize implements DataSource.
func (d *DuckDBDataSource) Initialize(feeds map[string]string) error {
	if len(feeds) == 0 {
		return errors.New(errors.ErrCodeDataNotFound, "no data feeds given")
	}

	symbols := make([]string, 0, len(feeds))
	for symbol := range feeds {
		symbols = append(symbols, symbol)
	}

	sort.Strings(symbols)

	selects := make([]string, 0, len(symbols))

	for _, symbol := range symbols {
		path := feeds[symbol]

		reader, err := readFunction(path)
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); err != nil {
			return errors.Wrapf(errors.ErrCodeDataNotFound, err, "data file for %s not found", symbol)
		}

		d.logger.Debug("Loading market data", zap.String("symbol", symbol), zap.String("path", path))

		selects = append(selects, fmt.Sprintf(
			`SELECT CAST(time AS TIMESTAMP) AS time, %s AS symbol,
				CAST(open AS DOUBLE) AS open, CAST(high AS DOUBLE) AS high, CAST(low AS DOUBLE) AS low,
				CAST(close AS DOUBLE) AS close, CAST(volume AS DOUBLE) AS volume
			FROM %s(%s)`,
			QuoteLiteral(symbol), reader, QuoteLiteral(path),
		))
	}

	// views are raw SQL as squirrel has no CREATE VIEW
	statements := []string{
		`DROP VIEW IF EXISTS aligned_data;`,
		`DROP VIEW IF EXISTS market_data;`,
		fmt.Sprintf(`CREATE VIEW market_data AS %s;`, strings.Join(selects, " UNION ALL ")),
		fmt.Sprintf(`
			CREATE VIEW aligned_data AS
			SELECT * FROM market_data
			WHERE time IN (
				SELECT time FROM market_data GROUP BY time HAVING COUNT(DISTINCT symbol) = %d
			);`, len(symbols)),
	}

	for _, statement := range statements {
		if _, err := d.db.Exec(statement); err != nil {
			return errors.Wrap(errors.ErrCodeQueryFailed, "failed to create market data views", err)
		}
	}

	return nil
}

func (d *DuckDBDataSource) withRange(query squirrel.SelectBuilder, start, end optional.Option[time.Time]) squirrel.SelectBuilder {
	if start.IsSome() {
		query = query.Where(squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		query = query.Where(squirrel.LtOrEq{"time": end.Unwrap()})
	}

	return query
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	query, args, err := d.withRange(d.sq.Select("COUNT(DISTINCT time)").From("aligned_data"), start, end).ToSql()
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build count query", err)
	}

	var count int
	if err := d.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count market data", err)
	}

	return count, nil
}

// ReadAligned implements DataSource.
func (d *DuckDBDataSource) ReadAligned(start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func([]types.MarketData, error) bool) {
	return func(yield func([]types.MarketData, error) bool) {
		query, args, err := d.withRange(
			d.sq.Select("time", "symbol", "open", "high", "low", "close", "volume").From("aligned_data"),
			start, end,
		).OrderBy("time ASC", "symbol ASC").ToSql()
		if err != nil {
			yield(nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to build read query", err))

			return
		}

		rows, err := d.db.Query(query, args...)
		if err != nil {
			yield(nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to read market data", err))

			return
		}
		defer rows.Close()

		var step []types.MarketData

		for rows.Next() {
			var bar types.MarketData
			if err := rows.Scan(&bar.Time, &bar.Symbol, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
				yield(nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to scan market data", err))

				return
			}

			bar.Id = fmt.Sprintf("%s_%d", bar.Symbol, bar.Time.Unix())

			if len(step) > 0 && !step[0].Time.Equal(bar.Time) {
				if !yield(step, nil) {
					return
				}

				step = nil
			}

			step = append(step, bar)
		}

		if err := rows.Err(); err != nil {
			yield(nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to iterate market data", err))

			return
		}

		if len(step) > 0 {
			yield(step, nil)
		}
	}
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	return d.db.Close()
}
