package datasource

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-rotation/internal/types"
)

type DataSource interface {
	// Initialize loads one feed per symbol. feeds maps a symbol to a csv or parquet file.
	Initialize(feeds map[string]string) error
	// ReadAligned yields the bars of every symbol for each time step at which all symbols
	// have a bar, ordered by time. Within a step bars are ordered by symbol.
	ReadAligned(start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func([]types.MarketData, error) bool)
	// Count returns the number of aligned time steps
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// Close closes the data source and releases any resources
	Close() error
}
