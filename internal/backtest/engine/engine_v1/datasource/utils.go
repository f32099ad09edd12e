package datasource

import (
	"path/filepath"
	"strings"

	"github.com/rxtech-lab/argo-rotation/pkg/errors"
)

// SymbolFromPath derives the instrument symbol from a data file name:
// "VTI_data.csv" and "VTI.parquet" both yield "VTI".
func SymbolFromPath(path string) (string, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	symbol, _, _ := strings.Cut(name, "_")
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if symbol == "" {
		return "", errors.Newf(errors.ErrCodeInvalidInstrument, "cannot derive symbol from %s", path)
	}

	return symbol, nil
}

// readFunction returns the DuckDB table function able to read path.
func readFunction(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "read_csv_auto", nil
	case ".parquet":
		return "read_parquet", nil
	default:
		return "", errors.Newf(errors.ErrCodeUnsupportedDataFormat, "unsupported data file %s", path)
	}
}

// QuoteLiteral renders value as a single-quoted SQL string literal.
func QuoteLiteral(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}
