package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidExecuteOrder  ErrorCode = 102
	ErrCodeInvalidPeriod        ErrorCode = 103
	ErrCodeInvalidInstrument    ErrorCode = 104

	// Data errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeUnsupportedDataFormat ErrorCode = 203
	ErrCodeMarketDataMissing     ErrorCode = 204

	// Signal errors (300-399)
	ErrCodeInsufficientData  ErrorCode = 300
	ErrCodeSignalCalculation ErrorCode = 301

	// Strategy errors (400-499)
	ErrCodeStrategyNotInitialized ErrorCode = 400
	ErrCodeStrategyRuntimeError   ErrorCode = 401
	ErrCodeOrderNotPending        ErrorCode = 402
	ErrCodeUnknownInstrument      ErrorCode = 403

	// Trading errors (500-599)
	ErrCodeOrderFailed         ErrorCode = 500
	ErrCodeInsufficientCash    ErrorCode = 501
	ErrCodePositionNotFound    ErrorCode = 502
	ErrCodePositionAlreadyOpen ErrorCode = 503

	// Backtest errors (600-699)
	ErrCodeBacktestInitFailed   ErrorCode = 600
	ErrCodeBacktestConfigError  ErrorCode = 601
	ErrCodeBacktestNoStrategies ErrorCode = 602
	ErrCodeBacktestNoDataPaths  ErrorCode = 603
	ErrCodeBacktestNoResultsDir ErrorCode = 604
	ErrCodeBacktestNoDatasource ErrorCode = 605
	ErrCodeBacktestWriteFailed  ErrorCode = 606
)
