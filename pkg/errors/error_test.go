package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewf() {
	err := Newf(ErrCodeInvalidConfiguration, "fast period must be positive, got %d", 0)
	suite.Equal(ErrCodeInvalidConfiguration, err.Code)
	suite.Equal("fast period must be positive, got 0", err.Message)
	suite.Nil(err.Cause)
	suite.Equal("[101] fast period must be positive, got 0", err.Error())
}

func (suite *ErrorTestSuite) TestWrapKeepsCause() {
	cause := errors.New("duckdb: no such file")
	err := Wrapf(ErrCodeQueryFailed, cause, "failed to load %s", "VTI")

	suite.Equal(ErrCodeQueryFailed, err.Code)
	suite.Equal(cause, err.Unwrap())
	suite.ErrorIs(err, cause)
	suite.Equal("[202] failed to load VTI: duckdb: no such file", err.Error())
}

func (suite *ErrorTestSuite) TestHasCode() {
	tests := []struct {
		name     string
		err      error
		code     ErrorCode
		expected bool
	}{
		{"typed error", New(ErrCodeOrderNotPending, "unknown order"), ErrCodeOrderNotPending, true},
		{"other code", New(ErrCodeInvalidInstrument, "duplicate instrument"), ErrCodeInvalidConfiguration, false},
		{"outermost code wins", Wrap(ErrCodeStrategyRuntimeError, "bar failed", New(ErrCodeMarketDataMissing, "missing")), ErrCodeStrategyRuntimeError, true},
		{"inner code hidden", Wrap(ErrCodeStrategyRuntimeError, "bar failed", New(ErrCodeMarketDataMissing, "missing")), ErrCodeMarketDataMissing, false},
		{"fmt wrapped", fmt.Errorf("engine: %w", New(ErrCodeInsufficientCash, "short")), ErrCodeInsufficientCash, true},
		{"plain error", errors.New("plain"), ErrCodeUnknown, false},
		{"nil", nil, ErrCodeUnknown, false},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.Equal(tc.expected, HasCode(tc.err, tc.code))
		})
	}
}

func (suite *ErrorTestSuite) TestErrorCodeRanges() {
	suite.Equal(ErrorCode(1), ErrCodeUnknown)
	suite.Equal(ErrorCode(100), ErrCodeInvalidParameter)
	suite.Equal(ErrorCode(200), ErrCodeDataNotFound)
	suite.Equal(ErrorCode(300), ErrCodeInsufficientData)
	suite.Equal(ErrorCode(400), ErrCodeStrategyNotInitialized)
	suite.Equal(ErrorCode(500), ErrCodeOrderFailed)
	suite.Equal(ErrorCode(600), ErrCodeBacktestInitFailed)
}

func (suite *ErrorTestSuite) TestInsufficientDataError() {
	err := NewInsufficientDataErrorf(21, 5, "VTI", "need %d closes, have %d", 21, 5)
	suite.Equal(21, err.Required)
	suite.Equal(5, err.Actual)
	suite.Equal("VTI", err.Symbol)
	suite.Equal("need 21 closes, have 5", err.Error())

	suite.True(IsInsufficientDataError(err))
	suite.True(IsInsufficientDataError(fmt.Errorf("signal: %w", err)))
	suite.False(IsInsufficientDataError(New(ErrCodeInvalidParameter, "invalid")))
	suite.False(IsInsufficientDataError(nil))
}
