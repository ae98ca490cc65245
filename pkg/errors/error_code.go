package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidDateFormat    ErrorCode = 100
	ErrCodeInvalidDateRange     ErrorCode = 101
	ErrCodeInvalidDuration      ErrorCode = 102
	ErrCodeInvalidTimeframe     ErrorCode = 103
	ErrCodeInvalidConfiguration ErrorCode = 104
	ErrCodeInvalidParameter     ErrorCode = 105

	// Data errors (200-299)
	ErrCodeNoDataReturned ErrorCode = 200

	// Conversion errors (300-399)
	ErrCodeUnparseableTimestamp ErrorCode = 300
	ErrCodeUnknownTimezone      ErrorCode = 301

	// Output errors (400-499)
	ErrCodeWriteFailed     ErrorCode = 400
	ErrCodeConflictAborted ErrorCode = 401

	// Provider errors (500-599)
	ErrCodeFetchFailed         ErrorCode = 500
	ErrCodeUnsupportedProvider ErrorCode = 501
	ErrCodeUnsupportedInterval ErrorCode = 502
)
