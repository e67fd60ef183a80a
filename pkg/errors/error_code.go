package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidTimeScale     ErrorCode = 102
	ErrCodeInvalidEventType     ErrorCode = 103
	ErrCodeInvalidTransaction   ErrorCode = 104
	ErrCodeMissingParameter     ErrorCode = 105

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeSnapshotLoadFailed    ErrorCode = 203

	// Sector lookup errors (300-399)
	ErrCodeSectorTableNotFound ErrorCode = 300
	ErrCodeSectorTableInvalid  ErrorCode = 301

	// Computation errors (400-499)
	ErrCodeComputationSuperseded ErrorCode = 400

	// Balance errors (500-599)
	ErrCodeBalanceUnavailable ErrorCode = 500

	// Report errors (600-699)
	ErrCodeReportWriteFailed ErrorCode = 600
	ErrCodeReportReadFailed  ErrorCode = 601
)
