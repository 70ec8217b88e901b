package errors

// ErrorCode identifies an application error class
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_ALREADY_EXISTS   ErrorCode = 1003
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1004

	// Generation pipeline
	ErrorCode_GEN_VALIDATION       ErrorCode = 2000
	ErrorCode_GEN_CONNECTIVITY     ErrorCode = 2001
	ErrorCode_GEN_SCRIPT_FAILED    ErrorCode = 2002
	ErrorCode_GEN_CORRUPT_ARTIFACT ErrorCode = 2003
	ErrorCode_GEN_ENCODER_FAILED   ErrorCode = 2004
	ErrorCode_GEN_JOB_NOT_FOUND    ErrorCode = 2005
	ErrorCode_GEN_BUSY             ErrorCode = 2006

	// Integrations
	ErrorCode_INTEGRATION_STORAGE_FAILED      ErrorCode = 3000
	ErrorCode_INTEGRATION_CACHE_FAILED        ErrorCode = 3001
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED ErrorCode = 3002

	// Database
	ErrorCode_DB_CONNECTION_FAILED ErrorCode = 4000
	ErrorCode_DB_QUERY_FAILED      ErrorCode = 4001
)

var codeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                         "OK",
	ErrorCode_INTERNAL:                        "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:                "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                       "NOT_FOUND",
	ErrorCode_ALREADY_EXISTS:                  "ALREADY_EXISTS",
	ErrorCode_INVALID_PAYLOAD:                 "INVALID_PAYLOAD",
	ErrorCode_GEN_VALIDATION:                  "GEN_VALIDATION",
	ErrorCode_GEN_CONNECTIVITY:                "GEN_CONNECTIVITY",
	ErrorCode_GEN_SCRIPT_FAILED:               "GEN_SCRIPT_FAILED",
	ErrorCode_GEN_CORRUPT_ARTIFACT:            "GEN_CORRUPT_ARTIFACT",
	ErrorCode_GEN_ENCODER_FAILED:              "GEN_ENCODER_FAILED",
	ErrorCode_GEN_JOB_NOT_FOUND:               "GEN_JOB_NOT_FOUND",
	ErrorCode_GEN_BUSY:                        "GEN_BUSY",
	ErrorCode_INTEGRATION_STORAGE_FAILED:      "INTEGRATION_STORAGE_FAILED",
	ErrorCode_INTEGRATION_CACHE_FAILED:        "INTEGRATION_CACHE_FAILED",
	ErrorCode_INTEGRATION_EXTERNAL_API_FAILED: "INTEGRATION_EXTERNAL_API_FAILED",
	ErrorCode_DB_CONNECTION_FAILED:            "DB_CONNECTION_FAILED",
	ErrorCode_DB_QUERY_FAILED:                 "DB_QUERY_FAILED",
}

// String returns the symbolic name of the error code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// Retryable reports whether a failed generation with this code may succeed if
// the caller resubmits the same request unchanged. Validation errors need
// different input; connectivity and script failures are transient.
func (c ErrorCode) Retryable() bool {
	switch c {
	case ErrorCode_GEN_CONNECTIVITY, ErrorCode_GEN_SCRIPT_FAILED, ErrorCode_GEN_BUSY:
		return true
	}
	return false
}
