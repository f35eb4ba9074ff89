package common

import "errors"

var (
	// ErrNotFound indicates a missing record or batch file.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates a malformed request parameter.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfidenceParse indicates a confidence value whose numeric portion
	// could not be parsed. Rendering falls back to a 0-width bar.
	ErrConfidenceParse = errors.New("confidence parse failed")

	// ErrMissingField indicates a market entry without pick or confidence.
	ErrMissingField = errors.New("missing field")

	// ErrBadBatchName indicates a batch filename whose timestamp token does
	// not match palpites_<YYYYMMDD_HHMMSS>.json.
	ErrBadBatchName = errors.New("bad batch filename")

	// ErrCollectionRunning indicates a collection request arriving while a
	// previous one is still in flight.
	ErrCollectionRunning = errors.New("collection already running")

	// ErrUnauthorized indicates a missing or expired session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoFixtures indicates the source listed no matches for the day.
	ErrNoFixtures = errors.New("no fixtures found")
)

// AppError carries a stable code alongside the message and cause.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates an AppError.
func NewAppError(code string, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
