package models

// AppError is a structured application error with HTTP status code.
type AppError struct {
	Code    string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Status  int    `json:"-"`

	cause error
}

func (e *AppError) Error() string { return e.Message }

// Unwrap returns the underlying cause, if one was attached.
func (e *AppError) Unwrap() error { return e.cause }

// WithCause attaches an underlying error (e.g. the raw bus error) to an
// AppError without changing the client-visible message.
func (e *AppError) WithCause(err error) *AppError {
	c := *e
	c.cause = err
	return &c
}

// Error constructors.
var (
	ErrNotFound = func(msg string) *AppError {
		return &AppError{Code: "NOT_FOUND", Message: msg, Status: 404}
	}
	ErrBadRequest = func(msg string) *AppError {
		return &AppError{Code: "BAD_REQUEST", Message: msg, Status: 400}
	}
	// ErrInvalidParameter rejects out-of-range page/register/value arguments
	// before any bus traffic happens.
	ErrInvalidParameter = func(msg string) *AppError {
		return &AppError{Code: "INVALID_PARAMETER", Message: msg, Status: 400}
	}
	// ErrTransport wraps a failed bus read or write. The bus error is
	// propagated verbatim in the message; no retry is attempted.
	ErrTransport = func(msg string) *AppError {
		return &AppError{Code: "TRANSPORT", Message: msg, Status: 502}
	}
	ErrInternal = func(msg string) *AppError {
		return &AppError{Code: "INTERNAL", Message: msg, Status: 500}
	}
)
