package apperror

// AppError is an error carrying the HTTP status code it should be reported with.
type AppError struct {
	Code    int    // HTTP status code (e.g. 400, 404, 409)
	Message string // User-facing error message
	Err     error  // Underlying error, if any (never exposed to the client)
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError with a status code and user-facing message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates an AppError around an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
