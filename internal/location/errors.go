package location

import "fmt"

// UnavailableError reports a failed position lookup: permission denied,
// no signal, or timeout. The caller decides whether to re-request; the
// source never retries on its own.
type UnavailableError struct {
	Message string
	Err     error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("location unavailable: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("location unavailable: %s", e.Message)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

func NewUnavailableError(message string, err error) *UnavailableError {
	return &UnavailableError{
		Message: message,
		Err:     err,
	}
}
