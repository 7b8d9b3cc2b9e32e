package station

import "fmt"

// UnavailableError reports a failed directory refresh: the remote
// station service could not be reached or returned an unusable payload.
// The previously held snapshot is always retained when this is returned.
type UnavailableError struct {
	Message string
	Err     error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("station directory unavailable: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("station directory unavailable: %s", e.Message)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

// NewUnavailableError creates a directory unavailability error.
func NewUnavailableError(message string, err error) *UnavailableError {
	return &UnavailableError{
		Message: message,
		Err:     err,
	}
}
