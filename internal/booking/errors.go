package booking

import (
	"errors"
	"fmt"
)

// Validation rule violations. The session recovers from these locally:
// it stays in its current state and reports the first violated rule.
var (
	ErrMissingFields        = errors.New("all booking fields are required")
	ErrDateTooEarly         = errors.New("booking date must be tomorrow or later")
	ErrInvalidVehicleFormat = errors.New("invalid vehicle number format")
	ErrInvalidPaymentFields = errors.New("invalid payment details")
)

// PaymentError names the payment field that failed shape validation.
// It matches ErrInvalidPaymentFields under errors.Is.
type PaymentError struct {
	Field string
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("invalid payment details: %s", e.Field)
}

func (e *PaymentError) Is(target error) bool {
	return target == ErrInvalidPaymentFields
}

// RejectedError carries the external booking service's rejection reason
// verbatim (a taken slot, most commonly). The session survives it: the
// draft and payment details stay intact for correction and resubmission.
type RejectedError struct {
	Reason string
	Err    error
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("booking rejected: %s", e.Reason)
}

func (e *RejectedError) Unwrap() error {
	return e.Err
}

// InvalidTransitionError reports an event applied in a state that does
// not accept it. The session state is unchanged.
type InvalidTransitionError struct {
	State State
	Event string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s in state %s", e.Event, e.State)
}
