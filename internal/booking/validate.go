package booking

import (
	"regexp"
	"time"

	"github.com/chargehub/backend-go/internal/models"
)

const dateLayout = "2006-01-02"

// Registration plates: two uppercase letters, two digits, two uppercase
// letters, four digits, e.g. KL07AA1234.
var vehicleNumberPattern = regexp.MustCompile(`^[A-Z]{2}\d{2}[A-Z]{2}\d{4}$`)

// expiry is the MM/YY card shape, at most 5 characters.
var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)

// validateDraft applies the draft rules in order, stopping at the first
// violation. A time-slot label outside the fixed table counts as not
// selected. now anchors the "earliest selectable date is tomorrow" rule.
func validateDraft(d models.BookingDraft, now time.Time) error {
	if d.Date == "" || d.TimeSlot == "" || d.VehicleNumber == "" || !models.ValidTimeSlot(d.TimeSlot) {
		return ErrMissingFields
	}

	date, err := time.Parse(dateLayout, d.Date)
	if err != nil {
		return ErrDateTooEarly
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !date.After(today) {
		return ErrDateTooEarly
	}

	if !vehicleNumberPattern.MatchString(d.VehicleNumber) {
		return ErrInvalidVehicleFormat
	}
	return nil
}

// validatePayment checks well-formedness only; no real payment
// processing happens in this core.
func validatePayment(p models.PaymentDetails) error {
	switch {
	case p.CardHolderName == "":
		return &PaymentError{Field: "cardHolderName"}
	case p.CardNumber == "" || len(p.CardNumber) > 16:
		return &PaymentError{Field: "cardNumber"}
	case !expiryPattern.MatchString(p.Expiry):
		return &PaymentError{Field: "expiry"}
	case p.CVV == "" || len(p.CVV) > 3:
		return &PaymentError{Field: "cvv"}
	}
	return nil
}
