package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/chargehub/backend-go/internal/models"
)

// State is the explicit tag for a session's position in the booking
// flow. Confirmed and Abandoned are terminal.
type State string

const (
	StateDraft          State = "DRAFT"
	StatePaymentPending State = "PAYMENT_PENDING"
	StateConfirmed      State = "CONFIRMED"
	StateAbandoned      State = "ABANDONED"
)

// Session drives one reservation attempt from draft to confirmation or
// abandonment. A session is owned by a single reservation flow and is
// not shared across callers; a mutex still serializes transitions so an
// event can never observe a half-applied state.
type Session struct {
	mu        sync.Mutex
	state     State
	draft     models.BookingDraft
	payment   models.PaymentDetails
	confirmed *models.ConfirmedBooking
	sink      Sink
	now       func() time.Time
}

// NewSession starts a session in the draft state, seeded with the
// selected station (a manual pick or a proximity-match result).
func NewSession(station models.Station, sink Sink) *Session {
	return &Session{
		state: StateDraft,
		draft: models.BookingDraft{Station: station},
		sink:  sink,
		now:   time.Now,
	}
}

// State returns the current state tag.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Draft returns a copy of the current draft.
func (s *Session) Draft() models.BookingDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// UpdateDraft mutates one draft field. Allowed only in the draft state;
// field names follow the wire form: date, timeSlot, vehicleNumber.
func (s *Session) UpdateDraft(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateDraft {
		return &InvalidTransitionError{State: s.state, Event: "update draft"}
	}
	switch field {
	case "date":
		s.draft.Date = value
	case "timeSlot":
		s.draft.TimeSlot = value
	case "vehicleNumber":
		s.draft.VehicleNumber = value
	default:
		return fmt.Errorf("unknown draft field: %s", field)
	}
	return nil
}

// SubmitDraft validates the draft. On success the session moves to
// payment; on a rule violation it stays in draft and reports the first
// violated rule.
func (s *Session) SubmitDraft() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateDraft {
		return &InvalidTransitionError{State: s.state, Event: "submit draft"}
	}
	if err := validateDraft(s.draft, s.now()); err != nil {
		return err
	}
	s.state = StatePaymentPending
	log.Debug().Str("station_id", s.draft.Station.ID).Str("slot", s.draft.TimeSlot).Msg("Booking draft accepted")
	return nil
}

// UpdatePayment mutates one payment field. Allowed only while payment
// is pending; field names: cardHolderName, cardNumber, expiry, cvv.
func (s *Session) UpdatePayment(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePaymentPending {
		return &InvalidTransitionError{State: s.state, Event: "update payment"}
	}
	switch field {
	case "cardHolderName":
		s.payment.CardHolderName = value
	case "cardNumber":
		s.payment.CardNumber = value
	case "expiry":
		s.payment.Expiry = value
	case "cvv":
		s.payment.CVV = value
	default:
		return fmt.Errorf("unknown payment field: %s", field)
	}
	return nil
}

// SubmitPayment validates the payment form, builds the confirmed
// booking and hands it to the sink. A sink rejection (a taken slot, for
// example) surfaces as *RejectedError and the session stays in
// PaymentPending with the draft intact, so the caller can correct and
// resubmit. Only a sink success reaches the terminal Confirmed state.
func (s *Session) SubmitPayment(ctx context.Context) (models.ConfirmedBooking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePaymentPending {
		return models.ConfirmedBooking{}, &InvalidTransitionError{State: s.state, Event: "submit payment"}
	}
	if err := validatePayment(s.payment); err != nil {
		return models.ConfirmedBooking{}, err
	}

	confirmed := models.ConfirmedBooking{
		Station:       s.draft.Station,
		Date:          s.draft.Date,
		TimeSlot:      s.draft.TimeSlot,
		VehicleNumber: s.draft.VehicleNumber,
	}
	if s.sink != nil {
		if err := s.sink.Persist(ctx, confirmed); err != nil {
			log.Warn().Err(err).Str("station_id", confirmed.Station.ID).Msg("Booking rejected by booking service")
			return models.ConfirmedBooking{}, &RejectedError{Reason: err.Error(), Err: err}
		}
	}

	s.state = StateConfirmed
	s.confirmed = &confirmed
	// Payment details are transient; drop them as soon as they are done.
	s.payment = models.PaymentDetails{}
	log.Info().
		Str("station_id", confirmed.Station.ID).
		Str("date", confirmed.Date).
		Str("slot", confirmed.TimeSlot).
		Msg("Booking confirmed")
	return confirmed, nil
}

// Cancel abandons the session from either non-terminal state.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateDraft && s.state != StatePaymentPending {
		return &InvalidTransitionError{State: s.state, Event: "cancel"}
	}
	s.state = StateAbandoned
	s.payment = models.PaymentDetails{}
	return nil
}

// Confirmed exposes the booking produced by a confirmed session.
func (s *Session) Confirmed() (models.ConfirmedBooking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.confirmed == nil {
		return models.ConfirmedBooking{}, false
	}
	return *s.confirmed, true
}
