package models

import "fmt"

// BookingDraft is the mutable reservation request collected while a
// booking session is in its draft state. Date uses the "2006-01-02"
// layout; TimeSlot is one of the labels in TimeSlots.
type BookingDraft struct {
	Station       Station `json:"station"`
	Date          string  `json:"date"`
	TimeSlot      string  `json:"timeSlot"`
	VehicleNumber string  `json:"vehicleNumber"`
}

// PaymentDetails holds card fields for the payment step. They are
// validated for shape only and never persisted beyond the session.
type PaymentDetails struct {
	CardHolderName string
	CardNumber     string
	Expiry         string
	CVV            string
}

// ConfirmedBooking is the immutable artifact of a completed booking
// session. The core hands it to the external booking service for
// persistence and keeps it only for display.
type ConfirmedBooking struct {
	Station       Station `json:"station"`
	Date          string  `json:"date"`
	TimeSlot      string  `json:"timeSlot"`
	VehicleNumber string  `json:"vehicleNumber"`
}

// TimeSlots is the fixed table of one-hour reservation windows, one per
// hour of the day.
var TimeSlots = buildTimeSlots()

func buildTimeSlots() []string {
	slots := make([]string, 24)
	for h := 0; h < 24; h++ {
		slots[h] = fmt.Sprintf("%02d:00 - %02d:00", h, (h+1)%24)
	}
	return slots
}

// ValidTimeSlot reports whether label is one of the 24 fixed slots.
func ValidTimeSlot(label string) bool {
	for _, s := range TimeSlots {
		if s == label {
			return true
		}
	}
	return false
}
