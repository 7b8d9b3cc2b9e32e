package models

import "time"

// UserPosition is a single location fix. Each new reading supersedes
// the previous one; fixes are never persisted.
type UserPosition struct {
	Location       GeoPoint  `json:"location"`
	AccuracyMeters float64   `json:"accuracyMeters"`
	ObservedAt     time.Time `json:"observedAt"`
}
