package models

// ChargerKind categorizes a station's charging hardware.
type ChargerKind string

const (
	ChargerFast ChargerKind = "FAST"
	ChargerSlow ChargerKind = "SLOW"
)

// GeoPoint is an immutable latitude/longitude pair in degrees.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the point lies within the usual coordinate bounds.
func (p GeoPoint) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// Station is a charging station as published by the station service.
// The core never mutates a Station; it is created and updated only by
// the external station-administration collaborator.
type Station struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Address        string      `json:"address"`
	Kind           ChargerKind `json:"kind"`
	ChargingPoints int         `json:"chargingPoints"`
	Location       GeoPoint    `json:"location"`
}

// Usable reports whether the station can be offered to users. Stations
// published with no charging points are kept in the directory but
// excluded from proximity matching.
func (s Station) Usable() bool {
	return s.ChargingPoints >= 1
}

// ProximityResult pairs a station with its distance from the position a
// match was computed against. It is derived data: it must be discarded
// once the directory snapshot or position it came from is superseded.
type ProximityResult struct {
	Station    Station `json:"station"`
	DistanceKm float64 `json:"distanceKm"`
}
