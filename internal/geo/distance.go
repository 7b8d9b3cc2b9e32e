package geo

import (
	"math"

	"github.com/chargehub/backend-go/internal/models"
)

const earthRadiusKm = 6371.0

// Distance returns the great-circle distance between two points in
// kilometers, using the haversine formula.
func Distance(a, b models.GeoPoint) float64 {
	dLat := toRadians(b.Latitude - a.Latitude)
	dLon := toRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(a.Latitude))*math.Cos(toRadians(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
