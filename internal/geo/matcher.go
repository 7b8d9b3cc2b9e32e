package geo

import (
	"errors"

	"github.com/chargehub/backend-go/internal/models"
)

// ErrNoStations is returned when no usable station is available to
// match against. The matcher never invents a default.
var ErrNoStations = errors.New("no stations available")

// FindNearest selects the usable station closest to the given position.
// It is a pure function over the snapshot it is handed: callers must
// pass an explicit position value and a completed directory snapshot,
// never live references. Ties keep the first occurrence in the input,
// so results are deterministic for a given ordering.
func FindNearest(pos models.UserPosition, stations []models.Station) (models.ProximityResult, error) {
	var (
		best  models.ProximityResult
		found bool
	)
	for _, s := range stations {
		if !s.Usable() {
			continue
		}
		d := Distance(pos.Location, s.Location)
		if !found || d < best.DistanceKm {
			best = models.ProximityResult{Station: s, DistanceKm: d}
			found = true
		}
	}
	if !found {
		return models.ProximityResult{}, ErrNoStations
	}
	return best, nil
}
