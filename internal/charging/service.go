package charging

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/chargehub/backend-go/internal/booking"
	"github.com/chargehub/backend-go/internal/cache"
	"github.com/chargehub/backend-go/internal/config"
	"github.com/chargehub/backend-go/internal/geo"
	"github.com/chargehub/backend-go/internal/location"
	"github.com/chargehub/backend-go/internal/models"
	"github.com/chargehub/backend-go/internal/station"
)

// Service ties the station directory, the proximity matcher and the
// booking flow together for the presentation layer.
type Service struct {
	directory      *station.Directory
	proximityCache *cache.ProximityCache
	positions      *location.Source
	sink           booking.Sink
}

func NewService(directory *station.Directory, sink booking.Sink) (*Service, error) {
	cacheConfig := config.GetCacheConfig()

	var proximityCache *cache.ProximityCache
	if cacheConfig.EnableProximityCache {
		var err error
		proximityCache, err = cache.NewProximityCache(cacheConfig.ProximityLRUSize, cacheConfig.GetProximityLRUTTL())
		if err != nil {
			return nil, fmt.Errorf("creating proximity cache: %w", err)
		}
	}

	return &Service{
		directory:      directory,
		proximityCache: proximityCache,
		sink:           sink,
	}, nil
}

// UsePositionSource attaches a position source so matches can be
// triggered against the most recent fix.
func (s *Service) UsePositionSource(src *location.Source) {
	s.positions = src
}

// NearestToLastFix matches against the latest cached position. The fix
// is copied out of the source first, so the match is always computed
// against one consistent position even if updates keep arriving.
func (s *Service) NearestToLastFix(ctx context.Context) (models.ProximityResult, error) {
	if s.positions == nil {
		return models.ProximityResult{}, location.NewUnavailableError("no position source attached", nil)
	}
	pos, ok := s.positions.Latest()
	if !ok {
		return models.ProximityResult{}, location.NewUnavailableError("no position fix yet", nil)
	}
	return s.NearestStation(ctx, pos)
}

// RequestNearest performs a one-shot position lookup and matches
// against the result. The caller's context bounds the lookup.
func (s *Service) RequestNearest(ctx context.Context) (models.ProximityResult, error) {
	if s.positions == nil {
		return models.ProximityResult{}, location.NewUnavailableError("no position source attached", nil)
	}
	pos, err := s.positions.RequestPosition(ctx)
	if err != nil {
		return models.ProximityResult{}, err
	}
	return s.NearestStation(ctx, pos)
}

// NearestStation computes the closest usable station to the given
// position against the most recent completed directory snapshot. A cold
// directory is refreshed once; refresh failures and empty directories
// surface as typed errors the caller may retry.
func (s *Service) NearestStation(ctx context.Context, pos models.UserPosition) (models.ProximityResult, error) {
	snap := s.directory.CurrentSnapshot()
	if snap.Empty() {
		var err error
		snap, err = s.directory.Refresh(ctx)
		if err != nil {
			return models.ProximityResult{}, err
		}
	}

	if s.proximityCache != nil {
		if result, ok := s.proximityCache.Get(snap.Version, pos); ok {
			log.Debug().Str("station_id", result.Station.ID).Msg("Proximity cache HIT")
			return result, nil
		}
	}

	result, err := geo.FindNearest(pos, snap.Stations)
	if err != nil {
		return models.ProximityResult{}, err
	}

	if s.proximityCache != nil {
		s.proximityCache.Set(snap.Version, pos, result)
	}

	log.Debug().
		Str("station_id", result.Station.ID).
		Float64("distance_km", result.DistanceKm).
		Uint64("snapshot_version", snap.Version).
		Msg("Nearest station matched")
	return result, nil
}

// StationByID returns a station from the current snapshot, refreshing a
// cold directory once.
func (s *Service) StationByID(ctx context.Context, id string) (models.Station, error) {
	if s.directory.CurrentSnapshot().Empty() {
		if _, err := s.directory.Refresh(ctx); err != nil {
			return models.Station{}, err
		}
	}
	st, ok := s.directory.FindByID(id)
	if !ok {
		return models.Station{}, fmt.Errorf("station not found: %s", id)
	}
	return st, nil
}

// RefreshStations forces a directory refresh.
func (s *Service) RefreshStations(ctx context.Context) (station.Snapshot, error) {
	return s.directory.Refresh(ctx)
}

// NewBookingSession starts a booking session for the selected station,
// wired to the configured booking sink.
func (s *Service) NewBookingSession(st models.Station) *booking.Session {
	return booking.NewSession(st, s.sink)
}
