package station

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/chargehub/backend-go/internal/models"
	"github.com/chargehub/backend-go/pkg/http/client"
)

// Source produces the full current station list from the external
// station-administration service.
type Source interface {
	FetchStations(ctx context.Context) ([]models.Station, error)
}

const stationsPath = "/getAllStations"

// RemoteSource fetches stations over HTTP and adapts the loosely typed
// payload into models.Station. Records the adapter cannot make total
// are logged and dropped at this boundary, never propagated half-built.
type RemoteSource struct {
	httpClient *client.Client
}

func NewRemoteSource(httpClient *client.Client) *RemoteSource {
	return &RemoteSource{httpClient: httpClient}
}

// rawStation mirrors the station service's wire shape. Coordinates
// arrive GeoJSON-style as [lon, lat].
type rawStation struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Address        string `json:"address"`
	Type           string `json:"type"`
	ChargingPoints int    `json:"chargingPoints"`
	Location       struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"location"`
}

func (s *RemoteSource) FetchStations(ctx context.Context) ([]models.Station, error) {
	resp, err := s.httpClient.Get(ctx, stationsPath)
	if err != nil {
		return nil, fmt.Errorf("fetching stations: %w", err)
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("fetching stations: unexpected status %d", resp.StatusCode)
	}

	var raw []rawStation
	if err := json.Unmarshal(resp.Body, &raw); err != nil {
		return nil, fmt.Errorf("decoding stations response: %w", err)
	}

	stations := make([]models.Station, 0, len(raw))
	for _, r := range raw {
		st, ok := adaptStation(r)
		if !ok {
			log.Warn().Str("station_id", r.ID).Msg("Skipping malformed station record")
			continue
		}
		stations = append(stations, st)
	}
	return stations, nil
}

// adaptStation converts one raw record into a Station. A record without
// an id or with malformed coordinates is rejected; an unknown charger
// type defaults to slow.
func adaptStation(r rawStation) (models.Station, bool) {
	if r.ID == "" || len(r.Location.Coordinates) != 2 {
		return models.Station{}, false
	}
	loc := models.GeoPoint{
		Latitude:  r.Location.Coordinates[1],
		Longitude: r.Location.Coordinates[0],
	}
	if !loc.Valid() {
		return models.Station{}, false
	}
	return models.Station{
		ID:             r.ID,
		Name:           r.Name,
		Address:        r.Address,
		Kind:           adaptKind(r.Type),
		ChargingPoints: r.ChargingPoints,
		Location:       loc,
	}, true
}

func adaptKind(raw string) models.ChargerKind {
	if raw == "Fast Charging" {
		return models.ChargerFast
	}
	return models.ChargerSlow
}
