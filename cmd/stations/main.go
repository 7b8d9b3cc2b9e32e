package main

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/chargehub/backend-go/internal/api"
	"github.com/chargehub/backend-go/internal/charging"
	"github.com/chargehub/backend-go/internal/config"
	"github.com/chargehub/backend-go/internal/geo"
	"github.com/chargehub/backend-go/internal/models"
	"github.com/chargehub/backend-go/internal/station"
	"github.com/chargehub/backend-go/pkg/http/client"
)

var (
	service   *charging.Service
	setupOnce sync.Once
)

func init() {
	setupOnce.Do(func() {
		cfg := config.LoadFromEnv()
		cfg.InitializeLogging()

		log.Info().Str("env", cfg.Environment).Msg("Environment")

		directory, err := newDirectory(context.Background(), cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Creating station directory")
		}

		// This endpoint only reads stations; no booking sink is wired.
		service, err = charging.NewService(directory, nil)
		if err != nil {
			log.Fatal().Err(err).Msg("Creating charging service")
		}
	})
}

// newDirectory builds the station directory, backing it with the S3
// snapshot store when a bucket is configured.
func newDirectory(ctx context.Context, cfg *config.Config) (*station.Directory, error) {
	httpClient := client.New(client.Options{
		BaseURL:    cfg.StationsBaseURL,
		Timeout:    cfg.HTTPTimeout,
		MaxRetries: cfg.MaxRetries,
	})
	source := station.NewRemoteSource(httpClient)

	if cfg.SnapshotBucket == "" {
		return station.NewDirectory(source), nil
	}
	s3Client, err := station.NewS3Client(ctx)
	if err != nil {
		return nil, err
	}
	store := station.NewS3SnapshotStore(s3Client, cfg.SnapshotBucket, config.GetCacheConfig().GetStationSnapshotTTL())
	return station.NewDirectoryWithStore(source, store), nil
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters

	log.Info().Msg("Handling stations request")

	// Detail lookup by id takes precedence over proximity matching.
	if stationID, ok := params["stationId"]; ok {
		st, err := service.StationByID(ctx, stationID)
		if err != nil {
			var unavailable *station.UnavailableError
			if errors.As(err, &unavailable) {
				return api.Error("Station directory unavailable", http.StatusBadGateway)
			}
			return api.Error("Station not found", http.StatusNotFound)
		}
		return api.Success(api.NewStationsResponse([]models.Station{st}))
	}

	lat, lon, err := api.ParseCoordinates(params)
	if err != nil {
		switch err.(type) {
		case api.InvalidCoordinatesError, api.MissingCoordinatesError:
			return api.Error(err.Error(), http.StatusBadRequest)
		default:
			return api.Error("Invalid parameters", http.StatusBadRequest)
		}
	}

	pos := models.UserPosition{
		Location:   models.GeoPoint{Latitude: lat, Longitude: lon},
		ObservedAt: time.Now(),
	}

	result, err := service.NearestStation(ctx, pos)
	if err != nil {
		var unavailable *station.UnavailableError
		switch {
		case errors.As(err, &unavailable):
			return api.Error("Station directory unavailable", http.StatusBadGateway)
		case errors.Is(err, geo.ErrNoStations):
			return api.Error("No stations available", http.StatusServiceUnavailable)
		default:
			return api.Error("Error finding nearest station", http.StatusInternalServerError)
		}
	}

	return api.Success(api.NewNearestResponse(result))
}

func main() {
	lambda.Start(handleRequest)
}
