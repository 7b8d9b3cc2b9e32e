package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargehub/backend-go/internal/api"
	"github.com/chargehub/backend-go/internal/charging"
	"github.com/chargehub/backend-go/internal/config"
	"github.com/chargehub/backend-go/internal/models"
	"github.com/chargehub/backend-go/internal/station"
	"github.com/chargehub/backend-go/pkg/http/client"
)

const stationsPayload = `[
	{
		"id": "st-near",
		"name": "City Mall",
		"address": "MG Road, Kochi",
		"type": "Fast Charging",
		"chargingPoints": 4,
		"location": {"coordinates": [76.0, 10.01]}
	},
	{
		"id": "st-far",
		"name": "Tech Park",
		"address": "Kazhakkoottam",
		"type": "Slow Charging",
		"chargingPoints": 2,
		"location": {"coordinates": [76.0, 10.5]}
	}
]`

// withTestService points the handler at an httptest-backed directory.
func withTestService(t *testing.T, handlerFn http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handlerFn)
	t.Cleanup(srv.Close)

	httpClient := client.New(client.Options{
		BaseURL:    srv.URL,
		Timeout:    5 * time.Second,
		MaxRetries: 1,
	})
	directory := station.NewDirectory(station.NewRemoteSource(httpClient))

	testService, err := charging.NewService(directory, nil)
	require.NoError(t, err)

	previous := service
	service = testService
	t.Cleanup(func() { service = previous })
}

func serveStations(t *testing.T) {
	t.Helper()
	withTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(stationsPayload))
	})
}

func TestHandleRequestNearest(t *testing.T) {
	serveStations(t)

	resp, err := handleRequest(context.Background(), events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"lat": "10.0", "lon": "76.0"},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body api.NearestResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Equal(t, "nearest", body.ResponseType)
	assert.Equal(t, "st-near", body.Station.ID)
	assert.InDelta(t, 1.1, body.DistanceKm, 0.1)
}

func TestHandleRequestStationDetail(t *testing.T) {
	serveStations(t)

	resp, err := handleRequest(context.Background(), events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"stationId": "st-far"},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body api.StationsResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	require.Len(t, body.Stations, 1)
	assert.Equal(t, "st-far", body.Stations[0].ID)
}

func TestHandleRequestUnknownStation(t *testing.T) {
	serveStations(t)

	resp, err := handleRequest(context.Background(), events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"stationId": "nope"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleRequestInvalidCoordinates(t *testing.T) {
	serveStations(t)

	resp, err := handleRequest(context.Background(), events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"lat": "91", "lon": "76.0"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleRequestMissingCoordinates(t *testing.T) {
	serveStations(t)

	resp, err := handleRequest(context.Background(), events.APIGatewayProxyRequest{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleRequestDirectoryDown(t *testing.T) {
	withTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	resp, err := handleRequest(context.Background(), events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"lat": "10.0", "lon": "76.0"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestNewDirectoryColdStartServesPersistedSnapshot(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(remote.Close)

	now := time.Now().Unix()
	snapshot, err := json.Marshal(map[string]interface{}{
		"stations": []models.Station{
			{
				ID:             "st-persisted",
				Name:           "City Mall",
				Kind:           models.ChargerFast,
				ChargingPoints: 4,
				Location:       models.GeoPoint{Latitude: 10.01, Longitude: 76.0},
			},
		},
		"lastUpdated": now,
		"ttl":         now + 3600,
	})
	require.NoError(t, err)

	s3Srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(snapshot)
	}))
	t.Cleanup(s3Srv.Close)

	t.Setenv("S3_ENDPOINT", s3Srv.URL)
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	cfg := config.New(
		config.WithStationsBaseURL(remote.URL),
		config.WithHTTPTimeout(5*time.Second),
	)
	cfg.MaxRetries = 1
	cfg.SnapshotBucket = "station-snapshots"

	directory, err := newDirectory(context.Background(), cfg)
	require.NoError(t, err)

	snap, err := directory.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Stations, 1)
	assert.Equal(t, "st-persisted", snap.Stations[0].ID)
}

func TestNewDirectoryWithoutBucket(t *testing.T) {
	cfg := config.New(config.WithStationsBaseURL("http://localhost:8080"))

	directory, err := newDirectory(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotNil(t, directory)
}

func TestHandleRequestNoStations(t *testing.T) {
	withTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	resp, err := handleRequest(context.Background(), events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"lat": "10.0", "lon": "76.0"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
