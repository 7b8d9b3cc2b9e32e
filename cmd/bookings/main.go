package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/chargehub/backend-go/internal/api"
	"github.com/chargehub/backend-go/internal/booking"
	"github.com/chargehub/backend-go/internal/cache"
	"github.com/chargehub/backend-go/internal/charging"
	"github.com/chargehub/backend-go/internal/config"
	"github.com/chargehub/backend-go/internal/models"
	"github.com/chargehub/backend-go/internal/station"
	"github.com/chargehub/backend-go/pkg/http/client"
)

// bookingHistory lists the confirmed bookings held for a station.
type bookingHistory interface {
	ListByStation(ctx context.Context, stationID string) ([]models.ConfirmedBooking, error)
}

var (
	service   *charging.Service
	history   bookingHistory
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

		dynamoClient, err := cache.NewDynamoClient(context.Background())
		if err != nil {
			log.Fatal().Err(err).Msg("Creating DynamoDB client")
		}
		store := cache.NewDynamoBookingStore(dynamoClient, cfg.BookingTable)
		history = store

		service, err = charging.NewService(directory, store)
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

// bookingRequest is the POST body: the selected station plus the full
// draft and payment forms, submitted in one shot.
type bookingRequest struct {
	StationID     string `json:"stationId"`
	Date          string `json:"date"`
	TimeSlot      string `json:"timeSlot"`
	VehicleNumber string `json:"vehicleNumber"`
	Payment       struct {
		CardHolderName string `json:"cardHolderName"`
		CardNumber     string `json:"cardNumber"`
		Expiry         string `json:"expiry"`
		CVV            string `json:"cvv"`
	} `json:"payment"`
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	log.Info().Msg("Handling booking request")

	if request.HTTPMethod == http.MethodGet {
		return handleHistory(ctx, request)
	}

	var req bookingRequest
	if err := json.Unmarshal([]byte(request.Body), &req); err != nil {
		return api.Error("Invalid request body", http.StatusBadRequest)
	}
	if req.StationID == "" {
		return api.Error("stationId is required", http.StatusBadRequest)
	}

	st, err := service.StationByID(ctx, req.StationID)
	if err != nil {
		var unavailable *station.UnavailableError
		if errors.As(err, &unavailable) {
			return api.Error("Station directory unavailable", http.StatusBadGateway)
		}
		return api.Error("Station not found", http.StatusNotFound)
	}

	session := service.NewBookingSession(st)
	for field, value := range map[string]string{
		"date":          req.Date,
		"timeSlot":      req.TimeSlot,
		"vehicleNumber": req.VehicleNumber,
	} {
		if err := session.UpdateDraft(field, value); err != nil {
			return api.Error(err.Error(), http.StatusBadRequest)
		}
	}
	if err := session.SubmitDraft(); err != nil {
		return api.Error(err.Error(), http.StatusBadRequest)
	}

	for field, value := range map[string]string{
		"cardHolderName": req.Payment.CardHolderName,
		"cardNumber":     req.Payment.CardNumber,
		"expiry":         req.Payment.Expiry,
		"cvv":            req.Payment.CVV,
	} {
		if err := session.UpdatePayment(field, value); err != nil {
			return api.Error(err.Error(), http.StatusBadRequest)
		}
	}

	confirmed, err := session.SubmitPayment(ctx)
	if err != nil {
		var rejected *booking.RejectedError
		switch {
		case errors.Is(err, booking.ErrInvalidPaymentFields):
			return api.Error(err.Error(), http.StatusBadRequest)
		case errors.As(err, &rejected):
			return api.Error(rejected.Reason, http.StatusConflict)
		default:
			return api.Error("Error confirming booking", http.StatusInternalServerError)
		}
	}

	return api.Success(api.NewBookingResponse(confirmed))
}

// handleHistory lists the bookings already held for a station.
func handleHistory(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	stationID := request.QueryStringParameters["stationId"]
	if stationID == "" {
		return api.Error("stationId is required", http.StatusBadRequest)
	}

	bookings, err := history.ListByStation(ctx, stationID)
	if err != nil {
		log.Error().Err(err).Str("station_id", stationID).Msg("Listing bookings failed")
		return api.Error("Error listing bookings", http.StatusInternalServerError)
	}
	return api.Success(api.NewBookingListResponse(bookings))
}

func main() {
	lambda.Start(handleRequest)
}
