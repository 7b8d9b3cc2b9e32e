package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/aws/aws-lambda-go/events"

	"github.com/chargehub/backend-go/internal/models"
)

type APIResponse struct {
	ResponseType string `json:"responseType"`
}

type StationsResponse struct {
	APIResponse
	Stations []models.Station `json:"stations"`
}

type NearestResponse struct {
	APIResponse
	Station    models.Station `json:"station"`
	DistanceKm float64        `json:"distanceKm"`
}

type BookingResponse struct {
	APIResponse
	Booking models.ConfirmedBooking `json:"booking"`
}

type BookingListResponse struct {
	APIResponse
	Bookings []models.ConfirmedBooking `json:"bookings"`
}

type ErrorResponse struct {
	APIResponse
	Error string `json:"error"`
}

func NewStationsResponse(stations []models.Station) *StationsResponse {
	return &StationsResponse{
		APIResponse: APIResponse{ResponseType: "stations"},
		Stations:    stations,
	}
}

func NewNearestResponse(result models.ProximityResult) *NearestResponse {
	return &NearestResponse{
		APIResponse: APIResponse{ResponseType: "nearest"},
		Station:     result.Station,
		DistanceKm:  result.DistanceKm,
	}
}

func NewBookingResponse(b models.ConfirmedBooking) *BookingResponse {
	return &BookingResponse{
		APIResponse: APIResponse{ResponseType: "booking"},
		Booking:     b,
	}
}

func NewBookingListResponse(bookings []models.ConfirmedBooking) *BookingListResponse {
	return &BookingListResponse{
		APIResponse: APIResponse{ResponseType: "bookings"},
		Bookings:    bookings,
	}
}

func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{
		APIResponse: APIResponse{ResponseType: "error"},
		Error:       message,
	}
}

// Response helpers
func Success(body interface{}) (events.APIGatewayProxyResponse, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return Error("Internal Server Error", http.StatusInternalServerError)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(jsonBody),
	}, nil
}

func Error(message string, statusCode int) (events.APIGatewayProxyResponse, error) {
	body, _ := json.Marshal(NewErrorResponse(message))

	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: string(body),
	}, nil
}

// ParseCoordinates pulls lat/lon query parameters. Both must be
// present; a missing pair would otherwise match against 0,0.
func ParseCoordinates(params map[string]string) (float64, float64, error) {
	latStr, hasLat := params["lat"]
	lonStr, hasLon := params["lon"]

	if !hasLat || !hasLon {
		return 0, 0, MissingCoordinatesError{}
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, err
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, err
	}

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, InvalidCoordinatesError{}
	}

	return lat, lon, nil
}

type InvalidCoordinatesError struct{}

func (e InvalidCoordinatesError) Error() string {
	return "Invalid coordinates"
}

type MissingCoordinatesError struct{}

func (e MissingCoordinatesError) Error() string {
	return "Missing coordinates"
}
