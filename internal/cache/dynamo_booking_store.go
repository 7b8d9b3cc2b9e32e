package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog/log"

	"github.com/chargehub/backend-go/internal/models"
)

// ErrSlotTaken reports that the station/date/slot combination is
// already booked. The booking session surfaces it as a rejection the
// user can recover from.
var ErrSlotTaken = errors.New("slot already booked")

// stationIndexName is the GSI keyed on stationId, used for listing a
// station's booking history.
const stationIndexName = "stationId-index"

// bookingRecord is the persisted shape. slotKey is the conditional-put
// key: one record per station, date and slot.
type bookingRecord struct {
	SlotKey       string `dynamodbav:"slotKey"`
	StationID     string `dynamodbav:"stationId"`
	StationName   string `dynamodbav:"stationName"`
	Date          string `dynamodbav:"date"`
	TimeSlot      string `dynamodbav:"timeSlot"`
	VehicleNumber string `dynamodbav:"vehicleNumber"`
	CreatedAt     int64  `dynamodbav:"createdAt"`
}

// DynamoBookingStore persists confirmed bookings in DynamoDB and is the
// arbiter of slot conflicts: a conditional put fails when the slot is
// already held.
type DynamoBookingStore struct {
	client    DynamoDBClient
	tableName string
	now       func() time.Time
}

func NewDynamoBookingStore(client DynamoDBClient, tableName string) *DynamoBookingStore {
	return &DynamoBookingStore{
		client:    client,
		tableName: tableName,
		now:       time.Now,
	}
}

func slotKey(b models.ConfirmedBooking) string {
	return fmt.Sprintf("%s:%s:%s", b.Station.ID, b.Date, b.TimeSlot)
}

// Persist writes the booking, failing with ErrSlotTaken when the slot
// is already held.
func (s *DynamoBookingStore) Persist(ctx context.Context, b models.ConfirmedBooking) error {
	record := bookingRecord{
		SlotKey:       slotKey(b),
		StationID:     b.Station.ID,
		StationName:   b.Station.Name,
		Date:          b.Date,
		TimeSlot:      b.TimeSlot,
		VehicleNumber: b.VehicleNumber,
		CreatedAt:     s.now().Unix(),
	}

	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("marshaling booking record: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(slotKey)"),
	})
	if err != nil {
		var conditionFailed *types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			log.Debug().
				Str("station_id", b.Station.ID).
				Str("date", b.Date).
				Str("slot", b.TimeSlot).
				Msg("Slot conflict on booking persist")
			return ErrSlotTaken
		}
		return fmt.Errorf("persisting booking: %w", err)
	}
	return nil
}

// ListByStation returns every confirmed booking held for a station.
func (s *DynamoBookingStore) ListByStation(ctx context.Context, stationID string) ([]models.ConfirmedBooking, error) {
	result, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		IndexName:              aws.String(stationIndexName),
		KeyConditionExpression: aws.String("stationId = :stationId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":stationId": &types.AttributeValueMemberS{Value: stationID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("querying bookings: %w", err)
	}

	var records []bookingRecord
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &records); err != nil {
		return nil, fmt.Errorf("unmarshaling booking records: %w", err)
	}

	bookings := make([]models.ConfirmedBooking, 0, len(records))
	for _, r := range records {
		bookings = append(bookings, models.ConfirmedBooking{
			Station:       models.Station{ID: r.StationID, Name: r.StationName},
			Date:          r.Date,
			TimeSlot:      r.TimeSlot,
			VehicleNumber: r.VehicleNumber,
		})
	}
	return bookings, nil
}
