package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargehub/backend-go/internal/models"
)

type mockDynamoDBClient struct {
	putFn     func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	queryFn   func(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	lastPut   *dynamodb.PutItemInput
	lastQuery *dynamodb.QueryInput
}

func (m *mockDynamoDBClient) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{}, nil
}

func (m *mockDynamoDBClient) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.lastPut = params
	if m.putFn != nil {
		return m.putFn(ctx, params, optFns...)
	}
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDynamoDBClient) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.lastQuery = params
	if m.queryFn != nil {
		return m.queryFn(ctx, params, optFns...)
	}
	return &dynamodb.QueryOutput{}, nil
}

func confirmedBooking() models.ConfirmedBooking {
	return models.ConfirmedBooking{
		Station: models.Station{
			ID:             "st-1",
			Name:           "City Mall",
			ChargingPoints: 4,
		},
		Date:          "2026-03-16",
		TimeSlot:      "10:00 - 11:00",
		VehicleNumber: "KL07AA1234",
	}
}

func TestPersistWritesConditionalRecord(t *testing.T) {
	t.Parallel()

	mock := &mockDynamoDBClient{}
	store := NewDynamoBookingStore(mock, "test-bookings")

	require.NoError(t, store.Persist(context.Background(), confirmedBooking()))
	require.NotNil(t, mock.lastPut)

	assert.Equal(t, "test-bookings", *mock.lastPut.TableName)
	assert.Equal(t, "attribute_not_exists(slotKey)", *mock.lastPut.ConditionExpression)

	var record bookingRecord
	require.NoError(t, attributevalue.UnmarshalMap(mock.lastPut.Item, &record))
	assert.Equal(t, "st-1:2026-03-16:10:00 - 11:00", record.SlotKey)
	assert.Equal(t, "st-1", record.StationID)
	assert.Equal(t, "KL07AA1234", record.VehicleNumber)
	assert.NotZero(t, record.CreatedAt)
}

func TestPersistSlotConflict(t *testing.T) {
	t.Parallel()

	mock := &mockDynamoDBClient{
		putFn: func(ctx context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			return nil, &types.ConditionalCheckFailedException{}
		},
	}
	store := NewDynamoBookingStore(mock, "test-bookings")

	err := store.Persist(context.Background(), confirmedBooking())
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestPersistTransportFailure(t *testing.T) {
	t.Parallel()

	mock := &mockDynamoDBClient{
		putFn: func(ctx context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			return nil, errors.New("throttled")
		},
	}
	store := NewDynamoBookingStore(mock, "test-bookings")

	err := store.Persist(context.Background(), confirmedBooking())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSlotTaken)
}

func TestListByStation(t *testing.T) {
	t.Parallel()

	record, err := attributevalue.MarshalMap(bookingRecord{
		SlotKey:       "st-1:2026-03-16:10:00 - 11:00",
		StationID:     "st-1",
		StationName:   "City Mall",
		Date:          "2026-03-16",
		TimeSlot:      "10:00 - 11:00",
		VehicleNumber: "KL07AA1234",
		CreatedAt:     1742000000,
	})
	require.NoError(t, err)

	mock := &mockDynamoDBClient{
		queryFn: func(ctx context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
			return &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{record}}, nil
		},
	}
	store := NewDynamoBookingStore(mock, "test-bookings")

	bookings, err := store.ListByStation(context.Background(), "st-1")
	require.NoError(t, err)
	require.NotNil(t, mock.lastQuery)

	assert.Equal(t, "test-bookings", *mock.lastQuery.TableName)
	assert.Equal(t, stationIndexName, *mock.lastQuery.IndexName)
	assert.Equal(t, "stationId = :stationId", *mock.lastQuery.KeyConditionExpression)

	require.Len(t, bookings, 1)
	assert.Equal(t, "st-1", bookings[0].Station.ID)
	assert.Equal(t, "City Mall", bookings[0].Station.Name)
	assert.Equal(t, "2026-03-16", bookings[0].Date)
	assert.Equal(t, "10:00 - 11:00", bookings[0].TimeSlot)
	assert.Equal(t, "KL07AA1234", bookings[0].VehicleNumber)
}

func TestListByStationQueryFailure(t *testing.T) {
	t.Parallel()

	mock := &mockDynamoDBClient{
		queryFn: func(ctx context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
			return nil, errors.New("throttled")
		},
	}
	store := NewDynamoBookingStore(mock, "test-bookings")

	_, err := store.ListByStation(context.Background(), "st-1")
	assert.Error(t, err)
}
