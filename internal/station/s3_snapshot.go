package station

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/chargehub/backend-go/internal/models"
)

// S3Client is the subset of the S3 API the snapshot store needs.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

const snapshotKey = "stations.json"

// S3SnapshotStore keeps the last good station list in S3 so a cold
// process can serve stations while the station service is unreachable.
type S3SnapshotStore struct {
	client     S3Client
	bucketName string
	ttl        time.Duration
	now        func() time.Time
}

type snapshotRecord struct {
	Stations    []models.Station `json:"stations"`
	LastUpdated int64            `json:"lastUpdated"`
	TTL         int64            `json:"ttl"`
}

func NewS3SnapshotStore(client S3Client, bucketName string, ttl time.Duration) *S3SnapshotStore {
	return &S3SnapshotStore{
		client:     client,
		bucketName: bucketName,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Load returns the persisted station list, or nil when there is none or
// it has expired.
func (s *S3SnapshotStore) Load(ctx context.Context) ([]models.Station, error) {
	if s.bucketName == "" {
		return nil, fmt.Errorf("empty bucket name")
	}

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(snapshotKey),
	})
	if err != nil {
		// Missing object is a cache miss, not a failure.
		return nil, nil
	}
	defer func(body io.ReadCloser) {
		if closeErr := body.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Error closing S3 object body")
		}
	}(result.Body)

	var record snapshotRecord
	if err := json.NewDecoder(result.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decoding snapshot record: %w", err)
	}

	if s.now().Unix() > record.TTL {
		log.Debug().Msg("Persisted station snapshot expired")
		return nil, nil
	}
	return record.Stations, nil
}

// Save persists the station list with a TTL stamp.
func (s *S3SnapshotStore) Save(ctx context.Context, stations []models.Station) error {
	if s.bucketName == "" {
		return fmt.Errorf("empty bucket name")
	}

	now := s.now().Unix()
	record := snapshotRecord{
		Stations:    stations,
		LastUpdated: now,
		TTL:         now + int64(s.ttl.Seconds()),
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(record); err != nil {
		return fmt.Errorf("encoding snapshot record: %w", err)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(snapshotKey),
		Body:   bytes.NewReader(buf.Bytes()),
	})
	if err != nil {
		return fmt.Errorf("saving snapshot to S3: %w", err)
	}

	log.Debug().Int("station_count", len(stations)).Msg("Saved station snapshot to S3")
	return nil
}
