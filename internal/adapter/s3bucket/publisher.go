// Package s3bucket publishes the public alerts snapshot to the website
// bucket.
package s3bucket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/couchcryptid/quake-alert-etl/internal/domain"
)

// snapshotKey is the well-known path the website polls.
const snapshotKey = "alerts.json"

// PutObjectAPI is the subset of the S3 client the publisher uses, kept
// narrow so tests can mock the SDK.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher overwrites the alerts snapshot in the website bucket. It
// implements pipeline.SnapshotPublisher.
type Publisher struct {
	client PutObjectAPI
	bucket string
	logger *slog.Logger
}

// NewPublisher creates a Publisher for the given bucket.
func NewPublisher(client PutObjectAPI, bucket string, logger *slog.Logger) *Publisher {
	return &Publisher{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// snapshot is the published document shape consumed by the website.
type snapshot struct {
	Alerts []domain.AlertRecord `json:"alerts"`
}

// PublishSnapshot serializes the batch and overwrites alerts.json with a
// no-cache directive so consumers always re-fetch current content. An empty
// batch is valid and encodes as {"alerts": []}: after a fetch failure the
// pipeline still publishes so the site never renders a stale artifact.
func (p *Publisher) PublishSnapshot(ctx context.Context, records []domain.AlertRecord) error {
	if records == nil {
		records = []domain.AlertRecord{}
	}

	body, err := json.Marshal(snapshot{Alerts: records})
	if err != nil {
		return fmt.Errorf("serialize snapshot: %w", err)
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(p.bucket),
		Key:          aws.String(snapshotKey),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String("application/json"),
		CacheControl: aws.String("no-cache"),
	})
	if err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}

	p.logger.Debug("snapshot published", "alerts", len(records), "bytes", len(body))
	return nil
}
