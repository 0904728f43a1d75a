// Package dynamo persists alert records into a DynamoDB table.
package dynamo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/couchcryptid/quake-alert-etl/internal/domain"
)

// PutItemAPI is the subset of the DynamoDB client the store uses, kept
// narrow so tests can mock the SDK.
type PutItemAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// Store writes alert records keyed by alert id, overwriting prior entries.
// It implements pipeline.AlertStore; the pipeline treats its errors as
// best-effort and discards them at the call site.
type Store struct {
	client    PutItemAPI
	tableName string
	logger    *slog.Logger
}

// NewStore creates a Store over the given table.
func NewStore(client PutItemAPI, tableName string, logger *slog.Logger) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// storedAlert is the DynamoDB item layout. The normalized alert travels as a
// serialized JSON document in the raw attribute.
type storedAlert struct {
	AlertID   string `dynamodbav:"alert_id"`
	CreatedAt string `dynamodbav:"created_at"`
	Type      string `dynamodbav:"type"`
	Raw       string `dynamodbav:"raw"`
	Summary   string `dynamodbav:"summary"`
}

// PutAlert upserts one record. Repeated ingestion of the same logical event
// carries the same deterministic id, so the write is last-write-wins rather
// than an append.
func (s *Store) PutAlert(ctx context.Context, record domain.AlertRecord) error {
	raw, err := json.Marshal(record.Data)
	if err != nil {
		return fmt.Errorf("serialize alert data: %w", err)
	}

	item, err := attributevalue.MarshalMap(storedAlert{
		AlertID:   record.ID,
		CreatedAt: record.CreatedAt,
		Type:      record.Type,
		Raw:       string(raw),
		Summary:   record.Summary,
	})
	if err != nil {
		return fmt.Errorf("marshal alert item: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put alert %s: %w", record.ID, err)
	}

	s.logger.Debug("alert persisted", "id", record.ID)
	return nil
}
