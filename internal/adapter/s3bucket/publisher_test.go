package s3bucket

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/quake-alert-etl/internal/domain"
)

type mockPutObject struct {
	inputs []*s3.PutObjectInput
	bodies [][]byte
	err    error
}

func (m *mockPutObject) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.inputs = append(m.inputs, params)
	body, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	m.bodies = append(m.bodies, body)
	if m.err != nil {
		return nil, m.err
	}
	return &s3.PutObjectOutput{}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublishSnapshot_WritesExpectedObject(t *testing.T) {
	mock := &mockPutObject{}
	pub := NewPublisher(mock, "quake-alerts-site", discardLogger())

	records := []domain.AlertRecord{
		{ID: "a", CreatedAt: "2024-06-01T12:00:00Z", Type: "earthquake", Summary: "one"},
		{ID: "b", CreatedAt: "2024-06-01T12:00:00Z", Type: "earthquake", Summary: "two"},
	}

	err := pub.PublishSnapshot(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, mock.inputs, 1)

	input := mock.inputs[0]
	assert.Equal(t, "quake-alerts-site", *input.Bucket)
	assert.Equal(t, "alerts.json", *input.Key)
	assert.Equal(t, "application/json", *input.ContentType)
	assert.Equal(t, "no-cache", *input.CacheControl)

	var doc struct {
		Alerts []domain.AlertRecord `json:"alerts"`
	}
	require.NoError(t, json.Unmarshal(mock.bodies[0], &doc))
	require.Len(t, doc.Alerts, 2)
	assert.Equal(t, "a", doc.Alerts[0].ID)
	assert.Equal(t, "b", doc.Alerts[1].ID)
}

func TestPublishSnapshot_EmptyBatchEncodesEmptyArray(t *testing.T) {
	mock := &mockPutObject{}
	pub := NewPublisher(mock, "quake-alerts-site", discardLogger())

	require.NoError(t, pub.PublishSnapshot(context.Background(), nil))
	require.Len(t, mock.bodies, 1)
	assert.JSONEq(t, `{"alerts":[]}`, string(mock.bodies[0]))

	require.NoError(t, pub.PublishSnapshot(context.Background(), []domain.AlertRecord{}))
	require.Len(t, mock.bodies, 2)
	assert.JSONEq(t, `{"alerts":[]}`, string(mock.bodies[1]))
}

func TestPublishSnapshot_PropagatesClientError(t *testing.T) {
	mock := &mockPutObject{err: errors.New("access denied")}
	pub := NewPublisher(mock, "quake-alerts-site", discardLogger())

	err := pub.PublishSnapshot(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}
