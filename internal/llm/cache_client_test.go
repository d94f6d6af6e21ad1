package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"loft/internal/llmerrors"
)

func TestCacheClientMemoizesClassification(t *testing.T) {
	mock := NewMockClient().Queue(PurposeClassification, "roadmap")
	client := WrapWithCache(mock, DefaultCacheConfig())

	for i := 0; i < 3; i++ {
		payload, err := client.Generate(context.Background(), "Generate a project timeline", PurposeClassification)
		require.NoError(t, err)
		require.Equal(t, "roadmap", payload.Content)
	}
	require.Equal(t, 1, mock.CallCount(PurposeClassification))
}

func TestCacheClientKeysOnTrimmedMessage(t *testing.T) {
	mock := NewMockClient().Queue(PurposeClassification, "email")
	client := WrapWithCache(mock, DefaultCacheConfig())

	_, err := client.Generate(context.Background(), "write an email", PurposeClassification)
	require.NoError(t, err)
	_, err = client.Generate(context.Background(), "  write an email  ", PurposeClassification)
	require.NoError(t, err)

	require.Equal(t, 1, mock.CallCount(PurposeClassification))
}

func TestCacheClientNeverCachesGeneration(t *testing.T) {
	mock := NewMockClient().Queue(PurposeGeneration, "content")
	client := WrapWithCache(mock, DefaultCacheConfig())

	for i := 0; i < 3; i++ {
		_, err := client.Generate(context.Background(), "same message", PurposeGeneration)
		require.NoError(t, err)
	}
	require.Equal(t, 3, mock.CallCount(PurposeGeneration))
}

func TestCacheClientDoesNotCacheFailures(t *testing.T) {
	mock := NewMockClient().
		QueueError(PurposeClassification, llmerrors.NoResponse(errors.New("down"))).
		Queue(PurposeClassification, "document")
	client := WrapWithCache(mock, DefaultCacheConfig())

	_, err := client.Generate(context.Background(), "draft a PRD", PurposeClassification)
	require.Error(t, err)

	payload, err := client.Generate(context.Background(), "draft a PRD", PurposeClassification)
	require.NoError(t, err)
	require.Equal(t, "document", payload.Content)
	require.Equal(t, 2, mock.CallCount(PurposeClassification))
}

func TestCacheClientExpiresEntries(t *testing.T) {
	mock := NewMockClient().
		Queue(PurposeClassification, "roadmap").
		Queue(PurposeClassification, "roadmap")
	client := WrapWithCache(mock, CacheConfig{MaxSize: 8, TTL: time.Minute}).(*cachingClient)

	now := time.Now()
	client.now = func() time.Time { return now }

	_, err := client.Generate(context.Background(), "timeline please", PurposeClassification)
	require.NoError(t, err)

	client.now = func() time.Time { return now.Add(2 * time.Minute) }
	_, err = client.Generate(context.Background(), "timeline please", PurposeClassification)
	require.NoError(t, err)

	require.Equal(t, 2, mock.CallCount(PurposeClassification))
}
