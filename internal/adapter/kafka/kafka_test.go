package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lci-slovakia/sighting-map-service/internal/domain"
)

func TestSerializeToMessage(t *testing.T) {
	fetched := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	sighting := domain.Sighting{
		Latitude:  49.123456,
		Longitude: 20.654321,
		Date:      "2024-05-01",
		Category:  domain.CategoryConflict,
		FetchedAt: fetched,
	}

	msg, err := serializeToMessage(sighting)
	require.NoError(t, err)

	assert.Equal(t, []byte("49.123456,20.654321"), msg.Key)
	assert.Contains(t, string(msg.Value), `"category":"conflict"`)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "category", msg.Headers[0].Key)
	assert.Equal(t, []byte("conflict"), msg.Headers[0].Value)
	assert.Equal(t, "fetched_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(fetched.Format(time.RFC3339)), msg.Headers[1].Value)
}
