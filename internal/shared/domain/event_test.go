package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/felixgeelhaar/tenantry/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	metadata := domain.EventMetadata{CorrelationID: "corr-1", Actor: "alice"}

	event, err := domain.NewEvent("customers.import.completed", metadata, map[string]int{"imported": 3})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, "customers.import.completed", event.RoutingKey)
	assert.False(t, event.OccurredAt.IsZero())
	assert.JSONEq(t, `{"imported":3}`, string(event.Payload))

	raw, err := event.Encode()
	require.NoError(t, err)

	var decoded domain.Event
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, "alice", decoded.Metadata.Actor)
}

func TestNewEvent_UnencodablePayload(t *testing.T) {
	_, err := domain.NewEvent("x", domain.EventMetadata{}, make(chan int))
	assert.Error(t, err)
}
