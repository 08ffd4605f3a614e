package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":     1,
		"text":   "Salary",
		"amount": "5000",
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeTransaction, payload)
	after := time.Now()

	assert.Equal(t, "transaction.created", evt.Type)
	assert.Equal(t, EntityTypeTransaction, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
	assert.Equal(t, time.UTC, evt.Timestamp.Location())
}

func TestEvent_ToJSON(t *testing.T) {
	evt := TransactionDeleted(map[string]interface{}{"id": float64(42)})

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "transaction.deleted", decoded["type"])
	assert.Equal(t, "transaction", decoded["entity"])
	assert.Equal(t, map[string]interface{}{"id": float64(42)}, decoded["payload"])
	assert.NotEmpty(t, decoded["timestamp"])
}

func TestTransactionEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{"id": float64(1)}

	created := TransactionCreated(payload)
	assert.Equal(t, "transaction.created", created.Type)
	assert.Equal(t, payload, created.Payload)

	deleted := TransactionDeleted(payload)
	assert.Equal(t, "transaction.deleted", deleted.Type)
	assert.Equal(t, EntityTypeTransaction, deleted.Entity)
}
