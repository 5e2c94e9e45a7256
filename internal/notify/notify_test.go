package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillEventRoundTrip(t *testing.T) {
	event := NewBillUpdated(42, "a@a", "pending")

	body, err := event.ToJSON()
	require.NoError(t, err)

	decoded, err := BillEventFromJSON(body)
	require.NoError(t, err)

	assert.Equal(t, ActionUpdated, decoded.Action)
	assert.Equal(t, int64(42), decoded.BillID)
	assert.Equal(t, "a@a", decoded.Email)
	assert.Equal(t, "pending", decoded.Status)
	assert.WithinDuration(t, time.Now(), decoded.Timestamp, time.Minute)
}

func TestBillEventFromJSON_Invalid(t *testing.T) {
	_, err := BillEventFromJSON([]byte("not json"))
	assert.Error(t, err)
}

func TestPublisher_NilIsNoOp(t *testing.T) {
	var p *Publisher

	err := p.Publish(context.Background(), NewBillCreated(1, "a@a", "pending"))
	assert.NoError(t, err)
	assert.NoError(t, p.Close())
}
