package events

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_LocalDelivery(t *testing.T) {
	bus := New(nil)
	defer func() { _ = bus.Close() }()

	received := make(chan Event, 1)
	require.NoError(t, bus.Subscribe(ACTIVITY_CHANNEL, func(event Event) error {
		received <- event
		return nil
	}))

	userID := uuid.New()
	require.NoError(t, bus.PublishActivity(ACTIVITY_RECORDED, userID, map[string]any{"activityType": "play"}))

	select {
	case event := <-received:
		assert.Equal(t, ACTIVITY_RECORDED, event.Type)
		assert.Equal(t, ACTIVITY_CHANNEL, event.Channel)
		require.NotNil(t, event.UserID)
		assert.Equal(t, userID, *event.UserID)
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.Timestamp.IsZero())
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestEventBus_PublishWithoutSubscribers(t *testing.T) {
	bus := New(nil)
	defer func() { _ = bus.Close() }()

	assert.NoError(t, bus.PublishReconciled(map[string]any{"mismatches": 0}))
}
