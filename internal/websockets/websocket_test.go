package websockets

import (
	"context"
	"kaudio/config"
	"kaudio/internal/database"
	"kaudio/internal/events"
	. "kaudio/internal/models"
	"kaudio/internal/types"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct {
	user *User
}

func (s stubAuth) Authenticate(_ context.Context, token string) (*User, error) {
	if token != "good" {
		return nil, types.Wrap(types.ErrPermission, "invalid token")
	}
	return s.user, nil
}

func testClient(m *Manager, userID uuid.UUID, status int) *Client {
	client := &Client{
		ID:      uuid.New().String(),
		UserID:  userID,
		Manager: m,
		Status:  status,
		send:    make(chan Message, SEND_CHANNEL_SIZE),
	}
	m.registerClient(client)
	return client
}

func TestManager_ForwardActivity(t *testing.T) {
	m := newManager(database.DB{}, events.New(nil), config.Config{}, stubAuth{})

	owner := uuid.New()
	first := testClient(m, owner, STATUS_AUTHENTICATED)
	second := testClient(m, owner, STATUS_AUTHENTICATED)
	stranger := testClient(m, uuid.New(), STATUS_AUTHENTICATED)
	pending := testClient(m, uuid.Nil, STATUS_UNAUTHENTICATED)

	err := m.forwardActivity(events.Event{
		ID:      "evt-1",
		Type:    events.ACTIVITY_RECORDED,
		Channel: events.ACTIVITY_CHANNEL,
		UserID:  &owner,
		Data:    map[string]any{"activityType": "play"},
	})
	require.NoError(t, err)

	for _, client := range []*Client{first, second} {
		require.Len(t, client.send, 1)
		message := <-client.send
		assert.Equal(t, events.ACTIVITY_RECORDED, message.Event)
		assert.Equal(t, owner.String(), message.UserID)
		assert.Equal(t, "play", message.Payload["activityType"])
	}
	assert.Empty(t, stranger.send)
	assert.Empty(t, pending.send)
}

func TestManager_ForwardReconciled(t *testing.T) {
	m := newManager(database.DB{}, events.New(nil), config.Config{}, stubAuth{})

	first := testClient(m, uuid.New(), STATUS_AUTHENTICATED)
	second := testClient(m, uuid.New(), STATUS_AUTHENTICATED)
	pending := testClient(m, uuid.Nil, STATUS_UNAUTHENTICATED)

	require.NoError(t, m.forwardReconciled(events.Event{Type: events.COUNTERS_RECONCILED}))

	assert.Len(t, first.send, 1)
	assert.Len(t, second.send, 1)
	assert.Empty(t, pending.send)
}

func TestClient_HandleAuthResponse(t *testing.T) {
	user := &User{Username: "listener"}
	user.ID = uuid.New()
	m := newManager(database.DB{}, events.New(nil), config.Config{}, stubAuth{user: user})

	rejected := testClient(m, uuid.Nil, STATUS_UNAUTHENTICATED)
	rejected.handleAuthResponse(Message{Event: events.AUTH_RESPONSE, Payload: map[string]any{"token": "bad"}})
	assert.Equal(t, STATUS_UNAUTHENTICATED, rejected.Status)
	assert.Equal(t, events.AUTH_FAILURE, (<-rejected.send).Event)

	client := testClient(m, uuid.Nil, STATUS_UNAUTHENTICATED)
	client.routeMessage(Message{Event: events.PING})
	assert.Equal(t, events.AUTH_FAILURE, (<-client.send).Event)

	client.routeMessage(Message{Event: events.AUTH_RESPONSE, Payload: map[string]any{"token": "good"}})
	assert.Equal(t, STATUS_AUTHENTICATED, client.Status)
	assert.Equal(t, user.ID, client.UserID)
	assert.Equal(t, events.AUTH_SUCCESS, (<-client.send).Event)

	client.routeMessage(Message{Event: events.PING})
	assert.Equal(t, events.PONG, (<-client.send).Event)
}

func TestManager_UnregisterClosesOnce(t *testing.T) {
	m := newManager(database.DB{}, events.New(nil), config.Config{}, stubAuth{})
	client := testClient(m, uuid.New(), STATUS_AUTHENTICATED)

	m.unregisterClient(client)
	assert.NotPanics(t, func() { m.unregisterClient(client) })

	_, open := <-client.send
	assert.False(t, open)
	assert.Zero(t, m.SendMessageToUser(client.UserID, Message{}))
}
