package websockets

import (
	"context"
	"kaudio/internal/events"
	"time"

	"github.com/google/uuid"
)

const AUTH_HANDSHAKE_TIMEOUT = 10 * time.Second

func (c *Client) startAuthTimeout() {
	log := c.Manager.log.Function("startAuthTimeout")

	go func() {
		time.Sleep(AUTH_HANDSHAKE_TIMEOUT)
		if c.Status != STATUS_UNAUTHENTICATED {
			return
		}

		log.Warn("Client failed to authenticate within timeout, disconnecting",
			"clientID", c.ID,
			"timeout", AUTH_HANDSHAKE_TIMEOUT)

		select {
		case c.send <- authFailure("authentication_timeout", "Authentication timeout"):
			time.Sleep(100 * time.Millisecond)
		default:
		}

		if err := c.Connection.Close(); err != nil {
			log.Er("failed to close connection after auth timeout", err, "clientID", c.ID)
		}
	}()
}

// handleAuthResponse validates the JWT carried in the payload and binds the
// client to the user it was issued for.
func (c *Client) handleAuthResponse(message Message) {
	log := c.Manager.log.Function("handleAuthResponse")

	if c.Status != STATUS_UNAUTHENTICATED {
		log.Warn("Auth response from already authenticated client", "clientID", c.ID)
		return
	}

	token, ok := message.Payload["token"].(string)
	if !ok || token == "" {
		c.sendAuthFailure("Invalid token format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := c.Manager.auth.Authenticate(ctx, token)
	if err != nil {
		log.Info("WebSocket authentication failed", "clientID", c.ID, "error", err.Error())
		c.sendAuthFailure("Authentication failed")
		return
	}

	c.Manager.promoteClientToAuthenticated(c, user.ID)

	c.send <- Message{
		ID:        uuid.New().String(),
		Service:   events.SYSTEM_CHANNEL,
		Event:     events.AUTH_SUCCESS,
		UserID:    user.ID.String(),
		Payload:   map[string]any{"action": "authenticated", "userId": user.ID.String()},
		Timestamp: time.Now(),
	}
}

func (c *Client) sendAuthFailure(reason string) {
	c.send <- authFailure("authentication_failed", reason)

	c.Manager.log.Function("sendAuthFailure").
		Info("Auth failure sent, closing connection", "clientID", c.ID, "reason", reason)

	if c.Connection == nil {
		return
	}
	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = c.Connection.Close()
	}()
}

func (c *Client) sendAuthRequest() error {
	authRequest := Message{
		ID:        uuid.New().String(),
		Service:   events.SYSTEM_CHANNEL,
		Event:     events.AUTH_REQUEST,
		Payload:   map[string]any{"action": "authenticate"},
		Timestamp: time.Now(),
	}

	if err := c.Connection.WriteJSON(authRequest); err != nil {
		return c.Manager.log.Function("sendAuthRequest").Err("failed to send auth request", err)
	}

	return nil
}

func (c *Client) handleUnauthenticatedMessage(message Message) {
	c.Manager.log.Function("handleUnauthenticatedMessage").Warn(
		"Blocking message from unauthenticated client",
		"clientID", c.ID,
		"event", message.Event,
	)

	c.send <- authFailure("authentication_required", "Authentication required")
}

func authFailure(action, reason string) Message {
	return Message{
		ID:        uuid.New().String(),
		Service:   events.SYSTEM_CHANNEL,
		Event:     events.AUTH_FAILURE,
		Payload:   map[string]any{"action": action, "reason": reason},
		Timestamp: time.Now(),
	}
}
