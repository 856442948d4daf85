package websockets

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	STATUS_UNAUTHENTICATED = iota
	STATUS_AUTHENTICATED
	STATUS_CLOSED
)

const SLOW_CLIENT_TIMEOUT = 5 * time.Second

type Hub struct {
	register   chan *Client
	unregister chan *Client
	clients    map[string]*Client
	mutex      sync.RWMutex
}

func (h *Hub) run(m *Manager) {
	for {
		select {
		case client := <-h.register:
			m.registerClient(client)

		case client := <-h.unregister:
			m.unregisterClient(client)
		}
	}
}

func (m *Manager) registerClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	m.hub.clients[client.ID] = client

	m.log.Function("registerClient").Info("Client registered", "clientID", client.ID)
}

// unregisterClient is reached from both pumps, so the send channel is only
// closed by the call that actually removes the client.
func (m *Manager) unregisterClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	if _, ok := m.hub.clients[client.ID]; !ok {
		return
	}

	delete(m.hub.clients, client.ID)
	client.Status = STATUS_CLOSED
	close(client.send)

	m.log.Function("unregisterClient").Info(
		"Client unregistered",
		"clientID", client.ID,
		"userID", client.UserID,
	)
}

func (m *Manager) promoteClientToAuthenticated(client *Client, userID uuid.UUID) {
	m.hub.mutex.Lock()
	client.UserID = userID
	client.Status = STATUS_AUTHENTICATED
	m.hub.mutex.Unlock()

	m.log.Function("promoteClientToAuthenticated").Info(
		"Client authenticated",
		"clientID", client.ID,
		"userID", userID,
	)
}

// SendMessageToUser delivers to every authenticated connection of the user.
func (m *Manager) SendMessageToUser(userID uuid.UUID, message Message) int {
	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	sent := 0
	for _, client := range m.hub.clients {
		if client.Status == STATUS_AUTHENTICATED && client.UserID == userID {
			m.deliver(client, message)
			sent++
		}
	}

	m.log.Function("SendMessageToUser").Debug(
		"Message sent to user connections",
		"userID", userID,
		"event", message.Event,
		"sentTo", sent,
	)
	return sent
}

func (m *Manager) sendToAuthenticatedClients(message Message) int {
	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	sent := 0
	for _, client := range m.hub.clients {
		if client.Status == STATUS_AUTHENTICATED {
			m.deliver(client, message)
			sent++
		}
	}

	m.log.Function("sendToAuthenticatedClients").Debug(
		"Message sent to authenticated clients",
		"event", message.Event,
		"sentTo", sent,
	)
	return sent
}

// deliver must be called with the hub lock held. A full send buffer gets one
// delayed retry before the client is dropped.
func (m *Manager) deliver(client *Client, message Message) {
	select {
	case client.send <- message:
	default:
		go func() {
			// the client may be unregistered while this goroutine waits
			defer func() { _ = recover() }()

			timer := time.NewTimer(SLOW_CLIENT_TIMEOUT)
			defer timer.Stop()

			m.hub.mutex.RLock()
			_, alive := m.hub.clients[client.ID]
			m.hub.mutex.RUnlock()
			if !alive {
				return
			}

			select {
			case client.send <- message:
			case <-timer.C:
				m.log.Function("deliver").Warn("Client too slow, disconnecting", "clientID", client.ID)
				m.hub.unregister <- client
			}
		}()
	}
}
