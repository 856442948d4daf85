package websockets

import (
	"context"
	"kaudio/config"
	"kaudio/internal/database"
	"kaudio/internal/events"
	. "kaudio/internal/models"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	PING_INTERVAL     = 30 * time.Second
	PONG_TIMEOUT      = 60 * time.Second
	WRITE_TIMEOUT     = 10 * time.Second
	MAX_MESSAGE_SIZE  = 64 * 1024
	SEND_CHANNEL_SIZE = 64
)

type Message struct {
	ID        string             `json:"id"`
	Service   events.Channel     `json:"service,omitempty"`
	Event     events.MessageType `json:"event"`
	UserID    string             `json:"userId,omitempty"`
	Payload   map[string]any     `json:"payload,omitempty"`
	Timestamp time.Time          `json:"timestamp"`
}

type Client struct {
	ID         string
	UserID     uuid.UUID
	Connection *websocket.Conn
	Manager    *Manager
	Status     int
	send       chan Message
}

// Authenticator resolves the token a client presents during the handshake.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*User, error)
}

type Manager struct {
	hub      *Hub
	db       database.DB
	config   config.Config
	log      logger.Logger
	eventBus *events.EventBus
	auth     Authenticator
}

func New(
	db database.DB,
	eventBus *events.EventBus,
	config config.Config,
	auth Authenticator,
) (*Manager, error) {
	manager := newManager(db, eventBus, config, auth)

	manager.log.Function("New").Info("Starting websocket hub")
	go manager.hub.run(manager)

	if err := manager.subscribe(); err != nil {
		return nil, err
	}

	return manager, nil
}

func newManager(
	db database.DB,
	eventBus *events.EventBus,
	config config.Config,
	auth Authenticator,
) *Manager {
	return &Manager{
		hub: &Hub{
			register:   make(chan *Client),
			unregister: make(chan *Client),
			clients:    make(map[string]*Client),
		},
		db:       db,
		config:   config,
		log:      logger.New("websockets"),
		eventBus: eventBus,
		auth:     auth,
	}
}

func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	client := &Client{
		ID:         uuid.New().String(),
		UserID:     uuid.Nil,
		Connection: c,
		Manager:    m,
		Status:     STATUS_UNAUTHENTICATED,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
	}

	if err := client.sendAuthRequest(); err != nil {
		if err := c.Close(); err != nil {
			log.Er("failed to close connection", err)
		}
		return
	}

	m.hub.register <- client
	defer func() {
		log.Info("Client disconnected", "clientID", client.ID)
		m.hub.unregister <- client
		if err := c.Close(); err != nil {
			log.Er("failed to close connection", err)
		}
	}()

	client.startAuthTimeout()
	go client.readPump()
	client.writePump()
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")
	defer func() {
		c.Manager.hub.unregister <- c
		_ = c.Connection.Close()
	}()

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
		log.Er("failed to set read deadline", err, "clientID", c.ID)
	}
	c.Connection.SetPongHandler(func(string) error {
		if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
			log.Er("failed to set read deadline in pong handler", err, "clientID", c.ID)
		}
		return nil
	})

	for {
		var message Message
		if err := c.Connection.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				log.Er("Unexpected close error", err, "clientID", c.ID)
			}
			break
		}

		message.ID = uuid.New().String()
		message.Timestamp = time.Now()

		c.routeMessage(message)
	}
}

func (c *Client) routeMessage(message Message) {
	log := c.Manager.log.Function("routeMessage")

	if message.Event == events.AUTH_RESPONSE {
		c.handleAuthResponse(message)
		return
	}

	if c.Status != STATUS_AUTHENTICATED {
		c.handleUnauthenticatedMessage(message)
		return
	}

	switch message.Event {
	case events.PING:
		c.send <- Message{
			ID:        uuid.New().String(),
			Event:     events.PONG,
			Timestamp: time.Now(),
		}
	default:
		log.Warn("Unknown message event", "clientID", c.ID, "event", message.Event)
	}
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		_ = c.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline", err, "clientID", c.ID)
			}
			if !ok {
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("WebSocket write error", err, "clientID", c.ID, "event", message.Event)
				return
			}

		case <-ticker.C:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline for ping", err, "clientID", c.ID)
			}
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// subscribe forwards activity events to the connections of the user they
// belong to and reconciliation reports to every authenticated connection.
func (m *Manager) subscribe() error {
	log := m.log.Function("subscribe")

	if err := m.eventBus.Subscribe(events.ACTIVITY_CHANNEL, m.forwardActivity); err != nil {
		return log.Err("failed to subscribe to activity events", err)
	}

	if err := m.eventBus.Subscribe(events.RECONCILE_CHANNEL, m.forwardReconciled); err != nil {
		return log.Err("failed to subscribe to reconcile events", err)
	}

	return nil
}

func (m *Manager) forwardActivity(event events.Event) error {
	if event.UserID == nil {
		m.log.Function("forwardActivity").Warn("Activity event without user", "eventID", event.ID)
		return nil
	}

	m.SendMessageToUser(*event.UserID, messageFromEvent(event))
	return nil
}

func (m *Manager) forwardReconciled(event events.Event) error {
	m.sendToAuthenticatedClients(messageFromEvent(event))
	return nil
}

func messageFromEvent(event events.Event) Message {
	message := Message{
		ID:        event.ID,
		Service:   event.Channel,
		Event:     event.Type,
		Payload:   event.Data,
		Timestamp: event.Timestamp,
	}
	if event.UserID != nil {
		message.UserID = event.UserID.String()
	}
	return message
}
