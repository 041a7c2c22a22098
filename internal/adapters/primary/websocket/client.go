package websocket

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lorrc/testing-insight/internal/core/domain"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer.
	maxMessageSize = 1024

	sendBufferSize = 16
)

// Message types a client may send.
const (
	MessageSubscribe   = "SUBSCRIBE_TO_DATASET"
	MessageUnsubscribe = "UNSUBSCRIBE_FROM_DATASET"
	MessagePing        = "PING"
)

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// Buffered channel of outbound events.
	Send chan domain.Event

	// ViewerID identifies the viewer; "anonymous" when auth is off.
	ViewerID string

	// Subscriptions holds the dataset names the client asked for.
	Subscriptions map[string]bool

	pongWait   time.Duration
	pingPeriod time.Duration

	closed bool
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewClient creates a new WebSocket client. pongWait bounds the silence
// allowed from the peer; pings go out at nine tenths of it.
func NewClient(hub *Hub, conn *websocket.Conn, viewerID string, pongWait time.Duration, logger *slog.Logger) *Client {
	if viewerID == "" {
		viewerID = "anonymous"
	}
	if pongWait <= 0 {
		pongWait = 60 * time.Second
	}
	return &Client{
		Hub:           hub,
		Conn:          conn,
		Send:          make(chan domain.Event, sendBufferSize),
		ViewerID:      viewerID,
		Subscriptions: make(map[string]bool),
		pongWait:      pongWait,
		pingPeriod:    pongWait * 9 / 10,
		logger:        logger.With("viewer_id", viewerID),
	}
}

// CloseSend safely closes the Send channel exactly once
func (c *Client) CloseSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// AddSubscription adds a subscription to a dataset
func (c *Client) AddSubscription(dataset string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Subscriptions[dataset] = true
}

// RemoveSubscription removes a subscription to a dataset
func (c *Client) RemoveSubscription(dataset string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Subscriptions, dataset)
}

// GetSubscriptions returns a copy of all subscriptions
func (c *Client) GetSubscriptions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	subs := make([]string, 0, len(c.Subscriptions))
	for dataset := range c.Subscriptions {
		subs = append(subs, dataset)
	}
	return subs
}

// Wants reports whether an event about dataset should reach this client.
func (c *Client) Wants(dataset string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.Subscriptions) == 0 || dataset == "" || c.Subscriptions[dataset]
}

// ReadPump pumps messages from the websocket connection to the hub.
// This method runs in its own goroutine.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.Hub.Unregister <- c:
		case <-c.Hub.done:
		}
		_ = c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.pongWait)); err != nil {
		c.logger.Error("failed to set read deadline", "error", err)
		return
	}

	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(c.pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", "error", err)
			}
			return
		}

		c.handleIncomingMessage(message)
	}
}

// WritePump pumps events from the hub to the websocket connection.
// This method runs in its own goroutine.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Error("failed to set write deadline", "error", err)
				return
			}

			if !ok {
				// The hub closed the channel.
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteJSON(event); err != nil {
				c.logger.Debug("failed to write event", "error", err)
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("failed to send ping", "error", err)
				return
			}
		}
	}
}

// --- Incoming Message Handling ---

// ClientMessage is the structure for messages sent from the client.
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// SubscribePayload is the payload for subscribe/unsubscribe messages
type SubscribePayload struct {
	Dataset string `json:"dataset"`
}

func (c *Client) handleIncomingMessage(message []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		c.logger.Warn("failed to unmarshal client message", "error", err)
		return
	}

	switch msg.Type {
	case MessageSubscribe, MessageUnsubscribe:
		var p SubscribePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			c.logger.Warn("failed to unmarshal subscription payload", "error", err)
			return
		}
		dataset := strings.TrimSpace(p.Dataset)
		if dataset == "" {
			c.logger.Warn("subscription without dataset", "type", msg.Type)
			return
		}
		if msg.Type == MessageSubscribe {
			c.Hub.subscribe(c, dataset)
		} else {
			c.Hub.unsubscribe(c, dataset)
		}

	case MessagePing:
		c.sendPong()

	default:
		c.logger.Debug("received unknown message type", "type", msg.Type)
	}
}

func (c *Client) sendPong() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- domain.Event{Type: domain.EventPong, Timestamp: time.Now().UTC()}:
	default:
	}
}
