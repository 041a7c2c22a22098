package websocket

import (
	"context"
	"log/slog"
	"sync"

	"github.com/lorrc/testing-insight/internal/core/domain"
	"github.com/lorrc/testing-insight/internal/core/ports"
	"github.com/lorrc/testing-insight/internal/infrastructure/metrics"
)

// Hub maintains the set of active Clients and broadcasts dataset events to
// them. A client without subscriptions receives every event; a subscribed
// client only receives events of its datasets.
type Hub struct {
	// clients maps viewer IDs to their active connections
	clients map[string]map[*Client]bool

	// rooms maps dataset names to subscribed clients
	rooms map[string]map[*Client]bool

	broadcast  chan domain.Event
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}

	// mu protects the clients and rooms maps
	mu sync.RWMutex

	metrics *metrics.Metrics
	logger  *slog.Logger
}

// Ensure Hub implements the EventBroadcaster interface.
var _ ports.EventBroadcaster = (*Hub)(nil)

// NewHub creates a new WebSocket hub. m may be nil.
func NewHub(m *metrics.Metrics, logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		broadcast:  make(chan domain.Event, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
		metrics:    m,
		logger:     logger.With("component", "websocket_hub"),
	}
}

// Broadcast queues an event for delivery. A full queue drops the event.
func (h *Hub) Broadcast(event domain.Event) error {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("broadcast channel full, dropping event",
			"event_type", event.Type,
			"dataset", event.Dataset,
		)
	}
	return nil
}

// Run starts the hub's event loop until ctx is done. It must run in its own
// goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

// Add hands a client to the hub. It reports false once the hub has stopped.
func (h *Hub) Add(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.ViewerID] == nil {
		h.clients[client.ViewerID] = make(map[*Client]bool)
	}
	h.clients[client.ViewerID][client] = true
	h.setGauge()

	h.logger.Info("client registered",
		"viewer_id", client.ViewerID,
		"total_connections", len(h.clients[client.ViewerID]),
	)
}

// unregisterClient removes a client from the hub and all rooms. It is safe to
// call more than once for the same client.
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	viewerClients, ok := h.clients[client.ViewerID]
	if !ok || !viewerClients[client] {
		return
	}
	delete(viewerClients, client)
	if len(viewerClients) == 0 {
		delete(h.clients, client.ViewerID)
	}

	for _, dataset := range client.GetSubscriptions() {
		if room, ok := h.rooms[dataset]; ok {
			delete(room, client)
			if len(room) == 0 {
				delete(h.rooms, dataset)
			}
		}
	}

	client.CloseSend()
	h.setGauge()

	h.logger.Info("client unregistered", "viewer_id", client.ViewerID)
}

func (h *Hub) closeAll() {
	h.mu.RLock()
	all := make([]*Client, 0)
	for _, viewerClients := range h.clients {
		for client := range viewerClients {
			all = append(all, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range all {
		h.unregisterClient(client)
	}
}

// broadcastEvent delivers an event to every interested client
func (h *Hub) broadcastEvent(event domain.Event) {
	h.mu.RLock()
	recipients := make([]*Client, 0)
	for _, viewerClients := range h.clients {
		for client := range viewerClients {
			if client.Wants(event.Dataset) {
				recipients = append(recipients, client)
			}
		}
	}
	h.mu.RUnlock()

	h.logger.Debug("broadcasting event",
		"event_type", event.Type,
		"dataset", event.Dataset,
		"client_count", len(recipients),
	)

	for _, client := range recipients {
		select {
		case client.Send <- event:
		default:
			h.logger.Warn("client send buffer full, unregistering",
				"viewer_id", client.ViewerID,
			)
			h.unregisterClient(client)
		}
	}
}

// subscribe adds a client to a dataset's room
func (h *Hub) subscribe(client *Client, dataset string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[dataset] == nil {
		h.rooms[dataset] = make(map[*Client]bool)
	}
	h.rooms[dataset][client] = true
	client.AddSubscription(dataset)

	h.logger.Debug("client subscribed to dataset",
		"viewer_id", client.ViewerID,
		"dataset", dataset,
	)
}

// unsubscribe removes a client from a dataset's room
func (h *Hub) unsubscribe(client *Client, dataset string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.rooms[dataset]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(h.rooms, dataset)
		}
	}
	client.RemoveSubscription(dataset)
}

// GetClientCount returns the total number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clientCount()
}

// GetClientsInRoom returns the number of clients subscribed to a dataset
func (h *Hub) GetClientsInRoom(dataset string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[dataset])
}

func (h *Hub) clientCount() int {
	count := 0
	for _, viewerClients := range h.clients {
		count += len(viewerClients)
	}
	return count
}

// setGauge must be called with mu held.
func (h *Hub) setGauge() {
	if h.metrics != nil {
		h.metrics.WebSocketClients.Set(float64(h.clientCount()))
	}
}
