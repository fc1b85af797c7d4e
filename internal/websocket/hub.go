// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	wstypes "taskdesk/internal/domain/websocket"
	"taskdesk/internal/pkg/navigation"

	"go.uber.org/zap"
)

// Hub tracks connected console pages and pushes navigations to them. It
// implements navigation.Navigator, so the API client's forced logout lands
// on every open page.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	register   chan *Client
	unregister chan *Client

	// Broadcasting
	broadcast chan *wstypes.WSMessage

	done     chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

var _ navigation.Navigator = (*Hub)(nil)

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *wstypes.WSMessage, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.broadcastMessage(msg)
		}
	}
}

// Attach hands a client to the running hub.
func (h *Hub) Attach(client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.done:
		return ErrHubStopped
	}
}

func (h *Hub) detach(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Navigate queues a navigate event for every connected page. It never
// blocks; when the queue is full the event is dropped and logged.
func (h *Hub) Navigate(route navigation.Route) {
	msg := wstypes.NewMessage(wstypes.EventTypeNavigate, wstypes.NavigateData{Route: route.String()})

	select {
	case h.broadcast <- msg:
	case <-h.done:
	default:
		h.logger.Warn("navigation queue full, dropping event", zap.String("route", route.String()))
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	h.logger.Debug("console page connected",
		zap.String("client_id", client.id),
		zap.Int("total", len(h.clients)),
	)

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, wstypes.ConnectedData{
		ClientID: client.id,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.Close()

		h.logger.Debug("console page disconnected",
			zap.String("client_id", client.id),
			zap.Int("total", len(h.clients)),
		)
	}
}

func (h *Hub) broadcastMessage(msg *wstypes.WSMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if !client.SendMessage(msg) {
			// slow page; drop it rather than stall every other page
			delete(h.clients, client)
			client.Close()
			h.logger.Warn("dropping unresponsive console page", zap.String("client_id", client.id))
		}
	}
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) shutdown() {
	h.stopOnce.Do(func() { close(h.done) })

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.SendMessage(wstypes.NewMessage(wstypes.EventTypeDisconnected, nil))
		client.Close()
	}
	h.clients = make(map[*Client]bool)
}
