// internal/websocket/client.go
package websocket

import (
	"context"
	"sync"
	"time"

	wstypes "taskdesk/internal/domain/websocket"
	xerrors "taskdesk/internal/pkg/errors"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// Client is one connected console page. Only the hub sends to or closes
// a client, always under the hub lock.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	id   string

	// Context for graceful shutdown
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 16),
		id:     ulid.Make().String(),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (c *Client) ID() string {
	return c.id
}

// ReadPump keeps the read deadline fresh and answers pings. The console
// sends nothing else of interest.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.detach(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("websocket read error", zap.String("client_id", c.id), zap.Error(err))
			}
			return
		}

		c.handleMessage(message)
	}
}

// WritePump handles outgoing messages to client
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(data []byte) {
	msg, err := wstypes.ParseMessage(data)
	if err == nil && msg.Type == wstypes.EventTypePing {
		c.queue(wstypes.NewMessage(wstypes.EventTypePong, nil))
		return
	}

	// pages only ever send pings
	c.hub.logger.Debug("rejected console message", zap.String("client_id", c.id), zap.Error(err))
	c.queue(wstypes.NewMessage(wstypes.EventTypeError, wstypes.ErrorData{
		Code:    "invalid_message",
		Message: xerrors.MessageOrDefault(err, "unsupported event"),
	}))
}

// queue routes a reply through the hub so the send channel keeps a single
// writer.
func (c *Client) queue(msg *wstypes.WSMessage) {
	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()

	if c.hub.clients[c] {
		c.SendMessage(msg)
	}
}

// SendMessage enqueues msg and reports false when the buffer is full.
// Callers hold the hub lock.
func (c *Client) SendMessage(msg *wstypes.WSMessage) bool {
	data, err := msg.ToJSON()
	if err != nil {
		c.hub.logger.Error("failed to marshal message", zap.Error(err))
		return true
	}

	select {
	case <-c.ctx.Done():
		return true
	default:
	}

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Close gracefully closes the client connection
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
	})
}
