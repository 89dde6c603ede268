package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// Hub manages WebSocket connections and broadcasts messages to match watchers.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]*Connection // client_id -> connection
	matches     map[string][]string    // match_id -> []client_id
	logger      zerolog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[string]*Connection),
		matches:     make(map[string][]string),
		logger:      logger,
	}
}

// RegisterConnection adds a connection for a client.
func (h *Hub) RegisterConnection(clientID string, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Close existing connection if any
	if old, exists := h.connections[clientID]; exists {
		old.Close()
	}

	h.connections[clientID] = conn
	h.logger.Info().Str("client_id", clientID).Msg("connection registered")
}

// UnregisterConnection removes a connection.
func (h *Hub) UnregisterConnection(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, exists := h.connections[clientID]; exists {
		conn.Close()
		delete(h.connections, clientID)
		h.logger.Info().Str("client_id", clientID).Msg("connection unregistered")
	}

	// Remove from all matches
	for matchID, clients := range h.matches {
		for i, cid := range clients {
			if cid == clientID {
				h.matches[matchID] = append(clients[:i], clients[i+1:]...)
				break
			}
		}
		if len(h.matches[matchID]) == 0 {
			delete(h.matches, matchID)
		}
	}
}

// JoinMatch associates a client with a match for targeted broadcasts.
func (h *Hub) JoinMatch(matchID, clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.matches[matchID]
	for _, cid := range clients {
		if cid == clientID {
			return // already joined
		}
	}
	h.matches[matchID] = append(clients, clientID)
}

// LeaveMatch removes a client from a match.
func (h *Hub) LeaveMatch(matchID, clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.matches[matchID]
	for i, cid := range clients {
		if cid == clientID {
			h.matches[matchID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
}

// BroadcastToMatch sends a message to every client watching a match.
func (h *Hub) BroadcastToMatch(matchID string, msg Message) error {
	h.mu.RLock()
	clients := append([]string(nil), h.matches[matchID]...)
	h.mu.RUnlock()

	var errs []error
	for _, clientID := range clients {
		if err := h.SendToClient(clientID, msg); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0] // return first error
	}
	return nil
}

// SendToClient delivers a message to a specific client.
func (h *Hub) SendToClient(clientID string, msg Message) error {
	h.mu.RLock()
	conn, exists := h.connections[clientID]
	h.mu.RUnlock()

	if !exists {
		return ErrConnectionNotFound
	}

	return conn.Send(msg)
}

// Watchers returns how many clients follow a match.
func (h *Hub) Watchers(matchID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.matches[matchID])
}

// DropMatch forgets every watcher of a finished match.
func (h *Hub) DropMatch(matchID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.matches, matchID)
}

// Connection represents a WebSocket connection with send queue.
type Connection struct {
	conn   *websocket.Conn
	sendCh chan Message
	mu     sync.Mutex
	closed bool
	logger zerolog.Logger
}

// NewConnection wraps a WebSocket connection.
func NewConnection(conn *websocket.Conn, logger zerolog.Logger) *Connection {
	return &Connection{
		conn:   conn,
		sendCh: make(chan Message, 256),
		logger: logger,
	}
}

// Send queues a message for delivery.
func (c *Connection) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.sendCh <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close shuts down the connection.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.sendCh)
	c.conn.Close()
}

// WritePump sends messages from the send queue and pings idle clients.
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Warn().Err(err).Msg("write error")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump receives messages and calls the handler.
func (c *Connection) ReadPump(handler func(Message) error) {
	defer c.conn.Close()

	// Extend the read deadline on every pong
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("read error")
			}
			break
		}

		if err := handler(msg); err != nil {
			c.logger.Warn().Err(err).Msg("message handler error")
		}
	}
}

var (
	ErrConnectionNotFound = &Error{Code: "connection_not_found", Message: "Client connection not found"}
	ErrConnectionClosed   = &Error{Code: "connection_closed", Message: "Connection is closed"}
	ErrSendQueueFull      = &Error{Code: "send_queue_full", Message: "Send queue is full"}
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
