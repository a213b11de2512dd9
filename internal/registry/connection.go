package registry

import (
	"context"
	"sync"
	"time"

	"dispatch-srv/pkg/log"

	"github.com/gorilla/websocket"
)

// MessageHandler processes inbound client frames (responder commands).
type MessageHandler interface {
	HandleMessage(ctx context.Context, conn *Connection, message []byte)
}

// Connection represents one WebSocket connection owned by a responder or resident.
type Connection struct {
	// Registry reference
	registry *Registry

	// WebSocket connection
	conn *websocket.Conn

	// Who owns this socket
	identity Identity

	// Rooms this connection is subscribed to (identity room included)
	rooms []string

	// Buffered channel of outbound messages. sendMu serializes queueing
	// against closeSend so broadcasts racing a disconnect become drops
	// instead of sends on a closed channel.
	send       chan []byte
	sendMu     sync.Mutex
	sendClosed bool

	// Inbound command handler (nil for push-only clients)
	handler MessageHandler

	// Configuration
	pongWait   time.Duration
	pingPeriod time.Duration
	writeWait  time.Duration

	// Logger
	logger log.Logger

	// Done signal
	done chan struct{}

	connectedAt time.Time
}

// NewConnection creates a new Connection instance. The connection joins its
// identity room plus the given extra rooms once registered.
func NewConnection(
	registry *Registry,
	conn *websocket.Conn,
	identity Identity,
	extraRooms []string,
	handler MessageHandler,
	pongWait time.Duration,
	pingPeriod time.Duration,
	writeWait time.Duration,
	logger log.Logger,
) *Connection {
	rooms := append([]string{identity.Key()}, extraRooms...)

	return &Connection{
		registry:    registry,
		conn:        conn,
		identity:    identity,
		rooms:       rooms,
		send:        make(chan []byte, 256),
		handler:     handler,
		pongWait:    pongWait,
		pingPeriod:  pingPeriod,
		writeWait:   writeWait,
		logger:      logger,
		done:        make(chan struct{}),
		connectedAt: time.Now(),
	}
}

// Identity returns the owner of this connection.
func (c *Connection) Identity() Identity {
	return c.identity
}

// Rooms returns the rooms this connection belongs to.
func (c *Connection) Rooms() []string {
	return c.rooms
}

// ConnectedAt returns when this socket was established.
func (c *Connection) ConnectedAt() time.Time {
	return c.connectedAt
}

// Send queues a message for delivery without blocking. Returns false when the
// message was dropped because the buffer is full or the connection has
// already been unregistered.
func (c *Connection) Send(message []byte) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.sendClosed {
		return false
	}

	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// closeSend closes the outbound queue exactly once. Concurrent Send calls
// observe the closed flag under the mutex and drop instead of panicking.
func (c *Connection) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	if c.sendClosed {
		return
	}
	c.sendClosed = true
	close(c.send)
}

// readPump pumps messages from the WebSocket connection to the handler
//
// The application runs readPump in a per-connection goroutine. The application
// ensures that there is at most one reader on a connection by executing all
// reads from this goroutine.
func (c *Connection) readPump() {
	defer func() {
		c.registry.unregister <- c
		c.conn.Close()
	}()

	// Set read deadline for pong messages
	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))

	// Set pong handler
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
		return nil
	})

	// Commands carry coordinates and free-text notes, so allow more than a
	// bare heartbeat frame
	c.conn.SetReadLimit(4096)

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Errorf(context.Background(), "WebSocket read error for %s: %v", c.identity.Key(), err)
			}
			break
		}

		if c.handler != nil {
			c.handler.HandleMessage(context.Background(), c, message)
		} else {
			c.logger.Debugf(context.Background(), "Ignoring inbound frame from push-only client %s", c.identity.Key())
		}
	}
}

// writePump pumps messages from the registry to the WebSocket connection
//
// A goroutine running writePump is started for each connection. The
// application ensures that there is at most one writer to a connection by
// executing all writes from this goroutine.
func (c *Connection) writePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			// Set write deadline
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))

			if !ok {
				// The registry closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			// Send ping message
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

// Start starts the connection's read and write pumps
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() {
	select {
	case <-c.done:
		// Already closed
		return
	default:
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	}
}
