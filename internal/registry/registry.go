package registry

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"dispatch-srv/pkg/log"
)

// PresenceNotifier is invoked when an identity gains its first connection or
// loses its last one. Callbacks must not block; they run on the registry loop.
type PresenceNotifier interface {
	OnIdentityOnline(identity Identity)
	OnIdentityOffline(identity Identity)
}

// Registry maintains the set of active connections grouped into rooms and
// fans messages out to them.
type Registry struct {
	// Room name -> member connections (one identity may hold several sockets)
	rooms map[string][]*Connection
	mu    sync.RWMutex

	// Channel for connection teardown, consumed by Run. Registration is
	// synchronous so an immediately dying socket can never have its
	// unregister processed before its register.
	unregister chan *Connection

	// Metrics
	totalConnections    atomic.Int64
	totalMessagesSent   atomic.Int64
	totalMessagesFailed atomic.Int64
	totalAlarmsRelayed  atomic.Int64

	// Configuration
	maxConnections int

	// Dependencies
	logger log.Logger

	// Context for graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	// Optional callback for presence transitions
	presenceNotifier PresenceNotifier
}

// NewRegistry creates a new Registry instance
func NewRegistry(logger log.Logger, maxConnections int) *Registry {
	ctx, cancel := context.WithCancel(context.Background())

	return &Registry{
		rooms:          make(map[string][]*Connection),
		unregister:     make(chan *Connection, 100),
		maxConnections: maxConnections,
		logger:         logger,
		ctx:            ctx,
		cancel:         cancel,
		done:           make(chan struct{}),
	}
}

// Run starts the registry's main loop
func (r *Registry) Run() {
	defer close(r.done)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Info(context.Background(), "Registry shutting down...")
			r.closeAllConnections()
			return

		case conn := <-r.unregister:
			r.unregisterConnection(conn)
		}
	}
}

// Register adds a connection to its rooms before any pump starts, so the
// deferred unregister from readPump always finds it.
func (r *Registry) Register(conn *Connection) {
	r.registerConnection(conn)
}

// registerConnection adds a connection to all of its rooms
func (r *Registry) registerConnection(conn *Connection) {
	r.mu.Lock()

	// Check max connections limit
	if int(r.totalConnections.Load()) >= r.maxConnections {
		r.mu.Unlock()
		r.logger.Warnf(context.Background(), "Max connections reached, rejecting %s", conn.identity.Key())
		go conn.Close()
		return
	}

	identityKey := conn.identity.Key()
	firstForIdentity := len(r.rooms[identityKey]) == 0

	for _, room := range conn.rooms {
		r.rooms[room] = append(r.rooms[room], conn)
	}
	r.totalConnections.Add(1)

	r.logger.Infof(context.Background(),
		"Client connected: %s (total connections: %d, identity connections: %d, rooms: %s)",
		identityKey,
		r.totalConnections.Load(),
		len(r.rooms[identityKey]),
		strings.Join(conn.rooms, ","),
	)
	r.mu.Unlock()

	if firstForIdentity && r.presenceNotifier != nil {
		r.presenceNotifier.OnIdentityOnline(conn.identity)
	}
}

// unregisterConnection removes a connection from all of its rooms
func (r *Registry) unregisterConnection(conn *Connection) {
	r.mu.Lock()

	identityKey := conn.identity.Key()
	found := false

	for _, room := range conn.rooms {
		members := r.rooms[room]
		for i, c := range members {
			if c == conn {
				r.rooms[room] = append(members[:i], members[i+1:]...)
				if len(r.rooms[room]) == 0 {
					delete(r.rooms, room)
				}
				found = true
				break
			}
		}
	}

	if !found {
		// Already unregistered, nothing to do
		r.mu.Unlock()
		return
	}

	r.totalConnections.Add(-1)
	conn.closeSend()

	lastForIdentity := len(r.rooms[identityKey]) == 0
	if lastForIdentity {
		r.logger.Infof(context.Background(), "Client disconnected (all sockets closed): %s", identityKey)
	} else {
		r.logger.Infof(context.Background(),
			"Client socket closed: %s (remaining connections: %d)",
			identityKey,
			len(r.rooms[identityKey]),
		)
	}
	r.mu.Unlock()

	if lastForIdentity && r.presenceNotifier != nil {
		r.presenceNotifier.OnIdentityOffline(conn.identity)
	}
}

// SendToRoom sends a message to every connection in a room. Returns the number
// of sockets the message was queued on. Empty rooms are skipped silently.
func (r *Registry) SendToRoom(room string, data []byte) int {
	r.mu.RLock()
	members := make([]*Connection, len(r.rooms[room]))
	copy(members, r.rooms[room])
	r.mu.RUnlock()

	if len(members) == 0 {
		return 0
	}

	sentCount := 0
	for _, conn := range members {
		if conn.Send(data) {
			sentCount++
		} else {
			// Connection's send buffer is full, skip
			r.logger.Warnf(context.Background(), "Failed to send message to %s in room %s (buffer full)", conn.identity.Key(), room)
			r.totalMessagesFailed.Add(1)
		}
	}

	r.totalMessagesSent.Add(int64(sentCount))
	return sentCount
}

// SendToIdentity sends a message to every socket a responder or resident holds.
func (r *Registry) SendToIdentity(identity Identity, data []byte) int {
	return r.SendToRoom(identity.Key(), data)
}

// IsOnline reports whether the identity holds at least one live socket.
func (r *Registry) IsOnline(identity Identity) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms[identity.Key()]) > 0
}

// CountInRoom returns the number of connections in a room.
func (r *Registry) CountInRoom(room string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms[room])
}

// OnlineResponders returns the IDs of responders holding at least one socket.
func (r *Registry) OnlineResponders() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prefix := string(KindResponder) + ":"
	ids := make([]int64, 0)
	for room, members := range r.rooms {
		if len(members) > 0 && strings.HasPrefix(room, prefix) {
			ids = append(ids, members[0].identity.ID)
		}
	}
	return ids
}

// RecordAlarmRelay bumps the alarm delivery counter.
func (r *Registry) RecordAlarmRelay() {
	r.totalAlarmsRelayed.Add(1)
}

// closeAllConnections closes all active connections
func (r *Registry) closeAllConnections() {
	r.mu.Lock()
	defer r.mu.Unlock()

	closed := make(map[*Connection]struct{})
	for room, members := range r.rooms {
		for _, conn := range members {
			if _, ok := closed[conn]; ok {
				continue
			}
			closed[conn] = struct{}{}
			conn.Close()
		}
		r.logger.Infof(context.Background(), "Closed all connections in room: %s", room)
	}

	r.rooms = make(map[string][]*Connection)
	r.totalConnections.Store(0)
}

// GetStats returns registry statistics
func (r *Registry) GetStats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	responderPrefix := string(KindResponder) + ":"
	userPrefix := string(KindUser) + ":"

	onlineResponders := 0
	onlineUsers := 0
	for room, members := range r.rooms {
		if len(members) == 0 {
			continue
		}
		switch {
		case strings.HasPrefix(room, responderPrefix):
			onlineResponders++
		case strings.HasPrefix(room, userPrefix):
			onlineUsers++
		}
	}

	return Stats{
		ActiveConnections:   int(r.totalConnections.Load()),
		OnlineResponders:    onlineResponders,
		OnlineUsers:         onlineUsers,
		TotalMessagesSent:   r.totalMessagesSent.Load(),
		TotalMessagesFailed: r.totalMessagesFailed.Load(),
		TotalAlarmsRelayed:  r.totalAlarmsRelayed.Load(),
	}
}

// SetPresenceNotifier sets the callback for presence transitions
func (r *Registry) SetPresenceNotifier(notifier PresenceNotifier) {
	r.presenceNotifier = notifier
}

// Shutdown gracefully shuts down the registry
func (r *Registry) Shutdown(ctx context.Context) error {
	r.cancel()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats represents registry statistics
type Stats struct {
	ActiveConnections   int   `json:"active_connections"`
	OnlineResponders    int   `json:"online_responders"`
	OnlineUsers         int   `json:"online_users"`
	TotalMessagesSent   int64 `json:"total_messages_sent"`
	TotalMessagesFailed int64 `json:"total_messages_failed"`
	TotalAlarmsRelayed  int64 `json:"total_alarms_relayed"`
}
