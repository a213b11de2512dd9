package websocket

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"dispatch-srv/internal/dispatch"
	"dispatch-srv/internal/event"
	"dispatch-srv/internal/model"
	"dispatch-srv/internal/registry"
	pkgJWT "dispatch-srv/pkg/jwt"
	pkgLog "dispatch-srv/pkg/log"
	"dispatch-srv/pkg/scope"
)

// isLocalhostOrigin checks if an origin is localhost or 127.0.0.1
func isLocalhostOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}

	hostname := u.Hostname()
	return hostname == "localhost" || hostname == "127.0.0.1"
}

// createUpgrader creates a WebSocket upgrader with environment-aware origin checks
func createUpgrader(environment string, allowedOrigins []string) websocket.Upgrader {
	if environment == "" {
		environment = "production"
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}

	upgrader.CheckOrigin = func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		for _, allowed := range allowedOrigins {
			if origin == allowed {
				return true
			}
		}
		if environment != "production" {
			return isLocalhostOrigin(origin)
		}
		return false
	}

	return upgrader
}

// Handler upgrades and authenticates live connections.
type Handler struct {
	registry   *registry.Registry
	commands   *CommandHandler
	jwtManager pkgJWT.Manager
	responders dispatch.ResponderDirectory
	users      dispatch.UserDirectory
	logger     pkgLog.Logger
	wsConfig   WSConfig
	upgrader   websocket.Upgrader
}

func NewHandler(
	reg *registry.Registry,
	commands *CommandHandler,
	jwtManager pkgJWT.Manager,
	responders dispatch.ResponderDirectory,
	users dispatch.UserDirectory,
	logger pkgLog.Logger,
	wsConfig WSConfig,
	environment string,
	allowedOrigins []string,
) *Handler {
	return &Handler{
		registry:   reg,
		commands:   commands,
		jwtManager: jwtManager,
		responders: responders,
		users:      users,
		logger:     logger,
		wsConfig:   wsConfig,
		upgrader:   createUpgrader(environment, allowedOrigins),
	}
}

// HandleWebSocket authenticates the JWT, resolves the connection identity
// from the responderId/userId query, and hands the socket to the registry.
// An identity that fails directory validation gets the transport closed with
// no error event on it.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	ctx := c.Request.Context()

	token := c.Query("token")
	if token == "" {
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	if token == "" {
		h.logger.Warn(ctx, "WebSocket connection rejected: missing token")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authentication token"})
		return
	}

	claims, err := h.jwtManager.VerifyToken(token)
	if err != nil {
		h.logger.Warnf(ctx, "WebSocket connection rejected: invalid token - %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	identity, ok := h.parseIdentity(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "responderId or userId query parameter required"})
		return
	}

	if !h.authorize(claims, identity) {
		h.logger.Warnf(ctx, "WebSocket connection rejected: token subject %s cannot attach as %s", claims.Subject, identity.Key())
		c.JSON(http.StatusForbidden, gin.H{"error": "token does not match the declared identity"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Errorf(ctx, "WebSocket upgrade failed: %v", err)
		return
	}

	rooms, ok := h.validate(ctx, identity, claims.RtRw)
	if !ok {
		// Unknown or inactive identity: close the transport, send nothing
		conn.Close()
		return
	}

	var handler registry.MessageHandler
	if identity.Kind == registry.KindResponder {
		handler = h.commands
	}

	connection := registry.NewConnection(
		h.registry,
		conn,
		identity,
		rooms,
		handler,
		h.wsConfig.PongWait,
		h.wsConfig.PingPeriod,
		h.wsConfig.WriteWait,
		h.logger,
	)

	h.registry.Register(connection)
	connection.Start()

	h.welcome(connection)
}

// authorize binds the verified token to the declared identity: the subject
// must own it and the role must match its kind. Admin tokens may attach as
// anyone.
func (h *Handler) authorize(claims *pkgJWT.Claims, identity registry.Identity) bool {
	if claims.Role == scope.RoleAdmin {
		return true
	}

	switch identity.Kind {
	case registry.KindResponder:
		if claims.Role != scope.RoleResponder {
			return false
		}
	case registry.KindUser:
		if claims.Role != scope.RoleResident {
			return false
		}
	}

	subject, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return false
	}
	return subject == identity.ID
}

func (h *Handler) parseIdentity(c *gin.Context) (registry.Identity, bool) {
	if raw := c.Query("responderId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return registry.Identity{}, false
		}
		return registry.Identity{Kind: registry.KindResponder, ID: id}, true
	}
	if raw := c.Query("userId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return registry.Identity{}, false
		}
		return registry.Identity{Kind: registry.KindUser, ID: id}, true
	}
	return registry.Identity{}, false
}

// validate confirms the identity against the durable directory and returns
// the extra rooms the connection joins.
func (h *Handler) validate(ctx context.Context, identity registry.Identity, rtRw string) ([]string, bool) {
	switch identity.Kind {
	case registry.KindResponder:
		r, err := h.responders.Detail(ctx, identity.ID)
		if err != nil {
			h.logger.Warnf(ctx, "WebSocket closed: unknown responder %d", identity.ID)
			return nil, false
		}
		if r.Status != model.ResponderActive {
			h.logger.Warnf(ctx, "WebSocket closed: responder %d is %s", identity.ID, r.Status)
			return nil, false
		}
		return []string{registry.RoomAllResponders}, true

	case registry.KindUser:
		u, err := h.users.Detail(ctx, identity.ID)
		if err != nil || !u.IsActive {
			h.logger.Warnf(ctx, "WebSocket closed: unknown or inactive user %d", identity.ID)
			return nil, false
		}
		rooms := []string{registry.RoomGeneral}
		if rtRw == "" {
			rtRw = u.RtRw
		}
		if rtRw != "" {
			rooms = append(rooms, registry.GroupRoom(rtRw))
		}
		return rooms, true
	}

	return nil, false
}

func (h *Handler) welcome(conn *registry.Connection) {
	ev := event.New(event.TypeConnected, welcomePayload{
		Identity:    conn.Identity().Key(),
		Rooms:       conn.Rooms(),
		ConnectedAt: conn.ConnectedAt(),
	})
	data, err := ev.Marshal()
	if err != nil {
		h.logger.Errorf(context.Background(), "internal.websocket.Handler: marshal welcome: %v", err)
		return
	}
	conn.Send(data)
}
