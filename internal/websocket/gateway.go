package websocket

import (
	"context"

	"dispatch-srv/internal/event"
	"dispatch-srv/internal/registry"
	pkgLog "dispatch-srv/pkg/log"
)

// Gateway adapts the connection registry to the event-typed push interfaces
// the usecases consume (dispatch.Broadcaster, notification.Pusher) and feeds
// presence transitions back out as events.
type Gateway struct {
	registry *registry.Registry
	logger   pkgLog.Logger
}

func NewGateway(reg *registry.Registry, logger pkgLog.Logger) *Gateway {
	g := &Gateway{registry: reg, logger: logger}
	reg.SetPresenceNotifier(g)
	return g
}

func (g *Gateway) ToAllResponders(ev event.Event) int {
	if ev.Type == event.TypeAlarm {
		g.registry.RecordAlarmRelay()
	}
	return g.send(registry.RoomAllResponders, ev)
}

func (g *Gateway) ToResponder(responderID int64, ev event.Event) int {
	return g.send(registry.ResponderRoom(responderID), ev)
}

func (g *Gateway) PushToUser(userID int64, ev event.Event) int {
	return g.send(registry.UserRoom(userID), ev)
}

func (g *Gateway) ToGeneral(ev event.Event) int {
	return g.send(registry.RoomGeneral, ev)
}

func (g *Gateway) send(room string, ev event.Event) int {
	data, err := ev.Marshal()
	if err != nil {
		g.logger.Errorf(context.Background(), "internal.websocket.Gateway: marshal %s event: %v", ev.Type, err)
		return 0
	}
	return g.registry.SendToRoom(room, data)
}

// OnIdentityOnline announces a responder's first socket to the rest of the
// responder pool. Resident presence is not broadcast.
func (g *Gateway) OnIdentityOnline(identity registry.Identity) {
	if identity.Kind != registry.KindResponder {
		return
	}
	g.ToAllResponders(event.New(event.TypePresenceOnline, event.PresencePayload{
		ResponderID: identity.ID,
		IsOnline:    true,
	}))
}

func (g *Gateway) OnIdentityOffline(identity registry.Identity) {
	if identity.Kind != registry.KindResponder {
		return
	}
	g.ToAllResponders(event.New(event.TypePresenceOffline, event.PresencePayload{
		ResponderID: identity.ID,
		IsOnline:    false,
	}))
}
