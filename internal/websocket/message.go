package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"dispatch-srv/internal/dispatch"
	"dispatch-srv/internal/event"
	"dispatch-srv/internal/registry"
	pkgLog "dispatch-srv/pkg/log"
)

var errUnknownAction = errors.New("unknown action")

// decodeBody tolerates an absent data field; commands with no payload are
// valid frames.
func decodeBody(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

// parseCommand decodes one inbound frame. A frame that is not JSON or has no
// action is malformed; a well-formed frame with an unrecognized action is an
// unknown command (those get an error reply, malformed frames do not).
func parseCommand(message []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(message, &cmd); err != nil {
		return Command{}, err
	}
	if cmd.Action == "" {
		return Command{}, errors.New("missing action")
	}

	switch cmd.Action {
	case ActionAcceptEmergency, ActionArriveAtEmergency, ActionCompleteEmergency,
		ActionUpdateLocation, ActionCheckIn, ActionCheckOut, ActionGetUpdates:
		return cmd, nil
	default:
		return cmd, errUnknownAction
	}
}

// CommandHandler turns inbound responder frames into dispatch operations.
// It implements registry.MessageHandler.
type CommandHandler struct {
	uc     dispatch.UseCase
	logger pkgLog.Logger
}

func NewCommandHandler(uc dispatch.UseCase, logger pkgLog.Logger) *CommandHandler {
	return &CommandHandler{uc: uc, logger: logger}
}

// HandleMessage runs each command in its own goroutine and replies on the
// connection's send channel. Malformed frames are dropped with a warning;
// the socket never closes over a bad command.
func (h *CommandHandler) HandleMessage(ctx context.Context, conn *registry.Connection, message []byte) {
	cmd, err := parseCommand(message)
	if err != nil {
		if errors.Is(err, errUnknownAction) {
			h.reply(conn, event.FailResult(cmd.RequestID, "unknown action: "+string(cmd.Action)))
			return
		}
		h.logger.Warnf(ctx, "internal.websocket.CommandHandler: malformed frame from %s: %v", conn.Identity().Key(), err)
		return
	}

	if conn.Identity().Kind != registry.KindResponder {
		h.reply(conn, event.FailResult(cmd.RequestID, "commands require a responder connection"))
		return
	}

	go h.run(ctx, conn, cmd)
}

func (h *CommandHandler) run(ctx context.Context, conn *registry.Connection, cmd Command) {
	responderID := conn.Identity().ID

	var (
		data any
		err  error
	)

	switch cmd.Action {
	case ActionAcceptEmergency:
		var body emergencyRef
		if err = decodeBody(cmd.Data, &body); err == nil {
			data, err = h.uc.Accept(ctx, dispatch.ActionInput{ResponderID: responderID, EmergencyID: body.EmergencyID})
		}

	case ActionArriveAtEmergency:
		var body emergencyRef
		if err = decodeBody(cmd.Data, &body); err == nil {
			data, err = h.uc.Arrive(ctx, dispatch.ActionInput{ResponderID: responderID, EmergencyID: body.EmergencyID})
		}

	case ActionCompleteEmergency:
		var body completeBody
		if err = decodeBody(cmd.Data, &body); err == nil {
			data, err = h.uc.Complete(ctx, dispatch.CompleteInput{
				ResponderID: responderID,
				EmergencyID: body.EmergencyID,
				ActionTaken: body.ActionTaken,
				Notes:       body.Notes,
			})
		}

	case ActionUpdateLocation:
		var body locationBody
		if err = decodeBody(cmd.Data, &body); err == nil {
			err = h.uc.UpdateLocation(ctx, dispatch.UpdateLocationInput{
				ResponderID: responderID,
				Latitude:    body.Latitude,
				Longitude:   body.Longitude,
			})
		}

	case ActionCheckIn:
		var body checkInBody
		if err = decodeBody(cmd.Data, &body); err == nil {
			data, err = h.uc.CheckIn(ctx, dispatch.CheckInInput{
				ResponderID: responderID,
				Latitude:    body.Latitude,
				Longitude:   body.Longitude,
			})
		}

	case ActionCheckOut:
		data, err = h.uc.CheckOut(ctx, responderID)

	case ActionGetUpdates:
		data, err = h.uc.Snapshot(ctx, responderID)
	}

	if err != nil {
		h.reply(conn, event.FailResult(cmd.RequestID, commandError(err)))
		return
	}

	h.reply(conn, event.OKResult(cmd.RequestID, string(cmd.Action)+" ok", data))
}

// commandError renders a business failure for the socket reply. Invalid
// transitions echo the assignment's current state so clients can resync.
func commandError(err error) string {
	if ite, ok := dispatch.IsInvalidTransition(err); ok {
		return ite.Error() + " (current status: " + string(ite.Current) + ")"
	}
	return err.Error()
}

func (h *CommandHandler) reply(conn *registry.Connection, result event.Result) {
	data, err := result.Marshal()
	if err != nil {
		h.logger.Errorf(context.Background(), "internal.websocket.CommandHandler: marshal reply: %v", err)
		return
	}
	if !conn.Send(data) {
		h.logger.Warnf(context.Background(), "internal.websocket.CommandHandler: reply dropped for %s (buffer full)", conn.Identity().Key())
	}
}
