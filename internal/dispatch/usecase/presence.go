package usecase

import (
	"context"

	"dispatch-srv/internal/dispatch"
	"dispatch-srv/internal/event"
	"dispatch-srv/internal/model"
	"dispatch-srv/pkg/geo"
)

// CheckIn starts a duty shift, optionally seeding the responder's position,
// and announces the duty change to every connected responder.
func (uc *usecase) CheckIn(ctx context.Context, ip dispatch.CheckInInput) (model.Responder, error) {
	if (ip.Latitude == nil) != (ip.Longitude == nil) {
		return model.Responder{}, dispatch.ErrInvalidInput
	}
	if ip.Latitude != nil && !geo.ValidCoordinates(*ip.Latitude, *ip.Longitude) {
		return model.Responder{}, dispatch.ErrInvalidInput
	}

	r, err := uc.responders.SetOnDuty(ctx, ip.ResponderID, true, ip.Latitude, ip.Longitude)
	if err != nil {
		if err == dispatch.ErrResponderNotFound {
			return model.Responder{}, err
		}
		uc.l.Errorf(ctx, "internal.dispatch.usecase.CheckIn: %v", err)
		return model.Responder{}, err
	}

	uc.broadcaster.ToAllResponders(event.New(event.TypeDutyStatus, event.PresencePayload{
		ResponderID: r.ID,
		Name:        r.Name,
		IsOnline:    true,
		IsOnDuty:    true,
	}))

	return r, nil
}

// CheckOut ends the duty shift.
func (uc *usecase) CheckOut(ctx context.Context, responderID int64) (model.Responder, error) {
	r, err := uc.responders.SetOnDuty(ctx, responderID, false, nil, nil)
	if err != nil {
		if err == dispatch.ErrResponderNotFound {
			return model.Responder{}, err
		}
		uc.l.Errorf(ctx, "internal.dispatch.usecase.CheckOut: %v", err)
		return model.Responder{}, err
	}

	uc.broadcaster.ToAllResponders(event.New(event.TypeDutyStatus, event.PresencePayload{
		ResponderID: r.ID,
		Name:        r.Name,
		IsOnline:    true,
		IsOnDuty:    false,
	}))

	return r, nil
}

// UpdateLocation records a live position report. Positions feed the
// nearest-responder ranking on the next alarm.
func (uc *usecase) UpdateLocation(ctx context.Context, ip dispatch.UpdateLocationInput) error {
	if !geo.ValidCoordinates(ip.Latitude, ip.Longitude) {
		return dispatch.ErrInvalidInput
	}

	if err := uc.responders.UpdateLocation(ctx, ip.ResponderID, ip.Latitude, ip.Longitude); err != nil {
		if err == dispatch.ErrResponderNotFound {
			return err
		}
		uc.l.Errorf(ctx, "internal.dispatch.usecase.UpdateLocation: %v", err)
		return err
	}

	return nil
}
