package usecase

import (
	"context"
	"time"

	"dispatch-srv/internal/dispatch"
	"dispatch-srv/internal/event"
	"dispatch-srv/internal/model"
	"dispatch-srv/internal/notification"
)

// Accept records a responder taking an emergency. The first accept wins the
// insert; a responder who was pre-dispatched transitions their DISPATCHED row
// to EN_ROUTE; any later accept gets the existing row back unchanged.
func (uc *usecase) Accept(ctx context.Context, ip dispatch.ActionInput) (dispatch.AssignmentOutput, error) {
	r, err := uc.responders.Detail(ctx, ip.ResponderID)
	if err != nil {
		if err == dispatch.ErrResponderNotFound {
			return dispatch.AssignmentOutput{}, err
		}
		uc.l.Errorf(ctx, "internal.dispatch.usecase.Accept: %v", err)
		return dispatch.AssignmentOutput{}, err
	}

	e, err := uc.emergencies.Detail(ctx, ip.EmergencyID)
	if err != nil {
		if err == dispatch.ErrEmergencyNotFound {
			return dispatch.AssignmentOutput{}, err
		}
		uc.l.Errorf(ctx, "internal.dispatch.usecase.Accept: %v", err)
		return dispatch.AssignmentOutput{}, err
	}
	if e.Terminal() {
		return dispatch.AssignmentOutput{}, dispatch.ErrEmergencyClosed
	}

	responseTime := int64(time.Since(e.CreatedAt).Seconds())

	a, created, err := uc.assignments.Create(ctx, model.Assignment{
		EmergencyID:         e.ID,
		ResponderID:         r.ID,
		Status:              model.AssignmentEnRoute,
		ResponseTimeSeconds: responseTime,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.dispatch.usecase.Accept: %v", err)
		return dispatch.AssignmentOutput{}, err
	}

	if !created {
		if a.Status != model.AssignmentDispatched {
			// Duplicate accept resolves to the existing engagement
			return dispatch.AssignmentOutput{Assignment: a, AlreadyAssigned: true}, nil
		}
		// Pre-dispatched responder confirming the dispatch
		a.Status = model.AssignmentEnRoute
		a.ResponseTimeSeconds = responseTime
		a, err = uc.assignments.Update(ctx, a)
		if err != nil {
			uc.l.Errorf(ctx, "internal.dispatch.usecase.Accept: %v", err)
			return dispatch.AssignmentOutput{}, err
		}
	}

	if err := uc.emergencies.SetResponderAssigned(ctx, e.ID, true); err != nil {
		uc.l.Errorf(ctx, "internal.dispatch.usecase.Accept: mark assigned: %v", err)
	}

	uc.notifyReporter(ctx, e, "Responder en route",
		r.Name+" has accepted your emergency report and is on the way")

	uc.broadcaster.ToAllResponders(event.New(event.TypeAssignmentAccepted, event.AssignmentPayload{
		EmergencyID: e.ID,
		ResponderID: r.ID,
		Status:      string(model.AssignmentEnRoute),
	}))

	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.l.Warnf(ctx, "internal.dispatch.usecase.Accept: cache invalidate: %v", err)
	}

	return dispatch.AssignmentOutput{Assignment: a}, nil
}

// Arrive stamps on-scene arrival. Only an EN_ROUTE assignment may arrive.
func (uc *usecase) Arrive(ctx context.Context, ip dispatch.ActionInput) (dispatch.AssignmentOutput, error) {
	a, err := uc.assignments.GetByResponderAndEmergency(ctx, ip.ResponderID, ip.EmergencyID)
	if err != nil {
		if err == dispatch.ErrAssignmentNotFound {
			return dispatch.AssignmentOutput{}, err
		}
		uc.l.Errorf(ctx, "internal.dispatch.usecase.Arrive: %v", err)
		return dispatch.AssignmentOutput{}, err
	}

	if a.Status != model.AssignmentEnRoute {
		return dispatch.AssignmentOutput{}, &dispatch.InvalidTransitionError{
			Current:   a.Status,
			Attempted: model.AssignmentArrived,
		}
	}

	now := time.Now()
	a.Status = model.AssignmentArrived
	a.ArrivedAt = &now

	a, err = uc.assignments.Update(ctx, a)
	if err != nil {
		uc.l.Errorf(ctx, "internal.dispatch.usecase.Arrive: %v", err)
		return dispatch.AssignmentOutput{}, err
	}

	if e, err := uc.emergencies.Detail(ctx, a.EmergencyID); err == nil {
		uc.notifyReporter(ctx, e, "Responder arrived",
			"A responder has arrived at your reported location")
	}

	uc.broadcaster.ToAllResponders(event.New(event.TypeAssignmentArrived, event.AssignmentPayload{
		EmergencyID: a.EmergencyID,
		ResponderID: a.ResponderID,
		Status:      string(model.AssignmentArrived),
	}))

	return dispatch.AssignmentOutput{Assignment: a}, nil
}

// Complete closes out an assignment with a handling report, resolves the
// emergency, and credits the responder.
func (uc *usecase) Complete(ctx context.Context, ip dispatch.CompleteInput) (dispatch.AssignmentOutput, error) {
	if ip.ActionTaken == "" {
		return dispatch.AssignmentOutput{}, dispatch.ErrInvalidInput
	}

	a, err := uc.assignments.GetByResponderAndEmergency(ctx, ip.ResponderID, ip.EmergencyID)
	if err != nil {
		if err == dispatch.ErrAssignmentNotFound {
			return dispatch.AssignmentOutput{}, err
		}
		uc.l.Errorf(ctx, "internal.dispatch.usecase.Complete: %v", err)
		return dispatch.AssignmentOutput{}, err
	}

	if a.Status != model.AssignmentArrived && a.Status != model.AssignmentHandling {
		return dispatch.AssignmentOutput{}, &dispatch.InvalidTransitionError{
			Current:   a.Status,
			Attempted: model.AssignmentResolved,
		}
	}

	now := time.Now()
	a.Status = model.AssignmentResolved
	a.CompletedAt = &now
	a.ActionTaken = ip.ActionTaken
	a.Notes = ip.Notes

	a, err = uc.assignments.Update(ctx, a)
	if err != nil {
		uc.l.Errorf(ctx, "internal.dispatch.usecase.Complete: %v", err)
		return dispatch.AssignmentOutput{}, err
	}

	if err := uc.emergencies.UpdateStatus(ctx, a.EmergencyID, model.EmergencyResolved); err != nil {
		uc.l.Errorf(ctx, "internal.dispatch.usecase.Complete: resolve emergency: %v", err)
		return dispatch.AssignmentOutput{}, err
	}

	if err := uc.responders.IncrementEmergencyCount(ctx, a.ResponderID); err != nil {
		uc.l.Warnf(ctx, "internal.dispatch.usecase.Complete: emergency count: %v", err)
	}

	if e, err := uc.emergencies.Detail(ctx, a.EmergencyID); err == nil {
		uc.notifyReporter(ctx, e, "Emergency resolved",
			"Your emergency has been handled: "+ip.ActionTaken)
	}

	uc.broadcaster.ToAllResponders(event.New(event.TypeAssignmentResolved, event.AssignmentPayload{
		EmergencyID: a.EmergencyID,
		ResponderID: a.ResponderID,
		Status:      string(model.AssignmentResolved),
		ActionTaken: ip.ActionTaken,
	}))

	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.l.Warnf(ctx, "internal.dispatch.usecase.Complete: cache invalidate: %v", err)
	}

	return dispatch.AssignmentOutput{Assignment: a}, nil
}

// Cancel closes an emergency and cancels every assignment still in flight.
func (uc *usecase) Cancel(ctx context.Context, emergencyID int64) (model.Emergency, error) {
	return uc.closeEmergency(ctx, emergencyID, model.EmergencyCancelled, model.AssignmentCancelled)
}

// ResolveAll resolves an emergency administratively, closing every active
// assignment as RESOLVED.
func (uc *usecase) ResolveAll(ctx context.Context, emergencyID int64) (model.Emergency, error) {
	e, err := uc.closeEmergency(ctx, emergencyID, model.EmergencyResolved, model.AssignmentResolved)
	if err != nil {
		return model.Emergency{}, err
	}

	uc.notifyReporter(ctx, e, "Emergency resolved",
		"Your emergency report has been marked resolved")

	return e, nil
}

func (uc *usecase) closeEmergency(
	ctx context.Context,
	emergencyID int64,
	emergencyStatus model.EmergencyStatus,
	assignmentStatus model.AssignmentStatus,
) (model.Emergency, error) {
	e, err := uc.emergencies.Detail(ctx, emergencyID)
	if err != nil {
		if err == dispatch.ErrEmergencyNotFound {
			return model.Emergency{}, err
		}
		uc.l.Errorf(ctx, "internal.dispatch.usecase.closeEmergency: %v", err)
		return model.Emergency{}, err
	}
	if e.Terminal() {
		return model.Emergency{}, dispatch.ErrEmergencyClosed
	}

	as, err := uc.assignments.ListByEmergency(ctx, e.ID)
	if err != nil {
		uc.l.Errorf(ctx, "internal.dispatch.usecase.closeEmergency: %v", err)
		return model.Emergency{}, err
	}

	now := time.Now()
	for _, a := range as {
		if !a.Active() {
			continue
		}
		a.Status = assignmentStatus
		a.CompletedAt = &now
		if _, err := uc.assignments.Update(ctx, a); err != nil {
			uc.l.Errorf(ctx, "internal.dispatch.usecase.closeEmergency: assignment %d: %v", a.ID, err)
			continue
		}

		uc.broadcaster.ToResponder(a.ResponderID, event.New(event.TypeAssignmentResolved, event.AssignmentPayload{
			EmergencyID: e.ID,
			ResponderID: a.ResponderID,
			Status:      string(assignmentStatus),
		}))
	}

	if err := uc.emergencies.UpdateStatus(ctx, e.ID, emergencyStatus); err != nil {
		uc.l.Errorf(ctx, "internal.dispatch.usecase.closeEmergency: %v", err)
		return model.Emergency{}, err
	}
	e.Status = emergencyStatus

	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.l.Warnf(ctx, "internal.dispatch.usecase.closeEmergency: cache invalidate: %v", err)
	}

	return e, nil
}

// notifyReporter sends a durable notification to the emergency's reporter.
// Anonymous reports have no reporter; notification failures never propagate.
func (uc *usecase) notifyReporter(ctx context.Context, e model.Emergency, title, message string) {
	if e.UserID == nil {
		return
	}

	if _, err := uc.notifier.ToUser(ctx, notification.ToUserInput{
		UserID:            *e.UserID,
		Type:              model.NotificationEmergency,
		Title:             title,
		Message:           message,
		RelatedEntityID:   formatID(e.ID),
		RelatedEntityType: "emergency",
	}); err != nil {
		uc.l.Warnf(ctx, "internal.dispatch.usecase.notifyReporter: %v", err)
	}
}
