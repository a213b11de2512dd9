package usecase

import (
	"context"
	"sort"
	"strconv"

	"dispatch-srv/internal/dispatch"
	"dispatch-srv/internal/event"
	"dispatch-srv/internal/model"
	"dispatch-srv/internal/notification"
	"dispatch-srv/pkg/geo"
)

const (
	maxDispatchedResponders = 3
	alarmSoundURL           = "/sounds/emergency-alarm.mp3"
	dispatchTypeNearest     = "NEAREST"
)

// Report stores an SOS intake and immediately raises the alarm for it.
func (uc *usecase) Report(ctx context.Context, ip dispatch.ReportInput) (dispatch.ReportOutput, error) {
	if ip.Type == "" {
		return dispatch.ReportOutput{}, dispatch.ErrInvalidInput
	}
	// A report carries either both coordinates or none
	if (ip.Latitude == nil) != (ip.Longitude == nil) {
		return dispatch.ReportOutput{}, dispatch.ErrInvalidInput
	}
	if ip.Latitude != nil && !geo.ValidCoordinates(*ip.Latitude, *ip.Longitude) {
		return dispatch.ReportOutput{}, dispatch.ErrInvalidInput
	}

	severity := ip.Severity
	if severity == "" {
		severity = model.SeverityMedium
	}

	e, err := uc.emergencies.Create(ctx, model.Emergency{
		Type:      ip.Type,
		Details:   ip.Details,
		Location:  ip.Location,
		Latitude:  ip.Latitude,
		Longitude: ip.Longitude,
		Severity:  severity,
		Status:    model.EmergencyActive,
		UserID:    ip.UserID,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.dispatch.usecase.Report: %v", err)
		return dispatch.ReportOutput{}, err
	}

	alarm, err := uc.RaiseAlarm(ctx, e.ID)
	if err != nil {
		uc.l.Errorf(ctx, "internal.dispatch.usecase.Report: %v", err)
		return dispatch.ReportOutput{}, err
	}

	// Acknowledge the reporter; delivery problems never fail the report
	if ip.UserID != nil {
		if _, err := uc.notifier.ToUser(ctx, notification.ToUserInput{
			UserID:            *ip.UserID,
			Type:              model.NotificationEmergency,
			Title:             "Emergency reported",
			Message:           "Your emergency report has been received and responders are being alerted",
			RelatedEntityID:   formatID(e.ID),
			RelatedEntityType: "emergency",
		}); err != nil {
			uc.l.Warnf(ctx, "internal.dispatch.usecase.Report: reporter ack failed: %v", err)
		}
	}

	return dispatch.ReportOutput{Emergency: e, Alarm: alarm}, nil
}

// RaiseAlarm fans an emergency out to every connected responder and dispatches
// the nearest on-duty ones. The alarm fires at most once per emergency; the
// store-level flip decides the winner under concurrent raises.
func (uc *usecase) RaiseAlarm(ctx context.Context, emergencyID int64) (dispatch.RaiseAlarmOutput, error) {
	e, err := uc.emergencies.Detail(ctx, emergencyID)
	if err != nil {
		if err == dispatch.ErrEmergencyNotFound {
			return dispatch.RaiseAlarmOutput{}, err
		}
		uc.l.Errorf(ctx, "internal.dispatch.usecase.RaiseAlarm: %v", err)
		return dispatch.RaiseAlarmOutput{}, err
	}

	if e.Terminal() {
		return dispatch.RaiseAlarmOutput{}, dispatch.ErrEmergencyClosed
	}

	won, err := uc.emergencies.MarkAlarmSent(ctx, e.ID)
	if err != nil {
		uc.l.Errorf(ctx, "internal.dispatch.usecase.RaiseAlarm: %v", err)
		return dispatch.RaiseAlarmOutput{}, err
	}
	if !won {
		// A concurrent or earlier raise already broadcast this alarm
		return dispatch.RaiseAlarmOutput{EmergencyID: e.ID, AlreadySent: true}, nil
	}

	payload := uc.alarmPayload(ctx, e)
	delivered := uc.broadcaster.ToAllResponders(event.New(event.TypeAlarm, payload))
	uc.l.Infof(ctx, "Emergency alarm %d broadcast to %d responder sockets", e.ID, delivered)

	dispatched := uc.dispatchNearest(ctx, e, payload)

	// Telemetry and cache refresh are advisory after the broadcast
	if err := uc.cache.RecordAlarmDelivery(ctx, e.ID, delivered); err != nil {
		uc.l.Warnf(ctx, "internal.dispatch.usecase.RaiseAlarm: telemetry: %v", err)
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.l.Warnf(ctx, "internal.dispatch.usecase.RaiseAlarm: cache invalidate: %v", err)
	}

	return dispatch.RaiseAlarmOutput{
		EmergencyID: e.ID,
		Delivered:   delivered,
		Dispatched:  dispatched,
	}, nil
}

// alarmPayload enriches the emergency with reporter identity. A missing or
// unresolvable reporter stays anonymous.
func (uc *usecase) alarmPayload(ctx context.Context, e model.Emergency) event.AlarmPayload {
	var reporter *model.User
	if e.UserID != nil {
		u, err := uc.users.Detail(ctx, *e.UserID)
		if err != nil {
			uc.l.Warnf(ctx, "internal.dispatch.usecase.alarmPayload: reporter lookup: %v", err)
		} else {
			reporter = &u
		}
	}

	return event.AlarmPayload{
		EmergencyID:   e.ID,
		EmergencyType: e.Type,
		Severity:      string(e.Severity),
		Location:      e.Location,
		Latitude:      e.Latitude,
		Longitude:     e.Longitude,
		ReporterName:  model.DisplayName(reporter),
		ReporterPhone: model.DisplayPhone(reporter),
		AlarmPriority: alarmPriority(e.Severity),
		SoundURL:      alarmSoundURL,
		CreatedAt:     e.CreatedAt,
	}
}

// dispatchNearest picks the closest on-duty responders with a known position
// and records a DISPATCHED assignment for each. Everything here runs after
// the alarm broadcast, so failures are logged and swallowed.
func (uc *usecase) dispatchNearest(ctx context.Context, e model.Emergency, alarm event.AlarmPayload) []dispatch.DispatchedResponder {
	if !e.HasCoordinates() {
		return nil
	}

	candidates, err := uc.responders.ListDispatchable(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "internal.dispatch.usecase.dispatchNearest: %v", err)
		return nil
	}

	type ranked struct {
		responder model.Responder
		distance  float64
	}
	rankings := make([]ranked, 0, len(candidates))
	for _, r := range candidates {
		if !r.HasCoordinates() {
			continue
		}
		d := geo.DistanceKm(*e.Latitude, *e.Longitude, *r.CurrentLatitude, *r.CurrentLongitude)
		rankings = append(rankings, ranked{responder: r, distance: d})
	}

	sort.Slice(rankings, func(i, j int) bool {
		return rankings[i].distance < rankings[j].distance
	})
	if len(rankings) > maxDispatchedResponders {
		rankings = rankings[:maxDispatchedResponders]
	}

	dispatched := make([]dispatch.DispatchedResponder, 0, len(rankings))
	for _, rk := range rankings {
		_, created, err := uc.assignments.Create(ctx, model.Assignment{
			EmergencyID: e.ID,
			ResponderID: rk.responder.ID,
			Status:      model.AssignmentDispatched,
		})
		if err != nil {
			uc.l.Errorf(ctx, "internal.dispatch.usecase.dispatchNearest: assignment for responder %d: %v", rk.responder.ID, err)
			continue
		}
		if !created {
			// Responder already engaged with this emergency
			continue
		}

		uc.broadcaster.ToResponder(rk.responder.ID, event.New(event.TypeDispatch, event.DispatchPayload{
			AlarmPayload: alarm,
			ResponderID:  rk.responder.ID,
			DistanceKm:   geo.RoundKm(rk.distance),
			DispatchType: dispatchTypeNearest,
		}))

		dispatched = append(dispatched, dispatch.DispatchedResponder{
			ResponderID: rk.responder.ID,
			Name:        rk.responder.Name,
			DistanceKm:  geo.RoundKm(rk.distance),
		})
	}

	return dispatched
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func alarmPriority(s model.EmergencySeverity) string {
	switch s {
	case model.SeverityCritical, model.SeverityHigh, model.SeverityMedium, model.SeverityLow:
		return string(s)
	default:
		return string(model.SeverityMedium)
	}
}
