package usecase

import (
	"context"
	"testing"
	"time"

	"dispatch-srv/internal/dispatch"
	"dispatch-srv/internal/event"
	"dispatch-srv/internal/model"
)

// Posko coordinates used across alarm tests; offsets in degrees latitude
// translate to roughly 111 km per degree.
const (
	baseLat = -6.2000
	baseLon = 106.8000
)

func onDutyResponder(id int64, name string, lat, lon float64) model.Responder {
	return model.Responder{
		ID:               id,
		Name:             name,
		Status:           model.ResponderActive,
		IsOnDuty:         true,
		CurrentLatitude:  f64(lat),
		CurrentLongitude: f64(lon),
	}
}

func TestRaiseAlarmBroadcastsAndDispatchesNearest(t *testing.T) {
	near := onDutyResponder(1, "Pak Budi", baseLat+0.0045, baseLon)  // ~0.5 km
	far := onDutyResponder(2, "Pak Joko", baseLat+0.0270, baseLon)   // ~3 km
	offDuty := onDutyResponder(3, "Pak Agus", baseLat+0.0010, baseLon)
	offDuty.IsOnDuty = false
	noCoords := model.Responder{ID: 4, Name: "Pak Tono", Status: model.ResponderActive, IsOnDuty: true}

	env := newTestEnv(5, near, far, offDuty, noCoords)

	e, _ := env.emergencies.Create(context.Background(), model.Emergency{
		Type:      "FIRE",
		Severity:  model.SeverityCritical,
		Status:    model.EmergencyActive,
		Latitude:  f64(baseLat),
		Longitude: f64(baseLon),
	})

	out, err := env.uc.RaiseAlarm(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.AlreadySent {
		t.Error("first raise should not report already sent")
	}
	if out.Delivered != 5 {
		t.Errorf("expected delivery to 5 sockets, got %d", out.Delivered)
	}

	alarms := env.broadcaster.eventsOfType(event.TypeAlarm)
	if len(alarms) != 1 {
		t.Fatalf("expected 1 ALARM broadcast, got %d", len(alarms))
	}

	// Off-duty and position-less responders never rank
	if len(out.Dispatched) != 2 {
		t.Fatalf("expected 2 dispatched responders, got %d", len(out.Dispatched))
	}
	if out.Dispatched[0].ResponderID != near.ID || out.Dispatched[1].ResponderID != far.ID {
		t.Errorf("expected nearest-first order [1 2], got [%d %d]",
			out.Dispatched[0].ResponderID, out.Dispatched[1].ResponderID)
	}
	if d := out.Dispatched[0].DistanceKm; d < 0.4 || d > 0.6 {
		t.Errorf("expected ~0.5 km for nearest responder, got %.2f", d)
	}
	if d := out.Dispatched[1].DistanceKm; d < 2.9 || d > 3.1 {
		t.Errorf("expected ~3.0 km for second responder, got %.2f", d)
	}

	// Each dispatched responder gets a personal DISPATCH event
	for _, id := range []int64{near.ID, far.ID} {
		evs := env.broadcaster.toResponder[id]
		if len(evs) != 1 || evs[0].Type != event.TypeDispatch {
			t.Errorf("expected 1 DISPATCH event for responder %d, got %v", id, evs)
		}
	}
	if len(env.broadcaster.toResponder[offDuty.ID]) != 0 {
		t.Error("off-duty responder should not receive a dispatch")
	}

	// DISPATCHED assignment rows recorded for the picks
	as, _ := env.assignments.ListByEmergency(context.Background(), e.ID)
	if len(as) != 2 {
		t.Fatalf("expected 2 assignment rows, got %d", len(as))
	}
	for _, a := range as {
		if a.Status != model.AssignmentDispatched {
			t.Errorf("expected DISPATCHED assignment, got %s", a.Status)
		}
	}

	if env.cache.deliveries[e.ID] != 5 {
		t.Errorf("expected delivery telemetry of 5, got %d", env.cache.deliveries[e.ID])
	}
}

func TestRaiseAlarmIdempotent(t *testing.T) {
	env := newTestEnv(3)

	e, _ := env.emergencies.Create(context.Background(), model.Emergency{
		Type:     "MEDICAL",
		Severity: model.SeverityHigh,
		Status:   model.EmergencyActive,
	})

	first, err := env.uc.RaiseAlarm(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.AlreadySent {
		t.Error("first raise should win the flip")
	}

	second, err := env.uc.RaiseAlarm(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.AlreadySent {
		t.Error("second raise should report already sent")
	}

	if got := len(env.broadcaster.eventsOfType(event.TypeAlarm)); got != 1 {
		t.Errorf("expected exactly 1 ALARM broadcast, got %d", got)
	}
}

func TestRaiseAlarmClosedEmergency(t *testing.T) {
	env := newTestEnv(3)

	e, _ := env.emergencies.Create(context.Background(), model.Emergency{
		Type:   "FIRE",
		Status: model.EmergencyResolved,
	})

	if _, err := env.uc.RaiseAlarm(context.Background(), e.ID); err != dispatch.ErrEmergencyClosed {
		t.Errorf("expected ErrEmergencyClosed, got %v", err)
	}
}

func TestRaiseAlarmUnknownEmergency(t *testing.T) {
	env := newTestEnv(3)

	if _, err := env.uc.RaiseAlarm(context.Background(), 404); err != dispatch.ErrEmergencyNotFound {
		t.Errorf("expected ErrEmergencyNotFound, got %v", err)
	}
}

func TestRaiseAlarmAnonymousReporter(t *testing.T) {
	env := newTestEnv(2)

	e, _ := env.emergencies.Create(context.Background(), model.Emergency{
		Type:     "SECURITY",
		Severity: model.SeverityMedium,
		Status:   model.EmergencyActive,
	})

	if _, err := env.uc.RaiseAlarm(context.Background(), e.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	alarms := env.broadcaster.eventsOfType(event.TypeAlarm)
	payload, ok := alarms[0].Data.(event.AlarmPayload)
	if !ok {
		t.Fatalf("expected AlarmPayload, got %T", alarms[0].Data)
	}
	if payload.ReporterName != "Anonymous" || payload.ReporterPhone != "N/A" {
		t.Errorf("expected anonymous reporter, got %q / %q", payload.ReporterName, payload.ReporterPhone)
	}
	if payload.AlarmPriority != string(model.SeverityMedium) {
		t.Errorf("expected MEDIUM priority, got %s", payload.AlarmPriority)
	}
	if payload.SoundURL != alarmSoundURL {
		t.Errorf("expected fixed alarm sound, got %s", payload.SoundURL)
	}
}

func TestRaiseAlarmNamedReporter(t *testing.T) {
	env := newTestEnv(2)
	env.users.users[10] = model.User{ID: 10, FullName: "Ibu Sari", Phone: "0812000111"}

	e, _ := env.emergencies.Create(context.Background(), model.Emergency{
		Type:   "MEDICAL",
		Status: model.EmergencyActive,
		UserID: i64(10),
	})

	if _, err := env.uc.RaiseAlarm(context.Background(), e.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	payload := env.broadcaster.eventsOfType(event.TypeAlarm)[0].Data.(event.AlarmPayload)
	if payload.ReporterName != "Ibu Sari" {
		t.Errorf("expected reporter name, got %q", payload.ReporterName)
	}
}

func TestRaiseAlarmWithoutCoordinatesSkipsDispatch(t *testing.T) {
	env := newTestEnv(2, onDutyResponder(1, "Pak Budi", baseLat, baseLon))

	e, _ := env.emergencies.Create(context.Background(), model.Emergency{
		Type:   "SECURITY",
		Status: model.EmergencyActive,
	})

	out, err := env.uc.RaiseAlarm(context.Background(), e.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Dispatched) != 0 {
		t.Errorf("expected no dispatch without coordinates, got %d", len(out.Dispatched))
	}
	if got := len(env.broadcaster.eventsOfType(event.TypeAlarm)); got != 1 {
		t.Errorf("alarm broadcast still expected, got %d", got)
	}
}

func TestReportValidation(t *testing.T) {
	env := newTestEnv(1)

	tests := []struct {
		name string
		ip   dispatch.ReportInput
	}{
		{name: "missing type", ip: dispatch.ReportInput{Latitude: f64(baseLat), Longitude: f64(baseLon)}},
		{name: "one-sided coordinates", ip: dispatch.ReportInput{Type: "FIRE", Latitude: f64(baseLat)}},
		{name: "out-of-range latitude", ip: dispatch.ReportInput{Type: "FIRE", Latitude: f64(95), Longitude: f64(baseLon)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.uc.Report(context.Background(), tt.ip); err != dispatch.ErrInvalidInput {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestReportRaisesAlarmAndAcksReporter(t *testing.T) {
	env := newTestEnv(2, onDutyResponder(1, "Pak Budi", baseLat+0.0045, baseLon))
	env.users.users[7] = model.User{ID: 7, FullName: "Ibu Rina"}

	out, err := env.uc.Report(context.Background(), dispatch.ReportInput{
		Type:      "FIRE",
		Details:   "Kitchen fire in block C",
		Latitude:  f64(baseLat),
		Longitude: f64(baseLon),
		UserID:    i64(7),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Emergency.ID == 0 {
		t.Error("stored emergency should carry an id")
	}
	if out.Emergency.Severity != model.SeverityMedium {
		t.Errorf("expected default MEDIUM severity, got %s", out.Emergency.Severity)
	}
	if out.Alarm.AlreadySent {
		t.Error("fresh report must raise the alarm")
	}
	if len(out.Alarm.Dispatched) != 1 {
		t.Errorf("expected 1 dispatched responder, got %d", len(out.Alarm.Dispatched))
	}

	// Reporter gets an acknowledgement notification
	found := false
	for _, n := range env.notifier.sent {
		if n.UserID == 7 && n.Title == "Emergency reported" {
			found = true
		}
	}
	if !found {
		t.Error("expected reporter acknowledgement notification")
	}

	stored, _ := env.emergencies.Detail(context.Background(), out.Emergency.ID)
	if !stored.AlarmSent || stored.AlarmSentAt == nil {
		t.Error("stored emergency should be flagged alarm_sent with a timestamp")
	}
	if time.Since(*stored.AlarmSentAt) > time.Minute {
		t.Error("alarm timestamp should be recent")
	}
}
