package usecase

import (
	"context"
	"testing"
	"time"

	"dispatch-srv/internal/dispatch"
	"dispatch-srv/internal/event"
	"dispatch-srv/internal/model"
)

func TestCheckInBroadcastsDutyStatus(t *testing.T) {
	env := newTestEnv(3, model.Responder{ID: 1, Name: "Pak Budi", Status: model.ResponderActive})

	r, err := env.uc.CheckIn(context.Background(), dispatch.CheckInInput{
		ResponderID: 1,
		Latitude:    f64(baseLat),
		Longitude:   f64(baseLon),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.IsOnDuty || r.CurrentLatitude == nil {
		t.Errorf("check-in should set duty and position, got %+v", r)
	}

	evs := env.broadcaster.eventsOfType(event.TypeDutyStatus)
	if len(evs) != 1 {
		t.Fatalf("expected 1 DUTY_STATUS broadcast, got %d", len(evs))
	}
	payload := evs[0].Data.(event.PresencePayload)
	if !payload.IsOnDuty || payload.ResponderID != 1 {
		t.Errorf("unexpected duty payload: %+v", payload)
	}
}

func TestCheckInValidation(t *testing.T) {
	env := newTestEnv(3, model.Responder{ID: 1, Name: "Pak Budi", Status: model.ResponderActive})

	if _, err := env.uc.CheckIn(context.Background(), dispatch.CheckInInput{ResponderID: 1, Latitude: f64(baseLat)}); err != dispatch.ErrInvalidInput {
		t.Errorf("one-sided coordinates should be rejected, got %v", err)
	}
	if _, err := env.uc.CheckIn(context.Background(), dispatch.CheckInInput{ResponderID: 99}); err != dispatch.ErrResponderNotFound {
		t.Errorf("expected ErrResponderNotFound, got %v", err)
	}
}

func TestCheckOutClearsDuty(t *testing.T) {
	env := newTestEnv(3, model.Responder{ID: 1, Name: "Pak Budi", Status: model.ResponderActive, IsOnDuty: true})

	r, err := env.uc.CheckOut(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.IsOnDuty {
		t.Error("check-out should clear duty")
	}

	evs := env.broadcaster.eventsOfType(event.TypeDutyStatus)
	if len(evs) != 1 || evs[0].Data.(event.PresencePayload).IsOnDuty {
		t.Errorf("expected off-duty DUTY_STATUS broadcast, got %+v", evs)
	}
}

func TestUpdateLocationValidation(t *testing.T) {
	env := newTestEnv(3, model.Responder{ID: 1, Name: "Pak Budi", Status: model.ResponderActive, IsOnDuty: true})

	if err := env.uc.UpdateLocation(context.Background(), dispatch.UpdateLocationInput{ResponderID: 1, Latitude: 120, Longitude: 0}); err != dispatch.ErrInvalidInput {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	if err := env.uc.UpdateLocation(context.Background(), dispatch.UpdateLocationInput{ResponderID: 1, Latitude: baseLat, Longitude: baseLon}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r, _ := env.responders.Detail(context.Background(), 1)
	if r.CurrentLatitude == nil || *r.CurrentLatitude != baseLat {
		t.Error("location update should persist the position")
	}
}

func TestSnapshotFallsBackToStoreAndWarmsCache(t *testing.T) {
	env := newTestEnv(3, onDutyResponder(1, "Pak Budi", baseLat, baseLon))

	ctx := context.Background()
	e := activeEmergency(env, nil, time.Minute)
	env.emergencies.MarkAlarmSent(ctx, e.ID)
	env.uc.Accept(ctx, dispatch.ActionInput{ResponderID: 1, EmergencyID: e.ID})

	out, err := env.uc.Snapshot(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.ActiveEmergencies) != 1 {
		t.Errorf("expected 1 active alarmed emergency, got %d", len(out.ActiveEmergencies))
	}
	if len(out.MyAssignments) != 1 || out.MyAssignments[0].Status != model.AssignmentEnRoute {
		t.Errorf("expected the responder's EN_ROUTE assignment, got %+v", out.MyAssignments)
	}

	if !env.cache.warm {
		t.Error("snapshot should warm the cache after a miss")
	}

	// Second snapshot is served from the cache
	before := env.cache.getCalls
	if _, err := env.uc.Snapshot(ctx, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env.cache.getCalls != before+1 {
		t.Errorf("expected one more cache read, got %d", env.cache.getCalls-before)
	}
}

func TestStats(t *testing.T) {
	env := newTestEnv(3, onDutyResponder(1, "Pak Budi", baseLat, baseLon))

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		e := activeEmergency(env, nil, time.Minute)
		env.uc.Accept(ctx, dispatch.ActionInput{ResponderID: 1, EmergencyID: e.ID})
		env.uc.Arrive(ctx, dispatch.ActionInput{ResponderID: 1, EmergencyID: e.ID})
		env.uc.Complete(ctx, dispatch.CompleteInput{ResponderID: 1, EmergencyID: e.ID, ActionTaken: "handled"})
	}
	eOpen := activeEmergency(env, nil, time.Minute)
	env.uc.Accept(ctx, dispatch.ActionInput{ResponderID: 1, EmergencyID: eOpen.ID})

	stats, err := env.uc.Stats(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalAssignments != 3 || stats.Resolved != 2 {
		t.Errorf("expected 3 total / 2 resolved, got %d / %d", stats.TotalAssignments, stats.Resolved)
	}
	if stats.CompletionRate < 0.66 || stats.CompletionRate > 0.67 {
		t.Errorf("expected completion rate ~0.67, got %.2f", stats.CompletionRate)
	}
	if stats.EmergencyCount != 2 {
		t.Errorf("expected emergency count 2, got %d", stats.EmergencyCount)
	}
	if stats.AvgResponseSeconds < 59 {
		t.Errorf("expected average response near 60s, got %.1f", stats.AvgResponseSeconds)
	}
}

func TestStatsUnknownResponder(t *testing.T) {
	env := newTestEnv(3)

	if _, err := env.uc.Stats(context.Background(), 404); err != dispatch.ErrResponderNotFound {
		t.Errorf("expected ErrResponderNotFound, got %v", err)
	}
}
