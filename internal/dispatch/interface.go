package dispatch

import (
	"context"

	"dispatch-srv/internal/event"
	"dispatch-srv/internal/model"
)

//go:generate mockery --name UseCase
type UseCase interface {
	Report(ctx context.Context, ip ReportInput) (ReportOutput, error)
	RaiseAlarm(ctx context.Context, emergencyID int64) (RaiseAlarmOutput, error)
	Accept(ctx context.Context, ip ActionInput) (AssignmentOutput, error)
	Arrive(ctx context.Context, ip ActionInput) (AssignmentOutput, error)
	Complete(ctx context.Context, ip CompleteInput) (AssignmentOutput, error)
	Cancel(ctx context.Context, emergencyID int64) (model.Emergency, error)
	ResolveAll(ctx context.Context, emergencyID int64) (model.Emergency, error)
	CheckIn(ctx context.Context, ip CheckInInput) (model.Responder, error)
	CheckOut(ctx context.Context, responderID int64) (model.Responder, error)
	UpdateLocation(ctx context.Context, ip UpdateLocationInput) error
	ActiveEmergencies(ctx context.Context) ([]model.Emergency, error)
	EmergencyDetail(ctx context.Context, emergencyID int64) (EmergencyDetailOutput, error)
	Snapshot(ctx context.Context, responderID int64) (SnapshotOutput, error)
	Stats(ctx context.Context, responderID int64) (StatsOutput, error)
}

// EmergencyStore persists emergency reports.
type EmergencyStore interface {
	Create(ctx context.Context, e model.Emergency) (model.Emergency, error)
	Detail(ctx context.Context, id int64) (model.Emergency, error)
	// MarkAlarmSent flips alarm_sent in one statement and reports whether
	// this call won the flip. Exactly one concurrent caller sees true.
	MarkAlarmSent(ctx context.Context, id int64) (bool, error)
	SetResponderAssigned(ctx context.Context, id int64, assigned bool) error
	UpdateStatus(ctx context.Context, id int64, status model.EmergencyStatus) error
	ListActiveAlarmed(ctx context.Context) ([]model.Emergency, error)
	ListActive(ctx context.Context) ([]model.Emergency, error)
}

// AssignmentStore persists responder-to-emergency assignments.
type AssignmentStore interface {
	// Create inserts the assignment unless one already exists for the
	// (responder, emergency) pair; it returns the winning row and whether
	// this call created it. Exactly one concurrent caller sees created=true.
	Create(ctx context.Context, a model.Assignment) (model.Assignment, bool, error)
	GetByResponderAndEmergency(ctx context.Context, responderID, emergencyID int64) (model.Assignment, error)
	Update(ctx context.Context, a model.Assignment) (model.Assignment, error)
	ListActiveByResponder(ctx context.Context, responderID int64) ([]model.Assignment, error)
	ListByEmergency(ctx context.Context, emergencyID int64) ([]model.Assignment, error)
	AggregateByResponder(ctx context.Context, responderID int64) (AssignmentAggregate, error)
}

// ResponderDirectory exposes the durable responder roster.
type ResponderDirectory interface {
	Detail(ctx context.Context, id int64) (model.Responder, error)
	ListDispatchable(ctx context.Context) ([]model.Responder, error)
	SetOnDuty(ctx context.Context, id int64, onDuty bool, lat, lon *float64) (model.Responder, error)
	UpdateLocation(ctx context.Context, id int64, lat, lon float64) error
	IncrementEmergencyCount(ctx context.Context, id int64) error
}

// UserDirectory resolves reporters for alarm enrichment.
type UserDirectory interface {
	Detail(ctx context.Context, id int64) (model.User, error)
}

// Broadcaster pushes live events to responder sockets. Implementations must
// not block; delivery to offline rooms is a silent no-op.
type Broadcaster interface {
	ToAllResponders(ev event.Event) int
	ToResponder(responderID int64, ev event.Event) int
}

// ActiveEmergencyCache is the redis-backed hot list of alarmed emergencies,
// consulted on responder reconnect. All failures degrade to the store.
type ActiveEmergencyCache interface {
	GetActive(ctx context.Context) ([]model.Emergency, error)
	SetActive(ctx context.Context, es []model.Emergency) error
	Invalidate(ctx context.Context) error
	RecordAlarmDelivery(ctx context.Context, emergencyID int64, delivered int) error
}
