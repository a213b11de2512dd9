package usecase

import (
	"context"
	"errors"
	"time"

	"dispatch-srv/internal/dispatch"
	"dispatch-srv/internal/event"
	"dispatch-srv/internal/model"
	"dispatch-srv/internal/notification"
)

// testLogger implements log.Logger for testing
type testLogger struct{}

func (m *testLogger) Debug(ctx context.Context, arg ...any)                   {}
func (m *testLogger) Debugf(ctx context.Context, template string, arg ...any) {}
func (m *testLogger) Info(ctx context.Context, arg ...any)                    {}
func (m *testLogger) Infof(ctx context.Context, template string, arg ...any)  {}
func (m *testLogger) Warn(ctx context.Context, arg ...any)                    {}
func (m *testLogger) Warnf(ctx context.Context, template string, arg ...any)  {}
func (m *testLogger) Error(ctx context.Context, arg ...any)                   {}
func (m *testLogger) Errorf(ctx context.Context, template string, arg ...any) {}
func (m *testLogger) Fatal(ctx context.Context, arg ...any)                   {}
func (m *testLogger) Fatalf(ctx context.Context, template string, arg ...any) {}

type fakeEmergencyStore struct {
	nextID      int64
	emergencies map[int64]model.Emergency
}

func newFakeEmergencyStore() *fakeEmergencyStore {
	return &fakeEmergencyStore{emergencies: make(map[int64]model.Emergency)}
}

func (s *fakeEmergencyStore) Create(ctx context.Context, e model.Emergency) (model.Emergency, error) {
	s.nextID++
	e.ID = s.nextID
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	s.emergencies[e.ID] = e
	return e, nil
}

func (s *fakeEmergencyStore) Detail(ctx context.Context, id int64) (model.Emergency, error) {
	e, ok := s.emergencies[id]
	if !ok {
		return model.Emergency{}, dispatch.ErrEmergencyNotFound
	}
	return e, nil
}

func (s *fakeEmergencyStore) MarkAlarmSent(ctx context.Context, id int64) (bool, error) {
	e, ok := s.emergencies[id]
	if !ok {
		return false, dispatch.ErrEmergencyNotFound
	}
	if e.AlarmSent {
		return false, nil
	}
	now := time.Now()
	e.AlarmSent = true
	e.AlarmSentAt = &now
	s.emergencies[id] = e
	return true, nil
}

func (s *fakeEmergencyStore) SetResponderAssigned(ctx context.Context, id int64, assigned bool) error {
	e, ok := s.emergencies[id]
	if !ok {
		return dispatch.ErrEmergencyNotFound
	}
	e.ResponderAssigned = assigned
	s.emergencies[id] = e
	return nil
}

func (s *fakeEmergencyStore) UpdateStatus(ctx context.Context, id int64, status model.EmergencyStatus) error {
	e, ok := s.emergencies[id]
	if !ok {
		return dispatch.ErrEmergencyNotFound
	}
	e.Status = status
	s.emergencies[id] = e
	return nil
}

func (s *fakeEmergencyStore) ListActiveAlarmed(ctx context.Context) ([]model.Emergency, error) {
	var out []model.Emergency
	for _, e := range s.emergencies {
		if e.Status == model.EmergencyActive && e.AlarmSent {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeEmergencyStore) ListActive(ctx context.Context) ([]model.Emergency, error) {
	var out []model.Emergency
	for _, e := range s.emergencies {
		if e.Status == model.EmergencyActive {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeAssignmentStore struct {
	nextID      int64
	assignments []model.Assignment
}

func (s *fakeAssignmentStore) Create(ctx context.Context, a model.Assignment) (model.Assignment, bool, error) {
	for _, existing := range s.assignments {
		if existing.ResponderID == a.ResponderID && existing.EmergencyID == a.EmergencyID {
			return existing, false, nil
		}
	}
	s.nextID++
	a.ID = s.nextID
	a.CreatedAt = time.Now()
	s.assignments = append(s.assignments, a)
	return a, true, nil
}

func (s *fakeAssignmentStore) GetByResponderAndEmergency(ctx context.Context, responderID, emergencyID int64) (model.Assignment, error) {
	for _, a := range s.assignments {
		if a.ResponderID == responderID && a.EmergencyID == emergencyID {
			return a, nil
		}
	}
	return model.Assignment{}, dispatch.ErrAssignmentNotFound
}

func (s *fakeAssignmentStore) Update(ctx context.Context, a model.Assignment) (model.Assignment, error) {
	for i, existing := range s.assignments {
		if existing.ID == a.ID {
			a.UpdatedAt = time.Now()
			s.assignments[i] = a
			return a, nil
		}
	}
	return model.Assignment{}, dispatch.ErrAssignmentNotFound
}

func (s *fakeAssignmentStore) ListActiveByResponder(ctx context.Context, responderID int64) ([]model.Assignment, error) {
	var out []model.Assignment
	for _, a := range s.assignments {
		if a.ResponderID == responderID && a.Active() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *fakeAssignmentStore) ListByEmergency(ctx context.Context, emergencyID int64) ([]model.Assignment, error) {
	var out []model.Assignment
	for _, a := range s.assignments {
		if a.EmergencyID == emergencyID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *fakeAssignmentStore) AggregateByResponder(ctx context.Context, responderID int64) (dispatch.AssignmentAggregate, error) {
	var agg dispatch.AssignmentAggregate
	var responseSum float64
	for _, a := range s.assignments {
		if a.ResponderID != responderID {
			continue
		}
		agg.Total++
		responseSum += float64(a.ResponseTimeSeconds)
		switch a.Status {
		case model.AssignmentResolved:
			agg.Resolved++
		case model.AssignmentCancelled:
			agg.Cancelled++
		}
	}
	if agg.Total > 0 {
		agg.AvgResponseSeconds = responseSum / float64(agg.Total)
	}
	return agg, nil
}

type fakeResponderDirectory struct {
	responders map[int64]model.Responder
}

func newFakeResponderDirectory(rs ...model.Responder) *fakeResponderDirectory {
	d := &fakeResponderDirectory{responders: make(map[int64]model.Responder)}
	for _, r := range rs {
		d.responders[r.ID] = r
	}
	return d
}

func (d *fakeResponderDirectory) Detail(ctx context.Context, id int64) (model.Responder, error) {
	r, ok := d.responders[id]
	if !ok {
		return model.Responder{}, dispatch.ErrResponderNotFound
	}
	return r, nil
}

func (d *fakeResponderDirectory) ListDispatchable(ctx context.Context) ([]model.Responder, error) {
	var out []model.Responder
	for _, r := range d.responders {
		if r.Dispatchable() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (d *fakeResponderDirectory) SetOnDuty(ctx context.Context, id int64, onDuty bool, lat, lon *float64) (model.Responder, error) {
	r, ok := d.responders[id]
	if !ok {
		return model.Responder{}, dispatch.ErrResponderNotFound
	}
	r.IsOnDuty = onDuty
	if lat != nil {
		r.CurrentLatitude = lat
		r.CurrentLongitude = lon
	}
	d.responders[id] = r
	return r, nil
}

func (d *fakeResponderDirectory) UpdateLocation(ctx context.Context, id int64, lat, lon float64) error {
	r, ok := d.responders[id]
	if !ok {
		return dispatch.ErrResponderNotFound
	}
	r.CurrentLatitude = &lat
	r.CurrentLongitude = &lon
	d.responders[id] = r
	return nil
}

func (d *fakeResponderDirectory) IncrementEmergencyCount(ctx context.Context, id int64) error {
	r, ok := d.responders[id]
	if !ok {
		return dispatch.ErrResponderNotFound
	}
	r.EmergencyCount++
	d.responders[id] = r
	return nil
}

type fakeUserDirectory struct {
	users map[int64]model.User
}

func (d *fakeUserDirectory) Detail(ctx context.Context, id int64) (model.User, error) {
	u, ok := d.users[id]
	if !ok {
		return model.User{}, errors.New("user not found")
	}
	return u, nil
}

type sentNotification struct {
	UserID int64
	Title  string
}

// fakeNotifier records ToUser calls; the broadcast side is unused here.
type fakeNotifier struct {
	sent []sentNotification
}

func (n *fakeNotifier) ToUser(ctx context.Context, ip notification.ToUserInput) (model.Notification, error) {
	n.sent = append(n.sent, sentNotification{UserID: ip.UserID, Title: ip.Title})
	return model.Notification{ID: "n-1", UserID: ip.UserID, Title: ip.Title}, nil
}

func (n *fakeNotifier) ToAll(ctx context.Context, ip notification.BroadcastInput) (notification.FanoutOutput, error) {
	return notification.FanoutOutput{}, nil
}

func (n *fakeNotifier) ToGroup(ctx context.Context, groupKey string, ip notification.BroadcastInput) (notification.FanoutOutput, error) {
	return notification.FanoutOutput{}, nil
}

func (n *fakeNotifier) List(ctx context.Context, userID int64, ip notification.ListInput) ([]model.Notification, error) {
	return nil, nil
}

func (n *fakeNotifier) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return 0, nil
}

func (n *fakeNotifier) MarkRead(ctx context.Context, userID int64, ids []string) (int64, error) {
	return 0, nil
}

func (n *fakeNotifier) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return 0, nil
}

func (n *fakeNotifier) Archive(ctx context.Context, userID int64, id string) error {
	return nil
}

func (n *fakeNotifier) Stats(ctx context.Context, userID int64) (notification.StatsOutput, error) {
	return notification.StatsOutput{}, nil
}

type fakeBroadcaster struct {
	toAll       []event.Event
	toResponder map[int64][]event.Event
	onlineCount int
}

func newFakeBroadcaster(onlineCount int) *fakeBroadcaster {
	return &fakeBroadcaster{
		toResponder: make(map[int64][]event.Event),
		onlineCount: onlineCount,
	}
}

func (b *fakeBroadcaster) ToAllResponders(ev event.Event) int {
	b.toAll = append(b.toAll, ev)
	return b.onlineCount
}

func (b *fakeBroadcaster) ToResponder(responderID int64, ev event.Event) int {
	b.toResponder[responderID] = append(b.toResponder[responderID], ev)
	return 1
}

func (b *fakeBroadcaster) eventsOfType(t event.Type) []event.Event {
	var out []event.Event
	for _, ev := range b.toAll {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

type fakeCache struct {
	warm       bool
	active     []model.Emergency
	deliveries map[int64]int
	getCalls   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{deliveries: make(map[int64]int)}
}

func (c *fakeCache) GetActive(ctx context.Context) ([]model.Emergency, error) {
	c.getCalls++
	if !c.warm {
		return nil, errors.New("cache miss")
	}
	return c.active, nil
}

func (c *fakeCache) SetActive(ctx context.Context, es []model.Emergency) error {
	c.warm = true
	c.active = es
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context) error {
	c.warm = false
	c.active = nil
	return nil
}

func (c *fakeCache) RecordAlarmDelivery(ctx context.Context, emergencyID int64, delivered int) error {
	c.deliveries[emergencyID] = delivered
	return nil
}

// testEnv wires a usecase around fresh fakes.
type testEnv struct {
	emergencies *fakeEmergencyStore
	assignments *fakeAssignmentStore
	responders  *fakeResponderDirectory
	users       *fakeUserDirectory
	notifier    *fakeNotifier
	broadcaster *fakeBroadcaster
	cache       *fakeCache
	uc          dispatch.UseCase
}

func newTestEnv(onlineResponders int, rs ...model.Responder) *testEnv {
	env := &testEnv{
		emergencies: newFakeEmergencyStore(),
		assignments: &fakeAssignmentStore{},
		responders:  newFakeResponderDirectory(rs...),
		users:       &fakeUserDirectory{users: make(map[int64]model.User)},
		notifier:    &fakeNotifier{},
		broadcaster: newFakeBroadcaster(onlineResponders),
		cache:       newFakeCache(),
	}
	env.uc = New(&testLogger{}, env.emergencies, env.assignments, env.responders, env.users, env.notifier, env.broadcaster, env.cache)
	return env
}

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }
