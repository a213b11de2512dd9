// Package postgres implements the dispatch and notification store interfaces
// with hand-written SQL over a pgx pool.
package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	pkgLog "dispatch-srv/pkg/log"
)

// Postgres bundles every store backed by one shared pool.
type Postgres struct {
	Emergencies   *EmergencyStore
	Assignments   *AssignmentStore
	Responders    *ResponderStore
	Notifications *NotificationStore
	Users         *UserStore
}

func New(pool *pgxpool.Pool, l pkgLog.Logger) *Postgres {
	return &Postgres{
		Emergencies:   NewEmergencyStore(pool, l),
		Assignments:   NewAssignmentStore(pool, l),
		Responders:    NewResponderStore(pool, l),
		Notifications: NewNotificationStore(pool, l),
		Users:         NewUserStore(pool, l),
	}
}
