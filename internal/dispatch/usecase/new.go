package usecase

import (
	"dispatch-srv/internal/dispatch"
	"dispatch-srv/internal/notification"
	pkgLog "dispatch-srv/pkg/log"
)

type usecase struct {
	l           pkgLog.Logger
	emergencies dispatch.EmergencyStore
	assignments dispatch.AssignmentStore
	responders  dispatch.ResponderDirectory
	users       dispatch.UserDirectory
	notifier    notification.UseCase
	broadcaster dispatch.Broadcaster
	cache       dispatch.ActiveEmergencyCache
}

func New(
	l pkgLog.Logger,
	emergencies dispatch.EmergencyStore,
	assignments dispatch.AssignmentStore,
	responders dispatch.ResponderDirectory,
	users dispatch.UserDirectory,
	notifier notification.UseCase,
	broadcaster dispatch.Broadcaster,
	cache dispatch.ActiveEmergencyCache,
) dispatch.UseCase {
	return &usecase{
		l:           l,
		emergencies: emergencies,
		assignments: assignments,
		responders:  responders,
		users:       users,
		notifier:    notifier,
		broadcaster: broadcaster,
		cache:       cache,
	}
}
