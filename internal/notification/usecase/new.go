package usecase

import (
	"dispatch-srv/internal/notification"
	pkgLog "dispatch-srv/pkg/log"
)

type usecase struct {
	l      pkgLog.Logger
	store  notification.Store
	dir    notification.RecipientDirectory
	pusher notification.Pusher
}

func New(
	l pkgLog.Logger,
	store notification.Store,
	dir notification.RecipientDirectory,
	pusher notification.Pusher,
) notification.UseCase {
	return &usecase{
		l:      l,
		store:  store,
		dir:    dir,
		pusher: pusher,
	}
}
