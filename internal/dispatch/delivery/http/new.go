package http

import (
	"dispatch-srv/internal/dispatch"
	"dispatch-srv/pkg/log"
)

type Handler struct {
	uc     dispatch.UseCase
	logger log.Logger
}

func New(uc dispatch.UseCase, logger log.Logger) *Handler {
	return &Handler{
		uc:     uc,
		logger: logger,
	}
}
