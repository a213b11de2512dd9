package http

import (
	"dispatch-srv/internal/model"
	"dispatch-srv/internal/notification"
	"dispatch-srv/pkg/errors"
)

// --- Request DTOs ---

type listReq struct {
	UnreadOnly      bool   `form:"unread_only"`
	IncludeArchived bool   `form:"include_archived"`
	Type            string `form:"type"`
	Limit           int    `form:"limit"`
	Offset          int    `form:"offset"`
}

func (r listReq) toInput() notification.ListInput {
	return notification.ListInput{
		UnreadOnly:      r.UnreadOnly,
		IncludeArchived: r.IncludeArchived,
		Type:            model.NotificationType(r.Type),
		Limit:           r.Limit,
		Offset:          r.Offset,
	}
}

type markReadReq struct {
	IDs []string `json:"ids"`
}

func (r markReadReq) validate() error {
	if len(r.IDs) == 0 {
		return errors.NewValidationError("ids", "at least one notification id is required")
	}
	return nil
}

type broadcastReq struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (r broadcastReq) validate() error {
	if r.Title == "" {
		return errors.NewValidationError("title", "title is required")
	}
	if r.Message == "" {
		return errors.NewValidationError("message", "message is required")
	}
	return nil
}

func (r broadcastReq) toInput(createdBy *int64) notification.BroadcastInput {
	return notification.BroadcastInput{
		Type:      model.NotificationType(r.Type),
		Title:     r.Title,
		Message:   r.Message,
		Data:      r.Data,
		CreatedBy: createdBy,
	}
}

// --- Response DTOs ---

type countsResp struct {
	Unread int64 `json:"unread"`
}

type markedResp struct {
	Updated int64 `json:"updated"`
}
