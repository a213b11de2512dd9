package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"dispatch-srv/internal/event"
	"dispatch-srv/internal/model"
	"dispatch-srv/internal/notification"
)

// ToUser persists one notification row, then pushes it to the recipient's
// live sockets. The push is best effort; an offline recipient still gets the
// durable row and reconciles on reconnect.
func (uc *usecase) ToUser(ctx context.Context, ip notification.ToUserInput) (model.Notification, error) {
	if ip.Title == "" || ip.Message == "" {
		return model.Notification{}, notification.ErrInvalidInput
	}

	n, err := uc.buildNotification(ip.UserID, notification.BroadcastInput{
		Type:              ip.Type,
		Title:             ip.Title,
		Message:           ip.Message,
		Data:              ip.Data,
		CreatedBy:         ip.CreatedBy,
		RelatedEntityID:   ip.RelatedEntityID,
		RelatedEntityType: ip.RelatedEntityType,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.notification.usecase.ToUser: %v", err)
		return model.Notification{}, err
	}

	stored, err := uc.store.Create(ctx, n)
	if err != nil {
		uc.l.Errorf(ctx, "internal.notification.usecase.ToUser: %v", err)
		return model.Notification{}, err
	}

	uc.push(ctx, stored)
	return stored, nil
}

// ToAll writes one row per active resident, then pushes to whoever is online.
func (uc *usecase) ToAll(ctx context.Context, ip notification.BroadcastInput) (notification.FanoutOutput, error) {
	if ip.Title == "" || ip.Message == "" {
		return notification.FanoutOutput{}, notification.ErrInvalidInput
	}

	userIDs, err := uc.dir.ListActiveUserIDs(ctx)
	if err != nil {
		uc.l.Errorf(ctx, "internal.notification.usecase.ToAll: %v", err)
		return notification.FanoutOutput{}, err
	}

	return uc.fanout(ctx, userIDs, ip)
}

// ToGroup targets one RT/RW block. An unknown or empty group is an input
// error rather than a silent no-op.
func (uc *usecase) ToGroup(ctx context.Context, groupKey string, ip notification.BroadcastInput) (notification.FanoutOutput, error) {
	if groupKey == "" || ip.Title == "" || ip.Message == "" {
		return notification.FanoutOutput{}, notification.ErrInvalidInput
	}

	userIDs, err := uc.dir.ListUserIDsByGroup(ctx, groupKey)
	if err != nil {
		uc.l.Errorf(ctx, "internal.notification.usecase.ToGroup: %v", err)
		return notification.FanoutOutput{}, err
	}
	if len(userIDs) == 0 {
		return notification.FanoutOutput{}, notification.ErrNoRecipients
	}

	return uc.fanout(ctx, userIDs, ip)
}

func (uc *usecase) fanout(ctx context.Context, userIDs []int64, ip notification.BroadcastInput) (notification.FanoutOutput, error) {
	if len(userIDs) == 0 {
		return notification.FanoutOutput{}, nil
	}

	ns := make([]model.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		n, err := uc.buildNotification(id, ip)
		if err != nil {
			uc.l.Errorf(ctx, "internal.notification.usecase.fanout: %v", err)
			return notification.FanoutOutput{}, err
		}
		ns = append(ns, n)
	}

	stored, err := uc.store.CreateBatch(ctx, ns)
	if err != nil {
		uc.l.Errorf(ctx, "internal.notification.usecase.fanout: %v", err)
		return notification.FanoutOutput{}, err
	}

	pushed := 0
	for _, n := range ns {
		pushed += uc.pusher.PushToUser(n.UserID, event.New(event.TypeNotification, n))
	}

	return notification.FanoutOutput{Recipients: stored, Pushed: pushed}, nil
}

func (uc *usecase) buildNotification(userID int64, ip notification.BroadcastInput) (model.Notification, error) {
	var data json.RawMessage
	if ip.Data != nil {
		b, err := json.Marshal(ip.Data)
		if err != nil {
			return model.Notification{}, err
		}
		data = b
	}

	typ := ip.Type
	if typ == "" {
		typ = model.NotificationSystem
	}

	return model.Notification{
		ID:                uuid.NewString(),
		UserID:            userID,
		Type:              typ,
		Title:             ip.Title,
		Message:           ip.Message,
		Data:              data,
		CreatedBy:         ip.CreatedBy,
		RelatedEntityID:   ip.RelatedEntityID,
		RelatedEntityType: ip.RelatedEntityType,
		CreatedAt:         time.Now(),
	}, nil
}

// push delivers the stored row over live sockets. Zero sockets reached just
// means the recipient is offline.
func (uc *usecase) push(ctx context.Context, n model.Notification) {
	reached := uc.pusher.PushToUser(n.UserID, event.New(event.TypeNotification, n))
	uc.l.Debugf(ctx, "internal.notification.usecase.push: notification %s reached %d sockets for user %d", n.ID, reached, n.UserID)
}
