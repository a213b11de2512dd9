package usecase

import (
	"context"

	"dispatch-srv/internal/model"
	"dispatch-srv/internal/notification"
)

const defaultListLimit = 50

func (uc *usecase) List(ctx context.Context, userID int64, ip notification.ListInput) ([]model.Notification, error) {
	limit := ip.Limit
	if limit <= 0 || limit > 200 {
		limit = defaultListLimit
	}

	ns, err := uc.store.List(ctx, userID, notification.ListOptions{
		UnreadOnly:      ip.UnreadOnly,
		IncludeArchived: ip.IncludeArchived,
		Type:            ip.Type,
		Limit:           limit,
		Offset:          ip.Offset,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.notification.usecase.List: %v", err)
		return nil, err
	}

	return ns, nil
}

func (uc *usecase) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	count, err := uc.store.UnreadCount(ctx, userID)
	if err != nil {
		uc.l.Errorf(ctx, "internal.notification.usecase.UnreadCount: %v", err)
		return 0, err
	}
	return count, nil
}

func (uc *usecase) MarkRead(ctx context.Context, userID int64, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, notification.ErrInvalidInput
	}

	updated, err := uc.store.MarkRead(ctx, userID, ids)
	if err != nil {
		uc.l.Errorf(ctx, "internal.notification.usecase.MarkRead: %v", err)
		return 0, err
	}
	return updated, nil
}

func (uc *usecase) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	updated, err := uc.store.MarkAllRead(ctx, userID)
	if err != nil {
		uc.l.Errorf(ctx, "internal.notification.usecase.MarkAllRead: %v", err)
		return 0, err
	}
	return updated, nil
}

func (uc *usecase) Archive(ctx context.Context, userID int64, id string) error {
	if err := uc.store.Archive(ctx, userID, id); err != nil {
		if err == notification.ErrNotificationNotFound {
			return err
		}
		uc.l.Errorf(ctx, "internal.notification.usecase.Archive: %v", err)
		return err
	}
	return nil
}

func (uc *usecase) Stats(ctx context.Context, userID int64) (notification.StatsOutput, error) {
	byType, err := uc.store.CountByType(ctx, userID)
	if err != nil {
		uc.l.Errorf(ctx, "internal.notification.usecase.Stats: %v", err)
		return notification.StatsOutput{}, err
	}

	unread, err := uc.store.UnreadCount(ctx, userID)
	if err != nil {
		uc.l.Errorf(ctx, "internal.notification.usecase.Stats: %v", err)
		return notification.StatsOutput{}, err
	}

	var total int64
	for _, c := range byType {
		total += c
	}

	return notification.StatsOutput{
		Total:  total,
		Unread: unread,
		ByType: byType,
	}, nil
}
