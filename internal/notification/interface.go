package notification

import (
	"context"

	"dispatch-srv/internal/event"
	"dispatch-srv/internal/model"
)

//go:generate mockery --name UseCase
type UseCase interface {
	ToUser(ctx context.Context, ip ToUserInput) (model.Notification, error)
	ToAll(ctx context.Context, ip BroadcastInput) (FanoutOutput, error)
	ToGroup(ctx context.Context, groupKey string, ip BroadcastInput) (FanoutOutput, error)
	List(ctx context.Context, userID int64, ip ListInput) ([]model.Notification, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, userID int64, ids []string) (int64, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Archive(ctx context.Context, userID int64, id string) error
	Stats(ctx context.Context, userID int64) (StatsOutput, error)
}

// Store persists notification rows. The durable write always happens before
// any live push.
type Store interface {
	Create(ctx context.Context, n model.Notification) (model.Notification, error)
	CreateBatch(ctx context.Context, ns []model.Notification) (int, error)
	List(ctx context.Context, userID int64, opts ListOptions) ([]model.Notification, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, userID int64, ids []string) (int64, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Archive(ctx context.Context, userID int64, id string) error
	CountByType(ctx context.Context, userID int64) (map[model.NotificationType]int64, error)
}

// RecipientDirectory resolves fan-out targets.
type RecipientDirectory interface {
	ListActiveUserIDs(ctx context.Context) ([]int64, error)
	ListUserIDsByGroup(ctx context.Context, rtRw string) ([]int64, error)
}

// Pusher delivers a live event to whatever sockets a user currently holds.
// Returns the number of sockets reached; zero is not an error.
type Pusher interface {
	PushToUser(userID int64, ev event.Event) int
}
