package notification

import "dispatch-srv/internal/model"

// ToUserInput carries a single-recipient notification.
type ToUserInput struct {
	UserID            int64
	Type              model.NotificationType
	Title             string
	Message           string
	Data              any
	CreatedBy         *int64
	RelatedEntityID   string
	RelatedEntityType string
}

// BroadcastInput carries a community-wide or group-wide notification.
type BroadcastInput struct {
	Type              model.NotificationType
	Title             string
	Message           string
	Data              any
	CreatedBy         *int64
	RelatedEntityID   string
	RelatedEntityType string
}

// FanoutOutput reports how far a broadcast reached.
type FanoutOutput struct {
	Recipients int `json:"recipients"`
	Pushed     int `json:"pushed"`
}

// ListInput filters a recipient's notification feed.
type ListInput struct {
	UnreadOnly      bool
	IncludeArchived bool
	Type            model.NotificationType
	Limit           int
	Offset          int
}

// ListOptions is the store-level form of ListInput.
type ListOptions struct {
	UnreadOnly      bool
	IncludeArchived bool
	Type            model.NotificationType
	Limit           int
	Offset          int
}

// StatsOutput summarizes a recipient's feed.
type StatsOutput struct {
	Total  int64                            `json:"total"`
	Unread int64                            `json:"unread"`
	ByType map[model.NotificationType]int64 `json:"by_type"`
}
