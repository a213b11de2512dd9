package model

import (
	"encoding/json"
	"time"
)

// NotificationType categorizes notifications for client rendering.
type NotificationType string

const (
	NotificationEmergency    NotificationType = "EMERGENCY"
	NotificationSecurity     NotificationType = "SECURITY"
	NotificationAnnouncement NotificationType = "ANNOUNCEMENT"
	NotificationSystem       NotificationType = "SYSTEM"
)

// Notification is a durable per-user message. It is immutable once written
// except for the read/archived flags, which the recipient's client toggles.
type Notification struct {
	ID                string           `json:"id"`
	UserID            int64            `json:"user_id"`
	Type              NotificationType `json:"type"`
	Title             string           `json:"title"`
	Message           string           `json:"message"`
	Data              json.RawMessage  `json:"data,omitempty"`
	IsRead            bool             `json:"is_read"`
	ReadAt            *time.Time       `json:"read_at,omitempty"`
	IsArchived        bool             `json:"is_archived"`
	CreatedBy         *int64           `json:"created_by,omitempty"`
	RelatedEntityID   string           `json:"related_entity_id,omitempty"`
	RelatedEntityType string           `json:"related_entity_type,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
}
