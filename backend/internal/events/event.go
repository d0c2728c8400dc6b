package events

import "time"

const (
	EventItemAdded   = "ITEM_ADDED"
	EventItemRemoved = "ITEM_REMOVED"
)

// ListEvent 是列表变更后发往 Kafka 的事件（推荐、活动流等下游消费）
type ListEvent struct {
	EventType   string    `json:"eventType"` // ITEM_ADDED / ITEM_REMOVED
	UserID      string    `json:"userId"`
	ContentID   string    `json:"contentId"`
	ContentType string    `json:"contentType,omitempty"`
	Version     int64     `json:"version"` // 变更后的列表版本号
	OccurredAt  time.Time `json:"occurredAt"`
}
