package queue

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types for the bookmark stream
const (
	EventBookmarkAdded   = "bookmark_added"
	EventBookmarkRemoved = "bookmark_removed"
)

// Stream names
const (
	StreamBookmarks = "stream:bookmarks"
)

// Consumer group name for bookmark workers
const (
	ConsumerGroupBookmarks = "bookmark_workers"
)

// BookmarkEvent represents an event published to the bookmark stream.
// The worker applies these to the per-user bookmark cache.
type BookmarkEvent struct {
	Type      string `json:"type"`      // EventBookmarkAdded or EventBookmarkRemoved
	Timestamp int64  `json:"timestamp"` // Unix timestamp when event occurred

	UserID    int64  `json:"user_id"`
	ProductID string `json:"product_id"`
}

// NewBookmarkAddedEvent creates an event for a bookmark insertion.
func NewBookmarkAddedEvent(userID int64, productID string) BookmarkEvent {
	return BookmarkEvent{
		Type:      EventBookmarkAdded,
		Timestamp: time.Now().Unix(),
		UserID:    userID,
		ProductID: productID,
	}
}

// NewBookmarkRemovedEvent creates an event for a bookmark deletion.
func NewBookmarkRemovedEvent(userID int64, productID string) BookmarkEvent {
	return BookmarkEvent{
		Type:      EventBookmarkRemoved,
		Timestamp: time.Now().Unix(),
		UserID:    userID,
		ProductID: productID,
	}
}

// ToMap converts the event to a map for Redis XADD.
// Redis Streams store field-value pairs, so we serialize to JSON in a "data" field.
func (e BookmarkEvent) ToMap() (map[string]interface{}, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return map[string]interface{}{
		"type": e.Type,
		"data": string(data),
	}, nil
}

// ParseBookmarkEvent parses a BookmarkEvent from Redis stream message values.
func ParseBookmarkEvent(values map[string]interface{}) (BookmarkEvent, error) {
	data, ok := values["data"].(string)
	if !ok {
		return BookmarkEvent{}, fmt.Errorf("missing or invalid 'data' field")
	}

	var event BookmarkEvent
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		return BookmarkEvent{}, fmt.Errorf("unmarshal event: %w", err)
	}
	return event, nil
}
