// Package queue defines the activity events exchanged over the message broker
// together with the publisher and the background consumer.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// EventType names the relationship an activity event is about.
type EventType string

// Operation names what happened to the relationship.
type Operation string

const (
	EventLike   EventType = "LIKE"
	EventFriend EventType = "FRIEND"

	OperationAdd    Operation = "ADD"
	OperationRemove Operation = "REMOVE"
)

// ActivityEvent is published after a like or friendship changes. UserID is
// the acting user; EntityID is the film (LIKE) or the other user (FRIEND).
type ActivityEvent struct {
	EventID   string    `json:"event_id"`
	EventType EventType `json:"event_type"`
	Operation Operation `json:"operation"`
	UserID    int64     `json:"user_id"`
	EntityID  int64     `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewActivityEvent stamps a fresh event id and the current UTC time.
func NewActivityEvent(typ EventType, op Operation, userID, entityID int64) ActivityEvent {
	return ActivityEvent{
		EventID:   uuid.NewString(),
		EventType: typ,
		Operation: op,
		UserID:    userID,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
	}
}
