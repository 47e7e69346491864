package models

import "time"

// Event types published after successful mutations.
const (
	EventUserRegistered = "user.registered"
	EventUserLogin      = "user.login"
	EventProfileUpdated = "profile.updated"
	EventWorkoutCreated = "workout.created"
	EventWorkoutUpdated = "workout.updated"
	EventWorkoutDeleted = "workout.deleted"
)

// Event is an activity notification for a single user. Events are not persisted.
type Event struct {
	Type      string      `json:"type"`
	UserID    int64       `json:"userId"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}
