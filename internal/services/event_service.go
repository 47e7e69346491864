package services

import (
	"context"
	"time"

	"github.com/isdelr/fittrack-be/internal/models"
	"github.com/isdelr/fittrack-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// Broadcaster delivers an encoded message to the live subscribers of a user.
type Broadcaster interface {
	Publish(userID int64, message []byte)
}

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	Publish(ctx context.Context, eventType string, userID int64, payload interface{})
}

// EventService logs activity events and fans them out to websocket subscribers.
type EventService struct {
	broadcaster Broadcaster
	now         func() time.Time
}

// NewEventService creates a new EventService. A nil broadcaster only logs.
func NewEventService(broadcaster Broadcaster) *EventService {
	return &EventService{broadcaster: broadcaster, now: time.Now}
}

// Publish records an event. It never fails the caller.
func (s *EventService) Publish(ctx context.Context, eventType string, userID int64, payload interface{}) {
	event := models.Event{
		Type:      eventType,
		UserID:    userID,
		Payload:   payload,
		Timestamp: s.now().UTC(),
	}

	log.Ctx(ctx).Info().Str("event", eventType).Int64("user_id", userID).Msg("Activity event")

	if s.broadcaster != nil {
		s.broadcaster.Publish(userID, websocket.NewMessage(websocket.ActionEvent, event))
	}
}
