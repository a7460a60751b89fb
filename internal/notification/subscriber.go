package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/employee-management/internal/core/events"
)

type EmailQueue interface {
	Enqueue(msg Message) error
}

type Pusher interface {
	SendToUser(userID int64, message []byte)
}

// Notification is the websocket frame pushed for a workflow event.
type Notification struct {
	Type       string      `json:"type"`
	EventID    string      `json:"event_id"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// Subscriber turns workflow events into emails and websocket pushes.
// Delivery problems are logged and never returned to the publisher.
type Subscriber struct {
	emails EmailQueue
	pusher Pusher
	logger *slog.Logger
}

func NewSubscriber(emails EmailQueue, pusher Pusher, logger *slog.Logger) *Subscriber {
	return &Subscriber{
		emails: emails,
		pusher: pusher,
		logger: logger,
	}
}

func (s *Subscriber) Register(bus *events.EventBus) {
	bus.SubscribeAll(s.HandleLeaveEvent, events.LeaveEventTypes...)
	bus.SubscribeAll(s.HandleRequestEvent, events.RequestEventTypes...)
	s.logger.Info("notification handlers registered",
		"leave_events", len(events.LeaveEventTypes),
		"request_events", len(events.RequestEventTypes))
}

func (s *Subscriber) HandleLeaveEvent(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.LeaveEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T for %s", event, event.EventType())
	}

	if msg, ok := LeaveMessage(e); ok && s.emails != nil {
		if err := s.emails.Enqueue(msg); err != nil {
			s.logger.Warn("leave email not queued",
				"leave_id", e.LeaveID,
				"event_type", e.EventType(),
				"error", err)
		}
	}

	s.push(e.OwnerUserID, event)
	return nil
}

func (s *Subscriber) HandleRequestEvent(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.RequestEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T for %s", event, event.EventType())
	}

	s.push(e.RequesterID, event)
	return nil
}

func (s *Subscriber) push(userID int64, event events.Event) {
	if s.pusher == nil {
		return
	}

	frame, err := json.Marshal(Notification{
		Type:       event.EventType(),
		EventID:    event.EventID(),
		OccurredAt: event.OccurredAt(),
		Data:       event.Payload(),
	})
	if err != nil {
		s.logger.Error("failed to encode notification", "event_type", event.EventType(), "error", err)
		return
	}
	s.pusher.SendToUser(userID, frame)
}
