package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/shareit/internal/events"
	"github.com/spec-kit/shareit/internal/observability"
)

const defaultOutboxSize = 256

// EventPublisher forwards serialized events outside the process.
type EventPublisher interface {
	Publish(ctx context.Context, payload []byte) error
}

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  EventPublisher
	metrics    *observability.Metrics
	logger     *zap.Logger
	outbox     chan events.Event
}

// NewNotificationService creates the service. publisher may be nil, in which case events are
// only logged.
func NewNotificationService(dispatcher events.Dispatcher, publisher EventPublisher, metrics *observability.Metrics, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		metrics:    metrics,
		logger:     loggerOrNop(logger),
		outbox:     make(chan events.Event, defaultOutboxSize),
	}
}

// RegisterHandlers subscribes to events. Booking events are logged in detail; every event is
// queued for the publisher exactly once.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventBookingCreated, n.handleBookingCreated)
	n.dispatcher.Subscribe(events.EventBookingStatusChanged, n.handleBookingStatusChanged)
	n.dispatcher.SubscribeAll(n.enqueue)
}

// Run forwards queued events to the publisher until ctx is done.
func (n *NotificationService) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			n.drain()
			return
		case event := <-n.outbox:
			n.forward(ctx, event)
		}
	}
}

func (n *NotificationService) drain() {
	for {
		select {
		case event := <-n.outbox:
			n.forward(context.Background(), event)
		default:
			return
		}
	}
}

func (n *NotificationService) handleBookingCreated(_ context.Context, event events.Event) error {
	n.logger.Info("BookingCreated", zap.Int64("booking_id", event.SubjectID), zap.Int64("booker_id", event.ActorID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleBookingStatusChanged(_ context.Context, event events.Event) error {
	n.logger.Info("BookingStatusChanged", zap.Int64("booking_id", event.SubjectID), zap.Int64("owner_id", event.ActorID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) enqueue(_ context.Context, event events.Event) error {
	n.metrics.RecordEvent(string(event.Type))
	n.logger.Debug("DomainEvent", zap.String("type", string(event.Type)), zap.Int64("subject_id", event.SubjectID))
	if n.publisher == nil {
		return nil
	}
	select {
	case n.outbox <- event:
	default:
		n.logger.Warn("notification outbox full; dropping event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)))
	}
	return nil
}

func (n *NotificationService) forward(ctx context.Context, event events.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		n.logger.Error("encode event", zap.String("event_id", event.ID), zap.Error(err))
		return
	}
	if err := n.publisher.Publish(ctx, payload); err != nil {
		n.logger.Warn("publish event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.Error(err))
		return
	}
	n.logger.Debug("event published", zap.String("event_id", event.ID), zap.String("type", string(event.Type)))
}
