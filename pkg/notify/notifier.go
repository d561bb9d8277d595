// Package notify delivers best-effort order notifications. Delivery is
// fire-and-forget by contract: a failed notification is logged and
// swallowed, and must never cause the triggering transition or save to be
// reported as failed.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/flowdesk/flowdesk/pkg/eventbus"
	"github.com/flowdesk/flowdesk/pkg/events"
	"github.com/flowdesk/flowdesk/pkg/models"
	"github.com/google/uuid"
)

// Notifier publishes order lifecycle notifications. Implementations must
// never block the caller on delivery problems; none of the methods can fail.
type Notifier interface {
	OrderCreated(ctx context.Context, order *models.OrderInstance)
	OrderAssigned(ctx context.Context, order *models.OrderInstance, targetActor string)
	OrderTransitioned(ctx context.Context, order *models.OrderInstance, fromNodeID, actorRole string)
	OrderClosed(ctx context.Context, order *models.OrderInstance)
}

// EventBusNotifier publishes notifications onto the order events topic for
// downstream senders (mail, webhook) to consume.
type EventBusNotifier struct {
	bus    eventbus.EventPublisher
	logger *slog.Logger
}

// NewEventBusNotifier creates a notifier backed by the event bus.
func NewEventBusNotifier(bus eventbus.EventPublisher, logger *slog.Logger) *EventBusNotifier {
	return &EventBusNotifier{
		bus:    bus,
		logger: logger.With("module", "notifier"),
	}
}

func (n *EventBusNotifier) base(eventType events.EventType, orderID string) events.BaseEvent {
	return events.BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		OrderID:   orderID,
	}
}

func (n *EventBusNotifier) publish(ctx context.Context, orderID string, event eventbus.Event) {
	err := n.bus.Publish(ctx, orderID, event)
	if err != nil {
		n.logger.ErrorContext(ctx, "failed to publish notification",
			"event_type", event.GetType(), "order_id", orderID, "error", err)
	}
}

func (n *EventBusNotifier) OrderCreated(ctx context.Context, order *models.OrderInstance) {
	n.publish(ctx, order.ID, events.OrderCreated{
		BaseEvent:    n.base(events.OrderCreatedEvent, order.ID),
		TemplateID:   order.TemplateID,
		TargetModule: order.TargetModule,
		Status:       order.Status,
		CreatedBy:    order.CreatedBy,
	})
}

func (n *EventBusNotifier) OrderAssigned(ctx context.Context, order *models.OrderInstance, targetActor string) {
	n.publish(ctx, order.ID, events.OrderAssigned{
		BaseEvent:  n.base(events.OrderAssignedEvent, order.ID),
		AssignedTo: targetActor,
	})
}

func (n *EventBusNotifier) OrderTransitioned(ctx context.Context, order *models.OrderInstance, fromNodeID, actorRole string) {
	n.publish(ctx, order.ID, events.OrderTransitioned{
		BaseEvent:  n.base(events.OrderTransitionedEvent, order.ID),
		FromNodeID: fromNodeID,
		ToNodeID:   order.CurrentNodeID,
		Status:     order.Status,
		ActorRole:  actorRole,
	})
}

func (n *EventBusNotifier) OrderClosed(ctx context.Context, order *models.OrderInstance) {
	n.publish(ctx, order.ID, events.OrderClosed{
		BaseEvent: n.base(events.OrderClosedEvent, order.ID),
		Status:    order.Status,
	})
}

// LogNotifier writes notifications to the log only. Used when no event bus
// is configured.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With("module", "notifier")}
}

func (n *LogNotifier) OrderCreated(ctx context.Context, order *models.OrderInstance) {
	n.logger.InfoContext(ctx, "order created", "order_id", order.ID, "status", order.Status)
}

func (n *LogNotifier) OrderAssigned(ctx context.Context, order *models.OrderInstance, targetActor string) {
	n.logger.InfoContext(ctx, "order assigned", "order_id", order.ID, "assigned_to", targetActor)
}

func (n *LogNotifier) OrderTransitioned(ctx context.Context, order *models.OrderInstance, fromNodeID, actorRole string) {
	n.logger.InfoContext(ctx, "order transitioned",
		"order_id", order.ID, "from_node", fromNodeID, "to_node", order.CurrentNodeID, "status", order.Status)
}

func (n *LogNotifier) OrderClosed(ctx context.Context, order *models.OrderInstance) {
	n.logger.InfoContext(ctx, "order closed", "order_id", order.ID, "status", order.Status)
}
