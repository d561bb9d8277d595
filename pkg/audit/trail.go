// Package audit consumes order lifecycle events and writes them to the
// structured log, giving operators a flat history of every order.
package audit

import (
	"context"
	"log/slog"

	"github.com/flowdesk/flowdesk/pkg/eventbus"
	"github.com/flowdesk/flowdesk/pkg/events"
)

type Trail struct {
	logger *slog.Logger
}

func NewTrail(logger *slog.Logger) *Trail {
	return &Trail{logger: logger.With("module", "audit")}
}

// Start registers the trail on every order event and begins consuming.
// It returns once the subscription is live; consumption stops when ctx
// is cancelled.
func (t *Trail) Start(ctx context.Context, bus eventbus.EventBus) error {
	handlers := map[events.EventType]eventbus.EventHandler{
		events.OrderCreatedEvent:      t.created,
		events.OrderAssignedEvent:     t.assigned,
		events.OrderTransitionedEvent: t.transitioned,
		events.OrderClosedEvent:       t.closed,
	}

	for eventType, handler := range handlers {
		if err := bus.Handle(eventType, handler); err != nil {
			return err
		}
	}

	return bus.Subscribe(ctx)
}

func (t *Trail) created(_ context.Context, event any) error {
	created, ok := event.(*events.OrderCreated)
	if !ok {
		return nil
	}

	t.logger.Info("order created",
		"order_id", created.OrderID,
		"template_id", created.TemplateID,
		"target_module", created.TargetModule,
		"created_by", created.CreatedBy)

	return nil
}

func (t *Trail) assigned(_ context.Context, event any) error {
	assigned, ok := event.(*events.OrderAssigned)
	if !ok {
		return nil
	}

	t.logger.Info("order assigned",
		"order_id", assigned.OrderID,
		"assigned_to", assigned.AssignedTo)

	return nil
}

func (t *Trail) transitioned(_ context.Context, event any) error {
	transitioned, ok := event.(*events.OrderTransitioned)
	if !ok {
		return nil
	}

	t.logger.Info("order transitioned",
		"order_id", transitioned.OrderID,
		"from_node_id", transitioned.FromNodeID,
		"to_node_id", transitioned.ToNodeID,
		"actor_role", transitioned.ActorRole)

	return nil
}

func (t *Trail) closed(_ context.Context, event any) error {
	closed, ok := event.(*events.OrderClosed)
	if !ok {
		return nil
	}

	t.logger.Info("order closed",
		"order_id", closed.OrderID,
		"status", closed.Status)

	return nil
}
