package notify

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/flowdesk/flowdesk/pkg/eventbus"
	"github.com/flowdesk/flowdesk/pkg/events"
	"github.com/flowdesk/flowdesk/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingBus struct {
	published []eventbus.Event
	err       error
}

func (b *capturingBus) Publish(_ context.Context, _ string, event eventbus.Event) error {
	if b.err != nil {
		return b.err
	}

	b.published = append(b.published, event)

	return nil
}

func TestEventBusNotifier_PublishesLifecycleEvents(t *testing.T) {
	bus := &capturingBus{}
	notifier := NewEventBusNotifier(bus, slog.Default())

	order := &models.OrderInstance{
		ID:            "order-1",
		TemplateID:    "tpl-1",
		TargetModule:  models.TargetModuleService,
		CurrentNodeID: "repair",
		Status:        "维修",
	}

	notifier.OrderCreated(context.Background(), order)
	notifier.OrderAssigned(context.Background(), order, "alice")
	notifier.OrderTransitioned(context.Background(), order, "approval", "MANAGER")
	notifier.OrderClosed(context.Background(), order)

	require.Len(t, bus.published, 4)
	assert.Equal(t, events.OrderCreatedEvent, bus.published[0].GetType())
	assert.Equal(t, events.OrderAssignedEvent, bus.published[1].GetType())
	assert.Equal(t, events.OrderTransitionedEvent, bus.published[2].GetType())
	assert.Equal(t, events.OrderClosedEvent, bus.published[3].GetType())

	transitioned, ok := bus.published[2].(events.OrderTransitioned)
	require.True(t, ok)
	assert.Equal(t, "approval", transitioned.FromNodeID)
	assert.Equal(t, "repair", transitioned.ToNodeID)
}

func TestEventBusNotifier_SwallowsPublishFailures(t *testing.T) {
	bus := &capturingBus{err: errors.New("broker down")}
	notifier := NewEventBusNotifier(bus, slog.Default())

	// Must not panic or surface the error in any way.
	notifier.OrderCreated(context.Background(), &models.OrderInstance{ID: "order-1"})
	assert.Empty(t, bus.published)
}
