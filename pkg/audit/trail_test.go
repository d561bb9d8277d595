package audit

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/flowdesk/flowdesk/pkg/channels/gochannel"
	"github.com/flowdesk/flowdesk/pkg/eventbus"
	"github.com/flowdesk/flowdesk/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrailRecordsLifecycleEvents(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(slog.NewTextHandler(&buf, nil))

	pub, sub, err := gochannel.CreateTestChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := eventbus.NewWatermillEventBus(pub, sub)
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	trail := NewTrail(logger)
	require.NoError(t, trail.Start(ctx, bus))

	base := events.BaseEvent{
		ID:        bus.GenerateID(),
		Type:      events.OrderCreatedEvent,
		Timestamp: time.Now(),
		OrderID:   "ord-1",
	}

	created := &events.OrderCreated{BaseEvent: base, TemplateID: "tpl-1", Status: "open"}
	require.NoError(t, bus.Publish(ctx, "ord-1", created))

	base.Type = events.OrderTransitionedEvent
	transitioned := &events.OrderTransitioned{
		BaseEvent:  base,
		FromNodeID: "approval",
		ToNodeID:   "repair",
		ActorRole:  "MANAGER",
	}
	require.NoError(t, bus.Publish(ctx, "ord-1", transitioned))

	base.Type = events.OrderClosedEvent
	closed := &events.OrderClosed{BaseEvent: base, Status: "closed"}
	require.NoError(t, bus.Publish(ctx, "ord-1", closed))

	// The test channel blocks each publish until the consumer acked, so
	// all three lines are in the buffer by now.
	out := buf.String()
	assert.Contains(t, out, "order created")
	assert.Contains(t, out, "tpl-1")
	assert.Contains(t, out, "order transitioned")
	assert.Contains(t, out, "to_node_id=repair")
	assert.Contains(t, out, "order closed")
}
