// Package events defines the order lifecycle events published after
// successful creations, transitions, and assignments.
package events

import (
	"time"

	"github.com/flowdesk/flowdesk/pkg/models"
)

type EventType string

// Topic carries every order lifecycle event.
const Topic = "flowdesk.order-events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	OrderCreatedEvent      EventType = "order.created"
	OrderAssignedEvent     EventType = "order.assigned"
	OrderTransitionedEvent EventType = "order.transitioned"
	OrderClosedEvent       EventType = "order.closed"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	OrderID   string         `json:"order_id"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type OrderCreated struct {
	BaseEvent

	TemplateID   string              `json:"template_id,omitempty"`
	TargetModule models.TargetModule `json:"target_module"`
	Status       string              `json:"status"`
	CreatedBy    string              `json:"created_by,omitempty"`
}

func (e OrderCreated) GetType() EventType {
	return OrderCreatedEvent
}

type OrderAssigned struct {
	BaseEvent

	AssignedTo string `json:"assigned_to"`
}

func (e OrderAssigned) GetType() EventType {
	return OrderAssignedEvent
}

type OrderTransitioned struct {
	BaseEvent

	FromNodeID string `json:"from_node_id"`
	ToNodeID   string `json:"to_node_id"`
	Status     string `json:"status"`
	ActorRole  string `json:"actor_role,omitempty"`
}

func (e OrderTransitioned) GetType() EventType {
	return OrderTransitionedEvent
}

// OrderClosed fires when a transition lands on an end node.
type OrderClosed struct {
	BaseEvent

	Status string `json:"status"`
}

func (e OrderClosed) GetType() EventType {
	return OrderClosedEvent
}
