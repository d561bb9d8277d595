package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/flowdesk/flowdesk/pkg/forms"
	"github.com/flowdesk/flowdesk/pkg/models"
	"github.com/flowdesk/flowdesk/pkg/notify"
	"github.com/flowdesk/flowdesk/pkg/otelhelper"
	"github.com/flowdesk/flowdesk/pkg/persistence"
	"github.com/flowdesk/flowdesk/pkg/workflow"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Order coordinates the workflow engine, the form contracts and the stores
// around one order instance. All mutations of CurrentNodeID, Status and
// DynamicData pass through here.
type Order struct {
	persistence persistence.Persistence
	notifier    notify.Notifier
	uploader    forms.Uploader
	tracer      trace.Tracer
	logger      *slog.Logger
}

// NewOrder creates a new order service.
func NewOrder(p persistence.Persistence, notifier notify.Notifier, uploader forms.Uploader, tracer trace.Tracer, logger *slog.Logger) *Order {
	return &Order{
		persistence: p,
		notifier:    notifier,
		uploader:    uploader,
		tracer:      tracer,
		logger:      logger.With("module", "order-service"),
	}
}

// List retrieves orders matching the filter.
func (s *Order) List(ctx context.Context, filter persistence.OrderFilter) ([]*models.OrderInstance, error) {
	return s.persistence.Orders().List(ctx, filter)
}

// FetchByID retrieves an order by its ID.
func (s *Order) FetchByID(ctx context.Context, id string) (*models.OrderInstance, error) {
	return s.persistence.Orders().GetByID(ctx, id)
}

// CreateRequest carries everything needed to open a new order against a
// template.
type CreateRequest struct {
	TemplateID string
	FormData   models.FormData
	AssignedTo string
	CreatedBy  string
}

// Create opens a new order: the submitted form data must satisfy the
// template's required fields, and the order lands on the graph's initial
// node with the node name as its status.
func (s *Order) Create(ctx context.Context, req CreateRequest) (*models.OrderInstance, error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "order.create",
		attribute.String(otelhelper.TemplateIDKey, req.TemplateID))
	defer span.End()

	template, err := s.persistence.Templates().GetByID(ctx, req.TemplateID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	data := req.FormData
	if data == nil {
		data = models.FormData{}
	}

	fieldErrs := forms.Validate(template.FormSchema, data)
	if len(fieldErrs) > 0 {
		err := &FieldValidationError{Fields: fieldErrs}
		otelhelper.SetError(span, err)

		return nil, err
	}

	initial, err := workflow.InitialNode(template.Workflow)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	now := time.Now().UTC()
	order := &models.OrderInstance{
		ID:              uuid.New().String(),
		TemplateID:      template.ID,
		TemplateVersion: template.Version,
		TargetModule:    template.TargetModule,
		CurrentNodeID:   initial.ID,
		Status:          initial.Name,
		DynamicData:     data,
		AssignedTo:      req.AssignedTo,
		CreatedBy:       req.CreatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err = s.persistence.Orders().Create(ctx, order)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	span.SetAttributes(attribute.String(otelhelper.OrderIDKey, order.ID))
	s.logger.InfoContext(ctx, "order created",
		"order_id", order.ID, "template_id", template.ID, "status", order.Status)

	s.notifier.OrderCreated(ctx, order)

	if order.AssignedTo != "" {
		s.notifier.OrderAssigned(ctx, order, order.AssignedTo)
	}

	return order, nil
}

// LegalTargets lists the transitions available from the order's current
// node, gateways already resolved to their outcome branches.
func (s *Order) LegalTargets(ctx context.Context, orderID string) ([]models.WorkflowNode, error) {
	order, template, err := s.fetchWithTemplate(ctx, orderID)
	if err != nil {
		return nil, err
	}

	current, err := workflow.FindNode(template.Workflow, order.CurrentNodeID)
	if err != nil {
		return nil, &workflow.StructuralError{NodeID: order.CurrentNodeID, Reason: "current node no longer exists in workflow"}
	}

	return workflow.LegalTargets(template.Workflow, current)
}

// Transition advances the order to targetNodeID on behalf of actorRole and
// persists the new position under optimistic concurrency.
func (s *Order) Transition(ctx context.Context, orderID, targetNodeID, actorRole string) (*models.OrderInstance, error) {
	ctx, span := otelhelper.StartSpan(ctx, s.tracer, "order.transition",
		attribute.String(otelhelper.OrderIDKey, orderID),
		attribute.String(otelhelper.TargetNodeIDKey, targetNodeID),
		attribute.String(otelhelper.ActorRoleKey, actorRole))
	defer span.End()

	order, template, err := s.fetchWithTemplate(ctx, orderID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	fromNodeID := order.CurrentNodeID

	err = workflow.Transition(order, template.Workflow, targetNodeID, actorRole)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	updated, err := s.persistence.Orders().Update(ctx, order.ID, order.Version, persistence.OrderUpdate{
		CurrentNodeID: &order.CurrentNodeID,
		Status:        &order.Status,
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	s.logger.InfoContext(ctx, "order transitioned",
		"order_id", updated.ID, "from_node", fromNodeID, "to_node", updated.CurrentNodeID, "status", updated.Status)

	s.notifier.OrderTransitioned(ctx, updated, fromNodeID, actorRole)

	target, err := workflow.FindNode(template.Workflow, updated.CurrentNodeID)
	if err == nil && target.IsTerminal() {
		s.notifier.OrderClosed(ctx, updated)
	}

	return updated, nil
}

// ValidateFormData checks a data bag against the order's template schema
// without persisting anything.
func (s *Order) ValidateFormData(ctx context.Context, orderID string, data models.FormData) error {
	_, template, err := s.fetchWithTemplate(ctx, orderID)
	if err != nil {
		return err
	}

	fieldErrs := forms.Validate(template.FormSchema, data)
	if len(fieldErrs) > 0 {
		return &FieldValidationError{Fields: fieldErrs}
	}

	return nil
}

// SubmitFormData applies field values one by one through the form renderer
// contract and persists the resulting bag. A single rejected field rejects
// the whole submission; the stored bag is never partially updated.
func (s *Order) SubmitFormData(ctx context.Context, orderID string, values map[string]models.FieldValue) (*models.OrderInstance, error) {
	order, template, err := s.fetchWithTemplate(ctx, orderID)
	if err != nil {
		return nil, err
	}

	data := order.DynamicData
	if data == nil {
		data = models.FormData{}
	}

	for fieldID, value := range values {
		data, err = forms.Apply(template.FormSchema, data, fieldID, value)
		if err != nil {
			return nil, err
		}
	}

	fieldErrs := forms.Validate(template.FormSchema, data)
	if len(fieldErrs) > 0 {
		return nil, &FieldValidationError{Fields: fieldErrs}
	}

	updated, err := s.persistence.Orders().Update(ctx, order.ID, order.Version, persistence.OrderUpdate{
		DynamicData: data,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "order form data updated", "order_id", updated.ID, "fields", len(values))

	return updated, nil
}

// AttachFile uploads file content for one file field and records the stored
// reference on the order.
func (s *Order) AttachFile(ctx context.Context, orderID, fieldID, filename string, content []byte, mimeType string) (*models.OrderInstance, error) {
	order, template, err := s.fetchWithTemplate(ctx, orderID)
	if err != nil {
		return nil, err
	}

	data, err := forms.AttachFile(ctx, template.FormSchema, order.DynamicData, fieldID, s.uploader, filename, content, mimeType)
	if err != nil {
		return nil, err
	}

	return s.persistence.Orders().Update(ctx, order.ID, order.Version, persistence.OrderUpdate{
		DynamicData: data,
	})
}

// RenderForm produces the read-only projection of the order's form.
func (s *Order) RenderForm(ctx context.Context, orderID string) ([]forms.FieldView, error) {
	order, template, err := s.fetchWithTemplate(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return forms.Project(template.FormSchema, order.DynamicData), nil
}

// Reassign points the order at a new expected actor. Assignment is
// orthogonal to the role gates, so this deliberately bypasses the engine.
func (s *Order) Reassign(ctx context.Context, orderID, assignee string) (*models.OrderInstance, error) {
	if assignee == "" {
		return nil, ErrEmptyAssignee
	}

	order, err := s.FetchByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	updated, err := s.persistence.Orders().Update(ctx, order.ID, order.Version, persistence.OrderUpdate{
		AssignedTo: &assignee,
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "order reassigned", "order_id", updated.ID, "assigned_to", assignee)

	s.notifier.OrderAssigned(ctx, updated, assignee)

	return updated, nil
}

func (s *Order) fetchWithTemplate(ctx context.Context, orderID string) (*models.OrderInstance, *models.ProcessTemplate, error) {
	order, err := s.persistence.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	if !order.IsTemplated() {
		return nil, nil, workflow.ErrNotTemplated
	}

	template, err := s.persistence.Templates().GetByID(ctx, order.TemplateID)
	if err != nil {
		return nil, nil, err
	}

	// Orders that predate the ID-keyed data bag may still carry label keys.
	order.DynamicData = models.MigrateLabelKeys(template.FormSchema, order.DynamicData)

	return order, template, nil
}
