// Package web provides the HTTP surface: template authoring, order
// lifecycle, menu and health endpoints.
package web

import "github.com/flowdesk/flowdesk/pkg/models"

// ActorRoleHeader carries the acting role resolved by the fronting identity
// layer. Authentication itself happens upstream; this service only consumes
// the resolved role.
const ActorRoleHeader = "X-Actor-Role"

// ActorPermissionsHeader carries the actor's permission codes, comma
// separated, for menu computation.
const ActorPermissionsHeader = "X-Actor-Permissions"

// SaveTemplateRequest upserts a process template.
type SaveTemplateRequest struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"          validate:"required,min=2"`
	Description  string                `json:"description"`
	TargetModule string                `json:"target_module" validate:"required,oneof=service production"`
	FormSchema   []models.FormField    `json:"form_schema"`
	Workflow     []models.WorkflowNode `json:"workflow"`
}

// CreateOrderRequest opens a new order against a template.
type CreateOrderRequest struct {
	TemplateID string          `json:"template_id" validate:"required"`
	FormData   models.FormData `json:"form_data"`
	AssignedTo string          `json:"assigned_to"`
	CreatedBy  string          `json:"created_by"`
}

// TransitionRequest advances an order to one of its legal targets.
type TransitionRequest struct {
	TargetNodeID string `json:"target_node_id" validate:"required"`
}

// SubmitFormRequest replaces the addressed fields of an order's data bag.
type SubmitFormRequest struct {
	Values map[string]models.FieldValue `json:"values" validate:"required"`
}

// ReassignRequest points an order at a new expected actor.
type ReassignRequest struct {
	Assignee string `json:"assignee" validate:"required"`
}
