package models

import "time"

// OrderInstance is one live execution of a process template. CurrentNodeID
// and Status move only through the workflow engine; DynamicData moves only
// through the form renderer contracts. AssignedTo is orthogonal to the
// workflow role gates: it records who is expected to act, not who may.
type OrderInstance struct {
	ID              string       `json:"id"`
	TemplateID      string       `json:"template_id,omitempty"` // empty for legacy, non-templated orders
	TemplateVersion int          `json:"template_version,omitempty"`
	TargetModule    TargetModule `json:"target_module"`
	CurrentNodeID   string       `json:"current_node_id"`
	Status          string       `json:"status"`
	DynamicData     FormData     `json:"dynamic_data"`
	AssignedTo      string       `json:"assigned_to,omitempty"`
	CreatedBy       string       `json:"created_by,omitempty"`
	Version         int          `json:"version"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// IsTemplated reports whether the order is driven by a process template.
// Legacy orders without one cannot be transitioned by the engine.
func (o *OrderInstance) IsTemplated() bool {
	return o.TemplateID != ""
}
