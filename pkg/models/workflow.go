package models

import "time"

// NodeType classifies a workflow node.
type NodeType string

const (
	NodeTypeStart     NodeType = "start"
	NodeTypeEnd       NodeType = "end"
	NodeTypeProcess   NodeType = "process"
	NodeTypeExclusive NodeType = "exclusive"
	NodeTypeParallel  NodeType = "parallel"
)

// RoleAll is the sentinel role meaning any actor may act on a node.
const RoleAll = "ALL"

// RoleAdmin holds the system administrator capability, which bypasses
// node-level role gates. Kept as an explicit named rule, not a backdoor.
const RoleAdmin = "ADMIN"

// CapabilityManageSystem gates the template designer surface.
const CapabilityManageSystem = "MANAGE_SYSTEM"

// WorkflowNode is one state in a process graph. Name doubles as the
// human-readable order status while an order occupies the node.
type WorkflowNode struct {
	ID        string   `json:"id"         validate:"required"`
	Name      string   `json:"name"       validate:"required"`
	Role      string   `json:"role"`
	Type      NodeType `json:"type"       validate:"required,oneof=start end process exclusive parallel"`
	NextNodes []string `json:"next_nodes"`
}

// IsTerminal reports whether an order at this node has finished its process.
func (n *WorkflowNode) IsTerminal() bool {
	return n.Type == NodeTypeEnd
}

// TargetModule selects which product surface a template belongs to.
type TargetModule string

const (
	TargetModuleService    TargetModule = "service"    // after-sales repair orders
	TargetModuleProduction TargetModule = "production" // production-line data entry
)

// ProcessTemplate is the authored unit pairing a workflow graph with a form
// schema. Updated in place on re-save; Version is bumped by the store on
// every write and recorded on orders at creation time.
type ProcessTemplate struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"          validate:"required,min=2"`
	Description  string         `json:"description"`
	TargetModule TargetModule   `json:"target_module" validate:"required,oneof=service production"`
	FormSchema   []FormField    `json:"form_schema"`
	Workflow     []WorkflowNode `json:"workflow"`
	Version      int            `json:"version"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
