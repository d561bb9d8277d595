package workflow

import (
	"time"

	"github.com/flowdesk/flowdesk/pkg/models"
)

// CanAct reports whether an actor holding actorRole may act on the node.
// System administrators bypass every node-level role gate; this is an
// explicit escape hatch for stuck workflows. An empty node role behaves
// like the ALL sentinel so half-authored nodes stay operable.
func CanAct(node *models.WorkflowNode, actorRole string) bool {
	if actorRole == models.RoleAdmin {
		return true
	}

	if node.Role == "" || node.Role == models.RoleAll {
		return true
	}

	return actorRole == node.Role
}

// LegalTargets computes the ordered transitions available from a node.
// Exclusive gateways are flattened one level: a gateway in next_nodes is
// replaced by its own resolved children at the substitution point, so the
// branch choices an actor sees are the gateway's outcomes, never the
// gateway itself. The flatten is deliberately single-level; a gateway
// chained behind another gateway surfaces as a raw node.
func LegalTargets(nodes []models.WorkflowNode, node *models.WorkflowNode) ([]models.WorkflowNode, error) {
	targets := make([]models.WorkflowNode, 0, len(node.NextNodes))

	for _, targetID := range node.NextNodes {
		target, err := FindNode(nodes, targetID)
		if err != nil {
			return nil, &StructuralError{NodeID: node.ID, Reason: "edge references missing node " + targetID}
		}

		if target.Type != models.NodeTypeExclusive {
			targets = append(targets, *target)

			continue
		}

		for _, branchID := range target.NextNodes {
			branch, err := FindNode(nodes, branchID)
			if err != nil {
				return nil, &StructuralError{NodeID: target.ID, Reason: "gateway branch references missing node " + branchID}
			}

			targets = append(targets, *branch)
		}
	}

	return targets, nil
}

// InitialNode resolves where a freshly created order starts: the start
// node's first legal target (gateways flattened), or the start node itself
// when no outgoing edge is authored yet.
func InitialNode(nodes []models.WorkflowNode) (*models.WorkflowNode, error) {
	start, err := StartNode(nodes)
	if err != nil {
		return nil, err
	}

	targets, err := LegalTargets(nodes, start)
	if err != nil {
		return nil, err
	}

	if len(targets) == 0 {
		return start, nil
	}

	return &targets[0], nil
}

// Transition advances an order to targetNodeID on behalf of actorRole. This
// is the only sanctioned way CurrentNodeID and Status change. Every call is
// evaluated purely from the current node's outgoing edges; the engine keeps
// no visited-node history, so rework cycles may revisit nodes freely.
func Transition(order *models.OrderInstance, nodes []models.WorkflowNode, targetNodeID, actorRole string) error {
	if !order.IsTemplated() {
		return ErrNotTemplated
	}

	current, err := FindNode(nodes, order.CurrentNodeID)
	if err != nil {
		return &StructuralError{NodeID: order.CurrentNodeID, Reason: "current node no longer exists in workflow"}
	}

	if current.IsTerminal() {
		return ErrIllegalTransition
	}

	if !CanAct(current, actorRole) {
		return ErrPermissionDenied
	}

	targets, err := LegalTargets(nodes, current)
	if err != nil {
		return err
	}

	var target *models.WorkflowNode

	for i := range targets {
		if targets[i].ID == targetNodeID {
			target = &targets[i]

			break
		}
	}

	if target == nil {
		return ErrIllegalTransition
	}

	order.CurrentNodeID = target.ID
	order.Status = target.Name
	order.UpdatedAt = time.Now().UTC()

	return nil
}
