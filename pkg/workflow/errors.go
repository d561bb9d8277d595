// Package workflow implements the process graph model and the execution
// engine that drives order instances from node to node.
package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrPermissionDenied indicates the actor's role does not satisfy the
	// current node's role gate.
	ErrPermissionDenied = errors.New("actor role does not satisfy node role gate")

	// ErrIllegalTransition indicates the requested target is not among the
	// current node's legal targets.
	ErrIllegalTransition = errors.New("target is not a legal transition from the current node")

	// ErrNotTemplated indicates the order has no process template bound and
	// cannot be driven by the engine.
	ErrNotTemplated = errors.New("order is not bound to a process template")
)

// StructuralError reports a graph defect encountered while resolving a
// transition: a dangling edge, a missing start node, or a current node that
// no longer exists in the workflow. It is distinct from permission and
// illegal-target failures so callers can point the author at the broken
// template rather than retrying.
type StructuralError struct {
	NodeID string // node the resolution started from, if known
	Reason string
}

func (e *StructuralError) Error() string {
	if e.NodeID != "" {
		return fmt.Sprintf("workflow structure broken at node %s: %s", e.NodeID, e.Reason)
	}

	return "workflow structure broken: " + e.Reason
}

// IsStructural checks whether err reports a graph defect.
func IsStructural(err error) bool {
	var target *StructuralError

	return errors.As(err, &target)
}
