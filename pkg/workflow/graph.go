package workflow

import (
	"fmt"

	"github.com/flowdesk/flowdesk/pkg/models"
)

// IssueSeverity grades a structural finding from ValidateGraph.
type IssueSeverity string

const (
	SeverityError   IssueSeverity = "error"
	SeverityWarning IssueSeverity = "warning"
)

// GraphIssue is one structural finding in a workflow graph. Warnings are
// advisory (authors may be mid-edit); errors make the graph unexecutable.
type GraphIssue struct {
	Severity IssueSeverity `json:"severity"`
	NodeID   string        `json:"node_id,omitempty"`
	Message  string        `json:"message"`
}

// FindNode resolves a node ID within a workflow.
func FindNode(nodes []models.WorkflowNode, id string) (*models.WorkflowNode, error) {
	for i := range nodes {
		if nodes[i].ID == id {
			return &nodes[i], nil
		}
	}

	return nil, &StructuralError{NodeID: id, Reason: "node does not exist in workflow"}
}

// StartNode returns the single start node of a workflow.
func StartNode(nodes []models.WorkflowNode) (*models.WorkflowNode, error) {
	var start *models.WorkflowNode

	for i := range nodes {
		if nodes[i].Type != models.NodeTypeStart {
			continue
		}

		if start != nil {
			return nil, &StructuralError{Reason: "workflow has more than one start node"}
		}

		start = &nodes[i]
	}

	if start == nil {
		return nil, &StructuralError{Reason: "workflow has no start node"}
	}

	return start, nil
}

// Outgoing resolves a node's declared edges, in their declared order. A
// target that fails to resolve is a structural error, never silently dropped.
func Outgoing(nodes []models.WorkflowNode, node *models.WorkflowNode) ([]models.WorkflowNode, error) {
	out := make([]models.WorkflowNode, 0, len(node.NextNodes))

	for _, targetID := range node.NextNodes {
		target, err := FindNode(nodes, targetID)
		if err != nil {
			return nil, &StructuralError{
				NodeID: node.ID,
				Reason: fmt.Sprintf("edge references missing node %s", targetID),
			}
		}

		out = append(out, *target)
	}

	return out, nil
}

// ValidateGraph reports every structural problem in a workflow at once so a
// single authoring pass surfaces everything. Cycles are legal (rework loops)
// and are not reported.
func ValidateGraph(nodes []models.WorkflowNode) []GraphIssue {
	issues := make([]GraphIssue, 0)

	ids := make(map[string]bool, len(nodes))
	for i := range nodes {
		if ids[nodes[i].ID] {
			issues = append(issues, GraphIssue{
				Severity: SeverityError,
				NodeID:   nodes[i].ID,
				Message:  "duplicate node id",
			})
		}

		ids[nodes[i].ID] = true
	}

	startCount := 0
	endCount := 0

	for i := range nodes {
		node := &nodes[i]

		switch node.Type {
		case models.NodeTypeStart:
			startCount++
		case models.NodeTypeEnd:
			endCount++

			if len(node.NextNodes) > 0 {
				issues = append(issues, GraphIssue{
					Severity: SeverityError,
					NodeID:   node.ID,
					Message:  "end node must not have outgoing edges",
				})
			}
		}

		for _, targetID := range node.NextNodes {
			if !ids[targetID] {
				issues = append(issues, GraphIssue{
					Severity: SeverityError,
					NodeID:   node.ID,
					Message:  fmt.Sprintf("edge references missing node %s", targetID),
				})
			}
		}
	}

	switch {
	case startCount == 0:
		issues = append(issues, GraphIssue{Severity: SeverityError, Message: "workflow has no start node"})
	case startCount > 1:
		issues = append(issues, GraphIssue{Severity: SeverityError, Message: "workflow has more than one start node"})
	}

	if endCount == 0 {
		issues = append(issues, GraphIssue{Severity: SeverityError, Message: "workflow has no end node"})
	}

	if startCount == 1 {
		issues = append(issues, unreachableIssues(nodes)...)
	}

	return issues
}

// unreachableIssues flags nodes not reachable from start. Advisory only:
// authors routinely hold unreachable nodes mid-edit.
func unreachableIssues(nodes []models.WorkflowNode) []GraphIssue {
	start, err := StartNode(nodes)
	if err != nil {
		return nil
	}

	visited := map[string]bool{start.ID: true}
	queue := []string{start.ID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node, err := FindNode(nodes, current)
		if err != nil {
			continue
		}

		for _, targetID := range node.NextNodes {
			if !visited[targetID] {
				visited[targetID] = true
				queue = append(queue, targetID)
			}
		}
	}

	issues := make([]GraphIssue, 0)

	for i := range nodes {
		if !visited[nodes[i].ID] {
			issues = append(issues, GraphIssue{
				Severity: SeverityWarning,
				NodeID:   nodes[i].ID,
				Message:  "node is not reachable from the start node",
			})
		}
	}

	return issues
}

// HasBlockingIssues reports whether any finding is severe enough to refuse
// execution.
func HasBlockingIssues(issues []GraphIssue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			return true
		}
	}

	return false
}
