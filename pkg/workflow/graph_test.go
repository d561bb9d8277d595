package workflow

import (
	"strings"
	"testing"

	"github.com/flowdesk/flowdesk/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linearWorkflow() []models.WorkflowNode {
	return []models.WorkflowNode{
		{ID: "start", Name: "开始", Type: models.NodeTypeStart, NextNodes: []string{"work"}},
		{ID: "work", Name: "处理", Type: models.NodeTypeProcess, Role: "TECHNICIAN", NextNodes: []string{"done"}},
		{ID: "done", Name: "完成", Type: models.NodeTypeEnd},
	}
}

func TestFindNode(t *testing.T) {
	nodes := linearWorkflow()

	node, err := FindNode(nodes, "work")
	require.NoError(t, err)
	assert.Equal(t, "处理", node.Name)

	_, err = FindNode(nodes, "ghost")
	assert.True(t, IsStructural(err))
}

func TestStartNode(t *testing.T) {
	start, err := StartNode(linearWorkflow())
	require.NoError(t, err)
	assert.Equal(t, "start", start.ID)

	_, err = StartNode([]models.WorkflowNode{{ID: "n", Type: models.NodeTypeProcess}})
	assert.True(t, IsStructural(err))

	twoStarts := []models.WorkflowNode{
		{ID: "a", Type: models.NodeTypeStart},
		{ID: "b", Type: models.NodeTypeStart},
	}
	_, err = StartNode(twoStarts)
	assert.True(t, IsStructural(err))
}

func TestOutgoing_ReportsDanglingEdge(t *testing.T) {
	nodes := []models.WorkflowNode{
		{ID: "start", Type: models.NodeTypeStart, NextNodes: []string{"missing"}},
	}

	_, err := Outgoing(nodes, &nodes[0])
	assert.True(t, IsStructural(err))
}

func TestValidateGraph(t *testing.T) {
	testCases := []struct {
		name      string
		nodes     []models.WorkflowNode
		wantError bool
		contains  string
	}{
		{
			name:      "valid linear workflow",
			nodes:     linearWorkflow(),
			wantError: false,
		},
		{
			name: "no start node",
			nodes: []models.WorkflowNode{
				{ID: "end", Type: models.NodeTypeEnd},
			},
			wantError: true,
			contains:  "no start node",
		},
		{
			name: "two start nodes",
			nodes: []models.WorkflowNode{
				{ID: "a", Type: models.NodeTypeStart},
				{ID: "b", Type: models.NodeTypeStart},
				{ID: "end", Type: models.NodeTypeEnd},
			},
			wantError: true,
			contains:  "more than one start node",
		},
		{
			name: "no end node",
			nodes: []models.WorkflowNode{
				{ID: "start", Type: models.NodeTypeStart},
			},
			wantError: true,
			contains:  "no end node",
		},
		{
			name: "end node with outgoing edge",
			nodes: []models.WorkflowNode{
				{ID: "start", Type: models.NodeTypeStart, NextNodes: []string{"end"}},
				{ID: "end", Type: models.NodeTypeEnd, NextNodes: []string{"start"}},
			},
			wantError: true,
			contains:  "end node must not have outgoing edges",
		},
		{
			name: "dangling edge target",
			nodes: []models.WorkflowNode{
				{ID: "start", Type: models.NodeTypeStart, NextNodes: []string{"ghost"}},
				{ID: "end", Type: models.NodeTypeEnd},
			},
			wantError: true,
			contains:  "missing node ghost",
		},
		{
			name: "duplicate node id",
			nodes: []models.WorkflowNode{
				{ID: "start", Type: models.NodeTypeStart, NextNodes: []string{"end"}},
				{ID: "end", Type: models.NodeTypeEnd},
				{ID: "end", Type: models.NodeTypeProcess},
			},
			wantError: true,
			contains:  "duplicate node id",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			issues := ValidateGraph(tc.nodes)
			assert.Equal(t, tc.wantError, HasBlockingIssues(issues))

			if tc.contains != "" {
				found := false

				for _, issue := range issues {
					if issue.Severity == SeverityError && strings.Contains(issue.Message, tc.contains) {
						found = true

						break
					}
				}

				assert.True(t, found, "expected an error mentioning %q, got %v", tc.contains, issues)
			}
		})
	}
}

func TestValidateGraph_UnreachableNodeIsWarning(t *testing.T) {
	nodes := []models.WorkflowNode{
		{ID: "start", Type: models.NodeTypeStart, NextNodes: []string{"end"}},
		{ID: "end", Type: models.NodeTypeEnd},
		{ID: "island", Type: models.NodeTypeProcess},
	}

	issues := ValidateGraph(nodes)
	assert.False(t, HasBlockingIssues(issues))

	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Equal(t, "island", issues[0].NodeID)
}

func TestValidateGraph_CyclesAreLegal(t *testing.T) {
	nodes := []models.WorkflowNode{
		{ID: "start", Type: models.NodeTypeStart, NextNodes: []string{"review"}},
		{ID: "review", Type: models.NodeTypeProcess, NextNodes: []string{"fix", "end"}},
		{ID: "fix", Type: models.NodeTypeProcess, NextNodes: []string{"review"}},
		{ID: "end", Type: models.NodeTypeEnd},
	}

	assert.Empty(t, ValidateGraph(nodes))
}
