// Package testutil provides test data builders for workflow graphs.
package testutil

import (
	"github.com/google/uuid"

	"github.com/weftlabs/weft/pkg/models"
)

// CreateTestNode creates a WorkflowNode with default values that can be
// overridden.
func CreateTestNode(overrides ...func(*models.WorkflowNode)) *models.WorkflowNode {
	node := &models.WorkflowNode{
		ID:   uuid.New().String(),
		Type: "noop",
		Name: "Test Node",
		Parameters: models.Parameters{
			"message": models.StringValue("test"),
		},
		Position: models.Position{X: 100, Y: 200},
	}

	for _, override := range overrides {
		override(node)
	}

	return node
}

// WithID sets the node id.
func WithID(id string) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.ID = id
	}
}

// WithName sets the node name.
func WithName(name string) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Name = name
	}
}

// WithType sets the node type.
func WithType(nodeType string) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Type = nodeType
	}
}

// WithPosition sets the node position.
func WithPosition(x, y float64) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Position = models.Position{X: x, Y: y}
	}
}

// WithParent sets the node's containing group.
func WithParent(groupID string) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.ParentID = groupID
	}
}

// WithParameters sets the node parameter bag.
func WithParameters(params models.Parameters) func(*models.WorkflowNode) {
	return func(n *models.WorkflowNode) {
		n.Parameters = params
	}
}

// CreateTestGroup creates a group node with the given origin and extent.
func CreateTestGroup(x, y, width, height float64, overrides ...func(*models.WorkflowNode)) *models.WorkflowNode {
	group := &models.WorkflowNode{
		ID:       uuid.New().String(),
		Type:     models.NodeTypeGroup,
		Name:     "Test Group",
		Position: models.Position{X: x, Y: y},
		Width:    width,
		Height:   height,
	}

	for _, override := range overrides {
		override(group)
	}

	return group
}

// CreateTestConnection connects two nodes on their main ports.
func CreateTestConnection(sourceNodeID, targetNodeID string, overrides ...func(*models.Connection)) *models.Connection {
	conn := &models.Connection{
		ID:           uuid.New().String(),
		SourceNodeID: sourceNodeID,
		SourceOutput: models.PortMain,
		TargetNodeID: targetNodeID,
		TargetInput:  models.PortMain,
	}

	for _, override := range overrides {
		override(conn)
	}

	return conn
}

// CreateTestWorkflow creates a workflow holding the given nodes and
// connections.
func CreateTestWorkflow(nodes []*models.WorkflowNode, connections []*models.Connection) *models.Workflow {
	return &models.Workflow{
		ID:          uuid.New().String(),
		Name:        "Test Workflow",
		Nodes:       nodes,
		Connections: connections,
		Settings:    map[string]any{},
	}
}
