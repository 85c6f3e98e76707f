package persistence

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/weftlabs/weft/pkg/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateWorkflow checks a workflow before it crosses the storage boundary:
// struct-level constraints plus referential integrity of the edge set. A
// stored workflow with dangling connections is corruption, never valid state.
func ValidateWorkflow(workflow *models.Workflow) error {
	if err := validate.Struct(workflow); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidWorkflow, err)
	}

	nodeIDs := make(map[string]bool, len(workflow.Nodes))

	for _, node := range workflow.Nodes {
		if err := validate.Struct(node); err != nil {
			return fmt.Errorf("%w: node %q: %w", ErrInvalidWorkflow, node.ID, err)
		}

		if nodeIDs[node.ID] {
			return fmt.Errorf("%w: duplicate node id %q", ErrInvalidWorkflow, node.ID)
		}

		nodeIDs[node.ID] = true
	}

	for _, node := range workflow.Nodes {
		if node.ParentID != "" && !nodeIDs[node.ParentID] {
			return fmt.Errorf("%w: node %q references missing parent %q", ErrInvalidWorkflow, node.ID, node.ParentID)
		}
	}

	for _, conn := range workflow.Connections {
		if err := validate.Struct(conn); err != nil {
			return fmt.Errorf("%w: connection %q: %w", ErrInvalidWorkflow, conn.ID, err)
		}

		if !nodeIDs[conn.SourceNodeID] {
			return fmt.Errorf("%w: connection %q references missing source node %q", ErrInvalidWorkflow, conn.ID, conn.SourceNodeID)
		}

		if !nodeIDs[conn.TargetNodeID] {
			return fmt.Errorf("%w: connection %q references missing target node %q", ErrInvalidWorkflow, conn.ID, conn.TargetNodeID)
		}
	}

	return nil
}
