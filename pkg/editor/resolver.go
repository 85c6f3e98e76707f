package editor

import (
	"errors"
	"fmt"

	"github.com/weftlabs/weft/pkg/models"
)

// ErrUnknownEndpoint indicates a connection candidate referencing a node id
// that is not present in the workflow. This is a caller bug, not a user
// condition: the command logs it and applies nothing.
var ErrUnknownEndpoint = errors.New("connection endpoint does not exist")

// ErrNodeExists indicates an addNode call reusing an id already present in
// the workflow.
var ErrNodeExists = errors.New("node id already exists")

// resolveConnection enforces the edge-set invariants for a candidate
// connection: both endpoints must exist, and the (source node, source port,
// target node, target port) tuple must be unique. The candidate's ports must
// already be normalized. A non-nil first return is the existing duplicate,
// which callers treat as a silent no-op.
func resolveConnection(workflow *models.Workflow, candidate *models.Connection) (*models.Connection, error) {
	if workflow.NodeByID(candidate.SourceNodeID) == nil {
		return nil, fmt.Errorf("%w: source node %q", ErrUnknownEndpoint, candidate.SourceNodeID)
	}

	if workflow.NodeByID(candidate.TargetNodeID) == nil {
		return nil, fmt.Errorf("%w: target node %q", ErrUnknownEndpoint, candidate.TargetNodeID)
	}

	for _, conn := range workflow.Connections {
		if conn.SameEndpoints(candidate) {
			return conn, nil
		}
	}

	return nil, nil
}

// findConnection locates a connection by its full endpoint tuple.
func findConnection(workflow *models.Workflow, sourceNodeID, sourceOutput, targetNodeID, targetInput string) *models.Connection {
	probe := &models.Connection{
		SourceNodeID: sourceNodeID,
		SourceOutput: sourceOutput,
		TargetNodeID: targetNodeID,
		TargetInput:  targetInput,
	}

	for _, conn := range workflow.Connections {
		if conn.SameEndpoints(probe) {
			return conn
		}
	}

	return nil
}

func defaultPort(name string) string {
	if name == "" {
		return models.PortMain
	}

	return name
}
