// Package models defines the core domain models for node-based workflow graphs.
package models

// Workflow is the canonical in-memory representation of a workflow graph.
// Its JSON shape is the storage contract and must round-trip losslessly.
type Workflow struct {
	ID          string          `json:"id"          validate:"required"`
	Name        string          `json:"name"        validate:"required,min=1"`
	Nodes       []*WorkflowNode `json:"nodes"`
	Connections []*Connection   `json:"connections"`
	Settings    map[string]any  `json:"settings"`
}

// NodeByID returns the node with the given id, or nil.
func (w *Workflow) NodeByID(id string) *WorkflowNode {
	for _, node := range w.Nodes {
		if node.ID == id {
			return node
		}
	}

	return nil
}

// ConnectionByID returns the connection with the given id, or nil.
func (w *Workflow) ConnectionByID(id string) *Connection {
	for _, conn := range w.Connections {
		if conn.ID == id {
			return conn
		}
	}

	return nil
}

// OutgoingConnections returns every connection whose source is the given node.
func (w *Workflow) OutgoingConnections(nodeID string) []*Connection {
	var out []*Connection

	for _, conn := range w.Connections {
		if conn.SourceNodeID == nodeID {
			out = append(out, conn)
		}
	}

	return out
}

// GroupMembers returns every node whose parent is the given group node.
func (w *Workflow) GroupMembers(groupID string) []*WorkflowNode {
	var members []*WorkflowNode

	for _, node := range w.Nodes {
		if node.ParentID == groupID {
			members = append(members, node)
		}
	}

	return members
}

// Clone returns a deep copy of the workflow. Node and connection values are
// fully copied so mutations on the clone never alias the original.
func (w *Workflow) Clone() *Workflow {
	clone := &Workflow{
		ID:          w.ID,
		Name:        w.Name,
		Nodes:       CloneNodes(w.Nodes),
		Connections: CloneConnections(w.Connections),
	}

	if w.Settings != nil {
		clone.Settings = make(map[string]any, len(w.Settings))
		for k, v := range w.Settings {
			clone.Settings[k] = v
		}
	}

	return clone
}
