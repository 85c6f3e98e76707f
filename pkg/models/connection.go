package models

// PortMain is the canonical default port name, substituted whenever a caller
// omits an explicit source output or target input.
const PortMain = "main"

// Connection is a directed edge from one node's output port to another
// node's input port.
type Connection struct {
	ID           string `json:"id"           validate:"required"`
	SourceNodeID string `json:"sourceNodeId" validate:"required"`
	SourceOutput string `json:"sourceOutput"`
	TargetNodeID string `json:"targetNodeId" validate:"required"`
	TargetInput  string `json:"targetInput"`
}

// Normalize fills omitted port names with the canonical main port.
func (c *Connection) Normalize() {
	if c.SourceOutput == "" {
		c.SourceOutput = PortMain
	}

	if c.TargetInput == "" {
		c.TargetInput = PortMain
	}
}

// SameEndpoints reports whether two connections share the exact
// (source node, source port, target node, target port) tuple.
func (c *Connection) SameEndpoints(other *Connection) bool {
	return c.SourceNodeID == other.SourceNodeID &&
		c.SourceOutput == other.SourceOutput &&
		c.TargetNodeID == other.TargetNodeID &&
		c.TargetInput == other.TargetInput
}

// Touches reports whether the connection references the node as either
// endpoint.
func (c *Connection) Touches(nodeID string) bool {
	return c.SourceNodeID == nodeID || c.TargetNodeID == nodeID
}

// Clone returns a copy of the connection.
func (c *Connection) Clone() *Connection {
	clone := *c

	return &clone
}

// CloneConnections deep-copies a connection collection.
func CloneConnections(connections []*Connection) []*Connection {
	cloned := make([]*Connection, 0, len(connections))
	for _, conn := range connections {
		cloned = append(cloned, conn.Clone())
	}

	return cloned
}
