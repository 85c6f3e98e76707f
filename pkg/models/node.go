package models

// Built-in structural node types. Every other type is owned by the external
// node-type registry and is opaque to the graph core.
const (
	NodeTypeGroup      = "group"
	NodeTypeAnnotation = "annotation"
)

// AnnotationContentParameter is the single free-text parameter carried by
// annotation nodes.
const AnnotationContentParameter = "content"

// WorkflowNode represents a node instance in a workflow graph.
//
// Group nodes carry a Width/Height extent in addition to their position;
// every other node is treated as a point for layout purposes.
type WorkflowNode struct {
	ID         string     `json:"id"                 validate:"required"`
	Type       string     `json:"type"               validate:"required"`
	Name       string     `json:"name"               validate:"required,min=1"`
	Parameters Parameters `json:"parameters"`
	Position   Position   `json:"position"`
	ParentID   string     `json:"parentId,omitempty"`
	Disabled   bool       `json:"disabled"`
	Width      float64    `json:"width,omitempty"`
	Height     float64    `json:"height,omitempty"`
}

func (n *WorkflowNode) IsGroup() bool {
	return n.Type == NodeTypeGroup
}

func (n *WorkflowNode) IsAnnotation() bool {
	return n.Type == NodeTypeAnnotation
}

// Extent returns the group's bounding rectangle. The second return value is
// false for non-group nodes and for groups without a usable extent.
func (n *WorkflowNode) Extent() (Rect, bool) {
	if !n.IsGroup() || n.Width <= 0 || n.Height <= 0 {
		return Rect{}, false
	}

	return Rect{Min: n.Position, Max: Position{X: n.Position.X + n.Width, Y: n.Position.Y + n.Height}}, true
}

// Clone returns a deep copy of the node, including its parameter bag.
func (n *WorkflowNode) Clone() *WorkflowNode {
	clone := *n
	clone.Parameters = n.Parameters.Clone()

	return &clone
}

// CloneNodes deep-copies a node collection.
func CloneNodes(nodes []*WorkflowNode) []*WorkflowNode {
	cloned := make([]*WorkflowNode, 0, len(nodes))
	for _, node := range nodes {
		cloned = append(cloned, node.Clone())
	}

	return cloned
}
