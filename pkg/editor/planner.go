package editor

import (
	"github.com/google/uuid"

	"github.com/weftlabs/weft/pkg/models"
)

// Layout holds the geometric constants driving node placement.
type Layout struct {
	// NodeWidth is the horizontal room reserved for a node.
	NodeWidth float64
	// NodeGap is the minimum spacing kept between adjacent nodes.
	NodeGap float64
	// DanglingOffset is the distance a node dropped from a dangling
	// connection is placed from its source.
	DanglingOffset float64
}

func DefaultLayout() Layout {
	return Layout{
		NodeWidth:      150,
		NodeGap:        25,
		DanglingOffset: 200,
	}
}

// step is the room needed for one node plus one gap.
func (l Layout) step() float64 {
	return l.NodeWidth + l.NodeGap
}

// InsertionContext describes the connection gesture a new node originates
// from. A source with no target is a dangling drop; source and target
// together splice the node onto the existing edge between them. A nil
// context places the node outright.
type InsertionContext struct {
	SourceNodeID string `json:"sourceNodeId"`
	TargetNodeID string `json:"targetNodeId,omitempty"`
	SourceOutput string `json:"sourceOutput,omitempty"`
	TargetInput  string `json:"targetInput,omitempty"`
}

// nodeShift is a pending translation of one node.
type nodeShift struct {
	nodeID string
	delta  models.Position
}

// insertionPlan is the fully computed mutation for one addNode command.
// Planning is pure: nothing is applied until the store commits the plan, so
// a rejected command leaves no partial state behind.
type insertionPlan struct {
	position           models.Position
	parentID           string
	inheritParent      bool
	removeConnectionID string
	connections        []*models.Connection
	shifts             []nodeShift
	// stale is set when the context referenced only deleted nodes and the
	// plan degraded to outright placement.
	stale bool
}

// planInsertion computes where a node lands and which edges are rewired.
// With both context endpoints resolvable this is a mid-edge splice; with one
// endpoint it degrades to a dangling drop off that endpoint; with none it
// degrades to outright placement at the node's own position or the viewport
// center.
func planInsertion(workflow *models.Workflow, layout Layout, viewport models.Position, node *models.WorkflowNode, ins *InsertionContext) insertionPlan {
	if ins == nil || (ins.SourceNodeID == "" && ins.TargetNodeID == "") {
		return planPlacement(viewport, node, false)
	}

	source := workflow.NodeByID(ins.SourceNodeID)
	target := workflow.NodeByID(ins.TargetNodeID)

	switch {
	case source != nil && target != nil:
		return planSplice(workflow, layout, node, ins, source, target)
	case source != nil:
		return planDangling(layout, node, ins, source, true)
	case target != nil:
		return planDangling(layout, node, ins, target, false)
	default:
		return planPlacement(viewport, node, true)
	}
}

// planPlacement handles insertion without a usable connection context.
func planPlacement(viewport models.Position, node *models.WorkflowNode, stale bool) insertionPlan {
	position := node.Position
	if position.IsZero() {
		position = viewport
	}

	return insertionPlan{position: position, stale: stale}
}

// planDangling places the node one fixed offset to the right of the anchor
// and wires the half-open connection to it. The node joins the anchor's
// group, if any.
func planDangling(layout Layout, node *models.WorkflowNode, ins *InsertionContext, anchor *models.WorkflowNode, anchorIsSource bool) insertionPlan {
	plan := insertionPlan{
		position:      anchor.Position.Add(models.Position{X: layout.DanglingOffset}),
		parentID:      anchor.ParentID,
		inheritParent: anchor.ParentID != "",
	}

	if anchorIsSource {
		plan.connections = []*models.Connection{{
			ID:           uuid.New().String(),
			SourceNodeID: anchor.ID,
			SourceOutput: defaultPort(ins.SourceOutput),
			TargetNodeID: node.ID,
			TargetInput:  models.PortMain,
		}}
	} else {
		plan.connections = []*models.Connection{{
			ID:           uuid.New().String(),
			SourceNodeID: node.ID,
			SourceOutput: models.PortMain,
			TargetNodeID: anchor.ID,
			TargetInput:  defaultPort(ins.TargetInput),
		}}
	}

	return plan
}

// planSplice inserts the node onto the edge between source and target. The
// existing edge is replaced by source->node and node->target, keeping the
// original ports on the source and target ends. When the gap between source
// and target cannot fit the node plus spacing on both sides, the target's
// entire downstream subgraph is translated along the edge direction by the
// shortfall.
func planSplice(workflow *models.Workflow, layout Layout, node *models.WorkflowNode, ins *InsertionContext, source, target *models.WorkflowNode) insertionPlan {
	sourceOutput := defaultPort(ins.SourceOutput)
	targetInput := defaultPort(ins.TargetInput)

	plan := insertionPlan{
		parentID:      source.ParentID,
		inheritParent: source.ParentID != "",
	}

	if existing := findConnection(workflow, source.ID, sourceOutput, target.ID, targetInput); existing != nil {
		plan.removeConnectionID = existing.ID
	}

	span := target.Position.Sub(source.Position)
	distance := span.Length()
	direction := span.Normalize()

	plan.position = source.Position.Add(direction.Scale(layout.step()))

	minDistanceNeeded := 2 * layout.step()
	if distance < minDistanceNeeded {
		delta := direction.Scale(minDistanceNeeded - distance)
		for _, id := range downstreamNodeIDs(workflow, target.ID, source.ID) {
			plan.shifts = append(plan.shifts, nodeShift{nodeID: id, delta: delta})
		}
	}

	plan.connections = []*models.Connection{
		{
			ID:           uuid.New().String(),
			SourceNodeID: source.ID,
			SourceOutput: sourceOutput,
			TargetNodeID: node.ID,
			TargetInput:  models.PortMain,
		},
		{
			ID:           uuid.New().String(),
			SourceNodeID: node.ID,
			SourceOutput: models.PortMain,
			TargetNodeID: target.ID,
			TargetInput:  targetInput,
		},
	}

	return plan
}

// downstreamNodeIDs returns every node reachable from start by following
// outgoing connections, in breadth-first order. The visited set makes the
// traversal terminate on cyclic graphs and guarantees each node appears at
// most once, so diamonds are never shifted twice. The exclude id (the splice
// source) is never part of the result even when a cycle leads back to it.
func downstreamNodeIDs(workflow *models.Workflow, startID, excludeID string) []string {
	visited := map[string]bool{excludeID: true}

	var order []string

	queue := []string{startID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if visited[id] {
			continue
		}

		visited[id] = true

		if workflow.NodeByID(id) == nil {
			continue
		}

		order = append(order, id)

		for _, conn := range workflow.OutgoingConnections(id) {
			if !visited[conn.TargetNodeID] {
				queue = append(queue, conn.TargetNodeID)
			}
		}
	}

	return order
}
