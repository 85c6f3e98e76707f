package editor

import "github.com/weftlabs/weft/pkg/models"

// containingGroup resolves which group, if any, contains the given canvas
// position. When overlapping groups both contain the position, the smallest
// area wins; remaining ties go to collection order. The exclude id keeps a
// group from containing itself.
func containingGroup(workflow *models.Workflow, position models.Position, excludeID string) *models.WorkflowNode {
	var (
		best     *models.WorkflowNode
		bestArea float64
	)

	for _, node := range workflow.Nodes {
		if node.ID == excludeID {
			continue
		}

		rect, ok := node.Extent()
		if !ok || !rect.Contains(position) {
			continue
		}

		if best == nil || rect.Area() < bestArea {
			best = node
			bestArea = rect.Area()
		}
	}

	return best
}
