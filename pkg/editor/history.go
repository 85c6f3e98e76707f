package editor

import "github.com/weftlabs/weft/pkg/models"

// DefaultHistoryLimit bounds the undo stack. Oldest entries are evicted once
// the limit is reached.
const DefaultHistoryLimit = 50

// historyEntry is an immutable deep snapshot of the graph taken immediately
// before a structural mutation.
type historyEntry struct {
	label       string
	nodes       []*models.WorkflowNode
	connections []*models.Connection
}

func snapshot(label string, workflow *models.Workflow) *historyEntry {
	return &historyEntry{
		label:       label,
		nodes:       models.CloneNodes(workflow.Nodes),
		connections: models.CloneConnections(workflow.Connections),
	}
}

// history coordinates the undo and redo stacks. The undo stack is bounded;
// the redo stack is unbounded but cleared by every fresh mutation.
type history struct {
	limit     int
	undoStack []*historyEntry
	redoStack []*historyEntry
}

func newHistory(limit int) *history {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	return &history{limit: limit}
}

// save pushes the current state onto the undo stack. Callers must invoke it
// before mutating so undo always reverts to a strictly earlier state.
func (h *history) save(label string, workflow *models.Workflow) {
	h.undoStack = append(h.undoStack, snapshot(label, workflow))
	if len(h.undoStack) > h.limit {
		h.undoStack = h.undoStack[len(h.undoStack)-h.limit:]
	}

	h.redoStack = nil
}

// undo restores the most recent snapshot into the workflow, moving the
// current state onto the redo stack. It reports whether anything happened.
func (h *history) undo(workflow *models.Workflow) (string, bool) {
	if len(h.undoStack) == 0 {
		return "", false
	}

	entry := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]

	h.redoStack = append(h.redoStack, snapshot(entry.label, workflow))
	restore(workflow, entry)

	return entry.label, true
}

// redo is the mirror of undo.
func (h *history) redo(workflow *models.Workflow) (string, bool) {
	if len(h.redoStack) == 0 {
		return "", false
	}

	entry := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]

	h.undoStack = append(h.undoStack, snapshot(entry.label, workflow))
	restore(workflow, entry)

	return entry.label, true
}

func restore(workflow *models.Workflow, entry *historyEntry) {
	// The entry leaves the stack as it becomes live state, so its snapshot
	// arrays can be adopted without another copy.
	workflow.Nodes = entry.nodes
	workflow.Connections = entry.connections
}
