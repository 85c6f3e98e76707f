// Package editor implements the workflow graph edit and layout engine: the
// authoritative in-memory workflow model, the commands that mutate it, the
// snapshot-based undo/redo history, and the node-insertion layout algorithm
// with cascading downstream shifts.
package editor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/weftlabs/weft/pkg/eventbus"
	"github.com/weftlabs/weft/pkg/events"
	"github.com/weftlabs/weft/pkg/models"
)

// Store owns the canonical workflow state for one editor session. Commands
// are synchronous and single-threaded: each one fully completes, including
// history snapshot and cascading shifts, before returning. Sessions must not
// share a store.
type Store struct {
	logger    *slog.Logger
	publisher eventbus.EventPublisher
	workflow  *models.Workflow
	history   *history
	layout    Layout
	viewport  models.Position
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithPublisher attaches an event publisher notified after every committed
// mutation. Publish failures are logged, never surfaced: the canonical state
// is already committed by the time events go out.
func WithPublisher(publisher eventbus.EventPublisher) Option {
	return func(s *Store) {
		s.publisher = publisher
	}
}

func WithLayout(layout Layout) Option {
	return func(s *Store) {
		s.layout = layout
	}
}

func WithHistoryLimit(limit int) Option {
	return func(s *Store) {
		s.history = newHistory(limit)
	}
}

// WithViewportCenter sets the fallback position for nodes added without an
// insertion context or explicit position.
func WithViewportCenter(center models.Position) Option {
	return func(s *Store) {
		s.viewport = center
	}
}

// NewStore creates an editor session over a deep copy of the given workflow.
// The caller's value is never aliased.
func NewStore(workflow *models.Workflow, opts ...Option) *Store {
	store := &Store{
		logger:   slog.Default(),
		workflow: workflow.Clone(),
		history:  newHistory(DefaultHistoryLimit),
		layout:   DefaultLayout(),
	}

	for _, opt := range opts {
		opt(store)
	}

	store.logger = store.logger.With("workflow_id", store.workflow.ID)

	return store
}

// Workflow returns a deep copy of the canonical state. Callers re-read it
// after every command; there is no incremental diff contract.
func (s *Store) Workflow() *models.Workflow {
	return s.workflow.Clone()
}

// SetViewportCenter updates the fallback placement position as the user pans.
func (s *Store) SetViewportCenter(center models.Position) {
	s.viewport = center
}

// CanUndo reports whether an undo entry is available.
func (s *Store) CanUndo() bool {
	return len(s.history.undoStack) > 0
}

// CanRedo reports whether a redo entry is available.
func (s *Store) CanRedo() bool {
	return len(s.history.redoStack) > 0
}

// AddNode inserts a new node. The insertion context, when present, describes
// the connection gesture the node originates from and drives placement,
// rewiring, and cascading shifts. The returned node is the stored value with
// its final id, position, and group membership.
func (s *Store) AddNode(ctx context.Context, node *models.WorkflowNode, ins *InsertionContext) (*models.WorkflowNode, error) {
	added := node.Clone()
	if added.ID == "" {
		added.ID = uuid.New().String()
	}

	if added.Name == "" {
		added.Name = added.Type
	}

	if existing := s.workflow.NodeByID(added.ID); existing != nil {
		err := fmt.Errorf("%w: %q", ErrNodeExists, added.ID)
		s.logger.ErrorContext(ctx, "Rejecting addNode", "error", err)

		return nil, err
	}

	plan := planInsertion(s.workflow, s.layout, s.viewport, added, ins)
	if plan.stale {
		s.logger.WarnContext(ctx, "Insertion context references deleted nodes, placing node outright",
			"source_node_id", ins.SourceNodeID, "target_node_id", ins.TargetNodeID)
	}

	label := "Add node " + added.Name
	s.saveToHistory(label)

	added.Position = plan.position
	if plan.inheritParent {
		added.ParentID = plan.parentID
	} else if added.ParentID == "" {
		if group := containingGroup(s.workflow, added.Position, added.ID); group != nil {
			added.ParentID = group.ID
		}
	}

	for _, shift := range plan.shifts {
		if shifted := s.workflow.NodeByID(shift.nodeID); shifted != nil {
			shifted.Position = shifted.Position.Add(shift.delta)
		}
	}

	var removed *models.Connection
	if plan.removeConnectionID != "" {
		removed = s.deleteConnection(plan.removeConnectionID)
	}

	s.workflow.Nodes = append(s.workflow.Nodes, added)
	s.workflow.Connections = append(s.workflow.Connections, plan.connections...)

	if removed != nil {
		s.publish(ctx, events.ConnectionRemoved{
			BaseEvent:    events.NewBaseEvent(events.ConnectionRemovedEvent, s.workflow.ID, label),
			ConnectionID: removed.ID,
		})
	}

	for _, conn := range plan.connections {
		s.publish(ctx, events.ConnectionAdded{
			BaseEvent:    events.NewBaseEvent(events.ConnectionAddedEvent, s.workflow.ID, label),
			ConnectionID: conn.ID,
			SourceNodeID: conn.SourceNodeID,
			TargetNodeID: conn.TargetNodeID,
		})
	}

	s.publish(ctx, events.NodeAdded{
		BaseEvent: events.NewBaseEvent(events.NodeAddedEvent, s.workflow.ID, label),
		NodeID:    added.ID,
		NodeType:  added.Type,
		Position:  added.Position,
		ParentID:  added.ParentID,
	})

	return added.Clone(), nil
}

// RemoveNode deletes a node and every connection touching it. Deleting a
// group detaches its members instead of deleting them: removing a container
// must not destroy its contents. Removing an unknown id is a no-op.
func (s *Store) RemoveNode(ctx context.Context, id string) error {
	node := s.workflow.NodeByID(id)
	if node == nil {
		s.logger.DebugContext(ctx, "removeNode on unknown id", "node_id", id)

		return nil
	}

	label := "Remove node " + node.Name
	s.saveToHistory(label)

	var detached []string

	if node.IsGroup() {
		for _, member := range s.workflow.GroupMembers(node.ID) {
			member.ParentID = ""
			detached = append(detached, member.ID)
		}
	}

	var removedConnections []string

	kept := s.workflow.Connections[:0]

	for _, conn := range s.workflow.Connections {
		if conn.Touches(id) {
			removedConnections = append(removedConnections, conn.ID)
		} else {
			kept = append(kept, conn)
		}
	}

	s.workflow.Connections = kept

	for i, candidate := range s.workflow.Nodes {
		if candidate.ID == id {
			s.workflow.Nodes = append(s.workflow.Nodes[:i], s.workflow.Nodes[i+1:]...)

			break
		}
	}

	s.publish(ctx, events.NodeRemoved{
		BaseEvent:       events.NewBaseEvent(events.NodeRemovedEvent, s.workflow.ID, label),
		NodeID:          id,
		ConnectionIDs:   removedConnections,
		DetachedNodeIDs: detached,
	})

	return nil
}

// NodePatch is a partial node update. Nil fields are left untouched;
// a non-nil Parameters bag replaces the node's bag wholesale.
type NodePatch struct {
	Name       *string
	Parameters models.Parameters
	Position   *models.Position
	ParentID   *string
	Disabled   *bool
	Width      *float64
	Height     *float64
}

// UpdateNode merges a patch into the node, producing a new immutable node
// value. Updating an unknown id is a silent no-op since UI callers race with
// deletion.
func (s *Store) UpdateNode(ctx context.Context, id string, patch NodePatch) (*models.WorkflowNode, error) {
	node := s.workflow.NodeByID(id)
	if node == nil {
		s.logger.DebugContext(ctx, "updateNode on unknown id", "node_id", id)

		return nil, nil
	}

	label := "Update node " + node.Name
	s.saveToHistory(label)

	updated := node.Clone()

	if patch.Name != nil {
		updated.Name = *patch.Name
	}

	if patch.Parameters != nil {
		updated.Parameters = patch.Parameters.Clone()
	}

	if patch.Position != nil {
		updated.Position = *patch.Position
	}

	if patch.ParentID != nil {
		updated.ParentID = *patch.ParentID
	}

	if patch.Disabled != nil {
		updated.Disabled = *patch.Disabled
	}

	if patch.Width != nil {
		updated.Width = *patch.Width
	}

	if patch.Height != nil {
		updated.Height = *patch.Height
	}

	for i, candidate := range s.workflow.Nodes {
		if candidate.ID == id {
			s.workflow.Nodes[i] = updated

			break
		}
	}

	s.publish(ctx, events.NodeUpdated{
		BaseEvent: events.NewBaseEvent(events.NodeUpdatedEvent, s.workflow.ID, label),
		NodeID:    id,
	})

	return updated.Clone(), nil
}

// AddConnection validates and inserts an edge. A duplicate endpoint tuple is
// a silent no-op returning the existing connection; an unknown endpoint is a
// precondition failure that leaves the store untouched.
func (s *Store) AddConnection(ctx context.Context, conn *models.Connection) (*models.Connection, error) {
	candidate := conn.Clone()
	candidate.Normalize()

	if candidate.ID == "" {
		candidate.ID = uuid.New().String()
	}

	existing, err := resolveConnection(s.workflow, candidate)
	if err != nil {
		s.logger.ErrorContext(ctx, "Rejecting addConnection", "error", err)

		return nil, err
	}

	if existing != nil {
		s.logger.DebugContext(ctx, "Duplicate connection ignored",
			"source_node_id", candidate.SourceNodeID, "target_node_id", candidate.TargetNodeID)

		return existing.Clone(), nil
	}

	label := "Add connection"
	s.saveToHistory(label)

	s.workflow.Connections = append(s.workflow.Connections, candidate)

	s.publish(ctx, events.ConnectionAdded{
		BaseEvent:    events.NewBaseEvent(events.ConnectionAddedEvent, s.workflow.ID, label),
		ConnectionID: candidate.ID,
		SourceNodeID: candidate.SourceNodeID,
		TargetNodeID: candidate.TargetNodeID,
	})

	return candidate.Clone(), nil
}

// RemoveConnection removes an edge by id; removing an absent id is a no-op.
func (s *Store) RemoveConnection(ctx context.Context, id string) error {
	if s.workflow.ConnectionByID(id) == nil {
		s.logger.DebugContext(ctx, "removeConnection on unknown id", "connection_id", id)

		return nil
	}

	label := "Remove connection"
	s.saveToHistory(label)
	s.deleteConnection(id)

	s.publish(ctx, events.ConnectionRemoved{
		BaseEvent:    events.NewBaseEvent(events.ConnectionRemovedEvent, s.workflow.ID, label),
		ConnectionID: id,
	})

	return nil
}

// DetachFromGroup clears group membership on the given nodes. Detached nodes
// keep their absolute canvas position. Unknown ids and already top-level
// nodes are skipped; the command is a no-op when nothing changes.
func (s *Store) DetachFromGroup(ctx context.Context, nodeIDs ...string) error {
	var affected []*models.WorkflowNode

	for _, id := range nodeIDs {
		if node := s.workflow.NodeByID(id); node != nil && node.ParentID != "" {
			affected = append(affected, node)
		}
	}

	if len(affected) == 0 {
		return nil
	}

	label := "Detach nodes from group"
	s.saveToHistory(label)

	detached := make([]string, 0, len(affected))

	for _, node := range affected {
		node.ParentID = ""
		detached = append(detached, node.ID)
	}

	s.publish(ctx, events.NodesDetached{
		BaseEvent: events.NewBaseEvent(events.NodesDetachedEvent, s.workflow.ID, label),
		NodeIDs:   detached,
	})

	return nil
}

// Undo restores the most recent history entry, moving the current state onto
// the redo stack. Undo at the stack boundary is a no-op, never an error.
func (s *Store) Undo(ctx context.Context) bool {
	label, ok := s.history.undo(s.workflow)
	if !ok {
		return false
	}

	s.publish(ctx, events.WorkflowReverted{
		BaseEvent: events.NewBaseEvent(events.WorkflowRevertedEvent, s.workflow.ID, label),
	})

	return true
}

// Redo is the mirror of Undo.
func (s *Store) Redo(ctx context.Context) bool {
	label, ok := s.history.redo(s.workflow)
	if !ok {
		return false
	}

	s.publish(ctx, events.WorkflowRestored{
		BaseEvent: events.NewBaseEvent(events.WorkflowRestoredEvent, s.workflow.ID, label),
	})

	return true
}

// saveToHistory snapshots the current state before the caller mutates it.
func (s *Store) saveToHistory(label string) {
	s.history.save(label, s.workflow)
}

func (s *Store) deleteConnection(id string) *models.Connection {
	for i, conn := range s.workflow.Connections {
		if conn.ID == id {
			s.workflow.Connections = append(s.workflow.Connections[:i], s.workflow.Connections[i+1:]...)

			return conn
		}
	}

	return nil
}

func (s *Store) publish(ctx context.Context, event eventbus.Event) {
	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, s.workflow.ID, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish edit event", "event_type", event.GetType(), "error", err)
	}
}
