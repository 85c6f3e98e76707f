// Package events defines the typed edit events published after every
// committed graph mutation. Events carry identifiers, never diffs: consumers
// are expected to re-read the canonical workflow state.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/weftlabs/weft/pkg/models"
)

type EventType string

// Topic carries every edit event.
const Topic = "weft.edits"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	NodeAddedEvent     EventType = "node.added"
	NodeRemovedEvent   EventType = "node.removed"
	NodeUpdatedEvent   EventType = "node.updated"
	NodesDetachedEvent EventType = "nodes.detached"

	ConnectionAddedEvent   EventType = "connection.added"
	ConnectionRemovedEvent EventType = "connection.removed"

	WorkflowRevertedEvent EventType = "workflow.reverted"
	WorkflowRestoredEvent EventType = "workflow.restored"
)

type BaseEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	WorkflowID string    `json:"workflow_id"`
	Label      string    `json:"label,omitempty"`
}

// NewBaseEvent creates a base event with a fresh id and timestamp.
func NewBaseEvent(eventType EventType, workflowID, label string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
		Label:      label,
	}
}

type NodeAdded struct {
	BaseEvent

	NodeID   string          `json:"node_id"`
	NodeType string          `json:"node_type"`
	Position models.Position `json:"position"`
	ParentID string          `json:"parent_id,omitempty"`
}

func (e NodeAdded) GetType() EventType {
	return NodeAddedEvent
}

type NodeRemoved struct {
	BaseEvent

	NodeID string `json:"node_id"`
	// ConnectionIDs lists the connections cascade-removed with the node.
	ConnectionIDs []string `json:"connection_ids,omitempty"`
	// DetachedNodeIDs lists group members whose parent was cleared.
	DetachedNodeIDs []string `json:"detached_node_ids,omitempty"`
}

func (e NodeRemoved) GetType() EventType {
	return NodeRemovedEvent
}

type NodeUpdated struct {
	BaseEvent

	NodeID string `json:"node_id"`
}

func (e NodeUpdated) GetType() EventType {
	return NodeUpdatedEvent
}

type NodesDetached struct {
	BaseEvent

	NodeIDs []string `json:"node_ids"`
}

func (e NodesDetached) GetType() EventType {
	return NodesDetachedEvent
}

type ConnectionAdded struct {
	BaseEvent

	ConnectionID string `json:"connection_id"`
	SourceNodeID string `json:"source_node_id"`
	TargetNodeID string `json:"target_node_id"`
}

func (e ConnectionAdded) GetType() EventType {
	return ConnectionAddedEvent
}

type ConnectionRemoved struct {
	BaseEvent

	ConnectionID string `json:"connection_id"`
}

func (e ConnectionRemoved) GetType() EventType {
	return ConnectionRemovedEvent
}

type WorkflowReverted struct {
	BaseEvent
}

func (e WorkflowReverted) GetType() EventType {
	return WorkflowRevertedEvent
}

type WorkflowRestored struct {
	BaseEvent
}

func (e WorkflowRestored) GetType() EventType {
	return WorkflowRestoredEvent
}
