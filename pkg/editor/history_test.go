package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlabs/weft/pkg/models"
	"github.com/weftlabs/weft/pkg/testutil"
)

func TestStore_UndoRedo_RoundTrip(t *testing.T) {
	nodeA := testutil.CreateTestNode(testutil.WithID("a"), testutil.WithPosition(0, 0))
	store := NewStore(testutil.CreateTestWorkflow([]*models.WorkflowNode{nodeA}, nil))

	ctx := context.Background()
	initial := store.Workflow()

	_, err := store.AddNode(ctx, testutil.CreateTestNode(testutil.WithID("b"), testutil.WithPosition(300, 0)), nil)
	require.NoError(t, err)
	_, err = store.AddConnection(ctx, testutil.CreateTestConnection("a", "b"))
	require.NoError(t, err)
	name := "Renamed"
	_, err = store.UpdateNode(ctx, "a", NodePatch{Name: &name})
	require.NoError(t, err)

	final := store.Workflow()

	require.True(t, store.Undo(ctx))
	require.True(t, store.Undo(ctx))
	require.True(t, store.Undo(ctx))

	reverted := store.Workflow()
	assert.Equal(t, initial.Nodes, reverted.Nodes)
	assert.Equal(t, initial.Connections, reverted.Connections)

	require.True(t, store.Redo(ctx))
	require.True(t, store.Redo(ctx))
	require.True(t, store.Redo(ctx))

	restored := store.Workflow()
	assert.Equal(t, final.Nodes, restored.Nodes)
	assert.Equal(t, final.Connections, restored.Connections)
}

func TestStore_Undo_EmptyHistoryIsNoOp(t *testing.T) {
	store := NewStore(testutil.CreateTestWorkflow(nil, nil))

	assert.False(t, store.Undo(context.Background()))
	assert.False(t, store.CanUndo())
}

func TestStore_Redo_WithoutUndoIsNoOp(t *testing.T) {
	store := NewStore(testutil.CreateTestWorkflow(nil, nil))

	_, err := store.AddNode(context.Background(), testutil.CreateTestNode(), nil)
	require.NoError(t, err)

	assert.False(t, store.Redo(context.Background()))
}

func TestStore_Mutation_ClearsRedoStack(t *testing.T) {
	store := NewStore(testutil.CreateTestWorkflow(nil, nil))
	ctx := context.Background()

	_, err := store.AddNode(ctx, testutil.CreateTestNode(testutil.WithID("a")), nil)
	require.NoError(t, err)

	require.True(t, store.Undo(ctx))
	require.True(t, store.CanRedo())

	_, err = store.AddNode(ctx, testutil.CreateTestNode(testutil.WithID("b")), nil)
	require.NoError(t, err)

	assert.False(t, store.CanRedo(), "a fresh mutation forks history and drops the redo branch")
	assert.False(t, store.Redo(ctx))
}

func TestStore_Undo_RestoresCascadedConnections(t *testing.T) {
	nodeA := testutil.CreateTestNode(testutil.WithID("a"))
	nodeB := testutil.CreateTestNode(testutil.WithID("b"))
	workflow := testutil.CreateTestWorkflow(
		[]*models.WorkflowNode{nodeA, nodeB},
		[]*models.Connection{testutil.CreateTestConnection("a", "b")},
	)
	store := NewStore(workflow)

	ctx := context.Background()
	require.NoError(t, store.RemoveNode(ctx, "b"))
	require.Empty(t, store.Workflow().Connections)

	require.True(t, store.Undo(ctx))

	state := store.Workflow()
	require.NotNil(t, state.NodeByID("b"))
	require.Len(t, state.Connections, 1)
	assert.Equal(t, "a", state.Connections[0].SourceNodeID)
	assert.Equal(t, "b", state.Connections[0].TargetNodeID)
}

func TestStore_History_CapacityEvictsOldest(t *testing.T) {
	store := NewStore(testutil.CreateTestWorkflow(nil, nil), WithHistoryLimit(2))
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := store.AddNode(ctx, testutil.CreateTestNode(testutil.WithID(id)), nil)
		require.NoError(t, err)
	}

	assert.True(t, store.Undo(ctx))
	assert.True(t, store.Undo(ctx))
	assert.False(t, store.Undo(ctx), "the oldest snapshot was evicted")

	// The deepest reachable state still holds the first node.
	state := store.Workflow()
	assert.NotNil(t, state.NodeByID("a"))
	assert.Nil(t, state.NodeByID("b"))
}

func TestStore_UndoRedo_SnapshotsStayIndependent(t *testing.T) {
	nodeA := testutil.CreateTestNode(testutil.WithID("a"), testutil.WithName("First"))
	store := NewStore(testutil.CreateTestWorkflow([]*models.WorkflowNode{nodeA}, nil))
	ctx := context.Background()

	name := "Second"
	_, err := store.UpdateNode(ctx, "a", NodePatch{Name: &name})
	require.NoError(t, err)

	require.True(t, store.Undo(ctx))
	require.True(t, store.Redo(ctx))
	require.True(t, store.Undo(ctx))

	assert.Equal(t, "First", store.Workflow().NodeByID("a").Name)
}

func TestHistory_SaveBeyondLimitDropsOldest(t *testing.T) {
	h := newHistory(2)
	workflow := testutil.CreateTestWorkflow(nil, nil)

	h.save("one", workflow)
	h.save("two", workflow)
	h.save("three", workflow)

	assert.Len(t, h.undoStack, 2)
	assert.Equal(t, "two", h.undoStack[0].label)
	assert.Equal(t, "three", h.undoStack[1].label)
}
