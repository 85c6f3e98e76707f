package editor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftlabs/weft/pkg/models"
	"github.com/weftlabs/weft/pkg/testutil"
)

func edges(wf *models.Workflow) [][2]string {
	pairs := make([][2]string, 0, len(wf.Connections))
	for _, conn := range wf.Connections {
		pairs = append(pairs, [2]string{conn.SourceNodeID, conn.TargetNodeID})
	}
	return pairs
}

func TestStore_AddNode_MidEdge_SplicesAndShifts(t *testing.T) {
	nodeA := testutil.CreateTestNode(testutil.WithID("a"), testutil.WithPosition(0, 0))
	nodeB := testutil.CreateTestNode(testutil.WithID("b"), testutil.WithPosition(100, 0))
	workflow := testutil.CreateTestWorkflow(
		[]*models.WorkflowNode{nodeA, nodeB},
		[]*models.Connection{testutil.CreateTestConnection("a", "b")},
	)
	store := NewStore(workflow, WithLayout(Layout{NodeWidth: 150, NodeGap: 25, DanglingOffset: 200}))

	inserted, err := store.AddNode(context.Background(),
		testutil.CreateTestNode(testutil.WithID("m")),
		&InsertionContext{SourceNodeID: "a", TargetNodeID: "b"})
	require.NoError(t, err)

	// One step past the source along the a->b direction.
	assert.Equal(t, models.Position{X: 175, Y: 0}, inserted.Position)

	state := store.Workflow()
	assert.Equal(t, models.Position{X: 0, Y: 0}, state.NodeByID("a").Position, "source never moves")
	assert.Equal(t, models.Position{X: 350, Y: 0}, state.NodeByID("b").Position,
		"target pushed out to twice the step distance")

	assert.ElementsMatch(t, [][2]string{{"a", "m"}, {"m", "b"}}, edges(state))
}

func TestStore_AddNode_MidEdge_EnoughRoomNoShift(t *testing.T) {
	nodeA := testutil.CreateTestNode(testutil.WithID("a"), testutil.WithPosition(0, 0))
	nodeB := testutil.CreateTestNode(testutil.WithID("b"), testutil.WithPosition(400, 0))
	workflow := testutil.CreateTestWorkflow(
		[]*models.WorkflowNode{nodeA, nodeB},
		[]*models.Connection{testutil.CreateTestConnection("a", "b")},
	)
	store := NewStore(workflow, WithLayout(Layout{NodeWidth: 150, NodeGap: 25, DanglingOffset: 200}))

	inserted, err := store.AddNode(context.Background(),
		testutil.CreateTestNode(testutil.WithID("m")),
		&InsertionContext{SourceNodeID: "a", TargetNodeID: "b"})
	require.NoError(t, err)

	assert.Equal(t, models.Position{X: 175, Y: 0}, inserted.Position)
	assert.Equal(t, models.Position{X: 400, Y: 0}, store.Workflow().NodeByID("b").Position)
}

func TestStore_AddNode_MidEdge_ShiftCascadesDownstream(t *testing.T) {
	nodeA := testutil.CreateTestNode(testutil.WithID("a"), testutil.WithPosition(0, 0))
	nodeB := testutil.CreateTestNode(testutil.WithID("b"), testutil.WithPosition(100, 0))
	nodeC := testutil.CreateTestNode(testutil.WithID("c"), testutil.WithPosition(200, 0))
	workflow := testutil.CreateTestWorkflow(
		[]*models.WorkflowNode{nodeA, nodeB, nodeC},
		[]*models.Connection{
			testutil.CreateTestConnection("a", "b"),
			testutil.CreateTestConnection("b", "c"),
		},
	)
	store := NewStore(workflow, WithLayout(Layout{NodeWidth: 150, NodeGap: 25, DanglingOffset: 200}))

	_, err := store.AddNode(context.Background(),
		testutil.CreateTestNode(testutil.WithID("m")),
		&InsertionContext{SourceNodeID: "a", TargetNodeID: "b"})
	require.NoError(t, err)

	state := store.Workflow()
	assert.Equal(t, models.Position{X: 350, Y: 0}, state.NodeByID("b").Position)
	assert.Equal(t, models.Position{X: 450, Y: 0}, state.NodeByID("c").Position,
		"downstream nodes translate by the same delta")
}

func TestStore_AddNode_MidEdge_CycleTerminates(t *testing.T) {
	nodeA := testutil.CreateTestNode(testutil.WithID("a"), testutil.WithPosition(0, 0))
	nodeB := testutil.CreateTestNode(testutil.WithID("b"), testutil.WithPosition(100, 0))
	nodeC := testutil.CreateTestNode(testutil.WithID("c"), testutil.WithPosition(200, 0))
	workflow := testutil.CreateTestWorkflow(
		[]*models.WorkflowNode{nodeA, nodeB, nodeC},
		[]*models.Connection{
			testutil.CreateTestConnection("a", "b"),
			testutil.CreateTestConnection("b", "c"),
			testutil.CreateTestConnection("c", "a"),
		},
	)
	store := NewStore(workflow, WithLayout(Layout{NodeWidth: 150, NodeGap: 25, DanglingOffset: 200}))

	_, err := store.AddNode(context.Background(),
		testutil.CreateTestNode(testutil.WithID("m")),
		&InsertionContext{SourceNodeID: "a", TargetNodeID: "b"})
	require.NoError(t, err)

	state := store.Workflow()
	assert.Equal(t, models.Position{X: 0, Y: 0}, state.NodeByID("a").Position,
		"the cycle must not shift the source")
	assert.Equal(t, models.Position{X: 350, Y: 0}, state.NodeByID("b").Position)
	assert.Equal(t, models.Position{X: 450, Y: 0}, state.NodeByID("c").Position)
}

func TestStore_AddNode_MidEdge_DiamondShiftsOnce(t *testing.T) {
	nodeA := testutil.CreateTestNode(testutil.WithID("a"), testutil.WithPosition(0, 0))
	nodeB := testutil.CreateTestNode(testutil.WithID("b"), testutil.WithPosition(100, 0))
	nodeC := testutil.CreateTestNode(testutil.WithID("c"), testutil.WithPosition(200, -50))
	nodeD := testutil.CreateTestNode(testutil.WithID("d"), testutil.WithPosition(200, 50))
	nodeE := testutil.CreateTestNode(testutil.WithID("e"), testutil.WithPosition(300, 0))
	workflow := testutil.CreateTestWorkflow(
		[]*models.WorkflowNode{nodeA, nodeB, nodeC, nodeD, nodeE},
		[]*models.Connection{
			testutil.CreateTestConnection("a", "b"),
			testutil.CreateTestConnection("b", "c"),
			testutil.CreateTestConnection("b", "d"),
			testutil.CreateTestConnection("c", "e"),
			testutil.CreateTestConnection("d", "e"),
		},
	)
	store := NewStore(workflow, WithLayout(Layout{NodeWidth: 150, NodeGap: 25, DanglingOffset: 200}))

	_, err := store.AddNode(context.Background(),
		testutil.CreateTestNode(testutil.WithID("m")),
		&InsertionContext{SourceNodeID: "a", TargetNodeID: "b"})
	require.NoError(t, err)

	state := store.Workflow()
	// Node e is reachable through both c and d but translates exactly once.
	assert.Equal(t, models.Position{X: 550, Y: 0}, state.NodeByID("e").Position)
}

func TestStore_AddNode_MidEdge_DiagonalDirection(t *testing.T) {
	nodeA := testutil.CreateTestNode(testutil.WithID("a"), testutil.WithPosition(0, 0))
	nodeB := testutil.CreateTestNode(testutil.WithID("b"), testutil.WithPosition(60, 80))
	workflow := testutil.CreateTestWorkflow(
		[]*models.WorkflowNode{nodeA, nodeB},
		[]*models.Connection{testutil.CreateTestConnection("a", "b")},
	)
	store := NewStore(workflow, WithLayout(Layout{NodeWidth: 150, NodeGap: 25, DanglingOffset: 200}))

	inserted, err := store.AddNode(context.Background(),
		testutil.CreateTestNode(testutil.WithID("m")),
		&InsertionContext{SourceNodeID: "a", TargetNodeID: "b"})
	require.NoError(t, err)

	// Unit direction is (0.6, 0.8); the step is 175 along it.
	assert.InDelta(t, 105, inserted.Position.X, 1e-9)
	assert.InDelta(t, 140, inserted.Position.Y, 1e-9)

	shifted := store.Workflow().NodeByID("b").Position
	assert.InDelta(t, 60+0.6*250, shifted.X, 1e-9)
	assert.InDelta(t, 80+0.8*250, shifted.Y, 1e-9)
}

func TestStore_AddNode_MidEdge_CoincidentEndpoints(t *testing.T) {
	nodeA := testutil.CreateTestNode(testutil.WithID("a"), testutil.WithPosition(100, 100))
	nodeB := testutil.CreateTestNode(testutil.WithID("b"), testutil.WithPosition(100, 100))
	workflow := testutil.CreateTestWorkflow(
		[]*models.WorkflowNode{nodeA, nodeB},
		[]*models.Connection{testutil.CreateTestConnection("a", "b")},
	)
	store := NewStore(workflow, WithLayout(Layout{NodeWidth: 150, NodeGap: 25, DanglingOffset: 200}))

	inserted, err := store.AddNode(context.Background(),
		testutil.CreateTestNode(testutil.WithID("m")),
		&InsertionContext{SourceNodeID: "a", TargetNodeID: "b"})
	require.NoError(t, err)

	// Zero-length direction falls back to the positive x axis.
	assert.Equal(t, models.Position{X: 275, Y: 100}, inserted.Position)
	assert.Equal(t, models.Position{X: 450, Y: 100}, store.Workflow().NodeByID("b").Position)
}

func TestStore_AddNode_MidEdge_ReplacesOnlyTheSplicedEdge(t *testing.T) {
	nodeA := testutil.CreateTestNode(testutil.WithID("a"), testutil.WithPosition(0, 0))
	nodeB := testutil.CreateTestNode(testutil.WithID("b"), testutil.WithPosition(100, 0))
	nodeC := testutil.CreateTestNode(testutil.WithID("c"), testutil.WithPosition(100, 200))
	workflow := testutil.CreateTestWorkflow(
		[]*models.WorkflowNode{nodeA, nodeB, nodeC},
		[]*models.Connection{
			testutil.CreateTestConnection("a", "b"),
			testutil.CreateTestConnection("a", "c"),
		},
	)
	store := NewStore(workflow)

	_, err := store.AddNode(context.Background(),
		testutil.CreateTestNode(testutil.WithID("m")),
		&InsertionContext{SourceNodeID: "a", TargetNodeID: "b"})
	require.NoError(t, err)

	assert.ElementsMatch(t, [][2]string{{"a", "m"}, {"m", "b"}, {"a", "c"}}, edges(store.Workflow()))
}

func TestStore_AddNode_MidEdge_PreservesOuterPorts(t *testing.T) {
	nodeA := testutil.CreateTestNode(testutil.WithID("a"), testutil.WithPosition(0, 0))
	nodeB := testutil.CreateTestNode(testutil.WithID("b"), testutil.WithPosition(100, 0))
	workflow := testutil.CreateTestWorkflow(
		[]*models.WorkflowNode{nodeA, nodeB},
		[]*models.Connection{testutil.CreateTestConnection("a", "b",
			func(c *models.Connection) {
				c.SourceOutput = "error"
				c.TargetInput = "secondary"
			})},
	)
	store := NewStore(workflow)

	_, err := store.AddNode(context.Background(),
		testutil.CreateTestNode(testutil.WithID("m")),
		&InsertionContext{SourceNodeID: "a", TargetNodeID: "b", SourceOutput: "error", TargetInput: "secondary"})
	require.NoError(t, err)

	state := store.Workflow()
	require.Len(t, state.Connections, 2)
	for _, conn := range state.Connections {
		switch {
		case conn.SourceNodeID == "a" && conn.TargetNodeID == "m":
			assert.Equal(t, "error", conn.SourceOutput)
			assert.Equal(t, models.PortMain, conn.TargetInput)
		case conn.SourceNodeID == "m" && conn.TargetNodeID == "b":
			assert.Equal(t, models.PortMain, conn.SourceOutput)
			assert.Equal(t, "secondary", conn.TargetInput)
		default:
			t.Fatalf("unexpected connection %s -> %s", conn.SourceNodeID, conn.TargetNodeID)
		}
	}
}

func TestStore_AddNode_MidEdge_InheritsSourceGroup(t *testing.T) {
	group := testutil.CreateTestGroup(0, 0, 50, 50, testutil.WithID("group-1"))
	nodeA := testutil.CreateTestNode(testutil.WithID("a"),
		testutil.WithPosition(10, 10), testutil.WithParent("group-1"))
	nodeB := testutil.CreateTestNode(testutil.WithID("b"), testutil.WithPosition(600, 10))
	workflow := testutil.CreateTestWorkflow(
		[]*models.WorkflowNode{group, nodeA, nodeB},
		[]*models.Connection{testutil.CreateTestConnection("a", "b")},
	)
	store := NewStore(workflow)

	inserted, err := store.AddNode(context.Background(),
		testutil.CreateTestNode(testutil.WithID("m")),
		&InsertionContext{SourceNodeID: "a", TargetNodeID: "b"})
	require.NoError(t, err)

	// Membership follows the source node even when the computed position
	// lands outside the group's extent.
	assert.Equal(t, "group-1", inserted.ParentID)
}

func TestStore_AddNode_Dangling_FromSource(t *testing.T) {
	group := testutil.CreateTestGroup(0, 0, 50, 50, testutil.WithID("group-1"))
	nodeA := testutil.CreateTestNode(testutil.WithID("a"),
		testutil.WithPosition(10, 10), testutil.WithParent("group-1"))
	store := NewStore(testutil.CreateTestWorkflow([]*models.WorkflowNode{group, nodeA}, nil))

	inserted, err := store.AddNode(context.Background(),
		testutil.CreateTestNode(testutil.WithID("m")),
		&InsertionContext{SourceNodeID: "a"})
	require.NoError(t, err)

	assert.Equal(t, models.Position{X: 210, Y: 10}, inserted.Position)
	assert.Equal(t, "group-1", inserted.ParentID)
	assert.ElementsMatch(t, [][2]string{{"a", "m"}}, edges(store.Workflow()))
}

func TestStore_AddNode_Dangling_TargetOnly(t *testing.T) {
	nodeB := testutil.CreateTestNode(testutil.WithID("b"), testutil.WithPosition(300, 40))
	store := NewStore(testutil.CreateTestWorkflow([]*models.WorkflowNode{nodeB}, nil))

	inserted, err := store.AddNode(context.Background(),
		testutil.CreateTestNode(testutil.WithID("m")),
		&InsertionContext{TargetNodeID: "b"})
	require.NoError(t, err)

	assert.Equal(t, models.Position{X: 500, Y: 40}, inserted.Position)
	assert.ElementsMatch(t, [][2]string{{"m", "b"}}, edges(store.Workflow()))
}

func TestStore_AddNode_MidEdge_DeletedTargetDegradesToDangling(t *testing.T) {
	nodeA := testutil.CreateTestNode(testutil.WithID("a"), testutil.WithPosition(0, 0))
	store := NewStore(testutil.CreateTestWorkflow([]*models.WorkflowNode{nodeA}, nil))

	inserted, err := store.AddNode(context.Background(),
		testutil.CreateTestNode(testutil.WithID("m")),
		&InsertionContext{SourceNodeID: "a", TargetNodeID: "ghost"})
	require.NoError(t, err)

	assert.Equal(t, models.Position{X: 200, Y: 0}, inserted.Position)
	assert.ElementsMatch(t, [][2]string{{"a", "m"}}, edges(store.Workflow()))
}

func TestStore_AddNode_StaleContextDegradesToPlacement(t *testing.T) {
	store := NewStore(testutil.CreateTestWorkflow(nil, nil))
	store.SetViewportCenter(models.Position{X: 640, Y: 360})

	node := testutil.CreateTestNode(testutil.WithID("m"))
	node.Position = models.Position{}

	inserted, err := store.AddNode(context.Background(), node,
		&InsertionContext{SourceNodeID: "ghost-a", TargetNodeID: "ghost-b"})
	require.NoError(t, err)

	assert.Equal(t, models.Position{X: 640, Y: 360}, inserted.Position)
	assert.Empty(t, store.Workflow().Connections)
}

func TestStore_AddNode_NoContext_UsesExplicitPosition(t *testing.T) {
	store := NewStore(testutil.CreateTestWorkflow(nil, nil))

	inserted, err := store.AddNode(context.Background(),
		testutil.CreateTestNode(testutil.WithID("m"), testutil.WithPosition(42, 24)), nil)
	require.NoError(t, err)

	assert.Equal(t, models.Position{X: 42, Y: 24}, inserted.Position)
}

func TestStore_AddNode_NoContext_DefaultsToViewportCenter(t *testing.T) {
	store := NewStore(testutil.CreateTestWorkflow(nil, nil))
	store.SetViewportCenter(models.Position{X: 500, Y: 250})

	node := testutil.CreateTestNode(testutil.WithID("m"))
	node.Position = models.Position{}

	inserted, err := store.AddNode(context.Background(), node, nil)
	require.NoError(t, err)

	assert.Equal(t, models.Position{X: 500, Y: 250}, inserted.Position)
}

func TestDownstreamNodeIDs_ExcludesSeed(t *testing.T) {
	workflow := testutil.CreateTestWorkflow(
		[]*models.WorkflowNode{
			testutil.CreateTestNode(testutil.WithID("a")),
			testutil.CreateTestNode(testutil.WithID("b")),
			testutil.CreateTestNode(testutil.WithID("c")),
		},
		[]*models.Connection{
			testutil.CreateTestConnection("a", "b"),
			testutil.CreateTestConnection("b", "c"),
			testutil.CreateTestConnection("c", "a"),
		},
	)

	ids := downstreamNodeIDs(workflow, "b", "a")
	assert.ElementsMatch(t, []string{"b", "c"}, ids)
}
