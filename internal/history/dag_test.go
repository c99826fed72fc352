package history

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zcode-editor/zcode/internal/rope"
)

func TestApplyAdvancesHeadAndRope(t *testing.T) {
	dag := NewDAG(rope.New())
	r, id, err := dag.Apply(Insert(0, "hello"), rope.Point{}, rope.Point{Column: 5}, dag.Current())
	require.NoError(t, err)
	require.Equal(t, "hello", r.String())
	require.Equal(t, OpID(1), id)
	require.Equal(t, id, dag.Head())
	require.True(t, dag.CanUndo())
	require.False(t, dag.CanRedo())
}

func TestApplyFailsOnMalformedOp(t *testing.T) {
	dag := NewDAG(rope.FromString("hi"))
	_, _, err := dag.Apply(Delete(10, "x"), rope.Point{}, rope.Point{}, dag.Current())
	require.ErrorIs(t, err, rope.ErrInvalidBoundary)
	require.Equal(t, rootID, dag.Head())
}

func TestUndoRestoresPriorRopeAndCursor(t *testing.T) {
	dag := NewDAG(rope.FromString("hello"))
	_, _, err := dag.Apply(Insert(5, " world"), rope.Point{Column: 5}, rope.Point{Column: 11}, dag.Current())
	require.NoError(t, err)

	r, pos, ok := dag.Undo()
	require.True(t, ok)
	require.Equal(t, "hello", r.String())
	require.Equal(t, rope.Point{Column: 5}, pos)
	require.False(t, dag.CanUndo())
}

func TestUndoOnRootReturnsFalse(t *testing.T) {
	dag := NewDAG(rope.FromString("hi"))
	_, _, ok := dag.Undo()
	require.False(t, ok)
}

func TestRedoReappliesMostRecentChild(t *testing.T) {
	dag := NewDAG(rope.New())
	_, _, err := dag.Apply(Insert(0, "a"), rope.Point{}, rope.Point{Column: 1}, dag.Current())
	require.NoError(t, err)
	dag.Undo()

	r, pos, ok := dag.Redo()
	require.True(t, ok)
	require.Equal(t, "a", r.String())
	require.Equal(t, rope.Point{Column: 1}, pos)
}

// TestBranchingUndo reproduces spec.md §8 scenario 4: type A, then B, then
// undo, then type C. HEAD's path from root is root→A→C; B is still in the
// DAG and checkout(id_of_B) yields "AB".
func TestBranchingUndo(t *testing.T) {
	dag := NewDAG(rope.New())

	_, idA, err := dag.Apply(Insert(0, "A"), rope.Point{}, rope.Point{Column: 1}, dag.Current())
	require.NoError(t, err)

	rAB, idB, err := dag.Apply(Insert(1, "B"), rope.Point{Column: 1}, rope.Point{Column: 2}, dag.Current())
	require.NoError(t, err)
	require.Equal(t, "AB", rAB.String())

	r, _, ok := dag.Undo()
	require.True(t, ok)
	require.Equal(t, "A", r.String())
	require.Equal(t, idA, dag.Head())

	rAC, idC, err := dag.Apply(Insert(1, "C"), rope.Point{Column: 1}, rope.Point{Column: 2}, dag.Current())
	require.NoError(t, err)
	require.Equal(t, "AC", rAC.String())

	log := dag.Log()
	require.Equal(t, []OpID{idC, idA}, log)

	reflog := dag.Reflog()
	require.Equal(t, []OpID{idA, idB, idC}, reflog)

	require.Equal(t, []OpID{idA}, dag.BranchPoints())

	restored, err := dag.Checkout(idB)
	require.NoError(t, err)
	require.Equal(t, "AB", restored.String())
	require.Equal(t, idB, dag.Head())

	// Checking back out to C must still work after visiting the B branch.
	restored, err = dag.Checkout(idC)
	require.NoError(t, err)
	require.Equal(t, "AC", restored.String())
}

func TestCheckoutUnknownID(t *testing.T) {
	dag := NewDAG(rope.FromString("x"))
	_, err := dag.Checkout(OpID(999))
	require.ErrorIs(t, err, ErrUnknownOp)
}

func TestCheckpointEmittedAfterInterval(t *testing.T) {
	dag := NewDAGWithInterval(rope.New(), 3)
	var lastID OpID
	for i := 0; i < 6; i++ {
		_, id, err := dag.Apply(Insert(dag.Current().ByteLen(), "x"), rope.Point{}, rope.Point{}, dag.Current())
		require.NoError(t, err)
		lastID = id
	}
	_, hasCheckpoint := dag.checkpoints[lastID]
	require.True(t, hasCheckpoint, "expected a checkpoint once the active path reached K=3 ops past the previous one")
}

func TestCompositeOpAppliesAndInvertsAsOneUnit(t *testing.T) {
	dag := NewDAG(rope.FromString("fn foo(){} foo();"))
	op := Composite(
		Delete(rope.ByteOffset(len("fn ")), "foo"),
		Insert(rope.ByteOffset(len("fn ")), "bar"),
	)
	replaced, err := op.Apply(dag.Current())
	require.NoError(t, err)
	require.Equal(t, "fn bar(){} foo();", replaced.String())

	r, id, err := dag.Apply(op, rope.Point{}, rope.Point{}, dag.Current())
	require.NoError(t, err)
	require.Equal(t, "fn bar(){} foo();", r.String())

	undone, _, ok := dag.Undo()
	require.True(t, ok)
	require.Equal(t, "fn foo(){} foo();", undone.String())

	stored, ok := dag.Describe(id)
	require.True(t, ok)
	require.Equal(t, OpComposite, stored.Kind)
}

func TestPruneCheckpointsKeepsRoot(t *testing.T) {
	dag := NewDAGWithInterval(rope.New(), 1)
	_, id, err := dag.Apply(Insert(0, "x"), rope.Point{}, rope.Point{}, dag.Current())
	require.NoError(t, err)

	dag.PruneCheckpoints(map[OpID]bool{})
	_, rootKept := dag.checkpoints[rootID]
	require.True(t, rootKept)
	_, otherKept := dag.checkpoints[id]
	require.False(t, otherKept)
}
