// Package history implements the DAG-shaped edit history backing undo and
// redo for a buffer.
//
// Unlike a linear undo/redo stack, every applied op becomes a node with a
// stable id, a parent, and a children list. Undo walks to the parent; a
// fresh edit after an undo starts a new branch instead of discarding the
// abandoned "redo tail" — nothing a user typed is ever lost, and checkout
// can still reach it by id. Checkpoints (full rope snapshots) are taken
// periodically along the active path so that undo/redo/checkout never
// need to replay more than a bounded number of ops from the root.
//
// Basic usage:
//
//	dag := history.NewDAG(rope.FromString("hello"))
//	r, id, err := dag.Apply(history.Insert(5, " world"), before, after, dag.Current())
//	r, pos, ok := dag.Undo()
//	r, pos, ok = dag.Redo()
package history
