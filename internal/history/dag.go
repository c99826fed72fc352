package history

import (
	"errors"
	"sync"
	"time"

	"github.com/zcode-editor/zcode/internal/rope"
)

// OpID stably identifies a node in the history DAG. The zero value is the
// root, representing the buffer's state before any op was ever applied.
type OpID uint64

const rootID OpID = 0

// DefaultCheckpointInterval is K from the checkpoint strategy: a rope
// snapshot is cached at a node once it is this many ops past the nearest
// ancestor checkpoint.
const DefaultCheckpointInterval = 100

// ErrUnknownOp is returned by Checkout for an id the DAG never recorded.
var ErrUnknownOp = errors.New("history: unknown op id")

type node struct {
	id           OpID
	op           Op
	parent       OpID
	children     []OpID
	cursorBefore rope.Point
	cursorAfter  rope.Point
	createdAt    time.Time
}

// DAG is the branching edit history of a single buffer: a mapping from
// op-id to {op, parent, cursor-before, cursor-after}, a children index, a
// HEAD pointer, and periodic rope checkpoints. Unlike a linear undo stack,
// an edit applied after an undo starts a new branch rather than discarding
// the abandoned one — nothing is ever lost, only made unreachable from
// HEAD until a Checkout names it again.
type DAG struct {
	mu                 sync.Mutex
	nodes              map[OpID]*node
	order              []OpID // insertion order, for Reflog
	checkpoints        map[OpID]rope.Rope
	checkpointInterval int
	head               OpID
	current            rope.Rope
	nextID             OpID
}

// NewDAG creates a history rooted at initial, using DefaultCheckpointInterval.
func NewDAG(initial rope.Rope) *DAG {
	return NewDAGWithInterval(initial, DefaultCheckpointInterval)
}

// NewDAGWithInterval is NewDAG with an explicit checkpoint interval K.
func NewDAGWithInterval(initial rope.Rope, checkpointInterval int) *DAG {
	if checkpointInterval <= 0 {
		checkpointInterval = DefaultCheckpointInterval
	}
	return &DAG{
		nodes:              map[OpID]*node{rootID: {id: rootID, parent: rootID}},
		checkpoints:        map[OpID]rope.Rope{rootID: initial},
		checkpointInterval: checkpointInterval,
		head:               rootID,
		current:            initial,
		nextID:             1,
	}
}

// Current returns the rope at HEAD.
func (d *DAG) Current() rope.Rope {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// Head returns the id of the current node.
func (d *DAG) Head() OpID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.head
}

// Apply records op as a new child of HEAD and applies it to current — the
// rope the caller believes HEAD holds, normally the result of the caller's
// own prior Current() call. It assigns an id, stores the op (which already
// carries its own inverse via Op.Invert), updates HEAD, and emits a
// checkpoint once the active path has drifted checkpointInterval ops past
// the nearest ancestor checkpoint. It fails only when op itself is
// malformed (out-of-range offsets).
func (d *DAG) Apply(op Op, cursorBefore, cursorAfter rope.Point, current rope.Rope) (rope.Rope, OpID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	newRope, err := op.Apply(current)
	if err != nil {
		return rope.Rope{}, 0, err
	}

	id := d.nextID
	d.nextID++
	d.nodes[id] = &node{
		id:           id,
		op:           op,
		parent:       d.head,
		cursorBefore: cursorBefore,
		cursorAfter:  cursorAfter,
		createdAt:    time.Now(),
	}
	d.nodes[d.head].children = append(d.nodes[d.head].children, id)
	d.order = append(d.order, id)
	d.head = id
	d.current = newRope

	if d.stepsSinceCheckpointLocked(id) >= d.checkpointInterval {
		d.checkpoints[id] = newRope
	}
	return newRope, id, nil
}

func (d *DAG) stepsSinceCheckpointLocked(id OpID) int {
	steps := 0
	for cur := id; ; {
		if _, ok := d.checkpoints[cur]; ok {
			return steps
		}
		if cur == rootID {
			return steps
		}
		cur = d.nodes[cur].parent
		steps++
	}
}

// CanUndo reports whether HEAD has a parent.
func (d *DAG) CanUndo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.head != rootID
}

// CanRedo reports whether HEAD has at least one child.
func (d *DAG) CanRedo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.nodes[d.head].children) > 0
}

// Undo applies the inverse of HEAD's op, moves HEAD to its parent, and
// returns the resulting rope and the caret position to restore (the undone
// op's cursor-before). ok is false if HEAD is already root.
func (d *DAG) Undo() (rope.Rope, rope.Point, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.head == rootID {
		return rope.Rope{}, rope.Point{}, false
	}
	n := d.nodes[d.head]
	newRope, err := n.op.Invert().Apply(d.current)
	if err != nil {
		// n.op.Invert() is built from n.op's own recorded text and offset,
		// so applying it to the rope n.op itself produced cannot fail.
		return rope.Rope{}, rope.Point{}, false
	}
	d.head = n.parent
	d.current = newRope
	return newRope, n.cursorBefore, true
}

// Redo re-applies the most recently created child of HEAD — "most recently
// created" rather than "last undone", so a branch made by editing after an
// undo is preferred over an older sibling. Returns the resulting rope and
// the redone op's cursor-after. ok is false if HEAD has no children.
func (d *DAG) Redo() (rope.Rope, rope.Point, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	children := d.nodes[d.head].children
	if len(children) == 0 {
		return rope.Rope{}, rope.Point{}, false
	}
	childID := children[len(children)-1]
	child := d.nodes[childID]
	newRope, err := child.op.Apply(d.current)
	if err != nil {
		return rope.Rope{}, rope.Point{}, false
	}
	d.head = childID
	d.current = newRope
	return newRope, child.cursorAfter, true
}

// Checkout moves HEAD directly to id. Rather than walking from the
// current HEAD through their lowest common ancestor, it rebuilds from the
// nearest checkpoint on id's own path to root and forward-applies from
// there — bounded by checkpointInterval regardless of how far HEAD and id
// have diverged, which is the checkpoint strategy's point.
func (d *DAG) Checkout(id OpID) (rope.Rope, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.nodes[id]; !ok {
		return rope.Rope{}, ErrUnknownOp
	}

	var forward []Op
	cur := id
	var base rope.Rope
	for {
		if r, ok := d.checkpoints[cur]; ok {
			base = r
			break
		}
		n := d.nodes[cur]
		forward = append(forward, n.op)
		cur = n.parent
	}

	result := base
	for i := len(forward) - 1; i >= 0; i-- {
		var err error
		result, err = forward[i].Apply(result)
		if err != nil {
			return rope.Rope{}, err
		}
	}

	d.head = id
	d.current = result
	return result, nil
}

// Log returns ids from HEAD back to (not including) the root, most recent
// first.
func (d *DAG) Log() []OpID {
	d.mu.Lock()
	defer d.mu.Unlock()
	var ids []OpID
	for cur := d.head; cur != rootID; cur = d.nodes[cur].parent {
		ids = append(ids, cur)
	}
	return ids
}

// Reflog returns every op ever recorded, including ones on branches HEAD
// can no longer reach, in creation order.
func (d *DAG) Reflog() []OpID {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]OpID, len(d.order))
	copy(out, d.order)
	return out
}

// BranchPoints returns the ids of every node with more than one child —
// the points where an undo followed by a fresh edit forked the history.
func (d *DAG) BranchPoints() []OpID {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []OpID
	if len(d.nodes[rootID].children) > 1 {
		out = append(out, rootID)
	}
	for _, id := range d.order {
		if len(d.nodes[id].children) > 1 {
			out = append(out, id)
		}
	}
	return out
}

// Describe returns the op stored at id, for rendering an undo/redo menu.
func (d *DAG) Describe(id OpID) (Op, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	n, ok := d.nodes[id]
	if !ok || id == rootID {
		return Op{}, false
	}
	return n.op, true
}

// PruneCheckpoints discards cached rope snapshots for every id not in
// keep. Checkpoints are always reconstructible by walking an id back to
// root, so pruning only frees memory on abandoned branches; it never
// changes what Checkout can reach.
func (d *DAG) PruneCheckpoints(keep map[OpID]bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for id := range d.checkpoints {
		if id != rootID && !keep[id] {
			delete(d.checkpoints, id)
		}
	}
}
