package rope

import "strings"

// B-tree shape constants. Internal nodes hold at most MaxChildren
// children and leaves at most MaxChunksPerLeaf chunks. MinChildren is not
// enforced: splits and concatenation can leave internal nodes with fewer
// children, down to one.
const (
	MinChildren      = 4
	MaxChildren      = 8
	MaxChunksPerLeaf = 4
)

// node is a node of the rope's B-tree. Nodes are immutable once built:
// every mutating operation returns new nodes, sharing unchanged subtrees
// with the original — this is what makes Rope.Clone O(1).
type node struct {
	height  uint8 // 0 for leaves
	summary Summary

	children       []*node // height > 0
	childSummaries []Summary

	chunks []chunk // height == 0
}

func newLeaf() *node {
	return &node{height: 0}
}

func newLeafFromChunks(chunks []chunk) *node {
	n := &node{height: 0, chunks: chunks}
	n.recomputeSummary()
	return n
}

func newInternal(children []*node) *node {
	if len(children) == 0 {
		return newLeaf()
	}
	summaries := make([]Summary, len(children))
	var total Summary
	for i, c := range children {
		summaries[i] = c.summary
		total = total.Add(c.summary)
	}
	return &node{
		height:         children[0].height + 1,
		summary:        total,
		children:       children,
		childSummaries: summaries,
	}
}

func (n *node) isLeaf() bool    { return n.height == 0 }
func (n *node) Len() ByteOffset { return n.summary.Bytes }
func (n *node) lineCount() uint32 { return n.summary.Lines + 1 }

func (n *node) recomputeSummary() {
	var total Summary
	if n.isLeaf() {
		for _, c := range n.chunks {
			total = total.Add(c.Summary())
		}
	} else {
		n.childSummaries = make([]Summary, len(n.children))
		for i, c := range n.children {
			n.childSummaries[i] = c.summary
			total = total.Add(c.summary)
		}
	}
	n.summary = total
}

func (n *node) clone() *node {
	if n.isLeaf() {
		chunks := make([]chunk, len(n.chunks))
		copy(chunks, n.chunks)
		return &node{height: 0, summary: n.summary, chunks: chunks}
	}
	children := make([]*node, len(n.children))
	copy(children, n.children)
	summaries := make([]Summary, len(n.childSummaries))
	copy(summaries, n.childSummaries)
	return &node{height: n.height, summary: n.summary, children: children, childSummaries: summaries}
}

func (n *node) appendTo(sb *strings.Builder) {
	if n.isLeaf() {
		for _, c := range n.chunks {
			sb.WriteString(c.String())
		}
		return
	}
	for _, c := range n.children {
		c.appendTo(sb)
	}
}

func (n *node) textInRange(start, end ByteOffset) string {
	if start >= end || start >= n.Len() {
		return ""
	}
	if end > n.Len() {
		end = n.Len()
	}
	var sb strings.Builder
	sb.Grow(int(end - start))
	n.appendRange(&sb, start, end)
	return sb.String()
}

func (n *node) appendRange(sb *strings.Builder, start, end ByteOffset) {
	if start >= end {
		return
	}
	if n.isLeaf() {
		offset := ByteOffset(0)
		for _, c := range n.chunks {
			cLen := ByteOffset(c.Len())
			cEnd := offset + cLen
			if cEnd <= start {
				offset = cEnd
				continue
			}
			if offset >= end {
				break
			}
			sliceStart := 0
			if start > offset {
				sliceStart = int(start - offset)
			}
			sliceEnd := c.Len()
			if end < cEnd {
				sliceEnd = int(end - offset)
			}
			sb.WriteString(c.String()[sliceStart:sliceEnd])
			offset = cEnd
		}
		return
	}

	offset := ByteOffset(0)
	for i, c := range n.children {
		cLen := n.childSummaries[i].Bytes
		cEnd := offset + cLen
		if cEnd <= start {
			offset = cEnd
			continue
		}
		if offset >= end {
			break
		}
		childStart := ByteOffset(0)
		if start > offset {
			childStart = start - offset
		}
		childEnd := cLen
		if end < cEnd {
			childEnd = end - offset
		}
		c.appendRange(sb, childStart, childEnd)
		offset = cEnd
	}
}

// byteAt returns the byte at offset, or (0, false) if out of range.
func (n *node) byteAt(offset ByteOffset) (byte, bool) {
	if offset >= n.Len() {
		return 0, false
	}
	cur := n
	for !cur.isLeaf() {
		idx, childOffset := cur.findChildByOffset(offset)
		cur = cur.children[idx]
		offset = childOffset
	}
	for _, c := range cur.chunks {
		cLen := ByteOffset(c.Len())
		if offset < cLen {
			return c.String()[offset], true
		}
		offset -= cLen
	}
	return 0, false
}

// split divides the subtree at offset: left holds [0, offset), right holds
// [offset, len).
func (n *node) split(offset ByteOffset) (*node, *node) {
	if offset <= 0 {
		return newLeaf(), n.clone()
	}
	if offset >= n.Len() {
		return n.clone(), newLeaf()
	}
	if n.isLeaf() {
		return n.splitLeaf(offset)
	}
	return n.splitInternal(offset)
}

func (n *node) splitLeaf(offset ByteOffset) (*node, *node) {
	var left, right []chunk
	cur := ByteOffset(0)
	for _, c := range n.chunks {
		cLen := ByteOffset(c.Len())
		switch {
		case cur+cLen <= offset:
			left = append(left, c)
		case cur >= offset:
			right = append(right, c)
		default:
			l, r := c.split(int(offset - cur))
			if !l.IsEmpty() {
				left = append(left, l)
			}
			if !r.IsEmpty() {
				right = append(right, r)
			}
		}
		cur += cLen
	}
	return newLeafFromChunks(left), newLeafFromChunks(right)
}

func (n *node) splitInternal(offset ByteOffset) (*node, *node) {
	var left, right []*node
	cur := ByteOffset(0)
	for i, c := range n.children {
		cLen := n.childSummaries[i].Bytes
		switch {
		case cur+cLen <= offset:
			left = append(left, c)
		case cur >= offset:
			right = append(right, c)
		default:
			l, r := c.split(offset - cur)
			if l.Len() > 0 {
				left = append(left, l)
			}
			if r.Len() > 0 {
				right = append(right, r)
			}
		}
		cur += cLen
	}
	return buildFromNodes(left), buildFromNodes(right)
}

// buildFromNodes assembles a balanced tree over already-built children,
// adding internal levels as needed to stay within MaxChildren per node.
func buildFromNodes(children []*node) *node {
	if len(children) == 0 {
		return newLeaf()
	}
	if len(children) == 1 {
		return children[0]
	}
	if len(children) <= MaxChildren {
		return newInternal(children)
	}

	var parents []*node
	for i := 0; i < len(children); i += MaxChildren {
		end := min(i+MaxChildren, len(children))
		parents = append(parents, newInternal(children[i:end]))
	}
	return buildFromNodes(parents)
}

// concatNodes joins two subtrees, merging adjacent leaves when they fit
// within a single leaf's chunk budget.
func concatNodes(left, right *node) *node {
	if left == nil || left.Len() == 0 {
		if right == nil {
			return newLeaf()
		}
		return right
	}
	if right == nil || right.Len() == 0 {
		return left
	}

	if left.isLeaf() && right.isLeaf() {
		return concatLeaves(left, right)
	}

	for left.height < right.height {
		left = newInternal([]*node{left})
	}
	for right.height < left.height {
		right = newInternal([]*node{right})
	}
	return mergeSameHeight(left, right)
}

func concatLeaves(left, right *node) *node {
	total := len(left.chunks) + len(right.chunks)
	if total <= MaxChunksPerLeaf {
		chunks := make([]chunk, 0, total)
		chunks = append(chunks, left.chunks...)
		chunks = append(chunks, right.chunks...)
		return newLeafFromChunks(chunks)
	}
	return newInternal([]*node{left.clone(), right.clone()})
}

func mergeSameHeight(left, right *node) *node {
	if left.isLeaf() {
		return concatLeaves(left, right)
	}
	all := make([]*node, 0, len(left.children)+len(right.children))
	all = append(all, left.children...)
	all = append(all, right.children...)
	if len(all) <= MaxChildren {
		return newInternal(all)
	}
	return buildFromNodes(all)
}

// findChildByOffset returns the index of the child containing offset and
// the offset translated into that child's coordinate space.
func (n *node) findChildByOffset(offset ByteOffset) (int, ByteOffset) {
	cur := ByteOffset(0)
	for i, s := range n.childSummaries {
		if cur+s.Bytes > offset {
			return i, offset - cur
		}
		cur += s.Bytes
	}
	last := len(n.children) - 1
	return last, offset - (n.summary.Bytes - n.childSummaries[last].Bytes)
}

// findChildByLine returns the index of the child containing line and the
// line translated into that child's coordinate space.
func (n *node) findChildByLine(line uint32) (int, uint32) {
	cur := uint32(0)
	for i, s := range n.childSummaries {
		if cur+s.Lines >= line {
			return i, line - cur
		}
		cur += s.Lines
	}
	last := len(n.children) - 1
	lastStart := n.summary.Lines - n.childSummaries[last].Lines
	return last, line - lastStart
}
