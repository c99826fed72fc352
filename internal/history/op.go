package history

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/zcode-editor/zcode/internal/rope"
)

// OpKind distinguishes the shape of an Op.
type OpKind uint8

const (
	OpInsert OpKind = iota
	OpDelete
	OpComposite
)

func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpComposite:
		return "composite"
	default:
		return "unknown"
	}
}

// Op is a single edit recorded on the history DAG. It is self-invertible:
// Text always holds the bytes the op places into (Insert) or removes from
// (Delete) the rope at Offset, so Invert needs no access to the rope to
// produce the op that undoes it. OpComposite groups several ops (e.g. the
// two replacements of an LSP rename's workspace edit) into one undo unit.
type Op struct {
	Kind     OpKind
	Offset   rope.ByteOffset
	Text     string
	Children []Op // only populated when Kind == OpComposite
}

// Insert builds an op that places text at offset.
func Insert(offset rope.ByteOffset, text string) Op {
	return Op{Kind: OpInsert, Offset: offset, Text: text}
}

// Delete builds an op that removes text (the bytes being removed) starting
// at offset.
func Delete(offset rope.ByteOffset, text string) Op {
	return Op{Kind: OpDelete, Offset: offset, Text: text}
}

// Composite groups ops into a single undo unit. Apply runs them in order;
// Invert reverses both the order and each child.
func Composite(ops ...Op) Op {
	return Op{Kind: OpComposite, Children: ops}
}

// Apply performs the op's forward edit against r.
func (o Op) Apply(r rope.Rope) (rope.Rope, error) {
	switch o.Kind {
	case OpInsert:
		return r.Insert(o.Offset, o.Text)
	case OpDelete:
		return r.Delete(o.Offset, o.Offset+rope.ByteOffset(len(o.Text)))
	case OpComposite:
		cur := r
		for _, child := range o.Children {
			var err error
			cur, err = child.Apply(cur)
			if err != nil {
				return rope.Rope{}, err
			}
		}
		return cur, nil
	default:
		return rope.Rope{}, fmt.Errorf("history: unknown op kind %d", o.Kind)
	}
}

// Invert returns the op that undoes o without touching a rope.
func (o Op) Invert() Op {
	switch o.Kind {
	case OpInsert:
		return Op{Kind: OpDelete, Offset: o.Offset, Text: o.Text}
	case OpDelete:
		return Op{Kind: OpInsert, Offset: o.Offset, Text: o.Text}
	case OpComposite:
		inverted := make([]Op, len(o.Children))
		for i, child := range o.Children {
			inverted[len(o.Children)-1-i] = child.Invert()
		}
		return Op{Kind: OpComposite, Children: inverted}
	default:
		return o
	}
}

// BytesDelta returns the op's net effect on buffer length.
func (o Op) BytesDelta() int {
	switch o.Kind {
	case OpInsert:
		return len(o.Text)
	case OpDelete:
		return -len(o.Text)
	case OpComposite:
		total := 0
		for _, child := range o.Children {
			total += child.BytesDelta()
		}
		return total
	default:
		return 0
	}
}

// IsNoop reports whether the op changes nothing.
func (o Op) IsNoop() bool {
	if o.Kind == OpComposite {
		return len(o.Children) == 0
	}
	return o.Text == ""
}

// String returns a short human-readable description, used by Log/Reflog
// consumers that render an undo/redo menu.
func (o Op) String() string {
	switch o.Kind {
	case OpInsert:
		return describe("Insert", o.Text)
	case OpDelete:
		return describe("Delete", o.Text)
	case OpComposite:
		if len(o.Children) == 1 {
			return o.Children[0].String()
		}
		return fmt.Sprintf("%d edits", len(o.Children))
	default:
		return "unknown op"
	}
}

func describe(verb, text string) string {
	if utf8.RuneCountInString(text) <= 20 {
		return fmt.Sprintf("%s %q", verb, text)
	}
	return fmt.Sprintf("%s %d characters", verb, utf8.RuneCountInString(strings.ReplaceAll(text, "\n", "\\n")))
}
