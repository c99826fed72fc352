package layout

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zcode-editor/zcode/internal/renderer/core"
)

func TestLayoutASCIILine(t *testing.T) {
	e := NewEngine(4)
	l := e.Layout("hello", 0)
	require.Equal(t, 5, l.Width)
	require.Len(t, l.Clusters, 5)
	require.False(t, l.HasTabs)
	require.False(t, l.HasWide)
	for i, c := range l.Clusters {
		require.Equal(t, i, c.Column)
		require.Equal(t, 1, c.Width)
	}
}

func TestLayoutExpandsTabToNextStop(t *testing.T) {
	e := NewEngine(4)
	l := e.Layout("a\tb", 0)
	require.True(t, l.HasTabs)
	// "a" at column 0 (width 1), tab at column 1 expands to column 4 (3
	// cells), "b" at column 4.
	require.Equal(t, 3, len(l.Clusters))
	require.Equal(t, 0, l.Clusters[0].Column)
	require.Equal(t, 1, l.Clusters[1].Column)
	require.Equal(t, 3, l.Clusters[1].Width)
	require.Equal(t, 4, l.Clusters[2].Column)
	require.Equal(t, 5, l.Width)
}

func TestLayoutWideGraphemeOccupiesTwoCells(t *testing.T) {
	e := NewEngine(4)
	l := e.Layout("a"+"你"+"b", 0)
	require.True(t, l.HasWide)
	require.Equal(t, 3, len(l.Clusters))
	require.Equal(t, 1, l.Clusters[0].Width)
	require.Equal(t, 2, l.Clusters[1].Width)
	require.Equal(t, 1, l.Clusters[2].Width)
	// cells: a(1) + wide(2, incl. continuation) + b(1) = 4 visual columns
	require.Equal(t, 4, l.Width)
	require.Len(t, l.Cells, 4)
	require.True(t, l.Cells[2].IsContinuation())
}

func TestClusterAtColumnAndByteOffsetAtColumn(t *testing.T) {
	e := NewEngine(4)
	l := e.Layout("a"+"你"+"b", 0)

	require.Equal(t, 0, l.ClusterAtColumn(0)) // "a"
	require.Equal(t, 1, l.ClusterAtColumn(1)) // start of wide cluster
	require.Equal(t, 1, l.ClusterAtColumn(2)) // continuation cell still maps to the same cluster
	require.Equal(t, 2, l.ClusterAtColumn(3)) // "b"

	require.Equal(t, l.Clusters[1].ByteOffset, l.ByteOffsetAtColumn(1))
}

func TestVisualColumnExtrapolatesPastEndOfLine(t *testing.T) {
	e := NewEngine(4)
	l := e.Layout("ab", 0)
	require.Equal(t, 2, l.VisualColumn(2))
	require.Equal(t, 3, l.VisualColumn(3))
}

func TestLayoutEmptyLine(t *testing.T) {
	e := NewEngine(4)
	l := e.Layout("", 0)
	require.True(t, l.IsEmpty())
	require.Equal(t, 0, l.Width)
}

func TestLayoutWithStyleAppliesBaseStyle(t *testing.T) {
	e := NewEngine(4)
	style := core.NewStyle(core.ColorRed).Bold()
	l := e.LayoutWithStyle("hi", 0, style)
	for _, c := range l.Cells {
		require.True(t, c.Style.Equals(style))
	}
}

func TestApplyStylesOverridesRange(t *testing.T) {
	e := NewEngine(4)
	l := e.Layout("hello", 0)
	e.ApplyStyles(l, []core.StyleSpan{
		{StartCol: 1, EndCol: 3, Style: core.NewStyle(core.ColorRed)},
	})
	require.True(t, l.Cells[0].Style.IsDefault())
	require.Equal(t, core.ColorRed, l.Cells[1].Style.Foreground)
	require.Equal(t, core.ColorRed, l.Cells[2].Style.Foreground)
	require.True(t, l.Cells[3].Style.IsDefault())
}
