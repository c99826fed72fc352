// Package layout computes the visual layout of buffer lines: grapheme
// cluster segmentation, tab expansion, and the logical-to-visual column
// mappings the cursor, selection-rendering, and viewport code need.
//
// Unlike a per-rune layout, every unit here is a grapheme cluster — a
// user-perceived character, which may be one or several Unicode code
// points (an emoji with a variation selector, a base letter plus a
// combining accent). Clusters are found with uniseg.NewGraphemes and
// measured with uniseg.StringWidth, so wide East-Asian and emoji
// clusters correctly occupy two display cells.
//
// Cache memoizes LineLayout by line number, validated by a hash of
// the line's current text, with LRU eviction above a configured size.
package layout
