package rope

import (
	"testing"
	"unicode/utf8"
)

// FuzzInsertDeleteRoundTrip checks the round-trip invariant from spec.md
// §8: apply(inverse(o), apply(o, b)) == b, for random insert/delete pairs
// at random UTF-8-boundary-safe offsets.
func FuzzInsertDeleteRoundTrip(f *testing.F) {
	f.Add("hello world", 5, "insert")
	f.Add("a\nb\nc", 2, "delete")
	f.Add("héllo wörld", 1, "insert")

	f.Fuzz(func(t *testing.T, base string, rawOffset int, payload string) {
		if !utf8.ValidString(base) || !utf8.ValidString(payload) {
			return
		}
		r := FromString(base)
		if r.ByteLen() == 0 {
			return
		}

		offset := ByteOffset(((rawOffset % int(r.ByteLen())) + int(r.ByteLen())) % int(r.ByteLen()))
		for !r.isByteBoundary(offset) && offset > 0 {
			offset--
		}

		inserted, err := r.Insert(offset, payload)
		if err != nil {
			return
		}
		if !utf8.ValidString(inserted.String()) {
			t.Fatalf("insert produced invalid UTF-8")
		}

		restored, err := inserted.Delete(offset, offset+ByteOffset(len(payload)))
		if err != nil {
			t.Fatalf("delete of just-inserted text failed: %v", err)
		}
		if restored.String() != r.String() {
			t.Fatalf("round trip mismatch: got %q, want %q", restored.String(), r.String())
		}
	})
}

// FuzzPositionConversion checks spec.md §8's position-conversion law:
// char_to_byte(byte_to_char(x)) == x for any valid byte offset.
func FuzzPositionConversion(f *testing.F) {
	f.Add("hello world", 3)
	f.Add("a\U0001F600b", 2)

	f.Fuzz(func(t *testing.T, content string, rawOffset int) {
		if !utf8.ValidString(content) {
			return
		}
		r := FromString(content)
		if r.ByteLen() == 0 {
			return
		}
		offset := ByteOffset(((rawOffset % int(r.ByteLen()+1)) + int(r.ByteLen()+1)) % int(r.ByteLen()+1))
		for !r.isByteBoundary(offset) && offset > 0 {
			offset--
		}

		charIdx := r.ByteToChar(offset)
		if r.CharToByte(charIdx) != offset {
			t.Fatalf("char_to_byte(byte_to_char(%d)) = %d, want %d", offset, r.CharToByte(charIdx), offset)
		}
	})
}
