package historyfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zcode-editor/zcode/internal/history"
	"github.com/zcode-editor/zcode/internal/rope"
)

func TestAppendAndRecoverRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "buf.log")

	log, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	recs := []Record{
		{Seq: 1, Op: history.Insert(0, "hello"), CursorAfter: rope.Point{Line: 0, Column: 5}},
		{Seq: 2, Op: history.Insert(5, " world"), CursorAfter: rope.Point{Line: 0, Column: 11}},
	}
	for _, r := range recs {
		if err := log.Append(r); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if err := log.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := Recover(path)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recover returned %d records, want 2", len(got))
	}
	if got[0].Op.Text != "hello" || got[1].Op.Text != " world" {
		t.Errorf("got = %+v", got)
	}
	if got[1].CursorAfter.Column != 11 {
		t.Errorf("CursorAfter.Column = %d, want 11", got[1].CursorAfter.Column)
	}
}

func TestRecoverMissingFileReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	got, err := Recover(filepath.Join(dir, "absent.log"))
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if got != nil {
		t.Errorf("got = %+v, want nil", got)
	}
}

func TestRecoverDropsDanglingUnterminatedRecord(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "buf.log")

	log, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := log.Append(Record{Seq: 1, Op: history.Insert(0, "a")}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Simulate a crash mid-write: append a truncated JSON fragment with
	// no matching HEAD marker.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		t.Fatalf("open for append: %v", err)
	}
	if _, err := f.WriteString(`{"seq":2,"op":{"Kind":0,"Offset":1,"Text":"bro`); err != nil {
		t.Fatalf("write fragment: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, err := Recover(path)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Recover returned %d records, want 1 (dangling record dropped)", len(got))
	}
}

func TestTruncateClearsLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "buf.log")

	log, err := Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := log.Append(Record{Seq: 1, Op: history.Insert(0, "x")}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := log.Truncate(); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	if err := log.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := Recover(path)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got = %+v, want empty after truncate", got)
	}
}

func TestRemoveIsIdempotentOnMissingFile(t *testing.T) {
	dir := t.TempDir()
	if err := Remove(filepath.Join(dir, "absent.log")); err != nil {
		t.Errorf("Remove on missing file: %v", err)
	}
}
