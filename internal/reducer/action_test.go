package reducer

import "testing"

func TestArgHelpersDefaultOnMissingOrWrongType(t *testing.T) {
	args := map[string]any{
		"direction": DirUp,
		"by":        ByWord,
		"text":      "hello",
		"id":        42,
		"wrongType": "not-a-direction",
	}

	if got := argDirection(args, "direction"); got != DirUp {
		t.Errorf("argDirection = %v, want DirUp", got)
	}
	if got := argDirection(args, "missing"); got != DirRight {
		t.Errorf("argDirection missing key = %v, want DirRight default", got)
	}
	if got := argDirection(args, "wrongType"); got != DirRight {
		t.Errorf("argDirection wrong type = %v, want DirRight default", got)
	}

	if got := argGranularity(args, "by"); got != ByWord {
		t.Errorf("argGranularity = %v, want ByWord", got)
	}
	if got := argGranularity(args, "missing"); got != ByGrapheme {
		t.Errorf("argGranularity missing key = %v, want ByGrapheme default", got)
	}

	if got := argString(args, "text"); got != "hello" {
		t.Errorf("argString = %q, want hello", got)
	}
	if got := argString(args, "missing"); got != "" {
		t.Errorf("argString missing key = %q, want empty", got)
	}

	if got := argInt(args, "id"); got != 42 {
		t.Errorf("argInt = %d, want 42", got)
	}
	if got := argInt(args, "missing"); got != 0 {
		t.Errorf("argInt missing key = %d, want 0", got)
	}
}
