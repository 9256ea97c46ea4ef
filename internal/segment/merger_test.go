package segment

import (
	"reflect"
	"strings"
	"testing"

	"interview-coach-go/internal/types"
)

func TestMergeEmpty(t *testing.T) {
	if got := Merge(nil); len(got) != 0 {
		t.Fatalf("expected empty output, got %v", got)
	}
	if got := Merge([]types.Segment{}); len(got) != 0 {
		t.Fatalf("expected empty output, got %v", got)
	}
}

func TestMergeIdentityWhenAllLong(t *testing.T) {
	spans := []types.Segment{
		{Start: 0, End: 3, Text: "first answer"},
		{Start: 3, End: 6.5, Text: "second answer"},
		{Start: 7, End: 9.2, Text: "third answer"},
	}
	got := Merge(spans)
	if !reflect.DeepEqual(got, spans) {
		t.Fatalf("long spans should pass through unchanged:\ngot  %v\nwant %v", got, spans)
	}
}

func TestMergeShortSpansFoldBackward(t *testing.T) {
	spans := []types.Segment{
		{Start: 0, End: 1, Text: "um"},
		{Start: 1, End: 3.5, Text: "I led the project"},
		{Start: 3.5, End: 4.3, Text: "yes"},
	}
	got := Merge(spans)
	want := []types.Segment{
		// the first span always opens a segment; the 2.5s span is long
		// enough to stand alone, so the trailing 0.8s span folds into it
		{Start: 0, End: 1, Text: "um"},
		{Start: 1, End: 4.3, Text: "I led the project yes"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("merge mismatch:\ngot  %v\nwant %v", got, want)
	}
}

func TestMergeFirstSpanAlwaysEmitted(t *testing.T) {
	spans := []types.Segment{
		{Start: 0, End: 0.5, Text: "hi"},
		{Start: 0.5, End: 1.2, Text: "there"},
	}
	got := Merge(spans)
	if len(got) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(got))
	}
	if got[0].Text != "hi there" || got[0].Start != 0 || got[0].End != 1.2 {
		t.Fatalf("unexpected merged segment: %v", got[0])
	}
}

func TestMergePreservesOrderAndText(t *testing.T) {
	spans := []types.Segment{
		{Start: 0, End: 2.5, Text: "alpha"},
		{Start: 2.5, End: 3.0, Text: "beta"},
		{Start: 3.0, End: 3.4, Text: "gamma"},
		{Start: 3.4, End: 6.0, Text: "delta"},
		{Start: 6.0, End: 6.9, Text: "epsilon"},
	}
	got := Merge(spans)

	prev := -1.0
	for _, seg := range got {
		if seg.Start < prev {
			t.Fatalf("segments out of order: %v", got)
		}
		prev = seg.Start
	}

	var joined []string
	for _, seg := range got {
		joined = append(joined, seg.Text)
	}
	all := strings.Join(joined, " ")
	if all != "alpha beta gamma delta epsilon" {
		t.Fatalf("text lost or reordered: %q", all)
	}
}
