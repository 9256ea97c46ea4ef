package pace

import (
	"math"
	"strings"
	"testing"

	"interview-coach-go/internal/types"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestComputeRatings(t *testing.T) {
	tests := []struct {
		name    string
		seg     types.Segment
		wantWPM float64
		want    string
	}{
		{"good 150wpm", types.Segment{Start: 0, End: 60, Text: words(150)}, 150, Good},
		{"too fast 200wpm", types.Segment{Start: 0, End: 60, Text: words(200)}, 200, TooFast},
		{"too slow 60wpm", types.Segment{Start: 0, End: 60, Text: words(60)}, 60, TooSlow},
		{"boundary 160 is good", types.Segment{Start: 0, End: 60, Text: words(160)}, 160, Good},
		{"boundary 180 is slightly fast", types.Segment{Start: 0, End: 60, Text: words(180)}, 180, SlightlyFast},
		{"boundary 100 is good", types.Segment{Start: 0, End: 60, Text: words(100)}, 100, Good},
		{"boundary 80 is slightly slow", types.Segment{Start: 0, End: 60, Text: words(80)}, 80, SlightlySlow},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Compute([]types.Segment{tc.seg})
			if len(got) != 1 {
				t.Fatalf("expected 1 metric, got %d", len(got))
			}
			if math.Abs(got[0].PaceWPM-tc.wantWPM) > 0.001 {
				t.Fatalf("wpm = %v, want %v", got[0].PaceWPM, tc.wantWPM)
			}
			if got[0].PaceRating != tc.want {
				t.Fatalf("rating = %q, want %q", got[0].PaceRating, tc.want)
			}
			if got[0].PaceFeedback == "" {
				t.Fatal("feedback missing")
			}
		})
	}
}

func TestRateJustAboveGoodUpperBound(t *testing.T) {
	if got := Rate(160.01); got != SlightlyFast {
		t.Fatalf("Rate(160.01) = %q, want %q", got, SlightlyFast)
	}
	if got := Rate(160.0); got != Good {
		t.Fatalf("Rate(160.0) = %q, want %q", got, Good)
	}
}

func TestComputeFloorsBadTiming(t *testing.T) {
	// end before start must not divide by a negative duration
	got := Compute([]types.Segment{{Start: 5, End: 5, Text: "one two"}})
	if got[0].PaceWPM <= 0 {
		t.Fatalf("expected positive wpm, got %v", got[0].PaceWPM)
	}
	if got[0].PaceRating != TooFast {
		t.Fatalf("two words in 0.01s should rate too_fast, got %q", got[0].PaceRating)
	}
}

func TestComputeEmptyInput(t *testing.T) {
	if got := Compute(nil); len(got) != 0 {
		t.Fatalf("expected no metrics, got %v", got)
	}
}
