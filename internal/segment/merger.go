package segment

import (
	"interview-coach-go/internal/types"
)

// ShortSpanThreshold is the duration below which a raw span is folded into
// the previous segment. Voice-activity detection splits speech on
// micro-pauses; folding sub-threshold spans backward keeps one answer from
// fragmenting into several turns.
const ShortSpanThreshold = 2.0 // seconds

// Merge folds short raw spans into their predecessor and returns
// turn-granularity segments. The first span always starts a segment (there
// is no predecessor to merge into); a later span starts a new segment only
// when its own duration reaches the threshold. Appending joins text with a
// single space and extends the accumulator's end.
func Merge(spans []types.Segment) []types.Segment {
	if len(spans) == 0 {
		return nil
	}
	merged := make([]types.Segment, 0, len(spans))
	for _, s := range spans {
		if len(merged) > 0 && s.Duration() < ShortSpanThreshold {
			last := &merged[len(merged)-1]
			last.Text += " " + s.Text
			last.End = s.End
			continue
		}
		merged = append(merged, s)
	}
	return merged
}
