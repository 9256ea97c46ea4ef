package pace

import (
	"strings"

	"interview-coach-go/internal/types"
)

// Speaking-rate ratings.
const (
	TooFast      = "too_fast"
	SlightlyFast = "slightly_fast"
	Good         = "good"
	SlightlySlow = "slightly_slow"
	TooSlow      = "too_slow"
)

// minDuration floors the divisor so malformed timing (end <= start) cannot
// blow up the rate computation.
const minDuration = 0.01

var feedback = map[string]string{
	TooFast:      "You're speaking very fast. Slow down so your key points have room to land.",
	SlightlyFast: "A touch fast. Brief pauses between points will make you easier to follow.",
	Good:         "Good pace. This range is easy for an interviewer to follow.",
	SlightlySlow: "A touch slow. Tightening your phrasing will add energy to the answer.",
	TooSlow:      "Quite slow. Pick up the pace to keep the interviewer engaged.",
}

// Rate classifies a words-per-minute value. Boundaries are inclusive on the
// good range: exactly 160 wpm is good, anything above is fast.
func Rate(wpm float64) string {
	switch {
	case wpm > 180:
		return TooFast
	case wpm > 160:
		return SlightlyFast
	case wpm >= 100:
		return Good
	case wpm >= 80:
		return SlightlySlow
	default:
		return TooSlow
	}
}

// Feedback returns the fixed coaching line for a rating.
func Feedback(rating string) string {
	return feedback[rating]
}

// Compute measures the speaking rate of each segment. Pure: no model call,
// output is positionally aligned with the input.
func Compute(segments []types.Segment) []types.PaceMetric {
	metrics := make([]types.PaceMetric, 0, len(segments))
	for _, s := range segments {
		dur := s.Duration()
		if dur < minDuration {
			dur = minDuration
		}
		words := len(strings.Fields(s.Text))
		wpm := float64(words) / dur * 60
		rating := Rate(wpm)
		metrics = append(metrics, types.PaceMetric{
			PaceWPM:      wpm,
			PaceRating:   rating,
			PaceFeedback: feedback[rating],
		})
	}
	return metrics
}
