package types

// Segment is one answer turn of transcribed speech. Produced by the
// transcription service (raw spans) and by the merger (turn-granularity
// segments). Treated as immutable once merged.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Duration returns the span length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// RubricItem is one verdict on a scored turn. Met is nil when the item could
// not be evaluated (degraded scoring), which is distinct from false.
type RubricItem struct {
	Met  *bool  `json:"met"`
	Note string `json:"note"`
}

// Turn is a scored segment. The rubric payload comes from the model and its
// inner shape is not validated here, so the whole turn is a loose map; only
// turn_index and text are authoritative (re-synchronized against the segment
// list, never trusted from the model).
type Turn map[string]any

// Index returns turn_index, tolerating the float64 that json decoding
// produces for numbers.
func (t Turn) Index() int {
	switch v := t["turn_index"].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return 0
}

func (t Turn) SetIndex(i int) { t["turn_index"] = i }

func (t Turn) Text() string {
	s, _ := t["text"].(string)
	return s
}

func (t Turn) SetText(s string) { t["text"] = s }

// Field returns the named field if it is a string, else "".
func (t Turn) Field(key string) string {
	s, _ := t[key].(string)
	return s
}

// RubricMet returns the met verdict of the named rubric item, or nil when
// the item is absent, malformed, or explicitly unevaluated.
func (t Turn) RubricMet(key string) *bool {
	switch v := t[key].(type) {
	case RubricItem:
		return v.Met
	case map[string]any:
		if met, ok := v["met"].(bool); ok {
			return &met
		}
	}
	return nil
}

// ScoreResult is the rubric outcome for a whole recording. Turns is ordered
// and positionally aligned with the merged segment list.
type ScoreResult struct {
	Turns          []Turn `json:"turns"`
	OverallSummary string `json:"overall_summary"`
}

// PaceMetric is the objective speaking-rate measurement for one segment.
type PaceMetric struct {
	PaceWPM      float64 `json:"pace_wpm"`
	PaceRating   string  `json:"pace_rating"`
	PaceFeedback string  `json:"pace_feedback"`
}

// RewriteResult holds the suggested better answers for one selected turn.
type RewriteResult struct {
	TurnIndex    int    `json:"turn_index"`
	Original     string `json:"original"`
	Tight45s     string `json:"tight_45s"`
	Expanded2Min string `json:"expanded_2min"`
}

// AnalysisResult is the full per-recording response assembled by the
// pipeline.
type AnalysisResult struct {
	Segments []Segment       `json:"segments"`
	Scores   ScoreResult     `json:"scores"`
	Rewrites []RewriteResult `json:"rewrites"`
}
