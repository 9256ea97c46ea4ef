package scorer

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"interview-coach-go/internal/llm"
	"interview-coach-go/internal/logger"
	"interview-coach-go/internal/types"
)

// NoSpeechSummary is returned without any model call when the segment list
// carries no usable text.
const NoSpeechSummary = "No speech detected in the recording."

const (
	degradedFeedback = "Could not score this answer. Set GEMINI_API_KEY or start the local model service (ollama serve) and retry."
	degradedSummary  = "Scoring unavailable. Set GEMINI_API_KEY or start Ollama (ollama serve) to enable rubric feedback."
)

// rubricKeys are the verdict items every turn carries; relevance_to_role is
// added on top when a job description is in play.
var rubricKeys = []string{
	"direct_answer_10s",
	"specific_example",
	"quantified_impact",
	"tradeoffs",
	"crisp_takeaway",
}

// Gateway is the slice of the LLM gateway the orchestrators need.
type Gateway interface {
	Chat(ctx context.Context, system, user string, wantJSON bool) llm.Reply
}

// Options carries the optional interview context for scoring. A non-empty
// JobDescription adds the relevance_to_role rubric item.
type Options struct {
	QuestionText   string
	JobDescription string
}

// Scorer grades answer turns against the rubric and proposes rewrites for
// the weakest ones. Model flakiness never escapes it: every failure path
// degrades to a well-formed result.
type Scorer struct {
	gw  Gateway
	log *logrus.Entry
}

func New(gw Gateway) *Scorer {
	return &Scorer{gw: gw, log: logger.Component("scorer")}
}

// ScoreTurns grades the merged segments. The returned turn list is always
// positionally zippable with segments: on success the model's turn_index and
// text are overwritten from the segment list, and on any failure a degraded
// turn is emitted per segment with every verdict explicitly unevaluated.
func (s *Scorer) ScoreTurns(ctx context.Context, segments []types.Segment, opts Options) types.ScoreResult {
	if allBlank(segments) {
		return types.ScoreResult{Turns: []types.Turn{}, OverallSummary: NoSpeechSummary}
	}

	withRole := strings.TrimSpace(opts.JobDescription) != ""

	reply := s.gw.Chat(ctx, buildScoreSystem(opts.JobDescription), buildScoreUser(segments, opts), true)
	if reply.Provider == llm.ProviderNone {
		s.log.Warn("no provider answered, returning degraded scores")
		return s.fallback(segments, withRole)
	}

	parsed, ok := llm.ExtractObject(reply.Content)
	if !ok {
		s.log.WithFields(logrus.Fields{
			"provider":   reply.Provider,
			"reply_size": len(reply.Content),
		}).Warn("no JSON object in scoring reply, returning degraded scores")
		return s.fallback(segments, withRole)
	}
	rawTurns, ok := parsed["turns"].([]any)
	if !ok {
		s.log.WithField("provider", reply.Provider).Warn("scoring reply lacks a turns list, returning degraded scores")
		return s.fallback(segments, withRole)
	}

	turns := make([]types.Turn, 0, len(segments))
	for i, raw := range rawTurns {
		if i >= len(segments) {
			break
		}
		m, _ := raw.(map[string]any)
		if m == nil {
			m = map[string]any{}
		}
		t := types.Turn(m)
		// positional identity is authoritative; the model's echo is not
		t.SetIndex(i)
		t.SetText(segments[i].Text)
		if withRole {
			if _, present := t["relevance_to_role"]; !present {
				t["relevance_to_role"] = types.RubricItem{}
			}
		}
		turns = append(turns, t)
	}

	summary, _ := parsed["overall_summary"].(string)
	s.log.WithFields(logrus.Fields{
		"provider": reply.Provider,
		"turns":    len(turns),
	}).Info("scored turns")
	return types.ScoreResult{Turns: turns, OverallSummary: summary}
}

// Fallback builds the degraded structure: one turn per segment, every
// rubric verdict nil (unevaluated), with guidance on restoring scoring.
func (s *Scorer) Fallback(segments []types.Segment, opts Options) types.ScoreResult {
	return s.fallback(segments, strings.TrimSpace(opts.JobDescription) != "")
}

func (s *Scorer) fallback(segments []types.Segment, withRole bool) types.ScoreResult {
	turns := make([]types.Turn, 0, len(segments))
	for i, seg := range segments {
		t := types.Turn{
			"turn_index":          i,
			"text":                seg.Text,
			"filler_count":        0,
			"long_pauses":         0,
			"trailing_sentences":  false,
			"question_type":       "Unknown",
			"actionable_feedback": degradedFeedback,
		}
		for _, key := range rubricKeys {
			t[key] = types.RubricItem{}
		}
		if withRole {
			t["relevance_to_role"] = types.RubricItem{}
		}
		turns = append(turns, t)
	}
	return types.ScoreResult{Turns: turns, OverallSummary: degradedSummary}
}

func allBlank(segments []types.Segment) bool {
	for _, s := range segments {
		if strings.TrimSpace(s.Text) != "" {
			return false
		}
	}
	return true
}
