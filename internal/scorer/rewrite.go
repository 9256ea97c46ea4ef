package scorer

import (
	"context"
	"strings"

	"interview-coach-go/internal/llm"
	"interview-coach-go/internal/types"
)

// maxRewrites caps how many turns get rewritten per request.
const maxRewrites = 2

// strongKeys are the rubric items that decide whether an answer needs a
// rewrite at all.
var strongKeys = []string{
	"direct_answer_10s",
	"specific_example",
	"quantified_impact",
	"crisp_takeaway",
}

// isStrong reports whether at least 3 of the 4 key rubric items were met.
// Unevaluated (nil) verdicts count as not met, so degraded turns are never
// considered strong.
func isStrong(t types.Turn) bool {
	met := 0
	for _, key := range strongKeys {
		if v := t.RubricMet(key); v != nil && *v {
			met++
		}
	}
	return met >= 3
}

// selectForRewrite picks the first maxRewrites non-strong turns in turn
// order; when every turn is strong it falls back to the first turns overall
// so a polished interview still gets illustrative rewrites.
func selectForRewrite(turns []types.Turn) []types.Turn {
	var weak []types.Turn
	for _, t := range turns {
		if !isStrong(t) {
			weak = append(weak, t)
			if len(weak) == maxRewrites {
				break
			}
		}
	}
	if len(weak) > 0 {
		return weak
	}
	if len(turns) > maxRewrites {
		return turns[:maxRewrites]
	}
	return turns
}

// Rewrites proposes stronger answers for the weakest turns. Each selected
// turn is rewritten independently; a failed model call degrades that turn
// to an empty-string pair and never aborts the rest of the batch.
func (s *Scorer) Rewrites(ctx context.Context, scores types.ScoreResult, segments []types.Segment) []types.RewriteResult {
	transcript := formatTurns(segments)

	results := make([]types.RewriteResult, 0, maxRewrites)
	for _, t := range selectForRewrite(scores.Turns) {
		r := types.RewriteResult{TurnIndex: t.Index(), Original: t.Text()}
		tight, expanded := s.rewriteOne(ctx, transcript, t)
		r.Tight45s, r.Expanded2Min = tight, expanded
		results = append(results, r)
	}
	return results
}

func (s *Scorer) rewriteOne(ctx context.Context, transcript string, t types.Turn) (string, string) {
	text := t.Text()
	if strings.TrimSpace(text) == "" {
		return "", ""
	}

	questionType := t.Field("question_type")
	if questionType == "" {
		questionType = "Unknown"
	}
	user := buildRewriteUser(transcript, text, t.Index(), questionType)

	reply := s.gw.Chat(ctx, rewriteSystem, user, true)
	if reply.Provider == llm.ProviderNone {
		s.log.WithField("turn_index", t.Index()).Warn("rewrite skipped, no provider answered")
		return "", ""
	}
	parsed, ok := llm.ExtractObject(reply.Content)
	if !ok {
		s.log.WithField("turn_index", t.Index()).Warn("rewrite reply had no JSON object")
		return "", ""
	}
	tight, _ := parsed["tight_45s"].(string)
	expanded, _ := parsed["expanded_2min"].(string)
	return tight, expanded
}
