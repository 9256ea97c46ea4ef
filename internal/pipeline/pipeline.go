package pipeline

import (
	"context"

	"github.com/sirupsen/logrus"

	"interview-coach-go/internal/logger"
	"interview-coach-go/internal/pace"
	"interview-coach-go/internal/scorer"
	"interview-coach-go/internal/segment"
	"interview-coach-go/internal/transcription"
	"interview-coach-go/internal/types"
)

// Options controls one analysis run.
type Options struct {
	IncludeRewrites bool
	QuestionText    string
	JobDescription  string
}

// Pipeline sequences transcription, merging, scoring, pace annotation, and
// rewrites for one recording. It fails only on undecodable input or an
// upstream transcription fault; an unreachable model backend degrades the
// scores instead.
type Pipeline struct {
	transcriber transcription.Transcriber
	scorer      *scorer.Scorer
	log         *logrus.Entry
}

func New(tr transcription.Transcriber, sc *scorer.Scorer) *Pipeline {
	return &Pipeline{transcriber: tr, scorer: sc, log: logger.Component("pipeline")}
}

// Analyze runs the full pipeline over one uploaded recording.
func (p *Pipeline) Analyze(ctx context.Context, audio []byte, suffix string, opts Options) (types.AnalysisResult, error) {
	spans, err := p.transcriber.Transcribe(ctx, audio, suffix)
	if err != nil {
		return types.AnalysisResult{}, err
	}
	if len(spans) == 0 {
		return types.AnalysisResult{
			Segments: []types.Segment{},
			Scores:   types.ScoreResult{Turns: []types.Turn{}, OverallSummary: scorer.NoSpeechSummary},
			Rewrites: []types.RewriteResult{},
		}, nil
	}

	merged := segment.Merge(spans)
	p.log.WithFields(logrus.Fields{
		"raw_spans": len(spans),
		"segments":  len(merged),
	}).Info("segments merged")

	scoreOpts := scorer.Options{QuestionText: opts.QuestionText, JobDescription: opts.JobDescription}
	scores := p.score(ctx, merged, scoreOpts)

	// pace metrics join positionally; a shorter turn list gets its prefix
	metrics := pace.Compute(merged)
	for i, turn := range scores.Turns {
		if i >= len(metrics) {
			break
		}
		turn["pace_wpm"] = metrics[i].PaceWPM
		turn["pace_rating"] = metrics[i].PaceRating
		turn["pace_feedback"] = metrics[i].PaceFeedback
	}

	rewrites := []types.RewriteResult{}
	if opts.IncludeRewrites && len(scores.Turns) > 0 {
		rewrites = p.scorer.Rewrites(ctx, scores, merged)
	}

	return types.AnalysisResult{Segments: merged, Scores: scores, Rewrites: rewrites}, nil
}

// score shields the pipeline from anything escaping the scoring path; a
// panic there degrades to the fallback structure instead of failing the
// request.
func (p *Pipeline) score(ctx context.Context, segments []types.Segment, opts scorer.Options) (result types.ScoreResult) {
	defer func() {
		if r := recover(); r != nil {
			p.log.WithField("panic", r).Error("scoring panicked, degrading")
			result = p.scorer.Fallback(segments, opts)
		}
	}()
	return p.scorer.ScoreTurns(ctx, segments, opts)
}

// ComputePace exposes the per-segment pace metrics on their own, without a
// model call.
func ComputePace(segments []types.Segment) []types.PaceMetric {
	return pace.Compute(segments)
}
