package scorer

import (
	"fmt"
	"strings"

	"interview-coach-go/internal/types"
)

const scoreSystem = `You are an expert interview coach. Score each answer turn using this rubric. Return ONLY valid JSON, no markdown or extra text.

Rubric per turn:
- direct_answer_10s: Did they answer the question directly in the first ~10 seconds? (true/false, note: string)
- specific_example: Did they give a specific example? (true/false, note: string)
- quantified_impact: Did they quantify impact (numbers, metrics)? (true/false, note: string)
- tradeoffs: Did they mention tradeoffs? (true/false, note: string)
- crisp_takeaway: Did they close with a crisp takeaway? (true/false, note: string)
- filler_count: Count of "um", "like", filler words
- long_pauses: Estimated long pauses (0-5 scale)
- trailing_sentences: Did they trail off or ramble? (true/false)
- question_type: One of: Behavioral, Product_sense, Technical, Estimation, Motivation, Why_this_job, Tell_me_about, Unknown
- actionable_feedback: 1-2 sentences on how to improve this answer as a job seeker (interview quality, not speech)`

const scoreSystemRoleAddendum = `
- relevance_to_role: Did the answer connect their experience to the target role? (true/false, note: string)

A job description is provided. Judge each answer against it and tailor actionable_feedback toward landing this specific role.`

const rewriteSystem = `You are an expert interview coach. Your job is to help job seekers give BETTER interview answers, not just reword. Suggest professional, wholesome alternatives that show enthusiasm, fit, and value. Avoid generic rephrasing. Return ONLY valid JSON, no markdown or extra text.`

// formatTurns renders segments as the "Turn N: text" lines used in both the
// scoring prompt and the rewrite transcript context.
func formatTurns(segments []types.Segment) string {
	lines := make([]string, 0, len(segments))
	for i, s := range segments {
		lines = append(lines, fmt.Sprintf("Turn %d: %s", i, s.Text))
	}
	return strings.Join(lines, "\n")
}

func buildScoreSystem(jobDescription string) string {
	if strings.TrimSpace(jobDescription) == "" {
		return scoreSystem
	}
	return scoreSystem + scoreSystemRoleAddendum
}

func buildScoreUser(segments []types.Segment, opts Options) string {
	var b strings.Builder
	b.WriteString("Score these interview answer turns. Each turn is a candidate's spoken response (interviewer questions not included).\n\n")
	if q := strings.TrimSpace(opts.QuestionText); q != "" {
		fmt.Fprintf(&b, "The question being answered:\n%s\n\n", q)
	}
	if jd := strings.TrimSpace(opts.JobDescription); jd != "" {
		fmt.Fprintf(&b, "Job description the candidate is targeting:\n%s\n\n", jd)
	}
	fmt.Fprintf(&b, "Turns:\n%s\n\n", formatTurns(segments))
	b.WriteString(`Return JSON in this exact shape:
{
  "turns": [
    {
      "turn_index": 0,
      "text": "...",
      "direct_answer_10s": { "met": true/false, "note": "..." },
      "specific_example": { "met": true/false, "note": "..." },
      "quantified_impact": { "met": true/false, "note": "..." },
      "tradeoffs": { "met": true/false, "note": "..." },
      "crisp_takeaway": { "met": true/false, "note": "..." },
      "filler_count": 0,
      "long_pauses": 0,
      "trailing_sentences": true/false,
      "question_type": "...",
      "actionable_feedback": "..."
    }
  ],
  "overall_summary": "2-3 sentences on overall performance"
}`)
	if strings.TrimSpace(opts.JobDescription) != "" {
		b.WriteString("\nInclude a \"relevance_to_role\" item of the same { \"met\", \"note\" } shape in every turn.")
	}
	return b.String()
}

func buildRewriteUser(transcript, text string, turnIndex int, questionType string) string {
	if strings.TrimSpace(transcript) == "" {
		transcript = "(single answer)"
	}
	return fmt.Sprintf(`Full interview transcript (candidate answers only):
%s

The answer to improve (turn %d):
%s

Inferred question type: %s

Provide a BETTER professional answer the job seeker could give. Not a reword, a genuinely stronger interview response. If the answer sounds desperate, negative, or unprofessional, suggest a wholesome alternative that shows enthusiasm and fit.

1. tight_45s: A ~45-second punchy version (direct, professional, confident)
2. expanded_2min: A ~2-minute version with more detail and structure

Return JSON:
{
  "tight_45s": "...",
  "expanded_2min": "..."
}`, transcript, turnIndex, text, questionType)
}
