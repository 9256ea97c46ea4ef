package questions

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"interview-coach-go/internal/llm"
	"interview-coach-go/internal/logger"
)

// Defaults is the built-in practice question bank, used when no custom bank
// is configured and as the fallback whenever adaptation fails.
var Defaults = []string{
	"Tell me about yourself",
	"Why do you want this job?",
	"Why are you leaving your current role?",
	"Tell me about a challenge you overcame",
	"Describe a time you disagreed with a teammate",
	"What are your strengths and weaknesses?",
	"Where do you see yourself in 5 years?",
	"Do you have any questions for us?",
	"What's your biggest professional accomplishment?",
	"How do you handle failure or setbacks?",
}

const (
	// how many bank questions lead the merged list, and how many tailored
	// ones the model may append
	commonCount   = 7
	tailoredCount = 5
)

const adaptSystem = `You are an expert interview coach. Given a job description, generate 3-5 role-specific interview questions that hiring managers would ask for this role.

Return ONLY valid JSON with a "questions" array of strings. No markdown or extra text.
Example: {"questions": ["How have you designed APIs at scale?", "Describe your experience with distributed systems."]}`

// Gateway is the slice of the LLM gateway question adaptation needs.
type Gateway interface {
	Chat(ctx context.Context, system, user string, wantJSON bool) llm.Reply
}

// Service serves the question bank and tailors it to a job description.
type Service struct {
	gw   Gateway
	bank []string
	log  *logrus.Entry
}

// NewService builds a question service over the given bank; a nil or empty
// bank falls back to Defaults.
func NewService(gw Gateway, bank []string) *Service {
	if len(bank) == 0 {
		bank = Defaults
	}
	return &Service{gw: gw, bank: bank, log: logger.Component("questions")}
}

// Bank returns a copy of the full question bank.
func (s *Service) Bank() []string {
	out := make([]string, len(s.bank))
	copy(out, s.bank)
	return out
}

// Adapt merges the leading bank questions with up to five role-specific ones
// generated from the job description. Any failure, including a blank job
// description, yields the plain bank.
func (s *Service) Adapt(ctx context.Context, jobDescription string) []string {
	jd := strings.TrimSpace(jobDescription)
	if jd == "" {
		return s.Bank()
	}

	user := fmt.Sprintf(`Job description:
%s

Generate 3-5 role-specific interview questions. Return JSON:
{"questions": ["question1", "question2", ...]}`, jd)

	reply := s.gw.Chat(ctx, adaptSystem, user, true)
	if reply.Provider == llm.ProviderNone {
		s.log.Warn("no provider answered, returning default questions")
		return s.Bank()
	}
	parsed, ok := llm.ExtractObject(reply.Content)
	if !ok {
		s.log.WithField("provider", reply.Provider).Warn("no JSON object in adaptation reply")
		return s.Bank()
	}
	raw, ok := parsed["questions"].([]any)
	if !ok {
		return s.Bank()
	}

	tailored := make([]string, 0, len(raw))
	for _, q := range raw {
		if text, ok := q.(string); ok && strings.TrimSpace(text) != "" {
			tailored = append(tailored, text)
		}
	}
	if len(tailored) == 0 {
		return s.Bank()
	}
	if len(tailored) > tailoredCount {
		tailored = tailored[:tailoredCount]
	}

	common := s.bank
	if len(common) > commonCount {
		common = common[:commonCount]
	}
	merged := make([]string, 0, len(common)+len(tailored))
	merged = append(merged, common...)
	merged = append(merged, tailored...)
	s.log.WithFields(logrus.Fields{
		"provider": reply.Provider,
		"tailored": len(tailored),
	}).Info("adapted questions")
	return merged
}
