package llm

import (
	"context"

	"github.com/sirupsen/logrus"

	"interview-coach-go/internal/config"
	"interview-coach-go/internal/logger"
)

// ProviderNone tags a reply when every provider failed or was skipped.
const ProviderNone = "none"

// Reply is the transient result of one gateway call. Provider names which
// backend answered, or "none".
type Reply struct {
	Content  string
	Provider string
}

// Provider is one model backend. Chat returns the raw reply text; the text
// is often, but not reliably, valid JSON even when wantJSON is set.
// Available reports whether the backend is worth trying at all (credential
// present); call-time failures are surfaced as errors.
type Provider interface {
	Name() string
	Available() bool
	Chat(ctx context.Context, system, user string, wantJSON bool) (string, error)
}

// Gateway tries providers in a fixed precedence order and falls through
// silently on any failure. A provider being unreachable is an expected
// condition, logged and absorbed; callers only ever see the reply tag.
type Gateway struct {
	providers []Provider
	mode      string
	log       *logrus.Entry
}

// NewGateway builds the production chain: Gemini first, Ollama second,
// gated by the configured provider mode.
func NewGateway(cfg config.LLM) *Gateway {
	return NewGatewayWith(cfg.Provider, NewGemini(cfg), NewOllama(cfg))
}

// NewGatewayWith assembles a gateway over an explicit provider chain, in
// precedence order. Mode "auto" allows every provider; any other mode allows
// only the provider of that name.
func NewGatewayWith(mode string, providers ...Provider) *Gateway {
	return &Gateway{
		providers: providers,
		mode:      mode,
		log:       logger.Component("llm.gateway"),
	}
}

func (g *Gateway) allows(name string) bool {
	return g.mode == config.ProviderAuto || g.mode == name
}

// Chat sends the same system/user content to each allowed provider in order
// and returns the first non-empty reply. If every provider fails the reply
// is ("", "none"); that is not an error.
func (g *Gateway) Chat(ctx context.Context, system, user string, wantJSON bool) Reply {
	for _, p := range g.providers {
		if !g.allows(p.Name()) || !p.Available() {
			continue
		}
		content, err := p.Chat(ctx, system, user, wantJSON)
		if err != nil {
			g.log.WithError(err).WithField("provider", p.Name()).Warn("provider failed, falling through")
			continue
		}
		if content == "" {
			g.log.WithField("provider", p.Name()).Warn("provider returned empty reply, falling through")
			continue
		}
		return Reply{Content: content, Provider: p.Name()}
	}
	return Reply{Provider: ProviderNone}
}
