package llm

import (
	"context"
	"errors"
	"testing"

	"interview-coach-go/internal/config"
)

type fakeProvider struct {
	name      string
	available bool
	content   string
	err       error
	calls     int
}

func (f *fakeProvider) Name() string    { return f.name }
func (f *fakeProvider) Available() bool { return f.available }
func (f *fakeProvider) Chat(ctx context.Context, system, user string, wantJSON bool) (string, error) {
	f.calls++
	return f.content, f.err
}

func TestGatewayPrimaryWins(t *testing.T) {
	primary := &fakeProvider{name: "gemini", available: true, content: `{"ok": true}`}
	secondary := &fakeProvider{name: "ollama", available: true, content: "secondary"}
	gw := NewGatewayWith(config.ProviderAuto, primary, secondary)

	reply := gw.Chat(context.Background(), "sys", "user", true)
	if reply.Provider != "gemini" || reply.Content != `{"ok": true}` {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if secondary.calls != 0 {
		t.Fatal("secondary should not be called when primary answers")
	}
}

func TestGatewayFallsThroughOnError(t *testing.T) {
	primary := &fakeProvider{name: "gemini", available: true, err: errors.New("network down")}
	secondary := &fakeProvider{name: "ollama", available: true, content: "from ollama"}
	gw := NewGatewayWith(config.ProviderAuto, primary, secondary)

	reply := gw.Chat(context.Background(), "sys", "user", false)
	if reply.Provider != "ollama" || reply.Content != "from ollama" {
		t.Fatalf("unexpected reply: %+v", reply)
	}
}

func TestGatewayFallsThroughOnEmptyReply(t *testing.T) {
	primary := &fakeProvider{name: "gemini", available: true, content: ""}
	secondary := &fakeProvider{name: "ollama", available: true, content: "x"}
	gw := NewGatewayWith(config.ProviderAuto, primary, secondary)

	reply := gw.Chat(context.Background(), "", "user", false)
	if reply.Provider != "ollama" {
		t.Fatalf("empty primary reply should fall through, got %+v", reply)
	}
}

func TestGatewaySkipsUnavailablePrimary(t *testing.T) {
	primary := &fakeProvider{name: "gemini", available: false, content: "never"}
	secondary := &fakeProvider{name: "ollama", available: true, content: "x"}
	gw := NewGatewayWith(config.ProviderAuto, primary, secondary)

	reply := gw.Chat(context.Background(), "", "user", false)
	if reply.Provider != "ollama" {
		t.Fatalf("unavailable primary should be skipped, got %+v", reply)
	}
	if primary.calls != 0 {
		t.Fatal("unavailable provider must not be called")
	}
}

func TestGatewayAllFailReturnsNone(t *testing.T) {
	primary := &fakeProvider{name: "gemini", available: true, err: errors.New("down")}
	secondary := &fakeProvider{name: "ollama", available: true, err: errors.New("also down")}
	gw := NewGatewayWith(config.ProviderAuto, primary, secondary)

	reply := gw.Chat(context.Background(), "", "user", true)
	if reply.Provider != ProviderNone || reply.Content != "" {
		t.Fatalf("expected none reply, got %+v", reply)
	}
}

func TestGatewayModeGating(t *testing.T) {
	tests := []struct {
		mode         string
		wantProvider string
		wantGemini   int
		wantOllama   int
	}{
		{config.ProviderGemini, "gemini", 1, 0},
		{config.ProviderOllama, "ollama", 0, 1},
	}
	for _, tc := range tests {
		gemini := &fakeProvider{name: "gemini", available: true, content: "g"}
		ollama := &fakeProvider{name: "ollama", available: true, content: "o"}
		gw := NewGatewayWith(tc.mode, gemini, ollama)

		reply := gw.Chat(context.Background(), "", "user", false)
		if reply.Provider != tc.wantProvider {
			t.Fatalf("mode %s: got provider %s", tc.mode, reply.Provider)
		}
		if gemini.calls != tc.wantGemini || ollama.calls != tc.wantOllama {
			t.Fatalf("mode %s: calls gemini=%d ollama=%d", tc.mode, gemini.calls, ollama.calls)
		}
	}
}

func TestGatewayModeGatingExcludesOnlyCandidate(t *testing.T) {
	ollama := &fakeProvider{name: "ollama", available: true, content: "o"}
	gw := NewGatewayWith(config.ProviderGemini, ollama)

	reply := gw.Chat(context.Background(), "", "user", false)
	if reply.Provider != ProviderNone {
		t.Fatalf("expected none when mode excludes every provider, got %+v", reply)
	}
}
