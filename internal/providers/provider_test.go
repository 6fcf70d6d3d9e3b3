package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/mwiater/cryptic/internal/appconfig"
)

type scriptedProvider struct {
	chunks []string
	meta   StreamMetadata
	err    error
}

func (p scriptedProvider) EnsureModelReady(context.Context, appconfig.Host, string) error {
	return nil
}

func (p scriptedProvider) Stream(_ context.Context, _ StreamRequest, cb StreamCallbacks) error {
	if p.err != nil {
		return p.err
	}
	for _, c := range p.chunks {
		if err := cb.OnChunk(ChatMessage{Role: "assistant", Content: c}); err != nil {
			return err
		}
	}
	return cb.OnComplete(p.meta)
}

func (p scriptedProvider) Close() error { return nil }

func TestComplete(t *testing.T) {
	p := scriptedProvider{
		chunks: []string{"RARE", "BITS"},
		meta:   StreamMetadata{Model: "m", Done: true, Usage: Usage{InputTokens: 10, OutputTokens: 2, TotalTokens: 12}},
	}
	text, meta, err := Complete(context.Background(), p, StreamRequest{})
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if text != "RAREBITS" {
		t.Fatalf("unexpected text %q", text)
	}
	if meta.Usage.TotalTokens != 12 || !meta.Done {
		t.Fatalf("unexpected metadata %+v", meta)
	}

	boom := errors.New("boom")
	if _, _, err := Complete(context.Background(), scriptedProvider{err: boom}, StreamRequest{}); !errors.Is(err, boom) {
		t.Fatalf("expected stream error, got %v", err)
	}
}

func TestUsageAdd(t *testing.T) {
	var total Usage
	if !total.IsZero() {
		t.Fatal("new usage should be zero")
	}
	total.Add(Usage{InputTokens: 1, OutputTokens: 2, TotalTokens: 3, ReasoningTokens: 4})
	total.Add(Usage{InputTokens: 1, OutputTokens: 2, TotalTokens: 3})
	if total != (Usage{InputTokens: 2, OutputTokens: 4, TotalTokens: 6, ReasoningTokens: 4}) {
		t.Fatalf("unexpected total %+v", total)
	}
}

func TestHostIdentifier(t *testing.T) {
	if got := HostIdentifier(appconfig.Host{Name: " local ", URL: "http://x"}); got != "local" {
		t.Fatalf("got %q", got)
	}
	if got := HostIdentifier(appconfig.Host{URL: "http://x"}); got != "http://x" {
		t.Fatalf("got %q", got)
	}
	if got := HostIdentifier(appconfig.Host{}); got != "unknown-host" {
		t.Fatalf("got %q", got)
	}
}
