// internal/providers/mockllm/provider.go

// Package mockllm provides an offline ChatProvider for dry runs and tests.
// It never contacts a network and answers every request with a fixed
// completion unless a Responder is supplied.
package mockllm

import (
	"context"
	"strings"
	"time"

	"github.com/mwiater/cryptic/internal/appconfig"
	"github.com/mwiater/cryptic/internal/providers"
)

// DefaultOutput is the completion returned when no Responder is set.
const DefaultOutput = "Default output from mockllm/model"

// Responder computes the completion for a request.
type Responder func(req providers.StreamRequest) string

// Provider implements providers.ChatProvider without a backend.
type Provider struct {
	Respond Responder
}

// New returns a Provider that answers with DefaultOutput.
func New() *Provider {
	return &Provider{}
}

// EnsureModelReady always succeeds.
func (p *Provider) EnsureModelReady(context.Context, appconfig.Host, string) error {
	return nil
}

// Stream answers req in a single chunk. Token counts are whitespace words.
func (p *Provider) Stream(ctx context.Context, req providers.StreamRequest, callbacks providers.StreamCallbacks) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	started := time.Now()
	out := DefaultOutput
	if p.Respond != nil {
		out = p.Respond(req)
	}

	if callbacks.OnChunk != nil && out != "" {
		if err := callbacks.OnChunk(providers.ChatMessage{Role: "assistant", Content: out}); err != nil {
			return err
		}
	}
	if callbacks.OnComplete == nil {
		return nil
	}

	in := len(strings.Fields(req.SystemPrompt))
	for _, msg := range req.History {
		in += len(strings.Fields(msg.Content))
	}
	outTokens := len(strings.Fields(out))
	return callbacks.OnComplete(providers.StreamMetadata{
		Model:     req.Model,
		CreatedAt: time.Now(),
		Done:      true,
		Duration:  time.Since(started),
		Usage:     providers.Usage{InputTokens: in, OutputTokens: outTokens, TotalTokens: in + outTokens},
	})
}

// Close releases any resources held by the provider.
func (p *Provider) Close() error { return nil }
