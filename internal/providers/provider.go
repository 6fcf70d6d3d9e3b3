// internal/providers/provider.go

// Package providers defines the interface every model backend implements so
// the eval runner can send a clue to a model and read back its answer, with
// token usage, regardless of where the model is served.
package providers

import (
	"context"
	"strings"
	"time"

	"github.com/mwiater/cryptic/internal/appconfig"
)

// ChatMessage represents a single message in a chat conversation.
type ChatMessage struct {
	Role    string
	Content string
}

// Usage counts the tokens a request consumed.
type Usage struct {
	InputTokens     int `json:"input_tokens"`
	OutputTokens    int `json:"output_tokens"`
	TotalTokens     int `json:"total_tokens"`
	ReasoningTokens int `json:"reasoning_tokens"`
}

// Add accumulates other into u.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.TotalTokens
	u.ReasoningTokens += other.ReasoningTokens
}

// IsZero reports whether no tokens were recorded.
func (u Usage) IsZero() bool {
	return u.InputTokens == 0 && u.OutputTokens == 0 && u.TotalTokens == 0 && u.ReasoningTokens == 0
}

// StreamMetadata describes a finished request.
type StreamMetadata struct {
	Model     string
	CreatedAt time.Time
	Done      bool
	Duration  time.Duration
	Usage     Usage
}

// StreamRequest encapsulates all the information needed to send one request.
type StreamRequest struct {
	Host             appconfig.Host
	Model            string
	History          []ChatMessage
	SystemPrompt     string
	Parameters       appconfig.Parameters
	JSONMode         bool
	DisableStreaming bool
}

// StreamCallbacks defines the callback functions that are invoked during a chat stream.
// OnChunk is called for each message chunk received, and OnComplete is called when the stream is finished.
type StreamCallbacks struct {
	OnChunk    func(ChatMessage) error
	OnComplete func(StreamMetadata) error
}

// ChatProvider is the interface that all model providers must implement.
type ChatProvider interface {
	// EnsureModelReady checks if a model is ready to be used and loads it if necessary.
	EnsureModelReady(ctx context.Context, host appconfig.Host, model string) error
	// Stream sends the request and reports output through callbacks.
	Stream(ctx context.Context, req StreamRequest, callbacks StreamCallbacks) error
	// Close cleans up any resources used by the provider.
	Close() error
}

// Complete runs req to completion and returns the concatenated output.
func Complete(ctx context.Context, p ChatProvider, req StreamRequest) (string, StreamMetadata, error) {
	var out strings.Builder
	var meta StreamMetadata
	err := p.Stream(ctx, req, StreamCallbacks{
		OnChunk: func(msg ChatMessage) error {
			out.WriteString(msg.Content)
			return nil
		},
		OnComplete: func(m StreamMetadata) error {
			meta = m
			return nil
		},
	})
	if err != nil {
		return "", StreamMetadata{}, err
	}
	return out.String(), meta, nil
}

// HostIdentifier returns a name for logging, preferring the host name over its URL.
func HostIdentifier(host appconfig.Host) string {
	if name := strings.TrimSpace(host.Name); name != "" {
		return name
	}
	if url := strings.TrimSpace(host.URL); url != "" {
		return url
	}
	return "unknown-host"
}
