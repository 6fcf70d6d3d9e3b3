// internal/providers/gemini/provider.go

// Package gemini provides a ChatProvider backed by Google's genai SDK, and
// the client constructor shared with the vision extractor.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/mwiater/cryptic/internal/appconfig"
	"github.com/mwiater/cryptic/internal/logging"
	"github.com/mwiater/cryptic/internal/providers"
)

// Provider implements providers.ChatProvider on the genai Models service.
// One client is created per host on first use.
type Provider struct {
	timeout   time.Duration
	newClient func(ctx context.Context, host appconfig.Host) (Generator, error)

	mu      sync.Mutex
	clients map[string]Generator
}

// New constructs a Provider configured with the application's request timeout.
func New(cfg *appconfig.Config) *Provider {
	return &Provider{
		timeout: cfg.RequestTimeout(),
		newClient: func(ctx context.Context, host appconfig.Host) (Generator, error) {
			return NewClient(ctx, ClientOptions{APIKey: host.APIKey()})
		},
		clients: make(map[string]Generator),
	}
}

// NewWithGenerator returns a Provider that sends every request to g.
func NewWithGenerator(cfg *appconfig.Config, g Generator) *Provider {
	p := New(cfg)
	p.newClient = func(context.Context, appconfig.Host) (Generator, error) { return g, nil }
	return p
}

// EnsureModelReady creates the host's client; genai models need no loading.
func (p *Provider) EnsureModelReady(ctx context.Context, host appconfig.Host, model string) error {
	_, err := p.client(ctx, host)
	return err
}

func (p *Provider) client(ctx context.Context, host appconfig.Host) (Generator, error) {
	key := providers.HostIdentifier(host)
	p.mu.Lock()
	defer p.mu.Unlock()
	if c, ok := p.clients[key]; ok {
		return c, nil
	}
	c, err := p.newClient(ctx, host)
	if err != nil {
		return nil, err
	}
	p.clients[key] = c
	return c, nil
}

// Stream sends the conversation in one GenerateContent call and reports
// the reply as a single chunk.
func (p *Provider) Stream(ctx context.Context, req providers.StreamRequest, callbacks providers.StreamCallbacks) error {
	client, err := p.client(ctx, req.Host)
	if err != nil {
		return err
	}

	contents := toContents(req.History)
	if len(contents) == 0 {
		return errors.New("gemini: request has no messages")
	}
	config := generateConfig(req)

	logging.LogRequest("CRYPTIC->LLM", providers.HostIdentifier(req.Host), req.Model, map[string]any{
		"system":   req.SystemPrompt,
		"messages": req.History,
	})

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	started := time.Now()
	resp, err := client.GenerateContent(ctx, req.Model, contents, config)
	if err != nil {
		return fmt.Errorf("gemini generate: %w", err)
	}
	text := resp.Text()
	logging.LogRequest("LLM->CRYPTIC", providers.HostIdentifier(req.Host), req.Model, text)

	if callbacks.OnChunk != nil && text != "" {
		if err := callbacks.OnChunk(providers.ChatMessage{Role: "assistant", Content: text}); err != nil {
			return err
		}
	}
	if callbacks.OnComplete == nil {
		return nil
	}
	model := resp.ModelVersion
	if model == "" {
		model = req.Model
	}
	return callbacks.OnComplete(providers.StreamMetadata{
		Model:     model,
		CreatedAt: time.Now(),
		Done:      true,
		Duration:  time.Since(started),
		Usage:     usage(resp.UsageMetadata),
	})
}

// Close releases any resources held by the provider.
func (p *Provider) Close() error {
	p.mu.Lock()
	p.clients = make(map[string]Generator)
	p.mu.Unlock()
	return nil
}

func toContents(history []providers.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		text := strings.TrimSpace(msg.Content)
		if text == "" {
			continue
		}
		if msg.Role == "assistant" || msg.Role == "model" {
			contents = append(contents, genai.NewContentFromText(text, genai.RoleModel))
			continue
		}
		contents = append(contents, genai.NewContentFromText(text, genai.RoleUser))
	}
	return contents
}

func generateConfig(req providers.StreamRequest) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if s := strings.TrimSpace(req.SystemPrompt); s != "" {
		config.SystemInstruction = genai.NewContentFromText(s, genai.RoleUser)
	}
	params := req.Parameters
	if params.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*params.Temperature))
	}
	if params.TopP != nil {
		config.TopP = genai.Ptr(float32(*params.TopP))
	}
	if params.TopK != nil {
		config.TopK = genai.Ptr(float32(*params.TopK))
	}
	if params.MaxTokens != nil {
		config.MaxOutputTokens = int32(*params.MaxTokens)
	}
	if req.JSONMode {
		config.ResponseMIMEType = "application/json"
	}
	return config
}

func usage(meta *genai.GenerateContentResponseUsageMetadata) providers.Usage {
	if meta == nil {
		return providers.Usage{}
	}
	return providers.Usage{
		InputTokens:     int(meta.PromptTokenCount),
		OutputTokens:    int(meta.CandidatesTokenCount),
		TotalTokens:     int(meta.TotalTokenCount),
		ReasoningTokens: int(meta.ThoughtsTokenCount),
	}
}
