// internal/providers/openai/provider.go
// Package openai provides a ChatProvider for OpenAI-compatible chat
// completion APIs: OpenAI itself and llama.cpp's server.
package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mwiater/cryptic/internal/appconfig"
	"github.com/mwiater/cryptic/internal/logging"
	"github.com/mwiater/cryptic/internal/providers"
)

const defaultBaseURL = "https://api.openai.com"

// Provider implements providers.ChatProvider over /v1/chat/completions.
type Provider struct {
	client  *http.Client
	timeout time.Duration
}

// New constructs a Provider configured with the application's request timeout.
func New(cfg *appconfig.Config) *Provider {
	timeout := cfg.RequestTimeout()
	return &Provider{
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		timeout: timeout,
	}
}

// EnsureModelReady asks a llama.cpp router to load the model and waits for
// it. Other hosts load models on demand, so this is a no-op for them.
func (p *Provider) EnsureModelReady(ctx context.Context, host appconfig.Host, model string) error {
	if appconfig.NormalizeHostType(host.Type) != appconfig.HostTypeLlamaCpp || strings.TrimSpace(model) == "" {
		return nil
	}
	body, err := json.Marshal(map[string]any{"model": model})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	logging.LogRequest("CRYPTIC->LLM", providers.HostIdentifier(host), model, body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL(host)+"/models/load", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	logging.LogRequest("LLM->CRYPTIC", providers.HostIdentifier(host), model, respBody)

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusMethodNotAllowed {
		// No router endpoints; the server loads the model on first request.
		return nil
	}
	if resp.StatusCode >= 400 {
		if isAlreadyLoadedError(resp.StatusCode, respBody) {
			return p.waitForModelLoaded(ctx, host, model)
		}
		return fmt.Errorf("llama.cpp: /models/load returned %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}
	return p.waitForModelLoaded(ctx, host, model)
}

// Stream issues a chat request and forwards output to the provided callbacks.
func (p *Provider) Stream(ctx context.Context, req providers.StreamRequest, callbacks providers.StreamCallbacks) error {
	messages := req.History
	if req.SystemPrompt != "" {
		messages = append([]providers.ChatMessage{{Role: "system", Content: req.SystemPrompt}}, messages...)
	}
	messages = sanitizeMessages(messages)

	if err := p.EnsureModelReady(ctx, req.Host, req.Model); err != nil {
		return err
	}

	payload := map[string]any{
		"model":    req.Model,
		"messages": toOpenAIMessages(messages),
		"stream":   !req.DisableStreaming,
	}
	if !req.DisableStreaming {
		payload["stream_options"] = map[string]any{"include_usage": true}
	}
	applyParameters(payload, req.Host.Type, req.Parameters)
	if req.JSONMode {
		payload["response_format"] = map[string]any{"type": "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	logging.LogRequest("CRYPTIC->LLM", providers.HostIdentifier(req.Host), req.Model, body)

	streamCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(streamCtx, http.MethodPost, baseURL(req.Host)+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if key := req.Host.APIKey(); key != "" {
		httpReq.Header.Set("Authorization", "Bearer "+key)
	}
	if !req.DisableStreaming {
		httpReq.Header.Set("Accept", "text/event-stream")
	}

	started := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		logging.LogRequest("LLM->CRYPTIC", providers.HostIdentifier(req.Host), req.Model, raw)
		return fmt.Errorf("openai: /v1/chat/completions returned %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var meta providers.StreamMetadata
	if req.DisableStreaming {
		meta, err = p.handleNonStreaming(resp, req, callbacks)
	} else {
		meta, err = p.handleStreaming(resp, req, callbacks)
	}
	if err != nil {
		return err
	}
	meta.Duration = time.Since(started)
	if callbacks.OnComplete != nil {
		return callbacks.OnComplete(meta)
	}
	return nil
}

func (p *Provider) handleNonStreaming(resp *http.Response, req providers.StreamRequest, callbacks providers.StreamCallbacks) (providers.StreamMetadata, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return providers.StreamMetadata{}, err
	}
	logging.LogRequest("LLM->CRYPTIC", providers.HostIdentifier(req.Host), req.Model, body)

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return providers.StreamMetadata{}, err
	}
	if len(parsed.Choices) == 0 {
		return providers.StreamMetadata{}, errors.New("openai: chat response contained no choices")
	}

	content := parsed.Choices[0].Message.Content
	role := parsed.Choices[0].Message.Role
	if role == "" {
		role = "assistant"
	}
	if callbacks.OnChunk != nil && strings.TrimSpace(content) != "" {
		if err := callbacks.OnChunk(providers.ChatMessage{Role: role, Content: content}); err != nil {
			return providers.StreamMetadata{}, err
		}
	}
	return metadata(parsed.Model, req.Model, parsed.Usage), nil
}

func (p *Provider) handleStreaming(resp *http.Response, req providers.StreamRequest, callbacks providers.StreamCallbacks) (providers.StreamMetadata, error) {
	reader := bufio.NewReader(resp.Body)
	var finalModel string
	var usage *usagePayload
	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return providers.StreamMetadata{}, err
		}
		done := errors.Is(err, io.EOF)
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "data:") {
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				break
			}
			logging.LogRequest("LLM->CRYPTIC", providers.HostIdentifier(req.Host), req.Model, data)

			var chunk chatStreamChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				return providers.StreamMetadata{}, err
			}
			if chunk.Model != "" {
				finalModel = chunk.Model
			}
			if chunk.Usage != nil {
				usage = chunk.Usage
			}
			if len(chunk.Choices) > 0 {
				choice := chunk.Choices[0]
				content, role := choice.Delta.Content, choice.Delta.Role
				if content == "" && choice.Message.Content != "" {
					content, role = choice.Message.Content, choice.Message.Role
				}
				if role == "" {
					role = "assistant"
				}
				if callbacks.OnChunk != nil && content != "" {
					if err := callbacks.OnChunk(providers.ChatMessage{Role: role, Content: content}); err != nil {
						return providers.StreamMetadata{}, err
					}
				}
			}
		}
		if done {
			break
		}
	}
	return metadata(finalModel, req.Model, usage), nil
}

// Close releases any resources held by the provider.
func (p *Provider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

func metadata(reported, requested string, usage *usagePayload) providers.StreamMetadata {
	model := reported
	if model == "" {
		model = requested
	}
	meta := providers.StreamMetadata{Model: model, CreatedAt: time.Now(), Done: true}
	if usage != nil {
		meta.Usage = usage.toUsage()
	}
	return meta
}

type usagePayload struct {
	PromptTokens            int `json:"prompt_tokens"`
	CompletionTokens        int `json:"completion_tokens"`
	TotalTokens             int `json:"total_tokens"`
	CompletionTokensDetails struct {
		ReasoningTokens int `json:"reasoning_tokens"`
	} `json:"completion_tokens_details"`
}

func (u usagePayload) toUsage() providers.Usage {
	total := u.TotalTokens
	if total == 0 {
		total = u.PromptTokens + u.CompletionTokens
	}
	return providers.Usage{
		InputTokens:     u.PromptTokens,
		OutputTokens:    u.CompletionTokens,
		TotalTokens:     total,
		ReasoningTokens: u.CompletionTokensDetails.ReasoningTokens,
	}
}

type chatMessagePayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessagePayload `json:"message"`
	} `json:"choices"`
	Usage *usagePayload `json:"usage"`
}

type chatStreamChunk struct {
	Model   string `json:"model"`
	Choices []struct {
		Delta   chatMessagePayload `json:"delta"`
		Message chatMessagePayload `json:"message"`
	} `json:"choices"`
	Usage *usagePayload `json:"usage"`
}

func baseURL(host appconfig.Host) string {
	url := strings.TrimRight(strings.TrimSpace(host.URL), "/")
	if url == "" {
		return defaultBaseURL
	}
	return strings.TrimSuffix(url, "/v1")
}

func applyParameters(payload map[string]any, hostType string, params appconfig.Parameters) {
	if params.Temperature != nil {
		payload["temperature"] = *params.Temperature
	}
	if params.TopP != nil {
		payload["top_p"] = *params.TopP
	}
	if params.MaxTokens != nil {
		payload["max_tokens"] = *params.MaxTokens
	}
	// top_k is a llama.cpp extension the OpenAI API rejects.
	if params.TopK != nil && appconfig.NormalizeHostType(hostType) == appconfig.HostTypeLlamaCpp {
		payload["top_k"] = *params.TopK
	}
}

func sanitizeMessages(messages []providers.ChatMessage) []providers.ChatMessage {
	sanitized := make([]providers.ChatMessage, 0, len(messages))
	for _, msg := range messages {
		role := strings.TrimSpace(msg.Role)
		content := strings.TrimSpace(msg.Content)
		if role == "" {
			role = "user"
		}
		if role != "assistant" && content == "" {
			continue
		}
		sanitized = append(sanitized, providers.ChatMessage{Role: role, Content: content})
	}
	return sanitized
}

func toOpenAIMessages(messages []providers.ChatMessage) []chatMessagePayload {
	out := make([]chatMessagePayload, 0, len(messages))
	for _, msg := range messages {
		out = append(out, chatMessagePayload{Role: msg.Role, Content: msg.Content})
	}
	return out
}
