// internal/providers/gemini/provider_test.go
package gemini

import (
	"context"
	"errors"
	"os"
	"testing"

	"google.golang.org/genai"

	"github.com/mwiater/cryptic/internal/appconfig"
	"github.com/mwiater/cryptic/internal/providers"
)

type fakeGenerator struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	resp     *genai.GenerateContentResponse
	err      error
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}},
		}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
			PromptTokenCount:     30,
			CandidatesTokenCount: 2,
			TotalTokenCount:      40,
			ThoughtsTokenCount:   8,
		},
	}
}

func TestProviderStream(t *testing.T) {
	fake := &fakeGenerator{resp: textResponse("RAREBITS")}
	temp := 0.2
	maxTokens := 32
	p := NewWithGenerator(&appconfig.Config{TimeoutSeconds: 5}, fake)

	text, meta, err := providers.Complete(context.Background(), p, providers.StreamRequest{
		Host:         appconfig.Host{Name: "google", Type: "google"},
		Model:        "gemini-2.5-flash",
		SystemPrompt: "You are an expert.",
		History:      []providers.ChatMessage{{Role: "user", Content: "Solve"}},
		Parameters:   appconfig.Parameters{Temperature: &temp, MaxTokens: &maxTokens},
	})
	if err != nil {
		t.Fatalf("Stream error: %v", err)
	}
	if text != "RAREBITS" {
		t.Fatalf("unexpected text %q", text)
	}
	if fake.model != "gemini-2.5-flash" || len(fake.contents) != 1 {
		t.Fatalf("unexpected request: model=%q contents=%d", fake.model, len(fake.contents))
	}
	if fake.config.SystemInstruction == nil || fake.config.SystemInstruction.Parts[0].Text != "You are an expert." {
		t.Fatalf("system prompt not forwarded: %+v", fake.config.SystemInstruction)
	}
	if fake.config.Temperature == nil || *fake.config.Temperature != float32(0.2) || fake.config.MaxOutputTokens != 32 {
		t.Fatalf("parameters not forwarded: %+v", fake.config)
	}
	want := providers.Usage{InputTokens: 30, OutputTokens: 2, TotalTokens: 40, ReasoningTokens: 8}
	if meta.Usage != want || meta.Model != "gemini-2.5-flash" {
		t.Fatalf("unexpected metadata %+v", meta)
	}
}

func TestProviderStreamErrors(t *testing.T) {
	p := NewWithGenerator(&appconfig.Config{}, &fakeGenerator{err: errors.New("quota")})
	_, _, err := providers.Complete(context.Background(), p, providers.StreamRequest{
		History: []providers.ChatMessage{{Role: "user", Content: "Solve"}},
	})
	if err == nil {
		t.Fatal("expected generate error")
	}

	_, _, err = providers.Complete(context.Background(), p, providers.StreamRequest{})
	if err == nil {
		t.Fatal("expected an error for an empty conversation")
	}
}

func TestNewClientRequiresCredentials(t *testing.T) {
	t.Setenv("GOOGLE_CLOUD_PROJECT", "")
	if _, err := NewClient(context.Background(), ClientOptions{Backend: "gemini"}); err == nil {
		t.Fatal("expected an error without an API key")
	}
	if _, err := NewClient(context.Background(), ClientOptions{Backend: "vertex"}); err == nil {
		t.Fatal("expected an error without a project")
	}
}

func TestProviderIntegration(t *testing.T) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		t.Skip("GEMINI_API_KEY not set, skipping integration test")
	}
	t.Setenv("CRYPTIC_GEMINI_KEY", key)

	p := New(&appconfig.Config{TimeoutSeconds: 60})
	text, _, err := providers.Complete(context.Background(), p, providers.StreamRequest{
		Host:    appconfig.Host{Name: "google", Type: "google", APIKeyEnv: "CRYPTIC_GEMINI_KEY"},
		Model:   "gemini-2.5-flash",
		History: []providers.ChatMessage{{Role: "user", Content: "Reply with the single word OK."}},
	})
	if err != nil {
		t.Fatalf("Stream error: %v", err)
	}
	t.Logf("response: %s", text)
}
