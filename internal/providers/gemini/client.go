// internal/providers/gemini/client.go
package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

const defaultRegion = "us-central1"

// ClientOptions selects the genai backend. With an API key the Gemini API
// is used; otherwise Vertex AI with Application Default Credentials.
type ClientOptions struct {
	Backend string
	APIKey  string
	Project string
	Region  string
}

// Generator is the part of the genai client the providers use.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewClient creates a genai client and returns its model service.
func NewClient(ctx context.Context, opts ClientOptions) (Generator, error) {
	cfg := &genai.ClientConfig{}
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "vertex", "vertexai":
		cfg.Backend = genai.BackendVertexAI
	case "gemini", "geminiapi":
		cfg.Backend = genai.BackendGeminiAPI
	default:
		if opts.APIKey != "" {
			cfg.Backend = genai.BackendGeminiAPI
		} else {
			cfg.Backend = genai.BackendVertexAI
		}
	}

	if cfg.Backend == genai.BackendVertexAI {
		cfg.Project = firstNonEmpty(opts.Project, os.Getenv("GOOGLE_CLOUD_PROJECT"))
		cfg.Location = firstNonEmpty(opts.Region, os.Getenv("GOOGLE_CLOUD_LOCATION"), defaultRegion)
		if cfg.Project == "" {
			return nil, fmt.Errorf("create genai client: vertex backend needs a project")
		}
	} else {
		cfg.APIKey = opts.APIKey
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("create genai client: gemini backend needs an API key")
		}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return client.Models, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
