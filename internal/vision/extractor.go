// internal/vision/extractor.go

// Package vision reads the answers of a solved crossword from an image of
// its grid by asking a multimodal model, and merges them into the puzzle's
// clue set.
package vision

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/mwiater/cryptic/internal/appconfig"
	"github.com/mwiater/cryptic/internal/clues"
	"github.com/mwiater/cryptic/internal/logging"
	"github.com/mwiater/cryptic/internal/providers/gemini"
)

// Generator sends one prompt plus image to a model and returns its text.
type Generator interface {
	Generate(ctx context.Context, prompt string, img Image) (string, error)
}

// Extractor fills a ClueSet's answers from a solved grid image.
type Extractor struct {
	Generator Generator
}

// Answers asks the model for the answers of every clue in set.
func (e Extractor) Answers(ctx context.Context, img Image, set clues.ClueSet) (clues.Answers, error) {
	text, err := e.Generator.Generate(ctx, BuildPrompt(set), img)
	if err != nil {
		return nil, err
	}
	answers, err := ParseAnswers(text)
	if err != nil {
		logging.LogEvent("vision: unparseable response for %s: %s", img.Path, text)
		return nil, err
	}
	return answers, nil
}

// Complete returns a new ClueSet with the answers read from img. Clues the
// model did not answer keep a nil answer.
func (e Extractor) Complete(ctx context.Context, img Image, set clues.ClueSet) (clues.ClueSet, clues.Answers, error) {
	answers, err := e.Answers(ctx, img, set)
	if err != nil {
		return clues.ClueSet{}, nil, err
	}
	return set.WithAnswers(answers), answers, nil
}

// GeminiGenerator implements Generator with the genai SDK.
type GeminiGenerator struct {
	Models      gemini.Generator
	Model       string
	Temperature float32
}

// NewGeminiGenerator builds a generator from the vision configuration.
func NewGeminiGenerator(ctx context.Context, cfg appconfig.Vision) (*GeminiGenerator, error) {
	key := ""
	if cfg.APIKeyEnv != "" {
		key = appconfig.Host{APIKeyEnv: cfg.APIKeyEnv}.APIKey()
	}
	models, err := gemini.NewClient(ctx, gemini.ClientOptions{
		Backend: cfg.Backend,
		APIKey:  key,
		Project: cfg.Project,
		Region:  cfg.Region,
	})
	if err != nil {
		return nil, err
	}
	temp := float32(0.1)
	if cfg.Temperature != nil {
		temp = float32(*cfg.Temperature)
	}
	return &GeminiGenerator{Models: models, Model: cfg.Model, Temperature: temp}, nil
}

// Generate sends the prompt and image and asks for a JSON reply.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, img Image) (string, error) {
	logging.LogRequest("CRYPTIC->VISION", "genai", g.Model, map[string]any{"image": img.Path, "bytes": len(img.Data)})
	resp, err := g.Models.GenerateContent(ctx, g.Model,
		[]*genai.Content{{
			Role: "user",
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: img.MediaType, Data: img.Data}},
				{Text: prompt},
			},
		}},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(g.Temperature),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := resp.Text()
	logging.LogRequest("VISION->CRYPTIC", "genai", g.Model, text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
