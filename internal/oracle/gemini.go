package oracle

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"eventtrader/internal/models"
)

// GeminiOracle is the secondary classifier consulted when the primary
// errors, returns unparseable output, or stays under the threshold.
type GeminiOracle struct {
	client *genai.Client
	model  string
}

func NewGeminiOracle(ctx context.Context, apiKey, model string) (*GeminiOracle, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-1.5-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GeminiOracle{client: client, model: model}, nil
}

func (o *GeminiOracle) Name() string { return "gemini" }

func (o *GeminiOracle) Classify(ctx context.Context, title, body string) (models.EventClassification, error) {
	prompt := EventPrompt + "\n\n" + UserContent(title, body)
	result, err := o.client.Models.GenerateContent(ctx, o.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			Temperature:      genai.Ptr[float32](0.2),
		},
	)
	if err != nil {
		return models.EventClassification{}, fmt.Errorf("gemini generate: %w", err)
	}
	text := result.Text()
	if text == "" {
		return models.EventClassification{}, fmt.Errorf("gemini returned empty content")
	}
	return ParseClassification(text)
}
