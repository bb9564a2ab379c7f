package oracle

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"eventtrader/internal/models"
)

// OpenAIOracle is the primary classifier, driven through the chat
// completions API.
type OpenAIOracle struct {
	client openai.Client
	model  string
}

func NewOpenAIOracle(apiKey, model string) *OpenAIOracle {
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	return &OpenAIOracle{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (o *OpenAIOracle) Name() string { return "openai" }

func (o *OpenAIOracle) Classify(ctx context.Context, title, body string) (models.EventClassification, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(EventPrompt),
			openai.UserMessage(UserContent(title, body)),
		},
		Temperature: openai.Float(0.2),
	})
	if err != nil {
		return models.EventClassification{}, fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.EventClassification{}, fmt.Errorf("openai returned no choices")
	}
	return ParseClassification(resp.Choices[0].Message.Content)
}
