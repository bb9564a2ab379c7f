package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"eventtrader/internal/models"
)

// EventPrompt is the instruction contract shared by every provider. The
// oracle may always answer {} — "no opportunity" is a normal success path.
const EventPrompt = `You are a professional event-driven trading analyst.
Given a HEADLINE and SUMMARY, decide if there is a trading opportunity.
Return JSON ONLY with:
{
  "event": ...,
  "assets_affected": [tickers],
  "direction": "long" or "short",
  "confidence": 0-100,
  "reason": "...",
  "event_type": "earnings/m&a/macro/regulation/natural_disaster/other",
  "sentiment": "positive/negative/neutral"
}
Return {} if no trade.`

// Oracle is a black-box classification service. A zero-value classification
// with a nil error means the oracle saw no opportunity.
type Oracle interface {
	Name() string
	Classify(ctx context.Context, title, body string) (models.EventClassification, error)
}

// UserContent renders a candidate in the fixed request shape all providers
// receive.
func UserContent(title, body string) string {
	return fmt.Sprintf("HEADLINE: %s\nSUMMARY: %s", title, body)
}

// ParseClassification decodes a provider response. Models wrap JSON in
// markdown fences often enough that the raw text is trimmed down to the
// outermost object first. An empty object decodes to the zero value.
func ParseClassification(raw string) (models.EventClassification, error) {
	var out models.EventClassification
	trimmed := extractJSONObject(raw)
	if trimmed == "" {
		return out, fmt.Errorf("no JSON object in oracle response")
	}
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		return models.EventClassification{}, fmt.Errorf("decode oracle response: %w", err)
	}
	if out.Confidence < 0 {
		out.Confidence = 0
	}
	if out.Confidence > 100 {
		out.Confidence = 100
	}
	out.Direction = strings.ToLower(strings.TrimSpace(out.Direction))
	if out.Sentiment == "" {
		out.Sentiment = "neutral"
	}
	if out.EventType == "" && !out.Empty() {
		out.EventType = "other"
	}
	return out, nil
}

func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return ""
	}
	return raw[start : end+1]
}
