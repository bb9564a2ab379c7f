package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"eventtrader/internal/config"
	"eventtrader/internal/models"
)

// Aggregator adapters query secondary news APIs and map provider-specific
// JSON to CandidateItem. Empty or failing responses mean zero items for the
// cycle, never a fatal error.

type NewsAPISource struct {
	HTTP   *http.Client
	Logger *zap.Logger
	Config config.AggregatorConfig
}

func (s *NewsAPISource) Name() string { return "newsapi" }

func (s *NewsAPISource) Pull(ctx context.Context) ([]models.CandidateItem, error) {
	pageSize := s.Config.PageSize
	if pageSize <= 0 {
		pageSize = 10
	}
	url := fmt.Sprintf("%s?language=en&pageSize=%d&apiKey=%s",
		strings.TrimRight(s.Config.Endpoint, "/"), pageSize, apiKey(s.Config.APIKeyEnv))

	var parsed struct {
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"articles"`
	}
	if err := getJSON(ctx, s.HTTP, url, &parsed); err != nil {
		return nil, err
	}
	out := make([]models.CandidateItem, 0, len(parsed.Articles))
	for _, article := range parsed.Articles {
		if strings.TrimSpace(article.Title) == "" {
			continue
		}
		out = append(out, models.CandidateItem{
			Title:  article.Title,
			Body:   article.Description,
			Source: models.SourceAggregator,
		})
	}
	return out, nil
}

type FinnhubSource struct {
	HTTP   *http.Client
	Logger *zap.Logger
	Config config.AggregatorConfig
}

func (s *FinnhubSource) Name() string { return "finnhub" }

func (s *FinnhubSource) Pull(ctx context.Context) ([]models.CandidateItem, error) {
	url := fmt.Sprintf("%s?category=general&token=%s",
		strings.TrimRight(s.Config.Endpoint, "/"), apiKey(s.Config.APIKeyEnv))

	var parsed []struct {
		Headline string `json:"headline"`
		Summary  string `json:"summary"`
		Datetime int64  `json:"datetime"`
	}
	if err := getJSON(ctx, s.HTTP, url, &parsed); err != nil {
		return nil, err
	}
	out := make([]models.CandidateItem, 0, len(parsed))
	for _, item := range parsed {
		if strings.TrimSpace(item.Headline) == "" {
			continue
		}
		candidate := models.CandidateItem{
			Title:  item.Headline,
			Body:   item.Summary,
			Source: models.SourceAggregator,
		}
		if item.Datetime > 0 {
			t := time.Unix(item.Datetime, 0).UTC()
			candidate.PublishedAt = &t
		}
		out = append(out, candidate)
	}
	return out, nil
}

type PolygonSource struct {
	HTTP   *http.Client
	Logger *zap.Logger
	Config config.AggregatorConfig
}

func (s *PolygonSource) Name() string { return "polygon" }

func (s *PolygonSource) Pull(ctx context.Context) ([]models.CandidateItem, error) {
	limit := s.Config.PageSize
	if limit <= 0 {
		limit = 10
	}
	url := fmt.Sprintf("%s?limit=%d&apiKey=%s",
		strings.TrimRight(s.Config.Endpoint, "/"), limit, apiKey(s.Config.APIKeyEnv))

	var parsed struct {
		Results []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"results"`
	}
	if err := getJSON(ctx, s.HTTP, url, &parsed); err != nil {
		return nil, err
	}
	out := make([]models.CandidateItem, 0, len(parsed.Results))
	for _, item := range parsed.Results {
		if strings.TrimSpace(item.Title) == "" {
			continue
		}
		out = append(out, models.CandidateItem{
			Title:  item.Title,
			Body:   item.Description,
			Source: models.SourceAggregator,
		})
	}
	return out, nil
}

func apiKey(env string) string {
	return strings.TrimSpace(os.Getenv(strings.TrimSpace(env)))
}

func getJSON(ctx context.Context, client *http.Client, url string, dst any) error {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("http %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
