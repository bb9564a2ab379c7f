package source

import (
	"context"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"eventtrader/internal/config"
	"eventtrader/internal/fingerprint"
	"eventtrader/internal/models"
	"eventtrader/internal/repository"
)

// FeedSource pulls RSS/Atom feeds. Entries older than MaxAge are discarded,
// and entries whose fingerprint is already committed are skipped before any
// oracle call is spent on them.
type FeedSource struct {
	Logger *zap.Logger
	Store  repository.EventStore
	Config config.FeedSourceConfig

	// HTTP must carry a timeout; a hung feed URL would otherwise block the
	// pull, and with it the whole cycle, forever.
	HTTP   *http.Client
	Parser *gofeed.Parser

	// Injected in tests; defaults to time.Now.
	Now func() time.Time
}

func (s *FeedSource) Name() string { return "feed" }

func (s *FeedSource) Pull(ctx context.Context) ([]models.CandidateItem, error) {
	if s == nil || len(s.Config.URLs) == 0 {
		return nil, nil
	}
	if s.Parser == nil {
		parser := gofeed.NewParser()
		parser.Client = s.HTTP
		if parser.Client == nil {
			parser.Client = &http.Client{Timeout: 20 * time.Second}
		}
		s.Parser = parser
	}
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now()
	}
	maxAge := s.Config.MaxAge
	if maxAge <= 0 {
		maxAge = time.Hour
	}

	var out []models.CandidateItem
	for _, url := range s.Config.URLs {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		feed, err := s.Parser.ParseURLWithContext(url, ctx)
		if err != nil {
			// One bad feed never aborts the rest.
			if s.Logger != nil {
				s.Logger.Warn("feed parse failed", zap.String("url", url), zap.Error(err))
			}
			continue
		}
		for _, entry := range feed.Items {
			if entry == nil || entry.Title == "" {
				continue
			}
			published := entry.PublishedParsed
			if published != nil && now.Sub(published.UTC()) > maxAge {
				continue
			}
			if s.Store != nil {
				seen, err := s.Store.Exists(ctx, fingerprint.Hash(entry.Title))
				if err == nil && seen {
					continue
				}
			}
			out = append(out, models.CandidateItem{
				Title:       entry.Title,
				Body:        entry.Description,
				Source:      models.SourceFeed,
				PublishedAt: published,
			})
		}
	}
	return out, nil
}
