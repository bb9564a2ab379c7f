package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"eventtrader/internal/config"
	"eventtrader/internal/models"
)

// SocialSource resolves a whitelist of account handles to a small window of
// recent posts. Each post becomes a candidate with an empty body.
//
// On a rate-limit response the source computes a backoff from the reset
// metadata (never below MinBackoff) and suspends only its own iteration; the
// rest of the cycle proceeds.
type SocialSource struct {
	HTTP   *http.Client
	Logger *zap.Logger
	Config config.SocialSourceConfig

	mu           sync.Mutex
	suspendUntil time.Time

	Now func() time.Time
}

func (s *SocialSource) Name() string { return "social" }

func (s *SocialSource) Pull(ctx context.Context) ([]models.CandidateItem, error) {
	if s == nil || len(s.Config.Accounts) == 0 || strings.TrimSpace(s.Config.Endpoint) == "" {
		return nil, nil
	}
	now := time.Now().UTC()
	if s.Now != nil {
		now = s.Now()
	}

	s.mu.Lock()
	suspended := now.Before(s.suspendUntil)
	until := s.suspendUntil
	s.mu.Unlock()
	if suspended {
		if s.Logger != nil {
			s.Logger.Info("social source backing off", zap.Time("until", until))
		}
		return nil, nil
	}

	if s.HTTP == nil {
		s.HTTP = &http.Client{Timeout: 15 * time.Second}
	}
	limit := s.Config.PostLimit
	if limit <= 0 {
		limit = 5
	}

	var out []models.CandidateItem
	for _, account := range s.Config.Accounts {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		posts, rateLimited, reset, err := s.fetchTimeline(ctx, account, limit)
		if err != nil {
			if s.Logger != nil {
				s.Logger.Warn("social timeline fetch failed", zap.String("account", account), zap.Error(err))
			}
			continue
		}
		if rateLimited {
			s.backoff(now, reset)
			// Remaining accounts wait for the next cycle after the backoff.
			return out, nil
		}
		for _, post := range posts {
			text := strings.TrimSpace(post.Text)
			if text == "" {
				continue
			}
			item := models.CandidateItem{
				Title:  text,
				Source: models.SourceSocial,
			}
			if ts, err := time.Parse(time.RFC3339, post.CreatedAt); err == nil {
				t := ts.UTC()
				item.PublishedAt = &t
			}
			out = append(out, item)
		}
	}
	return out, nil
}

type socialPost struct {
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
}

func (s *SocialSource) fetchTimeline(ctx context.Context, account string, limit int) ([]socialPost, bool, time.Time, error) {
	endpoint := strings.TrimRight(s.Config.Endpoint, "/")
	reqURL := fmt.Sprintf("%s/timeline?handle=%s&limit=%d", endpoint, url.QueryEscape(account), limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, time.Time{}, err
	}
	if env := strings.TrimSpace(s.Config.TokenEnv); env != "" {
		if token := strings.TrimSpace(os.Getenv(env)); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, false, time.Time{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, true, rateLimitReset(resp.Header), nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, time.Time{}, fmt.Errorf("http %d", resp.StatusCode)
	}

	var parsed struct {
		Posts []socialPost `json:"posts"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, false, time.Time{}, err
	}
	return parsed.Posts, false, time.Time{}, nil
}

// rateLimitReset reads the upstream reset hint: x-rate-limit-reset (unix
// seconds) wins over Retry-After (delta seconds). Zero when neither parses.
func rateLimitReset(h http.Header) time.Time {
	if raw := strings.TrimSpace(h.Get("x-rate-limit-reset")); raw != "" {
		if unix, err := strconv.ParseInt(raw, 10, 64); err == nil && unix > 0 {
			return time.Unix(unix, 0).UTC()
		}
	}
	if raw := strings.TrimSpace(h.Get("Retry-After")); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			return time.Now().UTC().Add(time.Duration(secs) * time.Second)
		}
	}
	return time.Time{}
}

func (s *SocialSource) backoff(now, reset time.Time) {
	floor := s.Config.MinBackoff
	if floor <= 0 {
		floor = 30 * time.Second
	}
	wait := floor
	if !reset.IsZero() && reset.Sub(now) > wait {
		wait = reset.Sub(now)
	}
	s.mu.Lock()
	s.suspendUntil = now.Add(wait)
	s.mu.Unlock()
	if s.Logger != nil {
		s.Logger.Warn("social source rate limited", zap.Duration("backoff", wait))
	}
}
