package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"eventtrader/internal/config"
	"eventtrader/internal/fingerprint"
	"eventtrader/internal/models"
)

type existsStore struct {
	known map[string]bool
}

func (s *existsStore) Exists(ctx context.Context, fp string) (bool, error) {
	return s.known[fp], nil
}

func (s *existsStore) Commit(ctx context.Context, record *models.EventRecord) (bool, error) {
	return false, nil
}

func (s *existsStore) ListRecent(ctx context.Context, limit int) ([]models.EventRecord, error) {
	return nil, nil
}

func (s *existsStore) GetByFingerprint(ctx context.Context, fp string) (*models.EventRecord, error) {
	return nil, nil
}

func (s *existsStore) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return 0, nil
}

func (s *existsStore) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func rssFeed(items string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>test</title>%s</channel></rss>`, items)
}

func rssItem(title string, published time.Time) string {
	return fmt.Sprintf(`<item><title>%s</title><description>body of %s</description><pubDate>%s</pubDate></item>`,
		title, title, published.Format(time.RFC1123Z))
}

func TestFeedSourceRecencyFilter(t *testing.T) {
	now := time.Now().UTC()
	feed := rssFeed(
		rssItem("fresh headline", now.Add(-10*time.Minute)) +
			rssItem("stale headline", now.Add(-3*time.Hour)),
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feed)
	}))
	defer srv.Close()

	src := &FeedSource{
		Logger: zap.NewNop(),
		Store:  &existsStore{known: map[string]bool{}},
		Config: config.FeedSourceConfig{URLs: []string{srv.URL}, MaxAge: time.Hour},
		Now:    func() time.Time { return now },
	}
	items, err := src.Pull(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
	if items[0].Title != "fresh headline" {
		t.Fatalf("kept %q, want the fresh headline", items[0].Title)
	}
	if items[0].Source != models.SourceFeed {
		t.Fatalf("source = %q", items[0].Source)
	}
}

func TestFeedSourceSkipsKnownEntries(t *testing.T) {
	now := time.Now().UTC()
	feed := rssFeed(
		rssItem("already committed", now.Add(-time.Minute)) +
			rssItem("brand new", now.Add(-time.Minute)),
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, feed)
	}))
	defer srv.Close()

	src := &FeedSource{
		Logger: zap.NewNop(),
		Store: &existsStore{known: map[string]bool{
			fingerprint.Hash("already committed"): true,
		}},
		Config: config.FeedSourceConfig{URLs: []string{srv.URL}, MaxAge: time.Hour},
		Now:    func() time.Time { return now },
	}
	items, err := src.Pull(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Title != "brand new" {
		t.Fatalf("items = %#v, want only the new entry", items)
	}
}

func TestFeedSourcePullIsBounded(t *testing.T) {
	now := time.Now().UTC()
	hung := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Never respond; the client timeout must cut this off.
		<-r.Context().Done()
	}))
	defer hung.Close()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeed(rssItem("reachable headline", now.Add(-time.Minute))))
	}))
	defer good.Close()

	src := &FeedSource{
		Logger: zap.NewNop(),
		Store:  &existsStore{known: map[string]bool{}},
		Config: config.FeedSourceConfig{URLs: []string{hung.URL, good.URL}, MaxAge: time.Hour},
		HTTP:   &http.Client{Timeout: 200 * time.Millisecond},
		Now:    func() time.Time { return now },
	}

	done := make(chan []models.CandidateItem, 1)
	go func() {
		items, _ := src.Pull(context.Background())
		done <- items
	}()

	select {
	case items := <-done:
		if len(items) != 1 || items[0].Title != "reachable headline" {
			t.Fatalf("items = %#v, want the reachable feed's entry", items)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("pull did not return; a hung feed must not block the cycle")
	}
}

func TestFeedSourceDefaultClientHasTimeout(t *testing.T) {
	src := &FeedSource{
		Logger: zap.NewNop(),
		Config: config.FeedSourceConfig{URLs: []string{"http://127.0.0.1:0/feed"}},
	}
	_, _ = src.Pull(context.Background())
	if src.Parser == nil || src.Parser.Client == nil {
		t.Fatalf("parser built without an http client")
	}
	if src.Parser.Client.Timeout <= 0 {
		t.Fatalf("feed http client has no timeout")
	}
}

func TestFeedSourceOneBadFeedDoesNotAbort(t *testing.T) {
	now := time.Now().UTC()
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, rssFeed(rssItem("good headline", now.Add(-time.Minute))))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer bad.Close()

	src := &FeedSource{
		Logger: zap.NewNop(),
		Store:  &existsStore{known: map[string]bool{}},
		Config: config.FeedSourceConfig{URLs: []string{bad.URL, good.URL}, MaxAge: time.Hour},
		Now:    func() time.Time { return now },
	}
	items, err := src.Pull(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].Title != "good headline" {
		t.Fatalf("items = %#v, want the good feed's entry", items)
	}
}
