package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"eventtrader/internal/models"
)

type stubStore struct {
	records map[string]models.EventRecord
}

func (s *stubStore) Exists(ctx context.Context, fp string) (bool, error) {
	_, ok := s.records[fp]
	return ok, nil
}

func (s *stubStore) Commit(ctx context.Context, record *models.EventRecord) (bool, error) {
	return false, nil
}

func (s *stubStore) ListRecent(ctx context.Context, limit int) ([]models.EventRecord, error) {
	var out []models.EventRecord
	for _, r := range s.records {
		out = append(out, r)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubStore) GetByFingerprint(ctx context.Context, fp string) (*models.EventRecord, error) {
	if r, ok := s.records[fp]; ok {
		return &r, nil
	}
	return nil, nil
}

func (s *stubStore) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return int64(len(s.records)), nil
}

func (s *stubStore) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func newTestRouter(store *stubStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	h := &EventHandler{Store: store}
	h.Register(engine)
	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, path string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	engine.ServeHTTP(w, req)
	var body apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return w, body
}

func TestListEvents(t *testing.T) {
	store := &stubStore{records: map[string]models.EventRecord{
		"fp-a": {Fingerprint: "fp-a", Headline: "a"},
		"fp-b": {Fingerprint: "fp-b", Headline: "b"},
	}}
	w, body := doRequest(t, newTestRouter(store), "/api/v1/events?limit=10")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body.Code != 0 || body.Message != "ok" {
		t.Fatalf("body = %#v", body)
	}
	if got := body.Meta["count"]; got != float64(2) {
		t.Fatalf("meta count = %v, want 2", got)
	}
}

func TestGetEvent(t *testing.T) {
	store := &stubStore{records: map[string]models.EventRecord{
		"fp-a": {Fingerprint: "fp-a", Headline: "a"},
	}}
	engine := newTestRouter(store)

	w, _ := doRequest(t, engine, "/api/v1/events/fp-a")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	w, body := doRequest(t, engine, "/api/v1/events/fp-missing")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if body.Message != "event not found" {
		t.Fatalf("message = %q", body.Message)
	}
}

func TestEventStats(t *testing.T) {
	store := &stubStore{records: map[string]models.EventRecord{
		"fp-a": {Fingerprint: "fp-a"},
	}}
	w, body := doRequest(t, newTestRouter(store), "/api/v1/events/stats?hours=48")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	data, ok := body.Data.(map[string]any)
	if !ok {
		t.Fatalf("data = %#v", body.Data)
	}
	if data["count"] != float64(1) {
		t.Fatalf("count = %v, want 1", data["count"])
	}
}
