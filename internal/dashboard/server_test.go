package dashboard_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"seopress/internal/dashboard"
	"seopress/internal/outcome"
	"seopress/internal/quota"
	"seopress/internal/testsupport"
	"seopress/internal/wordpress"
)

type fakeHistory struct {
	recent  []outcome.Outcome
	metrics []outcome.DailyMetric
	summary outcome.Summary
	blocked map[int64]bool
}

func (f *fakeHistory) Recent(_ context.Context, _ int) ([]outcome.Outcome, error) {
	return f.recent, nil
}

func (f *fakeHistory) Metrics(_ context.Context, _ int) ([]outcome.DailyMetric, error) {
	return f.metrics, nil
}

func (f *fakeHistory) Summarize(_ context.Context) (outcome.Summary, error) {
	return f.summary, nil
}

func (f *fakeHistory) FilterCandidates(_ context.Context, ids []int64) ([]int64, error) {
	var eligible []int64
	for _, id := range ids {
		if !f.blocked[id] {
			eligible = append(eligible, id)
		}
	}
	return eligible, nil
}

type fakeLister struct {
	posts []wordpress.Post
}

func (f *fakeLister) ListPostsByAuthor(_ context.Context, _ int64, _ time.Time, _ int) ([]wordpress.Post, error) {
	return f.posts, nil
}

type fakeOptimizer struct {
	calls []int64
	err   error
}

func (f *fakeOptimizer) OptimizeOne(_ context.Context, postID int64) error {
	f.calls = append(f.calls, postID)
	return f.err
}

type fakeUsage struct{}

func (fakeUsage) Usage(_ context.Context) ([]quota.KeyUsage, error) {
	return []quota.KeyUsage{{CredentialID: "AIzaSyABCDEF", Day: "2026-08-30", Requests: 12}}, nil
}

func (fakeUsage) DailyCap() int { return 45 }

type fakeTester struct {
	err error
}

func (f fakeTester) TestConnection(_ context.Context) error { return f.err }

func newTestServer(t *testing.T, history *fakeHistory, lister *fakeLister, opt *fakeOptimizer) *dashboard.Server {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return dashboard.New(cfg, history, lister, opt, fakeUsage{}, fakeTester{}, fakeTester{err: errors.New("down")}, nil)
}

func TestDashboardData(t *testing.T) {
	history := &fakeHistory{
		recent: []outcome.Outcome{
			{PostID: 101, PostTitle: "Post", Status: "success", UpdatedAt: time.Now()},
		},
		metrics: []outcome.DailyMetric{{Day: "2026-08-30", Optimized: 3, Failed: 1}},
		summary: outcome.Summary{TotalOptimized: 3, TotalFailed: 1},
	}
	server := newTestServer(t, history, &fakeLister{}, &fakeOptimizer{})

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard-data", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body struct {
		Recent  []map[string]any `json:"recent_optimizations"`
		Metrics []map[string]any `json:"weekly_metrics"`
		Summary map[string]any   `json:"summary"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Recent) != 1 || body.Recent[0]["post_id"].(float64) != 101 {
		t.Fatalf("recent = %#v", body.Recent)
	}
	if body.Summary["success_rate"].(float64) != 75.0 {
		t.Fatalf("success_rate = %v", body.Summary["success_rate"])
	}
}

func TestPendingPostsExcludesOptimized(t *testing.T) {
	history := &fakeHistory{blocked: map[int64]bool{1: true}}
	lister := &fakeLister{posts: []wordpress.Post{
		{ID: 1, Title: "Já otimizado"},
		{ID: 2, Title: "Pendente", Date: "2026-08-30T10:00:00", Link: "https://example.com/p/2"},
	}}
	server := newTestServer(t, history, lister, &fakeOptimizer{})

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/pending-posts", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var pending []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &pending); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(pending) != 1 || pending[0]["id"].(float64) != 2 {
		t.Fatalf("pending = %#v", pending)
	}
}

func TestOptimizePostEndpoint(t *testing.T) {
	opt := &fakeOptimizer{}
	server := newTestServer(t, &fakeHistory{}, &fakeLister{}, opt)

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/optimize-post/101", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	if len(opt.calls) != 1 || opt.calls[0] != 101 {
		t.Fatalf("calls = %v", opt.calls)
	}
}

func TestOptimizePostNotFound(t *testing.T) {
	opt := &fakeOptimizer{err: fmt.Errorf("post 999 not found")}
	server := newTestServer(t, &fakeHistory{}, &fakeLister{}, opt)

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/optimize-post/999", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestOptimizePostRejectsBadID(t *testing.T) {
	server := newTestServer(t, &fakeHistory{}, &fakeLister{}, &fakeOptimizer{})

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/optimize-post/abc", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestSystemStatus(t *testing.T) {
	server := newTestServer(t, &fakeHistory{}, &fakeLister{}, &fakeOptimizer{})

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/system-status", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["wordpress"].(bool) != true {
		t.Fatal("wordpress should be up")
	}
	if body["tmdb"].(bool) != false {
		t.Fatal("tmdb should be down")
	}
	quotaEntries := body["quota"].([]any)
	if len(quotaEntries) != 1 {
		t.Fatalf("quota = %#v", quotaEntries)
	}
}

func TestIndexServesHTML(t *testing.T) {
	server := newTestServer(t, &fakeHistory{}, &fakeLister{}, &fakeOptimizer{})

	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Fatalf("content type = %q", got)
	}
}
