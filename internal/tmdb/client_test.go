package tmdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"seopress/internal/tmdb"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := tmdb.New("", "https://example.com", "pt-BR"); err == nil {
		t.Fatal("expected error when api key missing")
	}
}

func TestSearchMovieReturnsFirstResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/movie" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("api_key") != "key" {
			t.Fatalf("expected api_key query parameter, got %q", r.URL.RawQuery)
		}
		if r.URL.Query().Get("language") != "pt-BR" {
			t.Fatalf("expected language parameter, got %q", r.URL.RawQuery)
		}
		if r.URL.Query().Get("include_adult") != "false" {
			t.Fatalf("expected include_adult=false, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[{"id":603,"title":"Matrix","poster_path":"/p.jpg"},{"id":604,"title":"Matrix Reloaded"}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "pt-BR")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	result, err := client.SearchMovie(context.Background(), "Matrix")
	if err != nil {
		t.Fatalf("SearchMovie returned error: %v", err)
	}
	if result == nil || result.ID != 603 || result.DisplayTitle() != "Matrix" {
		t.Fatalf("unexpected result: %#v", result)
	}
}

func TestSearchTVNoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"page":1,"results":[]}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	result, err := client.SearchTV(context.Background(), "Unknown Show")
	if err != nil {
		t.Fatalf("SearchTV returned error: %v", err)
	}
	if result != nil {
		t.Fatalf("expected nil result, got %#v", result)
	}
}

func TestSearchMovieHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status_code":500}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.SearchMovie(context.Background(), "fail"); err == nil {
		t.Fatal("expected error when TMDB returns non-200")
	}
}

func TestSearchMovieEmptyQuery(t *testing.T) {
	client, err := tmdb.New("key", "https://example.com", "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := client.SearchMovie(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty query")
	}
}

func TestTVVideos(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tv/66732/videos" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":66732,"results":[{"key":"abc123","name":"Official Trailer","site":"YouTube","type":"Trailer"}]}`))
	}))
	t.Cleanup(server.Close)

	client, err := tmdb.New("key", server.URL, "")
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	videos, err := client.TVVideos(context.Background(), 66732)
	if err != nil {
		t.Fatalf("TVVideos returned error: %v", err)
	}
	if len(videos) != 1 || videos[0].Key != "abc123" || videos[0].Site != "YouTube" {
		t.Fatalf("unexpected videos: %#v", videos)
	}
}

func TestImageURL(t *testing.T) {
	got := tmdb.ImageURL("/poster.jpg", tmdb.PosterSize)
	want := "https://image.tmdb.org/t/p/w500/poster.jpg"
	if got != want {
		t.Fatalf("ImageURL = %q, want %q", got, want)
	}
	if tmdb.ImageURL("", tmdb.BackdropSize) != "" {
		t.Fatal("expected empty URL for empty path")
	}
}
