package wordpress

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(server.URL, "editor", "app password", WithHTTPClient(server.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New("https://example.com", "", "secret"); err == nil {
		t.Fatal("expected error for empty username")
	}
	if _, err := New("", "editor", "secret"); err == nil {
		t.Fatal("expected error for empty url")
	}
}

func TestListPostsByAuthor(t *testing.T) {
	var gotQuery map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wp-json/wp/v2/posts" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth == "" {
			t.Error("missing authorization header")
		}
		gotQuery = map[string]string{}
		for key := range r.URL.Query() {
			gotQuery[key] = r.URL.Query().Get(key)
		}
		payload := []map[string]any{
			{
				"id":      101,
				"status":  "publish",
				"title":   map[string]string{"rendered": "Stranger Things retorna"},
				"excerpt": map[string]string{"rendered": "Resumo"},
				"content": map[string]string{"rendered": "<p>Corpo</p>"},
				"_embedded": map[string]any{
					"wp:term": [][]map[string]any{
						{
							{"id": 21, "name": "Séries", "slug": "series", "taxonomy": "category"},
						},
						{
							{"id": 9, "name": "Netflix", "slug": "netflix", "taxonomy": "post_tag"},
						},
					},
				},
			},
		}
		json.NewEncoder(w).Encode(payload)
	})

	since := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	posts, err := client.ListPostsByAuthor(context.Background(), 6, since, 10)
	if err != nil {
		t.Fatalf("ListPostsByAuthor: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	post := posts[0]
	if post.ID != 101 || post.Title != "Stranger Things retorna" {
		t.Errorf("unexpected post %+v", post)
	}
	if len(post.Categories) != 1 || post.Categories[0].ID != 21 {
		t.Errorf("unexpected categories %+v", post.Categories)
	}
	if len(post.Tags) != 1 || post.Tags[0] != "netflix" {
		t.Errorf("unexpected tags %+v", post.Tags)
	}
	if gotQuery["author"] != "6" || gotQuery["status"] != "publish" {
		t.Errorf("unexpected query %+v", gotQuery)
	}
	if gotQuery["after"] != "2026-08-29T12:00:00Z" {
		t.Errorf("unexpected after %q", gotQuery["after"])
	}
	if gotQuery["_embed"] != "wp:term" {
		t.Errorf("unexpected embed %q", gotQuery["_embed"])
	}
}

func TestGetPostNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"rest_post_invalid_id"}`, http.StatusNotFound)
	})
	post, err := client.GetPost(context.Background(), 999)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if post != nil {
		t.Fatalf("expected nil post, got %+v", post)
	}
}

func TestUpdatePostSendsPayload(t *testing.T) {
	var got map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/wp-json/wp/v2/posts/101" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"id":101}`))
	})

	err := client.UpdatePost(context.Background(), 101, "Novo título", "Novo resumo", "<p>Novo conteúdo</p>")
	if err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	if got["title"] != "Novo título" || got["status"] != "publish" {
		t.Errorf("unexpected payload %+v", got)
	}
}

func TestUpdatePostServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"rest_cannot_edit"}`, http.StatusForbidden)
	})
	err := client.UpdatePost(context.Background(), 101, "t", "e", "c")
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
}

func TestTestConnection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"namespace": "wp/v2"})
	})
	if err := client.TestConnection(context.Background()); err != nil {
		t.Fatalf("TestConnection: %v", err)
	}
}

func TestTestConnectionWrongNamespace(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"namespace": "custom/v1"})
	})
	if err := client.TestConnection(context.Background()); err == nil {
		t.Fatal("expected namespace error")
	}
}

func TestGetTagsAndCategories(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("post"); got != "101" {
			t.Errorf("post query = %q, want 101", got)
		}
		switch r.URL.Path {
		case "/wp-json/wp/v2/tags":
			json.NewEncoder(w).Encode([]map[string]any{
				{"id": 9, "name": "Netflix", "slug": "netflix", "taxonomy": "post_tag"},
				{"id": 12, "name": "Séries de TV", "slug": "series-de-tv", "taxonomy": "post_tag"},
			})
		case "/wp-json/wp/v2/categories":
			json.NewEncoder(w).Encode([]map[string]any{
				{"id": 21, "name": "Séries", "slug": "series", "taxonomy": "category"},
			})
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			http.NotFound(w, r)
		}
	})

	tags, err := client.GetTags(context.Background(), 101)
	if err != nil {
		t.Fatalf("GetTags: %v", err)
	}
	if len(tags) != 2 || tags[0] != "netflix" || tags[1] != "series-de-tv" {
		t.Fatalf("unexpected tags %v", tags)
	}

	categories, err := client.GetCategories(context.Background(), 101)
	if err != nil {
		t.Fatalf("GetCategories: %v", err)
	}
	if len(categories) != 1 || categories[0].ID != 21 || categories[0].Name != "Séries" {
		t.Fatalf("unexpected categories %v", categories)
	}
}
