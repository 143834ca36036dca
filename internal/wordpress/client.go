package wordpress

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const userAgent = "seopress/1.0"

// renderedField models WordPress "rendered" content wrappers.
type renderedField struct {
	Rendered string `json:"rendered"`
}

// term models a single taxonomy term from the embedded wp:term payload.
type term struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Taxonomy string `json:"taxonomy"`
}

// rawPost models the REST representation of a post, embedded terms included.
type rawPost struct {
	ID       int64         `json:"id"`
	Date     string        `json:"date"`
	Link     string        `json:"link"`
	Status   string        `json:"status"`
	Title    renderedField `json:"title"`
	Excerpt  renderedField `json:"excerpt"`
	Content  renderedField `json:"content"`
	Embedded struct {
		Terms [][]term `json:"wp:term"`
	} `json:"_embedded"`
}

// Category identifies a WordPress category attached to a post.
type Category struct {
	ID   int64
	Name string
}

// Post is the subset of a WordPress post the optimizer works with.
type Post struct {
	ID         int64
	Date       string
	Link       string
	Status     string
	Title      string
	Excerpt    string
	Content    string
	Tags       []string
	Categories []Category
}

func (p rawPost) toPost() Post {
	post := Post{
		ID:      p.ID,
		Date:    p.Date,
		Link:    p.Link,
		Status:  p.Status,
		Title:   p.Title.Rendered,
		Excerpt: p.Excerpt.Rendered,
		Content: p.Content.Rendered,
	}
	for _, group := range p.Embedded.Terms {
		for _, t := range group {
			switch t.Taxonomy {
			case "post_tag":
				if t.Slug != "" {
					post.Tags = append(post.Tags, t.Slug)
				}
			case "category":
				post.Categories = append(post.Categories, Category{ID: t.ID, Name: t.Name})
			}
		}
	}
	return post
}

// Client provides access to the WordPress REST API.
type Client struct {
	apiBase    string
	authHeader string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a WordPress client authenticated with an application password.
func New(siteURL, username, password string, opts ...Option) (*Client, error) {
	siteURL = strings.TrimRight(strings.TrimSpace(siteURL), "/")
	if siteURL == "" {
		return nil, errors.New("wordpress site url required")
	}
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil, errors.New("wordpress credentials required")
	}
	credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
	client := &Client{
		apiBase:    siteURL + "/wp-json/wp/v2",
		authHeader: "Basic " + credentials,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, body any, out any) error {
	target := c.apiBase + endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", c.authHeader)
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("wordpress %s %s returned %d: %s", method, endpoint, resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode wordpress response: %w", err)
	}
	return nil
}

// ListPostsByAuthor returns published posts by the author, newest first,
// created after the supplied time. Tags and categories are embedded.
func (c *Client) ListPostsByAuthor(ctx context.Context, authorID int64, since time.Time, perPage int) ([]Post, error) {
	if authorID <= 0 {
		return nil, errors.New("author id must be positive")
	}
	if perPage <= 0 {
		perPage = 10
	}
	params := url.Values{}
	params.Set("author", strconv.FormatInt(authorID, 10))
	params.Set("status", "publish")
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("_embed", "wp:term")
	if !since.IsZero() {
		params.Set("after", since.UTC().Format(time.RFC3339))
	}

	var raw []rawPost
	if err := c.do(ctx, http.MethodGet, "/posts", params, nil, &raw); err != nil {
		return nil, err
	}
	posts := make([]Post, 0, len(raw))
	for _, p := range raw {
		posts = append(posts, p.toPost())
	}
	return posts, nil
}

// GetPost fetches a single post with embedded terms. Returns nil when the
// post does not exist.
func (c *Client) GetPost(ctx context.Context, id int64) (*Post, error) {
	if id <= 0 {
		return nil, errors.New("post id must be positive")
	}
	params := url.Values{}
	params.Set("_embed", "wp:term")

	var raw rawPost
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d", id), params, nil, &raw)
	if err != nil {
		if strings.Contains(err.Error(), "returned 404") {
			return nil, nil
		}
		return nil, err
	}
	post := raw.toPost()
	return &post, nil
}

// GetTags returns the tag slugs attached to a post.
func (c *Client) GetTags(ctx context.Context, postID int64) ([]string, error) {
	if postID <= 0 {
		return nil, errors.New("post id must be positive")
	}
	params := url.Values{}
	params.Set("post", strconv.FormatInt(postID, 10))
	params.Set("per_page", "100")

	var terms []term
	if err := c.do(ctx, http.MethodGet, "/tags", params, nil, &terms); err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(terms))
	for _, t := range terms {
		if t.Slug != "" {
			tags = append(tags, t.Slug)
		}
	}
	return tags, nil
}

// GetCategories returns the categories attached to a post.
func (c *Client) GetCategories(ctx context.Context, postID int64) ([]Category, error) {
	if postID <= 0 {
		return nil, errors.New("post id must be positive")
	}
	params := url.Values{}
	params.Set("post", strconv.FormatInt(postID, 10))
	params.Set("per_page", "100")

	var terms []term
	if err := c.do(ctx, http.MethodGet, "/categories", params, nil, &terms); err != nil {
		return nil, err
	}
	categories := make([]Category, 0, len(terms))
	for _, t := range terms {
		categories = append(categories, Category{ID: t.ID, Name: t.Name})
	}
	return categories, nil
}

// UpdatePost replaces title, excerpt, and content for a post, keeping it
// published.
func (c *Client) UpdatePost(ctx context.Context, id int64, title, excerpt, content string) error {
	if id <= 0 {
		return errors.New("post id must be positive")
	}
	body := map[string]string{
		"title":   title,
		"excerpt": excerpt,
		"content": content,
		"status":  "publish",
	}
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/posts/%d", id), nil, body, nil)
}

// TestConnection verifies the REST API root answers with the wp/v2 namespace.
func (c *Client) TestConnection(ctx context.Context) error {
	var root struct {
		Namespace string `json:"namespace"`
	}
	if err := c.do(ctx, http.MethodGet, "", nil, nil, &root); err != nil {
		return err
	}
	if root.Namespace != "wp/v2" {
		return fmt.Errorf("unexpected api namespace %q", root.Namespace)
	}
	return nil
}
