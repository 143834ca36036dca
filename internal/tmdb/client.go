package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const imageBaseURL = "https://image.tmdb.org/t/p"

// Image size identifiers used when building CDN URLs.
const (
	PosterSize   = "w500"
	BackdropSize = "w780"
)

// Result represents a single TMDB search match.
type Result struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	Popularity   float64 `json:"popularity"`
	VoteAverage  float64 `json:"vote_average"`
}

// DisplayTitle returns the movie title or TV name, whichever is set.
func (r Result) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

// Video describes a single entry from a TMDB videos payload.
type Video struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// searchResponse models the TMDB paginated search response.
type searchResponse struct {
	Page         int      `json:"page"`
	Results      []Result `json:"results"`
	TotalResults int      `json:"total_results"`
}

type videosResponse struct {
	ID      int64   `json:"id"`
	Results []Video `json:"results"`
}

// Searcher defines the TMDB operations used by media matching.
type Searcher interface {
	SearchMovie(ctx context.Context, query string) (*Result, error)
	SearchTV(ctx context.Context, query string) (*Result, error)
	MovieVideos(ctx context.Context, movieID int64) ([]Video, error)
	TVVideos(ctx context.Context, showID int64) ([]Video, error)
}

// Client provides access to the TMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

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

// New creates a TMDB client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

func (c *Client) get(ctx context.Context, path string, extra url.Values, label string, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("parse tmdb url: %w", err)
	}
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	if c.language != "" {
		params.Set("language", c.language)
	}
	for key, values := range extra {
		for _, v := range values {
			params.Add(key, v)
		}
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb %s returned %d (latency=%v)", label, resp.StatusCode, latency)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode tmdb %s response: %w", label, err)
	}
	return nil
}

// SearchMovie returns the first movie result for the query, or nil when
// nothing matched.
func (c *Client) SearchMovie(ctx context.Context, query string) (*Result, error) {
	return c.search(ctx, "/search/movie", "movie search", query)
}

// SearchTV returns the first TV result for the query, or nil when nothing
// matched.
func (c *Client) SearchTV(ctx context.Context, query string) (*Result, error) {
	return c.search(ctx, "/search/tv", "tv search", query)
}

func (c *Client) search(ctx context.Context, path, label, query string) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	params := url.Values{}
	params.Set("query", query)
	params.Set("include_adult", "false")

	var payload searchResponse
	if err := c.get(ctx, path, params, label, &payload); err != nil {
		return nil, err
	}
	if len(payload.Results) == 0 {
		return nil, nil
	}
	first := payload.Results[0]
	return &first, nil
}

// MovieVideos lists the videos attached to a movie.
func (c *Client) MovieVideos(ctx context.Context, movieID int64) ([]Video, error) {
	if movieID <= 0 {
		return nil, errors.New("movie id must be positive")
	}
	var payload videosResponse
	err := c.get(ctx, fmt.Sprintf("/movie/%d/videos", movieID), nil, "movie videos", &payload)
	if err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// TVVideos lists the videos attached to a TV show.
func (c *Client) TVVideos(ctx context.Context, showID int64) ([]Video, error) {
	if showID <= 0 {
		return nil, errors.New("show id must be positive")
	}
	var payload videosResponse
	err := c.get(ctx, fmt.Sprintf("/tv/%d/videos", showID), nil, "tv videos", &payload)
	if err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// TestConnection verifies the API key by fetching the TMDB configuration.
func (c *Client) TestConnection(ctx context.Context) error {
	var payload struct {
		Images map[string]any `json:"images"`
	}
	return c.get(ctx, "/configuration", nil, "configuration", &payload)
}

// ImageURL builds the CDN URL for an image path at the given size. Returns
// an empty string when the path is empty.
func ImageURL(path, size string) string {
	if path == "" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return imageBaseURL + "/" + size + path
}
