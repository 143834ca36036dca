// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"seopress/internal/config"
	"seopress/internal/outcome"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories and
// dummy credentials per test. It applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.WordPress.URL = "https://example.com"
	cfg.WordPress.Username = "editor"
	cfg.WordPress.Password = "app password"
	cfg.WordPress.Domain = "example.com"
	cfg.Gemini.APIKeys = []string{"AIzaSyTESTKEY0000000001"}
	cfg.TMDB.APIKey = "test"
	cfg.Dashboard.Bind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithAPIKeys overrides the Gemini keys on the test config.
func WithAPIKeys(keys ...string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Gemini.APIKeys = keys
	}
}

// MustOpenStore opens an outcome.Store in the config state dir and
// registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *outcome.Store {
	t.Helper()

	store, err := outcome.Open(filepath.Join(cfg.Paths.StateDir, "outcomes.db"))
	if err != nil {
		t.Fatalf("outcome.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
