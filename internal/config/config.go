package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// WordPress contains connection settings for the content backend.
type WordPress struct {
	URL           string `toml:"url"`
	Username      string `toml:"username"`
	Password      string `toml:"password"`
	Domain        string `toml:"domain"`
	AuthorID      int64  `toml:"author_id"`
	LookbackHours int    `toml:"lookback_hours"`
	PageSize      int    `toml:"page_size"`
}

// Gemini contains settings for the generative service.
type Gemini struct {
	APIKeys         []string `toml:"api_keys"`
	Model           string   `toml:"model"`
	Temperature     float64  `toml:"temperature"`
	MaxOutputTokens int      `toml:"max_output_tokens"`
	DailyRequestCap int      `toml:"daily_request_cap"`
}

// TMDB contains configuration for The Movie Database API.
type TMDB struct {
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Language string `toml:"language"`
}

// Categories maps WordPress category identifiers to search biases.
type Categories struct {
	MoviesID int64 `toml:"movies_id"`
	TVID     int64 `toml:"tv_id"`
}

// Optimizer contains batch and retry tuning for the optimization cycle.
type Optimizer struct {
	BatchSize           int `toml:"batch_size"`
	PostDelaySeconds    int `toml:"post_delay_seconds"`
	RetriesPerKey       int `toml:"retries_per_key"`
	RetryDelaySeconds   int `toml:"retry_delay_seconds"`
	QuotaBackoffSeconds int `toml:"quota_backoff_seconds"`
	LeaseMinutes        int `toml:"lease_minutes"`
}

// Scheduler contains daemon cadence settings.
type Scheduler struct {
	IntervalMinutes  int `toml:"interval_minutes"`
	LockStaleMinutes int `toml:"lock_stale_minutes"`
}

// Dashboard contains settings for the local HTTP dashboard.
type Dashboard struct {
	Bind string `toml:"bind"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for seopress.
//
// Configuration sections by subsystem:
//   - Paths: state and log directories
//   - WordPress: content backend connection and author selection
//   - Gemini: generative service keys and generation parameters
//   - TMDB: media catalog connection
//   - Categories: category ids that bias media search order
//   - Optimizer: batch size, retry budgets, lease window
//   - Scheduler: daemon run interval and lock staleness
//   - Dashboard: local HTTP bind address
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	WordPress  WordPress  `toml:"wordpress"`
	Gemini     Gemini     `toml:"gemini"`
	TMDB       TMDB       `toml:"tmdb"`
	Categories Categories `toml:"categories"`
	Optimizer  Optimizer  `toml:"optimizer"`
	Scheduler  Scheduler  `toml:"scheduler"`
	Dashboard  Dashboard  `toml:"dashboard"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/seopress/config.toml")
}

// Load locates, parses, and validates a configuration file. Secrets missing
// from the file are overlaid from the environment (a .env file is honored
// when present). The returned config has all path fields expanded.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvironment()

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// applyEnvironment overlays secrets from the process environment so the TOML
// file never has to hold credentials. Environment values win over file values.
func (c *Config) applyEnvironment() {
	_ = godotenv.Load()

	if v := strings.TrimSpace(os.Getenv("SEOPRESS_WORDPRESS_URL")); v != "" {
		c.WordPress.URL = v
	}
	if v := strings.TrimSpace(os.Getenv("SEOPRESS_WORDPRESS_USERNAME")); v != "" {
		c.WordPress.Username = v
	}
	if v := strings.TrimSpace(os.Getenv("SEOPRESS_WORDPRESS_PASSWORD")); v != "" {
		c.WordPress.Password = v
	}
	if v := strings.TrimSpace(os.Getenv("SEOPRESS_WORDPRESS_DOMAIN")); v != "" {
		c.WordPress.Domain = v
	}
	if v := strings.TrimSpace(os.Getenv("GEMINI_API_KEYS")); v != "" {
		keys := make([]string, 0, 4)
		for _, key := range strings.Split(v, ",") {
			if key = strings.TrimSpace(key); key != "" {
				keys = append(keys, key)
			}
		}
		if len(keys) > 0 {
			c.Gemini.APIKeys = keys
		}
	}
	if v := strings.TrimSpace(os.Getenv("TMDB_API_KEY")); v != "" {
		c.TMDB.APIKey = v
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("seopress.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
