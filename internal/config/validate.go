package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. Missing credentials are a
// startup-fatal condition; nothing runs with an incomplete config.
func (c *Config) Validate() error {
	if err := c.validateWordPress(); err != nil {
		return err
	}
	if err := c.validateGemini(); err != nil {
		return err
	}
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateOptimizer(); err != nil {
		return err
	}
	if err := c.validateScheduler(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWordPress() error {
	if c.WordPress.URL == "" {
		return errors.New("wordpress.url is required. Set SEOPRESS_WORDPRESS_URL or edit the config file (create with 'seopress config init')")
	}
	if !strings.HasPrefix(c.WordPress.URL, "http://") && !strings.HasPrefix(c.WordPress.URL, "https://") {
		return errors.New("wordpress.url must start with http:// or https://")
	}
	if c.WordPress.Username == "" {
		return errors.New("wordpress.username is required")
	}
	if c.WordPress.Password == "" {
		return errors.New("wordpress.password is required. Set SEOPRESS_WORDPRESS_PASSWORD to avoid storing it in the config file")
	}
	if c.WordPress.Domain == "" {
		return errors.New("wordpress.domain is required (used to build internal link anchors)")
	}
	if c.WordPress.AuthorID <= 0 {
		return errors.New("wordpress.author_id must be positive")
	}
	if c.WordPress.LookbackHours <= 0 {
		return errors.New("wordpress.lookback_hours must be positive")
	}
	if c.WordPress.PageSize <= 0 || c.WordPress.PageSize > 100 {
		return errors.New("wordpress.page_size must be between 1 and 100")
	}
	return nil
}

func (c *Config) validateGemini() error {
	if len(c.Gemini.APIKeys) == 0 {
		return errors.New("gemini.api_keys must contain at least one key. Set GEMINI_API_KEYS (comma separated) or edit the config file")
	}
	for i, key := range c.Gemini.APIKeys {
		if len(key) < 12 {
			return fmt.Errorf("gemini.api_keys[%d] is too short to be a valid key", i)
		}
	}
	if c.Gemini.Model == "" {
		return errors.New("gemini.model must be set")
	}
	if c.Gemini.Temperature < 0 || c.Gemini.Temperature > 2 {
		return errors.New("gemini.temperature must be between 0 and 2")
	}
	if c.Gemini.MaxOutputTokens <= 0 {
		return errors.New("gemini.max_output_tokens must be positive")
	}
	if c.Gemini.DailyRequestCap <= 0 {
		return errors.New("gemini.daily_request_cap must be positive")
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if c.TMDB.APIKey == "" {
		return errors.New("tmdb.api_key is required. Set TMDB_API_KEY or edit the config file")
	}
	if c.TMDB.BaseURL == "" {
		return errors.New("tmdb.base_url must be set")
	}
	return nil
}

func (c *Config) validateOptimizer() error {
	if err := ensurePositiveMap(map[string]int{
		"optimizer.batch_size":            c.Optimizer.BatchSize,
		"optimizer.post_delay_seconds":    c.Optimizer.PostDelaySeconds,
		"optimizer.retries_per_key":       c.Optimizer.RetriesPerKey,
		"optimizer.retry_delay_seconds":   c.Optimizer.RetryDelaySeconds,
		"optimizer.quota_backoff_seconds": c.Optimizer.QuotaBackoffSeconds,
		"optimizer.lease_minutes":         c.Optimizer.LeaseMinutes,
	}); err != nil {
		return err
	}
	if c.Optimizer.BatchSize > 5 {
		return errors.New("optimizer.batch_size must not exceed 5 (upstream rate safety)")
	}
	return nil
}

func (c *Config) validateScheduler() error {
	return ensurePositiveMap(map[string]int{
		"scheduler.interval_minutes":   c.Scheduler.IntervalMinutes,
		"scheduler.lock_stale_minutes": c.Scheduler.LockStaleMinutes,
	})
}

func ensurePositiveMap(values map[string]int) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
