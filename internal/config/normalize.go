package config

import (
	"strings"
)

// normalize expands paths and trims string settings so validation and
// consumers can rely on canonical values.
func (c *Config) normalize() error {
	var err error
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return err
	}

	c.WordPress.URL = strings.TrimRight(strings.TrimSpace(c.WordPress.URL), "/")
	c.WordPress.Username = strings.TrimSpace(c.WordPress.Username)
	c.WordPress.Password = strings.TrimSpace(c.WordPress.Password)
	c.WordPress.Domain = strings.TrimSpace(c.WordPress.Domain)
	c.WordPress.Domain = strings.TrimPrefix(c.WordPress.Domain, "https://")
	c.WordPress.Domain = strings.TrimPrefix(c.WordPress.Domain, "http://")
	c.WordPress.Domain = strings.TrimRight(c.WordPress.Domain, "/")

	keys := make([]string, 0, len(c.Gemini.APIKeys))
	for _, key := range c.Gemini.APIKeys {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	c.Gemini.APIKeys = keys
	c.Gemini.Model = strings.TrimSpace(c.Gemini.Model)

	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	c.TMDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.TMDB.BaseURL), "/")
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)

	c.Dashboard.Bind = strings.TrimSpace(c.Dashboard.Bind)
	c.Logging.Format = strings.TrimSpace(c.Logging.Format)
	c.Logging.Level = strings.TrimSpace(c.Logging.Level)

	return nil
}
