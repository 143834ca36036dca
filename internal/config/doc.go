// Package config loads, validates, and normalizes the seopress configuration
// from its TOML file, with secrets optionally overlaid from the environment.
package config
