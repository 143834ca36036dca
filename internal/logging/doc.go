// Package logging builds the shared slog logger (console or JSON output)
// and provides the standardized attribute helpers used across components.
package logging
