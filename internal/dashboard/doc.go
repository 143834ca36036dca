// Package dashboard serves the web UI and JSON API for monitoring
// optimization history, pending posts, quota consumption, and upstream
// health, plus a manual per-post optimization trigger.
package dashboard
