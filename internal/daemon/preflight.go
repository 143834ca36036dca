package daemon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ConnectionTester verifies an upstream service answers with valid
// credentials.
type ConnectionTester interface {
	TestConnection(ctx context.Context) error
}

const preflightTimeout = 30 * time.Second

// Preflight checks both upstream services before the scheduler starts.
// It aggregates failures so the operator sees every broken dependency at
// once.
func Preflight(ctx context.Context, wordpress, tmdb ConnectionTester, apiKeyCount int) error {
	ctx, cancel := context.WithTimeout(ctx, preflightTimeout)
	defer cancel()

	var failures []string
	if apiKeyCount < 1 {
		failures = append(failures, "no gemini api keys configured")
	}
	if err := wordpress.TestConnection(ctx); err != nil {
		failures = append(failures, fmt.Sprintf("wordpress unreachable: %v", err))
	}
	if err := tmdb.TestConnection(ctx); err != nil {
		failures = append(failures, fmt.Sprintf("tmdb unreachable: %v", err))
	}
	if len(failures) > 0 {
		return errors.New("preflight failed: " + strings.Join(failures, "; "))
	}
	return nil
}
