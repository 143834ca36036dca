package optimizer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"seopress/internal/config"
	"seopress/internal/gemini"
	"seopress/internal/logging"
	"seopress/internal/media"
	"seopress/internal/quota"
	"seopress/internal/wordpress"
)

// PostClient is the WordPress surface the optimizer needs.
type PostClient interface {
	ListPostsByAuthor(ctx context.Context, authorID int64, since time.Time, perPage int) ([]wordpress.Post, error)
	GetPost(ctx context.Context, id int64) (*wordpress.Post, error)
	UpdatePost(ctx context.Context, id int64, title, excerpt, content string) error
}

// MediaFinder resolves the media bundle for a post.
type MediaFinder interface {
	FindForPost(ctx context.Context, post wordpress.Post) media.Bundle
}

// Ledger is the quota surface the optimizer needs.
type Ledger interface {
	CanUse(ctx context.Context, apiKey string) bool
	RecordUse(ctx context.Context, apiKey string) error
}

// Outcomes is the history surface the optimizer needs.
type Outcomes interface {
	MarkProcessing(ctx context.Context, postID int64, title, cycleID string, lease time.Duration) (bool, error)
	MarkSuccess(ctx context.Context, postID int64, cycleID string) error
	MarkFailed(ctx context.Context, postID int64, cycleID, reason string) error
	ReclaimStale(ctx context.Context) (int64, error)
	FilterCandidates(ctx context.Context, postIDs []int64) ([]int64, error)
}

// CycleReport summarizes one optimization cycle.
type CycleReport struct {
	CycleID    string
	Candidates int
	Eligible   int
	Attempted  int
	Succeeded  int
	Failed     int
	Skipped    int
}

// Optimizer drives optimization cycles.
type Optimizer struct {
	cfg       *config.Config
	posts     PostClient
	finder    MediaFinder
	generator gemini.Generator
	ledger    Ledger
	outcomes  Outcomes
	logger    *slog.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates an Optimizer.
func New(cfg *config.Config, posts PostClient, finder MediaFinder, generator gemini.Generator, ledger Ledger, outcomes Outcomes, logger *slog.Logger) *Optimizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Optimizer{
		cfg:       cfg,
		posts:     posts,
		finder:    finder,
		generator: generator,
		ledger:    ledger,
		outcomes:  outcomes,
		logger:    logging.NewComponentLogger(logger, "optimizer"),
		now:       time.Now,
		sleep:     sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunCycle executes one full optimization cycle.
func (o *Optimizer) RunCycle(ctx context.Context) (CycleReport, error) {
	report := CycleReport{CycleID: uuid.NewString()}
	logger := o.logger.With(logging.String(logging.FieldCycleID, report.CycleID))

	if reclaimed, err := o.outcomes.ReclaimStale(ctx); err != nil {
		logger.Warn("stale lease reclaim failed", logging.Error(err))
	} else if reclaimed > 0 {
		logger.Info("reclaimed stale leases", logging.Int64("count", reclaimed))
	}

	since := o.now().Add(-time.Duration(o.cfg.WordPress.LookbackHours) * time.Hour)
	posts, err := o.posts.ListPostsByAuthor(ctx, o.cfg.WordPress.AuthorID, since, o.cfg.WordPress.PageSize)
	if err != nil {
		return report, fmt.Errorf("list posts: %w", err)
	}
	report.Candidates = len(posts)

	ids := make([]int64, len(posts))
	byID := make(map[int64]wordpress.Post, len(posts))
	for i, post := range posts {
		ids[i] = post.ID
		byID[post.ID] = post
	}
	eligible, err := o.outcomes.FilterCandidates(ctx, ids)
	if err != nil {
		return report, fmt.Errorf("filter candidates: %w", err)
	}
	report.Eligible = len(eligible)

	if len(eligible) > o.cfg.Optimizer.BatchSize {
		eligible = eligible[:o.cfg.Optimizer.BatchSize]
	}
	logger.Info("cycle starting",
		logging.Int("candidates", report.Candidates),
		logging.Int("eligible", report.Eligible),
		logging.Int("batch", len(eligible)))

	// One rotation per cycle: a key abandoned for quota is not retried
	// for later posts in the same cycle.
	rotation := quota.NewRotation(o.cfg.Gemini.APIKeys)

	for i, id := range eligible {
		if i > 0 {
			delay := time.Duration(o.cfg.Optimizer.PostDelaySeconds) * time.Second
			if err := o.sleep(ctx, delay); err != nil {
				return report, err
			}
		}
		report.Attempted++
		switch o.optimizePost(ctx, logger, byID[id], rotation, report.CycleID) {
		case resultSuccess:
			report.Succeeded++
		case resultFailed:
			report.Failed++
		case resultSkipped:
			report.Attempted--
			report.Skipped++
		}
	}

	logger.Info("cycle finished",
		logging.Int("attempted", report.Attempted),
		logging.Int("succeeded", report.Succeeded),
		logging.Int("failed", report.Failed),
		logging.Int("skipped", report.Skipped))
	return report, nil
}

// OptimizeOne runs the pipeline for a single post, bypassing candidate
// discovery. Used by the CLI and the dashboard's manual trigger.
func (o *Optimizer) OptimizeOne(ctx context.Context, postID int64) error {
	post, err := o.posts.GetPost(ctx, postID)
	if err != nil {
		return fmt.Errorf("fetch post %d: %w", postID, err)
	}
	if post == nil {
		return fmt.Errorf("post %d not found", postID)
	}
	cycleID := uuid.NewString()
	logger := o.logger.With(logging.String(logging.FieldCycleID, cycleID))
	rotation := quota.NewRotation(o.cfg.Gemini.APIKeys)
	switch o.optimizePost(ctx, logger, *post, rotation, cycleID) {
	case resultSuccess:
		return nil
	case resultSkipped:
		return fmt.Errorf("post %d is already optimized or leased", postID)
	default:
		return fmt.Errorf("post %d failed to optimize", postID)
	}
}

type postResult int

const (
	resultSuccess postResult = iota
	resultFailed
	resultSkipped
)

func (o *Optimizer) optimizePost(ctx context.Context, logger *slog.Logger, post wordpress.Post, rotation *quota.Rotation, cycleID string) postResult {
	logger = logger.With(logging.Int64(logging.FieldPostID, post.ID))

	lease := time.Duration(o.cfg.Optimizer.LeaseMinutes) * time.Minute
	leased, err := o.outcomes.MarkProcessing(ctx, post.ID, post.Title, cycleID, lease)
	if err != nil {
		logger.Error("lease failed", logging.Error(err))
		return resultFailed
	}
	if !leased {
		logger.Info("post already optimized or leased, skipping")
		return resultSkipped
	}

	fail := func(reason string) postResult {
		logger.Warn("post failed",
			logging.String(logging.FieldEventType, "post_failed"),
			logging.String("reason", reason))
		if markErr := o.outcomes.MarkFailed(ctx, post.ID, cycleID, reason); markErr != nil {
			logger.Error("record failure", logging.Error(markErr))
		}
		return resultFailed
	}

	if post.Excerpt == "" {
		logger.Info("post has no excerpt, continuing with empty summary")
	}

	bundle := o.finder.FindForPost(ctx, post)
	prompt := gemini.BuildPrompt(gemini.Input{
		Title:   post.Title,
		Excerpt: post.Excerpt,
		Content: post.Content,
		Tags:    post.Tags,
		Domain:  o.cfg.WordPress.Domain,
		Media:   bundle,
	})

	rewrite, reason := o.generate(ctx, logger, prompt, rotation)
	if rewrite == nil {
		return fail(reason)
	}

	if err := o.posts.UpdatePost(ctx, post.ID, rewrite.Title, rewrite.Excerpt, rewrite.Content); err != nil {
		return fail(fmt.Sprintf("upstream: wordpress update failed: %v", err))
	}
	if err := o.outcomes.MarkSuccess(ctx, post.ID, cycleID); err != nil {
		logger.Error("record success", logging.Error(err))
	}
	logger.Info("post optimized",
		logging.Int("images", len(bundle.Images)),
		logging.Int("trailers", len(bundle.Trailers)))
	return resultSuccess
}

// generate walks the key rotation until one key produces a parsable
// reply. The returned reason is only meaningful when the rewrite is nil.
func (o *Optimizer) generate(ctx context.Context, logger *slog.Logger, prompt string, rotation *quota.Rotation) (*gemini.Rewrite, string) {
	retryDelay := time.Duration(o.cfg.Optimizer.RetryDelaySeconds) * time.Second
	quotaBackoff := time.Duration(o.cfg.Optimizer.QuotaBackoffSeconds) * time.Second
	reason := "quota: all api keys exhausted (invalid credentials or daily quota spent)"

	for {
		key, ok := rotation.Current()
		if !ok {
			return nil, reason
		}
		keyLogger := logger.With(
			logging.String(logging.FieldCredential, quota.CredentialID(key)),
			logging.Int("key_index", rotation.Index()))

		if !o.ledger.CanUse(ctx, key) {
			keyLogger.Warn("local quota exhausted, rotating key",
				logging.String(logging.FieldEventType, "local_quota_exhausted"),
				logging.String(logging.FieldErrorHint, "Daily request cap reached for this key; add keys or wait for the next day"))
			rotation.Advance()
			continue
		}

		for attempt := 1; attempt <= o.cfg.Optimizer.RetriesPerKey; attempt++ {
			if ctx.Err() != nil {
				return nil, fmt.Sprintf("upstream: %v", ctx.Err())
			}
			keyLogger.Info("generating rewrite",
				logging.Int("attempt", attempt),
				logging.Int("max_attempts", o.cfg.Optimizer.RetriesPerKey))

			text, err := o.generator.Generate(ctx, key, prompt)
			if err != nil {
				if gemini.IsQuotaError(err) {
					wait := quotaBackoff
					if suggested, ok := gemini.RetryDelay(err); ok {
						wait = suggested
					}
					keyLogger.Warn("api quota exceeded, rotating key",
						logging.String(logging.FieldEventType, "gemini_quota_exceeded"),
						logging.String(logging.FieldErrorHint, "Provider rejected the key for quota; verify the key is valid and its daily limit"),
						logging.Duration("wait", wait), logging.Error(err))
					if sleepErr := o.sleep(ctx, wait); sleepErr != nil {
						return nil, fmt.Sprintf("upstream: %v", sleepErr)
					}
					break
				}
				reason = fmt.Sprintf("upstream: generation failed: %v", err)
				keyLogger.Warn("generation attempt failed", logging.Error(err))
				if attempt < o.cfg.Optimizer.RetriesPerKey {
					if sleepErr := o.sleep(ctx, retryDelay); sleepErr != nil {
						return nil, fmt.Sprintf("upstream: %v", sleepErr)
					}
				}
				continue
			}

			rewrite := gemini.ParseReply(text)
			if rewrite != nil {
				if recordErr := o.ledger.RecordUse(ctx, key); recordErr != nil {
					keyLogger.Warn("quota record failed", logging.Error(recordErr))
				}
				return rewrite, ""
			}

			// Re-parsing the same text cannot succeed; retry the generation.
			reason = "parse: reply missing required sections"
			keyLogger.Warn("reply failed to parse", logging.Int("attempt", attempt))
			if attempt < o.cfg.Optimizer.RetriesPerKey {
				if sleepErr := o.sleep(ctx, retryDelay); sleepErr != nil {
					return nil, fmt.Sprintf("upstream: %v", sleepErr)
				}
			}
		}
		rotation.Advance()
	}
}
