package dashboard

import (
	"context"
	_ "embed"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"seopress/internal/config"
	"seopress/internal/logging"
	"seopress/internal/outcome"
	"seopress/internal/quota"
	"seopress/internal/wordpress"
)

//go:embed dashboard.html
var dashboardHTML string

// Optimizer triggers optimization of a single post.
type Optimizer interface {
	OptimizeOne(ctx context.Context, postID int64) error
}

// History is the outcome-store surface the dashboard reads.
type History interface {
	Recent(ctx context.Context, limit int) ([]outcome.Outcome, error)
	Metrics(ctx context.Context, days int) ([]outcome.DailyMetric, error)
	Summarize(ctx context.Context) (outcome.Summary, error)
	FilterCandidates(ctx context.Context, postIDs []int64) ([]int64, error)
}

// PostLister lists recent author posts from WordPress.
type PostLister interface {
	ListPostsByAuthor(ctx context.Context, authorID int64, since time.Time, perPage int) ([]wordpress.Post, error)
}

// UsageReader reports quota ledger consumption.
type UsageReader interface {
	Usage(ctx context.Context) ([]quota.KeyUsage, error)
	DailyCap() int
}

// ConnectionTester verifies an upstream service is reachable.
type ConnectionTester interface {
	TestConnection(ctx context.Context) error
}

// Server hosts the dashboard HTTP endpoints.
type Server struct {
	cfg       *config.Config
	history   History
	posts     PostLister
	optimizer Optimizer
	usage     UsageReader
	wordpress ConnectionTester
	tmdb      ConnectionTester
	logger    *slog.Logger
	engine    *gin.Engine
}

// New assembles the dashboard server and its routes.
func New(cfg *config.Config, history History, posts PostLister, opt Optimizer, usage UsageReader, wp, tmdb ConnectionTester, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		cfg:       cfg,
		history:   history,
		posts:     posts,
		optimizer: opt,
		usage:     usage,
		wordpress: wp,
		tmdb:      tmdb,
		logger:    logging.NewComponentLogger(logger, "dashboard"),
		engine:    engine,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/", s.handleIndex)
	api := s.engine.Group("/api")
	api.GET("/dashboard-data", s.handleDashboardData)
	api.GET("/pending-posts", s.handlePendingPosts)
	api.POST("/optimize-post/:id", s.handleOptimizePost)
	api.GET("/system-status", s.handleSystemStatus)
}

// Handler exposes the router for serving and for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves the dashboard on the configured bind address until the
// context is canceled.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Dashboard.Bind,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	s.logger.Info("dashboard listening", logging.String("bind", s.cfg.Dashboard.Bind))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, dashboardHTML)
}

type recentEntry struct {
	PostID int64  `json:"post_id"`
	Title  string `json:"title"`
	Status string `json:"status"`
	Date   string `json:"date"`
	Error  string `json:"error,omitempty"`
}

type metricEntry struct {
	Date      string `json:"date"`
	Optimized int    `json:"optimized"`
	Failed    int    `json:"failed"`
}

func (s *Server) handleDashboardData(c *gin.Context) {
	ctx := c.Request.Context()

	recent, err := s.history.Recent(ctx, 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics, err := s.history.Metrics(ctx, 7)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	summary, err := s.history.Summarize(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	recentOut := make([]recentEntry, 0, len(recent))
	for _, o := range recent {
		recentOut = append(recentOut, recentEntry{
			PostID: o.PostID,
			Title:  o.PostTitle,
			Status: o.Status,
			Date:   o.UpdatedAt.Format(time.RFC3339),
			Error:  o.Reason,
		})
	}
	metricsOut := make([]metricEntry, 0, len(metrics))
	for _, m := range metrics {
		metricsOut = append(metricsOut, metricEntry{Date: m.Day, Optimized: m.Optimized, Failed: m.Failed})
	}

	total := summary.TotalOptimized + summary.TotalFailed + summary.Processing
	successRate := 0.0
	if total > 0 {
		successRate = float64(summary.TotalOptimized) / float64(total) * 100
	}
	c.JSON(http.StatusOK, gin.H{
		"recent_optimizations": recentOut,
		"weekly_metrics":       metricsOut,
		"summary": gin.H{
			"total_posts":     total,
			"optimized_posts": summary.TotalOptimized,
			"failed_posts":    summary.TotalFailed,
			"success_rate":    successRate,
		},
	})
}

type pendingPost struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
	Link  string `json:"link"`
}

func (s *Server) handlePendingPosts(c *gin.Context) {
	ctx := c.Request.Context()
	since := time.Now().Add(-time.Duration(s.cfg.WordPress.LookbackHours) * time.Hour)

	posts, err := s.posts.ListPostsByAuthor(ctx, s.cfg.WordPress.AuthorID, since, s.cfg.WordPress.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ids := make([]int64, len(posts))
	byID := make(map[int64]wordpress.Post, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		byID[p.ID] = p
	}
	eligible, err := s.history.FilterCandidates(ctx, ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	pending := make([]pendingPost, 0, len(eligible))
	for _, id := range eligible {
		p := byID[id]
		pending = append(pending, pendingPost{ID: p.ID, Title: p.Title, Date: p.Date, Link: p.Link})
	}
	c.JSON(http.StatusOK, pending)
}

func (s *Server) handleOptimizePost(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || postID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}

	if err := s.optimizer.OptimizeOne(c.Request.Context(), postID); err != nil {
		status := http.StatusInternalServerError
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		s.logger.Warn("manual optimization failed",
			logging.Int64(logging.FieldPostID, postID), logging.Error(err))
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Post optimized successfully"})
}

func (s *Server) handleSystemStatus(c *gin.Context) {
	ctx := c.Request.Context()

	wpOK := s.wordpress.TestConnection(ctx) == nil
	tmdbOK := s.tmdb.TestConnection(ctx) == nil

	usage, err := s.usage.Usage(ctx)
	if err != nil {
		s.logger.Warn("quota usage read failed", logging.Error(err))
	}
	keys := make([]gin.H, 0, len(usage))
	for _, u := range usage {
		keys = append(keys, gin.H{
			"credential": u.CredentialID,
			"requests":   u.Requests,
			"cap":        s.usage.DailyCap(),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"wordpress": wpOK,
		"tmdb":      tmdbOK,
		"quota":     keys,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
