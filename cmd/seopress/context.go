package main

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"seopress/internal/config"
	"seopress/internal/gemini"
	"seopress/internal/logging"
	"seopress/internal/media"
	"seopress/internal/optimizer"
	"seopress/internal/outcome"
	"seopress/internal/quota"
	"seopress/internal/tmdb"
	"seopress/internal/wordpress"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolvedPath, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolvedPath
	})
	return c.config, c.configErr
}

// services bundles the wired dependency graph behind the commands.
type services struct {
	cfg       *config.Config
	logger    *slog.Logger
	wordpress *wordpress.Client
	tmdb      *tmdb.Client
	store     *outcome.Store
	ledger    *quota.Ledger
	optimizer *optimizer.Optimizer
}

func (s *services) Close() {
	if s.store != nil {
		_ = s.store.Close()
	}
	if s.ledger != nil {
		_ = s.ledger.Close()
	}
}

func (c *commandContext) buildServices() (*services, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	wpClient, err := wordpress.New(cfg.WordPress.URL, cfg.WordPress.Username, cfg.WordPress.Password)
	if err != nil {
		return nil, err
	}
	tmdbClient, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language)
	if err != nil {
		return nil, err
	}
	store, err := outcome.Open(filepath.Join(cfg.Paths.StateDir, "outcomes.db"))
	if err != nil {
		return nil, err
	}
	ledger, err := quota.OpenLedger(filepath.Join(cfg.Paths.StateDir, "quota.db"), cfg.Gemini.DailyRequestCap, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	finder := media.NewFinder(tmdbClient, cfg.Categories.MoviesID, cfg.Categories.TVID, logger)
	generator := gemini.NewClient(cfg.Gemini.Model, cfg.Gemini.Temperature, cfg.Gemini.MaxOutputTokens)
	opt := optimizer.New(cfg, wpClient, finder, generator, ledger, store, logger)

	return &services{
		cfg:       cfg,
		logger:    logger,
		wordpress: wpClient,
		tmdb:      tmdbClient,
		store:     store,
		ledger:    ledger,
		optimizer: opt,
	}, nil
}
