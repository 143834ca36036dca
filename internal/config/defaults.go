package config

const (
	defaultStateDir            = "~/.local/share/seopress/state"
	defaultLogDir              = "~/.local/share/seopress/logs"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultTMDBBaseURL         = "https://api.themoviedb.org/3"
	defaultTMDBLanguage        = "pt-BR"
	defaultGeminiModel         = "gemini-1.5-flash"
	defaultGeminiTemperature   = 0.3
	defaultGeminiMaxTokens     = 4000
	defaultDailyRequestCap     = 45
	defaultAuthorID            = 6
	defaultLookbackHours       = 24
	defaultPageSize            = 10
	defaultMoviesCategoryID    = 24
	defaultTVCategoryID        = 21
	defaultBatchSize           = 3
	defaultPostDelaySeconds    = 30
	defaultRetriesPerKey       = 3
	defaultRetryDelaySeconds   = 5
	defaultQuotaBackoffSeconds = 60
	defaultLeaseMinutes        = 60
	defaultIntervalMinutes     = 30
	defaultLockStaleMinutes    = 120
	defaultDashboardBind       = "127.0.0.1:5600"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		WordPress: WordPress{
			AuthorID:      defaultAuthorID,
			LookbackHours: defaultLookbackHours,
			PageSize:      defaultPageSize,
		},
		Gemini: Gemini{
			Model:           defaultGeminiModel,
			Temperature:     defaultGeminiTemperature,
			MaxOutputTokens: defaultGeminiMaxTokens,
			DailyRequestCap: defaultDailyRequestCap,
		},
		TMDB: TMDB{
			BaseURL:  defaultTMDBBaseURL,
			Language: defaultTMDBLanguage,
		},
		Categories: Categories{
			MoviesID: defaultMoviesCategoryID,
			TVID:     defaultTVCategoryID,
		},
		Optimizer: Optimizer{
			BatchSize:           defaultBatchSize,
			PostDelaySeconds:    defaultPostDelaySeconds,
			RetriesPerKey:       defaultRetriesPerKey,
			RetryDelaySeconds:   defaultRetryDelaySeconds,
			QuotaBackoffSeconds: defaultQuotaBackoffSeconds,
			LeaseMinutes:        defaultLeaseMinutes,
		},
		Scheduler: Scheduler{
			IntervalMinutes:  defaultIntervalMinutes,
			LockStaleMinutes: defaultLockStaleMinutes,
		},
		Dashboard: Dashboard{
			Bind: defaultDashboardBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
