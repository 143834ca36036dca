package media

import (
	"context"
	"fmt"
	"log/slog"

	"seopress/internal/extract"
	"seopress/internal/logging"
	"seopress/internal/tmdb"
	"seopress/internal/wordpress"
)

const maxTrailersPerMatch = 2

// Image is a poster or backdrop resolved for a matched title.
type Image struct {
	URL   string
	Alt   string
	Kind  string // "poster" or "backdrop"
	Title string
}

// Trailer is a YouTube trailer or teaser resolved for a matched title.
type Trailer struct {
	URL        string
	Title      string
	Kind       string // "Trailer" or "Teaser"
	YouTubeKey string
}

// Match records a TMDB hit for one search candidate.
type Match struct {
	Title  string
	Type   string // "movie" or "tv"
	TMDBID int64
}

// Bundle is everything media matching produced for a post.
type Bundle struct {
	Images   []Image
	Trailers []Trailer
	Matches  []Match
}

// Empty reports whether matching produced nothing usable.
func (b Bundle) Empty() bool {
	return len(b.Images) == 0 && len(b.Trailers) == 0 && len(b.Matches) == 0
}

// Finder matches posts against TMDB.
type Finder struct {
	searcher        tmdb.Searcher
	moviesCategory  int64
	tvCategory      int64
	logger          *slog.Logger
}

// NewFinder creates a Finder. The category IDs steer search order.
func NewFinder(searcher tmdb.Searcher, moviesCategoryID, tvCategoryID int64, logger *slog.Logger) *Finder {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Finder{
		searcher:       searcher,
		moviesCategory: moviesCategoryID,
		tvCategory:     tvCategoryID,
		logger:         logging.NewComponentLogger(logger, "media"),
	}
}

// FindForPost resolves the media bundle for a post. Search errors are
// logged and treated as misses so optimization can proceed without media.
func (f *Finder) FindForPost(ctx context.Context, post wordpress.Post) Bundle {
	isMovie, isTV := f.categoryHints(post.Categories)
	candidates := extract.Candidates(post.Title, post.Content)
	f.logger.Info("matching post against tmdb",
		logging.Int64(logging.FieldPostID, post.ID),
		logging.Any("candidates", candidates),
		logging.Bool("movie_category", isMovie),
		logging.Bool("tv_category", isTV))

	var bundle Bundle
	for _, candidate := range candidates {
		movie, show := f.lookup(ctx, candidate, isMovie, isTV)
		switch {
		case movie != nil:
			f.appendMovie(ctx, &bundle, *movie)
		case show != nil:
			f.appendShow(ctx, &bundle, *show)
		}
	}
	return bundle
}

func (f *Finder) categoryHints(categories []wordpress.Category) (isMovie, isTV bool) {
	for _, cat := range categories {
		if cat.ID == f.moviesCategory {
			isMovie = true
		}
		if cat.ID == f.tvCategory {
			isTV = true
		}
	}
	return isMovie, isTV
}

// lookup runs movie and TV search in the order the category hints dictate.
func (f *Finder) lookup(ctx context.Context, candidate string, isMovie, isTV bool) (movie, show *tmdb.Result) {
	switch {
	case isMovie:
		movie = f.searchMovie(ctx, candidate)
		if movie == nil && !isTV {
			show = f.searchTV(ctx, candidate)
		}
	case isTV:
		show = f.searchTV(ctx, candidate)
		if show == nil {
			movie = f.searchMovie(ctx, candidate)
		}
	default:
		movie = f.searchMovie(ctx, candidate)
		if movie == nil {
			show = f.searchTV(ctx, candidate)
		}
	}
	return movie, show
}

func (f *Finder) searchMovie(ctx context.Context, query string) *tmdb.Result {
	result, err := f.searcher.SearchMovie(ctx, query)
	if err != nil {
		f.logger.Warn("movie search failed", logging.String("query", query), logging.Error(err))
		return nil
	}
	return result
}

func (f *Finder) searchTV(ctx context.Context, query string) *tmdb.Result {
	result, err := f.searcher.SearchTV(ctx, query)
	if err != nil {
		f.logger.Warn("tv search failed", logging.String("query", query), logging.Error(err))
		return nil
	}
	return result
}

func (f *Finder) appendMovie(ctx context.Context, bundle *Bundle, movie tmdb.Result) {
	title := movie.DisplayTitle()
	bundle.Matches = append(bundle.Matches, Match{Title: title, Type: "movie", TMDBID: movie.ID})
	appendImages(bundle, movie, fmt.Sprintf("Poster do filme %s", title), fmt.Sprintf("Imagem do filme %s", title), title)

	videos, err := f.searcher.MovieVideos(ctx, movie.ID)
	if err != nil {
		f.logger.Warn("movie videos failed", logging.Int64("tmdb_id", movie.ID), logging.Error(err))
		return
	}
	appendTrailers(bundle, title, videos)
}

func (f *Finder) appendShow(ctx context.Context, bundle *Bundle, show tmdb.Result) {
	title := show.DisplayTitle()
	bundle.Matches = append(bundle.Matches, Match{Title: title, Type: "tv", TMDBID: show.ID})
	appendImages(bundle, show, fmt.Sprintf("Poster da série %s", title), fmt.Sprintf("Imagem da série %s", title), title)

	videos, err := f.searcher.TVVideos(ctx, show.ID)
	if err != nil {
		f.logger.Warn("tv videos failed", logging.Int64("tmdb_id", show.ID), logging.Error(err))
		return
	}
	appendTrailers(bundle, title, videos)
}

func appendImages(bundle *Bundle, result tmdb.Result, posterAlt, backdropAlt, title string) {
	if result.PosterPath != "" {
		bundle.Images = append(bundle.Images, Image{
			URL:   tmdb.ImageURL(result.PosterPath, tmdb.PosterSize),
			Alt:   posterAlt,
			Kind:  "poster",
			Title: title,
		})
	}
	if result.BackdropPath != "" {
		bundle.Images = append(bundle.Images, Image{
			URL:   tmdb.ImageURL(result.BackdropPath, tmdb.BackdropSize),
			Alt:   backdropAlt,
			Kind:  "backdrop",
			Title: title,
		})
	}
}

// appendTrailers keeps YouTube trailers and teasers only, two per match.
func appendTrailers(bundle *Bundle, title string, videos []tmdb.Video) {
	kept := 0
	for _, video := range videos {
		if kept >= maxTrailersPerMatch {
			break
		}
		if video.Site != "YouTube" {
			continue
		}
		if video.Type != "Trailer" && video.Type != "Teaser" {
			continue
		}
		bundle.Trailers = append(bundle.Trailers, Trailer{
			URL:        "https://www.youtube.com/watch?v=" + video.Key,
			Title:      fmt.Sprintf("Trailer: %s - %s", title, video.Name),
			Kind:       video.Type,
			YouTubeKey: video.Key,
		})
		kept++
	}
}
