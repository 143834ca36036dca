package media_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"seopress/internal/media"
	"seopress/internal/tmdb"
	"seopress/internal/wordpress"
)

type fakeSearcher struct {
	movies map[string]*tmdb.Result
	shows  map[string]*tmdb.Result
	videos map[int64][]tmdb.Video
	err    error

	movieQueries []string
	tvQueries    []string
}

func (f *fakeSearcher) SearchMovie(_ context.Context, query string) (*tmdb.Result, error) {
	f.movieQueries = append(f.movieQueries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.movies[query], nil
}

func (f *fakeSearcher) SearchTV(_ context.Context, query string) (*tmdb.Result, error) {
	f.tvQueries = append(f.tvQueries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.shows[query], nil
}

func (f *fakeSearcher) MovieVideos(_ context.Context, id int64) ([]tmdb.Video, error) {
	return f.videos[id], nil
}

func (f *fakeSearcher) TVVideos(_ context.Context, id int64) ([]tmdb.Video, error) {
	return f.videos[id], nil
}

func tvPost() wordpress.Post {
	return wordpress.Post{
		ID:         101,
		Title:      "Stranger Things: tudo sobre os novos episódios",
		Content:    "<p>A série volta em 2026.</p>",
		Categories: []wordpress.Category{{ID: 21, Name: "Séries"}},
	}
}

func TestFindForPostTVCategorySearchesTVFirst(t *testing.T) {
	searcher := &fakeSearcher{
		shows: map[string]*tmdb.Result{
			"Stranger Things": {ID: 66732, Name: "Stranger Things", PosterPath: "/st.jpg", BackdropPath: "/st-bg.jpg"},
		},
		videos: map[int64][]tmdb.Video{
			66732: {
				{Key: "k1", Name: "Teaser Oficial", Site: "YouTube", Type: "Teaser"},
				{Key: "k2", Name: "Bastidores", Site: "YouTube", Type: "Featurette"},
				{Key: "k3", Name: "Trailer Final", Site: "YouTube", Type: "Trailer"},
				{Key: "k4", Name: "Trailer Vimeo", Site: "Vimeo", Type: "Trailer"},
				{Key: "k5", Name: "Outro Trailer", Site: "YouTube", Type: "Trailer"},
			},
		},
	}
	finder := media.NewFinder(searcher, 24, 21, nil)

	bundle := finder.FindForPost(context.Background(), tvPost())
	if len(searcher.tvQueries) == 0 {
		t.Fatal("expected TV search to run")
	}
	if len(searcher.movieQueries) != 0 {
		t.Fatalf("movie search should not run after TV hit, got %v", searcher.movieQueries)
	}
	if len(bundle.Matches) != 1 || bundle.Matches[0].Type != "tv" || bundle.Matches[0].TMDBID != 66732 {
		t.Fatalf("unexpected matches %#v", bundle.Matches)
	}
	if len(bundle.Images) != 2 {
		t.Fatalf("expected poster and backdrop, got %#v", bundle.Images)
	}
	if !strings.Contains(bundle.Images[0].URL, "/w500/st.jpg") {
		t.Errorf("poster URL = %q", bundle.Images[0].URL)
	}
	if !strings.Contains(bundle.Images[1].URL, "/w780/st-bg.jpg") {
		t.Errorf("backdrop URL = %q", bundle.Images[1].URL)
	}
	if len(bundle.Trailers) != 2 {
		t.Fatalf("expected 2 trailers, got %#v", bundle.Trailers)
	}
	// Featurette and Vimeo entries are filtered, third trailer is cut.
	if bundle.Trailers[0].YouTubeKey != "k1" || bundle.Trailers[1].YouTubeKey != "k3" {
		t.Fatalf("unexpected trailer keys %#v", bundle.Trailers)
	}
}

func TestFindForPostMovieCategoryFallsBackToNothing(t *testing.T) {
	searcher := &fakeSearcher{
		shows: map[string]*tmdb.Result{
			"John Wick": {ID: 1, Name: "John Wick"},
		},
	}
	finder := media.NewFinder(searcher, 24, 21, nil)

	post := wordpress.Post{
		ID:         102,
		Title:      "John Wick ganha continuação",
		Categories: []wordpress.Category{{ID: 24, Name: "Filmes"}},
	}
	bundle := finder.FindForPost(context.Background(), post)
	// Movie category without a TV category still tries TV as fallback.
	if len(searcher.tvQueries) == 0 {
		t.Fatal("expected TV fallback search")
	}
	if len(bundle.Matches) != 1 || bundle.Matches[0].Type != "tv" {
		t.Fatalf("unexpected matches %#v", bundle.Matches)
	}
}

func TestFindForPostSearchErrorsDegradeToEmptyBundle(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("tmdb unreachable")}
	finder := media.NewFinder(searcher, 24, 21, nil)

	bundle := finder.FindForPost(context.Background(), tvPost())
	if !bundle.Empty() {
		t.Fatalf("expected empty bundle, got %#v", bundle)
	}
}

func TestFindForPostNoCandidates(t *testing.T) {
	searcher := &fakeSearcher{}
	finder := media.NewFinder(searcher, 24, 21, nil)

	post := wordpress.Post{ID: 103, Title: "Em alta", Content: "<p>sem títulos aqui</p>"}
	bundle := finder.FindForPost(context.Background(), post)
	if !bundle.Empty() {
		t.Fatalf("expected empty bundle, got %#v", bundle)
	}
	if len(searcher.movieQueries) != 0 || len(searcher.tvQueries) != 0 {
		t.Fatal("no searches should run without candidates")
	}
}
