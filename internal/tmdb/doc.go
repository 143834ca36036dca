// Package tmdb implements the TMDB API client used to match post titles
// against movies and TV shows and to collect poster, backdrop, and trailer
// metadata for the optimizer.
package tmdb
