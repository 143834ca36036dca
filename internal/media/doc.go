// Package media resolves the TMDB movies and shows behind a post and
// assembles the poster, backdrop, and trailer bundle that feeds the
// rewrite prompt. Category hints decide whether movie or TV search runs
// first; lookup failures degrade to an empty bundle rather than failing
// the post.
package media
