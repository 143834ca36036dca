// Package extract pulls candidate movie and TV titles out of WordPress post
// titles and bodies. Known franchises win over structural patterns, and a
// meaningful-word fallback covers titles with no recognizable shape.
package extract
