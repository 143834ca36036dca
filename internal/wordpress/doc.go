// Package wordpress implements the WordPress REST API client used to list,
// fetch, and update posts through application-password basic auth.
package wordpress
