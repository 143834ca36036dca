// Package daemon runs the optimization scheduler as a long-lived process
// with flock-based locking to prevent multiple concurrent instances.
package daemon
