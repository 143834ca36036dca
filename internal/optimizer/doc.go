// Package optimizer runs the optimization cycle: pick eligible posts,
// match media, generate the rewrite with quota-aware key rotation, and
// write the result back to WordPress. Every post ends the cycle as a
// success or a failure with a reason in the outcome store.
package optimizer
