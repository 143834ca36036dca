// Package outcome records what happened to every post the optimizer
// touched. Successes are permanent and exclude a post from future cycles;
// processing rows carry a lease so a crashed run frees its posts after
// the lease expires. A daily metrics rollup feeds the dashboard.
package outcome
