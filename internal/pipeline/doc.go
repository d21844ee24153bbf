// Package pipeline orchestrates image discovery, the concurrent conversion
// pool, and batch summary reporting.
//
// A run has two phases. [Discover] walks the input tree once and returns
// every eligible candidate; [Pool.Convert] then feeds those candidates to a
// fixed set of workers that map, decode and re-encode each one. Per-item
// failures are tallied in [RunStats] and never stop the batch.
package pipeline
