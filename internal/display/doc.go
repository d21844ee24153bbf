// Package display holds presentation helpers: the startup banner, human
// readable sizes and counts, and table rendering for the run summary.
package display
