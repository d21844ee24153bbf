// Package progress provides the progress sinks used during discovery and
// conversion, and the shared Tracker that conversion workers update.
//
// Sinks are purely observational: nothing in the pipeline reads them back
// or changes control flow based on them.
package progress
