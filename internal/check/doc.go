// Package check provides the --check diagnostics: runtime details and an
// in-memory JPEG codec round trip (CheckDeps).
package check
