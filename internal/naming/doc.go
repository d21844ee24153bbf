// Package naming maps input image paths onto the mirrored output tree and
// keeps destination paths unique within a run.
//
// [OutputPath] rebases a candidate from the input root onto the output root
// and swaps its extension. [Claims] hands out destinations in discovery
// order so two inputs never share an output file.
package naming
