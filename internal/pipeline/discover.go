package pipeline

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/backmassage/imgconvert/internal/config"
	"github.com/backmassage/imgconvert/internal/progress"
)

const listingMessage = "Listing image files..."

// Discovery is the result of a single traversal of the input tree.
type Discovery struct {
	Paths   []string       // Candidates in traversal order.
	Counts  map[string]int // Lowercase extension → matches.
	Skipped int            // Entries that could not be read or stat'ed.
}

// PNG returns the number of .png candidates.
func (d Discovery) PNG() int { return d.Counts["png"] }

// JPEG returns the combined number of .jpg and .jpeg candidates.
func (d Discovery) JPEG() int { return d.Counts["jpg"] + d.Counts["jpeg"] }

// Summary is the one-line discovery report.
func (d Discovery) Summary() string {
	return fmt.Sprintf("Found %d PNG, %d JPG/JPEG", d.PNG(), d.JPEG())
}

// ResolveRoot follows symlinks in root so that a linked input directory is
// walked like the directory it points at. WalkDir never descends into a
// symlinked root on its own. root is returned unchanged when it cannot be
// resolved.
func ResolveRoot(root string) string {
	resolved, err := filepath.EvalSymlinks(root)
	if err != nil {
		return root
	}
	return resolved
}

// Discover walks root once and collects every regular file accepted by
// [IsEligible]. Directories, symlinks and other special files are ignored;
// pass a root from [ResolveRoot] when it may itself be a link.
// An entry that fails to read is counted in Skipped and never aborts the
// walk. Every [config.HeartbeatEvery] matches the running total is sent to
// sink.
func Discover(root string, sink progress.Sink) Discovery {
	if sink == nil {
		sink = progress.Nop{}
	}
	d := Discovery{Counts: make(map[string]int)}

	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			d.Skipped++
			return nil
		}
		if !entry.Type().IsRegular() || !IsEligible(path) {
			return nil
		}
		d.Paths = append(d.Paths, path)
		d.Counts[Extension(path)]++
		if len(d.Paths)%config.HeartbeatEvery == 0 {
			sink.SetMessage(fmt.Sprintf("%s %d", listingMessage, len(d.Paths)))
		}
		return nil
	})
	return d
}
