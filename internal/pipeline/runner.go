package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/backmassage/imgconvert/internal/config"
	"github.com/backmassage/imgconvert/internal/display"
	"github.com/backmassage/imgconvert/internal/logging"
	"github.com/backmassage/imgconvert/internal/progress"
)

const (
	convertMessage = "convert"
	doneMessage    = "Done"
)

// Run is the top-level batch entry point. Discovery completes before any
// conversion starts; Run returns after every worker has exited. Per-item
// failures are tallied in the returned stats and never stop the batch.
func Run(cfg *config.Config, log *logging.Logger, codec Codec, factory progress.Factory) RunStats {
	if factory == nil {
		factory = progress.Nop{}
	}
	start := time.Now()

	root := ResolveRoot(cfg.InputDir)
	spinner := factory.NewSpinner(listingMessage)
	found := Discover(root, spinner)
	spinner.Finish(found.Summary())

	log.Info("%s", found.Summary())
	if found.Skipped > 0 {
		log.Warn("Skipped %d unreadable entries under %s", found.Skipped, cfg.InputDir)
	}
	log.Info("Converting %s files with %d workers (JPEG quality %d)",
		display.FormatCount(len(found.Paths)), cfg.Workers, cfg.JPEGQuality)

	tracker := progress.NewTracker(factory.NewBar(len(found.Paths)), len(found.Paths))
	tracker.Status(convertMessage)

	pool := &Pool{
		Workers:    cfg.Workers,
		InputRoot:  root,
		OutputRoot: cfg.OutputDir,
		Codec:      codec,
		Tracker:    tracker,
		Log:        log,
		Verbose:    cfg.Verbose,
	}
	stats := pool.Convert(found.Paths)
	tracker.Finish(doneMessage)

	stats.Skipped = found.Skipped
	stats.Elapsed = time.Since(start)
	logSummary(log, &stats)
	return stats
}

func logSummary(log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d converted, %d failed in %s",
		stats.Converted(), stats.Failed(), display.FormatElapsed(stats.Elapsed))

	rows := make([][]string, 0, len(Outcomes)+1)
	for _, o := range Outcomes {
		rows = append(rows, []string{o.String(), display.FormatCount(stats.Count(o))})
	}
	rows = append(rows, []string{"total", display.FormatCount(stats.Attempted())})
	table := display.RenderTable([]string{"Outcome", "Files"}, rows, []display.Align{display.AlignLeft, display.AlignRight})
	for _, line := range strings.Split(table, "\n") {
		log.Info("%s", line)
	}

	if stats.Failed() > 0 {
		log.Warn("%d of %d files were not converted; rerun with --verbose for details",
			stats.Failed(), stats.Attempted())
	}
	if stats.Converted() == 0 {
		return
	}
	line, shrunk := sizeChange(stats)
	if shrunk {
		log.Success("%s", line)
	} else {
		log.Warn("%s", line)
	}
}

// sizeChange formats the signed output-minus-input byte delta. shrunk is
// false when the outputs take more space than the inputs.
func sizeChange(stats *RunStats) (line string, shrunk bool) {
	delta := -stats.SpaceSaved()
	line = fmt.Sprintf("  Size change: %s (input %s -> output %s)",
		display.FormatBytesWithSign(delta),
		display.FormatBytes(stats.TotalInputBytes), display.FormatBytes(stats.TotalOutputBytes))
	return line, delta <= 0
}
