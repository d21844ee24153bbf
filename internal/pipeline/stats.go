package pipeline

import (
	"fmt"
	"time"
)

// Outcome classifies what happened to one candidate.
type Outcome int

const (
	OutcomeConverted   Outcome = iota // Decoded and written as JPEG.
	OutcomePathMapping                // Candidate not under the input root.
	OutcomeDirCreate                  // Destination directory could not be created.
	OutcomeRead                       // Source could not be read or decoded.
	OutcomeWrite                      // JPEG could not be encoded or written.
	numOutcomes
)

// Outcomes lists every outcome in report order.
var Outcomes = []Outcome{OutcomeConverted, OutcomePathMapping, OutcomeDirCreate, OutcomeRead, OutcomeWrite}

func (o Outcome) String() string {
	switch o {
	case OutcomeConverted:
		return "converted"
	case OutcomePathMapping:
		return "path mapping failed"
	case OutcomeDirCreate:
		return "dir create failed"
	case OutcomeRead:
		return "read failed"
	case OutcomeWrite:
		return "write failed"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// statusPrefix is the transient progress text shown for a failed item.
func (o Outcome) statusPrefix() string {
	switch o {
	case OutcomePathMapping:
		return "Failed mapping path"
	case OutcomeDirCreate:
		return "Failed creating dir"
	case OutcomeRead:
		return "Failed reading"
	case OutcomeWrite:
		return "Failed saving"
	}
	return "Failed"
}

// ItemError is the per-candidate failure. It never stops the batch.
type ItemError struct {
	Outcome Outcome
	Path    string
	Err     error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Outcome.statusPrefix(), e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// Result is what a worker reports for one candidate.
type Result struct {
	Input    string
	Output   string
	Outcome  Outcome
	Err      error // *ItemError when Outcome != OutcomeConverted.
	InBytes  int64
	OutBytes int64
}

// RunStats tracks aggregate counters and byte totals across a batch run.
type RunStats struct {
	Total            int // Candidates discovered.
	Skipped          int // Traversal entries that could not be read.
	counts           [numOutcomes]int
	TotalInputBytes  int64 // Converted items only.
	TotalOutputBytes int64 // Converted items only.
	Elapsed          time.Duration
}

// Record adds one worker result to the tally.
func (s *RunStats) Record(r Result) {
	if r.Outcome < 0 || r.Outcome >= numOutcomes {
		return
	}
	s.counts[r.Outcome]++
	if r.Outcome == OutcomeConverted {
		s.TotalInputBytes += r.InBytes
		s.TotalOutputBytes += r.OutBytes
	}
}

// Count returns the number of results with outcome o.
func (s *RunStats) Count(o Outcome) int {
	if o < 0 || o >= numOutcomes {
		return 0
	}
	return s.counts[o]
}

// Converted returns the number of successful conversions.
func (s *RunStats) Converted() int { return s.counts[OutcomeConverted] }

// Attempted returns the number of recorded results of any outcome.
func (s *RunStats) Attempted() int {
	n := 0
	for _, c := range s.counts {
		n += c
	}
	return n
}

// Failed returns the number of results that did not produce output.
func (s *RunStats) Failed() int { return s.Attempted() - s.Converted() }

// SpaceSaved returns the aggregate byte difference between inputs and outputs.
// Positive means outputs are smaller; negative means they grew.
func (s *RunStats) SpaceSaved() int64 {
	return s.TotalInputBytes - s.TotalOutputBytes
}
