package pipeline

import (
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/backmassage/imgconvert/internal/config"
	"github.com/backmassage/imgconvert/internal/logging"
	"github.com/backmassage/imgconvert/internal/naming"
	"github.com/backmassage/imgconvert/internal/progress"
)

// Codec decodes a source image and writes it in the output format.
type Codec interface {
	Decode(path string) (image.Image, error)
	Encode(img image.Image, dst string) error
}

// Pool converts candidates with a fixed number of worker goroutines.
type Pool struct {
	Workers    int
	InputRoot  string
	OutputRoot string
	Codec      Codec
	Tracker    *progress.Tracker // Shared by every worker; ticked once per item.
	Log        *logging.Logger   // Optional; per-item failures at DEBUG.
	Verbose    bool
}

// job is one queued candidate with its destination already resolved.
type job struct {
	input  string
	output string
	err    error // Path mapping failure.
}

// Convert runs the conversion phase over paths and returns the tally.
// Workers are started first, then every path is queued once and the queue
// closed; Convert returns only after every worker has exited. The queue is
// buffered to len(paths) so feeding never blocks on busy workers.
func (p *Pool) Convert(paths []string) RunStats {
	if p.Tracker == nil {
		p.Tracker = progress.NewTracker(nil, len(paths))
	}
	workers := max(p.Workers, 1)

	queue := make(chan job, len(paths))
	results := make(chan Result, len(paths))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				results <- p.convertOne(j)
			}
		}()
	}

	// Destinations are claimed here, in discovery order, so two inputs that
	// mirror onto the same name never race on one file.
	claims := naming.NewClaims()
	for _, path := range paths {
		queue <- p.plan(path, claims)
	}
	close(queue)

	wg.Wait()
	close(results)

	stats := RunStats{Total: len(paths)}
	for r := range results {
		stats.Record(r)
	}
	return stats
}

func (p *Pool) plan(path string, claims *naming.Claims) job {
	out, err := naming.OutputPath(path, p.InputRoot, p.OutputRoot, config.OutputExtension)
	if err != nil {
		return job{input: path, err: err}
	}
	return job{input: path, output: claims.Claim(path, out)}
}

// convertOne maps, prepares, decodes and encodes one candidate. It ticks
// the tracker exactly once whatever happens.
func (p *Pool) convertOne(j job) Result {
	defer p.Tracker.Tick()

	res := Result{Input: j.input, Output: j.output}
	if j.err != nil {
		return p.fail(res, OutcomePathMapping, j.err)
	}
	if err := os.MkdirAll(filepath.Dir(j.output), 0o755); err != nil {
		return p.fail(res, OutcomeDirCreate, err)
	}
	img, err := p.Codec.Decode(j.input)
	if err != nil {
		return p.fail(res, OutcomeRead, err)
	}
	if err := p.Codec.Encode(img, j.output); err != nil {
		return p.fail(res, OutcomeWrite, err)
	}

	res.Outcome = OutcomeConverted
	if fi, err := os.Stat(j.input); err == nil {
		res.InBytes = fi.Size()
	}
	if fi, err := os.Stat(j.output); err == nil {
		res.OutBytes = fi.Size()
	}
	return res
}

// fail records a per-item failure. Mapping failures only tick; the others
// also replace the status text.
func (p *Pool) fail(res Result, o Outcome, err error) Result {
	ie := &ItemError{Outcome: o, Path: res.Input, Err: err}
	res.Outcome = o
	res.Err = ie
	if o != OutcomePathMapping {
		p.Tracker.Status(ie.Error())
	}
	if p.Log != nil {
		p.Log.Debug(p.Verbose, "%s: %v", res.Input, ie)
	}
	return res
}
