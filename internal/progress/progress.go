package progress

import (
	"sync"
	"sync/atomic"
)

// Sink receives progress updates. Implementations must be safe for
// concurrent use.
type Sink interface {
	SetMessage(text string)
	Increment(n int)
	Finish(message string)
}

// Factory creates sinks for the two phases of a run.
type Factory interface {
	NewSpinner(message string) Sink
	NewBar(total int) Sink
}

// Tracker is the shared progress state of the conversion phase: an atomic
// completed counter and the most recent status message. Every worker holds
// the same *Tracker.
type Tracker struct {
	sink      Sink
	total     int64
	completed atomic.Int64

	mu      sync.Mutex
	message string
}

// NewTracker wraps sink for a batch of total items. A nil sink is replaced
// with [Nop].
func NewTracker(sink Sink, total int) *Tracker {
	if sink == nil {
		sink = Nop{}
	}
	return &Tracker{sink: sink, total: int64(total)}
}

// Tick records one attempted item.
func (t *Tracker) Tick() {
	t.completed.Add(1)
	t.sink.Increment(1)
}

// Status replaces the status message.
func (t *Tracker) Status(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.message = message
	t.sink.SetMessage(message)
}

// Finish sets the final message and closes the sink.
func (t *Tracker) Finish(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.message = message
	t.sink.Finish(message)
}

// Completed returns the number of ticks so far.
func (t *Tracker) Completed() int64 { return t.completed.Load() }

// Total returns the batch size the tracker was created with.
func (t *Tracker) Total() int64 { return t.total }

// Message returns the most recent status message.
func (t *Tracker) Message() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.message
}

// Nop discards every update.
type Nop struct{}

func (Nop) SetMessage(string) {}
func (Nop) Increment(int) {}
func (Nop) Finish(string) {}
func (Nop) NewSpinner(string) Sink { return Nop{} }
func (Nop) NewBar(int) Sink { return Nop{} }
