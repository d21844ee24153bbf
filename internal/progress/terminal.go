package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

const (
	barWidth       = 40
	maxMessageLen  = 60
	renderInterval = 65 * time.Millisecond
	spinInterval   = 80 * time.Millisecond
	spinnerStyle   = 14 // braille dots
)

// Terminal renders progress with schollz/progressbar onto w, normally
// os.Stderr when it is a TTY.
type Terminal struct {
	w     io.Writer
	color bool
}

// NewTerminal returns a Factory that draws on w. color enables the
// colorstring markup in the bar theme.
func NewTerminal(w io.Writer, color bool) *Terminal {
	return &Terminal{w: w, color: color}
}

// NewSpinner starts an indeterminate spinner labelled with message. It
// redraws on its own every spinInterval, so a long walk with few matches
// still animates. Finish leaves the final message on the line.
func (t *Terminal) NewSpinner(message string) Sink {
	w := t.w
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(message),
		progressbar.OptionSpinnerType(spinnerStyle),
		progressbar.OptionSetSpinnerChangeInterval(spinInterval),
		progressbar.OptionThrottle(renderInterval),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
	return &barSink{bar: bar}
}

// NewBar starts a determinate bar over total items showing count and ETA.
func (t *Terminal) NewBar(total int) Sink {
	if total <= 0 {
		return &lineSink{w: t.w}
	}
	theme := progressbar.Theme{Saucer: "━", SaucerPadding: " ", BarStart: "", BarEnd: ""}
	if t.color {
		theme.Saucer = "[magenta]━[reset]"
	}
	w := t.w
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(barWidth),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionEnableColorCodes(t.color),
		progressbar.OptionSetTheme(theme),
		progressbar.OptionThrottle(renderInterval),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(w) }),
	)
	return &barSink{bar: bar}
}

type barSink struct {
	bar *progressbar.ProgressBar
}

func (s *barSink) SetMessage(text string) { s.bar.Describe(truncate(text)) }

func (s *barSink) Increment(n int) { _ = s.bar.Add(n) }

func (s *barSink) Finish(message string) {
	s.bar.Describe(truncate(message))
	_ = s.bar.Finish()
}

// lineSink stands in for a bar with nothing to count: it prints only the
// final message.
type lineSink struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *lineSink) SetMessage(string) {}
func (s *lineSink) Increment(int) {}

func (s *lineSink) Finish(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.w, "%s 0/0\n", message)
}

func truncate(text string) string {
	r := []rune(text)
	if len(r) <= maxMessageLen {
		return text
	}
	return string(r[:maxMessageLen-1]) + "…"
}
