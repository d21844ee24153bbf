package display

import (
	"time"

	"github.com/dustin/go-humanize"
)

// FormatBytes returns a human-readable IEC size (e.g. "1.5 KiB").
func FormatBytes(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.IBytes(uint64(-bytes))
	}
	return humanize.IBytes(uint64(bytes))
}

// FormatBytesWithSign prefixes with + or - for delta display (e.g. "- 1.2 MiB").
func FormatBytesWithSign(bytes int64) string {
	switch {
	case bytes > 0:
		return "+ " + FormatBytes(bytes)
	case bytes < 0:
		return "- " + FormatBytes(-bytes)
	}
	return FormatBytes(0)
}

// FormatCount groups thousands (e.g. "12,345").
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}

// FormatElapsed rounds d for the summary line.
func FormatElapsed(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(100 * time.Millisecond).String()
}
