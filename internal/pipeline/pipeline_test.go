package pipeline

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/backmassage/imgconvert/internal/config"
	"github.com/backmassage/imgconvert/internal/logging"
	"github.com/backmassage/imgconvert/internal/progress"
)

// --- Helpers ---

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte{}, 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
	return path
}

// writeImage writes a small real image; the extension of name picks PNG or
// JPEG encoding.
func writeImage(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 30), G: uint8(y * 40), B: 200, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	switch Extension(path) {
	case "png":
		err = png.Encode(f, img)
	default:
		err = jpeg.Encode(f, img, nil)
	}
	if err != nil {
		t.Fatal(err)
	}
	return path
}

// relFiles lists every regular file under root, relative and sorted.
func relFiles(t *testing.T, root string) []string {
	t.Helper()
	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			rel, _ := filepath.Rel(root, path)
			out = append(out, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		t.Fatal(err)
	}
	sort.Strings(out)
	return out
}

func basenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	sort.Strings(out)
	return out
}

func sliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func quietLogger(t *testing.T) *logging.Logger {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	log, err := logging.NewLogger(&cfg)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	log.SetOutput(io.Discard, io.Discard)
	t.Cleanup(func() { log.Close() })
	return log
}

// recordingSink is a progress.Sink that remembers what it was told.
type recordingSink struct {
	mu       sync.Mutex
	ticks    int
	messages []string
	finished []string
}

func (r *recordingSink) SetMessage(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, text)
}

func (r *recordingSink) Increment(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks += n
}

func (r *recordingSink) Finish(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, message)
}

// recordingFactory hands out one spinner sink and one bar sink.
type recordingFactory struct {
	spinner recordingSink
	bar     recordingSink
	total   int
}

func (f *recordingFactory) NewSpinner(message string) progress.Sink {
	f.spinner.SetMessage(message)
	return &f.spinner
}

func (f *recordingFactory) NewBar(total int) progress.Sink {
	f.total = total
	return &f.bar
}
