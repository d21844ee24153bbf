package pipeline

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/backmassage/imgconvert/internal/naming"
	"github.com/backmassage/imgconvert/internal/progress"
)

// fakeCodec counts calls and fails on request: failDecode is keyed by input
// base name, failEncode by output base name.
type fakeCodec struct {
	mu         sync.Mutex
	decoded    map[string]int
	encoded    map[string]int
	failDecode map[string]bool
	failEncode map[string]bool
}

func newFakeCodec() *fakeCodec {
	return &fakeCodec{
		decoded:    make(map[string]int),
		encoded:    make(map[string]int),
		failDecode: make(map[string]bool),
		failEncode: make(map[string]bool),
	}
}

var errFake = errors.New("fake codec failure")

func (c *fakeCodec) Decode(path string) (image.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.decoded[path]++
	if c.failDecode[filepath.Base(path)] {
		return nil, errFake
	}
	return image.NewGray(image.Rect(0, 0, 1, 1)), nil
}

func (c *fakeCodec) Encode(img image.Image, dst string) error {
	c.mu.Lock()
	c.encoded[dst]++
	fail := c.failEncode[filepath.Base(dst)]
	c.mu.Unlock()
	if fail {
		return errFake
	}
	return os.WriteFile(dst, []byte("jpeg"), 0o644)
}

func makeInputs(t *testing.T, dir string, n int) []string {
	t.Helper()
	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		paths = append(paths, touch(t, dir, filepath.Join(fmt.Sprintf("d%d", i%7), fmt.Sprintf("img%04d.png", i))))
	}
	return paths
}

func TestPool_EveryItemExactlyOnce(t *testing.T) {
	const m = 300
	for _, workers := range []int{0, 1, 2, 4, 16, 64} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			for run := 0; run < 3; run++ {
				in, out := t.TempDir(), t.TempDir()
				paths := makeInputs(t, in, m)
				codec := newFakeCodec()
				sink := &recordingSink{}
				tracker := progress.NewTracker(sink, m)

				pool := &Pool{Workers: workers, InputRoot: in, OutputRoot: out, Codec: codec, Tracker: tracker}
				stats := pool.Convert(paths)

				if tracker.Completed() != m || sink.ticks != m {
					t.Fatalf("ticks: tracker=%d sink=%d, want %d", tracker.Completed(), sink.ticks, m)
				}
				if stats.Total != m || stats.Attempted() != m || stats.Converted() != m {
					t.Fatalf("stats: total=%d attempted=%d converted=%d, want %d",
						stats.Total, stats.Attempted(), stats.Converted(), m)
				}
				if len(codec.decoded) != m {
					t.Fatalf("decoded %d distinct inputs, want %d", len(codec.decoded), m)
				}
				for p, n := range codec.decoded {
					if n != 1 {
						t.Fatalf("%s decoded %d times", p, n)
					}
				}
				if got := len(relFiles(t, out)); got != m {
					t.Fatalf("output files = %d, want %d", got, m)
				}
			}
		})
	}
}

func TestPool_EmptyQueue(t *testing.T) {
	tracker := progress.NewTracker(nil, 0)
	pool := &Pool{Workers: 4, InputRoot: t.TempDir(), OutputRoot: t.TempDir(), Codec: newFakeCodec(), Tracker: tracker}
	stats := pool.Convert(nil)
	if stats.Total != 0 || stats.Attempted() != 0 || tracker.Completed() != 0 {
		t.Errorf("stats = %+v, completed = %d", stats, tracker.Completed())
	}
}

func TestPool_FailuresStillTick(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	good := touch(t, in, "good.png")
	badRead := touch(t, in, "broken.png")
	badWrite := touch(t, in, "readonly.jpg")
	blocked := touch(t, in, filepath.Join("blocked", "x.png"))
	outside := filepath.Join(t.TempDir(), "elsewhere.png")

	// A regular file where the "blocked" output directory should go.
	if err := os.WriteFile(filepath.Join(out, "blocked"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	codec := newFakeCodec()
	codec.failDecode["broken.png"] = true
	codec.failEncode["readonly.jpg"] = true

	sink := &recordingSink{}
	tracker := progress.NewTracker(sink, 5)
	pool := &Pool{Workers: 3, InputRoot: in, OutputRoot: out, Codec: codec, Tracker: tracker, Log: quietLogger(t), Verbose: true}
	stats := pool.Convert([]string{good, badRead, badWrite, blocked, outside})

	if tracker.Completed() != 5 {
		t.Errorf("Completed() = %d, want 5", tracker.Completed())
	}
	wantCounts := map[Outcome]int{
		OutcomeConverted:   1,
		OutcomeRead:        1,
		OutcomeWrite:       1,
		OutcomeDirCreate:   1,
		OutcomePathMapping: 1,
	}
	for o, want := range wantCounts {
		if got := stats.Count(o); got != want {
			t.Errorf("Count(%s) = %d, want %d", o, got, want)
		}
	}
	if stats.Failed() != 4 {
		t.Errorf("Failed() = %d, want 4", stats.Failed())
	}
	if _, err := os.Stat(filepath.Join(out, "good.jpg")); err != nil {
		t.Errorf("good.jpg missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "broken.jpg")); !os.IsNotExist(err) {
		t.Errorf("broken.jpg should not exist: %v", err)
	}
	if codec.decoded[outside] != 0 {
		t.Error("unmappable path reached the codec")
	}

	// Three failures change the status text; path mapping does not.
	prefixes := map[string]bool{}
	for _, msg := range sink.messages {
		prefixes[strings.SplitN(msg, ":", 2)[0]] = true
	}
	for _, want := range []string{"Failed reading", "Failed saving", "Failed creating dir"} {
		if !prefixes[want] {
			t.Errorf("status messages %v missing %q", sink.messages, want)
		}
	}
	if prefixes["Failed mapping path"] {
		t.Error("path mapping failure should not set status text")
	}
}

func TestPool_ItemErrorsWrapCauses(t *testing.T) {
	in := t.TempDir()
	outside := filepath.Join(t.TempDir(), "x.png")
	bad := touch(t, in, "bad.png")
	codec := newFakeCodec()
	codec.failDecode["bad.png"] = true

	pool := &Pool{Workers: 1, InputRoot: in, OutputRoot: t.TempDir(), Codec: codec, Tracker: progress.NewTracker(nil, 2)}

	res := pool.convertOne(pool.plan(outside, naming.NewClaims()))
	if !errors.Is(res.Err, naming.ErrOutsideRoot) {
		t.Errorf("mapping failure err = %v, want ErrOutsideRoot", res.Err)
	}

	res = pool.convertOne(pool.plan(bad, naming.NewClaims()))
	var ie *ItemError
	if !errors.As(res.Err, &ie) || ie.Outcome != OutcomeRead || ie.Path != bad {
		t.Fatalf("read failure err = %#v", res.Err)
	}
	if !errors.Is(res.Err, errFake) {
		t.Errorf("read failure should wrap codec error, got %v", res.Err)
	}
	if got := ie.Error(); !strings.HasPrefix(got, "Failed reading: ") {
		t.Errorf("ItemError.Error() = %q", got)
	}
}

func TestPool_CollidingNamesGetUniqueOutputs(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	paths := []string{
		touch(t, in, "photo.jpeg"),
		touch(t, in, "photo.png"),
		touch(t, in, "photo.PNG"),
	}
	codec := newFakeCodec()
	pool := &Pool{Workers: 3, InputRoot: in, OutputRoot: out, Codec: codec}
	stats := pool.Convert(paths)

	if stats.Converted() != 3 {
		t.Fatalf("Converted() = %d, want 3", stats.Converted())
	}
	want := []string{"photo - dup1.jpg", "photo - dup2.jpg", "photo.jpg"}
	if got := relFiles(t, out); !sliceEqual(got, want) {
		t.Errorf("outputs = %v, want %v", got, want)
	}
	for dst, n := range codec.encoded {
		if n != 1 {
			t.Errorf("%s written %d times", dst, n)
		}
	}
}

func TestPool_ConcurrentDirCreation(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	var paths []string
	for i := 0; i < 64; i++ {
		paths = append(paths, touch(t, in, filepath.Join("same", "nested", "dir", fmt.Sprintf("f%02d.png", i))))
	}
	stats := (&Pool{Workers: 16, InputRoot: in, OutputRoot: out, Codec: newFakeCodec()}).Convert(paths)
	if stats.Count(OutcomeDirCreate) != 0 || stats.Converted() != 64 {
		t.Errorf("dir races: converted=%d dirFailures=%d", stats.Converted(), stats.Count(OutcomeDirCreate))
	}
}
