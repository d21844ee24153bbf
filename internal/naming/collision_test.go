package naming

import (
	"fmt"
	"sync"
	"testing"
)

func TestClaims(t *testing.T) {
	c := NewClaims()

	tests := []struct {
		input, requested, want string
	}{
		{"/in/a.jpeg", "/out/a.jpg", "/out/a.jpg"},
		{"/in/a.png", "/out/a.jpg", "/out/a - dup1.jpg"},
		{"/in/a.PNG", "/out/a.jpg", "/out/a - dup2.jpg"},
		{"/in/a.jpeg", "/out/a.jpg", "/out/a.jpg"}, // owner asks again
		{"/in/b.png", "/out/b.jpg", "/out/b.jpg"},
	}
	for _, tt := range tests {
		if got := c.Claim(tt.input, tt.requested); got != tt.want {
			t.Errorf("Claim(%q, %q) = %q, want %q", tt.input, tt.requested, got, tt.want)
		}
	}
}

func TestClaims_SkipsTakenDupName(t *testing.T) {
	c := NewClaims()
	c.Claim("/in/a - dup1.png", "/out/a - dup1.jpg")
	c.Claim("/in/a.jpeg", "/out/a.jpg")

	if got := c.Claim("/in/a.png", "/out/a.jpg"); got != "/out/a - dup2.jpg" {
		t.Errorf("Claim = %q, want /out/a - dup2.jpg", got)
	}
}

func TestClaims_ConcurrentUnique(t *testing.T) {
	c := NewClaims()
	const n = 200
	got := make([]string, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = c.Claim(fmt.Sprintf("/in/p%d.png", i), "/out/p.jpg")
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, p := range got {
		if seen[p] {
			t.Fatalf("duplicate destination %q", p)
		}
		seen[p] = true
	}
}
