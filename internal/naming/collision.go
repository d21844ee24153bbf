package naming

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// Claims hands out destination files so that no two inputs write the same
// output. "photo.png" and "photo.jpeg" in one directory both mirror onto
// "photo.jpg": the first to claim it keeps the name and later claimants get
// "photo - dup1.jpg", "photo - dup2.jpg" and so on. Claims is safe for
// concurrent use; results only repeat across runs when claims are made in
// the same order.
type Claims struct {
	mu    sync.Mutex
	owner map[string]string // destination -> input holding it
	next  map[string]int    // requested destination -> next dup number to try
}

// NewClaims returns an empty claim table.
func NewClaims() *Claims {
	return &Claims{owner: map[string]string{}, next: map[string]int{}}
}

// Claim returns the destination input should write. dst is granted when it
// is free or already held by input.
func (c *Claims) Claim(input, dst string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.take(input, dst) {
		return dst
	}
	n := max(c.next[dst], 1)
	for !c.take(input, dupName(dst, n)) {
		n++
	}
	c.next[dst] = n + 1
	return dupName(dst, n)
}

func (c *Claims) take(input, dst string) bool {
	if held, ok := c.owner[dst]; ok && held != input {
		return false
	}
	c.owner[dst] = input
	return true
}

// dupName inserts " - dupN" before the extension of dst.
func dupName(dst string, n int) string {
	ext := filepath.Ext(dst)
	return fmt.Sprintf("%s - dup%d%s", strings.TrimSuffix(dst, ext), n, ext)
}
