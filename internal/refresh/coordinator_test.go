package refresh

import (
	"sync"
	"testing"
)

func TestBumpStrictlyIncreases(t *testing.T) {
	c := NewCoordinator()
	before := c.Current()

	first := c.Bump()
	second := c.Bump()

	if first == before || second == first {
		t.Fatalf("tokens = %d, %d, %d; want all distinct", before, first, second)
	}
	if !(second > first && first > before) {
		t.Fatalf("tokens not increasing: %d, %d, %d", before, first, second)
	}
	if c.Current() != second {
		t.Fatalf("Current() = %d, want %d", c.Current(), second)
	}
}

func TestConcurrentBumpsAreNotLost(t *testing.T) {
	c := NewCoordinator()
	seen := c.Current()

	const mutations = 200
	var wg sync.WaitGroup
	for i := 0; i < mutations; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Bump()
		}()
	}
	wg.Wait()

	if got := c.Current(); got != seen+mutations {
		t.Fatalf("Current() = %d, want %d", got, seen+mutations)
	}
	if !c.Changed(seen) {
		t.Fatal("Changed() = false after bumps, want true")
	}
	if c.Changed(c.Current()) {
		t.Fatal("Changed(Current()) = true, want false")
	}
}
