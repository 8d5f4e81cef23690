package profiling

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"
)

// Per-tick timing totals. Reset at the start of a tick, read at the end.

var (
	mu     sync.Mutex
	totals = make(map[string]time.Duration)
	counts = make(map[string]int)
)

// Track returns a stop function that adds the elapsed time under name.
// Usage: defer profiling.Track("world.Reconcile")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		totals[name] += d
		counts[name]++
		mu.Unlock()
	}
}

// ResetFrame clears the current totals.
func ResetFrame() {
	mu.Lock()
	clear(totals)
	clear(counts)
	mu.Unlock()
}

// Snapshot copies the current totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	return maps.Clone(totals)
}

// Count returns how many times name was tracked since the last reset.
func Count(name string) int {
	mu.Lock()
	defer mu.Unlock()
	return counts[name]
}

// TopN formats the n largest totals, e.g.
// "world.Reconcile:4.2ms(1), physics.Raycast:0.1ms(3)".
func TopN(n int) string {
	mu.Lock()
	names := slices.Collect(maps.Keys(totals))
	slices.SortFunc(names, func(a, b string) int {
		if totals[a] != totals[b] {
			if totals[a] > totals[b] {
				return -1
			}
			return 1
		}
		return strings.Compare(a, b)
	})
	n = min(n, len(names))
	parts := make([]string, 0, n)
	for _, name := range names[:n] {
		ms := float64(totals[name].Microseconds()) / 1000
		parts = append(parts, fmt.Sprintf("%s:%.1fms(%d)", name, ms, counts[name]))
	}
	mu.Unlock()
	return strings.Join(parts, ", ")
}
