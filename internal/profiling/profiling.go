// Package profiling accumulates wall time per named generation stage.
package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type stage struct {
	total time.Duration
	calls int
}

var (
	mu     sync.Mutex
	stages = make(map[string]*stage)
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("terrain.Heightmap")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		s := stages[name]
		if s == nil {
			s = &stage{}
			stages[name] = s
		}
		s.total += d
		s.calls++
		mu.Unlock()
	}
}

// Reset clears all recorded stages.
func Reset() {
	mu.Lock()
	clear(stages)
	mu.Unlock()
}

// Snapshot returns a copy of the per-stage totals.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(stages))
	for k, s := range stages {
		out[k] = s.total
	}
	return out
}

// Calls returns how many times name has been tracked.
func Calls(name string) int {
	mu.Lock()
	defer mu.Unlock()
	if s := stages[name]; s != nil {
		return s.calls
	}
	return 0
}

// TopN formats the n slowest stages, slowest first.
// Example: "terrain.Heightmap:412.3ms, terrain.Weightmaps:188ms"
func TopN(n int) string {
	ss := Snapshot()
	type pair struct {
		name string
		dur  time.Duration
	}
	list := make([]pair, 0, len(ss))
	for k, v := range ss {
		list = append(list, pair{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].dur != list[j].dur {
			return list[i].dur > list[j].dur
		}
		return list[i].name < list[j].name
	})
	n = min(n, len(list))
	parts := make([]string, 0, n)
	for _, p := range list[:n] {
		parts = append(parts, p.name+":"+formatMs(p.dur))
	}
	return strings.Join(parts, ", ")
}

// formatMs keeps one decimal and drops a trailing .0
func formatMs(d time.Duration) string {
	s := fmt.Sprintf("%.1f", float64(d.Microseconds())/1000)
	return strings.TrimSuffix(s, ".0") + "ms"
}
