package config

import (
	"runtime"
	"sync"
)

// GenSettings holds process-wide generation settings
type GenSettings struct {
	mu      sync.RWMutex
	workers int
	verbose bool
}

var globalGenSettings = &GenSettings{
	workers: clampWorkers(runtime.NumCPU()),
}

// GetWorkers returns the number of goroutines used to fill a grid
func GetWorkers() int {
	globalGenSettings.mu.RLock()
	defer globalGenSettings.mu.RUnlock()
	return globalGenSettings.workers
}

// SetWorkers sets the worker count. Values <= 0 select one per CPU.
func SetWorkers(n int) {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	globalGenSettings.mu.Lock()
	defer globalGenSettings.mu.Unlock()
	globalGenSettings.workers = clampWorkers(n)
}

// GetVerbose returns whether progress is logged
func GetVerbose() bool {
	globalGenSettings.mu.RLock()
	defer globalGenSettings.mu.RUnlock()
	return globalGenSettings.verbose
}

// SetVerbose enables progress logging
func SetVerbose(enabled bool) {
	globalGenSettings.mu.Lock()
	defer globalGenSettings.mu.Unlock()
	globalGenSettings.verbose = enabled
}

func clampWorkers(n int) int {
	// Clamp to reasonable values
	if n < 1 {
		n = 1
	}
	if n > 256 {
		n = 256
	}
	return n
}
