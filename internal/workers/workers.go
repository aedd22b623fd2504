package workers

import (
	"os"
	"runtime"
	"strconv"
)

// Count returns the number of render workers to use. It respects
// container CPU limits via GOMAXPROCS and never exceeds limit (use 0
// for no cap).
//
// Can be overridden with the RENDER_WORKERS environment variable.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv("RENDER_WORKERS"); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	available := runtime.GOMAXPROCS(0)
	workers := int(float64(available) * multiplier)

	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}

	return workers
}

// ForCPU returns the worker count for CPU-bound rasterization work
// (one per CPU), capped at limit.
func ForCPU(limit int) int {
	return Count(1.0, limit)
}
