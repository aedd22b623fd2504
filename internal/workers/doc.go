// Package workers sizes the render engine's worker pool from the
// available CPUs, honoring container limits and the RENDER_WORKERS
// override.
package workers
