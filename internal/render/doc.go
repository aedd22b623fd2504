// Package render produces raster previews from project map settings.
//
// MapSettings carries the render configuration read from a project's
// map canvas node: visible extent, rotation, output size, background
// color, layer stack, coordinate transform context, and path resolver.
//
// ParallelRenderJob executes one render asynchronously: layers are
// rasterized on a small worker pool, composited in draw order over the
// background, and the caller blocks on WaitForFinished until the
// completion signal fires. The wait is unbounded at this layer; callers
// needing bounded latency can select on Finished with their own timer.
package render
