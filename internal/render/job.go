package render

import (
	"errors"
	"image"
	"image/draw"
	"sync"
	"sync/atomic"
	"time"

	"project-preview/internal/logging"
	"project-preview/internal/metrics"
	"project-preview/internal/workers"
)

// ParallelRenderJob renders one map asynchronously. Layers are
// rasterized concurrently on a worker pool and composited in draw
// order over the background. The job signals completion by closing the
// Finished channel; callers block on WaitForFinished before reading the
// rendered image. Once started, a job runs to completion or failure;
// no cancellation is exposed.
type ParallelRenderJob struct {
	settings *MapSettings

	started  atomic.Bool
	finished chan struct{}

	img image.Image
	err error
}

// NewParallelRenderJob creates a job for the given settings. The
// settings must not be mutated after Start.
func NewParallelRenderJob(settings *MapSettings) *ParallelRenderJob {
	return &ParallelRenderJob{
		settings: settings,
		finished: make(chan struct{}),
	}
}

// Start submits the render to its own scheduling domain. Calling Start
// more than once is a no-op.
func (j *ParallelRenderJob) Start() {
	if !j.started.CompareAndSwap(false, true) {
		return
	}
	go j.run()
}

// Finished returns the completion channel: closed exactly once, when
// the rendered image is available or the job failed.
func (j *ParallelRenderJob) Finished() <-chan struct{} {
	return j.finished
}

// WaitForFinished blocks until the completion signal fires. No timeout
// is enforced here; a caller needing bounded latency should select on
// Finished with its own timer or context.
func (j *ParallelRenderJob) WaitForFinished() {
	<-j.finished
}

// RenderedImage returns the finished raster. It is only valid after
// the completion signal.
func (j *ParallelRenderJob) RenderedImage() image.Image {
	return j.img
}

// Err returns the render failure, if any. Only valid after completion.
func (j *ParallelRenderJob) Err() error {
	return j.err
}

func (j *ParallelRenderJob) run() {
	defer close(j.finished)
	start := time.Now()

	if j.settings == nil {
		j.err = errors.New("render job has no map settings")
		return
	}

	width, height := j.settings.OutputSize()
	if width < 1 || height < 1 {
		j.err = errors.New("render job output size is empty")
		return
	}

	extent := j.settings.Extent()
	layers := j.settings.Layers()
	tc := j.settings.TransformContext()

	// Background first, layers composited over it in draw order.
	canvas := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(j.settings.BackgroundColor()), image.Point{}, draw.Src)

	if len(layers) > 0 && !extent.IsEmpty() {
		rendered := make([]*image.NRGBA, len(layers))

		workerCount := workers.ForCPU(len(layers))
		metrics.RenderWorkers.Set(float64(workerCount))
		logging.Debug("Rendering %d layers with %d workers", len(layers), workerCount)

		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workerCount; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					rendered[i] = rasterizeLayer(layers[i], extent, width, height, tc)
				}
			}()
		}
		for i := range layers {
			jobs <- i
		}
		close(jobs)
		wg.Wait()

		for _, layerImg := range rendered {
			if layerImg != nil {
				draw.Draw(canvas, canvas.Bounds(), layerImg, image.Point{}, draw.Over)
			}
		}
	}

	j.img = canvas
	metrics.RenderDuration.Observe(time.Since(start).Seconds())
	logging.Debug("Render job finished in %v (%dx%d, %d layers)", time.Since(start), width, height, len(layers))
}
