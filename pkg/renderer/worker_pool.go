package renderer

import (
	"runtime"
	"sync"

	"github.com/df07/go-csg-raytracer/pkg/scene"
)

// TileTask asks a worker to bring one tile up to a sample count
type TileTask struct {
	Tile          *Tile
	TargetSamples int
	TaskID        int            // Index into the tile list
	PixelStats    [][]PixelStats // Shared accumulation buffer
}

// TileResult reports a finished tile
type TileResult struct {
	TaskID int
	Stats  RenderStats
}

// WorkerPool renders tiles in parallel. Every worker has its own Raytracer;
// the scene graph is shared and only read during rendering.
type WorkerPool struct {
	tasks      chan TileTask
	results    chan TileResult
	raytracers []*Raytracer
	wg         sync.WaitGroup
	startOnce  sync.Once
	stopOnce   sync.Once
}

// NewWorkerPool creates a pool of numWorkers workers, or one per CPU when
// numWorkers <= 0. A pass may submit up to maxTasks tasks before reading any
// result.
func NewWorkerPool(s *scene.Scene, width, height, numWorkers, maxTasks int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if maxTasks < 1 {
		maxTasks = 1
	}

	wp := &WorkerPool{
		tasks:   make(chan TileTask, maxTasks),
		results: make(chan TileResult, maxTasks),
	}
	for i := 0; i < numWorkers; i++ {
		wp.raytracers = append(wp.raytracers, NewRaytracer(s, width, height))
	}
	return wp
}

// Start launches the workers. Calling it again has no effect.
func (wp *WorkerPool) Start() {
	wp.startOnce.Do(func() {
		for _, rt := range wp.raytracers {
			wp.wg.Add(1)
			go wp.run(rt)
		}
	})
}

// Stop waits for queued tasks to drain and shuts the workers down
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.tasks)
		wp.wg.Wait()
		close(wp.results)
	})
}

// SubmitTask queues a tile task
func (wp *WorkerPool) SubmitTask(task TileTask) {
	wp.tasks <- task
}

// GetResult blocks until a tile finishes. ok is false once the pool is stopped.
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	result, ok := <-wp.results
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return len(wp.raytracers)
}

func (wp *WorkerPool) run(rt *Raytracer) {
	defer wp.wg.Done()

	for task := range wp.tasks {
		rt.SetSamplingConfig(SamplingConfig{SamplesPerPixel: task.TargetSamples})

		// Tiles never overlap, so writes to the shared buffer do not race
		stats := rt.RenderBounds(task.Tile.Bounds, task.PixelStats, task.Tile.Random)
		wp.results <- TileResult{TaskID: task.TaskID, Stats: stats}
	}
}
