// ABOUTME: Simple worker pool for parallelizing batch tasks
// ABOUTME: Provides submit-and-wait plus an indexed fan-out used for column measurement

package pool

import (
	"runtime"
	"sync"
)

// WorkerPool manages a pool of worker goroutines for parallel task execution
type WorkerPool struct {
	workers  int
	taskChan chan func()
	workerWg sync.WaitGroup // tracks worker goroutines lifetime
	taskWg   sync.WaitGroup // tracks submitted tasks completion
}

// NewWorkerPool creates a worker pool sized to available CPUs
// The bufferSize determines the task channel capacity
func NewWorkerPool(bufferSize int) *WorkerPool {
	return NewSized(runtime.NumCPU(), bufferSize)
}

// NewSized creates a pool with an explicit worker count (minimum one)
func NewSized(workers, bufferSize int) *WorkerPool {
	workers = max(workers, 1)
	pool := &WorkerPool{
		workers:  workers,
		taskChan: make(chan func(), max(bufferSize, 0)),
	}

	for range workers {
		pool.workerWg.Add(1)

		go func() {
			defer pool.workerWg.Done()

			for task := range pool.taskChan {
				task()
				pool.taskWg.Done()
			}
		}()
	}

	return pool
}

// Workers returns the number of worker goroutines
func (p *WorkerPool) Workers() int {
	return p.workers
}

// Submit adds a task to the pool
// Blocks if the task channel is full
func (p *WorkerPool) Submit(task func()) {
	p.taskWg.Add(1)
	p.taskChan <- task
}

// Wait blocks until all submitted tasks have completed
func (p *WorkerPool) Wait() {
	p.taskWg.Wait()
}

// Close shuts down the worker pool and waits for all workers to exit
func (p *WorkerPool) Close() {
	close(p.taskChan)
	p.workerWg.Wait()
}

// Map runs fn(i) for i in [0, n) on the pool and returns the results in index order.
// It waits for every task, so it must not be mixed with unrelated in-flight Submits.
func Map[T any](p *WorkerPool, n int, fn func(i int) T) []T {
	results := make([]T, n)

	for i := range n {
		p.Submit(func() {
			results[i] = fn(i)
		})
	}

	p.Wait()

	return results
}
