// worker/pool.go
package worker

// Job produces one output value. Jobs are indexed so callers that need
// submission order can reassemble results into a slice.
type Job[T any] func() T

type Result[T any] struct {
	Index  int
	Output T
}

// Pool runs jobs on a fixed number of goroutines. Results arrive on an
// unordered channel tagged with the job index.
type Pool[T any] struct {
	jobs    chan jobWrapper[T]
	results chan Result[T]
}

type jobWrapper[T any] struct {
	index int
	fn    Job[T]
}

func NewPool[T any](workerCount int, bufferSize int) *Pool[T] {
	p := &Pool[T]{
		jobs:    make(chan jobWrapper[T], bufferSize),
		results: make(chan Result[T], bufferSize),
	}

	for i := 0; i < workerCount; i++ {
		go p.worker()
	}

	return p
}

func (p *Pool[T]) worker() {
	for job := range p.jobs {
		output := job.fn()
		p.results <- Result[T]{
			Index:  job.index,
			Output: output,
		}
	}
}

func (p *Pool[T]) Submit(index int, fn Job[T]) {
	p.jobs <- jobWrapper[T]{index: index, fn: fn}
}

func (p *Pool[T]) Results() <-chan Result[T] {
	return p.results
}

// Close stops the workers once queued jobs drain. Submit must not be called
// after Close.
func (p *Pool[T]) Close() {
	close(p.jobs)
}
