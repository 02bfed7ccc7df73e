package jobs

import (
	"context"
	"sort"
	"sync"
)

// Registry tracks the background summary jobs in flight, keyed by job name.
type Registry struct {
	mu     sync.Mutex
	wg     sync.WaitGroup
	jobs   map[string]context.CancelFunc
	closed bool
}

func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]context.CancelFunc)}
}

// Start runs fn in its own goroutine with a context that outlives ctx's cancellation and ends at
// Shutdown. It returns false when the name is already running or the registry is shut down.
func (r *Registry) Start(ctx context.Context, name string, fn func(ctx context.Context)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}
	if _, ok := r.jobs[name]; ok {
		return false
	}

	jobCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	r.jobs[name] = cancel
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()
		defer r.finish(name)
		fn(jobCtx)
	}()

	return true
}

func (r *Registry) finish(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cancel, ok := r.jobs[name]; ok {
		cancel()
		delete(r.jobs, name)
	}
}

func (r *Registry) IsRunning(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.jobs[name]
	return ok
}

func (r *Registry) Running() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.jobs))
	for name := range r.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.jobs)
}

// Shutdown cancels every running job and waits for them to return, or for ctx to end.
func (r *Registry) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	r.closed = true
	for _, cancel := range r.jobs {
		cancel()
	}
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
