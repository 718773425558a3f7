package sketch

import (
	"sort"
	"sync"

	"github.com/firefly-engineering/firefly-sketch/internal/metrics"
	"github.com/firefly-engineering/firefly-sketch/internal/system"
)

// registry maps sketch names to live process handles.
// One mutex guards the whole map; handles are never terminated while it is held.
type registry struct {
	mu    sync.Mutex
	procs map[string]system.Process
}

func newRegistry() *registry {
	return &registry{procs: make(map[string]system.Process)}
}

// put registers p under name and returns the handle it replaced, if any.
func (r *registry) put(name string, p system.Process) system.Process {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.procs[name]
	r.procs[name] = p
	metrics.SetRunning(len(r.procs))
	return prev
}

// take removes and returns the handle registered under name.
func (r *registry) take(name string) (system.Process, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.procs[name]
	if ok {
		delete(r.procs, name)
		metrics.SetRunning(len(r.procs))
	}
	return p, ok
}

// drain empties the registry and returns everything it held.
func (r *registry) drain() map[string]system.Process {
	r.mu.Lock()
	defer r.mu.Unlock()
	procs := r.procs
	r.procs = make(map[string]system.Process)
	metrics.SetRunning(0)
	return procs
}

// pids snapshots the registry as name -> pid.
func (r *registry) pids() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]int, len(r.procs))
	for name, p := range r.procs {
		out[name] = p.Pid()
	}
	return out
}

// names returns the registered names in sorted order.
func (r *registry) names() []string {
	r.mu.Lock()
	names := make([]string, 0, len(r.procs))
	for name := range r.procs {
		names = append(names, name)
	}
	r.mu.Unlock()
	sort.Strings(names)
	return names
}
