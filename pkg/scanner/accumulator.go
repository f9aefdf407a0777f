package scanner

import (
	"sync"
	"sync/atomic"

	"github.com/sonemaro/menuscan/pkg/desktop"
)

// Accumulator collects entries and errors from concurrent walks. All
// methods are safe for concurrent use; appends are serialized.
type Accumulator struct {
	mu      sync.Mutex
	entries []*desktop.Entry
	errors  map[string]error

	directories atomic.Int64
	files       atomic.Int64
}

// NewAccumulator returns an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{
		errors: make(map[string]error),
	}
}

// Add appends entries in the given order.
func (a *Accumulator) Add(entries ...*desktop.Entry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entries...)
}

// AddError records a recovered failure for path.
func (a *Accumulator) AddError(path string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errors[path] = err
}

// Entries returns a copy of the collected entries.
func (a *Accumulator) Entries() []*desktop.Entry {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]*desktop.Entry, len(a.entries))
	copy(out, a.entries)
	return out
}

// Errors returns a copy of the recorded failures.
func (a *Accumulator) Errors() map[string]error {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string]error, len(a.errors))
	for k, v := range a.errors {
		out[k] = v
	}
	return out
}

// Len returns the number of collected entries.
func (a *Accumulator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.entries)
}
