package scanner

import (
	"sync/atomic"
	"time"

	"github.com/sonemaro/menuscan/pkg/desktop"
)

// Config contains walker configuration options
type Config struct {
	// Workers bounds both concurrent directory goroutines and parse workers.
	Workers int

	// RateLimit caps descriptor parses per second (0 for unlimited).
	RateLimit int

	// BatchSize is the number of directory entries read per round-trip.
	BatchSize int

	// MaxDepth limits recursion below the root (-1 for unlimited).
	MaxDepth int

	// FollowSymlinks descends into symlinked directories, visiting each
	// physical directory once. Symlinks to regular files are parsed
	// regardless.
	FollowSymlinks bool

	// DesktopOnly restricts parsing to files ending in ".desktop".
	DesktopOnly bool
}

// DefaultBatchSize is the directory page size used when none is configured.
const DefaultBatchSize = 100

// Result is the aggregated outcome of a scan. Entries are in discovery
// order within each directory; subtrees may interleave.
type Result struct {
	Roots   []string
	Entries []*desktop.Entry
	Errors  map[string]error
	Stats   ScanStats

	// Err is the context error when the scan was cancelled.
	Err error
}

// ScanStats contains statistics about the scanning operation
type ScanStats struct {
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
	Directories int64
	Files       int64
	Entries     int
	Hidden      int
	ErrorCount  int
}

// Progress is a live snapshot of walker counters.
type Progress struct {
	CurrentDir  string
	Directories int64
	Files       int64
	Parsed      int64
	Errors      int64
}

// ScannerStats holds the atomic counters behind Progress.
type ScannerStats struct {
	directories atomic.Int64
	files       atomic.Int64
	parsed      atomic.Int64
	errors      atomic.Int64
	currentDir  atomic.Value
}

// fileResult is the payload of one parse task.
type fileResult struct {
	path  string
	entry *desktop.Entry
	err   error
}
