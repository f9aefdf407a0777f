/*
Package scanner discovers desktop entries by walking directory trees.

A Walker enumerates each directory in pages of Config.BatchSize entries,
hands regular files to a desktop.Parser through a rate-limited worker pool
and fans out into subdirectories on bounded goroutines. A Coordinator wraps
one or more walks and delivers the aggregated Result to a completion
callback exactly once.

Basic usage:

	parser := desktop.NewParser(fs, desktop.Config{WMName: "awesome", Terminal: "xterm"}, log)
	walker := scanner.NewWalker(scanner.Config{Workers: 4, MaxDepth: -1}, fs, parser, log)
	coord := scanner.NewCoordinator(walker, log)

	coord.ScanTree(ctx, "/usr/share/applications", func(res scanner.Result) {
		fmt.Println(len(res.Entries))
	})
*/
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sonemaro/menuscan/pkg/desktop"
	"github.com/sonemaro/menuscan/pkg/logger"
	"github.com/sonemaro/menuscan/pkg/worker"
	"github.com/spf13/afero"
)

// EntryParser parses a single descriptor file. It returns (nil, nil) for
// files that are not valid entries.
type EntryParser interface {
	Parse(path string) (*desktop.Entry, error)
}

// Walker recursively scans directories for descriptors.
type Walker struct {
	config Config
	fs     afero.Fs
	parser EntryParser
	log    logger.Logger
	stats  *ScannerStats
}

// NewWalker creates a Walker. Zero Workers means 1 and zero BatchSize means
// DefaultBatchSize.
func NewWalker(config Config, fs afero.Fs, parser EntryParser, log logger.Logger) *Walker {
	if config.Workers <= 0 {
		config.Workers = 1
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &Walker{
		config: config,
		fs:     fs,
		parser: parser,
		log:    log,
		stats:  NewScannerStats(),
	}
}

// walk is the state shared by every directory of one Walk call.
type walk struct {
	pool    worker.Pool
	acc     *Accumulator
	sem     chan struct{}
	wg      sync.WaitGroup
	visited sync.Map
}

// Walk visits dir and all directories below it, appending every parsed
// entry to acc. It returns once the whole subtree has been enumerated and
// every descriptor in it parsed. Failures below dir are recorded in acc;
// the returned error is non-nil only when dir itself cannot be scanned.
func (w *Walker) Walk(ctx context.Context, dir string, acc *Accumulator) error {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	info, err := w.fs.Stat(dir)
	if err != nil {
		ioErr := newIOError("stat", dir, err)
		w.recordError(acc, dir, ioErr)
		return ioErr
	}
	if !info.IsDir() {
		ioErr := &IOError{Op: "scan", Path: dir, Err: fmt.Errorf("not a directory")}
		w.recordError(acc, dir, ioErr)
		return ioErr
	}

	pool, err := worker.NewPool(worker.Config{
		Workers:   w.config.Workers,
		RateLimit: w.config.RateLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to create worker pool: %w", err)
	}
	if err := pool.Start(ctx); err != nil {
		return fmt.Errorf("failed to start worker pool: %w", err)
	}

	st := &walk{
		pool: pool,
		acc:  acc,
		sem:  make(chan struct{}, w.config.Workers),
	}
	st.visited.Store(w.canonical(dir, info.Mode()), true)

	w.log.WithFields(logger.Fields{
		"dir":       dir,
		"workers":   w.config.Workers,
		"batchSize": w.config.BatchSize,
		"maxDepth":  w.config.MaxDepth,
	}).Debug("Starting directory walk")

	w.scanDir(ctx, st, dir, 0)
	st.wg.Wait()

	results, err := pool.Wait()
	if err != nil {
		w.log.WithFields(logger.Fields{
			"dir":   dir,
			"error": err,
		}).Debug("Parse tasks did not all run")
	}

	entries := make([]*desktop.Entry, 0, len(results))
	for _, r := range results {
		fr, ok := r.Data.(fileResult)
		if !ok {
			continue
		}
		if fr.err != nil {
			w.recordError(acc, fr.path, newIOError("read", fr.path, fr.err))
			continue
		}
		if fr.entry != nil {
			entries = append(entries, fr.entry)
		}
	}
	acc.Add(entries...)

	ps := pool.GetStats()
	w.log.WithFields(logger.Fields{
		"dir":       dir,
		"entries":   len(entries),
		"parsed":    ps.CompletedTasks,
		"failed":    ps.FailedTasks,
		"parseTime": ps.Uptime,
	}).Debug("Directory walk completed")

	return nil
}

// scanDir enumerates one directory page by page. Subdirectories are scanned
// on a new goroutine when a slot is free and inline otherwise.
func (w *Walker) scanDir(ctx context.Context, st *walk, dir string, depth int) {
	if ctx.Err() != nil {
		return
	}

	f, err := w.fs.Open(dir)
	if err != nil {
		w.recordError(st.acc, dir, newIOError("open", dir, err))
		return
	}
	defer f.Close()

	w.stats.AddDirectories(1)
	w.stats.SetCurrentDir(dir)
	st.acc.directories.Add(1)

	w.log.WithFields(logger.Fields{
		"dir":   dir,
		"depth": depth,
	}).Trace("Scanning directory")

	for {
		if ctx.Err() != nil {
			return
		}

		infos, err := f.Readdir(w.config.BatchSize)
		for _, info := range infos {
			w.visit(ctx, st, dir, info.Name(), info.Mode(), depth)
		}

		if err != nil {
			if !errors.Is(err, io.EOF) {
				w.recordError(st.acc, dir, newIOError("readdir", dir, err))
			}
			return
		}
		if len(infos) == 0 {
			return
		}
	}
}

func (w *Walker) visit(ctx context.Context, st *walk, dir, name string, mode os.FileMode, depth int) {
	path := filepath.Join(dir, name)

	if mode&os.ModeSymlink != 0 {
		target, err := w.fs.Stat(path)
		if err != nil {
			if !w.config.FollowSymlinks {
				w.log.WithFields(logger.Fields{
					"path":  path,
					"error": err,
				}).Debug("Skipping dangling symlink")
				return
			}
			w.recordError(st.acc, path, newIOError("stat", path, err))
			return
		}
		// Links to files are always parsed; links to directories only
		// when following symlinks.
		if target.IsDir() && !w.config.FollowSymlinks {
			w.log.WithFields(logger.Fields{"path": path}).Trace("Skipping directory symlink")
			return
		}
		mode = target.Mode() | os.ModeSymlink
	}

	switch kindOf(mode &^ os.ModeSymlink) {
	case kindDir:
		if w.config.MaxDepth >= 0 && depth+1 > w.config.MaxDepth {
			w.log.WithFields(logger.Fields{
				"path":     path,
				"maxDepth": w.config.MaxDepth,
			}).Debug("Max depth reached")
			return
		}
		if _, seen := st.visited.LoadOrStore(w.canonical(path, mode), true); seen {
			return
		}
		w.spawn(ctx, st, path, depth+1)

	case kindFile:
		if w.config.DesktopOnly && !strings.HasSuffix(name, ".desktop") {
			return
		}
		w.submitParse(st, path)

	default:
		w.log.WithFields(logger.Fields{"path": path}).Trace("Skipping special file")
	}
}

func (w *Walker) spawn(ctx context.Context, st *walk, dir string, depth int) {
	select {
	case st.sem <- struct{}{}:
		st.wg.Add(1)
		go func() {
			defer st.wg.Done()
			defer func() { <-st.sem }()
			w.scanDir(ctx, st, dir, depth)
		}()
	default:
		w.scanDir(ctx, st, dir, depth)
	}
}

func (w *Walker) submitParse(st *walk, path string) {
	id := w.stats.AddFiles(1)
	st.acc.files.Add(1)

	err := st.pool.Submit(worker.Task{
		ID: int(id),
		Execute: func(ctx context.Context) (worker.Result, error) {
			entry, err := w.parser.Parse(path)
			w.stats.AddParsed(1)
			return worker.Result{
				ID:   int(id),
				Data: fileResult{path: path, entry: entry, err: err},
			}, nil
		},
	})
	if err != nil {
		w.log.WithFields(logger.Fields{
			"path":  path,
			"error": err,
		}).Debug("Parse task not submitted")
	}
}

// canonical is the key used to detect directories reached twice through
// symlinks. Without link following every directory is reached once, so the
// cleaned path is enough.
func (w *Walker) canonical(path string, mode os.FileMode) string {
	if w.config.FollowSymlinks {
		return physicalPath(w.fs, path)
	}
	if mode&os.ModeSymlink != 0 {
		return resolveLink(w.fs, path)
	}
	return filepath.Clean(path)
}

func (w *Walker) recordError(acc *Accumulator, path string, err error) {
	w.stats.AddErrors(1)
	acc.AddError(path, err)

	w.log.WithFields(logger.Fields{
		"path":  path,
		"error": err,
	}).Warn("Skipping unreadable path")
}

// Progress returns a live snapshot of the walker counters.
func (w *Walker) Progress() Progress {
	return w.stats.snapshot()
}
