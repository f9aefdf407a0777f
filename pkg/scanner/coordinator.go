package scanner

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/sonemaro/menuscan/pkg/desktop"
	"github.com/sonemaro/menuscan/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Coordinator is the entry point for scans. It runs walks in the
// background and reports each scan through a completion callback.
type Coordinator struct {
	walker *Walker
	log    logger.Logger
}

// NewCoordinator creates a Coordinator driving walker.
func NewCoordinator(walker *Walker, log logger.Logger) *Coordinator {
	if log == nil {
		log = logger.NewNop()
	}
	return &Coordinator{
		walker: walker,
		log:    log,
	}
}

// ScanTree scans root in the background and calls onComplete exactly once
// with the aggregated result. A root that cannot be opened is reported and
// yields an empty result.
func (c *Coordinator) ScanTree(ctx context.Context, root string, onComplete func(Result)) {
	c.ScanDirs(ctx, []string{root}, onComplete)
}

// ScanDirs scans every root concurrently in the background and calls
// onComplete exactly once. Entries of earlier roots precede those of later
// roots.
func (c *Coordinator) ScanDirs(ctx context.Context, roots []string, onComplete func(Result)) {
	var once sync.Once
	deliver := func(res Result) {
		once.Do(func() {
			if onComplete != nil {
				onComplete(res)
			}
		})
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				c.log.WithFields(logger.Fields{
					"panic": r,
					"stack": string(debug.Stack()),
				}).Error("Recovered from panic during scan")
				deliver(Result{
					Roots:  roots,
					Errors: map[string]error{"": fmt.Errorf("scan panicked: %v", r)},
				})
			}
		}()

		deliver(c.Scan(ctx, roots...))
	}()
}

// Scan scans roots and blocks until every walk has finished.
func (c *Coordinator) Scan(ctx context.Context, roots ...string) Result {
	start := time.Now()

	c.log.WithFields(logger.Fields{
		"roots": roots,
	}).Info("Starting scan")

	accs := make([]*Accumulator, len(roots))
	var g errgroup.Group
	g.SetLimit(c.walker.config.Workers)

	for i, root := range roots {
		i, root := i, root
		accs[i] = NewAccumulator()
		g.Go(func() error {
			if err := c.walker.Walk(ctx, root, accs[i]); err != nil {
				c.log.WithFields(logger.Fields{
					"root":  root,
					"error": err,
				}).Warn("Scan root unavailable")
			}
			return nil
		})
	}
	_ = g.Wait()

	res := Result{
		Roots:   roots,
		Entries: []*desktop.Entry{},
		Errors:  make(map[string]error),
		Err:     ctx.Err(),
	}
	for _, acc := range accs {
		res.Entries = append(res.Entries, acc.Entries()...)
		for path, err := range acc.Errors() {
			res.Errors[path] = err
		}
		res.Stats.Directories += acc.directories.Load()
		res.Stats.Files += acc.files.Load()
	}

	for _, e := range res.Entries {
		if !e.Show {
			res.Stats.Hidden++
		}
	}

	res.Stats.StartTime = start
	res.Stats.EndTime = time.Now()
	res.Stats.Duration = res.Stats.EndTime.Sub(start)
	res.Stats.Entries = len(res.Entries)
	res.Stats.ErrorCount = len(res.Errors)

	c.log.WithFields(logger.Fields{
		"entries":     res.Stats.Entries,
		"hidden":      res.Stats.Hidden,
		"directories": res.Stats.Directories,
		"files":       res.Stats.Files,
		"errors":      res.Stats.ErrorCount,
		"duration":    res.Stats.Duration,
	}).Info("Scan completed")

	return res
}

// Progress returns live counters across all scans run by this Coordinator.
func (c *Coordinator) Progress() Progress {
	return c.walker.Progress()
}
