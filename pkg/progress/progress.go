/*
Package progress renders a single live status line for a running scan.

	p := progress.New(progress.Config{
		Style:     progress.StyleSpinner,
		ShowStats: true,
		Source: func() progress.Status {
			s := coord.Progress()
			return progress.Status{CurrentDir: s.CurrentDir, Parsed: s.Parsed}
		},
	}, log)

	p.Start("Scanning")
	defer p.Stop()
*/
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sonemaro/menuscan/pkg/logger"
	"golang.org/x/term"
)

type progress struct {
	config Config
	log    logger.Logger
	writer io.Writer

	// State
	status    Status
	startTime time.Time
	message   string
	isActive  bool

	// Rendering
	renderer renderer
	width    int

	// Synchronization
	mu          sync.Mutex
	loopRunning bool
	stopChan    chan struct{}
	doneChan    chan struct{}
}

// New creates a new progress visualization instance writing to stderr
func New(config Config, log logger.Logger) Progress {
	return newProgress(config, log, os.Stderr)
}

func newProgress(config Config, log logger.Logger, w io.Writer) *progress {
	if config.RefreshRate == 0 {
		config.RefreshRate = 100 * time.Millisecond
	}
	if log == nil {
		log = logger.NewNop()
	}

	p := &progress{
		config: config,
		log:    log,
		writer: w,
	}

	// Auto-detect terminal width if not specified
	if p.config.Width == 0 {
		p.width = p.getTerminalWidth()
	} else {
		p.width = p.config.Width
	}

	p.renderer = p.createRenderer()

	p.log.WithFields(logger.Fields{
		"style":     p.config.Style,
		"width":     p.width,
		"showStats": p.config.ShowStats,
		"noColor":   p.config.NoColor,
		"refresh":   p.config.RefreshRate,
	}).Debug("Created new progress instance")

	return p
}

func (p *progress) Start(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		"message": message,
	}).Debug("Starting progress")

	p.message = message
	p.startTime = time.Now()
	p.isActive = true

	if !p.loopRunning {
		p.stopChan = make(chan struct{})
		p.doneChan = make(chan struct{})
		p.loopRunning = true
		go p.renderLoop(p.stopChan, p.doneChan)
	}

	p.render(stateRunning)
}

func (p *progress) Update(status Status) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		"dir":    status.CurrentDir,
		"parsed": status.Parsed,
	}).Trace("Updating progress")

	p.status = status

	if p.isActive {
		p.render(stateRunning)
	}
}

func (p *progress) Complete(message string) {
	p.finish(message, stateComplete)
}

func (p *progress) Error(message string) {
	p.finish(message, stateFailed)
}

func (p *progress) finish(message string, st state) {
	p.stopLoop()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		"message": message,
		"failed":  st == stateFailed,
	}).Debug("Finishing progress")

	if p.config.Source != nil {
		p.status = p.config.Source()
	}
	p.message = message
	p.render(st)

	if p.config.HideAfterComplete && st == stateComplete {
		p.clearLine()
	} else {
		fmt.Fprintln(p.writer)
	}
	p.isActive = false
}

func (p *progress) Stop() {
	p.stopLoop()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.Debug("Stopping progress")

	if p.isActive {
		p.clearLine()
		p.isActive = false
	}
}

func (p *progress) EnableStats(enable bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.WithFields(logger.Fields{
		"enabled": enable,
	}).Debug("Toggling statistics display")

	p.config.ShowStats = enable
	p.renderer = p.createRenderer()
}

func (p *progress) IsSupportedTerminal() bool {
	if f, ok := p.writer.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Internal methods

// stopLoop stops the render goroutine and waits for it. It must be called
// without p.mu held.
func (p *progress) stopLoop() {
	p.mu.Lock()
	if !p.loopRunning {
		p.mu.Unlock()
		return
	}
	stop, done := p.stopChan, p.doneChan
	p.loopRunning = false
	p.mu.Unlock()

	close(stop)
	<-done
}

func (p *progress) renderLoop(stop <-chan struct{}, done chan<- struct{}) {
	ticker := time.NewTicker(p.config.RefreshRate)
	defer ticker.Stop()
	defer close(done)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.mu.Lock()
			if p.config.Source != nil {
				p.status = p.config.Source()
			}
			if p.isActive {
				p.render(stateRunning)
			}
			p.mu.Unlock()
		}
	}
}

// render requires p.mu to be held.
func (p *progress) render(st state) {
	output := p.renderer.render(p.status, p.message, st, p.calculateStats())
	p.clearLine()
	fmt.Fprint(p.writer, output)
}

func (p *progress) clearLine() {
	if p.IsSupportedTerminal() {
		fmt.Fprint(p.writer, "\r\033[K") // Clear line
	} else {
		fmt.Fprint(p.writer, "\r") // Just return to start
	}
}

func (p *progress) getTerminalWidth() int {
	if f, ok := p.writer.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			return w
		}
	}

	return 80 // Default width
}

func (p *progress) calculateStats() Statistics {
	elapsed := time.Since(p.startTime)

	stats := Statistics{
		StartTime:   p.startTime,
		ElapsedTime: elapsed,
	}
	if elapsed > 0 {
		stats.ParseRate = float64(p.status.Parsed) / elapsed.Seconds()
	}

	return stats
}

func (p *progress) createRenderer() renderer {
	switch p.config.Style {
	case StyleSpinner:
		return &spinnerRenderer{
			width:     p.width,
			noColor:   p.config.NoColor,
			showStats: p.config.ShowStats,
		}
	default:
		return &simpleRenderer{
			width:     p.width,
			noColor:   p.config.NoColor,
			showStats: p.config.ShowStats,
		}
	}
}
