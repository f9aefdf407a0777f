/*
Package app provides the application container for menuscan. It wires the
parser, walker, coordinator, progress display and output formatter from a
config.Config, runs scans and writes their output.

Usage:

	application := app.New(cfg)
	defer application.Shutdown()

	if err := application.Menu(dirs, app.MenuOptions{}); err != nil {
	    log.Fatal(err)
	}
*/
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync"
	"time"

	"github.com/sonemaro/menuscan/internal/config"
	"github.com/sonemaro/menuscan/pkg/desktop"
	"github.com/sonemaro/menuscan/pkg/icons"
	"github.com/sonemaro/menuscan/pkg/logger"
	"github.com/sonemaro/menuscan/pkg/menu"
	"github.com/sonemaro/menuscan/pkg/output"
	"github.com/sonemaro/menuscan/pkg/progress"
	"github.com/sonemaro/menuscan/pkg/scanner"
	"github.com/sonemaro/menuscan/pkg/xdg"
	"github.com/spf13/afero"
	"golang.org/x/term"
)

// ScanOptions defines per-run options not carried by config.Config
type ScanOptions struct {
	// DesktopOnly restricts parsing to "*.desktop" files
	DesktopOnly bool
}

// MenuOptions defines the options of a menu run
type MenuOptions struct {
	ScanOptions

	// DropUncategorized omits entries with no known category
	DropUncategorized bool
}

// App represents the main application container
type App struct {
	config *config.Config
	log    logger.Logger
	fs     afero.Fs
	stdout io.Writer
	dirs   *xdg.Dirs

	parser    *desktop.Parser
	formatter output.Formatter
	progress  progress.Progress

	ctx     context.Context
	cancel  context.CancelFunc
	signals *signalHandler
	mu      sync.Mutex
}

// Option customizes an App.
type Option func(*App)

// WithFs replaces the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(a *App) { a.fs = fs }
}

// WithStdout replaces the destination of formatted output.
func WithStdout(w io.Writer) Option {
	return func(a *App) { a.stdout = w }
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(log logger.Logger) Option {
	return func(a *App) { a.log = log }
}

// WithDirs replaces the XDG directory lookup.
func WithDirs(dirs *xdg.Dirs) Option {
	return func(a *App) { a.dirs = dirs }
}

// WithoutSignals disables SIGINT/SIGTERM handling.
func WithoutSignals() Option {
	return func(a *App) { a.signals = nil }
}

// New creates a new application instance
func New(cfg *config.Config, opts ...Option) *App {
	ctx, cancel := context.WithCancel(context.Background())

	app := &App{
		config:  cfg,
		fs:      afero.NewOsFs(),
		stdout:  os.Stdout,
		dirs:    xdg.New(),
		ctx:     ctx,
		cancel:  cancel,
		signals: &signalHandler{},
	}
	for _, opt := range opts {
		opt(app)
	}

	if app.log == nil {
		app.log = logger.NewLogger(logger.Config{
			Verbosity: cfg.Verbose,
			Format:    logger.FormatConsole,
		})
	}

	app.initComponents()
	if app.signals != nil {
		app.setupSignalHandling()
	}

	app.log.WithFields(logger.Fields{
		"workers": cfg.Workers,
		"verbose": cfg.Verbose,
	}).Debug("Application initialized")

	return app
}

// initComponents initializes the parser and formatter
func (a *App) initComponents() {
	a.log.Debug("Initializing application components")

	resolver := icons.NewThemeResolver(a.fs, icons.Config{
		Dirs:  a.dirs.IconDirs(),
		Theme: a.config.IconTheme,
		Size:  a.config.IconSize,
	}, a.log)

	a.parser = desktop.NewParser(a.fs, desktop.Config{
		WMName:   a.config.WMName,
		Terminal: a.config.Terminal,
		Icons:    resolver,
	}, a.log)

	a.formatter = output.NewFormatter(output.Config{
		Format:     output.Format(a.config.Output),
		WithStats:  true,
		WithColors: !a.config.NoColor && a.config.OutputFile == "" && isTerminal(a.stdout),
		ShowHidden: a.config.ShowHidden,
	}, a.log)
}

// Scan scans dirs, or the XDG application dirs when dirs is empty, and
// writes the raw entries.
func (a *App) Scan(dirs []string, opts ScanOptions) (err error) {
	defer a.recoverPanic(&err)

	res, err := a.scan(dirs, opts)
	if err != nil {
		return err
	}

	formatted, err := a.formatter.FormatResult(res)
	if err != nil {
		return fmt.Errorf("output formatting failed: %w", err)
	}
	return a.writeOutput(formatted)
}

// Menu scans like Scan and writes the generated menu.
func (a *App) Menu(dirs []string, opts MenuOptions) (err error) {
	defer a.recoverPanic(&err)

	res, err := a.scan(dirs, opts.ScanOptions)
	if err != nil {
		return err
	}

	m := menu.Generate(res.Entries, menu.Options{
		DropUncategorized: opts.DropUncategorized,
	})

	a.log.WithFields(logger.Fields{
		"categories": len(m.Categories),
		"items":      m.Len(),
	}).Info("Menu generated")

	formatted, err := a.formatter.FormatMenu(m)
	if err != nil {
		return fmt.Errorf("output formatting failed: %w", err)
	}
	return a.writeOutput(formatted)
}

// Parse parses a single descriptor and writes it. A malformed descriptor is
// reported as an error naming the reason.
func (a *App) Parse(path string) error {
	entry, err := a.parser.ParseStrict(path)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	formatted, err := a.formatter.FormatEntry(entry)
	if err != nil {
		return fmt.Errorf("output formatting failed: %w", err)
	}
	return a.writeOutput(formatted)
}

func (a *App) scan(dirs []string, opts ScanOptions) (scanner.Result, error) {
	if len(dirs) == 0 {
		dirs = a.config.Dirs
	}
	if len(dirs) == 0 {
		dirs = a.dirs.ApplicationDirs()
	}

	walker := scanner.NewWalker(scanner.Config{
		Workers:        a.config.Workers,
		RateLimit:      a.config.RateLimit,
		BatchSize:      a.config.BatchSize,
		MaxDepth:       a.config.MaxDepth,
		FollowSymlinks: a.config.FollowSymlinks,
		DesktopOnly:    opts.DesktopOnly,
	}, a.fs, a.parser, a.log)
	coord := scanner.NewCoordinator(walker, a.log)

	a.startProgress(coord)

	done := make(chan scanner.Result, 1)
	coord.ScanDirs(a.ctx, dirs, func(res scanner.Result) {
		done <- res
	})
	res := <-done

	for path, err := range res.Errors {
		a.handleScanError(path, err)
	}

	if res.Err != nil {
		a.stopProgress(fmt.Sprintf("Scan interrupted: %v", res.Err), false)
		return res, fmt.Errorf("scan interrupted: %w", res.Err)
	}
	a.stopProgress(fmt.Sprintf("Scan complete: %d entries", len(res.Entries)), true)

	return res, nil
}

func (a *App) startProgress(coord *scanner.Coordinator) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.config.NoProgress {
		return
	}

	p := progress.New(progress.Config{
		Style:       progress.StyleSpinner,
		ShowStats:   true,
		NoColor:     a.config.NoColor,
		RefreshRate: 100 * time.Millisecond,
		Source: func() progress.Status {
			s := coord.Progress()
			return progress.Status{
				CurrentDir:  s.CurrentDir,
				Directories: s.Directories,
				Files:       s.Files,
				Parsed:      s.Parsed,
				Errors:      s.Errors,
			}
		},
	}, a.log)
	if !p.IsSupportedTerminal() {
		a.log.Debug("Progress disabled, stderr is not a terminal")
		return
	}

	a.progress = p
	a.progress.Start("Scanning")
}

func (a *App) stopProgress(message string, ok bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.progress == nil {
		return
	}
	if ok {
		a.progress.Complete(message)
	} else {
		a.progress.Error(message)
	}
	a.progress = nil
}

// handleScanError logs a recovered scan failure at a level matching its kind
func (a *App) handleScanError(path string, err error) {
	switch e := err.(type) {
	case *scanner.PermissionError:
		a.log.WithFields(logger.Fields{
			"path": e.Path,
		}).Debug("Permission denied")
	case *scanner.IOError:
		a.log.WithFields(logger.Fields{
			"path": e.Path,
			"op":   e.Op,
		}).Debug("Path not scanned")
	default:
		a.log.WithFields(logger.Fields{
			"path":  path,
			"error": err,
		}).Debug("Scan error")
	}
}

// writeOutput writes the formatted output to the configured destination
func (a *App) writeOutput(content string) error {
	outputPath := a.config.OutputFile

	a.log.WithFields(logger.Fields{
		"path": outputPath,
	}).Debug("Writing output")

	if outputPath == "" {
		_, err := fmt.Fprintln(a.stdout, content)
		if err != nil {
			a.log.WithFields(logger.Fields{
				"error": err,
			}).Error("Failed to write to stdout")
		}
		return err
	}

	if err := a.createOutputDirectory(outputPath); err != nil {
		return err
	}

	if err := afero.WriteFile(a.fs, outputPath, []byte(content), 0644); err != nil {
		a.log.WithFields(logger.Fields{
			"error": err,
			"path":  outputPath,
		}).Error("Failed to write output file")
		return fmt.Errorf("failed to write output file: %w", err)
	}

	a.log.WithFields(logger.Fields{
		"path": outputPath,
	}).Info("Output written successfully")
	return nil
}

// createOutputDirectory ensures the output directory exists
func (a *App) createOutputDirectory(path string) error {
	dir := filepath.Dir(path)
	a.log.WithFields(logger.Fields{
		"directory": dir,
	}).Debug("Ensuring output directory exists")

	if err := a.fs.MkdirAll(dir, 0755); err != nil {
		a.log.WithFields(logger.Fields{
			"error": err,
			"path":  dir,
		}).Error("Failed to create output directory")
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	return nil
}

func (a *App) recoverPanic(err *error) {
	if r := recover(); r != nil {
		a.log.WithFields(logger.Fields{
			"panic": r,
			"stack": string(debug.Stack()),
		}).Error("Recovered from panic")
		*err = fmt.Errorf("internal error: %v", r)
	}
}

// Shutdown stops signal handling and any progress display
func (a *App) Shutdown() error {
	a.log.Debug("Initiating shutdown")

	a.cancel()
	if a.signals != nil {
		a.signals.stop()
	}

	a.mu.Lock()
	if a.progress != nil {
		a.progress.Stop()
		a.progress = nil
	}
	a.mu.Unlock()

	a.log.Debug("Shutdown complete")
	return nil
}

// isTerminal checks if w is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
