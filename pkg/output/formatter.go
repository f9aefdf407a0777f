/*
Package output provides formatters for scan results and generated menus in
tree, JSON and YAML form. The tree view supports colored output and every
format can carry scan statistics.

Basic usage:

	formatter := output.NewFormatter(output.Config{
		Format:     output.FormatTree,
		WithStats:  true,
		WithColors: true,
	}, log)

	text, err := formatter.FormatResult(result)
*/
package output

import (
	"fmt"

	"github.com/sonemaro/menuscan/pkg/desktop"
	"github.com/sonemaro/menuscan/pkg/logger"
	"github.com/sonemaro/menuscan/pkg/menu"
	"github.com/sonemaro/menuscan/pkg/scanner"
)

// Format represents the output format type
type Format string

const (
	FormatTree Format = "tree"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	switch f {
	case FormatTree, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// Config holds formatter configuration
type Config struct {
	Format     Format
	WithStats  bool
	WithColors bool

	// ShowHidden keeps entries whose visibility rules hide them.
	ShowHidden bool
}

// Formatter defines the interface for output formatting
type Formatter interface {
	FormatResult(scanner.Result) (string, error)
	FormatMenu(*menu.Menu) (string, error)
	FormatEntry(*desktop.Entry) (string, error)
}

// formatter implements the Formatter interface
type formatter struct {
	config Config
	colors palette
	log    logger.Logger
}

// NewFormatter creates a new formatter instance
func NewFormatter(config Config, log logger.Logger) Formatter {
	if log == nil {
		log = logger.NewNop()
	}
	return &formatter{
		config: config,
		colors: newPalette(config.WithColors),
		log:    log,
	}
}

// FormatResult formats the entries, errors and statistics of a scan.
func (f *formatter) FormatResult(res scanner.Result) (string, error) {
	f.logStart("result")

	entries := f.visibleEntries(res.Entries)

	switch f.config.Format {
	case FormatTree:
		return f.formatResultTree(res, entries), nil
	case FormatJSON:
		return f.marshalJSON(f.resultDocument(res, entries))
	case FormatYAML:
		return f.marshalYAML(f.resultDocument(res, entries))
	default:
		return "", f.unsupported()
	}
}

// FormatMenu formats a generated menu.
func (f *formatter) FormatMenu(m *menu.Menu) (string, error) {
	if m == nil {
		msg := "nil menu provided for formatting"
		f.log.Error(msg)
		return "", fmt.Errorf("%s", msg)
	}
	f.logStart("menu")

	switch f.config.Format {
	case FormatTree:
		return f.formatMenuTree(m), nil
	case FormatJSON:
		return f.marshalJSON(f.menuDocument(m))
	case FormatYAML:
		return f.marshalYAML(f.menuDocument(m))
	default:
		return "", f.unsupported()
	}
}

// FormatEntry formats a single parsed entry.
func (f *formatter) FormatEntry(e *desktop.Entry) (string, error) {
	if e == nil {
		msg := "nil entry provided for formatting"
		f.log.Error(msg)
		return "", fmt.Errorf("%s", msg)
	}
	f.logStart("entry")

	switch f.config.Format {
	case FormatTree:
		return f.formatEntryTree(e), nil
	case FormatJSON:
		return f.marshalJSON(e)
	case FormatYAML:
		return f.marshalYAML(e)
	default:
		return "", f.unsupported()
	}
}

func (f *formatter) logStart(kind string) {
	f.log.WithFields(logger.Fields{
		"kind":       kind,
		"format":     f.config.Format,
		"withStats":  f.config.WithStats,
		"withColors": f.config.WithColors,
	}).Debug("Starting format operation")
}

func (f *formatter) unsupported() error {
	msg := fmt.Sprintf("unsupported format: %s", f.config.Format)
	f.log.Error(msg)
	return fmt.Errorf("%s", msg)
}

func (f *formatter) visibleEntries(entries []*desktop.Entry) []*desktop.Entry {
	if f.config.ShowHidden {
		return entries
	}
	out := make([]*desktop.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Show {
			out = append(out, e)
		}
	}
	return out
}
