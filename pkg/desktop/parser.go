/*
Package desktop parses freedesktop application descriptors (".desktop" files)
into Entry records.

Only the [Desktop Entry] group is read. Parsing stops at the next group
header, comment lines are skipped, and for repeated keys the last value wins.
Localized keys such as "Name[de]" are not matched by the key grammar and are
ignored.

	p := desktop.NewParser(afero.NewOsFs(), desktop.Config{
		WMName:   "awesome",
		Terminal: "xterm",
	}, log)

	entry, err := p.Parse("/usr/share/applications/firefox.desktop")
	// entry == nil && err == nil: the file is not a valid entry
*/
package desktop

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/sonemaro/menuscan/pkg/icons"
	"github.com/sonemaro/menuscan/pkg/logger"
	"github.com/spf13/afero"
)

// maxLineSize bounds a single descriptor line.
const maxLineSize = 1 << 20

var keyValue = regexp.MustCompile(`^(\w+)\s*=\s*(.*)$`)

// Config holds the host settings the parser applies to every entry.
type Config struct {
	// WMName is matched against OnlyShowIn.
	WMName string

	// Terminal is prefixed as "<Terminal> -e " to Terminal=true entries.
	Terminal string

	// Icons resolves Icon values. Nil disables icon resolution.
	Icons icons.Resolver
}

// Parser turns descriptor files into entries. It holds no per-parse state
// and is safe for concurrent use.
type Parser struct {
	fs     afero.Fs
	config Config
	log    logger.Logger
}

// NewParser creates a Parser reading from fs.
func NewParser(fs afero.Fs, config Config, log logger.Logger) *Parser {
	if log == nil {
		log = logger.NewNop()
	}
	return &Parser{
		fs:     fs,
		config: config,
		log:    log,
	}
}

// Parse reads the descriptor at path. It returns (nil, nil) for a readable
// file that is not a valid entry and a non-nil error only for I/O failures.
func (p *Parser) Parse(path string) (*Entry, error) {
	entry, err := p.ParseStrict(path)
	if errors.Is(err, ErrMalformed) {
		p.log.WithFields(logger.Fields{
			"path":   path,
			"reason": err.Error(),
		}).Debug("Skipping descriptor")
		return nil, nil
	}
	return entry, err
}

// ParseStrict is Parse but reports malformed files as errors wrapping
// ErrMalformed.
func (p *Parser) ParseStrict(path string) (*Entry, error) {
	f, err := p.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open descriptor %s: %w", path, err)
	}
	defer f.Close()

	return p.ParseReader(path, f)
}

// ParseReader parses descriptor text from r. path is recorded on the entry
// and used for %k substitution.
func (p *Parser) ParseReader(path string, r io.Reader) (*Entry, error) {
	fields, err := readPrimaryGroup(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read descriptor %s: %w", path, err)
	}
	if fields == nil {
		return nil, ErrMissingGroup
	}

	name := fields[KeyName]
	if name == "" {
		return nil, ErrMissingName
	}

	entry := newEntry(path, fields)
	entry.Show = p.visible(fields)

	if icon, ok := fields[KeyIcon]; ok && p.config.Icons != nil {
		if resolved, found := p.config.Icons.FindIconPath(icon); found {
			entry.IconPath = resolved
		}
	}

	if exec, ok := fields[KeyExec]; ok {
		entry.CommandLine = expandExec(exec, entry, fields[KeyTerminal] == "true", p.config.Terminal)
	}

	p.log.WithFields(logger.Fields{
		"path": path,
		"name": entry.Name,
		"show": entry.Show,
	}).Trace("Parsed descriptor")

	return entry, nil
}

// readPrimaryGroup returns the key/value pairs of the primary group, or nil
// when the group header never appears.
func readPrimaryGroup(r io.Reader) (map[string]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)

	var fields map[string]string
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if fields == nil {
			if trimmed == PrimaryGroup {
				fields = make(map[string]string)
			}
			continue
		}

		if isGroupHeader(trimmed) {
			break
		}

		if m := keyValue.FindStringSubmatch(line); m != nil {
			fields[m[1]] = m[2]
		}
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	return fields, nil
}

func isGroupHeader(line string) bool {
	return strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]")
}

func newEntry(path string, fields map[string]string) *Entry {
	entry := &Entry{
		Path:        path,
		Name:        fields[KeyName],
		GenericName: fields[KeyGenericName],
		Comment:     fields[KeyComment],
		Type:        fields[KeyType],
		Exec:        fields[KeyExec],
		Icon:        fields[KeyIcon],
		Terminal:    fields[KeyTerminal] == "true",
		NoDisplay:   strings.EqualFold(fields[KeyNoDisplay], "true"),
		OnlyShowIn:  fields[KeyOnlyShowIn],
		Show:        true,
	}

	if categories, ok := fields[KeyCategories]; ok {
		entry.Categories = splitList(categories)
	}

	for k, v := range fields {
		if recognized(k) {
			continue
		}
		if entry.Extra == nil {
			entry.Extra = make(map[string]string)
		}
		entry.Extra[k] = v
	}

	return entry
}

func (p *Parser) visible(fields map[string]string) bool {
	if noDisplay, ok := fields[KeyNoDisplay]; ok && strings.EqualFold(noDisplay, "true") {
		return false
	}
	if onlyShowIn, ok := fields[KeyOnlyShowIn]; ok && !strings.Contains(onlyShowIn, p.config.WMName) {
		return false
	}
	return true
}

func recognized(key string) bool {
	switch key {
	case KeyName, KeyGenericName, KeyComment, KeyType, KeyExec, KeyIcon,
		KeyTerminal, KeyNoDisplay, KeyOnlyShowIn, KeyCategories:
		return true
	}
	return false
}

// splitList splits a ';' separated value, dropping empty items.
func splitList(value string) []string {
	parts := strings.Split(value, ";")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
