/*
Package icons resolves desktop entry icon names to files on disk.

An icon name is either an absolute path, a file name with an image extension,
or a bare theme name such as "firefox". ThemeResolver searches the freedesktop
icon directories for the latter:

	<dir>/<theme>/<size>x<size>/apps/<name>.<ext>
	<dir>/<theme>/scalable/apps/<name>.svg
	<dir>/<name>.<ext>

Lookups, including misses, are cached so repeated names across a scan cost a
single filesystem probe.
*/
package icons

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sonemaro/menuscan/pkg/logger"
	"github.com/spf13/afero"
)

// Resolver maps an icon name to an icon file path.
type Resolver interface {
	// FindIconPath returns the resolved path and true, or "" and false when
	// no icon file could be found.
	FindIconPath(name string) (string, bool)
}

// Extensions lists the image extensions tried for bare icon names, in order.
var Extensions = []string{"png", "xpm", "svg"}

// Config holds ThemeResolver settings.
type Config struct {
	// Dirs are the base icon directories, searched in order.
	Dirs []string

	// Theme is the icon theme name, e.g. "hicolor".
	Theme string

	// Size is the preferred fixed icon size in pixels.
	Size int
}

type lookup struct {
	path  string
	found bool
}

// ThemeResolver implements Resolver over an afero filesystem.
type ThemeResolver struct {
	fs     afero.Fs
	config Config
	log    logger.Logger
	cache  sync.Map // name -> lookup
}

// NewThemeResolver creates a resolver searching cfg.Dirs on fs.
func NewThemeResolver(fs afero.Fs, cfg Config, log logger.Logger) *ThemeResolver {
	if cfg.Theme == "" {
		cfg.Theme = "hicolor"
	}
	if cfg.Size <= 0 {
		cfg.Size = 48
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &ThemeResolver{
		fs:     fs,
		config: cfg,
		log:    log,
	}
}

// FindIconPath implements Resolver.
func (r *ThemeResolver) FindIconPath(name string) (string, bool) {
	if name == "" {
		return "", false
	}

	if cached, ok := r.cache.Load(name); ok {
		l := cached.(lookup)
		return l.path, l.found
	}

	path, found := r.lookup(name)
	r.cache.Store(name, lookup{path: path, found: found})

	r.log.WithFields(logger.Fields{
		"icon":  name,
		"path":  path,
		"found": found,
	}).Trace("Icon lookup")

	return path, found
}

func (r *ThemeResolver) lookup(name string) (string, bool) {
	if filepath.IsAbs(name) {
		if r.isFile(name) {
			return name, true
		}
		return "", false
	}

	if hasImageExt(name) {
		for _, dir := range r.config.Dirs {
			if candidate := filepath.Join(dir, name); r.isFile(candidate) {
				return candidate, true
			}
		}
		return "", false
	}

	for _, candidate := range r.candidates(name) {
		if r.isFile(candidate) {
			return candidate, true
		}
	}

	return "", false
}

// candidates lists every path tried for a bare icon name, in priority order.
func (r *ThemeResolver) candidates(name string) []string {
	size := fmt.Sprintf("%dx%d", r.config.Size, r.config.Size)

	var out []string
	for _, dir := range r.config.Dirs {
		for _, ext := range Extensions {
			out = append(out, filepath.Join(dir, r.config.Theme, size, "apps", name+"."+ext))
		}
		out = append(out, filepath.Join(dir, r.config.Theme, "scalable", "apps", name+".svg"))
		for _, ext := range Extensions {
			out = append(out, filepath.Join(dir, name+"."+ext))
		}
	}

	return out
}

func (r *ThemeResolver) isFile(path string) bool {
	info, err := r.fs.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func hasImageExt(name string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// StaticResolver resolves names from a fixed table.
type StaticResolver map[string]string

// FindIconPath implements Resolver.
func (s StaticResolver) FindIconPath(name string) (string, bool) {
	path, ok := s[name]
	return path, ok
}
