// Package xdg resolves the freedesktop base directories that hold
// application descriptors and icons.
package xdg

import (
	"path/filepath"

	basedir "github.com/adrg/xdg"
)

const pixmapsDir = "/usr/share/pixmaps"

// Dirs holds the base directories the search paths are derived from.
type Dirs struct {
	// Home is the user's home directory, empty when unknown.
	Home string

	// DataHome is the user data directory (XDG_DATA_HOME).
	DataHome string

	// DataDirs are the system data directories (XDG_DATA_DIRS) in
	// preference order.
	DataDirs []string
}

// New returns Dirs for the process environment as last loaded by
// github.com/adrg/xdg. Call Reload after changing the environment.
func New() *Dirs {
	return &Dirs{
		Home:     basedir.Home,
		DataHome: basedir.DataHome,
		DataDirs: append([]string(nil), basedir.DataDirs...),
	}
}

// Reload re-reads the XDG environment variables.
func Reload() {
	basedir.Reload()
}

// DataDirs returns DataHome followed by each system data dir.
func (d *Dirs) DataDirs() []string {
	var dirs []string
	if d.DataHome != "" {
		dirs = append(dirs, d.DataHome)
	}
	for _, dir := range d.DataDirs {
		if dir != "" {
			dirs = append(dirs, dir)
		}
	}
	return unique(dirs)
}

// ApplicationDirs returns the "applications" directory under each data dir.
func (d *Dirs) ApplicationDirs() []string {
	var dirs []string
	for _, dir := range d.DataDirs() {
		dirs = append(dirs, filepath.Join(dir, "applications"))
	}
	return unique(dirs)
}

// IconDirs returns the icon search path: ~/.icons, each data dir's
// "icons" directory and the legacy pixmaps directory.
func (d *Dirs) IconDirs() []string {
	var dirs []string
	if d.Home != "" {
		dirs = append(dirs, filepath.Join(d.Home, ".icons"))
	}
	for _, dir := range d.DataDirs() {
		dirs = append(dirs, filepath.Join(dir, "icons"))
	}
	dirs = append(dirs, pixmapsDir)
	return unique(dirs)
}

// unique drops repeated directories, keeping the first occurrence.
func unique(dirs []string) []string {
	seen := make(map[string]bool, len(dirs))
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		dir = filepath.Clean(dir)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		out = append(out, dir)
	}
	return out
}
