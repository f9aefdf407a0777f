package scanner

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// NewScannerStats creates a zeroed set of live counters.
func NewScannerStats() *ScannerStats {
	return &ScannerStats{}
}

func (s *ScannerStats) AddDirectories(delta int64) int64 {
	return s.directories.Add(delta)
}

func (s *ScannerStats) AddFiles(delta int64) int64 {
	return s.files.Add(delta)
}

func (s *ScannerStats) AddParsed(delta int64) int64 {
	return s.parsed.Add(delta)
}

func (s *ScannerStats) AddErrors(delta int64) int64 {
	return s.errors.Add(delta)
}

func (s *ScannerStats) SetCurrentDir(dir string) {
	s.currentDir.Store(dir)
}

func (s *ScannerStats) snapshot() Progress {
	p := Progress{
		Directories: s.directories.Load(),
		Files:       s.files.Load(),
		Parsed:      s.parsed.Load(),
		Errors:      s.errors.Load(),
	}
	if dir, ok := s.currentDir.Load().(string); ok {
		p.CurrentDir = dir
	}
	return p
}

// physicalPath returns path with every symlink in it resolved. On the OS
// filesystem this is filepath.EvalSymlinks; other filesystems fall back to
// following the final link only.
func physicalPath(fs afero.Fs, path string) string {
	if _, ok := fs.(*afero.OsFs); ok {
		if real, err := filepath.EvalSymlinks(path); err == nil {
			return real
		}
	}
	return resolveLink(fs, path)
}

// resolveLink returns the cleaned target of the symlink at path when fs can
// read links, or path itself otherwise.
func resolveLink(fs afero.Fs, path string) string {
	reader, ok := fs.(afero.LinkReader)
	if !ok {
		return path
	}

	// Bound the chain so a link loop cannot spin forever.
	current := path
	for i := 0; i < 40; i++ {
		target, err := reader.ReadlinkIfPossible(current)
		if err != nil {
			return filepath.Clean(current)
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(current), target)
		}
		current = target
	}
	return filepath.Clean(current)
}

// entryKind classifies a directory entry.
type entryKind int

const (
	kindOther entryKind = iota
	kindFile
	kindDir
)

func kindOf(mode os.FileMode) entryKind {
	switch {
	case mode.IsDir():
		return kindDir
	case mode.IsRegular():
		return kindFile
	default:
		return kindOther
	}
}
