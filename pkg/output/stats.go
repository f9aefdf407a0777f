package output

import (
	"fmt"
	"time"

	"github.com/sonemaro/menuscan/pkg/logger"
	"github.com/sonemaro/menuscan/pkg/scanner"
)

// stats holds statistics about the scan
type stats struct {
	Entries     int    `json:"totalEntries" yaml:"totalEntries"`
	Hidden      int    `json:"hiddenEntries" yaml:"hiddenEntries"`
	Directories int64  `json:"totalDirectories" yaml:"totalDirectories"`
	Files       int64  `json:"totalFiles" yaml:"totalFiles"`
	Errors      int    `json:"errors" yaml:"errors"`
	Duration    string `json:"duration" yaml:"duration"`
}

func (f *formatter) calculateStats(res scanner.Result) *stats {
	f.log.Debug("Calculating scan statistics")

	s := &stats{
		Entries:     res.Stats.Entries,
		Hidden:      res.Stats.Hidden,
		Directories: res.Stats.Directories,
		Files:       res.Stats.Files,
		Errors:      res.Stats.ErrorCount,
		Duration:    FormatDuration(res.Stats.Duration),
	}

	f.log.WithFields(logger.Fields{
		"entries": s.Entries,
		"hidden":  s.Hidden,
		"dirs":    s.Directories,
		"files":   s.Files,
	}).Debug("Statistics calculated")

	return s
}

// FormatDuration formats a duration for display
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm%ds",
			int(d.Minutes()),
			int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh%dm%ds",
		int(d.Hours()),
		int(d.Minutes())%60,
		int(d.Seconds())%60)
}
