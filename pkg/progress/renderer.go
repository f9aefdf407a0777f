package progress

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/fatih/color"
)

type renderer interface {
	render(Status, string, state, Statistics) string
}

type spinnerRenderer struct {
	width     int
	noColor   bool
	showStats bool
	frame     int
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (r *spinnerRenderer) render(status Status, message string, st state, stats Statistics) string {
	var marker string
	switch st {
	case stateComplete:
		marker = colorize("✓", color.FgGreen, r.noColor)
	case stateFailed:
		marker = colorize("✗", color.FgRed, r.noColor)
	default:
		r.frame = (r.frame + 1) % len(spinnerFrames)
		marker = colorize(spinnerFrames[r.frame], color.FgCyan, r.noColor)
	}

	line := marker + " " + message
	if r.showStats {
		line += " | " + counters(status, stats)
	}
	if st == stateRunning && status.CurrentDir != "" {
		line += " | " + status.CurrentDir
	}

	return "\r" + truncate(line, r.width)
}

type simpleRenderer struct {
	width     int
	noColor   bool
	showStats bool
}

func (r *simpleRenderer) render(status Status, message string, st state, stats Statistics) string {
	switch st {
	case stateFailed:
		message = colorize(message, color.FgRed, r.noColor)
	case stateComplete:
		message = colorize(message, color.FgGreen, r.noColor)
	}

	line := fmt.Sprintf("%s (%d parsed)", message, status.Parsed)
	if r.showStats {
		line += " | " + counters(status, stats)
	}

	return "\r" + truncate(line, r.width)
}

// Helper functions

func counters(status Status, stats Statistics) string {
	s := fmt.Sprintf("dirs: %d | files: %d | parsed: %d | %.1f/s | %s",
		status.Directories,
		status.Files,
		status.Parsed,
		stats.ParseRate,
		formatDuration(stats.ElapsedTime))
	if status.Errors > 0 {
		s += fmt.Sprintf(" | errors: %d", status.Errors)
	}
	return s
}

// colorize ignores color.NoColor; the caller has already decided whether
// the terminal supports color.
func colorize(s string, attr color.Attribute, noColor bool) string {
	c := color.New(attr)
	if noColor {
		c.DisableColor()
	} else {
		c.EnableColor()
	}
	return c.Sprint(s)
}

// truncate shortens s to width runes. Escape sequences count towards the
// width, so colored lines may end up shorter than necessary.
func truncate(s string, width int) string {
	if width <= 0 || utf8.RuneCountInString(s) <= width {
		return s
	}

	var out string
	if width <= 3 {
		out = string([]rune(s)[:width])
	} else {
		out = string([]rune(s)[:width-3]) + "..."
	}
	if strings.Contains(s, "\033[") {
		out += "\033[0m"
	}
	return out
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
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
