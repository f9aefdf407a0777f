package desktop

import (
	"path/filepath"
	"strings"
)

// Exec field codes for files and URLs. Passing documents is not supported,
// so they are dropped.
var fileCodes = []string{"%f", "%u", "%F", "%U"}

// expandExec applies the Exec substitutions in a fixed order, each pass
// rewriting the whole string: %c, the file codes, %k, %i, then the terminal
// prefix.
func expandExec(exec string, entry *Entry, terminal bool, terminalCmd string) string {
	cmd := strings.ReplaceAll(exec, "%c", displayName(entry))

	for _, code := range fileCodes {
		cmd = strings.ReplaceAll(cmd, code, "")
	}

	cmd = strings.ReplaceAll(cmd, "%k", entry.Path)

	icon := ""
	if entry.IconPath != "" {
		icon = "--icon " + entry.IconPath
	}
	cmd = strings.ReplaceAll(cmd, "%i", icon)

	if terminal {
		cmd = terminalCmd + " -e " + cmd
	}

	return cmd
}

// displayName is the entry name, or "[<file base name>]" when it has none.
func displayName(entry *Entry) string {
	if entry.Name != "" {
		return entry.Name
	}
	base := filepath.Base(entry.Path)
	return "[" + strings.TrimSuffix(base, filepath.Ext(base)) + "]"
}
