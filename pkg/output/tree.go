package output

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/sonemaro/menuscan/pkg/desktop"
	"github.com/sonemaro/menuscan/pkg/logger"
	"github.com/sonemaro/menuscan/pkg/menu"
	"github.com/sonemaro/menuscan/pkg/scanner"
)

// palette holds the colors of one formatter. Colors are forced on or off
// regardless of whether stdout is a terminal.
type palette struct {
	dir     *color.Color
	command *color.Color
	hidden  *color.Color
	err     *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		dir:     mk(color.FgBlue, color.Bold),
		command: mk(color.FgCyan),
		hidden:  mk(color.FgYellow),
		err:     mk(color.FgRed),
	}
}

// formatResultTree lists entries grouped by the directory they were found
// in, directories in order of first appearance.
func (f *formatter) formatResultTree(res scanner.Result, entries []*desktop.Entry) string {
	f.log.Debug("Formatting tree output")

	var dirs []string
	byDir := make(map[string][]*desktop.Entry)
	for _, e := range entries {
		dir := filepath.Dir(e.Path)
		if _, ok := byDir[dir]; !ok {
			dirs = append(dirs, dir)
		}
		byDir[dir] = append(byDir[dir], e)
	}

	var builder strings.Builder
	for _, dir := range dirs {
		builder.WriteString(f.colors.dir.Sprint(dir + "/"))
		builder.WriteString("\n")

		group := byDir[dir]
		for i, e := range group {
			f.writeBranch(&builder, "", i == len(group)-1, f.entryLine(e))
		}
	}

	if errs := sortedErrors(res.Errors); len(errs) > 0 {
		builder.WriteString("\nErrors:\n")
		for _, e := range errs {
			builder.WriteString("  ")
			builder.WriteString(f.colors.err.Sprint(e.Path))
			builder.WriteString(": ")
			builder.WriteString(e.Error)
			builder.WriteString("\n")
		}
	}

	if f.config.WithStats {
		f.log.Debug("Adding statistics to output")
		s := f.calculateStats(res)
		builder.WriteString("\nStatistics:\n")
		builder.WriteString(fmt.Sprintf("  Total Entries: %d\n", s.Entries))
		builder.WriteString(fmt.Sprintf("  Hidden Entries: %d\n", s.Hidden))
		builder.WriteString(fmt.Sprintf("  Total Directories: %d\n", s.Directories))
		builder.WriteString(fmt.Sprintf("  Total Files: %d\n", s.Files))
		builder.WriteString(fmt.Sprintf("  Errors: %d\n", s.Errors))
		builder.WriteString(fmt.Sprintf("  Duration: %s\n", s.Duration))
	}

	return builder.String()
}

func (f *formatter) formatMenuTree(m *menu.Menu) string {
	f.log.Debug("Formatting tree output")

	var builder strings.Builder
	builder.WriteString("menu/\n")

	for i, c := range m.Categories {
		lastCategory := i == len(m.Categories)-1
		f.writeBranch(&builder, "", lastCategory, f.colors.dir.Sprint(c.Name+"/"))

		prefix := "│   "
		if lastCategory {
			prefix = "    "
		}
		for j, item := range c.Items {
			line := item.Name + "  " + f.colors.command.Sprint(item.Command)
			f.writeBranch(&builder, prefix, j == len(c.Items)-1, line)
		}
	}

	return builder.String()
}

func (f *formatter) formatEntryTree(e *desktop.Entry) string {
	f.log.Debug("Formatting tree output")

	var builder strings.Builder
	builder.WriteString(f.colors.dir.Sprint(e.Path))
	builder.WriteString("\n")

	fields := [][2]string{
		{"Name", e.Name},
		{"GenericName", e.GenericName},
		{"Comment", e.Comment},
		{"Type", e.Type},
		{"Exec", e.Exec},
		{"CommandLine", e.CommandLine},
		{"Icon", e.Icon},
		{"IconPath", e.IconPath},
		{"Categories", strings.Join(e.Categories, ";")},
		{"Terminal", fmt.Sprint(e.Terminal)},
		{"Show", fmt.Sprint(e.Show)},
	}

	var lines []string
	for _, kv := range fields {
		if kv[1] == "" {
			continue
		}
		lines = append(lines, kv[0]+": "+kv[1])
	}
	for i, line := range lines {
		f.writeBranch(&builder, "", i == len(lines)-1, line)
	}

	return builder.String()
}

func (f *formatter) entryLine(e *desktop.Entry) string {
	f.log.WithFields(logger.Fields{
		"entry": e.Name,
		"path":  e.Path,
	}).Trace("Formatting tree node")

	line := e.Name
	if e.CommandLine != "" {
		line += "  " + f.colors.command.Sprint(e.CommandLine)
	}
	if !e.Show {
		line += " " + f.colors.hidden.Sprint("(hidden)")
	}
	return line
}

func (f *formatter) writeBranch(builder *strings.Builder, prefix string, isLast bool, text string) {
	if isLast {
		builder.WriteString(prefix + "└── ")
	} else {
		builder.WriteString(prefix + "├── ")
	}
	builder.WriteString(text)
	builder.WriteString("\n")
}
