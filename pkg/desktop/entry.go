package desktop

import (
	"errors"
	"fmt"
)

// PrimaryGroup is the only group whose keys are read.
const PrimaryGroup = "[Desktop Entry]"

// Recognized keys of the primary group.
const (
	KeyName        = "Name"
	KeyGenericName = "GenericName"
	KeyComment     = "Comment"
	KeyType        = "Type"
	KeyExec        = "Exec"
	KeyIcon        = "Icon"
	KeyTerminal    = "Terminal"
	KeyNoDisplay   = "NoDisplay"
	KeyOnlyShowIn  = "OnlyShowIn"
	KeyCategories  = "Categories"
)

var (
	// ErrMalformed marks a readable file that does not describe an entry.
	ErrMalformed = errors.New("malformed desktop entry")

	// ErrMissingGroup is returned when the [Desktop Entry] group is absent.
	ErrMissingGroup = fmt.Errorf("%w: no %s group", ErrMalformed, PrimaryGroup)

	// ErrMissingName is returned when Name is absent or empty.
	ErrMissingName = fmt.Errorf("%w: missing Name", ErrMalformed)
)

// Entry is one parsed descriptor. It is fully populated by the parser and
// never modified afterwards.
type Entry struct {
	// Path is the file the entry was read from.
	Path string `json:"path" yaml:"path"`

	Name        string   `json:"name" yaml:"name"`
	GenericName string   `json:"genericName,omitempty" yaml:"genericName,omitempty"`
	Comment     string   `json:"comment,omitempty" yaml:"comment,omitempty"`
	Type        string   `json:"type,omitempty" yaml:"type,omitempty"`
	Exec        string   `json:"exec,omitempty" yaml:"exec,omitempty"`
	Icon        string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	Terminal    bool     `json:"terminal,omitempty" yaml:"terminal,omitempty"`
	NoDisplay   bool     `json:"noDisplay,omitempty" yaml:"noDisplay,omitempty"`
	OnlyShowIn  string   `json:"onlyShowIn,omitempty" yaml:"onlyShowIn,omitempty"`
	Categories  []string `json:"categories,omitempty" yaml:"categories,omitempty"`

	// Extra holds keys of the primary group with no dedicated field.
	Extra map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`

	// Show is false when a visibility rule hides the entry.
	Show bool `json:"show" yaml:"show"`

	// IconPath is the resolved icon file, empty when unresolved.
	IconPath string `json:"iconPath,omitempty" yaml:"iconPath,omitempty"`

	// CommandLine is Exec after placeholder substitution, empty when the
	// entry has no Exec key.
	CommandLine string `json:"commandLine,omitempty" yaml:"commandLine,omitempty"`
}

// Launchable reports whether the entry carries a command line.
func (e *Entry) Launchable() bool {
	return e.CommandLine != ""
}
