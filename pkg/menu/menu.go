/*
Package menu groups scanned desktop entries into launcher categories.

Generate keeps only entries that are visible and launchable, files each one
under the first of its categories found in the category table and sorts the
items of every category by name in natural order:

	m := menu.Generate(result.Entries, menu.Options{})
	for _, c := range m.Categories {
		fmt.Println(c.Name, len(c.Items))
	}
*/
package menu

import (
	"sort"
	"strings"

	"github.com/maruel/natural"
	"github.com/sonemaro/menuscan/pkg/desktop"
)

// OtherKey collects entries without a known category.
const OtherKey = "Other"

// CategoryInfo describes one launcher category.
type CategoryInfo struct {
	Key  string
	Name string
	Icon string
}

// Categories is the category table in display order.
var Categories = []CategoryInfo{
	{Key: "AudioVideo", Name: "Multimedia", Icon: "applications-multimedia"},
	{Key: "Development", Name: "Development", Icon: "applications-development"},
	{Key: "Education", Name: "Education", Icon: "applications-science"},
	{Key: "Game", Name: "Games", Icon: "applications-games"},
	{Key: "Graphics", Name: "Graphics", Icon: "applications-graphics"},
	{Key: "Office", Name: "Office", Icon: "applications-office"},
	{Key: "Network", Name: "Internet", Icon: "applications-internet"},
	{Key: "Settings", Name: "Settings", Icon: "applications-utilities"},
	{Key: "System", Name: "System Tools", Icon: "applications-system"},
	{Key: "Utility", Name: "Accessories", Icon: "applications-accessories"},
}

var other = CategoryInfo{Key: OtherKey, Name: "Other", Icon: "applications-other"}

// Item is one launchable menu entry.
type Item struct {
	Name    string `json:"name" yaml:"name"`
	Command string `json:"command" yaml:"command"`
	Icon    string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Comment string `json:"comment,omitempty" yaml:"comment,omitempty"`
	Path    string `json:"path" yaml:"path"`
}

// Category is a named group of items.
type Category struct {
	Key   string `json:"key" yaml:"key"`
	Name  string `json:"name" yaml:"name"`
	Icon  string `json:"icon" yaml:"icon"`
	Items []Item `json:"items" yaml:"items"`
}

// Menu is the generated launcher menu.
type Menu struct {
	Categories []Category `json:"categories" yaml:"categories"`
}

// Options controls menu generation.
type Options struct {
	// DropUncategorized omits entries with no known category instead of
	// filing them under Other.
	DropUncategorized bool
}

// Len returns the number of items across all categories.
func (m *Menu) Len() int {
	n := 0
	for _, c := range m.Categories {
		n += len(c.Items)
	}
	return n
}

// Generate builds a menu from entries. Empty categories are omitted.
func Generate(entries []*desktop.Entry, opts Options) *Menu {
	byKey := make(map[string][]Item)
	seen := make(map[[2]string]bool)

	for _, e := range entries {
		if e == nil || !e.Show || e.Name == "" || !e.Launchable() {
			continue
		}

		key := categoryOf(e.Categories)
		if key == OtherKey && opts.DropUncategorized {
			continue
		}

		id := [2]string{e.Name, e.CommandLine}
		if seen[id] {
			continue
		}
		seen[id] = true

		icon := e.IconPath
		if icon == "" {
			icon = e.Icon
		}
		byKey[key] = append(byKey[key], Item{
			Name:    e.Name,
			Command: e.CommandLine,
			Icon:    icon,
			Comment: e.Comment,
			Path:    e.Path,
		})
	}

	order := append(append([]CategoryInfo{}, Categories...), other)

	m := &Menu{Categories: []Category{}}
	for _, info := range order {
		items := byKey[info.Key]
		if len(items) == 0 {
			continue
		}
		sort.SliceStable(items, func(i, j int) bool {
			return natural.Less(strings.ToLower(items[i].Name), strings.ToLower(items[j].Name))
		})
		m.Categories = append(m.Categories, Category{
			Key:   info.Key,
			Name:  info.Name,
			Icon:  info.Icon,
			Items: items,
		})
	}
	return m
}

func categoryOf(categories []string) string {
	for _, c := range categories {
		for _, info := range Categories {
			if c == info.Key {
				return info.Key
			}
		}
	}
	return OtherKey
}
