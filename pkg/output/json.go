package output

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/sonemaro/menuscan/pkg/desktop"
	"github.com/sonemaro/menuscan/pkg/logger"
	"github.com/sonemaro/menuscan/pkg/menu"
	"github.com/sonemaro/menuscan/pkg/scanner"
)

// scanError is one recovered failure in serialized output.
type scanError struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// resultOutput represents a complete scan in JSON and YAML output
type resultOutput struct {
	Roots      []string         `json:"roots" yaml:"roots"`
	Entries    []*desktop.Entry `json:"entries" yaml:"entries"`
	Errors     []scanError      `json:"errors,omitempty" yaml:"errors,omitempty"`
	Statistics *stats           `json:"statistics,omitempty" yaml:"statistics,omitempty"`
	Generated  time.Time        `json:"generated" yaml:"generated"`
}

// menuOutput represents a generated menu in JSON and YAML output
type menuOutput struct {
	Categories []menu.Category `json:"categories" yaml:"categories"`
	Items      int             `json:"items" yaml:"items"`
	Generated  time.Time       `json:"generated" yaml:"generated"`
}

func (f *formatter) resultDocument(res scanner.Result, entries []*desktop.Entry) *resultOutput {
	doc := &resultOutput{
		Roots:     res.Roots,
		Entries:   entries,
		Errors:    sortedErrors(res.Errors),
		Generated: time.Now(),
	}

	if f.config.WithStats {
		f.log.Debug("Adding statistics to output")
		doc.Statistics = f.calculateStats(res)
	}

	return doc
}

func (f *formatter) menuDocument(m *menu.Menu) *menuOutput {
	return &menuOutput{
		Categories: m.Categories,
		Items:      m.Len(),
		Generated:  time.Now(),
	}
}

func (f *formatter) marshalJSON(v interface{}) (string, error) {
	f.log.Debug("Formatting JSON output")

	bytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		f.log.WithFields(logger.Fields{
			"error": err,
		}).Error("Failed to marshal JSON")
		return "", err
	}

	return string(bytes), nil
}

// sortedErrors orders errors by path for stable output.
func sortedErrors(errs map[string]error) []scanError {
	if len(errs) == 0 {
		return nil
	}
	out := make([]scanError, 0, len(errs))
	for path, err := range errs {
		out = append(out, scanError{Path: path, Error: err.Error()})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out
}
