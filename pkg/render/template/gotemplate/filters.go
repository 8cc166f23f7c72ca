package gotemplate

import (
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

var (
	filtersOnce sync.Once
	htmlPolicy  *bluemonday.Policy
)

func registerDefaultFilters() {
	filtersOnce.Do(func() {
		htmlPolicy = bluemonday.UGCPolicy()
		for name, fn := range map[string]pongo2.FilterFunction{
			"trim":     filterTrim,
			"sanitize": filterSanitize,
			"mdcell":   filterMarkdownCell,
		} {
			if !pongo2.FilterExists(name) {
				_ = pongo2.RegisterFilter(name, fn)
			}
		}
	})
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterSanitize keeps user-generated-content markup (links, emphasis, lists)
// in free-text fields and strips everything else. The result is marked safe
// so autoescaping does not undo it.
func filterSanitize(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsNil() {
		return pongo2.AsSafeValue(""), nil
	}
	return pongo2.AsSafeValue(htmlPolicy.Sanitize(in.String())), nil
}

var markdownCellReplacer = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ")

// filterMarkdownCell makes a value safe to place inside a Markdown table cell.
func filterMarkdownCell(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.IsNil() {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(markdownCellReplacer.Replace(strings.TrimSpace(in.String()))), nil
}
