package components

import (
	"strings"

	"github.com/geokey/geoadmin/internal/templates"
)

// renderLines executes a registry template and splits the result into
// lines so the caller can style individual rows. List bodies come out
// of the registry; only highlighting stays in the widgets.
func renderLines(reg *templates.Registry, name string, ctx interface{}) []string {
	if reg == nil {
		return []string{"Templates unavailable"}
	}
	out, err := reg.Render(name, ctx)
	if err != nil {
		return []string{"Failed to render " + name + ": " + err.Error()}
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}
