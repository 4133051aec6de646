package templates

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed *.tmpl
var templateFS embed.FS

// Registry maps template names to their compiled render functions. The
// templates are pure: identical context yields identical output, and
// nothing inside a template touches the network or application state.
type Registry struct {
	root *template.Template
}

// New compiles the embedded templates into a registry
func New() (*Registry, error) {
	root := template.New("registry").Funcs(template.FuncMap{
		// ifCond is the equality test the field templates dispatch
		// on; it compares across named string types.
		"ifCond": func(a, b interface{}) bool {
			return fmt.Sprint(a) == fmt.Sprint(b)
		},
	})
	root, err := root.ParseFS(templateFS, "*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to compile templates: %w", err)
	}
	return &Registry{root: root}, nil
}

// Render executes the named template with the given context
func (r *Registry) Render(name string, ctx interface{}) (string, error) {
	var sb strings.Builder
	if err := r.root.ExecuteTemplate(&sb, name+".tmpl", ctx); err != nil {
		return "", fmt.Errorf("failed to render template %q: %w", name, err)
	}
	return sb.String(), nil
}

// Names returns the names of all registered templates
func (r *Registry) Names() []string {
	var names []string
	for _, t := range r.root.Templates() {
		if name, ok := strings.CutSuffix(t.Name(), ".tmpl"); ok {
			names = append(names, name)
		}
	}
	return names
}
