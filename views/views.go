package views

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"strings"
)

// Renderer resolves named views parsed from a directory at construction
// time, so a missing view is a boot-time error rather than a request-time
// surprise.
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer parses every top-level HTML file in dir as a view, together
// with the shared partials under dir/layout.
func NewRenderer(dir string) (*Renderer, error) {
	layouts, err := filepath.Glob(filepath.Join(dir, "layout", "*.html"))
	if err != nil {
		return nil, fmt.Errorf("error scanning layout templates: %w", err)
	}

	pages, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("error scanning view templates: %w", err)
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no views found in %s", dir)
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		files := append(append([]string{}, layouts...), page)
		tmpl, err := template.ParseFiles(files...)
		if err != nil {
			return nil, fmt.Errorf("error parsing view %s: %w", page, err)
		}
		name := strings.TrimSuffix(filepath.Base(page), ".html")
		templates[name] = tmpl
	}

	return &Renderer{templates: templates}, nil
}

// Render executes the named view with the given parameter bag. The output
// is buffered so a failing template never writes a partial page. A nil
// params value renders the view with no bound data.
func (r *Renderer) Render(w io.Writer, name string, params any) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("view not found: %s", name)
	}

	if params == nil {
		params = map[string]any{}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name+".html", params); err != nil {
		return fmt.Errorf("error rendering view %s: %w", name, err)
	}

	_, err := buf.WriteTo(w)
	return err
}
