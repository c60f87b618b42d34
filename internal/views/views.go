// Package views renders the console's server-side HTML pages.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"roomadmin/internal/session"
)

//go:embed templates
var files embed.FS

// Data is what every page template receives. Body holds the page's own
// view model.
type Data struct {
	Title  string
	Nav    string
	Flash  *session.Flash
	Signed bool
	Body   any
}

// ErrorBox is the recoverable error state of a single view.
type ErrorBox struct {
	Message  string
	RetryURL string
}

var funcs = template.FuncMap{
	"vnd":      FormatVND,
	"datetime": FormatTime,
	"dict":     dict,
}

// dict builds a map from alternating keys and values so a partial can
// take more than one argument.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[k] = kv[i+1]
	}
	return m, nil
}

// Renderer holds one template set per page, each made of the layout, the
// shared partials and the page itself.
type Renderer struct {
	pages map[string]*template.Template
}

func New() (*Renderer, error) {
	names, err := fs.Glob(files, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		t, err := template.New("").Funcs(funcs).ParseFS(files,
			"templates/layout.html", "templates/partials/*.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[strings.TrimSuffix(path.Base(name), ".html")] = t
	}
	return r, nil
}

// Render writes page with status. The page is executed into a buffer
// first so a template failure never leaves half a response behind.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data Data) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("views: unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}
