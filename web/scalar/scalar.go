// Package scalar serves the Scalar API reference page for the generated OpenAPI document.
package scalar

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/JaimeStill/triage/pkg/module"
)

//go:embed index.html
var staticFS embed.FS

var page = template.Must(template.ParseFS(staticFS, "index.html"))

// NewModule creates a module at basePath rendering a reference page for the
// document served at specURL.
func NewModule(basePath, title, specURL string) (*module.Module, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		page.Execute(w, map[string]string{
			"Title":   title,
			"SpecURL": specURL,
		})
	})
	return module.New(basePath, mux)
}
