package main

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"now": time.Now,
		// fragURL rewrites a canonical page URL into its fragment endpoint so
		// htmx attributes and href fall out of the same Selection URL.
		"fragURL": func(u string) string {
			if i := strings.Index(u, "?"); i >= 0 {
				return "/frag/view" + u[i:]
			}
			return "/frag/view"
		},
		// safeJS injects pre-serialized JSON-LD without script-context escaping.
		"safeJS": func(s string) template.JS {
			return template.JS(s)
		},
	}
	// Recursively discover and parse all .tmpl files. Note: ParseGlob doesn't support **.
	var files []string
	if err := filepath.WalkDir(templatesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", templatesDir)
	}
	return template.New("_root").Funcs(funcMap).ParseFiles(files...)
}

// render executes a named template. In dev mode, templates are reparsed on
// each request.
func render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	t := tmplCache
	if devMode {
		tc, err := parseTemplates()
		if err != nil {
			http.Error(w, fmt.Sprintf("template parse error: %v", err), http.StatusInternalServerError)
			return
		}
		t = tc
	}
	if t == nil {
		http.Error(w, "template not initialized", http.StatusInternalServerError)
		return
	}
	if err := t.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, fmt.Sprintf("template exec error: %v", err), http.StatusInternalServerError)
		return
	}
}

// renderPage renders a full page using the shared layout.
func renderPage(w http.ResponseWriter, name string, data any) {
	render(w, name, data)
}

// renderFragment renders a partial swapped into the view container.
func renderFragment(w http.ResponseWriter, name string, data any) {
	render(w, name, data)
}
