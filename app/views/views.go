// Package views holds the page templates, compiled into the binary.
package views

import (
	"embed"
	"html/template"
	"strings"

	"postboard/app/presenters"
)

//go:embed layout.html posts/*.html shared/*.html
var files embed.FS

var funcs = template.FuncMap{
	"formatDate": presenters.FormatDate,
	"add":        func(a, b int) int { return a + b },
	"join":       strings.Join,
}

// pages maps each page name onto the files it is built from, layout first.
var pages = map[string][]string{
	"index": {"layout.html", "posts/index.html", "shared/card.html"},
	"show":  {"layout.html", "posts/show.html", "shared/comments.html"},
	"error": {"layout.html", "posts/error.html"},
}

// Load parses every page. Each template is executed as "layout".
func Load() (map[string]*template.Template, error) {
	templates := make(map[string]*template.Template, len(pages))
	for name, names := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(files, names...)
		if err != nil {
			return nil, err
		}
		templates[name] = t
	}
	return templates, nil
}

// MustLoad is Load that panics on error.
func MustLoad() map[string]*template.Template {
	templates, err := Load()
	if err != nil {
		panic(err)
	}
	return templates
}
