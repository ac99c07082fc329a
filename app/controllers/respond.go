package controllers

import (
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"postboard/app/logging"
)

// isAPIRequest reports whether the caller wants JSON back.
func isAPIRequest(r *http.Request) bool {
	return r.Header.Get("Accept") == "application/json" || strings.HasPrefix(r.URL.Path, "/api")
}

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// errorPage is the data of the error template.
type errorPage struct {
	Title   string
	Message string
	Retry   string
}

// sendError answers with {"error": message} to API callers and the error page
// otherwise.
func sendError(w http.ResponseWriter, r *http.Request, templates map[string]*template.Template, message string, status int) {
	if isAPIRequest(r) {
		sendJSON(w, status, map[string]string{"error": message})
		return
	}
	page := errorPage{Title: http.StatusText(status), Message: message}
	if status >= http.StatusInternalServerError {
		page.Retry = r.URL.RequestURI()
	}
	render(w, r, templates, "error", status, page)
}

func render(w http.ResponseWriter, r *http.Request, templates map[string]*template.Template, name string, status int, data interface{}) {
	t, ok := templates[name]
	if !ok {
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		logging.Logger.ErrorContext(r.Context(), "template error", "template", name, "error", err)
	}
}
