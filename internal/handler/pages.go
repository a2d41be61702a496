// Package handler turns HTTP requests into workflow calls and renders the
// resulting HTML pages.
//
// Handlers parse form fields, read the caller's identity from the request
// context, call the services, and map the outcome to a page and a status
// code. Which handler serves which (method, path) is decided by the route
// table in routes.go, not by the handlers themselves.
package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/sakif/snippet-share/internal/model"
)

// Page names, relative to the template root without the .html suffix.
const (
	pageHome          = "home"
	pageLogin         = "login"
	pageRegister      = "register"
	pageDashboard     = "dashboard"
	pageCreateSnippet = "createSnippet"
	pageEditSnippet   = "editSnippet"
	pageForbidden     = "errors/403"
	pageNotFound      = "errors/404"
	pageServerError   = "errors/500"
)

var allPages = []string{
	pageHome, pageLogin, pageRegister, pageDashboard,
	pageCreateSnippet, pageEditSnippet,
	pageForbidden, pageNotFound, pageServerError,
}

// authForm backs the login and register pages.
type authForm struct {
	Message  string
	ErrMsg   string
	Username string
}

type dashboardView struct {
	IsLoggedIn bool
	Username   string
	Snippets   []model.Snippet
}

type createView struct {
	Username string
	Title    string
	Content  string
	ErrMsg   string
}

type editView struct {
	Username string
	Snippet  *model.Snippet
	ErrMsg   string
}

type errorView struct {
	Message string
}

// Pages holds one parsed template set per page. Each set is base.html plus
// the page file, which fills the "content" and "title" blocks.
type Pages struct {
	sets   map[string]*template.Template
	logger *slog.Logger
}

// NewPages parses every page from fsys once at startup.
func NewPages(fsys fs.FS, logger *slog.Logger) (*Pages, error) {
	p := &Pages{sets: make(map[string]*template.Template, len(allPages)), logger: logger}
	for _, name := range allPages {
		tmpl, err := template.ParseFS(fsys, "base.html", name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing page %s: %w", name, err)
		}
		p.sets[name] = tmpl
	}
	return p, nil
}

// render executes page into a buffer first, so a template error still
// produces a clean 500 instead of a half-written page.
func (p *Pages) render(w http.ResponseWriter, status int, page string, data any) {
	tmpl, ok := p.sets[page]
	if !ok {
		p.logger.Error("unknown page", slog.String("page", page))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		p.logger.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
