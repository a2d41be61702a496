package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/snippet-share/internal/service"
	"github.com/sakif/snippet-share/internal/session"
)

// Form field names shared with the templates.
const (
	fieldUsername       = "username"
	fieldPassword       = "password"
	fieldSnippetID      = "snippetId"
	fieldSnippetTitle   = "snippetName"
	fieldSnippetContent = "snippetContent"
)

// Handler serves every page of the application.
type Handler struct {
	auth     *service.AuthService
	snippets *service.SnippetService
	cookies  *session.Cookies
	pages    *Pages
	logger   *slog.Logger
}

// New returns a Handler.
func New(
	authSvc *service.AuthService,
	snippets *service.SnippetService,
	cookies *session.Cookies,
	pages *Pages,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		auth:     authSvc,
		snippets: snippets,
		cookies:  cookies,
		pages:    pages,
		logger:   logger,
	}
}

// NotFound renders the 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.pages.render(w, http.StatusNotFound, pageNotFound, errorView{})
}

// parseForm parses a urlencoded body. A body that cannot be parsed leaves
// every field empty, which the workflows then reject on validation.
func (h *Handler) parseForm(r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("invalid form body",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
}
