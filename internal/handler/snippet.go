package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sakif/snippet-share/internal/apperror"
	"github.com/sakif/snippet-share/internal/middleware"
	"github.com/sakif/snippet-share/internal/model"
	"github.com/sakif/snippet-share/internal/session"
)

const msgLoginRequired = "You need to be logged in to do that."

// Dashboard lists every snippet for guests and users alike.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	snippets, err := h.snippets.List(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.renderDashboard(w, middleware.IdentityFrom(r.Context()), snippets)
}

func (h *Handler) CreateForm(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFrom(r.Context())
	if identity.IsGuest() {
		h.forbidden(w, msgLoginRequired)
		return
	}
	h.pages.render(w, http.StatusOK, pageCreateSnippet, createView{Username: identity.Username})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	h.parseForm(r)
	identity := middleware.IdentityFrom(r.Context())
	title := r.PostFormValue(fieldSnippetTitle)
	content := r.PostFormValue(fieldSnippetContent)

	snippets, err := h.snippets.Create(r.Context(), title, content, identity)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			h.pages.render(w, http.StatusBadRequest, pageCreateSnippet, createView{
				Username: identity.Username,
				Title:    title,
				Content:  content,
				ErrMsg:   messageFor(err),
			})
			return
		}
		h.renderError(w, r, err)
		return
	}
	h.renderDashboard(w, identity, snippets)
}

// EditForm shows snippet ?id= prefilled. Guests get the 403 page before
// any lookup happens.
func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFrom(r.Context())
	if identity.IsGuest() {
		h.forbidden(w, msgLoginRequired)
		return
	}

	snippet, err := h.snippets.Get(r.Context(), r.URL.Query().Get("id"))
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.pages.render(w, http.StatusOK, pageEditSnippet, editView{
		Username: identity.Username,
		Snippet:  snippet,
	})
}

func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	h.parseForm(r)
	identity := middleware.IdentityFrom(r.Context())
	id := strings.TrimSpace(r.PostFormValue(fieldSnippetID))
	content := r.PostFormValue(fieldSnippetContent)

	snippets, err := h.snippets.Edit(r.Context(), id, content, identity)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			h.rerenderEdit(w, r, identity, id, messageFor(err))
			return
		}
		h.renderError(w, r, err)
		return
	}
	h.renderDashboard(w, identity, snippets)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	h.parseForm(r)
	identity := middleware.IdentityFrom(r.Context())
	id := strings.TrimSpace(r.PostFormValue(fieldSnippetID))

	snippets, err := h.snippets.Delete(r.Context(), id, identity)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.renderDashboard(w, identity, snippets)
}

func (h *Handler) rerenderEdit(w http.ResponseWriter, r *http.Request, identity session.Identity, id, errMsg string) {
	snippet, err := h.snippets.Get(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.pages.render(w, http.StatusBadRequest, pageEditSnippet, editView{
		Username: identity.Username,
		Snippet:  snippet,
		ErrMsg:   errMsg,
	})
}

func (h *Handler) renderDashboard(w http.ResponseWriter, identity session.Identity, snippets []model.Snippet) {
	h.pages.render(w, http.StatusOK, pageDashboard, dashboardView{
		IsLoggedIn: !identity.IsGuest(),
		Username:   identity.DisplayName(),
		Snippets:   snippets,
	})
}
