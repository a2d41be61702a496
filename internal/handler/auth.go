package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/snippet-share/internal/apperror"
	"github.com/sakif/snippet-share/internal/middleware"
	"github.com/sakif/snippet-share/internal/service"
)

// Home shows the landing page to guests and sends signed-in users to their
// dashboard.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	if !middleware.IdentityFrom(r.Context()).IsGuest() {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.pages.render(w, http.StatusOK, pageHome, nil)
}

func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.pages.render(w, http.StatusOK, pageLogin, authForm{})
}

func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.pages.render(w, http.StatusOK, pageRegister, authForm{})
}

// Register creates an account and shows the login form on success. Too
// short, reserved and duplicate usernames re-render the register form.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	h.parseForm(r)
	username := r.PostFormValue(fieldUsername)

	err := h.auth.Register(r.Context(), username, r.PostFormValue(fieldPassword))
	switch {
	case err == nil:
		h.pages.render(w, http.StatusOK, pageLogin, authForm{Message: service.MsgRegistered})
	case errors.Is(err, apperror.ErrValidation):
		h.pages.render(w, http.StatusBadRequest, pageRegister, authForm{
			ErrMsg:   messageFor(err),
			Username: username,
		})
	default:
		h.renderError(w, r, err)
	}
}

// Login checks the credentials, sets the session cookie and shows the
// dashboard. Bad credentials re-render the login form with one generic
// message.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	h.parseForm(r)
	username := r.PostFormValue(fieldUsername)

	sess, err := h.auth.Login(r.Context(), username, r.PostFormValue(fieldPassword))
	if err != nil {
		if errors.Is(err, apperror.ErrUnauthorized) {
			h.pages.render(w, http.StatusUnauthorized, pageLogin, authForm{
				ErrMsg:   messageFor(err),
				Username: username,
			})
			return
		}
		h.renderError(w, r, err)
		return
	}

	// A new login replaces whatever session the browser had.
	if prev := middleware.IdentityFrom(r.Context()); prev.SessionID != "" {
		h.auth.Logout(r.Context(), prev.SessionID)
	}

	if err := h.cookies.Write(w, sess); err != nil {
		h.auth.Logout(r.Context(), sess.ID)
		h.renderError(w, r, err)
		return
	}

	snippets, err := h.snippets.List(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	h.pages.render(w, http.StatusOK, pageDashboard, dashboardView{
		IsLoggedIn: true,
		Username:   sess.Username,
		Snippets:   snippets,
	})
}

// Logout destroys the session, clears the cookie and redirects home. It
// succeeds whether or not there was a session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	identity := middleware.IdentityFrom(r.Context())
	h.auth.Logout(r.Context(), identity.SessionID)
	h.cookies.Clear(w)

	if !identity.IsGuest() {
		h.logger.Info("user logged out", slog.String("username", identity.Username))
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
