package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/snippet-share/internal/apperror"
)

// ERROR MAPPING:
// Services return apperror values; this is the one place they become HTTP
// statuses. Validation and credential failures are handled by the form
// handlers themselves, because they re-render the form with a message.
// Everything else lands here:
//
//	ErrForbidden  → 403 page
//	ErrNotFound   → 404 page
//	anything else → 500 page (details logged, never shown)

// statusFor returns the HTTP status for err.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// messageFor returns the user-facing message carried by err, if any.
func messageFor(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return ""
}

// renderError renders the error page matching err.
func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	switch status := statusFor(err); status {
	case http.StatusForbidden:
		h.pages.render(w, status, pageForbidden, errorView{Message: messageFor(err)})
	case http.StatusNotFound:
		h.pages.render(w, status, pageNotFound, errorView{})
	default:
		h.logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		h.pages.render(w, http.StatusInternalServerError, pageServerError, errorView{})
	}
}

func (h *Handler) forbidden(w http.ResponseWriter, message string) {
	h.pages.render(w, http.StatusForbidden, pageForbidden, errorView{Message: message})
}
