package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Action names one operation of the application, independent of the URL
// that triggers it.
type Action string

const (
	ActionHome         Action = "home"
	ActionLoginForm    Action = "login-form"
	ActionRegisterForm Action = "register-form"
	ActionRegister     Action = "register"
	ActionLogin        Action = "login"
	ActionDashboard    Action = "dashboard"
	ActionLogout       Action = "logout"
	ActionCreateForm   Action = "create-form"
	ActionCreate       Action = "create"
	ActionEditForm     Action = "edit-form"
	ActionEdit         Action = "edit"
	ActionDelete       Action = "delete"
)

// Route binds a method and path to an action.
type Route struct {
	Method string
	Path   string
	Action Action
}

// DefaultRoutes is the public URL surface.
//
// Note the two form posts: the register form posts to /login and the login
// form posts to /dashboard, so POST /login performs registration and
// POST /dashboard performs login. Existing forms and bookmarks depend on
// these paths; renaming them means changing this table and the two form
// actions together.
func DefaultRoutes() []Route {
	return []Route{
		{http.MethodGet, "/", ActionHome},
		{http.MethodGet, "/login", ActionLoginForm},
		{http.MethodPost, "/login", ActionRegister},
		{http.MethodGet, "/register", ActionRegisterForm},
		{http.MethodPost, "/dashboard", ActionLogin},
		{http.MethodGet, "/dashboard", ActionDashboard},
		{http.MethodGet, "/logout", ActionLogout},
		{http.MethodGet, "/createSnippet", ActionCreateForm},
		{http.MethodPost, "/createSnippet", ActionCreate},
		{http.MethodGet, "/editSnippet", ActionEditForm},
		{http.MethodPost, "/editSnippet", ActionEdit},
		{http.MethodPost, "/deleteSnippet", ActionDelete},
	}
}

// Actions returns the handler for every action.
func (h *Handler) Actions() map[Action]http.HandlerFunc {
	return map[Action]http.HandlerFunc{
		ActionHome:         h.Home,
		ActionLoginForm:    h.LoginForm,
		ActionRegisterForm: h.RegisterForm,
		ActionRegister:     h.Register,
		ActionLogin:        h.Login,
		ActionDashboard:    h.Dashboard,
		ActionLogout:       h.Logout,
		ActionCreateForm:   h.CreateForm,
		ActionCreate:       h.Create,
		ActionEditForm:     h.EditForm,
		ActionEdit:         h.Edit,
		ActionDelete:       h.Delete,
	}
}

// Mount registers routes on r, plus the not-found page for everything else.
// A route naming an unknown action, or a duplicate (method, path), is an
// error.
func (h *Handler) Mount(r chi.Router, routes []Route) error {
	actions := h.Actions()
	seen := make(map[string]bool, len(routes))

	for _, rt := range routes {
		fn, ok := actions[rt.Action]
		if !ok {
			return fmt.Errorf("route %s %s: unknown action %q", rt.Method, rt.Path, rt.Action)
		}
		key := rt.Method + " " + rt.Path
		if seen[key] {
			return fmt.Errorf("route %s: bound twice", key)
		}
		seen[key] = true
		r.Method(rt.Method, rt.Path, fn)
	}

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.NotFound)
	return nil
}
