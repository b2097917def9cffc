// Package gate decides whether a protected admin view may be rendered for a
// session snapshot.
package gate

import (
	"net/url"
	"strings"

	"github.com/sanctuary/backend/internal/models"
)

// LoginPath is where denied sessions are sent.
const LoginPath = "/login"

// DefaultReturnPath replaces return paths that don't point into this site.
const DefaultReturnPath = "/admin"

// Session is an immutable snapshot of the caller's authentication state.
type Session struct {
	IsAuthenticated bool   `json:"is_authenticated"`
	IsLoading       bool   `json:"is_loading"`
	Role            string `json:"role,omitempty"`
}

// Anonymous is the resolved session of a caller without valid credentials.
var Anonymous = Session{}

// Loading is the session of a caller whose credentials are still pending.
var Loading = Session{IsLoading: true}

// ForRole returns the resolved session of an authenticated user.
func ForRole(role string) Session {
	return Session{IsAuthenticated: true, Role: role}
}

type Kind int

const (
	ShowLoading Kind = iota
	Redirect
	Render
)

func (k Kind) String() string {
	switch k {
	case ShowLoading:
		return "show_loading"
	case Redirect:
		return "redirect"
	case Render:
		return "render"
	default:
		return "unknown"
	}
}

// Decision is the outcome of Admit. Target is set only for Redirect.
type Decision struct {
	Kind   Kind
	Target string
}

// Admit decides what to do with a request for originalPath.
func Admit(s Session, originalPath string) Decision {
	if s.IsLoading {
		return Decision{Kind: ShowLoading}
	}
	if !s.IsAuthenticated || s.Role != models.RoleAdmin {
		return Decision{Kind: Redirect, Target: LoginRedirect(originalPath)}
	}
	return Decision{Kind: Render}
}

// LoginRedirect builds the login URL that returns to path after sign-in.
func LoginRedirect(path string) string {
	return LoginPath + "?redirect=" + url.QueryEscape(localPath(path))
}

// localPath keeps only same-site absolute paths.
func localPath(p string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return DefaultReturnPath
	}
	return p
}
