// Package guard decides whether a view may be shown to the current client.
//
// Evaluate is pure: it looks at the session state and the roles a view
// allows, and returns what to do. The web middleware and the CLI call it on
// every request or command, so a session dropped by a 401 takes effect on the
// next evaluation.
package guard

import "github.com/dmitrijs2005/ums/internal/client/models"

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

type Decision int

const (
	// Loading means the session is still being restored. Nothing navigates.
	Loading Decision = iota
	RedirectLogin
	RedirectUnauthorized
	Render
)

func (d Decision) String() string {
	switch d {
	case Loading:
		return "loading"
	case RedirectLogin:
		return "redirect_login"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	case Render:
		return "render"
	default:
		return "unknown"
	}
}

// State is what the guard needs to know about a client.
type State struct {
	Initializing bool
	User         *models.User
}

// Evaluate returns the decision for a view restricted to allowed. An empty
// allowed list means any signed-in user.
func Evaluate(s State, allowed []models.Role) Decision {
	switch {
	case s.Initializing:
		return Loading
	case s.User == nil:
		return RedirectLogin
	case len(allowed) > 0 && !s.User.Roles.Intersects(allowed):
		return RedirectUnauthorized
	default:
		return Render
	}
}

// Target is where a redirect decision sends the client, or "".
func (d Decision) Target() string {
	switch d {
	case RedirectLogin:
		return LoginPath
	case RedirectUnauthorized:
		return UnauthorizedPath
	default:
		return ""
	}
}
