package goConsole

// Route paths the guard redirects to.
const (
	LoginPath     = "/login"
	HomePath      = "/"
	ForbiddenPath = "/403"
	NotFoundPath  = "/404"
)

// RouteDecision is the outcome of [Client.GuardRoute].
type RouteDecision uint8

const (
	RouteAllow RouteDecision = iota
	RouteRedirectLogin
	RouteRedirectHome
	RouteRedirectForbidden
)

func (d RouteDecision) String() string {
	switch d {
	case RouteAllow:
		return "allow"
	case RouteRedirectLogin:
		return "redirect_login"
	case RouteRedirectHome:
		return "redirect_home"
	case RouteRedirectForbidden:
		return "redirect_forbidden"
	default:
		return "unknown"
	}
}

// Location returns the redirect target, or "" for [RouteAllow].
func (d RouteDecision) Location() string {
	switch d {
	case RouteRedirectLogin:
		return LoginPath
	case RouteRedirectHome:
		return HomePath
	case RouteRedirectForbidden:
		return ForbiddenPath
	default:
		return ""
	}
}

// GuardRoute decides whether the current session may open path.
//
// Without a token only the login page is reachable. With a token the login
// page sends the user home, home and the error pages are always open, and
// every other path needs the permission code derived from it.
func (c *Client) GuardRoute(path string) RouteDecision {
	if !c.store.Authenticated() {
		if path == LoginPath {
			return RouteAllow
		}
		return RouteRedirectLogin
	}

	switch path {
	case LoginPath:
		return RouteRedirectHome
	case HomePath, ForbiddenPath, NotFoundPath:
		return RouteAllow
	}

	if !c.CheckMenuPermission(path) {
		return RouteRedirectForbidden
	}
	return RouteAllow
}
