package middleware

import (
	"context"
	"net/http"

	goConsole "github.com/MrEthical07/goConsole"
	"github.com/MrEthical07/goConsole/session"
)

type userContextKey struct{}

// UserFromContext returns the user attached by a guard.
func UserFromContext(ctx context.Context) (*session.UserInfo, bool) {
	user, ok := ctx.Value(userContextKey{}).(*session.UserInfo)
	return user, ok && user != nil
}

// RouteGuard redirects requests the current session may not open, following
// [goConsole.Client.GuardRoute]. Allowed requests carry the current user in
// their context when one is signed in.
func RouteGuard(client *goConsole.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if client == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			decision := client.GuardRoute(r.URL.Path)
			if decision != goConsole.RouteAllow {
				http.Redirect(w, r, decision.Location(), http.StatusFound)
				return
			}

			next.ServeHTTP(w, withUser(r, client))
		})
	}
}

// RequirePermission rejects requests unless the current user holds code.
func RequirePermission(client *goConsole.Client, code string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if client == nil || !client.Session().Authenticated() {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			if !client.CheckPermission(code) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, withUser(r, client))
		})
	}
}

func withUser(r *http.Request, client *goConsole.Client) *http.Request {
	user := client.Session().User()
	if user == nil {
		return r
	}
	return r.WithContext(context.WithValue(r.Context(), userContextKey{}, user))
}
