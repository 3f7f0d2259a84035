package middleware

import (
	"net/http"
	"net/url"

	"github.com/tasklight/tasklight/internal/ctxkeys"
	"github.com/tasklight/tasklight/internal/service"
)

// Auth resolves the session cookie and, when valid, puts the
// authenticated user on the request context. Invalid or stale cookies
// are cleared and the request continues anonymously.
func Auth(authService *service.AuthService, userService *service.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := authService.SessionCookie(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := authService.VerifySession(token)
			if err != nil {
				authService.ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			user, err := userService.ByID(userID)
			if err != nil {
				authService.ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			// The hash never travels further than the auth check
			user.PasswordHash = ""

			ctx := ctxkeys.WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth gates protected routes: anonymous requests are redirected
// to the login page with the original path carried in ?next=.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user == nil {
			http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	}
}

// RequireGuest bounces authenticated users off pages like /login.
func RequireGuest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := ctxkeys.User(r.Context())
		if user != nil {
			http.Redirect(w, r, "/tasks", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}
