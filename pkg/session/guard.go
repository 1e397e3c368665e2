package session

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Guard protects the console pages. Requests without a usable token are
// redirected to the login page and never reach the wrapped handler.
type Guard struct {
	LoginPath     string
	SecureCookies bool
	Logger        *zap.Logger
	Now           func() time.Time
}

// NewGuard creates a guard redirecting to loginPath
func NewGuard(loginPath string, secureCookies bool, logger *zap.Logger) *Guard {
	return &Guard{
		LoginPath:     loginPath,
		SecureCookies: secureCookies,
		Logger:        logger,
		Now:           time.Now,
	}
}

// Store returns the session store of a request
func (g *Guard) Store(w http.ResponseWriter, r *http.Request) *CookieStore {
	return NewCookieStore(w, r, g.SecureCookies)
}

// Middleware wraps next with the token check
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok, err := ActiveToken(g.Store(w, r), g.Now())
		if err != nil && g.Logger != nil {
			g.Logger.Warn("session store failure", zap.Error(err))
		}
		if !ok {
			g.Redirect(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithToken(r.Context(), token)))
	})
}

// Redirect sends the browser to the login page
func (g *Guard) Redirect(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, g.LoginPath, http.StatusSeeOther)
}
