package main

import (
	"context"
	"crypto/sha256"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/Davidlouiz/passerelle-vhf/pkg/api"
	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
	"github.com/Davidlouiz/passerelle-vhf/pkg/poller"
	"github.com/Davidlouiz/passerelle-vhf/pkg/session"
	"github.com/Davidlouiz/passerelle-vhf/pkg/workflow"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// RouteManager handles all console routes
type RouteManager struct {
	cfg        *Config
	logger     *zap.Logger
	loc        *time.Location
	httpClient *http.Client
	guard      *session.Guard
	tracker    *workflow.Tracker
	status     *poller.Snapshot[*models.SystemStatus]
	templates  map[string]*template.Template
	cookies    *securecookie.SecureCookie
	now        func() time.Time
	Router     *mux.Router
}

// NewRouteManager creates a new RouteManager instance
func NewRouteManager(cfg *Config, logger *zap.Logger) (*RouteManager, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", cfg.Timezone, err)
	}
	templates, err := parseTemplates(loc)
	if err != nil {
		return nil, err
	}

	rm := &RouteManager{
		cfg:        cfg,
		logger:     logger,
		loc:        loc,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		guard:      session.NewGuard("/login", cfg.SecureCookies, logger),
		tracker:    workflow.NewTracker(),
		templates:  templates,
		cookies:    newCookieCodec(secretKey(cfg.CSRFKey, "flash")),
		now:        time.Now,
		Router:     mux.NewRouter(),
	}

	// The status endpoint of the gateway is public
	statusClient := api.NewClient(cfg.APIURL, api.WithHTTPClient(rm.httpClient))
	rm.status = poller.NewSnapshot(func(ctx context.Context) (*models.SystemStatus, error) {
		return statusClient.GetStatus(ctx)
	})

	return rm, nil
}

// secretKey derives a 32 byte key for one purpose from the configured secret.
// Without a configured secret a random key is used and sessions do not
// survive a restart.
func secretKey(secret, purpose string) []byte {
	if secret == "" {
		return securecookie.GenerateRandomKey(32)
	}
	sum := sha256.Sum256([]byte(purpose + ":" + secret))
	return sum[:]
}

// Handler returns the router protected against cross-site form posts
func (rm *RouteManager) Handler() http.Handler {
	protect := csrf.Protect(secretKey(rm.cfg.CSRFKey, "csrf"),
		csrf.Secure(rm.cfg.SecureCookies),
		csrf.Path("/"),
		csrf.FieldName("csrf_token"),
	)
	return protect(rm.Router)
}

// Setup configures all console routes
func (rm *RouteManager) Setup() {
	r := rm.Router
	r.Use(rm.requestIDMiddleware)
	r.Use(rm.loggingMiddleware)
	r.Use(rm.recoverMiddleware)

	// Public routes
	r.HandleFunc("/health", rm.healthHandler).Methods("GET")
	r.HandleFunc("/login", rm.loginPageHandler).Methods("GET")
	r.HandleFunc("/login", rm.loginHandler).Methods("POST")
	r.HandleFunc("/logout", rm.logoutHandler).Methods("POST")

	// Protected routes
	protected := r.PathPrefix("/").Subrouter()
	protected.Use(rm.guard.Middleware)
	rm.setupConsoleRoutes(protected)
}

// setupConsoleRoutes configures the pages behind the session guard
func (rm *RouteManager) setupConsoleRoutes(r *mux.Router) {
	r.HandleFunc("/", rm.dashboardHandler).Methods("GET")
	r.HandleFunc("/api/status", rm.statusSnapshotHandler).Methods("GET")

	r.HandleFunc("/change-password", rm.changePasswordPageHandler).Methods("GET")
	r.HandleFunc("/change-password", rm.changePasswordHandler).Methods("POST")

	// Channels
	r.HandleFunc("/channels", rm.channelsHandler).Methods("GET")
	r.HandleFunc("/channels", rm.saveChannelHandler).Methods("POST")
	r.HandleFunc("/channels/new", rm.channelFormHandler).Methods("GET")
	r.HandleFunc("/channels/{id:[0-9]+}", rm.saveChannelHandler).Methods("POST")
	r.HandleFunc("/channels/{id:[0-9]+}/edit", rm.channelFormHandler).Methods("GET")
	r.HandleFunc("/channels/{id:[0-9]+}/toggle", rm.toggleChannelHandler).Methods("POST")
	r.HandleFunc("/channels/{id:[0-9]+}/delete", rm.deleteChannelPageHandler).Methods("GET")
	r.HandleFunc("/channels/{id:[0-9]+}/delete", rm.deleteChannelHandler).Methods("POST")
	r.HandleFunc("/channels/{id:[0-9]+}/test", rm.testChannelHandler).Methods("POST")
	r.HandleFunc("/channels/{id:[0-9]+}/preview", rm.previewChannelHandler).Methods("POST")

	// Forecast and history
	r.HandleFunc("/timeline", rm.timelineHandler).Methods("GET")
	r.HandleFunc("/history", rm.historyHandler).Methods("GET")

	// Settings
	r.HandleFunc("/settings", rm.settingsHandler).Methods("GET")
	r.HandleFunc("/settings", rm.saveSettingsHandler).Methods("POST")
	r.HandleFunc("/settings/emission", rm.emissionHandler).Methods("POST")
	r.HandleFunc("/settings/runner/{action:start|stop}", rm.runnerHandler).Methods("POST")

	// Users
	r.HandleFunc("/users", rm.usersHandler).Methods("GET")
	r.HandleFunc("/users", rm.createUserHandler).Methods("POST")
	r.HandleFunc("/users/{id:[0-9]+}/delete", rm.deleteUserHandler).Methods("POST")

	// Providers
	r.HandleFunc("/providers", rm.providersHandler).Methods("GET")
	r.HandleFunc("/providers/{provider}/key", rm.setProviderKeyHandler).Methods("POST")
	r.HandleFunc("/providers/{provider}/remove", rm.removeProviderKeyHandler).Methods("POST")

	// Text-to-speech
	r.HandleFunc("/tts", rm.ttsHandler).Methods("GET")
	r.HandleFunc("/tts", rm.synthesizeHandler).Methods("POST")
	r.HandleFunc("/audio/{file}", rm.audioHandler).Methods("GET")
}

// gateway returns an API client acting for the operator of the request.
// A rejected token clears the session cookie and flags it as expired.
func (rm *RouteManager) gateway(w http.ResponseWriter, r *http.Request) *api.Client {
	store := rm.guard.Store(w, r)
	token := session.TokenFromContext(r.Context())
	return api.NewClient(rm.cfg.APIURL,
		api.WithHTTPClient(rm.httpClient),
		api.WithTokenStore(api.StaticToken(token)),
		api.WithUnauthorizedHandler(func() {
			if err := session.Expire(store); err != nil {
				rm.logger.Warn("expire session", zap.Error(err))
			}
		}),
	)
}

// unauthorized redirects to the login page when err is a rejected session
func (rm *RouteManager) unauthorized(w http.ResponseWriter, r *http.Request, err error) bool {
	if !api.IsUnauthorized(err) {
		return false
	}
	rm.guard.Redirect(w, r)
	return true
}

// failPage renders the error page for a failed load
func (rm *RouteManager) failPage(w http.ResponseWriter, r *http.Request, err error) {
	if rm.unauthorized(w, r, err) {
		return
	}
	rm.logger.Warn("gateway request failed", zap.String("path", r.URL.Path), zap.Error(err))
	rm.render(w, r, http.StatusBadGateway, "error", "Error", api.ErrorMessage(err))
}

// failAction reports a failed form post on the page it returns to
func (rm *RouteManager) failAction(w http.ResponseWriter, r *http.Request, target string, err error) {
	if rm.unauthorized(w, r, err) {
		return
	}
	rm.logger.Info("gateway rejected action", zap.String("path", r.URL.Path), zap.Error(err))
	rm.redirectWithFlash(w, r, target, "error", api.ErrorMessage(err))
}
