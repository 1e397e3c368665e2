package main

import (
	"net/http"
	"strings"

	"github.com/Davidlouiz/passerelle-vhf/pkg/api"
	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
	"github.com/Davidlouiz/passerelle-vhf/pkg/session"
	"go.uber.org/zap"
)

type loginView struct {
	Username string
	Expired  bool
	Error    string
}

type changePasswordView struct {
	Forced bool
	Error  string
}

func (rm *RouteManager) loginPageHandler(w http.ResponseWriter, r *http.Request) {
	store := rm.guard.Store(w, r)
	if token, ok, _ := session.ActiveToken(store, rm.now()); ok && token != "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	expired, _ := store.TakeExpired()
	rm.render(w, r, http.StatusOK, "login", "Sign in", loginView{Expired: expired})
}

func (rm *RouteManager) loginHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	client := api.NewClient(rm.cfg.APIURL, api.WithHTTPClient(rm.httpClient))
	result, err := client.Login(r.Context(), username, password)
	if err != nil {
		rm.logger.Info("login rejected", zap.String("username", username), zap.Error(err))
		rm.render(w, r, http.StatusUnauthorized, "login", "Sign in", loginView{
			Username: username,
			Error:    api.ErrorMessage(err),
		})
		return
	}

	store := rm.guard.Store(w, r)
	_ = store.SetToken(result.AccessToken)
	_, _ = store.TakeExpired()

	if result.MustChangePassword {
		http.Redirect(w, r, "/change-password?forced=1", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (rm *RouteManager) logoutHandler(w http.ResponseWriter, r *http.Request) {
	store := rm.guard.Store(w, r)
	if token, _ := store.Token(); token != "" {
		client := api.NewClient(rm.cfg.APIURL, api.WithHTTPClient(rm.httpClient), api.WithTokenStore(api.StaticToken(token)))
		if err := client.Logout(r.Context()); err != nil {
			rm.logger.Debug("gateway logout failed", zap.Error(err))
		}
	}
	_ = session.Logout(store)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (rm *RouteManager) changePasswordPageHandler(w http.ResponseWriter, r *http.Request) {
	rm.render(w, r, http.StatusOK, "change_password", "Change password", changePasswordView{
		Forced: r.URL.Query().Get("forced") == "1",
	})
}

func (rm *RouteManager) changePasswordHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	view := changePasswordView{Forced: r.PostFormValue("forced") == "1"}

	current := r.PostFormValue("current_password")
	next := r.PostFormValue("new_password")
	if err := models.ValidatePasswordChange(next, r.PostFormValue("confirm_password")); err != nil {
		view.Error = api.ErrorMessage(err)
		rm.render(w, r, http.StatusUnprocessableEntity, "change_password", "Change password", view)
		return
	}

	if err := rm.gateway(w, r).ChangePassword(r.Context(), current, next); err != nil {
		if rm.unauthorized(w, r, err) {
			return
		}
		view.Error = api.ErrorMessage(err)
		rm.render(w, r, http.StatusBadRequest, "change_password", "Change password", view)
		return
	}

	rm.redirectWithFlash(w, r, "/", "success", "Password changed")
}
