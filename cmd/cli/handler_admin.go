package main

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Davidlouiz/passerelle-vhf/pkg/api"
	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
	"github.com/gorilla/mux"
)

type settingsView struct {
	Settings *models.Settings
	Runner   string
	Error    string
}

type usersView struct {
	Users   []models.User
	Me      *models.User
	Created *models.CreatedUser
	Error   string
}

func (rm *RouteManager) settingsHandler(w http.ResponseWriter, r *http.Request) {
	client := rm.gateway(w, r)

	settings, err := client.GetSettings(r.Context())
	if err != nil {
		rm.failPage(w, r, err)
		return
	}

	// Reception state is informative; a failure only disables the control
	runner := models.RunnerUnknown
	if status, err := client.GetStatus(r.Context()); err == nil {
		runner = status.Runner()
	} else if rm.unauthorized(w, r, err) {
		return
	}

	rm.render(w, r, http.StatusOK, "settings", "Settings", settingsView{Settings: settings, Runner: runner})
}

func formInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.PostFormValue(name))
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &models.ValidationError{Field: name, Message: name + " must be a number"}
	}
	return v, nil
}

func (rm *RouteManager) saveSettingsHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	client := rm.gateway(w, r)

	current, err := client.GetSettings(r.Context())
	if err != nil {
		rm.failAction(w, r, "/settings", err)
		return
	}
	update := current.Update()

	fields := []struct {
		name   string
		target *int
	}{
		{"poll_interval_seconds", &update.PollIntervalSeconds},
		{"inter_announcement_pause_seconds", &update.InterAnnouncementSecs},
		{"ptt_active_level", &update.PTTActiveLevel},
		{"ptt_lead_ms", &update.PTTLeadMs},
		{"ptt_tail_ms", &update.PTTTailMs},
	}
	for _, f := range fields {
		v, err := formInt(r, f.name)
		if err != nil {
			rm.redirectWithFlash(w, r, "/settings", "error", api.ErrorMessage(err))
			return
		}
		*f.target = v
	}
	pin, err := models.ParseGPIOPin(r.PostFormValue("ptt_gpio_pin"))
	if err != nil {
		rm.redirectWithFlash(w, r, "/settings", "error", api.ErrorMessage(err))
		return
	}
	update.PTTGPIOPin = pin

	if _, err := client.UpdateSettings(r.Context(), update); err != nil {
		rm.failAction(w, r, "/settings", err)
		return
	}
	rm.redirectWithFlash(w, r, "/settings", "success", "Settings saved")
}

func (rm *RouteManager) emissionHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	enabled := r.PostFormValue("enabled") == "1"

	settings, err := rm.gateway(w, r).SetEmission(r.Context(), enabled)
	if err != nil {
		rm.failAction(w, r, "/settings", err)
		return
	}
	message := "Emission disabled"
	if settings.MasterEnabled {
		message = "Emission enabled"
	}
	rm.redirectWithFlash(w, r, "/settings", "success", message)
}

func (rm *RouteManager) runnerHandler(w http.ResponseWriter, r *http.Request) {
	client := rm.gateway(w, r)

	var (
		msg *models.Message
		err error
	)
	if mux.Vars(r)["action"] == "start" {
		msg, err = client.StartRunner(r.Context())
	} else {
		msg, err = client.StopRunner(r.Context())
	}
	if err != nil {
		rm.failAction(w, r, "/settings", err)
		return
	}

	message := msg.Message
	if message == "" {
		message = "Reception updated"
	}
	rm.redirectWithFlash(w, r, "/settings", "success", message)
}

func (rm *RouteManager) usersHandler(w http.ResponseWriter, r *http.Request) {
	view, err := rm.loadUsers(w, r)
	if err != nil {
		rm.failPage(w, r, err)
		return
	}
	rm.render(w, r, http.StatusOK, "users", "Users", view)
}

func (rm *RouteManager) loadUsers(w http.ResponseWriter, r *http.Request) (usersView, error) {
	client := rm.gateway(w, r)
	users, err := client.GetUsers(r.Context())
	if err != nil {
		return usersView{}, err
	}
	me, err := client.Me(r.Context())
	if err != nil {
		return usersView{}, err
	}
	return usersView{Users: users, Me: me}, nil
}

// createUserHandler renders the list directly: the generated password is
// shown in this response only and never travels through a redirect
func (rm *RouteManager) createUserHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	created, createErr := rm.gateway(w, r).CreateUser(r.Context(), r.PostFormValue("username"))
	if createErr != nil && rm.unauthorized(w, r, createErr) {
		return
	}

	view, err := rm.loadUsers(w, r)
	if err != nil {
		rm.failPage(w, r, err)
		return
	}
	status := http.StatusOK
	if createErr != nil {
		view.Error = api.ErrorMessage(createErr)
		status = http.StatusBadRequest
	} else {
		view.Created = created
	}

	w.Header().Set("Cache-Control", "no-store")
	rm.render(w, r, status, "users", "Users", view)
}

const selfDeleteMessage = "You cannot delete your own account"

func (rm *RouteManager) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	client := rm.gateway(w, r)

	me, err := client.Me(r.Context())
	if err != nil {
		rm.failAction(w, r, "/users", err)
		return
	}
	if me.ID == id {
		rm.redirectWithFlash(w, r, "/users", "error", selfDeleteMessage)
		return
	}

	if err := client.DeleteUser(r.Context(), id); err != nil {
		rm.failAction(w, r, "/users", err)
		return
	}
	rm.redirectWithFlash(w, r, "/users", "success", "User deleted")
}

func (rm *RouteManager) providersHandler(w http.ResponseWriter, r *http.Request) {
	providers, err := rm.gateway(w, r).GetProviders(r.Context())
	if err != nil {
		rm.failPage(w, r, err)
		return
	}
	rm.render(w, r, http.StatusOK, "providers", "Providers", providers)
}

func (rm *RouteManager) setProviderKeyHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	provider := mux.Vars(r)["provider"]

	err := rm.gateway(w, r).SetProviderKey(r.Context(), provider, strings.TrimSpace(r.PostFormValue("api_key")))
	if err != nil {
		rm.failAction(w, r, "/providers", err)
		return
	}
	rm.redirectWithFlash(w, r, "/providers", "success", "API key saved")
}

func (rm *RouteManager) removeProviderKeyHandler(w http.ResponseWriter, r *http.Request) {
	if err := rm.gateway(w, r).DeleteProviderKey(r.Context(), mux.Vars(r)["provider"]); err != nil {
		rm.failAction(w, r, "/providers", err)
		return
	}
	rm.redirectWithFlash(w, r, "/providers", "success", "API key removed")
}
