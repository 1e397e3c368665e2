package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Davidlouiz/passerelle-vhf/pkg/session"
	"github.com/Davidlouiz/passerelle-vhf/pkg/workflow"
	"go.uber.org/zap"
)

const testToken = "operator-token"

// newTestConsole starts a fake gateway and a console routed to it. CSRF
// protection is left out; it wraps the router only in Handler.
func newTestConsole(t *testing.T, gateway http.Handler) *RouteManager {
	t.Helper()
	server := httptest.NewServer(gateway)
	t.Cleanup(server.Close)

	rm, err := NewRouteManager(&Config{
		APIURL:         server.URL,
		CSRFKey:        "test-secret",
		Timezone:       "UTC",
		StatusInterval: 30 * time.Second,
		Timeout:        5 * time.Second,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create route manager: %v", err)
	}
	rm.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }
	rm.Setup()
	return rm
}

func serve(rm *RouteManager, method, target string, form url.Values, authenticated bool) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if authenticated {
		req.AddCookie(&http.Cookie{Name: session.TokenCookie, Value: testToken})
	}
	w := httptest.NewRecorder()
	rm.Router.ServeHTTP(w, req)
	return w
}

func jsonHandler(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestProtectedPagesRedirectWithoutToken(t *testing.T) {
	var calls int32
	rm := newTestConsole(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`[]`))
	}))

	testCases := []string{"/", "/channels", "/timeline", "/history", "/settings", "/users", "/providers", "/tts"}
	for _, path := range testCases {
		t.Run(path, func(t *testing.T) {
			w := serve(rm, "GET", path, nil, false)

			if w.Code != http.StatusSeeOther {
				t.Errorf("Expected status 303, got %d", w.Code)
			}
			if loc := w.Header().Get("Location"); loc != "/login" {
				t.Errorf("Expected redirect to /login, got %q", loc)
			}
		})
	}

	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("Expected no gateway call without a token, got %d", calls)
	}
}

func TestGatewayRejectionExpiresSession(t *testing.T) {
	var calls int32
	rm := newTestConsole(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}))

	w := serve(rm, "GET", "/channels", nil, true)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("Expected status 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("Expected redirect to /login, got %q", loc)
	}
	if calls != 1 {
		t.Errorf("Expected the load to stop after the first rejection, got %d calls", calls)
	}

	token := findCookie(w, session.TokenCookie)
	if token == nil || token.MaxAge >= 0 {
		t.Errorf("Expected the token cookie to be cleared, got %+v", token)
	}
	expired := findCookie(w, session.ExpiredCookie)
	if expired == nil || expired.Value != "1" {
		t.Errorf("Expected the session expired flag, got %+v", expired)
	}
}

func TestLoginPageShowsExpiredNoticeOnce(t *testing.T) {
	rm := newTestConsole(t, http.NotFoundHandler())

	req := httptest.NewRequest("GET", "/login", nil)
	req.AddCookie(&http.Cookie{Name: session.ExpiredCookie, Value: "1"})
	w := httptest.NewRecorder()
	rm.Router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Your session has expired") {
		t.Error("Expected the expired notice on the login page")
	}
	if c := findCookie(w, session.ExpiredCookie); c == nil || c.MaxAge >= 0 {
		t.Errorf("Expected the expired flag to be consumed, got %+v", c)
	}
}

func TestLoginStoresToken(t *testing.T) {
	testCases := []struct {
		name         string
		mustChange   bool
		wantLocation string
	}{
		{"regular login", false, "/"},
		{"forced password change", true, "/change-password?forced=1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") != "" {
					t.Errorf("Expected anonymous login request, got %q", r.Header.Get("Authorization"))
				}
				if tc.mustChange {
					w.Write([]byte(`{"access_token":"new-token","token_type":"bearer","must_change_password":true}`))
					return
				}
				w.Write([]byte(`{"access_token":"new-token","token_type":"bearer","must_change_password":false}`))
			})
			rm := newTestConsole(t, mux)

			w := serve(rm, "POST", "/login", url.Values{"username": {"admin"}, "password": {"secret123"}}, false)

			if w.Code != http.StatusSeeOther {
				t.Fatalf("Expected status 303, got %d", w.Code)
			}
			if loc := w.Header().Get("Location"); loc != tc.wantLocation {
				t.Errorf("Expected redirect to %s, got %s", tc.wantLocation, loc)
			}
			if c := findCookie(w, session.TokenCookie); c == nil || c.Value != "new-token" {
				t.Errorf("Expected token cookie new-token, got %+v", c)
			}
		})
	}
}

func TestLoginRejectedShowsDetail(t *testing.T) {
	rm := newTestConsole(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Incorrect username or password"}`))
	}))

	w := serve(rm, "POST", "/login", url.Values{"username": {"admin"}, "password": {"bad"}}, false)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Incorrect username or password") {
		t.Error("Expected the gateway detail on the login page")
	}
	if c := findCookie(w, session.ExpiredCookie); c != nil {
		t.Errorf("Expected no expired flag for a failed login, got %+v", c)
	}
}

func TestChannelsShowsMisconfiguredSource(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/channels/", jsonHandler(`[
		{"id":1,"name":"Col du Pré","provider_id":"ffvl","station_id":"67","template_text":"t","voice_id":"fr_FR-siwis-medium","offsets_seconds_json":"[0, 1200]","is_enabled":true},
		{"id":2,"name":"Lac","provider_id":"openwindmap","station_id":12,"template_text":"t","voice_id":"fr_FR-siwis-medium","offsets_seconds_json":"[0]","is_enabled":false}
	]`))
	mux.HandleFunc("/api/providers/", jsonHandler(`[
		{"provider_id":"ffvl","name":"FFVL","requires_auth":true,"is_configured":false},
		{"provider_id":"openwindmap","name":"OpenWindMap","requires_auth":false,"is_configured":true}
	]`))
	rm := newTestConsole(t, mux)

	w := serve(rm, "GET", "/channels", nil, true)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, "Source misconfigured") {
		t.Error("Expected the misconfigured badge for the channel without credentials")
	}
	if !strings.Contains(body, `badge-danger">Disabled`) {
		t.Error("Expected the disabled badge for the second channel")
	}
	if !strings.Contains(body, "0, 1200") {
		t.Error("Expected the offsets of the first channel")
	}
}

func TestSaveChannelValidationRendersForm(t *testing.T) {
	var calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tts/voices", jsonHandler(`[]`))
	mux.HandleFunc("/api/channels/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})
	rm := newTestConsole(t, mux)

	w := serve(rm, "POST", "/channels", url.Values{"name": {"Col"}, "template_text": {"t"}, "offsets": {"0"}}, true)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got %d", w.Code)
	}
	if calls != 0 {
		t.Errorf("Expected no channel request for an invalid form, got %d", calls)
	}
}

func TestTimelineStates(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		contains string
	}{
		{"empty forecast", http.StatusOK, `{"total_events":0,"events":[]}`, "Nothing scheduled"},
		{"gateway failure", http.StatusInternalServerError, `{"detail":"scheduler unavailable"}`, "Could not load the forecast: scheduler unavailable"},
		{"simulated event", http.StatusOK, `{"total_events":1,"events":[{"channel_id":1,"channel_name":"Col","tx_time":"2024-06-01T10:20:00","offset_seconds":1200,"rendered_text":"Vent 12","is_simulated":true}]}`, "Estimate: no measurement is available yet for this slot"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var gotHours string
			rm := newTestConsole(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotHours = r.URL.Query().Get("hours")
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))

			w := serve(rm, "GET", "/timeline?hours=48", nil, true)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			if gotHours != "48" {
				t.Errorf("Expected hours=48, got %q", gotHours)
			}
			if !strings.Contains(w.Body.String(), tc.contains) {
				t.Errorf("Expected page to contain %q", tc.contains)
			}
		})
	}
}

func TestHistorySendsFullStateAndPaginates(t *testing.T) {
	var gotQuery url.Values
	mux := http.NewServeMux()
	mux.HandleFunc("/api/channels/", jsonHandler(`[]`))
	mux.HandleFunc("/api/tx/history", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"results":[{"id":1,"channel_name":"Col","mode":"SCHEDULED","status":"SENT","sent_at":"2024-06-01T08:00:00"}],"total":125,"offset":50,"limit":50}`))
	})
	mux.HandleFunc("/api/tx/stats", jsonHandler(`{"total":3,"by_status":{"SENT":2,"FAILED":1}}`))
	rm := newTestConsole(t, mux)

	w := serve(rm, "GET", "/history?page=1&status=sent&start=2024-06-01T08:00", nil, true)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	expected := map[string]string{
		"limit":      "50",
		"offset":     "50",
		"status":     "SENT",
		"start_date": "2024-06-01T08:00:00Z",
	}
	for key, want := range expected {
		if got := gotQuery.Get(key); got != want {
			t.Errorf("Expected %s=%s, got %q", key, want, got)
		}
	}

	body := w.Body.String()
	if !strings.Contains(body, "Page 2 / 3") {
		t.Error("Expected page 2 of 3")
	}
	if !strings.Contains(body, "/history?page=2") {
		t.Error("Expected a link to the next page")
	}
}

func TestHistoryInvalidFilterShownInline(t *testing.T) {
	var historyCalls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/channels/", jsonHandler(`[]`))
	mux.HandleFunc("/api/tx/history", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&historyCalls, 1)
	})
	rm := newTestConsole(t, mux)

	w := serve(rm, "GET", "/history?apply=1&start=2024-06-02T08:00&end=2024-06-01T08:00", nil, true)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "end date must be after start date") {
		t.Error("Expected the filter error on the page")
	}
	if historyCalls != 0 {
		t.Errorf("Expected no history request, got %d", historyCalls)
	}
}

func TestDeleteOwnAccountRefused(t *testing.T) {
	var deletes int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/me", jsonHandler(`{"id":1,"username":"admin"}`))
	mux.HandleFunc("/api/users/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			atomic.AddInt32(&deletes, 1)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	rm := newTestConsole(t, mux)

	testCases := []struct {
		name        string
		target      string
		wantDeletes int32
	}{
		{"own account", "/users/1/delete", 0},
		{"other account", "/users/2/delete", 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(rm, "POST", tc.target, url.Values{}, true)

			if w.Code != http.StatusSeeOther {
				t.Errorf("Expected status 303, got %d", w.Code)
			}
			if got := atomic.LoadInt32(&deletes); got != tc.wantDeletes {
				t.Errorf("Expected %d delete requests, got %d", tc.wantDeletes, got)
			}
		})
	}
}

func TestCreateUserShowsPasswordOnce(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/me", jsonHandler(`{"id":1,"username":"admin"}`))
	mux.HandleFunc("/api/users/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			w.Write([]byte(`{"id":2,"username":"bob","generated_password":"Xy7-secret","must_change_password":true}`))
			return
		}
		w.Write([]byte(`[{"id":1,"username":"admin"},{"id":2,"username":"bob","must_change_password":true}]`))
	})
	rm := newTestConsole(t, mux)

	w := serve(rm, "POST", "/users", url.Values{"username": {"bob"}}, true)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Xy7-secret") {
		t.Error("Expected the generated password in the response")
	}
	if cc := w.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Expected Cache-Control no-store, got %q", cc)
	}
	if c := findCookie(w, flashCookie); c != nil {
		t.Errorf("Expected the password not to be flashed, got %+v", c)
	}
}

func TestEmissionToggleKeepsOtherSettings(t *testing.T) {
	var gotBody string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/settings", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			body, _ := io.ReadAll(r.Body)
			gotBody = string(body)
			w.Write([]byte(`{"master_enabled":true,"poll_interval_seconds":120}`))
			return
		}
		w.Write([]byte(`{"master_enabled":false,"poll_interval_seconds":120,"inter_announcement_pause_seconds":5,"ptt_active_level":1,"ptt_lead_ms":500,"ptt_tail_ms":500,"tx_timeout_seconds":30}`))
	})
	rm := newTestConsole(t, mux)

	w := serve(rm, "POST", "/settings/emission", url.Values{"enabled": {"1"}}, true)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("Expected status 303, got %d", w.Code)
	}
	if !strings.Contains(gotBody, `"master_enabled":true`) || !strings.Contains(gotBody, `"poll_interval_seconds":120`) {
		t.Errorf("Expected emission flipped with other settings kept, got %s", gotBody)
	}
	if strings.Contains(gotBody, "tx_timeout_seconds") {
		t.Errorf("Expected read-only timeout to be left out, got %s", gotBody)
	}
}

func TestHealthBeforeFirstPoll(t *testing.T) {
	rm := newTestConsole(t, http.NotFoundHandler())

	w := serve(rm, "GET", "/health", nil, false)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"gateway":"unknown"`) {
		t.Errorf("Expected unknown gateway state, got %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"in_flight":[]`) {
		t.Errorf("Expected no request in flight, got %s", w.Body.String())
	}
}

func TestAudioProxyRejectsTraversal(t *testing.T) {
	var calls int32
	rm := newTestConsole(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))

	w := serve(rm, "GET", "/audio/a%5Cb.wav", nil, true)

	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", w.Code)
	}
	if calls != 0 {
		t.Errorf("Expected no gateway request, got %d", calls)
	}
}

func TestDashboardServedFromSnapshot(t *testing.T) {
	var calls int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"master_enabled":true,"active_channels":3,"total_channels":5,"poll_interval_seconds":60,"runner_status":"running"}`))
	})
	rm := newTestConsole(t, mux)

	for i := 0; i < 3; i++ {
		w := serve(rm, "GET", "/", nil, true)
		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "3 / 5") {
			t.Errorf("Expected active channel counts, got %s", w.Body.String())
		}
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("Expected a single status fetch for repeated reloads, got %d", got)
	}

	if err := rm.status.Refresh(context.Background()); err != nil {
		t.Fatalf("Expected refresh to succeed, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("Expected the poller refresh to fetch again, got %d", got)
	}
}

func TestDashboardUnreachableGateway(t *testing.T) {
	rm := newTestConsole(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	w := serve(rm, "GET", "/", nil, true)

	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", w.Code)
	}
}

func TestChannelsShowControlsInFlight(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/channels/", jsonHandler(`[{"id":1,"name":"Col","provider_id":"openwindmap","station_id":"67","offsets_seconds_json":"[0]","is_enabled":true}]`))
	mux.HandleFunc("/api/providers/", jsonHandler(`[]`))
	rm := newTestConsole(t, mux)

	release, err := rm.tracker.Begin(workflow.TestKey(1), "Testing...")
	if err != nil {
		t.Fatalf("Expected to begin the test, got %v", err)
	}
	defer release()

	w := serve(rm, "GET", "/channels", nil, true)

	body := w.Body.String()
	if !strings.Contains(body, "disabled>Testing...</button>") {
		t.Error("Expected the test control to show its busy label")
	}
	if strings.Contains(body, `action="/channels/1/test"`) {
		t.Error("Expected no test form while a test is running")
	}
	if !strings.Contains(body, `action="/channels/1/preview"`) {
		t.Error("Expected the preview control to stay available")
	}
}

func TestPreviewAudio(t *testing.T) {
	testCases := []struct {
		name     string
		audioURL string
		contains string
		excludes string
	}{
		{"with audio", "/api/tts/audio/abc123.wav", `src="/audio/abc123.wav"`, "returned no audio"},
		{"without audio", "", "returned no audio", "/audio/."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("/api/channels/1", jsonHandler(`{"id":1,"name":"Col","provider_id":"openwindmap","station_id":"67"}`))
			mux.HandleFunc("/api/channels/1/preview", jsonHandler(`{"rendered_text":"Vent moyen 12","audio_url":"`+tc.audioURL+`","measurement":{"measurement_at":"2024-06-01T09:53:00","wind_avg_kmh":12,"wind_max_kmh":20},"was_cached":false}`))
			rm := newTestConsole(t, mux)

			w := serve(rm, "POST", "/channels/1/preview", url.Values{}, true)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			body := w.Body.String()
			if !strings.Contains(body, tc.contains) {
				t.Errorf("Expected page to contain %q", tc.contains)
			}
			if strings.Contains(body, tc.excludes) {
				t.Errorf("Expected page not to contain %q", tc.excludes)
			}
		})
	}
}

func TestBusyButtonsRestoredOnPageShow(t *testing.T) {
	rm := newTestConsole(t, http.NotFoundHandler())

	w := serve(rm, "GET", "/login", nil, false)

	body := w.Body.String()
	if !strings.Contains(body, `addEventListener("pageshow"`) {
		t.Error("Expected a pageshow handler restoring busy buttons")
	}
	if !strings.Contains(body, "btn.disabled = false") {
		t.Error("Expected busy buttons to be re-enabled")
	}
}
