package main

import (
	"errors"
	"io"
	"net/http"

	"github.com/Davidlouiz/passerelle-vhf/pkg/api"
	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
	"github.com/Davidlouiz/passerelle-vhf/pkg/workflow"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type ttsView struct {
	Voices   []models.Voice
	Request  models.SynthesizeRequest
	AudioURL string
	Error    string
}

func (rm *RouteManager) ttsHandler(w http.ResponseWriter, r *http.Request) {
	voices, err := rm.gateway(w, r).GetVoices(r.Context())
	if err != nil {
		rm.failPage(w, r, err)
		return
	}
	rm.render(w, r, http.StatusOK, "tts", "Text-to-speech", ttsView{
		Voices:  voices,
		Request: models.SynthesizeRequest{VoiceID: models.DefaultVoiceID},
	})
}

func (rm *RouteManager) synthesizeHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	client := rm.gateway(w, r)
	view := ttsView{Request: models.SynthesizeRequest{
		Text:    r.PostFormValue("text"),
		VoiceID: r.PostFormValue("voice_id"),
	}}

	result, err := workflow.NewRunner(client, rm.tracker).Synthesize(r.Context(), view.Request)
	switch {
	case err == nil:
		view.AudioURL = "/audio/" + api.AudioFile(result.AudioURL)
	case rm.unauthorized(w, r, err):
		return
	case errors.Is(err, workflow.ErrBusy):
		view.Error = "A synthesis is already running"
	default:
		view.Error = api.ErrorMessage(err)
	}

	view.Voices, _ = client.GetVoices(r.Context())
	rm.render(w, r, http.StatusOK, "tts", "Text-to-speech", view)
}

// audioHandler streams synthesised audio from the gateway. The browser
// cannot attach the bearer token to an audio element itself.
func (rm *RouteManager) audioHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := rm.gateway(w, r).OpenAudio(r.Context(), mux.Vars(r)["file"])
	if err != nil {
		if rm.unauthorized(w, r, err) {
			return
		}
		var apiErr *api.APIError
		if errors.As(err, &apiErr) {
			http.Error(w, apiErr.Detail, apiErr.StatusCode)
			return
		}
		http.Error(w, api.ErrorMessage(err), http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for _, h := range []string{"Content-Type", "Content-Length", "Last-Modified", "ETag"} {
		if v := resp.Header.Get(h); v != "" {
			w.Header().Set(h, v)
		}
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "audio/wav")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, resp.Body); err != nil {
		rm.logger.Debug("audio stream interrupted", zap.Error(err))
	}
}
