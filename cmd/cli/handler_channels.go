package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Davidlouiz/passerelle-vhf/pkg/api"
	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
	"github.com/Davidlouiz/passerelle-vhf/pkg/workflow"
	"github.com/gorilla/mux"
)

type channelRow struct {
	models.Channel
	Status models.Badge
	// Labels of the test and preview controls while a request is in flight
	Testing    string
	Previewing string
}

type channelsView struct {
	Channels []channelRow
}

type channelFormView struct {
	ID      int
	Editing bool
	Input   models.ChannelInput
	Offsets string
	Station string
	Voices  []models.Voice
	Error   string
}

func channelID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func (rm *RouteManager) channelsHandler(w http.ResponseWriter, r *http.Request) {
	client := rm.gateway(w, r)

	channels, err := client.GetChannels(r.Context())
	if err != nil {
		rm.failPage(w, r, err)
		return
	}
	providers, err := client.GetProviders(r.Context())
	if err != nil {
		rm.failPage(w, r, err)
		return
	}
	index := models.ProviderIndex(providers)

	view := channelsView{Channels: make([]channelRow, 0, len(channels))}
	for _, ch := range channels {
		row := channelRow{
			Channel: ch,
			Status:  ch.DisplayStatus(index).Badge(),
		}
		row.Testing, _ = rm.tracker.Busy(workflow.TestKey(ch.ID))
		row.Previewing, _ = rm.tracker.Busy(workflow.PreviewKey(ch.ID))
		view.Channels = append(view.Channels, row)
	}
	rm.render(w, r, http.StatusOK, "channels", "Channels", view)
}

func (rm *RouteManager) channelFormHandler(w http.ResponseWriter, r *http.Request) {
	client := rm.gateway(w, r)
	view := channelFormView{
		Input:   models.ChannelInput{VoiceID: models.DefaultVoiceID},
		Offsets: "0",
	}

	if id := channelID(r); id > 0 {
		channel, err := client.GetChannel(r.Context(), id)
		if err != nil {
			rm.failPage(w, r, err)
			return
		}
		view.ID = id
		view.Editing = true
		view.Station = fmt.Sprintf("%s / %s", channel.ProviderID, channel.StationID)
		view.Offsets = channel.OffsetsText()
		view.Input = models.ChannelInput{
			Name:             channel.Name,
			StationVisualURL: channel.StationVisualURL,
			TemplateText:     channel.TemplateText,
			VoiceID:          channel.VoiceID,
		}
	}

	voices, err := client.GetVoices(r.Context())
	if err != nil {
		rm.failPage(w, r, err)
		return
	}
	view.Voices = voices

	title := "New channel"
	if view.Editing {
		title = "Edit channel"
	}
	rm.render(w, r, http.StatusOK, "channel_form", title, view)
}

func (rm *RouteManager) saveChannelHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	id := channelID(r)
	in := models.NewChannelInput(
		r.PostFormValue("name"),
		r.PostFormValue("station_visual_url"),
		r.PostFormValue("template_text"),
		r.PostFormValue("voice_id"),
		r.PostFormValue("offsets"),
	)

	client := rm.gateway(w, r)
	if _, err := client.SaveChannel(r.Context(), id, in); err != nil {
		if rm.unauthorized(w, r, err) {
			return
		}
		view := channelFormView{
			ID:      id,
			Editing: id > 0,
			Input:   in,
			Offsets: r.PostFormValue("offsets"),
			Station: r.PostFormValue("station"),
			Error:   api.ErrorMessage(err),
		}
		view.Voices, _ = client.GetVoices(r.Context())

		status := http.StatusBadRequest
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			status = http.StatusUnprocessableEntity
		}
		rm.render(w, r, status, "channel_form", "Channel", view)
		return
	}

	message := "Channel created"
	if id > 0 {
		message = "Channel updated"
	}
	rm.redirectWithFlash(w, r, "/channels", "success", message)
}

func (rm *RouteManager) toggleChannelHandler(w http.ResponseWriter, r *http.Request) {
	result, err := rm.gateway(w, r).ToggleChannel(r.Context(), channelID(r))
	if err != nil {
		rm.failAction(w, r, "/channels", err)
		return
	}
	message := "Channel disabled"
	if result.Enabled {
		message = "Channel enabled"
	}
	rm.redirectWithFlash(w, r, "/channels", "success", message)
}

func (rm *RouteManager) deleteChannelPageHandler(w http.ResponseWriter, r *http.Request) {
	channel, err := rm.gateway(w, r).GetChannel(r.Context(), channelID(r))
	if err != nil {
		rm.failPage(w, r, err)
		return
	}
	rm.render(w, r, http.StatusOK, "channel_delete", "Delete channel", channel)
}

func (rm *RouteManager) deleteChannelHandler(w http.ResponseWriter, r *http.Request) {
	if err := rm.gateway(w, r).DeleteChannel(r.Context(), channelID(r)); err != nil {
		rm.failAction(w, r, "/channels", err)
		return
	}
	rm.redirectWithFlash(w, r, "/channels", "success", "Channel deleted")
}

func (rm *RouteManager) testChannelHandler(w http.ResponseWriter, r *http.Request) {
	runner := workflow.NewRunner(rm.gateway(w, r), rm.tracker)
	result, err := runner.TestMeasurement(r.Context(), channelID(r))
	if err != nil {
		rm.workflowFailed(w, r, err)
		return
	}
	rm.render(w, r, http.StatusOK, "measurement", "Measurement", result)
}

func (rm *RouteManager) previewChannelHandler(w http.ResponseWriter, r *http.Request) {
	runner := workflow.NewRunner(rm.gateway(w, r), rm.tracker)
	result, err := runner.Preview(r.Context(), channelID(r))
	if err != nil {
		rm.workflowFailed(w, r, err)
		return
	}
	if result.AudioURL != "" {
		result.AudioURL = "/audio/" + api.AudioFile(result.AudioURL)
	}
	rm.render(w, r, http.StatusOK, "preview", "Preview", result)
}

// workflowFailed reports a failed test or preview as a notification on the
// channel list
func (rm *RouteManager) workflowFailed(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, workflow.ErrBusy) {
		rm.redirectWithFlash(w, r, "/channels", "warning", "This operation is already running for the channel")
		return
	}
	rm.failAction(w, r, "/channels", err)
}
