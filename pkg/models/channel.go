package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// DefaultVoiceID is the voice preselected for new channels
const DefaultVoiceID = "fr_FR-siwis-medium"

// StationID identifies a station at its provider. The gateway emits it
// either as a JSON number or as a string.
type StationID string

// UnmarshalJSON implements json.Unmarshaler
func (s *StationID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = StationID(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = StationID(n.String())
	return nil
}

// Channel is an announcement pipeline bound to one station and a message template
type Channel struct {
	ID                   int       `json:"id"`
	Name                 string    `json:"name"`
	ProviderID           string    `json:"provider_id"`
	StationID            StationID `json:"station_id"`
	StationVisualURL     string    `json:"station_visual_url_cache"`
	TemplateText         string    `json:"template_text"`
	EngineID             string    `json:"engine_id"`
	VoiceID              string    `json:"voice_id"`
	OffsetsJSON          string    `json:"offsets_seconds_json"`
	MeasurementPeriod    int       `json:"measurement_period_seconds"`
	MinIntervalBetweenTX int       `json:"min_interval_between_tx_seconds"`
	Enabled              bool      `json:"is_enabled"`
	CreatedAt            Time      `json:"created_at"`
	UpdatedAt            Time      `json:"updated_at"`
}

// Offsets returns the announcement offsets in seconds. A malformed list
// yields the single offset 0, like the gateway's own scheduler.
func (c Channel) Offsets() []int {
	var offsets []int
	if err := json.Unmarshal([]byte(c.OffsetsJSON), &offsets); err != nil {
		return []int{0}
	}
	return offsets
}

// OffsetsText formats the offsets the way the edit form expects them
func (c Channel) OffsetsText() string {
	offsets := c.Offsets()
	parts := make([]string, len(offsets))
	for i, o := range offsets {
		parts[i] = strconv.Itoa(o)
	}
	return strings.Join(parts, ", ")
}

// ChannelInput is the body of a channel create or update request
type ChannelInput struct {
	Name             string `json:"name,omitempty"`
	StationVisualURL string `json:"station_visual_url,omitempty"`
	TemplateText     string `json:"template_text,omitempty"`
	VoiceID          string `json:"voice_id,omitempty"`
	OffsetsJSON      string `json:"offsets_seconds_json,omitempty"`
}

// NewChannelInput builds a request body from raw form values. Offsets are
// parsed with ParseOffsets.
func NewChannelInput(name, stationURL, template, voiceID, offsets string) ChannelInput {
	encoded, _ := json.Marshal(ParseOffsets(offsets))
	return ChannelInput{
		Name:             strings.TrimSpace(name),
		StationVisualURL: strings.TrimSpace(stationURL),
		TemplateText:     strings.TrimSpace(template),
		VoiceID:          strings.TrimSpace(voiceID),
		OffsetsJSON:      string(encoded),
	}
}

// Validate checks the required fields. The station URL is only required on create.
func (in ChannelInput) Validate(creating bool) error {
	if in.Name == "" {
		return invalid("name", "name is required")
	}
	if creating && in.StationVisualURL == "" {
		return invalid("station_visual_url", "station URL is required")
	}
	if in.TemplateText == "" {
		return invalid("template_text", "template is required")
	}
	return nil
}

// ParseOffsets parses a comma separated list of integer offsets.
// Each entry is read like a leading integer: surrounding spaces are ignored,
// entries with no leading digits are dropped silently and the sign is kept.
// Empty entries (trailing commas) are tolerated.
func ParseOffsets(s string) []int {
	offsets := []int{}
	for _, part := range strings.Split(s, ",") {
		if n, ok := leadingInt(strings.TrimSpace(part)); ok {
			offsets = append(offsets, n)
		}
	}
	return offsets
}

func leadingInt(s string) (int, bool) {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// ChannelStatus is the badge shown for a channel in the catalog
type ChannelStatus string

const (
	ChannelEnabled       ChannelStatus = "enabled"
	ChannelDisabled      ChannelStatus = "disabled"
	ChannelMisconfigured ChannelStatus = "misconfigured"
)

// DisplayStatus derives the catalog badge of a channel from the provider
// configuration. A channel whose provider needs credentials that are not
// configured is shown as misconfigured; Enabled itself is left untouched.
// Providers missing from the map are assumed to be usable.
func (c Channel) DisplayStatus(providers map[string]Provider) ChannelStatus {
	if p, ok := providers[c.ProviderID]; ok && p.RequiresAuth && !p.Configured {
		return ChannelMisconfigured
	}
	if c.Enabled {
		return ChannelEnabled
	}
	return ChannelDisabled
}

// Badge returns the label and CSS class of a channel status
func (s ChannelStatus) Badge() Badge {
	switch s {
	case ChannelEnabled:
		return Badge{Label: "Enabled", Class: "success"}
	case ChannelMisconfigured:
		return Badge{Label: "Source misconfigured", Class: "warning"}
	default:
		return Badge{Label: "Disabled", Class: "danger"}
	}
}

// ToggleResult is returned by the channel toggle endpoint
type ToggleResult struct {
	Message string `json:"message"`
	Enabled bool   `json:"is_enabled"`
}
