package models

import (
	"strconv"
	"strings"
)

// Settings is the system configuration
type Settings struct {
	ID                    int  `json:"id"`
	MasterEnabled         bool `json:"master_enabled"`
	PollIntervalSeconds   int  `json:"poll_interval_seconds"`
	InterAnnouncementSecs int  `json:"inter_announcement_pause_seconds"`
	PTTGPIOPin            *int `json:"ptt_gpio_pin"`
	PTTActiveLevel        int  `json:"ptt_active_level"`
	PTTLeadMs             int  `json:"ptt_lead_ms"`
	PTTTailMs             int  `json:"ptt_tail_ms"`
	TxTimeoutSeconds      int  `json:"tx_timeout_seconds"`
}

// SettingsUpdate is the body of a settings update
type SettingsUpdate struct {
	MasterEnabled         bool `json:"master_enabled"`
	PollIntervalSeconds   int  `json:"poll_interval_seconds"`
	InterAnnouncementSecs int  `json:"inter_announcement_pause_seconds"`
	PTTGPIOPin            *int `json:"ptt_gpio_pin"`
	PTTActiveLevel        int  `json:"ptt_active_level"`
	PTTLeadMs             int  `json:"ptt_lead_ms"`
	PTTTailMs             int  `json:"ptt_tail_ms"`
}

// Update returns an update carrying the current values
func (s Settings) Update() SettingsUpdate {
	return SettingsUpdate{
		MasterEnabled:         s.MasterEnabled,
		PollIntervalSeconds:   s.PollIntervalSeconds,
		InterAnnouncementSecs: s.InterAnnouncementSecs,
		PTTGPIOPin:            s.PTTGPIOPin,
		PTTActiveLevel:        s.PTTActiveLevel,
		PTTLeadMs:             s.PTTLeadMs,
		PTTTailMs:             s.PTTTailMs,
	}
}

// Validate applies the gateway's range checks before submission
func (u SettingsUpdate) Validate() error {
	if u.PollIntervalSeconds < 10 || u.PollIntervalSeconds > 600 {
		return invalid("poll_interval_seconds", "must be between 10 and 600")
	}
	if u.InterAnnouncementSecs < 0 || u.InterAnnouncementSecs > 60 {
		return invalid("inter_announcement_pause_seconds", "must be between 0 and 60")
	}
	if u.PTTGPIOPin != nil && (*u.PTTGPIOPin < 0 || *u.PTTGPIOPin > 40) {
		return invalid("ptt_gpio_pin", "must be between 0 and 40")
	}
	if u.PTTActiveLevel != 0 && u.PTTActiveLevel != 1 {
		return invalid("ptt_active_level", "must be 0 or 1")
	}
	if u.PTTLeadMs < 0 || u.PTTLeadMs > 2000 {
		return invalid("ptt_lead_ms", "must be between 0 and 2000")
	}
	if u.PTTTailMs < 0 || u.PTTTailMs > 2000 {
		return invalid("ptt_tail_ms", "must be between 0 and 2000")
	}
	return nil
}

// ParseGPIOPin reads the PTT pin field. An empty value selects the mock PTT.
func ParseGPIOPin(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	pin, err := strconv.Atoi(raw)
	if err != nil {
		return nil, invalid("ptt_gpio_pin", "must be a number")
	}
	return &pin, nil
}
