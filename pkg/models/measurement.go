package models

import (
	"math"
	"time"
)

// Measurement is a wind measurement snapshot
type Measurement struct {
	MeasuredAt       Time     `json:"measurement_at"`
	WindAvgKmh       float64  `json:"wind_avg_kmh"`
	WindMaxKmh       float64  `json:"wind_max_kmh"`
	WindMinKmh       *float64 `json:"wind_min_kmh,omitempty"`
	WindDirectionDeg *float64 `json:"wind_direction_deg,omitempty"`
	WindDirection    string   `json:"wind_direction_name,omitempty"`
	ReportedAge      *int     `json:"age_minutes,omitempty"`
}

// AgeMinutes returns the age of the measurement relative to now, rounded to
// the nearest minute.
func (m Measurement) AgeMinutes(now time.Time) int {
	return int(math.Round(now.Sub(m.MeasuredAt.Time).Minutes()))
}

// Age prefers the age computed by the gateway at retrieval time and falls
// back to the console clock.
func (m Measurement) Age(now time.Time) int {
	if m.ReportedAge != nil {
		return *m.ReportedAge
	}
	return m.AgeMinutes(now)
}

// PreviewResult is the outcome of a channel announcement preview
type PreviewResult struct {
	RenderedText string      `json:"rendered_text"`
	AudioURL     string      `json:"audio_url"`
	Measurement  Measurement `json:"measurement"`
	WasCached    bool        `json:"was_cached"`
}
