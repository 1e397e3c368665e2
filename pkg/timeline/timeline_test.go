package timeline

import (
	"errors"
	"testing"
	"time"

	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
)

func event(channel string, at time.Time) models.ForecastEvent {
	return models.ForecastEvent{ChannelName: channel, TxTime: models.Time{Time: at}}
}

func TestFormatDelay(t *testing.T) {
	testCases := []struct {
		delay    time.Duration
		expected string
	}{
		{-time.Second, "past"},
		{0, "in 0s"},
		{45 * time.Second, "in 45s"},
		{90 * time.Second, "in 1min"},
		{59*time.Minute + 59*time.Second, "in 59min"},
		{time.Hour + 5*time.Minute, "in 1h 5min"},
		{25 * time.Hour, "in 1d 1h"},
		{49*time.Hour + 30*time.Minute, "in 2d 1h"},
	}

	for _, tc := range testCases {
		if got := FormatDelay(tc.delay); got != tc.expected {
			t.Errorf("FormatDelay(%v): expected %q, got %q", tc.delay, tc.expected, got)
		}
	}
}

func TestDayLabel(t *testing.T) {
	loc := time.FixedZone("CEST", 2*3600)
	now := time.Date(2026, 7, 14, 23, 30, 0, 0, loc)

	testCases := []struct {
		name     string
		day      time.Time
		expected string
	}{
		{"today", time.Date(2026, 7, 14, 8, 0, 0, 0, loc), "Today"},
		{"tomorrow", time.Date(2026, 7, 15, 0, 10, 0, 0, loc), "Tomorrow"},
		{"later", time.Date(2026, 7, 17, 9, 0, 0, 0, loc), "Friday, 17 July 2026"},
		{"utc instant on local tomorrow", time.Date(2026, 7, 14, 22, 30, 0, 0, time.UTC), "Tomorrow"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DayLabel(tc.day, now, loc); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestGroupByDayPartition(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, 3, 1, 20, 0, 0, 0, loc)
	events := []models.ForecastEvent{
		event("A", now.Add(time.Hour)),
		event("B", now.Add(2*time.Hour)),
		event("A", now.Add(5*time.Hour)),
		event("C", now.Add(6*time.Hour)),
		event("B", now.Add(50*time.Hour)),
	}

	days := GroupByDay(events, now, loc)

	if len(days) != 3 {
		t.Fatalf("Expected 3 days, got %d", len(days))
	}
	expectedLabels := []string{"Today", "Tomorrow", "Tuesday, 3 March 2026"}
	expectedSizes := []int{2, 2, 1}

	var flattened []string
	for i, day := range days {
		if day.Label != expectedLabels[i] {
			t.Errorf("Day %d: expected label %q, got %q", i, expectedLabels[i], day.Label)
		}
		if len(day.Events) != expectedSizes[i] {
			t.Errorf("Day %d: expected %d events, got %d", i, expectedSizes[i], len(day.Events))
		}
		for _, ev := range day.Events {
			flattened = append(flattened, ev.ChannelName)
		}
	}

	expectedOrder := []string{"A", "B", "A", "C", "B"}
	if len(flattened) != len(expectedOrder) {
		t.Fatalf("Expected %d events overall, got %d", len(expectedOrder), len(flattened))
	}
	for i := range expectedOrder {
		if flattened[i] != expectedOrder[i] {
			t.Errorf("Event %d: expected %s, got %s", i, expectedOrder[i], flattened[i])
		}
	}

	if days[0].Events[0].Delay != "in 1h 0min" {
		t.Errorf("Expected delay 'in 1h 0min', got %q", days[0].Events[0].Delay)
	}
}

func TestGroupByDayEmpty(t *testing.T) {
	if days := GroupByDay(nil, time.Now(), time.UTC); len(days) != 0 {
		t.Errorf("Expected no days, got %d", len(days))
	}
}

func TestPageStates(t *testing.T) {
	now := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

	empty := NewPage(24, &models.Forecast{TotalEvents: 0, Events: []models.ForecastEvent{}}, now, time.UTC)
	if !empty.Empty() {
		t.Error("Expected empty forecast to render as nothing scheduled")
	}

	failed := ErrorPage(24, errors.New("boom"))
	if failed.Empty() {
		t.Error("Expected error page not to render as nothing scheduled")
	}
	if failed.Error != "boom" {
		t.Errorf("Expected error message boom, got %q", failed.Error)
	}

	sim := event("A", now.Add(time.Hour))
	sim.Simulated = true
	page := NewPage(24, &models.Forecast{TotalEvents: 1, Events: []models.ForecastEvent{sim}}, now, time.UTC)
	if page.Simulated != 1 {
		t.Errorf("Expected 1 simulated event, got %d", page.Simulated)
	}
}

func TestParseHours(t *testing.T) {
	testCases := []struct {
		raw      string
		expected int
	}{
		{"", 24},
		{"abc", 24},
		{"48", 48},
		{"0", 1},
		{"1000", 168},
	}

	for _, tc := range testCases {
		if got := ParseHours(tc.raw); got != tc.expected {
			t.Errorf("ParseHours(%q): expected %d, got %d", tc.raw, tc.expected, got)
		}
	}
}
