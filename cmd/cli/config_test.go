package main

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfigStatusInterval(t *testing.T) {
	testCases := []struct {
		value    string
		expected time.Duration
	}{
		{"45", 45 * time.Second},
		{"0", 30 * time.Second},
		{"-5", 30 * time.Second},
		{"abc", 30 * time.Second},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			os.Setenv("CONSOLE_STATUS_INTERVAL", tc.value)
			defer os.Unsetenv("CONSOLE_STATUS_INTERVAL")

			got := LoadConfig().StatusInterval
			if got != tc.expected {
				t.Errorf("Expected status interval %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestGetEnvHelpers(t *testing.T) {
	os.Setenv("VHF_TEST_INT", "42")
	os.Setenv("VHF_TEST_BAD_INT", "abc")
	os.Setenv("VHF_TEST_BOOL", "true")
	defer os.Unsetenv("VHF_TEST_INT")
	defer os.Unsetenv("VHF_TEST_BAD_INT")
	defer os.Unsetenv("VHF_TEST_BOOL")

	if got := getEnv("VHF_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %s", got)
	}
	if got := getEnvAsInt("VHF_TEST_INT", 1); got != 42 {
		t.Errorf("Expected 42, got %d", got)
	}
	if got := getEnvAsInt("VHF_TEST_BAD_INT", 7); got != 7 {
		t.Errorf("Expected default 7, got %d", got)
	}
	if got := getEnvAsBool("VHF_TEST_BOOL", false); !got {
		t.Error("Expected true")
	}
}
