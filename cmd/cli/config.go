package main

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the console settings read from the environment
type Config struct {
	APIURL         string
	Port           string
	CSRFKey        string
	SecureCookies  bool
	Timezone       string
	StatusInterval time.Duration
	Timeout        time.Duration
	Debug          bool
}

// defaultStatusInterval is the gateway status refresh period, in seconds
const defaultStatusInterval = 30

// LoadConfig reads .env, when present, then the environment
func LoadConfig() *Config {
	_ = godotenv.Load()

	statusInterval := getEnvAsInt("CONSOLE_STATUS_INTERVAL", defaultStatusInterval)
	if statusInterval <= 0 {
		statusInterval = defaultStatusInterval
	}

	return &Config{
		APIURL:         getEnv("VHF_API_URL", "http://localhost:8000"),
		Port:           getEnv("CONSOLE_PORT", "8080"),
		CSRFKey:        getEnv("CONSOLE_CSRF_KEY", ""),
		SecureCookies:  getEnvAsBool("CONSOLE_SECURE_COOKIES", false),
		Timezone:       getEnv("CONSOLE_TIMEZONE", "Local"),
		StatusInterval: time.Duration(statusInterval) * time.Second,
		Timeout:        30 * time.Second,
		Debug:          getEnvAsBool("CONSOLE_DEBUG", false),
	}
}

// Location returns the time zone used to display and enter dates
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return defaultValue
}
