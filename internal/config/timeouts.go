package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	Deploy            time.Duration // Upper bound for a whole deployment
	Helm              time.Duration // Default wait for Helm releases
	NATGateway        time.Duration // Wait for each AWS NAT gateway
	NetworkAction     time.Duration // Wait for Hetzner network actions
	RetryMaxAttempts  int           // Maximum number of retry attempts
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - BLUEPRINTS_TIMEOUT_DEPLOY (default: 30m)
//   - BLUEPRINTS_TIMEOUT_HELM (default: 10m)
//   - BLUEPRINTS_TIMEOUT_NAT_GATEWAY (default: 10m)
//   - BLUEPRINTS_TIMEOUT_NETWORK_ACTION (default: 2m)
//   - BLUEPRINTS_RETRY_MAX_ATTEMPTS (default: 5)
//   - BLUEPRINTS_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Deploy:            parseDuration("BLUEPRINTS_TIMEOUT_DEPLOY", 30*time.Minute),
		Helm:              parseDuration("BLUEPRINTS_TIMEOUT_HELM", 10*time.Minute),
		NATGateway:        parseDuration("BLUEPRINTS_TIMEOUT_NAT_GATEWAY", 10*time.Minute),
		NetworkAction:     parseDuration("BLUEPRINTS_TIMEOUT_NETWORK_ACTION", 2*time.Minute),
		RetryMaxAttempts:  parseInt("BLUEPRINTS_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("BLUEPRINTS_RETRY_INITIAL_DELAY", 1*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil || i < 0 {
		return defaultVal
	}
	return i
}
