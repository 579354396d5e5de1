package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// ValidateConfig validates configuration values and returns an error if any are invalid.
// This function should be called after viper has loaded the configuration.
func ValidateConfig() error {
	var errors []string

	// Try GetDuration first, then fall back to GetInt (seconds)
	if viper.IsSet("timeout") {
		var timeout time.Duration
		if d := viper.GetDuration("timeout"); d != 0 {
			timeout = d
		} else if s := viper.GetInt("timeout"); s != 0 {
			timeout = time.Duration(s) * time.Second
		}
		if timeout <= 0 {
			errors = append(errors, fmt.Sprintf("timeout must be positive, got: %v", timeout))
		}
	}

	if viper.IsSet("format") {
		format := viper.GetString("format")
		if format != "table" && format != "markdown" {
			errors = append(errors, fmt.Sprintf("format must be table or markdown, got: %q", format))
		}
	}

	if viper.IsSet("metrics_port") {
		port := viper.GetInt("metrics_port")
		if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("metrics_port must be between 1 and 65535, got: %d", port))
		}
	}

	if viper.IsSet("store.type") {
		st := viper.GetString("store.type")
		switch st {
		case "sqlite", "sqlite3", "postgres", "postgresql", "":
		default:
			errors = append(errors, fmt.Sprintf("store.type must be sqlite or postgres, got: %q", st))
		}
	}

	if viper.IsSet("external.candidates") {
		if len(viper.GetStringSlice("external.candidates")) == 0 {
			errors = append(errors, "external.candidates must list at least one path")
		}
	}

	if len(errors) > 0 {
		errorMsg := errors[0]
		for i := 1; i < len(errors); i++ {
			errorMsg += "\n  " + errors[i]
		}
		return fmt.Errorf("configuration validation failed:\n  %s", errorMsg)
	}

	return nil
}

// Timeout returns the configured subprocess timeout. A duration string
// ("45s", "500ms") is taken as-is; a bare number means seconds.
func Timeout() time.Duration {
	if s, ok := viper.Get("timeout").(string); ok {
		if d, err := time.ParseDuration(s); err == nil && d > 0 {
			return d
		}
	}
	if s := viper.GetInt("timeout"); s > 0 {
		return time.Duration(s) * time.Second
	}
	return 10 * time.Second
}

// ValidateAndExit validates the configuration and exits with a non-zero code if validation fails.
func ValidateAndExit() {
	if err := ValidateConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
