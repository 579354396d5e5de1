package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestSetDefaults(t *testing.T) {
	resetViper(t)
	SetDefaults()

	assert.Equal(t, 10, viper.GetInt("timeout"))
	assert.Equal(t, "table", viper.GetString("format"))
	assert.Equal(t, "sqlite", viper.GetString("store.type"))
	assert.NotEmpty(t, viper.GetStringSlice("external.candidates"))
}

func TestValidateConfig_Valid(t *testing.T) {
	resetViper(t)
	SetDefaults()
	assert.NoError(t, ValidateConfig())
}

func TestValidateConfig_Errors(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
		want  string
	}{
		{"negative timeout", "timeout", -5, "timeout must be positive"},
		{"bad format", "format", "xml", "format must be table or markdown"},
		{"bad metrics port", "metrics_port", 99999, "metrics_port must be between"},
		{"bad store type", "store.type", "mongo", "store.type must be sqlite or postgres"},
		{"empty candidates", "external.candidates", []string{}, "at least one path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetViper(t)
			viper.Set(tt.key, tt.value)

			err := ValidateConfig()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestTimeout(t *testing.T) {
	resetViper(t)
	assert.Equal(t, 10*time.Second, Timeout(), "default when unset")

	viper.Set("timeout", 3)
	assert.Equal(t, 3*time.Second, Timeout(), "integer seconds")

	viper.Set("timeout", "45s")
	assert.Equal(t, 45*time.Second, Timeout(), "duration string")

	viper.Set("timeout", "500ms")
	assert.Equal(t, 500*time.Millisecond, Timeout(), "sub-second duration string")

	viper.Set("timeout", "garbage")
	assert.Equal(t, 10*time.Second, Timeout(), "unparseable falls back to default")
}
