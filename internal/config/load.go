package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load initializes the configuration from file and environment variables.
func Load(cfgFile string) {
	// explicit .env loading; a missing .env is fine
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("LMLBENCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	SetDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// SetDefaults installs the default configuration values.
func SetDefaults() {
	viper.SetDefault("timeout", 10)
	viper.SetDefault("verbose", false)
	viper.SetDefault("format", "table")
	viper.SetDefault("metrics_enabled", false)
	viper.SetDefault("metrics_port", 2112)

	// External validator discovery: release build, debug build, then
	// paths relative to nested working directories.
	viper.SetDefault("external.name", "external")
	viper.SetDefault("external.candidates", []string{
		"target/release/linkml-validator",
		"target/debug/linkml-validator",
		"../target/release/linkml-validator",
		"../target/debug/linkml-validator",
	})

	viper.SetDefault("store.type", "sqlite")
	viper.SetDefault("store.connection", ".lmlbench.db")

	viper.SetDefault("notifications.slack.enabled", os.Getenv("SLACK_BOT_USER_TOKEN") != "")
	viper.SetDefault("notifications.slack.channel", "#benchmarks")
}
