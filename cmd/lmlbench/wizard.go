package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// askOneFunc allows mocking survey prompts in tests.
var askOneFunc = survey.AskOne

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively create a config.yaml",
	Long: `Walks through the main configuration choices and writes config.yaml
to the current directory.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config.yaml")
}

func runInit(cmd *cobra.Command, args []string) error {
	const path = "config.yaml"
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	var binary string
	if err := askOneFunc(&survey.Input{
		Message: "Path to the external validator binary:",
		Default: "target/release/linkml-validator",
	}, &binary); err != nil {
		return err
	}

	var timeoutStr string
	if err := askOneFunc(&survey.Input{
		Message: "Subprocess timeout in seconds:",
		Default: "10",
	}, &timeoutStr); err != nil {
		return err
	}
	timeout, err := strconv.Atoi(timeoutStr)
	if err != nil || timeout <= 0 {
		return fmt.Errorf("timeout must be a positive integer, got %q", timeoutStr)
	}

	var format string
	if err := askOneFunc(&survey.Select{
		Message: "Default output format:",
		Options: []string{"table", "markdown"},
		Default: "table",
	}, &format); err != nil {
		return err
	}

	var storeType string
	if err := askOneFunc(&survey.Select{
		Message: "History store backend:",
		Options: []string{"sqlite", "postgres"},
		Default: "sqlite",
	}, &storeType); err != nil {
		return err
	}

	connection := ".lmlbench.db"
	if storeType == "postgres" {
		if err := askOneFunc(&survey.Input{
			Message: "Postgres connection string:",
		}, &connection); err != nil {
			return err
		}
	}

	cfg := map[string]any{
		"timeout": timeout,
		"format":  format,
		"external": map[string]any{
			"name":       "external",
			"candidates": []string{binary},
		},
		"store": map[string]any{
			"type":       storeType,
			"connection": connection,
		},
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
