// Package initcmder provides the init command for initializing a local
// .kronos directory in the current working directory.
package initcmder

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kronoshq/kronos/pkg/config"
)

const (
	dirName = ".kronos"
)

const initLongDesc string = `Initialize a new .kronos/ directory in the current working directory.

Creates a local .kronos/ directory that takes precedence over the default
~/.kronos/ directory for configuration and other kronos operations, and
writes a config.toml with default values.

This is useful for maintaining separate kronos configuration per project.

Use --preset to start from a provider preset (ollama, openai, anthropic)
or to fetch a shared config.toml from a URL.

Examples:
  kronos init
  kronos init --preset anthropic
  kronos init --preset https://example.com/team-config.toml`

const initShortDesc string = "Initialize a local .kronos/ directory"

func NewInitCmd() *cobra.Command {
	var preset string

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(preset)
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "Provider preset name or config.toml URL")

	return cmd
}

func runInit(preset string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	info, err := os.Stat(dir)
	alreadyExists := err == nil && info.IsDir()
	if !alreadyExists {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating .kronos directory: %w", err)
		}
	}

	cfg, err := resolveConfig(preset)
	if err != nil {
		return err
	}

	// An existing config is only replaced when a preset was requested.
	configPath := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(configPath); err == nil && preset == "" {
		fmt.Printf("Already initialized: %s\n", dir)
		return nil
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("creating configer: %w", err)
	}
	if err := cfger.SaveConfig(cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if alreadyExists {
		fmt.Printf("Updated config in: %s\n", dir)
	} else {
		fmt.Printf("Initialized .kronos directory: %s\n", dir)
	}
	return nil
}

func resolveConfig(preset string) (*config.Config, error) {
	switch {
	case preset == "":
		return config.NewDefaultConfig(), nil
	case strings.HasPrefix(preset, "http://") || strings.HasPrefix(preset, "https://"):
		return fetchRemoteConfig(preset)
	default:
		return config.PresetConfig(preset)
	}
}

func fetchRemoteConfig(url string) (*config.Config, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching remote config: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading remote config: %w", err)
	}

	cfg, err := config.ParseConfigTOML(data)
	if err != nil {
		return nil, fmt.Errorf("parsing remote config: %w", err)
	}
	return cfg, nil
}
