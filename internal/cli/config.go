package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yildizm/kcalc/internal/config"
	"github.com/yildizm/kcalc/internal/glyph"
)

// newConfigCommand creates the config command with subcommands
func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage kcalc configuration",
		Long: `Manage kcalc configuration files and settings.

The config command provides subcommands for initializing, viewing,
validating, and locating configuration files.`,
		// subcommands report config errors themselves
		Annotations: map[string]string{
			skipConfigAnnotation: "true",
		},
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand())
	configCmd.AddCommand(newConfigValidateCommand())
	configCmd.AddCommand(newConfigPathCommand())

	return configCmd
}

// newConfigInitCommand creates the config init subcommand
func newConfigInitCommand() *cobra.Command {
	var (
		path    string
		minimal bool
		force   bool
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new configuration file",
		Long: `Initialize a new kcalc configuration file with default values.

By default, creates a full configuration file with all options and comments.
Use --minimal for a compact configuration with only essential settings.`,
		Example: `  # Create full config in current directory
  kcalc config init

  # Create minimal config
  kcalc config init --minimal

  # Create config at specific path
  kcalc config init --path ~/.config/kcalc/config.yaml

  # Overwrite existing config
  kcalc config init --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := writeSampleConfig(path, minimal, force)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Configuration file created at: %s\n", glyph.Get("success"), written)
			kind := "full configuration with all options and documentation"
			if minimal {
				kind = "minimal configuration with essential settings"
			}
			fmt.Fprintf(out, "%s Created %s\n", glyph.Get("config"), kind)
			return nil
		},
	}

	initCmd.Flags().StringVarP(&path, "path", "p", "", "where to write the config file (default: .kcalc.yaml)")
	initCmd.Flags().BoolVar(&minimal, "minimal", false, "create minimal configuration")
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing config file")

	return initCmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	var format string

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the effective configuration after merging defaults, config
files and KCALC_* environment variables.`,
		Example: `  # Show config in YAML format
  kcalc config show

  # Show config in JSON format
  kcalc config show --format json

  # Show config from specific file
  kcalc --config /path/to/config.yaml config show`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			data, err := encodeConfig(cfg, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	showCmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")

	return showCmd
}

// newConfigValidateCommand creates the config validate subcommand
func newConfigValidateCommand() *cobra.Command {
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validate the kcalc configuration for syntax and semantic errors.

Checks the YAML syntax, the enum values (mode, theme, format, color mode)
and the numeric ranges.`,
		Example: `  # Validate current config
  kcalc config validate

  # Validate specific config file
  kcalc --config /path/to/config.yaml config validate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			cfg, err := config.NewLoader().LoadConfig(cfgFile)
			if err != nil {
				fmt.Fprintf(out, "%s Configuration validation failed:\n", glyph.Get("error"))
				fmt.Fprintf(out, "   %v\n", err)
				return err
			}

			fmt.Fprintf(out, "%s Configuration is valid\n", glyph.Get("success"))
			fmt.Fprintf(out, "%s Configuration summary:\n", glyph.Get("statistics"))
			fmt.Fprintf(out, "   Version: %s\n", cfg.Version)
			fmt.Fprintf(out, "   Mode: %s\n", cfg.Calculator.Mode)
			fmt.Fprintf(out, "   Theme: %s\n", cfg.Display.Theme)
			fmt.Fprintf(out, "   Output Format: %s\n", cfg.Output.DefaultFormat)
			if cfg.History.Enabled {
				fmt.Fprintf(out, "   History: %s (max %d entries)\n", cfg.History.Path, cfg.History.MaxEntries)
			} else {
				fmt.Fprintf(out, "   History: disabled\n")
			}
			return nil
		},
	}

	return validateCmd
}

// newConfigPathCommand creates the config path subcommand
func newConfigPathCommand() *cobra.Command {
	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Show configuration file search paths",
		Long: `Display the list of paths kcalc searches for configuration files.

Shows the search order and indicates which files exist.`,
		Example: `  # Show config search paths
  kcalc config path`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Configuration file search paths (in priority order):\n\n", glyph.Get("path"))

			priority := []string{"Highest", "Medium", "Lowest"}
			for i, path := range config.GetConfigPaths() {
				exists := " (not found)"
				if fileExists(path) {
					exists = " " + glyph.Get("success") + " (exists)"
				}

				fmt.Fprintf(out, "  %d. %s%s\n", i+1, path, exists)
				if i < len(priority) {
					fmt.Fprintf(out, "     Priority: %s\n", priority[i])
				}
				fmt.Fprintln(out)
			}

			if currentConfig, found := config.FindConfigFile(); found {
				fmt.Fprintf(out, "%s Current config file: %s\n", glyph.Get("target"), currentConfig)
			} else {
				fmt.Fprintln(out, "No config file found, using defaults")
			}

			fmt.Fprintln(out)
			fmt.Fprintf(out, "%s Environment variables with %s prefix will override file settings\n", glyph.Get("hint"), config.EnvPrefix)
		},
	}

	return pathCmd
}

// writeSampleConfig writes the sample config to path (default .kcalc.yaml)
// and returns the path it wrote
func writeSampleConfig(path string, minimal, force bool) (string, error) {
	if path == "" {
		path = ".kcalc.yaml"
	}
	path = config.ExpandPath(path)

	if !force && fileExists(path) {
		return "", fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	content := config.SampleConfig()
	if minimal {
		content = config.MinimalSampleConfig()
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// encodeConfig renders cfg as yaml or indented json
func encodeConfig(cfg *config.Config, format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config to JSON: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal config to YAML: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (use json or yaml)", format)
	}
}

func fileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
