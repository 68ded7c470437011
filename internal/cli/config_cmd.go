package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/sysmon/internal/config"
	"github.com/rileyhilliard/sysmon/internal/errors"
	"github.com/rileyhilliard/sysmon/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// InitOptions holds options for the config init command.
type InitOptions struct {
	Global         bool // Write ~/.config/sysmon/config.yaml instead of ./.sysmon.yaml
	Overwrite      bool // Overwrite existing config without asking
	NonInteractive bool // Never prompt
}

var initOpts InitOptions

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change settings",
	Long: `Inspect and edit sysmon settings.

Settings live in ./.sysmon.yaml or ~/.config/sysmon/config.yaml. A running
monitor picks up edits to its config file automatically.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShow(cmd.OutOrStdout())
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print which config file is in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configPathCommand(cmd.OutOrStdout())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default settings",
	Long: `Create ./.sysmon.yaml (or the global config with --global) holding the
default settings.

Examples:
  sysmon config init
  sysmon config init --global
  sysmon config init --force`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := initOpts
		opts.NonInteractive = opts.NonInteractive || !stdinIsTerminal()
		return configInit(opts, cmd.OutOrStdout())
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit settings in an interactive form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !stdinIsTerminal() {
			return errors.New(errors.ErrConfig,
				"config edit needs an interactive terminal",
				"Use 'sysmon config set <key> <value>' in scripts")
		}
		return configEdit(cmd.OutOrStdout())
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting in the config file",
	Long: `Change one setting, keeping the rest of the file and its comments as
written. The result must still be valid or nothing is written.

Examples:
  sysmon config set refresh_interval_seconds 2
  sysmon config set notifications_enabled false
  sysmon config set serve.addr 127.0.0.1:9000`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return config.Keys(), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return configSet(args[0], args[1], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configPathCmd, configInitCmd, configEditCmd, configSetCmd)

	configInitCmd.Flags().BoolVar(&initOpts.Global, "global", false, "write the global config instead of ./.sysmon.yaml")
	configInitCmd.Flags().BoolVar(&initOpts.Overwrite, "force", false, "overwrite an existing config file")
	configInitCmd.Flags().BoolVar(&initOpts.NonInteractive, "non-interactive", false, "never prompt")
}

// Swapped out in tests.
var (
	stdinIsTerminal = func() bool {
		return term.IsTerminal(int(os.Stdin.Fd()))
	}
	runForm = func(f *huh.Form) error {
		return f.Run()
	}
)

// configShow prints the effective settings as YAML, including environment
// overrides, with the source on the first line.
func configShow(out io.Writer) error {
	s, path, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}

	source := path
	if source == "" {
		source = "defaults (no config file)"
	}
	fmt.Fprintf(out, "# %s\n", source)

	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(s); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return encoder.Close()
}

func configPathCommand(out io.Writer) error {
	path, err := config.Find(configPath)
	if err != nil {
		return err
	}
	if path == "" {
		fmt.Fprintln(out, "No config file found; using defaults.")
		fmt.Fprintln(out, "Create one with: sysmon config init")
		return nil
	}
	fmt.Fprintln(out, path)
	return nil
}

// initTarget is where config init writes.
func initTarget(global bool) (string, error) {
	if !global {
		return filepath.Join(".", config.ConfigFileName), nil
	}
	path := config.DefaultPath()
	if path == "" {
		return "", errors.New(errors.ErrConfig,
			"Cannot find your home directory",
			"Run 'sysmon config init' without --global to write ./.sysmon.yaml")
	}
	return path, nil
}

// configInit writes default settings to the target file.
func configInit(opts InitOptions, out io.Writer) error {
	path, err := initTarget(opts.Global)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", path),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", path)).
					Value(&overwrite),
			),
		)
		if err := runForm(form); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	if err := config.Save(path, config.DefaultSettings()); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s Wrote %s\n", ui.SymbolSuccess, path)
	return nil
}

// configSet changes one key in the config file in use.
func configSet(key, value string, out io.Writer) error {
	path, err := config.Find(configPath)
	if err != nil {
		return err
	}
	if path == "" {
		return errors.New(errors.ErrConfig,
			"No config file to change",
			"Run 'sysmon config init' first")
	}

	if err := config.SetValue(path, key, value); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s = %s (%s)\n", ui.SymbolSuccess, key, value, path)
	return nil
}

// configEdit runs the settings form and saves the result. Without a config
// file it creates ./.sysmon.yaml.
func configEdit(out io.Writer) error {
	path, err := config.Find(configPath)
	if err != nil {
		return err
	}

	current := config.DefaultSettings()
	if path == "" {
		path = filepath.Join(".", config.ConfigFileName)
	} else if current, err = config.Load(path); err != nil {
		return err
	}

	values := newSettingsForm(current)
	if err := runForm(values.form()); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Use 'sysmon config set <key> <value>' instead")
	}

	updated, err := values.apply(current)
	if err != nil {
		return err
	}
	if err := config.Save(path, updated); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s Saved %s\n", ui.SymbolSuccess, path)
	return nil
}
