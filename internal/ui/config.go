package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/patro/internal/config"
	"github.com/javiermolinar/patro/internal/tui/theme"
	"github.com/javiermolinar/patro/internal/workday"
)

func (a *App) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  patro config
  patro config set calendar.policy custom:5`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runConfigInteractive()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fmt.Fprintf(a.out, "Config file: %s\n\n", a.configPath)
			a.printConfig(a.config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one configuration key",
		Long: "Set one configuration key and save the file.\n\nKeys:\n  " +
			strings.Join(config.Keys(), "\n  "),
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.LoadFrom(a.configPath)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if err := cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}
			if err := cfg.SaveTo(a.configPath); err != nil {
				return fmt.Errorf("saving config: %w", err)
			}
			value, _ := cfg.Get(args[0])
			fmt.Fprintf(a.out, "%s = %s\n", strings.ToLower(args[0]), value)
			return nil
		},
	})

	return cmd
}

func (a *App) runConfigInteractive() error {
	configPath := a.configPath
	fmt.Fprintf(a.out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults. A broken file is replaced.
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		fmt.Fprintf(a.out, "Could not load config (%v); starting from defaults.\n\n", err)
		cfg = config.Default()
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	isNew := os.IsNotExist(fileErr)

	if isNew {
		fmt.Fprintln(a.out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(a.out, "Created %s\n\n", configPath)
	}

	// Display current config
	a.printConfig(cfg)

	reader := bufio.NewReader(a.in)

	// Ask if user wants to edit
	if !promptYesNo(a.out, reader, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Calendar.Mode = promptChoice(a.out, reader, "Calendar (ad, bs)", cfg.Calendar.Mode, []string{config.ModeAD, config.ModeBS})
	cfg.Calendar.Policy = promptPolicy(a.out, reader, cfg.Calendar.Policy)
	cfg.Storage.Backend = promptChoice(a.out, reader, "Storage backend (sqlite, rest, memory)", cfg.Storage.Backend,
		[]string{config.BackendSQLite, config.BackendREST, config.BackendMemory})
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		cfg.Storage.DBPath = promptValue(a.out, reader, "Database path", cfg.Storage.DBPath)
	case config.BackendREST:
		cfg.Storage.RESTURL = promptValue(a.out, reader, "REST URL", cfg.Storage.RESTURL)
		cfg.Storage.RESTKey = promptValue(a.out, reader, "REST API key", cfg.Storage.RESTKey)
		cfg.Storage.Timeout = promptValue(a.out, reader, "Request timeout", cfg.Storage.Timeout)
	}
	cfg.UI.Theme = promptTheme(a.out, reader, cfg.UI.Theme)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(a.out, "\nConfiguration saved!")
	return nil
}

func (a *App) printConfig(cfg *config.Config) {
	w := a.out
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[calendar]")
	fmt.Fprintf(w, "  mode     = %s\n", cfg.Calendar.Mode)
	fmt.Fprintf(w, "  policy   = %s (%s)\n", cfg.Calendar.Policy, cfg.Policy().Label())
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  backend  = %s\n", cfg.Storage.Backend)
	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		fmt.Fprintf(w, "  db_path  = %s\n", cfg.Storage.DBPath)
	case config.BackendREST:
		fmt.Fprintf(w, "  rest_url = %s\n", cfg.Storage.RESTURL)
		fmt.Fprintf(w, "  rest_key = %s\n", maskSecret(cfg.Storage.RESTKey))
		fmt.Fprintf(w, "  timeout  = %s\n", cfg.Storage.Timeout)
	}
	fmt.Fprintln(w, "\n[log]")
	fmt.Fprintf(w, "  file     = %s\n", cfg.Log.File)
	fmt.Fprintf(w, "  level    = %s\n", cfg.Log.Level)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme    = %s\n", cfg.UI.Theme)
}

// maskSecret keeps the first four characters of a key.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", 8)
}

func promptYesNo(w io.Writer, reader *bufio.Reader, question string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(w io.Writer, reader *bufio.Reader, label, current string) string {
	if current == "" {
		fmt.Fprintf(w, "  %s: ", label)
	} else {
		fmt.Fprintf(w, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

// promptChoice re-asks until the answer is one of options. EOF keeps current.
func promptChoice(w io.Writer, reader *bufio.Reader, label, current string, options []string) string {
	for {
		value := strings.ToLower(promptValue(w, reader, label, current))
		for _, o := range options {
			if value == o {
				return value
			}
		}
		fmt.Fprintf(w, "  Invalid value %q. Options: %s\n", value, strings.Join(options, ", "))
		if _, err := reader.Peek(1); err != nil {
			return current
		}
	}
}

func promptPolicy(w io.Writer, reader *bufio.Reader, current string) string {
	for {
		value := promptValue(w, reader, "Working days (all, weekdays, custom:1..7)", current)
		if p, err := workday.ParsePolicy(value); err == nil {
			return p.String()
		}
		fmt.Fprintf(w, "  Invalid policy %q\n", value)
		if _, err := reader.Peek(1); err != nil {
			return current
		}
	}
}

func promptTheme(w io.Writer, reader *bufio.Reader, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(w, reader, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(w, "  Invalid theme %q. Available: %s\n", value, options)
		if _, err := reader.Peek(1); err != nil {
			return current
		}
	}
}
