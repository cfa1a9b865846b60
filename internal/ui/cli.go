package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/patro/internal/calendar"
	"github.com/javiermolinar/patro/internal/config"
	"github.com/javiermolinar/patro/internal/db"
	"github.com/javiermolinar/patro/internal/logger"
	"github.com/javiermolinar/patro/internal/rest"
	"github.com/javiermolinar/patro/internal/saved"
	"github.com/javiermolinar/patro/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo   saved.Repository
	config *config.Config
	root   *cobra.Command
	in     io.Reader
	out    io.Writer
	now    func() time.Time

	configPath string
	debug      bool // Enable debug logging
	noColor    bool
}

// NewApp creates a new CLI application with the given repository and config.
// A nil repository is opened from the config on first use.
func NewApp(repo saved.Repository, cfg *config.Config) *App {
	a := &App{
		repo:       repo,
		config:     cfg,
		in:         os.Stdin,
		out:        os.Stdout,
		now:        calendar.Today,
		configPath: config.DefaultConfigPath(),
	}

	a.root = &cobra.Command{
		Use:   "patro",
		Short: "A date-range and working-day calendar",
		Long: `Patro counts working days across date ranges in the Gregorian (A.D.)
and Bikram Sambat (B.S.) calendars.

Pick a range, choose which days count, save it, then review it day by day
with manual overrides and per-day todo lists.

Run without a command to open the interactive calendar.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if a.noColor {
				DisableColor()
			}
			return a.initLogger()
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			return tui.Run(a.repo, a.config)
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (also logs to stderr)")
	a.root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable color output")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.monthCmd())
	a.root.AddCommand(a.countCmd())
	a.root.AddCommand(a.convertCmd())
	a.root.AddCommand(a.rangeCmd())
	a.root.AddCommand(a.todoCmd())
	a.root.AddCommand(a.importCmd())

	return a
}

// SetOutput redirects command output.
func (a *App) SetOutput(w io.Writer) {
	a.out = w
	a.root.SetOut(w)
	a.root.SetErr(w)
}

// SetInput redirects prompt input.
func (a *App) SetInput(r io.Reader) {
	a.in = r
	a.root.SetIn(r)
}

// SetConfigPath changes where config commands read and write.
func (a *App) SetConfigPath(path string) {
	a.configPath = path
}

// SetArgs overrides os.Args for the next Execute.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

func (a *App) initLogger() error {
	return logger.Init(logger.Config{
		File:  a.config.Log.File,
		Level: a.config.Log.Level,
		Debug: a.debug,
	})
}

// ensureRepo opens the configured storage backend if none was injected.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	repo, err := OpenRepository(a.config)
	if err != nil {
		return err
	}
	a.repo = repo
	return nil
}

// repoPreRun chains the root pre-run and opens storage. Command groups
// that need storage use it as their PersistentPreRunE.
func (a *App) repoPreRun(cmd *cobra.Command, args []string) error {
	if root := cmd.Root(); root.PersistentPreRunE != nil {
		if err := root.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
	}
	return a.ensureRepo()
}

// OpenRepository opens the storage backend selected in cfg.
func OpenRepository(cfg *config.Config) (saved.Repository, error) {
	switch cfg.Storage.Backend {
	case config.BackendREST:
		logger.Debug("using rest storage", "url", cfg.Storage.RESTURL)
		return rest.New(cfg.Storage.RESTURL, cfg.Storage.RESTKey, cfg.Timeout()), nil
	case config.BackendMemory:
		return saved.NewMemory(), nil
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.DBPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		repo, err := db.New(cfg.Storage.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		logger.Debug("using sqlite storage", "path", cfg.Storage.DBPath)
		return repo, nil
	}
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(a.out, "patro %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the repository.
func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}
