package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/patro/internal/calendar"
	"github.com/javiermolinar/patro/internal/config"
	"github.com/javiermolinar/patro/internal/db"
	"github.com/javiermolinar/patro/internal/logger"
	"github.com/javiermolinar/patro/internal/saved"
)

func (a *App) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [database_path]",
		Short: "Import saved ranges from another database",
		Long: `Import all saved ranges, with their overrides and todo lists, from
another Patro SQLite database into the configured storage backend.

Imported ranges get fresh ids, so importing twice creates duplicates.

Example:
  patro import /path/to/other.db`,
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: a.repoPreRun,
		RunE: func(_ *cobra.Command, args []string) error {
			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			if a.config.Storage.Backend == config.BackendSQLite {
				destPath, err := resolvePath(a.config.Storage.DBPath)
				if err != nil {
					return err
				}
				if sourcePath == destPath {
					return fmt.Errorf("source database matches current database")
				}
			}

			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("source database does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking source database: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("source database path is a directory: %s", sourcePath)
			}

			res, err := importRanges(context.Background(), a.repo, sourcePath)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "Imported %d ranges and %d todo lists from %s\n", res.Ranges, res.TodoLists, sourcePath)
			return nil
		},
	}

	return cmd
}

// importResult counts what was copied.
type importResult struct {
	Ranges    int
	TodoLists int
}

func importRanges(ctx context.Context, dest saved.Repository, sourcePath string) (importResult, error) {
	var res importResult

	sourceRepo, err := db.New(sourcePath)
	if err != nil {
		return res, fmt.Errorf("opening source database: %w", err)
	}
	defer func() { _ = sourceRepo.Close() }()

	ranges, err := sourceRepo.ListSavedRanges(ctx)
	if err != nil {
		return res, fmt.Errorf("listing source ranges: %w", err)
	}

	for _, src := range ranges {
		copied := *src
		copied.ID = uuid.NewString()
		copied.Deducted = append([]string{}, src.Deducted...)
		copied.Added = append([]string{}, src.Added...)
		if copied.CreatedAt.IsZero() {
			copied.CreatedAt = time.Now()
		}

		if err := dest.CreateSavedRange(ctx, &copied); err != nil {
			return res, fmt.Errorf("importing range %q: %w", src.Title, err)
		}
		res.Ranges++

		var todoErr error
		src.Range().Each(func(day time.Time) {
			if todoErr != nil {
				return
			}
			key := calendar.DateKey(day)
			tasks, err := sourceRepo.LoadTodoTasks(ctx, src.ID, key)
			if err != nil {
				todoErr = fmt.Errorf("reading todo list %s: %w", key, err)
				return
			}
			if len(tasks) == 0 {
				return
			}
			if err := dest.SaveTodoTasks(ctx, copied.ID, key, tasks); err != nil {
				todoErr = fmt.Errorf("importing todo list %s: %w", key, err)
				return
			}
			res.TodoLists++
		})
		if todoErr != nil {
			return res, fmt.Errorf("importing range %q: %w", src.Title, todoErr)
		}
		logger.Debug("imported range", "title", src.Title, "id", copied.ID)
	}

	return res, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
