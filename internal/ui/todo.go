package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/patro/internal/calendar"
	"github.com/javiermolinar/patro/internal/saved"
	"github.com/javiermolinar/patro/internal/selection"
)

func (a *App) todoCmd() *cobra.Command {
	var bsFlag bool

	cmd := &cobra.Command{
		Use:   "todo",
		Short: "Manage per-day todo lists of a saved range",
		Long: `Each day inside a saved range has its own todo list.

Days are YYYY-MM-DD or MM/DD in the range's year; tasks are numbered
from 1 as shown by "patro todo list".

Examples:
  patro todo add 3f2a 03/04 "Write release notes"
  patro todo done 3f2a 03/04 1`,
		PersistentPreRunE: a.repoPreRun,
	}

	cmd.PersistentFlags().BoolVar(&bsFlag, "bs", false, "Read MM/DD in Bikram Sambat")

	cmd.AddCommand(&cobra.Command{
		Use:   "list <id> <date>",
		Short: "List the todo list of a day",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			day, err := a.openDay(args[0], args[1], bsFlag)
			if err != nil {
				return err
			}
			a.printTodos(day)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <id> <date> <text>...",
		Short: "Append a task to a day",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			day, err := a.openDay(args[0], args[1], bsFlag)
			if err != nil {
				return err
			}
			task, err := saved.NewTodoTask(strings.Join(args[2:], " "))
			if err != nil {
				return err
			}
			day.tasks = append(day.tasks, task)
			if err := a.saveDay(day); err != nil {
				return err
			}
			a.printTodos(day)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "done <id> <date> <n>",
		Short: "Toggle a task between open and done",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			day, err := a.openDay(args[0], args[1], bsFlag)
			if err != nil {
				return err
			}
			i, err := taskIndex(args[2], len(day.tasks))
			if err != nil {
				return err
			}
			day.tasks[i].Done = !day.tasks[i].Done
			if err := a.saveDay(day); err != nil {
				return err
			}
			a.printTodos(day)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "remove <id> <date> <n>",
		Aliases: []string{"rm"},
		Short:   "Remove a task from a day",
		Args:    cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			day, err := a.openDay(args[0], args[1], bsFlag)
			if err != nil {
				return err
			}
			i, err := taskIndex(args[2], len(day.tasks))
			if err != nil {
				return err
			}
			day.tasks = append(day.tasks[:i], day.tasks[i+1:]...)
			if err := a.saveDay(day); err != nil {
				return err
			}
			a.printTodos(day)
			return nil
		},
	})

	return cmd
}

// todoDay is one loaded todo list.
type todoDay struct {
	r     *saved.SavedRange
	key   string
	mode  selection.Mode
	tasks []saved.TodoTask
}

func (a *App) openDay(ref, dateArg string, bsFlag bool) (*todoDay, error) {
	ctx := context.Background()
	r, err := a.resolveRange(ctx, ref)
	if err != nil {
		return nil, err
	}
	mode := a.modeFor(bsFlag)
	date, err := dayInRange(dateArg, r, mode)
	if err != nil {
		return nil, err
	}
	key := calendar.DateKey(date)
	tasks, err := a.repo.LoadTodoTasks(ctx, r.ID, key)
	if err != nil {
		return nil, fmt.Errorf("loading todo list: %w", err)
	}
	return &todoDay{r: r, key: key, mode: mode, tasks: tasks}, nil
}

func (a *App) saveDay(day *todoDay) error {
	if err := a.repo.SaveTodoTasks(context.Background(), day.r.ID, day.key, day.tasks); err != nil {
		return fmt.Errorf("saving todo list: %w", err)
	}
	return nil
}

func (a *App) printTodos(day *todoDay) {
	date, _ := calendar.ParseDateKey(day.key)
	fmt.Fprintf(a.out, "%s  %s\n", formatHeader(day.r.Title), selection.FormatDate(date, day.mode))
	if len(day.tasks) == 0 {
		fmt.Fprintln(a.out, formatMuted("  No tasks."))
		return
	}
	done := 0
	for i, t := range day.tasks {
		mark := "[ ]"
		text := t.Text
		if t.Done {
			mark = "[x]"
			text = formatMuted(text)
			done++
		}
		fmt.Fprintf(a.out, "  %d. %s %s\n", i+1, mark, text)
	}
	fmt.Fprintln(a.out, formatStats(fmt.Sprintf("  %d/%d done", done, len(day.tasks))))
}

// taskIndex converts a 1-based task number to a slice index.
func taskIndex(arg string, n int) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || i < 1 || i > n {
		return 0, fmt.Errorf("%w: %s (have %d)", ErrBadTaskNumber, arg, n)
	}
	return i - 1, nil
}
