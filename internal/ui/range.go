package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/patro/internal/calendar"
	"github.com/javiermolinar/patro/internal/grid"
	"github.com/javiermolinar/patro/internal/logger"
	"github.com/javiermolinar/patro/internal/saved"
	"github.com/javiermolinar/patro/internal/selection"
	"github.com/javiermolinar/patro/internal/workday"
)

func (a *App) rangeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "range",
		Aliases: []string{"ranges"},
		Short:   "Manage saved ranges",
		Long: `Create, list, review and edit saved ranges.

Ranges are referenced by id or by any unique id prefix, as printed by
"patro range list".`,
		PersistentPreRunE: a.repoPreRun,
	}

	cmd.AddCommand(a.rangeNewCmd())
	cmd.AddCommand(a.rangeListCmd())
	cmd.AddCommand(a.rangeShowCmd())
	cmd.AddCommand(a.rangeExtendCmd())
	cmd.AddCommand(a.rangeToggleCmd())
	cmd.AddCommand(a.rangeUpdateCmd())
	cmd.AddCommand(a.rangeDeleteCmd())

	return cmd
}

func (a *App) rangeNewCmd() *cobra.Command {
	var (
		startFlag  string
		endFlag    string
		days       int
		policyFlag string
		bsFlag     bool
		year       int
	)

	cmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Save a new range",
		Long: `Save a range with the given title. The active policy is stored with it.

Examples:
  patro range new "Sprint 12" --start 03/02 --end 03/13 --policy weekdays
  patro range new "Leave" --start 2026-04-06 --days 5 --policy custom:5`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if startFlag == "" {
				return errors.New("--start is required")
			}
			if (endFlag == "") == (days == 0) {
				return errors.New("exactly one of --end or --days is required")
			}

			mode := a.modeFor(bsFlag)
			policy, err := a.policyFor(policyFlag)
			if err != nil {
				return err
			}
			display, err := a.displayFor(mode, year)
			if err != nil {
				return err
			}

			sel := selection.New(policy, display)
			sel.SetMode(mode)
			start, err := a.parseDate(startFlag, mode, display)
			if err != nil {
				return err
			}
			if err := sel.Pick(start); err != nil {
				return err
			}
			if days != 0 {
				err = sel.SetDays(days)
			} else {
				var end time.Time
				if end, err = a.parseDate(endFlag, mode, display); err == nil {
					err = sel.Pick(end)
				}
			}
			if err != nil {
				return err
			}

			if err := sel.Lock(); err != nil {
				return err
			}
			r, err := sel.Save(args[0])
			if err != nil {
				return err
			}
			if err := a.repo.CreateSavedRange(context.Background(), r); err != nil {
				return fmt.Errorf("saving range: %w", err)
			}

			fmt.Fprintf(a.out, "Saved %s %q\n", formatMuted(shortID(r.ID)), r.Title)
			fmt.Fprintf(a.out, "%s - %s\n", selection.FormatDate(r.Start, mode), selection.FormatDate(r.End, mode))
			printStats(a.out, workday.Summarize(r.Range(), r.Policy(), nil), r.Policy())
			if policy != r.Policy() {
				fmt.Fprintln(a.out, formatMuted("Note: weekend exclusion is not stored with saved ranges."))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&startFlag, "start", "s", "", "Start date (YYYY-MM-DD, MM/DD or today)")
	cmd.Flags().StringVarP(&endFlag, "end", "e", "", "End date (YYYY-MM-DD, MM/DD or today)")
	cmd.Flags().IntVarP(&days, "days", "n", 0, "Number of working days (1-999)")
	cmd.Flags().StringVarP(&policyFlag, "policy", "p", "", "Working-day policy (all, weekdays, custom:N)")
	cmd.Flags().BoolVar(&bsFlag, "bs", false, "Read MM/DD in Bikram Sambat")
	cmd.Flags().IntVar(&year, "year", 0, "Year MM/DD is read against")

	return cmd
}

func (a *App) rangeListCmd() *cobra.Command {
	var bsFlag bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved ranges",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ranges, err := a.repo.ListSavedRanges(context.Background())
			if err != nil {
				return fmt.Errorf("listing saved ranges: %w", err)
			}
			if len(ranges) == 0 {
				fmt.Fprintln(a.out, formatMuted("No saved ranges."))
				return nil
			}
			width := listTitleWidth(ranges)
			mode := a.modeFor(bsFlag)
			for _, r := range ranges {
				printRangeRow(a.out, r, mode, width)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&bsFlag, "bs", false, "Show dates in Bikram Sambat")
	return cmd
}

func (a *App) rangeShowCmd() *cobra.Command {
	var (
		bsFlag   bool
		copyFlag bool
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved range month by month",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			r, err := a.resolveRange(context.Background(), args[0])
			if err != nil {
				return err
			}
			mode := a.modeFor(bsFlag)
			sel := a.loadSelection(r, mode)
			rng, _ := sel.Range()

			fmt.Fprintf(a.out, "%s  %s\n", formatHeader(r.Title), formatMuted(r.ID))
			fmt.Fprintf(a.out, "%s - %s\n\n", selection.FormatDate(rng.Start, mode), selection.FormatDate(rng.End, mode))

			ctx := grid.Context{
				Range:     rng,
				HasRange:  true,
				Policy:    sel.Policy(),
				Overrides: sel.Overrides(),
				Today:     a.now(),
				BS:        mode == selection.ModeBS,
			}
			for m := calendar.Date(rng.Start.Year(), rng.Start.Month(), 1); !m.After(rng.End); m = m.AddDate(0, 1, 0) {
				printMonth(a.out, m.Year(), m.Month(), ctx)
				fmt.Fprintln(a.out)
			}
			printLegend(a.out)
			st, _ := sel.Stats()
			printStats(a.out, st, sel.Policy())
			printOverrides(a.out, sel.Overrides(), mode)

			if copyFlag {
				if err := clipboard.WriteAll(sel.Summary()); err != nil {
					logger.Warn("clipboard unavailable", "err", err)
					return fmt.Errorf("copying summary: %w", err)
				}
				fmt.Fprintln(a.out, formatMuted("Summary copied to clipboard."))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&bsFlag, "bs", false, "Show dates in Bikram Sambat")
	cmd.Flags().BoolVarP(&copyFlag, "copy", "c", false, "Copy a plain-text summary to the clipboard")
	return cmd
}

func (a *App) rangeExtendCmd() *cobra.Command {
	var bsFlag bool

	cmd := &cobra.Command{
		Use:   "extend <id>",
		Short: "Extend a saved range to its next working day",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()
			r, err := a.resolveRange(ctx, args[0])
			if err != nil {
				return err
			}
			mode := a.modeFor(bsFlag)
			sel := a.loadSelection(r, mode)
			patch, err := sel.Extend()
			if err != nil {
				return err
			}
			if err := a.repo.UpdateSavedRange(ctx, r.ID, patch); err != nil {
				return fmt.Errorf("extending range: %w", err)
			}
			fmt.Fprintf(a.out, "Extended %q to %s (%s)\n",
				r.Title, selection.FormatDate(*patch.End, mode),
				formatStats(fmt.Sprintf("%d working days", sel.WorkingDays())))
			return nil
		},
	}

	cmd.Flags().BoolVar(&bsFlag, "bs", false, "Show dates in Bikram Sambat")
	return cmd
}

func (a *App) rangeToggleCmd() *cobra.Command {
	var bsFlag bool

	cmd := &cobra.Command{
		Use:   "toggle <id> <date>...",
		Short: "Toggle day overrides in a saved range",
		Long: `Flip the override of one or more days inside a saved range.

A working day becomes deducted, a non-working weekday becomes added, and
toggling again restores the policy's classification. Saturdays never
change. Dates are YYYY-MM-DD or MM/DD; MM/DD is read in the year of the
range's start, or of its end when the range crosses a year boundary.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()
			r, err := a.resolveRange(ctx, args[0])
			if err != nil {
				return err
			}
			mode := a.modeFor(bsFlag)
			sel := a.loadSelection(r, mode)

			changed := 0
			for _, arg := range args[1:] {
				day, err := dayInRange(arg, r, mode)
				if err != nil {
					return err
				}
				if !sel.ToggleDay(day) {
					fmt.Fprintf(a.out, "%s unchanged\n", selection.FormatDate(day, mode))
					continue
				}
				changed++
				key := calendar.DateKey(day)
				switch {
				case sel.Overrides().IsDeducted(key):
					fmt.Fprintf(a.out, "%s deducted\n", selection.FormatDate(day, mode))
				case sel.Overrides().IsAdded(key):
					fmt.Fprintf(a.out, "%s added\n", selection.FormatDate(day, mode))
				default:
					fmt.Fprintf(a.out, "%s restored\n", selection.FormatDate(day, mode))
				}
			}
			if changed == 0 {
				return nil
			}

			patch, err := sel.OverridesPatch()
			if err != nil {
				return err
			}
			if err := a.repo.UpdateSavedRange(ctx, r.ID, patch); err != nil {
				return fmt.Errorf("saving overrides: %w", err)
			}
			fmt.Fprintln(a.out, formatStats(fmt.Sprintf("%d working days", sel.WorkingDays())))
			return nil
		},
	}

	cmd.Flags().BoolVar(&bsFlag, "bs", false, "Read MM/DD in Bikram Sambat")
	return cmd
}

func (a *App) rangeUpdateCmd() *cobra.Command {
	var (
		startFlag string
		endFlag   string
		bsFlag    bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Move the endpoints of a saved range",
		Long: `Change the start and/or end of a saved range. Overrides that fall
outside the new range are dropped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if startFlag == "" && endFlag == "" {
				return errors.New("nothing to update: pass --start and/or --end")
			}
			ctx := context.Background()
			r, err := a.resolveRange(ctx, args[0])
			if err != nil {
				return err
			}
			mode := a.modeFor(bsFlag)

			start, end := r.Start, r.End
			if startFlag != "" {
				if start, err = a.parseDate(startFlag, mode, r.Start); err != nil {
					return err
				}
			}
			if endFlag != "" {
				if end, err = a.parseDate(endFlag, mode, r.End); err != nil {
					return err
				}
			}
			rng := workday.NewRange(start, end)

			o := r.Overrides()
			dropped := o.Prune(rng)
			ded, add := o.Deducted(), o.Added()
			patch := saved.Patch{Start: &rng.Start, End: &rng.End, Deducted: &ded, Added: &add}
			if err := a.repo.UpdateSavedRange(ctx, r.ID, patch); err != nil {
				return fmt.Errorf("updating range: %w", err)
			}

			fmt.Fprintf(a.out, "Updated %q: %s - %s (%s)\n", r.Title,
				selection.FormatDate(rng.Start, mode), selection.FormatDate(rng.End, mode),
				formatStats(fmt.Sprintf("%d working days", workday.EffectiveCount(rng, r.Policy(), o))))
			if dropped > 0 {
				fmt.Fprintln(a.out, formatMuted(fmt.Sprintf("Dropped %d overrides outside the range.", dropped)))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&startFlag, "start", "s", "", "New start date (YYYY-MM-DD or MM/DD)")
	cmd.Flags().StringVarP(&endFlag, "end", "e", "", "New end date (YYYY-MM-DD or MM/DD)")
	cmd.Flags().BoolVar(&bsFlag, "bs", false, "Read MM/DD in Bikram Sambat")
	return cmd
}

func (a *App) rangeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved range and its todo lists",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()
			r, err := a.resolveRange(ctx, args[0])
			if err != nil {
				return err
			}
			if err := a.repo.DeleteSavedRange(ctx, r.ID); err != nil {
				return fmt.Errorf("deleting range: %w", err)
			}
			fmt.Fprintf(a.out, "Deleted %s %q\n", formatMuted(shortID(r.ID)), r.Title)
			return nil
		},
	}
}

// printOverrides lists deducted and added days.
func printOverrides(w io.Writer, o *workday.Overrides, mode selection.Mode) {
	line := func(label string, keys []string) {
		if len(keys) == 0 {
			return
		}
		days := make([]string, 0, len(keys))
		for _, k := range keys {
			if t, ok := calendar.ParseDateKey(k); ok {
				days = append(days, selection.FormatDate(t, mode))
			}
		}
		fmt.Fprintf(w, "  %s: %s\n", label, strings.Join(days, "; "))
	}
	line("deducted", o.Deducted())
	line("added", o.Added())
}
