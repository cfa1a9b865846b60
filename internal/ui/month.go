package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/patro/internal/grid"
	"github.com/javiermolinar/patro/internal/selection"
	"github.com/javiermolinar/patro/internal/workday"
)

func (a *App) monthCmd() *cobra.Command {
	var (
		monthFlag  string
		rangeRef   string
		policyFlag string
		bsFlag     bool
	)

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Show a month grid",
		Long: `Show one month as a calendar grid.

With --range, the saved range is highlighted and its working days are
classified with the range's own policy and overrides. Without --month,
the month of the range start (or today) is shown.

Examples:
  patro month
  patro month --month 2026-03 --bs
  patro month --range 3f2a1c9e`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			mode := a.modeFor(bsFlag)
			policy, err := a.policyFor(policyFlag)
			if err != nil {
				return err
			}

			ctx := grid.Context{
				Policy: policy,
				Today:  a.now(),
				BS:     mode == selection.ModeBS,
			}
			shown := a.now()

			if rangeRef != "" {
				if err := a.ensureRepo(); err != nil {
					return err
				}
				r, err := a.resolveRange(context.Background(), rangeRef)
				if err != nil {
					return err
				}
				ctx.Range = r.Range()
				ctx.HasRange = true
				ctx.Policy = r.Policy()
				ctx.Overrides = r.Overrides()
				shown = r.Start
				fmt.Fprintln(a.out, formatHeader(r.Title))
			}

			if monthFlag != "" {
				t, err := time.ParseInLocation("2006-01", monthFlag, time.Local)
				if err != nil {
					return fmt.Errorf("%w: month %q (want YYYY-MM)", ErrBadDate, monthFlag)
				}
				shown = t
			}

			printMonth(a.out, shown.Year(), shown.Month(), ctx)
			printLegend(a.out)
			if ctx.HasRange {
				fmt.Fprintln(a.out)
				printStats(a.out, workday.Summarize(ctx.Range, ctx.Policy, ctx.Overrides), ctx.Policy)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&monthFlag, "month", "m", "", "Month to show (YYYY-MM)")
	cmd.Flags().StringVarP(&rangeRef, "range", "r", "", "Highlight a saved range (id or id prefix)")
	cmd.Flags().StringVarP(&policyFlag, "policy", "p", "", "Working-day policy (all, weekdays, custom:N)")
	cmd.Flags().BoolVar(&bsFlag, "bs", false, "Label days in Bikram Sambat")

	return cmd
}
