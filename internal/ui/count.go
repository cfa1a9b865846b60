package ui

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/patro/internal/selection"
)

func (a *App) countCmd() *cobra.Command {
	var (
		startFlag  string
		endFlag    string
		days       int
		policyFlag string
		bsFlag     bool
		year       int
	)

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count working days in a range",
		Long: `Count working days between two dates, or find the end date that
holds a number of working days.

Dates are YYYY-MM-DD, MM/DD, or a relative name (today, tomorrow,
friday, next-week). MM/DD is read in the active calendar against --year
(default: the current year in that calendar).

Examples:
  patro count --start 03/01 --end 03/31 --policy weekdays
  patro count --start 2026-03-02 --days 10 --policy custom:5
  patro count --bs --year 2082 --start 10/01 --end 10/29`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
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
				if err := sel.SetDays(days); err != nil {
					return err
				}
			} else {
				end, err := a.parseDate(endFlag, mode, display)
				if err != nil {
					return err
				}
				if err := sel.Pick(end); err != nil {
					return err
				}
			}

			rng, _ := sel.Range()
			st, _ := sel.Stats()
			fmt.Fprintf(a.out, "%s - %s\n",
				selection.FormatDate(rng.Start, mode), selection.FormatDate(rng.End, mode))
			printStats(a.out, st, policy)
			return nil
		},
	}

	cmd.Flags().StringVarP(&startFlag, "start", "s", "", "Start date (YYYY-MM-DD or MM/DD)")
	cmd.Flags().StringVarP(&endFlag, "end", "e", "", "End date (YYYY-MM-DD or MM/DD)")
	cmd.Flags().IntVarP(&days, "days", "n", 0, "Number of working days (1-999)")
	cmd.Flags().StringVarP(&policyFlag, "policy", "p", "", "Working-day policy (all, weekdays, custom:N)")
	cmd.Flags().BoolVar(&bsFlag, "bs", false, "Read MM/DD in Bikram Sambat")
	cmd.Flags().IntVar(&year, "year", 0, "Year MM/DD is read against")

	return cmd
}
