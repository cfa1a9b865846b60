package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/patro/internal/bs"
	"github.com/javiermolinar/patro/internal/calendar"
)

func (a *App) convertCmd() *cobra.Command {
	var (
		bsFlag bool
		year   int
	)

	cmd := &cobra.Command{
		Use:   "convert <date>",
		Short: "Convert a date between A.D. and B.S.",
		Long: `Print a date in both calendars.

YYYY-MM-DD is always read as A.D. MM/DD is read in the active calendar
against --year.

Examples:
  patro convert 2026-01-15
  patro convert --bs --year 2082 10/01`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			mode := a.modeFor(bsFlag)
			display, err := a.displayFor(mode, year)
			if err != nil {
				return err
			}
			t, err := a.parseDate(args[0], mode, display)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "A.D.  %s  %s\n", calendar.DateKey(t), t.Format("Monday, Jan 2, 2006"))
			d, ok := bs.FromGregorian(t)
			if !ok {
				fmt.Fprintln(a.out, formatMuted("B.S.  outside the conversion table"))
				return nil
			}
			fmt.Fprintf(a.out, "B.S.  %s  %s %d, %d\n", d, bs.MonthName(d.Month), d.Day, d.Year)
			return nil
		},
	}

	cmd.Flags().BoolVar(&bsFlag, "bs", false, "Read MM/DD in Bikram Sambat")
	cmd.Flags().IntVar(&year, "year", 0, "Year MM/DD is read against")

	return cmd
}
