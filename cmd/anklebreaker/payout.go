package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"anklebreaker/internal/application/orchestrators"
	"anklebreaker/internal/domain/finance"
)

func newPayoutCmd() *cobra.Command {
	var byTier bool
	cmd := &cobra.Command{
		Use:   "payout <session-folder>",
		Short: "Compute the payout breakdown for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			opened, err := openSession(cmd, a, args[0])
			if err != nil {
				return err
			}
			s := opened.Session

			grouping := finance.GroupingFlat
			if byTier {
				grouping = finance.GroupingByTier
			}
			result, err := orchestrators.ExecuteComputeFinancials(cmd.Context(),
				orchestrators.ComputeFinancialsInput{Session: s, Grouping: grouping},
				orchestrators.ComputeFinancialsDeps{SessionStore: a.store})
			if err != nil {
				return err
			}

			fmt.Printf("%s — %s, %s\n", s.FolderName, s.Club, s.EventDate)
			if result.Breakdown.ScheduleIncomplete {
				fmt.Fprintln(os.Stderr, "Warning: fee schedule is incomplete; unpriced files count as zero")
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
			printPayoutHeader(w)
			if byTier {
				for _, group := range result.Groups {
					for _, line := range group.Lines {
						printPayoutLine(w, line)
					}
					if group.ShowSubtotal {
						printPayoutTotals(w, "Total", group.Subtotal)
					}
				}
			} else {
				for _, line := range result.Breakdown.PerFile {
					printPayoutLine(w, line)
				}
			}
			printPayoutTotals(w, "GRAND TOTAL", result.Breakdown.Totals)
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&byTier, "by-tier", false, "group files sharing a price")
	return cmd
}

// All money is rounded to two decimals here and only here; the engine keeps
// exact values.
func printPayoutHeader(w io.Writer) {
	fmt.Fprintln(w, "FILE\tPRICE\tREG\tMAN\tGROSS\tPLATFORM\tPROCESSOR\tNET\t")
}

func printPayoutLine(w io.Writer, line finance.FileBreakdown) {
	price := line.Price.StringFixed(2)
	if !line.Priced {
		price = "-"
	}
	fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\t\n",
		line.FileName, price, line.RegularCount, line.ManualCount,
		line.Gross.StringFixed(2), line.PlatformFee.StringFixed(2),
		line.ProcessorFee.StringFixed(2), line.Net.StringFixed(2))
}

func printPayoutTotals(w io.Writer, label string, totals finance.Totals) {
	fmt.Fprintf(w, "%s\t\t\t\t%s\t%s\t%s\t%s\t\n",
		label, totals.Gross.StringFixed(2), totals.PlatformFee.StringFixed(2),
		totals.ProcessorFee.StringFixed(2), totals.Net.StringFixed(2))
}
