package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dukerupert/paydaypal/internal/database"
	"github.com/dukerupert/paydaypal/internal/money"
	"github.com/dukerupert/paydaypal/internal/report"
	"github.com/dukerupert/paydaypal/internal/store"
)

func reportCmd() *cobra.Command {
	var householdID, periodID string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the payday summary of a closed period",
		Long:  "Print each member's earnings for a period. Without --period the most recently closed period is used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			b := report.NewBuilder(store.NewHouseholdStore(db), store.NewLedgerStore(db), store.NewPeriodStore(db))
			rep, err := b.Build(householdID, periodID)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), rep)
		},
	}
	cmd.Flags().StringVar(&householdID, "household", "", "Household ID (required)")
	cmd.Flags().StringVar(&periodID, "period", "", "Period ID (defaults to the latest closed period)")
	_ = cmd.MarkFlagRequired("household")
	return cmd
}

func printReport(w io.Writer, rep *report.Report) error {
	h := rep.Household
	end := "open"
	if rep.Period.EndDate != nil {
		end = *rep.Period.EndDate
	}
	fmt.Fprintf(w, "%s: %s to %s\n\n", h.Name, rep.Period.StartDate, end)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MEMBER\tCHORES\tEARNED")
	for _, t := range rep.Payday {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", t.MemberName, t.Chores, money.Localized(t.Total, h.Language, h.Currency))
	}
	fmt.Fprintf(tw, "TOTAL\t\t%s\n", money.Localized(rep.Total, h.Language, h.Currency))
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(rep.Groups) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tMEMBER\tCHORE\tCOUNT\tAMOUNT")
	for _, g := range rep.Groups {
		for _, e := range g.Entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", g.DateKey, e.MemberName, e.ChoreLabel, e.Count,
				money.Localized(e.Amount, h.Language, h.Currency))
		}
	}
	return tw.Flush()
}
