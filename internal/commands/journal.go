package commands

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/books/internal/journal"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/runlog"
	"github.com/cleared-dev/books/internal/sliceutil"
)

func newJournalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Record and list journal entries",
	}
	cmd.AddCommand(newJournalAddCommand(), newJournalListCommand())
	return cmd
}

func newJournalAddCommand() *cobra.Command {
	var (
		repoDir                           string
		date, debit, credit, summary      string
		amount, debitAmount, creditAmount string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a journal entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			params, err := buildAddParams(date, debit, credit, summary, amount, debitAmount, creditAmount)
			if err != nil {
				return err
			}
			r, err := openRepo(repoDir)
			if err != nil {
				return err
			}

			entryID, err := r.journal.Add(params)
			if err != nil {
				return fmt.Errorf("recording entry: %w", err)
			}
			slog.Info("journal entry recorded", "id", entryID)

			e := runlog.NewEntry(runlog.ActionJournalAdd, time.Now())
			e.Entries = 1
			e.Details = entryID
			r.record(e)

			hash, err := r.commit(cmd.Context(), "journal: add "+entryID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Recorded %s%s\n", entryID, commitSuffix(hash))
			return nil
		},
	}

	addRepoFlag(cmd, &repoDir)
	cmd.Flags().StringVar(&date, "date", "", "entry date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&debit, "debit", "", "debit account (required)")
	cmd.Flags().StringVar(&credit, "credit", "", "credit account (required)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount for both sides")
	cmd.Flags().StringVar(&debitAmount, "debit-amount", "", "debit side amount")
	cmd.Flags().StringVar(&creditAmount, "credit-amount", "", "credit side amount")
	cmd.Flags().StringVar(&summary, "summary", "", "description")
	_ = cmd.MarkFlagRequired("debit")
	_ = cmd.MarkFlagRequired("credit")
	cmd.MarkFlagsMutuallyExclusive("amount", "debit-amount")
	cmd.MarkFlagsMutuallyExclusive("amount", "credit-amount")

	return cmd
}

func buildAddParams(date, debit, credit, summary, amount, debitAmount, creditAmount string) (journal.AddParams, error) {
	p := journal.AddParams{DebitAccount: debit, CreditAccount: credit, Summary: summary}

	if date == "" {
		now := time.Now()
		p.Date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	} else {
		d, err := time.Parse(journal.DateFormat, date)
		if err != nil {
			return p, fmt.Errorf("parsing --date %q: %w", date, err)
		}
		p.Date = d
	}

	if amount != "" {
		debitAmount, creditAmount = amount, amount
	}
	if debitAmount == "" && creditAmount == "" {
		return p, fmt.Errorf("one of --amount, --debit-amount or --credit-amount is required")
	}
	var err error
	if p.DebitAmount, err = parseAmount("debit-amount", debitAmount); err != nil {
		return p, err
	}
	if p.CreditAmount, err = parseAmount("credit-amount", creditAmount); err != nil {
		return p, err
	}
	return p, nil
}

func parseAmount(flag, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing --%s %q: %w", flag, s, err)
	}
	return d, nil
}

func newJournalListCommand() *cobra.Command {
	var (
		repoDir, month string
		newestFirst    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journal entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := openRepo(repoDir)
			if err != nil {
				return err
			}

			var entries []model.JournalEntry
			if month != "" {
				m, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("parsing --month %q: %w", month, err)
				}
				entries, err = r.journal.ReadMonth(m.Year(), int(m.Month()))
				if err != nil {
					return err
				}
			} else {
				entries, err = r.journal.ReadAll()
				if err != nil {
					return err
				}
			}
			if newestFirst {
				sliceutil.SortStable(entries, entryByDateDesc)
			}
			return printEntries(cmd.OutOrStdout(), entries)
		},
	}

	addRepoFlag(cmd, &repoDir)
	cmd.Flags().StringVar(&month, "month", "", "only entries of YYYY-MM")
	cmd.Flags().BoolVar(&newestFirst, "newest-first", false, "list the most recent entries first")
	return cmd
}

var entryByDateDesc = sliceutil.Desc(func(a, b model.JournalEntry) int { return a.Date.Compare(b.Date) })

func printEntries(w io.Writer, entries []model.JournalEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tDEBIT\tCREDIT\tAMOUNT\tSUMMARY")
	for _, e := range entries {
		amount := e.DebitAmount.StringFixed(2)
		if !e.DebitAmount.Equal(e.CreditAmount) {
			amount += "/" + e.CreditAmount.StringFixed(2)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", e.ID, e.Date.Format(journal.DateFormat),
			e.DebitAccount, e.CreditAccount, amount, e.Summary)
	}
	fmt.Fprintf(tw, "\n%d entries\n", len(entries))
	return tw.Flush()
}

func commitSuffix(hash string) string {
	if hash == "" {
		return ""
	}
	return " (" + hash + ")"
}
