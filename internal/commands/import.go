package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/books/internal/importer"
	"github.com/cleared-dev/books/internal/runlog"
)

func newImportCommand() *cobra.Command {
	var repoDir, format, bankAccount string

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import bank CSV transactions into the journal",
		Long: "Import a bank CSV export. Without a file, every CSV in import/ is\n" +
			"imported and moved to import/processed/.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := openRepo(repoDir)
			if err != nil {
				return err
			}
			return runImport(cmd.Context(), cmd.OutOrStdout(), r, args, format, bankAccount)
		},
	}

	addRepoFlag(cmd, &repoDir)
	cmd.Flags().StringVar(&format, "format", "", "bank CSV format (default from the bank account's config)")
	cmd.Flags().StringVar(&bankAccount, "bank-account", "", "chart account the bank feed posts to (default first configured)")
	return cmd
}

func runImport(ctx context.Context, out io.Writer, r *repo, args []string, format, bankAccount string) error {
	mapping, format, err := importMapping(r, format, bankAccount)
	if err != nil {
		return err
	}

	type source struct {
		path      string
		processed string // file name to move once imported, "" for explicit paths
	}
	var sources []source
	if len(args) == 1 {
		sources = append(sources, source{path: args[0]})
	} else {
		files, err := importer.Scan(r.root)
		if err != nil {
			return err
		}
		for _, f := range files {
			sources = append(sources, source{path: f.Path, processed: f.Name})
		}
	}
	if len(sources) == 0 {
		fmt.Fprintln(out, "Nothing to import")
		return nil
	}

	existing, err := r.journal.ReadAll()
	if err != nil {
		return err
	}
	seen := importer.References(existing)
	registry := importer.DefaultRegistry()

	e := runlog.NewEntry(runlog.ActionImport, time.Now())
	var details []string
	for _, src := range sources {
		txns, err := registry.ParseFile(format, src.path)
		if err != nil {
			return err
		}
		params, skipped := importer.Plan(txns, mapping, seen)
		for _, p := range params {
			if _, err := r.journal.Add(p); err != nil {
				return fmt.Errorf("importing %s: %w", filepath.Base(src.path), err)
			}
		}
		if src.processed != "" {
			if err := importer.MarkProcessed(r.root, src.processed); err != nil {
				return err
			}
		}

		slog.Info("imported bank file", "file", src.path, "entries", len(params), "skipped", skipped)
		fmt.Fprintf(out, "Imported %d transactions from %s (%d skipped)\n", len(params), filepath.Base(src.path), skipped)
		e.Entries += len(params)
		details = append(details, fmt.Sprintf("%s:%d", filepath.Base(src.path), len(params)))
	}

	e.Details = strings.Join(details, " ")
	r.record(e)

	hash, err := r.commit(ctx, fmt.Sprintf("import: %d entries into %s", e.Entries, mapping.Bank))
	if err != nil {
		return err
	}
	if hash != "" {
		fmt.Fprintf(out, "Committed %s\n", hash)
	}
	return nil
}

// importMapping resolves the bank account and format from flags and config
// and checks every mapped account is in the chart.
func importMapping(r *repo, format, bankAccount string) (importer.Mapping, string, error) {
	if bankAccount == "" {
		if len(r.cfg.Import.BankAccounts) == 0 {
			return importer.Mapping{}, "", fmt.Errorf("--bank-account is required: no bank accounts configured in books.yaml")
		}
		bankAccount = r.cfg.Import.BankAccounts[0].Name
	}
	if format == "" {
		b, ok := r.cfg.Bank(bankAccount)
		if !ok || b.Format == "" {
			return importer.Mapping{}, "", fmt.Errorf("--format is required: no format configured for %q", bankAccount)
		}
		format = b.Format
	}

	mapping := importer.DefaultMapping(bankAccount)
	if r.cfg.Import.ExpenseAccount != "" {
		mapping.Expense = r.cfg.Import.ExpenseAccount
	}
	if r.cfg.Import.IncomeAccount != "" {
		mapping.Income = r.cfg.Import.IncomeAccount
	}
	for _, name := range []string{mapping.Bank, mapping.Expense, mapping.Income} {
		if !r.index.Exists(name) {
			return importer.Mapping{}, "", fmt.Errorf("account %q is not in the chart of accounts", name)
		}
	}
	return mapping, format, nil
}
