package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/cleared-dev/books/internal/calculator"
	"github.com/cleared-dev/books/internal/config"
	"github.com/cleared-dev/books/internal/metrics"
	"github.com/cleared-dev/books/internal/report"
	"github.com/cleared-dev/books/internal/runlog"
	"github.com/cleared-dev/books/internal/storage/postgres"
	"github.com/cleared-dev/books/internal/storage/sqlite"
)

type closeOptions struct {
	repoDir     string
	output      string
	metricsFile string
	style       string
	markdown    bool
	quiet       bool
}

func newCloseCommand() *cobra.Command {
	var opts closeOptions

	cmd := &cobra.Command{
		Use:   "close",
		Short: "Build the general ledger, trial balance and statements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := openRepo(opts.repoDir)
			if err != nil {
				return err
			}
			return runClose(cmd.Context(), cmd.OutOrStdout(), r, opts)
		},
	}

	addRepoFlag(cmd, &opts.repoDir)
	cmd.Flags().StringVar(&opts.output, "output", "", "csv, sqlite or postgres (default from books.yaml)")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")
	cmd.Flags().StringVar(&opts.style, "style", "auto", "terminal style: auto, dark, light, notty, ascii")
	cmd.Flags().BoolVar(&opts.markdown, "markdown", false, "print Markdown instead of rendering it")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the report")
	return cmd
}

func runClose(ctx context.Context, out io.Writer, r *repo, opts closeOptions) error {
	start := time.Now()
	m := metrics.NewRun()
	if opts.metricsFile != "" {
		if err := m.Restore(opts.metricsFile); err != nil {
			slog.Warn("restoring metrics", "path", opts.metricsFile, "error", err)
		}
	}
	e := runlog.NewEntry(runlog.ActionClose, start)
	e.CommitHash = r.head(ctx)

	rep, err := closeBooks(ctx, r, opts.output)
	if err != nil {
		m.Fail(time.Since(start))
		writeMetrics(m, opts.metricsFile)
		e.Status = runlog.StatusFailed
		e.Details = err.Error()
		r.record(e)
		return err
	}

	elapsed := time.Since(start)
	m.Observe(rep, elapsed, time.Now())
	writeMetrics(m, opts.metricsFile)

	totals := rep.Totals()
	e.Entries = rep.Entries
	if totals.Balanced() {
		e.Details = "balanced " + totals.TotalDebit.StringFixed(2)
	} else {
		e.Details = fmt.Sprintf("out of balance: debits %s credits %s",
			totals.DebitBalance.StringFixed(2), totals.CreditBalance.StringFixed(2))
		slog.Warn("trial balance is out of balance", "debits", totals.DebitBalance, "credits", totals.CreditBalance)
	}
	r.record(e)
	slog.Info("books closed", "entries", rep.Entries, "ledger_rows", len(rep.Ledger), "elapsed", elapsed)

	if !opts.quiet {
		if err := printReport(out, r, rep, opts); err != nil {
			return err
		}
	}

	hash, err := r.commit(ctx, fmt.Sprintf("close: %d entries", rep.Entries))
	if err != nil {
		return err
	}
	if hash != "" && !opts.quiet {
		fmt.Fprintf(out, "Committed %s\n", hash)
	}
	return nil
}

// closeBooks runs the calculator and publishes the result. Nothing is
// published when the calculator fails.
func closeBooks(ctx context.Context, r *repo, output string) (*calculator.Report, error) {
	rep, err := calculator.New(r.journal, r.index).Run()
	if err != nil {
		return nil, err
	}

	cfg := *r.cfg
	if output != "" {
		cfg.Output.Driver = output
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	sink, closeSink, err := openSink(ctx, &cfg, r.root)
	if err != nil {
		return nil, err
	}
	defer closeSink()

	slog.Info("publishing", "driver", driverName(&cfg))
	if err := report.PublishTo(ctx, rep, sink); err != nil {
		return nil, err
	}
	return rep, nil
}

func driverName(cfg *config.Config) string {
	if cfg.Output.Driver == "" {
		return config.DriverCSV
	}
	return strings.ToLower(cfg.Output.Driver)
}

// openSink opens the configured output. The returned func releases it.
func openSink(ctx context.Context, cfg *config.Config, root string) (report.Sink, func(), error) {
	switch driverName(cfg) {
	case config.DriverSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath(root))
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case config.DriverPostgres:
		s, err := postgres.Open(ctx, cfg.Output.PostgresDSN)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return report.NewDirSink(cfg.ReportDir(root)), func() {}, nil
	}
}

func printReport(out io.Writer, r *repo, rep *calculator.Report, opts closeOptions) error {
	ropts := report.RenderOptions{Title: r.cfg.Business.Name, Currency: r.cfg.Report.Currency}
	if opts.markdown {
		_, err := io.WriteString(out, report.RenderMarkdown(rep, ropts))
		return err
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			ropts.Width = w
		}
	}
	rendered, err := report.RenderTerminal(rep, ropts, resolveStyle(out, opts.style))
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, rendered)
	return err
}

func writeMetrics(m *metrics.Run, path string) {
	if path == "" {
		return
	}
	if err := m.WriteTextfile(path); err != nil {
		slog.Warn("writing metrics", "path", path, "error", err)
	}
}

// resolveStyle maps "auto" to dark on a terminal and notty otherwise.
func resolveStyle(out io.Writer, style string) string {
	if style != "auto" {
		return style
	}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "dark"
	}
	return "notty"
}
