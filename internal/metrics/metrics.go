// Package metrics records one close run as Prometheus metrics and writes them
// in the node_exporter textfile format.
package metrics

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/cleared-dev/books/internal/calculator"
)

const namespace = "books"

// Run holds the metrics of a single run on its own registry.
type Run struct {
	registry *prometheus.Registry

	entries     prometheus.Gauge
	accounts    prometheus.Gauge
	rows        *prometheus.GaugeVec
	totals      *prometheus.GaugeVec
	balanced    prometheus.Gauge
	duration    prometheus.Gauge
	lastSuccess prometheus.Gauge
	failures    prometheus.Counter
}

// NewRun creates a Run with every metric registered.
func NewRun() *Run {
	r := &Run{
		registry: prometheus.NewRegistry(),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "journal_entries",
			Help: "Journal entries read by the last run.",
		}),
		accounts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "accounts",
			Help: "Accounts in the chart used by the last run.",
		}),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "report_rows",
			Help: "Rows produced per report.",
		}, []string{"report"}),
		totals: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "trial_balance_total",
			Help: "Trial balance column totals.",
		}, []string{"column"}),
		balanced: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "trial_balance_balanced",
			Help: "1 when trial balance debits equal credits.",
		}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "run_duration_seconds",
			Help: "Wall time of the last run.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "last_success_timestamp_seconds",
			Help: "Unix time of the last successful run.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "run_failures_total",
			Help: "Runs that ended with an error.",
		}),
	}
	r.registry.MustRegister(r.entries, r.accounts, r.rows, r.totals, r.balanced,
		r.duration, r.lastSuccess, r.failures)
	return r
}

// Registry returns the registry the metrics live on.
func (r *Run) Registry() *prometheus.Registry {
	return r.registry
}

// Restore carries state across runs from a textfile written by an earlier
// run: the failure count and the time of the last success. A missing file
// leaves the metrics at zero.
func (r *Run) Restore(path string) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening metrics: %w", err)
	}
	defer f.Close()

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(f)
	if err != nil {
		return fmt.Errorf("parsing metrics %s: %w", path, err)
	}
	if mf, ok := families[namespace+"_run_failures_total"]; ok && len(mf.GetMetric()) > 0 {
		if v := mf.GetMetric()[0].GetCounter().GetValue(); v > 0 {
			r.failures.Add(v)
		}
	}
	if mf, ok := families[namespace+"_last_success_timestamp_seconds"]; ok && len(mf.GetMetric()) > 0 {
		r.lastSuccess.Set(mf.GetMetric()[0].GetGauge().GetValue())
	}
	return nil
}

// Observe records a successful run that took d and finished at now.
func (r *Run) Observe(rep *calculator.Report, d time.Duration, now time.Time) {
	r.entries.Set(float64(rep.Entries))
	r.accounts.Set(float64(rep.Accounts))
	r.rows.WithLabelValues("general_ledger").Set(float64(len(rep.Ledger)))
	r.rows.WithLabelValues("trial_balance").Set(float64(len(rep.TrialBalance)))
	r.rows.WithLabelValues("balance_sheet").Set(float64(len(rep.BalanceSheet)))
	r.rows.WithLabelValues("income_statement").Set(float64(len(rep.IncomeStatement)))

	t := rep.Totals()
	r.totals.WithLabelValues("debit_balance").Set(t.DebitBalance.InexactFloat64())
	r.totals.WithLabelValues("credit_balance").Set(t.CreditBalance.InexactFloat64())
	r.totals.WithLabelValues("total_debit").Set(t.TotalDebit.InexactFloat64())
	r.totals.WithLabelValues("total_credit").Set(t.TotalCredit.InexactFloat64())
	if t.Balanced() {
		r.balanced.Set(1)
	} else {
		r.balanced.Set(0)
	}

	r.duration.Set(d.Seconds())
	r.lastSuccess.Set(float64(now.Unix()))
}

// Fail records a failed run.
func (r *Run) Fail(d time.Duration) {
	r.failures.Inc()
	r.duration.Set(d.Seconds())
}

// WriteTextfile writes the registry to path, creating parent directories.
func (r *Run) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
