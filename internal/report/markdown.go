package report

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/calculator"
	"github.com/cleared-dev/books/internal/model"
)

// DisplayDateFormat is the date layout used in rendered reports.
const DisplayDateFormat = "2006/01/02"

// RenderOptions controls Markdown rendering.
type RenderOptions struct {
	Title      string
	Currency   string // ISO 4217 code used to format amounts; empty prints plain decimals
	SkipLedger bool
	Width      int // terminal width for RenderTerminal; 0 means 120
}

// RenderMarkdown renders a report as a Markdown document with one table per output.
func RenderMarkdown(r *calculator.Report, opts RenderOptions) string {
	f := newFormatter(opts.Currency)
	var b strings.Builder

	title := opts.Title
	if title == "" {
		title = "Books"
	}
	fmt.Fprintf(&b, "# %s\n\n", escape(title))
	fmt.Fprintf(&b, "%d journal entries, %d accounts.\n\n", r.Entries, r.Accounts)

	if !opts.SkipLedger {
		b.WriteString("## General Ledger\n\n")
		b.WriteString("| Date | Entry | Account | Counter account | Summary | Debit | Credit | Balance |\n")
		b.WriteString("|---|---|---|---|---|--:|--:|--:|\n")
		for _, row := range r.Ledger {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
				row.Date.Format(DisplayDateFormat), escape(row.EntryID), escape(row.Account),
				escape(row.CounterAccount), escape(row.Summary),
				f.blankZero(row.Debit), f.blankZero(row.Credit), f.format(row.Balance))
		}
		b.WriteString("\n")
	}

	writeBalanceTable(&b, "Trial Balance", r.TrialBalance, f, true)
	writeBalanceTable(&b, "Balance Sheet", r.BalanceSheet, f, false)
	writeBalanceTable(&b, "Income Statement", r.IncomeStatement, f, false)

	totals := r.Totals()
	if !totals.Balanced() {
		fmt.Fprintf(&b, "> Trial balance is out of balance: debits %s, credits %s.\n",
			f.format(totals.DebitBalance), f.format(totals.CreditBalance))
	}
	return b.String()
}

// RenderTerminal renders a report for a terminal using a glamour style
// ("dark", "light", "notty", ...).
func RenderTerminal(r *calculator.Report, opts RenderOptions, style string) (string, error) {
	width := opts.Width
	if width <= 0 {
		width = 120
	}
	tr, err := glamour.NewTermRenderer(glamour.WithStandardStyle(style), glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("creating renderer: %w", err)
	}
	out, err := tr.Render(RenderMarkdown(r, opts))
	if err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return out, nil
}

func writeBalanceTable(b *strings.Builder, heading string, rows []model.TrialBalanceRow, f formatter, withTotals bool) {
	fmt.Fprintf(b, "## %s\n\n", heading)
	b.WriteString("| Account | Debit balance | Credit balance | Total debit | Total credit |\n")
	b.WriteString("|---|--:|--:|--:|--:|\n")
	for _, row := range rows {
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n", escape(row.Account),
			f.blankZero(row.DebitBalance), f.blankZero(row.CreditBalance),
			f.format(row.TotalDebit), f.format(row.TotalCredit))
	}
	if withTotals {
		t := calculator.Totals(rows)
		fmt.Fprintf(b, "| **Total** | **%s** | **%s** | **%s** | **%s** |\n",
			f.format(t.DebitBalance), f.format(t.CreditBalance), f.format(t.TotalDebit), f.format(t.TotalCredit))
	}
	b.WriteString("\n")
}

type formatter struct {
	currency *money.Currency
}

func newFormatter(code string) formatter {
	if code == "" {
		return formatter{}
	}
	return formatter{currency: money.GetCurrency(strings.ToUpper(code))}
}

func (f formatter) format(d decimal.Decimal) string {
	if f.currency == nil {
		return d.StringFixed(2)
	}
	minor := d.Shift(int32(f.currency.Fraction)).Round(0).IntPart()
	return f.currency.Formatter().Format(minor)
}

func (f formatter) blankZero(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return f.format(d)
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ", "\r", "")

func escape(s string) string {
	return cellEscaper.Replace(s)
}
