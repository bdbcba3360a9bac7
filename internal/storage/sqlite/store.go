// Package sqlite stores run output in a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/calculator"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/report"
	"github.com/cleared-dev/books/internal/storage"
)

const dateFormat = "2006-01-02"

// Store writes reports into SQLite. Amounts are stored as TEXT so no
// precision is lost. ReplaceAll swaps every table in one transaction; the
// single-table inserts each commit on their own.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{`CREATE TABLE IF NOT EXISTS ` + storage.LedgerTable + ` (
		entry_id        TEXT NOT NULL,
		account_order   INTEGER NOT NULL,
		date            TEXT NOT NULL,
		account         TEXT NOT NULL,
		counter_account TEXT NOT NULL,
		summary         TEXT NOT NULL,
		debit           TEXT NOT NULL,
		credit          TEXT NOT NULL,
		balance         TEXT NOT NULL,
		position        INTEGER NOT NULL
	)`}
	for _, kind := range report.Kinds {
		stmts = append(stmts, `CREATE TABLE IF NOT EXISTS `+string(kind)+` (
			display_order  INTEGER NOT NULL,
			account        TEXT NOT NULL,
			debit_balance  TEXT NOT NULL,
			credit_balance TEXT NOT NULL,
			total_debit    TEXT NOT NULL,
			total_credit   TEXT NOT NULL,
			position       INTEGER NOT NULL
		)`)
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrating sqlite schema: %w", err)
		}
	}
	return nil
}

// InsertLedgerRows replaces the general ledger table with rows.
func (s *Store) InsertLedgerRows(ctx context.Context, rows []model.LedgerRow) error {
	return s.inTx(ctx, func(tx *sql.Tx) error { return replaceLedger(ctx, tx, rows) })
}

// InsertBalanceRows replaces the table for kind with rows.
func (s *Store) InsertBalanceRows(ctx context.Context, kind report.Kind, rows []model.TrialBalanceRow) error {
	return s.inTx(ctx, func(tx *sql.Tx) error { return replaceBalances(ctx, tx, kind, rows) })
}

// ReplaceAll replaces the ledger and every balance table with the output of r
// in one transaction. On error no table changes.
func (s *Store) ReplaceAll(ctx context.Context, r *calculator.Report) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := replaceLedger(ctx, tx, r.Ledger); err != nil {
			return fmt.Errorf("publishing general ledger: %w", err)
		}
		for _, kind := range report.Kinds {
			if err := replaceBalances(ctx, tx, kind, report.Rows(r, kind)); err != nil {
				return fmt.Errorf("publishing %s: %w", kind, err)
			}
		}
		return nil
	})
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

func replaceLedger(ctx context.Context, tx *sql.Tx, rows []model.LedgerRow) error {
	return replace(ctx, tx, storage.LedgerTable, storage.LedgerColumns, len(rows), func(i int) []any {
		r := rows[i]
		return []any{r.EntryID, r.AccountOrder, r.Date.Format(dateFormat), r.Account, r.CounterAccount,
			r.Summary, r.Debit.String(), r.Credit.String(), r.Balance.String(), i}
	})
}

func replaceBalances(ctx context.Context, tx *sql.Tx, kind report.Kind, rows []model.TrialBalanceRow) error {
	table, err := storage.Table(kind)
	if err != nil {
		return err
	}
	return replace(ctx, tx, table, storage.BalanceColumns, len(rows), func(i int) []any {
		r := rows[i]
		return []any{r.Order, r.Account, r.DebitBalance.String(), r.CreditBalance.String(),
			r.TotalDebit.String(), r.TotalCredit.String(), i}
	})
}

func replace(ctx context.Context, tx *sql.Tx, table string, cols []string, n int, row func(int) []any) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("clearing %s: %w", table, err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(cols)), ",")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ","), placeholders))
	if err != nil {
		return fmt.Errorf("preparing insert into %s: %w", table, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, row(i)...); err != nil {
			return fmt.Errorf("inserting into %s: %w", table, err)
		}
	}
	return nil
}

// LedgerRows reads the general ledger back in insert order.
func (s *Store) LedgerRows(ctx context.Context) ([]model.LedgerRow, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT entry_id, account_order, date, account, counter_account, summary, debit, credit, balance
		FROM `+storage.LedgerTable+` ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", storage.LedgerTable, err)
	}
	defer rows.Close()

	var out []model.LedgerRow
	for rows.Next() {
		var (
			r                       model.LedgerRow
			date, debit, credit, bl string
		)
		if err := rows.Scan(&r.EntryID, &r.AccountOrder, &date, &r.Account, &r.CounterAccount, &r.Summary, &debit, &credit, &bl); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", storage.LedgerTable, err)
		}
		if r.Date, err = time.Parse(dateFormat, date); err != nil {
			return nil, fmt.Errorf("parsing date %q: %w", date, err)
		}
		if r.Debit, r.Credit, r.Balance, err = parse3(debit, credit, bl); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// BalanceRows reads the table for kind back in insert order.
func (s *Store) BalanceRows(ctx context.Context, kind report.Kind) ([]model.TrialBalanceRow, error) {
	table, err := storage.Table(kind)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT display_order, account, debit_balance, credit_balance, total_debit, total_credit
		FROM `+table+` ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	var out []model.TrialBalanceRow
	for rows.Next() {
		var (
			r          model.TrialBalanceRow
			db, cb, td string
			tc         string
		)
		if err := rows.Scan(&r.Order, &r.Account, &db, &cb, &td, &tc); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}
		if r.DebitBalance, r.CreditBalance, r.TotalDebit, err = parse3(db, cb, td); err != nil {
			return nil, err
		}
		if r.TotalCredit, err = decimal.NewFromString(tc); err != nil {
			return nil, fmt.Errorf("parsing amount %q: %w", tc, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func parse3(a, b, c string) (decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	var out [3]decimal.Decimal
	for i, s := range []string{a, b, c} {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, decimal.Zero, decimal.Zero, fmt.Errorf("parsing amount %q: %w", s, err)
		}
		out[i] = d
	}
	return out[0], out[1], out[2], nil
}
