// Package postgres stores run output in PostgreSQL using pgx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/calculator"
	"github.com/cleared-dev/books/internal/model"
	"github.com/cleared-dev/books/internal/report"
	"github.com/cleared-dev/books/internal/storage"
)

// Store holds a pgx pool. ReplaceAll swaps the ledger and every balance table
// in one transaction; the single-table inserts each commit on their own.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to dsn, verifies the connection and creates missing tables.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{`create table if not exists ` + storage.LedgerTable + ` (
		entry_id        text not null,
		account_order   integer not null,
		date            date not null,
		account         text not null,
		counter_account text not null,
		summary         text not null,
		debit           text not null,
		credit          text not null,
		balance         text not null,
		position        integer not null
	)`}
	for _, kind := range report.Kinds {
		stmts = append(stmts, `create table if not exists `+string(kind)+` (
			display_order  integer not null,
			account        text not null,
			debit_balance  text not null,
			credit_balance text not null,
			total_debit    text not null,
			total_credit   text not null,
			position       integer not null
		)`)
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrating postgres schema: %w", err)
		}
	}
	return nil
}

// InsertLedgerRows replaces the general ledger table with rows.
func (s *Store) InsertLedgerRows(ctx context.Context, rows []model.LedgerRow) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error { return replaceLedger(ctx, tx, rows) })
}

// InsertBalanceRows replaces the table for kind with rows.
func (s *Store) InsertBalanceRows(ctx context.Context, kind report.Kind, rows []model.TrialBalanceRow) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error { return replaceBalances(ctx, tx, kind, rows) })
}

// ReplaceAll replaces the ledger and every balance table with the output of r
// in one transaction. On error no table changes.
func (s *Store) ReplaceAll(ctx context.Context, r *calculator.Report) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
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

func replaceLedger(ctx context.Context, tx pgx.Tx, rows []model.LedgerRow) error {
	src := pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
		r := rows[i]
		return []any{r.EntryID, int32(r.AccountOrder), r.Date, r.Account, r.CounterAccount, r.Summary,
			r.Debit.String(), r.Credit.String(), r.Balance.String(), int32(i)}, nil
	})
	return replace(ctx, tx, storage.LedgerTable, storage.LedgerColumns, src)
}

func replaceBalances(ctx context.Context, tx pgx.Tx, kind report.Kind, rows []model.TrialBalanceRow) error {
	table, err := storage.Table(kind)
	if err != nil {
		return err
	}
	src := pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
		r := rows[i]
		return []any{int32(r.Order), r.Account, r.DebitBalance.String(), r.CreditBalance.String(),
			r.TotalDebit.String(), r.TotalCredit.String(), int32(i)}, nil
	})
	return replace(ctx, tx, table, storage.BalanceColumns, src)
}

func replace(ctx context.Context, tx pgx.Tx, table string, cols []string, src pgx.CopyFromSource) error {
	if _, err := tx.Exec(ctx, `delete from `+table); err != nil {
		return fmt.Errorf("clearing %s: %w", table, err)
	}
	if _, err := tx.CopyFrom(ctx, pgx.Identifier{table}, cols, src); err != nil {
		return fmt.Errorf("copying into %s: %w", table, err)
	}
	return nil
}

// BalanceRows reads the table for kind back in insert order.
func (s *Store) BalanceRows(ctx context.Context, kind report.Kind) ([]model.TrialBalanceRow, error) {
	table, err := storage.Table(kind)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `select display_order, account, debit_balance, credit_balance, total_debit, total_credit
		from `+table+` order by position`)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	var out []model.TrialBalanceRow
	for rows.Next() {
		var (
			r       model.TrialBalanceRow
			order   int32
			amounts [4]string
		)
		if err := rows.Scan(&order, &r.Account, &amounts[0], &amounts[1], &amounts[2], &amounts[3]); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", table, err)
		}
		r.Order = int(order)
		dst := []*decimal.Decimal{&r.DebitBalance, &r.CreditBalance, &r.TotalDebit, &r.TotalCredit}
		for i, a := range amounts {
			if *dst[i], err = decimal.NewFromString(a); err != nil {
				return nil, fmt.Errorf("parsing amount %q: %w", a, err)
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LedgerCount returns the number of general ledger rows.
func (s *Store) LedgerCount(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `select count(*) from `+storage.LedgerTable).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting %s: %w", storage.LedgerTable, err)
	}
	return n, nil
}
