package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	t.Setenv(EnvPostgresDSN, "")
	cfg := Default("Test Biz", "sole_proprietor")
	cfg.Import.BankAccounts = append(cfg.Import.BankAccounts, BankAccount{Name: "Credit Card", Format: "chase", LastFour: "1234"})
	cfg.Output = OutputConfig{Driver: DriverSQLite, SQLitePath: "out/books.db"}

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Company", "sole_proprietor")

	assert.Equal(t, "My Company", cfg.Business.Name)
	assert.Equal(t, "sole_proprietor", cfg.Business.EntityType)
	assert.Equal(t, "01-01", cfg.Fiscal.YearStart)
	assert.Equal(t, "USD", cfg.Report.Currency)
	assert.Equal(t, DriverCSV, cfg.Output.Driver)
	assert.Equal(t, "Uncategorized Expense", cfg.Import.ExpenseAccount)
	assert.Equal(t, "Uncategorized Income", cfg.Import.IncomeAccount)
	assert.True(t, cfg.Git.AutoCommit)
	assert.Equal(t, "Books", cfg.Git.AuthorName)
	require.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("business: [unclosed\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoad_EnvDSNOverride(t *testing.T) {
	dir := t.TempDir()
	cfg := Default("Biz", "sole_proprietor")
	cfg.Output = OutputConfig{Driver: DriverPostgres}
	require.NoError(t, Save(filepath.Join(dir, FileName), cfg))

	t.Setenv(EnvPostgresDSN, "")
	_, err := LoadRepo(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output.postgres_dsn")

	t.Setenv(EnvPostgresDSN, "postgres://localhost/books")
	got, err := LoadRepo(dir)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/books", got.Output.PostgresDSN)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		output  OutputConfig
		wantErr string
	}{
		{"empty driver", OutputConfig{}, ""},
		{"csv", OutputConfig{Driver: "CSV"}, ""},
		{"sqlite", OutputConfig{Driver: DriverSQLite, SQLitePath: "x.db"}, ""},
		{"sqlite without path", OutputConfig{Driver: DriverSQLite}, "output.sqlite_path is required"},
		{"postgres", OutputConfig{Driver: DriverPostgres, PostgresDSN: "postgres://x"}, ""},
		{"unknown", OutputConfig{Driver: "mongo"}, `unknown output driver "mongo"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Output: tt.output}
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPaths(t *testing.T) {
	cfg := Default("Biz", "sole_proprietor")
	assert.Equal(t, filepath.Join("/repo", "reports"), cfg.ReportDir("/repo"))
	assert.Equal(t, filepath.Join("/repo", "reports", "books.db"), cfg.SQLitePath("/repo"))

	cfg.Report.Dir = ""
	assert.Equal(t, filepath.Join("/repo", "reports"), cfg.ReportDir("/repo"))

	cfg.Report.Dir = "/var/books"
	cfg.Output.SQLitePath = "/var/books.db"
	assert.Equal(t, "/var/books", cfg.ReportDir("/repo"))
	assert.Equal(t, "/var/books.db", cfg.SQLitePath("/repo"))
}

func TestBank(t *testing.T) {
	cfg := Default("Biz", "sole_proprietor")
	b, ok := cfg.Bank("business checking")
	require.True(t, ok)
	assert.Equal(t, "chase", b.Format)

	_, ok = cfg.Bank("Savings")
	assert.False(t, ok)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default("Test Biz", "sole_proprietor")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Test Biz")
	assert.Contains(t, contents, "entity_type: sole_proprietor")
	assert.Contains(t, contents, "year_start: 01-01")
	assert.Contains(t, contents, "driver: csv")
	assert.Contains(t, contents, "auto_commit: true")
	assert.NotContains(t, contents, "postgres_dsn")
}
