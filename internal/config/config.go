// Package config reads and writes books.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/books/internal/accounts"
	"github.com/cleared-dev/books/internal/sliceutil"
)

// FileName is the config file at the root of a books repository.
const FileName = "books.yaml"

// EnvPostgresDSN overrides output.postgres_dsn when set.
const EnvPostgresDSN = "BOOKS_POSTGRES_DSN"

// Output drivers.
const (
	DriverCSV      = "csv"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config represents books.yaml.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Fiscal   FiscalConfig   `yaml:"fiscal"`
	Report   ReportConfig   `yaml:"report"`
	Output   OutputConfig   `yaml:"output"`
	Import   ImportConfig   `yaml:"import"`
	Git      GitConfig      `yaml:"git"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name       string `yaml:"name"`
	EntityType string `yaml:"entity_type"`
}

// FiscalConfig defines the fiscal year boundaries.
type FiscalConfig struct {
	YearStart string `yaml:"year_start"` // "MM-DD", e.g. "01-01"
}

// ReportConfig controls rendered and CSV reports.
type ReportConfig struct {
	Currency string `yaml:"currency"` // ISO 4217; empty prints plain decimals
	Dir      string `yaml:"dir"`      // relative to the repo root
}

// OutputConfig selects where close publishes its tables.
type OutputConfig struct {
	Driver      string `yaml:"driver"`
	SQLitePath  string `yaml:"sqlite_path,omitempty"`
	PostgresDSN string `yaml:"postgres_dsn,omitempty"`
}

// ImportConfig maps bank imports onto the chart of accounts.
type ImportConfig struct {
	ExpenseAccount string        `yaml:"expense_account"`
	IncomeAccount  string        `yaml:"income_account"`
	BankAccounts   []BankAccount `yaml:"bank_accounts,omitempty"`
}

// BankAccount ties a bank feed to an account in the chart.
type BankAccount struct {
	Name     string `yaml:"name"`    // account name in the chart
	Format   string `yaml:"format"`  // importer format, e.g. "chase"
	LastFour string `yaml:"last_four,omitempty"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a books.yaml file, applies environment overrides and validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if dsn := os.Getenv(EnvPostgresDSN); dsn != "" {
		cfg.Output.PostgresDSN = dsn
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadRepo reads books.yaml from repoRoot.
func LoadRepo(repoRoot string) (*Config, error) {
	return Load(filepath.Join(repoRoot, FileName))
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks the output section.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Output.Driver) {
	case "", DriverCSV:
	case DriverSQLite:
		if c.Output.SQLitePath == "" {
			return fmt.Errorf("invalid config: output.sqlite_path is required for driver %q", DriverSQLite)
		}
	case DriverPostgres:
		if c.Output.PostgresDSN == "" {
			return fmt.Errorf("invalid config: output.postgres_dsn or %s is required for driver %q", EnvPostgresDSN, DriverPostgres)
		}
	default:
		return fmt.Errorf("invalid config: unknown output driver %q", c.Output.Driver)
	}
	return nil
}

// ReportDir returns the reports directory under repoRoot.
func (c *Config) ReportDir(repoRoot string) string {
	dir := c.Report.Dir
	if dir == "" {
		dir = "reports"
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(repoRoot, dir)
}

// SQLitePath returns the database path, resolved against repoRoot.
func (c *Config) SQLitePath(repoRoot string) string {
	if c.Output.SQLitePath == "" || filepath.IsAbs(c.Output.SQLitePath) {
		return c.Output.SQLitePath
	}
	return filepath.Join(repoRoot, c.Output.SQLitePath)
}

// Bank returns the configured bank account with name, if any.
func (c *Config) Bank(name string) (BankAccount, bool) {
	return sliceutil.Find(c.Import.BankAccounts, func(b BankAccount) bool { return strings.EqualFold(b.Name, name) })
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName, entityType string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:       businessName,
			EntityType: entityType,
		},
		Fiscal: FiscalConfig{
			YearStart: "01-01",
		},
		Report: ReportConfig{
			Currency: "USD",
			Dir:      "reports",
		},
		Output: OutputConfig{
			Driver:     DriverCSV,
			SQLitePath: "reports/books.db",
		},
		Import: ImportConfig{
			ExpenseAccount: accounts.UncategorizedExpense,
			IncomeAccount:  accounts.UncategorizedIncome,
			BankAccounts: []BankAccount{
				{Name: "Business Checking", Format: "chase"},
			},
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "Books",
			AuthorEmail: "books@localhost",
		},
	}
}
