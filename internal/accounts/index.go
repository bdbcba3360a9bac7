package accounts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cleared-dev/books/internal/model"
)

// DuplicateAccountError reports two chart entries sharing a name.
type DuplicateAccountError struct {
	Name string
}

func (e *DuplicateAccountError) Error() string {
	return fmt.Sprintf("account %q is defined more than once in the chart of accounts", e.Name)
}

// Index is a read-only lookup over the chart of accounts, keyed by name.
type Index struct {
	accounts []model.Account
	byName   map[string]model.Account
}

// NewIndex builds an Index. It fails on duplicate names rather than letting
// one definition shadow another.
func NewIndex(accounts []model.Account) (*Index, error) {
	byName := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		if _, ok := byName[a.Name]; ok {
			return nil, &DuplicateAccountError{Name: a.Name}
		}
		byName[a.Name] = a
	}
	return &Index{accounts: accounts, byName: byName}, nil
}

// Load reads chart-of-accounts.csv from a repo root and returns an Index.
func Load(repoRoot string) (*Index, error) {
	accts, err := ReadFile(repoRoot)
	if err != nil {
		return nil, err
	}
	return NewIndex(accts)
}

// ReadFile reads <repoRoot>/accounts/chart-of-accounts.csv without indexing it.
func ReadFile(repoRoot string) ([]model.Account, error) {
	f, err := os.Open(chartPath(repoRoot))
	if err != nil {
		return nil, fmt.Errorf("opening chart of accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading chart of accounts: %w", err)
	}
	return accts, nil
}

// All returns all accounts in chart order.
func (ix *Index) All() []model.Account {
	return ix.accounts
}

// Len returns the number of accounts.
func (ix *Index) Len() int {
	return len(ix.accounts)
}

// Get returns an account by name.
func (ix *Index) Get(name string) (model.Account, bool) {
	a, ok := ix.byName[name]
	return a, ok
}

// Exists reports whether an account name exists.
func (ix *Index) Exists(name string) bool {
	_, ok := ix.byName[name]
	return ok
}

// ByStatement returns all accounts reported on the given statement.
func (ix *Index) ByStatement(st model.StatementType) []model.Account {
	var result []model.Account
	for _, a := range ix.accounts {
		if a.Statement == st {
			result = append(result, a)
		}
	}
	return result
}

// Accounts returns the chart; it lets an Index act as an account source.
func (ix *Index) Accounts() ([]model.Account, error) {
	return ix.accounts, nil
}

// Save writes the chart of accounts to accounts/chart-of-accounts.csv.
func (ix *Index) Save(repoRoot string) error {
	dir := filepath.Join(repoRoot, "accounts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(chartPath(repoRoot))
	if err != nil {
		return fmt.Errorf("creating chart of accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, ix.accounts); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}
	return nil
}

// FileSource reads the chart from a repo root on every call.
type FileSource string

// Accounts implements the calculator's account source.
func (root FileSource) Accounts() ([]model.Account, error) {
	return ReadFile(string(root))
}

func chartPath(repoRoot string) string {
	return filepath.Join(repoRoot, "accounts", "chart-of-accounts.csv")
}
