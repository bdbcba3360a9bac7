package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/books/internal/id"
	"github.com/cleared-dev/books/internal/model"
)

// Service provides persistence and validation for journal entries.
type Service struct {
	repoRoot string
	accounts AccountChecker
}

// NewService creates a journal Service.
func NewService(repoRoot string, accounts AccountChecker) *Service {
	return &Service{repoRoot: repoRoot, accounts: accounts}
}

// AddParams holds parameters for recording a journal entry.
type AddParams struct {
	Date          time.Time
	DebitAccount  string
	CreditAccount string
	DebitAmount   decimal.Decimal
	CreditAmount  decimal.Decimal
	Summary       string
}

// Add validates a new entry against the rest of its month and appends it to
// the month's journal.csv. Returns the entry ID.
func (s *Service) Add(params AddParams) (string, error) {
	year := params.Date.Year()
	month := int(params.Date.Month())

	existing, err := s.ReadMonth(year, month)
	if err != nil {
		return "", err
	}

	entry := model.JournalEntry{
		ID:            id.FormatEntryID(year, month, nextSeq(existing)),
		Date:          params.Date,
		DebitAccount:  params.DebitAccount,
		CreditAccount: params.CreditAccount,
		DebitAmount:   params.DebitAmount,
		CreditAmount:  params.CreditAmount,
		Summary:       params.Summary,
	}

	all := append(existing, entry)
	if verrs := ValidateEntries(all, s.accounts, year, month); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return "", fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}

	// Append to journal file (create dir + header if new).
	journalPath := s.monthPath(year, month)
	if err := os.MkdirAll(filepath.Dir(journalPath), 0o755); err != nil {
		return "", fmt.Errorf("creating journal dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(journalPath); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(journalPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return "", fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendEntries(f, []model.JournalEntry{entry}); err != nil {
		return "", fmt.Errorf("appending entry: %w", err)
	}

	return entry.ID, nil
}

// ReadMonth reads all entries for a given year/month.
func (s *Service) ReadMonth(year, month int) ([]model.JournalEntry, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	entries, err := ReadEntries(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return entries, nil
}

// Months lists the (year, month) pairs that have a journal.csv, oldest first.
func (s *Service) Months() ([][2]int, error) {
	years, err := numericDirs(s.repoRoot, yearDir)
	if err != nil {
		return nil, err
	}

	var months [][2]int
	for _, y := range years {
		ms, err := numericDirs(filepath.Join(s.repoRoot, fmt.Sprintf("%04d", y)), monthDir)
		if err != nil {
			return nil, err
		}
		for _, m := range ms {
			if m < 1 || m > 12 {
				continue
			}
			if _, err := os.Stat(s.monthPath(y, m)); err == nil {
				months = append(months, [2]int{y, m})
			}
		}
	}
	return months, nil
}

// ReadAll reads every month's journal, oldest month first.
func (s *Service) ReadAll() ([]model.JournalEntry, error) {
	months, err := s.Months()
	if err != nil {
		return nil, err
	}

	var all []model.JournalEntry
	for _, ym := range months {
		entries, err := s.ReadMonth(ym[0], ym[1])
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	return all, nil
}

// Entries implements the calculator's journal source.
func (s *Service) Entries() ([]model.JournalEntry, error) {
	return s.ReadAll()
}

// NextEntrySeq returns the next available sequence number for a month.
func (s *Service) NextEntrySeq(year, month int) (int, error) {
	entries, err := s.ReadMonth(year, month)
	if err != nil {
		return 0, err
	}
	return nextSeq(entries), nil
}

func nextSeq(entries []model.JournalEntry) int {
	maxSeq := 0
	for _, e := range entries {
		_, _, seq, err := id.ParseEntryID(e.ID)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1
}

func (s *Service) monthPath(year, month int) string {
	return filepath.Join(s.repoRoot, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "journal.csv")
}

var (
	yearDir  = regexp.MustCompile(`^\d{4}$`)
	monthDir = regexp.MustCompile(`^\d{2}$`)
)

func numericDirs(dir string, pattern *regexp.Regexp) ([]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var nums []int
	for _, e := range entries {
		if !e.IsDir() || !pattern.MatchString(e.Name()) {
			continue
		}
		n, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums, nil
}
