package importer

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/books/internal/model"
)

func parseTestdata(t *testing.T) []model.BankTransaction {
	t.Helper()
	f, err := os.Open("../../testdata/chase_checking.csv")
	require.NoError(t, err)
	defer f.Close()

	txns, err := (&ChaseParser{}).Parse(f)
	require.NoError(t, err)
	return txns
}

func TestChaseParser_Parse(t *testing.T) {
	txns := parseTestdata(t)
	require.Len(t, txns, 6)

	assert.Equal(t, "GITHUB *PRO SUBSCRIPTION", txns[0].Description)
	assert.Equal(t, "-4.00", txns[0].Amount.StringFixed(2))
	assert.Equal(t, "ACH_DEBIT", txns[0].Type)
	assert.Equal(t, "2025-01-03", txns[0].Date.Format("2006-01-02"))
	assert.Equal(t, "chase_20250103_GITHUBPROS_-4.00_1", txns[0].Reference)

	assert.Equal(t, "ACME CONSULTING INVOICE 1042", txns[3].Description)
	assert.Equal(t, "3500.00", txns[3].Amount.StringFixed(2))

	assert.Equal(t, "2025-01-22", txns[5].Date.Format("2006-01-02"))
}

func TestChaseParser_Signs(t *testing.T) {
	for _, txn := range parseTestdata(t) {
		if txn.Type == "ACH_CREDIT" {
			assert.True(t, txn.Amount.IsPositive(), txn.Description)
		} else {
			assert.True(t, txn.Amount.IsNegative(), txn.Description)
		}
	}
}

func TestChaseParser_ReorderedColumns(t *testing.T) {
	csv := "Description,Amount,Posting Date,Type\nSTAPLES,-5.00,02/01/2025,DEBIT_CARD\n"
	txns, err := (&ChaseParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "STAPLES", txns[0].Description)
	assert.Equal(t, "chase_20250201_STAPLES_-5.00_1", txns[0].Reference)
}

func TestChaseParser_HeaderOnly(t *testing.T) {
	txns, err := (&ChaseParser{}).Parse(strings.NewReader(chaseHeader))
	require.NoError(t, err)
	assert.Nil(t, txns)
}

func TestChaseParser_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{"bad date", chaseHeader + "DEBIT,NOTADATE,desc,-4.00,ACH_DEBIT,100.00,\n", "parsing date"},
		{"bad amount", chaseHeader + "DEBIT,01/03/2025,desc,NOTANUMBER,ACH_DEBIT,100.00,\n", "parsing amount"},
		{"missing column", "Posting Date,Description,Type\n", `missing column "Amount"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&ChaseParser{}).Parse(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestReference_TruncatesAndStrips(t *testing.T) {
	txns := parseTestdata(t)
	assert.Equal(t, "chase_20250115_ACMECONSUL_3500.00_1", txns[3].Reference)
	assert.Equal(t, "chase_20250106_STAPLES004_-23.17_1", txns[1].Reference)
}

func TestChaseParser_SameDaySameMerchant(t *testing.T) {
	csv := chaseHeader +
		"DEBIT,01/03/2025,STARBUCKS STORE 1001,-4.50,DEBIT_CARD,100.00,\n" +
		"DEBIT,01/03/2025,STARBUCKS STORE 2002,-6.25,DEBIT_CARD,93.75,\n" +
		"DEBIT,01/03/2025,STARBUCKS STORE 2002,-6.25,DEBIT_CARD,87.50,\n"
	txns, err := (&ChaseParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, txns, 3)

	assert.Equal(t, "chase_20250103_STARBUCKSS_-4.50_1", txns[0].Reference)
	assert.Equal(t, "chase_20250103_STARBUCKSS_-6.25_1", txns[1].Reference)
	assert.Equal(t, "chase_20250103_STARBUCKSS_-6.25_2", txns[2].Reference)

	params, skipped := Plan(txns, DefaultMapping("Business Checking"), nil)
	assert.Len(t, params, 3)
	assert.Zero(t, skipped)

	// A second import of the same file finds every reference already recorded.
	var entries []model.JournalEntry
	for _, p := range params {
		entries = append(entries, model.JournalEntry{Summary: p.Summary})
	}
	again, err := (&ChaseParser{}).Parse(strings.NewReader(csv))
	require.NoError(t, err)
	params, skipped = Plan(again, DefaultMapping("Business Checking"), References(entries))
	assert.Empty(t, params)
	assert.Equal(t, 3, skipped)
}
