package agg

import (
	"testing"

	"github.com/huangsam/dealflow/schema"
	"github.com/stretchr/testify/assert"
)

func TestParseContractValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"plain integer", "1500", "1500", true},
		{"brazilian thousands and decimals", "R$ 1.234,56", "1234.56", true},
		{"us thousands and decimals", "$1,234.56", "1234.56", true},
		{"three trailing digits are thousands", "100.250", "100250", true},
		{"comma thousands", "100,250", "100250", true},
		{"many groups", "1.500.000", "1500000", true},
		{"decimal comma", "12,5", "12.5", true},
		{"decimal point", "12.50", "12.5", true},
		{"trailing separator", "12.", "12", true},
		{"leading separator", ",75", "0.75", true},
		{"negative", "-1.000,00", "-1000", true},
		{"currency noise", "BRL 2 500,00 /mo", "2500", true},
		{"minus after currency", "R$ -1.000", "-1000", true},
		{"hyphen glued to a word", "abc-5", "5", true},
		{"detached minus", "- 5", "5", true},
		{"trailing sentence period", "1.000 USD.", "1000", true},
		{"exponent is not a number", "1e5", "0", false},
		{"range of two numbers", "12 - 13", "0", false},
		{"empty", "", "0", false},
		{"letters", "n/a", "0", false},
		{"lonely separator", ".", "0", false},
		{"lonely minus", "-", "0", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseContractValue(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestSnapshotIgnoresNegativeValues(t *testing.T) {
	deals := []schema.Deal{
		{ID: "1", Status: schema.StatusActive, Stage: "Prospect - 25%", ContractValue: "R$ -1.000"},
		{ID: "2", Status: schema.StatusActive, Stage: "Prospect - 25%", ContractValue: "abc-5"},
	}
	for _, r := range Snapshot(deals, SnapshotOptions{Mode: schema.ValueMode}) {
		assert.False(t, r.Total.IsNegative(), r.Title)
	}
	assert.Equal(t, "5", totals(Snapshot(deals, SnapshotOptions{Mode: schema.ValueMode}))["Prospect - 25%"])
}
