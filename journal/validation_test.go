package journal

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name         string
		transactions []*Transaction
		wantErrors   int
		wantWarnings int
	}{
		{
			name: "clean journal",
			transactions: []*Transaction{
				{Date: MustParseDate("2024-01-01"), Operation: Buy, Ticker: "VOD", Quantity: decimal.NewFromInt(100), Price: decimal.NewFromInt(10)},
				{Date: MustParseDate("2024-02-01"), Operation: Sell, Ticker: "VOD", Quantity: decimal.NewFromInt(50), Price: decimal.NewFromInt(12)},
			},
		},
		{
			name: "zero quantity trade",
			transactions: []*Transaction{
				{Date: MustParseDate("2024-01-01"), Operation: Buy, Ticker: "VOD", Price: decimal.NewFromInt(10)},
			},
			wantErrors: 1,
		},
		{
			name: "negative price and fees",
			transactions: []*Transaction{
				{Date: MustParseDate("2024-01-01"), Operation: Buy, Ticker: "VOD", Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(-10), Fees: decimal.NewFromInt(-1)},
			},
			wantErrors: 2,
		},
		{
			name: "zero split ratio",
			transactions: []*Transaction{
				{Date: MustParseDate("2024-01-01"), Operation: Split, Ticker: "VOD"},
			},
			wantErrors: 1,
		},
		{
			name: "negative dividend total",
			transactions: []*Transaction{
				{Date: MustParseDate("2024-01-01"), Operation: Dividend, Ticker: "VOD", Quantity: decimal.NewFromInt(100), Total: decimal.NewFromInt(-5)},
			},
			wantErrors: 1,
		},
		{
			name: "sell without any purchase",
			transactions: []*Transaction{
				{Date: MustParseDate("2024-01-01"), Operation: Sell, Ticker: "VOD", Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(10)},
			},
			wantWarnings: 1,
		},
		{
			name: "sell precedes first purchase",
			transactions: []*Transaction{
				{Date: MustParseDate("2024-01-01"), Operation: Sell, Ticker: "VOD", Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(10)},
				{Date: MustParseDate("2024-02-01"), Operation: Buy, Ticker: "VOD", Quantity: decimal.NewFromInt(10), Price: decimal.NewFromInt(10)},
			},
			wantWarnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.transactions)
			assert.Equal(t, tt.wantErrors, len(result.Errors))
			assert.Equal(t, tt.wantWarnings, len(result.Warnings))
			assert.Equal(t, tt.wantErrors == 0, result.IsValid())
			assert.Equal(t, tt.wantErrors == 0 && tt.wantWarnings == 0, result.IsClean())
		})
	}
}

func TestIssue_String(t *testing.T) {
	issue := &Issue{Ticker: "VOD", Date: MustParseDate("2024-01-01"), Line: 3, Message: "quantity must be positive, got 0"}
	assert.Equal(t, "line 3: VOD on 2024-01-01 - quantity must be positive, got 0", issue.String())

	issue.Line = 0
	assert.Equal(t, "VOD on 2024-01-01 - quantity must be positive, got 0", issue.String())
}
