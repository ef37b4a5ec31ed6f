package calculator

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/robinvdvleuten/cgtcalc/parser"
)

// BenchmarkProcess benchmarks a small mixed journal
func BenchmarkProcess(b *testing.B) {
	input := `
2023-01-10 BUY VOD 100 @ 10 GBP FEES 5 GBP
2023-02-01 DIVIDEND VOD 100 TOTAL 30 GBP
2023-03-01 CAPRETURN VOD 100 TOTAL 50 GBP
2023-04-01 SPLIT VOD RATIO 2
2023-06-01 SELL VOD 80 @ 8 GBP FEES 5 GBP
2023-06-10 BUY VOD 40 @ 7 GBP
`

	transactions, err := parser.Parse(input)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		calc := New()
		if _, err := calc.Process(context.Background(), transactions); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkProcessLargeJournal benchmarks matching over many disposals
// feeding off one growing pool.
func BenchmarkProcessLargeJournal(b *testing.B) {
	var sb strings.Builder
	day := time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	next := func() string {
		s := day.Format("2006-01-02")
		day = day.AddDate(0, 0, 1)
		return s
	}
	for i := 0; i < 200; i++ {
		fmt.Fprintf(&sb, "%s BUY VOD 100 @ %d GBP\n", next(), 10+i%5)
		fmt.Fprintf(&sb, "%s SELL VOD 60 @ %d GBP\n", next(), 12+i%5)
	}

	transactions, err := parser.Parse(sb.String())
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		calc := New()
		if _, err := calc.Process(context.Background(), transactions); err != nil {
			b.Fatal(err)
		}
	}
}
