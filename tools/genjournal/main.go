// Journal Generator
//
// This tool generates a large journal for performance testing and
// profiling. It produces a plausible mix of buys, sells and corporate
// actions across a handful of tickers, keeping a running holding per
// ticker so every sell is covered.
//
// Usage:
//
//	go run main.go > large.cgt
//	go run main.go 50000 > large.cgt  # Specify number of lines
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"
)

const defaultLines = 10000

var tickers = []string{"VOD", "LLOY", "BP.", "HSBA", "TSCO", "GSK", "AZN", "BARC"}

func main() {
	lines := defaultLines
	if len(os.Args) > 1 {
		n, err := strconv.Atoi(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid line count %q\n", os.Args[1])
			os.Exit(1)
		}
		lines = n
	}

	rng := rand.New(rand.NewSource(42))
	holdings := make(map[string]int)
	date := time.Date(2015, time.April, 6, 0, 0, 0, 0, time.UTC)

	for i := 0; i < lines; i++ {
		date = date.AddDate(0, 0, rng.Intn(3))
		ticker := tickers[rng.Intn(len(tickers))]
		day := date.Format("2006-01-02")
		price := 50 + rng.Intn(950)

		switch roll := rng.Intn(100); {
		case roll < 55 || holdings[ticker] == 0:
			quantity := 10 + rng.Intn(490)
			holdings[ticker] += quantity
			fmt.Printf("%s BUY %s %d @ %d GBP FEES %d GBP\n", day, ticker, quantity, price, rng.Intn(15))
		case roll < 90:
			quantity := 1 + rng.Intn(holdings[ticker])
			holdings[ticker] -= quantity
			fmt.Printf("%s SELL %s %d @ %d GBP FEES %d GBP\n", day, ticker, quantity, price, rng.Intn(15))
		case roll < 95:
			fmt.Printf("%s DIVIDEND %s %d TOTAL %d GBP\n", day, ticker, holdings[ticker], 1+rng.Intn(200))
		default:
			holdings[ticker] *= 2
			fmt.Printf("%s SPLIT %s RATIO 2\n", day, ticker)
		}
	}
}
