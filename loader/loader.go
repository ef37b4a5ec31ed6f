// Package loader reads journals and exchange rate tables from disk and
// can watch a journal for changes.
//
// Example usage:
//
//	ldr := loader.New(loader.WithRatesDir("rates/"))
//	journal, rates, err := ldr.Load(ctx, "trades.cgt")
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/robinvdvleuten/cgtcalc/fx"
	"github.com/robinvdvleuten/cgtcalc/journal"
	"github.com/robinvdvleuten/cgtcalc/parser"
	"github.com/robinvdvleuten/cgtcalc/telemetry"
)

// Loader reads journal files and, optionally, a directory of HMRC
// monthly exchange rate documents.
type Loader struct {
	// RatesDir is a directory of HMRC exchange rate XML files. Empty
	// means no rates are loaded and foreign-currency journals will fail
	// calculation.
	RatesDir string
}

// Option configures a Loader.
type Option func(*Loader)

// WithRatesDir points the loader at a directory of HMRC monthly
// exchange rate XML documents.
func WithRatesDir(dir string) Option {
	return func(l *Loader) {
		l.RatesDir = dir
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads and parses a journal file, plus the rate directory when
// configured.
func (l *Loader) Load(ctx context.Context, filename string) ([]*journal.Transaction, *fx.Cache, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return l.LoadBytes(ctx, filename, data)
}

// LoadBytes parses journal content already in memory, attributing
// errors to filename.
func (l *Loader) LoadBytes(ctx context.Context, filename string, data []byte) ([]*journal.Transaction, *fx.Cache, error) {
	timer := telemetry.StartTimer(ctx, fmt.Sprintf("loader.load %s", filepath.Base(filename)))
	defer timer.End()

	transactions, err := parser.ParseNamed(filename, data)
	if err != nil {
		return nil, nil, err
	}

	rates, err := l.loadRates()
	if err != nil {
		return nil, nil, err
	}

	return transactions, rates, nil
}

func (l *Loader) loadRates() (*fx.Cache, error) {
	if l.RatesDir == "" {
		return fx.NewCache(), nil
	}
	return fx.LoadDir(l.RatesDir)
}

// Watch invokes fn for the journal file's current content and then
// again every time the file changes, until the context is cancelled.
// Editors that replace files on save (rename + create) are handled by
// re-adding the watch after such events.
func (l *Loader) Watch(ctx context.Context, filename string, fn func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(filename)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target, err := filepath.Abs(filename)
	if err != nil {
		return err
	}

	fn()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				fn()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
