package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/cgtcalc/journal"
	"github.com/robinvdvleuten/cgtcalc/loader"
)

func TestPrintHelpers(t *testing.T) {
	var buf bytes.Buffer

	printSuccess(&buf, "all good")
	assert.Contains(t, buf.String(), "all good")

	buf.Reset()
	printError(&buf, "it broke")
	assert.Contains(t, buf.String(), "it broke")

	buf.Reset()
	printWarning(&buf, "watch out")
	assert.Contains(t, buf.String(), "watch out")

	buf.Reset()
	printInfof(&buf, "report written to %s", "out.txt")
	assert.Contains(t, buf.String(), "report written to out.txt")
}

func TestFileOrStdin_File(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "trades.cgt")
	content := []byte("2024-01-15 BUY VOD 100 @ 120 GBP\n")
	err := os.WriteFile(file, content, 0o644)
	assert.NoError(t, err)

	f := &FileOrStdin{Filename: file}

	err = f.EnsureContents()
	assert.NoError(t, err)
	assert.Equal(t, file, f.Filename, "a named file is left untouched")

	source, err := f.GetSourceContent()
	assert.NoError(t, err)
	assert.Equal(t, string(content), string(source))

	abs := f.GetAbsoluteFilename()
	assert.True(t, filepath.IsAbs(abs))
	assert.True(t, strings.HasSuffix(abs, "trades.cgt"))

	transactions, rates, err := f.LoadJournal(context.Background(), loader.New())
	assert.NoError(t, err)
	assert.Equal(t, 1, len(transactions))
	assert.Equal(t, journal.Buy, transactions[0].Operation)
	assert.NotZero(t, rates)
}

func TestFileOrStdin_StdinContents(t *testing.T) {
	content := []byte("2024-01-15 BUY VOD 100 @ 120 GBP\n")
	f := &FileOrStdin{Filename: "<stdin>", Contents: content}

	source, err := f.GetSourceContent()
	assert.NoError(t, err)
	assert.Equal(t, string(content), string(source))

	assert.Equal(t, "<stdin>", f.GetAbsoluteFilename())

	transactions, _, err := f.LoadJournal(context.Background(), loader.New())
	assert.NoError(t, err)
	assert.Equal(t, 1, len(transactions))
}

func TestFileOrStdin_MissingFile(t *testing.T) {
	f := &FileOrStdin{Filename: filepath.Join(t.TempDir(), "absent.cgt")}

	_, err := f.GetSourceContent()
	assert.Error(t, err)

	_, _, err = f.LoadJournal(context.Background(), loader.New())
	assert.Error(t, err)
}
