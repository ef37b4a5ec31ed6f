package errors

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/cgtcalc/parser"
)

const source = `2024-01-15 BUY VOD 100 @ 120 GBP
2024-02-20 SELL VOD fifty @ 130 GBP
2024-03-01 DIVIDEND VOD 150 TOTAL 20 GBP`

func parseErr(t *testing.T) *parser.ParseError {
	t.Helper()
	_, err := parser.Parse(source)
	assert.Error(t, err)
	pe, ok := err.(*parser.ParseError)
	assert.True(t, ok, "should be ParseError, got %T", err)
	return pe
}

func TestTextFormatter_WithoutSource(t *testing.T) {
	pe := parseErr(t)
	tf := NewTextFormatter()

	out := tf.Format(pe)
	assert.Equal(t, pe.Error(), out)
}

func TestTextFormatter_WithSource(t *testing.T) {
	pe := parseErr(t)
	tf := NewTextFormatter(WithSource([]byte(source)))

	out := tf.Format(pe)
	assert.Contains(t, out, pe.Error())
	assert.Contains(t, out, "2024-02-20 SELL VOD fifty @ 130 GBP")
	assert.Contains(t, out, "^")

	// The caret sits under the offending token.
	lines := strings.Split(out, "\n")
	var caret, offending string
	for i, line := range lines {
		if strings.Contains(line, "^") {
			caret = line
			offending = lines[i-1]
		}
	}
	assert.NotEqual(t, "", caret, "caret line should be present")
	assert.Equal(t, strings.Index(offending, "fifty"), strings.Index(caret, "^"))
}

func TestTextFormatter_PlainError(t *testing.T) {
	tf := NewTextFormatter(WithSource([]byte(source)))
	out := tf.Format(errors.New("boom"))
	assert.Equal(t, "boom", out)
}

func TestTextFormatter_FormatAll(t *testing.T) {
	tf := NewTextFormatter()
	assert.Equal(t, "", tf.FormatAll(nil))

	out := tf.FormatAll([]error{errors.New("first"), errors.New("second")})
	assert.Equal(t, "first\n\nsecond", out)
}

func TestJSONFormatter(t *testing.T) {
	pe := parseErr(t)
	jf := NewJSONFormatter()

	var doc ErrorJSON
	err := json.Unmarshal([]byte(jf.Format(pe)), &doc)
	assert.NoError(t, err)
	assert.Equal(t, pe.Error(), doc.Message)
	assert.NotZero(t, doc.Position)
	assert.Equal(t, 2, doc.Position.Line)

	var docs []ErrorJSON
	err = json.Unmarshal([]byte(jf.FormatAll([]error{pe, errors.New("plain")})), &docs)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(docs))
	assert.Zero(t, docs[1].Position, "plain errors carry no position")
}
