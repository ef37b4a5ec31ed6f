// Package errors provides error formatting infrastructure for
// presenting parse and validation findings to consumers. Domain error
// types live in their own packages; this package is only the
// presentation layer, with text output for the CLI and JSON output for
// tooling.
package errors

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/robinvdvleuten/cgtcalc/parser"
)

// Formatter formats errors for output.
type Formatter interface {
	// Format formats a single error.
	Format(err error) string

	// FormatAll formats multiple errors.
	FormatAll(errs []error) string
}

// TextFormatter renders errors for command-line output, quoting the
// offending source line with a caret when source content is available.
type TextFormatter struct {
	sourceContent []byte
}

// TextFormatterOption configures a TextFormatter.
type TextFormatterOption func(*TextFormatter)

// WithSource sets the journal source for error context.
func WithSource(source []byte) TextFormatterOption {
	return func(tf *TextFormatter) {
		tf.sourceContent = source
	}
}

// NewTextFormatter creates a text formatter.
func NewTextFormatter(opts ...TextFormatterOption) *TextFormatter {
	tf := &TextFormatter{}
	for _, opt := range opts {
		opt(tf)
	}
	return tf
}

// Format formats a single error, with source context when the error
// carries a position and source content is available.
func (tf *TextFormatter) Format(err error) string {
	if e, ok := err.(*parser.ParseError); ok && tf.sourceContent != nil {
		return tf.withSourceContext(e.Pos.Line, e.Pos.Column, e.Error())
	}

	if e, ok := err.(interface {
		GetPosition() parser.Position
		Error() string
	}); ok && tf.sourceContent != nil {
		pos := e.GetPosition()
		return tf.withSourceContext(pos.Line, pos.Column, e.Error())
	}

	return err.Error()
}

// FormatAll formats multiple errors, separated by blank lines.
func (tf *TextFormatter) FormatAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf bytes.Buffer
	for i, err := range errs {
		buf.WriteString(tf.Format(err))
		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

// withSourceContext shows the message followed by the surrounding
// source lines, with a caret under the error column.
func (tf *TextFormatter) withSourceContext(line, column int, message string) string {
	var buf bytes.Buffer

	buf.WriteString(message)
	buf.WriteString("\n\n")

	sourceLines := strings.Split(string(tf.sourceContent), "\n")

	startLine := line - 3
	endLine := line + 1
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(sourceLines) {
		endLine = len(sourceLines) - 1
	}

	for i := startLine; i <= endLine; i++ {
		if i >= len(sourceLines) {
			break
		}
		buf.WriteString("   ")
		buf.WriteString(sourceLines[i])
		buf.WriteByte('\n')

		if i == line-1 && column > 0 {
			buf.WriteString("   ")
			buf.WriteString(strings.Repeat(" ", column-1))
			buf.WriteString("^\n")
		}
	}

	return buf.String()
}

// JSONFormatter formats errors as JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// ErrorJSON represents an error in JSON form.
type ErrorJSON struct {
	Type     string        `json:"type"`
	Message  string        `json:"message"`
	Position *PositionJSON `json:"position,omitempty"`
}

// PositionJSON represents a source position in JSON form.
type PositionJSON struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

// Format formats a single error as JSON.
func (jf *JSONFormatter) Format(err error) string {
	data, _ := json.Marshal(jf.toJSON(err))
	return string(data)
}

// FormatAll formats multiple errors as a JSON array.
func (jf *JSONFormatter) FormatAll(errs []error) string {
	result := make([]ErrorJSON, 0, len(errs))
	for _, err := range errs {
		result = append(result, jf.toJSON(err))
	}
	data, _ := json.MarshalIndent(result, "", "  ")
	return string(data)
}

func (jf *JSONFormatter) toJSON(err error) ErrorJSON {
	errJSON := ErrorJSON{
		Type:    fmt.Sprintf("%T", err),
		Message: err.Error(),
	}

	if e, ok := err.(interface{ GetPosition() parser.Position }); ok {
		pos := e.GetPosition()
		errJSON.Position = &PositionJSON{
			Filename: pos.Filename,
			Line:     pos.Line,
			Column:   pos.Column,
		}
	}

	return errJSON
}
