package parser

import "fmt"

// Position is a location in journal source.
type Position struct {
	Filename string
	Line     int
	Column   int
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("line %d", p.Line)
	}
	return fmt.Sprintf("%s:%d", p.Filename, p.Line)
}

// ParseError represents a syntax error during parsing.
type ParseError struct {
	Pos     Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

func (e *ParseError) GetPosition() Position {
	return e.Pos
}

// NewParseError creates a parse error at the given location.
func NewParseError(filename string, line, column int, format string, args ...interface{}) *ParseError {
	return &ParseError{
		Pos:     Position{Filename: filename, Line: line, Column: column},
		Message: fmt.Sprintf(format, args...),
	}
}

func (p *lineParser) errorAt(f field, format string, args ...interface{}) *ParseError {
	return NewParseError(p.filename, p.line, f.col, format, args...)
}
