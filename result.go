package tokjson

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrorKind separates failures of the raw input from failures of shape.
type ErrorKind int

const (
	// JSONError means the tokenizer could not produce the next lexical
	// event: bad syntax, truncated input.
	JSONError ErrorKind = iota

	// ParseError means the input is lexically valid JSON that does not
	// match the expected shape: wrong token kind, out-of-range integer,
	// missing/duplicate/unexpected key, or a rejected conversion.
	ParseError
)

// Error is the single error type every parse in this package produces. It
// travels unchanged through every enclosing recursive call: kind, message
// and path are set once, at the point of failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Path    string // empty when no path is available
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return e.Message + " at " + e.Path
}

// AsError extracts the typed error from err.
func AsError(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

func jsonError(message string, tok *Tokens) *Error {
	path, _ := tok.Path()
	return &Error{Kind: JSONError, Message: message, Path: path}
}

func parseError(message string, tok *Tokens) *Error {
	path, _ := tok.Path()
	return &Error{Kind: ParseError, Message: message, Path: path}
}

// unexpectedToken builds the "expected ..., got ..." message for a token
// of the wrong kind.
func unexpectedToken(got Token, tok *Tokens, expected ...Kind) *Error {
	names := make([]string, len(expected))
	for i, k := range expected {
		names[i] = k.String()
	}
	msg := fmt.Sprintf("expected %s, got %s", strings.Join(names, ", "), got.Kind)
	return parseError(msg, tok)
}

// NotSupportedError reports a type outside the closed classification set.
// It is produced while building a parser or dumper, before any token is
// consumed or emitted.
type NotSupportedError struct {
	Type reflect.Type
}

func (n NotSupportedError) Error() string {
	return fmt.Sprintf("type %q is not supported", n.Type)
}
