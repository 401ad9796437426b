package tokjson

import (
	"reflect"
	"strings"
)

// Field binds one JSON object key to a caller-owned variable for the
// duration of a single ParseObject or DumpObject call. Fields are
// call-local: create them inline, pass them in, let them go. Reusing a
// Field across calls carries its set state along and is a caller error.
type Field struct {
	name     string
	optional bool
	set      bool

	parse func(tok *Tokens) error
	dump  func(w *Writer)
}

// Bind borrows *ref as the storage for the object key name. The same
// binding serves both directions: ParseObject writes through ref,
// DumpObject reads through it.
func Bind[T any](name string, ref *T) *Field {
	return &Field{
		name:     name,
		optional: reflect.TypeFor[T]().Kind() == reflect.Pointer,
		parse: func(tok *Tokens) error {
			v, err := ParseTokens[T](tok)
			if err != nil {
				return err
			}
			*ref = v
			return nil
		},
		dump: func(w *Writer) {
			DumpTokens(*ref, w)
		},
	}
}

// ready holds once the field was parsed, or always for nullable fields.
func (f *Field) ready() bool {
	return f.set || f.optional
}

// ParseObject parses a JSON object into the given fields. Every key must
// match exactly one field, no key may repeat, and at end-of-object every
// non-nullable field must have been seen. The first failure anywhere,
// including inside a field's value, aborts the whole parse.
//
// Duplicate names among the fields themselves are a caller programming
// error and are not detected.
func ParseObject(tok *Tokens, fields ...*Field) error {
	t, ok := tok.Next()
	if !ok {
		return tok.endError()
	}
	if t.Kind != KindStartObject {
		return unexpectedToken(t, tok, KindStartObject)
	}

	byName := make(map[string]int, len(fields))
	for idx, field := range fields {
		byName[field.name] = idx
	}

	for {
		t, ok := tok.Next()
		if !ok {
			return tok.endError()
		}

		if t.Kind == KindEndObject {
			if missing := missingKeys(fields); missing != "" {
				return parseError("missing keys: "+missing, tok)
			}
			return nil
		}

		if t.Kind != KindKey {
			return unexpectedToken(t, tok, KindKey, KindEndObject)
		}

		idx, ok := byName[t.Str]
		if !ok {
			return parseError("unexpected key: "+t.Str, tok)
		}

		field := fields[idx]
		if field.set {
			return parseError("duplicate key: "+t.Str, tok)
		}

		if err := field.parse(tok); err != nil {
			return err
		}
		field.set = true
	}
}

func missingKeys(fields []*Field) string {
	var names []string
	for _, field := range fields {
		if !field.ready() {
			names = append(names, field.name)
		}
	}
	return strings.Join(names, ", ")
}

// ParseFrom parses a value of type S and converts it with f. A conversion
// failure surfaces as-is when f already returns this package's error type;
// anything else becomes a parse error without a path, since the path
// context for S has closed by the time f runs.
func ParseFrom[S, T any](tok *Tokens, f func(S) (T, error)) (T, error) {
	var zero T

	s, err := ParseTokens[S](tok)
	if err != nil {
		return zero, err
	}

	v, err := f(s)
	if err != nil {
		if _, ok := AsError(err); ok {
			return zero, err
		}
		return zero, &Error{Kind: ParseError, Message: err.Error()}
	}

	return v, nil
}

// DumpObject emits the fields as a JSON object in declaration order.
// Always succeeds.
func DumpObject(w *Writer, fields ...*Field) {
	w.StartObject()
	for _, field := range fields {
		w.Key(field.name)
		field.dump(w)
	}
	w.EndObject()
}
