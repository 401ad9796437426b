package tokjson

import (
	"errors"
	"io"
)

// Tokens is the cursor a parse drives over the token stream. It pulls
// lazily from the tokenizer, caching at most one token ahead, and
// optionally maintains the structural path of every token it produces.
//
// A Tokens value is owned by a single parse call and must not be shared.
type Tokens struct {
	src     *tokenizer
	readErr error // reader failure before tokenizing started

	ahead    Token
	hasAhead bool

	err  error // tokenizer failure, nil on clean exhaustion
	done bool

	path *pathTracker // nil on the non-tracking variant
}

// NewTokens returns a path-tracking cursor over json text. This is the
// cursor Parse builds; it is exported so self-describing types and tests
// can drive parses directly.
func NewTokens(json string) *Tokens {
	return NewTokensBytes([]byte(json))
}

// NewTokensBytes returns a path-tracking cursor over json bytes.
func NewTokensBytes(data []byte) *Tokens {
	return &Tokens{src: newTokenizer(data), path: &pathTracker{}}
}

// NewTokensReader returns a path-tracking cursor reading json from r. The
// input is drained before tokenizing starts.
func NewTokensReader(r io.Reader) *Tokens {
	src, err := newTokenizerReader(r)
	if err != nil {
		return &Tokens{readErr: err, path: &pathTracker{}}
	}
	return &Tokens{src: src, path: &pathTracker{}}
}

// newPlainTokens returns a cursor without path tracking; errors it produces
// carry no location.
func newPlainTokens(data []byte) *Tokens {
	return &Tokens{src: newTokenizer(data)}
}

// acquire makes sure one token is cached ahead, or records why none is
// available. It feeds the path tracker exactly once per fresh token.
func (t *Tokens) acquire() bool {
	if t.hasAhead {
		return true
	}
	if t.done || t.err != nil {
		return false
	}
	if t.readErr != nil {
		t.err = t.readErr
		return false
	}

	tok, err := t.src.next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			t.done = true
		} else {
			t.err = err
		}
		return false
	}

	if t.path != nil {
		t.path.observe(tok)
	}
	t.ahead = tok
	t.hasAhead = true
	return true
}

// Peek returns the next token without consuming it. Idempotent.
func (t *Tokens) Peek() (Token, bool) {
	if !t.acquire() {
		return Token{}, false
	}
	return t.ahead, true
}

// Next consumes and returns the next token.
func (t *Tokens) Next() (Token, bool) {
	if !t.acquire() {
		return Token{}, false
	}
	t.hasAhead = false
	return t.ahead, true
}

// Err returns the tokenizer failure, or nil when the stream is intact.
// Exhaustion is not an error; see IsComplete.
func (t *Tokens) Err() error {
	return t.err
}

// IsComplete reports whether all lexical events have been consumed,
// including the one-token lookahead. It pulls ahead to observe exhaustion;
// an already-cached token survives, so the check does not consume anything.
func (t *Tokens) IsComplete() bool {
	if t.acquire() {
		return false
	}
	return t.done
}

// Path returns the rendering of the current structural location. The second
// result is false on cursors that do not track paths.
func (t *Tokens) Path() (string, bool) {
	if t.path == nil {
		return "", false
	}
	return t.path.render(), true
}

// endError turns "no next token" into the right error: a JSON error when
// the tokenizer failed, a parse error on clean exhaustion.
func (t *Tokens) endError() *Error {
	if err := t.Err(); err != nil {
		return jsonError(err.Error(), t)
	}
	return parseError("unexpected end of json", t)
}
