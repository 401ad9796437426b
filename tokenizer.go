package tokjson

import (
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/tidwall/jsonc"
)

// tokenizer adapts the goccy/go-json pull decoder to the Token model. The
// decoder emits object keys as plain strings, so a container stack tracks
// whether the next string inside an object is a key or a value.
//
// Input bytes are preprocessed with jsonc.ToJSON, which rewrites trailing
// commas and // and /* */ comments to whitespace without moving offsets.
// The decoder then only ever sees standard JSON.
type tokenizer struct {
	dec     *json.Decoder
	stack   []tokenizerFrame
	invalid error // input rejected up front; next never produces a token
}

type tokenizerFrame struct {
	isObject     bool
	expectingKey bool
}

var errInvalidJSON = errors.New("invalid json input")

func newTokenizer(data []byte) *tokenizer {
	data = jsonc.ToJSON(data)

	z := &tokenizer{}

	// the pull decoder does not validate the full grammar (a missing colon
	// between key and value slips through), so the document is checked as a
	// whole before any token is produced. Empty input is not invalid; it is
	// clean exhaustion.
	if len(bytes.TrimSpace(data)) > 0 && !json.Valid(data) {
		z.invalid = errInvalidJSON
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	z.dec = dec
	return z
}

// newTokenizerReader tokenizes from a reader. The jsonc preprocessing needs
// the whole input, so the reader is drained up front.
func newTokenizerReader(r io.Reader) (*tokenizer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return newTokenizer(data), nil
}

// next pulls one token. It returns io.EOF when the input is cleanly
// exhausted; any other error means the input is malformed.
func (z *tokenizer) next() (Token, error) {
	if z.invalid != nil {
		return Token{}, z.invalid
	}

	raw, err := z.dec.Token()
	if err != nil {
		return Token{}, err
	}

	switch v := raw.(type) {
	case json.Delim:
		switch v {
		case '{':
			z.stack = append(z.stack, tokenizerFrame{isObject: true, expectingKey: true})
			return Token{Kind: KindStartObject}, nil
		case '}':
			z.popFrame()
			return Token{Kind: KindEndObject}, nil
		case '[':
			z.stack = append(z.stack, tokenizerFrame{})
			return Token{Kind: KindStartArray}, nil
		case ']':
			z.popFrame()
			return Token{Kind: KindEndArray}, nil
		}
		return Token{}, io.ErrUnexpectedEOF

	case string:
		if z.inObjectExpectingKey() {
			z.top().expectingKey = false
			return Token{Kind: KindKey, Str: v}, nil
		}
		z.valueDone()
		return Token{Kind: KindString, Str: v}, nil

	case bool:
		z.valueDone()
		return Token{Kind: KindBool, Bool: v}, nil

	case json.Number:
		z.valueDone()
		return classifyNumber(string(v)), nil

	case float64:
		// UseNumber makes this unreachable; kept for decoder compatibility.
		z.valueDone()
		return Token{Kind: KindDouble, Double: v}, nil

	case nil:
		z.valueDone()
		return Token{Kind: KindNull}, nil
	}

	return Token{}, io.ErrUnexpectedEOF
}

// classifyNumber maps a validated number literal onto the narrowest token
// kind: Int for negatives fitting int64, Uint for non-negatives fitting
// uint64, Double otherwise. Literals too large even for float64 surface as
// RawNumber text.
func classifyNumber(s string) Token {
	if !strings.ContainsAny(s, ".eE") {
		if strings.HasPrefix(s, "-") {
			if i, err := strconv.ParseInt(s, 10, 64); err == nil {
				return Token{Kind: KindInt, Int: i}
			}
		} else {
			if u, err := strconv.ParseUint(s, 10, 64); err == nil {
				return Token{Kind: KindUint, Uint: u}
			}
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Token{Kind: KindDouble, Double: f}
	}
	return Token{Kind: KindRawNumber, Str: s}
}

func (z *tokenizer) top() *tokenizerFrame {
	if n := len(z.stack); n > 0 {
		return &z.stack[n-1]
	}
	return nil
}

func (z *tokenizer) inObjectExpectingKey() bool {
	top := z.top()
	return top != nil && top.isObject && top.expectingKey
}

// valueDone flips the enclosing object frame back to expecting a key after
// a complete value token.
func (z *tokenizer) valueDone() {
	if top := z.top(); top != nil && top.isObject {
		top.expectingKey = true
	}
}

// popFrame closes the current container and completes the value slot of the
// enclosing object, if any.
func (z *tokenizer) popFrame() {
	if n := len(z.stack); n > 0 {
		z.stack = z.stack[:n-1]
	}
	z.valueDone()
}
