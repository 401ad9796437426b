package tokjson

import (
	"reflect"
	"sync"
)

// Unmarshaler is the self-describing parse hook. A type implementing it on
// its pointer receiver fully owns its parsing: the dispatcher hands over
// the live cursor and never applies structural rules to the type.
type Unmarshaler interface {
	UnmarshalTokens(tok *Tokens) error
}

// Marshaler is the self-describing dump hook, mirroring Unmarshaler.
type Marshaler interface {
	MarshalTokens(w *Writer)
}

// Codec is the out-of-line extension point for types that cannot carry
// methods of their own. A registered codec fully owns the type's
// marshalling; structural rules are never mixed in.
type Codec[T any] interface {
	ParseTokens(tok *Tokens) (T, error)
	DumpTokens(v T, w *Writer)
}

// codecEntry is the untyped form a registered codec is stored in.
type codecEntry struct {
	parse func(tok *Tokens, target reflect.Value) error
	dump  func(v reflect.Value, w *Writer)
}

var (
	codecMu sync.RWMutex
	codecs  = map[reflect.Type]codecEntry{}
)

// RegisterCodec registers c for type T. Registration must precede the
// first parse or dump of T: dispatch for a type is resolved once and
// cached, so a later registration is never seen.
func RegisterCodec[T any](c Codec[T]) {
	ty := reflect.TypeFor[T]()
	entry := codecEntry{
		parse: func(tok *Tokens, target reflect.Value) error {
			v, err := c.ParseTokens(tok)
			if err != nil {
				return err
			}
			target.Set(reflect.ValueOf(v))
			return nil
		},
		dump: func(v reflect.Value, w *Writer) {
			c.DumpTokens(v.Interface().(T), w)
		},
	}

	codecMu.Lock()
	codecs[ty] = entry
	codecMu.Unlock()
}

func lookupCodec(ty reflect.Type) (codecEntry, bool) {
	codecMu.RLock()
	entry, ok := codecs[ty]
	codecMu.RUnlock()
	return entry, ok
}
