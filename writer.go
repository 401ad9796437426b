package tokjson

import (
	"io"

	"github.com/mailru/easyjson/jwriter"
)

// Writer emits a JSON document as a sequence of primitive events. The byte
// encoding (number formatting, string escaping) is delegated to easyjson's
// streaming writer; this type only adds the structural discipline: commas
// between siblings and the colon after each key.
//
// A Writer is owned by a single dump call and must not be shared.
type Writer struct {
	jw      jwriter.Writer
	stack   []writerFrame
	started bool
	built   []byte // extracted contents; the underlying writer drains on build
}

type writerFrame struct {
	isObject bool
	count    int
}

// NewWriter returns a writer over a fresh in-memory buffer.
func NewWriter() *Writer {
	w := &Writer{}
	w.jw.NoEscapeHTML = true
	return w
}

// beforeValue places the separating comma for a value at the current
// position. Values directly after a key need none; the key placed it.
func (w *Writer) beforeValue() {
	w.started = true
	if n := len(w.stack); n > 0 {
		top := &w.stack[n-1]
		if !top.isObject {
			if top.count > 0 {
				w.jw.RawByte(',')
			}
			top.count++
		}
	}
}

func (w *Writer) Null() {
	w.beforeValue()
	w.jw.RawString("null")
}

func (w *Writer) Bool(v bool) {
	w.beforeValue()
	w.jw.Bool(v)
}

func (w *Writer) Int32(v int32) {
	w.beforeValue()
	w.jw.Int32(v)
}

func (w *Writer) Int64(v int64) {
	w.beforeValue()
	w.jw.Int64(v)
}

func (w *Writer) Uint32(v uint32) {
	w.beforeValue()
	w.jw.Uint32(v)
}

func (w *Writer) Uint64(v uint64) {
	w.beforeValue()
	w.jw.Uint64(v)
}

func (w *Writer) Float32(v float32) {
	w.beforeValue()
	w.jw.Float32(v)
}

func (w *Writer) Float64(v float64) {
	w.beforeValue()
	w.jw.Float64(v)
}

func (w *Writer) String(v string) {
	w.beforeValue()
	w.jw.String(v)
}

func (w *Writer) StartObject() {
	w.beforeValue()
	w.jw.RawByte('{')
	w.stack = append(w.stack, writerFrame{isObject: true})
}

// Key emits an object key. Must alternate with exactly one value emit while
// the innermost container is an object.
func (w *Writer) Key(k string) {
	if n := len(w.stack); n > 0 {
		top := &w.stack[n-1]
		if top.count > 0 {
			w.jw.RawByte(',')
		}
		top.count++
	}
	w.jw.String(k)
	w.jw.RawByte(':')
}

func (w *Writer) EndObject() {
	w.jw.RawByte('}')
	w.pop()
}

func (w *Writer) StartArray() {
	w.beforeValue()
	w.jw.RawByte('[')
	w.stack = append(w.stack, writerFrame{})
}

func (w *Writer) EndArray() {
	w.jw.RawByte(']')
	w.pop()
}

func (w *Writer) pop() {
	if n := len(w.stack); n > 0 {
		w.stack = w.stack[:n-1]
	}
}

// IsComplete reports whether a whole value has been written and every
// container closed.
func (w *Writer) IsComplete() bool {
	return w.started && len(w.stack) == 0
}

// buildBytes extracts the buffer once. BuildBytes drains the underlying
// writer's chunks, so the result is cached for repeated extraction.
func (w *Writer) buildBytes() []byte {
	if w.built == nil {
		w.built, _ = w.jw.BuildBytes()
	}
	return w.built
}

// BuildString returns the buffer contents.
func (w *Writer) BuildString() string {
	return string(w.buildBytes())
}

// DumpTo writes the buffer contents to out.
func (w *Writer) DumpTo(out io.Writer) error {
	_, err := out.Write(w.buildBytes())
	return err
}
