package tokjson

import (
	"strconv"
	"strings"
)

// pathComponent is one level of JSON nesting: an object (with the key seen
// last) or an array (with the index of the value currently being read).
type pathComponent struct {
	isArray bool
	key     string
	hasKey  bool
	index   int // -1 before the first element
}

func (c pathComponent) render(b *strings.Builder) {
	if c.isArray {
		if c.index >= 0 {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(c.index))
			b.WriteByte(']')
		}
		return
	}
	if c.hasKey {
		b.WriteByte('.')
		b.WriteString(c.key)
	}
}

// pathTracker maintains the structural location of the token currently
// being processed. It is fed exactly once per token, in token order; the
// component depth then always equals the JSON nesting depth.
type pathTracker struct {
	components []pathComponent
}

// advanceIfArray bumps the innermost array index. Called whenever a value
// begins, including the start of a nested object or array.
func (p *pathTracker) advanceIfArray() {
	if n := len(p.components); n > 0 && p.components[n-1].isArray {
		p.components[n-1].index++
	}
}

func (p *pathTracker) startObject() {
	p.advanceIfArray()
	p.components = append(p.components, pathComponent{})
}

// key records the field name on the innermost component. The driving token
// sequence guarantees the innermost component is an object; a malformed
// sequence is a bug in the cursor, not user input.
func (p *pathTracker) key(k string) {
	if n := len(p.components); n > 0 && !p.components[n-1].isArray {
		p.components[n-1].key = k
		p.components[n-1].hasKey = true
	}
}

func (p *pathTracker) endObject() {
	p.pop()
}

func (p *pathTracker) startArray() {
	p.advanceIfArray()
	p.components = append(p.components, pathComponent{isArray: true, index: -1})
}

func (p *pathTracker) endArray() {
	p.pop()
}

// value handles scalar and null tokens at value positions.
func (p *pathTracker) value() {
	p.advanceIfArray()
}

func (p *pathTracker) pop() {
	if n := len(p.components); n > 0 {
		p.components = p.components[:n-1]
	}
}

// render returns the dotted/bracketed rendering of the current location,
// always beginning with "root".
func (p *pathTracker) render() string {
	var b strings.Builder
	b.WriteString("root")
	for _, c := range p.components {
		c.render(&b)
	}
	return b.String()
}

// observe routes one freshly produced token into the tracker.
func (p *pathTracker) observe(t Token) {
	switch t.Kind {
	case KindStartObject:
		p.startObject()
	case KindKey:
		p.key(t.Str)
	case KindEndObject:
		p.endObject()
	case KindStartArray:
		p.startArray()
	case KindEndArray:
		p.endArray()
	default:
		p.value()
	}
}
