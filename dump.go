package tokjson

import (
	"io"
	"math"
	"reflect"
	"sync"
)

// A dumperFunc emits one value as writer events. Dumping is total: a
// well-typed value always produces a complete JSON value.
type dumperFunc func(v reflect.Value, w *Writer)

var tyMarshaler = reflect.TypeFor[Marshaler]()

// Cache for dumpers, indexed by reflect.Type.
var dumperCache sync.Map

// Dump emits v as a JSON string.
func Dump[T any](v T) string {
	w := NewWriter()
	DumpTokens(v, w)
	return w.BuildString()
}

// DumpTo emits v as JSON into out.
func DumpTo[T any](v T, out io.Writer) error {
	w := NewWriter()
	DumpTokens(v, w)
	return w.DumpTo(out)
}

// DumpTokens emits one value of type T into a live writer. This is the
// recursion point MarshalTokens implementations call for their parts.
// A type outside the closed classification set is a programming error and
// panics with NotSupportedError before anything is emitted.
func DumpTokens[T any](v T, w *Writer) {
	dumper, err := dumperOf(typeSet{}, reflect.TypeFor[T]())
	if err != nil {
		panic(err)
	}

	dumper(reflect.ValueOf(v), w)
}

func dumperOf(inConstruction typeSet, ty reflect.Type) (dumperFunc, error) {
	if cached, ok := dumperCache.Load(ty); ok {
		return cached.(dumperFunc), nil
	}

	if _, ok := inConstruction[ty]; ok {
		lazyDumper := func(v reflect.Value, w *Writer) {
			cached, _ := dumperCache.Load(ty)
			cached.(dumperFunc)(v, w)
		}

		return lazyDumper, nil
	}

	inConstruction[ty] = struct{}{}

	dumper, err := makeDumperOf(inConstruction, ty)
	if err != nil {
		return nil, err
	}

	dumperCache.Store(ty, dumper)

	return dumper, nil
}

// makeDumperOf mirrors the parse classification: pointers are nullable,
// then the self-describing method, then a registered codec, then the
// structural rules.
func makeDumperOf(inConstruction typeSet, ty reflect.Type) (dumperFunc, error) {
	if ty.Kind() == reflect.Pointer {
		return makeDumpNullable(inConstruction, ty)
	}

	if ty.Implements(tyMarshaler) {
		return dumpSelfDescribing, nil
	}
	if reflect.PointerTo(ty).Implements(tyMarshaler) {
		return makeDumpAddressed(ty), nil
	}

	if codec, ok := lookupCodec(ty); ok {
		return codec.dump, nil
	}

	switch ty.Kind() {
	case reflect.Bool:
		return dumpBool, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return dumpInt, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return dumpUint, nil

	case reflect.Float32:
		return dumpFloat32, nil

	case reflect.Float64:
		return dumpFloat64, nil

	case reflect.String:
		return dumpString, nil

	case reflect.Slice:
		return makeDumpSlice(inConstruction, ty)

	case reflect.Map:
		if isSetType(ty) {
			return makeDumpSet(inConstruction, ty)
		}
		return makeDumpMap(inConstruction, ty)

	default:
		return nil, NotSupportedError{Type: ty}
	}
}

func dumpSelfDescribing(v reflect.Value, w *Writer) {
	v.Interface().(Marshaler).MarshalTokens(w)
}

// makeDumpAddressed serves types whose MarshalTokens has a pointer
// receiver. Dump values are not addressable, so the value is copied once.
func makeDumpAddressed(ty reflect.Type) dumperFunc {
	return func(v reflect.Value, w *Writer) {
		pv := reflect.New(ty)
		pv.Elem().Set(v)
		pv.Interface().(Marshaler).MarshalTokens(w)
	}
}

func dumpBool(v reflect.Value, w *Writer) {
	w.Bool(v.Bool())
}

// dumpInt picks the narrowest-but-correct writer primitive: negative
// values take the signed path, everything else the unsigned one. This
// avoids sign-extension artifacts in the underlying writer.
func dumpInt(v reflect.Value, w *Writer) {
	i := v.Int()
	if i < 0 {
		if inRange(i, int64(math.MinInt32), int64(math.MaxInt32)) {
			w.Int32(int32(i))
		} else {
			w.Int64(i)
		}
		return
	}
	emitUint(uint64(i), w)
}

func dumpUint(v reflect.Value, w *Writer) {
	emitUint(v.Uint(), w)
}

func emitUint(u uint64, w *Writer) {
	if inRange(u, uint64(0), uint64(math.MaxUint32)) {
		w.Uint32(uint32(u))
	} else {
		w.Uint64(u)
	}
}

// dumpFloat32 keeps the 32-bit formatting so float32 values round-trip
// without widening artifacts.
func dumpFloat32(v reflect.Value, w *Writer) {
	w.Float32(float32(v.Float()))
}

func dumpFloat64(v reflect.Value, w *Writer) {
	w.Float64(v.Float())
}

func dumpString(v reflect.Value, w *Writer) {
	w.String(v.String())
}

func makeDumpNullable(inConstruction typeSet, ty reflect.Type) (dumperFunc, error) {
	pointeeDumper, err := dumperOf(inConstruction, ty.Elem())
	if err != nil {
		return nil, err
	}

	dumper := func(v reflect.Value, w *Writer) {
		if v.IsNil() {
			w.Null()
			return
		}
		pointeeDumper(v.Elem(), w)
	}

	return dumper, nil
}

func makeDumpSlice(inConstruction typeSet, ty reflect.Type) (dumperFunc, error) {
	elementDumper, err := dumperOf(inConstruction, ty.Elem())
	if err != nil {
		return nil, err
	}

	dumper := func(v reflect.Value, w *Writer) {
		w.StartArray()
		for idx := range v.Len() {
			elementDumper(v.Index(idx), w)
		}
		w.EndArray()
	}

	return dumper, nil
}

// makeDumpSet emits a map[K]struct{} as a JSON array of its keys, in the
// map's iteration order.
func makeDumpSet(inConstruction typeSet, ty reflect.Type) (dumperFunc, error) {
	keyDumper, err := dumperOf(inConstruction, ty.Key())
	if err != nil {
		return nil, err
	}

	dumper := func(v reflect.Value, w *Writer) {
		w.StartArray()
		iter := v.MapRange()
		for iter.Next() {
			keyDumper(iter.Key(), w)
		}
		w.EndArray()
	}

	return dumper, nil
}

func makeDumpMap(inConstruction typeSet, ty reflect.Type) (dumperFunc, error) {
	if ty.Key().Kind() != reflect.String {
		return nil, NotSupportedError{Type: ty}
	}

	valueDumper, err := dumperOf(inConstruction, ty.Elem())
	if err != nil {
		return nil, err
	}

	dumper := func(v reflect.Value, w *Writer) {
		w.StartObject()
		iter := v.MapRange()
		for iter.Next() {
			w.Key(iter.Key().String())
			valueDumper(iter.Value(), w)
		}
		w.EndObject()
	}

	return dumper, nil
}
