// Package tokjson is a type-directed JSON marshalling engine over a
// streaming token model. [Parse] classifies the target type into a small
// closed set of structural categories (scalar, nullable pointer, slice,
// set, string-keyed map) and drives a path-tracking token cursor through
// the input; [Dump] mirrors the classification into writer events.
//
// Object-shaped types do not marshal structurally. They opt in by
// implementing [Unmarshaler] and [Marshaler] — usually on top of
// [ParseObject] and [DumpObject], which handle presence, duplicate and
// unknown keys over a declarative field list — or by registering a [Codec]
// for the type.
//
// Every parse failure is a single *[Error] carrying the failure kind, a
// message and the structural path (for example "root.items[0].n") at which
// the first error occurred.
package tokjson
