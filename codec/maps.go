// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import "protonet.example/protonet/wire"

// Entry is one key/value pair of a map-shaped member. Go's built-in map
// type has no defined iteration order, but spec §4.2 requires wire order
// to match the source's insertion/iteration order (protobuf-net's
// dictionaries preserve insertion order); the generator therefore targets
// []codec.Entry[K, V] for every map member instead of map[K]V; nil means
// "absent" and an empty, non-nil slice is not a representable wire state
// distinct from absent (spec's empty-map-is-absent rule, scenario 6).
type Entry[K, V any] struct {
	Key   K
	Value V
}

// MapValueCodec is the value-side counterpart of ScalarCodec, generalized
// to also cover message-typed and collection-typed values (spec §4.2:
// "map values that are themselves collections ... encoded ... matching
// protobuf-net's representation"). Write and Size cover field 2 of the
// entry sub-message including its tag; Read decodes the value after
// ReadMapEntry has consumed that tag.
type MapValueCodec[V any] struct {
	Write func(w *wire.Writer, v V) error
	Size  func(s *wire.Sizer, v V) int // returns the bytes Write would emit for v, tag included
	Read  func(r *wire.Reader) (V, error)
}

const (
	mapFieldKey   = 1
	mapFieldValue = 2
)

// WriteMap emits fieldID as a repeated non-packed field of LEN-wrapped
// two-field entries. A nil or empty map writes nothing, matching the
// "empty map = zero wire bytes" rule. A value codec that rejects a null
// element (spec §7 NullInRepeated, for message-typed values) aborts the
// whole write.
func WriteMap[K, V any](w *wire.Writer, fieldID int32, entries []Entry[K, V], keyCodec ScalarCodec[K], valCodec MapValueCodec[V]) error {
	for _, e := range entries {
		contentSize := entryContentSize(e, keyCodec, valCodec)
		err := w.WrappedErr(fieldID, contentSize, func(w *wire.Writer) error {
			w.Tag(mapFieldKey, wireTypeOf(keyCodec))
			keyCodec.Write(w, e.Key)
			return valCodec.Write(w, e.Value)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// SizeMap mirrors WriteMap for the size pre-pass.
func SizeMap[K, V any](s *wire.Sizer, fieldID int32, entries []Entry[K, V], keyCodec ScalarCodec[K], valCodec MapValueCodec[V]) {
	for _, e := range entries {
		s.Wrapped(fieldID, entryContentSize(e, keyCodec, valCodec))
	}
}

func entryContentSize[K, V any](e Entry[K, V], keyCodec ScalarCodec[K], valCodec MapValueCodec[V]) int {
	inner := wire.NewSizer()
	inner.Tag(mapFieldKey, wireTypeOf(keyCodec))
	keyCodec.Size(inner, e.Key)
	return inner.Size() + valCodec.Size(wire.NewSizer(), e.Value)
}

// ReadMapEntry decodes one already-length-delimited map entry (the caller
// has consumed the outer tag and obtained sub via r.SubReader()). Per
// spec §4.2, if a field appears out of the canonical key-then-value
// order, or twice, the dispatch below still honors last-value-wins and
// unknown fields are skipped, same as any other message.
func ReadMapEntry[K, V any](sub *wire.Reader, keyCodec ScalarCodec[K], valCodec MapValueCodec[V]) (Entry[K, V], error) {
	var e Entry[K, V]
	for !sub.Done() {
		fieldID, wireType, err := sub.Tag()
		if err != nil {
			return e, err
		}
		switch fieldID {
		case mapFieldKey:
			if e.Key, err = keyCodec.Read(sub); err != nil {
				return e, err
			}
		case mapFieldValue:
			if e.Value, err = valCodec.Read(sub); err != nil {
				return e, err
			}
		default:
			if err := sub.Skip(wireType); err != nil {
				return e, err
			}
		}
	}
	return e, nil
}

// UpsertLastWins implements "duplicate keys on decode overwrite (last
// wins)" for types where K is comparable; callers whose key type is not
// comparable (a generator should never emit one, since map keys are
// always scalar) can fall back to a linear scan, but that case does not
// arise from any contract this generator accepts.
func UpsertLastWins[K comparable, V any](entries []Entry[K, V], e Entry[K, V]) []Entry[K, V] {
	for i := range entries {
		if entries[i].Key == e.Key {
			entries[i].Value = e.Value
			return entries
		}
	}
	return append(entries, e)
}
