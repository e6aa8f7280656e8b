// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"math"

	"protonet.example/protonet/internal/errors"
	"protonet.example/protonet/wire"
)

// ScalarCodec bundles the three matched operations (write/size one
// element, read one element, fixed byte width if the wire representation
// is fixed-width) that a generated procedure needs for a single logical
// field type and data_format. The generator instantiates one of these
// per scalar member and feeds it to the generic repeated-field helpers
// below, so packed/non-packed/collection-shape logic is written exactly
// once instead of once per (type, format) pair.
type ScalarCodec[T any] struct {
	Write func(w *wire.Writer, v T)
	Size  func(s *wire.Sizer, v T)
	Read  func(r *wire.Reader) (T, error)
	// FixedWidth is >0 for FIXED32/FIXED64 representations, where packed
	// size is a plain multiplication instead of a per-element varint sum.
	FixedWidth int
}

// WritePackedScalar emits field fieldID as a single LEN blob containing
// the concatenation of each element's wire bytes, no per-element tag
// (spec §4.2 "packed"). The content size must have already been computed
// by SizePackedScalar over the same slice, since the length prefix is
// never obtained by re-scanning the output.
func WritePackedScalar[T any](w *wire.Writer, fieldID int32, values []T, contentSize int, c ScalarCodec[T]) {
	if len(values) == 0 {
		return
	}
	w.Wrapped(fieldID, contentSize, func(w *wire.Writer) {
		for _, v := range values {
			c.Write(w, v)
		}
	})
}

// SizePackedScalar computes the content size (sum of encoded element
// sizes, or count*width for fixed-width elements) and the full field
// size including its own tag+length prefix.
func SizePackedScalar[T any](s *wire.Sizer, fieldID int32, values []T, c ScalarCodec[T]) (contentSize int) {
	if len(values) == 0 {
		return 0
	}
	if c.FixedWidth > 0 {
		contentSize = len(values) * c.FixedWidth
	} else {
		inner := wire.NewSizer()
		for _, v := range values {
			c.Size(inner, v)
		}
		contentSize = inner.Size()
	}
	s.Wrapped(fieldID, contentSize)
	return contentSize
}

// ReadPackedScalar decodes a packed blob already isolated into sub (the
// LEN payload's own Reader) by consuming elements until it is exhausted.
// For fixed-width elements the caller must additionally enforce the
// multiple-of-element-size invariant (ErrInvalidPackedLen) before calling
// this, since that check needs the raw byte count, not the Reader.
func ReadPackedScalar[T any](sub *wire.Reader, c ScalarCodec[T]) ([]T, error) {
	var out []T
	if c.FixedWidth > 0 {
		out = make([]T, 0, sub.Len()/c.FixedWidth)
	}
	for !sub.Done() {
		v, err := c.Read(sub)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// NarrowInt8 and its siblings below implement the OverflowOnDecode rule
// (spec §7: "varint value out of range for a narrower target integer,
// e.g. byte/ushort"). They apply only to the Default/ZigZag varint data
// formats; FixedSize 8/16-bit members are deliberately truncated instead
// (spec §4.2's 16-bit-FixedSize note), never routed through these.
func NarrowInt8(v int32) (int8, error) {
	if v < math.MinInt8 || v > math.MaxInt8 {
		return 0, errors.Wire(errors.ErrOverflowOnDecode, 0, 0)
	}
	return int8(v), nil
}

func NarrowInt16(v int32) (int16, error) {
	if v < math.MinInt16 || v > math.MaxInt16 {
		return 0, errors.Wire(errors.ErrOverflowOnDecode, 0, 0)
	}
	return int16(v), nil
}

func NarrowUint8(v uint32) (uint8, error) {
	if v > math.MaxUint8 {
		return 0, errors.Wire(errors.ErrOverflowOnDecode, 0, 0)
	}
	return uint8(v), nil
}

func NarrowUint16(v uint32) (uint16, error) {
	if v > math.MaxUint16 {
		return 0, errors.Wire(errors.ErrOverflowOnDecode, 0, 0)
	}
	return uint16(v), nil
}

// CheckPackedFixedLength validates the InvalidPackedLength rule (spec §7
// and the 16-bit-FixedSize boundary case in §8): a fixed-width packed
// blob's byte length must be an exact multiple of the element width.
func CheckPackedFixedLength(byteLen, elemWidth int) error {
	if byteLen%elemWidth != 0 {
		return errors.Wire(errors.ErrInvalidPackedLen, 0, 0)
	}
	return nil
}

// WriteNonPackedScalar emits one (tag, element) pair per element — the
// representation always used for string and nested-message arrays, and
// the representation used for scalar arrays when IsPacked is false.
func WriteNonPackedScalar[T any](w *wire.Writer, fieldID int32, values []T, c ScalarCodec[T]) {
	for _, v := range values {
		w.Tag(fieldID, wireTypeOf(c))
		c.Write(w, v)
	}
}

// SizeNonPackedScalar mirrors WriteNonPackedScalar.
func SizeNonPackedScalar[T any](s *wire.Sizer, fieldID int32, values []T, c ScalarCodec[T]) {
	for _, v := range values {
		s.Tag(fieldID, wireTypeOf(c))
		c.Size(s, v)
	}
}

func wireTypeOf[T any](c ScalarCodec[T]) wire.Type {
	switch c.FixedWidth {
	case 4:
		return wire.Fixed32
	case 8:
		return wire.Fixed64
	default:
		return wire.Varint
	}
}

// ReadNonPackedRepeated drives the "read one field id's worth of
// repeated elements" loop described in spec §4.2: having already read
// the first element for fieldID, it repeatedly peeks the next tag; while
// it keeps matching fieldID it is consumed and appended, and on the
// first non-match the cursor is rewound (spec P5) so the outer dispatch
// loop can handle the new field itself.
func ReadNonPackedRepeated[T any](r *wire.Reader, fieldID int32, first T, c ScalarCodec[T]) ([]T, error) {
	out := []T{first}
	for !r.Done() {
		nextID, _, mark, err := r.PeekTag()
		if err != nil {
			return nil, err
		}
		if nextID != fieldID {
			r.Rewind(mark)
			return out, nil
		}
		v, err := c.Read(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
