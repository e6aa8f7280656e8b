// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package wire implements the protobuf wire format primitives: varint,
// zigzag and fixed-width encode/decode, tag framing, and the three cursor
// flavors (Reader, Sizer, Writer) that generated Read/Write/CalculateSize
// procedures are built from.
//
// The package never allocates on the decode path beyond what the caller's
// target type requires, and never uses reflection: every operation here
// is a plain function over bytes, grounded in the wire layer of
// golang-protobuf's protobuf3 package.
package wire

import (
	protoerrors "protonet.example/protonet/internal/errors"
)

// Type is the 3-bit wire-type suffix of a tag.
type Type uint8

const (
	Varint     Type = 0
	Fixed64    Type = 1
	Bytes      Type = 2 // LEN in spec terminology
	StartGroup Type = 3 // decode-as-skip only; never written
	EndGroup   Type = 4 // decode-as-skip only; never written
	Fixed32    Type = 5
)

func (t Type) Valid() bool {
	switch t {
	case Varint, Fixed64, Bytes, Fixed32:
		return true
	default:
		return false
	}
}

// Tag packs a field id and wire type into the varint value written before
// every field.
func Tag(fieldID int32, wireType Type) uint64 {
	return uint64(fieldID)<<3 | uint64(wireType)
}

// UntagFieldID and UntagWireType split a decoded tag value back apart.
func UntagFieldID(tag uint64) int32 { return int32(tag >> 3) }
func UntagWireType(tag uint64) Type { return Type(tag & 7) }

// re-exported sentinels so callers need only import wire, not
// internal/errors, to match decode errors with errors.Is.
var (
	ErrBufferOverrun     = protoerrors.ErrBufferOverrun
	ErrMalformedVarint   = protoerrors.ErrMalformedVarint
	ErrInvalidWireType   = protoerrors.ErrInvalidWireType
	ErrInvalidPackedLen  = protoerrors.ErrInvalidPackedLen
	ErrOverflowOnDecode  = protoerrors.ErrOverflowOnDecode
	ErrPolymorphismFirst = protoerrors.ErrPolymorphismFirst
	ErrNullInRepeated    = protoerrors.ErrNullInRepeated
	ErrTypeMismatch      = protoerrors.ErrTypeMismatch
)
