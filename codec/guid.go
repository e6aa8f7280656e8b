// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package codec implements the scalar-to-wire mapping rules, repeated
// field strategies, map entries and the BCL GUID sub-message described in
// spec §4.2 — the shared runtime that generated Read/Write/CalculateSize
// procedures call into, so those wire rules are expressed once rather
// than duplicated in every emitted file. The polymorphic nested-wrapper
// scheme is not here: the generator emits it directly into each file.
package codec

import (
	"github.com/google/uuid"

	"protonet.example/protonet/wire"
)

// GUID field ids within the two-field BCL sub-message (spec §6).
const (
	guidFieldLow  = 1
	guidFieldHigh = 2
)

// GUIDContentSize returns the size, in bytes, of the 18-byte BCL payload
// (tag+fixed64 low, tag+fixed64 high) — always 18 for a non-zero GUID,
// since both fields are unconditionally present inside the wrapper.
const GUIDContentSize = 18

// netBytes converts github.com/google/uuid's RFC 4122 byte layout (every
// group big-endian) into the mixed-endian layout .NET's Guid.ToByteArray()
// produces: the first three groups (Data1, Data2, Data3) are byte-reversed,
// the last eight bytes (Data4) are left as-is. protobuf-net's BCL GUID
// encoding splits this .NET layout in half, not the RFC 4122 one, so every
// SplitGUID/JoinGUID call goes through this conversion (spec §6, scenario 4).
func netBytes(id uuid.UUID) [16]byte {
	var b [16]byte
	b[0], b[1], b[2], b[3] = id[3], id[2], id[1], id[0]
	b[4], b[5] = id[5], id[4]
	b[6], b[7] = id[7], id[6]
	copy(b[8:], id[8:])
	return b
}

func fromNetBytes(b [16]byte) uuid.UUID {
	var id uuid.UUID
	id[0], id[1], id[2], id[3] = b[3], b[2], b[1], b[0]
	id[4], id[5] = b[5], b[4]
	id[6], id[7] = b[7], b[6]
	copy(id[8:], b[8:])
	return id
}

// SplitGUID decomposes id into the low/high 64-bit halves the BCL encoding
// uses, after converting to .NET's Guid.ToByteArray() layout: low is the
// first 8 of those bytes, high is the last 8, both interpreted
// little-endian (spec §6).
func SplitGUID(id uuid.UUID) (low, high uint64) {
	b := netBytes(id)
	low = uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
	high = uint64(b[8]) | uint64(b[9])<<8 | uint64(b[10])<<16 | uint64(b[11])<<24 |
		uint64(b[12])<<32 | uint64(b[13])<<40 | uint64(b[14])<<48 | uint64(b[15])<<56
	return
}

// JoinGUID reassembles a GUID from the low/high halves read off the wire,
// converting the recovered .NET byte layout back to google/uuid's RFC 4122
// layout.
func JoinGUID(low, high uint64) uuid.UUID {
	var b [16]byte
	for i := 0; i < 8; i++ {
		b[i] = byte(low >> (8 * i))
		b[i+8] = byte(high >> (8 * i))
	}
	return fromNetBytes(b)
}

// IsZeroGUID reports whether id is the all-zero GUID, the sentinel value
// a non-nullable GUID member elides on write (spec §4.2).
func IsZeroGUID(id uuid.UUID) bool { return id == uuid.Nil }

// WriteGUID writes a GUID member as a LEN-wrapped two-fixed64-field
// sub-message under fieldID, unless it is the zero GUID and the member is
// non-nullable (elision is the caller's responsibility via nullable,
// matching every other default-value-elision rule in this package).
func WriteGUID(w *wire.Writer, fieldID int32, id uuid.UUID, nullable bool) {
	if !nullable && IsZeroGUID(id) {
		return
	}
	low, high := SplitGUID(id)
	w.Wrapped(fieldID, GUIDContentSize, func(w *wire.Writer) {
		w.Tag(guidFieldLow, wire.Fixed64)
		w.Fixed64(low)
		w.Tag(guidFieldHigh, wire.Fixed64)
		w.Fixed64(high)
	})
}

// SizeGUID mirrors WriteGUID for the size pre-pass.
func SizeGUID(s *wire.Sizer, fieldID int32, id uuid.UUID, nullable bool) {
	if !nullable && IsZeroGUID(id) {
		return
	}
	s.Wrapped(fieldID, GUIDContentSize)
}

// ReadGUID reads a LEN-wrapped BCL GUID sub-message. Unknown field ids
// inside the wrapper (forward-compat, spec P4) are skipped by wire type;
// a field seen twice is last-value-wins, matching every other scalar.
func ReadGUID(r *wire.Reader) (uuid.UUID, error) {
	sub, err := r.SubReader()
	if err != nil {
		return uuid.Nil, err
	}
	var low, high uint64
	for !sub.Done() {
		fieldID, wireType, err := sub.Tag()
		if err != nil {
			return uuid.Nil, err
		}
		switch fieldID {
		case guidFieldLow:
			if low, err = sub.Fixed64(); err != nil {
				return uuid.Nil, err
			}
		case guidFieldHigh:
			if high, err = sub.Fixed64(); err != nil {
				return uuid.Nil, err
			}
		default:
			if err := sub.Skip(wireType); err != nil {
				return uuid.Nil, err
			}
		}
	}
	return JoinGUID(low, high), nil
}
