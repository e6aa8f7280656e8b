// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import protoerrors "protonet.example/protonet/internal/errors"

// maxVarintBytes is the legal byte-width ceiling for a 64-bit varint.
// This codec resolves the "varint reader robustness" open question in
// spec.md §9 toward strictness: a continuation bit still set past this
// many bytes is a MalformedVarint, not a silent truncation.
const maxVarintBytes = 10

// SizeVarint returns the number of bytes the minimum-length varint
// encoding of x occupies: 1 for zero, otherwise ceil(bitlen(x)/7).
func SizeVarint(x uint64) int {
	n := 1
	for x >= 0x80 {
		x >>= 7
		n++
	}
	return n
}

// AppendVarint appends the minimum-length varint encoding of x to buf.
func AppendVarint(buf []byte, x uint64) []byte {
	for x >= 0x80 {
		buf = append(buf, byte(x)|0x80)
		x >>= 7
	}
	return append(buf, byte(x))
}

// ConsumeVarint decodes a varint from the front of buf, returning the
// value and the number of bytes consumed. n is 0 if buf runs out before
// a terminating byte, and -1 if more than maxVarintBytes carry a
// continuation bit (MalformedVarint).
func ConsumeVarint(buf []byte) (x uint64, n int) {
	for shift := uint(0); shift < 64; shift += 7 {
		if n >= len(buf) {
			return 0, 0
		}
		b := buf[n]
		n++
		x |= uint64(b&0x7f) << shift
		if b < 0x80 {
			return x, n
		}
	}
	// All 10 legal bytes were consumed and every one of them still had
	// its continuation bit set: this implementation resolves spec.md
	// §9's open question toward strictness rather than silent
	// truncation.
	return 0, -1
}

// zigzag encode/decode, one encode/decode pair per bit width (32 and 64).

// ZigZagEncode32 maps a signed 32-bit value to its zigzag-encoded unsigned
// representation: small-magnitude negatives stay small under varint.
func ZigZagEncode32(v int32) uint32 {
	return uint32((v << 1) ^ (v >> 31))
}

// ZigZagDecode32 inverts ZigZagEncode32.
func ZigZagDecode32(v uint32) int32 {
	return int32(v>>1) ^ -int32(v&1)
}

// ZigZagEncode64 is the 64-bit counterpart of ZigZagEncode32.
func ZigZagEncode64(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

// ZigZagDecode64 inverts ZigZagEncode64.
func ZigZagDecode64(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}

// SignExtend32 reproduces the protobuf rule that a negative int32 field
// written with the Default (varint) data format is sign-extended to 64
// bits before being varint-encoded, so it always occupies 10 bytes on the
// wire.
func SignExtend32(v int32) uint64 {
	return uint64(int64(v))
}

// wireError is a small helper used throughout wire/ to build a
// *protoerrors.WireError without importing internal/errors by name at
// every call site.
func wireError(kind error, offset int, fieldID int32) error {
	return protoerrors.Wire(kind, offset, fieldID)
}
