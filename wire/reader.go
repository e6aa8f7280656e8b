// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"math"

	protoerrors "protonet.example/protonet/internal/errors"
)

// Reader is the read cursor (C3) over an immutable, caller-owned byte
// span. It never copies the underlying buffer; subspans returned by
// Bytes/SubReader alias it. A Reader must be owned by exactly one goroutine
// for the duration of one decode.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for decoding. buf is borrowed, not copied.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int { return len(r.buf) - r.pos }

// Pos returns the current cursor position, for diagnostics.
func (r *Reader) Pos() int { return r.pos }

// Done reports whether the cursor has reached the end of the buffer.
func (r *Reader) Done() bool { return r.pos >= len(r.buf) }

// Varint reads a varint-encoded integer, advancing the cursor.
func (r *Reader) Varint() (uint64, error) {
	x, n := ConsumeVarint(r.buf[r.pos:])
	switch {
	case n > 0:
		r.pos += n
		return x, nil
	case n == 0:
		return 0, wireError(protoerrors.ErrBufferOverrun, r.pos, 0)
	default: // n < 0: continuation bit past the legal byte count
		return 0, wireError(protoerrors.ErrMalformedVarint, r.pos, 0)
	}
}

// VarintU32 reads a varint and narrows it to 32 bits, reporting
// OverflowOnDecode if the value does not fit.
func (r *Reader) VarintU32() (uint32, error) {
	x, err := r.Varint()
	if err != nil {
		return 0, err
	}
	if x > math.MaxUint32 {
		return 0, wireError(protoerrors.ErrOverflowOnDecode, r.pos, 0)
	}
	return uint32(x), nil
}

// Int32 reads a sign-extended varint field (the Default data format for
// signed integers) and reinterprets its low 32 bits.
func (r *Reader) Int32() (int32, error) {
	x, err := r.Varint()
	if err != nil {
		return 0, err
	}
	return int32(x), nil
}

// Int64 reads a sign-extended varint field.
func (r *Reader) Int64() (int64, error) {
	x, err := r.Varint()
	if err != nil {
		return 0, err
	}
	return int64(x), nil
}

// ZigZag32 reads a zigzag-encoded signed 32-bit value.
func (r *Reader) ZigZag32() (int32, error) {
	x, err := r.Varint()
	if err != nil {
		return 0, err
	}
	return ZigZagDecode32(uint32(x)), nil
}

// ZigZag64 reads a zigzag-encoded signed 64-bit value.
func (r *Reader) ZigZag64() (int64, error) {
	x, err := r.Varint()
	if err != nil {
		return 0, err
	}
	return ZigZagDecode64(x), nil
}

// Bool reads a VARINT bool field: any nonzero value is true.
func (r *Reader) Bool() (bool, error) {
	x, err := r.Varint()
	if err != nil {
		return false, err
	}
	return x != 0, nil
}

// Fixed32 reads 4 little-endian bytes.
func (r *Reader) Fixed32() (uint32, error) {
	if r.Len() < 4 {
		return 0, wireError(protoerrors.ErrBufferOverrun, r.pos, 0)
	}
	b := r.buf[r.pos : r.pos+4]
	r.pos += 4
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// Fixed64 reads 8 little-endian bytes.
func (r *Reader) Fixed64() (uint64, error) {
	if r.Len() < 8 {
		return 0, wireError(protoerrors.ErrBufferOverrun, r.pos, 0)
	}
	b := r.buf[r.pos : r.pos+8]
	r.pos += 8
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56, nil
}

// Float32 reads a FIXED32 field and reinterprets it as an IEEE-754 float.
func (r *Reader) Float32() (float32, error) {
	x, err := r.Fixed32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(x), nil
}

// Float64 reads a FIXED64 field and reinterprets it as an IEEE-754 double.
func (r *Reader) Float64() (float64, error) {
	x, err := r.Fixed64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(x), nil
}

// Bytes reads a length-prefixed (LEN) byte span, aliasing the underlying
// buffer — the caller must copy before mutating or before the Reader's
// buffer is reused.
func (r *Reader) Bytes() ([]byte, error) {
	n, err := r.Varint()
	if err != nil {
		return nil, err
	}
	end := r.pos + int(n)
	if n > math.MaxInt32 || end < r.pos || end > len(r.buf) {
		return nil, wireError(protoerrors.ErrBufferOverrun, r.pos, 0)
	}
	b := r.buf[r.pos:end]
	r.pos = end
	return b, nil
}

// String reads a LEN field and converts it to a string, copying the
// bytes (Go strings are immutable, so this is the zero-extra-copy path).
func (r *Reader) String() (string, error) {
	b, err := r.Bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SubReader reads a LEN field and returns a fresh Reader scoped to that
// sub-span, for decoding a nested message or a packed-repeated blob.
func (r *Reader) SubReader() (*Reader, error) {
	b, err := r.Bytes()
	if err != nil {
		return nil, err
	}
	return &Reader{buf: b}, nil
}

// Tag reads the next field's tag and splits it into field id and wire
// type. Returns InvalidWireType if the suffix names neither a readable
// wire type nor a group marker.
func (r *Reader) Tag() (fieldID int32, wireType Type, err error) {
	x, err := r.Varint()
	if err != nil {
		return 0, 0, err
	}
	fieldID = UntagFieldID(x)
	wireType = UntagWireType(x)
	switch wireType {
	case Varint, Fixed64, Bytes, Fixed32, StartGroup, EndGroup:
		return fieldID, wireType, nil
	default:
		return 0, 0, wireError(protoerrors.ErrInvalidWireType, r.pos, fieldID)
	}
}

// PeekTag saves the cursor position, reads a tag (advancing past it), and
// returns the tag together with the saved position as mark — used by the
// non-packed-repeated read loop (spec P5) to look ahead at the next field
// id. Call Rewind with the returned mark to undo, or simply discard the
// mark to keep the advance.
func (r *Reader) PeekTag() (fieldID int32, wireType Type, mark int, err error) {
	mark = r.pos
	fieldID, wireType, err = r.Tag()
	return
}

// Rewind restores the cursor to a mark returned by PeekTag. This is the
// "idempotence of rewind" operation required by spec P5: after a
// non-matching peek, the cursor must return to exactly its pre-peek
// position.
func (r *Reader) Rewind(mark int) { r.pos = mark }

// Since returns the raw bytes consumed between mark and the current
// cursor position, aliasing the underlying buffer. Used by generated code
// that keeps unrecognized fields (the tag it already read plus whatever
// Skip just consumed) instead of discarding them.
func (r *Reader) Since(mark int) []byte { return r.buf[mark:r.pos] }

// Skip discards the payload of a field of the given wire type, including
// recursively skipping nested groups (decode-as-skip only, per spec's
// proto2-group non-goal). Used for both unknown-field skipping and
// explicit skip_field of a recognized-but-uninteresting field.
func (r *Reader) Skip(wireType Type) error {
	switch wireType {
	case Varint:
		_, err := r.Varint()
		return err
	case Fixed32:
		_, err := r.Fixed32()
		return err
	case Fixed64:
		_, err := r.Fixed64()
		return err
	case Bytes:
		_, err := r.Bytes()
		return err
	case StartGroup:
		for {
			_, wt, err := r.Tag()
			if err != nil {
				return err
			}
			if wt == EndGroup {
				return nil
			}
			if err := r.Skip(wt); err != nil {
				return err
			}
		}
	default:
		return wireError(protoerrors.ErrInvalidWireType, r.pos, 0)
	}
}
