// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

// Sizer is the size-only cursor (C3): a pure accumulator advanced by every
// generated CalculateSize/CalculateContentSize procedure. It never holds
// bytes, only a running count, so the same control flow that drives a
// Writer can drive a Sizer first to obtain exact length prefixes.
//
// The counter is int, which is 64-bit on every platform this module
// targets; spec §4.3 permits either width.
type Sizer struct {
	n int
}

// NewSizer returns a zeroed Sizer.
func NewSizer() *Sizer { return &Sizer{} }

// Size returns the accumulated byte count.
func (s *Sizer) Size() int { return s.n }

// Reset zeroes the counter for reuse.
func (s *Sizer) Reset() { s.n = 0 }

func (s *Sizer) Tag(fieldID int32, wireType Type) { s.Varint(Tag(fieldID, wireType)) }

func (s *Sizer) Varint(x uint64) { s.n += SizeVarint(x) }

func (s *Sizer) Fixed32(uint32) { s.n += 4 }

func (s *Sizer) Fixed64(uint64) { s.n += 8 }

func (s *Sizer) Bool(bool) { s.n += 1 }

func (s *Sizer) ZigZag32(v int32) { s.Varint(uint64(ZigZagEncode32(v))) }

func (s *Sizer) ZigZag64(v int64) { s.Varint(ZigZagEncode64(v)) }

func (s *Sizer) Int32(v int32) { s.Varint(SignExtend32(v)) }

func (s *Sizer) Int64(v int64) { s.Varint(uint64(v)) }

// Bytes accounts for the LEN prefix plus the payload itself.
func (s *Sizer) Bytes(b []byte) {
	s.Varint(uint64(len(b)))
	s.n += len(b)
}

func (s *Sizer) String(v string) {
	s.Varint(uint64(len(v)))
	s.n += len(v)
}

// Raw adds n bytes directly, for callers that have already computed a
// sub-message's content size and only need to add it to the running
// total (as opposed to re-deriving it via Bytes).
func (s *Sizer) Raw(n int) { s.n += n }

// Wrapped accounts for a LEN tag plus an already-known content size, the
// Sizer counterpart of Writer.Wrapped.
func (s *Sizer) Wrapped(fieldID int32, contentSize int) {
	s.Tag(fieldID, Bytes)
	s.Varint(uint64(contentSize))
	s.Raw(contentSize)
}
