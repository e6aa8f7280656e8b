// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire

import (
	"io"
	"math"
)

// ByteSink is the pull-based byte sink a Writer targets (spec §4.3): a
// plain io.Writer is enough, since the Writer itself owns the staging
// buffer and decides when to hand a batch of bytes over.
type ByteSink = io.Writer

// defaultStage is the minimum contiguous slot the Writer guarantees is
// available before any "small primitive" write (varint up to 10 bytes,
// fixed up to 8 bytes), so those writes never have to special-case a
// buffer boundary.
const defaultStage = 16

// Writer is the write cursor (C3): an internal growable staging buffer
// that is periodically flushed to a ByteSink. This follows strategy (b)
// of spec §4.3's design notes (a fixed/growing internal buffer copied to
// the sink at boundary crossings), grounded directly in protobuf3.Buffer,
// whose encoders simply append to an internal []byte and flush once at
// the end of Marshal.
type Writer struct {
	buf  []byte
	sink ByteSink
}

// NewWriter returns a Writer that stages bytes in memory and flushes them
// to sink. sink may be nil, in which case Flush is a no-op and Bytes
// returns the full staged buffer, for callers that just want a []byte
// back.
func NewWriter(sink ByteSink) *Writer {
	return &Writer{sink: sink}
}

// Bytes returns the bytes staged but not yet flushed.
func (w *Writer) Bytes() []byte { return w.buf }

// Flush writes all staged bytes to the sink and resets the staging
// buffer. A no-op if the Writer has no sink.
func (w *Writer) Flush() error {
	if w.sink == nil || len(w.buf) == 0 {
		return nil
	}
	_, err := w.sink.Write(w.buf)
	w.buf = w.buf[:0]
	return err
}

// ensure grows the staging buffer's capacity by at least n bytes without
// changing its length, so callers can append a multi-byte atomic write
// (e.g. a varint) without an intermediate realloc splitting it.
func (w *Writer) ensure(n int) {
	if cap(w.buf)-len(w.buf) >= n {
		return
	}
	grown := make([]byte, len(w.buf), len(w.buf)+n+defaultStage)
	copy(grown, w.buf)
	w.buf = grown
}

func (w *Writer) Tag(fieldID int32, wireType Type) { w.Varint(Tag(fieldID, wireType)) }

func (w *Writer) Varint(x uint64) {
	w.ensure(10)
	w.buf = AppendVarint(w.buf, x)
}

func (w *Writer) Fixed32(x uint32) {
	w.ensure(4)
	w.buf = append(w.buf, byte(x), byte(x>>8), byte(x>>16), byte(x>>24))
}

func (w *Writer) Fixed64(x uint64) {
	w.ensure(8)
	w.buf = append(w.buf,
		byte(x), byte(x>>8), byte(x>>16), byte(x>>24),
		byte(x>>32), byte(x>>40), byte(x>>48), byte(x>>56))
}

func (w *Writer) Bool(v bool) {
	if v {
		w.Varint(1)
	} else {
		w.Varint(0)
	}
}

func (w *Writer) ZigZag32(v int32) { w.Varint(uint64(ZigZagEncode32(v))) }

func (w *Writer) ZigZag64(v int64) { w.Varint(ZigZagEncode64(v)) }

func (w *Writer) Int32(v int32) { w.Varint(SignExtend32(v)) }

func (w *Writer) Int64(v int64) { w.Varint(uint64(v)) }

func (w *Writer) Float32(v float32) { w.Fixed32(math.Float32bits(v)) }

func (w *Writer) Float64(v float64) { w.Fixed64(math.Float64bits(v)) }

// WriteBytes writes a LEN-prefixed blob: the varint length followed by the
// raw bytes, which may span multiple future flushes.
func (w *Writer) WriteBytes(b []byte) {
	w.Varint(uint64(len(b)))
	w.buf = append(w.buf, b...)
}

func (w *Writer) WriteString(s string) {
	w.Varint(uint64(len(s)))
	w.buf = append(w.buf, s...)
}

// Wrapped writes a LEN tag for fieldID, the already-known contentSize,
// and then runs body to emit exactly that many bytes. This is the one
// mechanical shape shared by nested messages, BCL GUIDs, map entries, and
// polymorphism wrappers (spec §4.2): a length prefix obtained from a
// prior Sizer pass, never from a second pass over the output.
func (w *Writer) Wrapped(fieldID int32, contentSize int, body func(*Writer)) {
	w.Tag(fieldID, Bytes)
	w.Varint(uint64(contentSize))
	body(w)
}

// WrappedErr is Wrapped's counterpart for a body that can itself fail —
// a nested message, map-entry value, or polymorphism wrapper whose own
// content may contain a NullInRepeated element (spec §7). The tag and
// length prefix are still written unconditionally (the caller already
// committed to contentSize via a prior Sizer pass); only the body's
// error is surfaced to the caller.
func (w *Writer) WrappedErr(fieldID int32, contentSize int, body func(*Writer) error) error {
	w.Tag(fieldID, Bytes)
	w.Varint(uint64(contentSize))
	return body(w)
}

// Raw appends already-encoded bytes verbatim. Generated code uses it to
// re-emit the tag+payload bytes kept by a KeepUnrecognized member. There
// is no batched writer for non-packed fixed-width arrays: their elements
// are written one tag+value at a time through codec.WriteNonPackedScalar.
func (w *Writer) Raw(b []byte) {
	w.buf = append(w.buf, b...)
}
