// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package wire_test

import (
	"bytes"
	"testing"

	"protonet.example/protonet/wire"
)

func TestPackedVarintIntList(t *testing.T) {
	// Scenario 1: field 7, IsPacked, values [1,2,3] -> 3A 03 01 02 03.
	w := wire.NewWriter(nil)
	sz := wire.NewSizer()
	values := []int64{1, 2, 3}
	for _, v := range values {
		sz.Int64(v)
	}
	w.Tag(7, wire.Bytes)
	w.Varint(uint64(sz.Size()))
	for _, v := range values {
		w.Int64(v)
	}
	want := []byte{0x3A, 0x03, 0x01, 0x02, 0x03}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("got % x, want % x", w.Bytes(), want)
	}
}

func TestPackedFixed32IntList(t *testing.T) {
	// Scenario 2: field 8, IsPacked+FixedSize, values [4,5].
	w := wire.NewWriter(nil)
	w.Tag(8, wire.Bytes)
	w.Varint(8)
	w.Fixed32(4)
	w.Fixed32(5)
	want := []byte{0x42, 0x08, 0x04, 0x00, 0x00, 0x00, 0x05, 0x00, 0x00, 0x00}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("got % x, want % x", w.Bytes(), want)
	}
}

func TestNonPackedVarint(t *testing.T) {
	// Scenario 3: field 9, values [6,7] -> 48 06 48 07.
	w := wire.NewWriter(nil)
	for _, v := range []int64{6, 7} {
		w.Tag(9, wire.Varint)
		w.Int64(v)
	}
	want := []byte{0x48, 0x06, 0x48, 0x07}
	if !bytes.Equal(w.Bytes(), want) {
		t.Fatalf("got % x, want % x", w.Bytes(), want)
	}
}

func TestNonPackedRepeatedRewindIdempotence(t *testing.T) {
	// P5: after a failed (non-matching) peek during a non-packed repeated
	// read, the cursor must return to its pre-peek position.
	w := wire.NewWriter(nil)
	w.Tag(9, wire.Varint)
	w.Int64(6)
	w.Tag(10, wire.Varint) // a different field id follows
	w.Int64(99)

	r := wire.NewReader(w.Bytes())
	fieldID, _, err := mustTag(t, r)
	if err != nil || fieldID != 9 {
		t.Fatalf("first tag = (%d, %v)", fieldID, err)
	}
	if _, err := r.Int64(); err != nil {
		t.Fatal(err)
	}

	before := r.Pos()
	nextID, _, mark, err := r.PeekTag()
	if err != nil {
		t.Fatal(err)
	}
	if nextID == 9 {
		t.Fatalf("expected a non-matching field id, got 9")
	}
	r.Rewind(mark)
	if r.Pos() != before {
		t.Fatalf("rewind left cursor at %d, want %d", r.Pos(), before)
	}
}

func mustTag(t *testing.T, r *wire.Reader) (int32, wire.Type, error) {
	t.Helper()
	return r.Tag()
}

func TestSkipUnknownFieldByWireType(t *testing.T) {
	w := wire.NewWriter(nil)
	w.Tag(99, wire.Bytes)
	w.WriteString("ignored")
	w.Tag(1, wire.Varint)
	w.Int64(42)

	r := wire.NewReader(w.Bytes())
	fieldID, wt, err := r.Tag()
	if err != nil {
		t.Fatal(err)
	}
	if fieldID != 99 {
		t.Fatalf("fieldID = %d, want 99", fieldID)
	}
	if err := r.Skip(wt); err != nil {
		t.Fatal(err)
	}
	fieldID, _, err = r.Tag()
	if err != nil {
		t.Fatal(err)
	}
	if fieldID != 1 {
		t.Fatalf("fieldID = %d, want 1", fieldID)
	}
	v, err := r.Int64()
	if err != nil || v != 42 {
		t.Fatalf("v = (%d, %v), want (42, nil)", v, err)
	}
}

func TestBufferOverrun(t *testing.T) {
	r := wire.NewReader([]byte{0x01}) // claims to be the start of a tag but nothing follows a length
	if _, err := r.Fixed64(); err == nil {
		t.Fatal("expected a BufferOverrun error")
	}
}

func TestEmptyStringAndBlobRoundTrip(t *testing.T) {
	w := wire.NewWriter(nil)
	w.WriteString("")
	r := wire.NewReader(w.Bytes())
	s, err := r.String()
	if err != nil || s != "" {
		t.Fatalf("got (%q, %v), want (\"\", nil)", s, err)
	}

	w = wire.NewWriter(nil)
	w.WriteBytes(nil)
	b, err := wire.NewReader(w.Bytes()).Bytes()
	if err != nil || len(b) != 0 {
		t.Fatalf("got (%v, %v), want empty blob and nil", b, err)
	}
}

func TestSinceCapturesTagThroughSkippedPayload(t *testing.T) {
	w := wire.NewWriter(nil)
	w.Tag(99, wire.Bytes)
	w.WriteString("ignored")
	full := w.Bytes()

	r := wire.NewReader(full)
	mark := r.Pos()
	fieldID, wt, err := r.Tag()
	if err != nil || fieldID != 99 {
		t.Fatalf("tag = (%d, %v)", fieldID, err)
	}
	if err := r.Skip(wt); err != nil {
		t.Fatal(err)
	}
	if got := r.Since(mark); !bytes.Equal(got, full) {
		t.Fatalf("Since(mark) = % x, want % x", got, full)
	}
}
