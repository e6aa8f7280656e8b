// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors implements the wire-format error taxonomy shared by the
// codec and generator, and the diagnostic type raised by the generator at
// contract-analysis time.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the decode-time taxonomy described in spec §7.
// Callers match against these with errors.Is.
var (
	ErrBufferOverrun      = errors.New("protonet: read past end of buffer")
	ErrMalformedVarint    = errors.New("protonet: malformed varint")
	ErrInvalidWireType    = errors.New("protonet: invalid wire type")
	ErrInvalidPackedLen   = errors.New("protonet: packed fixed-width blob length not a multiple of element size")
	ErrOverflowOnDecode   = errors.New("protonet: varint value overflows target integer")
	ErrPolymorphismFirst  = errors.New("protonet: non-ProtoInclude field before any ProtoInclude on a polymorphic contract")
	ErrNullInRepeated     = errors.New("protonet: null element in repeated message/string field")
	ErrTypeMismatch       = errors.New("protonet: decoded payload does not match the expected derived type")
)

// WireError wraps a sentinel taxonomy error with the byte offset and field
// id active when it was raised, so a caller debugging a wire-compat
// mismatch can locate the offending bytes without re-running under a
// debugger.
type WireError struct {
	Kind    error // one of the Err* sentinels above
	Offset  int   // cursor position when the error occurred
	FieldID int32 // field id in scope, 0 if none
}

func (e *WireError) Error() string {
	if e.FieldID != 0 {
		return fmt.Sprintf("%v (offset %d, field %d)", e.Kind, e.Offset, e.FieldID)
	}
	return fmt.Sprintf("%v (offset %d)", e.Kind, e.Offset)
}

func (e *WireError) Unwrap() error { return e.Kind }

// Wire constructs a *WireError for the given sentinel kind.
func Wire(kind error, offset int, fieldID int32) *WireError {
	return &WireError{Kind: kind, Offset: offset, FieldID: fieldID}
}

// Diagnostic is a compile-time (generation-time) error: a defect in the
// contract descriptors themselves, as opposed to a problem with wire
// bytes at decode time. The generator aborts emission for the offending
// contract and reports these; it never emits code it knows to be wrong.
type Diagnostic struct {
	Contract string // full_name of the offending contract
	Member   string // member name, empty if the diagnostic is contract-wide
	Reason   string
}

func (d *Diagnostic) Error() string {
	if d.Member != "" {
		return fmt.Sprintf("%s.%s: %s", d.Contract, d.Member, d.Reason)
	}
	return fmt.Sprintf("%s: %s", d.Contract, d.Reason)
}

// Diagnostics collects every Diagnostic raised while analyzing a batch of
// contracts. Generation continues past the first bad contract so a single
// run reports everything wrong with the batch, mirroring how a compiler
// reports all type errors instead of stopping at the first.
type Diagnostics []*Diagnostic

func (ds Diagnostics) Error() string {
	if len(ds) == 1 {
		return ds[0].Error()
	}
	s := fmt.Sprintf("%d generation diagnostics:", len(ds))
	for _, d := range ds {
		s += "\n  " + d.Error()
	}
	return s
}

// ErrHierarchyTooDeep is the diagnostic reason used when an inheritance
// chain exceeds the three levels this generator supports (spec §4.4).
const ErrHierarchyTooDeep = "inheritance depth exceeds the supported maximum of 3 levels"
