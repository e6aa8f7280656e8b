// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"fmt"

	protoerrors "protonet.example/protonet/internal/errors"
)

// scalarOp describes how to move one non-string, non-bytes, non-message,
// non-GUID scalar value on and off the wire: which wire.Reader/Writer
// method to call, what Go type the value lives in, and how to
// reinterpret the wire method's native return type into that Go type
// (spec §4.2's scalar mapping table, including the 16-bit-FixedSize
// truncation note). SizeMethod always names a *wire.Sizer method whose
// signature mirrors WriteMethod's — Sizer's Fixed32/Fixed64 in
// particular ignore their argument, so float members pass a literal 0.
type scalarOp struct {
	WireTypeExpr string // e.g. "wire.Varint"
	FixedWidth   int    // 0 for varint-based representations
	GoType       string
	ReadMethod   string // method on *wire.Reader, e.g. "Int32"
	WriteMethod  string // method on *wire.Writer, e.g. "Int32"
	SizeMethod   string // method on *wire.Sizer
	SizeLiteral  string // literal argument to SizeMethod when the value itself doesn't matter ("" means pass the real value)
	ReadCast     string // Go type to convert the read method's result into, "" if none needed
	ReadCheck    string // codec range-check function name, used instead of ReadCast when a narrower target could overflow ("" if the cast is lossless or truncation is the spec'd behavior)
	WriteCast    string // Go type the value must be converted to before the write call, "" if none needed
	ZeroExpr     func(value string) string
}

// scalarOpFor returns the wire operation for m, or a diagnostic if m's
// (Kind, DataFormat) pair is not one spec §4.2 permits (generator
// diagnostic (d): "an attribute names a data-format illegal for the
// member's logical type").
func scalarOpFor(c *Contract, m *Member) (scalarOp, error) {
	illegal := func() (scalarOp, error) {
		return scalarOp{}, &protoerrors.Diagnostic{
			Contract: c.FullName, Member: m.Name,
			Reason: fmt.Sprintf("data format %v is not legal for this member's logical type", m.DataFormat),
		}
	}
	zero := func(v string) string { return v + " == 0" }

	switch m.Kind {
	case KindBool:
		if m.DataFormat != FormatDefault {
			return illegal()
		}
		return scalarOp{WireTypeExpr: "wire.Varint", GoType: "bool",
			ReadMethod: "Bool", WriteMethod: "Bool", SizeMethod: "Bool",
			ZeroExpr: func(v string) string { return "!" + v }}, nil

	case KindInt8, KindInt16, KindInt32:
		goType := map[Kind]string{KindInt8: "int8", KindInt16: "int16", KindInt32: "int32"}[m.Kind]
		narrow := map[Kind]string{KindInt8: "codec.NarrowInt8", KindInt16: "codec.NarrowInt16"}[m.Kind]
		switch m.DataFormat {
		case FormatDefault:
			return scalarOp{WireTypeExpr: "wire.Varint", GoType: goType,
				ReadMethod: "Int32", WriteMethod: "Int32", SizeMethod: "Int32",
				ReadCast: goType, ReadCheck: narrow, WriteCast: "int32", ZeroExpr: zero}, nil
		case FormatFixedSize:
			// 16-bit FixedSize members are promoted to FIXED32 and
			// truncated on decode by design (spec §4.2), never overflow-checked.
			return scalarOp{WireTypeExpr: "wire.Fixed32", FixedWidth: 4, GoType: goType,
				ReadMethod: "Fixed32", WriteMethod: "Fixed32", SizeMethod: "Fixed32",
				ReadCast: goType, WriteCast: "uint32", ZeroExpr: zero}, nil
		case FormatZigZag:
			return scalarOp{WireTypeExpr: "wire.Varint", GoType: goType,
				ReadMethod: "ZigZag32", WriteMethod: "ZigZag32", SizeMethod: "ZigZag32",
				ReadCast: goType, ReadCheck: narrow, WriteCast: "int32", ZeroExpr: zero}, nil
		}
		return illegal()

	case KindUint8, KindUint16, KindUint32:
		goType := map[Kind]string{KindUint8: "uint8", KindUint16: "uint16", KindUint32: "uint32"}[m.Kind]
		narrow := map[Kind]string{KindUint8: "codec.NarrowUint8", KindUint16: "codec.NarrowUint16"}[m.Kind]
		switch m.DataFormat {
		case FormatDefault:
			return scalarOp{WireTypeExpr: "wire.Varint", GoType: goType,
				ReadMethod: "VarintU32", WriteMethod: "Varint", SizeMethod: "Varint",
				ReadCast: goType, ReadCheck: narrow, WriteCast: "uint64", ZeroExpr: zero}, nil
		case FormatFixedSize:
			return scalarOp{WireTypeExpr: "wire.Fixed32", FixedWidth: 4, GoType: goType,
				ReadMethod: "Fixed32", WriteMethod: "Fixed32", SizeMethod: "Fixed32",
				ReadCast: goType, WriteCast: "uint32", ZeroExpr: zero}, nil
		}
		return illegal()

	case KindInt64:
		switch m.DataFormat {
		case FormatDefault:
			return scalarOp{WireTypeExpr: "wire.Varint", GoType: "int64",
				ReadMethod: "Int64", WriteMethod: "Int64", SizeMethod: "Int64", ZeroExpr: zero}, nil
		case FormatFixedSize:
			return scalarOp{WireTypeExpr: "wire.Fixed64", FixedWidth: 8, GoType: "int64",
				ReadMethod: "Fixed64", WriteMethod: "Fixed64", SizeMethod: "Fixed64",
				ReadCast: "int64", WriteCast: "uint64", ZeroExpr: zero}, nil
		case FormatZigZag:
			return scalarOp{WireTypeExpr: "wire.Varint", GoType: "int64",
				ReadMethod: "ZigZag64", WriteMethod: "ZigZag64", SizeMethod: "ZigZag64", ZeroExpr: zero}, nil
		}
		return illegal()

	case KindUint64:
		switch m.DataFormat {
		case FormatDefault:
			return scalarOp{WireTypeExpr: "wire.Varint", GoType: "uint64",
				ReadMethod: "Varint", WriteMethod: "Varint", SizeMethod: "Varint", ZeroExpr: zero}, nil
		case FormatFixedSize:
			return scalarOp{WireTypeExpr: "wire.Fixed64", FixedWidth: 8, GoType: "uint64",
				ReadMethod: "Fixed64", WriteMethod: "Fixed64", SizeMethod: "Fixed64", ZeroExpr: zero}, nil
		}
		return illegal()

	case KindFloat32:
		if m.DataFormat != FormatDefault {
			return illegal()
		}
		return scalarOp{WireTypeExpr: "wire.Fixed32", FixedWidth: 4, GoType: "float32",
			ReadMethod: "Float32", WriteMethod: "Float32", SizeMethod: "Fixed32", SizeLiteral: "0",
			ZeroExpr: zero}, nil

	case KindFloat64:
		if m.DataFormat != FormatDefault {
			return illegal()
		}
		return scalarOp{WireTypeExpr: "wire.Fixed64", FixedWidth: 8, GoType: "float64",
			ReadMethod: "Float64", WriteMethod: "Float64", SizeMethod: "Fixed64", SizeLiteral: "0",
			ZeroExpr: zero}, nil

	case KindEnum:
		if m.DataFormat != FormatDefault {
			return illegal()
		}
		goType := "int32"
		if m.MessageType != "" {
			goType = localName(m.MessageType)
		}
		return scalarOp{WireTypeExpr: "wire.Varint", GoType: goType,
			ReadMethod: "Int32", WriteMethod: "Int32", SizeMethod: "Int32",
			ReadCast: goType, WriteCast: "int32", ZeroExpr: zero}, nil
	}
	return illegal()
}
