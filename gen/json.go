// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"encoding/json"
	"fmt"
	"io"
)

// Kind/DataFormat/Shape round-trip through JSON as their declared names
// rather than raw ints, so a batch file written by hand or by a host
// language's build step stays readable (encoding/json's MarshalText/
// UnmarshalText hook, the same pattern the standard library itself uses
// for time.Month — no third-party schema library in the retrieved corpus
// targets this generator's bespoke descriptor shape, so this one corner
// stays on encoding/json; see DESIGN.md).

var kindNames = map[Kind]string{
	KindBool: "bool", KindInt8: "int8", KindInt16: "int16", KindInt32: "int32",
	KindUint8: "uint8", KindUint16: "uint16", KindUint32: "uint32",
	KindInt64: "int64", KindUint64: "uint64",
	KindFloat32: "float32", KindFloat64: "float64",
	KindString: "string", KindBytes: "bytes", KindGUID: "guid",
	KindEnum: "enum", KindMessage: "message",
}

func (k Kind) MarshalText() ([]byte, error) {
	if s, ok := kindNames[k]; ok {
		return []byte(s), nil
	}
	return nil, fmt.Errorf("gen: unknown Kind %d", k)
}

func (k *Kind) UnmarshalText(b []byte) error {
	for kind, name := range kindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("gen: unknown kind %q", b)
}

var formatNames = map[DataFormat]string{
	FormatDefault: "default", FormatZigZag: "zigzag", FormatFixedSize: "fixed_size",
	FormatTwosComplement: "twos_complement", FormatGroup: "group", FormatWellKnown: "well_known",
}

func (f DataFormat) MarshalText() ([]byte, error) { return []byte(formatNames[f]), nil }

func (f *DataFormat) UnmarshalText(b []byte) error {
	for df, name := range formatNames {
		if name == string(b) {
			*f = df
			return nil
		}
	}
	return fmt.Errorf("gen: unknown data_format %q", b)
}

var shapeNames = map[Shape]string{
	ShapeNone: "none", ShapeArray: "array",
	ShapeInterfaceCollection: "interface_collection", ShapeConcreteCollection: "concrete_collection",
}

func (s Shape) MarshalText() ([]byte, error) { return []byte(shapeNames[s]), nil }

func (s *Shape) UnmarshalText(b []byte) error {
	for sh, name := range shapeNames {
		if name == string(b) {
			*s = sh
			return nil
		}
	}
	return fmt.Errorf("gen: unknown shape %q", b)
}

// LoadBatch decodes a JSON-encoded Batch, the stand-in for the host
// language's compile-time metadata pipeline (spec §1: out of scope to
// build here, so this CLI accepts the same shape as a plain file).
func LoadBatch(r io.Reader) (*Batch, error) {
	var b Batch
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("gen: decoding batch: %w", err)
	}
	return &b, nil
}
