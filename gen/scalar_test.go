// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarOpForDefaultInt32(t *testing.T) {
	c := &Contract{FullName: "acme.A"}
	op, err := scalarOpFor(c, &Member{Name: "X", Kind: KindInt32, DataFormat: FormatDefault})
	require.NoError(t, err)
	assert.Equal(t, "int32", op.GoType)
	assert.Equal(t, "wire.Varint", op.WireTypeExpr)
	assert.Equal(t, 0, op.FixedWidth)
}

func TestScalarOpForFixedSizeInt32(t *testing.T) {
	c := &Contract{FullName: "acme.A"}
	op, err := scalarOpFor(c, &Member{Name: "X", Kind: KindInt32, DataFormat: FormatFixedSize})
	require.NoError(t, err)
	assert.Equal(t, "wire.Fixed32", op.WireTypeExpr)
	assert.Equal(t, 4, op.FixedWidth)
}

func TestScalarOpForRejectsIllegalFormatForBool(t *testing.T) {
	c := &Contract{FullName: "acme.A"}
	_, err := scalarOpFor(c, &Member{Name: "Flag", Kind: KindBool, DataFormat: FormatZigZag})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acme.A")
}

func TestScalarOpForRejectsZigZagOnUint32(t *testing.T) {
	c := &Contract{FullName: "acme.A"}
	_, err := scalarOpFor(c, &Member{Name: "X", Kind: KindUint32, DataFormat: FormatZigZag})
	require.Error(t, err)
}

func TestScalarOpForAcceptsZigZagOnInt64(t *testing.T) {
	c := &Contract{FullName: "acme.A"}
	op, err := scalarOpFor(c, &Member{Name: "X", Kind: KindInt64, DataFormat: FormatZigZag})
	require.NoError(t, err)
	assert.Equal(t, "ZigZag64", op.WriteMethod)
}

func TestScalarOpForFloatsRejectNonDefaultFormat(t *testing.T) {
	c := &Contract{FullName: "acme.A"}
	_, err := scalarOpFor(c, &Member{Name: "X", Kind: KindFloat32, DataFormat: FormatFixedSize})
	require.Error(t, err)
}

func TestScalarOpForNarrowIntDefaultUsesOverflowCheck(t *testing.T) {
	c := &Contract{FullName: "acme.A"}
	op, err := scalarOpFor(c, &Member{Name: "X", Kind: KindInt8, DataFormat: FormatDefault})
	require.NoError(t, err)
	assert.Equal(t, "codec.NarrowInt8", op.ReadCheck)

	op, err = scalarOpFor(c, &Member{Name: "Y", Kind: KindUint16, DataFormat: FormatDefault})
	require.NoError(t, err)
	assert.Equal(t, "codec.NarrowUint16", op.ReadCheck)
}

func TestScalarOpForNarrowIntFixedSizeTruncatesWithoutCheck(t *testing.T) {
	c := &Contract{FullName: "acme.A"}
	op, err := scalarOpFor(c, &Member{Name: "X", Kind: KindInt16, DataFormat: FormatFixedSize})
	require.NoError(t, err)
	assert.Empty(t, op.ReadCheck, "FixedSize 16-bit truncates on decode by design, it never overflow-checks")
}

func TestScalarOpForEnumUsesMessageTypeAsGoType(t *testing.T) {
	c := &Contract{FullName: "acme.A"}
	op, err := scalarOpFor(c, &Member{Name: "X", Kind: KindEnum, MessageType: "acme.Color", DataFormat: FormatDefault})
	require.NoError(t, err)
	assert.Equal(t, "Color", op.GoType)
}
