// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberGoTypeScalarAndNullable(t *testing.T) {
	g, err := BuildGraph(simpleBatch(Contract{FullName: "acme.A", Namespace: "acme"}))
	require.NoError(t, err)
	c := &Contract{FullName: "acme.A"}

	typ, err := memberGoType(g, c, &Member{Kind: KindInt32, DataFormat: FormatDefault})
	require.NoError(t, err)
	assert.Equal(t, "int32", typ)

	typ, err = memberGoType(g, c, &Member{Kind: KindInt32, DataFormat: FormatDefault, IsNullable: true})
	require.NoError(t, err)
	assert.Equal(t, "*int32", typ)
}

func TestMemberGoTypeByteCollectionCollapsesToPlainBytes(t *testing.T) {
	g, err := BuildGraph(simpleBatch(Contract{FullName: "acme.A", Namespace: "acme"}))
	require.NoError(t, err)
	c := &Contract{FullName: "acme.A"}

	typ, err := memberGoType(g, c, &Member{Kind: KindUint8, Shape: ShapeArray})
	require.NoError(t, err)
	assert.Equal(t, "[]byte", typ)
}

func TestMemberGoTypeRepeatedScalarIsSlice(t *testing.T) {
	g, err := BuildGraph(simpleBatch(Contract{FullName: "acme.A", Namespace: "acme"}))
	require.NoError(t, err)
	c := &Contract{FullName: "acme.A"}

	typ, err := memberGoType(g, c, &Member{Kind: KindInt32, Shape: ShapeArray})
	require.NoError(t, err)
	assert.Equal(t, "[]int32", typ)
}

func TestMemberGoTypeMapIsOrderedEntrySlice(t *testing.T) {
	g, err := BuildGraph(simpleBatch(Contract{FullName: "acme.A", Namespace: "acme"}))
	require.NoError(t, err)
	c := &Contract{FullName: "acme.A"}

	typ, err := memberGoType(g, c, &Member{IsMap: true, MapKeyKind: KindString, MapValueKind: KindInt32})
	require.NoError(t, err)
	assert.Equal(t, "[]codec.Entry[string, int32]", typ)
}

func TestMemberGoTypeGUIDNullability(t *testing.T) {
	g, err := BuildGraph(simpleBatch(Contract{FullName: "acme.A", Namespace: "acme"}))
	require.NoError(t, err)
	c := &Contract{FullName: "acme.A"}

	typ, err := memberGoType(g, c, &Member{Kind: KindGUID})
	require.NoError(t, err)
	assert.Equal(t, "uuid.UUID", typ)

	typ, err = memberGoType(g, c, &Member{Kind: KindGUID, IsNullable: true})
	require.NoError(t, err)
	assert.Equal(t, "*uuid.UUID", typ)
}

func TestMessageGoTypeUsesInterfaceForPolymorphicRoot(t *testing.T) {
	b := simpleBatch(
		Contract{FullName: "acme.Animal", Namespace: "acme", Includes: []ProtoInclude{{FieldID: 10, Derived: "acme.Dog"}}},
		Contract{FullName: "acme.Dog", Namespace: "acme"},
	)
	g, err := BuildGraph(b)
	require.NoError(t, err)

	assert.Equal(t, "IAnimal", messageGoType(g, "acme.Animal"))
	assert.Equal(t, "IAnimal", messageGoType(g, "acme.Dog"), "a leaf's message type is still its root's interface")
}

func TestMessageGoTypeUsesConcretePointerForNonPolymorphicContract(t *testing.T) {
	g, err := BuildGraph(simpleBatch(Contract{FullName: "acme.Leaf", Namespace: "acme"}))
	require.NoError(t, err)
	assert.Equal(t, "*Leaf", messageGoType(g, "acme.Leaf"))
}
