// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// batch mirrors a small shapes hierarchy: an abstract polymorphic root
// (Shape), one concrete leaf (Circle) carrying a scalar, a string, a
// repeated field, and a map, plus a standalone non-polymorphic contract
// (Point) referenced as a message-typed member.
func shapesBatch() *Batch {
	return &Batch{Contracts: []Contract{
		{
			FullName:   "shapes.Shape",
			Namespace:  "shapes",
			IsAbstract: true,
			Includes:   []ProtoInclude{{FieldID: 10, Derived: "shapes.Circle"}},
			Members:    []Member{{FieldID: 1, Name: "Label", Kind: KindString}},
		},
		{
			FullName:  "shapes.Circle",
			Namespace: "shapes",
			Members: []Member{
				{FieldID: 2, Name: "Radius", Kind: KindFloat64},
				{FieldID: 3, Name: "Center", Kind: KindMessage, MessageType: "shapes.Point"},
				{FieldID: 4, Name: "Tags", Kind: KindString, Shape: ShapeArray},
				{FieldID: 5, Name: "Attrs", IsMap: true, MapKeyKind: KindString, MapValueKind: KindInt32},
			},
		},
		{
			FullName:  "shapes.Point",
			Namespace: "shapes",
			Members: []Member{
				{FieldID: 1, Name: "X", Kind: KindInt32},
				{FieldID: 2, Name: "Y", Kind: KindInt32},
			},
		},
	}}
}

func TestGenerateFileProducesExpectedDeclarations(t *testing.T) {
	g, err := BuildGraph(shapesBatch())
	require.NoError(t, err)

	f, err := GenerateFile(g, "shapes", g.Contracts())
	require.NoError(t, err)
	require.NotNil(t, f)
	src := string(f.Content)

	assert.Equal(t, "shapes", f.PackageName)
	assert.Contains(t, src, "package shapes")
	assert.Contains(t, src, "type Shape struct {")
	assert.Contains(t, src, "type IShape interface {")
	assert.Contains(t, src, "func (x *Shape) isShape() {}")
	assert.Contains(t, src, "func (x *Shape) asShape() *Shape { return x }")
	assert.Contains(t, src, "type Circle struct {")
	assert.Contains(t, src, "func WriteShapeContent(w *wire.Writer, x IShape) error {")
	assert.Contains(t, src, "func CalculateShapeContentSize(x IShape) int {")
	assert.Contains(t, src, "func ReadShapeContent(r *wire.Reader) (IShape, error) {")
	assert.Contains(t, src, "func SerializeShape(sink io.Writer, x IShape) error {")
	assert.Contains(t, src, "func DeserializeShape(buf []byte) (IShape, error) {")
	assert.Contains(t, src, "func ReadCircleContent(r *wire.Reader) (*Circle, error) {")
	// Circle is a derived leaf (ProtoInclude target, no children of its
	// own); Shape's dispatch switch calls Write/CalculateCircleContent*
	// directly, so those wrappers must exist even though Circle itself
	// never dispatches.
	assert.Contains(t, src, "func WriteCircleContent(w *wire.Writer, x *Circle) error {")
	assert.Contains(t, src, "func CalculateCircleContentSize(x *Circle) int {")
	assert.Contains(t, src, "type Point struct {")
	assert.Contains(t, src, "func SerializePoint(sink io.Writer, x *Point) error {")
	// Point is a standalone non-polymorphic contract nested as a
	// KindMessage member on Circle; emitWriteMember addresses it as
	// Write/CalculatePointContent*, so those wrappers must exist too.
	assert.Contains(t, src, "func WritePointContent(w *wire.Writer, x *Point) error {")
	assert.Contains(t, src, "func CalculatePointContentSize(x *Point) int {")
	assert.Contains(t, src, "[]codec.Entry[string, int32]")
	assert.Contains(t, src, "[]string")
	// Shape is a polymorphism site: its Read*Content must reject a second
	// ProtoInclude branch for the same slot (spec §7 TypeMismatch).
	assert.Contains(t, src, "protoerrors.Wire(protoerrors.ErrTypeMismatch, r.Pos(), fieldID)")
}

func TestGenerateFileRejectsNilElementInRepeatedMessageMember(t *testing.T) {
	b := &Batch{Contracts: []Contract{
		{FullName: "a.Point", Namespace: "a", Members: []Member{
			{FieldID: 1, Name: "X", Kind: KindInt32},
		}},
		{FullName: "a.Polygon", Namespace: "a", Members: []Member{
			{FieldID: 1, Name: "Corners", Kind: KindMessage, MessageType: "a.Point", Shape: ShapeArray},
		}},
	}}
	g, err := BuildGraph(b)
	require.NoError(t, err)
	f, err := GenerateFile(g, "a", g.Contracts())
	require.NoError(t, err)
	src := string(f.Content)

	assert.Contains(t, src, "protoerrors.Wire(protoerrors.ErrNullInRepeated, 0, 1)")
	assert.Contains(t, src, `"protonet.example/protonet/internal/errors"`)
}

func TestGenerateFileRejectsNilValueInMessageValuedMap(t *testing.T) {
	b := &Batch{Contracts: []Contract{
		{FullName: "a.Point", Namespace: "a", Members: []Member{
			{FieldID: 1, Name: "X", Kind: KindInt32},
		}},
		{FullName: "a.Board", Namespace: "a", Members: []Member{
			{FieldID: 1, Name: "Cells", IsMap: true, MapKeyKind: KindString, MapValueKind: KindMessage, MapValueType: "a.Point"},
		}},
	}}
	g, err := BuildGraph(b)
	require.NoError(t, err)
	f, err := GenerateFile(g, "a", g.Contracts())
	require.NoError(t, err)
	src := string(f.Content)

	assert.Contains(t, src, "protoerrors.Wire(protoerrors.ErrNullInRepeated, 0, 2)")
}

func TestGenerateFileIsDeterministicAcrossRuns(t *testing.T) {
	g, err := BuildGraph(shapesBatch())
	require.NoError(t, err)

	f1, err := GenerateFile(g, "shapes", g.Contracts())
	require.NoError(t, err)
	f2, err := GenerateFile(g, "shapes", g.Contracts())
	require.NoError(t, err)
	assert.Equal(t, string(f1.Content), string(f2.Content))
}

func TestGenerateAllGroupsByNamespace(t *testing.T) {
	b := &Batch{Contracts: []Contract{
		{FullName: "a.Foo", Namespace: "a", Members: []Member{{FieldID: 1, Name: "X", Kind: KindInt32}}},
		{FullName: "b.Bar", Namespace: "b", Members: []Member{{FieldID: 1, Name: "Y", Kind: KindInt32}}},
	}}
	files, err := GenerateAll(b)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a", files[0].Namespace)
	assert.Equal(t, "b", files[1].Namespace)
}

func TestGenerateAllPropagatesIllegalDataFormatAsDiagnostic(t *testing.T) {
	b := &Batch{Contracts: []Contract{
		{FullName: "a.Foo", Namespace: "a", Members: []Member{
			{FieldID: 1, Name: "Flag", Kind: KindBool, DataFormat: FormatZigZag},
		}},
	}}
	files, err := GenerateAll(b)
	require.Error(t, err)
	assert.NotNil(t, files, "a namespace with one bad member still returns whatever generated cleanly")
}

func TestGenerateFileEmitsKeepUnrecognizedField(t *testing.T) {
	b := &Batch{Contracts: []Contract{
		{
			FullName:         "a.Widget",
			Namespace:        "a",
			KeepUnrecognized: "Unrecognized",
			Members:          []Member{{FieldID: 1, Name: "X", Kind: KindInt32}},
		},
	}}
	g, err := BuildGraph(b)
	require.NoError(t, err)
	f, err := GenerateFile(g, "a", g.Contracts())
	require.NoError(t, err)
	src := string(f.Content)

	assert.Contains(t, src, "Unrecognized []byte")
	assert.Contains(t, src, "mark := r.Pos()")
	assert.Contains(t, src, "x.Unrecognized = append(x.Unrecognized, r.Since(mark)...)")
	assert.Contains(t, src, "w.Raw(x.Unrecognized)")
	assert.Contains(t, src, "sz.Raw(len(x.Unrecognized))")
}

func TestGenerateFileOmitsUnusedImports(t *testing.T) {
	b := &Batch{Contracts: []Contract{
		{FullName: "plain.Widget", Namespace: "plain", Members: []Member{
			{FieldID: 1, Name: "Count", Kind: KindInt32},
			{FieldID: 2, Name: "Name", Kind: KindString},
		}},
	}}
	g, err := BuildGraph(b)
	require.NoError(t, err)
	f, err := GenerateFile(g, "plain", g.Contracts())
	require.NoError(t, err)
	src := string(f.Content)

	assert.NotContains(t, src, `"fmt"`, "no polymorphism site in this namespace, so the dispatch-error helper never runs")
	assert.NotContains(t, src, `"github.com/google/uuid"`, "no GUID member in this namespace")
	assert.NotContains(t, src, `"protonet.example/protonet/codec"`, "no map/GUID/repeated-scalar member needing the codec helpers")
	assert.NotContains(t, src, "internal/errors", "no abstract polymorphic site in this namespace")
	assert.Contains(t, src, `"io"`)
	assert.Contains(t, src, `"protonet.example/protonet/wire"`)
}

func TestGenerateFileEmitsOverflowCheckForNarrowIntMember(t *testing.T) {
	b := &Batch{Contracts: []Contract{
		{FullName: "a.Widget", Namespace: "a", Members: []Member{
			{FieldID: 1, Name: "Small", Kind: KindInt8, DataFormat: FormatDefault},
		}},
	}}
	g, err := BuildGraph(b)
	require.NoError(t, err)
	f, err := GenerateFile(g, "a", g.Contracts())
	require.NoError(t, err)
	src := string(f.Content)

	assert.Contains(t, src, `"protonet.example/protonet/codec"`, "a bare narrow-int member still needs the overflow-checked narrowing helper")
	assert.Contains(t, src, "codec.NarrowInt8(v)")
}

func TestGenerateFileAppliesOverflowCheckToFirstElementOfNonPackedNarrowIntRepeated(t *testing.T) {
	b := &Batch{Contracts: []Contract{
		{FullName: "a.Widget", Namespace: "a", Members: []Member{
			{FieldID: 1, Name: "Small", Kind: KindInt8, Shape: ShapeArray, IsPacked: false},
		}},
	}}
	g, err := BuildGraph(b)
	require.NoError(t, err)
	f, err := GenerateFile(g, "a", g.Contracts())
	require.NoError(t, err)
	src := string(f.Content)

	// The first element and every later element (via
	// codec.ReadNonPackedRepeated's ScalarCodec.Read) must go through the
	// same overflow-checked narrowing, not a lossy cast for the first one.
	assert.Regexp(t, `first, err := func\(\) \(int8, error\) \{\s*v, err := r\.Int32\(\)\s*if err != nil \{\s*return 0, err\s*\}\s*return codec\.NarrowInt8\(v\)`, src)
	assert.NotContains(t, src, "return int8(v), err")
}

func TestGenerateAllPropagatesHierarchyTooDeepAsDiagnosticWithoutFiles(t *testing.T) {
	b := &Batch{Contracts: []Contract{
		{FullName: "a.A", Namespace: "a", Includes: []ProtoInclude{{FieldID: 10, Derived: "a.B"}}},
		{FullName: "a.B", Namespace: "a", Includes: []ProtoInclude{{FieldID: 11, Derived: "a.C"}}},
		{FullName: "a.C", Namespace: "a", Includes: []ProtoInclude{{FieldID: 12, Derived: "a.D"}}},
		{FullName: "a.D", Namespace: "a"},
	}}
	files, err := GenerateAll(b)
	require.Error(t, err)
	assert.Nil(t, files, "a graph-level validation failure happens before any namespace is emitted")
}
