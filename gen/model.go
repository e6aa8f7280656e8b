// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gen is the code generator (C4): it ingests Contract
// descriptors — the host language's compile-time metadata pipeline is an
// external collaborator, out of scope per spec §1 — builds the
// inheritance/type graph, validates it, and emits three matched
// procedure families per contract into one Go source file per namespace.
package gen

// DataFormat is a member's wire-representation override (spec §3).
type DataFormat int

const (
	FormatDefault DataFormat = iota
	FormatZigZag
	FormatFixedSize
	FormatTwosComplement
	FormatGroup
	FormatWellKnown
)

// Kind is a member's logical scalar type, independent of its wire
// representation; DataFormat selects among the wire options a Kind
// permits (spec §4.2's scalar mapping table).
type Kind int

const (
	KindBool Kind = iota
	KindInt8
	KindInt16
	KindInt32
	KindUint8
	KindUint16
	KindUint32
	KindInt64
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindBytes
	KindGUID
	KindEnum
	KindMessage // a nested contract
)

// Shape is a member's collection materialization strategy (spec §9).
type Shape int

const (
	ShapeNone Shape = iota
	ShapeArray
	ShapeInterfaceCollection
	ShapeConcreteCollection
)

// Member is one field declared directly on a Contract.
type Member struct {
	FieldID      int32      `json:"field_id"`
	Name         string     `json:"name"`
	Kind         Kind       `json:"kind"`
	MessageType  string     `json:"message_type,omitempty"` // full_name of the referenced contract, when Kind == KindMessage
	IsNullable   bool       `json:"is_nullable,omitempty"`
	DataFormat   DataFormat `json:"data_format,omitempty"`
	IsPacked     bool       `json:"is_packed,omitempty"`
	Shape        Shape      `json:"shape,omitempty"`
	IsMap        bool       `json:"is_map,omitempty"`
	MapKeyKind   Kind       `json:"map_key_kind,omitempty"`
	MapValueKind Kind       `json:"map_value_kind,omitempty"`
	MapValueType string     `json:"map_value_type,omitempty"` // full_name, when MapValueKind == KindMessage
}

// ProtoInclude is a base-to-derived polymorphism edge: derived contracts
// are wrapped under FieldID when the writer's runtime type is Derived or
// a further descendant of it.
type ProtoInclude struct {
	FieldID int32  `json:"field_id"`
	Derived string `json:"derived"` // full_name of the direct subclass
}

// Contract is a named type with serialization metadata (spec §3).
type Contract struct {
	FullName   string         `json:"full_name"`
	Namespace  string         `json:"namespace"`
	IsAbstract bool           `json:"is_abstract,omitempty"`
	Includes   []ProtoInclude `json:"includes,omitempty"`
	Members    []Member       `json:"members,omitempty"`

	// KeepUnrecognized, if set, names a []byte member that decoding
	// appends skipped tag+payload bytes into, supplementing spec's
	// mandatory "skip" behavior (ported from protobuf3's
	// XXX_unrecognized convention — see SPEC_FULL.md §4).
	KeepUnrecognized string `json:"keep_unrecognized,omitempty"`
}

// Batch is the generator's full input: every contract across every
// namespace in one generation run, so cross-namespace base/derived and
// message-type references can be resolved.
type Batch struct {
	Contracts []Contract `json:"contracts"`
}

func (b *Batch) byName() map[string]*Contract {
	m := make(map[string]*Contract, len(b.Contracts))
	for i := range b.Contracts {
		m[b.Contracts[i].FullName] = &b.Contracts[i]
	}
	return m
}

// ByNamespace groups contracts by namespace, preserving each namespace's
// first-seen contract order (stable, so repeated generation runs produce
// byte-identical output).
func (b *Batch) ByNamespace() map[string][]*Contract {
	out := make(map[string][]*Contract)
	var order []string
	seen := map[string]bool{}
	for i := range b.Contracts {
		ns := b.Contracts[i].Namespace
		if !seen[ns] {
			seen[ns] = true
			order = append(order, ns)
		}
		out[ns] = append(out[ns], &b.Contracts[i])
	}
	return out
}
