// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import "fmt"

// isByteCollection reports the "any logical sequence of u8 is encoded as
// a single LEN blob, never a repeated field" rule (spec §4.2): a Kind of
// Uint8 with a non-None Shape collapses to a plain bytes member.
func isByteCollection(m *Member) bool {
	return m.Kind == KindUint8 && m.Shape != ShapeNone && !m.IsMap
}

// messageGoType returns the Go type used to reference contract fullName
// as a message-typed member: the polymorphic root's interface name if
// fullName is (or derives from) a polymorphism site, otherwise a pointer
// to its plain struct type.
func messageGoType(g *Graph, fullName string) string {
	n := g.Node(fullName)
	if n == nil {
		return "*" + localName(fullName) // dangling reference caught earlier by validation
	}
	root := n.root()
	if root.isPolymorphic() {
		return "I" + localName(root.contract.FullName)
	}
	return "*" + localName(fullName)
}

// elemGoType returns the Go type of one element of a repeated or map
// member (never wrapped in a slice/pointer itself).
func elemGoType(g *Graph, c *Contract, kind Kind, messageType string) (string, error) {
	switch kind {
	case KindString:
		return "string", nil
	case KindBytes:
		return "[]byte", nil
	case KindGUID:
		return "uuid.UUID", nil
	case KindMessage:
		return messageGoType(g, messageType), nil
	default:
		op, err := scalarOpFor(c, &Member{Kind: kind, DataFormat: FormatDefault})
		if err != nil {
			return "", err
		}
		return op.GoType, nil
	}
}

// memberGoType computes the full Go field type for m, honoring
// nullability, collection shape, and map shape.
func memberGoType(g *Graph, c *Contract, m *Member) (string, error) {
	if m.IsMap {
		keyType, err := elemGoType(g, c, m.MapKeyKind, "")
		if err != nil {
			return "", err
		}
		valType, err := elemGoType(g, c, m.MapValueKind, m.MapValueType)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("[]codec.Entry[%s, %s]", keyType, valType), nil
	}
	if isByteCollection(m) {
		return "[]byte", nil
	}
	if m.Shape != ShapeNone {
		elem, err := elemGoType(g, c, m.Kind, m.MessageType)
		if err != nil {
			return "", err
		}
		return "[]" + elem, nil
	}
	switch m.Kind {
	case KindString:
		return "string", nil
	case KindBytes:
		return "[]byte", nil
	case KindGUID:
		if m.IsNullable {
			return "*uuid.UUID", nil
		}
		return "uuid.UUID", nil
	case KindMessage:
		return messageGoType(g, m.MessageType), nil
	default:
		op, err := scalarOpFor(c, m)
		if err != nil {
			return "", err
		}
		if m.IsNullable {
			return "*" + op.GoType, nil
		}
		return op.GoType, nil
	}
}
