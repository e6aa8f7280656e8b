// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import "fmt"

// emitSizeMember mirrors emitWriteMember for the size pre-pass, writing
// into the local *wire.Sizer named "sz".
func emitSizeMember(p *printer, g *Graph, c *Contract, m *Member, recv string) error {
	fp, err := planMember(g, c, m)
	if err != nil {
		return err
	}
	field := recv + "." + fp.goName

	switch {
	case m.IsMap:
		keyOp, valExpr, err := mapCodecLiterals(g, c, m)
		if err != nil {
			return err
		}
		p.P("codec.SizeMap(sz, ", fp.fieldID, ", ", field, ", ", elemScalarCodecInline(c, m.MapKeyKind, keyOp), ", ", valExpr.write, ")")
		return nil

	case isByteCollection(m), m.Kind == KindBytes && m.Shape == ShapeNone:
		p.Block(fmt.Sprintf("if len(%s) > 0 {", field), func() {
			p.P("sz.Tag(", fp.fieldID, ", wire.Bytes)")
			p.P("sz.Bytes(", field, ")")
		})
		return nil

	case m.Shape != ShapeNone:
		return emitSizeRepeated(p, g, c, m, fp, field)

	case m.Kind == KindString:
		p.Block(fmt.Sprintf("if len(%s) > 0 {", field), func() {
			p.P("sz.Tag(", fp.fieldID, ", wire.Bytes)")
			p.P("sz.String(", field, ")")
		})
		return nil

	case m.Kind == KindGUID:
		p.P("codec.SizeGUID(sz, ", fp.fieldID, ", ", field, ", ", m.IsNullable, ")")
		return nil

	case m.Kind == KindMessage:
		n := g.Node(m.MessageType)
		contentFn := "Calculate" + localName(m.MessageType) + "ContentSize"
		if n != nil && n.root().isPolymorphic() {
			contentFn = "Calculate" + localName(n.root().contract.FullName) + "ContentSize"
		}
		p.Block(fmt.Sprintf("if %s != nil {", field), func() {
			p.P("sz.Wrapped(", fp.fieldID, ", ", contentFn, "(", field, "))")
		})
		return nil

	default:
		op, err := scalarOpFor(c, m)
		if err != nil {
			return err
		}
		arg := field
		if m.IsNullable {
			arg = "*" + field
		}
		sizeArg := arg
		if op.WriteCast != "" {
			sizeArg = fmt.Sprintf("%s(%s)", op.WriteCast, arg)
		}
		if op.SizeLiteral != "" {
			sizeArg = op.SizeLiteral
		}
		guard := fmt.Sprintf("if %s != nil {", field)
		if !m.IsNullable {
			guard = fmt.Sprintf("if !(%s) {", op.ZeroExpr(field))
		}
		p.Block(guard, func() {
			p.P("sz.Tag(", fp.fieldID, ", ", op.WireTypeExpr, ")")
			p.P("sz.", op.SizeMethod, "(", sizeArg, ")")
		})
		return nil
	}
}

func emitSizeRepeated(p *printer, g *Graph, c *Contract, m *Member, fp *fieldPlan, field string) error {
	switch m.Kind {
	case KindString, KindBytes, KindGUID, KindMessage:
		p.Block(fmt.Sprintf("for _, v := range %s {", field), func() {
			switch m.Kind {
			case KindString:
				p.P("sz.Tag(", fp.fieldID, ", wire.Bytes)")
				p.P("sz.String(v)")
			case KindBytes:
				p.P("sz.Tag(", fp.fieldID, ", wire.Bytes)")
				p.P("sz.Bytes(v)")
			case KindGUID:
				p.P("codec.SizeGUID(sz, ", fp.fieldID, ", v, true)")
			case KindMessage:
				n := g.Node(m.MessageType)
				contentFn := "Calculate" + localName(m.MessageType) + "ContentSize"
				if n != nil && n.root().isPolymorphic() {
					contentFn = "Calculate" + localName(n.root().contract.FullName) + "ContentSize"
				}
				p.P("sz.Wrapped(", fp.fieldID, ", ", contentFn, "(v))")
			}
		})
		return nil
	default:
		op, err := scalarOpFor(c, m)
		if err != nil {
			return err
		}
		cdc := elemScalarCodecInline(c, m.Kind, op)
		if m.IsPacked {
			p.P("codec.SizePackedScalar(sz, ", fp.fieldID, ", ", field, ", ", cdc, ")")
		} else {
			p.P("codec.SizeNonPackedScalar(sz, ", fp.fieldID, ", ", field, ", ", cdc, ")")
		}
		return nil
	}
}
