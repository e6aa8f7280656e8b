// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import "fmt"

// fieldPlan is a Member resolved against the graph once, so the three
// emitters (write/size/read) agree on exactly the same Go name and type.
type fieldPlan struct {
	member  *Member
	goName  string
	goType  string
	fieldID int32
}

func planMember(g *Graph, c *Contract, m *Member) (*fieldPlan, error) {
	t, err := memberGoType(g, c, m)
	if err != nil {
		return nil, err
	}
	return &fieldPlan{member: m, goName: goIdent(m.Name), goType: t, fieldID: m.FieldID}, nil
}

// emitWriteMember appends the write-side statements for one own member of
// contract c, with recv the receiver expression (e.g. "x").
func emitWriteMember(p *printer, g *Graph, c *Contract, m *Member, recv string) error {
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
		p.P("if err := codec.WriteMap(w, ", fp.fieldID, ", ", field, ", ", elemScalarCodecInline(c, m.MapKeyKind, keyOp), ", ", valExpr.write, "); err != nil { return err }")
		return nil

	case isByteCollection(m), m.Kind == KindBytes && m.Shape == ShapeNone:
		p.Block(fmt.Sprintf("if len(%s) > 0 {", field), func() {
			p.P("w.Tag(", fp.fieldID, ", wire.Bytes)")
			p.P("w.WriteBytes(", field, ")")
		})
		return nil

	case m.Shape != ShapeNone:
		return emitWriteRepeated(p, g, c, m, fp, field)

	case m.Kind == KindString:
		p.Block(fmt.Sprintf("if len(%s) > 0 {", field), func() {
			p.P("w.Tag(", fp.fieldID, ", wire.Bytes)")
			p.P("w.WriteString(", field, ")")
		})
		return nil

	case m.Kind == KindGUID:
		p.P("codec.WriteGUID(w, ", fp.fieldID, ", ", field, ", ", m.IsNullable, ")")
		return nil

	case m.Kind == KindMessage:
		n := g.Node(m.MessageType)
		contentFn := "Calculate" + localName(m.MessageType) + "ContentSize"
		writeFn := "Write" + localName(m.MessageType) + "Content"
		if n != nil && n.root().isPolymorphic() {
			contentFn = "Calculate" + localName(n.root().contract.FullName) + "ContentSize"
			writeFn = "Write" + localName(n.root().contract.FullName) + "Content"
		}
		p.Block(fmt.Sprintf("if %s != nil {", field), func() {
			p.P("contentSize := ", contentFn, "(", field, ")")
			p.P("if err := w.WrappedErr(", fp.fieldID, ", contentSize, func(w *wire.Writer) error { return ", writeFn, "(w, ", field, ") }); err != nil { return err }")
		})
		return nil

	default:
		op, err := scalarOpFor(c, m)
		if err != nil {
			return err
		}
		return emitWriteScalar(p, op, m, fp, field)
	}
}

func emitWriteScalar(p *printer, op scalarOp, m *Member, fp *fieldPlan, field string) error {
	arg := field
	if m.IsNullable {
		arg = "*" + field
	}
	writeArg := arg
	if op.WriteCast != "" {
		writeArg = fmt.Sprintf("%s(%s)", op.WriteCast, arg)
	}
	guard := fmt.Sprintf("if %s != nil {", field)
	if !m.IsNullable {
		guard = fmt.Sprintf("if !(%s) {", op.ZeroExpr(field))
	}
	p.Block(guard, func() {
		p.P("w.Tag(", fp.fieldID, ", ", op.WireTypeExpr, ")")
		p.P("w.", op.WriteMethod, "(", writeArg, ")")
	})
	return nil
}

func emitWriteRepeated(p *printer, g *Graph, c *Contract, m *Member, fp *fieldPlan, field string) error {
	switch m.Kind {
	case KindString, KindBytes, KindGUID, KindMessage:
		p.Block(fmt.Sprintf("for _, v := range %s {", field), func() {
			switch m.Kind {
			case KindString:
				p.P("w.Tag(", fp.fieldID, ", wire.Bytes)")
				p.P("w.WriteString(v)")
			case KindBytes:
				p.P("w.Tag(", fp.fieldID, ", wire.Bytes)")
				p.P("w.WriteBytes(v)")
			case KindGUID:
				p.P("codec.WriteGUID(w, ", fp.fieldID, ", v, true)")
			case KindMessage:
				n := g.Node(m.MessageType)
				contentFn := "Calculate" + localName(m.MessageType) + "ContentSize"
				writeFn := "Write" + localName(m.MessageType) + "Content"
				if n != nil && n.root().isPolymorphic() {
					contentFn = "Calculate" + localName(n.root().contract.FullName) + "ContentSize"
					writeFn = "Write" + localName(n.root().contract.FullName) + "Content"
				}
				p.P("if v == nil { return protoerrors.Wire(protoerrors.ErrNullInRepeated, 0, ", fp.fieldID, ") }")
				p.P("contentSize := ", contentFn, "(v)")
				p.P("if err := w.WrappedErr(", fp.fieldID, ", contentSize, func(w *wire.Writer) error { return ", writeFn, "(w, v) }); err != nil { return err }")
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
			p.P("{")
			p.P("sz := wire.NewSizer()")
			p.P("contentSize := codec.SizePackedScalar(sz, ", fp.fieldID, ", ", field, ", ", cdc, ")")
			p.P("codec.WritePackedScalar(w, ", fp.fieldID, ", ", field, ", contentSize, ", cdc, ")")
			p.P("}")
		} else {
			p.P("codec.WriteNonPackedScalar(w, ", fp.fieldID, ", ", field, ", ", cdc, ")")
		}
		return nil
	}
}

// elemScalarCodecInline builds a codec.ScalarCodec[T] literal for a scalar
// Kind resolved through scalarOpFor, for use in repeated/map-key position.
func elemScalarCodecInline(c *Contract, kind Kind, op scalarOp) string {
	readExpr := fmt.Sprintf("r.%s()", op.ReadMethod)
	readBody := fmt.Sprintf("return %s", readExpr)
	switch {
	case op.ReadCheck != "":
		readBody = fmt.Sprintf("v, err := %s; if err != nil { return 0, err }; return %s(v)", readExpr, op.ReadCheck)
	case op.ReadCast != "":
		readBody = fmt.Sprintf("v, err := %s; return %s(v), err", readExpr, op.ReadCast)
	}
	writeArg := "v"
	if op.WriteCast != "" {
		writeArg = fmt.Sprintf("%s(v)", op.WriteCast)
	}
	sizeArg := writeArg
	if op.SizeLiteral != "" {
		sizeArg = op.SizeLiteral
	}
	fixedWidth := 0
	if op.FixedWidth > 0 {
		fixedWidth = op.FixedWidth
	}
	return fmt.Sprintf(`codec.ScalarCodec[%s]{
		Write:      func(w *wire.Writer, v %s) { w.%s(%s) },
		Size:       func(s *wire.Sizer, v %s) { s.%s(%s) },
		Read:       func(r *wire.Reader) (%s, error) { %s },
		FixedWidth: %d,
	}`, op.GoType, op.GoType, op.WriteMethod, writeArg, op.GoType, op.SizeMethod, sizeArg, op.GoType, readBody, fixedWidth)
}

type mapValCodec struct {
	write string
	typ   string
}

// mapCodecLiterals returns the key op (always scalar) and value codec
// literal for a map member.
func mapCodecLiterals(g *Graph, c *Contract, m *Member) (scalarOp, mapValCodec, error) {
	keyOp, err := scalarOpFor(c, &Member{Kind: m.MapKeyKind, DataFormat: FormatDefault})
	if err != nil {
		return scalarOp{}, mapValCodec{}, err
	}
	valType, err := elemGoType(g, c, m.MapValueKind, m.MapValueType)
	if err != nil {
		return scalarOp{}, mapValCodec{}, err
	}

	var write string
	switch m.MapValueKind {
	case KindString:
		write = fmt.Sprintf(`codec.MapValueCodec[%s]{
			Write: func(w *wire.Writer, v %s) error { w.Tag(2, wire.Bytes); w.WriteString(v); return nil },
			Size:  func(s *wire.Sizer, v %s) int { sz := wire.NewSizer(); sz.Tag(2, wire.Bytes); sz.String(v); return sz.Size() },
			Read:  func(r *wire.Reader) (%s, error) { return r.String() },
		}`, valType, valType, valType, valType)
	case KindBytes:
		write = fmt.Sprintf(`codec.MapValueCodec[%s]{
			Write: func(w *wire.Writer, v %s) error { w.Tag(2, wire.Bytes); w.WriteBytes(v); return nil },
			Size:  func(s *wire.Sizer, v %s) int { sz := wire.NewSizer(); sz.Tag(2, wire.Bytes); sz.Bytes(v); return sz.Size() },
			Read:  func(r *wire.Reader) (%s, error) { return r.Bytes() },
		}`, valType, valType, valType, valType)
	case KindGUID:
		write = fmt.Sprintf(`codec.MapValueCodec[%s]{
			Write: func(w *wire.Writer, v %s) error { codec.WriteGUID(w, 2, v, true); return nil },
			Size:  func(s *wire.Sizer, v %s) int { sz := wire.NewSizer(); codec.SizeGUID(sz, 2, v, true); return sz.Size() },
			Read:  func(r *wire.Reader) (%s, error) { return codec.ReadGUID(r) },
		}`, valType, valType, valType, valType)
	case KindMessage:
		n := g.Node(m.MapValueType)
		contentFn := "Calculate" + localName(m.MapValueType) + "ContentSize"
		writeFn := "Write" + localName(m.MapValueType) + "Content"
		readFn := "Read" + localName(m.MapValueType) + "Content"
		if n != nil && n.root().isPolymorphic() {
			contentFn = "Calculate" + localName(n.root().contract.FullName) + "ContentSize"
			writeFn = "Write" + localName(n.root().contract.FullName) + "Content"
			readFn = "Read" + localName(n.root().contract.FullName) + "Content"
		}
		write = fmt.Sprintf(`codec.MapValueCodec[%s]{
			Write: func(w *wire.Writer, v %s) error {
				if v == nil { return protoerrors.Wire(protoerrors.ErrNullInRepeated, 0, 2) }
				contentSize := %s(v)
				return w.WrappedErr(2, contentSize, func(w *wire.Writer) error { return %s(w, v) })
			},
			Size:  func(s *wire.Sizer, v %s) int { sz := wire.NewSizer(); sz.Wrapped(2, %s(v)); return sz.Size() },
			Read:  func(r *wire.Reader) (%s, error) { sub, err := r.SubReader(); if err != nil { return nil, err }; return %s(sub) },
		}`, valType, valType, contentFn, writeFn, valType, contentFn, valType, readFn)
	default:
		valOp, err := scalarOpFor(c, &Member{Kind: m.MapValueKind, DataFormat: FormatDefault})
		if err != nil {
			return scalarOp{}, mapValCodec{}, err
		}
		writeArg := "v"
		if valOp.WriteCast != "" {
			writeArg = fmt.Sprintf("%s(v)", valOp.WriteCast)
		}
		sizeArg := writeArg
		if valOp.SizeLiteral != "" {
			sizeArg = valOp.SizeLiteral
		}
		readExpr := fmt.Sprintf("r.%s()", valOp.ReadMethod)
		readBody := fmt.Sprintf("return %s", readExpr)
		switch {
		case valOp.ReadCheck != "":
			readBody = fmt.Sprintf("v, err := %s; if err != nil { return 0, err }; return %s(v)", readExpr, valOp.ReadCheck)
		case valOp.ReadCast != "":
			readBody = fmt.Sprintf("v, err := %s; return %s(v), err", readExpr, valOp.ReadCast)
		}
		write = fmt.Sprintf(`codec.MapValueCodec[%s]{
			Write: func(w *wire.Writer, v %s) error { w.Tag(2, %s); w.%s(%s); return nil },
			Size:  func(s *wire.Sizer, v %s) int { sz := wire.NewSizer(); sz.Tag(2, %s); sz.%s(%s); return sz.Size() },
			Read:  func(r *wire.Reader) (%s, error) { %s },
		}`, valType, valType, valOp.WireTypeExpr, valOp.WriteMethod, writeArg,
			valType, valOp.WireTypeExpr, valOp.SizeMethod, sizeArg, valType, readBody)
	}
	return keyOp, mapValCodec{write: write, typ: valType}, nil
}
