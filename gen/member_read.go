// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import "fmt"

// emitReadCase appends one full `case fieldID: ... ` arm (label included)
// to the dispatch switch inside a contract's own-members read loop. recv
// is the receiver expression (e.g. "x", already a non-nil pointer by the
// time this runs).
func emitReadCase(p *printer, g *Graph, c *Contract, m *Member, recv string) error {
	fp, err := planMember(g, c, m)
	if err != nil {
		return err
	}
	p.P("case ", fp.fieldID, ":")
	p.indent++
	err = emitReadFieldBody(p, g, c, m, recv)
	p.indent--
	return err
}

// emitReadFieldBody appends the decode statements for one member,
// without a surrounding case label — used when the caller has already
// printed the label and an intervening nil-check/accessor line (the
// polymorphic dispatch loop's own-member arms, spec §4.4).
func emitReadFieldBody(p *printer, g *Graph, c *Contract, m *Member, recv string) error {
	fp, err := planMember(g, c, m)
	if err != nil {
		return err
	}
	field := recv + "." + fp.goName

	switch {
	case m.IsMap:
		return emitReadMap(p, g, c, m, field)

	case isByteCollection(m), m.Kind == KindBytes && m.Shape == ShapeNone:
		p.P("v, err := r.Bytes()")
		p.P("if err != nil { return nil, err }")
		p.P(field, " = append([]byte(nil), v...)")
		return nil

	case m.Shape != ShapeNone:
		return emitReadRepeated(p, g, c, m, fp, field)

	case m.Kind == KindString:
		p.P("v, err := r.String()")
		p.P("if err != nil { return nil, err }")
		p.P(field, " = v")
		return nil

	case m.Kind == KindGUID:
		p.P("v, err := codec.ReadGUID(r)")
		p.P("if err != nil { return nil, err }")
		if m.IsNullable {
			p.P(field, " = &v")
		} else {
			p.P(field, " = v")
		}
		return nil

	case m.Kind == KindMessage:
		readFn := readContentFuncFor(g, m.MessageType)
		p.P("sub, err := r.SubReader()")
		p.P("if err != nil { return nil, err }")
		p.P("v, err := ", readFn, "(sub)")
		p.P("if err != nil { return nil, err }")
		p.P(field, " = v")
		return nil

	default:
		op, err := scalarOpFor(c, m)
		if err != nil {
			return err
		}
		readExpr := fmt.Sprintf("r.%s()", op.ReadMethod)
		p.P("v, err := ", readExpr)
		p.P("if err != nil { return nil, err }")
		assign := "v"
		switch {
		case op.ReadCheck != "":
			p.P("nv, err := ", op.ReadCheck, "(v)")
			p.P("if err != nil { return nil, err }")
			assign = "nv"
		case op.ReadCast != "":
			assign = fmt.Sprintf("%s(v)", op.ReadCast)
		}
		if m.IsNullable {
			p.P("cv := ", assign)
			p.P(field, " = &cv")
		} else {
			p.P(field, " = ", assign)
		}
		return nil
	}
}

func readContentFuncFor(g *Graph, fullName string) string {
	n := g.Node(fullName)
	if n != nil && n.root().isPolymorphic() {
		return "Read" + localName(n.root().contract.FullName) + "Content"
	}
	return "Read" + localName(fullName) + "Content"
}

func emitReadMap(p *printer, g *Graph, c *Contract, m *Member, field string) error {
	keyOp, valExpr, err := mapCodecLiterals(g, c, m)
	if err != nil {
		return err
	}
	_ = valExpr
	p.P("sub, err := r.SubReader()")
	p.P("if err != nil { return nil, err }")
	p.P("e, err := codec.ReadMapEntry(sub, ", elemScalarCodecInline(c, m.MapKeyKind, keyOp), ", ", valExpr.write, ")")
	p.P("if err != nil { return nil, err }")
	p.P(field, " = codec.UpsertLastWins(", field, ", e)")
	return nil
}

func emitReadRepeated(p *printer, g *Graph, c *Contract, m *Member, fp *fieldPlan, field string) error {
	switch m.Kind {
	case KindString:
		p.P("first, err := r.String()")
		p.P("if err != nil { return nil, err }")
		emitNonPackedGather(p, "string", fp.fieldID, "func(r *wire.Reader) (string, error) { return r.String() }")
		p.P(field, " = append(", field, ", rest...)")
		return nil
	case KindBytes:
		p.P("first, err := r.Bytes()")
		p.P("if err != nil { return nil, err }")
		emitNonPackedGather(p, "[]byte", fp.fieldID, "func(r *wire.Reader) ([]byte, error) { return r.Bytes() }")
		p.P(field, " = append(", field, ", rest...)")
		return nil
	case KindGUID:
		p.P("first, err := codec.ReadGUID(r)")
		p.P("if err != nil { return nil, err }")
		emitNonPackedGather(p, "uuid.UUID", fp.fieldID, "func(r *wire.Reader) (uuid.UUID, error) { return codec.ReadGUID(r) }")
		p.P(field, " = append(", field, ", rest...)")
		return nil
	case KindMessage:
		elemType, err := elemGoType(g, c, KindMessage, m.MessageType)
		if err != nil {
			return err
		}
		readFn := readContentFuncFor(g, m.MessageType)
		p.P("firstSub, err := r.SubReader()")
		p.P("if err != nil { return nil, err }")
		p.P("first, err := ", readFn, "(firstSub)")
		p.P("if err != nil { return nil, err }")
		emitNonPackedGather(p, elemType, fp.fieldID, fmt.Sprintf(`func(r *wire.Reader) (%s, error) {
			sub, err := r.SubReader()
			if err != nil { return nil, err }
			return %s(sub)
		}`, elemType, readFn))
		p.P(field, " = append(", field, ", rest...)")
		return nil
	default:
		op, err := scalarOpFor(c, m)
		if err != nil {
			return err
		}
		cdc := elemScalarCodecInline(c, m.Kind, op)
		if m.IsPacked {
			p.P("sub, err := r.SubReader()")
			p.P("if err != nil { return nil, err }")
			if op.FixedWidth > 0 {
				p.P("if err := codec.CheckPackedFixedLength(sub.Len(), ", op.FixedWidth, "); err != nil { return nil, err }")
			}
			p.P("vals, err := codec.ReadPackedScalar(sub, ", cdc, ")")
			p.P("if err != nil { return nil, err }")
			p.P(field, " = append(", field, ", vals...)")
		} else {
			readExpr := fmt.Sprintf("r.%s()", op.ReadMethod)
			readBody := fmt.Sprintf("return %s", readExpr)
			switch {
			case op.ReadCheck != "":
				readBody = fmt.Sprintf("v, err := %s; if err != nil { return 0, err }; return %s(v)", readExpr, op.ReadCheck)
			case op.ReadCast != "":
				readBody = fmt.Sprintf("v, err := %s; return %s(v), err", readExpr, op.ReadCast)
			}
			p.P("first, err := func() (", op.GoType, ", error) { ", readBody, " }()")
			p.P("if err != nil { return nil, err }")
			p.P("rest, err := codec.ReadNonPackedRepeated(r, ", fp.fieldID, ", first, ", cdc, ")")
			p.P("if err != nil { return nil, err }")
			p.P(field, " = append(", field, ", rest...)")
		}
		return nil
	}
}

func emitNonPackedGather(p *printer, goType string, fieldID int32, readClosure string) {
	p.P("cdc := codec.ScalarCodec[", goType, "]{Read: ", readClosure, "}")
	p.P("rest, err := codec.ReadNonPackedRepeated(r, ", fieldID, ", first, cdc)")
	p.P("if err != nil { return nil, err }")
}
