// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"fmt"
	"sort"

	protoerrors "protonet.example/protonet/internal/errors"
)

// emitContract appends every declaration for one contract node to p:
// its struct type, marker/accessor methods if it is itself a
// polymorphism site, own-member write/size/read helpers, the
// ReadContent/WriteContent/CalculateContentSize trio, and — for a
// hierarchy root or a non-polymorphic contract — the public
// Serialize/Deserialize/CalculateSize entry points (spec §4.4).
func emitContract(p *printer, g *Graph, n *node) protoerrors.Diagnostics {
	var diags protoerrors.Diagnostics
	name := localName(n.contract.FullName)

	emitStruct(p, g, n)

	if n.isPolymorphic() && len(n.children) > 0 {
		emitInterfaceType(p, n)
		emitMarkerMethods(p, n)
	}

	if err := emitOwnMembersWrite(p, g, n.contract, "x"); err != nil {
		diags = append(diags, asDiagnostics(err)...)
	}
	if err := emitOwnMembersSize(p, g, n.contract, "x"); err != nil {
		diags = append(diags, asDiagnostics(err)...)
	}

	switch {
	case len(n.children) > 0:
		// A polymorphism site (root or mid-level): dispatch trio.
		if err := emitDispatchWrite(p, g, n); err != nil {
			diags = append(diags, asDiagnostics(err)...)
		}
		if err := emitDispatchSize(p, g, n); err != nil {
			diags = append(diags, asDiagnostics(err)...)
		}
		if err := emitDispatchRead(p, g, n); err != nil {
			diags = append(diags, asDiagnostics(err)...)
		}
		if n.parent == nil {
			emitPublicAPIInterface(p, name)
		}
	default:
		// A leaf (has a parent, no children of its own) or a standalone
		// non-polymorphic contract: only an own-members content loop.
		if err := emitOwnMembersRead(p, g, n.contract, name); err != nil {
			diags = append(diags, asDiagnostics(err)...)
		}
		// Both a derived leaf (addressed as Write*Content/
		// Calculate*ContentSize by its ancestor's dispatch switch, via
		// emitDispatchWrite/emitDispatchSize below) and a standalone
		// contract (addressed the same way by any other contract that
		// nests it as a KindMessage member, via emitWriteMember) need
		// these two wrappers even though neither dispatches on its own
		// — they simply forward to writeOwnMembers/sizeOwnMembers.
		emitLeafContentWrappers(p, name)
		if n.parent == nil {
			emitPublicAPIConcrete(p, name)
		}
	}

	return diags
}

func asDiagnostics(err error) protoerrors.Diagnostics {
	if ds, ok := err.(protoerrors.Diagnostics); ok {
		return ds
	}
	if d, ok := err.(*protoerrors.Diagnostic); ok {
		return protoerrors.Diagnostics{d}
	}
	return protoerrors.Diagnostics{{Reason: err.Error()}}
}

func emitStruct(p *printer, g *Graph, n *node) {
	name := localName(n.contract.FullName)
	p.Block(fmt.Sprintf("type %s struct {", name), func() {
		if n.parent != nil {
			p.P(localName(n.parent.contract.FullName))
		}
		for _, m := range n.contract.Members {
			t, err := memberGoType(g, n.contract, &m)
			if err != nil {
				p.P("// ", m.Name, ": ", err.Error())
				continue
			}
			p.P(goIdent(m.Name), " ", t)
		}
		if n.contract.KeepUnrecognized != "" {
			p.P(goIdent(n.contract.KeepUnrecognized), " []byte")
		}
	})
}

// emitInterfaceType declares the interface a polymorphism site's
// concrete and descendant types implement. A mid-level site embeds its
// parent's interface so a deeper dispatch's result is directly
// assignable to an ancestor's result variable (spec §4.4).
func emitInterfaceType(p *printer, n *node) {
	name := localName(n.contract.FullName)
	p.Block(fmt.Sprintf("type I%s interface {", name), func() {
		if n.parent != nil && len(n.parent.children) > 0 {
			p.P("I", localName(n.parent.contract.FullName))
		}
		p.P("is", name, "()")
		p.P("as", name, "() *", name)
	})
}

// emitMarkerMethods emits the interface-satisfaction pair for a
// polymorphism site: isX() is an unexported marker so only contracts
// generated into this hierarchy can implement IX, and asX() recovers
// the site's own struct from any descendant value — the mechanism that
// lets a single read loop reach fields declared anywhere in the chain
// (spec §4.4's nested-wrapper algorithm).
func emitMarkerMethods(p *printer, n *node) {
	name := localName(n.contract.FullName)
	p.P("func (x *", name, ") is", name, "() {}")
	p.P("func (x *", name, ") as", name, "() *", name, " { return x }")
}

func emitOwnMembersWrite(p *printer, g *Graph, c *Contract, recv string) error {
	name := localName(c.FullName)
	var diags protoerrors.Diagnostics
	p.Block(fmt.Sprintf("func writeOwnMembers%s(w *wire.Writer, %s *%s) error {", name, recv, name), func() {
		for i := range c.Members {
			if err := emitWriteMember(p, g, c, &c.Members[i], recv); err != nil {
				diags = append(diags, asDiagnostics(err)...)
			}
		}
		if c.KeepUnrecognized != "" {
			p.P("w.Raw(", recv, ".", goIdent(c.KeepUnrecognized), ")")
		}
		p.P("return nil")
	})
	if len(diags) > 0 {
		return diags
	}
	return nil
}

func emitOwnMembersSize(p *printer, g *Graph, c *Contract, recv string) error {
	name := localName(c.FullName)
	var diags protoerrors.Diagnostics
	p.Block(fmt.Sprintf("func sizeOwnMembers%s(sz *wire.Sizer, %s *%s) {", name, recv, name), func() {
		for i := range c.Members {
			if err := emitSizeMember(p, g, c, &c.Members[i], recv); err != nil {
				diags = append(diags, asDiagnostics(err)...)
			}
		}
		if c.KeepUnrecognized != "" {
			p.P("sz.Raw(len(", recv, ".", goIdent(c.KeepUnrecognized), "))")
		}
	})
	if len(diags) > 0 {
		return diags
	}
	return nil
}

// emitOwnMembersRead emits ReadXContent for a leaf or standalone
// contract: a plain dispatch-free loop over its own declared members.
func emitOwnMembersRead(p *printer, g *Graph, c *Contract, name string) error {
	var diags protoerrors.Diagnostics
	p.Block(fmt.Sprintf("func Read%sContent(r *wire.Reader) (*%s, error) {", name, name), func() {
		p.P("x := &", name, "{}")
		p.Block("for !r.Done() {", func() {
			if c.KeepUnrecognized != "" {
				p.P("mark := r.Pos()")
			}
			p.P("fieldID, wireType, err := r.Tag()")
			p.P("if err != nil { return nil, err }")
			p.Block("switch fieldID {", func() {
				for i := range c.Members {
					if err := emitReadCase(p, g, c, &c.Members[i], "x"); err != nil {
						diags = append(diags, asDiagnostics(err)...)
					}
				}
				p.P("default:")
				p.indent++
				p.P("if err := r.Skip(wireType); err != nil { return nil, err }")
				if c.KeepUnrecognized != "" {
					field := goIdent(c.KeepUnrecognized)
					p.P("x.", field, " = append(x.", field, ", r.Since(mark)...)")
				}
				p.indent--
			})
		})
		p.P("return x, nil")
	})
	if len(diags) > 0 {
		return diags
	}
	return nil
}

// childCaseExpr returns the Go type expression used as a switch case to
// catch exactly child's subtree: the child's own interface if it is
// itself a further polymorphism site, else its bare concrete pointer
// type (promotion already makes that pointer satisfy every ancestor
// interface, spec §4.4).
func childCaseExpr(child *node) string {
	if len(child.children) > 0 {
		return "I" + localName(child.contract.FullName)
	}
	return "*" + localName(child.contract.FullName)
}

func sortedChildren(n *node) []*node {
	out := append([]*node(nil), n.children...)
	sort.Slice(out, func(i, j int) bool { return out[i].contract.FullName < out[j].contract.FullName })
	return out
}

func emitDispatchWrite(p *printer, g *Graph, n *node) error {
	name := localName(n.contract.FullName)
	iface := "I" + name
	p.Block(fmt.Sprintf("func Write%sContent(w *wire.Writer, x %s) error {", name, iface), func() {
		p.Block("switch v := x.(type) {", func() {
			p.P("case *", name, ":")
			p.indent++
			p.P("if err := writeOwnMembers", name, "(w, v); err != nil { return err }")
			p.indent--
			for _, child := range sortedChildren(n) {
				p.P("case ", childCaseExpr(child), ":")
				p.indent++
				childName := localName(child.contract.FullName)
				p.P("contentSize := Calculate", childName, "ContentSize(v)")
				p.P("if err := w.WrappedErr(", child.includeField, ", contentSize, func(w *wire.Writer) error { return Write", childName, "Content(w, v) }); err != nil { return err }")
				p.P("if err := writeOwnMembers", name, "(w, v.as", name, "()); err != nil { return err }")
				p.indent--
			}
			p.P("default:")
			p.indent++
			p.P(`return fmt.Errorf("`, name, `: unrecognized runtime type %T", x)`)
			p.indent--
		})
		p.P("return nil")
	})
	return nil
}

func emitDispatchSize(p *printer, g *Graph, n *node) error {
	name := localName(n.contract.FullName)
	iface := "I" + name
	p.Block(fmt.Sprintf("func Calculate%sContentSize(x %s) int {", name, iface), func() {
		p.P("sz := wire.NewSizer()")
		p.Block("switch v := x.(type) {", func() {
			p.P("case *", name, ":")
			p.indent++
			p.P("sizeOwnMembers", name, "(sz, v)")
			p.indent--
			for _, child := range sortedChildren(n) {
				p.P("case ", childCaseExpr(child), ":")
				p.indent++
				childName := localName(child.contract.FullName)
				p.P("sz.Wrapped(", child.includeField, ", Calculate", childName, "ContentSize(v))")
				p.P("sizeOwnMembers", name, "(sz, v.as", name, "())")
				p.indent--
			}
		})
		p.P("return sz.Size()")
	})
	return nil
}

func emitDispatchRead(p *printer, g *Graph, n *node) error {
	name := localName(n.contract.FullName)
	iface := "I" + name
	var diags protoerrors.Diagnostics
	p.Block(fmt.Sprintf("func Read%sContent(r *wire.Reader) (%s, error) {", name, iface), func() {
		p.P("var result ", iface)
		p.P("included := false")
		p.Block("for !r.Done() {", func() {
			p.P("fieldID, wireType, err := r.Tag()")
			p.P("if err != nil { return nil, err }")
			p.Block("switch fieldID {", func() {
				for _, child := range sortedChildren(n) {
					childName := localName(child.contract.FullName)
					p.P("case ", child.includeField, ":")
					p.indent++
					p.P("if included {")
					p.indent++
					p.P(`return nil, protoerrors.Wire(protoerrors.ErrTypeMismatch, r.Pos(), fieldID)`)
					p.indent--
					p.P("}")
					p.P("sub, err := r.SubReader()")
					p.P("if err != nil { return nil, err }")
					p.P("inner, err := Read", childName, "Content(sub)")
					p.P("if err != nil { return nil, err }")
					p.P("result = inner")
					p.P("included = true")
					p.indent--
				}
				for i := range n.contract.Members {
					m := &n.contract.Members[i]
					p.P("case ", m.FieldID, ":")
					p.indent++
					p.P("if result == nil {")
					p.indent++
					if n.contract.IsAbstract {
						p.P(`return nil, protoerrors.Wire(protoerrors.ErrPolymorphismFirst, r.Pos(), fieldID)`)
					} else {
						p.P("result = &", name, "{}")
					}
					p.indent--
					p.P("}")
					p.P("base := result.as", name, "()")
					if err := emitReadFieldBody(p, g, n.contract, m, "base"); err != nil {
						diags = append(diags, asDiagnostics(err)...)
					}
					p.indent--
				}
				p.P("default:")
				p.indent++
				p.P("if err := r.Skip(wireType); err != nil { return nil, err }")
				p.indent--
			})
		})
		if !n.contract.IsAbstract {
			p.Block("if result == nil {", func() {
				p.P("result = &", name, "{}")
			})
		}
		p.P("return result, nil")
	})
	if len(diags) > 0 {
		return diags
	}
	return nil
}

// emitLeafContentWrappers gives a derived leaf contract the same
// Write*Content/Calculate*ContentSize call surface a polymorphism site
// has, so an ancestor's dispatch switch (emitDispatchWrite/emitDispatchSize)
// can call into it uniformly regardless of whether this particular
// derived type is itself further subclassed.
func emitLeafContentWrappers(p *printer, name string) {
	p.P("func Write", name, "Content(w *wire.Writer, x *", name, ") error {")
	p.indent++
	p.P("return writeOwnMembers", name, "(w, x)")
	p.indent--
	p.P("}")
	p.P()
	p.P("func Calculate", name, "ContentSize(x *", name, ") int {")
	p.indent++
	p.P("sz := wire.NewSizer()")
	p.P("sizeOwnMembers", name, "(sz, x)")
	p.P("return sz.Size()")
	p.indent--
	p.P("}")
	p.P()
}

func emitPublicAPIInterface(p *printer, name string) {
	p.P("func Serialize", name, "(sink io.Writer, x I", name, ") error {")
	p.indent++
	p.P("w := wire.NewWriter(sink)")
	p.P("if err := Write", name, "Content(w, x); err != nil { return err }")
	p.P("return w.Flush()")
	p.indent--
	p.P("}")
	p.P()
	p.P("func Deserialize", name, "(buf []byte) (I", name, ", error) {")
	p.indent++
	p.P("return Read", name, "Content(wire.NewReader(buf))")
	p.indent--
	p.P("}")
	p.P()
	p.P("func Calculate", name, "Size(x I", name, ") int { return Calculate", name, "ContentSize(x) }")
}

func emitPublicAPIConcrete(p *printer, name string) {
	p.P("func Serialize", name, "(sink io.Writer, x *", name, ") error {")
	p.indent++
	p.P("w := wire.NewWriter(sink)")
	p.P("if err := writeOwnMembers", name, "(w, x); err != nil { return err }")
	p.P("return w.Flush()")
	p.indent--
	p.P("}")
	p.P()
	p.P("func Deserialize", name, "(buf []byte) (*", name, ", error) {")
	p.indent++
	p.P("return Read", name, "Content(wire.NewReader(buf))")
	p.indent--
	p.P("}")
	p.P()
	p.P("func Calculate", name, "Size(x *", name, ") int { sz := wire.NewSizer(); sizeOwnMembers", name, "(sz, x); return sz.Size() }")
}
