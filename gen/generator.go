// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"fmt"
	"sort"

	protoerrors "protonet.example/protonet/internal/errors"
)

// File is one generated Go source file, the namespace-level unit of
// output (spec §5's module layout: "one formatted <namespace>.pb.go-style
// file per namespace").
type File struct {
	Namespace   string
	PackageName string
	Content     []byte
}

// GenerateFile emits the Go source for every contract in one namespace,
// in FullName order so repeated runs over the same Batch are
// byte-identical (spec §9). Contracts are assumed fully declared within
// their own namespace — a message-typed member referencing a contract in
// a different namespace is not supported by this generator (no package
// import graph is computed).
func GenerateFile(g *Graph, namespace string, contracts []*Contract) (*File, error) {
	pkg := packageName(namespace)
	needs := importsNeeded(g, contracts)

	p := &printer{}
	p.P("// Code generated by protonetc. DO NOT EDIT.")
	p.P("package ", pkg)
	p.P()
	p.Block("import (", func() {
		if needs.fmt {
			p.P(quote("fmt"))
		}
		p.P(quote("io"))
		p.P()
		if needs.uuid {
			p.P(quote("github.com/google/uuid"))
			p.P()
		}
		if needs.codec {
			p.P(quote("protonet.example/protonet/codec"))
		}
		if needs.protoerrors {
			p.P("protoerrors ", quote("protonet.example/protonet/internal/errors"))
		}
		p.P(quote("protonet.example/protonet/wire"))
	})
	p.P()

	sorted := append([]*Contract(nil), contracts...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].FullName < sorted[j].FullName })

	var diags protoerrors.Diagnostics
	for _, c := range sorted {
		n := g.Node(c.FullName)
		if n == nil {
			diags = append(diags, &protoerrors.Diagnostic{Contract: c.FullName, Reason: "not present in the resolved graph"})
			continue
		}
		// Every contract is emitted here exactly once: emitContract only
		// ever prints n's own declarations (never a descendant's), so
		// iterating every contract once is correct and complete
		// regardless of tree shape.
		if ds := emitContract(p, g, n); len(ds) > 0 {
			diags = append(diags, ds...)
		}
	}

	content, err := p.Content()
	if err != nil {
		return nil, fmt.Errorf("gen: namespace %q: %w", namespace, err)
	}
	if len(diags) > 0 {
		return &File{Namespace: namespace, PackageName: pkg, Content: content}, diags
	}
	return &File{Namespace: namespace, PackageName: pkg, Content: content}, nil
}

// fileImports tracks which optional imports a generated namespace file
// actually exercises. io and wire are unconditional: every namespace has
// at least one hierarchy root or standalone contract (emitting a
// Serialize/Deserialize entry point over io.Writer), and every procedure
// signature takes a *wire.Reader/*wire.Writer/*wire.Sizer regardless of
// member shape. The rest are only pulled in by the member shapes and
// polymorphism sites this specific namespace's contracts actually use —
// a generated file that imports a package it never references fails to
// compile, so these must track real usage, not just be listed by habit.
type fileImports struct {
	fmt         bool // emitDispatchWrite's unrecognized-runtime-type error
	uuid        bool // any GUID-kind member
	codec       bool // map / GUID / repeated member / narrow int member
	protoerrors bool // dispatch-site TypeMismatch/PolymorphismFirst, or a NullInRepeated check on a message-typed repeated/map member
}

func isNarrowInt(k Kind) bool {
	switch k {
	case KindInt8, KindInt16, KindUint8, KindUint16:
		return true
	default:
		return false
	}
}

func importsNeeded(g *Graph, contracts []*Contract) fileImports {
	var needs fileImports
	for _, c := range contracts {
		for i := range c.Members {
			m := &c.Members[i]
			if m.Kind == KindGUID {
				needs.uuid = true
				needs.codec = true
			}
			if m.IsMap {
				needs.codec = true
				if m.MapKeyKind == KindGUID || m.MapValueKind == KindGUID {
					needs.uuid = true
				}
				// mapCodecLiterals always resolves key/value scalar ops
				// with FormatDefault, so a narrow-int key or value always
				// goes through codec's overflow-checked narrowing.
				if isNarrowInt(m.MapKeyKind) || isNarrowInt(m.MapValueKind) {
					needs.codec = true
				}
				// A message-typed map value's generated Write closure
				// raises ErrNullInRepeated on a nil value (spec §7).
				if m.MapValueKind == KindMessage {
					needs.protoerrors = true
				}
			}
			if m.Shape != ShapeNone && !isByteCollection(m) {
				// Every repeated member's read path gathers elements
				// through codec.ReadNonPackedRepeated/codec.ScalarCodec,
				// whatever its element kind.
				needs.codec = true
				// A repeated message-typed member's write loop raises
				// ErrNullInRepeated on a nil element (spec §7).
				if m.Kind == KindMessage {
					needs.protoerrors = true
				}
			}
			// A direct (non-repeated) narrow-int member goes through
			// codec's overflow-checked narrowing unless FixedSize
			// truncation (spec §4.2) is in effect, which never
			// overflow-checks. Repeated narrow-int members are already
			// covered by the Shape branch above via elemScalarCodecInline.
			if m.Shape == ShapeNone && isNarrowInt(m.Kind) && m.DataFormat != FormatFixedSize {
				needs.codec = true
			}
		}
		if n := g.Node(c.FullName); n != nil && len(n.children) > 0 {
			needs.fmt = true
			// Every dispatch site's Read*Content raises ErrTypeMismatch if
			// the wire bytes carry a second ProtoInclude field for the
			// same polymorphic slot, and an abstract root's
			// further raises ErrPolymorphismFirst.
			needs.protoerrors = true
		}
	}
	return needs
}

// GenerateAll emits one File per namespace in b, running the
// per-namespace passes concurrently (spec §3: "namespace emission is
// embarrassingly parallel, one goroutine per namespace via
// golang.org/x/sync/errgroup"). Namespaces are returned sorted by name
// for deterministic ordering regardless of goroutine completion order.
func GenerateAll(b *Batch) ([]*File, error) {
	g, err := BuildGraph(b)
	if err != nil {
		return nil, err
	}

	byNS := b.ByNamespace()
	namespaces := make([]string, 0, len(byNS))
	for ns := range byNS {
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)

	return generateConcurrently(g, byNS, namespaces)
}
