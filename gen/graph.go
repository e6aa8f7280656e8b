// Copyright 2024 The protonet Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gen

import (
	"fmt"
	"sort"

	protoerrors "protonet.example/protonet/internal/errors"
)

// maxHierarchyDepth is the deepest inheritance chain this generator
// supports (spec §4.4): the root counts as depth 1, so A<-B<-C is depth
// 3 and is the deepest legal chain.
const maxHierarchyDepth = 3

// node is one contract's position in the inheritance forest, computed
// once per generation run (spec §9's "avoid quadratic walks": every
// lookup below is an O(1) map access, not a re-walk of the chain).
type node struct {
	contract *Contract
	parent   *node   // nil at a hierarchy root
	children []*node // direct ProtoInclude targets
	// includeField is the field id under which this node is wrapped by
	// its parent; meaningless (0) at a root.
	includeField int32
	depth        int // 1 at a root
}

// Graph is the validated inheritance/type graph over one Batch, ready to
// drive emission.
type Graph struct {
	batch    *Batch
	byName   map[string]*Contract
	nodes    map[string]*node // keyed by Contract.FullName
	roots    []*node
}

// BuildGraph validates a Batch against the invariants of spec §3 and
// §4.4 and returns the resulting Graph, or the full list of diagnostics
// found (generation continues past the first bad contract, so one run
// reports every defect in the batch, not just the first).
func BuildGraph(b *Batch) (*Graph, error) {
	g := &Graph{
		batch:  b,
		byName: b.byName(),
		nodes:  make(map[string]*node, len(b.Contracts)),
	}

	var diags protoerrors.Diagnostics

	for i := range b.Contracts {
		c := &b.Contracts[i]
		g.nodes[c.FullName] = &node{contract: c}
	}

	// Parent/child edges, invariant 2 (derived must be declared) and
	// invariant 3 (forest: no cycles, no multi-parenting).
	for i := range b.Contracts {
		base := &b.Contracts[i]
		seenDerived := map[string]bool{}
		for _, inc := range base.Includes {
			if seenDerived[inc.Derived] {
				diags = append(diags, &protoerrors.Diagnostic{
					Contract: base.FullName,
					Reason:   fmt.Sprintf("ProtoInclude(%d -> %s) duplicates an edge already declared to the same derived contract", inc.FieldID, inc.Derived),
				})
				continue
			}
			seenDerived[inc.Derived] = true

			dn, ok := g.nodes[inc.Derived]
			if !ok {
				diags = append(diags, &protoerrors.Diagnostic{
					Contract: base.FullName,
					Reason:   fmt.Sprintf("ProtoInclude(%d) references %q, which has no contract declaration", inc.FieldID, inc.Derived),
				})
				continue
			}
			if dn.parent != nil {
				diags = append(diags, &protoerrors.Diagnostic{
					Contract: inc.Derived,
					Reason:   fmt.Sprintf("is named as a derived contract by both %q and %q (multi-parenting is forbidden)", dn.parent.contract.FullName, base.FullName),
				})
				continue
			}
			bn := g.nodes[base.FullName]
			dn.parent = bn
			dn.includeField = inc.FieldID
			bn.children = append(bn.children, dn)
		}
	}

	// Field-id collisions: invariant 4 (two members on the same contract
	// never share a field id) plus ProtoInclude/member collisions, both
	// within one contract; ids reused across inheritance levels are not
	// checked.
	for i := range b.Contracts {
		c := &b.Contracts[i]
		seen := map[int32]string{}
		for _, inc := range c.Includes {
			if other, ok := seen[inc.FieldID]; ok {
				diags = append(diags, &protoerrors.Diagnostic{
					Contract: c.FullName,
					Reason:   fmt.Sprintf("field id %d is used by both ProtoInclude(%s) and %s", inc.FieldID, inc.Derived, other),
				})
			}
			seen[inc.FieldID] = "ProtoInclude(" + inc.Derived + ")"
		}
		for _, m := range c.Members {
			if other, ok := seen[m.FieldID]; ok {
				diags = append(diags, &protoerrors.Diagnostic{
					Contract: c.FullName,
					Member:   m.Name,
					Reason:   fmt.Sprintf("field id %d collides with %s", m.FieldID, other),
				})
			}
			seen[m.FieldID] = "member " + m.Name
		}
	}

	// Depth and acyclicity: walk from every node with no parent; any node
	// never reached by this walk is part of a cycle.
	visited := map[string]bool{}
	for _, n := range g.nodes {
		if n.parent == nil {
			n.depth = 1
			g.roots = append(g.roots, n)
			diags = append(diags, g.assignDepths(n, visited)...)
		}
	}
	for _, n := range g.nodes {
		if !visited[n.contract.FullName] {
			diags = append(diags, &protoerrors.Diagnostic{
				Contract: n.contract.FullName,
				Reason:   "is part of a cycle in the inheritance graph",
			})
		}
	}

	// Stable root order so repeated runs over the same Batch produce
	// byte-identical output regardless of map iteration order.
	sort.Slice(g.roots, func(i, j int) bool {
		return g.roots[i].contract.FullName < g.roots[j].contract.FullName
	})

	if len(diags) > 0 {
		return nil, diags
	}
	return g, nil
}

func (g *Graph) assignDepths(n *node, visited map[string]bool) protoerrors.Diagnostics {
	if visited[n.contract.FullName] {
		return nil
	}
	visited[n.contract.FullName] = true
	var diags protoerrors.Diagnostics
	if n.depth > maxHierarchyDepth {
		diags = append(diags, &protoerrors.Diagnostic{
			Contract: n.contract.FullName,
			Reason:   protoerrors.ErrHierarchyTooDeep,
		})
	}
	sort.Slice(n.children, func(i, j int) bool {
		return n.children[i].contract.FullName < n.children[j].contract.FullName
	})
	for _, child := range n.children {
		child.depth = n.depth + 1
		diags = append(diags, g.assignDepths(child, visited)...)
	}
	return diags
}

// isPolymorphic reports whether a contract's Read*Content must run the
// ProtoInclude dispatch loop: either it declares its own Includes, or
// some ancestor/descendant relationship makes it reachable as a derived
// type.
func (n *node) isPolymorphic() bool {
	return len(n.contract.Includes) > 0 || n.parent != nil
}

// root returns the ultimate base of a contract's chain (itself, if it is
// already a root).
func (n *node) root() *node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// Node looks up a contract's graph node by full name.
func (g *Graph) Node(fullName string) *node { return g.nodes[fullName] }

// Contracts returns every contract in the graph, stable-sorted by full
// name, for deterministic iteration during emission.
func (g *Graph) Contracts() []*Contract {
	out := make([]*Contract, 0, len(g.batch.Contracts))
	for i := range g.batch.Contracts {
		out = append(out, &g.batch.Contracts[i])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out
}
